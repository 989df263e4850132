package domain

import (
	"time"

	"github.com/google/uuid"
)

// MinChunkChars はインデックス対象とするチャンク本文の最小文字数です。
// これ未満のチャンクは取り込み時に破棄されます。
const MinChunkChars = 50

// DocumentChunk は抽出済みドキュメント本文の連続した断片です。
// 取り込み時に作成された後は不変で、親ドキュメントの削除・再処理時に
// まとめて削除されます。
type DocumentChunk struct {
	ID         uuid.UUID
	DocumentID uuid.UUID
	OrgID      uuid.UUID
	Ordinal    int
	Content    string
	Embedding  StoredEmbedding
	Metadata   map[string]any
	CreatedAt  time.Time

	// 検索結果表示用に結合して取得する親ドキュメント情報
	DocumentName string
	DocumentType string
}

// StoredEmbedding は保存形式の揺れを吸収するタグ付きユニオンです。
// 過去データは区切り文字列（"[0.1,0.2,...]"）、新規データはネイティブ配列で
// 保存されているため、ストレージ境界で単一のベクトル型に正規化します。
type StoredEmbedding struct {
	// Raw は文字列表現で保存されていた場合の生の値
	Raw string
	// Values はネイティブ配列で保存されていた場合の値
	Values []float32
}

// NewStoredEmbeddingFromRaw は文字列表現のStoredEmbeddingを作成します
func NewStoredEmbeddingFromRaw(raw string) StoredEmbedding {
	return StoredEmbedding{Raw: raw}
}

// NewStoredEmbeddingFromValues は配列表現のStoredEmbeddingを作成します
func NewStoredEmbeddingFromValues(values []float32) StoredEmbedding {
	return StoredEmbedding{Values: values}
}

// IsZero はEmbeddingが保存されていないことを表します
func (e StoredEmbedding) IsZero() bool {
	return e.Raw == "" && len(e.Values) == 0
}

// Vector はどちらの保存形式でも単一のベクトル型に正規化して返します。
// 不正な表現はErrMalformedEmbeddingを返します。
func (e StoredEmbedding) Vector() ([]float32, error) {
	if len(e.Values) > 0 {
		return e.Values, nil
	}
	if e.Raw == "" {
		return nil, ErrMalformedEmbedding
	}
	return ParseVector(e.Raw)
}
