package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultSimilarityThreshold はコサイン類似度の既定下限
	DefaultSimilarityThreshold = 0.7
	// DefaultLimit は返却件数の既定値
	DefaultLimit = 10
	// DefaultCandidateLimit は候補チャンク取得数の既定上限（コスト抑制）
	DefaultCandidateLimit = 100
	// TextFallbackSimilarity はテキストフォールバック時に付与する名目類似度
	TextFallbackSimilarity = 0.8
)

// SearchType は検索モードを表します。テキストフォールバックに劣化した
// 結果を呼び出し側が区別できるよう、レスポンスに必ず付与されます。
type SearchType string

const (
	// SearchTypeSemantic はEmbeddingベースの意味検索
	SearchTypeSemantic SearchType = "semantic"
	// SearchTypeText は部分文字列一致によるフォールバック検索
	SearchTypeText SearchType = "text"
)

// SearchOptions は検索の調整パラメータです。
// 認識されるキーと既定値をすべて列挙した明示的な設定型であり、
// 未設定項目にはNormalizeで既定値が入ります。
type SearchOptions struct {
	// DocumentTypes はドキュメント種別タグによる絞り込み（空なら全種別）
	DocumentTypes []string
	// Limit は返却件数の上限（0以下なら既定値10）
	Limit int
	// SimilarityThreshold は類似度の下限（0なら既定値0.7）
	SimilarityThreshold float64
	// CandidateLimit は候補取得数の上限（0以下なら既定値100）
	CandidateLimit int

	// AllowScopeWidening は主スコープに候補が無い場合に、PrincipalIDが
	// 所属する組織まで検索範囲を広げることを許可します。
	// データ分離境界を越える動作のため明示的なオプトインが必須で、
	// PrincipalIDが未設定の場合は無効です。
	AllowScopeWidening bool
	PrincipalID        uuid.UUID
}

// Normalize は未設定のオプションに既定値を適用した複製を返します
func (o SearchOptions) Normalize() SearchOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.SimilarityThreshold == 0 {
		o.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if o.CandidateLimit <= 0 {
		o.CandidateLimit = DefaultCandidateLimit
	}
	return o
}

// SearchResult は検索結果の1件です。永続化されず、クエリごとに生成されます。
type SearchResult struct {
	ChunkID      uuid.UUID      `json:"chunkId"`
	DocumentID   uuid.UUID      `json:"documentId"`
	DocumentName string         `json:"documentName"`
	DocumentType string         `json:"documentType"`
	Content      string         `json:"content"`
	Similarity   float64        `json:"similarity"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// SearchResponse は検索レスポンスです。結果は類似度降順に整列されます。
type SearchResponse struct {
	Results []*SearchResult `json:"results"`
	// SearchType はセマンティック検索かテキストフォールバックかを示します
	SearchType SearchType `json:"searchType"`
	// ScopeWidened はスコープ拡大フォールバックが実行されたことを示します
	ScopeWidened bool `json:"scopeWidened"`
}

// AuditEntry は検索アクセスの監査レコードです。
// 記録は副作用であり、失敗しても検索本体を失敗させません。
type AuditEntry struct {
	ID           uuid.UUID
	OrgID        uuid.UUID
	Query        string
	ResultCount  int
	SearchType   SearchType
	ScopeWidened bool
	CreatedAt    time.Time
}
