package domain

import "errors"

var (
	// ErrEmbeddingUnavailable はEmbeddingサービスの呼び出し失敗（非2xx・タイムアウト含む）。
	// 検索全体を失敗させる致命エラーであり、「結果0件」とは区別されます。
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrMalformedEmbedding は保存されたEmbedding表現が解釈できない場合のエラー。
	// 候補単位で記録してスキップされ、リクエスト全体は失敗させません。
	ErrMalformedEmbedding = errors.New("malformed stored embedding")

	// ErrEmptyQuery は検索クエリが空の場合のエラー
	ErrEmptyQuery = errors.New("query is required")

	// ErrMissingScope は組織スコープが指定されていない場合のエラー
	ErrMissingScope = errors.New("organization scope is required")
)
