package domain

import (
	"context"

	"github.com/google/uuid"
)

// FrameworkRepository はフレームワークの永続化ポートです
type FrameworkRepository interface {
	// InsertFramework はフレームワーク全体（ドメイン・基準含む）を
	// 単一トランザクションで保存します
	InsertFramework(ctx context.Context, framework Framework) error

	// GetFramework はフレームワークをドメイン・基準込みで取得します
	GetFramework(ctx context.Context, orgID, frameworkID uuid.UUID) (*Framework, error)

	// ListFrameworks は組織のフレームワーク一覧（ドメインなし）を返します
	ListFrameworks(ctx context.Context, orgID uuid.UUID) ([]Framework, error)
}

// ContextRetriever は組織ドキュメントから生成用コンテキストを取得するポートです
type ContextRetriever interface {
	RetrieveContext(ctx context.Context, orgID uuid.UUID, query string) ([]string, error)
}

// CompletionClient はチャット補完を生成するポートです
type CompletionClient interface {
	Complete(ctx context.Context, systemPrompt, prompt string) (string, error)
}
