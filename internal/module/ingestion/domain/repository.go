package domain

import (
	"context"

	"github.com/google/uuid"
)

// DocumentRepository はドキュメントとチャンクの永続化ポートです
type DocumentRepository interface {
	// InsertDocument はドキュメントを新規登録します
	InsertDocument(ctx context.Context, doc Document) error

	// UpdateDocumentStatus は取り込み状態を更新します
	UpdateDocumentStatus(ctx context.Context, documentID uuid.UUID, status DocumentStatus, chunkCount int, failureReason string) error

	// GetDocument はドキュメントを1件取得します。存在しない場合はErrDocumentNotFound。
	GetDocument(ctx context.Context, orgID, documentID uuid.UUID) (*Document, error)

	// ListDocuments は組織のドキュメント一覧を返します
	ListDocuments(ctx context.Context, orgID uuid.UUID) ([]Document, error)

	// ReplaceChunks はドキュメントの全チャンクを単一トランザクションで
	// 削除してから挿入します。部分的な置き換え状態は外部から観測されません。
	ReplaceChunks(ctx context.Context, documentID uuid.UUID, chunks []ChunkRecord) error
}

// Chunker はテキストをチャンク列に分割するポートです
type Chunker interface {
	Split(text string) ([]string, error)
}

// Extractor はファイル内容からプレーンテキストを抽出するポートです
type Extractor interface {
	Extract(filename string, data []byte) (string, error)
}

// BatchEmbedder はチャンク列の埋め込みを一括生成するポートです
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) ([][]float32, error)
	MaxBatchSize() int
}
