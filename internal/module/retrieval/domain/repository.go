package domain

import (
	"context"

	"github.com/google/uuid"
)

// CandidateFilter は候補チャンク取得時の絞り込み条件です
type CandidateFilter struct {
	// DocumentTypes はドキュメント種別タグの絞り込み（空なら全種別）
	DocumentTypes []string
	// Limit は取得件数の上限
	Limit int
}

// ChunkReader はチャンクの読み取りポートです
type ChunkReader interface {
	// ListEmbeddedCandidates はEmbeddingが保存されている候補チャンクを
	// 指定組織群のスコープで取得します
	ListEmbeddedCandidates(ctx context.Context, orgIDs []uuid.UUID, filter CandidateFilter) ([]*DocumentChunk, error)

	// ListTextMatches は本文の部分一致（大文字小文字無視）でチャンクを取得します。
	// Embeddingが構造的に存在しない場合のフォールバック専用です。
	ListTextMatches(ctx context.Context, orgIDs []uuid.UUID, query string, filter CandidateFilter) ([]*DocumentChunk, error)
}

// MembershipReader はプリンシパルの所属組織を解決するポートです。
// スコープ拡大フォールバックでのみ使用されます。
type MembershipReader interface {
	ListOrganizationIDs(ctx context.Context, principalID uuid.UUID) ([]uuid.UUID, error)
}

// AuditWriter は検索アクセス監査の書き込みポートです
type AuditWriter interface {
	RecordSearch(ctx context.Context, entry AuditEntry) error
}

// Embedder はクエリテキストをベクトルに変換するポートです
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Searcher はセマンティック検索を実行するインターフェース
type Searcher interface {
	Search(ctx context.Context, query string, orgID uuid.UUID, options SearchOptions) (*SearchResponse, error)
}
