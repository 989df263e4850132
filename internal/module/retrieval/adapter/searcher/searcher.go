package searcher

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	retrievaldomain "github.com/maturion/genesis-forge/internal/module/retrieval/domain"
)

// searcher はセマンティック検索を実行します（小文字で domain.Searcher の実装を隠蔽）
type searcher struct {
	chunks   retrievaldomain.ChunkReader
	members  retrievaldomain.MembershipReader
	audit    retrievaldomain.AuditWriter
	embedder retrievaldomain.Embedder
	logger   *slog.Logger
}

// NewSearcher は検索用の構造体を生成します。
// membersはスコープ拡大を使わない構成ではnil可、auditもnil可（記録なし）。
func NewSearcher(
	chunks retrievaldomain.ChunkReader,
	members retrievaldomain.MembershipReader,
	audit retrievaldomain.AuditWriter,
	embedder retrievaldomain.Embedder,
) retrievaldomain.Searcher {
	if chunks == nil {
		panic("searcher.NewSearcher: chunk reader is nil")
	}
	if embedder == nil {
		panic("searcher.NewSearcher: embedder is nil")
	}

	return &searcher{
		chunks:   chunks,
		members:  members,
		audit:    audit,
		embedder: embedder,
		logger:   slog.Default(),
	}
}

// SetLogger はカスタムロガーを設定します（nil の場合は無視）
func (s *searcher) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Search は domain.Searcher の実装です。
//
//  1. クエリのEmbeddingを1回だけ生成（失敗は検索全体の失敗）
//  2. 組織スコープで候補チャンクを取得（上限あり）
//  3. 候補ゼロならオプトイン時のみ所属組織へスコープ拡大
//  4. 候補ごとに保存Embeddingを正規化し、不正なものは記録してスキップ
//  5. コサイン類似度で閾値フィルタ・降順整列・件数制限
//  6. 解釈可能なEmbeddingが1つも無かった場合のみテキスト検索へ構造的フォールバック
//  7. 監査レコードをベストエフォートで記録
func (s *searcher) Search(ctx context.Context, query string, orgID uuid.UUID, options retrievaldomain.SearchOptions) (*retrievaldomain.SearchResponse, error) {
	if strings.TrimSpace(query) == "" {
		return nil, retrievaldomain.ErrEmptyQuery
	}
	if orgID == uuid.Nil {
		return nil, retrievaldomain.ErrMissingScope
	}

	opts := options.Normalize()

	// クエリのベクトル化。失敗は「結果0件」と区別される致命エラーで、
	// テキストフォールバックには切り替えない。
	queryVector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", retrievaldomain.ErrEmbeddingUnavailable, err)
	}

	filter := retrievaldomain.CandidateFilter{
		DocumentTypes: opts.DocumentTypes,
		Limit:         opts.CandidateLimit,
	}

	scopeIDs := []uuid.UUID{orgID}
	candidates, err := s.chunks.ListEmbeddedCandidates(ctx, scopeIDs, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate chunks: %w", err)
	}

	// スコープ拡大フォールバック: 主スコープに候補が無く、呼び出し側が
	// 明示的に許可した場合のみ所属組織全体で再取得する。
	scopeWidened := false
	if len(candidates) == 0 && opts.AllowScopeWidening && opts.PrincipalID != uuid.Nil && s.members != nil {
		widenedIDs, err := s.widenScope(ctx, orgID, opts.PrincipalID)
		if err != nil {
			// ベストエフォート: 拡大に失敗しても主スコープの結果（空）で続行
			s.logger.Warn("scope widening failed", "orgID", orgID, "error", err)
		} else if len(widenedIDs) > 1 {
			candidates, err = s.chunks.ListEmbeddedCandidates(ctx, widenedIDs, filter)
			if err != nil {
				return nil, fmt.Errorf("failed to load widened candidate chunks: %w", err)
			}
			scopeIDs = widenedIDs
			scopeWidened = true
		}
	}

	results, usable := s.rank(queryVector, candidates, opts)

	searchType := retrievaldomain.SearchTypeSemantic
	if usable == 0 {
		// 解釈可能なEmbeddingが構造的に存在しない場合のみテキスト検索に劣化する。
		// 「全候補が閾値未満」は空の成功であり、ここには到達しない。
		textResults, err := s.textFallback(ctx, scopeIDs, query, opts)
		if err != nil {
			return nil, err
		}
		results = textResults
		searchType = retrievaldomain.SearchTypeText
	}

	s.recordAudit(ctx, orgID, query, len(results), searchType, scopeWidened)

	return &retrievaldomain.SearchResponse{
		Results:      results,
		SearchType:   searchType,
		ScopeWidened: scopeWidened,
	}, nil
}

// rank は候補チャンクを類似度で評価し、閾値以上を降順で返します。
// 戻り値のusableは解釈できたEmbeddingの数です。
func (s *searcher) rank(queryVector []float32, candidates []*retrievaldomain.DocumentChunk, opts retrievaldomain.SearchOptions) ([]*retrievaldomain.SearchResult, int) {
	results := make([]*retrievaldomain.SearchResult, 0, len(candidates))
	usable := 0

	for _, chunk := range candidates {
		vector, err := chunk.Embedding.Vector()
		if err != nil {
			// 破損した候補は除外して他の候補の処理を続ける
			s.logger.Warn("skipping chunk with malformed embedding",
				"chunkID", chunk.ID, "documentID", chunk.DocumentID, "error", err)
			continue
		}
		usable++

		similarity := retrievaldomain.CosineSimilarity(queryVector, vector)
		if similarity < opts.SimilarityThreshold {
			continue
		}

		results = append(results, &retrievaldomain.SearchResult{
			ChunkID:      chunk.ID,
			DocumentID:   chunk.DocumentID,
			DocumentName: chunk.DocumentName,
			DocumentType: chunk.DocumentType,
			Content:      chunk.Content,
			Similarity:   similarity,
			Metadata:     chunk.Metadata,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if len(results) > opts.Limit {
		results = results[:opts.Limit]
	}

	return results, usable
}

// textFallback は本文の部分一致検索で結果を構築します。
// 全件に固定の名目類似度を付与し、意味検索と誤認されないようにします。
func (s *searcher) textFallback(ctx context.Context, orgIDs []uuid.UUID, query string, opts retrievaldomain.SearchOptions) ([]*retrievaldomain.SearchResult, error) {
	filter := retrievaldomain.CandidateFilter{
		DocumentTypes: opts.DocumentTypes,
		Limit:         opts.Limit,
	}

	matches, err := s.chunks.ListTextMatches(ctx, orgIDs, query, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to run text fallback search: %w", err)
	}

	results := make([]*retrievaldomain.SearchResult, 0, len(matches))
	for _, chunk := range matches {
		results = append(results, &retrievaldomain.SearchResult{
			ChunkID:      chunk.ID,
			DocumentID:   chunk.DocumentID,
			DocumentName: chunk.DocumentName,
			DocumentType: chunk.DocumentType,
			Content:      chunk.Content,
			Similarity:   retrievaldomain.TextFallbackSimilarity,
			Metadata:     chunk.Metadata,
		})
	}

	return results, nil
}

// widenScope はプリンシパルの所属組織IDを解決します。主スコープは必ず含めます。
func (s *searcher) widenScope(ctx context.Context, orgID, principalID uuid.UUID) ([]uuid.UUID, error) {
	memberOrgIDs, err := s.members.ListOrganizationIDs(ctx, principalID)
	if err != nil {
		return nil, err
	}

	ids := []uuid.UUID{orgID}
	for _, id := range memberOrgIDs {
		if id != orgID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// recordAudit は監査レコードをベストエフォートで記録します。
// 失敗はログに残すのみで、検索本体の成功を妨げません。
func (s *searcher) recordAudit(ctx context.Context, orgID uuid.UUID, query string, resultCount int, searchType retrievaldomain.SearchType, scopeWidened bool) {
	if s.audit == nil {
		return
	}

	entry := retrievaldomain.AuditEntry{
		ID:           uuid.New(),
		OrgID:        orgID,
		Query:        query,
		ResultCount:  resultCount,
		SearchType:   searchType,
		ScopeWidened: scopeWidened,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.audit.RecordSearch(ctx, entry); err != nil {
		s.logger.Warn("failed to record search audit entry",
			"orgID", orgID, "error", err)
	}
}
