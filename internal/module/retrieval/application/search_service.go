package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	retrievaldomain "github.com/maturion/genesis-forge/internal/module/retrieval/domain"
)

const maxSearchLimit = 50

// PolicyDefaults は設定由来の検索ポリシー既定値です
type PolicyDefaults struct {
	SimilarityThreshold float64
	DefaultLimit        int
	CandidateLimit      int
}

// SearchService は検索のユースケースを提供します
type SearchService struct {
	searcher retrievaldomain.Searcher
	policy   PolicyDefaults
	log      *slog.Logger
}

// NewSearchService は新しいSearchServiceを作成します
func NewSearchService(searcher retrievaldomain.Searcher, policy PolicyDefaults, log *slog.Logger) *SearchService {
	if policy.SimilarityThreshold == 0 {
		policy.SimilarityThreshold = retrievaldomain.DefaultSimilarityThreshold
	}
	if policy.DefaultLimit <= 0 {
		policy.DefaultLimit = retrievaldomain.DefaultLimit
	}
	if policy.CandidateLimit <= 0 {
		policy.CandidateLimit = retrievaldomain.DefaultCandidateLimit
	}
	if log == nil {
		log = slog.Default()
	}

	return &SearchService{
		searcher: searcher,
		policy:   policy,
		log:      log,
	}
}

// SearchContextParams はコンテキスト検索のパラメータ
type SearchContextParams struct {
	OrgID               uuid.UUID
	Query               string
	DocumentTypes       []string
	Limit               int
	SimilarityThreshold float64
	AllowScopeWidening  bool
	PrincipalID         uuid.UUID
}

// SearchContext は組織スコープでセマンティック検索を実行します
func (s *SearchService) SearchContext(ctx context.Context, params SearchContextParams) (*retrievaldomain.SearchResponse, error) {
	// バリデーション
	query := strings.TrimSpace(params.Query)
	if query == "" {
		return nil, retrievaldomain.ErrEmptyQuery
	}
	if params.OrgID == uuid.Nil {
		return nil, retrievaldomain.ErrMissingScope
	}

	// Limit の正規化
	limit := params.Limit
	if limit <= 0 {
		limit = s.policy.DefaultLimit
	} else if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	threshold := params.SimilarityThreshold
	if threshold == 0 {
		threshold = s.policy.SimilarityThreshold
	}

	options := retrievaldomain.SearchOptions{
		DocumentTypes:       params.DocumentTypes,
		Limit:               limit,
		SimilarityThreshold: threshold,
		CandidateLimit:      s.policy.CandidateLimit,
		AllowScopeWidening:  params.AllowScopeWidening,
		PrincipalID:         params.PrincipalID,
	}

	s.log.Info("starting context search",
		"orgID", params.OrgID,
		"limit", limit,
		"threshold", threshold,
	)

	response, err := s.searcher.Search(ctx, query, params.OrgID, options)
	if err != nil {
		s.log.Error("context search failed",
			"orgID", params.OrgID,
			"error", err,
		)
		return nil, fmt.Errorf("failed to search context: %w", err)
	}

	s.log.Info("context search completed",
		"orgID", params.OrgID,
		"results", len(response.Results),
		"searchType", response.SearchType,
		"scopeWidened", response.ScopeWidened,
	)

	return response, nil
}
