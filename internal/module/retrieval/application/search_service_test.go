package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	retrievaldomain "github.com/maturion/genesis-forge/internal/module/retrieval/domain"
)

// recordingSearcher は受け取ったオプションを記録するテスト用Searcher
type recordingSearcher struct {
	lastQuery   string
	lastOrgID   uuid.UUID
	lastOptions retrievaldomain.SearchOptions
	response    *retrievaldomain.SearchResponse
	err         error
}

func (r *recordingSearcher) Search(_ context.Context, query string, orgID uuid.UUID, options retrievaldomain.SearchOptions) (*retrievaldomain.SearchResponse, error) {
	r.lastQuery = query
	r.lastOrgID = orgID
	r.lastOptions = options
	if r.err != nil {
		return nil, r.err
	}
	return r.response, nil
}

func TestSearchContext_AppliesPolicyDefaults(t *testing.T) {
	searcher := &recordingSearcher{
		response: &retrievaldomain.SearchResponse{SearchType: retrievaldomain.SearchTypeSemantic},
	}
	svc := NewSearchService(searcher, PolicyDefaults{
		SimilarityThreshold: 0.75,
		DefaultLimit:        20,
		CandidateLimit:      100,
	}, nil)

	orgID := uuid.New()
	_, err := svc.SearchContext(context.Background(), SearchContextParams{
		OrgID: orgID,
		Query: "  data retention  ",
	})
	require.NoError(t, err)

	// クエリはトリムされ、既定値が適用される
	assert.Equal(t, "data retention", searcher.lastQuery)
	assert.Equal(t, orgID, searcher.lastOrgID)
	assert.Equal(t, 20, searcher.lastOptions.Limit)
	assert.Equal(t, 0.75, searcher.lastOptions.SimilarityThreshold)
	assert.Equal(t, 100, searcher.lastOptions.CandidateLimit)
}

func TestSearchContext_ClampsLimit(t *testing.T) {
	searcher := &recordingSearcher{response: &retrievaldomain.SearchResponse{}}
	svc := NewSearchService(searcher, PolicyDefaults{}, nil)

	_, err := svc.SearchContext(context.Background(), SearchContextParams{
		OrgID: uuid.New(),
		Query: "query",
		Limit: 500,
	})
	require.NoError(t, err)
	assert.Equal(t, maxSearchLimit, searcher.lastOptions.Limit)
}

func TestSearchContext_CallerThresholdOverridesPolicy(t *testing.T) {
	searcher := &recordingSearcher{response: &retrievaldomain.SearchResponse{}}
	svc := NewSearchService(searcher, PolicyDefaults{SimilarityThreshold: 0.7}, nil)

	_, err := svc.SearchContext(context.Background(), SearchContextParams{
		OrgID:               uuid.New(),
		Query:               "query",
		SimilarityThreshold: 0.9,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.9, searcher.lastOptions.SimilarityThreshold)
}

func TestSearchContext_Validation(t *testing.T) {
	searcher := &recordingSearcher{response: &retrievaldomain.SearchResponse{}}
	svc := NewSearchService(searcher, PolicyDefaults{}, nil)

	_, err := svc.SearchContext(context.Background(), SearchContextParams{
		OrgID: uuid.New(),
		Query: "   ",
	})
	assert.ErrorIs(t, err, retrievaldomain.ErrEmptyQuery)

	_, err = svc.SearchContext(context.Background(), SearchContextParams{
		Query: "query",
	})
	assert.ErrorIs(t, err, retrievaldomain.ErrMissingScope)
}
