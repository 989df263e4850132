package searcher

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	retrievaldomain "github.com/maturion/genesis-forge/internal/module/retrieval/domain"
)

// fakeChunkReader はスコープ数に応じて候補を出し分けるテスト用リーダー
type fakeChunkReader struct {
	primary  []*retrievaldomain.DocumentChunk
	widened  []*retrievaldomain.DocumentChunk
	textHits []*retrievaldomain.DocumentChunk

	candidateErr error
	textErr      error
	textCalls    int
}

func (f *fakeChunkReader) ListEmbeddedCandidates(_ context.Context, orgIDs []uuid.UUID, _ retrievaldomain.CandidateFilter) ([]*retrievaldomain.DocumentChunk, error) {
	if f.candidateErr != nil {
		return nil, f.candidateErr
	}
	if len(orgIDs) > 1 {
		return f.widened, nil
	}
	return f.primary, nil
}

func (f *fakeChunkReader) ListTextMatches(_ context.Context, _ []uuid.UUID, _ string, _ retrievaldomain.CandidateFilter) ([]*retrievaldomain.DocumentChunk, error) {
	f.textCalls++
	if f.textErr != nil {
		return nil, f.textErr
	}
	return f.textHits, nil
}

type fakeEmbedder struct {
	vector []float32
	err    error
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

type fakeMembers struct {
	orgIDs []uuid.UUID
	err    error
	calls  int
}

func (f *fakeMembers) ListOrganizationIDs(_ context.Context, _ uuid.UUID) ([]uuid.UUID, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.orgIDs, nil
}

type fakeAudit struct {
	entries []retrievaldomain.AuditEntry
	err     error
}

func (f *fakeAudit) RecordSearch(_ context.Context, entry retrievaldomain.AuditEntry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

// chunkWithSimilarity はクエリベクトル[1,0]に対して指定のコサイン類似度を
// 持つ単位ベクトルのチャンクを作ります
func chunkWithSimilarity(orgID uuid.UUID, similarity float64) *retrievaldomain.DocumentChunk {
	y := math.Sqrt(1 - similarity*similarity)
	return &retrievaldomain.DocumentChunk{
		ID:           uuid.New(),
		DocumentID:   uuid.New(),
		OrgID:        orgID,
		Content:      "chunk content",
		DocumentName: "policy.pdf",
		DocumentType: "policy",
		Embedding:    retrievaldomain.NewStoredEmbeddingFromValues([]float32{float32(similarity), float32(y)}),
	}
}

func TestSearch_RanksAndFiltersByThreshold(t *testing.T) {
	orgID := uuid.New()
	chunks := &fakeChunkReader{
		primary: []*retrievaldomain.DocumentChunk{
			chunkWithSimilarity(orgID, 0.3),
			chunkWithSimilarity(orgID, 0.9),
			chunkWithSimilarity(orgID, 0.72),
			chunkWithSimilarity(orgID, 0.1),
			chunkWithSimilarity(orgID, 0.85),
		},
	}
	audit := &fakeAudit{}
	s := NewSearcher(chunks, nil, audit, &fakeEmbedder{vector: []float32{1, 0}})

	resp, err := s.Search(context.Background(), "incident response process", orgID, retrievaldomain.SearchOptions{
		Limit:               10,
		SimilarityThreshold: 0.7,
	})
	require.NoError(t, err)

	// 閾値0.7以上の3件だけが類似度降順で返る
	require.Len(t, resp.Results, 3)
	assert.InDelta(t, 0.9, resp.Results[0].Similarity, 1e-6)
	assert.InDelta(t, 0.85, resp.Results[1].Similarity, 1e-6)
	assert.InDelta(t, 0.72, resp.Results[2].Similarity, 1e-6)
	assert.Equal(t, retrievaldomain.SearchTypeSemantic, resp.SearchType)
	assert.False(t, resp.ScopeWidened)

	for _, result := range resp.Results {
		assert.GreaterOrEqual(t, result.Similarity, 0.7)
	}

	// 監査レコードが記録されている
	require.Len(t, audit.entries, 1)
	assert.Equal(t, orgID, audit.entries[0].OrgID)
	assert.Equal(t, "incident response process", audit.entries[0].Query)
	assert.Equal(t, 3, audit.entries[0].ResultCount)
	assert.Equal(t, retrievaldomain.SearchTypeSemantic, audit.entries[0].SearchType)
}

func TestSearch_AllBelowThresholdReturnsEmptySuccess(t *testing.T) {
	orgID := uuid.New()
	chunks := &fakeChunkReader{
		primary: []*retrievaldomain.DocumentChunk{
			chunkWithSimilarity(orgID, 0.2),
			chunkWithSimilarity(orgID, 0.5),
		},
		textHits: []*retrievaldomain.DocumentChunk{chunkWithSimilarity(orgID, 0)},
	}
	s := NewSearcher(chunks, nil, nil, &fakeEmbedder{vector: []float32{1, 0}})

	resp, err := s.Search(context.Background(), "query", orgID, retrievaldomain.SearchOptions{})
	require.NoError(t, err)

	// 全候補が閾値未満なのは空の成功であり、テキストフォールバックには落ちない
	assert.Empty(t, resp.Results)
	assert.Equal(t, retrievaldomain.SearchTypeSemantic, resp.SearchType)
	assert.Equal(t, 0, chunks.textCalls)
}

func TestSearch_LimitCapsResults(t *testing.T) {
	orgID := uuid.New()
	chunks := &fakeChunkReader{
		primary: []*retrievaldomain.DocumentChunk{
			chunkWithSimilarity(orgID, 0.95),
			chunkWithSimilarity(orgID, 0.9),
			chunkWithSimilarity(orgID, 0.85),
		},
	}
	s := NewSearcher(chunks, nil, nil, &fakeEmbedder{vector: []float32{1, 0}})

	resp, err := s.Search(context.Background(), "query", orgID, retrievaldomain.SearchOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.InDelta(t, 0.95, resp.Results[0].Similarity, 1e-6)
	assert.InDelta(t, 0.9, resp.Results[1].Similarity, 1e-6)
}

func TestSearch_MalformedEmbeddingSkipped(t *testing.T) {
	orgID := uuid.New()
	broken := &retrievaldomain.DocumentChunk{
		ID:        uuid.New(),
		OrgID:     orgID,
		Content:   "broken",
		Embedding: retrievaldomain.NewStoredEmbeddingFromRaw("[0.1,not-a-number]"),
	}
	chunks := &fakeChunkReader{
		primary: []*retrievaldomain.DocumentChunk{
			broken,
			chunkWithSimilarity(orgID, 0.9),
		},
	}
	s := NewSearcher(chunks, nil, nil, &fakeEmbedder{vector: []float32{1, 0}})

	resp, err := s.Search(context.Background(), "query", orgID, retrievaldomain.SearchOptions{})
	require.NoError(t, err)

	// 破損候補は除外され、他の候補は影響を受けない。セマンティックモードを維持。
	require.Len(t, resp.Results, 1)
	assert.Equal(t, retrievaldomain.SearchTypeSemantic, resp.SearchType)
	assert.NotEqual(t, broken.ID, resp.Results[0].ChunkID)
}

func TestSearch_TextFallbackWhenNoUsableEmbeddings(t *testing.T) {
	orgID := uuid.New()
	textHit := &retrievaldomain.DocumentChunk{
		ID:           uuid.New(),
		DocumentID:   uuid.New(),
		OrgID:        orgID,
		Content:      "access control policy",
		DocumentName: "policy.txt",
		DocumentType: "policy",
	}
	chunks := &fakeChunkReader{
		primary: []*retrievaldomain.DocumentChunk{
			{ID: uuid.New(), OrgID: orgID, Embedding: retrievaldomain.NewStoredEmbeddingFromRaw("garbage")},
		},
		textHits: []*retrievaldomain.DocumentChunk{textHit},
	}
	audit := &fakeAudit{}
	s := NewSearcher(chunks, nil, audit, &fakeEmbedder{vector: []float32{1, 0}})

	resp, err := s.Search(context.Background(), "access control", orgID, retrievaldomain.SearchOptions{})
	require.NoError(t, err)

	// 劣化モードはフラグ付きで返り、全件が固定の名目類似度を持つ
	assert.Equal(t, retrievaldomain.SearchTypeText, resp.SearchType)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, retrievaldomain.TextFallbackSimilarity, resp.Results[0].Similarity)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, retrievaldomain.SearchTypeText, audit.entries[0].SearchType)
}

func TestSearch_EmptyCandidateSetReturnsEmpty(t *testing.T) {
	orgID := uuid.New()
	chunks := &fakeChunkReader{}
	s := NewSearcher(chunks, nil, nil, &fakeEmbedder{vector: []float32{1, 0}})

	resp, err := s.Search(context.Background(), "query", orgID, retrievaldomain.SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
}

func TestSearch_EmbedderFailureIsFatalAndDistinct(t *testing.T) {
	orgID := uuid.New()
	chunks := &fakeChunkReader{
		textHits: []*retrievaldomain.DocumentChunk{chunkWithSimilarity(orgID, 0.9)},
	}
	s := NewSearcher(chunks, nil, nil, &fakeEmbedder{err: errors.New("503 service unavailable")})

	_, err := s.Search(context.Background(), "query", orgID, retrievaldomain.SearchOptions{})
	require.Error(t, err)

	// 「結果0件」とは区別できるエラー種別で、フォールバックにも落ちない
	assert.ErrorIs(t, err, retrievaldomain.ErrEmbeddingUnavailable)
	assert.Equal(t, 0, chunks.textCalls)
}

func TestSearch_AuditFailureDoesNotFailSearch(t *testing.T) {
	orgID := uuid.New()
	chunks := &fakeChunkReader{
		primary: []*retrievaldomain.DocumentChunk{chunkWithSimilarity(orgID, 0.9)},
	}
	audit := &fakeAudit{err: errors.New("audit table unavailable")}
	s := NewSearcher(chunks, nil, audit, &fakeEmbedder{vector: []float32{1, 0}})

	resp, err := s.Search(context.Background(), "query", orgID, retrievaldomain.SearchOptions{})
	require.NoError(t, err)
	assert.Len(t, resp.Results, 1)
}

func TestSearch_ScopeWideningRequiresOptIn(t *testing.T) {
	orgID := uuid.New()
	otherOrgID := uuid.New()
	chunks := &fakeChunkReader{
		widened: []*retrievaldomain.DocumentChunk{chunkWithSimilarity(otherOrgID, 0.9)},
	}
	members := &fakeMembers{orgIDs: []uuid.UUID{orgID, otherOrgID}}
	s := NewSearcher(chunks, members, nil, &fakeEmbedder{vector: []float32{1, 0}})

	// オプトインなし: 所属組織の解決すら行わない
	resp, err := s.Search(context.Background(), "query", orgID, retrievaldomain.SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
	assert.False(t, resp.ScopeWidened)
	assert.Equal(t, 0, members.calls)

	// オプトインあり: 所属組織まで広げて再取得し、フラグを立てる
	resp, err = s.Search(context.Background(), "query", orgID, retrievaldomain.SearchOptions{
		AllowScopeWidening: true,
		PrincipalID:        uuid.New(),
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.True(t, resp.ScopeWidened)
	assert.Equal(t, 1, members.calls)
}

func TestSearch_ValidationErrors(t *testing.T) {
	s := NewSearcher(&fakeChunkReader{}, nil, nil, &fakeEmbedder{vector: []float32{1, 0}})

	_, err := s.Search(context.Background(), "   ", uuid.New(), retrievaldomain.SearchOptions{})
	assert.ErrorIs(t, err, retrievaldomain.ErrEmptyQuery)

	_, err = s.Search(context.Background(), "query", uuid.Nil, retrievaldomain.SearchOptions{})
	assert.ErrorIs(t, err, retrievaldomain.ErrMissingScope)
}
