package application

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maturion/genesis-forge/internal/module/ingestion/domain"
)

type fakeDocumentRepository struct {
	inserted      []domain.Document
	statuses      []domain.DocumentStatus
	replaced      [][]domain.ChunkRecord
	replaceErr    error
	lastChunkData int
}

func (f *fakeDocumentRepository) InsertDocument(_ context.Context, doc domain.Document) error {
	f.inserted = append(f.inserted, doc)
	return nil
}

func (f *fakeDocumentRepository) UpdateDocumentStatus(_ context.Context, _ uuid.UUID, status domain.DocumentStatus, chunkCount int, _ string) error {
	f.statuses = append(f.statuses, status)
	f.lastChunkData = chunkCount
	return nil
}

func (f *fakeDocumentRepository) GetDocument(_ context.Context, _, _ uuid.UUID) (*domain.Document, error) {
	return nil, domain.ErrDocumentNotFound
}

func (f *fakeDocumentRepository) ListDocuments(_ context.Context, _ uuid.UUID) ([]domain.Document, error) {
	return nil, nil
}

func (f *fakeDocumentRepository) ReplaceChunks(_ context.Context, _ uuid.UUID, chunks []domain.ChunkRecord) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.replaced = append(f.replaced, chunks)
	return nil
}

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) Extract(_ string, _ []byte) (string, error) {
	return f.text, f.err
}

type fakeChunker struct {
	chunks []string
}

func (f *fakeChunker) Split(_ string) ([]string, error) {
	return f.chunks, nil
}

type fakeBatchEmbedder struct {
	batchSize int
	calls     [][]string
	err       error
}

func (f *fakeBatchEmbedder) BatchEmbed(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.calls = append(f.calls, texts)
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		embeddings[i] = []float32{0.1, 0.2}
	}
	return embeddings, nil
}

func (f *fakeBatchEmbedder) MaxBatchSize() int {
	return f.batchSize
}

func newIngestService(repo *fakeDocumentRepository, ext *fakeExtractor, chk *fakeChunker, emb *fakeBatchEmbedder) *IngestService {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewIngestService(repo, ext, chk, emb, log)
}

func TestIngestDocumentSuccess(t *testing.T) {
	repo := &fakeDocumentRepository{}
	svc := newIngestService(repo,
		&fakeExtractor{text: "extracted text"},
		&fakeChunker{chunks: []string{"chunk one", "chunk two"}},
		&fakeBatchEmbedder{batchSize: 100},
	)

	doc, err := svc.IngestDocument(context.Background(), IngestDocumentParams{
		OrgID:    uuid.New(),
		Filename: "policy.md",
		Type:     "policy",
		Data:     []byte("# Policy"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusReady, doc.Status)
	assert.Equal(t, 2, doc.ChunkCount)
	require.Len(t, repo.replaced, 1)
	require.Len(t, repo.replaced[0], 2)
	assert.Equal(t, 0, repo.replaced[0][0].Ordinal)
	assert.Equal(t, 1, repo.replaced[0][1].Ordinal)
	assert.Equal(t, []domain.DocumentStatus{domain.StatusReady}, repo.statuses)
}

func TestIngestDocumentSplitsEmbeddingBatches(t *testing.T) {
	chunks := make([]string, 5)
	for i := range chunks {
		chunks[i] = "chunk"
	}
	embedder := &fakeBatchEmbedder{batchSize: 2}
	repo := &fakeDocumentRepository{}
	svc := newIngestService(repo,
		&fakeExtractor{text: "text"},
		&fakeChunker{chunks: chunks},
		embedder,
	)

	_, err := svc.IngestDocument(context.Background(), IngestDocumentParams{
		OrgID:    uuid.New(),
		Filename: "doc.txt",
		Type:     "evidence",
		Data:     []byte("data"),
	})
	require.NoError(t, err)

	// 5チャンクはバッチ上限2で 2+2+1 に分割される
	require.Len(t, embedder.calls, 3)
	assert.Len(t, embedder.calls[0], 2)
	assert.Len(t, embedder.calls[2], 1)
}

func TestIngestDocumentRejectsUnknownType(t *testing.T) {
	svc := newIngestService(&fakeDocumentRepository{}, &fakeExtractor{}, &fakeChunker{}, &fakeBatchEmbedder{})

	_, err := svc.IngestDocument(context.Background(), IngestDocumentParams{
		OrgID:    uuid.New(),
		Filename: "doc.txt",
		Type:     "diary",
		Data:     []byte("data"),
	})
	assert.ErrorIs(t, err, domain.ErrUnknownDocumentType)
}

func TestIngestDocumentMarksFailureOnExtractError(t *testing.T) {
	repo := &fakeDocumentRepository{}
	svc := newIngestService(repo,
		&fakeExtractor{err: domain.ErrUnsupportedFormat},
		&fakeChunker{},
		&fakeBatchEmbedder{batchSize: 100},
	)

	doc, err := svc.IngestDocument(context.Background(), IngestDocumentParams{
		OrgID:    uuid.New(),
		Filename: "doc.bin",
		Type:     "policy",
		Data:     []byte("data"),
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)

	require.NotNil(t, doc)
	assert.Equal(t, domain.StatusFailed, doc.Status)
	assert.NotEmpty(t, doc.FailureReason)
	assert.Equal(t, []domain.DocumentStatus{domain.StatusFailed}, repo.statuses)
	assert.Empty(t, repo.replaced)
}

func TestIngestDocumentMarksFailureOnEmbedError(t *testing.T) {
	repo := &fakeDocumentRepository{}
	embedErr := errors.New("embedding api down")
	svc := newIngestService(repo,
		&fakeExtractor{text: "text"},
		&fakeChunker{chunks: []string{"chunk"}},
		&fakeBatchEmbedder{batchSize: 100, err: embedErr},
	)

	doc, err := svc.IngestDocument(context.Background(), IngestDocumentParams{
		OrgID:    uuid.New(),
		Filename: "doc.txt",
		Type:     "policy",
		Data:     []byte("data"),
	})
	assert.ErrorIs(t, err, embedErr)
	assert.Equal(t, domain.StatusFailed, doc.Status)
	assert.Empty(t, repo.replaced)
}

func TestIngestDocumentFailsWhenNoChunks(t *testing.T) {
	repo := &fakeDocumentRepository{}
	svc := newIngestService(repo,
		&fakeExtractor{text: "tiny"},
		&fakeChunker{chunks: nil},
		&fakeBatchEmbedder{batchSize: 100},
	)

	_, err := svc.IngestDocument(context.Background(), IngestDocumentParams{
		OrgID:    uuid.New(),
		Filename: "doc.txt",
		Type:     "policy",
		Data:     []byte("data"),
	})
	assert.ErrorIs(t, err, domain.ErrNoChunks)
	assert.Equal(t, []domain.DocumentStatus{domain.StatusFailed}, repo.statuses)
}
