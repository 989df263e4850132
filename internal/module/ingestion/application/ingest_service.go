package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/maturion/genesis-forge/internal/module/ingestion/domain"
)

// IngestDocumentParams はドキュメント取り込みのパラメータです
type IngestDocumentParams struct {
	OrgID    uuid.UUID
	Filename string
	Type     string
	Data     []byte
}

// IngestService はドキュメント取り込みパイプラインを提供します。
// 抽出、チャンク化、埋め込み生成、チャンク置き換えを1ドキュメント単位で実行します。
type IngestService struct {
	documents domain.DocumentRepository
	extractor domain.Extractor
	chunker   domain.Chunker
	embedder  domain.BatchEmbedder
	logger    *slog.Logger
}

// NewIngestService は新しいIngestServiceを作成します
func NewIngestService(
	documents domain.DocumentRepository,
	extractor domain.Extractor,
	chunker domain.Chunker,
	embedder domain.BatchEmbedder,
	logger *slog.Logger,
) *IngestService {
	return &IngestService{
		documents: documents,
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		logger:    logger,
	}
}

// IngestDocument はドキュメントを登録し、検索可能な状態まで取り込みます。
// 途中で失敗した場合、ドキュメントはfailed状態で残り既存チャンクは変更されません。
func (s *IngestService) IngestDocument(ctx context.Context, params IngestDocumentParams) (*domain.Document, error) {
	docType := domain.DocumentType(params.Type)
	if !domain.ValidDocumentType(docType) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownDocumentType, params.Type)
	}
	if params.OrgID == uuid.Nil {
		return nil, fmt.Errorf("org ID is required")
	}
	if len(params.Data) == 0 {
		return nil, domain.ErrEmptyDocument
	}

	now := time.Now().UTC()
	doc := domain.Document{
		ID:        uuid.New(),
		OrgID:     params.OrgID,
		Name:      params.Filename,
		Type:      docType,
		Status:    domain.StatusProcessing,
		SizeBytes: int64(len(params.Data)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.documents.InsertDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to register document: %w", err)
	}

	chunkCount, err := s.process(ctx, &doc, params)
	if err != nil {
		s.logger.Error("document ingestion failed",
			slog.String("document_id", doc.ID.String()),
			slog.String("name", doc.Name),
			slog.Any("error", err),
		)
		doc.Status = domain.StatusFailed
		doc.FailureReason = err.Error()
		if updateErr := s.documents.UpdateDocumentStatus(ctx, doc.ID, domain.StatusFailed, 0, err.Error()); updateErr != nil {
			s.logger.Error("failed to record ingestion failure",
				slog.String("document_id", doc.ID.String()),
				slog.Any("error", updateErr),
			)
		}
		return &doc, err
	}

	doc.Status = domain.StatusReady
	doc.ChunkCount = chunkCount
	if err := s.documents.UpdateDocumentStatus(ctx, doc.ID, domain.StatusReady, chunkCount, ""); err != nil {
		return nil, fmt.Errorf("failed to mark document ready: %w", err)
	}

	s.logger.Info("document ingested",
		slog.String("document_id", doc.ID.String()),
		slog.String("name", doc.Name),
		slog.Int("chunk_count", chunkCount),
	)

	return &doc, nil
}

// process は抽出からチャンク置き換えまでを実行し、チャンク数を返します
func (s *IngestService) process(ctx context.Context, doc *domain.Document, params IngestDocumentParams) (int, error) {
	text, err := s.extractor.Extract(params.Filename, params.Data)
	if err != nil {
		return 0, fmt.Errorf("failed to extract text: %w", err)
	}

	contents, err := s.chunker.Split(text)
	if err != nil {
		return 0, fmt.Errorf("failed to chunk document: %w", err)
	}
	if len(contents) == 0 {
		return 0, domain.ErrNoChunks
	}

	embeddings, err := s.embedBatches(ctx, contents)
	if err != nil {
		return 0, fmt.Errorf("failed to embed chunks: %w", err)
	}

	records := make([]domain.ChunkRecord, len(contents))
	for i, content := range contents {
		records[i] = domain.ChunkRecord{
			ID:         uuid.New(),
			DocumentID: doc.ID,
			OrgID:      doc.OrgID,
			Ordinal:    i,
			Content:    content,
			Embedding:  embeddings[i],
		}
	}

	if err := s.documents.ReplaceChunks(ctx, doc.ID, records); err != nil {
		return 0, fmt.Errorf("failed to store chunks: %w", err)
	}

	return len(records), nil
}

// embedBatches は埋め込みAPIのバッチ上限に合わせて分割して埋め込みを生成します
func (s *IngestService) embedBatches(ctx context.Context, contents []string) ([][]float32, error) {
	batchSize := s.embedder.MaxBatchSize()
	if batchSize <= 0 {
		batchSize = len(contents)
	}

	embeddings := make([][]float32, 0, len(contents))
	for start := 0; start < len(contents); start += batchSize {
		end := start + batchSize
		if end > len(contents) {
			end = len(contents)
		}

		batch, err := s.embedder.BatchEmbed(ctx, contents[start:end])
		if err != nil {
			return nil, err
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("embedding count mismatch: got %d, want %d", len(batch), end-start)
		}
		embeddings = append(embeddings, batch...)
	}

	return embeddings, nil
}

// GetDocument はドキュメントを1件取得します
func (s *IngestService) GetDocument(ctx context.Context, orgID, documentID uuid.UUID) (*domain.Document, error) {
	return s.documents.GetDocument(ctx, orgID, documentID)
}

// ListDocuments は組織のドキュメント一覧を返します
func (s *IngestService) ListDocuments(ctx context.Context, orgID uuid.UUID) ([]domain.Document, error) {
	return s.documents.ListDocuments(ctx, orgID)
}
