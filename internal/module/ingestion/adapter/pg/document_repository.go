package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/maturion/genesis-forge/internal/module/ingestion/domain"
	"github.com/maturion/genesis-forge/internal/platform/database"
)

// DocumentRepository はドキュメントとチャンクの永続化アダプターです。
// ReplaceChunksがトランザクションを開始するため、DBTXではなくプールを保持します。
type DocumentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository は新しいドキュメントリポジトリを作成します
func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{pool: pool}
}

var _ domain.DocumentRepository = (*DocumentRepository)(nil)

const insertDocumentQuery = `
INSERT INTO documents (id, org_id, name, type, status, size_bytes, chunk_count, failure_reason, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

// InsertDocument はドキュメントを新規登録します
func (r *DocumentRepository) InsertDocument(ctx context.Context, doc domain.Document) error {
	_, err := r.pool.Exec(ctx, insertDocumentQuery,
		database.UUIDToPgtype(doc.ID),
		database.UUIDToPgtype(doc.OrgID),
		doc.Name,
		string(doc.Type),
		string(doc.Status),
		doc.SizeBytes,
		doc.ChunkCount,
		database.StringToNullableText(doc.FailureReason),
		database.TimeToPgtype(doc.CreatedAt),
		database.TimeToPgtype(doc.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

const updateDocumentStatusQuery = `
UPDATE documents
SET status = $2, chunk_count = $3, failure_reason = $4, updated_at = now()
WHERE id = $1
`

// UpdateDocumentStatus は取り込み状態を更新します
func (r *DocumentRepository) UpdateDocumentStatus(ctx context.Context, documentID uuid.UUID, status domain.DocumentStatus, chunkCount int, failureReason string) error {
	tag, err := r.pool.Exec(ctx, updateDocumentStatusQuery,
		database.UUIDToPgtype(documentID),
		string(status),
		chunkCount,
		database.StringToNullableText(failureReason),
	)
	if err != nil {
		return fmt.Errorf("failed to update document status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

const getDocumentQuery = `
SELECT id, org_id, name, type, status, size_bytes, chunk_count, failure_reason, created_at, updated_at
FROM documents
WHERE org_id = $1 AND id = $2
`

// GetDocument はドキュメントを1件取得します
func (r *DocumentRepository) GetDocument(ctx context.Context, orgID, documentID uuid.UUID) (*domain.Document, error) {
	row := r.pool.QueryRow(ctx, getDocumentQuery,
		database.UUIDToPgtype(orgID),
		database.UUIDToPgtype(documentID),
	)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}

const listDocumentsQuery = `
SELECT id, org_id, name, type, status, size_bytes, chunk_count, failure_reason, created_at, updated_at
FROM documents
WHERE org_id = $1
ORDER BY created_at DESC
`

// ListDocuments は組織のドキュメント一覧を返します
func (r *DocumentRepository) ListDocuments(ctx context.Context, orgID uuid.UUID) ([]domain.Document, error) {
	rows, err := r.pool.Query(ctx, listDocumentsQuery, database.UUIDToPgtype(orgID))
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}

	return docs, nil
}

const deleteChunksQuery = `DELETE FROM document_chunks WHERE document_id = $1`

const insertChunkQuery = `
INSERT INTO document_chunks (id, document_id, org_id, ordinal, content, embedding, metadata, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now())
`

// ReplaceChunks はドキュメントの全チャンクを単一トランザクションで置き換えます
func (r *DocumentRepository) ReplaceChunks(ctx context.Context, documentID uuid.UUID, chunks []domain.ChunkRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, deleteChunksQuery, database.UUIDToPgtype(documentID)); err != nil {
		return fmt.Errorf("failed to delete existing chunks: %w", err)
	}

	for _, chunk := range chunks {
		_, err := tx.Exec(ctx, insertChunkQuery,
			database.UUIDToPgtype(chunk.ID),
			database.UUIDToPgtype(chunk.DocumentID),
			database.UUIDToPgtype(chunk.OrgID),
			chunk.Ordinal,
			chunk.Content,
			pgvector.NewVector(chunk.Embedding),
			database.JSONBFromMap(chunk.Metadata),
		)
		if err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", chunk.Ordinal, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit chunk replacement: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var (
		id            pgtype.UUID
		orgID         pgtype.UUID
		name          string
		docType       string
		status        string
		sizeBytes     int64
		chunkCount    int
		failureReason pgtype.Text
		createdAt     pgtype.Timestamptz
		updatedAt     pgtype.Timestamptz
	)
	if err := row.Scan(&id, &orgID, &name, &docType, &status, &sizeBytes, &chunkCount,
		&failureReason, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	return &domain.Document{
		ID:            database.PgtypeToUUID(id),
		OrgID:         database.PgtypeToUUID(orgID),
		Name:          name,
		Type:          domain.DocumentType(docType),
		Status:        domain.DocumentStatus(status),
		SizeBytes:     sizeBytes,
		ChunkCount:    chunkCount,
		FailureReason: database.PgtextToString(failureReason),
		CreatedAt:     database.PgtypeToTime(createdAt),
		UpdatedAt:     database.PgtypeToTime(updatedAt),
	}, nil
}
