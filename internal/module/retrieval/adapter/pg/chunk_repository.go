package pg

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/maturion/genesis-forge/internal/module/retrieval/domain"
	"github.com/maturion/genesis-forge/internal/platform/database"
)

// ChunkRepository はチャンク読み取りの永続化アダプターです
type ChunkRepository struct {
	db database.DBTX
}

// NewChunkRepository は新しいチャンクリポジトリを作成します
func NewChunkRepository(db database.DBTX) *ChunkRepository {
	return &ChunkRepository{db: db}
}

var _ domain.ChunkReader = (*ChunkRepository)(nil)

const listEmbeddedCandidatesQuery = `
SELECT c.id, c.document_id, c.org_id, c.ordinal, c.content, c.embedding::text, c.metadata, c.created_at,
       d.name, d.type
FROM document_chunks c
JOIN documents d ON d.id = c.document_id
WHERE c.org_id = ANY($1)
  AND c.embedding IS NOT NULL
  AND (cardinality($2::text[]) = 0 OR d.type = ANY($2))
ORDER BY c.created_at DESC, c.ordinal
LIMIT $3
`

// ListEmbeddedCandidates はEmbeddingが保存されている候補チャンクを取得します。
// embeddingはpgvector列でも過去の文字列列でも同じ文字列表現として読み出し、
// 正規化はドメイン層のStoredEmbeddingに委ねます。
func (r *ChunkRepository) ListEmbeddedCandidates(ctx context.Context, orgIDs []uuid.UUID, filter domain.CandidateFilter) ([]*domain.DocumentChunk, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = domain.DefaultCandidateLimit
	}

	docTypes := filter.DocumentTypes
	if docTypes == nil {
		docTypes = []string{}
	}

	rows, err := r.db.Query(ctx, listEmbeddedCandidatesQuery,
		database.UUIDSliceToPgtype(orgIDs), docTypes, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list embedded candidates: %w", err)
	}
	defer rows.Close()

	var chunks []*domain.DocumentChunk
	for rows.Next() {
		chunk, embeddingText, err := scanChunkRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate chunk: %w", err)
		}
		if embeddingText.Valid {
			chunk.Embedding = domain.NewStoredEmbeddingFromRaw(embeddingText.String)
		}
		chunks = append(chunks, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate candidate chunks: %w", err)
	}

	return chunks, nil
}

const listTextMatchesQuery = `
SELECT c.id, c.document_id, c.org_id, c.ordinal, c.content, c.embedding::text, c.metadata, c.created_at,
       d.name, d.type
FROM document_chunks c
JOIN documents d ON d.id = c.document_id
WHERE c.org_id = ANY($1)
  AND c.content ILIKE '%' || $2 || '%'
  AND (cardinality($3::text[]) = 0 OR d.type = ANY($3))
ORDER BY c.created_at DESC, c.ordinal
LIMIT $4
`

// ListTextMatches は本文の部分一致（大文字小文字無視）でチャンクを取得します
func (r *ChunkRepository) ListTextMatches(ctx context.Context, orgIDs []uuid.UUID, query string, filter domain.CandidateFilter) ([]*domain.DocumentChunk, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = domain.DefaultLimit
	}

	docTypes := filter.DocumentTypes
	if docTypes == nil {
		docTypes = []string{}
	}

	rows, err := r.db.Query(ctx, listTextMatchesQuery,
		database.UUIDSliceToPgtype(orgIDs), escapeLikePattern(query), docTypes, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list text matches: %w", err)
	}
	defer rows.Close()

	var chunks []*domain.DocumentChunk
	for rows.Next() {
		chunk, _, err := scanChunkRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan text match chunk: %w", err)
		}
		chunks = append(chunks, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate text match chunks: %w", err)
	}

	return chunks, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLikePattern はLIKEメタ文字をエスケープし、クエリを常に
// リテラル部分文字列として照合させます
func escapeLikePattern(query string) string {
	return likeEscaper.Replace(query)
}

// rowScanner はpgx.Rowsのスキャン部分だけを切り出したインターフェース
type rowScanner interface {
	Scan(dest ...any) error
}

func scanChunkRow(row rowScanner) (*domain.DocumentChunk, pgtype.Text, error) {
	var (
		id            pgtype.UUID
		documentID    pgtype.UUID
		orgID         pgtype.UUID
		ordinal       int32
		content       string
		embeddingText pgtype.Text
		metadata      []byte
		createdAt     pgtype.Timestamptz
		documentName  string
		documentType  string
	)

	if err := row.Scan(&id, &documentID, &orgID, &ordinal, &content, &embeddingText,
		&metadata, &createdAt, &documentName, &documentType); err != nil {
		return nil, pgtype.Text{}, err
	}

	return &domain.DocumentChunk{
		ID:           database.PgtypeToUUID(id),
		DocumentID:   database.PgtypeToUUID(documentID),
		OrgID:        database.PgtypeToUUID(orgID),
		Ordinal:      int(ordinal),
		Content:      content,
		Metadata:     database.MapFromJSONB(metadata),
		CreatedAt:    database.PgtypeToTime(createdAt),
		DocumentName: documentName,
		DocumentType: documentType,
	}, embeddingText, nil
}
