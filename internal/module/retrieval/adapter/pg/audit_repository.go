package pg

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/maturion/genesis-forge/internal/module/retrieval/domain"
	"github.com/maturion/genesis-forge/internal/platform/database"
)

// AuditRepository は検索アクセス監査の永続化アダプターです
type AuditRepository struct {
	db database.DBTX
}

// NewAuditRepository は新しい監査リポジトリを作成します
func NewAuditRepository(db database.DBTX) *AuditRepository {
	return &AuditRepository{db: db}
}

var _ domain.AuditWriter = (*AuditRepository)(nil)

const recordSearchQuery = `
INSERT INTO search_audit_log (id, org_id, query, result_count, search_type, scope_widened, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

// RecordSearch は検索監査レコードを1件書き込みます
func (r *AuditRepository) RecordSearch(ctx context.Context, entry domain.AuditEntry) error {
	_, err := r.db.Exec(ctx, recordSearchQuery,
		database.UUIDToPgtype(entry.ID),
		database.UUIDToPgtype(entry.OrgID),
		entry.Query,
		int32(entry.ResultCount),
		string(entry.SearchType),
		entry.ScopeWidened,
		database.TimeToPgtype(entry.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to record search audit entry: %w", err)
	}
	return nil
}

const listRecentSearchesQuery = `
SELECT id, org_id, query, result_count, search_type, scope_widened, created_at
FROM search_audit_log
WHERE org_id = $1
ORDER BY created_at DESC
LIMIT $2
`

// ListRecentSearches は組織の直近の検索監査レコードを取得します
func (r *AuditRepository) ListRecentSearches(ctx context.Context, orgID uuid.UUID, limit int) ([]domain.AuditEntry, error) {
	rows, err := r.db.Query(ctx, listRecentSearchesQuery, database.UUIDToPgtype(orgID), int32(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list search audit entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var (
			id           pgtype.UUID
			entryOrgID   pgtype.UUID
			query        string
			resultCount  int32
			searchType   string
			scopeWidened bool
			createdAt    pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &entryOrgID, &query, &resultCount, &searchType, &scopeWidened, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan search audit entry: %w", err)
		}
		entries = append(entries, domain.AuditEntry{
			ID:           database.PgtypeToUUID(id),
			OrgID:        database.PgtypeToUUID(entryOrgID),
			Query:        query,
			ResultCount:  int(resultCount),
			SearchType:   domain.SearchType(searchType),
			ScopeWidened: scopeWidened,
			CreatedAt:    database.PgtypeToTime(createdAt),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate search audit entries: %w", err)
	}

	return entries, nil
}
