package pg

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/maturion/genesis-forge/internal/module/retrieval/domain"
	"github.com/maturion/genesis-forge/internal/platform/database"
)

// MembershipRepository はプリンシパルの所属組織を解決する永続化アダプターです
type MembershipRepository struct {
	db database.DBTX
}

// NewMembershipRepository は新しいメンバーシップリポジトリを作成します
func NewMembershipRepository(db database.DBTX) *MembershipRepository {
	return &MembershipRepository{db: db}
}

var _ domain.MembershipReader = (*MembershipRepository)(nil)

const listOrganizationIDsQuery = `
SELECT org_id
FROM organization_members
WHERE principal_id = $1
ORDER BY created_at
`

// ListOrganizationIDs はプリンシパルが所属する組織IDの一覧を返します
func (r *MembershipRepository) ListOrganizationIDs(ctx context.Context, principalID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, listOrganizationIDsQuery, database.UUIDToPgtype(principalID))
	if err != nil {
		return nil, fmt.Errorf("failed to list organization memberships: %w", err)
	}
	defer rows.Close()

	var orgIDs []uuid.UUID
	for rows.Next() {
		var orgID pgtype.UUID
		if err := rows.Scan(&orgID); err != nil {
			return nil, fmt.Errorf("failed to scan organization membership: %w", err)
		}
		orgIDs = append(orgIDs, database.PgtypeToUUID(orgID))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate organization memberships: %w", err)
	}

	return orgIDs, nil
}
