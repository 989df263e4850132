package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maturion/genesis-forge/internal/module/generation/domain"
	"github.com/maturion/genesis-forge/internal/platform/database"
)

// FrameworkRepository はフレームワークの永続化アダプターです
type FrameworkRepository struct {
	pool *pgxpool.Pool
}

// NewFrameworkRepository は新しいフレームワークリポジトリを作成します
func NewFrameworkRepository(pool *pgxpool.Pool) *FrameworkRepository {
	return &FrameworkRepository{pool: pool}
}

var _ domain.FrameworkRepository = (*FrameworkRepository)(nil)

const insertFrameworkQuery = `
INSERT INTO frameworks (id, org_id, name, description, created_at)
VALUES ($1, $2, $3, $4, $5)
`

const insertDomainQuery = `
INSERT INTO framework_domains (id, framework_id, name, description, target_level, position)
VALUES ($1, $2, $3, $4, $5, $6)
`

const insertCriterionQuery = `
INSERT INTO criteria (id, domain_id, name, description, position)
VALUES ($1, $2, $3, $4, $5)
`

// InsertFramework はフレームワーク全体を単一トランザクションで保存します
func (r *FrameworkRepository) InsertFramework(ctx context.Context, framework domain.Framework) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, insertFrameworkQuery,
		database.UUIDToPgtype(framework.ID),
		database.UUIDToPgtype(framework.OrgID),
		framework.Name,
		database.StringToNullableText(framework.Description),
		database.TimeToPgtype(framework.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert framework: %w", err)
	}

	for _, d := range framework.Domains {
		_, err = tx.Exec(ctx, insertDomainQuery,
			database.UUIDToPgtype(d.ID),
			database.UUIDToPgtype(framework.ID),
			d.Name,
			database.StringToNullableText(d.Description),
			d.TargetLevel,
			d.Position,
		)
		if err != nil {
			return fmt.Errorf("failed to insert framework domain %q: %w", d.Name, err)
		}

		for _, c := range d.Criteria {
			_, err = tx.Exec(ctx, insertCriterionQuery,
				database.UUIDToPgtype(c.ID),
				database.UUIDToPgtype(d.ID),
				c.Name,
				database.StringToNullableText(c.Description),
				c.Position,
			)
			if err != nil {
				return fmt.Errorf("failed to insert criterion %q: %w", c.Name, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit framework: %w", err)
	}
	return nil
}

const getFrameworkQuery = `
SELECT id, org_id, name, description, created_at
FROM frameworks
WHERE org_id = $1 AND id = $2
`

const listFrameworkDomainsQuery = `
SELECT id, name, description, target_level, position
FROM framework_domains
WHERE framework_id = $1
ORDER BY position
`

const listCriteriaQuery = `
SELECT c.id, c.domain_id, c.name, c.description, c.position
FROM criteria c
JOIN framework_domains fd ON fd.id = c.domain_id
WHERE fd.framework_id = $1
ORDER BY c.position
`

// GetFramework はフレームワークをドメイン・基準込みで取得します
func (r *FrameworkRepository) GetFramework(ctx context.Context, orgID, frameworkID uuid.UUID) (*domain.Framework, error) {
	var (
		id          pgtype.UUID
		org         pgtype.UUID
		name        string
		description pgtype.Text
		createdAt   pgtype.Timestamptz
	)
	err := r.pool.QueryRow(ctx, getFrameworkQuery,
		database.UUIDToPgtype(orgID),
		database.UUIDToPgtype(frameworkID),
	).Scan(&id, &org, &name, &description, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFrameworkNotFound
		}
		return nil, fmt.Errorf("failed to get framework: %w", err)
	}

	framework := domain.Framework{
		ID:          database.PgtypeToUUID(id),
		OrgID:       database.PgtypeToUUID(org),
		Name:        name,
		Description: database.PgtextToString(description),
		CreatedAt:   database.PgtypeToTime(createdAt),
	}

	domains, err := r.listDomains(ctx, frameworkID)
	if err != nil {
		return nil, err
	}

	criteriaByDomain, err := r.listCriteria(ctx, frameworkID)
	if err != nil {
		return nil, err
	}

	for i := range domains {
		domains[i].Criteria = criteriaByDomain[domains[i].ID]
	}
	framework.Domains = domains

	return &framework, nil
}

func (r *FrameworkRepository) listDomains(ctx context.Context, frameworkID uuid.UUID) ([]domain.FrameworkDomain, error) {
	rows, err := r.pool.Query(ctx, listFrameworkDomainsQuery, database.UUIDToPgtype(frameworkID))
	if err != nil {
		return nil, fmt.Errorf("failed to list framework domains: %w", err)
	}
	defer rows.Close()

	var domains []domain.FrameworkDomain
	for rows.Next() {
		var (
			id          pgtype.UUID
			name        string
			description pgtype.Text
			targetLevel string
			position    int
		)
		if err := rows.Scan(&id, &name, &description, &targetLevel, &position); err != nil {
			return nil, fmt.Errorf("failed to scan framework domain: %w", err)
		}
		domains = append(domains, domain.FrameworkDomain{
			ID:          database.PgtypeToUUID(id),
			FrameworkID: frameworkID,
			Name:        name,
			Description: database.PgtextToString(description),
			TargetLevel: targetLevel,
			Position:    position,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate framework domains: %w", err)
	}

	return domains, nil
}

func (r *FrameworkRepository) listCriteria(ctx context.Context, frameworkID uuid.UUID) (map[uuid.UUID][]domain.Criterion, error) {
	rows, err := r.pool.Query(ctx, listCriteriaQuery, database.UUIDToPgtype(frameworkID))
	if err != nil {
		return nil, fmt.Errorf("failed to list criteria: %w", err)
	}
	defer rows.Close()

	criteriaByDomain := make(map[uuid.UUID][]domain.Criterion)
	for rows.Next() {
		var (
			id          pgtype.UUID
			domainID    pgtype.UUID
			name        string
			description pgtype.Text
			position    int
		)
		if err := rows.Scan(&id, &domainID, &name, &description, &position); err != nil {
			return nil, fmt.Errorf("failed to scan criterion: %w", err)
		}
		key := database.PgtypeToUUID(domainID)
		criteriaByDomain[key] = append(criteriaByDomain[key], domain.Criterion{
			ID:          database.PgtypeToUUID(id),
			DomainID:    key,
			Name:        name,
			Description: database.PgtextToString(description),
			Position:    position,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate criteria: %w", err)
	}

	return criteriaByDomain, nil
}

const listFrameworksQuery = `
SELECT id, org_id, name, description, created_at
FROM frameworks
WHERE org_id = $1
ORDER BY created_at DESC
`

// ListFrameworks は組織のフレームワーク一覧を返します
func (r *FrameworkRepository) ListFrameworks(ctx context.Context, orgID uuid.UUID) ([]domain.Framework, error) {
	rows, err := r.pool.Query(ctx, listFrameworksQuery, database.UUIDToPgtype(orgID))
	if err != nil {
		return nil, fmt.Errorf("failed to list frameworks: %w", err)
	}
	defer rows.Close()

	var frameworks []domain.Framework
	for rows.Next() {
		var (
			id          pgtype.UUID
			org         pgtype.UUID
			name        string
			description pgtype.Text
			createdAt   pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &org, &name, &description, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan framework: %w", err)
		}
		frameworks = append(frameworks, domain.Framework{
			ID:          database.PgtypeToUUID(id),
			OrgID:       database.PgtypeToUUID(org),
			Name:        name,
			Description: database.PgtextToString(description),
			CreatedAt:   database.PgtypeToTime(createdAt),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate frameworks: %w", err)
	}

	return frameworks, nil
}
