package pg

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/maturion/genesis-forge/internal/module/scoring/domain"
	"github.com/maturion/genesis-forge/internal/platform/database"
)

// ScoreRepository は基準スコアの永続化アダプターです
type ScoreRepository struct {
	db database.DBTX
}

// NewScoreRepository は新しいスコアリポジトリを作成します
func NewScoreRepository(db database.DBTX) *ScoreRepository {
	return &ScoreRepository{db: db}
}

var _ domain.ScoreRepository = (*ScoreRepository)(nil)

const insertScoreQuery = `
INSERT INTO criterion_scores
  (id, assessment_id, org_id, domain_id, criterion_id, current_level, target_level, evidence_score, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

// InsertScore は基準スコアを1件追加します
func (r *ScoreRepository) InsertScore(ctx context.Context, score domain.CriterionScore) error {
	_, err := r.db.Exec(ctx, insertScoreQuery,
		database.UUIDToPgtype(score.ID),
		database.UUIDToPgtype(score.AssessmentID),
		database.UUIDToPgtype(score.OrgID),
		database.UUIDToPgtype(score.DomainID),
		database.UUIDToPgtype(score.CriterionID),
		string(score.CurrentLevel),
		string(score.TargetLevel),
		database.Float64ToPgtype(score.EvidenceScore),
		database.TimeToPgtype(score.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert criterion score: %w", err)
	}
	return nil
}

const listScoresByAssessmentQuery = `
SELECT id, assessment_id, org_id, domain_id, criterion_id, current_level, target_level, evidence_score, created_at
FROM criterion_scores
WHERE assessment_id = $1
ORDER BY created_at, criterion_id
`

// ListScoresByAssessment はアセスメントに属する全基準スコアを返します
func (r *ScoreRepository) ListScoresByAssessment(ctx context.Context, assessmentID uuid.UUID) ([]domain.CriterionScore, error) {
	rows, err := r.db.Query(ctx, listScoresByAssessmentQuery, database.UUIDToPgtype(assessmentID))
	if err != nil {
		return nil, fmt.Errorf("failed to list criterion scores: %w", err)
	}
	defer rows.Close()

	var scores []domain.CriterionScore
	for rows.Next() {
		var (
			id            pgtype.UUID
			assessment    pgtype.UUID
			orgID         pgtype.UUID
			domainID      pgtype.UUID
			criterionID   pgtype.UUID
			currentLevel  string
			targetLevel   string
			evidenceScore pgtype.Float8
			createdAt     pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &assessment, &orgID, &domainID, &criterionID,
			&currentLevel, &targetLevel, &evidenceScore, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan criterion score: %w", err)
		}
		scores = append(scores, domain.CriterionScore{
			ID:            database.PgtypeToUUID(id),
			AssessmentID:  database.PgtypeToUUID(assessment),
			OrgID:         database.PgtypeToUUID(orgID),
			DomainID:      database.PgtypeToUUID(domainID),
			CriterionID:   database.PgtypeToUUID(criterionID),
			CurrentLevel:  domain.MaturityLevel(currentLevel),
			TargetLevel:   domain.MaturityLevel(targetLevel),
			EvidenceScore: database.PgtypeToFloat64(evidenceScore),
			CreatedAt:     database.PgtypeToTime(createdAt),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate criterion scores: %w", err)
	}

	return scores, nil
}

const listDomainsQuery = `
SELECT fd.id, fd.name, fd.target_level
FROM framework_domains fd
JOIN assessments a ON a.framework_id = fd.framework_id
WHERE a.id = $1
ORDER BY fd.position, fd.name
`

// ListDomains はアセスメントが対象とするドメイン定義を返します
func (r *ScoreRepository) ListDomains(ctx context.Context, assessmentID uuid.UUID) ([]domain.AssessmentDomain, error) {
	rows, err := r.db.Query(ctx, listDomainsQuery, database.UUIDToPgtype(assessmentID))
	if err != nil {
		return nil, fmt.Errorf("failed to list assessment domains: %w", err)
	}
	defer rows.Close()

	var domains []domain.AssessmentDomain
	for rows.Next() {
		var (
			id          pgtype.UUID
			name        string
			targetLevel string
		)
		if err := rows.Scan(&id, &name, &targetLevel); err != nil {
			return nil, fmt.Errorf("failed to scan assessment domain: %w", err)
		}
		domains = append(domains, domain.AssessmentDomain{
			DomainID:    database.PgtypeToUUID(id),
			Name:        name,
			TargetLevel: domain.MaturityLevel(targetLevel),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assessment domains: %w", err)
	}

	return domains, nil
}
