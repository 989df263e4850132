package domain

import (
	"context"

	"github.com/google/uuid"
)

// AssessmentDomain はアセスメントが対象とする1ドメインの定義です
type AssessmentDomain struct {
	DomainID    uuid.UUID
	Name        string
	TargetLevel MaturityLevel
}

// ScoreRepository は基準スコアの永続化ポートです
type ScoreRepository interface {
	// InsertScore は基準スコアを1件追加します。提出済みスコアは更新せず、
	// 再評価は常に新しい行として記録します。
	InsertScore(ctx context.Context, score CriterionScore) error

	// ListScoresByAssessment はアセスメントに属する全基準スコアを返します
	ListScoresByAssessment(ctx context.Context, assessmentID uuid.UUID) ([]CriterionScore, error)

	// ListDomains はアセスメントが対象とするドメイン定義を返します（未回答含む）
	ListDomains(ctx context.Context, assessmentID uuid.UUID) ([]AssessmentDomain, error)
}
