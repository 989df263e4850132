package domain

import (
	"time"

	"github.com/google/uuid"
)

// CriterionScore は1回答者による1基準の自己評価です。
// 提出後は不変で、再評価は新しい行として記録されます。
type CriterionScore struct {
	ID           uuid.UUID
	AssessmentID uuid.UUID
	OrgID        uuid.UUID
	DomainID     uuid.UUID
	CriterionID  uuid.UUID
	CurrentLevel MaturityLevel
	TargetLevel  MaturityLevel
	// EvidenceScore は根拠記述の充足度（0〜100）。集計には関与しない派生値。
	EvidenceScore float64
	CreatedAt     time.Time
}

// DomainScore は1アセスメント内の同一ドメインに属する基準スコアの集計結果です。
// 常にCriterionScore群から再計算され、単独では更新されません。
type DomainScore struct {
	DomainID       uuid.UUID
	DomainName     string
	CriteriaScores []CriterionScore

	CalculatedLevel    MaturityLevel
	TargetLevel        MaturityLevel
	MeetsThreshold     bool
	PenaltyApplied     bool
	PercentageAtTarget float64
}

// AssessmentProgress はアセスメント全体の進捗と総合成熟度です
type AssessmentProgress struct {
	// CompletionPercentage は基準スコアが1件以上あるドメインの割合（0〜100）
	CompletionPercentage float64
	// OverallMaturityLevel は評価済みドメインの算出レベルの最小値
	OverallMaturityLevel MaturityLevel
}
