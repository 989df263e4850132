package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScores(levels ...MaturityLevel) []CriterionScore {
	scores := make([]CriterionScore, len(levels))
	for i, l := range levels {
		scores[i] = CriterionScore{
			CriterionID:  uuid.New(),
			CurrentLevel: l,
		}
	}
	return scores
}

func TestCalculateDomainMaturity_AllAtTarget(t *testing.T) {
	agg, err := NewAggregator(DefaultTargetThresholdPercent)
	require.NoError(t, err)

	// 全基準が目標ちょうど: 100%、閾値達成、ペナルティなし
	result, err := agg.CalculateDomainMaturity(
		newScores(LevelCompliant, LevelCompliant, LevelCompliant),
		LevelCompliant,
	)
	require.NoError(t, err)
	assert.Equal(t, LevelCompliant, result.CalculatedLevel)
	assert.True(t, result.MeetsThreshold)
	assert.False(t, result.PenaltyApplied)
	assert.Equal(t, 100.0, result.PercentageAtTarget)
}

func TestCalculateDomainMaturity_WeakOutlierTriggersPenalty(t *testing.T) {
	agg, err := NewAggregator(80)
	require.NoError(t, err)

	// [basic, resilient, resilient, resilient, resilient] 目標compliant
	// 5基準中4が目標以上 = 80%...ではなく、basicは未達なので4/5=80%で達成。
	// ペナルティを確認するには達成率20%のケースを使う。
	result, err := agg.CalculateDomainMaturity(
		newScores(LevelBasic, LevelResilient, LevelResilient, LevelResilient, LevelResilient),
		LevelResilient,
	)
	require.NoError(t, err)
	assert.Equal(t, 80.0, result.PercentageAtTarget)
	assert.True(t, result.MeetsThreshold)
	assert.False(t, result.PenaltyApplied)
	// ペナルティなしでも算出レベルは最弱基準に拘束される
	assert.Equal(t, LevelBasic, result.CalculatedLevel)
}

func TestCalculateDomainMaturity_BelowThresholdAppliesPenalty(t *testing.T) {
	agg, err := NewAggregator(80)
	require.NoError(t, err)

	// 1/5のみ目標以上 = 20% < 80%: ペナルティで素値の1段階下に抑制
	result, err := agg.CalculateDomainMaturity(
		newScores(LevelBasic, LevelReactive, LevelReactive, LevelReactive, LevelResilient),
		LevelResilient,
	)
	require.NoError(t, err)
	assert.Equal(t, 20.0, result.PercentageAtTarget)
	assert.False(t, result.MeetsThreshold)
	assert.True(t, result.PenaltyApplied)
	// 素値の最小はbasic、1段階下でもbasicより下には落ちない
	assert.Equal(t, LevelBasic, result.CalculatedLevel)
}

func TestCalculateDomainMaturity_PenaltyStepsDownOneLevel(t *testing.T) {
	agg, err := NewAggregator(80)
	require.NoError(t, err)

	// 素値の最小はproactive、達成率0%なのでcompliantに抑制される
	result, err := agg.CalculateDomainMaturity(
		newScores(LevelProactive, LevelProactive),
		LevelResilient,
	)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.PercentageAtTarget)
	assert.False(t, result.MeetsThreshold)
	assert.True(t, result.PenaltyApplied)
	assert.Equal(t, LevelCompliant, result.CalculatedLevel)
}

func TestCalculateDomainMaturity_BoundaryIsInclusive(t *testing.T) {
	agg, err := NewAggregator(80)
	require.NoError(t, err)

	// ちょうど80%（4/5）は閾値達成と判定する
	result, err := agg.CalculateDomainMaturity(
		newScores(LevelCompliant, LevelCompliant, LevelCompliant, LevelCompliant, LevelBasic),
		LevelCompliant,
	)
	require.NoError(t, err)
	assert.Equal(t, 80.0, result.PercentageAtTarget)
	assert.True(t, result.MeetsThreshold)
	assert.False(t, result.PenaltyApplied)
}

func TestCalculateDomainMaturity_SingleCriterion(t *testing.T) {
	agg, err := NewAggregator(80)
	require.NoError(t, err)

	// 1基準のみ・目標以上: 100%で自明に閾値達成、レベルはその基準の値
	result, err := agg.CalculateDomainMaturity(
		newScores(LevelProactive),
		LevelCompliant,
	)
	require.NoError(t, err)
	assert.Equal(t, LevelProactive, result.CalculatedLevel)
	assert.True(t, result.MeetsThreshold)
	assert.False(t, result.PenaltyApplied)
	assert.Equal(t, 100.0, result.PercentageAtTarget)
}

func TestCalculateDomainMaturity_EmptyInputRejected(t *testing.T) {
	agg, err := NewAggregator(80)
	require.NoError(t, err)

	_, err = agg.CalculateDomainMaturity(nil, LevelCompliant)
	assert.ErrorIs(t, err, ErrNoCriteriaScores)

	_, err = agg.CalculateDomainMaturity([]CriterionScore{}, LevelCompliant)
	assert.ErrorIs(t, err, ErrNoCriteriaScores)
}

func TestCalculateDomainMaturity_UnknownLevelRejected(t *testing.T) {
	agg, err := NewAggregator(80)
	require.NoError(t, err)

	_, err = agg.CalculateDomainMaturity(
		newScores(MaturityLevel("advanced")),
		LevelCompliant,
	)
	assert.ErrorIs(t, err, ErrUnknownLevel)

	_, err = agg.CalculateDomainMaturity(
		newScores(LevelBasic),
		MaturityLevel("gold"),
	)
	assert.ErrorIs(t, err, ErrUnknownLevel)
}

func TestCalculateDomainMaturity_FloorInvariant(t *testing.T) {
	agg, err := NewAggregator(80)
	require.NoError(t, err)

	// 算出レベルはbasic未満にならず、かつ素値の最小を超えない
	cases := [][]MaturityLevel{
		{LevelBasic},
		{LevelBasic, LevelBasic},
		{LevelReactive, LevelBasic, LevelResilient},
		{LevelResilient, LevelResilient},
		{LevelCompliant, LevelProactive, LevelReactive},
	}
	for _, levels := range cases {
		result, err := agg.CalculateDomainMaturity(newScores(levels...), LevelResilient)
		require.NoError(t, err)

		rawMin := minMaturityLevel(levels)
		assert.GreaterOrEqual(t, result.CalculatedLevel.Rank(), LevelBasic.Rank())
		assert.LessOrEqual(t, result.CalculatedLevel.Rank(), rawMin.Rank())
	}
}

func TestNewAggregator_InvalidThreshold(t *testing.T) {
	_, err := NewAggregator(-1)
	assert.ErrorIs(t, err, ErrInvalidThreshold)

	_, err = NewAggregator(100.5)
	assert.ErrorIs(t, err, ErrInvalidThreshold)
}

func TestCalculateAssessmentProgress(t *testing.T) {
	agg, err := NewAggregator(80)
	require.NoError(t, err)

	domainScores := []DomainScore{
		{
			DomainID:        uuid.New(),
			CriteriaScores:  newScores(LevelProactive),
			CalculatedLevel: LevelProactive,
		},
		{
			DomainID:        uuid.New(),
			CriteriaScores:  newScores(LevelCompliant, LevelCompliant),
			CalculatedLevel: LevelCompliant,
		},
		{
			// 未回答ドメイン
			DomainID: uuid.New(),
		},
	}

	progress, err := agg.CalculateAssessmentProgress(domainScores)
	require.NoError(t, err)
	assert.InDelta(t, 66.67, progress.CompletionPercentage, 0.01)
	// 総合レベルは評価済みドメインの最小値
	assert.Equal(t, LevelCompliant, progress.OverallMaturityLevel)
}

func TestCalculateAssessmentProgress_EmptyInputRejected(t *testing.T) {
	agg, err := NewAggregator(80)
	require.NoError(t, err)

	_, err = agg.CalculateAssessmentProgress(nil)
	assert.ErrorIs(t, err, ErrNoDomainScores)
}
