package domain

import "fmt"

// DefaultTargetThresholdPercent は目標達成率の既定閾値です
const DefaultTargetThresholdPercent = 80.0

// DomainMaturity はドメイン単位の成熟度集計結果です。
// 4つのフィールドは常にすべて設定されます。
type DomainMaturity struct {
	CalculatedLevel    MaturityLevel
	MeetsThreshold     bool
	PenaltyApplied     bool
	PercentageAtTarget float64
}

// Aggregator は最弱基準ベースの成熟度集計を行います。
// 平均ではなく最小値を採用するのは、多数の強い基準が1つの致命的に弱い
// 基準を覆い隠すことを防ぐためです（保守的な監査姿勢）。
type Aggregator struct {
	thresholdPercent float64
}

// NewAggregator は指定した目標達成率閾値で集計器を作成します
func NewAggregator(thresholdPercent float64) (*Aggregator, error) {
	if thresholdPercent < 0 || thresholdPercent > 100 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidThreshold, thresholdPercent)
	}
	return &Aggregator{thresholdPercent: thresholdPercent}, nil
}

// ThresholdPercent は設定済みの閾値を返します
func (a *Aggregator) ThresholdPercent() float64 {
	return a.thresholdPercent
}

// CalculateDomainMaturity は基準スコア群からドメインの成熟度を算出します。
//
//  1. 算出レベルの素値は全基準のCurrentLevelの最小値
//  2. 目標達成率が閾値以上（両端含む）なら閾値を満たす
//  3. 閾値未達の場合、素値の1段階下（下限basic）に抑制しペナルティを記録する
//
// 空入力および未定義レベルはバリデーションエラーであり、既定値は返しません。
func (a *Aggregator) CalculateDomainMaturity(scores []CriterionScore, targetLevel MaturityLevel) (DomainMaturity, error) {
	if len(scores) == 0 {
		return DomainMaturity{}, ErrNoCriteriaScores
	}
	if !targetLevel.Valid() {
		return DomainMaturity{}, fmt.Errorf("%w: target level %q", ErrUnknownLevel, targetLevel)
	}

	levels := make([]MaturityLevel, 0, len(scores))
	atTarget := 0
	for _, score := range scores {
		if !score.CurrentLevel.Valid() {
			return DomainMaturity{}, fmt.Errorf("%w: criterion %s has level %q",
				ErrUnknownLevel, score.CriterionID, score.CurrentLevel)
		}
		levels = append(levels, score.CurrentLevel)
		if score.CurrentLevel.AtOrAbove(targetLevel) {
			atTarget++
		}
	}

	percentage := float64(atTarget) / float64(len(scores)) * 100

	calculated := minMaturityLevel(levels)
	meetsThreshold := percentage >= a.thresholdPercent

	penaltyApplied := false
	if !meetsThreshold {
		calculated = calculated.StepDown()
		penaltyApplied = true
	}

	return DomainMaturity{
		CalculatedLevel:    calculated,
		MeetsThreshold:     meetsThreshold,
		PenaltyApplied:     penaltyApplied,
		PercentageAtTarget: percentage,
	}, nil
}

// CalculateAssessmentProgress はドメインスコア群からアセスメント全体の進捗を算出します。
// 総合レベルにもドメイン単位と同じ最弱値方式を適用します（総合レベル ≦ ドメインレベルの最小値）。
func (a *Aggregator) CalculateAssessmentProgress(domainScores []DomainScore) (AssessmentProgress, error) {
	if len(domainScores) == 0 {
		return AssessmentProgress{}, ErrNoDomainScores
	}

	scored := 0
	levels := make([]MaturityLevel, 0, len(domainScores))
	for _, ds := range domainScores {
		if len(ds.CriteriaScores) == 0 {
			continue
		}
		if !ds.CalculatedLevel.Valid() {
			return AssessmentProgress{}, fmt.Errorf("%w: domain %s has level %q",
				ErrUnknownLevel, ds.DomainID, ds.CalculatedLevel)
		}
		scored++
		levels = append(levels, ds.CalculatedLevel)
	}

	completion := float64(scored) / float64(len(domainScores)) * 100

	overall := LevelBasic
	if len(levels) > 0 {
		overall = minMaturityLevel(levels)
	}

	return AssessmentProgress{
		CompletionPercentage: completion,
		OverallMaturityLevel: overall,
	}, nil
}
