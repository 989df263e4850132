package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/maturion/genesis-forge/internal/module/scoring/domain"
)

// SubmitAnswerParams は基準スコア提出のパラメータです
type SubmitAnswerParams struct {
	AssessmentID  uuid.UUID
	OrgID         uuid.UUID
	DomainID      uuid.UUID
	CriterionID   uuid.UUID
	CurrentLevel  string
	TargetLevel   string
	EvidenceScore float64
}

// AssessmentScore はアセスメント全体のスコア算出結果です
type AssessmentScore struct {
	AssessmentID uuid.UUID
	DomainScores []domain.DomainScore
	Progress     domain.AssessmentProgress
}

// ScoringService は基準スコアの提出と成熟度集計を提供します
type ScoringService struct {
	scores     domain.ScoreRepository
	aggregator *domain.Aggregator
	logger     *slog.Logger
}

// NewScoringService は新しいScoringServiceを作成します
func NewScoringService(scores domain.ScoreRepository, aggregator *domain.Aggregator, logger *slog.Logger) *ScoringService {
	return &ScoringService{
		scores:     scores,
		aggregator: aggregator,
		logger:     logger,
	}
}

// SubmitAnswer は1基準の自己評価を記録します。
// 提出済みスコアは更新せず、再評価は新しい行として追記します。
func (s *ScoringService) SubmitAnswer(ctx context.Context, params SubmitAnswerParams) (*domain.CriterionScore, error) {
	currentLevel, err := domain.ParseMaturityLevel(params.CurrentLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid current level: %w", err)
	}
	targetLevel, err := domain.ParseMaturityLevel(params.TargetLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid target level: %w", err)
	}
	if params.EvidenceScore < 0 || params.EvidenceScore > 100 {
		return nil, fmt.Errorf("evidence score must be between 0 and 100: %v", params.EvidenceScore)
	}

	score := domain.CriterionScore{
		ID:            uuid.New(),
		AssessmentID:  params.AssessmentID,
		OrgID:         params.OrgID,
		DomainID:      params.DomainID,
		CriterionID:   params.CriterionID,
		CurrentLevel:  currentLevel,
		TargetLevel:   targetLevel,
		EvidenceScore: params.EvidenceScore,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.scores.InsertScore(ctx, score); err != nil {
		return nil, fmt.Errorf("failed to record answer: %w", err)
	}

	s.logger.Info("answer recorded",
		slog.String("assessment_id", score.AssessmentID.String()),
		slog.String("criterion_id", score.CriterionID.String()),
		slog.String("current_level", string(score.CurrentLevel)),
	)

	return &score, nil
}

// CalculateAssessmentScore はアセスメントの全ドメインを集計します。
// ドメインごとに最新の基準スコアのみを採用し（同一基準の再評価は後勝ち）、
// 未回答ドメインは集計対象外のままDomainScoreに含めます。
func (s *ScoringService) CalculateAssessmentScore(ctx context.Context, assessmentID uuid.UUID) (*AssessmentScore, error) {
	domains, err := s.scores.ListDomains(ctx, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assessment domains: %w", err)
	}
	if len(domains) == 0 {
		return nil, domain.ErrNoDomainScores
	}

	allScores, err := s.scores.ListScoresByAssessment(ctx, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load criterion scores: %w", err)
	}

	byDomain := latestScoresByDomain(allScores)

	domainScores := make([]domain.DomainScore, 0, len(domains))
	for _, d := range domains {
		ds := domain.DomainScore{
			DomainID:       d.DomainID,
			DomainName:     d.Name,
			TargetLevel:    d.TargetLevel,
			CriteriaScores: byDomain[d.DomainID],
		}

		if len(ds.CriteriaScores) > 0 {
			maturity, err := s.aggregator.CalculateDomainMaturity(ds.CriteriaScores, d.TargetLevel)
			if err != nil {
				return nil, fmt.Errorf("failed to aggregate domain %s: %w", d.Name, err)
			}
			ds.CalculatedLevel = maturity.CalculatedLevel
			ds.MeetsThreshold = maturity.MeetsThreshold
			ds.PenaltyApplied = maturity.PenaltyApplied
			ds.PercentageAtTarget = maturity.PercentageAtTarget
		}

		domainScores = append(domainScores, ds)
	}

	progress, err := s.aggregator.CalculateAssessmentProgress(domainScores)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate assessment progress: %w", err)
	}

	s.logger.Info("assessment score calculated",
		slog.String("assessment_id", assessmentID.String()),
		slog.Int("domain_count", len(domainScores)),
		slog.Float64("completion_percentage", progress.CompletionPercentage),
		slog.String("overall_level", string(progress.OverallMaturityLevel)),
	)

	return &AssessmentScore{
		AssessmentID: assessmentID,
		DomainScores: domainScores,
		Progress:     progress,
	}, nil
}

// latestScoresByDomain は同一基準の重複を提出時刻の新しい方で解決し、
// ドメインIDごとにグループ化します。
func latestScoresByDomain(scores []domain.CriterionScore) map[uuid.UUID][]domain.CriterionScore {
	latest := make(map[uuid.UUID]domain.CriterionScore)
	order := make([]uuid.UUID, 0, len(scores))
	for _, score := range scores {
		existing, ok := latest[score.CriterionID]
		if !ok {
			order = append(order, score.CriterionID)
			latest[score.CriterionID] = score
			continue
		}
		if !score.CreatedAt.Before(existing.CreatedAt) {
			latest[score.CriterionID] = score
		}
	}

	byDomain := make(map[uuid.UUID][]domain.CriterionScore)
	for _, criterionID := range order {
		score := latest[criterionID]
		byDomain[score.DomainID] = append(byDomain[score.DomainID], score)
	}
	return byDomain
}
