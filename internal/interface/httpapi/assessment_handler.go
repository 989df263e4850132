package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	scoringapp "github.com/maturion/genesis-forge/internal/module/scoring/application"
	scoringdomain "github.com/maturion/genesis-forge/internal/module/scoring/domain"
)

type assessmentHandler struct {
	scoring *scoringapp.ScoringService
}

func newAssessmentHandler(scoring *scoringapp.ScoringService) *assessmentHandler {
	return &assessmentHandler{scoring: scoring}
}

type submitAnswerRequest struct {
	OrgID         string  `json:"orgId"`
	DomainID      string  `json:"domainId"`
	CriterionID   string  `json:"criterionId"`
	CurrentLevel  string  `json:"currentLevel"`
	TargetLevel   string  `json:"targetLevel"`
	EvidenceScore float64 `json:"evidenceScore"`
}

func (h *assessmentHandler) handleSubmitAnswer(c *fiber.Ctx) error {
	assessmentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "assessment id must be a valid UUID")
	}

	var req submitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	orgID, err := uuid.Parse(req.OrgID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "orgId must be a valid UUID")
	}
	domainID, err := uuid.Parse(req.DomainID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "domainId must be a valid UUID")
	}
	criterionID, err := uuid.Parse(req.CriterionID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "criterionId must be a valid UUID")
	}

	score, err := h.scoring.SubmitAnswer(c.Context(), scoringapp.SubmitAnswerParams{
		AssessmentID:  assessmentID,
		OrgID:         orgID,
		DomainID:      domainID,
		CriterionID:   criterionID,
		CurrentLevel:  req.CurrentLevel,
		TargetLevel:   req.TargetLevel,
		EvidenceScore: req.EvidenceScore,
	})
	if err != nil {
		if errors.Is(err, scoringdomain.ErrUnknownLevel) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":           score.ID.String(),
		"assessmentId": score.AssessmentID.String(),
		"criterionId":  score.CriterionID.String(),
		"currentLevel": string(score.CurrentLevel),
		"targetLevel":  string(score.TargetLevel),
		"createdAt":    score.CreatedAt,
	})
}

type domainScoreResponse struct {
	DomainID           string  `json:"domainId"`
	DomainName         string  `json:"domainName"`
	CalculatedLevel    string  `json:"calculatedLevel,omitempty"`
	TargetLevel        string  `json:"targetLevel"`
	MeetsThreshold     bool    `json:"meetsThreshold"`
	PenaltyApplied     bool    `json:"penaltyApplied"`
	PercentageAtTarget float64 `json:"percentageAtTarget"`
	CriteriaCount      int     `json:"criteriaCount"`
}

func (h *assessmentHandler) handleGetScore(c *fiber.Ctx) error {
	assessmentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "assessment id must be a valid UUID")
	}

	result, err := h.scoring.CalculateAssessmentScore(c.Context(), assessmentID)
	if err != nil {
		if errors.Is(err, scoringdomain.ErrNoDomainScores) {
			return fiber.NewError(fiber.StatusNotFound, "assessment has no domains")
		}
		return err
	}

	domains := make([]domainScoreResponse, 0, len(result.DomainScores))
	for _, ds := range result.DomainScores {
		domains = append(domains, domainScoreResponse{
			DomainID:           ds.DomainID.String(),
			DomainName:         ds.DomainName,
			CalculatedLevel:    string(ds.CalculatedLevel),
			TargetLevel:        string(ds.TargetLevel),
			MeetsThreshold:     ds.MeetsThreshold,
			PenaltyApplied:     ds.PenaltyApplied,
			PercentageAtTarget: ds.PercentageAtTarget,
			CriteriaCount:      len(ds.CriteriaScores),
		})
	}

	return c.JSON(fiber.Map{
		"assessmentId":         result.AssessmentID.String(),
		"domainScores":         domains,
		"completionPercentage": result.Progress.CompletionPercentage,
		"overallMaturityLevel": string(result.Progress.OverallMaturityLevel),
	})
}
