package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	retrievalapp "github.com/maturion/genesis-forge/internal/module/retrieval/application"
	retrievaldomain "github.com/maturion/genesis-forge/internal/module/retrieval/domain"
)

type searchHandler struct {
	search *retrievalapp.SearchService
}

func newSearchHandler(search *retrievalapp.SearchService) *searchHandler {
	return &searchHandler{search: search}
}

type searchRequest struct {
	OrgID               string   `json:"orgId"`
	Query               string   `json:"query"`
	DocumentTypes       []string `json:"documentTypes"`
	Limit               int      `json:"limit"`
	SimilarityThreshold float64  `json:"similarityThreshold"`
	AllowScopeWidening  bool     `json:"allowScopeWidening"`
	PrincipalID         string   `json:"principalId"`
}

func (h *searchHandler) handleSearch(c *fiber.Ctx) error {
	var req searchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	orgID, err := uuid.Parse(req.OrgID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "orgId must be a valid UUID")
	}

	var principalID uuid.UUID
	if req.PrincipalID != "" {
		principalID, err = uuid.Parse(req.PrincipalID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "principalId must be a valid UUID")
		}
	}

	response, err := h.search.SearchContext(c.Context(), retrievalapp.SearchContextParams{
		OrgID:               orgID,
		Query:               req.Query,
		DocumentTypes:       req.DocumentTypes,
		Limit:               req.Limit,
		SimilarityThreshold: req.SimilarityThreshold,
		AllowScopeWidening:  req.AllowScopeWidening,
		PrincipalID:         principalID,
	})
	if err != nil {
		switch {
		case errors.Is(err, retrievaldomain.ErrEmptyQuery),
			errors.Is(err, retrievaldomain.ErrMissingScope):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case errors.Is(err, retrievaldomain.ErrEmbeddingUnavailable):
			return fiber.NewError(fiber.StatusServiceUnavailable, "embedding service unavailable")
		default:
			return err
		}
	}

	return c.JSON(response)
}
