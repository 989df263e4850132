package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	generationapp "github.com/maturion/genesis-forge/internal/module/generation/application"
	generationdomain "github.com/maturion/genesis-forge/internal/module/generation/domain"
)

type frameworkHandler struct {
	generation *generationapp.GenerationService
}

func newFrameworkHandler(generation *generationapp.GenerationService) *frameworkHandler {
	return &frameworkHandler{generation: generation}
}

type generateFrameworkRequest struct {
	OrgID       string `json:"orgId"`
	Industry    string `json:"industry"`
	DomainCount int    `json:"domainCount"`
}

type criterionResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type frameworkDomainResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	TargetLevel string              `json:"targetLevel"`
	Criteria    []criterionResponse `json:"criteria,omitempty"`
}

type frameworkResponse struct {
	ID          string                    `json:"id"`
	OrgID       string                    `json:"orgId"`
	Name        string                    `json:"name"`
	Description string                    `json:"description,omitempty"`
	Domains     []frameworkDomainResponse `json:"domains,omitempty"`
}

func toFrameworkResponse(f *generationdomain.Framework) frameworkResponse {
	resp := frameworkResponse{
		ID:          f.ID.String(),
		OrgID:       f.OrgID.String(),
		Name:        f.Name,
		Description: f.Description,
	}
	for _, d := range f.Domains {
		dr := frameworkDomainResponse{
			ID:          d.ID.String(),
			Name:        d.Name,
			Description: d.Description,
			TargetLevel: d.TargetLevel,
		}
		for _, cr := range d.Criteria {
			dr.Criteria = append(dr.Criteria, criterionResponse{
				ID:          cr.ID.String(),
				Name:        cr.Name,
				Description: cr.Description,
			})
		}
		resp.Domains = append(resp.Domains, dr)
	}
	return resp
}

func (h *frameworkHandler) handleGenerate(c *fiber.Ctx) error {
	var req generateFrameworkRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	orgID, err := uuid.Parse(req.OrgID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "orgId must be a valid UUID")
	}

	framework, err := h.generation.GenerateFramework(c.Context(), generationapp.GenerateFrameworkParams{
		OrgID:       orgID,
		Industry:    req.Industry,
		DomainCount: req.DomainCount,
	})
	if err != nil {
		switch {
		case errors.Is(err, generationdomain.ErrEmptyIndustry):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case errors.Is(err, generationdomain.ErrUnparsableResponse),
			errors.Is(err, generationdomain.ErrEmptyFramework),
			errors.Is(err, generationdomain.ErrInvalidTargetLevel):
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		default:
			return err
		}
	}

	return c.Status(fiber.StatusCreated).JSON(toFrameworkResponse(framework))
}

func (h *frameworkHandler) handleList(c *fiber.Ctx) error {
	orgID, err := uuid.Parse(c.Query("org_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "org_id must be a valid UUID")
	}

	frameworks, err := h.generation.ListFrameworks(c.Context(), orgID)
	if err != nil {
		return err
	}

	responses := make([]frameworkResponse, 0, len(frameworks))
	for i := range frameworks {
		responses = append(responses, toFrameworkResponse(&frameworks[i]))
	}

	return c.JSON(fiber.Map{"frameworks": responses})
}

func (h *frameworkHandler) handleGet(c *fiber.Ctx) error {
	orgID, err := uuid.Parse(c.Query("org_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "org_id must be a valid UUID")
	}
	frameworkID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "framework id must be a valid UUID")
	}

	framework, err := h.generation.GetFramework(c.Context(), orgID, frameworkID)
	if err != nil {
		if errors.Is(err, generationdomain.ErrFrameworkNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "framework not found")
		}
		return err
	}

	return c.JSON(toFrameworkResponse(framework))
}
