package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	retrievalpg "github.com/maturion/genesis-forge/internal/module/retrieval/adapter/pg"
)

const defaultAuditLimit = 50

type auditHandler struct {
	audit *retrievalpg.AuditRepository
}

func newAuditHandler(audit *retrievalpg.AuditRepository) *auditHandler {
	return &auditHandler{audit: audit}
}

type auditEntryResponse struct {
	ID           string    `json:"id"`
	Query        string    `json:"query"`
	ResultCount  int       `json:"resultCount"`
	SearchType   string    `json:"searchType"`
	ScopeWidened bool      `json:"scopeWidened"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (h *auditHandler) handleList(c *fiber.Ctx) error {
	orgID, err := uuid.Parse(c.Query("org_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "org_id must be a valid UUID")
	}

	limit := c.QueryInt("limit", defaultAuditLimit)
	if limit <= 0 || limit > 500 {
		limit = defaultAuditLimit
	}

	entries, err := h.audit.ListRecentSearches(c.Context(), orgID, limit)
	if err != nil {
		return err
	}

	responses := make([]auditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, auditEntryResponse{
			ID:           entry.ID.String(),
			Query:        entry.Query,
			ResultCount:  entry.ResultCount,
			SearchType:   string(entry.SearchType),
			ScopeWidened: entry.ScopeWidened,
			CreatedAt:    entry.CreatedAt,
		})
	}

	return c.JSON(fiber.Map{"entries": responses})
}
