package httpapi

import (
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	ingestionapp "github.com/maturion/genesis-forge/internal/module/ingestion/application"
	ingestiondomain "github.com/maturion/genesis-forge/internal/module/ingestion/domain"
)

type documentHandler struct {
	ingest *ingestionapp.IngestService
}

func newDocumentHandler(ingest *ingestionapp.IngestService) *documentHandler {
	return &documentHandler{ingest: ingest}
}

type documentResponse struct {
	ID            string    `json:"id"`
	OrgID         string    `json:"orgId"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	Status        string    `json:"status"`
	SizeBytes     int64     `json:"sizeBytes"`
	ChunkCount    int       `json:"chunkCount"`
	FailureReason string    `json:"failureReason,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func toDocumentResponse(doc *ingestiondomain.Document) documentResponse {
	return documentResponse{
		ID:            doc.ID.String(),
		OrgID:         doc.OrgID.String(),
		Name:          doc.Name,
		Type:          string(doc.Type),
		Status:        string(doc.Status),
		SizeBytes:     doc.SizeBytes,
		ChunkCount:    doc.ChunkCount,
		FailureReason: doc.FailureReason,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
}

// handleIngest はmultipartで受け取ったファイルを取り込みます。
// フィールド: file, org_id, type
func (h *documentHandler) handleIngest(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "file field is required")
	}

	orgID, err := uuid.Parse(c.FormValue("org_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "org_id must be a valid UUID")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to open uploaded file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to read uploaded file")
	}

	doc, err := h.ingest.IngestDocument(c.Context(), ingestionapp.IngestDocumentParams{
		OrgID:    orgID,
		Filename: fileHeader.Filename,
		Type:     c.FormValue("type"),
		Data:     data,
	})
	if err != nil {
		switch {
		case errors.Is(err, ingestiondomain.ErrUnknownDocumentType),
			errors.Is(err, ingestiondomain.ErrUnsupportedFormat),
			errors.Is(err, ingestiondomain.ErrEmptyDocument),
			errors.Is(err, ingestiondomain.ErrNoChunks):
			// ドキュメントレコードが残る失敗もあるため、あればレスポンスに含める
			if doc != nil {
				return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
					"error":    err.Error(),
					"document": toDocumentResponse(doc),
				})
			}
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		default:
			return err
		}
	}

	return c.Status(fiber.StatusCreated).JSON(toDocumentResponse(doc))
}

func (h *documentHandler) handleList(c *fiber.Ctx) error {
	orgID, err := uuid.Parse(c.Query("org_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "org_id must be a valid UUID")
	}

	docs, err := h.ingest.ListDocuments(c.Context(), orgID)
	if err != nil {
		return err
	}

	responses := make([]documentResponse, 0, len(docs))
	for i := range docs {
		responses = append(responses, toDocumentResponse(&docs[i]))
	}

	return c.JSON(fiber.Map{"documents": responses})
}

func (h *documentHandler) handleGet(c *fiber.Ctx) error {
	orgID, err := uuid.Parse(c.Query("org_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "org_id must be a valid UUID")
	}
	documentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "document id must be a valid UUID")
	}

	doc, err := h.ingest.GetDocument(c.Context(), orgID, documentID)
	if err != nil {
		if errors.Is(err, ingestiondomain.ErrDocumentNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "document not found")
		}
		return err
	}

	return c.JSON(toDocumentResponse(doc))
}
