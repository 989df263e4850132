package httpapi

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/maturion/genesis-forge/internal/platform/container"
)

// Server はアプリケーションサービスを公開するHTTPサーバです
type Server struct {
	app *fiber.App
	log *slog.Logger
}

// NewServer はルーティング設定済みのサーバを作成します
func NewServer(c *container.Container) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Genesis Forge API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		BodyLimit:    32 * 1024 * 1024,
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	s := &Server{app: app, log: c.Logger()}

	searchHandler := newSearchHandler(c.SearchService)
	documentHandler := newDocumentHandler(c.IngestService)
	assessmentHandler := newAssessmentHandler(c.ScoringService)
	frameworkHandler := newFrameworkHandler(c.GenerationService)
	auditHandler := newAuditHandler(c.AuditRepository)

	api := app.Group("/api/v1")
	api.Get("/health", handleHealth)
	api.Post("/search", searchHandler.handleSearch)
	api.Post("/documents", documentHandler.handleIngest)
	api.Get("/documents", documentHandler.handleList)
	api.Get("/documents/:id", documentHandler.handleGet)
	api.Post("/assessments/:id/answers", assessmentHandler.handleSubmitAnswer)
	api.Get("/assessments/:id/score", assessmentHandler.handleGetScore)
	api.Post("/frameworks/generate", frameworkHandler.handleGenerate)
	api.Get("/frameworks", frameworkHandler.handleList)
	api.Get("/frameworks/:id", frameworkHandler.handleGet)
	api.Get("/audit", auditHandler.handleList)

	return s
}

// Listen は指定ポートでリクエストの受付を開始します
func (s *Server) Listen(port int) error {
	return s.app.Listen(fmt.Sprintf(":%d", port))
}

// Shutdown はサーバを停止します
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App はテスト用に内部のfiberアプリを返します
func (s *Server) App() *fiber.App {
	return s.app
}

func handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "healthy",
		"time":   time.Now().UTC(),
	})
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
