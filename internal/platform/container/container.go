package container

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	generationllm "github.com/maturion/genesis-forge/internal/module/generation/adapter/llm"
	generationpg "github.com/maturion/genesis-forge/internal/module/generation/adapter/pg"
	generationapp "github.com/maturion/genesis-forge/internal/module/generation/application"
	generationdomain "github.com/maturion/genesis-forge/internal/module/generation/domain"
	"github.com/maturion/genesis-forge/internal/module/ingestion/adapter/chunker"
	"github.com/maturion/genesis-forge/internal/module/ingestion/adapter/extractor"
	ingestionpg "github.com/maturion/genesis-forge/internal/module/ingestion/adapter/pg"
	ingestionapp "github.com/maturion/genesis-forge/internal/module/ingestion/application"
	llmadapter "github.com/maturion/genesis-forge/internal/module/llm/adapter"
	retrievalpg "github.com/maturion/genesis-forge/internal/module/retrieval/adapter/pg"
	"github.com/maturion/genesis-forge/internal/module/retrieval/adapter/searcher"
	retrievalapp "github.com/maturion/genesis-forge/internal/module/retrieval/application"
	scoringpg "github.com/maturion/genesis-forge/internal/module/scoring/adapter/pg"
	scoringapp "github.com/maturion/genesis-forge/internal/module/scoring/application"
	scoringdomain "github.com/maturion/genesis-forge/internal/module/scoring/domain"
	"github.com/maturion/genesis-forge/internal/platform/config"
	"github.com/maturion/genesis-forge/internal/platform/database"
)

// Container はアプリケーション全体の依存関係を保持します
type Container struct {
	SearchService     *retrievalapp.SearchService
	IngestService     *ingestionapp.IngestService
	ScoringService    *scoringapp.ScoringService
	GenerationService *generationapp.GenerationService
	AuditRepository   *retrievalpg.AuditRepository

	logger   *slog.Logger
	database *database.Database
}

// New は設定から全サービスを組み立てます
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := database.New(ctx, database.ConnectionParams{
		DSN:             cfg.Database.DSN(),
		HealthCheckWait: 10 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	c, err := NewWithDB(cfg, db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// NewWithDB は既存のDatabaseを受け取りコンテナを組み立てます
func NewWithDB(cfg *config.Config, db *database.Database, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	embedder, err := llmadapter.NewOpenAIEmbedder(cfg.OpenAI.APIKey,
		llmadapter.WithEmbeddingModel(cfg.OpenAI.EmbeddingModel),
		llmadapter.WithEmbeddingDimension(cfg.OpenAI.EmbeddingDimension),
		llmadapter.WithEmbedTimeout(time.Duration(cfg.Search.EmbedTimeoutSeconds)*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	llmClient, err := llmadapter.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.ChatModel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize llm client: %w", err)
	}

	// 検索
	chunkRepo := retrievalpg.NewChunkRepository(db.Pool)
	membershipRepo := retrievalpg.NewMembershipRepository(db.Pool)
	auditRepo := retrievalpg.NewAuditRepository(db.Pool)
	search := searcher.NewSearcher(chunkRepo, membershipRepo, auditRepo, embedder)
	searchService := retrievalapp.NewSearchService(search, retrievalapp.PolicyDefaults{
		SimilarityThreshold: cfg.Search.SimilarityThreshold,
		DefaultLimit:        cfg.Search.DefaultLimit,
		CandidateLimit:      cfg.Search.CandidateLimit,
	}, logger)

	// 取り込み
	docChunker, err := chunker.NewChunker(chunker.WithMinChars(cfg.Search.MinChunkChars))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize chunker: %w", err)
	}
	documentRepo := ingestionpg.NewDocumentRepository(db.Pool)
	ingestService := ingestionapp.NewIngestService(documentRepo, extractor.NewExtractor(), docChunker, embedder, logger)

	// スコアリング
	aggregator, err := scoringdomain.NewAggregator(cfg.Scoring.TargetThresholdPercent)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize aggregator: %w", err)
	}
	scoreRepo := scoringpg.NewScoreRepository(db.Pool)
	scoringService := scoringapp.NewScoringService(scoreRepo, aggregator, logger)

	// フレームワーク生成
	frameworkRepo := generationpg.NewFrameworkRepository(db.Pool)
	completionAdapter := generationllm.NewCompletionAdapter(llmClient,
		generationllm.WithTemperature(cfg.OpenAI.ChatTemperature),
		generationllm.WithMaxTokens(cfg.OpenAI.ChatMaxTokens),
	)
	retriever := &searchContextRetriever{search: searchService}
	generationService := generationapp.NewGenerationService(frameworkRepo, retriever, completionAdapter, logger)

	return &Container{
		SearchService:     searchService,
		IngestService:     ingestService,
		ScoringService:    scoringService,
		GenerationService: generationService,
		AuditRepository:   auditRepo,
		logger:            logger,
		database:          db,
	}, nil
}

// Close は内部リソースを解放します
func (c *Container) Close() {
	if c != nil && c.database != nil {
		c.database.Close()
	}
}

// Logger はロガーを返します
func (c *Container) Logger() *slog.Logger {
	if c == nil || c.logger == nil {
		return slog.Default()
	}
	return c.logger
}

// Database はデータベースを返します
func (c *Container) Database() *database.Database {
	if c == nil {
		return nil
	}
	return c.database
}

// searchContextRetriever は検索サービスを生成モジュールの
// ContextRetrieverポートに適合させます
type searchContextRetriever struct {
	search *retrievalapp.SearchService
}

var _ generationdomain.ContextRetriever = (*searchContextRetriever)(nil)

func (r *searchContextRetriever) RetrieveContext(ctx context.Context, orgID uuid.UUID, query string) ([]string, error) {
	response, err := r.search.SearchContext(ctx, retrievalapp.SearchContextParams{
		OrgID: orgID,
		Query: query,
	})
	if err != nil {
		return nil, err
	}

	chunks := make([]string, 0, len(response.Results))
	for _, result := range response.Results {
		chunks = append(chunks, result.Content)
	}
	return chunks, nil
}
