package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/maturion/genesis-forge/internal/module/generation/adapter/generator"
	"github.com/maturion/genesis-forge/internal/module/generation/domain"
)

const (
	// DefaultDomainCount は生成するドメイン数の既定値
	DefaultDomainCount = 5
	maxDomainCount     = 10
)

// GenerateFrameworkParams はフレームワーク生成のパラメータです
type GenerateFrameworkParams struct {
	OrgID       uuid.UUID
	Industry    string
	DomainCount int
}

// GenerationService は成熟度フレームワークの生成ユースケースを提供します。
// 組織のドキュメントから取得したコンテキストを添えてモデルに生成させ、
// 解釈できた結果のみを保存します。
type GenerationService struct {
	frameworks domain.FrameworkRepository
	retriever  domain.ContextRetriever
	completion domain.CompletionClient
	prompts    *generator.PromptBuilder
	logger     *slog.Logger
}

// NewGenerationService は新しいGenerationServiceを作成します
func NewGenerationService(
	frameworks domain.FrameworkRepository,
	retriever domain.ContextRetriever,
	completion domain.CompletionClient,
	logger *slog.Logger,
) *GenerationService {
	return &GenerationService{
		frameworks: frameworks,
		retriever:  retriever,
		completion: completion,
		prompts:    generator.NewPromptBuilder(),
		logger:     logger,
	}
}

// GenerateFramework は組織コンテキストに基づくフレームワークを生成して保存します
func (s *GenerationService) GenerateFramework(ctx context.Context, params GenerateFrameworkParams) (*domain.Framework, error) {
	industry := strings.TrimSpace(params.Industry)
	if industry == "" {
		return nil, domain.ErrEmptyIndustry
	}
	if params.OrgID == uuid.Nil {
		return nil, fmt.Errorf("org ID is required")
	}

	domainCount := params.DomainCount
	if domainCount <= 0 {
		domainCount = DefaultDomainCount
	} else if domainCount > maxDomainCount {
		domainCount = maxDomainCount
	}

	// コンテキスト取得の失敗は生成を止めない。ドキュメント未登録の
	// 組織でもフレームワークは作れる必要がある。
	contextChunks, err := s.retriever.RetrieveContext(ctx, params.OrgID, industry)
	if err != nil {
		s.logger.Warn("context retrieval failed, generating without document context",
			slog.String("org_id", params.OrgID.String()),
			slog.Any("error", err),
		)
		contextChunks = nil
	}

	prompt := s.prompts.Build(industry, contextChunks, domainCount)

	response, err := s.completion.Complete(ctx, s.prompts.SystemPrompt(), prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate framework: %w", err)
	}

	payload, err := generator.ParseFrameworkResponse(response)
	if err != nil {
		return nil, err
	}

	framework := buildFramework(params.OrgID, payload)

	if err := s.frameworks.InsertFramework(ctx, framework); err != nil {
		return nil, fmt.Errorf("failed to store framework: %w", err)
	}

	s.logger.Info("framework generated",
		slog.String("framework_id", framework.ID.String()),
		slog.String("org_id", params.OrgID.String()),
		slog.Int("domain_count", len(framework.Domains)),
	)

	return &framework, nil
}

// GetFramework はフレームワークをドメイン・基準込みで取得します
func (s *GenerationService) GetFramework(ctx context.Context, orgID, frameworkID uuid.UUID) (*domain.Framework, error) {
	return s.frameworks.GetFramework(ctx, orgID, frameworkID)
}

// ListFrameworks は組織のフレームワーク一覧を返します
func (s *GenerationService) ListFrameworks(ctx context.Context, orgID uuid.UUID) ([]domain.Framework, error) {
	return s.frameworks.ListFrameworks(ctx, orgID)
}

// buildFramework は解釈済みペイロードからID採番済みのモデルを組み立てます
func buildFramework(orgID uuid.UUID, payload *generator.FrameworkPayload) domain.Framework {
	framework := domain.Framework{
		ID:          uuid.New(),
		OrgID:       orgID,
		Name:        payload.Name,
		Description: payload.Description,
		CreatedAt:   time.Now().UTC(),
	}

	for i, d := range payload.Domains {
		fd := domain.FrameworkDomain{
			ID:          uuid.New(),
			FrameworkID: framework.ID,
			Name:        d.Name,
			Description: d.Description,
			TargetLevel: d.TargetLevel,
			Position:    i,
		}
		for j, c := range d.Criteria {
			fd.Criteria = append(fd.Criteria, domain.Criterion{
				ID:          uuid.New(),
				DomainID:    fd.ID,
				Name:        c.Name,
				Description: c.Description,
				Position:    j,
			})
		}
		framework.Domains = append(framework.Domains, fd)
	}

	return framework
}
