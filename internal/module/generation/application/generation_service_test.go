package application

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maturion/genesis-forge/internal/module/generation/domain"
)

type fakeFrameworkRepository struct {
	inserted []domain.Framework
}

func (f *fakeFrameworkRepository) InsertFramework(_ context.Context, framework domain.Framework) error {
	f.inserted = append(f.inserted, framework)
	return nil
}

func (f *fakeFrameworkRepository) GetFramework(_ context.Context, _, _ uuid.UUID) (*domain.Framework, error) {
	return nil, domain.ErrFrameworkNotFound
}

func (f *fakeFrameworkRepository) ListFrameworks(_ context.Context, _ uuid.UUID) ([]domain.Framework, error) {
	return nil, nil
}

type fakeRetriever struct {
	chunks []string
	err    error
	calls  int
}

func (f *fakeRetriever) RetrieveContext(_ context.Context, _ uuid.UUID, _ string) ([]string, error) {
	f.calls++
	return f.chunks, f.err
}

type fakeCompletion struct {
	response   string
	err        error
	lastPrompt string
}

func (f *fakeCompletion) Complete(_ context.Context, _, prompt string) (string, error) {
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

const modelResponse = "```json\n" + `{
  "name": "Operational Maturity",
  "description": "Generated framework",
  "domains": [
    {
      "name": "Incident Management",
      "description": "Detection and response",
      "target_level": "proactive",
      "criteria": [
        {"name": "On-call rotation", "description": "A staffed on-call rotation exists"},
        {"name": "Postmortems", "description": "Incidents get blameless postmortems"}
      ]
    }
  ]
}` + "\n```"

func newGenerationService(repo *fakeFrameworkRepository, retriever *fakeRetriever, completion *fakeCompletion) *GenerationService {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewGenerationService(repo, retriever, completion, log)
}

func TestGenerateFrameworkSuccess(t *testing.T) {
	repo := &fakeFrameworkRepository{}
	retriever := &fakeRetriever{chunks: []string{"our incident process excerpt"}}
	completion := &fakeCompletion{response: modelResponse}
	svc := newGenerationService(repo, retriever, completion)

	orgID := uuid.New()
	framework, err := svc.GenerateFramework(context.Background(), GenerateFrameworkParams{
		OrgID:    orgID,
		Industry: "SaaS provider",
	})
	require.NoError(t, err)

	assert.Equal(t, "Operational Maturity", framework.Name)
	assert.Equal(t, orgID, framework.OrgID)
	require.Len(t, framework.Domains, 1)
	assert.Equal(t, "proactive", framework.Domains[0].TargetLevel)
	require.Len(t, framework.Domains[0].Criteria, 2)

	// 採番と親子リンクが揃っている
	d := framework.Domains[0]
	assert.Equal(t, framework.ID, d.FrameworkID)
	assert.Equal(t, d.ID, d.Criteria[0].DomainID)

	require.Len(t, repo.inserted, 1)
	assert.Contains(t, completion.lastPrompt, "our incident process excerpt")
}

func TestGenerateFrameworkContinuesWithoutContext(t *testing.T) {
	repo := &fakeFrameworkRepository{}
	retriever := &fakeRetriever{err: errors.New("search unavailable")}
	completion := &fakeCompletion{response: modelResponse}
	svc := newGenerationService(repo, retriever, completion)

	_, err := svc.GenerateFramework(context.Background(), GenerateFrameworkParams{
		OrgID:    uuid.New(),
		Industry: "Manufacturing",
	})
	require.NoError(t, err)
	assert.Contains(t, completion.lastPrompt, "no organization documents available")
}

func TestGenerateFrameworkRejectsEmptyIndustry(t *testing.T) {
	svc := newGenerationService(&fakeFrameworkRepository{}, &fakeRetriever{}, &fakeCompletion{})

	_, err := svc.GenerateFramework(context.Background(), GenerateFrameworkParams{
		OrgID:    uuid.New(),
		Industry: "   ",
	})
	assert.ErrorIs(t, err, domain.ErrEmptyIndustry)
}

func TestGenerateFrameworkPropagatesCompletionFailure(t *testing.T) {
	completionErr := errors.New("model unavailable")
	repo := &fakeFrameworkRepository{}
	svc := newGenerationService(repo, &fakeRetriever{}, &fakeCompletion{err: completionErr})

	_, err := svc.GenerateFramework(context.Background(), GenerateFrameworkParams{
		OrgID:    uuid.New(),
		Industry: "Retail",
	})
	assert.ErrorIs(t, err, completionErr)
	assert.Empty(t, repo.inserted)
}

func TestGenerateFrameworkRejectsUnparsableResponse(t *testing.T) {
	repo := &fakeFrameworkRepository{}
	svc := newGenerationService(repo, &fakeRetriever{}, &fakeCompletion{response: "sorry, cannot help"})

	_, err := svc.GenerateFramework(context.Background(), GenerateFrameworkParams{
		OrgID:    uuid.New(),
		Industry: "Retail",
	})
	assert.ErrorIs(t, err, domain.ErrUnparsableResponse)
	assert.Empty(t, repo.inserted)
}
