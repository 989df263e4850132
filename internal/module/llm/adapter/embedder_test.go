package adapter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maturion/genesis-forge/internal/module/llm/domain"
)

func TestNewOpenAIEmbedderOptionsOverrideDefaults(t *testing.T) {
	embedder, err := NewOpenAIEmbedder("dummy-key",
		WithEmbeddingModel("custom-model"),
		WithEmbeddingDimension(42),
		WithEmbedTimeout(3*time.Second),
	)
	require.NoError(t, err)

	assert.Equal(t, "custom-model", embedder.ModelName())
	assert.Equal(t, 42, embedder.Dimension())
}

func TestNewOpenAIEmbedderRequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIEmbedder("")
	assert.ErrorIs(t, err, domain.ErrAPIKeyNotSet)
}

func TestBatchEmbedValidation(t *testing.T) {
	embedder, err := NewOpenAIEmbedder("dummy-key")
	require.NoError(t, err)

	_, err = embedder.BatchEmbed(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrEmptyInput)

	tooMany := make([]string, embedder.MaxBatchSize()+1)
	for i := range tooMany {
		tooMany[i] = "text"
	}
	_, err = embedder.BatchEmbed(context.Background(), tooMany)
	assert.ErrorIs(t, err, domain.ErrBatchTooLarge)
}
