package adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/maturion/genesis-forge/internal/module/llm/domain"
)

// OpenAIClient はOpenAI Chat Completions APIを使用したClient実装
type OpenAIClient struct {
	client openai.Client
	model  string
}

// NewOpenAIClient は新しいOpenAIClientを作成します
func NewOpenAIClient(apiKey, model string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, domain.ErrAPIKeyNotSet
	}

	return &OpenAIClient{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

// GenerateCompletion はチャット補完を1回生成します
func (c *OpenAIClient) GenerateCompletion(ctx context.Context, req domain.CompletionRequest) (*domain.CompletionResponse, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: messages,
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	return &domain.CompletionResponse{
		Content: resp.Choices[0].Message.Content,
	}, nil
}

// GenerateCompletionWithRetry は失敗時に指数バックオフでリトライしながら補完を生成します
func (c *OpenAIClient) GenerateCompletionWithRetry(ctx context.Context, req domain.CompletionRequest, maxRetries int) (*domain.CompletionResponse, error) {
	var lastErr error

	for i := 0; i <= maxRetries; i++ {
		result, err := c.GenerateCompletion(ctx, req)
		if err == nil {
			return result, nil
		}

		lastErr = err

		// 最後の試行でない場合は待機
		if i < maxRetries {
			// Exponential backoff: 2秒, 4秒, 8秒...
			backoff := time.Duration(1<<uint(i)) * 2 * time.Second
			if backoff > 32*time.Second {
				backoff = 32 * time.Second
			}

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				// 続行
			}
		}
	}

	return nil, fmt.Errorf("%w (%d attempts): %v", domain.ErrMaxRetriesExceeded, maxRetries+1, lastErr)
}

// ModelName はモデル名を返す
func (c *OpenAIClient) ModelName() string {
	return c.model
}

// インターフェース実装の確認
var _ domain.Client = (*OpenAIClient)(nil)
