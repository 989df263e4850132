package llm

import (
	"context"

	generationdomain "github.com/maturion/genesis-forge/internal/module/generation/domain"
	llmdomain "github.com/maturion/genesis-forge/internal/module/llm/domain"
)

const (
	defaultMaxRetries  = 2
	defaultTemperature = 0.2
	defaultMaxTokens   = 4096
)

// CompletionAdapter は生成モジュールのCompletionClientポートを
// LLMモジュールのクライアントで実装します
type CompletionAdapter struct {
	client      llmdomain.Client
	temperature float64
	maxTokens   int
	maxRetries  int
}

// Option はCompletionAdapterの設定オプション
type Option func(*CompletionAdapter)

// WithTemperature は生成温度を設定します
func WithTemperature(temperature float64) Option {
	return func(a *CompletionAdapter) {
		if temperature > 0 {
			a.temperature = temperature
		}
	}
}

// WithMaxTokens は生成トークン数の上限を設定します
func WithMaxTokens(maxTokens int) Option {
	return func(a *CompletionAdapter) {
		if maxTokens > 0 {
			a.maxTokens = maxTokens
		}
	}
}

// NewCompletionAdapter は新しいCompletionAdapterを作成します
func NewCompletionAdapter(client llmdomain.Client, opts ...Option) *CompletionAdapter {
	adapter := &CompletionAdapter{
		client:      client,
		temperature: defaultTemperature,
		maxTokens:   defaultMaxTokens,
		maxRetries:  defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(adapter)
	}
	return adapter
}

var _ generationdomain.CompletionClient = (*CompletionAdapter)(nil)

// Complete はリトライ付きでチャット補完を生成します
func (a *CompletionAdapter) Complete(ctx context.Context, systemPrompt, prompt string) (string, error) {
	resp, err := a.client.GenerateCompletionWithRetry(ctx, llmdomain.CompletionRequest{
		SystemPrompt: systemPrompt,
		Prompt:       prompt,
		Temperature:  a.temperature,
		MaxTokens:    a.maxTokens,
	}, a.maxRetries)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
