package domain

import "context"

// CompletionRequest はチャット補完のリクエスト
type CompletionRequest struct {
	SystemPrompt string
	Prompt       string
	Temperature  float64
	MaxTokens    int
}

// CompletionResponse はチャット補完のレスポンス
type CompletionResponse struct {
	Content string
}

// Client はチャット補完を生成するインターフェース
type Client interface {
	GenerateCompletion(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	GenerateCompletionWithRetry(ctx context.Context, req CompletionRequest, maxRetries int) (*CompletionResponse, error)
}
