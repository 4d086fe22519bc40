package llm

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when the provider answers without any choices.
var ErrEmptyResponse = errors.New("model returned no choices")

type Provider interface {
	// Complete sends a single system + user exchange and waits for the full reply.
	Complete(ctx context.Context, req Request) (*Response, error)
}

type Request struct {
	SystemMessage string
	UserMessage   string
	MaxTokens     int64
	Temperature   float64
	TopP          float64
}

type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
}

type Response struct {
	Content string
	Model   string
	Usage   Usage
}
