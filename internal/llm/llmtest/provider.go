// Package llmtest provides an in-memory llm.Provider for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/globalmedics/transcript-summarizer/internal/llm"
)

// Provider returns Content (or Err) and records every request it receives.
// If Block is set, Complete waits for ctx to end.
type Provider struct {
	Content string
	Usage   llm.Usage
	Err     error
	Block   bool

	mu       sync.Mutex
	requests []llm.Request
}

func (p *Provider) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	p.mu.Lock()
	p.requests = append(p.requests, req)
	p.mu.Unlock()

	if p.Block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if p.Err != nil {
		return nil, p.Err
	}
	return &llm.Response{Content: p.Content, Model: "fake-model", Usage: p.Usage}, nil
}

func (p *Provider) Requests() []llm.Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]llm.Request(nil), p.requests...)
}
