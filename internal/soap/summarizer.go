package soap

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/globalmedics/transcript-summarizer/apimodels"
	"github.com/globalmedics/transcript-summarizer/internal/apperror"
	"github.com/globalmedics/transcript-summarizer/internal/llm"
	"github.com/globalmedics/transcript-summarizer/internal/metrics"
)

// Generation parameters. These are fixed for every request.
const (
	MaxTokens   int64   = 3000
	Temperature float64 = 0.2
	TopP        float64 = 0.95
)

const DefaultTimeout = 120 * time.Second

type Summarizer struct {
	provider llm.Provider
	timeout  time.Duration
	metrics  *metrics.Metrics
}

type Option func(*Summarizer)

// WithTimeout bounds each model call. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(s *Summarizer) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Summarizer) {
		s.metrics = m
	}
}

func New(provider llm.Provider, opts ...Option) *Summarizer {
	s := &Summarizer{
		provider: provider,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize turns a transcript into a SOAP note. It blocks until the model
// replies, the timeout elapses or ctx is cancelled.
func (s *Summarizer) Summarize(ctx context.Context, transcript string) (*apimodels.SummaryResponse, error) {
	const op = "soap.Summarize"

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	slog.Debug("Starting summarization", "transcript_length", len(transcript))
	start := time.Now()

	resp, err := s.provider.Complete(ctx, llm.Request{
		SystemMessage: SystemPrompt,
		UserMessage:   BuildPrompt(transcript),
		MaxTokens:     MaxTokens,
		Temperature:   Temperature,
		TopP:          TopP,
	})
	elapsed := time.Since(start)

	if err != nil {
		appErr := classify(op, err)
		s.metrics.RecordCompletion(elapsed, appErr.Kind.String(), 0, 0)
		slog.Error("Model completion failed", "duration", elapsed, "error", err)
		return nil, appErr
	}

	hours, minutes, seconds := splitDuration(elapsed)
	slog.Info("Model completion finished",
		"hours", hours,
		"minutes", minutes,
		"seconds", seconds,
		"total_tokens", resp.Usage.TotalTokens,
		"model", resp.Model,
	)
	s.metrics.RecordCompletion(elapsed, "success", resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	return &apimodels.SummaryResponse{Conversation: resp.Content}, nil
}

func classify(op string, err error) *apperror.Error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperror.Timeout(op, err, "model provider timed out")
	case errors.Is(err, context.Canceled):
		return apperror.Internal(op, err, "request cancelled")
	default:
		return apperror.Upstream(op, err, "model provider request failed")
	}
}

func splitDuration(d time.Duration) (hours, minutes, seconds int) {
	total := int(d.Seconds())
	return total / 3600, (total % 3600) / 60, total % 60
}
