package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"

	"github.com/globalmedics/transcript-summarizer/internal/config"
)

// OpenAI client implementation
type OpenAI struct {
	client *openai.Client
	cfg    *config.ModelConfig
}

func NewOpenAI(cfg *config.ModelConfig, opts ...option.RequestOption) (*OpenAI, error) {
	if cfg == nil {
		return nil, fmt.Errorf("model config cannot be nil")
	}

	var base []option.RequestOption
	switch cfg.Provider {
	case config.ProviderAzure:
		base = []option.RequestOption{
			azure.WithEndpoint(cfg.Endpoint, cfg.APIVersion),
			azure.WithAPIKey(cfg.APIKey),
		}
	case config.ProviderOpenAI:
		base = []option.RequestOption{
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(cfg.Endpoint),
		}
	default:
		return nil, fmt.Errorf("unsupported model provider %q", cfg.Provider)
	}
	// Failed calls surface to the caller as-is.
	base = append(base, option.WithMaxRetries(0))

	slog.Info("Creating model client", "provider", cfg.Provider, "endpoint", cfg.Endpoint, "deployment", cfg.Deployment)

	return &OpenAI{
		client: openai.NewClient(append(base, opts...)...),
		cfg:    cfg,
	}, nil
}

func (o *OpenAI) Complete(ctx context.Context, req Request) (*Response, error) {
	resp, err := o.client.Chat.Completions.New(
		ctx,
		openai.ChatCompletionNewParams{
			Model: openai.F(openai.ChatModel(o.cfg.Deployment)),
			Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(req.SystemMessage),
				openai.UserMessage(req.UserMessage),
			}),
			MaxTokens:   openai.F(req.MaxTokens),
			Temperature: openai.F(req.Temperature),
			TopP:        openai.F(req.TopP),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("chat completion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	return &Response{
		Content: resp.Choices[0].Message.Content,
		Model:   resp.Model,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}
