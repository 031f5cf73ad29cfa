package providers

import (
	"context"
	"os"
	"time"

	"github.com/tmc/langchaingo/llms/anthropic"

	"github.com/codemarcinu/steward/internal/llm"
	"github.com/codemarcinu/steward/internal/types"
)

// AnthropicClient drives Anthropic's Claude models through langchaingo.
type AnthropicClient struct {
	backend *anthropic.LLM
	model   string
	timeout time.Duration
}

// NewAnthropicClient builds a client from config. The API key falls back
// to the ANTHROPIC_API_KEY environment variable.
func NewAnthropicClient(cfg Config) (*AnthropicClient, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, types.NewError(types.MODEL_UNAVAILABLE,
			"anthropic API key is not configured")
	}

	opts := []anthropic.Option{
		anthropic.WithToken(apiKey),
	}
	if cfg.Model != "" {
		opts = append(opts, anthropic.WithModel(cfg.Model))
	}

	backend, err := anthropic.New(opts...)
	if err != nil {
		return nil, llm.TranslateError("anthropic", err)
	}

	return &AnthropicClient{
		backend: backend,
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}, nil
}

// Invoke sends one prompt pair and returns the raw completion text.
func (c *AnthropicClient) Invoke(ctx context.Context, req llm.InvokeRequest) (*llm.InvokeResponse, error) {
	return generate(ctx, "anthropic", c.model, c.backend, req, c.timeout)
}

// Model returns the configured model name.
func (c *AnthropicClient) Model() string {
	return c.model
}
