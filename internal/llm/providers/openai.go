package providers

import (
	"context"
	"os"
	"time"

	"github.com/tmc/langchaingo/llms/openai"

	"github.com/codemarcinu/steward/internal/llm"
	"github.com/codemarcinu/steward/internal/types"
)

// OpenAIClient drives OpenAI's GPT models through langchaingo.
type OpenAIClient struct {
	backend *openai.LLM
	model   string
	timeout time.Duration
}

// NewOpenAIClient builds a client from config. The API key falls back to
// the OPENAI_API_KEY environment variable; BaseURL supports compatible
// gateways.
func NewOpenAIClient(cfg Config) (*OpenAIClient, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, types.NewError(types.MODEL_UNAVAILABLE,
			"openai API key is not configured")
	}

	opts := []openai.Option{
		openai.WithToken(apiKey),
	}
	if cfg.Model != "" {
		opts = append(opts, openai.WithModel(cfg.Model))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	backend, err := openai.New(opts...)
	if err != nil {
		return nil, llm.TranslateError("openai", err)
	}

	return &OpenAIClient{
		backend: backend,
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}, nil
}

// Invoke sends one prompt pair and returns the raw completion text.
func (c *OpenAIClient) Invoke(ctx context.Context, req llm.InvokeRequest) (*llm.InvokeResponse, error) {
	return generate(ctx, "openai", c.model, c.backend, req, c.timeout)
}

// Model returns the configured model name.
func (c *OpenAIClient) Model() string {
	return c.model
}
