package providers

import (
	"context"
	"time"

	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/codemarcinu/steward/internal/llm"
)

// DefaultOllamaURL is the local Ollama server default.
const DefaultOllamaURL = "http://localhost:11434"

// OllamaClient drives local Ollama models through langchaingo.
// No API key is involved; BaseURL overrides the local default.
type OllamaClient struct {
	backend *ollama.LLM
	model   string
	timeout time.Duration
}

// NewOllamaClient builds a client for a local or remote Ollama server.
func NewOllamaClient(cfg Config) (*OllamaClient, error) {
	serverURL := cfg.BaseURL
	if serverURL == "" {
		serverURL = DefaultOllamaURL
	}

	opts := []ollama.Option{
		ollama.WithServerURL(serverURL),
	}
	if cfg.Model != "" {
		opts = append(opts, ollama.WithModel(cfg.Model))
	}

	backend, err := ollama.New(opts...)
	if err != nil {
		return nil, llm.TranslateError("ollama", err)
	}

	return &OllamaClient{
		backend: backend,
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}, nil
}

// Invoke sends one prompt pair and returns the raw completion text.
func (c *OllamaClient) Invoke(ctx context.Context, req llm.InvokeRequest) (*llm.InvokeResponse, error) {
	return generate(ctx, "ollama", c.model, c.backend, req, c.timeout)
}

// Model returns the configured model name.
func (c *OllamaClient) Model() string {
	return c.model
}
