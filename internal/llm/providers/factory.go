package providers

import (
	"fmt"
	"time"

	"github.com/codemarcinu/steward/internal/llm"
	"github.com/codemarcinu/steward/internal/types"
)

// Config selects and tunes a provider.
type Config struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}

// New creates a model client for the configured provider.
func New(cfg Config) (llm.Client, error) {
	switch cfg.Provider {
	case "anthropic":
		return NewAnthropicClient(cfg)

	case "openai":
		return NewOpenAIClient(cfg)

	case "ollama":
		return NewOllamaClient(cfg)

	case "mock":
		return NewMockClient(`{"tool": "answer_directly", "arguments": {"text": "mock reply"}}`), nil

	default:
		return nil, types.NewError(types.MODEL_UNAVAILABLE,
			fmt.Sprintf("unknown model provider: %q", cfg.Provider))
	}
}
