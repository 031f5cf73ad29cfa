// Package llm defines the model client boundary. The pipeline sees one
// Invoke operation returning raw text; provider selection, transport, and
// error normalization live behind it.
package llm

import (
	"context"
	"time"
)

// Options tune a single invocation.
type Options struct {
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// InvokeRequest is one assembled prompt pair.
type InvokeRequest struct {
	System  string
	User    string
	Options Options
}

// InvokeResponse is the raw model output before any parsing.
type InvokeResponse struct {
	Text  string
	Model string
}

// Client is the tool-selection model. Implementations must normalize
// provider failures through TranslateError so the pipeline only ever sees
// MODEL_TIMEOUT or MODEL_UNAVAILABLE, and must honor the per-call timeout.
type Client interface {
	Invoke(ctx context.Context, req InvokeRequest) (*InvokeResponse, error)

	// Model returns the configured model name for audit records.
	Model() string
}
