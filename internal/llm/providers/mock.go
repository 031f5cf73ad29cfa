package providers

import (
	"context"
	"sync"

	"github.com/codemarcinu/steward/internal/llm"
	"github.com/codemarcinu/steward/internal/types"
)

// MockCall records one invocation of the mock client.
type MockCall struct {
	Request llm.InvokeRequest
}

// MockClient is a scripted llm.Client for tests and offline runs. It
// replays configured responses in order, cycling when exhausted, and
// records every request it receives.
type MockClient struct {
	mu            sync.Mutex
	responses     []string
	errs          []error
	responseIndex int
	calls         []MockCall
}

// NewMockClient creates a mock that cycles through responses.
func NewMockClient(responses ...string) *MockClient {
	return &MockClient{responses: responses}
}

// QueueError makes the next invocation fail with err before any queued
// responses resume.
func (c *MockClient) QueueError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs = append(c.errs, err)
}

// Invoke replays the next scripted outcome.
func (c *MockClient) Invoke(ctx context.Context, req llm.InvokeRequest) (*llm.InvokeResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, llm.TranslateError("mock", err)
	}

	c.mu.Lock()
	c.calls = append(c.calls, MockCall{Request: req})

	if len(c.errs) > 0 {
		err := c.errs[0]
		c.errs = c.errs[1:]
		c.mu.Unlock()
		return nil, llm.TranslateError("mock", err)
	}

	if len(c.responses) == 0 {
		c.mu.Unlock()
		return nil, types.NewError(types.MODEL_UNAVAILABLE, "mock has no responses configured")
	}

	response := c.responses[c.responseIndex%len(c.responses)]
	c.responseIndex++
	c.mu.Unlock()

	return &llm.InvokeResponse{
		Text:  response,
		Model: c.Model(),
	}, nil
}

// Model returns the mock model name.
func (c *MockClient) Model() string {
	return "mock-model"
}

// Calls returns a copy of every recorded request.
func (c *MockClient) Calls() []MockCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]MockCall, len(c.calls))
	copy(out, c.calls)
	return out
}

// CallCount returns how many times Invoke ran.
func (c *MockClient) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}
