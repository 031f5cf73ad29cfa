// Package providers wires concrete model backends behind the llm.Client
// interface. All providers go through langchaingo and share the same
// conversion helpers.
package providers

import (
	"context"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"

	"github.com/codemarcinu/steward/internal/llm"
)

// DefaultTimeout bounds an invocation when neither the request nor the
// provider config carries one.
const DefaultTimeout = 60 * time.Second

// toMessages converts an invoke request to langchaingo message content.
func toMessages(req llm.InvokeRequest) []llms.MessageContent {
	messages := make([]llms.MessageContent, 0, 2)

	if req.System != "" {
		messages = append(messages, llms.MessageContent{
			Role:  schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(req.System)},
		})
	}

	messages = append(messages, llms.MessageContent{
		Role:  schema.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextPart(req.User)},
	})

	return messages
}

// buildCallOptions converts invoke options to langchaingo call options.
func buildCallOptions(opts llm.Options) []llms.CallOption {
	callOpts := make([]llms.CallOption, 0)

	if opts.Temperature > 0 {
		callOpts = append(callOpts, llms.WithTemperature(opts.Temperature))
	}

	if opts.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(opts.MaxTokens))
	}

	return callOpts
}

// firstChoiceText extracts the text of the first choice. An empty response
// is returned as an empty string and left for the parser to reject.
func firstChoiceText(resp *llms.ContentResponse) string {
	if resp == nil || len(resp.Choices) == 0 {
		return ""
	}
	return resp.Choices[0].Content
}

// invokeTimeout resolves the effective per-call timeout.
func invokeTimeout(opts llm.Options, fallback time.Duration) time.Duration {
	if opts.Timeout > 0 {
		return opts.Timeout
	}
	if fallback > 0 {
		return fallback
	}
	return DefaultTimeout
}

// generate runs one bounded GenerateContent call against a langchaingo
// model and normalizes the outcome.
func generate(ctx context.Context, provider, model string, backend llms.Model, req llm.InvokeRequest, fallbackTimeout time.Duration) (*llm.InvokeResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, invokeTimeout(req.Options, fallbackTimeout))
	defer cancel()

	resp, err := backend.GenerateContent(ctx, toMessages(req), buildCallOptions(req.Options)...)
	if err != nil {
		return nil, llm.TranslateError(provider, err)
	}

	return &llm.InvokeResponse{
		Text:  firstChoiceText(resp),
		Model: model,
	}, nil
}
