package builtin

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/codemarcinu/steward/internal/schema"
	"github.com/codemarcinu/steward/internal/tool"
	"github.com/codemarcinu/steward/internal/web"
)

// SummarizeURLHandler fetches a page and returns its gist.
type SummarizeURLHandler struct {
	summarizer *web.Summarizer
}

// NewSummarizeURLHandler creates the summarize_url handler.
func NewSummarizeURLHandler(summarizer *web.Summarizer) *SummarizeURLHandler {
	return &SummarizeURLHandler{summarizer: summarizer}
}

func (h *SummarizeURLHandler) Definition() tool.Definition {
	return tool.Definition{
		Name:        "summarize_url",
		Description: "Fetch a web page and summarize it. Use when the user asks what a link is about.",
		Parameters: schema.NewObjectSchema(map[string]schema.SchemaField{
			"url": schema.NewStringField("The page URL to summarize"),
		}, []string{"url"}),
	}
}

func (h *SummarizeURLHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	var in struct {
		URL string `mapstructure:"url"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}

	raw := strings.TrimSpace(in.URL)
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", fmt.Errorf("%q is not a valid http(s) URL", raw)
	}

	summary, err := h.summarizer.Summarize(ctx, raw)
	if err != nil {
		return "", err
	}

	if summary.Title != "" && summary.Summary != "" {
		return fmt.Sprintf("%s: %s", summary.Title, summary.Summary), nil
	}
	if summary.Summary != "" {
		return summary.Summary, nil
	}
	return summary.Title, nil
}
