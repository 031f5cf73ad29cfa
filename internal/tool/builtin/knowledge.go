package builtin

import (
	"context"
	"fmt"
	"strings"

	"github.com/codemarcinu/steward/internal/schema"
	"github.com/codemarcinu/steward/internal/store"
	"github.com/codemarcinu/steward/internal/tool"
)

const (
	defaultSearchLimit = 3
	maxSearchLimit     = 10
	snippetMaxRunes    = 200
)

// SearchKnowledgeHandler queries the stored knowledge chunks.
type SearchKnowledgeHandler struct {
	knowledge store.KnowledgeDAO
}

// NewSearchKnowledgeHandler creates the search_knowledge handler.
func NewSearchKnowledgeHandler(knowledge store.KnowledgeDAO) *SearchKnowledgeHandler {
	return &SearchKnowledgeHandler{knowledge: knowledge}
}

func (h *SearchKnowledgeHandler) Definition() tool.Definition {
	return tool.Definition{
		Name:        "search_knowledge",
		Description: "Search the user's saved knowledge base. Use when the user asks about something they stored earlier.",
		Parameters: schema.NewObjectSchema(map[string]schema.SchemaField{
			"query": schema.NewStringField("What to search for"),
			"limit": schema.NewIntegerField("Maximum number of results; defaults to 3"),
		}, []string{"query"}),
	}
}

func (h *SearchKnowledgeHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	var in struct {
		Query string `mapstructure:"query"`
		Limit int    `mapstructure:"limit"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}

	limit := in.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	hits, err := h.knowledge.Search(ctx, in.Query, limit)
	if err != nil {
		return "", err
	}
	if len(hits) == 0 {
		return fmt.Sprintf("Nothing in the knowledge base matches %q.", in.Query), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d result(s) for %q:", len(hits), in.Query)
	for i, hit := range hits {
		fmt.Fprintf(&b, "\n%d. %s", i+1, snippet(hit.Chunk.Content))
		if hit.Chunk.Source != "" {
			fmt.Fprintf(&b, " (%s)", hit.Chunk.Source)
		}
	}
	return b.String(), nil
}

func snippet(content string) string {
	content = strings.Join(strings.Fields(content), " ")
	runes := []rune(content)
	if len(runes) <= snippetMaxRunes {
		return content
	}
	return strings.TrimSpace(string(runes[:snippetMaxRunes])) + "..."
}
