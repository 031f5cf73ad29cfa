package builtin

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/codemarcinu/steward/internal/schema"
	"github.com/codemarcinu/steward/internal/store"
	"github.com/codemarcinu/steward/internal/tool"
)

// AddBookmarkHandler saves a URL.
type AddBookmarkHandler struct {
	bookmarks store.BookmarkDAO
}

// NewAddBookmarkHandler creates the add_bookmark handler.
func NewAddBookmarkHandler(bookmarks store.BookmarkDAO) *AddBookmarkHandler {
	return &AddBookmarkHandler{bookmarks: bookmarks}
}

func (h *AddBookmarkHandler) Definition() tool.Definition {
	return tool.Definition{
		Name:        "add_bookmark",
		Description: "Save a URL to the user's bookmarks. Use when the user shares a link they want to keep.",
		Parameters: schema.NewObjectSchema(map[string]schema.SchemaField{
			"url":   schema.NewStringField("The URL to bookmark"),
			"title": schema.NewStringField("Optional title for the bookmark"),
			"tags":  schema.NewArrayField("Optional tags for grouping bookmarks", schema.NewStringField("tag")),
		}, []string{"url"}),
	}
}

func (h *AddBookmarkHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	var in struct {
		URL   string   `mapstructure:"url"`
		Title string   `mapstructure:"title"`
		Tags  []string `mapstructure:"tags"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}

	raw := strings.TrimSpace(in.URL)
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", fmt.Errorf("%q is not a valid http(s) URL", raw)
	}

	bookmark := &store.Bookmark{URL: raw, Title: in.Title, Tags: in.Tags}
	if err := h.bookmarks.Create(ctx, bookmark); err != nil {
		return "", err
	}

	if bookmark.Title != "" {
		return fmt.Sprintf("Bookmarked %q (%s).", bookmark.Title, raw), nil
	}
	return fmt.Sprintf("Bookmarked %s.", raw), nil
}
