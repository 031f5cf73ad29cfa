package builtin

import (
	"context"
	"fmt"

	"github.com/codemarcinu/steward/internal/schema"
	"github.com/codemarcinu/steward/internal/store"
	"github.com/codemarcinu/steward/internal/tool"
)

// CreateNoteHandler persists a new note.
type CreateNoteHandler struct {
	notes store.NoteDAO
}

// NewCreateNoteHandler creates the create_note handler.
func NewCreateNoteHandler(notes store.NoteDAO) *CreateNoteHandler {
	return &CreateNoteHandler{notes: notes}
}

func (h *CreateNoteHandler) Definition() tool.Definition {
	return tool.Definition{
		Name:        "create_note",
		Description: "Save a note for the user. Use when the user wants to write something down, remember something, or make a list.",
		Parameters: schema.NewObjectSchema(map[string]schema.SchemaField{
			"title":   schema.NewStringField("Short title for the note"),
			"content": schema.NewStringField("Full text of the note"),
			"tags":    schema.NewArrayField("Optional tags for grouping notes", schema.NewStringField("tag")),
		}, []string{"title", "content"}),
	}
}

func (h *CreateNoteHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	var in struct {
		Title   string   `mapstructure:"title"`
		Content string   `mapstructure:"content"`
		Tags    []string `mapstructure:"tags"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}

	note := &store.Note{Title: in.Title, Content: in.Content, Tags: in.Tags}
	if err := h.notes.Create(ctx, note); err != nil {
		return "", err
	}
	return fmt.Sprintf("Saved note %q.", note.Title), nil
}
