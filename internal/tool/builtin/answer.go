package builtin

import (
	"context"

	"github.com/codemarcinu/steward/internal/schema"
	"github.com/codemarcinu/steward/internal/tool"
)

// AnswerDirectlyHandler relays the model's text reply. It is the one
// tool with no side effect and the fallback target for refusals and
// terminal failures.
type AnswerDirectlyHandler struct{}

// NewAnswerDirectlyHandler creates the answer_directly handler.
func NewAnswerDirectlyHandler() *AnswerDirectlyHandler {
	return &AnswerDirectlyHandler{}
}

func (h *AnswerDirectlyHandler) Definition() tool.Definition {
	return tool.Definition{
		Name:        tool.AnswerDirectly,
		Description: "Answer the user in plain text without performing any action. Use when no other tool fits, or to decline a request.",
		Parameters: schema.NewObjectSchema(map[string]schema.SchemaField{
			"text": schema.NewStringField("The reply to show the user, in the user's language"),
		}, []string{"text"}),
	}
}

func (h *AnswerDirectlyHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	var in struct {
		Text string `mapstructure:"text"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	return in.Text, nil
}
