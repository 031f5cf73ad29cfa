// Package tool defines the catalog of callable tools: their wire-level
// definitions, the handler contract side-effecting implementations satisfy,
// and an immutable registry the pipeline resolves names against.
package tool

import (
	"context"
	"fmt"
	"regexp"

	"github.com/codemarcinu/steward/internal/schema"
	"github.com/codemarcinu/steward/internal/types"
)

// AnswerDirectly is the fallback tool every registry carries. It turns the
// model's plain-text reply into the user-facing answer when no side effect
// is wanted, and it is what terminal failures degrade to.
const AnswerDirectly = "answer_directly"

var namePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Definition describes one tool as the model sees it: a snake_case name,
// a natural-language description, and a JSON Schema for its arguments.
type Definition struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Parameters  schema.JSONSchema `json:"parameters"`
}

// Validate checks that the definition is well-formed enough to publish to
// the model. Schema contents are trusted; only the envelope is checked.
func (d Definition) Validate() error {
	if d.Name == "" {
		return types.NewError(types.TOOL_INVALID_DEF, "tool name is required")
	}
	if !namePattern.MatchString(d.Name) {
		return types.NewError(types.TOOL_INVALID_DEF,
			fmt.Sprintf("tool name %q must be snake_case", d.Name))
	}
	if d.Description == "" {
		return types.NewError(types.TOOL_INVALID_DEF,
			fmt.Sprintf("tool %q has no description", d.Name))
	}
	if d.Parameters.Type != "object" {
		return types.NewError(types.TOOL_INVALID_DEF,
			fmt.Sprintf("tool %q parameters must be an object schema", d.Name))
	}
	for _, req := range d.Parameters.Required {
		if _, ok := d.Parameters.Properties[req]; !ok {
			return types.NewError(types.TOOL_INVALID_DEF,
				fmt.Sprintf("tool %q requires undeclared property %q", d.Name, req))
		}
	}
	return nil
}

// Handler executes one tool call. Implementations must be safe for
// concurrent use and must honor ctx cancellation in anything blocking.
type Handler interface {
	// Definition returns the static definition this handler serves.
	Definition() Definition

	// Execute runs the tool against already-validated arguments and
	// returns a human-readable result string.
	Execute(ctx context.Context, args map[string]any) (string, error)
}
