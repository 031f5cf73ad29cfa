package main

import (
	"testing"

	"github.com/codemarcinu/steward/internal/schema"
	"github.com/codemarcinu/steward/internal/tool"
	"github.com/codemarcinu/steward/internal/tool/builtin"
)

func TestFormatArguments(t *testing.T) {
	def := tool.Definition{
		Name:        "update_pantry",
		Description: "Track pantry items",
		Parameters: schema.NewObjectSchema(map[string]schema.SchemaField{
			"action":   schema.NewStringField("add or remove").WithEnum("add", "remove"),
			"item":     schema.NewStringField("item name"),
			"quantity": schema.NewStringField("amount"),
		}, []string{"action", "item"}),
	}

	got := formatArguments(def)
	want := "action*(add|remove), item*, quantity"
	if got != want {
		t.Errorf("formatArguments() = %q, want %q", got, want)
	}
}

func TestFormatArguments_NoParameters(t *testing.T) {
	def := tool.Definition{
		Name:       "noop",
		Parameters: schema.NewObjectSchema(map[string]schema.SchemaField{}, nil),
	}
	if got := formatArguments(def); got != "" {
		t.Errorf("expected empty argument list, got %q", got)
	}
}

func TestBuiltinDefinitionsListWithoutDependencies(t *testing.T) {
	// The tools command lists definitions from handlers constructed with
	// zero-value dependencies; Definition must not touch them.
	for _, h := range builtin.Handlers(builtin.Deps{}) {
		def := h.Definition()
		if def.Name == "" {
			t.Error("handler returned definition with empty name")
		}
		if err := def.Validate(); err != nil {
			t.Errorf("definition %q is invalid: %v", def.Name, err)
		}
	}
}
