package builtin

import (
	"context"
	"fmt"

	"github.com/codemarcinu/steward/internal/schema"
	"github.com/codemarcinu/steward/internal/store"
	"github.com/codemarcinu/steward/internal/tool"
)

// UpdatePantryHandler adjusts pantry item quantities.
type UpdatePantryHandler struct {
	pantry store.PantryDAO
}

// NewUpdatePantryHandler creates the update_pantry handler.
func NewUpdatePantryHandler(pantry store.PantryDAO) *UpdatePantryHandler {
	return &UpdatePantryHandler{pantry: pantry}
}

func (h *UpdatePantryHandler) Definition() tool.Definition {
	return tool.Definition{
		Name:        "update_pantry",
		Description: "Add items to or remove items from the user's pantry inventory. Use when the user bought, used up, or threw away food.",
		Parameters: schema.NewObjectSchema(map[string]schema.SchemaField{
			"action":   schema.NewStringField("Whether to add or remove the item").WithEnum("add", "remove"),
			"item":     schema.NewStringField("Name of the pantry item"),
			"quantity": schema.NewNumberField("How many units; defaults to 1"),
		}, []string{"action", "item"}),
	}
}

func (h *UpdatePantryHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	var in struct {
		Action   string  `mapstructure:"action"`
		Item     string  `mapstructure:"item"`
		Quantity float64 `mapstructure:"quantity"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}

	switch in.Action {
	case "add":
		qty, err := h.pantry.Add(ctx, in.Item, in.Quantity)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Added %s to the pantry; now at %s.", in.Item, formatQuantity(qty)), nil

	case "remove":
		remaining, found, err := h.pantry.Remove(ctx, in.Item, in.Quantity)
		if err != nil {
			return "", err
		}
		if !found {
			return fmt.Sprintf("%q is not in the pantry.", in.Item), nil
		}
		if remaining == 0 {
			return fmt.Sprintf("Removed %s from the pantry; none left.", in.Item), nil
		}
		return fmt.Sprintf("Removed %s from the pantry; %s left.", in.Item, formatQuantity(remaining)), nil

	default:
		return "", fmt.Errorf("unsupported pantry action %q", in.Action)
	}
}

func formatQuantity(qty float64) string {
	if qty == float64(int64(qty)) {
		return fmt.Sprintf("%d", int64(qty))
	}
	return fmt.Sprintf("%.2f", qty)
}
