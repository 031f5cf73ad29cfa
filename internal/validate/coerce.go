package validate

import (
	"math"
	"strconv"
	"strings"

	"github.com/codemarcinu/steward/internal/schema"
)

// conform normalizes value to the field's declared type, applying at most
// one coercion step: numeric string to number, "true"/"false" string to
// boolean, integral float to integer. Anything that still does not fit
// reports false; there is no second pass.
func conform(value any, field schema.SchemaField) (any, bool) {
	actual := schema.KindOf(value)

	if schema.Compatible(field.Type, actual, value) {
		normalized := normalize(value, field.Type)
		if len(field.Enum) > 0 {
			if s, isStr := normalized.(string); !isStr || !inEnum(s, field.Enum) {
				return nil, false
			}
		}
		if field.Type == "array" && field.Items != nil {
			if !elementsCompatible(value, *field.Items) {
				return nil, false
			}
		}
		return normalized, true
	}

	coerced, ok := coerce(value, field.Type)
	if !ok {
		return nil, false
	}
	if len(field.Enum) > 0 {
		if s, isStr := coerced.(string); !isStr || !inEnum(s, field.Enum) {
			return nil, false
		}
	}
	return coerced, true
}

// coerce performs the single permitted conversion for a mismatched kind.
func coerce(value any, expected string) (any, bool) {
	switch expected {
	case "number":
		if s, isStr := value.(string); isStr {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err == nil {
				return f, true
			}
		}
	case "integer":
		if s, isStr := value.(string); isStr {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err == nil && f == math.Trunc(f) {
				return int64(f), true
			}
		}
	case "boolean":
		if s, isStr := value.(string); isStr {
			switch strings.ToLower(strings.TrimSpace(s)) {
			case "true":
				return true, true
			case "false":
				return false, true
			}
		}
	}
	return nil, false
}

// normalize converts compatible values into their canonical Go shape.
// JSON numbers arrive as float64; integer-typed fields store int64.
func normalize(value any, expected string) any {
	if expected != "integer" {
		return value
	}
	switch v := value.(type) {
	case float64:
		return int64(v)
	case float32:
		return int64(v)
	case int:
		return int64(v)
	case int32:
		return int64(v)
	}
	return value
}

func inEnum(s string, enum []string) bool {
	for _, e := range enum {
		if s == e {
			return true
		}
	}
	return false
}

func elementsCompatible(value any, items schema.SchemaField) bool {
	arr, isArr := value.([]any)
	if !isArr {
		return true
	}
	for _, elem := range arr {
		if !schema.Compatible(items.Type, schema.KindOf(elem), elem) {
			return false
		}
	}
	return true
}
