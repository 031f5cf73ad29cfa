package schema

// KindOf returns the JSON type name of a decoded value.
func KindOf(value any) string {
	if value == nil {
		return "null"
	}

	switch value.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64, int32, int16, int8, uint, uint64, uint32, uint16, uint8:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}

// Compatible reports whether a value of the actual JSON type satisfies the
// expected schema type. Integral numbers satisfy "integer".
func Compatible(expected, actual string, value any) bool {
	if expected == actual {
		return true
	}

	if expected == "integer" && actual == "number" {
		switch v := value.(type) {
		case float64:
			return v == float64(int64(v))
		case float32:
			return v == float32(int64(v))
		case int, int64, int32, int16, int8, uint, uint64, uint32, uint16, uint8:
			return true
		}
	}

	// Any integer value is also a valid number.
	if expected == "number" && actual == "integer" {
		return true
	}

	return false
}
