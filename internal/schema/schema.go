package schema

// JSONSchema describes the parameter object a tool accepts. It is a
// deliberately small subset of JSON Schema: one object with typed,
// optionally-enumerated properties and a required list.
type JSONSchema struct {
	Type       string                 `json:"type"`
	Properties map[string]SchemaField `json:"properties,omitempty"`
	Required   []string               `json:"required,omitempty"`
}

// SchemaField describes a single parameter within a schema.
type SchemaField struct {
	Type        string       `json:"type"`
	Description string       `json:"description,omitempty"`
	Enum        []string     `json:"enum,omitempty"`
	Items       *SchemaField `json:"items,omitempty"`
}

// NewObjectSchema creates an object schema with the given properties and
// required field names.
func NewObjectSchema(properties map[string]SchemaField, required []string) JSONSchema {
	return JSONSchema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

// NewStringField creates a string field with the given description.
func NewStringField(description string) SchemaField {
	return SchemaField{Type: "string", Description: description}
}

// NewNumberField creates a number field with the given description.
func NewNumberField(description string) SchemaField {
	return SchemaField{Type: "number", Description: description}
}

// NewIntegerField creates an integer field with the given description.
func NewIntegerField(description string) SchemaField {
	return SchemaField{Type: "integer", Description: description}
}

// NewBooleanField creates a boolean field with the given description.
func NewBooleanField(description string) SchemaField {
	return SchemaField{Type: "boolean", Description: description}
}

// NewArrayField creates an array field whose elements match items.
func NewArrayField(description string, items SchemaField) SchemaField {
	return SchemaField{Type: "array", Description: description, Items: &items}
}

// WithEnum constrains a field to the given values.
func (f SchemaField) WithEnum(values ...string) SchemaField {
	f.Enum = values
	return f
}

// IsRequired reports whether name appears in the schema's required list.
func (s JSONSchema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}
