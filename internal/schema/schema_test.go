package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewObjectSchema(t *testing.T) {
	s := NewObjectSchema(map[string]SchemaField{
		"title":   NewStringField("note title"),
		"content": NewStringField("note body"),
	}, []string{"title", "content"})

	assert.Equal(t, "object", s.Type)
	assert.Len(t, s.Properties, 2)
	assert.True(t, s.IsRequired("title"))
	assert.True(t, s.IsRequired("content"))
	assert.False(t, s.IsRequired("tags"))
}

func TestSchemaField_WithEnum(t *testing.T) {
	f := NewStringField("pantry operation").WithEnum("add", "remove")
	assert.Equal(t, []string{"add", "remove"}, f.Enum)
}

func TestJSONSchema_MarshalOmitsEmpty(t *testing.T) {
	s := NewObjectSchema(map[string]SchemaField{
		"query": NewStringField("search terms"),
	}, nil)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "required")
	assert.Contains(t, string(data), `"type":"object"`)
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{"text", "string"},
		{true, "boolean"},
		{float64(3.5), "number"},
		{int(7), "number"},
		{[]any{"a"}, "array"},
		{map[string]any{"k": "v"}, "object"},
		{nil, "null"},
		{struct{}{}, "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, KindOf(tt.value), "KindOf(%v)", tt.value)
	}
}

func TestCompatible(t *testing.T) {
	assert.True(t, Compatible("string", "string", "x"))
	assert.True(t, Compatible("number", "number", 1.5))
	assert.True(t, Compatible("integer", "number", float64(4)))
	assert.False(t, Compatible("integer", "number", float64(4.2)))
	assert.True(t, Compatible("number", "integer", int64(4)))
	assert.False(t, Compatible("string", "number", 1.0))
	assert.False(t, Compatible("boolean", "string", "true"))
}
