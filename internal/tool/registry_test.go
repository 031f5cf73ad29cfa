package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codemarcinu/steward/internal/schema"
	"github.com/codemarcinu/steward/internal/types"
)

func testDef(name string) Definition {
	return Definition{
		Name:        name,
		Description: "test tool " + name,
		Parameters: schema.NewObjectSchema(map[string]schema.SchemaField{
			"text": schema.NewStringField("input text"),
		}, []string{"text"}),
	}
}

func testDefs(names ...string) []Definition {
	defs := make([]Definition, 0, len(names)+1)
	defs = append(defs, testDef(AnswerDirectly))
	for _, name := range names {
		defs = append(defs, testDef(name))
	}
	return defs
}

func TestDefinition_Validate(t *testing.T) {
	tests := []struct {
		name    string
		def     Definition
		wantErr bool
	}{
		{
			name:    "valid",
			def:     testDef("create_note"),
			wantErr: false,
		},
		{
			name:    "empty name",
			def:     Definition{Description: "d", Parameters: schema.NewObjectSchema(nil, nil)},
			wantErr: true,
		},
		{
			name:    "uppercase name",
			def:     Definition{Name: "CreateNote", Description: "d", Parameters: schema.NewObjectSchema(nil, nil)},
			wantErr: true,
		},
		{
			name:    "missing description",
			def:     Definition{Name: "create_note", Parameters: schema.NewObjectSchema(nil, nil)},
			wantErr: true,
		},
		{
			name: "non-object schema",
			def: Definition{
				Name:        "create_note",
				Description: "d",
				Parameters:  schema.JSONSchema{Type: "string"},
			},
			wantErr: true,
		},
		{
			name: "required property not declared",
			def: Definition{
				Name:        "create_note",
				Description: "d",
				Parameters:  schema.NewObjectSchema(map[string]schema.SchemaField{}, []string{"title"}),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, types.TOOL_INVALID_DEF, types.CodeOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry(testDefs("create_note", "get_weather"))
	require.NoError(t, err)
	assert.Equal(t, 3, reg.Len())
	assert.Equal(t, []string{"answer_directly", "create_note", "get_weather"}, reg.Names())
}

func TestNewRegistry_RejectsDuplicates(t *testing.T) {
	defs := testDefs("create_note")
	defs = append(defs, testDef("create_note"))

	_, err := NewRegistry(defs)
	require.Error(t, err)
	assert.Equal(t, types.TOOL_ALREADY_EXISTS, types.CodeOf(err))
}

func TestNewRegistry_RequiresAnswerDirectly(t *testing.T) {
	_, err := NewRegistry([]Definition{testDef("create_note")})
	require.Error(t, err)
	assert.Equal(t, types.TOOL_INVALID_DEF, types.CodeOf(err))
}

func TestRegistry_GetCaseInsensitive(t *testing.T) {
	reg, err := NewRegistry(testDefs("create_note"))
	require.NoError(t, err)

	def, ok := reg.Get("Create_Note")
	require.True(t, ok)
	assert.Equal(t, "create_note", def.Name)

	_, ok = reg.Get("delete_note")
	assert.False(t, ok)
}

func TestRegistry_CatalogSorted(t *testing.T) {
	reg, err := NewRegistry(testDefs("get_weather", "create_note"))
	require.NoError(t, err)

	catalog := reg.Catalog()
	require.Len(t, catalog, 3)
	assert.Equal(t, "answer_directly", catalog[0].Name)
	assert.Equal(t, "create_note", catalog[1].Name)
	assert.Equal(t, "get_weather", catalog[2].Name)
}

func TestFilterEnabled(t *testing.T) {
	defs := testDefs("create_note", "get_weather", "update_pantry")

	filtered := FilterEnabled(defs, []string{"create_note"})
	names := make([]string, 0, len(filtered))
	for _, def := range filtered {
		names = append(names, def.Name)
	}
	assert.ElementsMatch(t, []string{"answer_directly", "create_note"}, names)
}

func TestFilterEnabled_EmptyKeepsAll(t *testing.T) {
	defs := testDefs("create_note")
	assert.Len(t, FilterEnabled(defs, nil), len(defs))
}
