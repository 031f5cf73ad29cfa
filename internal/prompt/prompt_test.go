package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codemarcinu/steward/internal/schema"
	"github.com/codemarcinu/steward/internal/tool"
)

func testBuilder(t *testing.T) *Builder {
	t.Helper()

	defs := []tool.Definition{
		{
			Name:        "answer_directly",
			Description: "reply with plain text",
			Parameters: schema.NewObjectSchema(map[string]schema.SchemaField{
				"text": schema.NewStringField("reply text"),
			}, []string{"text"}),
		},
		{
			Name:        "create_note",
			Description: "create a note",
			Parameters: schema.NewObjectSchema(map[string]schema.SchemaField{
				"title":   schema.NewStringField("note title"),
				"content": schema.NewStringField("note body"),
			}, []string{"title", "content"}),
		},
	}
	reg, err := tool.NewRegistry(defs)
	require.NoError(t, err)

	b, err := NewBuilder(reg)
	require.NoError(t, err)
	return b
}

func TestBuild(t *testing.T) {
	b := testBuilder(t)

	msgs := b.Build("Zapisz notatkę: kupić mleko")

	assert.Contains(t, msgs.System, "AVAILABLE TOOLS:")
	assert.Contains(t, msgs.System, `"create_note"`)
	assert.Contains(t, msgs.System, `"answer_directly"`)
	assert.Contains(t, msgs.System, `"required":["title","content"]`)
	assert.Contains(t, msgs.System, "OUTPUT CONTRACT:")
	assert.Contains(t, msgs.System, "exactly one tool")
	assert.Contains(t, msgs.User, "Zapisz notatkę: kupić mleko")
	assert.NotContains(t, msgs.User, "CORRECTION:")
}

func TestBuild_Deterministic(t *testing.T) {
	b := testBuilder(t)

	first := b.Build("same input")
	second := b.Build("same input")
	assert.Equal(t, first, second)
}

func TestBuildWithFeedback(t *testing.T) {
	b := testBuilder(t)

	feedback := `missing required argument "content" (string) for tool "create_note"`
	msgs := b.BuildWithFeedback("Zapisz notatkę: kupić mleko", feedback)

	assert.Equal(t, b.Build("x").System, msgs.System)
	assert.Contains(t, msgs.User, "Zapisz notatkę: kupić mleko")
	assert.Contains(t, msgs.User, "CORRECTION:")
	assert.Contains(t, msgs.User, feedback)
	assert.Contains(t, msgs.User, "single valid JSON object")
}
