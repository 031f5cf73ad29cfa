package tool

import (
	"fmt"
	"sort"
	"strings"

	"github.com/codemarcinu/steward/internal/types"
)

// Registry is an immutable, name-indexed catalog of tool definitions.
// It is built once at startup and never mutated afterwards, so lookups
// need no locking. Names are matched case-insensitively.
type Registry struct {
	defs  map[string]Definition
	names []string
}

// NewRegistry builds a registry from the given definitions. Every
// definition is validated and duplicate names (case-insensitive) are
// rejected. The registry must contain answer_directly; callers that
// filter the catalog should use FilterEnabled, which preserves it.
func NewRegistry(defs []Definition) (*Registry, error) {
	r := &Registry{defs: make(map[string]Definition, len(defs))}
	for _, def := range defs {
		if err := def.Validate(); err != nil {
			return nil, err
		}
		key := strings.ToLower(def.Name)
		if _, exists := r.defs[key]; exists {
			return nil, types.NewError(types.TOOL_ALREADY_EXISTS,
				fmt.Sprintf("tool %q registered twice", def.Name))
		}
		r.defs[key] = def
		r.names = append(r.names, def.Name)
	}
	if _, ok := r.defs[AnswerDirectly]; !ok {
		return nil, types.NewError(types.TOOL_INVALID_DEF,
			"registry must include answer_directly")
	}
	sort.Strings(r.names)
	return r, nil
}

// Get resolves a tool name to its definition. Lookup is case-insensitive
// but exposes the canonical definition as registered.
func (r *Registry) Get(name string) (Definition, bool) {
	def, ok := r.defs[strings.ToLower(name)]
	return def, ok
}

// Has reports whether name resolves to a registered tool.
func (r *Registry) Has(name string) bool {
	_, ok := r.defs[strings.ToLower(name)]
	return ok
}

// Names returns all registered tool names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Catalog returns all definitions ordered by name. The slice is a copy;
// mutating it does not affect the registry.
func (r *Registry) Catalog() []Definition {
	out := make([]Definition, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.defs[strings.ToLower(name)])
	}
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.defs)
}

// FilterEnabled returns the subset of defs whose names appear in enabled.
// answer_directly is always kept regardless of the enabled list, so the
// degradation path stays available. An empty enabled list keeps everything.
func FilterEnabled(defs []Definition, enabled []string) []Definition {
	if len(enabled) == 0 {
		return defs
	}
	want := make(map[string]bool, len(enabled)+1)
	for _, name := range enabled {
		want[strings.ToLower(name)] = true
	}
	want[AnswerDirectly] = true

	out := make([]Definition, 0, len(want))
	for _, def := range defs {
		if want[strings.ToLower(def.Name)] {
			out = append(out, def)
		}
	}
	return out
}
