// Package validate checks a parsed tool call against the registry's
// schemas. Validation is pure: it inspects, coerces, and reports, but
// never executes anything or touches storage.
package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/codemarcinu/steward/internal/parse"
	"github.com/codemarcinu/steward/internal/schema"
	"github.com/codemarcinu/steward/internal/tool"
)

// ViolationKind distinguishes the three validation failure classes.
type ViolationKind string

const (
	ViolationUnknownTool     ViolationKind = "unknown_tool"
	ViolationMissingArgument ViolationKind = "missing_argument"
	ViolationInvalidType     ViolationKind = "invalid_argument_type"
)

// Violation is one schema failure. Message is phrased so it can be fed
// back to the model verbatim as corrective feedback.
type Violation struct {
	Kind     ViolationKind `json:"kind"`
	Argument string        `json:"argument,omitempty"`
	Expected string        `json:"expected,omitempty"`
	Actual   string        `json:"actual,omitempty"`
	Hints    []string      `json:"hints,omitempty"`
	Message  string        `json:"message"`
}

// Outcome is the result of validating one call. When OK, Arguments holds
// the coerced argument map handlers receive; extra arguments the schema
// does not declare have been dropped from it.
type Outcome struct {
	OK         bool
	Tool       tool.Definition
	Arguments  map[string]any
	Violations []Violation
}

// ErrorText joins all violation messages for feedback and audit fields.
func (o Outcome) ErrorText() string {
	if len(o.Violations) == 0 {
		return ""
	}
	msgs := make([]string, 0, len(o.Violations))
	for _, v := range o.Violations {
		msgs = append(msgs, v.Message)
	}
	return strings.Join(msgs, "; ")
}

// Validate checks call against the registry. All violations are collected
// in one pass and ordered: unknown tool, then missing required arguments
// in schema order, then type violations. An unknown tool short-stops
// argument checks since there is no schema to check against.
func Validate(call *parse.Call, reg *tool.Registry) Outcome {
	def, found := reg.Get(call.Tool)
	if !found {
		return Outcome{
			Violations: []Violation{unknownToolViolation(call.Tool, reg.Names())},
		}
	}

	var missing, invalid []Violation
	args := make(map[string]any, len(call.Arguments))

	for _, name := range orderedParams(def.Parameters) {
		field := def.Parameters.Properties[name]
		value, present := call.Arguments[name]

		if !present || value == nil {
			if def.Parameters.IsRequired(name) {
				missing = append(missing, Violation{
					Kind:     ViolationMissingArgument,
					Argument: name,
					Expected: field.Type,
					Message: fmt.Sprintf("missing required argument %q (%s) for tool %q",
						name, field.Type, def.Name),
				})
			}
			continue
		}

		coerced, ok := conform(value, field)
		if !ok {
			invalid = append(invalid, typeViolation(name, field, value))
			continue
		}
		args[name] = coerced
	}

	// Arguments the schema does not declare are dropped, not violations.
	// All missing arguments are reported before any type violation so the
	// model sees the full shape of what it left out.
	violations := append(missing, invalid...)
	if len(violations) > 0 {
		return Outcome{Tool: def, Violations: violations}
	}
	return Outcome{OK: true, Tool: def, Arguments: args}
}

// orderedParams returns parameter names with required ones first in their
// declared order, then the optional ones sorted. Violation order stays
// deterministic regardless of map iteration.
func orderedParams(s schema.JSONSchema) []string {
	names := make([]string, 0, len(s.Properties))
	seen := make(map[string]bool, len(s.Properties))

	for _, name := range s.Required {
		if _, ok := s.Properties[name]; ok && !seen[name] {
			names = append(names, name)
			seen[name] = true
		}
	}

	optional := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		if !seen[name] {
			optional = append(optional, name)
		}
	}
	sort.Strings(optional)

	return append(names, optional...)
}

func unknownToolViolation(name string, available []string) Violation {
	hints := suggest(name, available)
	msg := fmt.Sprintf("unknown tool %q; available tools: %s",
		name, strings.Join(available, ", "))
	if len(hints) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(hints, ", "))
	}
	return Violation{
		Kind:     ViolationUnknownTool,
		Argument: "",
		Hints:    hints,
		Message:  msg,
	}
}

func typeViolation(name string, field schema.SchemaField, value any) Violation {
	actual := schema.KindOf(value)

	if field.Type == "array" && actual == "array" && field.Items != nil {
		return Violation{
			Kind:     ViolationInvalidType,
			Argument: name,
			Expected: "array of " + field.Items.Type,
			Actual:   actual,
			Message: fmt.Sprintf("argument %q must contain only %s elements",
				name, field.Items.Type),
		}
	}

	if len(field.Enum) > 0 {
		if s, isStr := value.(string); isStr {
			return Violation{
				Kind:     ViolationInvalidType,
				Argument: name,
				Expected: fmt.Sprintf("one of [%s]", strings.Join(field.Enum, ", ")),
				Actual:   actual,
				Message: fmt.Sprintf("argument %q must be one of [%s], got %q",
					name, strings.Join(field.Enum, ", "), s),
			}
		}
	}

	return Violation{
		Kind:     ViolationInvalidType,
		Argument: name,
		Expected: field.Type,
		Actual:   actual,
		Message: fmt.Sprintf("argument %q must be %s, got %s",
			name, field.Type, actual),
	}
}
