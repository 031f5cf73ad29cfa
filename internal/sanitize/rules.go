package sanitize

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/codemarcinu/steward/internal/types"
)

// Rule categories used by the builtin set.
const (
	CategoryInstructionOverride = "instruction_override"
	CategoryRoleImpersonation   = "role_impersonation"
	CategoryPromptExfiltration  = "prompt_exfiltration"
	CategoryFakeToolCall        = "fake_tool_call"
)

// builtinRules returns the default detection set. Patterns are written
// lowercase because classification runs on lowercased cleaned text.
func builtinRules() []Rule {
	return []Rule{
		// Attempts to displace the standing instructions score high enough
		// to short-circuit on their own.
		{
			Pattern:  `ignore\s+(all\s+|any\s+)?(previous|prior|above|earlier)\s+(instructions|prompts|rules|messages|directions)`,
			Category: CategoryInstructionOverride,
			Weight:   6,
		},
		{
			Pattern:  `disregard\s+(all\s+|the\s+|your\s+)?(previous|prior|above|earlier|system)\s+(instructions|prompts|rules|messages)`,
			Category: CategoryInstructionOverride,
			Weight:   6,
		},
		{
			Pattern:  `forget\s+(all\s+|everything\s+)?(previous|prior|your)\s+(instructions|rules|training)`,
			Category: CategoryInstructionOverride,
			Weight:   6,
		},
		{
			Pattern:  `override\s+(the\s+|your\s+)?(instructions|rules|safety|system\s+prompt)`,
			Category: CategoryInstructionOverride,
			Weight:   6,
		},
		{
			Pattern:  `new\s+instructions\s*:`,
			Category: CategoryInstructionOverride,
			Weight:   6,
		},

		{
			Pattern:  `you\s+are\s+now\s+(a|an|the|in)\b`,
			Category: CategoryRoleImpersonation,
			Weight:   3,
		},
		{
			Pattern:  `pretend\s+(you\s+are|to\s+be)\b`,
			Category: CategoryRoleImpersonation,
			Weight:   3,
		},
		{
			Pattern:  `(?m)^\s*(system|assistant)\s*:`,
			Category: CategoryRoleImpersonation,
			Weight:   3,
		},
		{
			Pattern:  `\[\s*(system|assistant)\s*\]`,
			Category: CategoryRoleImpersonation,
			Weight:   3,
		},
		{
			Pattern:  `<\|im_start\|>|<\s*/?\s*system\s*>`,
			Category: CategoryRoleImpersonation,
			Weight:   3,
		},

		{
			Pattern:  `(reveal|show|print|display|repeat|output|expose|leak)\s+(me\s+)?(your|the)\s+(system\s+|hidden\s+|initial\s+)?(prompt|instructions)`,
			Category: CategoryPromptExfiltration,
			Weight:   4,
		},
		{
			Pattern:  `what\s+(is|are)\s+your\s+(system\s+prompt|instructions|initial\s+prompt)`,
			Category: CategoryPromptExfiltration,
			Weight:   4,
		},
		{
			Pattern:  `repeat\s+(everything|all\s+text|the\s+text)\s+above`,
			Category: CategoryPromptExfiltration,
			Weight:   4,
		},

		// User input carrying its own tool-call JSON is trying to skip the
		// model's judgment.
		{
			Pattern:  `"tool"\s*:\s*"`,
			Category: CategoryFakeToolCall,
			Weight:   3,
		},
		{
			Pattern:  `"arguments"\s*:\s*\{`,
			Category: CategoryFakeToolCall,
			Weight:   3,
		},
	}
}

type rulesFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRules reads extra detection rules from a YAML file:
//
//	rules:
//	  - pattern: "wire\\s+all\\s+funds"
//	    category: "domain_specific"
//	    weight: 4
//
// The returned rules are passed to New via Config.Rules.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, types.WrapError(types.CONFIG_LOAD_FAILED,
			"failed to read sanitizer rules file", err)
	}
	var rf rulesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, types.WrapError(types.CONFIG_LOAD_FAILED,
			"failed to parse sanitizer rules file", err)
	}
	return rf.Rules, nil
}
