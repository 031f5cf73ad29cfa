// Package parse turns raw model output into a structured tool call.
// Models wrap JSON in markdown fences, prose, or chain-of-thought tags;
// the parser tolerates the wrapping but never repairs the JSON itself.
package parse

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/codemarcinu/steward/internal/types"
)

// Call is one parsed tool invocation as the model proposed it.
type Call struct {
	Tool       string         `json:"tool"`
	Arguments  map[string]any `json:"arguments"`
	Confidence *float64       `json:"confidence,omitempty"`
	Raw        string         `json:"-"`
}

// thoughtPattern matches chain-of-thought blocks some models emit before
// the answer. Stripped first so JSON inside a thought is never parsed.
var thoughtPattern = regexp.MustCompile(`(?is)<think>.*?</think>|<reasoning>.*?</reasoning>`)

// codeBlockPattern matches markdown code blocks with optional language tag.
// Captures: (1) optional language, (2) content.
var codeBlockPattern = regexp.MustCompile(`(?s)` + "```" + `(\w*)\s*\n(.+?)\n` + "```")

// Parse extracts exactly one tool call from a model response.
//
// Extraction order: strip thought blocks, then prefer JSON inside a bare or
// json-tagged code fence, then fall back to the first balanced {...} in the
// text. The decoded object must carry a non-empty string "tool" field; a
// missing "arguments" key is treated as an empty argument map. An optional
// "confidence" number is kept only when it lies in [0,1].
func Parse(response string) (*Call, error) {
	stripped := thoughtPattern.ReplaceAllString(response, "")

	jsonStr, found := extractObject(stripped)
	if !found {
		return nil, types.NewRetryableError(types.PARSE_MALFORMED_JSON,
			"no JSON object found in model response")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return nil, types.WrapError(types.PARSE_MALFORMED_JSON,
			"failed to decode tool call JSON", err)
	}

	tool, ok := payload["tool"].(string)
	tool = strings.TrimSpace(tool)
	if !ok || tool == "" {
		return nil, types.NewRetryableError(types.PARSE_MISSING_TOOL,
			`response JSON has no "tool" string field`)
	}

	args := map[string]any{}
	if v, present := payload["arguments"]; present && v != nil {
		obj, isObj := v.(map[string]any)
		if !isObj {
			return nil, types.NewRetryableError(types.PARSE_MALFORMED_JSON,
				`"arguments" must be a JSON object`)
		}
		args = obj
	}

	var confidence *float64
	if v, present := payload["confidence"]; present {
		if f, isNum := v.(float64); isNum && f >= 0 && f <= 1 {
			confidence = &f
		}
	}

	return &Call{
		Tool:       tool,
		Arguments:  args,
		Confidence: confidence,
		Raw:        jsonStr,
	}, nil
}

// extractObject finds the JSON object candidate in a response.
// Code fences win over bare objects because models that fence their answer
// tend to also include example JSON in the surrounding prose.
func extractObject(response string) (string, bool) {
	if jsonStr, found := extractFromCodeBlock(response); found {
		return jsonStr, true
	}
	return extractRawObject(response)
}

// extractFromCodeBlock finds a JSON object in markdown code blocks.
// Blocks tagged with a language other than json are skipped.
func extractFromCodeBlock(response string) (string, bool) {
	matches := codeBlockPattern.FindAllStringSubmatch(response, -1)

	for _, match := range matches {
		if len(match) < 3 {
			continue
		}

		lang := strings.ToLower(match[1])
		content := strings.TrimSpace(match[2])

		if lang != "" && lang != "json" {
			continue
		}

		if strings.HasPrefix(content, "{") && isValidJSON(content) {
			return content, true
		}
	}

	return "", false
}

// extractRawObject finds the first balanced JSON object in the text.
// A tool call is always an object, so arrays are not candidates.
func extractRawObject(response string) (string, bool) {
	start := strings.Index(response, "{")
	if start < 0 {
		return "", false
	}

	jsonStr := findMatchingBracket(response[start:], '}')
	if jsonStr != "" && isValidJSON(jsonStr) {
		return jsonStr, true
	}

	return "", false
}

// findMatchingBracket finds the complete JSON by matching brackets,
// ignoring brackets inside string literals and escape sequences.
func findMatchingBracket(s string, closeChar byte) string {
	if len(s) == 0 {
		return ""
	}

	openChar := s[0]
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}

		if c == '\\' && inString {
			escaped = true
			continue
		}

		if c == '"' {
			inString = !inString
			continue
		}

		if inString {
			continue
		}

		if c == openChar {
			depth++
		} else if c == closeChar {
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}

	return ""
}

func isValidJSON(s string) bool {
	var js json.RawMessage
	return json.Unmarshal([]byte(s), &js) == nil
}
