// Package sanitize classifies user input for prompt-injection risk and
// produces the cleaned copy that is allowed to reach the model. It is a
// defense-in-depth gate: high-risk input never leaves this process.
package sanitize

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// RiskLevel grades how likely an input is an injection attempt.
type RiskLevel string

const (
	RiskNone   RiskLevel = "none"
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Rank returns the ordering of a risk level for comparison.
// Higher rank means more dangerous. Unknown levels rank as none.
func (r RiskLevel) Rank() int {
	switch r {
	case RiskHigh:
		return 3
	case RiskMedium:
		return 2
	case RiskLow:
		return 1
	default:
		return 0
	}
}

// MaxRisk returns the more dangerous of two risk levels.
func MaxRisk(a, b RiskLevel) RiskLevel {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// Rule is one detection pattern. Patterns are matched case-insensitively
// against the cleaned input; weights of all matching rules are summed and
// the total is thresholded into a RiskLevel.
type Rule struct {
	Pattern  string `yaml:"pattern"`
	Category string `yaml:"category"`
	Weight   int    `yaml:"weight"`
}

// RuleMatch records one rule that fired during classification.
type RuleMatch struct {
	Category string `json:"category"`
	Pattern  string `json:"pattern"`
	Weight   int    `json:"weight"`
}

// Assessment is the outcome of checking one input.
type Assessment struct {
	Clean   string      `json:"clean"`
	Risk    RiskLevel   `json:"risk"`
	Score   int         `json:"score"`
	Matches []RuleMatch `json:"matches,omitempty"`
}

// Config tunes the sanitizer. Zero thresholds fall back to defaults;
// Rules are merged after the builtin set.
type Config struct {
	MediumThreshold int
	HighThreshold   int
	Rules           []Rule
}

// Default score thresholds. A single instruction-override phrase is enough
// to reach high on its own.
const (
	DefaultMediumThreshold = 3
	DefaultHighThreshold   = 6
)

type compiledRule struct {
	regex    *regexp.Regexp
	category string
	weight   int
}

// Sanitizer is safe for concurrent use; all state is set at construction.
type Sanitizer struct {
	medium int
	high   int
	rules  []compiledRule
}

// New builds a sanitizer from the builtin rule set plus any extra rules
// in cfg. All patterns are pre-compiled; an invalid pattern fails fast.
func New(cfg Config) (*Sanitizer, error) {
	medium := cfg.MediumThreshold
	if medium <= 0 {
		medium = DefaultMediumThreshold
	}
	high := cfg.HighThreshold
	if high <= 0 {
		high = DefaultHighThreshold
	}
	if high < medium {
		return nil, fmt.Errorf("high threshold %d below medium threshold %d", high, medium)
	}

	all := append(builtinRules(), cfg.Rules...)
	s := &Sanitizer{
		medium: medium,
		high:   high,
		rules:  make([]compiledRule, 0, len(all)),
	}
	for i, rule := range all {
		regex, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid rule pattern at index %d: %w", i, err)
		}
		weight := rule.Weight
		if weight <= 0 {
			weight = 1
		}
		s.rules = append(s.rules, compiledRule{
			regex:    regex,
			category: rule.Category,
			weight:   weight,
		})
	}
	return s, nil
}

// Check cleans raw and classifies the result. Classification runs on the
// cleaned, lowercased text so zero-width interleaving cannot hide trigger
// phrases and so checking is idempotent: Check(Check(x).Clean) == Check(x).
func (s *Sanitizer) Check(raw string) Assessment {
	clean := cleanText(raw)
	lowered := strings.ToLower(clean)

	var matches []RuleMatch
	score := 0
	for _, cr := range s.rules {
		if cr.regex.MatchString(lowered) {
			matches = append(matches, RuleMatch{
				Category: cr.category,
				Pattern:  cr.regex.String(),
				Weight:   cr.weight,
			})
			score += cr.weight
		}
	}

	return Assessment{
		Clean:   clean,
		Risk:    s.level(score),
		Score:   score,
		Matches: matches,
	}
}

func (s *Sanitizer) level(score int) RiskLevel {
	switch {
	case score == 0:
		return RiskNone
	case score >= s.high:
		return RiskHigh
	case score >= s.medium:
		return RiskMedium
	default:
		return RiskLow
	}
}

// cleanText trims the input and removes control and zero-width characters.
// Newlines and tabs survive; everything else non-printable is dropped.
// Applying cleanText to its own output is the identity.
func cleanText(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r == '\n' || r == '\t':
			b.WriteRune(r)
		case unicode.IsControl(r):
		case isZeroWidth(r):
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

func isZeroWidth(r rune) bool {
	switch r {
	case '​', '‌', '‍', '⁠', '\ufeff', '­':
		return true
	}
	return false
}
