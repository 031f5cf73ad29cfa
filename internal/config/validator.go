package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/codemarcinu/steward/internal/types"
)

// Validator checks a Config for structural and cross-field problems.
type Validator interface {
	Validate(cfg *Config) error
}

type configValidator struct {
	validate *validator.Validate
}

// NewValidator creates a Validator backed by struct tag validation.
func NewValidator() Validator {
	return &configValidator{validate: validator.New()}
}

// Validate collects every problem before failing, so one edit of the
// config file can fix all of them.
func (v *configValidator) Validate(cfg *Config) error {
	if cfg == nil {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "configuration is nil")
	}

	var problems []string

	if err := v.validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return types.WrapError(types.CONFIG_VALIDATION_FAILED,
				"configuration validation failed", err)
		}
		for _, e := range verrs {
			problems = append(problems, formatFieldError(e))
		}
	}

	if cfg.Sanitizer.HighThreshold < cfg.Sanitizer.MediumThreshold {
		problems = append(problems, fmt.Sprintf(
			"sanitizer.high_threshold must be at least sanitizer.medium_threshold (got %d < %d)",
			cfg.Sanitizer.HighThreshold, cfg.Sanitizer.MediumThreshold))
	}

	if cfg.Database.MaxIdleConns > cfg.Database.MaxOpenConns {
		problems = append(problems, fmt.Sprintf(
			"database.max_idle_conns must not exceed database.max_open_conns (got %d > %d)",
			cfg.Database.MaxIdleConns, cfg.Database.MaxOpenConns))
	}

	if len(problems) > 0 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			"configuration validation failed:\n  - "+strings.Join(problems, "\n  - "))
	}

	return nil
}

// formatFieldError renders one struct tag violation with the config
// file's field path.
func formatFieldError(e validator.FieldError) string {
	fieldPath := formatFieldPath(e.Namespace())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fieldPath)
	case "min":
		return fmt.Sprintf("%s must be at least %s (got: %v)", fieldPath, e.Param(), e.Value())
	case "max":
		return fmt.Sprintf("%s must be at most %s (got: %v)", fieldPath, e.Param(), e.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s] (got: %v)", fieldPath, e.Param(), e.Value())
	default:
		return fmt.Sprintf("%s failed validation %q (got: %v)", fieldPath, e.Tag(), e.Value())
	}
}

// formatFieldPath converts a validator namespace to the YAML field path.
// Example: "Config.Model.MaxTokens" -> "model.max_tokens".
func formatFieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) <= 1 {
		return namespace
	}

	result := make([]string, 0, len(parts)-1)
	for i := 1; i < len(parts); i++ {
		result = append(result, camelToSnake(parts[i]))
	}
	return strings.Join(result, ".")
}

func camelToSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteRune('_')
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}
