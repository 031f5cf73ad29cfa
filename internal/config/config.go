// Package config defines steward's configuration surface: one YAML file
// with environment variable interpolation, struct-tag validation, and
// defaults that work with no file at all.
package config

import (
	"time"
)

// Config is the root configuration for steward.
type Config struct {
	Model     ModelConfig     `mapstructure:"model" yaml:"model" json:"model"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline" yaml:"pipeline" json:"pipeline"`
	Sanitizer SanitizerConfig `mapstructure:"sanitizer" yaml:"sanitizer" json:"sanitizer"`
	Tools     ToolsConfig     `mapstructure:"tools" yaml:"tools" json:"tools"`
	Database  DatabaseConfig  `mapstructure:"database" yaml:"database" json:"database"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging" json:"logging"`
}

// ModelConfig selects and tunes the tool-selection model.
type ModelConfig struct {
	Provider string `mapstructure:"provider" yaml:"provider" json:"provider" validate:"required,oneof=anthropic openai ollama mock"`
	Name     string `mapstructure:"name" yaml:"name" json:"name" validate:"required"`

	// APIKey may reference an environment variable as ${VAR_NAME}; it is
	// interpolated at load time. Empty falls back to the provider's own
	// environment lookup.
	APIKey string `mapstructure:"api_key" yaml:"api_key,omitempty" json:"api_key,omitempty"`

	// BaseURL overrides the provider endpoint (ollama hosts, proxies).
	BaseURL string `mapstructure:"base_url" yaml:"base_url,omitempty" json:"base_url,omitempty"`

	Temperature float64       `mapstructure:"temperature" yaml:"temperature" json:"temperature" validate:"min=0,max=2"`
	MaxTokens   int           `mapstructure:"max_tokens" yaml:"max_tokens" json:"max_tokens" validate:"min=0"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout" validate:"min=1s"`
}

// PipelineConfig tunes the orchestration loop.
type PipelineConfig struct {
	MaxRetries      int           `mapstructure:"max_retries" yaml:"max_retries" json:"max_retries" validate:"min=0,max=5"`
	DispatchTimeout time.Duration `mapstructure:"dispatch_timeout" yaml:"dispatch_timeout" json:"dispatch_timeout" validate:"min=1s"`
	RefusalText     string        `mapstructure:"refusal_text" yaml:"refusal_text,omitempty" json:"refusal_text,omitempty"`
}

// SanitizerConfig tunes injection risk scoring.
type SanitizerConfig struct {
	MediumThreshold int `mapstructure:"medium_threshold" yaml:"medium_threshold" json:"medium_threshold" validate:"min=1"`
	HighThreshold   int `mapstructure:"high_threshold" yaml:"high_threshold" json:"high_threshold" validate:"min=1"`

	// RulesFile points at a YAML file with extra detection rules merged
	// after the builtin set.
	RulesFile string `mapstructure:"rules_file" yaml:"rules_file,omitempty" json:"rules_file,omitempty"`
}

// ToolsConfig restricts which tools are registered. An empty list
// enables everything; answer_directly is always enabled.
type ToolsConfig struct {
	Enabled []string `mapstructure:"enabled" yaml:"enabled,omitempty" json:"enabled,omitempty"`
}

// DatabaseConfig contains sqlite settings.
type DatabaseConfig struct {
	Path         string        `mapstructure:"path" yaml:"path" json:"path" validate:"required"`
	BusyTimeout  time.Duration `mapstructure:"busy_timeout" yaml:"busy_timeout" json:"busy_timeout" validate:"min=100ms"`
	MaxOpenConns int           `mapstructure:"max_open_conns" yaml:"max_open_conns" json:"max_open_conns" validate:"min=1,max=100"`
	MaxIdleConns int           `mapstructure:"max_idle_conns" yaml:"max_idle_conns" json:"max_idle_conns" validate:"min=1,max=100"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" json:"format" validate:"oneof=json text"`
}
