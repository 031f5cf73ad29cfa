package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/codemarcinu/steward/internal/sanitize"
)

// DefaultConfig returns a Config with sensible default values: a local
// ollama model, the builtin sanitizer thresholds, all tools enabled,
// and the database under the steward home directory.
func DefaultConfig() *Config {
	homeDir := DefaultHomeDir()

	return &Config{
		Model: ModelConfig{
			Provider:    "ollama",
			Name:        "llama3.1",
			Temperature: 0.1,
			MaxTokens:   512,
			Timeout:     30 * time.Second,
		},
		Pipeline: PipelineConfig{
			MaxRetries:      2,
			DispatchTimeout: 10 * time.Second,
		},
		Sanitizer: SanitizerConfig{
			MediumThreshold: sanitize.DefaultMediumThreshold,
			HighThreshold:   sanitize.DefaultHighThreshold,
		},
		Tools: ToolsConfig{},
		Database: DatabaseConfig{
			Path:         DefaultDatabasePath(homeDir),
			BusyTimeout:  5 * time.Second,
			MaxOpenConns: 10,
			MaxIdleConns: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultHomeDir returns the default steward home directory, ~/.steward,
// falling back to a temporary directory if the user home is unknown.
func DefaultHomeDir() string {
	userHome, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".steward")
	}
	return filepath.Join(userHome, ".steward")
}

// DefaultConfigPath returns the config file path under a home directory.
func DefaultConfigPath(homeDir string) string {
	return filepath.Join(homeDir, "config.yaml")
}

// DefaultDatabasePath returns the database path under a home directory.
func DefaultDatabasePath(homeDir string) string {
	return filepath.Join(homeDir, "steward.db")
}
