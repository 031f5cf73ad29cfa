// Package setup creates and verifies a steward installation: the home
// directory, a commented default config file, and the SQLite database
// with its schema. Initialize is idempotent unless Force is set.
package setup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/codemarcinu/steward/internal/config"
	"github.com/codemarcinu/steward/internal/database"
)

// Options configures the initialization process.
type Options struct {
	// HomeDir is the root directory for the installation. Empty uses
	// the default home.
	HomeDir string

	// Force recreates the config file and database even if they exist.
	Force bool
}

// Result reports what Initialize actually did.
type Result struct {
	HomeDir         string
	DirsCreated     []string
	ConfigCreated   bool
	DatabaseCreated bool
	Warnings        []string
}

// Initializer performs installation setup. The zero value is not
// usable; construct with NewInitializer or NewDefaultInitializer.
type Initializer struct {
	loader config.Loader
	openDB func(database.Config) (*database.DB, error)
}

// NewInitializer creates an Initializer with explicit dependencies.
func NewInitializer(loader config.Loader, openDB func(database.Config) (*database.DB, error)) *Initializer {
	return &Initializer{loader: loader, openDB: openDB}
}

// NewDefaultInitializer creates an Initializer with standard dependencies.
func NewDefaultInitializer() *Initializer {
	return NewInitializer(config.NewLoader(config.NewValidator()), database.OpenWithConfig)
}

// Initialize sets up a steward installation under opts.HomeDir:
//
//  1. Create the home directory
//  2. Write the default configuration file
//  3. Create the database and apply the schema
//
// Running it again on the same directory is safe; existing files are
// kept unless opts.Force is set.
func (i *Initializer) Initialize(ctx context.Context, opts Options) (*Result, error) {
	result := &Result{
		DirsCreated: []string{},
		Warnings:    []string{},
	}

	homeDir := opts.HomeDir
	if homeDir == "" {
		homeDir = config.DefaultHomeDir()
	}
	result.HomeDir = homeDir

	if _, err := os.Stat(homeDir); os.IsNotExist(err) {
		result.DirsCreated = append(result.DirsCreated, homeDir)
	}
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create home directory %s: %w", homeDir, err)
	}

	if err := i.initializeConfig(config.DefaultConfigPath(homeDir), homeDir, result, opts.Force); err != nil {
		return nil, fmt.Errorf("failed to initialize configuration: %w", err)
	}

	if err := i.initializeDatabase(ctx, homeDir, result, opts.Force); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return result, nil
}

// initializeConfig writes the default config file unless a valid one
// already exists.
func (i *Initializer) initializeConfig(configPath, homeDir string, result *Result, force bool) error {
	_, err := os.Stat(configPath)
	configExists := err == nil

	if configExists && !force {
		if _, err := i.loader.Load(configPath); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("existing config is invalid: %v", err))
		}
		return nil
	}

	if err := writeConfigFile(configPath, homeDir); err != nil {
		return err
	}

	result.ConfigCreated = true
	if configExists {
		result.Warnings = append(result.Warnings, "overwrote existing configuration (--force mode)")
	}
	return nil
}

// initializeDatabase creates the database file and applies the schema.
func (i *Initializer) initializeDatabase(ctx context.Context, homeDir string, result *Result, force bool) error {
	dbPath := config.DefaultDatabasePath(homeDir)

	_, err := os.Stat(dbPath)
	dbExists := err == nil

	if dbExists && force {
		// The WAL sidecar files must go with the database file, or the
		// fresh database would replay stale pages.
		for _, path := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove existing database: %w", err)
			}
		}
		result.Warnings = append(result.Warnings, "removed existing database (--force mode)")
		dbExists = false
	}

	db, err := i.openDB(database.DefaultConfig(dbPath))
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.InitSchema(ctx); err != nil {
		return err
	}

	if !dbExists {
		result.DatabaseCreated = true
	}
	return nil
}

// writeConfigFile renders the default configuration as commented YAML.
// A template keeps durations human-readable ("30s" instead of
// nanosecond integers) and lets the file document its own options.
func writeConfigFile(path, homeDir string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg := config.DefaultConfig()
	cfg.Database.Path = config.DefaultDatabasePath(homeDir)

	content := fmt.Sprintf(`model:
  provider: %s # anthropic | openai | ollama | mock
  name: %s
  # api_key: ${ANTHROPIC_API_KEY}
  # base_url: http://localhost:11434
  temperature: %g
  max_tokens: %d
  timeout: %s

pipeline:
  max_retries: %d
  dispatch_timeout: %s
  # refusal_text: custom reply for rejected inputs

sanitizer:
  medium_threshold: %d
  high_threshold: %d
  # rules_file: %s

# tools:
#   enabled: [create_note, get_weather]

database:
  path: %s
  busy_timeout: %s
  max_open_conns: %d
  max_idle_conns: %d

logging:
  level: %s # debug | info | warn | error
  format: %s # text | json
`,
		cfg.Model.Provider,
		cfg.Model.Name,
		cfg.Model.Temperature,
		cfg.Model.MaxTokens,
		cfg.Model.Timeout,
		cfg.Pipeline.MaxRetries,
		cfg.Pipeline.DispatchTimeout,
		cfg.Sanitizer.MediumThreshold,
		cfg.Sanitizer.HighThreshold,
		filepath.Join(homeDir, "rules.yaml"),
		cfg.Database.Path,
		cfg.Database.BusyTimeout,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
		cfg.Logging.Level,
		cfg.Logging.Format,
	)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
