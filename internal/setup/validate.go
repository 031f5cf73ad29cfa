package setup

import (
	"context"
	"fmt"
	"os"

	"github.com/codemarcinu/steward/internal/config"
	"github.com/codemarcinu/steward/internal/database"
)

// Check is the verification result for one installation component.
type Check struct {
	Component string `json:"component"`
	OK        bool   `json:"ok"`
	Detail    string `json:"detail"`
}

// ValidationResult aggregates the installation checks.
type ValidationResult struct {
	Valid  bool    `json:"valid"`
	Checks []Check `json:"checks"`
}

// Validate verifies an existing installation without modifying it: the
// home directory exists, the config file parses and validates, and the
// database opens and answers a health check. A missing database is
// reported, never created.
func (i *Initializer) Validate(ctx context.Context, homeDir string) (*ValidationResult, error) {
	if homeDir == "" {
		homeDir = config.DefaultHomeDir()
	}

	result := &ValidationResult{Valid: true}
	add := func(component string, ok bool, detail string) {
		result.Checks = append(result.Checks, Check{Component: component, OK: ok, Detail: detail})
		if !ok {
			result.Valid = false
		}
	}

	if _, err := os.Stat(homeDir); err != nil {
		add("home", false, fmt.Sprintf("%s not found (run 'steward init')", homeDir))
		return result, nil
	}
	add("home", true, homeDir)

	// The database location can be overridden by the config file, so the
	// config has to load before the database can be checked.
	configPath := config.DefaultConfigPath(homeDir)
	dbPath := config.DefaultDatabasePath(homeDir)

	if _, err := os.Stat(configPath); err != nil {
		add("config", false, fmt.Sprintf("%s not found (defaults apply)", configPath))
	} else if cfg, err := i.loader.Load(configPath); err != nil {
		add("config", false, fmt.Sprintf("%s: %v", configPath, err))
	} else {
		add("config", true, configPath)
		dbPath = cfg.Database.Path
	}

	if _, err := os.Stat(dbPath); err != nil {
		add("database", false, fmt.Sprintf("%s not found (run 'steward init')", dbPath))
		return result, nil
	}

	db, err := i.openDB(database.DefaultConfig(dbPath))
	if err != nil {
		add("database", false, fmt.Sprintf("%s: %v", dbPath, err))
		return result, nil
	}
	defer db.Close()

	if err := db.Health(ctx); err != nil {
		add("database", false, fmt.Sprintf("%s: %v", dbPath, err))
		return result, nil
	}
	add("database", true, dbPath)

	return result, nil
}
