package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/codemarcinu/steward/internal/config"
	"github.com/codemarcinu/steward/internal/database"
	"github.com/codemarcinu/steward/internal/dispatch"
	"github.com/codemarcinu/steward/internal/events"
	"github.com/codemarcinu/steward/internal/llm"
	"github.com/codemarcinu/steward/internal/llm/providers"
	"github.com/codemarcinu/steward/internal/observability"
	"github.com/codemarcinu/steward/internal/orchestrator"
	"github.com/codemarcinu/steward/internal/prompt"
	"github.com/codemarcinu/steward/internal/record"
	"github.com/codemarcinu/steward/internal/sanitize"
	"github.com/codemarcinu/steward/internal/store"
	"github.com/codemarcinu/steward/internal/tool"
	"github.com/codemarcinu/steward/internal/tool/builtin"
	"github.com/codemarcinu/steward/internal/types"
	"github.com/codemarcinu/steward/internal/util"
	"github.com/codemarcinu/steward/internal/web"
)

// app holds the wired pipeline for one command invocation.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	db       *database.DB
	records  record.Store
	registry *tool.Registry
	bus      *events.DefaultBus
	orch     *orchestrator.Orchestrator
}

// openApp loads configuration and wires the full pipeline: database,
// stores, tool handlers, sanitizer, model client, and orchestrator.
// Close must be called when the command is done.
func openApp(ctx context.Context, flags *GlobalFlags) (*app, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg, flags)
	if err != nil {
		return nil, err
	}

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}

	webClient := web.NewClient(cfg.Pipeline.DispatchTimeout)
	handlers := builtin.Handlers(builtin.Deps{
		Notes:      store.NewNoteDAO(db),
		Bookmarks:  store.NewBookmarkDAO(db),
		Pantry:     store.NewPantryDAO(db),
		Spending:   store.NewSpendingDAO(db),
		Knowledge:  store.NewKnowledgeDAO(db),
		Weather:    web.NewWeatherClient(webClient),
		Summarizer: web.NewSummarizer(webClient),
	})

	dispatcher, err := dispatch.New(handlers, cfg.Pipeline.DispatchTimeout)
	if err != nil {
		db.Close()
		return nil, err
	}

	registry, err := tool.NewRegistry(tool.FilterEnabled(dispatcher.Definitions(), cfg.Tools.Enabled))
	if err != nil {
		db.Close()
		return nil, err
	}

	sanitizer, err := newSanitizer(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	builder, err := prompt.NewBuilder(registry)
	if err != nil {
		db.Close()
		return nil, err
	}

	client, err := providers.New(providers.Config{
		Provider: cfg.Model.Provider,
		Model:    cfg.Model.Name,
		APIKey:   cfg.Model.APIKey,
		BaseURL:  cfg.Model.BaseURL,
		Timeout:  cfg.Model.Timeout,
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	records := record.NewSQLiteStore(db)
	bus := events.NewBus()

	options := []orchestrator.Option{
		orchestrator.WithMaxRetries(cfg.Pipeline.MaxRetries),
		orchestrator.WithLogger(logger),
		orchestrator.WithEventBus(bus),
		orchestrator.WithModelOptions(llm.Options{
			Temperature: cfg.Model.Temperature,
			MaxTokens:   cfg.Model.MaxTokens,
			Timeout:     cfg.Model.Timeout,
		}),
	}
	if cfg.Pipeline.RefusalText != "" {
		options = append(options, orchestrator.WithRefusalText(cfg.Pipeline.RefusalText))
	}

	orch, err := orchestrator.New(sanitizer, builder, client, registry, dispatcher, records, options...)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		records:  records,
		registry: registry,
		bus:      bus,
		orch:     orch,
	}, nil
}

// Close releases the app's resources.
func (a *app) Close() error {
	a.bus.Close()
	return a.db.Close()
}

// loadConfig loads the config file, falling back to defaults when it
// does not exist. A custom home directory moves the default database
// location with it.
func loadConfig(flags *GlobalFlags) (*config.Config, error) {
	loader := config.NewLoader(config.NewValidator())
	cfg, err := loader.LoadWithDefaults(flags.ResolveConfigPath())
	if err != nil {
		return nil, err
	}

	home := flags.ResolveHomeDir()
	if home != config.DefaultHomeDir() && cfg.Database.Path == config.DefaultDatabasePath(config.DefaultHomeDir()) {
		cfg.Database.Path = config.DefaultDatabasePath(home)
	}

	cfg.Database.Path, err = util.ExpandPath(cfg.Database.Path)
	if err != nil {
		return nil, types.WrapError(types.CONFIG_LOAD_FAILED, "failed to expand database path", err)
	}

	return cfg, nil
}

// newLogger builds the structured logger. Verbose forces debug level,
// quiet keeps only errors.
func newLogger(cfg *config.Config, flags *GlobalFlags) (*slog.Logger, error) {
	level := cfg.Logging.Level
	if flags.IsVerbose() {
		level = "debug"
	}
	if flags.IsQuiet() {
		level = "error"
	}
	return observability.NewLogger(os.Stderr, level, cfg.Logging.Format)
}

func openDatabase(ctx context.Context, cfg *config.Config) (*database.DB, error) {
	db, err := database.OpenWithConfig(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Hour,
		BusyTimeout:     cfg.Database.BusyTimeout,
	})
	if err != nil {
		return nil, err
	}
	if err := db.InitSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func newSanitizer(cfg *config.Config) (*sanitize.Sanitizer, error) {
	var extra []sanitize.Rule
	if cfg.Sanitizer.RulesFile != "" {
		rulesFile, err := util.ExpandPath(cfg.Sanitizer.RulesFile)
		if err != nil {
			return nil, types.WrapError(types.CONFIG_LOAD_FAILED, "failed to expand rules file path", err)
		}
		rules, err := sanitize.LoadRules(rulesFile)
		if err != nil {
			return nil, err
		}
		extra = rules
	}
	return sanitize.New(sanitize.Config{
		MediumThreshold: cfg.Sanitizer.MediumThreshold,
		HighThreshold:   cfg.Sanitizer.HighThreshold,
		Rules:           extra,
	})
}
