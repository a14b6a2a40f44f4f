package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/experience"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/types"
)

// Canonical resume sources selectable with --resume-source
const (
	sourceFile = "file"
	sourceDB   = "db"
)

// loadSettings resolves the config file, environment, persistent flags and defaults
func loadSettings(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	cfg.ApplyEnv()

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = verbose
	}

	cfg = cfg.MergeWithDefaults(config.Defaults())
	if cfg.Verbose && cfg.LogLevel == "info" {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newLogger builds the console logger used by every command
func newLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// newClient creates the LLM client for the configured provider
func newClient(ctx context.Context, cfg config.Config) (llm.Client, error) {
	apiKey := cfg.APIKey()
	if apiKey == "" {
		if cfg.LLMConfig().Provider == llm.ProviderAnthropic {
			return nil, fmt.Errorf("%s environment variable or anthropic_api_key config is required", config.EnvAnthropicAPIKey)
		}
		return nil, fmt.Errorf("%s environment variable or gemini_api_key config is required", config.EnvGeminiAPIKey)
	}

	client, err := llm.NewClient(ctx, cfg.LLMConfig(), apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return client, nil
}

// connectDB opens the database when one is configured. A nil DB with a nil error means
// no database URL was set.
func connectDB(ctx context.Context, cfg config.Config) (*db.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// requireDB is connectDB for commands that cannot work without a database
func requireDB(ctx context.Context, cfg config.Config) (*db.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("%s environment variable or database_url config is required", config.EnvDatabaseURL)
	}
	return connectDB(ctx, cfg)
}

// openStore picks the canonical resume source
func openStore(source string, cfg config.Config, database *db.DB, logger zerolog.Logger) (experience.Store, error) {
	switch source {
	case "", sourceFile:
		if _, err := os.Stat(cfg.ResumeDir); err != nil {
			return nil, fmt.Errorf("resume directory %s: %w", cfg.ResumeDir, err)
		}
		return experience.NewFileStore(cfg.ResumeDir, logger), nil
	case sourceDB:
		if database == nil {
			return nil, fmt.Errorf("--resume-source=db requires %s", config.EnvDatabaseURL)
		}
		return database, nil
	default:
		return nil, fmt.Errorf("unknown resume source %q (want %s or %s)", source, sourceFile, sourceDB)
	}
}

// resolveProfile maps a registry slug to its resume name. Without a registry the
// profile is used as the resume name directly.
func resolveProfile(cfg config.Config, profile string) (config.Profile, error) {
	if profile == "" {
		return config.Profile{}, fmt.Errorf("--profile is required")
	}
	if cfg.RegistryPath == "" {
		return config.Profile{Resume: profile, Template: config.DefaultTemplate}, nil
	}
	registry, err := config.LoadRegistry(cfg.RegistryPath)
	if err != nil {
		return config.Profile{}, err
	}
	return registry.Lookup(profile)
}

// readJobText loads a job description from a file or URL
func readJobText(ctx context.Context, jobPath, jobURL string, useBrowser bool, logger zerolog.Logger) (string, error) {
	if jobPath == "" && jobURL == "" {
		return "", fmt.Errorf("either --job or --job-url must be provided")
	}
	if jobPath != "" && jobURL != "" {
		return "", fmt.Errorf("--job and --job-url are mutually exclusive; provide only one")
	}

	if jobPath != "" {
		text, _, err := ingestion.IngestFromFile(jobPath)
		if err != nil {
			return "", fmt.Errorf("failed to ingest from file: %w", err)
		}
		return text, nil
	}

	opts := ingestion.DefaultURLOptions()
	opts.UseBrowser = useBrowser
	opts.Logger = logger
	text, meta, err := ingestion.IngestFromURL(ctx, jobURL, opts)
	if err != nil {
		return "", fmt.Errorf("failed to ingest from URL: %w", err)
	}
	logger.Debug().
		Str("platform", string(meta.Platform)).
		Bool("rendered", meta.Rendered).
		Int("chars", len(text)).
		Msg("job posting fetched")
	return text, nil
}

// readFile reads a required input file named by a flag
func readFile(flag, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("--%s is required", flag)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// parseVariant validates an optional --variant flag
func parseVariant(name string) (types.ResumeVariant, error) {
	if name == "" {
		return "", nil
	}
	v, ok := types.ParseVariant(name)
	if !ok {
		known := make([]string, len(types.ResumeVariants))
		for i, variant := range types.ResumeVariants {
			known[i] = string(variant)
		}
		return "", fmt.Errorf("unknown variant %q (known: %s)", name, strings.Join(known, ", "))
	}
	return v, nil
}
