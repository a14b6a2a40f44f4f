package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/prompts"
	"github.com/jonathan/resume-tailor/internal/server"
)

var (
	servePort         int
	serveRateLimit    int
	serveBurst        int
	serveResumeSource string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the tailoring pipeline.

Without an API key the server still starts, but only requests that supply both a
variant and an ai_response can be served. Run history endpoints need DATABASE_URL.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().IntVar(&serveRateLimit, "rate-limit", 10, "Tailoring requests per minute per client IP (0 disables)")
	serveCmd.Flags().IntVar(&serveBurst, "burst", 3, "Tailoring requests a client may make at once")
	serveCmd.Flags().StringVar(&serveResumeSource, "resume-source", sourceFile, "Where canonical resumes are read from: file or db")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)

	database, err := connectDB(ctx, cfg)
	if err != nil {
		return err
	}
	if database != nil {
		defer database.Close()
	}

	store, err := openStore(serveResumeSource, cfg, database, logger)
	if err != nil {
		return err
	}

	templates, err := prompts.Load()
	if err != nil {
		return fmt.Errorf("failed to load prompts: %w", err)
	}

	opts := pipeline.RunOptions{
		Templates: templates,
		Store:     store,
		Logger:    logger,
	}
	srvCfg := server.Config{
		Port:              servePort,
		Logger:            logger,
		RequestsPerMinute: serveRateLimit,
		Burst:             serveBurst,
	}
	if database != nil {
		opts.Recorder = database
		srvCfg.Runs = database
	} else {
		logger.Warn().Msg("no database configured; run history endpoints are disabled")
	}

	client, err := newClient(ctx, cfg)
	if err != nil {
		logger.Warn().Err(err).Msg("no LLM client; only manual tailoring requests will succeed")
	} else {
		defer client.Close()
		opts.Client = client
	}

	if cfg.RegistryPath != "" {
		if srvCfg.Registry, err = config.LoadRegistry(cfg.RegistryPath); err != nil {
			return err
		}
	}

	if srvCfg.Pipeline, err = pipeline.New(opts); err != nil {
		return err
	}

	srv, err := server.New(srvCfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}
