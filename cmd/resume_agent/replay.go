package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/pipeline"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Re-run extraction and reconciliation for a recorded run",
	Long: `Loads the raw model response and canonical resume stored for a run and repeats extraction,
reconciliation and title sanitizing without calling any model. Requires DATABASE_URL.`,
	RunE: runReplay,
}

var replayRunID string

func init() {
	replayCmd.Flags().StringVar(&replayRunID, "run-id", "", "ID of the recorded run")

	_ = replayCmd.MarkFlagRequired("run-id")

	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	runID, err := uuid.Parse(replayRunID)
	if err != nil {
		return fmt.Errorf("invalid run ID format: %w", err)
	}

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	database, err := requireDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	run, err := database.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %s not found", runID)
	}

	result, err := pipeline.Replay(ctx, database, runID, nil)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(cmd.ErrOrStderr())
		printer.PrintExtraction(result.Extraction)
		printer.PrintReconciledResume(&result.Resume)
	}
	return writeJSON(cmd, result.Resume)
}
