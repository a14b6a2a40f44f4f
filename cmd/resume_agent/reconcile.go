package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/experience"
	"github.com/jonathan/resume-tailor/internal/extraction"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/reconcile"
	"github.com/jonathan/resume-tailor/internal/sanitize"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Merge a saved model response with a canonical resume file",
	Long: `Extracts the tailored content from a saved model response and reconciles it with a
canonical resume. Company, role, location and dates always come from the canonical resume.`,
	RunE: runReconcile,
}

var (
	reconcileCanonical string
	reconcileResponse  string
)

func init() {
	reconcileCmd.Flags().StringVar(&reconcileCanonical, "canonical", "", "Path to the canonical resume JSON")
	reconcileCmd.Flags().StringVarP(&reconcileResponse, "response", "r", "", "Path to the raw model response")

	_ = reconcileCmd.MarkFlagRequired("canonical")

	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)

	canonical, err := experience.LoadCanonicalResume(reconcileCanonical)
	if err != nil {
		return err
	}

	raw, err := readFile("response", reconcileResponse)
	if err != nil {
		return err
	}

	extracted, err := extraction.ExtractResult(raw)
	if err != nil {
		return err
	}

	resume, pairings := reconcile.New().Reconcile(canonical, extracted.Content)
	resume.Title, resume.Summary = sanitize.TitleSummary(resume.Title, resume.Summary)

	for _, pairing := range pairings {
		if pairing.UsedCanonicalBullets {
			logger.Warn().
				Str("company", canonical.Experience[pairing.CanonicalIndex].Company).
				Str("match", string(pairing.Kind)).
				Msg("no tailored details, kept canonical bullets")
		}
	}

	if cfg.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintReconciledResume(&resume)
	}
	return writeJSON(cmd, resume)
}
