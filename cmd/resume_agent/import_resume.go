package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var importResumeCmd = &cobra.Command{
	Use:   "import-resume",
	Short: "Store a canonical resume file in the database",
	Long: `Validates a canonical resume JSON file and stores it for a profile and variant, so runs
can read it with --resume-source=db. Omit --variant to store the base resume. Requires DATABASE_URL.`,
	RunE: runImportResume,
}

var (
	importProfile string
	importVariant string
	importFile    string
)

func init() {
	importResumeCmd.Flags().StringVarP(&importProfile, "profile", "p", "", "Candidate profile slug (or resume name when no registry is configured)")
	importResumeCmd.Flags().StringVar(&importVariant, "variant", "", "Resume variant (omit for the base resume)")
	importResumeCmd.Flags().StringVarP(&importFile, "file", "f", "", "Path to the canonical resume JSON")

	_ = importResumeCmd.MarkFlagRequired("profile")
	_ = importResumeCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(importResumeCmd)
}

func runImportResume(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	profile, err := resolveProfile(cfg, importProfile)
	if err != nil {
		return err
	}
	variant, err := parseVariant(importVariant)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(importFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", importFile, err)
	}

	database, err := requireDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.UpsertCanonicalResume(ctx, profile.Resume, variant, content); err != nil {
		return err
	}

	label := string(variant)
	if label == "" {
		label = "base"
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Stored %s resume for %s\n", label, profile.Resume)
	return nil
}
