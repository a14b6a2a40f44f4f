package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/prompts"
)

var preparePromptCmd = &cobra.Command{
	Use:   "prepare-prompt",
	Short: "Build the tailoring prompt without calling the tailoring model",
	Long: `Classifies the job, selects the resume variant and renders the tailoring prompt.
The prompt can be pasted into any chat model and the answer fed back with run --ai-response.`,
	RunE: runPreparePrompt,
}

var (
	prepareJob          string
	prepareJobURL       string
	prepareUseBrowser   bool
	prepareProfile      string
	prepareVariant      string
	preparePromptOut    string
	prepareResumeSource string
)

func init() {
	preparePromptCmd.Flags().StringVarP(&prepareJob, "job", "j", "", "Path to job posting text or HTML file")
	preparePromptCmd.Flags().StringVar(&prepareJobURL, "job-url", "", "URL to fetch job posting from")
	preparePromptCmd.Flags().BoolVar(&prepareUseBrowser, "use-browser", false, "Use headless browser for SPA sites (requires Chrome)")
	preparePromptCmd.Flags().StringVarP(&prepareProfile, "profile", "p", "", "Candidate profile slug (or resume name when no registry is configured)")
	preparePromptCmd.Flags().StringVar(&prepareVariant, "variant", "", "Skip classification and use this resume variant")
	preparePromptCmd.Flags().StringVarP(&preparePromptOut, "out", "o", "", "Write the prompt to this file instead of stdout")
	preparePromptCmd.Flags().StringVar(&prepareResumeSource, "resume-source", sourceFile, "Where canonical resumes are read from: file or db")

	_ = preparePromptCmd.MarkFlagRequired("profile")

	rootCmd.AddCommand(preparePromptCmd)
}

func runPreparePrompt(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)

	profile, err := resolveProfile(cfg, prepareProfile)
	if err != nil {
		return err
	}
	variant, err := parseVariant(prepareVariant)
	if err != nil {
		return err
	}

	jobText, err := readJobText(ctx, prepareJob, prepareJobURL, prepareUseBrowser, logger)
	if err != nil {
		return err
	}

	database, err := connectDB(ctx, cfg)
	if err != nil {
		return err
	}
	if database != nil {
		defer database.Close()
	}

	store, err := openStore(prepareResumeSource, cfg, database, logger)
	if err != nil {
		return err
	}

	templates, err := prompts.Load()
	if err != nil {
		return fmt.Errorf("failed to load prompts: %w", err)
	}

	opts := pipeline.RunOptions{Templates: templates, Store: store, Logger: logger}
	if variant == "" {
		client, err := newClient(ctx, cfg)
		if err != nil {
			return err
		}
		defer client.Close()
		opts.Client = client
	}

	p, err := pipeline.New(opts)
	if err != nil {
		return err
	}

	prepared, err := p.PreparePrompt(ctx, pipeline.Request{Profile: profile.Resume, JobText: jobText, Variant: variant})
	if err != nil {
		return err
	}

	if preparePromptOut != "" {
		if err := os.WriteFile(preparePromptOut, []byte(prepared.Prompt), 0644); err != nil {
			return fmt.Errorf("failed to write prompt: %w", err)
		}
		logger.Info().Str("path", preparePromptOut).Msg("prompt written")
	} else {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), prepared.Prompt)
	}

	out := classificationOutput{
		SelectedStack: string(prepared.Variant),
		TechCategory:  string(prepared.TechProfile.Category),
		TechStacks:    prepared.TechProfile.Keywords,
	}
	if prepared.Classification != nil {
		out.Attempts = prepared.Classification.Attempts
		out.Degraded = prepared.Classification.Degraded
	}
	return writeJSON(cmd, out)
}
