package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/classify"
	"github.com/jonathan/resume-tailor/internal/prompts"
	"github.com/jonathan/resume-tailor/internal/stack"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a job description and select the resume variant",
	Long:  "Asks the lite model for the job's technology category and keywords, then prints the selected resume variant as JSON.",
	RunE:  runClassify,
}

var (
	classifyJob        string
	classifyJobURL     string
	classifyUseBrowser bool
)

func init() {
	classifyCmd.Flags().StringVarP(&classifyJob, "job", "j", "", "Path to job posting text or HTML file")
	classifyCmd.Flags().StringVar(&classifyJobURL, "job-url", "", "URL to fetch job posting from")
	classifyCmd.Flags().BoolVar(&classifyUseBrowser, "use-browser", false, "Use headless browser for SPA sites (requires Chrome)")

	rootCmd.AddCommand(classifyCmd)
}

// classificationOutput is the JSON printed by classify and prepare-prompt
type classificationOutput struct {
	SelectedStack string `json:"selected_stack"`
	TechCategory  string `json:"tech_category"`
	TechStacks    string `json:"tech_stacks"`
	Attempts      int    `json:"attempts,omitempty"`
	Degraded      bool   `json:"degraded,omitempty"`
}

func runClassify(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)

	jobText, err := readJobText(ctx, classifyJob, classifyJobURL, classifyUseBrowser, logger)
	if err != nil {
		return err
	}

	templates, err := prompts.Load()
	if err != nil {
		return fmt.Errorf("failed to load prompts: %w", err)
	}

	client, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	outcome, err := classify.New(client, templates, classify.WithLogger(logger)).Classify(ctx, jobText)
	if err != nil {
		return err
	}

	out := classificationOutput{
		SelectedStack: string(stack.Select(outcome.Profile)),
		TechCategory:  string(outcome.Profile.Category),
		TechStacks:    outcome.Profile.Keywords,
		Attempts:      outcome.Attempts,
		Degraded:      outcome.Degraded,
	}
	return writeJSON(cmd, out)
}

// writeJSON prints v as indented JSON to the command's output
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}
