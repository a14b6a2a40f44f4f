package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/prompts"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Tailor a resume to a job description end-to-end",
	Long: `Runs the whole tailoring pipeline: classification -> variant selection -> canonical resume
load -> tailoring -> extraction -> reconciliation -> title sanitizing.

The reconciled resume is written as JSON to the output directory. With --ai-response the
tailoring call is skipped and the supplied model output is used instead.`,
	RunE: runTailor,
}

var (
	runJob          string
	runJobURL       string
	runUseBrowser   bool
	runProfile      string
	runCompany      string
	runVariant      string
	runAIResponse   string
	runOutputDir    string
	runResumeSource string
)

func init() {
	runCommand.Flags().StringVarP(&runJob, "job", "j", "", "Path to job posting text or HTML file (mutually exclusive with --job-url)")
	runCommand.Flags().StringVar(&runJobURL, "job-url", "", "URL to fetch job posting from (mutually exclusive with --job)")
	runCommand.Flags().BoolVar(&runUseBrowser, "use-browser", false, "Use headless browser for SPA sites (requires Chrome)")
	runCommand.Flags().StringVarP(&runProfile, "profile", "p", "", "Candidate profile slug (or resume name when no registry is configured)")
	runCommand.Flags().StringVarP(&runCompany, "company", "c", "", "Company name appended to the output file name")
	runCommand.Flags().StringVar(&runVariant, "variant", "", "Skip classification and use this resume variant (e.g. Golang, Java, Node)")
	runCommand.Flags().StringVar(&runAIResponse, "ai-response", "", "Path to a saved model response; skips the tailoring call")
	runCommand.Flags().StringVarP(&runOutputDir, "output", "o", "", "Output directory (defaults to output_dir from config)")
	runCommand.Flags().StringVar(&runResumeSource, "resume-source", sourceFile, "Where canonical resumes are read from: file or db")

	_ = runCommand.MarkFlagRequired("profile")

	rootCmd.AddCommand(runCommand)
}

func runTailor(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)

	profile, err := resolveProfile(cfg, runProfile)
	if err != nil {
		return err
	}

	jobText, err := readJobText(ctx, runJob, runJobURL, runUseBrowser, logger)
	if err != nil {
		return err
	}

	variant, err := parseVariant(runVariant)
	if err != nil {
		return err
	}

	req := pipeline.Request{
		Profile: profile.Resume,
		Company: runCompany,
		JobText: jobText,
		Variant: variant,
	}
	if runAIResponse != "" {
		if req.AIResponse, err = readFile("ai-response", runAIResponse); err != nil {
			return err
		}
	}

	database, err := connectDB(ctx, cfg)
	if err != nil {
		return err
	}
	if database != nil {
		defer database.Close()
	}

	store, err := openStore(runResumeSource, cfg, database, logger)
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
	if database != nil {
		opts.Recorder = database
	}

	// The client is only needed when a model call will be made
	if req.Variant == "" || req.AIResponse == "" {
		client, err := newClient(ctx, cfg)
		if err != nil {
			return err
		}
		defer client.Close()
		opts.Client = client
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	if cfg.Verbose {
		opts.OnProgress = func(e pipeline.ProgressEvent) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", e.Category, e.Message)
		}
	}

	p, err := pipeline.New(opts)
	if err != nil {
		return err
	}

	result, err := p.Run(ctx, req)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		if result.Classification != nil {
			printer.PrintTechProfile(result.TechProfile, result.Variant, result.Classification.Attempts, result.Classification.Degraded)
		}
		printer.PrintExtraction(result.Extraction)
		printer.PrintReconciledResume(&result.Resume)
	}

	outDir := runOutputDir
	if outDir == "" {
		outDir = cfg.OutputDir
	}
	path, err := pipeline.WriteResume(outDir, pipeline.OutputBaseName(result.Resume.Name, runCompany), &result.Resume)
	if err != nil {
		return err
	}

	for _, w := range result.Warnings {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Selected variant: %s\n", result.Variant)
	if result.RetriedConcise {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Response was truncated; used the concise prompt\n")
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Run ID: %s\n", result.RunID)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Resume: %s\n", path)
	return nil
}
