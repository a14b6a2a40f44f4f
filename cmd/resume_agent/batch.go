package main

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/prompts"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Tailor resumes for many job descriptions concurrently",
	Long: `Runs every job listed in a YAML manifest through the pipeline, at most --concurrency at a time.
A failed job is reported and does not stop the others.

Manifest format:

  jobs:
    - profile: jdoe
      company: Stripe
      job: jobs/stripe.txt
    - profile: jdoe
      job_url: https://boards.greenhouse.io/acme/jobs/123
      variant: Golang`,
	RunE: runBatch,
}

var (
	batchManifest     string
	batchConcurrency  int
	batchOutputDir    string
	batchUseBrowser   bool
	batchResumeSource string
)

func init() {
	batchCmd.Flags().StringVarP(&batchManifest, "manifest", "m", "", "Path to the batch manifest YAML")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "Maximum concurrent requests (defaults to concurrency from config)")
	batchCmd.Flags().StringVarP(&batchOutputDir, "output", "o", "", "Output directory (defaults to output_dir from config)")
	batchCmd.Flags().BoolVar(&batchUseBrowser, "use-browser", false, "Use headless browser for SPA sites (requires Chrome)")
	batchCmd.Flags().StringVar(&batchResumeSource, "resume-source", sourceFile, "Where canonical resumes are read from: file or db")

	_ = batchCmd.MarkFlagRequired("manifest")

	rootCmd.AddCommand(batchCmd)
}

// BatchJob is one manifest entry
type BatchJob struct {
	Profile string `yaml:"profile" validate:"required"`
	Company string `yaml:"company,omitempty"`
	Job     string `yaml:"job,omitempty" validate:"required_without=JobURL,excluded_with=JobURL"`
	JobURL  string `yaml:"job_url,omitempty" validate:"omitempty,url"`
	Variant string `yaml:"variant,omitempty"`
}

// BatchManifest lists the jobs of a batch run
type BatchManifest struct {
	Jobs []BatchJob `yaml:"jobs" validate:"min=1,dive"`
}

// loadManifest reads and validates a batch manifest
func loadManifest(path string) (*BatchManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	var manifest BatchManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest YAML: %w", err)
	}
	if err := validator.New().Struct(&manifest); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	return &manifest, nil
}

func runBatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)

	manifest, err := loadManifest(batchManifest)
	if err != nil {
		return err
	}

	// Inputs are resolved up front so a bad entry fails before any model call
	reqs := make([]pipeline.Request, len(manifest.Jobs))
	for i, job := range manifest.Jobs {
		profile, err := resolveProfile(cfg, job.Profile)
		if err != nil {
			return fmt.Errorf("job %d: %w", i+1, err)
		}
		variant, err := parseVariant(job.Variant)
		if err != nil {
			return fmt.Errorf("job %d: %w", i+1, err)
		}
		jobText, err := readJobText(ctx, job.Job, job.JobURL, batchUseBrowser, logger)
		if err != nil {
			return fmt.Errorf("job %d: %w", i+1, err)
		}
		reqs[i] = pipeline.Request{Profile: profile.Resume, Company: job.Company, JobText: jobText, Variant: variant}
	}

	database, err := connectDB(ctx, cfg)
	if err != nil {
		return err
	}
	if database != nil {
		defer database.Close()
	}

	store, err := openStore(batchResumeSource, cfg, database, logger)
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

	opts := pipeline.RunOptions{Client: client, Templates: templates, Store: store, Logger: logger}
	if database != nil {
		opts.Recorder = database
	}
	p, err := pipeline.New(opts)
	if err != nil {
		return err
	}

	concurrency := batchConcurrency
	if concurrency <= 0 {
		concurrency = cfg.Concurrency
	}
	outDir := batchOutputDir
	if outDir == "" {
		outDir = cfg.OutputDir
	}

	results := p.RunBatch(ctx, reqs, concurrency)

	failed := 0
	out := cmd.OutOrStdout()
	for i, r := range results {
		if r.Err != nil {
			failed++
			_, _ = fmt.Fprintf(out, "%d. %s: FAILED: %v\n", i+1, describe(r.Request), r.Err)
			continue
		}
		path, err := pipeline.WriteResume(outDir, pipeline.OutputBaseName(r.Result.Resume.Name, r.Request.Company), &r.Result.Resume)
		if err != nil {
			failed++
			_, _ = fmt.Fprintf(out, "%d. %s: FAILED: %v\n", i+1, describe(r.Request), err)
			continue
		}
		_, _ = fmt.Fprintf(out, "%d. %s: %s -> %s\n", i+1, describe(r.Request), r.Result.Variant, path)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", failed, len(results))
	}
	return nil
}

func describe(req pipeline.Request) string {
	if req.Company == "" {
		return req.Profile
	}
	return fmt.Sprintf("%s @ %s", req.Profile, req.Company)
}
