package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/ingestion"
)

var ingestJobCmd = &cobra.Command{
	Use:   "ingest-job",
	Short: "Ingest a job posting from a text file or URL",
	Long:  "Ingest a job posting from either a text/HTML file or URL, clean the content, and output cleaned text with metadata.",
	RunE:  runIngestJob,
}

var (
	textFile         string
	urlStr           string
	outDir           string
	ingestUseBrowser bool
)

func init() {
	ingestJobCmd.Flags().StringVarP(&textFile, "text-file", "t", "", "Path to text or HTML file containing job posting")
	ingestJobCmd.Flags().StringVarP(&urlStr, "url", "u", "", "URL to fetch job posting from")
	ingestJobCmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (required)")
	ingestJobCmd.Flags().BoolVar(&ingestUseBrowser, "use-browser", false, "Use headless browser for SPA sites (requires Chrome)")

	_ = ingestJobCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(ingestJobCmd)
}

func runIngestJob(cmd *cobra.Command, _ []string) error {
	// Validate mutually exclusive flags
	if textFile == "" && urlStr == "" {
		return fmt.Errorf("either --text-file or --url must be provided")
	}
	if textFile != "" && urlStr != "" {
		return fmt.Errorf("--text-file and --url are mutually exclusive; provide only one")
	}

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)

	var cleanedText string
	var metadata *ingestion.Metadata

	if textFile != "" {
		cleanedText, metadata, err = ingestion.IngestFromFile(textFile)
		if err != nil {
			return fmt.Errorf("failed to ingest from file: %w", err)
		}
	} else {
		opts := ingestion.DefaultURLOptions()
		opts.UseBrowser = ingestUseBrowser
		opts.Logger = logger
		cleanedText, metadata, err = ingestion.IngestFromURL(cmd.Context(), urlStr, opts)
		if err != nil {
			return fmt.Errorf("failed to ingest from URL: %w", err)
		}
	}

	textPath, metaPath, err := writeIngested(outDir, cleanedText, metadata)
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Successfully ingested job posting\n")
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cleaned text: %s\n", textPath)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Metadata: %s\n", metaPath)
	return nil
}

// writeIngested writes job_posting.cleaned.txt and job_posting.meta.json into dir
func writeIngested(dir, text string, meta *ingestion.Metadata) (string, string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", err
	}

	textPath := filepath.Join(dir, "job_posting.cleaned.txt")
	if err := os.WriteFile(textPath, []byte(text), 0644); err != nil {
		return "", "", err
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", "", err
	}
	metaPath := filepath.Join(dir, "job_posting.meta.json")
	if err := os.WriteFile(metaPath, data, 0644); err != nil {
		return "", "", err
	}
	return textPath, metaPath, nil
}
