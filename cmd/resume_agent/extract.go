package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/extraction"
	"github.com/jonathan/resume-tailor/internal/observability"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Recover the tailored resume JSON from a saved model response",
	RunE:  runExtract,
}

var extractResponse string

func init() {
	extractCmd.Flags().StringVarP(&extractResponse, "response", "r", "", "Path to the raw model response")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	raw, err := readFile("response", extractResponse)
	if err != nil {
		return err
	}

	result, err := extraction.ExtractResult(raw)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintExtraction(result)
	}
	return writeJSON(cmd, result.Content)
}
