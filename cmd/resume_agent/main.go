// Package main provides the resume_agent CLI for tailoring resumes to job descriptions.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_agent",
	Short: "Tailor canonical resumes to job descriptions",
	Long: `resume_agent classifies a job description, picks the matching base resume variant,
asks an LLM to tailor it, and reconciles the tailored content with the canonical resume.

Configuration can be loaded from a JSON file using --config. Command-line flags override
config file values; GEMINI_API_KEY, ANTHROPIC_API_KEY and DATABASE_URL override both.`,
	SilenceUsage: true,
}

var (
	configPath string
	logLevel   string
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed debug information")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
