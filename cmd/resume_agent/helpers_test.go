package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-tailor/internal/config"
)

// execute runs the root command in-process with fresh flag values
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Setenv(config.EnvDatabaseURL, "")
	t.Setenv(config.EnvGeminiAPIKey, "")
	t.Setenv(config.EnvAnthropicAPIKey, "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const canonicalJSON = `{
  "name": "Jane Q Doe",
  "email": "jane@example.com",
  "summary": "Backend engineer.",
  "skills": {"Languages": ["Go", "Python"]},
  "experience": [
    {"company": "Acme Corp", "title": "Backend Engineer", "location": "Remote", "start_date": "Jan 2020", "end_date": "Present", "bullets": ["Wrote services", "Ran on-call"]},
    {"company": "Globex Inc.", "title": "Software Engineer", "start_date": "Jun 2016", "end_date": "Dec 2019", "bullets": ["Built tools", "Fixed bugs"]}
  ],
  "education": [{"degree": "BS Computer Science", "school": "UT Austin", "end_year": "2016"}]
}`

const modelResponse = "```json\n" + `{
  "title": "Senior Go Engineer | Payments",
  "summary": "Senior Go Engineer | Payments who ships reliable APIs.",
  "skills": {"Languages": ["Go"]},
  "experience": [
    {"title": "Backend Engineer, Acme Corp (2020 - Present)", "details": ["Built payment APIs in Go", "Led on-call"]},
    {"title": "Software Engineer, Globex Inc. (2016 - 2019)", "details": []}
  ]
}` + "\n```"
