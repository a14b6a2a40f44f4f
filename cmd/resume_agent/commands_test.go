package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-tailor/internal/extraction"
	"github.com/jonathan/resume-tailor/internal/types"
)

func TestExtractCommand(t *testing.T) {
	dir := t.TempDir()
	response := writeFile(t, dir, "response.txt", modelResponse)

	out, err := execute(t, "extract", "--response", response)
	require.NoError(t, err)

	var content types.TailoredContent
	require.NoError(t, json.Unmarshal([]byte(out), &content))
	assert.Equal(t, "Senior Go Engineer | Payments", content.Title)
	assert.Len(t, content.Experience, 2)
}

func TestExtractCommand_Refusal(t *testing.T) {
	dir := t.TempDir()
	response := writeFile(t, dir, "response.txt", "I cannot help with this request.")

	_, err := execute(t, "extract", "--response", response)
	assert.ErrorIs(t, err, extraction.ErrRefused)
}

func TestExtractCommand_MissingResponse(t *testing.T) {
	_, err := execute(t, "extract")
	assert.ErrorContains(t, err, "--response is required")
}

func TestReconcileCommand(t *testing.T) {
	dir := t.TempDir()
	canonical := writeFile(t, dir, "canonical.json", canonicalJSON)
	response := writeFile(t, dir, "response.txt", modelResponse)

	out, err := execute(t, "reconcile", "--canonical", canonical, "--response", response)
	require.NoError(t, err)

	var resume types.ReconciledResume
	require.NoError(t, json.Unmarshal([]byte(out), &resume))
	assert.Equal(t, "Jane Q Doe", resume.Name)
	assert.Equal(t, "Senior Go Engineer", resume.Title)
	assert.Equal(t, "Senior Go Engineer who ships reliable APIs.", resume.Summary)
	require.Len(t, resume.Experience, 2)
	assert.Equal(t, []string{"Built payment APIs in Go", "Led on-call"}, resume.Experience[0].Details)
	// Empty tailored details fall back to the canonical bullets
	assert.Equal(t, []string{"Built tools", "Fixed bugs"}, resume.Experience[1].Details)
	assert.Equal(t, "Dec 2019", resume.Experience[1].EndDate)
}

func TestReconcileCommand_RequiresCanonical(t *testing.T) {
	_, err := execute(t, "reconcile", "--response", "x.txt")
	assert.ErrorContains(t, err, "required flag")
}

func TestRunCommand_ManualResponse(t *testing.T) {
	dir := t.TempDir()
	resumes := filepath.Join(dir, "resumes")
	writeFile(t, resumes, "Jane Doe Golang.json", canonicalJSON)
	job := writeFile(t, dir, "job.txt", "Senior Go engineer for payments.")
	response := writeFile(t, dir, "response.txt", modelResponse)
	outDir := filepath.Join(dir, "out")
	cfg := writeFile(t, dir, "config.json", `{"resume_dir": "`+resumes+`"}`)

	out, err := execute(t, "run",
		"--config", cfg,
		"--profile", "Jane Doe",
		"--company", "Stripe",
		"--job", job,
		"--variant", "golang",
		"--ai-response", response,
		"--output", outDir,
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Selected variant: Golang")

	data, err := os.ReadFile(filepath.Join(outDir, "Jane_Doe_Stripe.json"))
	require.NoError(t, err)

	var resume types.ReconciledResume
	require.NoError(t, json.Unmarshal(data, &resume))
	assert.Equal(t, "Senior Go Engineer", resume.Title)
	assert.Equal(t, "Acme Corp", resume.Experience[0].Company)
}

func TestRunCommand_Registry(t *testing.T) {
	dir := t.TempDir()
	resumes := filepath.Join(dir, "resumes")
	writeFile(t, resumes, "Jane Doe/Jane Doe.json", canonicalJSON)
	registry := writeFile(t, dir, "profiles.yaml", "profiles:\n  jdoe:\n    resume: Jane Doe\n")
	job := writeFile(t, dir, "job.txt", "QA automation engineer.")
	response := writeFile(t, dir, "response.txt", modelResponse)
	outDir := filepath.Join(dir, "out")
	cfg := writeFile(t, dir, "config.json", `{"resume_dir": "`+resumes+`", "registry_path": "`+registry+`", "output_dir": "`+outDir+`"}`)

	_, err := execute(t, "run", "--config", cfg, "--profile", "JDoe", "--job", job, "--variant", "QA", "--ai-response", response)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(outDir, "Jane_Doe.json"))
	assert.NoError(t, err)

	_, err = execute(t, "run", "--config", cfg, "--profile", "nobody", "--job", job, "--variant", "QA", "--ai-response", response)
	assert.ErrorContains(t, err, `unknown profile "nobody"`)
}

func TestRunCommand_InvalidInput(t *testing.T) {
	dir := t.TempDir()
	job := writeFile(t, dir, "job.txt", "Go engineer.")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "missing profile",
			args:    []string{"run", "--job", job},
			wantErr: "required flag",
		},
		{
			name:    "no job",
			args:    []string{"run", "--profile", "Jane Doe"},
			wantErr: "either --job or --job-url must be provided",
		},
		{
			name:    "job and url",
			args:    []string{"run", "--profile", "Jane Doe", "--job", job, "--job-url", "https://example.com/job"},
			wantErr: "mutually exclusive",
		},
		{
			name:    "unknown variant",
			args:    []string{"run", "--profile", "Jane Doe", "--job", job, "--variant", "Rust"},
			wantErr: `unknown variant "Rust"`,
		},
		{
			name:    "no api key",
			args:    []string{"run", "--profile", "Jane Doe", "--job", job, "--resume-source", "file", "--output", dir},
			wantErr: "GEMINI_API_KEY",
		},
		{
			name:    "db source without database",
			args:    []string{"run", "--profile", "Jane Doe", "--job", job, "--resume-source", "db"},
			wantErr: "--resume-source=db requires DATABASE_URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(dir)
			require.NoError(t, os.MkdirAll(filepath.Join(dir, "resumes"), 0755))

			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestReplayCommand_Validation(t *testing.T) {
	_, err := execute(t, "replay", "--run-id", "not-a-uuid")
	assert.ErrorContains(t, err, "invalid run ID format")

	_, err = execute(t, "replay", "--run-id", "00000000-0000-0000-0000-000000000000")
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestRunsCommand_RequiresDatabase(t *testing.T) {
	_, err := execute(t, "runs")
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestServeCommand_Validation(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := execute(t, "serve", "--port", "0")
	assert.ErrorContains(t, err, "resume directory resumes")

	_, err = execute(t, "serve", "--resume-source", "db")
	assert.ErrorContains(t, err, "--resume-source=db requires DATABASE_URL")
}

func TestIngestJobCommand_TextFile(t *testing.T) {
	dir := t.TempDir()
	posting := writeFile(t, dir, "posting.html", `<html><body><nav>Menu</nav><h1>Go Engineer</h1><ul><li>Build APIs</li></ul></body></html>`)
	outDir := filepath.Join(dir, "out")

	out, err := execute(t, "ingest-job", "--text-file", posting, "--out", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully ingested job posting")

	text, err := os.ReadFile(filepath.Join(outDir, "job_posting.cleaned.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(text), "Go Engineer")
	assert.Contains(t, string(text), "Build APIs")
	assert.NotContains(t, string(text), "Menu")

	meta, err := os.ReadFile(filepath.Join(outDir, "job_posting.meta.json"))
	require.NoError(t, err)
	assert.Contains(t, string(meta), `"hash"`)
}

func TestIngestJobCommand_MissingFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		errorString string
	}{
		{name: "missing --out", args: []string{"ingest-job", "--text-file", "test.txt"}, errorString: "required flag"},
		{name: "no source", args: []string{"ingest-job", "--out", "x"}, errorString: "either --text-file or --url must be provided"},
		{name: "both sources", args: []string{"ingest-job", "--out", "x", "--text-file", "a.txt", "--url", "https://example.com"}, errorString: "mutually exclusive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}
