package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

var (
	whitespaceRun  = regexp.MustCompile(`\s+`)
	unsafeFileChar = regexp.MustCompile(`[^A-Za-z0-9_-]`)
)

// OutputBaseName builds "First_Last[_Company]" from the candidate name and optional company.
// Only the first and last name parts are used; an empty name becomes "resume".
func OutputBaseName(name, company string) string {
	parts := strings.Fields(name)
	var base string
	switch len(parts) {
	case 0:
		base = "resume"
	case 1:
		base = parts[0]
	default:
		base = parts[0] + "_" + parts[len(parts)-1]
	}
	base = sanitizeFilePart(base)

	if company = strings.TrimSpace(company); company != "" {
		base += "_" + sanitizeFilePart(company)
	}
	return base
}

func sanitizeFilePart(s string) string {
	return unsafeFileChar.ReplaceAllString(whitespaceRun.ReplaceAllString(s, "_"), "")
}

// WriteResume writes the reconciled resume as indented JSON to <dir>/<base>.json
func WriteResume(dir, base string, resume *types.ReconciledResume) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(resume, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal resume: %w", err)
	}

	path := filepath.Join(dir, base+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write resume file: %w", err)
	}
	return path, nil
}
