package experience

import (
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

// Normalize trims text fields, drops blank bullets and removes duplicate skills
// (case-insensitive, first spelling kept) within each group
func Normalize(resume *types.CanonicalResume) {
	resume.Name = strings.TrimSpace(resume.Name)
	resume.Email = strings.TrimSpace(resume.Email)
	resume.Phone = strings.TrimSpace(resume.Phone)
	resume.Location = strings.TrimSpace(resume.Location)
	resume.Summary = strings.TrimSpace(resume.Summary)

	for i := range resume.Experience {
		job := &resume.Experience[i]
		job.Company = strings.TrimSpace(job.Company)
		job.Title = strings.TrimSpace(job.Title)
		job.Location = strings.TrimSpace(job.Location)
		job.StartDate = strings.TrimSpace(job.StartDate)
		job.EndDate = strings.TrimSpace(job.EndDate)
		job.Bullets = compact(job.Bullets)
	}

	for i := range resume.Skills {
		resume.Skills[i].Skills = dedupe(compact(resume.Skills[i].Skills))
	}
}

func compact(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		key := strings.ToLower(v)
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}
