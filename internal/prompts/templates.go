// Package prompts provides the classification and tailoring prompt templates.
// Prompts are JSON files of named templates embedded at compile time.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/resume-tailor/internal/types"
)

// Prompt file and key names
const (
	ClassifyFile  = "classify.json"
	TailoringFile = "tailoring.json"

	KeyClassifyLenient = "lenient"
	KeyClassifyStrict  = "strict"
	KeyTailor          = "tailor"
	KeyGuide           = "guide"
)

//go:embed *.json
var promptFiles embed.FS

// Templates holds every prompt the pipeline needs. Build it once with Load and pass it around;
// it is never mutated after construction.
type Templates struct {
	ClassifyLenient string
	ClassifyStrict  string
	Tailor          string
	Guide           string
}

// Load reads all pipeline templates from the embedded prompt files
func Load() (*Templates, error) {
	return loadFrom(promptFiles)
}

func loadFrom(fsys fs.FS) (*Templates, error) {
	t := &Templates{}
	entries := []struct {
		file string
		key  string
		dst  *string
	}{
		{ClassifyFile, KeyClassifyLenient, &t.ClassifyLenient},
		{ClassifyFile, KeyClassifyStrict, &t.ClassifyStrict},
		{TailoringFile, KeyTailor, &t.Tailor},
		{TailoringFile, KeyGuide, &t.Guide},
	}

	files := make(map[string]map[string]string)
	for _, e := range entries {
		prompts, ok := files[e.file]
		if !ok {
			data, err := fs.ReadFile(fsys, e.file)
			if err != nil {
				return nil, fmt.Errorf("failed to read prompt file %s: %w", e.file, err)
			}
			if err := json.Unmarshal(data, &prompts); err != nil {
				return nil, fmt.Errorf("failed to parse prompt file %s: %w", e.file, err)
			}
			files[e.file] = prompts
		}

		prompt, exists := prompts[e.key]
		if !exists || strings.TrimSpace(prompt) == "" {
			return nil, fmt.Errorf("prompt key %q not found in %s", e.key, e.file)
		}
		*e.dst = prompt
	}
	return t, nil
}

// render replaces {{.Key}} placeholders with values from data
func render(template string, data map[string]string) string {
	for key, value := range data {
		template = strings.ReplaceAll(template, "{{."+key+"}}", value)
	}
	return template
}

// Classify renders the classification prompt. Attempt 0 uses the lenient template,
// every later attempt the strict one.
func (t *Templates) Classify(jobText string, attempt int) string {
	template := t.ClassifyLenient
	if attempt > 0 {
		template = t.ClassifyStrict
	}
	return render(template, map[string]string{
		"JobDescription": jobText,
		"Categories":     quotedCategories(),
	})
}

// Tailoring renders the full tailoring prompt for a canonical resume and job description
func (t *Templates) Tailoring(resume *types.CanonicalResume, jobText string, now time.Time) string {
	guide := render(t.Guide, map[string]string{
		"YearsOfExperience": strconv.Itoa(YearsOfExperience(resume.Experience, now)),
	})
	return render(t.Tailor, map[string]string{
		"BasicResume":    FormatCanonicalResume(resume),
		"JobDescription": jobText,
		"TailoringGuide": guide,
	})
}

// conciseReplacements lowers the skill and bullet quotas of the tailoring guide
var conciseReplacements = strings.NewReplacer(
	"TOTAL: 60-80 skills maximum", "TOTAL: 50-60 skills maximum",
	"Per category: 8-12 skills", "Per category: 6-10 skills",
	"6 bullets each", "5 bullets each",
	"5-6 bullets per job", "4-5 bullets per job",
)

// Concise returns the prompt with reduced quotas, used when a generation was cut at the token limit
func Concise(prompt string) string {
	return conciseReplacements.Replace(prompt)
}

// quotedCategories renders the category list as `"A", "B", or "C"`
func quotedCategories() string {
	quoted := make([]string, len(types.TechCategories))
	for i, c := range types.TechCategories {
		quoted[i] = strconv.Quote(string(c))
	}
	if len(quoted) < 2 {
		return strings.Join(quoted, "")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}

// FormatCanonicalResume renders a canonical resume as the plain-text BASIC RESUME block of the tailoring prompt
func FormatCanonicalResume(resume *types.CanonicalResume) string {
	if resume == nil {
		return ""
	}

	var parts []string
	if resume.Name != "" {
		parts = append(parts, "Name: "+resume.Name)
	}
	if resume.Email != "" {
		parts = append(parts, "Email: "+resume.Email)
	}
	if resume.Location != "" {
		parts = append(parts, "Location: "+resume.Location)
	}

	if resume.Summary != "" {
		parts = append(parts, "\nSUMMARY:", resume.Summary)
	}

	if len(resume.Skills) > 0 {
		parts = append(parts, "\nSKILLS:")
		if resume.Skills.Uncategorized() {
			parts = append(parts, strings.Join(resume.Skills[0].Skills, " | "))
		} else {
			for _, group := range resume.Skills {
				if len(group.Skills) == 0 {
					continue
				}
				parts = append(parts, fmt.Sprintf("• %s: %s", group.Name, strings.Join(group.Skills, ", ")))
			}
		}
	}

	if len(resume.Experience) > 0 {
		parts = append(parts, "\nEXPERIENCE:")
		for i, job := range resume.Experience {
			header := []string{fmt.Sprintf("\n%d. %s", i+1, job.Company)}
			if job.Title != "" {
				header = append(header, "Title: "+job.Title)
			}
			if job.Location != "" {
				header = append(header, "Location: "+job.Location)
			}
			header = append(header, fmt.Sprintf("Period: %s - %s", job.StartDate, job.EndDate))
			parts = append(parts, strings.Join(header, " | "))

			for _, bullet := range job.Bullets {
				parts = append(parts, "   • "+bullet)
			}
		}
	}

	if len(resume.Education) > 0 {
		parts = append(parts, "\nEDUCATION:")
		for _, edu := range resume.Education {
			line := fmt.Sprintf("- %s, %s", edu.Degree, edu.School)
			switch {
			case edu.StartYear != "" && edu.EndYear != "":
				line += fmt.Sprintf(" (%s-%s)", edu.StartYear, edu.EndYear)
			case edu.EndYear != "":
				line += fmt.Sprintf(" (%s)", edu.EndYear)
			}
			if edu.Grade != "" {
				line += " | GPA: " + edu.Grade
			}
			parts = append(parts, line)
		}
	}

	return strings.Join(parts, "\n")
}

var startDateLayouts = []string{
	"Jan 2006",
	"January 2006",
	"Jan. 2006",
	"2006-01",
	"2006-01-02",
	"01/2006",
	"1/2006",
	"2006",
}

// YearsOfExperience returns the whole years between the earliest parseable start date and now.
// Unparseable dates are skipped; "Present" counts as now.
func YearsOfExperience(experience []types.CanonicalExperience, now time.Time) int {
	earliest := now
	for _, job := range experience {
		if start, ok := parseResumeDate(job.StartDate, now); ok && start.Before(earliest) {
			earliest = start
		}
	}
	years := now.Sub(earliest).Hours() / (24 * 365)
	return int(years + 0.5)
}

func parseResumeDate(value string, now time.Time) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, "present") || strings.EqualFold(value, "current") {
		return now, true
	}
	for _, layout := range startDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
