package classify

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

var (
	categoryLabel = regexp.MustCompile(`(?i)^(line\s*1:?\s*|category:?\s*)`)
	keywordsLabel = regexp.MustCompile(`(?i)^(line\s*2:?\s*|tech\s*stacks?:?\s*)`)
)

// ParsedResponse is what could be read out of one oracle response
type ParsedResponse struct {
	// Category is empty when line 1 did not name a known category
	Category types.TechCategory
	// Keywords is the label-stripped second line
	Keywords string
	// HasKeywordLine reports whether the response had a second line at all
	HasKeywordLine bool
}

// Valid reports whether the response carried a recognized category and a non-empty keyword line
func (p ParsedResponse) Valid() bool {
	return p.Category != "" && p.Keywords != ""
}

// ParseResponse reads the two-line category/keywords format.
// Blank lines are ignored; lines beyond the second are ignored.
func ParseResponse(text string) ParsedResponse {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	var parsed ParsedResponse
	if len(lines) >= 1 {
		parsed.Category = MatchCategory(categoryLabel.ReplaceAllString(lines[0], ""))
	}
	if len(lines) >= 2 {
		parsed.Keywords = strings.TrimSpace(keywordsLabel.ReplaceAllString(lines[1], ""))
		parsed.HasKeywordLine = true
	}
	return parsed
}

// MatchCategory resolves a category line. An exact (case-insensitive) match wins;
// otherwise the first category, in precedence order, contained in the line.
func MatchCategory(line string) types.TechCategory {
	line = strings.TrimSpace(line)
	lower := strings.ToLower(line)
	for _, c := range types.TechCategories {
		if strings.EqualFold(line, string(c)) {
			return c
		}
	}
	for _, c := range types.TechCategories {
		if strings.Contains(lower, strings.ToLower(string(c))) {
			return c
		}
	}
	return ""
}
