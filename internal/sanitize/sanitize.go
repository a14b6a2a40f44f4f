// Package sanitize cleans the tailored role title and keeps the summary consistent with it.
package sanitize

import (
	"regexp"
	"strings"
)

// RoleKeywords is the ordered role-noun vocabulary a clean title ends with
var RoleKeywords = []string{
	"Engineer",
	"Developer",
	"Specialist",
	"Architect",
	"Scientist",
	"Analyst",
	"Consultant",
	"Programmer",
	"Tester",
	"Lead",
	"SDET",
}

var roleKeyword = buildKeywordPattern(RoleKeywords)

func buildKeywordPattern(keywords []string) *regexp.Regexp {
	quoted := make([]string, len(keywords))
	for i, k := range keywords {
		quoted[i] = regexp.QuoteMeta(k)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// trailingSeparators are trimmed after the cut
const trailingSeparators = " \t,;:-–—|/(["

// Title cuts the title right after its last role keyword.
// Titles without a role keyword are returned unchanged.
func Title(title string) string {
	matches := roleKeyword.FindAllStringIndex(title, -1)
	if len(matches) == 0 {
		return title
	}
	end := matches[len(matches)-1][1]
	return strings.TrimRight(title[:end], trailingSeparators)
}

// TitleSummary returns the cleaned title and a summary in which every case-insensitive
// occurrence of the original title is replaced by the cleaned one.
func TitleSummary(title, summary string) (string, string) {
	cleaned := Title(title)
	if cleaned == title || strings.TrimSpace(title) == "" {
		return cleaned, summary
	}
	original := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(title))
	return cleaned, original.ReplaceAllLiteralString(summary, cleaned)
}
