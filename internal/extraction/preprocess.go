package extraction

import (
	"regexp"
	"strings"
)

var (
	fenceMarker   = regexp.MustCompile("(?i)```(?:json|javascript|js)?[ \t]*\r?\n?")
	leadingPhrase = regexp.MustCompile(`(?i)^(here is|here's|this is|the json is):?\s*`)
	separatorLine = regexp.MustCompile("^(-{3,}|\\*{3,}|_{3,}|`{3,})$")
)

var refusalPrefixes = []string{"i'm sorry", "i cannot", "i apologize"}

// Preprocess removes code fences and a leading "here is" style phrase, then trims
func Preprocess(raw string) string {
	cleaned := fenceMarker.ReplaceAllString(raw, "")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = leadingPhrase.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

// IsRefusal reports whether the cleaned text opens with an apology instead of content
func IsRefusal(cleaned string) bool {
	lower := strings.ToLower(strings.TrimSpace(cleaned))
	// Models frequently use a typographic apostrophe
	lower = strings.ReplaceAll(lower, "’", "'")
	for _, prefix := range refusalPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// stripTrailingSeparators drops trailing markdown rule lines and blank lines
func stripTrailingSeparators(s string) string {
	for {
		s = strings.TrimRight(s, " \t\r\n")
		idx := strings.LastIndexByte(s, '\n')
		last := strings.TrimSpace(s[idx+1:])
		if !separatorLine.MatchString(last) {
			return s
		}
		if idx < 0 {
			return ""
		}
		s = s[:idx]
	}
}
