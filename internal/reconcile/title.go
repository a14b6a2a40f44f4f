package reconcile

import (
	"regexp"
	"strings"
)

// ParsedTitle is the structured reading of a tailored block's composite title
type ParsedTitle struct {
	Company string
	Format  string
}

// TitleMatcher recognizes one composite title format
type TitleMatcher func(title string) (ParsedTitle, bool)

// DefaultMatchers are tried in order; the first match wins
var DefaultMatchers = []TitleMatcher{
	matchCommaParen,
	matchDash,
	matchPipe,
}

var (
	dashSeparator = regexp.MustCompile(`\s*[—–]\s*|\s+-\s+`)
	roleNouns     = []string{"engineer", "developer", "architect", "manager", "analyst", "specialist"}
)

// ParseTitle runs the matchers in order and returns the first hit, or an empty ParsedTitle
func ParseTitle(title string, matchers []TitleMatcher) ParsedTitle {
	for _, m := range matchers {
		if parsed, ok := m(title); ok {
			return parsed
		}
	}
	return ParsedTitle{}
}

// matchCommaParen reads "Title, Company (Dates)"
func matchCommaParen(title string) (ParsedTitle, bool) {
	paren := strings.Index(title, "(")
	if paren < 0 {
		return ParsedTitle{}, false
	}
	comma := strings.Index(title[:paren], ",")
	if comma < 0 {
		return ParsedTitle{}, false
	}
	company := strings.TrimSpace(title[comma+1 : paren])
	if company == "" {
		return ParsedTitle{}, false
	}
	return ParsedTitle{Company: company, Format: "title_comma_company"}, true
}

// matchDash reads "Company — Title (Dates)". The first segment is rejected when it reads like a role.
func matchDash(title string) (ParsedTitle, bool) {
	segments := dashSeparator.Split(title, 2)
	if len(segments) < 2 {
		return ParsedTitle{}, false
	}
	company := strings.TrimSpace(segments[0])
	if company == "" {
		return ParsedTitle{}, false
	}
	lower := strings.ToLower(company)
	for _, noun := range roleNouns {
		if strings.Contains(lower, noun) {
			return ParsedTitle{}, false
		}
	}
	return ParsedTitle{Company: company, Format: "company_dash_title"}, true
}

// matchPipe reads "Title | Company | Dates"
func matchPipe(title string) (ParsedTitle, bool) {
	segments := strings.Split(title, "|")
	if len(segments) < 2 {
		return ParsedTitle{}, false
	}
	company := strings.TrimSpace(segments[1])
	if company == "" {
		return ParsedTitle{}, false
	}
	return ParsedTitle{Company: company, Format: "title_pipe_company"}, true
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeCompany lowercases, drops commas and periods, and collapses whitespace
func NormalizeCompany(name string) string {
	name = strings.ToLower(name)
	name = strings.NewReplacer(",", "", ".", "").Replace(name)
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(name, " "))
}
