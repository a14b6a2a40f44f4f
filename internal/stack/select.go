// Package stack maps a tech profile onto one of the base resume variants.
package stack

import (
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

// webRule selects a variant when any of its words or substrings appear in the keyword line
type webRule struct {
	variant    types.ResumeVariant
	words      []string
	substrings []string
}

// webRules are evaluated in order; the first hit wins
var webRules = []webRule{
	{variant: types.VariantGolang, words: []string{"go", "golang"}},
	{variant: types.VariantJava, words: []string{"java"}, substrings: []string{"spring"}},
	{variant: types.VariantCSharpDotNet, words: []string{"csharp"}, substrings: []string{"c#", ".net"}},
	{variant: types.VariantPython, words: []string{"python"}, substrings: []string{"django"}},
}

// Select returns the resume variant for a profile. It is total: unknown categories map to Node.
func Select(profile types.TechProfile) types.ResumeVariant {
	switch profile.Category {
	case types.CategoryMobile:
		return types.VariantMobile
	case types.CategoryAIMLData:
		return types.VariantAI
	case types.CategoryQAAutomation:
		return types.VariantQA
	case types.CategoryWeb:
		return selectWeb(profile.Keywords)
	default:
		return types.VariantNode
	}
}

func selectWeb(keywords string) types.ResumeVariant {
	lower := strings.ToLower(keywords)
	for _, rule := range webRules {
		for _, word := range rule.words {
			if HasWholeWord(lower, word) {
				return rule.variant
			}
		}
		for _, sub := range rule.substrings {
			if strings.Contains(lower, sub) {
				return rule.variant
			}
		}
	}
	return types.VariantNode
}

// HasWholeWord reports whether word occurs in text with no ASCII letter, digit or underscore on either side.
// Both arguments are expected in the same case.
func HasWholeWord(text, word string) bool {
	if word == "" {
		return false
	}
	for offset := 0; offset <= len(text)-len(word); {
		idx := strings.Index(text[offset:], word)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(word)
		if (start == 0 || !isWordByte(text[start-1])) && (end == len(text) || !isWordByte(text[end])) {
			return true
		}
		offset = start + 1
	}
	return false
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}
