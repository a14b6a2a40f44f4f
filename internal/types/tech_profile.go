// Package types provides type definitions for structured data used throughout the resume-tailor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// TechCategory is the coarse technology domain inferred from a job description
type TechCategory string

// Known technology categories, in the order the classifier matches them
const (
	CategoryAIMLData     TechCategory = "AI/ML/Data"
	CategoryWeb          TechCategory = "Web"
	CategoryMobile       TechCategory = "Mobile"
	CategoryQAAutomation TechCategory = "QA/Automation"
)

// TechCategories lists every valid category in match precedence order
var TechCategories = []TechCategory{
	CategoryAIMLData,
	CategoryWeb,
	CategoryMobile,
	CategoryQAAutomation,
}

// Valid reports whether c is one of the known categories
func (c TechCategory) Valid() bool {
	for _, known := range TechCategories {
		if c == known {
			return true
		}
	}
	return false
}

// TechProfile is the classifier output for one job description.
// Keywords holds the raw comma-separated keyword line as returned by the classifier.
type TechProfile struct {
	Category TechCategory `json:"category"`
	Keywords string       `json:"keywords"`
}

// KeywordList splits the keyword line into trimmed, non-empty entries preserving order
func (p TechProfile) KeywordList() []string {
	parts := strings.Split(p.Keywords, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ResumeVariant names one of the base resume documents a profile keeps per stack
type ResumeVariant string

// Resume variants. The string values match the file name suffixes of canonical resumes.
const (
	VariantGolang       ResumeVariant = "Golang"
	VariantJava         ResumeVariant = "Java"
	VariantCSharpDotNet ResumeVariant = "C#.NET"
	VariantPython       ResumeVariant = "Python"
	VariantNode         ResumeVariant = "Node"
	VariantMobile       ResumeVariant = "Mobile"
	VariantAI           ResumeVariant = "AI"
	VariantQA           ResumeVariant = "QA"
)

// ResumeVariants lists every variant
var ResumeVariants = []ResumeVariant{
	VariantGolang,
	VariantJava,
	VariantCSharpDotNet,
	VariantPython,
	VariantNode,
	VariantMobile,
	VariantAI,
	VariantQA,
}

// ParseVariant resolves a variant name case-insensitively
func ParseVariant(name string) (ResumeVariant, bool) {
	name = strings.TrimSpace(name)
	for _, v := range ResumeVariants {
		if strings.EqualFold(name, string(v)) {
			return v, true
		}
	}
	return "", false
}
