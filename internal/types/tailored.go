// Package types provides type definitions for structured data used throughout the resume-tailor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// TailoredContent is the untrusted object recovered from the tailoring response
type TailoredContent struct {
	Title      string                    `json:"title"`
	Summary    string                    `json:"summary"`
	Skills     SkillGroups               `json:"skills"`
	Experience []TailoredExperienceBlock `json:"experience"`
	Education  EducationList             `json:"education,omitempty"`
}

// TailoredExperienceBlock is one experience entry as written by the model.
// Title multiplexes role, company and dates in one of several formats.
type TailoredExperienceBlock struct {
	Title   string   `json:"title"`
	Details []string `json:"details"`
}
