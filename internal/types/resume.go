// Package types provides type definitions for structured data used throughout the resume-tailor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "github.com/go-playground/validator/v10"

// CanonicalResume is the trusted resume record for a profile and variant.
// It is read-only input to the pipeline.
type CanonicalResume struct {
	Name       string                `json:"name" validate:"required"`
	Email      string                `json:"email,omitempty"`
	Phone      string                `json:"phone,omitempty"`
	Location   string                `json:"location,omitempty"`
	Summary    string                `json:"summary,omitempty"`
	Skills     SkillGroups           `json:"skills,omitempty"`
	Experience []CanonicalExperience `json:"experience" validate:"required,dive"`
	Education  []Education           `json:"education,omitempty" validate:"dive"`
}

// Validate validates the canonical resume using the validator.
func (r *CanonicalResume) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// CanonicalExperience is one trusted employment entry
type CanonicalExperience struct {
	Company   string   `json:"company" validate:"required"`
	Title     string   `json:"title,omitempty"`
	Location  string   `json:"location,omitempty"`
	StartDate string   `json:"start_date" validate:"required"`
	EndDate   string   `json:"end_date" validate:"required"`
	Bullets   []string `json:"bullets,omitempty"`
}

// Education is shared by canonical, tailored and reconciled resumes
type Education struct {
	Degree    string `json:"degree" validate:"required"`
	School    string `json:"school" validate:"required"`
	StartYear string `json:"start_year,omitempty"`
	EndYear   string `json:"end_year,omitempty"`
	Grade     string `json:"grade,omitempty"`
}

// ReconciledResume is the merged document handed to the renderer
type ReconciledResume struct {
	Name       string                 `json:"name"`
	Email      string                 `json:"email,omitempty"`
	Phone      string                 `json:"phone,omitempty"`
	Location   string                 `json:"location,omitempty"`
	Title      string                 `json:"title"`
	Summary    string                 `json:"summary"`
	Skills     SkillGroups            `json:"skills"`
	Experience []ReconciledExperience `json:"experience"`
	Education  []Education            `json:"education"`
}

// ReconciledExperience carries canonical metadata with tailored (or canonical) details
type ReconciledExperience struct {
	Title     string   `json:"title"`
	Company   string   `json:"company"`
	Location  string   `json:"location"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Details   []string `json:"details"`
}
