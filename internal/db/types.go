package db

import (
	"time"

	"github.com/google/uuid"
)

// Run statuses
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Run represents a tailoring run record
type Run struct {
	ID          uuid.UUID  `json:"id"`
	Profile     string     `json:"profile"`
	Company     string     `json:"company"`
	Status      string     `json:"status"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Artifact step names stored per run
const (
	StepTechProfile      = "tech_profile"
	StepCanonicalResume  = "canonical_resume"
	StepTailoringPrompt  = "tailoring_prompt"
	StepRawResponse      = "raw_response"
	StepTailoredContent  = "tailored_content"
	StepReconciledResume = "reconciled_resume"
)

// Step categories group artifacts for progress reporting
const (
	StepCategoryClassification = "classification"
	StepCategoryTailoring      = "tailoring"
	StepCategoryReconciliation = "reconciliation"
)

// CanonicalRecord is one stored canonical resume row
type CanonicalRecord struct {
	Profile   string    `json:"profile"`
	Variant   string    `json:"variant"`
	Content   []byte    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}
