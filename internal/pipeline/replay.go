package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/extraction"
	"github.com/jonathan/resume-tailor/internal/pipeline/steps"
	"github.com/jonathan/resume-tailor/internal/reconcile"
	"github.com/jonathan/resume-tailor/internal/sanitize"
	"github.com/jonathan/resume-tailor/internal/types"
)

// ArtifactReader reads stored run artifacts. *db.DB implements it.
type ArtifactReader interface {
	steps.ArtifactChecker
	GetArtifact(ctx context.Context, runID uuid.UUID, step string) ([]byte, error)
	GetTextArtifact(ctx context.Context, runID uuid.UUID, step string) (string, error)
}

var _ ArtifactReader = (*db.DB)(nil)

// Replay re-runs extraction and reconciliation for a recorded run from its stored raw
// response and canonical resume, without calling any model.
func Replay(ctx context.Context, reader ArtifactReader, runID uuid.UUID, reconciler *reconcile.Reconciler) (*Result, error) {
	if reconciler == nil {
		reconciler = reconcile.New()
	}

	// The raw response and the canonical resume are the inputs of the two replayed steps
	for _, step := range []string{db.StepTailoredContent, db.StepTailoringPrompt} {
		if err := steps.ValidateDependencies(ctx, reader, runID, step); err != nil {
			return nil, err
		}
	}

	raw, err := reader.GetTextArtifact(ctx, runID, db.StepRawResponse)
	if err != nil {
		return nil, err
	}

	canonicalJSON, err := reader.GetArtifact(ctx, runID, db.StepCanonicalResume)
	if err != nil {
		return nil, err
	}
	var canonical types.CanonicalResume
	if err := json.Unmarshal(canonicalJSON, &canonical); err != nil {
		return nil, fmt.Errorf("failed to decode stored canonical resume: %w", err)
	}

	extracted, err := extraction.ExtractResult(raw)
	if err != nil {
		return nil, &StepError{Step: db.StepTailoredContent, Cause: err}
	}

	resume, pairings := reconciler.Reconcile(&canonical, extracted.Content)
	resume.Title, resume.Summary = sanitize.TitleSummary(resume.Title, resume.Summary)

	return &Result{
		Prepared:    Prepared{Canonical: &canonical},
		RunID:       runID,
		RawResponse: raw,
		Extraction:  extracted,
		Resume:      resume,
		Pairings:    pairings,
	}, nil
}
