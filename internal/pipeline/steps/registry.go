// Package steps defines the artifacts a tailoring run produces and the order they depend on.
package steps

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	dbpkg "github.com/jonathan/resume-tailor/internal/db"
)

// StepDefinition defines metadata for a pipeline step
type StepDefinition struct {
	Name         string
	Category     string
	Dependencies []string
}

// StepRegistry holds all step definitions
var StepRegistry = map[string]StepDefinition{
	dbpkg.StepTechProfile: {
		Name:     dbpkg.StepTechProfile,
		Category: dbpkg.StepCategoryClassification,
	},
	dbpkg.StepCanonicalResume: {
		Name:         dbpkg.StepCanonicalResume,
		Category:     dbpkg.StepCategoryClassification,
		Dependencies: []string{dbpkg.StepTechProfile},
	},
	dbpkg.StepTailoringPrompt: {
		Name:         dbpkg.StepTailoringPrompt,
		Category:     dbpkg.StepCategoryTailoring,
		Dependencies: []string{dbpkg.StepCanonicalResume},
	},
	dbpkg.StepRawResponse: {
		Name:         dbpkg.StepRawResponse,
		Category:     dbpkg.StepCategoryTailoring,
		Dependencies: []string{dbpkg.StepTailoringPrompt},
	},
	dbpkg.StepTailoredContent: {
		Name:         dbpkg.StepTailoredContent,
		Category:     dbpkg.StepCategoryReconciliation,
		Dependencies: []string{dbpkg.StepRawResponse},
	},
	dbpkg.StepReconciledResume: {
		Name:         dbpkg.StepReconciledResume,
		Category:     dbpkg.StepCategoryReconciliation,
		Dependencies: []string{dbpkg.StepTailoredContent, dbpkg.StepCanonicalResume},
	},
}

// Category returns the category of a step, or "" for unknown steps
func Category(step string) string {
	return StepRegistry[step].Category
}

// ArtifactChecker reports whether a run stored an artifact; *db.DB implements it
type ArtifactChecker interface {
	HasArtifact(ctx context.Context, runID uuid.UUID, step string) (bool, error)
}

// DependencyError represents a dependency validation error
type DependencyError struct {
	Step                string
	MissingDependencies []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("step %s is missing dependencies: %v", e.Step, e.MissingDependencies)
}

// ValidateDependencies checks that every artifact a step depends on was stored for the run
func ValidateDependencies(ctx context.Context, checker ArtifactChecker, runID uuid.UUID, stepName string) error {
	def, ok := StepRegistry[stepName]
	if !ok {
		return fmt.Errorf("unknown step: %s", stepName)
	}

	var missing []string
	for _, dep := range def.Dependencies {
		exists, err := checker.HasArtifact(ctx, runID, dep)
		if err != nil {
			return fmt.Errorf("failed to check dependency %s: %w", dep, err)
		}
		if !exists {
			missing = append(missing, dep)
		}
	}

	if len(missing) > 0 {
		return &DependencyError{
			Step:                stepName,
			MissingDependencies: missing,
		}
	}

	return nil
}
