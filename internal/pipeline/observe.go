package pipeline

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-tailor/internal/reconcile"
	"github.com/jonathan/resume-tailor/internal/types"
)

// observe logs soft expectations the model was asked to meet but that are not enforced:
// per-entry bullet parity with the canonical resume, and non-empty tailored blocks.
func observe(canonical *types.CanonicalResume, tailored *types.TailoredContent, pairings []reconcile.Pairing, log zerolog.Logger) []string {
	var warnings []string

	for i, block := range tailored.Experience {
		if len(block.Details) == 0 {
			msg := fmt.Sprintf("tailored experience %d (%q) has no details", i, block.Title)
			log.Warn().Int("block", i).Str("title", block.Title).Msg("tailored experience has no details")
			warnings = append(warnings, msg)
		}
	}

	for _, pairing := range pairings {
		if pairing.TailoredIndex < 0 {
			continue
		}
		job := canonical.Experience[pairing.CanonicalIndex]
		got := len(tailored.Experience[pairing.TailoredIndex].Details)
		if got == 0 || got == len(job.Bullets) {
			continue
		}
		msg := fmt.Sprintf("%s: %d tailored bullets, %d canonical", job.Company, got, len(job.Bullets))
		log.Warn().
			Str("company", job.Company).
			Int("tailored", got).
			Int("canonical", len(job.Bullets)).
			Str("match", string(pairing.Kind)).
			Msg("bullet count differs from canonical")
		warnings = append(warnings, msg)
	}

	return warnings
}
