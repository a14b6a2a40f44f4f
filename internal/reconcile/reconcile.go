// Package reconcile merges model-tailored experience with the canonical resume.
// Company, title, location and dates always come from the canonical record.
package reconcile

import (
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

// MatchKind records how a canonical entry was paired with a tailored block
type MatchKind string

// Pairing outcomes
const (
	MatchCompany  MatchKind = "company"
	MatchPosition MatchKind = "position"
	MatchNone     MatchKind = "none"
)

// Pairing describes the tailored block chosen for one canonical entry
type Pairing struct {
	CanonicalIndex int
	// TailoredIndex is -1 when no block was paired
	TailoredIndex int
	Kind          MatchKind
	// UsedCanonicalBullets is set when the paired block had no details
	UsedCanonicalBullets bool
}

// Reconciler pairs tailored blocks with canonical entries
type Reconciler struct {
	Matchers []TitleMatcher
}

// New returns a Reconciler using DefaultMatchers
func New() *Reconciler {
	return &Reconciler{Matchers: DefaultMatchers}
}

// Reconcile merges with the default matchers
func Reconcile(canonical *types.CanonicalResume, tailored *types.TailoredContent) types.ReconciledResume {
	out, _ := New().Reconcile(canonical, tailored)
	return out
}

// Reconcile builds the reconciled resume and reports the pairing chosen for each canonical entry.
// The output has exactly one experience entry per canonical entry, in canonical order.
func (r *Reconciler) Reconcile(canonical *types.CanonicalResume, tailored *types.TailoredContent) (types.ReconciledResume, []Pairing) {
	if canonical == nil {
		canonical = &types.CanonicalResume{}
	}
	if tailored == nil {
		tailored = &types.TailoredContent{}
	}

	companies := make([]string, len(tailored.Experience))
	for i, block := range tailored.Experience {
		companies[i] = NormalizeCompany(ParseTitle(block.Title, r.Matchers).Company)
	}

	experience := make([]types.ReconciledExperience, len(canonical.Experience))
	pairings := make([]Pairing, len(canonical.Experience))

	for i, job := range canonical.Experience {
		pairing := r.pair(i, NormalizeCompany(job.Company), companies)

		details := job.Bullets
		if pairing.TailoredIndex >= 0 {
			if block := tailored.Experience[pairing.TailoredIndex]; len(block.Details) > 0 {
				details = block.Details
			} else {
				pairing.UsedCanonicalBullets = true
			}
		} else {
			pairing.UsedCanonicalBullets = true
		}

		experience[i] = types.ReconciledExperience{
			Title:     job.Title,
			Company:   job.Company,
			Location:  job.Location,
			StartDate: job.StartDate,
			EndDate:   job.EndDate,
			Details:   copyStrings(details),
		}
		pairings[i] = pairing
	}

	education := tailored.Education
	if len(canonical.Education) > 0 || len(education) == 0 {
		education = canonical.Education
	}

	return types.ReconciledResume{
		Name:       canonical.Name,
		Email:      canonical.Email,
		Phone:      canonical.Phone,
		Location:   canonical.Location,
		Title:      tailored.Title,
		Summary:    tailored.Summary,
		Skills:     tailored.Skills,
		Experience: experience,
		Education:  education,
	}, pairings
}

// pair finds the first block whose company matches, else the block at the same index
func (r *Reconciler) pair(index int, company string, blockCompanies []string) Pairing {
	if company != "" {
		for j, candidate := range blockCompanies {
			if candidate == "" {
				continue
			}
			if candidate == company || strings.Contains(candidate, company) || strings.Contains(company, candidate) {
				return Pairing{CanonicalIndex: index, TailoredIndex: j, Kind: MatchCompany}
			}
		}
	}
	if index < len(blockCompanies) {
		return Pairing{CanonicalIndex: index, TailoredIndex: index, Kind: MatchPosition}
	}
	return Pairing{CanonicalIndex: index, TailoredIndex: -1, Kind: MatchNone}
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
