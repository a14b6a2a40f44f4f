package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jonathan/resume-tailor/internal/extraction"
	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintTechProfile(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	profile := types.TechProfile{
		Category: types.CategoryWeb,
		Keywords: "React, Node.js, Go, Postgres, Redis, Kafka, Terraform",
	}

	p.PrintTechProfile(profile, types.VariantNode, 2, false)
	output := buf.String()

	assert.Contains(t, output, "TECH PROFILE")
	assert.Contains(t, output, "Web")
	assert.Contains(t, output, string(types.VariantNode))
	assert.Contains(t, output, "Attempts: 2")
	assert.NotContains(t, output, "degraded")
	assert.Contains(t, output, "• React")
	assert.Contains(t, output, "... and 2 more")
}

func TestPrintTechProfile_Degraded(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintTechProfile(types.TechProfile{Category: types.CategoryWeb}, types.VariantNode, 3, true)

	assert.Contains(t, buf.String(), "(degraded)")
	assert.NotContains(t, buf.String(), "Keywords")
}

func TestPrintExtraction(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	result := &extraction.Result{
		Strategy: extraction.StrategyDepthScan,
		Content: &types.TailoredContent{
			Title:  "Senior Engineer",
			Skills: types.SkillGroups{{Name: "Languages", Skills: []string{"Go", "Python"}}},
			Experience: []types.TailoredExperienceBlock{
				{Title: "Engineer, Acme (2020 - 2023)", Details: []string{"a", "b"}},
			},
		},
	}

	p.PrintExtraction(result)
	output := buf.String()

	assert.Contains(t, output, "EXTRACTED CONTENT")
	assert.Contains(t, output, "depth_scan")
	assert.Contains(t, output, "2 in 1 groups")
	assert.Contains(t, output, "(2 details)")
}

func TestPrintExtraction_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintExtraction(nil)
	p.PrintExtraction(&extraction.Result{})

	assert.Empty(t, buf.String())
}

func TestPrintReconciledResume(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	resume := &types.ReconciledResume{
		Name:    "Jane Doe",
		Title:   "Software Engineer",
		Summary: "Builds things.",
		Skills: types.SkillGroups{
			{Name: "Languages", Skills: []string{"Go", "TypeScript"}},
			{Skills: []string{"Docker"}},
		},
		Experience: []types.ReconciledExperience{
			{Title: "Engineer", Company: "Acme", StartDate: "2020", EndDate: "Present", Details: []string{"one", "two", "three", "four"}},
		},
		Education: []types.Education{{Degree: "BS CS", School: "State"}},
	}

	p.PrintReconciledResume(resume)
	output := buf.String()

	assert.Contains(t, output, "RECONCILED RESUME")
	assert.Contains(t, output, "Jane Doe | Software Engineer")
	assert.Contains(t, output, "Languages: Go, TypeScript")
	assert.Contains(t, output, "General: Docker")
	assert.Contains(t, output, "Engineer, Acme (2020 - Present)")
	assert.Contains(t, output, "... and 1 more")
	assert.Contains(t, output, "BS CS, State")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("é", 100))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	for _, line := range lines {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth)
	}
	assert.Contains(t, buf.String(), "...")
}
