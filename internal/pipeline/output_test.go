package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-tailor/internal/types"
)

func TestOutputBaseName(t *testing.T) {
	tests := []struct {
		name     string
		person   string
		company  string
		expected string
	}{
		{name: "first and last", person: "Jane Doe", expected: "Jane_Doe"},
		{name: "middle name dropped", person: "Jane Q Doe", expected: "Jane_Doe"},
		{name: "single name", person: "Cher", expected: "Cher"},
		{name: "empty name", person: "  ", expected: "resume"},
		{name: "with company", person: "Jane Doe", company: "Stripe", expected: "Jane_Doe_Stripe"},
		{name: "company with spaces", person: "Jane Doe", company: "Goldman Sachs & Co.", expected: "Jane_Doe_Goldman_Sachs__Co"},
		{name: "accents removed", person: "José Núñez", expected: "Jos_Nez"},
		{name: "hyphen kept", person: "Mary-Kate O'Neil", expected: "Mary-Kate_ONeil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, OutputBaseName(tt.person, tt.company))
		})
	}
}

func TestWriteResume(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	resume := &types.ReconciledResume{
		Name:  "Jane Doe",
		Title: "Senior Go Engineer",
		Experience: []types.ReconciledExperience{
			{Title: "Backend Engineer", Company: "Acme Corp", StartDate: "Jan 2020", EndDate: "Present", Details: []string{"Built APIs"}},
		},
	}

	path, err := WriteResume(dir, "Jane_Doe", resume)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Jane_Doe.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded types.ReconciledResume
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Senior Go Engineer", decoded.Title)
	assert.Equal(t, "Acme Corp", decoded.Experience[0].Company)
}
