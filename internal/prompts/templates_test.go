package prompts

import (
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-tailor/internal/types"
)

func sampleResume() *types.CanonicalResume {
	return &types.CanonicalResume{
		Name:     "Jane Doe",
		Email:    "jane@example.com",
		Phone:    "555-0100",
		Location: "Austin, TX",
		Summary:  "Backend engineer.",
		Skills: types.SkillGroups{
			{Name: "Languages", Skills: []string{"Go", "Python"}},
			{Name: "Empty"},
			{Name: "Cloud", Skills: []string{"AWS"}},
		},
		Experience: []types.CanonicalExperience{
			{
				Company:   "Acme Corp",
				Title:     "Senior Engineer",
				Location:  "Remote",
				StartDate: "Jan 2020",
				EndDate:   "Present",
				Bullets:   []string{"Built things", "Shipped things"},
			},
			{
				Company:   "Initech",
				StartDate: "2015-06",
				EndDate:   "Dec 2019",
			},
		},
		Education: []types.Education{
			{Degree: "BSc Computer Science", School: "UT Austin", StartYear: "2011", EndYear: "2015", Grade: "3.8"},
			{Degree: "Certificate", School: "Coursera", EndYear: "2016"},
		},
	}
}

func TestLoad(t *testing.T) {
	templates, err := Load()
	require.NoError(t, err)
	assert.Contains(t, templates.ClassifyLenient, "EXACTLY 2 lines")
	assert.Contains(t, templates.ClassifyStrict, "Example format:")
	assert.Contains(t, templates.Tailor, "## BASIC RESUME:")
	assert.Contains(t, templates.Guide, "TOTAL: 60-80 skills maximum")
}

func TestLoadFrom_Errors(t *testing.T) {
	classify := `{"lenient": "L {{.JobDescription}}", "strict": "S"}`

	tests := []struct {
		name    string
		files   fstest.MapFS
		wantErr string
	}{
		{
			name:    "missing file",
			files:   fstest.MapFS{ClassifyFile: {Data: []byte(classify)}},
			wantErr: "failed to read prompt file tailoring.json",
		},
		{
			name: "malformed file",
			files: fstest.MapFS{
				ClassifyFile:  {Data: []byte(classify)},
				TailoringFile: {Data: []byte(`{"tailor": `)},
			},
			wantErr: "failed to parse prompt file tailoring.json",
		},
		{
			name: "missing key",
			files: fstest.MapFS{
				ClassifyFile:  {Data: []byte(classify)},
				TailoringFile: {Data: []byte(`{"tailor": "T"}`)},
			},
			wantErr: `prompt key "guide" not found in tailoring.json`,
		},
		{
			name: "blank key",
			files: fstest.MapFS{
				ClassifyFile:  {Data: []byte(`{"lenient": "L", "strict": "  "}`)},
				TailoringFile: {Data: []byte(`{"tailor": "T", "guide": "G"}`)},
			},
			wantErr: `prompt key "strict" not found in classify.json`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			templates, err := loadFrom(tt.files)
			assert.Nil(t, templates)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadFrom_RendersPlaceholders(t *testing.T) {
	templates, err := loadFrom(fstest.MapFS{
		ClassifyFile:  {Data: []byte(`{"lenient": "Job: {{.JobDescription}} {{.Unknown}}", "strict": "S"}`)},
		TailoringFile: {Data: []byte(`{"tailor": "T", "guide": "G"}`)},
	})
	require.NoError(t, err)

	// Unknown placeholders are left in place
	assert.Equal(t, "Job: Go APIs {{.Unknown}}", templates.Classify("Go APIs", 0))
	assert.Equal(t, "S", templates.Classify("Go APIs", 1))
}

func TestTemplates_Classify(t *testing.T) {
	templates, err := Load()
	require.NoError(t, err)

	tests := []struct {
		name     string
		attempt  int
		contains string
	}{
		{name: "first attempt is lenient", attempt: 0, contains: "Return your response in EXACTLY 2 lines"},
		{name: "second attempt is strict", attempt: 1, contains: "CRITICAL: Return ONLY 2 lines"},
		{name: "third attempt is strict", attempt: 2, contains: "CRITICAL: Return ONLY 2 lines"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt := templates.Classify("We need a Go developer", tt.attempt)
			assert.Contains(t, prompt, tt.contains)
			assert.Contains(t, prompt, "We need a Go developer")
			assert.Contains(t, prompt, `"AI/ML/Data", "Web", "Mobile", or "QA/Automation"`)
			assert.NotContains(t, prompt, "{{.")
		})
	}
}

func TestTemplates_Tailoring(t *testing.T) {
	templates, err := Load()
	require.NoError(t, err)

	now := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	prompt := templates.Tailoring(sampleResume(), "Looking for a Go engineer", now)

	assert.Contains(t, prompt, "Name: Jane Doe")
	assert.Contains(t, prompt, "Looking for a Go engineer")
	assert.Contains(t, prompt, "10+ years of experience")
	assert.Contains(t, prompt, "Return ONLY valid JSON")
	assert.NotContains(t, prompt, "{{.")
}

func TestConcise(t *testing.T) {
	templates, err := Load()
	require.NoError(t, err)

	prompt := templates.Tailoring(sampleResume(), "jd", time.Now())
	concise := Concise(prompt)

	assert.Contains(t, concise, "TOTAL: 50-60 skills maximum")
	assert.Contains(t, concise, "Per category: 6-10 skills")
	assert.Contains(t, concise, "5 bullets each")
	assert.Contains(t, concise, "4-5 bullets per job")
	assert.NotContains(t, concise, "60-80")
	assert.Equal(t, "unrelated text", Concise("unrelated text"))
}

func TestFormatCanonicalResume(t *testing.T) {
	out := FormatCanonicalResume(sampleResume())

	expected := strings.Join([]string{
		"Name: Jane Doe",
		"Email: jane@example.com",
		"Location: Austin, TX",
		"\nSUMMARY:",
		"Backend engineer.",
		"\nSKILLS:",
		"• Languages: Go, Python",
		"• Cloud: AWS",
		"\nEXPERIENCE:",
		"\n1. Acme Corp | Title: Senior Engineer | Location: Remote | Period: Jan 2020 - Present",
		"   • Built things",
		"   • Shipped things",
		"\n2. Initech | Period: 2015-06 - Dec 2019",
		"\nEDUCATION:",
		"- BSc Computer Science, UT Austin (2011-2015) | GPA: 3.8",
		"- Certificate, Coursera (2016)",
	}, "\n")
	assert.Equal(t, expected, out)
}

func TestFormatCanonicalResume_FlatSkills(t *testing.T) {
	resume := &types.CanonicalResume{
		Name:   "Jane Doe",
		Skills: types.SkillGroups{{Skills: []string{"React.js", "TypeScript"}}},
	}

	out := FormatCanonicalResume(resume)
	assert.Equal(t, "Name: Jane Doe\n\nSKILLS:\nReact.js | TypeScript", out)
	assert.Equal(t, "", FormatCanonicalResume(nil))
}

func TestYearsOfExperience(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		experience []types.CanonicalExperience
		expected   int
	}{
		{name: "no experience", experience: nil, expected: 0},
		{
			name: "earliest start wins",
			experience: []types.CanonicalExperience{
				{StartDate: "Jan 2020"},
				{StartDate: "2015-06"},
			},
			expected: 10,
		},
		{
			name:       "present counts as now",
			experience: []types.CanonicalExperience{{StartDate: "Present"}},
			expected:   0,
		},
		{
			name:       "unparseable dates are skipped",
			experience: []types.CanonicalExperience{{StartDate: "sometime"}, {StartDate: "2022"}},
			expected:   3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, YearsOfExperience(tt.experience, now))
		})
	}
}
