package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-tailor/internal/types"
)

func TestMatchCategory(t *testing.T) {
	tests := []struct {
		line     string
		expected types.TechCategory
	}{
		{"Web", types.CategoryWeb},
		{"web", types.CategoryWeb},
		{"AI/ML/Data", types.CategoryAIMLData},
		{"\"Mobile\"", types.CategoryMobile},
		{"Category - QA/Automation", types.CategoryQAAutomation},
		{"AI/ML/Data or Web", types.CategoryAIMLData},
		{"Backend", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.expected, MatchCategory(tt.line))
		})
	}
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected ParsedResponse
		valid    bool
	}{
		{
			name:     "two lines",
			text:     "Web\nReact, Go",
			expected: ParsedResponse{Category: types.CategoryWeb, Keywords: "React, Go", HasKeywordLine: true},
			valid:    true,
		},
		{
			name:     "only category",
			text:     "Mobile",
			expected: ParsedResponse{Category: types.CategoryMobile},
		},
		{
			name:     "label with no keywords",
			text:     "Web\nTech stacks:",
			expected: ParsedResponse{Category: types.CategoryWeb, HasKeywordLine: true},
		},
		{
			name:     "extra lines ignored",
			text:     "Web\n\nGo\nThanks!",
			expected: ParsedResponse{Category: types.CategoryWeb, Keywords: "Go", HasKeywordLine: true},
			valid:    true,
		},
		{
			name:     "empty",
			text:     "   ",
			expected: ParsedResponse{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := ParseResponse(tt.text)
			assert.Equal(t, tt.expected, parsed)
			assert.Equal(t, tt.valid, parsed.Valid())
		})
	}
}
