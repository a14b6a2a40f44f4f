// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-tailor/internal/extraction"
	"github.com/jonathan/resume-tailor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// PrintTechProfile outputs the classification result and the variant chosen from it.
func (p *Printer) PrintTechProfile(profile types.TechProfile, variant types.ResumeVariant, attempts int, degraded bool) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Category: %s\n", profile.Category))
	sb.WriteString(fmt.Sprintf("Variant:  %s\n", variant))
	sb.WriteString(fmt.Sprintf("Attempts: %d", attempts))
	if degraded {
		sb.WriteString(" (degraded)")
	}
	sb.WriteString("\n")

	keywords := profile.KeywordList()
	if len(keywords) > 0 {
		sb.WriteString("\nKeywords:\n")
		writeList(&sb, keywords, maxItemsToShow)
	}

	p.printBox("TECH PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintExtraction outputs which recovery step found the tailored object and its shape.
func (p *Printer) PrintExtraction(result *extraction.Result) {
	if result == nil || result.Content == nil {
		return
	}

	content := result.Content
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Strategy:   %s\n", result.Strategy))
	sb.WriteString(fmt.Sprintf("Title:      %s\n", content.Title))
	sb.WriteString(fmt.Sprintf("Skills:     %d in %d groups\n", content.Skills.Count(), len(content.Skills)))
	sb.WriteString(fmt.Sprintf("Experience: %d blocks\n", len(content.Experience)))

	count := min(len(content.Experience), maxItemsToShow)
	for i := 0; i < count; i++ {
		block := content.Experience[i]
		sb.WriteString(fmt.Sprintf("  %d. %s (%d details)\n", i+1, block.Title, len(block.Details)))
	}
	if len(content.Experience) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(content.Experience)-maxItemsToShow))
	}

	p.printBox("EXTRACTED CONTENT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintReconciledResume outputs the merged resume: header, skill groups and experience.
func (p *Printer) PrintReconciledResume(resume *types.ReconciledResume) {
	if resume == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s | %s\n", resume.Name, resume.Title))
	if resume.Summary != "" {
		sb.WriteString("\n" + resume.Summary + "\n")
	}

	if len(resume.Skills) > 0 {
		sb.WriteString("\nSkills:\n")
		for _, group := range resume.Skills {
			name := group.Name
			if name == "" {
				name = "General"
			}
			sb.WriteString(fmt.Sprintf("  %s: %s\n", name, strings.Join(group.Skills, ", ")))
		}
	}

	for _, exp := range resume.Experience {
		sb.WriteString(fmt.Sprintf("\n%s, %s (%s - %s)\n", exp.Title, exp.Company, exp.StartDate, exp.EndDate))
		writeList(&sb, exp.Details, 3)
	}

	if len(resume.Education) > 0 {
		sb.WriteString("\nEducation:\n")
		for _, edu := range resume.Education {
			sb.WriteString(fmt.Sprintf("  %s, %s\n", edu.Degree, edu.School))
		}
	}

	p.printBox("RECONCILED RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

func writeList(sb *strings.Builder, items []string, limit int) {
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
}
