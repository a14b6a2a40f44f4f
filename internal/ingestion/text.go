// Package ingestion turns job posting sources (plain text, HTML files, job board URLs)
// into the cleaned text handed to the classifier and the tailoring prompt.
package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	runOfSpaces     = regexp.MustCompile(`\s+`)
	excessiveBlanks = regexp.MustCompile(`\n\n\n+`)
	htmlSniff       = regexp.MustCompile(`(?i)^\s*(<!doctype html|<html|<body|<div|<p>|<section)`)
)

// CleanText cleans and normalizes text content while preserving structure
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	// CRLF and bare CR become LF
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleanedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		cleanedLines = append(cleanedLines, cleanLine(line))
	}

	result := excessiveBlanks.ReplaceAllString(strings.Join(cleanedLines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine cleans a single line while preserving structure
func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")
	if strings.TrimSpace(line) == "" {
		return ""
	}

	trimmed := strings.TrimLeft(line, " \t")

	// Markdown headings lose their indentation
	if strings.HasPrefix(trimmed, "#") {
		return trimmed
	}

	indent := len(line) - len(trimmed)
	if isBulletLine(trimmed) {
		return strings.Repeat(" ", indent) + trimmed
	}

	content := runOfSpaces.ReplaceAllString(strings.TrimSpace(line), " ")
	return strings.Repeat(" ", indent) + content
}

// isBulletLine checks if a line is a bullet list item
func isBulletLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") ||
		strings.HasPrefix(trimmed, "• ") || strings.HasPrefix(trimmed, "· ")
}

// LooksLikeHTML reports whether content appears to be an HTML document or fragment
func LooksLikeHTML(content string) bool {
	return htmlSniff.MatchString(content)
}

// IngestFromFile reads a job description file and returns cleaned text with metadata.
// Files ending in .html/.htm, or whose content starts like markup, go through FromHTML first.
func IngestFromFile(path string) (string, *Metadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("file not found: %w", err)
		}
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}

	text := string(content)
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".html" || ext == ".htm" || LooksLikeHTML(text) {
		text, err = FromHTML(text, PlatformUnknown)
		if err != nil {
			return "", nil, err
		}
	}

	cleanedText := CleanText(text)
	return cleanedText, NewMetadata(cleanedText, ""), nil
}
