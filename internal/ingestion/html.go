package ingestion

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blockElements get a line break after their text so paragraphs and list items stay on separate lines
const blockElements = "p, li, h1, h2, h3, h4, h5, h6, div, br, tr, section"

// FromHTML extracts the job description text from an HTML document.
// Noise elements are removed, the first matching content selector for the platform wins,
// and the body is used when nothing matches. List items are rendered as "- " bullets.
func FromHTML(html string, platform Platform) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(strings.Join(NoiseSelectors(platform), ", ")).Remove()

	var main *goquery.Selection
	for _, selector := range ContentSelectors(platform) {
		if sel := doc.Find(selector); sel.Length() > 0 {
			main = sel.First()
			break
		}
	}
	if main == nil {
		main = doc.Find("body")
	}

	main.Find("li").Each(func(_ int, li *goquery.Selection) {
		li.PrependHtml("- ")
	})
	main.Find(blockElements).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	return collapseLines(main.Text()), nil
}

// collapseLines trims each line and drops the empty ones
func collapseLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
