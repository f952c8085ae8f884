package ingestion

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ResumeSelectors are tried in order to find the resume body in an HTML export.
func ResumeSelectors() []string {
	return []string{
		".resume",
		"#resume",
		"[itemtype*='schema.org/Person']",
		"main",
		"article",
		".content",
		"#content",
	}
}

// blockElements get a line break after their text so sections stay separated.
const blockElements = "p, div, li, h1, h2, h3, h4, h5, h6, tr, section, br"

// ExtractMainText parses HTML and returns the text of the first element matching
// contentSelectors, or of the body when none match.
func ExtractMainText(html string, contentSelectors []string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("nav, footer, script, style, noscript, iframe, form, .sidebar, .cookie-banner, .popup").Remove()

	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("- ")
	})
	doc.Find(blockElements).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	var main *goquery.Selection
	for _, selector := range contentSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			main = selection.First()
			break
		}
	}
	if main == nil {
		main = doc.Find("body")
	}

	return CleanText(main.Text()), nil
}
