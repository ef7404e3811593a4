package analyzer

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blockSelector lists elements that start a new paragraph in extracted text.
const blockSelector = "p, div, section, article, header, footer, main, aside, blockquote, pre, " +
	"h1, h2, h3, h4, h5, h6, ul, ol, li, table, tr, td, th"

// extractHTML converts an HTML email body into plain text with blank lines
// between block elements, and collects the absolute links of its anchors.
func extractHTML(content string) (string, []string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", nil, fmt.Errorf("failed to parse html: %w", err)
	}

	links := make([]string, 0)
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
			return
		}
		if seen[href] {
			return
		}
		seen[href] = true
		links = append(links, href)
	})

	doc.Find("script, style, head, noscript, template").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("\n\n")
		s.AppendHtml("\n\n")
	})

	return strings.TrimSpace(doc.Find("body").Text()), links, nil
}
