package summarize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// junkPatterns match class or id fragments of non-content page elements
var junkPatterns = []string{
	"nav", "menu", "header", "footer", "sidebar", "banner",
	"cookie", "promo", "share", "modal", "popup",
}

// ExtractReadableText extracts the visible article text from an HTML page,
// dropping navigation, boilerplate and script content
func ExtractReadableText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return collapseWhitespace(tagPattern.ReplaceAllString(html, " "))
	}

	doc.Find("header, nav, footer, aside, script, style, noscript, svg, menu, form").Each(func(_ int, s *goquery.Selection) {
		s.Remove()
	})
	for _, pattern := range junkPatterns {
		doc.Find(fmt.Sprintf("[class*=%q], [id*=%q]", pattern, pattern)).Each(func(_ int, s *goquery.Selection) {
			s.Remove()
		})
	}

	var builder strings.Builder
	doc.Find("article, main, section, p").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		builder.WriteString(text)
		if strings.HasSuffix(text, ".") {
			builder.WriteString(" ")
		} else {
			builder.WriteString(". ")
		}
	})

	text := collapseWhitespace(builder.String())
	if text == "" {
		// Pages without semantic containers still carry body text
		text = collapseWhitespace(doc.Find("body").Text())
	}
	return text
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}
