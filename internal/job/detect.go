package job

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxTitleLength = 200

// Detect reports whether body contains marker. Matching is exact and case-sensitive.
func Detect(body, marker string) bool {
	return strings.Contains(body, marker)
}

// ExtractTitle returns the product title of a page, falling back to the document title.
// It returns an empty string when the body is not parseable or has neither.
func ExtractTitle(body string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}

	for _, selector := range []string{"#productTitle", "title"} {
		text := collapseSpaces(doc.Find(selector).First().Text())
		if text != "" {
			return truncateRunes(text, maxTitleLength)
		}
	}
	return ""
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}
