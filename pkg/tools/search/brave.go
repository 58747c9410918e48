package search

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Brave parses search.brave.com result pages.
type Brave struct{}

// Name returns the engine identifier.
func (b *Brave) Name() string {
	return "brave"
}

// SearchURL builds the results page URL.
func (b *Brave) SearchURL(query string) string {
	return fmt.Sprintf("https://search.brave.com/search?q=%s", url.QueryEscape(query))
}

// PrimeURL returns the landing page visited once per session before the
// first query.
func (b *Brave) PrimeURL() string {
	return "https://search.brave.com/"
}

// Parse extracts organic results from div.snippet blocks.
func (b *Brave) Parse(doc *goquery.Document, max int) []Result {
	var results []Result
	doc.Find("div.snippet").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		link := s.Find("a").First()
		href, ok := link.Attr("href")
		if !ok || !strings.HasPrefix(href, "http") {
			return true
		}
		title := strings.TrimSpace(s.Find(".title").First().Text())
		if title == "" {
			title = strings.TrimSpace(link.Text())
		}
		if title == "" {
			return true
		}
		results = append(results, Result{
			Title:   title,
			URL:     href,
			Snippet: strings.TrimSpace(s.Find(".snippet-description").First().Text()),
		})
		return len(results) < max
	})
	return results
}
