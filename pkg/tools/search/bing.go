package search

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Bing parses bing.com result pages.
type Bing struct{}

// Name returns the engine identifier.
func (b *Bing) Name() string {
	return "bing"
}

// SearchURL builds the results page URL.
func (b *Bing) SearchURL(query string) string {
	return fmt.Sprintf("https://www.bing.com/search?q=%s", url.QueryEscape(query))
}

// PrimeURL returns the landing page visited once per session before the
// first query.
func (b *Bing) PrimeURL() string {
	return "https://www.bing.com/"
}

// Parse extracts organic results. Each hit lives in an li.b_algo block with
// the link in the h2 and the snippet in the caption paragraph.
func (b *Bing) Parse(doc *goquery.Document, max int) []Result {
	var results []Result
	doc.Find("li.b_algo").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		link := s.Find("h2 a").First()
		href, ok := link.Attr("href")
		if !ok || href == "" {
			return true
		}
		title := strings.TrimSpace(link.Text())
		if title == "" {
			return true
		}
		snippet := strings.TrimSpace(s.Find(".b_caption p").First().Text())
		if snippet == "" {
			snippet = strings.TrimSpace(s.Find("p").First().Text())
		}
		results = append(results, Result{Title: title, URL: href, Snippet: snippet})
		return len(results) < max
	})
	return results
}
