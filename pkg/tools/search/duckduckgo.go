package search

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DuckDuckGo parses the html.duckduckgo.com results page, which renders
// without JavaScript and is stable to scrape.
type DuckDuckGo struct{}

// Name returns the engine identifier.
func (d *DuckDuckGo) Name() string {
	return "duckduckgo"
}

// SearchURL builds the results page URL.
func (d *DuckDuckGo) SearchURL(query string) string {
	return fmt.Sprintf("https://html.duckduckgo.com/html/?q=%s", url.QueryEscape(query))
}

// Parse extracts organic results from div.result blocks.
func (d *DuckDuckGo) Parse(doc *goquery.Document, max int) []Result {
	var results []Result
	doc.Find("div.result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.HasClass("result--ad") {
			return true
		}
		link := s.Find("a.result__a").First()
		href, ok := link.Attr("href")
		if !ok || href == "" {
			return true
		}
		title := strings.TrimSpace(link.Text())
		if title == "" {
			return true
		}
		results = append(results, Result{
			Title:   title,
			URL:     resolveRedirect(href),
			Snippet: strings.TrimSpace(s.Find(".result__snippet").First().Text()),
		})
		return len(results) < max
	})
	return results
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg= redirect links to the real
// destination URL. Unrecognized links pass through untouched.
func resolveRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}
