// Package search runs web searches through the shared browser session and
// parses engine result pages into structured results.
package search

import (
	"github.com/PuerkitoBio/goquery"
)

// Result is one parsed search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Engine describes one supported search engine: how to build a query URL
// and how to read results out of the rendered page.
type Engine interface {
	// Name returns the engine identifier used in configuration and tool calls
	Name() string

	// SearchURL builds the results page URL for the given query
	SearchURL(query string) string

	// Parse extracts up to max results from the rendered results page
	Parse(doc *goquery.Document, max int) []Result
}

// Primer is implemented by engines that want a warm-up visit to their
// landing page before the first query on a fresh browser session, typically
// to pick up cookies that suppress consent interstitials.
type Primer interface {
	PrimeURL() string
}

// Engines returns all supported engines keyed by name.
func Engines() map[string]Engine {
	engines := map[string]Engine{}
	for _, e := range []Engine{&Bing{}, &DuckDuckGo{}, &Brave{}} {
		engines[e.Name()] = e
	}
	return engines
}
