package search

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docFrom(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

const bingPage = `<html><body><ol id="b_results">
<li class="b_algo">
  <h2><a href="https://go.dev/">The Go Programming Language</a></h2>
  <div class="b_caption"><p>Go is an open source programming language.</p></div>
</li>
<li class="b_algo">
  <h2><a href="https://golang.org/doc/">Documentation</a></h2>
  <div class="b_caption"><p>Learn how to use Go.</p></div>
</li>
<li class="b_algo">
  <h2><a href="">broken entry</a></h2>
</li>
</ol></body></html>`

func TestBingParse(t *testing.T) {
	results := (&Bing{}).Parse(docFrom(t, bingPage), 10)
	require.Len(t, results, 2)
	assert.Equal(t, "The Go Programming Language", results[0].Title)
	assert.Equal(t, "https://go.dev/", results[0].URL)
	assert.Equal(t, "Go is an open source programming language.", results[0].Snippet)
	assert.Equal(t, "https://golang.org/doc/", results[1].URL)
}

func TestBingParseRespectsMax(t *testing.T) {
	results := (&Bing{}).Parse(docFrom(t, bingPage), 1)
	assert.Len(t, results, 1)
}

const duckPage = `<html><body>
<div class="result result--ad">
  <a class="result__a" href="https://ads.example.com/">Sponsored</a>
</div>
<div class="result">
  <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2F&rut=abc">The Go Programming Language</a>
  <a class="result__snippet">Go is an open source programming language.</a>
</div>
<div class="result">
  <a class="result__a" href="https://golang.org/doc/">Documentation</a>
  <a class="result__snippet">Learn Go.</a>
</div>
</body></html>`

func TestDuckDuckGoParse(t *testing.T) {
	results := (&DuckDuckGo{}).Parse(docFrom(t, duckPage), 10)
	require.Len(t, results, 2)
	assert.Equal(t, "The Go Programming Language", results[0].Title)
	assert.Equal(t, "https://go.dev/", results[0].URL, "redirect link should be unwrapped")
	assert.Equal(t, "Go is an open source programming language.", results[0].Snippet)
	assert.Equal(t, "https://golang.org/doc/", results[1].URL)
}

const bravePage = `<html><body>
<div class="snippet">
  <a href="https://go.dev/"><div class="title">The Go Programming Language</div></a>
  <div class="snippet-description">Go is an open source programming language.</div>
</div>
<div class="snippet">
  <a href="/internal-nav">skip me</a>
</div>
<div class="snippet">
  <a href="https://golang.org/doc/"><div class="title">Documentation</div></a>
  <div class="snippet-description">Learn Go.</div>
</div>
</body></html>`

func TestBraveParse(t *testing.T) {
	results := (&Brave{}).Parse(docFrom(t, bravePage), 10)
	require.Len(t, results, 2)
	assert.Equal(t, "The Go Programming Language", results[0].Title)
	assert.Equal(t, "https://go.dev/", results[0].URL)
	assert.Equal(t, "Learn Go.", results[1].Snippet)
}

func TestSearchURLsEscapeQueries(t *testing.T) {
	assert.Equal(t, "https://www.bing.com/search?q=hello+world", (&Bing{}).SearchURL("hello world"))
	assert.Equal(t, "https://html.duckduckgo.com/html/?q=a%26b", (&DuckDuckGo{}).SearchURL("a&b"))
	assert.Equal(t, "https://search.brave.com/search?q=g%C3%B6", (&Brave{}).SearchURL("gö"))
}

func TestEnginesRegistryComplete(t *testing.T) {
	engines := Engines()
	for _, name := range []string{"bing", "duckduckgo", "brave"} {
		_, ok := engines[name]
		assert.True(t, ok, "missing engine %s", name)
	}
}
