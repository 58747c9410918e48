package fetch

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Page is the readable content extracted from one fetched document.
type Page struct {
	URL         string
	Title       string
	Description string
	Text        string
	Truncated   bool
}

// noiseSelectors name elements that never carry article content.
var noiseSelectors = []string{
	"script", "style", "noscript", "template", "iframe",
	"nav", "header", "footer", "aside", "form", "svg",
}

// contentSelectors are tried in order to find the main article container
// before falling back to the whole body.
var contentSelectors = []string{
	"main", "article", "[role=main]", "#content", ".content", "#main",
}

// extract pulls title, meta description, and readable text out of a
// rendered document, capped at maxLength characters.
func extract(rawHTML, pageURL string, maxLength int) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	page := &Page{
		URL:   pageURL,
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}
	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		page.Description = strings.TrimSpace(desc)
	}

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	container := doc.Find("body")
	for _, sel := range contentSelectors {
		if found := doc.Find(sel); found.Length() > 0 {
			container = found.First()
			break
		}
	}

	text := normalizeWhitespace(renderText(container))
	if maxLength > 0 && len(text) > maxLength {
		// Back off to a rune boundary so the cap never splits a multibyte
		// character.
		cut := maxLength
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "..."
		page.Truncated = true
	}
	page.Text = text
	return page, nil
}

// blockTags are elements that force a line break around their content, so
// minified pages still come out with readable paragraph structure.
var blockTags = map[string]bool{
	"p": true, "div": true, "section": true, "article": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "ul": true, "ol": true, "blockquote": true, "pre": true,
	"table": true, "tr": true, "br": true, "hr": true, "figcaption": true,
}

// renderText walks the selection's nodes and emits their text with line
// breaks at block element boundaries.
func renderText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		writeNodeText(n, &b)
	}
	return b.String()
}

func writeNodeText(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		if blockTags[strings.ToLower(n.Data)] {
			b.WriteString("\n")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeNodeText(c, b)
	}
	if n.Type == html.ElementNode && blockTags[strings.ToLower(n.Data)] {
		b.WriteString("\n")
	}
}

// normalizeWhitespace collapses runs of blank space while keeping paragraph
// breaks readable.
func normalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	var out []string
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
