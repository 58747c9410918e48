package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/entrhq/scout/pkg/tools"
)

// SearchTool exposes the searcher over the tool dispatch protocol.
type SearchTool struct {
	searcher *Searcher
}

// NewSearchTool creates the search tool.
func NewSearchTool(searcher *Searcher) *SearchTool {
	return &SearchTool{searcher: searcher}
}

// Name returns the tool name.
func (t *SearchTool) Name() string {
	return "search"
}

// Description returns the tool description.
func (t *SearchTool) Description() string {
	return "Search the web and return titles, URLs, and snippets. Supported engines: " +
		strings.Join(t.searcher.EngineNames(), ", ") + "."
}

// Schema returns the tool's JSON schema.
func (t *SearchTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "The search query",
			},
			"engine": map[string]interface{}{
				"type":        "string",
				"description": "Search engine to use. Defaults to the configured engine.",
			},
		},
		[]string{"query"},
	)
}

// SearchInput represents the parameters for a search call.
type SearchInput struct {
	XMLName xml.Name `xml:"arguments"`
	Query   string   `xml:"query"`
	Engine  string   `xml:"engine"`
}

// Execute runs the search and renders results as numbered text blocks.
func (t *SearchTool) Execute(ctx context.Context, argsXML []byte) (string, error) {
	var input SearchInput
	if err := xml.Unmarshal(argsXML, &input); err != nil {
		return "", fmt.Errorf("invalid parameters: %w", err)
	}
	if input.Query == "" {
		return "", fmt.Errorf("query is required")
	}

	results, err := t.searcher.Search(ctx, input.Query, input.Engine)
	if err != nil {
		return "", err
	}

	if len(results) == 0 {
		return "No results found.", nil
	}

	var out strings.Builder
	out.WriteString(fmt.Sprintf("Found %d results:\n\n", len(results)))
	for i, r := range results {
		out.WriteString(fmt.Sprintf("%d. %s\n", i+1, r.Title))
		out.WriteString(fmt.Sprintf("   URL: %s\n", r.URL))
		if r.Snippet != "" {
			out.WriteString(fmt.Sprintf("   %s\n", r.Snippet))
		}
		out.WriteString("\n")
	}
	return strings.TrimRight(out.String(), "\n"), nil
}
