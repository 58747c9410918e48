package fetch

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/entrhq/scout/pkg/tools"
)

// FetchTool exposes the fetcher over the tool dispatch protocol.
type FetchTool struct {
	fetcher *Fetcher
}

// NewFetchTool creates the fetch tool.
func NewFetchTool(fetcher *Fetcher) *FetchTool {
	return &FetchTool{fetcher: fetcher}
}

// Name returns the tool name.
func (t *FetchTool) Name() string {
	return "fetch"
}

// Description returns the tool description.
func (t *FetchTool) Description() string {
	return "Fetch a web page in the browser and return its readable text content."
}

// Schema returns the tool's JSON schema.
func (t *FetchTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"url": map[string]interface{}{
				"type":        "string",
				"description": "The http(s) URL to fetch",
			},
		},
		[]string{"url"},
	)
}

// FetchInput represents the parameters for a fetch call.
type FetchInput struct {
	XMLName xml.Name `xml:"arguments"`
	URL     string   `xml:"url"`
}

// Execute fetches the page and renders its content as text.
func (t *FetchTool) Execute(ctx context.Context, argsXML []byte) (string, error) {
	var input FetchInput
	if err := xml.Unmarshal(argsXML, &input); err != nil {
		return "", fmt.Errorf("invalid parameters: %w", err)
	}
	if input.URL == "" {
		return "", fmt.Errorf("url is required")
	}

	page, err := t.fetcher.Fetch(ctx, input.URL)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	out.WriteString(fmt.Sprintf("URL: %s\n", page.URL))
	if page.Title != "" {
		out.WriteString(fmt.Sprintf("Title: %s\n", page.Title))
	}
	if page.Description != "" {
		out.WriteString(fmt.Sprintf("Description: %s\n", page.Description))
	}
	out.WriteString("\n")
	out.WriteString(page.Text)
	if page.Truncated {
		out.WriteString("\n\n[Content truncated]")
	}
	return out.String(), nil
}
