package tools

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"
)

const maxXMLSize = 1 * 1024 * 1024 // 1MB limit for tool call documents

// toolRegex matches one complete tool element, compiled once.
var toolRegex = regexp.MustCompile(`(?s)<tool>.*?</tool>`)

// ParseToolCall extracts the first tool call from the given text. Returns
// the parsed call and the remaining text with only that call removed, so
// further tool calls in the same text survive for the next parse.
func ParseToolCall(text string) (*ToolCall, string, error) {
	if len(text) > maxXMLSize {
		return nil, text, fmt.Errorf("tool call exceeds maximum size of %d bytes", maxXMLSize)
	}

	loc := toolRegex.FindStringIndex(text)
	if loc == nil {
		return nil, text, fmt.Errorf("no tool call found in text")
	}
	match := text[loc[0]:loc[1]]

	var call ToolCall
	if err := xml.Unmarshal([]byte(strings.TrimSpace(match)), &call); err != nil {
		snippet := match
		if len(snippet) > 200 {
			snippet = snippet[:200] + "..."
		}
		return nil, text, fmt.Errorf("failed to unmarshal tool call XML: %w\nXML snippet: %s", err, snippet)
	}

	if call.ToolName == "" {
		return nil, text, fmt.Errorf("tool_name is required in tool call")
	}

	remaining := strings.TrimSpace(text[:loc[0]] + text[loc[1]:])
	return &call, remaining, nil
}
