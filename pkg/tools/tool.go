// Package tools defines scout's tool abstraction and the XML wire format
// used to invoke tools over the headless stdin/stdout protocol.
package tools

import (
	"context"
	"encoding/xml"
)

// Tool represents one invocable capability. Tools receive their arguments as
// an XML fragment and unmarshal it into their own argument struct.
//
// Example invocation:
//
//	<tool>
//	<tool_name>search</tool_name>
//	<arguments>
//	  <query>golang singleflight</query>
//	  <engine>bing</engine>
//	</arguments>
//	</tool>
type Tool interface {
	// Name returns the unique identifier for this tool (e.g., "search")
	Name() string

	// Description returns a human-readable description of what this tool does
	Description() string

	// Schema returns the JSON schema for this tool's input parameters
	Schema() map[string]interface{}

	// Execute runs the tool with the given XML arguments and returns a result string
	Execute(ctx context.Context, argumentsXML []byte) (string, error)
}

// ToolCall represents a parsed tool invocation.
type ToolCall struct {
	XMLName   xml.Name       `xml:"tool"`
	ToolName  string         `xml:"tool_name"`
	Arguments ArgumentsBlock `xml:"arguments"`
}

// ArgumentsBlock holds the raw XML of the arguments element.
type ArgumentsBlock struct {
	InnerXML []byte `xml:",innerxml"`
}

// GetArgumentsXML returns the arguments wrapped in <arguments> tags for
// unmarshaling into a tool's argument struct.
func (tc *ToolCall) GetArgumentsXML() []byte {
	const prefix = "<arguments>"
	const suffix = "</arguments>"

	result := make([]byte, 0, len(prefix)+len(tc.Arguments.InnerXML)+len(suffix))
	result = append(result, []byte(prefix)...)
	result = append(result, tc.Arguments.InnerXML...)
	result = append(result, []byte(suffix)...)
	return result
}

// BaseToolSchema creates a common JSON schema structure for a tool with the
// given properties and required fields.
func BaseToolSchema(properties map[string]interface{}, required []string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
