package mcp

import (
	"context"
	"encoding/json"
	"fmt"
)

// ProtocolVersion is the MCP revision this transport speaks.
const ProtocolVersion = "2024-11-05"

// HandlerFunc receives arguments that already passed schema validation and
// returns a payload to serialize. A json.RawMessage result is passed through
// byte-for-byte; anything else is marshalled.
type HandlerFunc func(ctx context.Context, args map[string]any) (any, error)

// Tool is one named remote operation: schema plus handler. Definitions are
// immutable after the server is built.
type Tool struct {
	Name        string
	Description string
	InputSchema Schema
	Handler     HandlerFunc
}

// ContentBlock is a single typed block in a tool result. Only text blocks
// are produced here.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ToolResult is the invocation envelope. IsError distinguishes failed
// backend calls from successful ones so callers don't have to parse the
// embedded text to find out.
type ToolResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

func NewTextResult(text string) *ToolResult {
	return &ToolResult{Content: []ContentBlock{{Type: "text", Text: text}}}
}

func NewErrorResult(text string) *ToolResult {
	result := NewTextResult(text)
	result.IsError = true
	return result
}

// FieldError identifies one argument that failed schema validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// UnknownToolError is returned when no tool matches the requested name.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q", e.Name)
}

// ValidationError carries every failing field of one invocation. The tool
// handler is never reached when validation fails.
type ValidationError struct {
	Tool   string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid arguments for tool %q (%d field errors)", e.Tool, len(e.Fields))
}

// StringArg extracts a validated string argument. Missing optional
// arguments yield the empty string.
func StringArg(args map[string]any, name string) string {
	value, _ := args[name].(string)
	return value
}

// StringSliceArg extracts a validated array<string> argument.
func StringSliceArg(args map[string]any, name string) []string {
	raw, ok := args[name].([]any)
	if !ok {
		return nil
	}

	values := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			values = append(values, s)
		}
	}
	return values
}

func marshalResult(payload any) (*ToolResult, error) {
	if raw, ok := payload.(json.RawMessage); ok {
		return NewTextResult(string(raw)), nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("serialize tool result: %w", err)
	}

	return NewTextResult(string(data)), nil
}
