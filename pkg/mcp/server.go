package mcp

import (
	"context"
	"fmt"
)

// Server is the tool gateway: an immutable registry of tool definitions,
// built once at startup and safe for concurrent use.
type Server struct {
	name    string
	version string
	tools   map[string]Tool
	order   []string
}

func NewServer(name, version string, tools []Tool) (*Server, error) {
	server := &Server{
		name:    name,
		version: version,
		tools:   make(map[string]Tool, len(tools)),
		order:   make([]string, 0, len(tools)),
	}

	for _, tool := range tools {
		if _, exists := server.tools[tool.Name]; exists {
			return nil, fmt.Errorf("duplicate tool name %q", tool.Name)
		}
		if tool.Handler == nil {
			return nil, fmt.Errorf("tool %q has no handler", tool.Name)
		}

		server.tools[tool.Name] = tool
		server.order = append(server.order, tool.Name)
	}

	return server, nil
}

func (s *Server) Name() string    { return s.name }
func (s *Server) Version() string { return s.version }

// Tools returns definitions in registration order, for tools/list.
func (s *Server) Tools() []Tool {
	tools := make([]Tool, 0, len(s.order))
	for _, name := range s.order {
		tools = append(tools, s.tools[name])
	}
	return tools
}

// Invoke looks up and runs a tool. Protocol-level failures (unknown tool,
// arguments failing the schema) come back as errors and never reach the
// handler; a handler failure comes back as a well-formed result with
// IsError set, carrying the error text.
func (s *Server) Invoke(ctx context.Context, name string, args map[string]any) (*ToolResult, error) {
	tool, ok := s.tools[name]
	if !ok {
		return nil, &UnknownToolError{Name: name}
	}

	if args == nil {
		args = map[string]any{}
	}

	if fields := tool.InputSchema.Validate(args); len(fields) > 0 {
		return nil, &ValidationError{Tool: name, Fields: fields}
	}

	payload, err := tool.Handler(ctx, args)
	if err != nil {
		return NewErrorResult(err.Error()), nil
	}

	return marshalResult(payload)
}
