// Package tool implements the function-calling subsystem: named,
// schema-described units of work the execution engine may invoke on the
// completion service's request. Descriptors are declared statically at
// registration time rather than inferred by reflection, which turns the
// implicit callable contract into a checked one.
package tool

import (
	"context"
	"errors"
	"fmt"
)

// ErrToolNotFound is returned by Registry.Get for unknown tool names.
var ErrToolNotFound = errors.New("tool not found")

// Func is the unit of work a tool wraps. It receives the decoded argument
// map and returns the raw result text. Blocking work must honor ctx.
type Func func(ctx context.Context, args map[string]any) (string, error)

// Parameter declares one named argument of a tool.
type Parameter struct {
	Name        string
	Type        string // string|integer|number|boolean|array|object|null
	Description string
	Required    bool
}

// Definition is the schema surfaced to the completion service for one tool.
type Definition struct {
	Name        string
	Description string
	Parameters  []Parameter
}

// Schema renders the definition as the JSON-schema object expected by
// completion providers.
func (d Definition) Schema() map[string]any {
	properties := make(map[string]any, len(d.Parameters))
	required := make([]string, 0, len(d.Parameters))

	for _, p := range d.Parameters {
		properties[p.Name] = map[string]any{
			"type":        p.Type,
			"description": p.Description,
		}
		if p.Required {
			required = append(required, p.Name)
		}
	}

	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

// Tool is the dispatch contract the execution engine depends on.
//
// Implementations must be safe for concurrent use: the engine fans tool
// calls out across goroutines.
type Tool interface {
	// Name returns the unique identifier used in function call routing.
	Name() string

	// Description returns the natural-language description shown to models.
	Description() string

	// Definition returns the declared argument schema.
	Definition() Definition

	// MaxResultLength returns the truncation ceiling for results, 0 for
	// unlimited.
	MaxResultLength() int

	// Call executes the tool with already-decoded arguments.
	Call(ctx context.Context, args map[string]any) (string, error)
}

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string `json:"tool"`    // Name of the tool that failed
	Message string `json:"message"` // Error message
	Code    string `json:"code"`    // Error code for categorization
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{Tool: tool, Message: message, Code: code}
}
