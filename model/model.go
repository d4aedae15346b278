// Package model defines the completion-service contract the execution
// engine depends on, plus a scripted in-memory implementation for tests
// and examples. Provider adapters live in the openai and anthropic
// subpackages.
package model

import (
	"context"

	"github.com/amandeepsp/khojkar/core"
)

// ToolDefinition declaratively exposes a callable function to the model.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"` // JSON Schema object
}

// Request is the normalized completion input: the full ordered transcript,
// the tool descriptor list, tool-choice mode and sampling temperature.
type Request struct {
	Messages    []core.Message   `json:"messages"`
	Tools       []ToolDefinition `json:"tools,omitempty"`
	ToolChoice  string           `json:"tool_choice,omitempty"` // "auto" when tools are offered
	Temperature float64          `json:"temperature"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the single reply produced for a Request: optional text
// content and zero or more requested tool invocations with unique
// correlation ids.
type Response struct {
	Message      core.Message `json:"message"`
	FinishReason string       `json:"finish_reason"` // "stop", "length", "tool_calls", etc.
	Usage        *TokenUsage  `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "scripted", etc.
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface the execution engine needs to drive
// generation. Implementations must be safe for use by a single agent at a
// time; sharing one instance across agents is allowed because Complete is
// stateless.
type Model interface {
	// Complete produces the next conversational turn.
	Complete(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}
