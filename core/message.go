package core

import "encoding/json"

// Role identifies the author of a conversation message.
type Role string

const (
	// RoleSystem marks the pinned system prompt.
	RoleSystem Role = "system"
	// RoleUser marks input supplied by the caller (or injected extra prompts).
	RoleUser Role = "user"
	// RoleAssistant marks completion-service replies.
	RoleAssistant Role = "assistant"
	// RoleTool marks tool execution results correlated to a prior tool call.
	RoleTool Role = "tool"
)

// ToolCall is a tool invocation requested by the completion service.
// Arguments is the raw JSON object produced by the model; it is decoded
// only at dispatch time so malformed payloads fail per-call, not per-turn.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Message is one entry of the conversation transcript. Messages are treated
// as immutable once appended to a memory.ContextMemory.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// SystemMessage builds a system-role message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage builds a user-role message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage builds an assistant-role message with optional tool calls.
func AssistantMessage(content string, toolCalls ...ToolCall) Message {
	return Message{Role: RoleAssistant, Content: content, ToolCalls: toolCalls}
}

// ToolMessage builds a tool-result message correlated to the originating call.
func ToolMessage(content, toolCallID string) Message {
	return Message{Role: RoleTool, Content: content, ToolCallID: toolCallID}
}
