package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/amandeepsp/khojkar/core"
	"github.com/google/uuid"
)

// ScriptStep produces the reply for one completion call of a script.
type ScriptStep func(req Request) (*Response, error)

// ScriptedModel is a deterministic in-memory Model for tests and examples.
// Each Complete call consumes the next step of the script; when the script
// is exhausted the final step repeats, which makes "the model keeps asking
// for tools" scenarios trivial to express. Every request is recorded for
// assertions.
type ScriptedModel struct {
	mu       sync.Mutex
	name     string
	steps    []ScriptStep
	index    int
	requests []Request
}

// NewScriptedModel builds a scripted model that replays steps in order.
func NewScriptedModel(name string, steps ...ScriptStep) *ScriptedModel {
	return &ScriptedModel{name: name, steps: steps}
}

// Reply scripts a plain text assistant reply with no tool calls.
func Reply(content string) ScriptStep {
	return func(Request) (*Response, error) {
		return &Response{
			Message:      core.AssistantMessage(content),
			FinishReason: "stop",
		}, nil
	}
}

// ReplyWithToolCalls scripts an assistant reply requesting tool calls.
func ReplyWithToolCalls(content string, calls ...core.ToolCall) ScriptStep {
	return func(Request) (*Response, error) {
		return &Response{
			Message:      core.AssistantMessage(content, calls...),
			FinishReason: "tool_calls",
		}, nil
	}
}

// NewToolCall builds a tool invocation request with a fresh correlation id.
func NewToolCall(name, arguments string) core.ToolCall {
	return core.ToolCall{
		ID:        "call_" + uuid.NewString(),
		Name:      name,
		Arguments: []byte(arguments),
	}
}

// Complete implements Model.
func (m *ScriptedModel) Complete(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.steps) == 0 {
		return nil, fmt.Errorf("scripted model %s has no steps", m.name)
	}

	m.requests = append(m.requests, req)

	step := m.steps[m.index]
	if m.index < len(m.steps)-1 {
		m.index++
	}

	return step(req)
}

// Info implements Model.
func (m *ScriptedModel) Info() Info {
	return Info{Name: m.name, Provider: "scripted", SupportsTools: true}
}

// Requests returns a copy of every request seen so far.
func (m *ScriptedModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Calls returns how many completion calls were made.
func (m *ScriptedModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}
