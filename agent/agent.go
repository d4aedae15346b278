// Package agent implements the execution engines that drive research
// runs: the ReAct loop alternating between completion calls and tool
// execution, and the Supervisor that delegates work to named child agents
// through a synthetic handoff tool.
package agent

import (
	"context"
	"encoding/json"
)

// Result is the terminal output of one agent run.
type Result struct {
	// Content is the raw text of the final assistant reply.
	Content string

	// Structured holds the schema-validated JSON answer when an output
	// schema was configured, nil otherwise.
	Structured json.RawMessage

	// Steps is the number of completion turns the run consumed.
	Steps int
}

// Agent is the contract shared by execution engines and workflow children.
// Run may be invoked repeatedly; each invocation resets conversational
// state while preserving configuration.
type Agent interface {
	// Name returns the unique agent name used for delegation routing.
	Name() string

	// Description tells a supervising model what this agent is good at.
	Description() string

	// Run executes the agent until it produces a terminal answer or
	// exhausts its step budget.
	Run(ctx context.Context, opts ...RunOption) (*Result, error)
}

type runConfig struct {
	extraPrompt    string
	hasExtraPrompt bool
}

// RunOption customizes a single Run invocation.
type RunOption func(*runConfig)

// WithExtraPrompt injects one additional user message right after the
// context reset, before the first completion call. Supervisors use this to
// forward handoff arguments to children.
func WithExtraPrompt(prompt string) RunOption {
	return func(c *runConfig) {
		c.extraPrompt = prompt
		c.hasExtraPrompt = true
	}
}
