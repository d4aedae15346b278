package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/amandeepsp/khojkar/core"
	"github.com/amandeepsp/khojkar/logging"
	"github.com/amandeepsp/khojkar/model"
	"github.com/amandeepsp/khojkar/tool"
)

// ErrUnknownAgent is returned by the handoff tool when the requested child
// name is not registered. The loop's fault isolation converts it into a
// synthetic tool failure, so a bad routing decision costs a turn, not the
// run.
var ErrUnknownAgent = errors.New("agent not found in registry")

// HandoffToolName is the synthetic tool a supervisor exposes for routing.
const HandoffToolName = "handoff_to_agent"

// SupervisorOptions configures a Supervisor instance.
type SupervisorOptions struct {
	// Description tells callers what this supervisor coordinates.
	Description string
	// MaxSteps bounds the supervisor's own loop. Default 10.
	MaxSteps int
	// Registry holds extra tools offered alongside the handoff tool (e.g.
	// scratchpad operations). The handoff tool is added unless a tool with
	// that name is already present.
	Registry *tool.Registry
	// Limiter gates the supervisor's completion calls.
	Limiter *core.RateLimiter
	// Logger records delegation decisions. Defaults to slog.
	Logger logging.Logger
}

// Supervisor coordinates named child agents. It is an ordinary ReAct loop
// whose one meaningful tool is "handoff_to_agent"; delegation results flow
// back purely through tool-result messages, and children never hold a
// reference to their supervisor.
type Supervisor struct {
	delegate *ReactAgent
	children map[string]Agent
	logger   logging.Logger
}

// NewSupervisor builds a supervisor over the given children. The system
// prompt is augmented with a machine-readable listing of the children's
// names and descriptions so the driving model can select among them.
func NewSupervisor(
	name string,
	llm model.Model,
	systemPrompt string,
	children []Agent,
	optFns ...func(o *SupervisorOptions),
) *Supervisor {
	opts := SupervisorOptions{
		Description: fmt.Sprintf("Supervisor agent %s", name),
		MaxSteps:    10,
		Registry:    tool.NewRegistry(),
		Limiter:     core.NewRateLimiter(0),
		Logger:      logging.NewDefaultSlogLogger(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	s := &Supervisor{
		children: make(map[string]Agent, len(children)),
		logger:   opts.Logger,
	}
	for _, child := range children {
		s.children[child.Name()] = child
	}

	if !opts.Registry.Has(HandoffToolName) {
		opts.Registry.Register(s.handoffTool())
	}

	s.delegate = NewReactAgent(
		name+"_supervisor",
		llm,
		systemPrompt+agentListing(children),
		opts.Registry,
		func(o *ReactAgentOptions) {
			o.Description = opts.Description
			o.MaxSteps = opts.MaxSteps
			o.Limiter = opts.Limiter
			o.Logger = opts.Logger
		},
	)

	return s
}

// Name returns the supervisor's agent name.
func (s *Supervisor) Name() string { return s.delegate.Name() }

// Description returns the supervisor's description.
func (s *Supervisor) Description() string { return s.delegate.Description() }

// Run drives the supervisor loop; it is bound by the same step budget and
// termination rules as any ReAct run, with handoffs counted as ordinary
// tool calls under the same concurrency throttle.
func (s *Supervisor) Run(ctx context.Context, opts ...RunOption) (*Result, error) {
	return s.delegate.Run(ctx, opts...)
}

func agentListing(children []Agent) string {
	type entry struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	entries := make([]entry, len(children))
	for i, child := range children {
		entries[i] = entry{Name: child.Name(), Description: child.Description()}
	}

	listing, _ := json.Marshal(entries)

	return fmt.Sprintf("\n-------\nAVAILABLE AGENTS:\n%s\n-------\n", listing)
}

func (s *Supervisor) handoffTool() tool.Tool {
	return tool.MustFunctionTool(
		HandoffToolName,
		"Route the task to a specific agent or finish the workflow.",
		[]tool.Parameter{
			{
				Name:        "agent_name",
				Type:        "string",
				Description: "The name of the agent to route the task to",
				Required:    true,
			},
			{
				Name:        "args",
				Type:        "object",
				Description: "Optional arguments forwarded to the agent as an additional prompt",
			},
		},
		s.routeToAgent,
	)
}

// routeToAgent looks the child up by name and invokes its Run, forwarding
// any extra arguments as an additional prompt message.
func (s *Supervisor) routeToAgent(ctx context.Context, args map[string]any) (string, error) {
	name, _ := args["agent_name"].(string)

	child, ok := s.children[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownAgent, name)
	}

	s.logger.Info("supervisor.handoff", "supervisor", s.Name(), "agent", name)

	var runOpts []RunOption
	if extra, ok := args["args"].(map[string]any); ok && len(extra) > 0 {
		forwarded, err := json.Marshal(extra)
		if err != nil {
			return "", fmt.Errorf("marshal handoff args: %w", err)
		}
		runOpts = append(runOpts, WithExtraPrompt(string(forwarded)))
	}

	result, err := child.Run(ctx, runOpts...)
	if err != nil {
		return "", err
	}

	if len(result.Structured) > 0 {
		return string(result.Structured), nil
	}
	return result.Content, nil
}
