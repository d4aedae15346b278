package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/amandeepsp/khojkar/core"
	"github.com/amandeepsp/khojkar/internal/util"
	"github.com/amandeepsp/khojkar/logging"
	"github.com/amandeepsp/khojkar/memory"
	"github.com/amandeepsp/khojkar/model"
	"github.com/amandeepsp/khojkar/tool"
	"github.com/xeipuuv/gojsonschema"
	"golang.org/x/sync/semaphore"
)

// ErrMaxStepsExceeded signals that the agent did not converge within its
// step budget while tool calls were still being requested. A run ending
// this way must not silently return a partial answer.
var ErrMaxStepsExceeded = errors.New("reached maximum number of steps")

// ErrInvalidStructuredOutput signals that the reformatting completion's
// output failed JSON parsing or schema validation. It is fatal and not
// retried: silent coercion could fabricate structured data.
var ErrInvalidStructuredOutput = errors.New("structured output failed schema validation")

const truncationMarker = "\n\n[Content truncated due to length...]"

// ReactAgentOptions configures a ReactAgent instance.
type ReactAgentOptions struct {
	// Description tells a supervising model what this agent is good at.
	Description string
	// MaxSteps bounds the number of completion turns per run. Default 10.
	MaxSteps int
	// Temperature is the fixed sampling temperature. Default 0.3.
	Temperature float64
	// MaxConcurrentToolCalls caps in-flight tool executions within one
	// turn. Default 3.
	MaxConcurrentToolCalls int
	// MaxContextTokens bounds the context buffer (estimated tokens).
	// Default is effectively unbounded.
	MaxContextTokens int
	// OutputSchema, when set, triggers one extra completion call after the
	// terminal answer to coerce it into schema-conforming JSON.
	OutputSchema map[string]any
	// Limiter gates completion-service calls. Defaults to disabled.
	Limiter *core.RateLimiter
	// Logger records per-turn diagnostics. Defaults to slog.
	Logger logging.Logger
}

// ReactAgent drives the turn-based action loop: ask the completion service
// for the next action, execute any requested tools concurrently, fold the
// results back into context and repeat until the model stops requesting
// tools or the step budget runs out.
type ReactAgent struct {
	name                   string
	description            string
	llm                    model.Model
	registry               *tool.Registry
	maxSteps               int
	temperature            float64
	maxConcurrentToolCalls int64
	outputSchema           map[string]any
	limiter                *core.RateLimiter
	logger                 logging.Logger
	memory                 *memory.ContextMemory
	currentStep            int
}

// NewReactAgent constructs a ReactAgent with the given system prompt and
// tool registry. The context buffer is owned by the agent and reset on
// every Run.
func NewReactAgent(
	name string,
	llm model.Model,
	prompt string,
	registry *tool.Registry,
	optFns ...func(o *ReactAgentOptions),
) *ReactAgent {
	opts := ReactAgentOptions{
		Description:            fmt.Sprintf("Agent %s", name),
		MaxSteps:               10,
		Temperature:            0.3,
		MaxConcurrentToolCalls: 3,
		MaxContextTokens:       1_000_000_000,
		Limiter:                core.NewRateLimiter(0),
		Logger:                 logging.NewDefaultSlogLogger(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &ReactAgent{
		name:                   name,
		description:            opts.Description,
		llm:                    llm,
		registry:               registry,
		maxSteps:               opts.MaxSteps,
		temperature:            opts.Temperature,
		maxConcurrentToolCalls: int64(opts.MaxConcurrentToolCalls),
		outputSchema:           opts.OutputSchema,
		limiter:                opts.Limiter,
		logger:                 opts.Logger,
		memory:                 memory.NewContextMemory(prompt, opts.MaxContextTokens),
	}
}

// Name returns the agent name.
func (a *ReactAgent) Name() string { return a.name }

// Description returns the agent description shown to supervisors.
func (a *ReactAgent) Description() string { return a.description }

// CurrentStep returns the number of turns the last (or ongoing) run has
// consumed.
func (a *ReactAgent) CurrentStep() int { return a.currentStep }

// Memory exposes the agent's context buffer. Workflows use it to append a
// closing instruction after a successful run.
func (a *ReactAgent) Memory() *memory.ContextMemory { return a.memory }

// Run executes the action loop. Conversational state is cleared at entry;
// configuration (tools, limits, model) is reused across runs.
//
// Terminal states: a reply without tool calls yields the answer (optionally
// coerced through the output schema); exhausting the step budget while the
// model still requests tools returns ErrMaxStepsExceeded.
func (a *ReactAgent) Run(ctx context.Context, opts ...RunOption) (*Result, error) {
	var cfg runConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	a.memory.Clear()
	a.currentStep = 0

	if cfg.hasExtraPrompt {
		a.memory.Add(core.UserMessage(cfg.extraPrompt))
	}

	for i := 0; i < a.maxSteps; i++ {
		a.currentStep++

		a.logger.Debug("agent.turn.start",
			"agent", a.name,
			"step", a.currentStep,
			"messages", a.memory.Len(),
		)

		resp, err := a.complete(ctx, a.toolDefinitions())
		if err != nil {
			return nil, fmt.Errorf("agent %s: completion call failed: %w", a.name, err)
		}

		a.memory.Add(resp.Message)

		if len(resp.Message.ToolCalls) == 0 {
			a.logger.Info("agent.turn.final", "agent", a.name, "step", a.currentStep)
			if a.outputSchema != nil {
				return a.formatStructured(ctx)
			}
			return &Result{Content: resp.Message.Content, Steps: a.currentStep}, nil
		}

		a.executeToolCalls(ctx, resp.Message.ToolCalls)
	}

	a.logger.Error("agent.run.exhausted", "agent", a.name, "max_steps", a.maxSteps)

	return nil, fmt.Errorf("agent %s: %w (%d)", a.name, ErrMaxStepsExceeded, a.maxSteps)
}

// complete issues one rate-limited completion call with the full current
// transcript.
func (a *ReactAgent) complete(ctx context.Context, tools []model.ToolDefinition) (*model.Response, error) {
	if err := a.limiter.Acquire(ctx); err != nil {
		return nil, err
	}

	req := model.Request{
		Messages:    a.memory.All(),
		Tools:       tools,
		Temperature: a.temperature,
	}
	if len(tools) > 0 {
		req.ToolChoice = "auto"
	}

	return a.llm.Complete(ctx, req)
}

func (a *ReactAgent) toolDefinitions() []model.ToolDefinition {
	defs := a.registry.Definitions()
	out := make([]model.ToolDefinition, len(defs))
	for i, d := range defs {
		out[i] = model.ToolDefinition{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  d.Schema(),
		}
	}
	return out
}

// executeToolCalls fans the requested invocations out across goroutines,
// bounded by a weighted semaphore so an arbitrarily large batch never
// exceeds the concurrency ceiling. Every call is awaited before the turn
// completes; results append to context in completion order, which may
// differ from invocation order.
func (a *ReactAgent) executeToolCalls(ctx context.Context, calls []core.ToolCall) {
	sem := semaphore.NewWeighted(a.maxConcurrentToolCalls)
	var wg sync.WaitGroup

	for _, call := range calls {
		wg.Add(1)
		go func(tc core.ToolCall) {
			defer wg.Done()

			if err := sem.Acquire(ctx, 1); err != nil {
				a.memory.Add(core.ToolMessage(failureMessage(tc.Name), tc.ID))
				return
			}
			defer sem.Release(1)

			a.memory.Add(a.callTool(ctx, tc))
		}(call)
	}

	wg.Wait()
}

// callTool dispatches one invocation and always produces a tool message:
// unknown names, undecodable arguments, execution errors and empty results
// each collapse into the synthetic failure text instead of aborting the
// turn. Oversized results are truncated with an explicit marker.
func (a *ReactAgent) callTool(ctx context.Context, tc core.ToolCall) core.Message {
	t, err := a.registry.Get(tc.Name)
	if err != nil {
		a.logger.Warn("agent.tool.unknown", "agent", a.name, "tool", tc.Name)
		return core.ToolMessage(failureMessage(tc.Name), tc.ID)
	}

	args := map[string]any{}
	if len(tc.Arguments) > 0 {
		if err := json.Unmarshal(tc.Arguments, &args); err != nil {
			a.logger.Warn("agent.tool.bad_args",
				"agent", a.name,
				"tool", tc.Name,
				"error", err.Error(),
			)
			return core.ToolMessage(failureMessage(tc.Name), tc.ID)
		}
	}

	a.logger.Info("agent.tool.call", "agent", a.name, "tool", tc.Name, "args", string(tc.Arguments))

	result, err := t.Call(ctx, args)
	if err != nil {
		a.logger.Warn("agent.tool.failed",
			"agent", a.name,
			"tool", tc.Name,
			"error", err.Error(),
		)
		return core.ToolMessage(failureMessage(tc.Name), tc.ID)
	}
	if result == "" {
		a.logger.Warn("agent.tool.empty_result", "agent", a.name, "tool", tc.Name)
		return core.ToolMessage(failureMessage(tc.Name), tc.ID)
	}

	if maxLen := t.MaxResultLength(); maxLen > 0 && len(result) > maxLen {
		result = util.Truncate(result, maxLen, truncationMarker)
	}

	return core.ToolMessage(result, tc.ID)
}

func failureMessage(toolName string) string {
	return fmt.Sprintf("Tool call %s failed, please try some other tool", toolName)
}

// formatStructured issues one additional completion instructing the model
// to restate its last answer as JSON conforming to the configured schema,
// then parses and validates it. Failures here are fatal for the run.
func (a *ReactAgent) formatStructured(ctx context.Context) (*Result, error) {
	schemaJSON, err := json.Marshal(a.outputSchema)
	if err != nil {
		return nil, fmt.Errorf("agent %s: marshal output schema: %w", a.name, err)
	}

	a.memory.Add(core.UserMessage(
		"Please format the response as JSON according to the following JSON Schema: \n" + string(schemaJSON),
	))

	resp, err := a.complete(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("agent %s: formatting completion failed: %w", a.name, err)
	}

	raw := util.ExtractLangBlock(resp.Message.Content, "json")

	validation, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(a.outputSchema),
		gojsonschema.NewStringLoader(raw),
	)
	if err != nil {
		return nil, fmt.Errorf("agent %s: %w: %v", a.name, ErrInvalidStructuredOutput, err)
	}
	if !validation.Valid() {
		details := make([]string, 0, len(validation.Errors()))
		for _, desc := range validation.Errors() {
			details = append(details, desc.String())
		}
		return nil, fmt.Errorf("agent %s: %w: %v", a.name, ErrInvalidStructuredOutput, details)
	}

	return &Result{
		Content:    resp.Message.Content,
		Structured: json.RawMessage(raw),
		Steps:      a.currentStep,
	}, nil
}
