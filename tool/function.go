package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/amandeepsp/khojkar/logging"
)

var validParamTypes = map[string]struct{}{
	"string":  {},
	"integer": {},
	"number":  {},
	"boolean": {},
	"array":   {},
	"object":  {},
	"null":    {},
}

// FunctionTool adapts a plain Go function into a Tool.
//
// Construction is the contract checkpoint: a nil function, a missing
// description or an unknown parameter type category fails immediately at
// registration time instead of surfacing mid-run. After construction a
// FunctionTool has no mutable state and is safe for concurrent use.
type FunctionTool struct {
	name            string
	description     string
	parameters      []Parameter
	maxResultLength int
	fn              Func
	logger          logging.Logger
}

// FunctionToolOptions configures optional FunctionTool behavior.
type FunctionToolOptions struct {
	// MaxResultLength caps result size before the engine appends the
	// truncation marker. 0 means unlimited.
	MaxResultLength int
	// Logger records per-call diagnostics. Defaults to slog.
	Logger logging.Logger
}

// NewFunctionTool constructs a FunctionTool from an explicit descriptor.
//
// Errors are contract violations and should be treated as fatal by the
// caller: a tool that cannot describe itself cannot be offered to the
// completion service.
func NewFunctionTool(
	name, description string,
	parameters []Parameter,
	fn Func,
	optFns ...func(o *FunctionToolOptions),
) (*FunctionTool, error) {
	if fn == nil {
		return nil, fmt.Errorf("tool %s must wrap a callable, got nil", name)
	}

	if description == "" {
		return nil, fmt.Errorf("tool %s requires a description", name)
	}

	for _, p := range parameters {
		if _, ok := validParamTypes[p.Type]; !ok {
			return nil, fmt.Errorf("tool %s parameter %s has unknown type %q", name, p.Name, p.Type)
		}
		if p.Description == "" {
			return nil, fmt.Errorf("tool %s parameter %s requires a description", name, p.Name)
		}
	}

	opts := FunctionToolOptions{
		Logger: logging.NewDefaultSlogLogger(),
	}
	for _, fnOpt := range optFns {
		fnOpt(&opts)
	}

	return &FunctionTool{
		name:            name,
		description:     description,
		parameters:      parameters,
		maxResultLength: opts.MaxResultLength,
		fn:              fn,
		logger:          opts.Logger,
	}, nil
}

// MustFunctionTool is NewFunctionTool that panics on contract violations.
// Intended for statically declared tools where the descriptor is known good.
func MustFunctionTool(
	name, description string,
	parameters []Parameter,
	fn Func,
	optFns ...func(o *FunctionToolOptions),
) *FunctionTool {
	t, err := NewFunctionTool(name, description, parameters, fn, optFns...)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the unique tool name used in function call routing.
func (t *FunctionTool) Name() string { return t.name }

// Description returns the description exposed to models.
func (t *FunctionTool) Description() string { return t.description }

// MaxResultLength returns the configured truncation ceiling (0 = unlimited).
func (t *FunctionTool) MaxResultLength() int { return t.maxResultLength }

// Definition returns the declared descriptor.
func (t *FunctionTool) Definition() Definition {
	return Definition{
		Name:        t.name,
		Description: t.description,
		Parameters:  t.parameters,
	}
}

// Call checks required arguments then forwards to the wrapped function.
// There are no hidden retries at this layer; errors are wrapped as
// *ToolError for uniform downstream handling.
func (t *FunctionTool) Call(ctx context.Context, args map[string]any) (string, error) {
	start := time.Now()

	for _, p := range t.parameters {
		if !p.Required {
			continue
		}
		if _, ok := args[p.Name]; !ok {
			return "", NewToolError(t.name, fmt.Sprintf("missing required argument %q", p.Name), "VALIDATION_ERROR")
		}
	}

	result, err := t.fn(ctx, args)
	if err != nil {
		if toolErr, ok := err.(*ToolError); ok {
			return "", toolErr
		}
		return "", NewToolError(t.name, err.Error(), "EXECUTION_ERROR")
	}

	t.logger.Debug("tool.call.success", "tool", t.name, "duration_ms", time.Since(start).Milliseconds())

	return result, nil
}
