package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(context.Context, map[string]any) (string, error) { return "ok", nil }

func TestNewFunctionToolContractViolations(t *testing.T) {
	_, err := NewFunctionTool("t", "does things", nil, nil)
	assert.ErrorContains(t, err, "must wrap a callable")

	_, err = NewFunctionTool("t", "", nil, noop)
	assert.ErrorContains(t, err, "requires a description")

	_, err = NewFunctionTool("t", "does things",
		[]Parameter{{Name: "x", Type: "float", Description: "a value"}}, noop)
	assert.ErrorContains(t, err, `unknown type "float"`)

	_, err = NewFunctionTool("t", "does things",
		[]Parameter{{Name: "x", Type: "string"}}, noop)
	assert.ErrorContains(t, err, "requires a description")
}

func TestMustFunctionToolPanics(t *testing.T) {
	assert.Panics(t, func() {
		MustFunctionTool("t", "", nil, noop)
	})
}

func TestDefinitionSchema(t *testing.T) {
	ft, err := NewFunctionTool("search", "Search the web", []Parameter{
		{Name: "query", Type: "string", Description: "The search query", Required: true},
		{Name: "limit", Type: "integer", Description: "Max results"},
	}, noop)
	require.NoError(t, err)

	schema := ft.Definition().Schema()
	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, []string{"query"}, schema["required"])

	properties := schema["properties"].(map[string]any)
	require.Len(t, properties, 2)
	assert.Equal(t, map[string]any{
		"type":        "string",
		"description": "The search query",
	}, properties["query"])
}

func TestCallMissingRequiredArgument(t *testing.T) {
	ft := MustFunctionTool("search", "Search the web", []Parameter{
		{Name: "query", Type: "string", Description: "The search query", Required: true},
	}, noop)

	_, err := ft.Call(context.Background(), map[string]any{})
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
	assert.Equal(t, "search", toolErr.Tool)
}

func TestCallWrapsExecutionErrors(t *testing.T) {
	ft := MustFunctionTool("flaky", "Sometimes fails", nil,
		func(context.Context, map[string]any) (string, error) {
			return "", errors.New("network down")
		})

	_, err := ft.Call(context.Background(), nil)
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "EXECUTION_ERROR", toolErr.Code)
	assert.Equal(t, "network down", toolErr.Message)
}

func TestCallPreservesToolErrors(t *testing.T) {
	original := NewToolError("flaky", "quota exhausted", "RATE_LIMITED")
	ft := MustFunctionTool("flaky", "Sometimes fails", nil,
		func(context.Context, map[string]any) (string, error) {
			return "", original
		})

	_, err := ft.Call(context.Background(), nil)
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "RATE_LIMITED", toolErr.Code)
}

func TestCallForwardsArguments(t *testing.T) {
	ft := MustFunctionTool("upper", "Upper-cases text", []Parameter{
		{Name: "text", Type: "string", Description: "Text", Required: true},
	}, func(_ context.Context, args map[string]any) (string, error) {
		return args["text"].(string) + "!", nil
	})

	result, err := ft.Call(context.Background(), map[string]any{"text": "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi!", result)
}
