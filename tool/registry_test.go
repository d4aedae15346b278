package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func namedTool(name, description string) Tool {
	return MustFunctionTool(name, description, nil, noop)
}

func TestRegistryPreservesOrder(t *testing.T) {
	r := NewRegistry(
		namedTool("alpha", "first"),
		namedTool("beta", "second"),
		namedTool("gamma", "third"),
	)

	defs := r.Definitions()
	require.Len(t, defs, 3)
	assert.Equal(t, "alpha", defs[0].Name)
	assert.Equal(t, "beta", defs[1].Name)
	assert.Equal(t, "gamma", defs[2].Name)
}

func TestRegistryOverwriteKeepsPosition(t *testing.T) {
	r := NewRegistry(
		namedTool("alpha", "first"),
		namedTool("beta", "second"),
	)
	r.Register(namedTool("alpha", "replaced"))

	assert.Equal(t, 2, r.Len())
	defs := r.Definitions()
	assert.Equal(t, "alpha", defs[0].Name)
	assert.Equal(t, "replaced", defs[0].Description)
}

func TestRegistryGetUnknown(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("missing")
	assert.ErrorIs(t, err, ErrToolNotFound)
}

func TestRegistryHas(t *testing.T) {
	r := NewRegistry(namedTool("alpha", "first"))
	assert.True(t, r.Has("alpha"))
	assert.False(t, r.Has("beta"))
}

func TestRegistryWithToolsLeavesBaseUntouched(t *testing.T) {
	base := NewRegistry(namedTool("alpha", "first"))
	extended := base.WithTools(namedTool("beta", "second"))

	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 2, extended.Len())

	defs := extended.Definitions()
	assert.Equal(t, "alpha", defs[0].Name)
	assert.Equal(t, "beta", defs[1].Name)
}
