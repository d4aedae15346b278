package tool

import "fmt"

// Registry holds the tools offered to one agent's completion calls.
// Registration order is preserved so descriptor lists are stable across
// turns. Registering a name twice overwrites the previous tool silently;
// this is documented behavior, not an error, so callers can shadow a
// default tool with a decorated variant (e.g. a CachedTool).
//
// A Registry is built once during agent construction and read-only
// afterwards, so no locking is needed on the dispatch path.
type Registry struct {
	order []string
	tools map[string]Tool
}

// NewRegistry creates a registry pre-populated with the given tools.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool)}
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

// Register adds a tool, overwriting any existing tool with the same name.
// An overwritten tool keeps its original position in the ordering.
func (r *Registry) Register(t Tool) {
	if _, exists := r.tools[t.Name()]; !exists {
		r.order = append(r.order, t.Name())
	}
	r.tools[t.Name()] = t
}

// Has reports whether a tool with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.tools[name]
	return ok
}

// Get returns the tool for dispatch, or ErrToolNotFound if absent.
func (r *Registry) Get(name string) (Tool, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return t, nil
}

// Definitions returns all descriptors in registration order for
// presentation to the completion service.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// WithTools returns a copy of the registry extended with extra tools.
// The receiver is left untouched, so a base registry can be shared across
// agents that each add their own specialist tools.
func (r *Registry) WithTools(extra ...Tool) *Registry {
	clone := NewRegistry()
	for _, name := range r.order {
		clone.Register(r.tools[name])
	}
	for _, t := range extra {
		clone.Register(t)
	}
	return clone
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.order) }
