// Package helpers is the registry of named callables shared between the
// configuration phase and render contexts. Helpers carry no instance state:
// the same function value serves every call site.
package helpers

// Bundle is a named collection of helper functions registered together, the
// mixin-style case. The bundle's functions land in the same flat namespace
// as ad hoc registrations.
type Bundle interface {
	Helpers() map[string]any
}

// Registry maps helper names to functions suitable for a template FuncMap.
// Names are globally unique; later registration overwrites earlier,
// including built-ins.
type Registry struct {
	funcs  map[string]any
	frozen bool
}

func New() *Registry {
	return &Registry{funcs: make(map[string]any)}
}

// Register adds one ad hoc helper.
func (r *Registry) Register(name string, fn any) {
	if r.frozen {
		panic("verso: helper registered after configuration phase")
	}
	r.funcs[name] = fn
}

// RegisterAll adds a block of helpers at once.
func (r *Registry) RegisterAll(fns map[string]any) {
	for name, fn := range fns {
		r.Register(name, fn)
	}
}

// RegisterBundle mixes in a capability bundle.
func (r *Registry) RegisterBundle(b Bundle) {
	r.RegisterAll(b.Helpers())
}

// Lookup returns a helper by name. Usable during the configuration phase
// and at render time alike.
func (r *Registry) Lookup(name string) (any, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

// All returns a copy of the registry for merging into a FuncMap.
func (r *Registry) All() map[string]any {
	out := make(map[string]any, len(r.funcs))
	for name, fn := range r.funcs {
		out[name] = fn
	}
	return out
}

// Freeze marks the end of the configuration phase.
func (r *Registry) Freeze() { r.frozen = true }
