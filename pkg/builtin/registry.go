// Package builtin implements JSON++'s built-in function library: the
// strict value-level functions (arithmetic, conversion, aggregation,
// comparison) that `pkg/eval` dispatches a Call to once every argument has
// already been forced to a Value. The non-strict special forms (`if`,
// `def`, `map`/`filter`/`reduce`, `ref`/`include`/`import`) are not here —
// they need access to unforced argument Nodes and so are implemented
// directly in pkg/eval.
package builtin

import (
	"jsonpp/pkg/types"
)

// Func is a strict built-in function: every argument has already been
// forced to a Value by the time it runs.
type Func func(pos types.Position, args []types.Value) (types.Value, error)

// Registry holds the strict built-in function table.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry builds the full built-in registry described in the function
// library section of the language.
func NewRegistry() *Registry {
	r := &Registry{funcs: make(map[string]Func)}
	r.registerArithmetic()
	r.registerConversion()
	r.registerAggregate()
	r.registerComparison()
	return r
}

// Lookup reports whether name is a registered built-in, returning its Func.
func (r *Registry) Lookup(name string) (Func, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

// IsBuiltin reports whether name names a built-in, used by pkg/eval to
// decide whether a Call's head Identifier should dispatch directly rather
// than being forced and expected to resolve to a Definition.
func (r *Registry) IsBuiltin(name string) bool {
	_, ok := r.funcs[name]
	return ok
}

// Call invokes a registered built-in by name.
func (r *Registry) Call(pos types.Position, name string, args []types.Value) (types.Value, error) {
	fn, ok := r.funcs[name]
	if !ok {
		return types.Value{}, types.NewNameError(pos, "unknown function %q", name)
	}
	return fn(pos, args)
}

func (r *Registry) register(name string, fn Func) {
	r.funcs[name] = fn
}

// requireArgs checks that the number of args is in range [min, max].
func requireArgs(pos types.Position, name string, args []types.Value, min, max int) error {
	if len(args) < min || len(args) > max {
		if min == max {
			return types.NewTypeError(pos, "%s expects %d argument(s), got %d", name, min, len(args))
		}
		return types.NewTypeError(pos, "%s expects %d-%d arguments, got %d", name, min, max, len(args))
	}
	return nil
}
