package builtin

import (
	"jsonpp/pkg/types"
)

// registerComparison registers eq, lt, gt, lte, gte and not, all strict
// (both operands are already-forced Values) and all returning Bool.
func (r *Registry) registerComparison() {
	r.register("eq", eqFn)
	r.register("lt", numCmp("lt", func(a, b int64) bool { return a < b }, func(a, b float64) bool { return a < b }, func(a, b string) bool { return a < b }))
	r.register("gt", numCmp("gt", func(a, b int64) bool { return a > b }, func(a, b float64) bool { return a > b }, func(a, b string) bool { return a > b }))
	r.register("lte", numCmp("lte", func(a, b int64) bool { return a <= b }, func(a, b float64) bool { return a <= b }, func(a, b string) bool { return a <= b }))
	r.register("gte", numCmp("gte", func(a, b int64) bool { return a >= b }, func(a, b float64) bool { return a >= b }, func(a, b string) bool { return a >= b }))
	r.register("not", notFn)
}

func eqFn(pos types.Position, args []types.Value) (types.Value, error) {
	if err := requireArgs(pos, "eq", args, 2, 2); err != nil {
		return types.Value{}, err
	}
	return types.NewBool(args[0].Equal(args[1])), nil
}

// numCmp builds a strict two-argument ordering comparison: numeric operands
// (Int or Float, mixed promoting to Float) or two strings, compared
// lexicographically.
func numCmp(name string, intF func(a, b int64) bool, floatF func(a, b float64) bool, strF func(a, b string) bool) Func {
	return func(pos types.Position, args []types.Value) (types.Value, error) {
		if err := requireArgs(pos, name, args, 2, 2); err != nil {
			return types.Value{}, err
		}
		a, b := args[0], args[1]
		if a.Kind() == types.KindString && b.Kind() == types.KindString {
			return types.NewBool(strF(a.AsString(), b.AsString())), nil
		}
		if a.Kind() == types.KindInt && b.Kind() == types.KindInt {
			return types.NewBool(intF(a.AsInt(), b.AsInt())), nil
		}
		af, err := asNumber(pos, name, a)
		if err != nil {
			return types.Value{}, err
		}
		bf, err := asNumber(pos, name, b)
		if err != nil {
			return types.Value{}, err
		}
		return types.NewBool(floatF(af, bf)), nil
	}
}

func notFn(pos types.Position, args []types.Value) (types.Value, error) {
	if err := requireArgs(pos, "not", args, 1, 1); err != nil {
		return types.Value{}, err
	}
	return types.NewBool(!args[0].Truthy()), nil
}
