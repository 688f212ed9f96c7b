package builtin

import (
	"jsonpp/pkg/types"
)

// registerAggregate registers merge, range, keys and values.
func (r *Registry) registerAggregate() {
	r.register("merge", mergeFn)
	r.register("range", rangeFn)
	r.register("keys", keysFn)
	r.register("values", valuesFn)
}

// mergeFn implements merge's three overloads: string concatenation, array
// concatenation, and right-biased object union. All arguments must share
// one of those three kinds; mixing is a TypeError.
func mergeFn(pos types.Position, args []types.Value) (types.Value, error) {
	if err := requireArgs(pos, "merge", args, 1, 1<<20); err != nil {
		return types.Value{}, err
	}
	switch args[0].Kind() {
	case types.KindString:
		out := ""
		for _, a := range args {
			if a.Kind() != types.KindString {
				return types.Value{}, types.NewTypeError(pos, "merge: mismatched argument kinds, expected string")
			}
			out += a.AsString()
		}
		return types.NewString(out), nil
	case types.KindArray:
		var out []types.Value
		for _, a := range args {
			if a.Kind() != types.KindArray {
				return types.Value{}, types.NewTypeError(pos, "merge: mismatched argument kinds, expected array")
			}
			out = append(out, a.AsArray()...)
		}
		return types.NewArray(out), nil
	case types.KindObject:
		result := types.NewOrderedMap()
		for _, a := range args {
			if a.Kind() != types.KindObject {
				return types.Value{}, types.NewTypeError(pos, "merge: mismatched argument kinds, expected object")
			}
			for _, k := range a.AsObject().Keys() {
				v, _ := a.AsObject().Get(k)
				result.Set(k, v)
			}
		}
		return types.NewObject(result), nil
	default:
		return types.Value{}, types.NewTypeError(pos, "merge is not defined for %s", args[0].Kind())
	}
}

func rangeFn(pos types.Position, args []types.Value) (types.Value, error) {
	if err := requireArgs(pos, "range", args, 2, 2); err != nil {
		return types.Value{}, err
	}
	if args[0].Kind() != types.KindInt || args[1].Kind() != types.KindInt {
		return types.Value{}, types.NewTypeError(pos, "range requires integer bounds")
	}
	start, end := args[0].AsInt(), args[1].AsInt()
	if end < start {
		return types.NewArray(nil), nil
	}
	out := make([]types.Value, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, types.NewInt(i))
	}
	return types.NewArray(out), nil
}

func keysFn(pos types.Position, args []types.Value) (types.Value, error) {
	if err := requireArgs(pos, "keys", args, 1, 1); err != nil {
		return types.Value{}, err
	}
	if args[0].Kind() != types.KindObject {
		return types.Value{}, types.NewTypeError(pos, "keys requires an object argument")
	}
	ks := args[0].AsObject().Keys()
	out := make([]types.Value, len(ks))
	for i, k := range ks {
		out[i] = types.NewString(k)
	}
	return types.NewArray(out), nil
}

func valuesFn(pos types.Position, args []types.Value) (types.Value, error) {
	if err := requireArgs(pos, "values", args, 1, 1); err != nil {
		return types.Value{}, err
	}
	if args[0].Kind() != types.KindObject {
		return types.Value{}, types.NewTypeError(pos, "values requires an object argument")
	}
	obj := args[0].AsObject()
	ks := obj.Keys()
	out := make([]types.Value, len(ks))
	for i, k := range ks {
		v, _ := obj.Get(k)
		out[i] = v
	}
	return types.NewArray(out), nil
}
