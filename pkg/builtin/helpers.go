package builtin

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"jsonpp/pkg/types"
)

// registerConversion registers len, str, int, float: introspection and
// type-conversion built-ins.
func (r *Registry) registerConversion() {
	r.register("len", lenFn)
	r.register("str", strFn)
	r.register("int", intFn)
	r.register("float", floatFn)
}

func lenFn(pos types.Position, args []types.Value) (types.Value, error) {
	if err := requireArgs(pos, "len", args, 1, 1); err != nil {
		return types.Value{}, err
	}
	switch args[0].Kind() {
	case types.KindString:
		return types.NewInt(int64(len(args[0].AsString()))), nil
	case types.KindArray:
		return types.NewInt(int64(len(args[0].AsArray()))), nil
	case types.KindObject:
		return types.NewInt(int64(args[0].AsObject().Len())), nil
	default:
		return types.Value{}, types.NewTypeError(pos, "len() is not defined for %s", args[0].Kind())
	}
}

func strFn(pos types.Position, args []types.Value) (types.Value, error) {
	if err := requireArgs(pos, "str", args, 1, 1); err != nil {
		return types.Value{}, err
	}
	s, err := stringify(pos, args[0])
	if err != nil {
		return types.Value{}, err
	}
	return types.NewString(s), nil
}

// stringify renders a Value as JPP's str() does: strings pass through
// unquoted, containers render their elements quoted and comma-joined.
// Definition has no string form.
func stringify(pos types.Position, v types.Value) (string, error) {
	switch v.Kind() {
	case types.KindString:
		return v.AsString(), nil
	case types.KindNull:
		return "null", nil
	case types.KindUndefined:
		return "undefined", nil
	case types.KindBool:
		if v.AsBool() {
			return "true", nil
		}
		return "false", nil
	case types.KindInt:
		return fmt.Sprintf("%d", v.AsInt()), nil
	case types.KindFloat:
		return v.String(), nil
	case types.KindArray:
		parts := make([]string, len(v.AsArray()))
		for i, el := range v.AsArray() {
			s, err := stringify(pos, el)
			if err != nil {
				return "", err
			}
			if el.Kind() == types.KindString {
				s = strconv.Quote(s)
			}
			parts[i] = s
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	case types.KindObject:
		obj := v.AsObject()
		parts := make([]string, 0, obj.Len())
		for _, k := range obj.Keys() {
			val, _ := obj.Get(k)
			s, err := stringify(pos, val)
			if err != nil {
				return "", err
			}
			if val.Kind() == types.KindString {
				s = strconv.Quote(s)
			}
			parts = append(parts, fmt.Sprintf("%q: %s", k, s))
		}
		return "{" + strings.Join(parts, ", ") + "}", nil
	default:
		return "", types.NewTypeError(pos, "str() is not defined for %s", v.Kind())
	}
}

func intFn(pos types.Position, args []types.Value) (types.Value, error) {
	if err := requireArgs(pos, "int", args, 1, 1); err != nil {
		return types.Value{}, err
	}
	v := args[0]
	switch v.Kind() {
	case types.KindInt:
		return v, nil
	case types.KindFloat:
		return types.NewInt(roundHalfAwayFromZero(v.AsFloat())), nil
	case types.KindBool:
		if v.AsBool() {
			return types.NewInt(1), nil
		}
		return types.NewInt(0), nil
	case types.KindNull:
		return types.NewInt(0), nil
	case types.KindString:
		i, err := strconv.ParseInt(v.AsString(), 10, 64)
		if err != nil {
			f, ferr := strconv.ParseFloat(v.AsString(), 64)
			if ferr != nil {
				return types.Value{}, types.NewTypeError(pos, "cannot convert %q to int", v.AsString())
			}
			return types.NewInt(roundHalfAwayFromZero(f)), nil
		}
		return types.NewInt(i), nil
	default:
		return types.Value{}, types.NewTypeError(pos, "cannot convert %s to int", v.Kind())
	}
}

// roundHalfAwayFromZero rounds to the nearest integer, breaking ties away
// from zero (2.5 -> 3, -2.5 -> -3), applied symmetrically to negatives.
func roundHalfAwayFromZero(f float64) int64 {
	if f >= 0 {
		return int64(math.Floor(f + 0.5))
	}
	return int64(math.Ceil(f - 0.5))
}

func floatFn(pos types.Position, args []types.Value) (types.Value, error) {
	if err := requireArgs(pos, "float", args, 1, 1); err != nil {
		return types.Value{}, err
	}
	v := args[0]
	switch v.Kind() {
	case types.KindFloat:
		return v, nil
	case types.KindInt:
		return types.NewFloat(float64(v.AsInt())), nil
	case types.KindBool:
		if v.AsBool() {
			return types.NewFloat(1), nil
		}
		return types.NewFloat(0), nil
	case types.KindNull:
		return types.NewFloat(0), nil
	case types.KindString:
		f, err := strconv.ParseFloat(v.AsString(), 64)
		if err != nil {
			return types.Value{}, types.NewTypeError(pos, "cannot convert %q to float", v.AsString())
		}
		return types.NewFloat(f), nil
	default:
		return types.Value{}, types.NewTypeError(pos, "cannot convert %s to float", v.Kind())
	}
}
