package builtin

import (
	"math"

	"jsonpp/pkg/types"
)

// registerArithmetic registers the numeric reduction functions: sum, sub,
// mul, div, pow, log, mod, max, min. sum, sub, mul, max and min accept two
// or more Int/Float arguments, promoting the whole operation to Float if
// any argument is Float, and left-reduce pairwise exactly like the
// two-argument case repeated; div, mod, pow and log take exactly two.
func (r *Registry) registerArithmetic() {
	r.register("sum", numReduce2("sum", checkedAdd, func(a, b float64) float64 { return a + b }))
	r.register("mul", numReduce2("mul", checkedMul, func(a, b float64) float64 { return a * b }))
	r.register("sub", numReduce2("sub", checkedSub, func(a, b float64) float64 { return a - b }))
	r.register("max", numReduce2("max", func(a, b int64) (int64, bool) {
		if a >= b {
			return a, true
		}
		return b, true
	}, math.Max))
	r.register("min", numReduce2("min", func(a, b int64) (int64, bool) {
		if a <= b {
			return a, true
		}
		return b, true
	}, math.Min))
	r.register("div", divFn)
	r.register("mod", modFn)
	r.register("pow", powFn)
	r.register("log", logFn)
}

func asNumber(pos types.Position, name string, v types.Value) (float64, error) {
	f, ok := v.AsNumber()
	if !ok {
		return 0, types.NewTypeError(pos, "%s requires numeric arguments, got %s", name, v.Kind())
	}
	return f, nil
}

// checkedAdd, checkedSub and checkedMul report overflow via their bool
// result rather than silently wrapping, per int64 arithmetic being
// required to error on overflow instead of wrapping.
func checkedAdd(a, b int64) (int64, bool) {
	c := a + b
	if ((a ^ c) & (b ^ c)) < 0 {
		return 0, false
	}
	return c, true
}

func checkedSub(a, b int64) (int64, bool) {
	c := a - b
	if ((a ^ b) & (a ^ c)) < 0 {
		return 0, false
	}
	return c, true
}

func checkedMul(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == math.MinInt64 && b == -1) || (b == math.MinInt64 && a == -1) {
		return 0, false
	}
	c := a * b
	if c/b != a {
		return 0, false
	}
	return c, true
}

// numReduce2 builds a left-reducing numeric function: if every argument is
// Int the reduction is done in Int and an overflow reported by intF is a
// MathError; otherwise the whole reduction is done in Float.
func numReduce2(name string, intF func(a, b int64) (int64, bool), floatF func(a, b float64) float64) Func {
	return func(pos types.Position, args []types.Value) (types.Value, error) {
		if err := requireArgs(pos, name, args, 2, 1<<20); err != nil {
			return types.Value{}, err
		}
		allInt := true
		for _, a := range args {
			if !a.IsNumeric() {
				return types.Value{}, types.NewTypeError(pos, "%s requires numeric arguments, got %s", name, a.Kind())
			}
			if a.Kind() != types.KindInt {
				allInt = false
			}
		}
		if allInt {
			acc := args[0].AsInt()
			for _, a := range args[1:] {
				var ok bool
				acc, ok = intF(acc, a.AsInt())
				if !ok {
					return types.Value{}, types.NewMathError(pos, "%s overflows int64", name)
				}
			}
			return types.NewInt(acc), nil
		}
		acc, err := asNumber(pos, name, args[0])
		if err != nil {
			return types.Value{}, err
		}
		for _, a := range args[1:] {
			f, err := asNumber(pos, name, a)
			if err != nil {
				return types.Value{}, err
			}
			acc = floatF(acc, f)
		}
		return types.NewFloat(acc), nil
	}
}

func divFn(pos types.Position, args []types.Value) (types.Value, error) {
	if err := requireArgs(pos, "div", args, 2, 2); err != nil {
		return types.Value{}, err
	}
	a, b := args[0], args[1]
	if a.Kind() == types.KindInt && b.Kind() == types.KindInt {
		ai, bi := a.AsInt(), b.AsInt()
		if bi == 0 {
			return types.Value{}, types.NewMathError(pos, "division by zero")
		}
		if ai%bi == 0 {
			return types.NewInt(ai / bi), nil
		}
		return types.NewFloat(float64(ai) / float64(bi)), nil
	}
	af, err := asNumber(pos, "div", a)
	if err != nil {
		return types.Value{}, err
	}
	bf, err := asNumber(pos, "div", b)
	if err != nil {
		return types.Value{}, err
	}
	if bf == 0 {
		return types.Value{}, types.NewMathError(pos, "division by zero")
	}
	return types.NewFloat(af / bf), nil
}

func modFn(pos types.Position, args []types.Value) (types.Value, error) {
	if err := requireArgs(pos, "mod", args, 2, 2); err != nil {
		return types.Value{}, err
	}
	a, b := args[0], args[1]
	if a.Kind() == types.KindInt && b.Kind() == types.KindInt {
		if b.AsInt() == 0 {
			return types.Value{}, types.NewMathError(pos, "modulo by zero")
		}
		return types.NewInt(a.AsInt() % b.AsInt()), nil
	}
	af, err := asNumber(pos, "mod", a)
	if err != nil {
		return types.Value{}, err
	}
	bf, err := asNumber(pos, "mod", b)
	if err != nil {
		return types.Value{}, err
	}
	if bf == 0 {
		return types.Value{}, types.NewMathError(pos, "modulo by zero")
	}
	return types.NewFloat(math.Mod(af, bf)), nil
}

func powFn(pos types.Position, args []types.Value) (types.Value, error) {
	if err := requireArgs(pos, "pow", args, 2, 2); err != nil {
		return types.Value{}, err
	}
	a, b := args[0], args[1]
	if a.Kind() == types.KindInt && b.Kind() == types.KindInt {
		exp := b.AsInt()
		if exp >= 0 {
			result, ok := intPow(a.AsInt(), exp)
			if !ok {
				return types.Value{}, types.NewMathError(pos, "pow overflows int64")
			}
			return types.NewInt(result), nil
		}
		f := math.Pow(float64(a.AsInt()), float64(exp))
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return types.Value{}, types.NewMathError(pos, "pow produces a non-finite result")
		}
		rounded := math.Round(f)
		if rounded < math.MinInt64 || rounded > math.MaxInt64 {
			return types.Value{}, types.NewMathError(pos, "pow overflows int64")
		}
		return types.NewInt(int64(rounded)), nil
	}
	af, err := asNumber(pos, "pow", a)
	if err != nil {
		return types.Value{}, err
	}
	bf, err := asNumber(pos, "pow", b)
	if err != nil {
		return types.Value{}, err
	}
	f := math.Pow(af, bf)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return types.Value{}, types.NewMathError(pos, "pow produces a non-finite result")
	}
	return types.NewFloat(f), nil
}

// intPow computes base^exp (exp >= 0) via exponentiation by squaring,
// reporting int64 overflow instead of silently wrapping.
func intPow(base, exp int64) (int64, bool) {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			var ok bool
			result, ok = checkedMul(result, base)
			if !ok {
				return 0, false
			}
		}
		exp >>= 1
		if exp > 0 {
			var ok bool
			base, ok = checkedMul(base, base)
			if !ok {
				return 0, false
			}
		}
	}
	return result, true
}

func logFn(pos types.Position, args []types.Value) (types.Value, error) {
	if err := requireArgs(pos, "log", args, 2, 2); err != nil {
		return types.Value{}, err
	}
	base, x := args[0], args[1]
	if base.Kind() == types.KindInt && x.Kind() == types.KindInt {
		if base.AsInt() <= 1 {
			return types.Value{}, types.NewMathError(pos, "logarithm base must be greater than 1")
		}
		if x.AsInt() <= 0 {
			return types.Value{}, types.NewMathError(pos, "logarithm of a non-positive number")
		}
		return types.NewInt(ilog(base.AsInt(), x.AsInt())), nil
	}
	bf, err := asNumber(pos, "log", base)
	if err != nil {
		return types.Value{}, err
	}
	xf, err := asNumber(pos, "log", x)
	if err != nil {
		return types.Value{}, err
	}
	if bf <= 0 {
		return types.Value{}, types.NewMathError(pos, "logarithm base must be greater than 0")
	}
	if bf == 1 {
		return types.Value{}, types.NewMathError(pos, "there is no base-1 logarithm")
	}
	if xf <= 0 {
		return types.Value{}, types.NewMathError(pos, "logarithm of a non-positive number")
	}
	result := math.Log(xf) / math.Log(bf)
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return types.Value{}, types.NewMathError(pos, "log produces a non-finite result")
	}
	return types.NewFloat(result), nil
}

func ilog(base, x int64) int64 {
	n := int64(0)
	for x >= base {
		x /= base
		n++
	}
	return n
}
