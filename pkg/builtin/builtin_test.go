package builtin

import (
	"testing"

	"jsonpp/pkg/types"
)

var noPos = types.Position{File: "t.jpp", Line: 1, Col: 1}

func call(t *testing.T, r *Registry, name string, args ...types.Value) types.Value {
	t.Helper()
	v, err := r.Call(noPos, name, args)
	if err != nil {
		t.Fatalf("%s(%v) returned error: %v", name, args, err)
	}
	return v
}

func TestArithmeticIntStaysInt(t *testing.T) {
	r := NewRegistry()
	v := call(t, r, "sum", types.NewInt(1), types.NewInt(2), types.NewInt(3))
	if v.Kind() != types.KindInt || v.AsInt() != 6 {
		t.Errorf("got %v, want int 6", v)
	}
}

func TestArithmeticMixedPromotesToFloat(t *testing.T) {
	r := NewRegistry()
	v := call(t, r, "sum", types.NewInt(1), types.NewFloat(2.5))
	if v.Kind() != types.KindFloat || v.AsFloat() != 3.5 {
		t.Errorf("got %v, want float 3.5", v)
	}
}

func TestDivByZeroIsMathError(t *testing.T) {
	r := NewRegistry()
	_, err := r.Call(noPos, "div", []types.Value{types.NewInt(1), types.NewInt(0)})
	jppErr, ok := err.(*types.Error)
	if !ok || jppErr.Kind != types.KindMathError {
		t.Fatalf("got %v, want MathError", err)
	}
}

func mathError(t *testing.T, err error) *types.Error {
	t.Helper()
	jppErr, ok := err.(*types.Error)
	if !ok || jppErr.Kind != types.KindMathError {
		t.Fatalf("got %v, want MathError", err)
	}
	return jppErr
}

func TestSumOverflowIsMathError(t *testing.T) {
	r := NewRegistry()
	_, err := r.Call(noPos, "sum", []types.Value{types.NewInt(9223372036854775807), types.NewInt(1)})
	mathError(t, err)
}

func TestSubOverflowIsMathError(t *testing.T) {
	r := NewRegistry()
	_, err := r.Call(noPos, "sub", []types.Value{types.NewInt(-9223372036854775808), types.NewInt(1)})
	mathError(t, err)
}

func TestMulOverflowIsMathError(t *testing.T) {
	r := NewRegistry()
	_, err := r.Call(noPos, "mul", []types.Value{types.NewInt(9223372036854775807), types.NewInt(2)})
	mathError(t, err)
}

func TestPowNonFiniteFloatResultIsMathError(t *testing.T) {
	r := NewRegistry()
	_, err := r.Call(noPos, "pow", []types.Value{types.NewFloat(-1.0), types.NewFloat(0.5)})
	mathError(t, err)
}

func TestPowIntOverflowIsMathError(t *testing.T) {
	r := NewRegistry()
	_, err := r.Call(noPos, "pow", []types.Value{types.NewInt(2), types.NewInt(100)})
	mathError(t, err)
}

func TestLogNonPositiveBaseIsMathError(t *testing.T) {
	r := NewRegistry()
	_, err := r.Call(noPos, "log", []types.Value{types.NewFloat(0.0), types.NewFloat(5.0)})
	mathError(t, err)
	_, err = r.Call(noPos, "log", []types.Value{types.NewFloat(-2.0), types.NewFloat(5.0)})
	mathError(t, err)
}

func TestDivOfNonMultipleIntsYieldsFloat(t *testing.T) {
	r := NewRegistry()
	v := call(t, r, "div", types.NewInt(7), types.NewInt(2))
	if v.Kind() != types.KindFloat || v.AsFloat() != 3.5 {
		t.Errorf("div(7,2) = %v, want float 3.5", v)
	}
}

func TestDivOfExactMultipleIntsStaysInt(t *testing.T) {
	r := NewRegistry()
	v := call(t, r, "div", types.NewInt(6), types.NewInt(3))
	if v.Kind() != types.KindInt || v.AsInt() != 2 {
		t.Errorf("div(6,3) = %v, want int 2", v)
	}
}

func TestLtGtAcceptStringsLexicographically(t *testing.T) {
	r := NewRegistry()
	if v := call(t, r, "lt", types.NewString("a"), types.NewString("b")); !v.AsBool() {
		t.Error("lt(a, b) should be true")
	}
	if v := call(t, r, "gt", types.NewString("b"), types.NewString("a")); !v.AsBool() {
		t.Error("gt(b, a) should be true")
	}
}

func TestIntRoundsHalvesAwayFromZero(t *testing.T) {
	r := NewRegistry()
	if v := call(t, r, "int", types.NewFloat(2.5)); v.AsInt() != 3 {
		t.Errorf("int(2.5) = %v, want 3", v)
	}
	if v := call(t, r, "int", types.NewFloat(-2.5)); v.AsInt() != -3 {
		t.Errorf("int(-2.5) = %v, want -3", v)
	}
}

func TestMergeObjectsIsRightBiased(t *testing.T) {
	r := NewRegistry()
	a := types.NewOrderedMap()
	a.Set("x", types.NewInt(1))
	a.Set("y", types.NewInt(2))
	b := types.NewOrderedMap()
	b.Set("y", types.NewInt(99))
	v := call(t, r, "merge", types.NewObject(a), types.NewObject(b))
	got, _ := v.AsObject().Get("y")
	if got.AsInt() != 99 {
		t.Errorf("merged y = %v, want 99", got)
	}
}

func TestMergeMismatchedKindsIsTypeError(t *testing.T) {
	r := NewRegistry()
	_, err := r.Call(noPos, "merge", []types.Value{types.NewString("a"), types.NewInt(1)})
	jppErr, ok := err.(*types.Error)
	if !ok || jppErr.Kind != types.KindTypeError {
		t.Fatalf("got %v, want TypeError", err)
	}
}

func TestRangeHalfOpen(t *testing.T) {
	r := NewRegistry()
	v := call(t, r, "range", types.NewInt(2), types.NewInt(5))
	arr := v.AsArray()
	if len(arr) != 3 || arr[0].AsInt() != 2 || arr[2].AsInt() != 4 {
		t.Errorf("range(2,5) = %v, want [2,3,4]", arr)
	}
}

func TestEqCrossTypeNumeric(t *testing.T) {
	r := NewRegistry()
	v := call(t, r, "eq", types.NewInt(3), types.NewFloat(3.0))
	if !v.AsBool() {
		t.Error("eq(3, 3.0) should be true")
	}
}

func TestUnknownFunctionIsNameError(t *testing.T) {
	r := NewRegistry()
	_, err := r.Call(noPos, "frobnicate", nil)
	jppErr, ok := err.(*types.Error)
	if !ok || jppErr.Kind != types.KindNameError {
		t.Fatalf("got %v, want NameError", err)
	}
}
