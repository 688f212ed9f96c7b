package serialize

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"jsonpp/pkg/types"
)

func TestMarshalScalars(t *testing.T) {
	tests := []struct {
		name string
		v    types.Value
		want string
	}{
		{"int", types.NewInt(42), "42"},
		{"negative int", types.NewInt(-7), "-7"},
		{"float keeps point", types.NewFloat(2), "2.0"},
		{"float fraction", types.NewFloat(1.5), "1.5"},
		{"bool", types.NewBool(true), "true"},
		{"null", types.Null, "null"},
		{"string", types.NewString(`a"b`), `"a\"b"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Marshal(tt.v)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, string(got)); diff != "" {
				t.Errorf("Marshal mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMarshalArrayDropsUndefined(t *testing.T) {
	v := types.NewArray([]types.Value{types.NewInt(1), types.Undefined, types.NewInt(3)})
	got, err := Marshal(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff("[1,3]", string(got)); diff != "" {
		t.Errorf("Marshal mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalObjectDropsUndefinedAndDefinitionPreservesOrder(t *testing.T) {
	obj := types.NewOrderedMap()
	obj.Set("keep", types.NewInt(1))
	obj.Set("drop", types.Undefined)
	obj.Set("fn", types.NewDefinition(&types.Definition{}))
	obj.Set("last", types.NewString("z"))
	got, err := Marshal(types.NewObject(obj))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(`{"keep":1,"last":"z"}`, string(got)); diff != "" {
		t.Errorf("Marshal mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalTopLevelUndefinedErrors(t *testing.T) {
	if _, err := Marshal(types.Undefined); err == nil {
		t.Fatal("expected an error serializing a top-level undefined value")
	}
}

func TestMarshalNonFiniteFloatErrors(t *testing.T) {
	if _, err := Marshal(types.NewFloat(math.Inf(1))); err == nil {
		t.Fatal("expected an error serializing a non-finite float")
	}
}

func TestMarshalIndent(t *testing.T) {
	obj := types.NewOrderedMap()
	obj.Set("a", types.NewInt(1))
	got, err := MarshalIndent(types.NewObject(obj), "", "  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "{\n  \"a\": 1\n}"
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("MarshalIndent mismatch (-want +got):\n%s", diff)
	}
}
