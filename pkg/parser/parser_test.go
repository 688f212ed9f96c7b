package parser

import (
	"testing"

	"jsonpp/pkg/types"
)

func TestParseLiterals(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  types.NodeKind
	}{
		{"int", `42`, types.NodeInt},
		{"negative int", `-42`, types.NodeInt},
		{"float", `1.5`, types.NodeFloat},
		{"exponent", `1e10`, types.NodeFloat},
		{"string", `"hi"`, types.NodeString},
		{"true", `true`, types.NodeBool},
		{"false", `false`, types.NodeBool},
		{"null", `null`, types.NodeNull},
		{"undefined", `undefined`, types.NodeUndefined},
		{"identifier", `sum`, types.NodeIdentifier},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Parse("t.jpp", tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n.Kind != tt.kind {
				t.Errorf("got kind %v, want %v", n.Kind, tt.kind)
			}
		})
	}
}

func TestParseObjectPreservesOrderAndPaths(t *testing.T) {
	n, err := Parse("t.jpp", `{"b": 1, "a": 2,}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Kind != types.NodeObject {
		t.Fatalf("got kind %v, want object", n.Kind)
	}
	if got := n.Keys; len(got) != 2 || got[0] != "b" || got[1] != "a" {
		t.Errorf("got keys %v, want [b a]", got)
	}
	if n.Fields["a"].PathString() != ".a" {
		t.Errorf("got path %q, want %q", n.Fields["a"].PathString(), ".a")
	}
}

func TestParseArrayCommaOptionalTrailingAllowed(t *testing.T) {
	n, err := Parse("t.jpp", `[1, 2, 3,]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(n.Items) != 3 {
		t.Fatalf("got %d items, want 3", len(n.Items))
	}
	if n.Items[2].PathString() != "[2]" {
		t.Errorf("got path %q, want %q", n.Items[2].PathString(), "[2]")
	}
}

func TestParseCallCommasOptional(t *testing.T) {
	withCommas, err := Parse("t.jpp", `(sum 1, 2, 3,)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	withoutCommas, err := Parse("t.jpp", `(sum 1 2 3)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, n := range []*types.Node{withCommas, withoutCommas} {
		if n.Kind != types.NodeCall {
			t.Fatalf("got kind %v, want call", n.Kind)
		}
		if n.Head.Str != "sum" {
			t.Errorf("got head %q, want sum", n.Head.Str)
		}
		if len(n.Args) != 3 {
			t.Fatalf("got %d args, want 3", len(n.Args))
		}
		if n.Args[0].PathString() != "(1)" {
			t.Errorf("got path %q, want (1)", n.Args[0].PathString())
		}
	}
}

func TestParseRejectsDuplicateKeys(t *testing.T) {
	_, err := Parse("t.jpp", `{"a": 1, "a": 2}`)
	if err == nil {
		t.Fatal("expected a ParseError for duplicate key")
	}
}

func TestParseRejectsUnterminatedString(t *testing.T) {
	_, err := Parse("t.jpp", `"abc`)
	if err == nil {
		t.Fatal("expected a ParseError for unterminated string")
	}
}

func TestParseComments(t *testing.T) {
	n, err := Parse("t.jpp", `
// leading comment
{
  "a": 1 /* inline */, "b": 2
}
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(n.Keys) != 2 {
		t.Fatalf("got %d keys, want 2", len(n.Keys))
	}
}
