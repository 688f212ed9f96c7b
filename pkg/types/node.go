package types

import "fmt"

// NodeKind is the tag of a parsed-tree Node, before evaluation collapses it
// to a Value.
type NodeKind int

const (
	NodeInt NodeKind = iota
	NodeFloat
	NodeBool
	NodeNull
	NodeString
	NodeUndefined
	NodeArray
	NodeObject
	NodeCall
	NodeIdentifier
)

// EvalState tracks a Node's progress through the demand-driven evaluator.
// Transitions are one-way: Raw -> InProgress -> {Done|Failed}.
type EvalState int

const (
	Raw EvalState = iota
	InProgress
	Done
	Failed
)

// StepKind is the tag of a single tree-path segment (ref-paths use
// pkg/refpath's own Step type).
type StepKind int

const (
	StepKey  StepKind = iota // object member access
	StepIndex                // array element access (possibly negative)
	StepArg                  // call head(0)/arg(i) access
)

// Step is one segment of a Node's tree-path.
type Step struct {
	Kind  StepKind
	Key   string
	Index int
}

func (s Step) String() string {
	switch s.Kind {
	case StepKey:
		return "." + s.Key
	case StepIndex:
		return fmt.Sprintf("[%d]", s.Index)
	case StepArg:
		return fmt.Sprintf("(%d)", s.Index)
	default:
		return "?"
	}
}

// Node is a position in the parsed JSON++ tree. Source structure (Kind,
// Items/Fields/Head/Args) is immutable after parsing; State/Result/Err are
// the mutable slot the Evaluator writes, once, per Node. The Evaluator also
// sets Parent or Scope on a freshly built root (an imported document's
// root, a cloned Definition body) before forcing it.
type Node struct {
	Kind NodeKind
	Pos  Position
	Path []Step
	Parent *Node

	// scalar payload
	IntVal   int64
	FloatVal float64
	BoolVal  bool
	Str      string // String literal text, or Identifier name

	// container payload
	Items  []*Node          // Array
	Keys   []string         // Object, insertion order
	Fields map[string]*Node // Object

	// call payload
	Head *Node
	Args []*Node

	// evaluation state, owned exclusively by the Evaluator
	State  EvalState
	Result Value
	Err    *Error

	// Scope is non-nil only at the root of a Definition invocation's cloned
	// body (set by the Evaluator when applying a Definition); Identifier
	// resolution walks up Parent until it finds a Node with a non-nil Scope.
	Scope *Scope
}

// PathString renders the tree-path from the primary root, e.g. ".a[0](1)".
func (n *Node) PathString() string {
	if len(n.Path) == 0 {
		return "<root>"
	}
	out := ""
	for _, s := range n.Path {
		out += s.String()
	}
	return out
}

// pushPath returns a copy of the parent's path with one more Step appended,
// used while building child Nodes during parsing or cloning.
func pushPath(base []Step, s Step) []Step {
	out := make([]Step, len(base)+1)
	copy(out, base)
	out[len(base)] = s
	return out
}

// NewChildPath is exported for pkg/parser, which needs to extend a Node's
// path when constructing descendants.
func NewChildPath(base []Step, s Step) []Step { return pushPath(base, s) }

// Clone deep-copies the static structure of n, assigning every copied Node
// a fresh Raw state and a path that disambiguates this instantiation from
// the template (and from any sibling instantiation). It is used exclusively
// to give each invocation of a user-defined function its own independently
// memoizable copy of the function body; see pkg/eval's applyDefinition.
func (n *Node) Clone(tag string, parent *Node) *Node {
	c := &Node{
		Kind:     n.Kind,
		Pos:      n.Pos,
		Path:     pushPath(n.Path, Step{Kind: StepKey, Key: tag}),
		Parent:   parent,
		IntVal:   n.IntVal,
		FloatVal: n.FloatVal,
		BoolVal:  n.BoolVal,
		Str:      n.Str,
		State:    Raw,
	}
	if n.Items != nil {
		c.Items = make([]*Node, len(n.Items))
		for i, item := range n.Items {
			c.Items[i] = item.Clone(tag, c)
		}
	}
	if n.Fields != nil {
		c.Fields = make(map[string]*Node, len(n.Fields))
		c.Keys = append([]string(nil), n.Keys...)
		for _, k := range n.Keys {
			c.Fields[k] = n.Fields[k].Clone(tag, c)
		}
	}
	if n.Head != nil {
		c.Head = n.Head.Clone(tag, c)
	}
	if n.Args != nil {
		c.Args = make([]*Node, len(n.Args))
		for i, a := range n.Args {
			c.Args[i] = a.Clone(tag, c)
		}
	}
	return c
}
