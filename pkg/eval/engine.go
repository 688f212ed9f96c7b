// Package eval implements demand-driven, memoized evaluation of a parsed
// JSON++ Node tree: forcing a Node walks it exactly once (caching Raw ->
// InProgress -> Done/Failed on the Node itself), special forms see raw
// unforced argument Nodes, and every other call is strict: arguments are
// forced to Values before the built-in or user-defined function runs.
package eval

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"jsonpp/pkg/builtin"
	"jsonpp/pkg/parser"
	"jsonpp/pkg/refpath"
	"jsonpp/pkg/types"
)

// DefaultMaxDepth is the evaluation depth limit used when none is
// configured. It bounds both call-stack depth (Definition application,
// nested map/filter/reduce) and import nesting, producing a StackError
// well before Go's own growable goroutine stack would be at risk.
const DefaultMaxDepth = 10000

// MinMaxDepth is the lowest depth limit the evaluator will honor; a
// configured value below this is clamped up, since a handful of nested
// definitions is the minimum needed for any non-trivial document.
const MinMaxDepth = 1024

// sharedState is shared by an Evaluator and every Evaluator it spawns to
// evaluate an `import`ed document, so that recursion depth and import
// cycle detection are tracked globally across document boundaries.
type sharedState struct {
	registry  *builtin.Registry
	maxDepth  int
	depth     int
	stack     []*types.Node
	importing map[string]bool
	cloneSeq  int
}

// Evaluator forces Nodes belonging to one document (the primary input, or
// one `import`ed from it). root is the document actually forced by
// Evaluate; primaryRoot is the outermost program's root and is what every
// absolute ref path re-roots against, per an imported document attaching
// as a subtree of the program that imported it rather than anchoring its
// own absolute refs.
type Evaluator struct {
	root        *types.Node
	primaryRoot *types.Node
	shared      *sharedState
}

// New creates the Evaluator for the primary document rooted at root.
// maxDepth <= 0 selects DefaultMaxDepth; a positive value below
// MinMaxDepth is raised to it.
func New(root *types.Node, maxDepth int) *Evaluator {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	} else if maxDepth < MinMaxDepth {
		maxDepth = MinMaxDepth
	}
	return &Evaluator{
		root:        root,
		primaryRoot: root,
		shared: &sharedState{
			registry:  builtin.NewRegistry(),
			maxDepth:  maxDepth,
			importing: make(map[string]bool),
		},
	}
}

// Evaluate forces the document's primary root and returns the resulting
// Value.
func (e *Evaluator) Evaluate() (types.Value, error) {
	return e.Force(e.root)
}

// Force drives n from whatever state it's in towards Done/Failed, per the
// one-way Raw -> InProgress -> {Done|Failed} transition, returning the
// cached result on any later call. It implements refpath.Forcer.
func (e *Evaluator) Force(n *types.Node) (types.Value, error) {
	switch n.State {
	case types.Done:
		return n.Result, nil
	case types.Failed:
		return types.Value{}, n.Err
	case types.InProgress:
		return types.Value{}, e.cycleError(n)
	}

	e.shared.depth++
	if e.shared.depth > e.shared.maxDepth {
		e.shared.depth--
		return types.Value{}, types.NewStackError(n.Pos, e.shared.maxDepth)
	}

	n.State = types.InProgress
	e.shared.stack = append(e.shared.stack, n)

	v, err := e.evaluate(n)

	e.shared.stack = e.shared.stack[:len(e.shared.stack)-1]
	e.shared.depth--

	if err != nil {
		jerr := asJPPError(n.Pos, err)
		n.State = types.Failed
		n.Err = jerr
		return types.Value{}, jerr
	}
	n.State = types.Done
	n.Result = v
	return v, nil
}

func asJPPError(pos types.Position, err error) *types.Error {
	if je, ok := err.(*types.Error); ok {
		return je
	}
	return types.NewTypeError(pos, "%s", err.Error())
}

// cycleError builds a CycleError naming the chain of tree-paths that
// closed the loop, from n's earlier (still in-progress) occurrence on the
// force stack back to n itself.
func (e *Evaluator) cycleError(n *types.Node) *types.Error {
	idx := -1
	for i, s := range e.shared.stack {
		if s == n {
			idx = i
			break
		}
	}
	var cyc []string
	if idx >= 0 {
		for _, s := range e.shared.stack[idx:] {
			cyc = append(cyc, s.PathString())
		}
	}
	cyc = append(cyc, n.PathString())
	return types.NewCycleError(n.Pos, cyc)
}

func scopeFor(n *types.Node) *types.Scope {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Scope != nil {
			return cur.Scope
		}
	}
	return nil
}

func (e *Evaluator) evaluate(n *types.Node) (types.Value, error) {
	switch n.Kind {
	case types.NodeInt:
		return types.NewInt(n.IntVal), nil
	case types.NodeFloat:
		return types.NewFloat(n.FloatVal), nil
	case types.NodeBool:
		return types.NewBool(n.BoolVal), nil
	case types.NodeNull:
		return types.Null, nil
	case types.NodeUndefined:
		return types.Undefined, nil
	case types.NodeString:
		return types.NewString(n.Str), nil
	case types.NodeIdentifier:
		return e.evalIdentifier(n)
	case types.NodeArray:
		return e.evalArray(n)
	case types.NodeObject:
		return e.evalObject(n)
	case types.NodeCall:
		return e.evalCall(n)
	default:
		return types.Value{}, types.NewParseError(n.Pos, "unrecognized node kind")
	}
}

func (e *Evaluator) evalIdentifier(n *types.Node) (types.Value, error) {
	scope := scopeFor(n)
	if scope != nil {
		if v, ok := scope.Get(n.Str); ok {
			return v, nil
		}
	}
	return types.Value{}, types.NewNameError(n.Pos, "undefined name %q", n.Str)
}

// evalArray drops Undefined elements from the memoized result, per the
// array/object evaluation step: the stored Value must already reflect the
// drop, not just the eventual serialized form.
func (e *Evaluator) evalArray(n *types.Node) (types.Value, error) {
	items := make([]types.Value, 0, len(n.Items))
	for _, it := range n.Items {
		v, err := e.Force(it)
		if err != nil {
			return types.Value{}, err
		}
		if v.Kind() == types.KindUndefined {
			continue
		}
		items = append(items, v)
	}
	return types.NewArray(items), nil
}

// evalObject drops Undefined and Definition fields from the memoized
// result, for the same reason as evalArray above.
func (e *Evaluator) evalObject(n *types.Node) (types.Value, error) {
	result := types.NewOrderedMap()
	for _, k := range n.Keys {
		v, err := e.Force(n.Fields[k])
		if err != nil {
			return types.Value{}, err
		}
		if v.Kind() == types.KindUndefined || v.Kind() == types.KindDefinition {
			continue
		}
		result.Set(k, v)
	}
	return types.NewObject(result), nil
}

// specialForms names the non-strict call heads handled directly in this
// package rather than through the builtin.Registry, because they need
// access to unforced argument Nodes.
var specialForms = map[string]bool{
	"if": true, "def": true,
	"map": true, "filter": true, "reduce": true,
	"ref": true, "include": true, "import": true,
}

func (e *Evaluator) evalCall(n *types.Node) (types.Value, error) {
	if n.Head.Kind == types.NodeIdentifier {
		name := n.Head.Str
		if specialForms[name] {
			switch name {
			case "if":
				return e.evalIf(n)
			case "def":
				return e.evalDef(n)
			case "map":
				return e.evalMap(n)
			case "filter":
				return e.evalFilter(n)
			case "reduce":
				return e.evalReduce(n)
			case "ref":
				return e.evalRef(n)
			case "include":
				return e.evalInclude(n)
			case "import":
				return e.evalImport(n)
			}
		}
		if e.shared.registry.IsBuiltin(name) {
			return e.evalBuiltinCall(n, name)
		}
	}
	return e.evalApply(n)
}

func (e *Evaluator) evalBuiltinCall(n *types.Node, name string) (types.Value, error) {
	args, err := e.forceAll(n.Args)
	if err != nil {
		return types.Value{}, err
	}
	return e.shared.registry.Call(n.Pos, name, args)
}

func (e *Evaluator) forceAll(nodes []*types.Node) ([]types.Value, error) {
	out := make([]types.Value, len(nodes))
	for i, a := range nodes {
		v, err := e.Force(a)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// evalApply handles a call whose head is not a special form or built-in
// name: the head expression is forced and must resolve to a Definition,
// which is then applied to the (strictly forced) arguments.
func (e *Evaluator) evalApply(n *types.Node) (types.Value, error) {
	headVal, err := e.Force(n.Head)
	if err != nil {
		return types.Value{}, err
	}
	if headVal.Kind() != types.KindDefinition {
		return types.Value{}, types.NewTypeError(n.Head.Pos, "call head does not resolve to a function, got %s", headVal.Kind())
	}
	args, err := e.forceAll(n.Args)
	if err != nil {
		return types.Value{}, err
	}
	return e.applyDefinition(n.Pos, headVal.AsDefinition(), args)
}

// applyDefinition gives this invocation its own clone of the function
// body, independently memoizable from every other invocation of the same
// Definition (see types.Node.Clone), then forces it with a fresh child
// Scope binding the parameters.
func (e *Evaluator) applyDefinition(pos types.Position, def *types.Definition, args []types.Value) (types.Value, error) {
	if len(args) != len(def.Params) {
		return types.Value{}, types.NewTypeError(pos, "function expects %d argument(s), got %d", len(def.Params), len(args))
	}
	childScope := types.NewScope(def.Captured)
	for i, p := range def.Params {
		childScope.Bind(p, args[i])
	}
	e.shared.cloneSeq++
	tag := fmt.Sprintf("call%d", e.shared.cloneSeq)
	body := def.Body.Clone(tag, nil)
	body.Scope = childScope
	return e.Force(body)
}

func (e *Evaluator) evalIf(n *types.Node) (types.Value, error) {
	if len(n.Args) != 3 {
		return types.Value{}, types.NewTypeError(n.Pos, "if expects 3 arguments (condition, then, else), got %d", len(n.Args))
	}
	cond, err := e.Force(n.Args[0])
	if err != nil {
		return types.Value{}, err
	}
	if cond.Truthy() {
		return e.Force(n.Args[1])
	}
	return e.Force(n.Args[2])
}

func (e *Evaluator) evalDef(n *types.Node) (types.Value, error) {
	if len(n.Args) < 1 {
		return types.Value{}, types.NewTypeError(n.Pos, "def requires at least a body")
	}
	params := make([]string, len(n.Args)-1)
	for i := 0; i < len(n.Args)-1; i++ {
		p := n.Args[i]
		if p.Kind != types.NodeIdentifier {
			return types.Value{}, types.NewTypeError(p.Pos, "def parameters must be identifiers")
		}
		params[i] = p.Str
	}
	body := n.Args[len(n.Args)-1]
	def := &types.Definition{Params: params, Body: body, Captured: scopeFor(n)}
	return types.NewDefinition(def), nil
}

// applicable is a resolved, not-yet-invoked callee for map/filter/reduce:
// either a built-in name (dispatched directly) or an already-forced
// Definition.
type applicable struct {
	isBuiltin bool
	name      string
	def       *types.Definition
}

func (e *Evaluator) resolveApplicable(fNode *types.Node) (applicable, error) {
	if fNode.Kind == types.NodeIdentifier && e.shared.registry.IsBuiltin(fNode.Str) {
		return applicable{isBuiltin: true, name: fNode.Str}, nil
	}
	v, err := e.Force(fNode)
	if err != nil {
		return applicable{}, err
	}
	if v.Kind() != types.KindDefinition {
		return applicable{}, types.NewTypeError(fNode.Pos, "expected a function, got %s", v.Kind())
	}
	return applicable{def: v.AsDefinition()}, nil
}

func (e *Evaluator) apply(pos types.Position, a applicable, args []types.Value) (types.Value, error) {
	if a.isBuiltin {
		return e.shared.registry.Call(pos, a.name, args)
	}
	return e.applyDefinition(pos, a.def, args)
}

func (e *Evaluator) evalMap(n *types.Node) (types.Value, error) {
	if len(n.Args) != 2 {
		return types.Value{}, types.NewTypeError(n.Pos, "map expects 2 arguments (f, collection), got %d", len(n.Args))
	}
	app, err := e.resolveApplicable(n.Args[0])
	if err != nil {
		return types.Value{}, err
	}
	coll, err := e.Force(n.Args[1])
	if err != nil {
		return types.Value{}, err
	}
	switch coll.Kind() {
	case types.KindArray:
		arr := coll.AsArray()
		out := make([]types.Value, len(arr))
		for i, el := range arr {
			v, err := e.apply(n.Pos, app, []types.Value{el})
			if err != nil {
				return types.Value{}, err
			}
			out[i] = v
		}
		return types.NewArray(out), nil
	case types.KindObject:
		obj := coll.AsObject()
		result := types.NewOrderedMap()
		for _, k := range obj.Keys() {
			el, _ := obj.Get(k)
			v, err := e.apply(n.Pos, app, []types.Value{el})
			if err != nil {
				return types.Value{}, err
			}
			result.Set(k, v)
		}
		return types.NewObject(result), nil
	default:
		return types.Value{}, types.NewTypeError(n.Args[1].Pos, "map requires an array or object, got %s", coll.Kind())
	}
}

func (e *Evaluator) evalFilter(n *types.Node) (types.Value, error) {
	if len(n.Args) != 2 {
		return types.Value{}, types.NewTypeError(n.Pos, "filter expects 2 arguments (f, collection), got %d", len(n.Args))
	}
	app, err := e.resolveApplicable(n.Args[0])
	if err != nil {
		return types.Value{}, err
	}
	coll, err := e.Force(n.Args[1])
	if err != nil {
		return types.Value{}, err
	}
	switch coll.Kind() {
	case types.KindArray:
		var out []types.Value
		for _, el := range coll.AsArray() {
			keep, err := e.apply(n.Pos, app, []types.Value{el})
			if err != nil {
				return types.Value{}, err
			}
			if keep.Truthy() {
				out = append(out, el)
			}
		}
		return types.NewArray(out), nil
	case types.KindObject:
		obj := coll.AsObject()
		result := types.NewOrderedMap()
		for _, k := range obj.Keys() {
			el, _ := obj.Get(k)
			keep, err := e.apply(n.Pos, app, []types.Value{el})
			if err != nil {
				return types.Value{}, err
			}
			if keep.Truthy() {
				result.Set(k, el)
			}
		}
		return types.NewObject(result), nil
	default:
		return types.Value{}, types.NewTypeError(n.Args[1].Pos, "filter requires an array or object, got %s", coll.Kind())
	}
}

func (e *Evaluator) evalReduce(n *types.Node) (types.Value, error) {
	if len(n.Args) != 2 && len(n.Args) != 3 {
		return types.Value{}, types.NewTypeError(n.Pos, "reduce expects 2 or 3 arguments (f, collection[, init]), got %d", len(n.Args))
	}
	app, err := e.resolveApplicable(n.Args[0])
	if err != nil {
		return types.Value{}, err
	}
	coll, err := e.Force(n.Args[1])
	if err != nil {
		return types.Value{}, err
	}
	if coll.Kind() != types.KindArray {
		return types.Value{}, types.NewTypeError(n.Args[1].Pos, "reduce requires an array, got %s", coll.Kind())
	}
	arr := coll.AsArray()

	var acc types.Value
	start := 0
	if len(n.Args) == 3 {
		acc, err = e.Force(n.Args[2])
		if err != nil {
			return types.Value{}, err
		}
	} else if len(arr) == 0 {
		return types.Undefined, nil
	} else {
		acc = arr[0]
		start = 1
	}

	for i := start; i < len(arr); i++ {
		acc, err = e.apply(n.Pos, app, []types.Value{acc, arr[i]})
		if err != nil {
			return types.Value{}, err
		}
	}
	return acc, nil
}

// evalRef implements `ref(path, …extras)`. Only the path argument is
// forced here; any extras exist solely to be addressed by a `(i)`
// call-arg-index step in the path itself (see pkg/refpath), and must stay
// raw Nodes so that refpath.Resolve can apply such a step to them.
func (e *Evaluator) evalRef(n *types.Node) (types.Value, error) {
	if len(n.Args) < 1 {
		return types.Value{}, types.NewTypeError(n.Pos, "ref expects at least 1 argument (a path string), got %d", len(n.Args))
	}
	pathVal, err := e.Force(n.Args[0])
	if err != nil {
		return types.Value{}, err
	}
	if pathVal.Kind() != types.KindString {
		return types.Value{}, types.NewTypeError(n.Args[0].Pos, "ref path must be a string, got %s", pathVal.Kind())
	}
	path, err := refpath.Parse(pathVal.AsString())
	if err != nil {
		return types.Value{}, refpath.ToRefError(n.Pos, err)
	}
	return refpath.Resolve(path, n, e.primaryRoot, e)
}

func (e *Evaluator) resolveIncludePath(n *types.Node) (string, error) {
	if len(n.Args) != 1 {
		return "", types.NewTypeError(n.Pos, "%s expects 1 argument (a file path), got %d", n.Head.Str, len(n.Args))
	}
	pathVal, err := e.Force(n.Args[0])
	if err != nil {
		return "", err
	}
	if pathVal.Kind() != types.KindString {
		return "", types.NewTypeError(n.Args[0].Pos, "%s path must be a string, got %s", n.Head.Str, pathVal.Kind())
	}
	p := pathVal.AsString()
	if filepath.IsAbs(p) {
		return p, nil
	}
	return filepath.Join(filepath.Dir(n.Pos.File), p), nil
}

func (e *Evaluator) evalInclude(n *types.Node) (types.Value, error) {
	path, err := e.resolveIncludePath(n)
	if err != nil {
		return types.Value{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Value{}, types.NewIOError(n.Pos, "cannot include %q: %s", path, err)
	}
	return types.NewString(strings.TrimSpace(string(data))), nil
}

func (e *Evaluator) evalImport(n *types.Node) (types.Value, error) {
	path, err := e.resolveIncludePath(n)
	if err != nil {
		return types.Value{}, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return types.Value{}, types.NewIOError(n.Pos, "cannot resolve import path %q: %s", path, err)
	}
	if e.shared.importing[abs] {
		return types.Value{}, types.NewCycleError(n.Pos, []string{abs, abs})
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return types.Value{}, types.NewIOError(n.Pos, "cannot import %q: %s", path, err)
	}
	root, err := parser.Parse(abs, string(data))
	if err != nil {
		return types.Value{}, err
	}
	e.shared.importing[abs] = true
	defer delete(e.shared.importing, abs)

	// Attach the imported document as a subtree of the import call Node:
	// a relative ref that ascends past the imported root continues on up
	// into the outer tree rather than hitting a dead end, and an absolute
	// ref inside the imported document re-roots against the outer
	// program's own primary root (via primaryRoot below), not its own.
	root.Parent = n
	sub := &Evaluator{root: root, primaryRoot: e.primaryRoot, shared: e.shared}
	return sub.Evaluate()
}
