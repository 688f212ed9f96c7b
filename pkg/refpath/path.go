// Package refpath implements the small path sub-language consumed by the
// `ref` built-in: parsing a path string into Steps (path.go) and resolving
// those Steps against the Node tree (resolve.go).
package refpath

import (
	"fmt"
	"strconv"
	"strings"

	"jsonpp/pkg/types"
)

// StepKind is the tag of one segment of a parsed ref-path.
type StepKind int

const (
	StepKey      StepKind = iota // bare identifier: object-key access
	StepIndex                    // [i]: array index, i may be negative
	StepWildcard                 // [_]: every array element
	StepArg                      // (i): call head(0)/arg(i) access
)

// Step is one parsed segment of a ref-path.
type Step struct {
	Kind  StepKind
	Key   string
	Index int
}

// Path is a fully parsed ref-path: the anchor (primary root, or the ref
// call Node itself after Ascents parent hops) plus the Steps applied from
// that anchor.
type Path struct {
	Relative bool // true if the path started with one or more leading dots
	Ascents  int  // parent hops beyond the initial self-anchor (only if Relative)
	Steps    []Step
}

// Parse parses a ref-path string per the grammar in the path sub-language:
//
//	path   := step*
//	step   := '.' | '[' sint ']' | '[' '_' ']' | '(' uint ')' | ident
//
// A run of N>=1 leading dots selects Relative with Ascents=N-1, so "."
// alone anchors at the ref call Node itself, ".." at its parent, and so
// on; with no leading dot the path is absolute, anchored at the primary
// root. A single '.' between a key-step and the next step is a separator
// and is skipped rather than counted as an ascent.
func Parse(s string) (Path, error) {
	i := 0
	leading := 0
	for i < len(s) && s[i] == '.' {
		leading++
		i++
	}
	p := Path{}
	if leading > 0 {
		p.Relative = true
		p.Ascents = leading - 1
	}

	for i < len(s) {
		c := s[i]
		switch {
		case c == '.':
			i++ // separator between steps, not counted
		case c == '[':
			j := strings.IndexByte(s[i:], ']')
			if j < 0 {
				return Path{}, pathErrorf("unterminated '[' in path %q", s)
			}
			inner := s[i+1 : i+j]
			i += j + 1
			if inner == "_" {
				p.Steps = append(p.Steps, Step{Kind: StepWildcard})
				continue
			}
			n, err := strconv.Atoi(inner)
			if err != nil {
				return Path{}, pathErrorf("invalid array index %q in path %q", inner, s)
			}
			p.Steps = append(p.Steps, Step{Kind: StepIndex, Index: n})
		case c == '(':
			j := strings.IndexByte(s[i:], ')')
			if j < 0 {
				return Path{}, pathErrorf("unterminated '(' in path %q", s)
			}
			inner := s[i+1 : i+j]
			i += j + 1
			n, err := strconv.Atoi(inner)
			if err != nil || n < 0 {
				return Path{}, pathErrorf("invalid call-arg index %q in path %q", inner, s)
			}
			p.Steps = append(p.Steps, Step{Kind: StepArg, Index: n})
		default:
			start := i
			for i < len(s) && s[i] != '.' && s[i] != '[' && s[i] != '(' {
				i++
			}
			key := s[start:i]
			if key == "" {
				return Path{}, pathErrorf("empty key step in path %q", s)
			}
			p.Steps = append(p.Steps, Step{Kind: StepKey, Key: key})
		}
	}
	return p, nil
}

// pathErrorf is wrapped into a *types.Error (RefError) by the caller, which
// has the source position of the ref call; Parse itself is position-free.
func pathErrorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// ToRefError wraps a parse error returned by Parse into a positioned
// types.Error of KindRefError.
func ToRefError(pos types.Position, err error) *types.Error {
	return types.NewRefError(pos, "%s", err.Error())
}
