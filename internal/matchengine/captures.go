// Package matchengine evaluates a compiled pattern.Expr against an
// astview.Node, the same recursive "walk the variant, dispatch on type"
// shape the teacher's evaluator uses for its own node tree, generalised
// here to pg_query_go's reflection-backed nodes and to this grammar's
// richer capture/backreference/ellipsis semantics.
package matchengine

import "github.com/oxhq/pgfast/internal/astview"

// Captured is a single binding recorded during a successful match: the
// node or scalar value that satisfied a Capture.
type Captured struct {
	Node   astview.Node
	Scalar any
	IsNode bool
}

// Captures accumulates bindings made during one top-level match attempt,
// keyed by capture name or by integer positional index (the n of "\n"). A
// single Captures is shared across an entire match call. Bindings made by
// a branch that fails (an Any alternative, a HasChild or list candidate, a
// failed All or Capture) are rolled back, and Not discards everything
// bound while evaluating its inner expression.
type Captures struct {
	byName  map[string]Captured
	byIndex map[int]Captured
}

// NewCaptures returns an empty capture context.
func NewCaptures() *Captures {
	return &Captures{byName: map[string]Captured{}, byIndex: map[int]Captured{}}
}

func (c *Captures) bindName(name string, v Captured) {
	c.byName[name] = v
}

func (c *Captures) bindIndex(idx int, v Captured) {
	c.byIndex[idx] = v
}

func (c *Captures) lookupName(name string) (Captured, bool) {
	v, ok := c.byName[name]
	return v, ok
}

func (c *Captures) lookupIndex(idx int) (Captured, bool) {
	v, ok := c.byIndex[idx]
	return v, ok
}

// snapshot returns a shallow copy used to restore state after a failed
// speculative branch (Any alternatives, All backtracking).
func (c *Captures) snapshot() *Captures {
	cp := NewCaptures()
	for k, v := range c.byName {
		cp.byName[k] = v
	}
	for k, v := range c.byIndex {
		cp.byIndex[k] = v
	}
	return cp
}

func (c *Captures) restore(from *Captures) {
	c.byName = from.byName
	c.byIndex = from.byIndex
}

// Snapshot is the public, read-only view of the bindings made by a
// successful top-level match, returned to callers of Search so they can
// resolve named and positional captures without reaching into internals.
type Snapshot struct {
	Names    map[string]Captured
	Indexes  map[int]Captured
	nameKeys []string // first-appearance order, for deterministic iteration
}

// OrderedNames returns the pattern's capture names in the order they first
// appear in the pattern, matching the ordering search_with_captures
// guarantees.
func (s *Snapshot) OrderedNames() []string {
	return s.nameKeys
}

func (c *Captures) Snapshot(order []string) *Snapshot {
	names := make(map[string]Captured, len(c.byName))
	for k, v := range c.byName {
		names[k] = v
	}
	idx := make(map[int]Captured, len(c.byIndex))
	for k, v := range c.byIndex {
		idx[k] = v
	}
	return &Snapshot{Names: names, Indexes: idx, nameKeys: order}
}
