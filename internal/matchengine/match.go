package matchengine

import (
	"github.com/oxhq/pgfast/internal/astview"
	"github.com/oxhq/pgfast/internal/casefold"
	"github.com/oxhq/pgfast/internal/pattern"
)

// value is whatever a sub-expression was evaluated against: either an AST
// node or a bare scalar pulled out of a field. Exactly one of the two is
// meaningful, selected by isNode.
type value struct {
	node   astview.Node
	scalar any
	isNode bool
}

func nodeValue(n astview.Node) value { return value{node: n, isNode: true} }
func scalarValue(v any) value        { return value{scalar: v, isNode: false} }

// Match reports whether expr matches v, recording any captures it makes
// into caps. A failed match leaves caps unchanged relative to when Match
// was called with a fresh (non-speculative) caller — callers that need to
// backtrack must snapshot/restore caps themselves, which Match's callers
// for All and Any do internally.
func Match(v value, expr pattern.Expr, caps *Captures) bool {
	switch e := expr.(type) {
	case pattern.Wildcard:
		if v.isNode {
			return v.node.IsValid()
		}
		return v.scalar != nil

	case pattern.Nil:
		if v.isNode {
			return !v.node.IsValid()
		}
		return v.scalar == nil

	case pattern.AnyChildren:
		return v.isNode && astview.HasChildren(v.node)

	case pattern.Literal:
		if v.isNode {
			// Against a message, a literal matches when any of its scalar
			// fields equals the value, e.g. (ival 42) reaching an Integer node.
			for _, f := range astview.Fields(v.node) {
				if f.Kind == astview.KindScalar && literalEqual(e.Value, f.Scalar) {
					return true
				}
			}
			return false
		}
		return literalEqual(e.Value, v.scalar)

	case pattern.NodeType:
		return v.isNode && v.node.IsValid() && casefold.NamesEqual(e.Name, astview.TypeName(v.node))

	case pattern.Attribute:
		return matchAttribute(v, e, caps)

	case pattern.Not:
		snap := caps.snapshot()
		ok := Match(v, e.Inner, caps)
		caps.restore(snap)
		return !ok

	case pattern.Maybe:
		if v.isNode && !v.node.IsValid() {
			return true
		}
		if !v.isNode && v.scalar == nil {
			return true
		}
		return Match(v, e.Inner, caps)

	case pattern.Any:
		for _, alt := range e.Alts {
			snap := caps.snapshot()
			if Match(v, alt, caps) {
				return true
			}
			caps.restore(snap)
		}
		return false

	case pattern.All:
		return matchAll(v, e, caps)

	case pattern.Capture:
		snap := caps.snapshot()
		if !Match(v, e.Inner, caps) {
			caps.restore(snap)
			return false
		}
		bindCapture(v, e.Key, caps)
		return true

	case pattern.Backref:
		prev, ok := caps.lookupIndex(e.Index)
		if !ok {
			return false
		}
		return valuesEqual(v, prev)

	case pattern.NamedBackref:
		prev, ok := caps.lookupName(e.Name)
		if !ok {
			return false
		}
		return valuesEqual(v, prev)

	case pattern.HasChild:
		if !v.isNode {
			return false
		}
		for _, child := range astview.Children(v.node) {
			snap := caps.snapshot()
			if Match(nodeValue(child), e.Inner, caps) {
				return true
			}
			caps.restore(snap)
		}
		return false

	case pattern.Ellipsis:
		// Only meaningful inside All's element list; reaching here directly
		// means a malformed tree slipped past the compiler, so fail closed.
		return false

	default:
		return false
	}
}

func bindCapture(v value, key pattern.CaptureKey, caps *Captures) {
	c := Captured{IsNode: v.isNode}
	if v.isNode {
		c.Node = v.node
	} else {
		c.Scalar = v.scalar
	}
	if key.Name != "" {
		caps.bindName(key.Name, c)
	} else {
		caps.bindIndex(key.Index, c)
	}
}

func valuesEqual(v value, prev Captured) bool {
	if v.isNode != prev.IsNode {
		return false
	}
	if v.isNode {
		return nodeEqual(v.node, prev.Node)
	}
	return literalEqual(v.scalar, prev.Scalar)
}

func literalEqual(want, got any) bool {
	if got == nil {
		return false
	}
	ws, wok := want.(string)
	gs, gok := asString(got)
	if wok && gok {
		return ws == gs
	}
	wb, wok := want.(bool)
	if wok {
		gb, ok := casefoldBool(got)
		return ok && wb == gb
	}
	return numericEqual(want, got)
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func casefoldBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		if casefold.BoolLiteral(t, true) {
			return true, true
		}
		if casefold.BoolLiteral(t, false) {
			return false, true
		}
	}
	return false, false
}

func numericEqual(want, got any) bool {
	wf, wok := toFloat(want)
	gf, gok := toFloat(got)
	return wok && gok && wf == gf
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int64:
		return float64(t), true
	case int:
		return float64(t), true
	case float64:
		return t, true
	case uint64:
		return float64(t), true
	default:
		return 0, false
	}
}

// matchAttribute looks up Name on the node v wraps and evaluates Inner
// against whatever shape that field has (scalar, message, or repeated
// forms surfaced by astview.Field.Kind).
func matchAttribute(v value, e pattern.Attribute, caps *Captures) bool {
	if !v.isNode {
		return false
	}
	f, ok := astview.GetField(v.node, e.Name)
	if !ok {
		return false
	}
	switch f.Kind {
	case astview.KindMessage:
		return Match(nodeValue(f.Message), e.Inner, caps)
	case astview.KindScalar:
		return Match(scalarValue(f.Scalar), e.Inner, caps)
	case astview.KindRepeatedMessage:
		return matchRepeatedMessages(f.Messages, e.Inner, caps)
	case astview.KindRepeatedScalar:
		return matchRepeatedScalars(f.Scalars, e.Inner, caps)
	default:
		return false
	}
}

// matchRepeatedMessages treats a repeated message field as an implicit
// positional list: when Inner is an All, its elements are matched
// one-per-list-item (ellipsis-aware via matchChildList) rather than all
// against the same item, since "these are the items, in order" is the
// only sensible reading of multiple patterns against a list field.
func matchRepeatedMessages(msgs []astview.Node, inner pattern.Expr, caps *Captures) bool {
	if all, ok := inner.(pattern.All); ok {
		return matchChildList(msgs, all.Elems, caps)
	}
	for _, m := range msgs {
		snap := caps.snapshot()
		if Match(nodeValue(m), inner, caps) {
			return true
		}
		caps.restore(snap)
	}
	return false
}

func matchRepeatedScalars(vals []any, inner pattern.Expr, caps *Captures) bool {
	for _, s := range vals {
		snap := caps.snapshot()
		if Match(scalarValue(s), inner, caps) {
			return true
		}
		caps.restore(snap)
	}
	return false
}

// matchAll implements both the strict ("[...]" or multi-attribute) form,
// where every element must match the node itself, and the paren-form
// body, where Elems[0] matches the node itself and any remaining elements
// are additional conditions on that same node — except for the dedicated
// "(Head ... P)" shortcut, which searches P across all descendants rather
// than requiring it to hold of the node directly.
func matchAll(v value, e pattern.All, caps *Captures) bool {
	if len(e.Elems) == 0 {
		return false
	}

	snap := caps.snapshot()
	if !Match(v, e.Elems[0], caps) {
		caps.restore(snap)
		return false
	}

	rest := e.Elems[1:]
	if !e.Strict && len(rest) == 2 {
		if _, ok := rest[0].(pattern.Ellipsis); ok {
			if v.isNode && matchSubtreeSearch(v.node, rest[1], caps) {
				return true
			}
			caps.restore(snap)
			return false
		}
	}

	for _, el := range rest {
		if _, ok := el.(pattern.Ellipsis); ok {
			continue // a stray ellipsis outside the subtree-search shortcut is vacuous
		}
		if !Match(v, el, caps) {
			caps.restore(snap)
			return false
		}
	}
	return true
}

// matchSubtreeSearch implements the "(Head ... P)" shorthand: P may match
// any descendant of node, not only a direct child.
func matchSubtreeSearch(node astview.Node, p pattern.Expr, caps *Captures) bool {
	var walk func(n astview.Node) bool
	walk = func(n astview.Node) bool {
		snap := caps.snapshot()
		if Match(nodeValue(n), p, caps) {
			return true
		}
		caps.restore(snap)
		for _, child := range astview.Children(n) {
			if walk(child) {
				return true
			}
		}
		return false
	}
	for _, child := range astview.Children(node) {
		if walk(child) {
			return true
		}
	}
	return false
}

// matchChildList runs the ellipsis-aware positional matcher over a list of
// child nodes against a list of pattern elements, each of which is either
// a real Expr or the Ellipsis placeholder meaning "skip zero or more
// elements here". It is a small backtracking search over (i, j) states
// since both lists are short in practice (AST arities rarely exceed a
// handful of children).
func matchChildList(children []astview.Node, elems []pattern.Expr, caps *Captures) bool {
	var rec func(ci, ei int) bool
	rec = func(ci, ei int) bool {
		if ei == len(elems) {
			return ci == len(children)
		}
		if _, isEllipsis := elems[ei].(pattern.Ellipsis); isEllipsis {
			// Prefer consuming as much as possible first (longest match),
			// falling back to shorter spans.
			for skip := len(children) - ci; skip >= 0; skip-- {
				if rec(ci+skip, ei+1) {
					return true
				}
			}
			return false
		}
		if ci >= len(children) {
			return false
		}
		snap := caps.snapshot()
		if Match(nodeValue(children[ci]), elems[ei], caps) && rec(ci+1, ei+1) {
			return true
		}
		caps.restore(snap)
		return false
	}
	return rec(0, 0)
}

// nodeEqual reports whether a and b are structurally equal: same type name
// and same fields recursively, ignoring each node's own "location" field.
// Two subtrees built the same way but appearing at different byte offsets
// in the source (the case a backreference exists to catch) always differ
// on location, so comparing it would make every non-trivial backref fail.
func nodeEqual(a, b astview.Node) bool {
	if a.IsValid() != b.IsValid() {
		return false
	}
	if !a.IsValid() {
		return true
	}
	if astview.TypeName(a) != astview.TypeName(b) {
		return false
	}
	fa, fb := astview.Fields(a), astview.Fields(b)
	if len(fa) != len(fb) {
		return false
	}
	for i, fieldA := range fa {
		fieldB := fb[i]
		if fieldA.Name != fieldB.Name || fieldA.Kind != fieldB.Kind {
			return false
		}
		if fieldA.Name == "location" {
			continue
		}
		switch fieldA.Kind {
		case astview.KindScalar:
			if astview.ScalarString(fieldA.Scalar) != astview.ScalarString(fieldB.Scalar) {
				return false
			}
		case astview.KindMessage:
			if !nodeEqual(fieldA.Message, fieldB.Message) {
				return false
			}
		case astview.KindRepeatedMessage:
			if len(fieldA.Messages) != len(fieldB.Messages) {
				return false
			}
			for j := range fieldA.Messages {
				if !nodeEqual(fieldA.Messages[j], fieldB.Messages[j]) {
					return false
				}
			}
		case astview.KindRepeatedScalar:
			if len(fieldA.Scalars) != len(fieldB.Scalars) {
				return false
			}
			for j := range fieldA.Scalars {
				if astview.ScalarString(fieldA.Scalars[j]) != astview.ScalarString(fieldB.Scalars[j]) {
					return false
				}
			}
		}
	}
	return true
}
