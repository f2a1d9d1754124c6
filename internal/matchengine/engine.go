package matchengine

import (
	"github.com/oxhq/pgfast/internal/astview"
	"github.com/oxhq/pgfast/internal/pattern"
)

// MatchNode evaluates expr against root and reports whether it matches. On
// success snap holds every capture made during the match, in first-
// appearance order; on failure snap is nil.
func MatchNode(root astview.Node, expr pattern.Expr) (ok bool, snap *Snapshot) {
	caps := NewCaptures()
	order := captureOrder(expr)
	if !Match(nodeValue(root), expr, caps) {
		return false, nil
	}
	return true, caps.Snapshot(order)
}

// captureOrder walks expr and records the order named captures first
// appear in, so callers get deterministic, pattern-order iteration instead
// of Go's randomised map order.
func captureOrder(expr pattern.Expr) []string {
	seen := map[string]bool{}
	var order []string
	var walk func(e pattern.Expr)
	walk = func(e pattern.Expr) {
		switch t := e.(type) {
		case pattern.Attribute:
			walk(t.Inner)
		case pattern.Not:
			walk(t.Inner)
		case pattern.Maybe:
			walk(t.Inner)
		case pattern.HasChild:
			walk(t.Inner)
		case pattern.Any:
			for _, a := range t.Alts {
				walk(a)
			}
		case pattern.All:
			for _, el := range t.Elems {
				walk(el)
			}
		case pattern.Capture:
			if t.Key.Name != "" && !seen[t.Key.Name] {
				seen[t.Key.Name] = true
				order = append(order, t.Key.Name)
			}
			walk(t.Inner)
		}
	}
	walk(expr)
	return order
}
