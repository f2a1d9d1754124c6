// Package pattern compiles s-expression pattern text into an expression
// tree the matcher can evaluate directly. The expression type is a closed
// sum type (one Go type per grammar production); evaluation elsewhere is a
// single recursive function switching on a type assertion, the same
// "structural pattern matching over a variant" shape the teacher's
// core.Query takes for its own (simpler) DSL.
package pattern

import "fmt"

// Expr is the compiled form of a pattern. Implementations are listed below;
// the set is closed and cannot be extended outside this package, so a type
// switch over Expr is exhaustive by construction.
type Expr interface {
	exprNode()
}

// Literal matches a scalar value exactly; against a node it matches when
// any scalar field of that node equals Value. Value is a string, bool,
// int64, or float64 depending on how the token was lexed.
type Literal struct{ Value any }

// Wildcard matches any non-null node or scalar ("_").
type Wildcard struct{}

// Nil matches only a null/absent field value ("nil").
type Nil struct{}

// AnyChildren matches a node that has at least one child ("...").
type AnyChildren struct{}

// NodeType matches when the node's type name equals Name, case-insensitively
// under the Case Normaliser's rules.
type NodeType struct{ Name string }

// Attribute looks up a named field on the current node and evaluates Inner
// against its value.
type Attribute struct {
	Name  string
	Inner Expr
}

// Not inverts Inner; any captures made while evaluating Inner are discarded
// regardless of the outcome.
type Not struct{ Inner Expr }

// Maybe matches when the node is absent/null, or when Inner matches it.
type Maybe struct{ Inner Expr }

// Any is a short-circuiting disjunction: the first alternative that matches
// wins, and only its captures are kept.
type Any struct{ Alts []Expr }

// All, when it is the body of a parenthesised form, matches its first
// element and each remaining element against the node itself; remaining
// elements are not matched positionally against the node's children. The
// one exception is "(Head ... P)", where P may match any descendant. Any
// other Ellipsis among the elements matches vacuously. As the body of a
// bracketed "[...]" form (Strict = true) every element must match the same
// node. When an All is the inner expression of an attribute whose field is
// a repeated message, its elements are matched in order against the list
// items instead.
type All struct {
	Elems  []Expr
	Strict bool
}

// Ellipsis is a placeholder usable only inside an All's Elems; it is never
// evaluated on its own, only interpreted by All's matching logic.
type Ellipsis struct{}

// CaptureKey identifies where a capture is filed in the capture context:
// either a user-supplied name, or a positional index assigned by order of
// appearance in the pattern (1-based, matching \1.."\9 backreferences).
type CaptureKey struct {
	Name  string
	Index int
}

func (k CaptureKey) String() string {
	if k.Name != "" {
		return k.Name
	}
	return fmt.Sprintf("%d", k.Index)
}

// Capture binds the node Inner matched under Key.
type Capture struct {
	Key   CaptureKey
	Inner Expr
}

// Backref matches a node structurally equal to a node previously captured
// at positional Index.
type Backref struct{ Index int }

// NamedBackref matches a node structurally equal to a node previously bound
// under a named capture. It is produced when a pattern repeats "$name" with
// no trailing expression — there is nothing left for it to capture, so the
// second (and later) mention is read as "this must equal what $name already
// bound", the named counterpart of "\1".."\9".
type NamedBackref struct{ Name string }

// HasChild matches when any direct child of the node satisfies Inner.
type HasChild struct{ Inner Expr }

func (Literal) exprNode()     {}
func (Wildcard) exprNode()    {}
func (Nil) exprNode()         {}
func (AnyChildren) exprNode() {}
func (NodeType) exprNode()    {}
func (Attribute) exprNode()   {}
func (Not) exprNode()         {}
func (Maybe) exprNode()       {}
func (Any) exprNode()         {}
func (All) exprNode()         {}
func (Ellipsis) exprNode()    {}
func (Capture) exprNode()     {}
func (Backref) exprNode()      {}
func (NamedBackref) exprNode() {}
func (HasChild) exprNode()     {}

// CompileError is the only error the compiler surfaces; every other
// failure mode (unknown field, unknown node type, schema mismatch) is
// deferred to match time and resolved there as "no match".
type CompileError struct {
	Position int
	Message  string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("pattern error at byte %d: %s", e.Position, e.Message)
}
