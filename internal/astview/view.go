// Package astview provides a uniform introspection view over the AST
// produced by the external PostgreSQL parser (github.com/pganalyze/pg_query_go).
//
// The parser's generated types are plain protobuf messages: a statement is a
// *pg_query.Node, a tagged oneof wrapping one of several hundred concrete
// node types (SelectStmt, A_Const, RangeVar, ...). Rather than hard-coding a
// switch over every concrete type, astview walks the tree through
// google.golang.org/protobuf's reflection API. This keeps the matcher
// completely decoupled from the parser's schema: a pattern can reference a
// field or node type astview has never seen, and the answer is simply "no
// match" rather than a compile-time or runtime failure.
package astview

import (
	"strconv"

	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/oxhq/pgfast/internal/casefold"
)

// Kind classifies how a field's value should be interpreted by the matcher.
type Kind int

const (
	// KindScalar is a single primitive value (string, bool, number, enum).
	KindScalar Kind = iota
	// KindMessage is a single nested node, possibly absent.
	KindMessage
	// KindRepeatedMessage is an ordered list of nested nodes.
	KindRepeatedMessage
	// KindRepeatedScalar is an ordered list of primitive values.
	KindRepeatedScalar
)

// Node is an opaque handle on a single AST node. The zero Node is invalid;
// use IsValid to test for presence before calling any other method.
type Node struct {
	msg protoreflect.Message
}

// IsValid reports whether n refers to an actual node.
func (n Node) IsValid() bool {
	return n.msg != nil && n.msg.IsValid()
}

// Field describes one entry of a node's ordered field list.
type Field struct {
	Name string
	Kind Kind

	// Scalar holds the primitive value when Kind == KindScalar.
	Scalar any
	// Message holds the nested node when Kind == KindMessage and the field
	// is populated; Message.IsValid() is false when the field is present in
	// the schema but unset on this particular node.
	Message Node
	// Messages holds the element nodes when Kind == KindRepeatedMessage.
	Messages []Node
	// Scalars holds the element values when Kind == KindRepeatedScalar.
	Scalars []any
}

// WrapMessage builds a Node from a concrete protobuf message, unwrapping a
// pg_query "Node" oneof wrapper if that's what was handed in.
func WrapMessage(m protoreflect.Message) Node {
	return Node{msg: unwrapOneof(m)}
}

// unwrapOneof resolves the pg_query Node wrapper type down to the concrete
// message it carries (e.g. *SelectStmt), recursing in case of nested
// wrappers. Any message that is not itself a single-oneof wrapper is
// returned unchanged.
func unwrapOneof(m protoreflect.Message) protoreflect.Message {
	if m == nil || !m.IsValid() {
		return m
	}
	od := soleOneof(m)
	if od == nil {
		return m
	}
	fd := m.WhichOneof(od)
	if fd == nil {
		// Oneof declared but nothing set: treat as absent.
		return nil
	}
	if fd.Kind() != protoreflect.MessageKind {
		return m
	}
	return unwrapOneof(m.Get(fd).Message())
}

// soleOneof returns the message's oneof descriptor when the message exists
// purely to wrap exactly one of several alternatives (pg_query's "Node" and
// similar small wrapper types). A_Const is not one: its value oneof sits
// beside isnull and location fields. A message with
// fields outside the oneof is a real node, not a wrapper, and is returned
// as-is by the caller.
func soleOneof(m protoreflect.Message) protoreflect.OneofDescriptor {
	fields := m.Descriptor().Fields()
	oneofs := m.Descriptor().Oneofs()
	if oneofs.Len() != 1 {
		return nil
	}
	od := oneofs.Get(0)
	if od.Fields().Len() != fields.Len() {
		// Extra non-oneof fields: this is a real node, don't unwrap.
		return nil
	}
	return od
}

// TypeName returns the node's kind, e.g. "SelectStmt" or "A_Const".
func TypeName(n Node) string {
	if !n.IsValid() {
		return ""
	}
	return string(n.msg.Descriptor().Name())
}

// HasChildren reports whether any field of n is a populated message or a
// non-empty repeated-message field.
func HasChildren(n Node) bool {
	if !n.IsValid() {
		return false
	}
	for _, f := range Fields(n) {
		switch f.Kind {
		case KindMessage:
			if f.Message.IsValid() {
				return true
			}
		case KindRepeatedMessage:
			if len(f.Messages) > 0 {
				return true
			}
		}
	}
	return false
}

// Children returns every directly contained node: populated message fields
// and the elements of repeated-message fields, in field declaration order.
func Children(n Node) []Node {
	if !n.IsValid() {
		return nil
	}
	var out []Node
	for _, f := range Fields(n) {
		switch f.Kind {
		case KindMessage:
			if f.Message.IsValid() {
				out = append(out, f.Message)
			}
		case KindRepeatedMessage:
			out = append(out, f.Messages...)
		}
	}
	return out
}

// Fields returns the node's fields in declared order, with values resolved
// to astview's four-way kind classification.
func Fields(n Node) []Field {
	if !n.IsValid() {
		return nil
	}
	desc := n.msg.Descriptor()
	fds := desc.Fields()
	out := make([]Field, 0, fds.Len())
	for i := 0; i < fds.Len(); i++ {
		fd := fds.Get(i)
		out = append(out, buildField(n.msg, fd))
	}
	return out
}

// GetField looks up a single field by name, tolerating the same spelling
// differences casefold.NamesEqual resolves elsewhere (snake_case, PascalCase,
// SCREAMING_SNAKE_CASE, and an extra/missing underscore all resolve to the
// same field, e.g. "rel_name" and "RELNAME" both find the real "relname"
// field). Returns false if the node has no field matching under those rules.
func GetField(n Node, name string) (Field, bool) {
	if !n.IsValid() {
		return Field{}, false
	}
	fds := n.msg.Descriptor().Fields()
	// Fast path: exact match, the common case.
	if fd := fds.ByName(protoreflect.Name(name)); fd != nil {
		return buildField(n.msg, fd), true
	}
	for i := 0; i < fds.Len(); i++ {
		fd := fds.Get(i)
		if casefold.NamesEqual(string(fd.Name()), name) {
			return buildField(n.msg, fd), true
		}
	}
	return Field{}, false
}

// FieldNames returns the declared field names of n, in order. Neither the
// compiler nor the matcher calls it.
func FieldNames(n Node) []string {
	if !n.IsValid() {
		return nil
	}
	fds := n.msg.Descriptor().Fields()
	names := make([]string, fds.Len())
	for i := 0; i < fds.Len(); i++ {
		names[i] = string(fds.Get(i).Name())
	}
	return names
}

func buildField(m protoreflect.Message, fd protoreflect.FieldDescriptor) Field {
	name := string(fd.Name())

	if fd.IsList() {
		list := m.Get(fd).List()
		if fd.Kind() == protoreflect.MessageKind || fd.Kind() == protoreflect.GroupKind {
			msgs := make([]Node, 0, list.Len())
			for i := 0; i < list.Len(); i++ {
				wrapped := WrapMessage(list.Get(i).Message())
				if wrapped.IsValid() {
					msgs = append(msgs, wrapped)
				}
			}
			return Field{Name: name, Kind: KindRepeatedMessage, Messages: msgs}
		}
		scalars := make([]any, 0, list.Len())
		for i := 0; i < list.Len(); i++ {
			scalars = append(scalars, scalarGoValue(fd, list.Get(i)))
		}
		return Field{Name: name, Kind: KindRepeatedScalar, Scalars: scalars}
	}

	if fd.Kind() == protoreflect.MessageKind || fd.Kind() == protoreflect.GroupKind {
		if !m.Has(fd) {
			return Field{Name: name, Kind: KindMessage, Message: Node{}}
		}
		return Field{Name: name, Kind: KindMessage, Message: WrapMessage(m.Get(fd).Message())}
	}

	return Field{Name: name, Kind: KindScalar, Scalar: scalarGoValue(fd, m.Get(fd))}
}

// scalarGoValue converts a protoreflect scalar value into a plain Go value
// suitable for comparison against pattern literals.
func scalarGoValue(fd protoreflect.FieldDescriptor, v protoreflect.Value) any {
	switch fd.Kind() {
	case protoreflect.EnumKind:
		ev := fd.Enum().Values().ByNumber(v.Enum())
		if ev != nil {
			return string(ev.Name())
		}
		return int64(v.Enum())
	case protoreflect.BoolKind:
		return v.Bool()
	case protoreflect.StringKind:
		return v.String()
	case protoreflect.BytesKind:
		return string(v.Bytes())
	case protoreflect.FloatKind, protoreflect.DoubleKind:
		return v.Float()
	case protoreflect.Int32Kind, protoreflect.Int64Kind,
		protoreflect.Sint32Kind, protoreflect.Sint64Kind,
		protoreflect.Sfixed32Kind, protoreflect.Sfixed64Kind:
		return v.Int()
	case protoreflect.Uint32Kind, protoreflect.Uint64Kind,
		protoreflect.Fixed32Kind, protoreflect.Fixed64Kind:
		return int64(v.Uint())
	default:
		return v.Interface()
	}
}

// ScalarString renders a scalar value in the canonical form used for
// literal comparison, per the AST view's round-trip-through-to_string
// invariant.
func ScalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return ""
	}
}
