// Package casefold resolves the spelling differences between pattern text
// and the AST schema's own naming convention. Patterns may be written in
// snake_case, camelCase, PascalCase, or SCREAMING_SNAKE_CASE; the schema
// (field names and node type names from pg_query_go) is fixed. Canonicalise
// both sides to lowercase with underscores removed before comparing, the
// same "normalise both,
// then compare" approach the teacher's BaseProvider applies to wildcard and
// DSL-kind translation.
package casefold

import "strings"

// Canonical reduces an identifier to lowercase with underscores stripped
// entirely, so spelling conventions that only differ in where a word
// boundary is marked (or whether it's marked at all) converge: "relname",
// "RelName", "REL_NAME", and "rel_name" all fold to "relname". Underscores
// are dropped rather than normalised to a fixed position because a pattern
// author's guess at a word boundary (e.g. "rel_name" for the real
// single-word field "relname") must still resolve to the real field.
func Canonical(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '_' {
			continue
		}
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NamesEqual reports whether a and b denote the same identifier once both
// are reduced to canonical form. Used for field names (relname ~ rel_name ~
// RELNAME) and node type names (SelectStmt ~ select_stmt ~ SELECT_STMT).
func NamesEqual(a, b string) bool {
	return Canonical(a) == Canonical(b)
}

// BoolLiteral resolves a scalar's textual representation against the
// pattern keywords true/false, accepting lowercase, capitalised and
// upper-case spellings on the scalar side, plus the single-letter "t"/"T"
// and "f"/"F" forms pg_query uses in some string-typed fields.
func BoolLiteral(scalarText string, want bool) bool {
	switch scalarText {
	case "true", "True", "TRUE", "t", "T":
		return want
	case "false", "False", "FALSE", "f", "F":
		return !want
	default:
		return false
	}
}
