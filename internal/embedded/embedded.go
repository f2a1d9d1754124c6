// Package embedded finds SQL text embedded inside procedural bodies — a
// "DO $$ ... $$" block or a "CREATE FUNCTION ... AS $$ ... $$" body — so the
// search driver can recurse into it with the same compiled pattern. Outer
// search never aborts over a failure in here: every entry point degrades to
// "nothing found" rather than propagating an error.
package embedded

import (
	"regexp"
	"strings"

	"github.com/oxhq/pgfast/internal/astview"
)

// ProceduralNodeTypes are the node types whose body text this package knows
// how to pull out. DoStmt covers anonymous "DO" blocks; CreateFunctionStmt
// covers "CREATE [OR REPLACE] FUNCTION ... AS $$ ... $$".
var ProceduralNodeTypes = []string{"DoStmt", "CreateFunctionStmt"}

// IsProceduralNode reports whether node is a type this package can extract
// a body from.
func IsProceduralNode(node astview.Node) bool {
	t := astview.TypeName(node)
	for _, pt := range ProceduralNodeTypes {
		if t == pt {
			return true
		}
	}
	return false
}

// Body is one embedded-SQL source extracted from a procedural node. Offset
// is the byte offset of Source within the text it was cut from: set by
// CandidateStatements, always 0 from Extract. Nothing maps inner match
// offsets back to the outer SQL; matches carry their own Source instead.
type Body struct {
	Source string
	Offset int
}

// Extract pulls the "AS $$ ... $$" body text out of node, if any. A node
// with no non-empty "as" string yields nil. For a CREATE FUNCTION written
// in C, the first AS string (the object file name) is returned as the body.
func Extract(node astview.Node) []Body {
	fieldName := "args"
	if astview.TypeName(node) == "CreateFunctionStmt" {
		fieldName = "options"
	}

	f, ok := astview.GetField(node, fieldName)
	if !ok || f.Kind != astview.KindRepeatedMessage {
		return nil
	}

	var out []Body
	for _, defElem := range f.Messages {
		if astview.TypeName(defElem) != "DefElem" {
			continue
		}
		nameField, ok := astview.GetField(defElem, "defname")
		if !ok {
			continue
		}
		name, _ := nameField.Scalar.(string)
		if !strings.EqualFold(name, "as") {
			continue
		}
		argField, ok := astview.GetField(defElem, "arg")
		if !ok || argField.Kind != astview.KindMessage || !argField.Message.IsValid() {
			continue
		}
		if s := firstStringValue(argField.Message); s != "" {
			out = append(out, Body{Source: s})
		}
	}
	return out
}

// firstStringValue depth-first searches sub for the first "sval" scalar
// field it can find, which is how pg_query represents both a bare string
// literal and a List of them (as used for the "$$ ... $$" body).
func firstStringValue(node astview.Node) string {
	if f, ok := astview.GetField(node, "sval"); ok {
		if s, ok := f.Scalar.(string); ok && s != "" {
			return s
		}
	}
	for _, child := range astview.Children(node) {
		if s := firstStringValue(child); s != "" {
			return s
		}
	}
	return ""
}

// statementKeywordRe matches the start of a line that looks like a
// top-level SQL statement, optionally preceded by a BEGIN on the same line
// (as in a one-line "DO $$ BEGIN ... END $$" body), for the line-based
// fallback extractor used when a procedural body doesn't parse as a single
// SQL document (the common case, since a plpgsql body mixes SQL with
// control-flow keywords pg_query_go's SQL grammar doesn't accept).
var statementKeywordRe = regexp.MustCompile(`(?i)^\s*(?:BEGIN\s+)?(SELECT|INSERT|UPDATE|DELETE|CREATE|DROP|ALTER|WITH|TRUNCATE|GRANT|REVOKE)\b`)

// CandidateStatements scans body line by line and returns the substrings
// that look like standalone SQL statements, each starting at its leading
// keyword and ending at its terminating ';' (or end of body if none
// follows). Offset is the byte offset of the returned text within body.
func CandidateStatements(body string) []Body {
	var out []Body
	pos := 0
	for pos < len(body) {
		rest := body[pos:]
		lineEnd := strings.IndexByte(rest, '\n')
		line := rest
		if lineEnd >= 0 {
			line = rest[:lineEnd]
		}
		if m := statementKeywordRe.FindStringSubmatchIndex(line); m != nil {
			pos += m[2]
			rest = body[pos:]
			stmtEnd := strings.IndexByte(rest, ';')
			var text string
			if stmtEnd >= 0 {
				text = rest[:stmtEnd+1]
			} else {
				text = rest
			}
			out = append(out, Body{Source: text, Offset: pos})
			pos += len(text)
			continue
		}
		if lineEnd < 0 {
			break
		}
		pos += lineEnd + 1
	}
	return out
}
