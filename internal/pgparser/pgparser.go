// Package pgparser isolates the rest of the engine from the exact error
// types and result shape of the external PostgreSQL parser binding, the
// same thin-adapter role the teacher gives its provider layer over each
// language's own tree-sitter grammar.
package pgparser

import (
	"fmt"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/oxhq/pgfast/internal/astview"
)

// Statement is one parsed top-level SQL statement: its root node plus the
// byte range it occupies in the source text it was parsed from.
type Statement struct {
	Root     astview.Node
	Location int
	Len      int
}

// Parse parses sql and returns its statements. A parse failure is reported
// through err; callers that must degrade to "no results" rather than
// propagate (per the engine's absorbed-ParseError policy) should treat any
// non-nil err as "nothing to search" rather than surfacing it further.
func Parse(sql string) ([]Statement, error) {
	res, err := pg_query.Parse(sql)
	if err != nil {
		return nil, fmt.Errorf("pgparser: parse sql: %w", err)
	}
	out := make([]Statement, 0, len(res.Stmts))
	for _, raw := range res.Stmts {
		if raw == nil || raw.Stmt == nil {
			continue
		}
		out = append(out, Statement{
			Root:     astview.WrapMessage(raw.Stmt.ProtoReflect()),
			Location: int(raw.StmtLocation),
			Len:      int(raw.StmtLen),
		})
	}
	return out, nil
}

// ParsePlPgSQL converts a PL/pgSQL function body into its JSON parse tree.
// The embedded-SQL bridge does not call it: that bridge re-parses bodies
// with Parse and falls back to the line-based statement extractor.
func ParsePlPgSQL(body string) (string, error) {
	json, err := pg_query.ParsePlPgSqlToJSON(body)
	if err != nil {
		return "", fmt.Errorf("pgparser: parse plpgsql: %w", err)
	}
	return json, nil
}
