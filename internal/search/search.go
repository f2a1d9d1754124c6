// Package search drives a compiled pattern over every node of a parsed SQL
// document, including SQL text embedded inside DO blocks and function
// bodies, recursing with the exact same pattern.
package search

import (
	"context"

	"github.com/oxhq/pgfast/internal/astview"
	"github.com/oxhq/pgfast/internal/cache"
	"github.com/oxhq/pgfast/internal/embedded"
	"github.com/oxhq/pgfast/internal/matchengine"
	"github.com/oxhq/pgfast/internal/pattern"
	"github.com/oxhq/pgfast/internal/pgparser"
)

// Match is one node that satisfied a pattern.
type Match struct {
	Node      astview.Node
	Captures  *matchengine.Snapshot
	Statement int    // index of the top-level statement this node came from
	Embedded  bool   // true if found inside a DO/function body rather than the outer SQL
	Source    string // the SQL text the node's own statement was parsed from (outer SQL, or the embedded body)
}

// Search compiles patternSrc (via c, or directly if c is nil) and returns
// every node of sql's parse tree that it matches, walking statements and
// their descendants in deterministic pre-order and recursing into embedded
// procedural bodies.
//
// A SQL parse failure is not an error: it yields a nil, nil result, the
// same as an empty document, per the engine's policy of never raising for
// malformed input. A pattern compile failure IS returned as an error, since
// that's a caller mistake rather than a property of the input SQL.
func Search(ctx context.Context, sql, patternSrc string, c *cache.Cache) ([]Match, error) {
	expr, err := compile(patternSrc, c)
	if err != nil {
		return nil, err
	}
	return SearchExpr(ctx, sql, expr)
}

// SearchExpr runs an already-compiled expression, for callers that compile
// once and search many documents.
func SearchExpr(ctx context.Context, sql string, expr pattern.Expr) ([]Match, error) {
	stmts, err := pgparser.Parse(sql)
	if err != nil {
		return nil, nil
	}

	var out []Match
	for i, stmt := range stmts {
		out = append(out, searchStatement(ctx, stmt.Root, expr, i, false, sql)...)
	}
	return out, nil
}

func compile(src string, c *cache.Cache) (pattern.Expr, error) {
	if c != nil {
		return c.Get(src)
	}
	return pattern.Compile(src)
}

// searchStatement walks one statement's tree pre-order, deduplicating by
// node identity, matching expr at each node, and recursing into embedded
// bodies when a node is a procedural block.
func searchStatement(ctx context.Context, root astview.Node, expr pattern.Expr, stmtIdx int, isEmbedded bool, source string) []Match {
	var out []Match
	seen := map[astview.Node]bool{}

	var walk func(n astview.Node)
	walk = func(n astview.Node) {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if !n.IsValid() || seen[n] {
			return
		}
		seen[n] = true

		if ok, snap := matchengine.MatchNode(n, expr); ok {
			out = append(out, Match{
				Node:      n,
				Captures:  snap,
				Statement: stmtIdx,
				Embedded:  isEmbedded,
				Source:    source,
			})
		}

		if embedded.IsProceduralNode(n) {
			out = append(out, searchEmbedded(ctx, n, expr, stmtIdx)...)
		}

		for _, child := range astview.Children(n) {
			walk(child)
		}
	}
	walk(root)
	return out
}

// searchEmbedded re-parses and re-searches the SQL text carried inside a
// procedural node's body, isolated from the outer walk: a body that fails
// to parse (in full, or statement by statement) simply contributes nothing,
// it never aborts the outer search.
func searchEmbedded(ctx context.Context, node astview.Node, expr pattern.Expr, stmtIdx int) []Match {
	var out []Match
	for _, body := range embedded.Extract(node) {
		if stmts, err := pgparser.Parse(body.Source); err == nil {
			for _, stmt := range stmts {
				out = append(out, searchStatement(ctx, stmt.Root, expr, stmtIdx, true, body.Source)...)
			}
			continue
		}
		for _, cand := range embedded.CandidateStatements(body.Source) {
			stmts, err := pgparser.Parse(cand.Source)
			if err != nil {
				continue
			}
			for _, stmt := range stmts {
				out = append(out, searchStatement(ctx, stmt.Root, expr, stmtIdx, true, cand.Source)...)
			}
		}
	}
	return out
}
