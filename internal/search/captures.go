package search

import (
	"context"

	"github.com/oxhq/pgfast/internal/astview"
	"github.com/oxhq/pgfast/internal/cache"
)

// CapturesByKey groups every node captured under a given name across an
// entire search, in the order each name was first bound during the
// traversal — the ordering the Capture Context's "ordered map" definition
// requires (spec §3), surfaced here across the whole match set rather than
// one match at a time.
type CapturesByKey struct {
	Keys   []string
	ByName map[string][]astview.Node
}

// SearchWithCaptures runs Search and additionally groups every named
// capture across all matches by key, for callers that want "every table
// named in a FROM clause" rather than "every SelectStmt, plus the
// per-match capture snapshot I'd have to merge myself".
func SearchWithCaptures(ctx context.Context, sql, patternSrc string, c *cache.Cache) ([]Match, *CapturesByKey, error) {
	matches, err := Search(ctx, sql, patternSrc, c)
	if err != nil {
		return nil, nil, err
	}
	return matches, GroupCaptures(matches), nil
}

// GroupCaptures builds a CapturesByKey from an already-computed match list,
// for callers (such as the CLI) that already have matches in hand and just
// want the grouping without re-running the search.
func GroupCaptures(matches []Match) *CapturesByKey {
	out := &CapturesByKey{ByName: map[string][]astview.Node{}}
	seen := map[string]bool{}
	for _, m := range matches {
		if m.Captures == nil {
			continue
		}
		for _, name := range m.Captures.OrderedNames() {
			if !seen[name] {
				seen[name] = true
				out.Keys = append(out.Keys, name)
			}
			if c, ok := m.Captures.Names[name]; ok && c.IsNode {
				out.ByName[name] = append(out.ByName[name], c.Node)
			}
		}
	}
	return out
}
