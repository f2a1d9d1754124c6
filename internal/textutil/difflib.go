// Package textutil renders unified diffs with go-difflib, the same
// dependency and call shape the teacher's internal/util uses to show a
// file's before/after text; here it diffs two match-summary renderings
// between runs instead of two versions of a source file.
package textutil

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// UnifiedDiff renders a standard unified diff between a and b, labelling
// the two sides fromLabel/toLabel, with context lines of surrounding
// context. It is used by the CLI's history command to show how a saved
// pattern's match summary changed between two runs.
func UnifiedDiff(fromLabel, toLabel, a, b string, context int) (string, error) {
	d := difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: fromLabel,
		ToFile:   toLabel,
		Context:  context,
	}
	text, err := difflib.GetUnifiedDiffString(d)
	if err != nil {
		return "", fmt.Errorf("textutil: render diff: %w", err)
	}
	return text, nil
}

// Summarize joins already-formatted summary lines into one newline-
// terminated text suitable for UnifiedDiff. It neither formats nor sorts
// the lines; they appear in the order given.
func Summarize(lines []string) string {
	return strings.Join(lines, "\n") + "\n"
}
