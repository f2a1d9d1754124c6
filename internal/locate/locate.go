// Package locate maps AST nodes back onto byte ranges in the original SQL
// text. pg_query_go only ever gives us a node's start offset (its
// "location" field); the end has to be estimated from the node's shape,
// since the grammar doesn't carry end offsets through to the parse tree.
package locate

import (
	"sort"
	"strings"

	"github.com/oxhq/pgfast/internal/astview"
)

// Range is a half-open byte range [Start, End) into a source string.
type Range struct {
	Start int
	End   int
}

// NodeRange estimates the byte range node occupies within src. It returns
// false if the node carries no usable location (some synthetic nodes don't).
func NodeRange(node astview.Node, src string) (Range, bool) {
	loc, ok := location(node)
	if !ok || loc < 0 || loc > len(src) {
		return Range{}, false
	}
	end := estimateEnd(node, src, loc)
	if end <= loc {
		end = loc + 1
	}
	if end > len(src) {
		end = len(src)
	}
	return Range{Start: loc, End: end}, true
}

func location(node astview.Node) (int, bool) {
	f, ok := astview.GetField(node, "location")
	if !ok {
		return 0, false
	}
	switch v := f.Scalar.(type) {
	case int64:
		return int(v), true
	default:
		return 0, false
	}
}

// estimateEnd guesses a node's end offset from its type and fields, falling
// back to scanning forward to the next statement delimiter or whitespace
// run when nothing more specific is known.
func estimateEnd(node astview.Node, src string, start int) int {
	switch astview.TypeName(node) {
	case "String", "A_Const":
		if f, ok := astview.GetField(node, "sval"); ok {
			if s, ok := f.Scalar.(string); ok && s != "" {
				return start + len(s)
			}
		}
		return scanIdentifierOrLiteral(src, start)

	case "Integer":
		if f, ok := astview.GetField(node, "ival"); ok {
			return start + len(astview.ScalarString(f.Scalar))
		}
		return scanIdentifierOrLiteral(src, start)

	case "ColumnRef", "RangeVar", "FuncCall":
		return scanBalanced(src, start)

	case "SelectStmt", "InsertStmt", "UpdateStmt", "DeleteStmt",
		"CreateStmt", "DropStmt", "AlterTableStmt", "TruncateStmt",
		"GrantStmt", "GrantRoleStmt":
		return scanToStatementEnd(src, start)

	default:
		return scanIdentifierOrLiteral(src, start)
	}
}

// scanIdentifierOrLiteral consumes a run of identifier/number/quote
// characters starting at start, a reasonable fallback for leaf nodes whose
// exact textual form isn't otherwise known.
func scanIdentifierOrLiteral(src string, start int) int {
	i := start
	if i < len(src) && (src[i] == '\'' || src[i] == '"') {
		quote := src[i]
		i++
		for i < len(src) && src[i] != quote {
			i++
		}
		if i < len(src) {
			i++
		}
		return i
	}
	for i < len(src) && isWordByte(src[i]) {
		i++
	}
	if i == start {
		i = start + 1
	}
	return i
}

func isWordByte(b byte) bool {
	return b == '_' || b == '.' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// scanBalanced extends scanIdentifierOrLiteral to include a single trailing
// "(...)" call-argument list, for function-call-shaped nodes.
func scanBalanced(src string, start int) int {
	i := scanIdentifierOrLiteral(src, start)
	if i < len(src) && src[i] == '(' {
		depth := 0
		for ; i < len(src); i++ {
			switch src[i] {
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					return i + 1
				}
			}
		}
	}
	return i
}

// scanToStatementEnd finds the next top-level statement-terminating ';', or
// end of input, from start.
func scanToStatementEnd(src string, start int) int {
	if i := strings.IndexByte(src[start:], ';'); i >= 0 {
		return start + i + 1
	}
	return len(src)
}

// MergeRanges sorts ranges and coalesces any that overlap or touch, so a
// highlighter never emits adjacent fragments for what is really one span.
func MergeRanges(ranges []Range) []Range {
	if len(ranges) == 0 {
		return nil
	}
	sorted := make([]Range, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	out := []Range{sorted[0]}
	for _, r := range sorted[1:] {
		last := &out[len(out)-1]
		if r.Start <= last.End {
			if r.End > last.End {
				last.End = r.End
			}
			continue
		}
		out = append(out, r)
	}
	return out
}

// SourceBuffer maps byte offsets to 1-based line/column pairs, used by
// text-mode highlighting and CLI diagnostics.
type SourceBuffer struct {
	src         string
	lineOffsets []int // byte offset of the first byte of each line
}

// NewSourceBuffer indexes src's line boundaries once, up front.
func NewSourceBuffer(src string) *SourceBuffer {
	offsets := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return &SourceBuffer{src: src, lineOffsets: offsets}
}

// LineCol converts a byte offset into a 1-based (line, column) pair.
func (b *SourceBuffer) LineCol(pos int) (line, col int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(b.src) {
		pos = len(b.src)
	}
	i := sort.Search(len(b.lineOffsets), func(i int) bool {
		return b.lineOffsets[i] > pos
	})
	lineIdx := i - 1
	if lineIdx < 0 {
		lineIdx = 0
	}
	return lineIdx + 1, pos - b.lineOffsets[lineIdx] + 1
}

// Line returns the full text of the given 1-based line number, without its
// trailing newline.
func (b *SourceBuffer) Line(n int) string {
	if n < 1 || n > len(b.lineOffsets) {
		return ""
	}
	start := b.lineOffsets[n-1]
	end := len(b.src)
	if n < len(b.lineOffsets) {
		end = b.lineOffsets[n] - 1
	}
	for end > start && (b.src[end-1] == '\n' || b.src[end-1] == '\r') {
		end--
	}
	return b.src[start:end]
}

// LineCount reports the number of lines in the buffer.
func (b *SourceBuffer) LineCount() int {
	return len(b.lineOffsets)
}
