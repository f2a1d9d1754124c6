// Package highlight renders a SQL source string with one or more byte
// ranges marked up for a terminal, HTML, or Markdown audience.
package highlight

import (
	"html"
	"strings"

	"github.com/oxhq/pgfast/internal/locate"
)

// Style selects the markup wrapped around a highlighted range.
type Style int

const (
	ANSI Style = iota
	HTML
	Markdown
)

func (s Style) wrap() (prefix, suffix string) {
	switch s {
	case HTML:
		return "<mark>", "</mark>"
	case Markdown:
		return "**", "**"
	default:
		return "\x1b[1;31m", "\x1b[0m"
	}
}

func (s Style) escape(text string) string {
	if s == HTML {
		return html.EscapeString(text)
	}
	return text
}

// Highlight renders the full source with every range in ranges wrapped in
// style's markup. Overlapping or touching ranges are coalesced first, so
// the result never nests or duplicates markup for the same span.
func Highlight(src string, ranges []locate.Range, style Style) string {
	merged := locate.MergeRanges(ranges)
	if len(merged) == 0 {
		return style.escape(src)
	}

	prefix, suffix := style.wrap()
	var b strings.Builder
	pos := 0
	for _, r := range merged {
		start, end := clamp(r, len(src))
		if start < pos {
			continue // already covered by a prior (merged) range
		}
		b.WriteString(style.escape(src[pos:start]))
		b.WriteString(prefix)
		b.WriteString(style.escape(src[start:end]))
		b.WriteString(suffix)
		pos = end
	}
	b.WriteString(style.escape(src[pos:]))
	return b.String()
}

func clamp(r locate.Range, n int) (int, int) {
	start, end := r.Start, r.End
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if end < start {
		end = start
	}
	return start, end
}

// GapMarker separates two non-adjacent windows of context lines.
const GapMarker = "···"

// ContextOptions configures line-context rendering.
type ContextOptions struct {
	Style  Style
	Before int // lines of unhighlighted context before each match window
	After  int // lines of unhighlighted context after each match window
}

// WithContext renders only the lines touched by ranges (plus Before/After
// lines of surrounding context), joining non-adjacent windows with
// GapMarker on its own line. Each rendered line has its own matched bytes
// wrapped in opts.Style's markup.
func WithContext(src string, ranges []locate.Range, opts ContextOptions) string {
	merged := locate.MergeRanges(ranges)
	if len(merged) == 0 {
		return ""
	}
	buf := locate.NewSourceBuffer(src)

	windows := make([][2]int, 0, len(merged))
	for _, r := range merged {
		startLine, _ := buf.LineCol(r.Start)
		endLine, _ := buf.LineCol(maxInt(r.Start, r.End-1))
		lo := startLine - opts.Before
		if lo < 1 {
			lo = 1
		}
		hi := endLine + opts.After
		if hi > buf.LineCount() {
			hi = buf.LineCount()
		}
		windows = append(windows, [2]int{lo, hi})
	}
	windows = mergeWindows(windows)

	prefix, suffix := opts.Style.wrap()
	var b strings.Builder
	for wi, w := range windows {
		if wi > 0 {
			b.WriteString(GapMarker)
			b.WriteByte('\n')
		}
		for line := w[0]; line <= w[1]; line++ {
			b.WriteString(renderLine(buf, line, merged, opts.Style, prefix, suffix))
			b.WriteByte('\n')
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func renderLine(buf *locate.SourceBuffer, line int, merged []locate.Range, style Style, prefix, suffix string) string {
	text := buf.Line(line)
	lineStart := lineByteStart(buf, line)
	lineEnd := lineStart + len(text)

	var inLine []locate.Range
	for _, r := range merged {
		if r.End <= lineStart || r.Start >= lineEnd {
			continue
		}
		s, e := r.Start-lineStart, r.End-lineStart
		if s < 0 {
			s = 0
		}
		if e > len(text) {
			e = len(text)
		}
		inLine = append(inLine, locate.Range{Start: s, End: e})
	}
	if len(inLine) == 0 {
		return style.escape(text)
	}

	var b strings.Builder
	pos := 0
	for _, r := range inLine {
		b.WriteString(style.escape(text[pos:r.Start]))
		b.WriteString(prefix)
		b.WriteString(style.escape(text[r.Start:r.End]))
		b.WriteString(suffix)
		pos = r.End
	}
	b.WriteString(style.escape(text[pos:]))
	return b.String()
}

// lineByteStart sums (len(line)+1) for every line before line, since
// SourceBuffer doesn't expose LineCol's inverse directly.
func lineByteStart(buf *locate.SourceBuffer, line int) int {
	start := 0
	for l := 1; l < line; l++ {
		start += len(buf.Line(l)) + 1
	}
	return start
}

func mergeWindows(ws [][2]int) [][2]int {
	if len(ws) == 0 {
		return nil
	}
	out := [][2]int{ws[0]}
	for _, w := range ws[1:] {
		last := &out[len(out)-1]
		if w[0] <= last[1]+1 {
			if w[1] > last[1] {
				last[1] = w[1]
			}
			continue
		}
		out = append(out, w)
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
