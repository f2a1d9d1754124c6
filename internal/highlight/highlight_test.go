package highlight_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/pgfast/internal/highlight"
	"github.com/oxhq/pgfast/internal/locate"
)

func TestHighlightANSIWrapsRange(t *testing.T) {
	out := highlight.Highlight("SELECT 1", []locate.Range{{Start: 0, End: 6}}, highlight.ANSI)
	require.Contains(t, out, "\x1b[1;31mSELECT\x1b[0m")
}

func TestHighlightHTMLEscapesOutsideText(t *testing.T) {
	out := highlight.Highlight(`a < b`, []locate.Range{{Start: 0, End: 1}}, highlight.HTML)
	require.Contains(t, out, "&lt;")
	require.Contains(t, out, "<mark>a</mark>")
}

func TestHighlightMarkdownWrapsRange(t *testing.T) {
	out := highlight.Highlight("SELECT 1", []locate.Range{{Start: 0, End: 6}}, highlight.Markdown)
	require.Equal(t, "**SELECT** 1", out)
}

func TestHighlightNoRangesReturnsEscapedSource(t *testing.T) {
	out := highlight.Highlight("a < b", nil, highlight.HTML)
	require.Equal(t, "a &lt; b", out)
}

func TestHighlightMergesOverlappingRanges(t *testing.T) {
	out := highlight.Highlight("abcdef", []locate.Range{{Start: 0, End: 3}, {Start: 2, End: 5}}, highlight.Markdown)
	require.Equal(t, "**abcde**f", out)
}

func TestWithContextShowsSurroundingLines(t *testing.T) {
	src := "SELECT 1;\nSELECT 2;\nDELETE FROM users;\nSELECT 4;\nSELECT 5;"
	out := highlight.WithContext(src, []locate.Range{{Start: 20, End: 39}}, highlight.ContextOptions{
		Style: Markdown(), Before: 1, After: 1,
	})
	require.Contains(t, out, "**DELETE FROM users;**")
	require.Contains(t, out, "SELECT 2;")
	require.Contains(t, out, "SELECT 4;")
	require.NotContains(t, out, "SELECT 1;")
}

func TestWithContextInsertsGapMarkerBetweenDistantWindows(t *testing.T) {
	src := "SELECT 1;\nSELECT 2;\nSELECT 3;\nSELECT 4;\nSELECT 5;\nSELECT 6;\nSELECT 7;"
	out := highlight.WithContext(src, []locate.Range{
		{Start: 0, End: 9},
		{Start: 60, End: 69},
	}, highlight.ContextOptions{Style: Markdown(), Before: 0, After: 0})
	require.Contains(t, out, highlight.GapMarker)
}

func Markdown() highlight.Style { return highlight.Markdown }
