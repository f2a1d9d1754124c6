package textutil_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/pgfast/internal/textutil"
)

func TestUnifiedDiffShowsAddedLine(t *testing.T) {
	diff, err := textutil.UnifiedDiff("before", "after", "a\nb\nc\n", "a\nb\nc\nd\n", 3)
	require.NoError(t, err)
	require.Contains(t, diff, "+d")
	require.Contains(t, diff, "--- before")
	require.Contains(t, diff, "+++ after")
}

func TestUnifiedDiffEmptyWhenIdentical(t *testing.T) {
	diff, err := textutil.UnifiedDiff("before", "after", "a\nb\n", "a\nb\n", 3)
	require.NoError(t, err)
	require.Empty(t, diff)
}

func TestSummarizeJoinsWithTrailingNewline(t *testing.T) {
	out := textutil.Summarize([]string{"0:7 SelectStmt", "1:0 InsertStmt"})
	require.True(t, strings.HasSuffix(out, "\n"))
	require.Equal(t, "0:7 SelectStmt\n1:0 InsertStmt\n", out)
}
