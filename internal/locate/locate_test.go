package locate_test

import (
	"testing"

	pg_query "github.com/pganalyze/pg_query_go/v6"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/pgfast/internal/astview"
	"github.com/oxhq/pgfast/internal/locate"
)

func TestNodeRangeOnSimpleSelect(t *testing.T) {
	sql := "SELECT id FROM users"
	res, err := pg_query.Parse(sql)
	require.NoError(t, err)
	root := astview.WrapMessage(res.Stmts[0].Stmt.ProtoReflect())

	// SelectStmt itself carries no location field, so it has no range.
	_, ok := locate.NodeRange(root, sql)
	require.False(t, ok)

	from, ok := astview.GetField(root, "from_clause")
	require.True(t, ok)
	require.Len(t, from.Messages, 1)
	rng, ok := locate.NodeRange(from.Messages[0], sql)
	require.True(t, ok)
	require.Equal(t, 15, rng.Start)
	require.GreaterOrEqual(t, rng.End, len(sql))
}

func TestMergeRangesCoalescesOverlap(t *testing.T) {
	got := locate.MergeRanges([]locate.Range{
		{Start: 10, End: 20},
		{Start: 15, End: 25},
		{Start: 40, End: 50},
	})
	require.Equal(t, []locate.Range{
		{Start: 10, End: 25},
		{Start: 40, End: 50},
	}, got)
}

func TestMergeRangesCoalescesTouching(t *testing.T) {
	got := locate.MergeRanges([]locate.Range{
		{Start: 0, End: 5},
		{Start: 5, End: 9},
	})
	require.Equal(t, []locate.Range{{Start: 0, End: 9}}, got)
}

func TestMergeRangesEmpty(t *testing.T) {
	require.Nil(t, locate.MergeRanges(nil))
}

func TestSourceBufferLineCol(t *testing.T) {
	buf := locate.NewSourceBuffer("SELECT 1\nFROM users\nWHERE id = 1")
	line, col := buf.LineCol(0)
	require.Equal(t, 1, line)
	require.Equal(t, 1, col)

	line, col = buf.LineCol(9) // start of "FROM"
	require.Equal(t, 2, line)
	require.Equal(t, 1, col)

	require.Equal(t, "FROM users", buf.Line(2))
	require.Equal(t, 3, buf.LineCount())
}
