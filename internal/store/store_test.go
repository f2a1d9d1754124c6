package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/pgfast/internal/search"
	"github.com/oxhq/pgfast/internal/store"
)

func TestRecordRunAndRunsByPattern(t *testing.T) {
	st, err := store.Open(":memory:", false)
	require.NoError(t, err)
	defer st.Close()

	sql := `SELECT * FROM users, orders`
	matches, err := search.Search(context.Background(), sql, `(relname _)`, nil)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	row, err := st.RecordRun(`(relname _)`, sql, "inline.sql", matches, nil)
	require.NoError(t, err)
	require.Equal(t, 2, row.MatchCount)
	require.NotEmpty(t, row.SQLDigest)

	rows, err := st.RunsByPattern(`(relname _)`, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, row.ID, rows[0].ID)
}

func TestRunsByPatternEmptyWhenNoneRecorded(t *testing.T) {
	st, err := store.Open(":memory:", false)
	require.NoError(t, err)
	defer st.Close()

	rows, err := st.RunsByPattern("SelectStmt", 10)
	require.NoError(t, err)
	require.Empty(t, rows)
}
