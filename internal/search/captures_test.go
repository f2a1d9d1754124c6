package search_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/pgfast/internal/astview"
	"github.com/oxhq/pgfast/internal/search"
)

func TestSearchWithCapturesGroupsByKey(t *testing.T) {
	sql := `SELECT * FROM users, orders`
	matches, grouped, err := search.SearchWithCaptures(context.Background(), sql, `($tbl (relname _))`, nil)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	require.Equal(t, []string{"tbl"}, grouped.Keys)
	require.Len(t, grouped.ByName["tbl"], 2)

	var names []string
	for _, n := range grouped.ByName["tbl"] {
		f, ok := astview.GetField(n, "relname")
		require.True(t, ok)
		names = append(names, f.Scalar.(string))
	}
	require.ElementsMatch(t, []string{"users", "orders"}, names)
}
