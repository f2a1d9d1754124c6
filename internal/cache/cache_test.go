package cache_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/pgfast/internal/cache"
	"github.com/oxhq/pgfast/internal/pattern"
)

func TestGetCompilesOnMiss(t *testing.T) {
	c := cache.New(10)
	expr, err := c.Get("SelectStmt")
	require.NoError(t, err)
	require.Equal(t, pattern.NodeType{Name: "SelectStmt"}, expr)
	require.Equal(t, 1, c.Len())
}

func TestGetReturnsSameExprOnHit(t *testing.T) {
	c := cache.New(10)
	first, err := c.Get("SelectStmt")
	require.NoError(t, err)
	second, err := c.Get("SelectStmt")
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, c.Len())
}

func TestGetPropagatesCompileErrorWithoutCaching(t *testing.T) {
	c := cache.New(10)
	_, err := c.Get("@")
	require.Error(t, err)
	require.Equal(t, 0, c.Len())
}

func TestEvictionBoundsCapacity(t *testing.T) {
	c := cache.New(4)
	for i := 0; i < 10; i++ {
		_, err := c.Get(nodeTypePattern(i))
		require.NoError(t, err)
		require.LessOrEqual(t, c.Len(), 4)
	}
}

func TestZeroCapacityFallsBackToDefault(t *testing.T) {
	c := cache.New(0)
	_, err := c.Get("SelectStmt")
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())
}

func nodeTypePattern(i int) string {
	names := []string{
		"SelectStmt", "InsertStmt", "UpdateStmt", "DeleteStmt", "CreateStmt",
		"DropStmt", "AlterTableStmt", "A_Const", "RangeVar", "ColumnRef",
	}
	return names[i%len(names)]
}
