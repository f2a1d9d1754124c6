package casefold_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/pgfast/internal/casefold"
)

func TestNamesEqual(t *testing.T) {
	cases := [][2]string{
		{"relname", "RELNAME"},
		{"relname", "rel_name"},
		{"RelName", "rel_name"},
		{"SelectStmt", "select_stmt"},
		{"SelectStmt", "SELECT_STMT"},
	}
	for _, c := range cases {
		require.True(t, casefold.NamesEqual(c[0], c[1]), "%s vs %s", c[0], c[1])
	}
}

func TestNamesNotEqual(t *testing.T) {
	require.False(t, casefold.NamesEqual("SelectStmt", "InsertStmt"))
}

func TestBoolLiteral(t *testing.T) {
	require.True(t, casefold.BoolLiteral("true", true))
	require.True(t, casefold.BoolLiteral("TRUE", true))
	require.True(t, casefold.BoolLiteral("false", false))
	require.False(t, casefold.BoolLiteral("true", false))
}
