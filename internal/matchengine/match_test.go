package matchengine_test

import (
	"testing"

	pg_query "github.com/pganalyze/pg_query_go/v6"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/pgfast/internal/astview"
	"github.com/oxhq/pgfast/internal/matchengine"
	"github.com/oxhq/pgfast/internal/pattern"
)

func parseRoot(t *testing.T, sql string) astview.Node {
	t.Helper()
	res, err := pg_query.Parse(sql)
	require.NoError(t, err)
	require.Len(t, res.Stmts, 1)
	return astview.WrapMessage(res.Stmts[0].Stmt.ProtoReflect())
}

func compile(t *testing.T, src string) pattern.Expr {
	t.Helper()
	expr, err := pattern.Compile(src)
	require.NoError(t, err)
	return expr
}

func TestMatchNodeTypeHead(t *testing.T) {
	root := parseRoot(t, `SELECT 1`)
	ok, _ := matchengine.MatchNode(root, compile(t, `SelectStmt`))
	require.True(t, ok)

	ok, _ = matchengine.MatchNode(root, compile(t, `InsertStmt`))
	require.False(t, ok)
}

func TestMatchAttributeOnTableName(t *testing.T) {
	root := parseRoot(t, `SELECT * FROM users`)
	expr := compile(t, `(SelectStmt (from_clause (relname "users")))`)
	ok, _ := matchengine.MatchNode(root, expr)
	require.True(t, ok)
}

func TestMatchSubtreeSearchFindsNestedConst(t *testing.T) {
	root := parseRoot(t, `SELECT * FROM users WHERE (id = 42)`)
	expr := compile(t, `(SelectStmt ... (A_Const (ival 42)))`)
	ok, _ := matchengine.MatchNode(root, expr)
	require.True(t, ok)
}

func TestMatchCaseInsensitiveNodeType(t *testing.T) {
	root := parseRoot(t, `SELECT 1`)
	ok, _ := matchengine.MatchNode(root, compile(t, `select_stmt`))
	require.True(t, ok)
}

func TestMatchNamedCaptureAndBackreference(t *testing.T) {
	root := parseRoot(t, `SELECT * FROM users, users`)
	expr := compile(t, `(from_clause (relname $n) (relname $n))`)
	ok, snap := matchengine.MatchNode(root, expr)
	require.True(t, ok)
	require.NotNil(t, snap)
	require.Equal(t, []string{"n"}, snap.OrderedNames())
}

func TestMatchNamedCaptureRejectsMismatch(t *testing.T) {
	root := parseRoot(t, `SELECT * FROM users, orders`)
	expr := compile(t, `(from_clause (relname $n) (relname $n))`)
	ok, _ := matchengine.MatchNode(root, expr)
	require.False(t, ok)
}

func TestMatchNotNegatesNodeType(t *testing.T) {
	root := parseRoot(t, `SELECT 1`)
	expr := compile(t, `!InsertStmt`)
	ok, _ := matchengine.MatchNode(root, expr)
	require.True(t, ok)
}

func TestMatchMaybeAcceptsAbsentField(t *testing.T) {
	root := parseRoot(t, `SELECT 1`)
	expr := compile(t, `(SelectStmt (where_clause ?_))`)
	ok, _ := matchengine.MatchNode(root, expr)
	require.True(t, ok)
}

func TestMatchAnyDisjunction(t *testing.T) {
	root := parseRoot(t, `SELECT 1`)
	expr := compile(t, `{InsertStmt SelectStmt}`)
	ok, _ := matchengine.MatchNode(root, expr)
	require.True(t, ok)
}

func TestMatchStrictBracketRequiresAllElements(t *testing.T) {
	root := parseRoot(t, `SELECT * FROM users`)
	expr := compile(t, `[SelectStmt ^(relname "users")]`)
	ok, _ := matchengine.MatchNode(root, expr)
	require.True(t, ok)

	exprFail := compile(t, `[SelectStmt ^(relname "orders")]`)
	ok, _ = matchengine.MatchNode(root, exprFail)
	require.False(t, ok)
}

func TestMatchEllipsisPositionalSkip(t *testing.T) {
	root := parseRoot(t, `SELECT a, b, c FROM t`)
	// A bare head-then-ellipsis pattern accepts any number of children,
	// in any arrangement.
	expr := compile(t, `(SelectStmt ...)`)
	ok, _ := matchengine.MatchNode(root, expr)
	require.True(t, ok)
}
