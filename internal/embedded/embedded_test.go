package embedded_test

import (
	"testing"

	pg_query "github.com/pganalyze/pg_query_go/v6"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/pgfast/internal/astview"
	"github.com/oxhq/pgfast/internal/embedded"
)

func parseRoot(t *testing.T, sql string) astview.Node {
	t.Helper()
	res, err := pg_query.Parse(sql)
	require.NoError(t, err)
	require.Len(t, res.Stmts, 1)
	return astview.WrapMessage(res.Stmts[0].Stmt.ProtoReflect())
}

func TestIsProceduralNodeRecognizesDoStmt(t *testing.T) {
	root := parseRoot(t, `DO $$ BEGIN PERFORM 1; END $$`)
	require.True(t, embedded.IsProceduralNode(root))
}

func TestIsProceduralNodeRejectsPlainSelect(t *testing.T) {
	root := parseRoot(t, `SELECT 1`)
	require.False(t, embedded.IsProceduralNode(root))
}

func TestExtractPullsDoBlockBody(t *testing.T) {
	root := parseRoot(t, `DO $$ BEGIN DELETE FROM users WHERE id = 1; END $$`)
	bodies := embedded.Extract(root)
	require.Len(t, bodies, 1)
	require.Contains(t, bodies[0].Source, "DELETE FROM users")
}

func TestCandidateStatementsFindsEmbeddedSQL(t *testing.T) {
	body := "BEGIN\n  DELETE FROM users WHERE id = 1;\n  PERFORM something();\nEND"
	cands := embedded.CandidateStatements(body)
	require.Len(t, cands, 1)
	require.Equal(t, "DELETE FROM users WHERE id = 1;", cands[0].Source)
}

func TestCandidateStatementsSkipsControlFlowOnly(t *testing.T) {
	body := "BEGIN\n  FOR i IN 1..10 LOOP\n    RAISE NOTICE 'hi';\n  END LOOP;\nEND"
	require.Empty(t, embedded.CandidateStatements(body))
}
