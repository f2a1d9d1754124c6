package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/pgfast/internal/lexer"
)

func kinds(toks []lexer.Token) []lexer.Kind {
	out := make([]lexer.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokenizeSimpleForm(t *testing.T) {
	toks := lexer.Tokenize(`(relname "users")`)
	require.Equal(t, []lexer.Kind{
		lexer.LParen, lexer.Ident, lexer.String, lexer.RParen, lexer.EOF,
	}, kinds(toks))
	require.Equal(t, "relname", toks[1].Text)
	require.Equal(t, "users", toks[2].Text)
}

func TestTokenizeDoubledQuoteEscape(t *testing.T) {
	toks := lexer.Tokenize(`"a""b"`)
	require.Equal(t, lexer.String, toks[0].Kind)
	require.Equal(t, `a"b`, toks[0].Text)
}

func TestTokenizeEllipsisIsSingleToken(t *testing.T) {
	toks := lexer.Tokenize(`(SelectStmt ... (A_Const (ival 42)))`)
	require.Contains(t, kinds(toks), lexer.Ellipsis)
}

func TestTokenizeBackref(t *testing.T) {
	toks := lexer.Tokenize(`($n (relname $n)) \1`)
	var found bool
	for _, tok := range toks {
		if tok.Kind == lexer.Backref {
			found = true
			require.Equal(t, 1, tok.Num)
		}
	}
	require.True(t, found)
}

func TestTokenizeOperatorsAndAtoms(t *testing.T) {
	toks := lexer.Tokenize(`!?^_ nil true false -12 3.5 {A B} [C D]`)
	require.Equal(t, []lexer.Kind{
		lexer.Bang, lexer.Question, lexer.Caret, lexer.Underscore,
		lexer.Ident, lexer.Ident, lexer.Ident,
		lexer.Number, lexer.Number,
		lexer.LBrace, lexer.NodeType, lexer.NodeType, lexer.RBrace,
		lexer.LBracket, lexer.NodeType, lexer.NodeType, lexer.RBracket,
		lexer.EOF,
	}, kinds(toks))
}

func TestTokenizeIsTotalOnGarbage(t *testing.T) {
	toks := lexer.Tokenize(`@#%`)
	for _, tok := range toks[:len(toks)-1] {
		require.Equal(t, lexer.Invalid, tok.Kind)
	}
}
