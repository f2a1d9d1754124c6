package pattern

import (
	"strconv"
	"strings"

	"github.com/oxhq/pgfast/internal/lexer"
)

// Compile parses pattern text into an Expr, or returns a *CompileError. It
// never panics and never returns a malformed expression: every error path
// returns before constructing a partial tree.
func Compile(src string) (Expr, error) {
	toks := lexer.Tokenize(src)
	c := &compiler{toks: toks, seenNames: map[string]bool{}}
	expr, err := c.parseExpr()
	if err != nil {
		return nil, err
	}
	if c.peek().Kind != lexer.EOF {
		return nil, &CompileError{Position: c.peek().Pos, Message: "unexpected trailing input after pattern"}
	}
	return expr, nil
}

type compiler struct {
	toks         []lexer.Token
	pos          int
	nextPosition int             // next positional capture index, 1-based
	seenNames    map[string]bool // named captures already bound earlier in this pattern
}

func (c *compiler) peek() lexer.Token {
	return c.toks[c.pos]
}

func (c *compiler) peekAt(n int) lexer.Token {
	i := c.pos + n
	if i >= len(c.toks) {
		return c.toks[len(c.toks)-1] // EOF sentinel is always last
	}
	return c.toks[i]
}

func (c *compiler) advance() lexer.Token {
	t := c.toks[c.pos]
	if t.Kind != lexer.EOF {
		c.pos++
	}
	return t
}

// parseExpr parses one complete expression starting at the current token.
func (c *compiler) parseExpr() (Expr, error) {
	tok := c.peek()
	switch tok.Kind {
	case lexer.Bang:
		c.advance()
		inner, err := c.parseExpr()
		if err != nil {
			return nil, err
		}
		return Not{Inner: inner}, nil

	case lexer.Question:
		c.advance()
		inner, err := c.parseExpr()
		if err != nil {
			return nil, err
		}
		return Maybe{Inner: inner}, nil

	case lexer.Caret:
		c.advance()
		inner, err := c.parseExpr()
		if err != nil {
			return nil, err
		}
		return HasChild{Inner: inner}, nil

	case lexer.Dollar:
		return c.parseCapture()

	case lexer.Backref:
		c.advance()
		if tok.Num < 1 {
			return nil, &CompileError{Position: tok.Pos, Message: "backreference index must be 1-9"}
		}
		return Backref{Index: tok.Num}, nil

	case lexer.LParen:
		return c.parseParenForm()

	case lexer.LBracket:
		return c.parseBracketForm()

	case lexer.LBrace:
		return c.parseBraceForm()

	case lexer.Underscore:
		c.advance()
		return Wildcard{}, nil

	case lexer.Ellipsis:
		c.advance()
		return AnyChildren{}, nil

	case lexer.NodeType:
		c.advance()
		return NodeType{Name: tok.Text}, nil

	case lexer.Ident:
		c.advance()
		switch tok.Text {
		case "nil":
			return Nil{}, nil
		case "true":
			return Literal{Value: true}, nil
		case "false":
			return Literal{Value: false}, nil
		default:
			return Literal{Value: tok.Text}, nil
		}

	case lexer.String:
		c.advance()
		return Literal{Value: tok.Text}, nil

	case lexer.Number:
		c.advance()
		return Literal{Value: parseNumber(tok.Text)}, nil

	case lexer.Invalid:
		return nil, &CompileError{Position: tok.Pos, Message: "unexpected character " + strconv.Quote(tok.Text)}

	default:
		return nil, &CompileError{Position: tok.Pos, Message: "unexpected " + tok.Kind.String()}
	}
}

// parseCapture handles everything after a '$'. A bare name ("$tbl") binds
// the current position under that name with an implicit Wildcard — the
// first time it is seen. Every later mention of the same name in the same
// pattern is read as a backreference ("this position must structurally
// equal whatever $tbl already bound"), since a repeated name has nothing
// new left to capture. Anything else following '$' ("$expr", "$(pat)",
// "$NodeType", "$_", ...) is an anonymous capture wrapping that expression,
// numbered positionally to match "\1".."\9".
func (c *compiler) parseCapture() (Expr, error) {
	dollarPos := c.peek().Pos
	c.advance() // '$'

	next := c.peek()
	if next.Kind == lexer.Ident {
		c.advance() // the name
		if c.seenNames[next.Text] {
			return NamedBackref{Name: next.Text}, nil
		}
		c.seenNames[next.Text] = true
		return Capture{Key: CaptureKey{Name: next.Text}, Inner: Wildcard{}}, nil
	}

	if isFormCloser(next.Kind) {
		return nil, &CompileError{Position: dollarPos, Message: "'$' must be followed by a name or an expression"}
	}

	// Anonymous positional capture.
	c.nextPosition++
	idx := c.nextPosition
	inner, err := c.parseExpr()
	if err != nil {
		return nil, err
	}
	return Capture{Key: CaptureKey{Index: idx}, Inner: inner}, nil
}

func isFormCloser(k lexer.Kind) bool {
	switch k {
	case lexer.RParen, lexer.RBracket, lexer.RBrace, lexer.EOF:
		return true
	default:
		return false
	}
}

// parseParenForm compiles "( expr+ )". If the first element is a bare
// field-name identifier, the form is an Attribute lookup; otherwise it is a
// non-strict All whose elements all apply to the same node, with "..."
// tokens kept as Ellipsis markers for the matcher's "(Head ... P)"
// subtree search.
func (c *compiler) parseParenForm() (Expr, error) {
	openPos := c.peek().Pos
	c.advance() // '('

	if c.peek().Kind == lexer.RParen {
		return nil, &CompileError{Position: openPos, Message: "empty ( ) form"}
	}

	if c.peek().Kind == lexer.Ident && isPlainFieldHead(c.peek()) {
		name := c.peek().Text
		c.advance()

		var rest []Expr
		for c.peek().Kind != lexer.RParen {
			if c.peek().Kind == lexer.EOF {
				return nil, &CompileError{Position: openPos, Message: "unterminated ( ) form"}
			}
			e, err := c.parseListElem()
			if err != nil {
				return nil, err
			}
			rest = append(rest, e)
		}
		c.advance() // ')'

		if len(rest) == 0 {
			return nil, &CompileError{Position: openPos, Message: "attribute form requires an inner expression"}
		}
		var inner Expr
		if len(rest) == 1 {
			inner = rest[0]
		} else {
			inner = All{Strict: true, Elems: rest}
		}
		return Attribute{Name: name, Inner: inner}, nil
	}

	var elems []Expr
	for c.peek().Kind != lexer.RParen {
		if c.peek().Kind == lexer.EOF {
			return nil, &CompileError{Position: openPos, Message: "unterminated ( ) form"}
		}
		e, err := c.parseListElem()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	c.advance() // ')'

	if len(elems) == 0 {
		return nil, &CompileError{Position: openPos, Message: "empty ( ) form"}
	}
	return All{Strict: false, Elems: elems}, nil
}

// parseListElem parses one element of a paren/bracket list, recognising a
// bare "..." as the Ellipsis placeholder rather than recursing into
// parseExpr (which would turn it into AnyChildren).
func (c *compiler) parseListElem() (Expr, error) {
	if c.peek().Kind == lexer.Ellipsis {
		c.advance()
		return Ellipsis{}, nil
	}
	return c.parseExpr()
}

// isPlainFieldHead reports whether tok is a bare identifier unadorned by any
// prefix operator, i.e. it was reached directly as the head of a "(...)"
// form rather than through '!', '?', '^', or '$'. Since parseParenForm only
// calls this before consuming anything, any Ident token it sees here is by
// construction the literal head of the form.
func isPlainFieldHead(tok lexer.Token) bool {
	return tok.Kind == lexer.Ident
}

// parseBracketForm compiles "[ expr+ ]": every element must match the same
// node (conjunction).
func (c *compiler) parseBracketForm() (Expr, error) {
	openPos := c.peek().Pos
	c.advance() // '['

	var elems []Expr
	for c.peek().Kind != lexer.RBracket {
		if c.peek().Kind == lexer.EOF {
			return nil, &CompileError{Position: openPos, Message: "unterminated [ ] form"}
		}
		e, err := c.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	c.advance() // ']'

	if len(elems) == 0 {
		return nil, &CompileError{Position: openPos, Message: "empty [ ] form"}
	}
	return All{Strict: true, Elems: elems}, nil
}

// parseBraceForm compiles "{ expr+ }": first alternative to match wins.
func (c *compiler) parseBraceForm() (Expr, error) {
	openPos := c.peek().Pos
	c.advance() // '{'

	var alts []Expr
	for c.peek().Kind != lexer.RBrace {
		if c.peek().Kind == lexer.EOF {
			return nil, &CompileError{Position: openPos, Message: "unterminated { } form"}
		}
		e, err := c.parseExpr()
		if err != nil {
			return nil, err
		}
		alts = append(alts, e)
	}
	c.advance() // '}'

	if len(alts) == 0 {
		return nil, &CompileError{Position: openPos, Message: "empty { } form"}
	}
	return Any{Alts: alts}, nil
}

func parseNumber(text string) any {
	if strings.ContainsAny(text, ".") {
		f, err := strconv.ParseFloat(text, 64)
		if err == nil {
			return f
		}
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err == nil {
		return n
	}
	f, _ := strconv.ParseFloat(text, 64)
	return f
}
