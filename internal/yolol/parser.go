package yolol

import (
	"fmt"
	"strings"

	"github.com/roach88/yololtest/internal/value"
)

// Parse parses Yolol source text. The first syntax error is returned as a
// *ParseError.
func Parse(source string) (*Script, error) {
	text := strings.ReplaceAll(source, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	rawLines := strings.Split(text, "\n")

	script := &Script{Lines: make([]Line, 0, len(rawLines))}
	for i, raw := range rawLines {
		number := i + 1
		tokens, err := lexLine(raw, number)
		if err != nil {
			return nil, err
		}
		p := &parser{tokens: tokens}
		stmts, err := p.parseLine()
		if err != nil {
			return nil, err
		}
		script.Lines = append(script.Lines, Line{Number: number, Stmts: stmts})
	}
	return script, nil
}

// Unary keyword operators that take a single operand.
var keywordFuncs = map[string]bool{
	"abs": true, "sqrt": true, "sin": true, "cos": true, "tan": true,
	"asin": true, "acos": true, "atan": true,
}

var compoundOps = map[string]string{
	"=": "=", "+=": "+", "-=": "-", "*=": "*", "/=": "/", "%=": "%",
}

type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *parser) next() Token {
	tok := p.tokens[p.pos]
	if tok.Kind != TokenEOL {
		p.pos++
	}
	return tok
}

func (p *parser) is(kind TokenKind, text string) bool {
	tok := p.peek()
	return tok.Kind == kind && tok.Text == text
}

func (p *parser) errorf(tok Token, format string, args ...any) error {
	return &ParseError{Line: tok.Line, Column: tok.Column, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) expect(kind TokenKind, text string) (Token, error) {
	tok := p.peek()
	if tok.Kind != kind || tok.Text != text {
		return tok, p.errorf(tok, "expected '%s', found %s", text, tok.describe())
	}
	return p.next(), nil
}

func (p *parser) parseLine() ([]Stmt, error) {
	stmts, err := p.parseStmts(func(Token) bool { return false })
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Kind != TokenEOL {
		return nil, p.errorf(tok, "unexpected %s", tok.describe())
	}
	return stmts, nil
}

// parseStmts parses statements until end of line or until stop matches the
// next token.
func (p *parser) parseStmts(stop func(Token) bool) ([]Stmt, error) {
	var stmts []Stmt
	for {
		tok := p.peek()
		if tok.Kind == TokenEOL || stop(tok) {
			return stmts, nil
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
}

func (p *parser) parseStmt() (Stmt, error) {
	tok := p.peek()
	pos := Pos{Line: tok.Line, Column: tok.Column}

	switch {
	case tok.Kind == TokenKeyword && tok.Text == "if":
		return p.parseIf()

	case tok.Kind == TokenKeyword && tok.Text == "goto":
		p.next()
		target, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &Goto{Pos: pos, Line: target}, nil

	case tok.Kind == TokenOperator && (tok.Text == "++" || tok.Text == "--"):
		p.next()
		target, err := p.parseVar()
		if err != nil {
			return nil, err
		}
		return &IncDec{Pos: pos, Target: target, Op: tok.Text, Prefix: true}, nil

	case tok.Kind == TokenIdent || tok.Kind == TokenExternal:
		target, err := p.parseVar()
		if err != nil {
			return nil, err
		}
		op := p.peek()
		if op.Kind == TokenOperator && (op.Text == "++" || op.Text == "--") {
			p.next()
			return &IncDec{Pos: pos, Target: target, Op: op.Text}, nil
		}
		bare, ok := compoundOps[op.Text]
		if op.Kind != TokenOperator || !ok {
			return nil, p.errorf(op, "expected assignment after '%s', found %s", target.Name, op.describe())
		}
		p.next()
		rhs, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &Assign{Pos: pos, Target: target, Op: bare, Value: rhs}, nil
	}

	return nil, p.errorf(tok, "unexpected %s", tok.describe())
}

func (p *parser) parseVar() (Var, error) {
	tok := p.peek()
	if tok.Kind != TokenIdent && tok.Kind != TokenExternal {
		return Var{}, p.errorf(tok, "expected variable, found %s", tok.describe())
	}
	p.next()
	return Var{Pos: Pos{Line: tok.Line, Column: tok.Column}, Name: tok.Text}, nil
}

func (p *parser) parseIf() (Stmt, error) {
	start := p.next()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenKeyword, "then"); err != nil {
		return nil, err
	}

	isElseOrEnd := func(t Token) bool {
		return t.Kind == TokenKeyword && (t.Text == "else" || t.Text == "end")
	}
	thenBody, err := p.parseStmts(isElseOrEnd)
	if err != nil {
		return nil, err
	}

	var elseBody []Stmt
	if p.is(TokenKeyword, "else") {
		p.next()
		elseBody, err = p.parseStmts(func(t Token) bool {
			return t.Kind == TokenKeyword && t.Text == "end"
		})
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TokenKeyword, "end"); err != nil {
		return nil, err
	}

	return &If{
		Pos:  Pos{Line: start.Line, Column: start.Column},
		Cond: cond,
		Then: thenBody,
		Else: elseBody,
	}, nil
}

func (p *parser) parseExpr() (Expr, error) {
	return p.parseOr()
}

// binaryLevel parses a left-associative chain of the given operators.
func (p *parser) binaryLevel(kind TokenKind, ops []string, operand func() (Expr, error)) (Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.Kind != kind || !contains(ops, tok.Text) {
			return left, nil
		}
		p.next()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = &Binary{Pos: Pos{Line: tok.Line, Column: tok.Column}, Op: tok.Text, Left: left, Right: right}
	}
}

func (p *parser) parseOr() (Expr, error) {
	return p.binaryLevel(TokenKeyword, []string{"or"}, p.parseAnd)
}

func (p *parser) parseAnd() (Expr, error) {
	return p.binaryLevel(TokenKeyword, []string{"and"}, p.parseNot)
}

func (p *parser) parseNot() (Expr, error) {
	if tok := p.peek(); tok.Kind == TokenKeyword && tok.Text == "not" {
		p.next()
		x, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &Unary{Pos: Pos{Line: tok.Line, Column: tok.Column}, Op: "not", X: x}, nil
	}
	return p.parseEquality()
}

func (p *parser) parseEquality() (Expr, error) {
	return p.binaryLevel(TokenOperator, []string{"==", "!="}, p.parseRelational)
}

func (p *parser) parseRelational() (Expr, error) {
	return p.binaryLevel(TokenOperator, []string{"<", ">", "<=", ">="}, p.parseAdditive)
}

func (p *parser) parseAdditive() (Expr, error) {
	return p.binaryLevel(TokenOperator, []string{"+", "-"}, p.parseMultiplicative)
}

func (p *parser) parseMultiplicative() (Expr, error) {
	return p.binaryLevel(TokenOperator, []string{"*", "/", "%"}, p.parsePow)
}

// parsePow is right-associative: 2^3^2 == 2^(3^2).
func (p *parser) parsePow() (Expr, error) {
	base, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Kind == TokenOperator && tok.Text == "^" {
		p.next()
		exp, err := p.parsePow()
		if err != nil {
			return nil, err
		}
		return &Binary{Pos: Pos{Line: tok.Line, Column: tok.Column}, Op: "^", Left: base, Right: exp}, nil
	}
	return base, nil
}

func (p *parser) parseUnary() (Expr, error) {
	tok := p.peek()
	pos := Pos{Line: tok.Line, Column: tok.Column}
	if tok.Kind == TokenOperator && tok.Text == "-" {
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{Pos: pos, Op: "-", X: x}, nil
	}
	if tok.Kind == TokenKeyword && keywordFuncs[tok.Text] {
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{Pos: pos, Op: tok.Text, X: x}, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (Expr, error) {
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.Kind != TokenOperator || tok.Text != "!" {
			return x, nil
		}
		p.next()
		x = &Unary{Pos: Pos{Line: tok.Line, Column: tok.Column}, Op: "!", X: x}
	}
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.peek()
	pos := Pos{Line: tok.Line, Column: tok.Column}
	switch tok.Kind {
	case TokenNumber:
		p.next()
		n, err := value.ParseNumber(tok.Text)
		if err != nil {
			return nil, p.errorf(tok, "%v", err)
		}
		return &NumberLit{Pos: pos, Value: n}, nil
	case TokenString:
		p.next()
		return &StringLit{Pos: pos, Value: tok.Text}, nil
	case TokenIdent, TokenExternal:
		p.next()
		return &VarRef{Var: Var{Pos: pos, Name: tok.Text}}, nil
	case TokenLParen:
		p.next()
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen, ")"); err != nil {
			return nil, err
		}
		return x, nil
	}
	return nil, p.errorf(tok, "expected expression, found %s", tok.describe())
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
