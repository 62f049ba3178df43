package kaleido

import (
	"errors"
	"fmt"
)

// ErrLexical wraps the tokenizer's single unrecoverable error. Unlike parse
// errors it cannot be skipped past: the token stream has ended.
var ErrLexical = errors.New("lexical error")

// binopPrecedence fixes the binary operators the language knows about.
// Anything absent (or non-positive) is not a binary operator.
var binopPrecedence = map[string]int{
	"<": 10,
	"+": 20,
	"-": 20,
	"*": 40,
	"/": 40,
}

// Suffixes appended to function names at parse time. A def and an extern of
// the same base name are distinct symbols everywhere downstream.
const (
	defSuffix    = "_def"
	externSuffix = "_ext"
)

type Parser struct {
	tokenizer Tokenizer
	buf       *Token
	started   bool
}

func NewParser(tokenizer Tokenizer) *Parser {
	return &Parser{
		tokenizer: tokenizer,
	}
}

func (p *Parser) peek() Token {
	if p.buf == nil {
		temp := p.next()
		p.buf = &temp
	}

	return *p.buf
}

func (p *Parser) next() Token {
	if !p.started {
		go p.tokenizer.Do()
		p.started = true
	}

	if p.buf != nil {
		if !p.buf.isValid() {
			// Don't pull past a terminal token; keep returning it.
			return *p.buf
		}

		temp := p.buf
		p.buf = nil

		return *temp
	}

	tok := p.tokenizer.Get()
	if !tok.isValid() {
		p.buf = &tok
	}

	return tok
}

func (p *Parser) consumeChar(c string) bool {
	if !p.peek().isChar(c) {
		return false
	}

	p.next()

	return true
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// parsePrimary handles the leaves of the expression grammar: literals,
// variable references, calls, and parenthesised sub-expressions.
func (p *Parser) parsePrimary() (Expr, error) {
	switch tok := p.peek(); tok.Typ {
	case TokenNumber:
		p.next()
		return &NumberLit{Value: tok.Num}, nil
	case TokenIdentifier:
		return p.parseIdentifierExpr()
	case TokenError:
		return nil, fmt.Errorf("%w: %s", ErrLexical, tok.Value)
	default:
		if tok.isChar("(") {
			return p.parseParenExpr()
		}

		return nil, p.errorf("unknown token when expecting an expression")
	}
}

// parseIdentifierExpr distinguishes a plain variable reference from a call by
// looking at the single token that follows the identifier.
func (p *Parser) parseIdentifierExpr() (Expr, error) {
	name := p.next().Value

	if !p.peek().isChar("(") {
		return &VariableRef{Name: name}, nil
	}

	p.next() // Skip the (

	var args []Expr
	if !p.peek().isChar(")") {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}

			args = append(args, arg)

			if p.peek().isChar(")") {
				break
			}

			if !p.consumeChar(",") {
				return nil, p.errorf("expected ')' or ',' in argument list")
			}
		}
	}

	p.next() // Skip the )

	return &CallExpr{Callee: name, Args: args}, nil
}

func (p *Parser) parseParenExpr() (Expr, error) {
	p.next() // Skip the (

	e, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if !p.consumeChar(")") {
		return nil, p.errorf("expected ')'")
	}

	return e, nil
}

// tokPrecedence looks up the precedence of the current token, or -1 if it is
// not a binary operator.
func (p *Parser) tokPrecedence() int {
	tok := p.peek()
	if tok.Typ != TokenChar {
		return -1
	}

	prec, ok := binopPrecedence[tok.Value]
	if !ok || prec <= 0 {
		return -1
	}

	return prec
}

// parseBinOpRHS folds operator/operand pairs onto lhs by precedence
// climbing. Operators of equal precedence fold to the left; an operator that
// binds tighter than the one just consumed claims the right operand first.
func (p *Parser) parseBinOpRHS(minPrec int, lhs Expr) (Expr, error) {
	for {
		prec := p.tokPrecedence()
		if prec < minPrec {
			return lhs, nil
		}

		op := p.next().Value

		rhs, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}

		if prec < p.tokPrecedence() {
			rhs, err = p.parseBinOpRHS(prec+1, rhs)
			if err != nil {
				return nil, err
			}
		}

		lhs = &BinaryExpr{Op: op, LHS: lhs, RHS: rhs}
	}
}

func (p *Parser) parseExpression() (Expr, error) {
	lhs, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	return p.parseBinOpRHS(0, lhs)
}

// parsePrototype parses "name(param param ...)" after a def or extern
// keyword, suffixing the name according to which keyword introduced it.
func (p *Parser) parsePrototype() (*Prototype, error) {
	keyword := p.next()

	var suffix string
	switch keyword.Typ {
	case TokenDef:
		suffix = defSuffix
	case TokenExtern:
		suffix = externSuffix
	default:
		return nil, p.errorf("expected 'def' or 'extern' in prototype")
	}

	name := p.peek()
	if name.Typ != TokenIdentifier {
		return nil, p.errorf("expected function name in prototype")
	}

	p.next()

	if !p.consumeChar("(") {
		return nil, p.errorf("expected '(' in prototype")
	}

	var params []string
	for p.peek().Typ == TokenIdentifier {
		params = append(params, p.next().Value)
	}

	if !p.consumeChar(")") {
		return nil, p.errorf("expected ')' in prototype")
	}

	return &Prototype{Name: name.Value + suffix, Params: params}, nil
}

// parseDefinition parses "def prototype expression".
func (p *Parser) parseDefinition() (*FuncDef, error) {
	proto, err := p.parsePrototype()
	if err != nil {
		return nil, err
	}

	body, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return &FuncDef{Proto: proto, Body: body}, nil
}

// parseExtern parses "extern prototype".
func (p *Parser) parseExtern() (*Prototype, error) {
	return p.parsePrototype()
}

// parseTopLevelExpr wraps a bare expression in an anonymous nullary
// prototype so it can be lowered like any other function.
func (p *Parser) parseTopLevelExpr() (*FuncDef, error) {
	body, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return &FuncDef{Proto: &Prototype{Name: ""}, Body: body}, nil
}
