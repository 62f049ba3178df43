package kaleido

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type TokenType uint64
type stateFunc func(l *Lexer) stateFunc

const (
	EOF rune = 0

	TokenError TokenType = iota
	TokenEOF
	TokenNumber

	TokenIdentifier
	TokenDef
	TokenExtern

	// TokenChar covers every operator and delimiter: the lexer does not
	// enumerate them, it hands the raw character to the parser.
	TokenChar
)

var keywordTable = map[string]TokenType{
	"def":    TokenDef,
	"extern": TokenExtern,
}

type Token struct {
	Typ   TokenType
	Value string
	Num   float64
}

// isValid reports whether more tokens may follow this one. Error and EOF
// tokens are terminal: the lexer emits nothing after either.
func (t Token) isValid() bool {
	return t.Typ != TokenError && t.Typ != TokenEOF
}

// isChar reports whether the token is the single character c.
func (t Token) isChar(c string) bool {
	return t.Typ == TokenChar && t.Value == c
}

// Tokenizer is the pull interface the parser consumes. Do starts producing
// tokens and Get blocks until the next one is available.
type Tokenizer interface {
	Do()
	Get() Token
}

type Lexer struct {
	reader *bufio.Reader
	done   chan Token
}

func NewLexer(reader io.Reader) *Lexer {
	return &Lexer{
		reader: bufio.NewReader(reader),
		done:   make(chan Token),
	}
}

func (l *Lexer) Do() {
	for state := defaultState; state != nil; {
		state = state(l)
	}

	close(l.done)
}

func (l *Lexer) Get() Token {
	t, ok := <-l.done
	if !ok {
		return Token{Typ: TokenEOF}
	}

	return t
}

func (l *Lexer) RunBlocking() ([]Token, error) {
	go l.Do()

	var tokens []Token
	for {
		t := l.Get()
		if t.Typ == TokenEOF {
			return tokens, nil
		}

		if t.Typ == TokenError {
			return nil, errors.New(t.Value)
		}

		tokens = append(tokens, t)
	}
}

func defaultState(l *Lexer) stateFunc {
	for {
		switch r := l.peek(); {
		case r == EOF:
			return l.emitValue(TokenEOF, "")
		case unicode.IsSpace(r):
			l.next()
			continue
		case '0' <= r && r <= '9' || r == '.':
			return numberState
		case unicode.IsLetter(r) || r == '_':
			return identifierState
		case r == '#':
			return commentState
		default:
			return l.emitValue(TokenChar, string(l.next()))
		}
	}
}

func identifierState(l *Lexer) stateFunc {
	var id strings.Builder
	for r := l.peek(); unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'; r = l.peek() {
		id.WriteRune(l.next())
	}

	if t, ok := keywordTable[id.String()]; ok {
		return l.emitValue(t, id.String())
	}

	return l.emitValue(TokenIdentifier, id.String())
}

// numberState consumes a run of digits and decimal points. A literal with
// more than one decimal point is unrecoverable: the error token it produces
// terminates the stream.
func numberState(l *Lexer) stateFunc {
	var num strings.Builder
	decimals := 0
	for r := l.peek(); '0' <= r && r <= '9' || r == '.'; r = l.peek() {
		if r == '.' {
			decimals++
		}

		num.WriteRune(l.next())
	}

	if decimals > 1 {
		return l.errorf("malformed number '%s': too many decimal points", num.String())
	}

	v, err := strconv.ParseFloat(num.String(), 64)
	if err != nil {
		return l.errorf("malformed number '%s'", num.String())
	}

	l.done <- Token{
		Typ:   TokenNumber,
		Value: num.String(),
		Num:   v,
	}

	return defaultState
}

// commentState discards everything up to the end of the line. No token is
// emitted: comments are invisible to the parser.
func commentState(l *Lexer) stateFunc {
	for r := l.peek(); r != '\n' && r != '\r' && r != EOF; r = l.peek() {
		l.next()
	}

	return defaultState
}

func (l *Lexer) errorf(format string, args ...interface{}) stateFunc {
	l.done <- Token{
		Typ:   TokenError,
		Value: fmt.Sprintf(format, args...),
	}

	return nil
}

func (l *Lexer) emitValue(t TokenType, val string) stateFunc {
	l.done <- Token{
		Typ:   t,
		Value: val,
	}

	if t == TokenEOF {
		return nil
	}

	return defaultState
}

func (l *Lexer) peek() rune {
	r := l.next()
	_ = l.reader.UnreadRune()

	return r
}

func (l *Lexer) next() rune {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		if err == io.EOF {
			return EOF
		}

		return utf8.RuneError
	}

	return r
}
