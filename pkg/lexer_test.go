package kaleido

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"go.kaleido.dev/internal/test"
)

func TestLexer(t *testing.T) {
	cases := []struct {
		data   string
		fail   bool
		expect []Token
	}{
		{
			"3.14 + x",
			false,
			[]Token{
				{TokenNumber, "3.14", 3.14},
				{TokenChar, "+", 0},
				{TokenIdentifier, "x", 0},
			},
		},
		{
			"def foo(x y) x",
			false,
			[]Token{
				{TokenDef, "def", 0},
				{TokenIdentifier, "foo", 0},
				{TokenChar, "(", 0},
				{TokenIdentifier, "x", 0},
				{TokenIdentifier, "y", 0},
				{TokenChar, ")", 0},
				{TokenIdentifier, "x", 0},
			},
		},
		{
			"extern sin(a)",
			false,
			[]Token{
				{TokenExtern, "extern", 0},
				{TokenIdentifier, "sin", 0},
				{TokenChar, "(", 0},
				{TokenIdentifier, "a", 0},
				{TokenChar, ")", 0},
			},
		},
		{
			"# this is a comment\n1",
			false,
			[]Token{
				{TokenNumber, "1", 1},
			},
		},
		{
			"# a comment at end of input",
			false,
			nil,
		},
		{
			"a<b",
			false,
			[]Token{
				{TokenIdentifier, "a", 0},
				{TokenChar, "<", 0},
				{TokenIdentifier, "b", 0},
			},
		},
		{
			// Underscores keep mangled names referenceable at call sites.
			"foo_ext(x)",
			false,
			[]Token{
				{TokenIdentifier, "foo_ext", 0},
				{TokenChar, "(", 0},
				{TokenIdentifier, "x", 0},
				{TokenChar, ")", 0},
			},
		},
		{
			"únicódeShouldBeVàlid2",
			false,
			[]Token{
				{TokenIdentifier, "únicódeShouldBeVàlid2", 0},
			},
		},
		{
			".5",
			false,
			[]Token{
				{TokenNumber, ".5", 0.5},
			},
		},
		{
			// Unknown characters are not lexical errors; they reach the
			// parser as raw character tokens.
			"@",
			false,
			[]Token{
				{TokenChar, "@", 0},
			},
		},
		{
			"foo(1, 2);",
			false,
			[]Token{
				{TokenIdentifier, "foo", 0},
				{TokenChar, "(", 0},
				{TokenNumber, "1", 1},
				{TokenChar, ",", 0},
				{TokenNumber, "2", 2},
				{TokenChar, ")", 0},
				{TokenChar, ";", 0},
			},
		},
		{
			"1.2.3",
			true,
			nil,
		},
		{
			".",
			true,
			nil,
		},
	}

	for _, c := range cases {
		r := strings.NewReader(c.data)
		l := NewLexer(r)

		toks, err := l.RunBlocking()
		if c.fail {
			assert.Error(t, err)
		}

		assert.Equal(t, c.expect, toks)
	}
}

func TestLexerStopsAtError(t *testing.T) {
	l := NewLexer(strings.NewReader("1.2.3 + 4"))
	go l.Do()

	tok := l.Get()
	assert.Equal(t, TokenError, tok.Typ)
	assert.Contains(t, tok.Value, "too many decimal points")

	// Nothing follows the error token.
	assert.Equal(t, TokenEOF, l.Get().Typ)
}

func TestLexerEOF(t *testing.T) {
	l := NewLexer(strings.NewReader("x"))
	go l.Do()

	assert.Equal(t, TokenIdentifier, l.Get().Typ)
	assert.Equal(t, TokenEOF, l.Get().Typ)
	assert.Equal(t, TokenEOF, l.Get().Typ)
}

// Use a package-level variable to avoid compiler optimisation
var benchResult []Token

func benchmarkLexer(size int, b *testing.B) {
	for n := 0; n < b.N; n++ {
		// Setup
		b.StopTimer()
		data := test.GetRandomTokens(size)
		r := strings.NewReader(data)
		l := NewLexer(r)

		var err error
		b.StartTimer()

		benchResult, err = l.RunBlocking()
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLexer100(b *testing.B) {
	benchmarkLexer(100, b)
}

func BenchmarkLexer1000(b *testing.B) {
	benchmarkLexer(1000, b)
}

func BenchmarkLexer10000(b *testing.B) {
	benchmarkLexer(10000, b)
}
