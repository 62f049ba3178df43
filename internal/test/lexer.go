package test

import (
	"math/rand"
	"strings"
)

// Valid lexical units separated by '|'. The list covers both keywords, all
// five operators, delimiters, identifiers, integral and fractional numbers,
// and a comment.
const validTokens = "def|extern|foo|bar|x|y|longerIdentifierName|(|)|,|;|<|+|-|*|/|1|42|3.14|0.5|# a line comment\n|\n"

func GetRandomTokens(size int) string {
	return GetRandomTokensWithSep(size, " ")
}

func GetRandomTokensWithSep(size int, sep string) string {
	valid := strings.Split(validTokens, "|")

	var toks []string
	for len(toks) < size {
		toks = append(toks, valid[rand.Intn(len(valid))])
	}

	return strings.Join(toks, sep)
}
