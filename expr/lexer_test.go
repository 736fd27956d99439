package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexerTokens(t *testing.T) {
	tokens := NewLexer("  1_000 + rate * (x2 - 3.5e2)").Tokens()

	kinds := make([]TokenKind, len(tokens))
	for i, token := range tokens {
		kinds[i] = token.Kind
	}
	assert.Equal(t, []TokenKind{
		TokenInt, TokenOperator, TokenIdentifier, TokenOperator,
		TokenLeftParen, TokenIdentifier, TokenOperator, TokenDouble,
		TokenRightParen, TokenEmpty,
	}, kinds)

	assert.Equal(t, "1_000", tokens[0].Text)
	assert.Equal(t, "  ", tokens[0].Leading)
	assert.Equal(t, "3.5e2", tokens[7].Text)
}

func TestLexerTriviaRoundTrip(t *testing.T) {
	source := "  a +\tb  "
	var text string
	for _, token := range NewLexer(source).Tokens() {
		text += token.FullText()
	}
	assert.Equal(t, source, text)
}

func TestLexerNumberKinds(t *testing.T) {
	cases := map[string]TokenKind{
		"10":     TokenInt,
		"1_0":    TokenInt,
		"1.5":    TokenDouble,
		"2e10":   TokenDouble,
		"2E-3":   TokenDouble,
		"1.25e6": TokenDouble,
	}
	for source, kind := range cases {
		tokens := NewLexer(source).Tokens()
		require.Len(t, tokens, 2, source)
		assert.Equal(t, kind, tokens[0].Kind, source)
		assert.Equal(t, source, tokens[0].Text, source)
	}
}

func TestLexerErrorToken(t *testing.T) {
	tokens := NewLexer("1 $").Tokens()
	last := tokens[len(tokens)-1]
	assert.Equal(t, TokenError, last.Kind)
	assert.Equal(t, "$", last.Text)
}

func TestLexerIdentifierFollowedByExponentLetter(t *testing.T) {
	// "2e" is an int followed by an identifier, not a malformed double
	tokens := NewLexer("2e").Tokens()
	require.Len(t, tokens, 3)
	assert.Equal(t, TokenInt, tokens[0].Kind)
	assert.Equal(t, TokenIdentifier, tokens[1].Kind)
}
