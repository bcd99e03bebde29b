package tokenizer

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestTokenIterator(t *testing.T) {
	source := "x = y"
	tokenizer := NewTokenizer(source)

	expectedTypes := []TokenType{
		LOWER_IDENT, WHITESPACE, EQUALS, WHITESPACE, LOWER_IDENT, EOF,
	}

	var actualTypes []TokenType
	for token, err := range tokenizer.Tokens() {
		assert.NoError(t, err)

		actualTypes = append(actualTypes, token.Type)

		if token.Type == EOF {
			break
		}
	}

	assert.Equal(t, expectedTypes, actualTypes)
}

func TestTokenIteratorSkipLayout(t *testing.T) {
	source := "inc n = n + 1 -- comment\n"
	tokenizer := NewTokenizer(source, TokenizerOptions{SkipLayout: true})

	expectedTypes := []TokenType{
		LOWER_IDENT, LOWER_IDENT, EQUALS, LOWER_IDENT, OPERATOR, NUMBER, EOF,
	}

	var actualTypes []TokenType
	for token, err := range tokenizer.Tokens() {
		assert.NoError(t, err)

		actualTypes = append(actualTypes, token.Type)

		if token.Type == EOF {
			break
		}
	}

	assert.Equal(t, expectedTypes, actualTypes)
}

func tokenTypes(t *testing.T, source string) []TokenType {
	t.Helper()

	tokens, err := Tokenize(source)
	assert.NoError(t, err)

	types := make([]TokenType, len(tokens))
	for i, token := range tokens {
		types[i] = token.Type
	}
	return types
}

func TestWordTokens(t *testing.T) {
	assert.Equal(t,
		[]TokenType{LOWER_IDENT, UPPER_IDENT, RESERVED, UNDERSCORE, LOWER_IDENT},
		tokenTypes(t, "foo Bar if _ _go"))
}

func TestNumberTokens(t *testing.T) {
	tokens, err := Tokenize("1 3.14 2e8 6.02e23")
	assert.NoError(t, err)

	values := make([]string, len(tokens))
	for i, token := range tokens {
		assert.Equal(t, NUMBER, token.Type)
		values[i] = token.Value
	}
	assert.Equal(t, []string{"1", "3.14", "2e8", "6.02e23"}, values)
}

func TestRangeKeepsIntegersWhole(t *testing.T) {
	// The dots of [1..5] belong to the range, not to the numbers.
	assert.Equal(t,
		[]TokenType{LBRACKET, NUMBER, DOTDOT, NUMBER, RBRACKET},
		tokenTypes(t, "[1..5]"))
}

func TestSymbolClassification(t *testing.T) {
	assert.Equal(t,
		[]TokenType{EQUALS, ARROW, LARROW, PIPE, COLON, DOT, DOTDOT, OPERATOR, OPERATOR, OPERATOR},
		tokenTypes(t, "= -> <- | : . .. :: ++ |>"))
}

func TestSemicolonToken(t *testing.T) {
	assert.Equal(t,
		[]TokenType{LBRACE, NUMBER, ARROW, NUMBER, SEMICOLON, UNDERSCORE, ARROW, NUMBER, RBRACE},
		tokenTypes(t, "{ 0 -> 1 ; _ -> 2 }"))
}

func TestLambdaTokens(t *testing.T) {
	assert.Equal(t,
		[]TokenType{LAMBDA, LOWER_IDENT, ARROW, LOWER_IDENT},
		tokenTypes(t, `\x -> x`))
	assert.Equal(t,
		[]TokenType{LAMBDA, LOWER_IDENT, ARROW, LOWER_IDENT},
		tokenTypes(t, "λx -> x"))
}

func TestBacktickTokens(t *testing.T) {
	assert.Equal(t,
		[]TokenType{LOWER_IDENT, BACKTICK, LOWER_IDENT, BACKTICK, LOWER_IDENT},
		tokenTypes(t, "a `max` b"))
}

func TestCommentsAreLayout(t *testing.T) {
	assert.Equal(t, []TokenType{LOWER_IDENT, LOWER_IDENT}, tokenTypes(t, "x -- rest of line\ny"))
	assert.Equal(t, []TokenType{LOWER_IDENT, LOWER_IDENT}, tokenTypes(t, "x ---- also a comment\ny"))
	assert.Equal(t, []TokenType{LOWER_IDENT}, tokenTypes(t, "{- a {- nested -} b -} x"))
}

func TestDashRuns(t *testing.T) {
	// A single dash is subtraction; two or more start a comment.
	assert.Equal(t, []TokenType{LOWER_IDENT, OPERATOR, LOWER_IDENT}, tokenTypes(t, "a - b"))
	assert.Equal(t, []TokenType{LOWER_IDENT}, tokenTypes(t, "a -- b"))
}

func TestStringAndCharTokens(t *testing.T) {
	tokens, err := Tokenize(`"hi\n" 'c'`)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(tokens))
	assert.Equal(t, STRING, tokens[0].Type)
	assert.Equal(t, `"hi\n"`, tokens[0].Value)
	assert.Equal(t, CHAR, tokens[1].Type)
	assert.Equal(t, `'c'`, tokens[1].Value)
}

func TestMarkdownToken(t *testing.T) {
	source := "[markdown|# Title\n\nbody text|]"
	tokens, err := Tokenize(source)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(tokens))
	assert.Equal(t, MARKDOWN, tokens[0].Type)
	assert.Equal(t, source, tokens[0].Value)
}

func TestMarkdownBeatsListBracket(t *testing.T) {
	assert.Equal(t, []TokenType{LBRACKET, LOWER_IDENT, RBRACKET}, tokenTypes(t, "[markdowny]"))
	assert.Equal(t, []TokenType{MARKDOWN}, tokenTypes(t, "[markdown| x |]"))
}

func TestUnterminatedLiterals(t *testing.T) {
	_, err := Tokenize(`"abc`)
	assert.True(t, errors.Is(err, ErrUnterminatedString))

	_, err = Tokenize("'a")
	assert.True(t, errors.Is(err, ErrUnterminatedChar))

	_, err = Tokenize("{- open")
	assert.True(t, errors.Is(err, ErrUnterminatedComment))

	_, err = Tokenize("[markdown| open")
	assert.True(t, errors.Is(err, ErrUnterminatedMarkdown))
}

func TestErrorCarriesPosition(t *testing.T) {
	_, err := Tokenize("x = \"abc")

	var lexErr *Error
	assert.True(t, errors.As(err, &lexErr))
	assert.Equal(t, Position{Line: 1, Column: 5, Offset: 4}, lexErr.Position)
	assert.Equal(t, "unterminated string literal at line 1, column 5", err.Error())
}

func TestPositions(t *testing.T) {
	tokens, err := Tokenize("ab\ncd")
	assert.NoError(t, err)
	assert.Equal(t, 2, len(tokens))

	assert.Equal(t, Position{Line: 1, Column: 1, Offset: 0}, tokens[0].Position)
	assert.Equal(t, Position{Line: 2, Column: 1, Offset: 3}, tokens[1].Position)
	assert.Equal(t, Position{Line: 2, Column: 3, Offset: 5}, tokens[1].EndPosition())
}

func TestReservedWords(t *testing.T) {
	assert.True(t, IsReserved("let"))
	assert.True(t, IsReserved("of"))
	assert.False(t, IsReserved("letter"))

	tokens, err := Tokenize("let letter")
	assert.NoError(t, err)
	assert.Equal(t, RESERVED, tokens[0].Type)
	assert.Equal(t, LOWER_IDENT, tokens[1].Type)
}
