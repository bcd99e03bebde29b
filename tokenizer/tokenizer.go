package tokenizer

import (
	"fmt"
	"iter"
	"strings"
	"unicode"
)

// TokenIterator uses the Go 1.23 iterator pattern
type TokenIterator iter.Seq2[Token, error]

// Tokenizer turns mira source text into a token stream.
type Tokenizer struct {
	input   string
	options TokenizerOptions
}

// TokenizerOptions are options for the tokenizer
type TokenizerOptions struct {
	SkipLayout bool // drop whitespace, newline and comment tokens
}

// NewTokenizer creates a new Tokenizer
func NewTokenizer(input string, options ...TokenizerOptions) *Tokenizer {
	opts := TokenizerOptions{}
	if len(options) > 0 {
		opts = options[0]
	}

	return &Tokenizer{
		input:   input,
		options: opts,
	}
}

// Tokens returns an iterator of tokens
func (t *Tokenizer) Tokens() TokenIterator {
	return func(yield func(Token, error) bool) {
		tk := &tokenizer{
			input:  []rune(t.input),
			line:   1,
			column: 1,
		}

		tk.readChar()

		for {
			token, err := tk.nextToken()
			if err != nil {
				if !yield(Token{}, err) {
					return
				}
				continue
			}

			if token.Type == EOF {
				yield(token, nil)
				return
			}

			if t.options.SkipLayout && token.IsLayout() {
				continue
			}

			if !yield(token, nil) {
				return
			}
		}
	}
}

// AllTokens gets all tokens as a slice
func (t *Tokenizer) AllTokens() ([]Token, error) {
	tokens := make([]Token, 0, 64)

	for token, err := range t.Tokens() {
		if err != nil {
			return nil, err
		}
		if token.Type == EOF {
			break
		}
		tokens = append(tokens, token)
	}

	return tokens, nil
}

// Tokenize is a convenience wrapper returning the non-layout tokens of input.
func Tokenize(input string) ([]Token, error) {
	return NewTokenizer(input, TokenizerOptions{SkipLayout: true}).AllTokens()
}

// symbol characters that may form operators
const symbolChars = "!#$%&*+./<=>?^|:~-@"

func isSymbolChar(r rune) bool {
	return strings.ContainsRune(symbolChars, r)
}

// Internal tokenizer implementation
type tokenizer struct {
	input    []rune
	position int
	line     int
	column   int
	current  rune
}

// nextToken gets the next token
func (t *tokenizer) nextToken() (Token, error) {
	switch {
	case t.current == 0:
		return t.newToken(EOF, ""), nil
	case t.current == ' ' || t.current == '\t':
		return t.readWhitespace(), nil
	case t.current == '\r' || t.current == '\n':
		return t.readNewline(), nil
	case t.current == '(':
		return t.single(LPAREN), nil
	case t.current == ')':
		return t.single(RPAREN), nil
	case t.current == '[':
		if t.hasPrefix("[markdown|") {
			return t.readMarkdown()
		}
		return t.single(LBRACKET), nil
	case t.current == ']':
		return t.single(RBRACKET), nil
	case t.current == '{':
		if t.peekChar() == '-' {
			return t.readBlockComment()
		}
		return t.single(LBRACE), nil
	case t.current == '}':
		return t.single(RBRACE), nil
	case t.current == ',':
		return t.single(COMMA), nil
	case t.current == ';':
		return t.single(SEMICOLON), nil
	case t.current == '`':
		return t.single(BACKTICK), nil
	case t.current == '\\' || t.current == 'λ':
		return t.single(LAMBDA), nil
	case t.current == '"':
		return t.readString()
	case t.current == '\'':
		return t.readCharLiteral()
	case isSymbolChar(t.current):
		return t.readSymbolRun()
	case t.current == '_' && !isWordPart(t.peekChar()):
		return t.single(UNDERSCORE), nil
	case unicode.IsLetter(t.current) || t.current == '_':
		return t.readWord(), nil
	case unicode.IsDigit(t.current):
		return t.readNumber(), nil
	default:
		return Token{}, &Error{
			Position: t.pos(),
			Err:      fmt.Errorf("%w: %q", ErrUnexpectedCharacter, t.current),
		}
	}
}

// readChar reads the next character
func (t *tokenizer) readChar() {
	if t.position >= len(t.input) {
		t.current = 0
		t.position++
		return
	}

	t.current = t.input[t.position]
	t.position++

	if t.current == '\n' {
		t.line++
		t.column = 1
	} else {
		t.column++
	}
}

// peekChar looks ahead at the next character
func (t *tokenizer) peekChar() rune {
	if t.position >= len(t.input) {
		return 0
	}
	return t.input[t.position]
}

// hasPrefix checks the not-yet-consumed input, starting at the current rune.
func (t *tokenizer) hasPrefix(prefix string) bool {
	i := t.position - 1
	for _, r := range prefix {
		if i >= len(t.input) || t.input[i] != r {
			return false
		}
		i++
	}
	return true
}

// pos is the position of the current rune
func (t *tokenizer) pos() Position {
	col := t.column - 1
	line := t.line
	if t.current == '\n' {
		// readChar already advanced the line counter
		line--
		col = t.columnBeforeNewline()
	}
	return Position{Line: line, Column: col, Offset: t.position - 1}
}

func (t *tokenizer) columnBeforeNewline() int {
	// walk back to the previous newline to recover the column of '\n'
	col := 1
	for i := t.position - 2; i >= 0; i-- {
		if t.input[i] == '\n' {
			break
		}
		col++
	}
	return col
}

func (t *tokenizer) newToken(tokenType TokenType, value string) Token {
	return Token{Type: tokenType, Value: value, Position: t.pos()}
}

func (t *tokenizer) single(tokenType TokenType) Token {
	token := t.newToken(tokenType, string(t.current))
	t.readChar()
	return token
}

// readWhitespace reads a run of spaces and tabs
func (t *tokenizer) readWhitespace() Token {
	var builder strings.Builder
	start := t.pos()

	for t.current == ' ' || t.current == '\t' {
		builder.WriteRune(t.current)
		t.readChar()
	}

	return Token{Type: WHITESPACE, Value: builder.String(), Position: start}
}

// readNewline reads a single line break, \n or \r\n
func (t *tokenizer) readNewline() Token {
	start := t.pos()
	var builder strings.Builder

	if t.current == '\r' {
		builder.WriteRune(t.current)
		t.readChar()
	}
	if t.current == '\n' {
		builder.WriteRune(t.current)
		t.readChar()
	}

	return Token{Type: NEWLINE, Value: builder.String(), Position: start}
}

// readWord reads identifiers and reserved words
func (t *tokenizer) readWord() Token {
	var builder strings.Builder
	start := t.pos()
	upper := unicode.IsUpper(t.current)

	for isWordPart(t.current) {
		builder.WriteRune(t.current)
		t.readChar()
	}

	word := builder.String()

	tokenType := LOWER_IDENT
	switch {
	case IsReserved(word):
		tokenType = RESERVED
	case upper:
		tokenType = UPPER_IDENT
	}

	return Token{Type: tokenType, Value: word, Position: start}
}

func isWordPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '\''
}

// readNumber reads an integer or float literal. "1..5" lexes as
// NUMBER DOTDOT NUMBER, so the dot is only part of the number when a digit
// follows it.
func (t *tokenizer) readNumber() Token {
	var builder strings.Builder
	start := t.pos()

	for unicode.IsDigit(t.current) {
		builder.WriteRune(t.current)
		t.readChar()
	}

	if t.current == '.' && unicode.IsDigit(t.peekChar()) {
		builder.WriteRune(t.current)
		t.readChar()
		for unicode.IsDigit(t.current) {
			builder.WriteRune(t.current)
			t.readChar()
		}
	}

	if t.current == 'e' || t.current == 'E' {
		next := t.peekChar()
		if unicode.IsDigit(next) || next == '+' || next == '-' {
			builder.WriteRune(t.current)
			t.readChar()
			if t.current == '+' || t.current == '-' {
				builder.WriteRune(t.current)
				t.readChar()
			}
			for unicode.IsDigit(t.current) {
				builder.WriteRune(t.current)
				t.readChar()
			}
		}
	}

	return Token{Type: NUMBER, Value: builder.String(), Position: start}
}

// readString reads a double-quoted string literal
func (t *tokenizer) readString() (Token, error) {
	var builder strings.Builder
	start := t.pos()

	builder.WriteRune(t.current) // opening quote
	t.readChar()

	for t.current != 0 && t.current != '"' {
		if t.current == '\\' {
			builder.WriteRune(t.current)
			t.readChar()
			if t.current == 0 {
				break
			}
		}
		builder.WriteRune(t.current)
		t.readChar()
	}

	if t.current == 0 {
		return Token{}, &Error{Position: start, Err: ErrUnterminatedString}
	}

	builder.WriteRune(t.current) // closing quote
	t.readChar()

	return Token{Type: STRING, Value: builder.String(), Position: start}, nil
}

// readCharLiteral reads a single-quoted character literal
func (t *tokenizer) readCharLiteral() (Token, error) {
	var builder strings.Builder
	start := t.pos()

	builder.WriteRune(t.current) // opening quote
	t.readChar()

	if t.current == '\\' {
		builder.WriteRune(t.current)
		t.readChar()
	}
	if t.current == 0 {
		return Token{}, &Error{Position: start, Err: ErrUnterminatedChar}
	}
	builder.WriteRune(t.current)
	t.readChar()

	if t.current != '\'' {
		return Token{}, &Error{Position: start, Err: ErrUnterminatedChar}
	}
	builder.WriteRune(t.current)
	t.readChar()

	return Token{Type: CHAR, Value: builder.String(), Position: start}, nil
}

// readSymbolRun reads a maximal run of symbol characters and classifies it.
// "--" (possibly longer) is a line comment, the fixed punctuation marks get
// their own token types, everything else is an OPERATOR.
func (t *tokenizer) readSymbolRun() (Token, error) {
	var builder strings.Builder
	start := t.pos()

	for isSymbolChar(t.current) {
		builder.WriteRune(t.current)
		t.readChar()
	}

	run := builder.String()

	if len(run) >= 2 && strings.Count(run, "-") == len(run) {
		return t.readLineComment(start, run), nil
	}

	tokenType := OPERATOR
	switch run {
	case "=":
		tokenType = EQUALS
	case "->":
		tokenType = ARROW
	case "<-":
		tokenType = LARROW
	case "|":
		tokenType = PIPE
	case ":":
		tokenType = COLON
	case ".":
		tokenType = DOT
	case "..":
		tokenType = DOTDOT
	}

	return Token{Type: tokenType, Value: run, Position: start}, nil
}

// readLineComment consumes the rest of the line after "--"
func (t *tokenizer) readLineComment(start Position, dashes string) Token {
	var builder strings.Builder
	builder.WriteString(dashes)

	for t.current != 0 && t.current != '\n' {
		builder.WriteRune(t.current)
		t.readChar()
	}

	return Token{Type: LINE_COMMENT, Value: builder.String(), Position: start}
}

// readBlockComment reads a {- -} comment, with nesting
func (t *tokenizer) readBlockComment() (Token, error) {
	var builder strings.Builder
	start := t.pos()

	builder.WriteRune(t.current) // {
	t.readChar()
	builder.WriteRune(t.current) // -
	t.readChar()

	depth := 1
	for depth > 0 {
		if t.current == 0 {
			return Token{}, &Error{Position: start, Err: ErrUnterminatedComment}
		}
		if t.current == '{' && t.peekChar() == '-' {
			depth++
			builder.WriteRune(t.current)
			t.readChar()
			builder.WriteRune(t.current)
			t.readChar()
			continue
		}
		if t.current == '-' && t.peekChar() == '}' {
			depth--
			builder.WriteRune(t.current)
			t.readChar()
			builder.WriteRune(t.current)
			t.readChar()
			continue
		}
		builder.WriteRune(t.current)
		t.readChar()
	}

	return Token{Type: BLOCK_COMMENT, Value: builder.String(), Position: start}, nil
}

// readMarkdown consumes "[markdown|" plus verbatim text up to the first "|]".
// Once the sigil matches there is no backtracking into bracket parsing.
func (t *tokenizer) readMarkdown() (Token, error) {
	var builder strings.Builder
	start := t.pos()

	for range len("[markdown|") {
		builder.WriteRune(t.current)
		t.readChar()
	}

	for {
		if t.current == 0 {
			return Token{}, &Error{Position: start, Err: ErrUnterminatedMarkdown}
		}
		if t.current == '|' && t.peekChar() == ']' {
			builder.WriteRune(t.current)
			t.readChar()
			builder.WriteRune(t.current)
			t.readChar()
			break
		}
		builder.WriteRune(t.current)
		t.readChar()
	}

	return Token{Type: MARKDOWN, Value: builder.String(), Position: start}, nil
}
