package tokenizer

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrUnexpectedCharacter  = errors.New("unexpected character")
	ErrUnterminatedString   = errors.New("unterminated string literal")
	ErrUnterminatedChar     = errors.New("unterminated character literal")
	ErrUnterminatedComment  = errors.New("unterminated block comment")
	ErrUnterminatedMarkdown = errors.New("unterminated markdown literal")
)

// Error is a lexical error together with the position it happened at.
type Error struct {
	Position Position
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v at line %d, column %d", e.Err, e.Position.Line, e.Position.Column)
}

func (e *Error) Unwrap() error { return e.Err }

// TokenType represents the type of a token
type TokenType int

const (
	// Basic tokens
	EOF        TokenType = iota
	WHITESPACE           // spaces and tabs
	NEWLINE              // \n or \r\n
	LINE_COMMENT         // -- line comment
	BLOCK_COMMENT        // {- block comment -} (nesting allowed)

	// Words and literals
	LOWER_IDENT // value-level identifiers (foo, x1, _go)
	UPPER_IDENT // constructors and module names (Just, True)
	RESERVED    // reserved words (if, then, let, ...)
	NUMBER      // numeric literals, int or float
	STRING      // "text"
	CHAR        // 'c'
	MARKDOWN    // [markdown| ... |] verbatim literal

	// Punctuation with dedicated grammar roles
	EQUALS     // =
	ARROW      // ->
	LARROW     // <-
	PIPE       // |
	COLON      // :
	DOT        // .
	DOTDOT     // ..
	LAMBDA     // \ or λ
	BACKTICK   // `
	UNDERSCORE // _
	COMMA      // ,
	SEMICOLON  // ; separates clauses in braced case blocks
	LPAREN     // (
	RPAREN     // )
	LBRACKET   // [
	RBRACKET   // ]
	LBRACE     // {
	RBRACE     // }

	// Everything else made of symbol characters
	OPERATOR // +, ++, ::, |>, ...
)

// String returns the string representation of TokenType
func (t TokenType) String() string {
	switch t {
	case EOF:
		return "EOF"
	case WHITESPACE:
		return "WHITESPACE"
	case NEWLINE:
		return "NEWLINE"
	case LINE_COMMENT:
		return "LINE_COMMENT"
	case BLOCK_COMMENT:
		return "BLOCK_COMMENT"
	case LOWER_IDENT:
		return "LOWER_IDENT"
	case UPPER_IDENT:
		return "UPPER_IDENT"
	case RESERVED:
		return "RESERVED"
	case NUMBER:
		return "NUMBER"
	case STRING:
		return "STRING"
	case CHAR:
		return "CHAR"
	case MARKDOWN:
		return "MARKDOWN"
	case EQUALS:
		return "EQUALS"
	case ARROW:
		return "ARROW"
	case LARROW:
		return "LARROW"
	case PIPE:
		return "PIPE"
	case COLON:
		return "COLON"
	case DOT:
		return "DOT"
	case DOTDOT:
		return "DOTDOT"
	case LAMBDA:
		return "LAMBDA"
	case BACKTICK:
		return "BACKTICK"
	case UNDERSCORE:
		return "UNDERSCORE"
	case COMMA:
		return "COMMA"
	case SEMICOLON:
		return "SEMICOLON"
	case LPAREN:
		return "LPAREN"
	case RPAREN:
		return "RPAREN"
	case LBRACKET:
		return "LBRACKET"
	case RBRACKET:
		return "RBRACKET"
	case LBRACE:
		return "LBRACE"
	case RBRACE:
		return "RBRACE"
	case OPERATOR:
		return "OPERATOR"
	default:
		return "UNKNOWN"
	}
}

// reservedWords can never be used as variables.
var reservedWords = map[string]bool{
	"if":      true,
	"then":    true,
	"else":    true,
	"case":    true,
	"of":      true,
	"let":     true,
	"in":      true,
	"data":    true,
	"type":    true,
	"module":  true,
	"where":   true,
	"import":  true,
	"as":      true,
	"hiding":  true,
	"export":  true,
	"foreign": true,
}

// IsReserved reports whether word is a reserved word of the language.
func IsReserved(word string) bool {
	return reservedWords[word]
}

// Position represents a source position. Offset counts runes; Line and
// Column are 1-based.
type Position struct {
	Line   int
	Column int
	Offset int
}

// Token represents a token
type Token struct {
	Type     TokenType
	Value    string
	Position Position
}

// EndPosition returns the position one rune past the end of the token.
func (t Token) EndPosition() Position {
	end := t.Position
	for _, r := range t.Value {
		end.Offset++
		if r == '\n' {
			end.Line++
			end.Column = 1
		} else {
			end.Column++
		}
	}
	return end
}

// String returns the string representation of Token
func (t Token) String() string {
	return t.Type.String() + "(" + t.Value + ")"
}

// IsLayout reports whether the token is whitespace or a comment.
func (t Token) IsLayout() bool {
	switch t.Type {
	case WHITESPACE, NEWLINE, LINE_COMMENT, BLOCK_COMMENT:
		return true
	default:
		return false
	}
}
