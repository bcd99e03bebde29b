package parsercommon

import (
	"fmt"
	"strconv"
)

// Value is a literal value as written in the source.
type Value interface {
	valueNode()
	String() string
}

// IntValue is an integer literal.
type IntValue struct {
	Value int64
}

// FloatValue is a floating point literal.
type FloatValue struct {
	Value float64
}

// StrValue is a string literal, already unescaped.
type StrValue struct {
	Value string
}

// ChrValue is a character literal.
type ChrValue struct {
	Value rune
}

// BoolValue is True or False.
type BoolValue struct {
	Value bool
}

func (IntValue) valueNode()   {}
func (FloatValue) valueNode() {}
func (StrValue) valueNode()   {}
func (ChrValue) valueNode()   {}
func (BoolValue) valueNode()  {}

func (v IntValue) String() string   { return strconv.FormatInt(v.Value, 10) }
func (v FloatValue) String() string { return strconv.FormatFloat(v.Value, 'g', -1, 64) }
func (v StrValue) String() string   { return strconv.Quote(v.Value) }
func (v ChrValue) String() string   { return fmt.Sprintf("%q", v.Value) }
func (v BoolValue) String() string {
	if v.Value {
		return "True"
	}
	return "False"
}

// Unescape resolves the escape sequences of a quoted string or character
// literal body (the text between the quotes).
func Unescape(body string) string {
	out := make([]rune, 0, len(body))
	runes := []rune(body)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '\\' || i+1 >= len(runes) {
			out = append(out, r)
			continue
		}
		i++
		switch runes[i] {
		case 'n':
			out = append(out, '\n')
		case 't':
			out = append(out, '\t')
		case 'r':
			out = append(out, '\r')
		case '\\':
			out = append(out, '\\')
		case '\'':
			out = append(out, '\'')
		case '"':
			out = append(out, '"')
		case '0':
			out = append(out, 0)
		default:
			out = append(out, runes[i])
		}
	}
	return string(out)
}
