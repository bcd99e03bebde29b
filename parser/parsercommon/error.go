package parsercommon

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	tok "github.com/mira-lang/mira/tokenizer"
)

// ErrMalformedRecordField reports a record literal field that is not a
// simple binding (for example a destructuring pattern on the left of =).
var ErrMalformedRecordField = errors.New("Improperly formed record field")

// ParseError is a syntax error with the position of the furthest point the
// parser reached and the constructs it would have accepted there. Message,
// when set, replaces the expectation list.
type ParseError struct {
	Position tok.Position
	Expected []string
	Found    string
	Message  string
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Parse error at line %d, column %d", e.Position.Line, e.Position.Column)
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
		return sb.String()
	}
	if len(e.Expected) > 0 {
		expected := dedupe(e.Expected)
		sb.WriteString(": expected ")
		sb.WriteString(joinOr(expected))
	}
	if e.Found != "" {
		sb.WriteString(", found ")
		sb.WriteString(e.Found)
	}
	return sb.String()
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if !seen[it] {
			seen[it] = true
			out = append(out, it)
		}
	}
	sort.Strings(out)
	return out
}

func joinOr(items []string) string {
	switch len(items) {
	case 1:
		return items[0]
	case 2:
		return items[0] + " or " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", or " + items[len(items)-1]
	}
}
