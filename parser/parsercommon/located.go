package parsercommon

import (
	"fmt"

	tok "github.com/mira-lang/mira/tokenizer"
)

// Region is a half-open source span: Start points at the first rune of the
// construct, End one rune past the last.
type Region struct {
	Start tok.Position
	End   tok.Position
}

func (r Region) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", r.Start.Line, r.Start.Column, r.End.Line, r.End.Column)
}

// Located pairs a value with an optional source region and an optional
// diagnostic label. The region is set once at construction and never
// modified afterwards.
type Located[V any] struct {
	Value  V
	Region *Region
	Label  string
}

// At attaches an exact span.
func At[V any](start, end tok.Position, value V) *Located[V] {
	return &Located[V]{Value: value, Region: &Region{Start: start, End: end}}
}

// None wraps a synthesized value that has no source span.
func None[V any](value V) *Located[V] {
	return &Located[V]{Value: value}
}

// Merge spans the union of a's and b's regions. Either side may be
// unlocated; the result then inherits the other side's span.
func Merge[V, A, B any](a *Located[A], b *Located[B], value V) *Located[V] {
	var region *Region
	switch {
	case a.Region != nil && b.Region != nil:
		region = &Region{Start: a.Region.Start, End: b.Region.End}
	case a.Region != nil:
		r := *a.Region
		region = &r
	case b.Region != nil:
		r := *b.Region
		region = &r
	}
	return &Located[V]{Value: value, Region: region}
}

// WithLabel tags the node with a human-readable label without altering the
// span. Used so accessor sugar reports as ".field" in diagnostics.
func (l *Located[V]) WithLabel(label string) *Located[V] {
	l.Label = label
	return l
}
