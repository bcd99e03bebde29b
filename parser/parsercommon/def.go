package parsercommon

import "strings"

// SortKey orders definitions by source line, with a sub-index for the
// synthetic bindings a pattern binding expands into. Within one line the
// matcher comes first, then one entry per bound variable.
type SortKey struct {
	Line  int
	Index int
}

// Ordinal folds the key into a single comparable number. A line keeps a
// thousand slots, so every binding expanded from line L lands in
// [L*1000, L*1000+999].
func (k SortKey) Ordinal() int {
	return k.Line*1000 + k.Index
}

// Def is one binding: a name, argument patterns, a body, and an optional
// type annotation.
type Def struct {
	Name       string
	Patterns   []Pattern
	Body       *LocatedExpr
	Annotation Type
	SortKey    SortKey
}

func (d *Def) String() string {
	var sb strings.Builder
	sb.WriteString(d.Name)
	for _, p := range d.Patterns {
		sb.WriteByte(' ')
		sb.WriteString(p.String())
	}
	sb.WriteString(" = ")
	sb.WriteString(Render(d.Body))
	return sb.String()
}

// Declaration is a top-level item. Only value definitions survive parsing
// for now; the wrapper leaves room for data and import declarations.
type Declaration struct {
	Def *Def
}

func (d Declaration) String() string {
	return d.Def.String()
}
