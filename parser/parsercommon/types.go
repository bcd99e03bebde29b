package parsercommon

import "strings"

// Type is a source-level type annotation. It is carried on definitions
// verbatim; no checking happens at parse time.
type Type interface {
	typeNode()
	String() string
}

// TCon is a (possibly applied) type constructor: Int, Maybe a, _Tuple2 a b.
type TCon struct {
	Name string
	Args []Type
}

// TVar is a type variable.
type TVar struct {
	Name string
}

// TLambda is a function type. Arrows associate to the right.
type TLambda struct {
	From Type
	To   Type
}

// TRecord is a record type, optionally extending a row variable.
type TRecord struct {
	Extends string
	Fields  []TypeField
}

// TypeField is one "label : type" entry of a record type.
type TypeField struct {
	Name string
	Type Type
}

func (TCon) typeNode()    {}
func (TVar) typeNode()    {}
func (TLambda) typeNode() {}
func (TRecord) typeNode() {}

func (t TCon) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return "(" + t.Name + " " + strings.Join(parts, " ") + ")"
}
func (t TVar) String() string { return t.Name }
func (t TLambda) String() string {
	return "(" + t.From.String() + " -> " + t.To.String() + ")"
}
func (t TRecord) String() string {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		parts[i] = f.Name + " : " + f.Type.String()
	}
	body := strings.Join(parts, ", ")
	if t.Extends != "" {
		return "{" + t.Extends + " | " + body + "}"
	}
	return "{" + body + "}"
}
