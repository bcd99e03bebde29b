package parsercommon

import "strings"

// Pattern is the pattern AST used by lambdas, case clauses, and
// definition left-hand sides.
type Pattern interface {
	patternNode()
	String() string
}

// PAnything is the wildcard pattern _.
type PAnything struct{}

// PVar binds a variable.
type PVar struct {
	Name string
}

// PLiteral matches an exact literal value.
type PLiteral struct {
	Value Value
}

// PData matches a constructor and its argument patterns. Cons cells and
// tuples go through here too (::, _Tuple2, ...).
type PData struct {
	Name string
	Args []Pattern
}

// PRecord matches a record having at least the named fields, binding each
// field to a variable of the same name.
type PRecord struct {
	Fields []string
}

func (PAnything) patternNode() {}
func (PVar) patternNode()      {}
func (PLiteral) patternNode()  {}
func (PData) patternNode()     {}
func (PRecord) patternNode()   {}

func (PAnything) String() string { return "_" }
func (p PVar) String() string    { return p.Name }
func (p PLiteral) String() string {
	return p.Value.String()
}
func (p PData) String() string {
	if len(p.Args) == 0 {
		return p.Name
	}
	parts := make([]string, len(p.Args))
	for i, a := range p.Args {
		parts[i] = a.String()
	}
	return "(" + p.Name + " " + strings.Join(parts, " ") + ")"
}
func (p PRecord) String() string {
	return "{" + strings.Join(p.Fields, ", ") + "}"
}

// BoundVars collects the variables a pattern binds, left to right.
func BoundVars(p Pattern) []string {
	var out []string
	var walk func(Pattern)
	walk = func(p Pattern) {
		switch p := p.(type) {
		case PVar:
			out = append(out, p.Name)
		case PData:
			for _, a := range p.Args {
				walk(a)
			}
		case PRecord:
			out = append(out, p.Fields...)
		}
	}
	walk(p)
	return out
}
