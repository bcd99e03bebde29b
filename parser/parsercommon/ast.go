package parsercommon

import (
	"fmt"
	"strings"

	"github.com/mira-lang/mira/markdown"
)

// LocatedExpr is an expression annotated with its source span.
type LocatedExpr = Located[Expr]

// Expr is the expression AST. Every variant owns its sub-expressions; the
// tree has no sharing and no cycles.
type Expr interface {
	exprNode()
	String() string
}

// Literal is a literal value (4, "hi", 'c', True).
type Literal struct {
	Value Value
}

// Var is a reference to a variable or constructor.
type Var struct {
	Name string
}

// Range is [lo..hi] sugar.
type Range struct {
	Lo *LocatedExpr
	Hi *LocatedExpr
}

// ExplicitList is [e1, e2, ...].
type ExplicitList struct {
	Elements []*LocatedExpr
}

// Data is a saturated constructor application. Tuples are carried as
// _Tuple2, _Tuple3, and so on.
type Data struct {
	Name string
	Args []*LocatedExpr
}

// Access projects a field out of a record: r.field.
type Access struct {
	Record *LocatedExpr
	Field  string
}

// Remove drops a field from a record: {r - field}.
type Remove struct {
	Record *LocatedExpr
	Field  string
}

// Insert adds a field to a record: {r | field = e}.
type Insert struct {
	Record *LocatedExpr
	Field  string
	Value  *LocatedExpr
}

// Modify replaces existing fields: {r | a <- e1, b <- e2}.
type Modify struct {
	Record  *LocatedExpr
	Changes []FieldChange
}

// FieldChange is one "label <- expr" entry of a Modify.
type FieldChange struct {
	Field string
	Value *LocatedExpr
}

// Record is a record literal; each field is a simple binding, so function
// fields like {go x = x + 1} are a Def with argument patterns.
type Record struct {
	Fields []*Def
}

// Binop is a binary operator application, already shaped by precedence
// resolution.
type Binop struct {
	Op    string
	Left  *LocatedExpr
	Right *LocatedExpr
}

// Lambda is a single-argument function; multi-argument lambdas are nested.
type Lambda struct {
	Pattern Pattern
	Body    *LocatedExpr
}

// App is one function application; chains are left-nested.
type App struct {
	Func *LocatedExpr
	Arg  *LocatedExpr
}

// MultiIf is an ordered multi-way conditional with first-match semantics.
type MultiIf struct {
	Branches []IfBranch
}

// IfBranch is one "| cond -> body" entry.
type IfBranch struct {
	Cond *LocatedExpr
	Body *LocatedExpr
}

// Let is a definition block with a body.
type Let struct {
	Defs []*Def
	Body *LocatedExpr
}

// Case is a scrutinee with ordered pattern clauses.
type Case struct {
	Subject *LocatedExpr
	Clauses []CaseClause
}

// CaseClause is one "pattern -> expr" entry.
type CaseClause struct {
	Pattern Pattern
	Body    *LocatedExpr
}

// Markdown is an embedded [markdown| ... |] literal, rendered at parse time.
type Markdown struct {
	Document *markdown.Document
}

func (Literal) exprNode()      {}
func (Var) exprNode()          {}
func (Range) exprNode()        {}
func (ExplicitList) exprNode() {}
func (Data) exprNode()         {}
func (Access) exprNode()       {}
func (Remove) exprNode()       {}
func (Insert) exprNode()       {}
func (Modify) exprNode()       {}
func (Record) exprNode()       {}
func (Binop) exprNode()        {}
func (Lambda) exprNode()       {}
func (App) exprNode()          {}
func (MultiIf) exprNode()      {}
func (Let) exprNode()          {}
func (Case) exprNode()         {}
func (Markdown) exprNode()     {}

// Render gives a compact, parenthesized form for debugging and tests.
// It is not a pretty-printer.
func Render(e *LocatedExpr) string {
	if e == nil {
		return "<nil>"
	}
	return e.Value.String()
}

func renderAll(es []*LocatedExpr, sep string) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = Render(e)
	}
	return strings.Join(parts, sep)
}

func (e Literal) String() string { return e.Value.String() }
func (e Var) String() string     { return e.Name }
func (e Range) String() string {
	return fmt.Sprintf("[%s..%s]", Render(e.Lo), Render(e.Hi))
}
func (e ExplicitList) String() string { return "[" + renderAll(e.Elements, ", ") + "]" }
func (e Data) String() string {
	if len(e.Args) == 0 {
		return e.Name
	}
	return "(" + e.Name + " " + renderAll(e.Args, " ") + ")"
}
func (e Access) String() string { return Render(e.Record) + "." + e.Field }
func (e Remove) String() string { return fmt.Sprintf("{%s - %s}", Render(e.Record), e.Field) }
func (e Insert) String() string {
	return fmt.Sprintf("{%s | %s = %s}", Render(e.Record), e.Field, Render(e.Value))
}
func (e Modify) String() string {
	parts := make([]string, len(e.Changes))
	for i, c := range e.Changes {
		parts[i] = c.Field + " <- " + Render(c.Value)
	}
	return fmt.Sprintf("{%s | %s}", Render(e.Record), strings.Join(parts, ", "))
}
func (e Record) String() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (e Binop) String() string {
	return fmt.Sprintf("(%s %s %s)", Render(e.Left), e.Op, Render(e.Right))
}
func (e Lambda) String() string {
	return fmt.Sprintf("(\\%s -> %s)", e.Pattern.String(), Render(e.Body))
}
func (e App) String() string {
	return fmt.Sprintf("(%s %s)", Render(e.Func), Render(e.Arg))
}
func (e MultiIf) String() string {
	parts := make([]string, len(e.Branches))
	for i, b := range e.Branches {
		parts[i] = fmt.Sprintf("| %s -> %s", Render(b.Cond), Render(b.Body))
	}
	return "(if " + strings.Join(parts, " ") + ")"
}
func (e Let) String() string {
	parts := make([]string, len(e.Defs))
	for i, d := range e.Defs {
		parts[i] = d.String()
	}
	return fmt.Sprintf("(let {%s} in %s)", strings.Join(parts, "; "), Render(e.Body))
}
func (e Case) String() string {
	parts := make([]string, len(e.Clauses))
	for i, c := range e.Clauses {
		parts[i] = fmt.Sprintf("%s -> %s", c.Pattern.String(), Render(c.Body))
	}
	return fmt.Sprintf("(case %s of {%s})", Render(e.Subject), strings.Join(parts, "; "))
}
func (e Markdown) String() string { return "[markdown|…|]" }
