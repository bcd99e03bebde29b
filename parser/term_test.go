package parser

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	cmn "github.com/mira-lang/mira/parser/parsercommon"
)

func mustParse(t *testing.T, source string) *cmn.LocatedExpr {
	t.Helper()

	expr, err := ParseExpression(source)
	assert.NoError(t, err)
	return expr
}

func TestVariableTerm(t *testing.T) {
	expr := mustParse(t, "foo")
	assert.Equal(t, cmn.Expr(cmn.Var{Name: "foo"}), expr.Value)
	assert.Equal(t, "1:1-1:4", expr.Region.String())
}

func TestConstructorTerm(t *testing.T) {
	expr := mustParse(t, "Just")
	assert.Equal(t, cmn.Expr(cmn.Var{Name: "Just"}), expr.Value)
}

func TestBooleanLiterals(t *testing.T) {
	expr := mustParse(t, "True")
	assert.Equal(t, cmn.Expr(cmn.Literal{Value: cmn.BoolValue{Value: true}}), expr.Value)

	expr = mustParse(t, "False")
	assert.Equal(t, cmn.Expr(cmn.Literal{Value: cmn.BoolValue{Value: false}}), expr.Value)
}

func TestNumberLiterals(t *testing.T) {
	expr := mustParse(t, "42")
	assert.Equal(t, cmn.Expr(cmn.Literal{Value: cmn.IntValue{Value: 42}}), expr.Value)

	expr = mustParse(t, "3.5")
	assert.Equal(t, cmn.Expr(cmn.Literal{Value: cmn.FloatValue{Value: 3.5}}), expr.Value)
}

func TestStringLiteralUnescapes(t *testing.T) {
	expr := mustParse(t, `"a\nb"`)
	assert.Equal(t, cmn.Expr(cmn.Literal{Value: cmn.StrValue{Value: "a\nb"}}), expr.Value)
}

func TestAccessorTerm(t *testing.T) {
	expr := mustParse(t, ".foo")
	assert.Equal(t, ".foo", expr.Label)
	assert.Equal(t, "1:1-1:5", expr.Region.String())

	lam, ok := expr.Value.(cmn.Lambda)
	assert.True(t, ok)
	assert.Equal(t, cmn.Pattern(cmn.PVar{Name: "x"}), lam.Pattern)
	access, ok := lam.Body.Value.(cmn.Access)
	assert.True(t, ok)
	assert.Equal(t, "foo", access.Field)
}

func TestPostfixAccessChain(t *testing.T) {
	expr := mustParse(t, "r.pos.x")
	outer, ok := expr.Value.(cmn.Access)
	assert.True(t, ok)
	assert.Equal(t, "x", outer.Field)
	inner, ok := outer.Record.Value.(cmn.Access)
	assert.True(t, ok)
	assert.Equal(t, "pos", inner.Field)
	assert.Equal(t, cmn.Expr(cmn.Var{Name: "r"}), inner.Record.Value)
}

func TestSpacedDotIsComposition(t *testing.T) {
	expr := mustParse(t, "f . g")
	binop, ok := expr.Value.(cmn.Binop)
	assert.True(t, ok)
	assert.Equal(t, ".", binop.Op)
}

func TestOperatorSection(t *testing.T) {
	expr := mustParse(t, "(+)")
	assert.Equal(t, "1:1-1:4", expr.Region.String())

	outer, ok := expr.Value.(cmn.Lambda)
	assert.True(t, ok)
	inner, ok := outer.Body.Value.(cmn.Lambda)
	assert.True(t, ok)
	binop, ok := inner.Body.Value.(cmn.Binop)
	assert.True(t, ok)
	assert.Equal(t, "+", binop.Op)
}

func TestCommaSection(t *testing.T) {
	expr := mustParse(t, "(,)")
	outer, ok := expr.Value.(cmn.Lambda)
	assert.True(t, ok)
	assert.Equal(t, cmn.Pattern(cmn.PVar{Name: "v0"}), outer.Pattern)
	inner, ok := outer.Body.Value.(cmn.Lambda)
	assert.True(t, ok)
	data, ok := inner.Body.Value.(cmn.Data)
	assert.True(t, ok)
	assert.Equal(t, "_Tuple2", data.Name)

	expr = mustParse(t, "(,,)")
	outer, ok = expr.Value.(cmn.Lambda)
	assert.True(t, ok)
	assert.Equal(t, cmn.Pattern(cmn.PVar{Name: "v0"}), outer.Pattern)
}

func TestParensAreTransparent(t *testing.T) {
	expr := mustParse(t, "(a)")
	assert.Equal(t, cmn.Expr(cmn.Var{Name: "a"}), expr.Value)
	assert.Equal(t, 2, expr.Region.Start.Column)
}

func TestParenthesizedAccessor(t *testing.T) {
	expr := mustParse(t, "(.foo)")
	lam, ok := expr.Value.(cmn.Lambda)
	assert.True(t, ok)
	access, ok := lam.Body.Value.(cmn.Access)
	assert.True(t, ok)
	assert.Equal(t, "foo", access.Field)
}

func TestParensEmptyFails(t *testing.T) {
	_, err := ParseExpression("()")
	assert.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "Parse error at "))
}

func TestTupleTerm(t *testing.T) {
	expr := mustParse(t, "(1, 2)")
	data, ok := expr.Value.(cmn.Data)
	assert.True(t, ok)
	assert.Equal(t, "_Tuple2", data.Name)
	assert.Equal(t, 2, len(data.Args))
	assert.Equal(t, "1:1-1:7", expr.Region.String())
}

func TestListTerm(t *testing.T) {
	expr := mustParse(t, "[1, 2, 3]")
	list, ok := expr.Value.(cmn.ExplicitList)
	assert.True(t, ok)
	assert.Equal(t, 3, len(list.Elements))

	expr = mustParse(t, "[]")
	list, ok = expr.Value.(cmn.ExplicitList)
	assert.True(t, ok)
	assert.Equal(t, 0, len(list.Elements))
}

func TestRangeTerm(t *testing.T) {
	expr := mustParse(t, "[1..10]")
	rng, ok := expr.Value.(cmn.Range)
	assert.True(t, ok)
	assert.Equal(t, cmn.Expr(cmn.Literal{Value: cmn.IntValue{Value: 1}}), rng.Lo.Value)
	assert.Equal(t, cmn.Expr(cmn.Literal{Value: cmn.IntValue{Value: 10}}), rng.Hi.Value)
	assert.Equal(t, "1:1-1:8", expr.Region.String())
}

func TestMarkdownTerm(t *testing.T) {
	expr := mustParse(t, "[markdown|# Hello\n\nworld|]")
	md, ok := expr.Value.(cmn.Markdown)
	assert.True(t, ok)
	assert.Equal(t, "Hello", md.Document.Title)
	assert.True(t, strings.Contains(md.Document.HTML, "<h1"))
}

func TestMarkdownStripsCarriageReturns(t *testing.T) {
	expr := mustParse(t, "[markdown|a\r\nb|]")
	md, ok := expr.Value.(cmn.Markdown)
	assert.True(t, ok)
	assert.Equal(t, "a\nb", md.Document.Source)
}

func TestEmptyRecord(t *testing.T) {
	expr := mustParse(t, "{}")
	record, ok := expr.Value.(cmn.Record)
	assert.True(t, ok)
	assert.Equal(t, 0, len(record.Fields))
}

func TestRecordLiteral(t *testing.T) {
	expr := mustParse(t, "{x = 1, y = 2}")
	record, ok := expr.Value.(cmn.Record)
	assert.True(t, ok)
	assert.Equal(t, 2, len(record.Fields))
	assert.Equal(t, "x", record.Fields[0].Name)
	assert.Equal(t, "y", record.Fields[1].Name)
}

func TestRecordFunctionField(t *testing.T) {
	expr := mustParse(t, "{go n = n}")
	record, ok := expr.Value.(cmn.Record)
	assert.True(t, ok)
	assert.Equal(t, "go", record.Fields[0].Name)
	assert.Equal(t, 1, len(record.Fields[0].Patterns))
}

func TestRecordBracedVariable(t *testing.T) {
	expr := mustParse(t, "{r}")
	assert.Equal(t, cmn.Expr(cmn.Var{Name: "r"}), expr.Value)
	assert.Equal(t, "1:1-1:4", expr.Region.String())
}

func TestRecordRemove(t *testing.T) {
	expr := mustParse(t, "{r - x}")
	remove, ok := expr.Value.(cmn.Remove)
	assert.True(t, ok)
	assert.Equal(t, "x", remove.Field)
	assert.Equal(t, cmn.Expr(cmn.Var{Name: "r"}), remove.Record.Value)
}

func TestRecordInsert(t *testing.T) {
	expr := mustParse(t, "{r | x = 1}")
	insert, ok := expr.Value.(cmn.Insert)
	assert.True(t, ok)
	assert.Equal(t, "x", insert.Field)
	assert.Equal(t, cmn.Expr(cmn.Var{Name: "r"}), insert.Record.Value)
}

func TestRecordRemoveThenInsert(t *testing.T) {
	expr := mustParse(t, "{r - x | x = 1}")
	insert, ok := expr.Value.(cmn.Insert)
	assert.True(t, ok)
	remove, ok := insert.Record.Value.(cmn.Remove)
	assert.True(t, ok)
	assert.Equal(t, "x", remove.Field)
}

func TestRecordModify(t *testing.T) {
	expr := mustParse(t, "{r | x <- 1, y <- 2}")
	modify, ok := expr.Value.(cmn.Modify)
	assert.True(t, ok)
	assert.Equal(t, 2, len(modify.Changes))
	assert.Equal(t, "x", modify.Changes[0].Field)
	assert.Equal(t, "y", modify.Changes[1].Field)
}

func TestMalformedRecordField(t *testing.T) {
	_, err := ParseExpression("{ 3 = x }")
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "Improperly formed record field"))
}
