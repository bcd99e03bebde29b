package parser

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	cmn "github.com/mira-lang/mira/parser/parsercommon"
)

func TestApplicationLeftNested(t *testing.T) {
	expr := mustParse(t, "f x y")
	assert.Equal(t, "1:1-1:6", expr.Region.String())

	outer, ok := expr.Value.(cmn.App)
	assert.True(t, ok)
	assert.Equal(t, cmn.Expr(cmn.Var{Name: "y"}), outer.Arg.Value)

	inner, ok := outer.Func.Value.(cmn.App)
	assert.True(t, ok)
	assert.Equal(t, cmn.Expr(cmn.Var{Name: "f"}), inner.Func.Value)
	assert.Equal(t, cmn.Expr(cmn.Var{Name: "x"}), inner.Arg.Value)
}

func TestApplicationStopsAtOuterColumn(t *testing.T) {
	// The second line starts at the reference column, so it is not an
	// argument of f.
	_, err := ParseExpression("f x\ny")
	assert.Error(t, err)
}

func TestApplicationContinuationLine(t *testing.T) {
	expr := mustParse(t, "f x\n  y")
	_, ok := expr.Value.(cmn.App)
	assert.True(t, ok)
	assert.Equal(t, "1:1-2:4", expr.Region.String())
}

func TestPrecedence(t *testing.T) {
	expr := mustParse(t, "1 + 2 * 3")
	add, ok := expr.Value.(cmn.Binop)
	assert.True(t, ok)
	assert.Equal(t, "+", add.Op)
	mul, ok := add.Right.Value.(cmn.Binop)
	assert.True(t, ok)
	assert.Equal(t, "*", mul.Op)
}

func TestLeftAssociativity(t *testing.T) {
	expr := mustParse(t, "1 - 2 - 3")
	outer, ok := expr.Value.(cmn.Binop)
	assert.True(t, ok)
	assert.Equal(t, cmn.Expr(cmn.Literal{Value: cmn.IntValue{Value: 3}}), outer.Right.Value)
	inner, ok := outer.Left.Value.(cmn.Binop)
	assert.True(t, ok)
	assert.Equal(t, "-", inner.Op)
}

func TestRightAssociativity(t *testing.T) {
	expr := mustParse(t, "a ^ b ^ c")
	outer, ok := expr.Value.(cmn.Binop)
	assert.True(t, ok)
	assert.Equal(t, cmn.Expr(cmn.Var{Name: "a"}), outer.Left.Value)
	inner, ok := outer.Right.Value.(cmn.Binop)
	assert.True(t, ok)
	assert.Equal(t, "^", inner.Op)
}

func TestConsIsRightAssociative(t *testing.T) {
	expr := mustParse(t, "x :: xs :: ys")
	outer, ok := expr.Value.(cmn.Binop)
	assert.True(t, ok)
	assert.Equal(t, "::", outer.Op)
	assert.Equal(t, cmn.Expr(cmn.Var{Name: "x"}), outer.Left.Value)
	_, ok = outer.Right.Value.(cmn.Binop)
	assert.True(t, ok)
}

func TestNonAssociativeMixingFails(t *testing.T) {
	_, err := ParseExpression("a == b == c")
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "non-associative"))
}

func TestBacktickOperator(t *testing.T) {
	expr := mustParse(t, "a `max` b")
	binop, ok := expr.Value.(cmn.Binop)
	assert.True(t, ok)
	assert.Equal(t, "max", binop.Op)
}

func TestUnknownOperatorDefaultsLeft(t *testing.T) {
	expr := mustParse(t, "a <*> b <*> c")
	outer, ok := expr.Value.(cmn.Binop)
	assert.True(t, ok)
	assert.Equal(t, cmn.Expr(cmn.Var{Name: "c"}), outer.Right.Value)
	_, ok = outer.Left.Value.(cmn.Binop)
	assert.True(t, ok)
}

func TestTrailingControlOperand(t *testing.T) {
	expr := mustParse(t, "n * if c then a else b")
	binop, ok := expr.Value.(cmn.Binop)
	assert.True(t, ok)
	assert.Equal(t, "*", binop.Op)
	_, ok = binop.Right.Value.(cmn.MultiIf)
	assert.True(t, ok)
}

func TestIfThenElse(t *testing.T) {
	expr := mustParse(t, "if c then 1 else 0")
	multi, ok := expr.Value.(cmn.MultiIf)
	assert.True(t, ok)
	assert.Equal(t, 2, len(multi.Branches))

	assert.Equal(t, cmn.Expr(cmn.Var{Name: "c"}), multi.Branches[0].Cond.Value)

	// The fallback guard is synthesized, so it has no source span.
	fallback := multi.Branches[1].Cond
	assert.Equal(t, cmn.Expr(cmn.Var{Name: "otherwise"}), fallback.Value)
	assert.Equal(t, (*cmn.Region)(nil), fallback.Region)
}

func TestMultiWayIf(t *testing.T) {
	expr := mustParse(t, "if | a -> 1 | b -> 2")
	multi, ok := expr.Value.(cmn.MultiIf)
	assert.True(t, ok)
	assert.Equal(t, 2, len(multi.Branches))
	assert.Equal(t, cmn.Expr(cmn.Var{Name: "b"}), multi.Branches[1].Cond.Value)
}

func TestMissingElseBranch(t *testing.T) {
	_, err := ParseExpression("if c then 1")
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "an 'else' branch"))
}

func TestLambdaCurries(t *testing.T) {
	expr := mustParse(t, `\x y -> x`)
	outer, ok := expr.Value.(cmn.Lambda)
	assert.True(t, ok)
	assert.Equal(t, cmn.Pattern(cmn.PVar{Name: "x"}), outer.Pattern)
	inner, ok := outer.Body.Value.(cmn.Lambda)
	assert.True(t, ok)
	assert.Equal(t, cmn.Pattern(cmn.PVar{Name: "y"}), inner.Pattern)
}

func TestLambdaDestructuresThroughCase(t *testing.T) {
	expr := mustParse(t, `\(a, b) -> a`)
	lam, ok := expr.Value.(cmn.Lambda)
	assert.True(t, ok)
	assert.Equal(t, cmn.Pattern(cmn.PVar{Name: "_v0"}), lam.Pattern)

	caseExpr, ok := lam.Body.Value.(cmn.Case)
	assert.True(t, ok)
	assert.Equal(t, 1, len(caseExpr.Clauses))
	pat, ok := caseExpr.Clauses[0].Pattern.(cmn.PData)
	assert.True(t, ok)
	assert.Equal(t, "_Tuple2", pat.Name)
}

func TestLetSingleLine(t *testing.T) {
	expr := mustParse(t, "let x = 1 in x")
	let, ok := expr.Value.(cmn.Let)
	assert.True(t, ok)
	assert.Equal(t, 1, len(let.Defs))
	assert.Equal(t, "x", let.Defs[0].Name)
	assert.Equal(t, cmn.Expr(cmn.Var{Name: "x"}), let.Body.Value)
}

func TestLetBlockOrdinals(t *testing.T) {
	source := "let a = 1\n" +
		"    b = 2\n" +
		"    (x, y) = p\n" +
		" in a"
	expr := mustParse(t, source)
	let, ok := expr.Value.(cmn.Let)
	assert.True(t, ok)
	assert.Equal(t, 5, len(let.Defs))

	assert.Equal(t, 1000, let.Defs[0].SortKey.Ordinal())
	assert.Equal(t, 2000, let.Defs[1].SortKey.Ordinal())

	// Every binding expanded from line 3 stays within that line's slots.
	for _, def := range let.Defs[2:] {
		ordinal := def.SortKey.Ordinal()
		assert.True(t, ordinal >= 3000 && ordinal <= 3999)
	}
	assert.Equal(t, 3000, let.Defs[2].SortKey.Ordinal())
	assert.Equal(t, "x", let.Defs[3].Name)
	assert.Equal(t, 3001, let.Defs[3].SortKey.Ordinal())
	assert.Equal(t, "y", let.Defs[4].Name)
	assert.Equal(t, 3002, let.Defs[4].SortKey.Ordinal())
}

func TestLetAnnotation(t *testing.T) {
	source := "let f : Int -> Int\n" +
		"    f = g\n" +
		" in f"
	expr := mustParse(t, source)
	let, ok := expr.Value.(cmn.Let)
	assert.True(t, ok)
	assert.Equal(t, 1, len(let.Defs))
	lambda, ok := let.Defs[0].Annotation.(cmn.TLambda)
	assert.True(t, ok)
	assert.Equal(t, cmn.Type(cmn.TCon{Name: "Int"}), lambda.From)
}

func TestCaseClauses(t *testing.T) {
	source := "case n of\n" +
		"  0 -> a\n" +
		"  _ -> b"
	expr := mustParse(t, source)
	caseExpr, ok := expr.Value.(cmn.Case)
	assert.True(t, ok)
	assert.Equal(t, cmn.Expr(cmn.Var{Name: "n"}), caseExpr.Subject.Value)
	assert.Equal(t, 2, len(caseExpr.Clauses))
	assert.Equal(t, cmn.Pattern(cmn.PLiteral{Value: cmn.IntValue{Value: 0}}), caseExpr.Clauses[0].Pattern)
	assert.Equal(t, cmn.Pattern(cmn.PAnything{}), caseExpr.Clauses[1].Pattern)
}

func TestCaseBracedClauses(t *testing.T) {
	expr := mustParse(t, "case x of { 0 -> 1 ; _ -> 2 }")
	caseExpr, ok := expr.Value.(cmn.Case)
	assert.True(t, ok)
	assert.Equal(t, 2, len(caseExpr.Clauses))
	assert.Equal(t, cmn.Pattern(cmn.PLiteral{Value: cmn.IntValue{Value: 0}}), caseExpr.Clauses[0].Pattern)
	assert.Equal(t, cmn.Pattern(cmn.PAnything{}), caseExpr.Clauses[1].Pattern)
	assert.Equal(t, "1:1-1:30", expr.Region.String())
}

func TestCaseRecordPatternStaysLayout(t *testing.T) {
	// The brace after 'of' opens a record pattern here, not a braced block.
	source := "case r of\n" +
		"  {a} -> a"
	expr := mustParse(t, source)
	caseExpr, ok := expr.Value.(cmn.Case)
	assert.True(t, ok)
	assert.Equal(t, 1, len(caseExpr.Clauses))
	assert.Equal(t, cmn.Pattern(cmn.PRecord{Fields: []string{"a"}}), caseExpr.Clauses[0].Pattern)
}

func TestCaseConsPattern(t *testing.T) {
	source := "case l of\n" +
		"  x :: rest -> x\n" +
		"  [] -> z"
	expr := mustParse(t, source)
	caseExpr, ok := expr.Value.(cmn.Case)
	assert.True(t, ok)

	cons, ok := caseExpr.Clauses[0].Pattern.(cmn.PData)
	assert.True(t, ok)
	assert.Equal(t, "::", cons.Name)
	assert.Equal(t, cmn.Pattern(cmn.PVar{Name: "x"}), cons.Args[0])

	empty, ok := caseExpr.Clauses[1].Pattern.(cmn.PData)
	assert.True(t, ok)
	assert.Equal(t, "[]", empty.Name)
}

func TestEmptyInputFails(t *testing.T) {
	_, err := ParseExpression("")
	assert.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "Parse error at "))
}
