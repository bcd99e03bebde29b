package parser

import (
	"strconv"
	"strings"

	pc "github.com/shibukawa/parsercombinator"

	"github.com/mira-lang/mira/markdown"
	cmn "github.com/mira-lang/mira/parser/parsercommon"
	tok "github.com/mira-lang/mira/tokenizer"
)

// termParser builds the parser for non-application expressions: literals,
// variables, accessors, lists, parenthesized forms, and braced record
// forms, plus postfix field access on any of them.
func (p *parser) termParser() pc.Parser[entity] {
	base := p.expecting("basic term (4, x, 'c', etc.)", pc.Or(
		p.markdownTerm(),
		p.accessorTerm(),
		p.literalTerm(),
		p.variableTerm(),
		p.listTerm(),
		p.parensTerm(),
		p.recordTerm(),
	))

	return func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
		n, out, err := base(pctx, tokens)
		if err != nil {
			return n, out, err
		}
		result := out[0]
		// Postfix access binds only when the dot touches both sides,
		// so `r.x` projects while `f . g` stays composition.
		for len(tokens) > n+1 {
			dot := tokens[n].Val.Original
			field := tokens[n+1].Val.Original
			if dot.Type != tok.DOT || field.Type != tok.LOWER_IDENT {
				break
			}
			prevEnd := tokens[n-1].Val.Original.EndPosition()
			if dot.Position.Offset != prevEnd.Offset ||
				field.Position.Offset != dot.EndPosition().Offset {
				break
			}
			access := cmn.At(startOf(result), field.EndPosition(),
				cmn.Expr(cmn.Access{Record: result.Val.Expr, Field: field.Value}))
			result = exprResult(result, access)[0]
			n += 2
		}
		return n, exprResult(result, result.Val.Expr), nil
	}
}

func (p *parser) literalTerm() pc.Parser[entity] {
	number := p.tokenOf("a number", tok.NUMBER)
	str := p.tokenOf("a string", tok.STRING)
	char := p.tokenOf("a character", tok.CHAR)

	return func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
		for _, prim := range []pc.Parser[entity]{number, str, char} {
			n, out, err := prim(pctx, tokens)
			if err != nil {
				continue
			}
			o := out[0].Val.Original
			value, lerr := literalValue(o)
			if lerr != nil {
				return 0, nil, p.fail(tokens, "a literal")
			}
			loc := cmn.At(o.Position, o.EndPosition(), cmn.Expr(cmn.Literal{Value: value}))
			return n, exprResult(out[0], loc), nil
		}
		return 0, nil, p.fail(tokens, "a literal")
	}
}

func literalValue(o tok.Token) (cmn.Value, error) {
	switch o.Type {
	case tok.NUMBER:
		if strings.ContainsAny(o.Value, ".eE") {
			f, err := strconv.ParseFloat(o.Value, 64)
			if err != nil {
				return nil, err
			}
			return cmn.FloatValue{Value: f}, nil
		}
		i, err := strconv.ParseInt(o.Value, 10, 64)
		if err != nil {
			return nil, err
		}
		return cmn.IntValue{Value: i}, nil
	case tok.STRING:
		return cmn.StrValue{Value: cmn.Unescape(o.Value[1 : len(o.Value)-1])}, nil
	case tok.CHAR:
		body := cmn.Unescape(o.Value[1 : len(o.Value)-1])
		return cmn.ChrValue{Value: []rune(body)[0]}, nil
	default:
		return nil, nil
	}
}

// variableTerm parses variables and constructors; True and False become
// boolean literals here.
func (p *parser) variableTerm() pc.Parser[entity] {
	ident := p.tokenOf("variable", tok.LOWER_IDENT, tok.UPPER_IDENT)
	return pc.Trans(ident, func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) ([]pc.Token[entity], error) {
		o := tokens[0].Val.Original
		var value cmn.Expr
		switch o.Value {
		case "True":
			value = cmn.Literal{Value: cmn.BoolValue{Value: true}}
		case "False":
			value = cmn.Literal{Value: cmn.BoolValue{Value: false}}
		default:
			value = cmn.Var{Name: o.Value}
		}
		return exprResult(tokens[0], cmn.At(o.Position, o.EndPosition(), value)), nil
	})
}

// accessorTerm parses a bare field accessor like .name, which desugars to
// a lambda projecting the field.
func (p *parser) accessorTerm() pc.Parser[entity] {
	return func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
		if len(tokens) < 2 {
			return 0, nil, pc.ErrNotMatch
		}
		dot := tokens[0].Val.Original
		field := tokens[1].Val.Original
		if dot.Type != tok.DOT || field.Type != tok.LOWER_IDENT ||
			field.Position.Offset != dot.EndPosition().Offset {
			return 0, nil, pc.ErrNotMatch
		}
		if !p.inScope(dot.Position) {
			return 0, nil, pc.ErrNotMatch
		}
		body := cmn.None(cmn.Expr(cmn.Access{
			Record: cmn.None(cmn.Expr(cmn.Var{Name: "x"})),
			Field:  field.Value,
		}))
		lam := cmn.At(dot.Position, field.EndPosition(),
			cmn.Expr(cmn.Lambda{Pattern: cmn.PVar{Name: "x"}, Body: body}))
		lam.WithLabel("." + field.Value)
		return 2, exprResult(tokens[0], lam), nil
	}
}

// markdownTerm parses a [markdown| ... |] literal, rendering it eagerly.
func (p *parser) markdownTerm() pc.Parser[entity] {
	md := p.tokenOf("a markdown literal", tok.MARKDOWN)
	return func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
		n, out, err := md(pctx, tokens)
		if err != nil {
			return n, out, err
		}
		o := out[0].Val.Original
		body := strings.TrimSuffix(strings.TrimPrefix(o.Value, "[markdown|"), "|]")
		body = strings.ReplaceAll(body, "\r", "")
		doc, rerr := markdown.Render(body)
		if rerr != nil {
			return 0, nil, p.critical(o.Position, rerr)
		}
		loc := cmn.At(o.Position, o.EndPosition(), cmn.Expr(cmn.Markdown{Document: doc}))
		return n, exprResult(out[0], loc), nil
	}
}

// listTerm parses [ ], [e1, e2, ...], and the range form [lo..hi].
func (p *parser) listTerm() pc.Parser[entity] {
	return func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
		c := p.cursorAt(pctx, tokens)
		open, err := c.take("a list", tok.LBRACKET)
		if err != nil {
			return 0, nil, err
		}
		if c.at(tok.RBRACKET) {
			close_, _ := c.take("']'", tok.RBRACKET)
			loc := cmn.At(open.Position, close_.EndPosition(), cmn.Expr(cmn.ExplicitList{}))
			return c.pos, exprResult(tokens[0], loc), nil
		}
		first, err := c.parse(p.expr)
		if err != nil {
			return 0, nil, err
		}
		if c.at(tok.DOTDOT) {
			c.take("'..'", tok.DOTDOT)
			hi, err := c.parse(p.expr)
			if err != nil {
				return 0, nil, err
			}
			close_, err := c.take("']'", tok.RBRACKET)
			if err != nil {
				return 0, nil, err
			}
			loc := cmn.At(open.Position, close_.EndPosition(),
				cmn.Expr(cmn.Range{Lo: first.Val.Expr, Hi: hi.Val.Expr}))
			return c.pos, exprResult(tokens[0], loc), nil
		}
		elements := []*cmn.LocatedExpr{first.Val.Expr}
		for c.at(tok.COMMA) {
			c.take("','", tok.COMMA)
			next, err := c.parse(p.expr)
			if err != nil {
				return 0, nil, err
			}
			elements = append(elements, next.Val.Expr)
		}
		close_, err := c.take("']' or ','", tok.RBRACKET)
		if err != nil {
			return 0, nil, err
		}
		loc := cmn.At(open.Position, close_.EndPosition(),
			cmn.Expr(cmn.ExplicitList{Elements: elements}))
		return c.pos, exprResult(tokens[0], loc), nil
	}
}

// parensTerm parses parenthesized expressions, tuples, and the section
// forms (+) and (,,).
func (p *parser) parensTerm() pc.Parser[entity] {
	return func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
		c := p.cursorAt(pctx, tokens)
		open, err := c.take("'('", tok.LPAREN)
		if err != nil {
			return 0, nil, err
		}

		if o, ok := c.peek(); ok && (o.Type == tok.OPERATOR || o.Type == tok.DOT) {
			save := c.pos
			c.pos++
			if close_, err := c.take("')'", tok.RPAREN); err == nil {
				loc := cmn.At(open.Position, close_.EndPosition(), operatorSection(o.Value))
				return c.pos, exprResult(tokens[0], loc), nil
			}
			// Not a section; the symbol may open an expression, as the
			// dot of (.foo) does.
			c.pos = save
		}

		if c.at(tok.COMMA) {
			commas := 0
			for c.at(tok.COMMA) {
				c.take("','", tok.COMMA)
				commas++
			}
			close_, err := c.take("')'", tok.RPAREN)
			if err != nil {
				return 0, nil, err
			}
			loc := cmn.At(open.Position, close_.EndPosition(), tupleSection(commas+1))
			return c.pos, exprResult(tokens[0], loc), nil
		}

		first, err := c.parse(p.expr)
		if err != nil {
			return 0, nil, err
		}
		elements := []*cmn.LocatedExpr{first.Val.Expr}
		for c.at(tok.COMMA) {
			c.take("','", tok.COMMA)
			next, err := c.parse(p.expr)
			if err != nil {
				return 0, nil, err
			}
			elements = append(elements, next.Val.Expr)
		}
		close_, err := c.take("')' or ','", tok.RPAREN)
		if err != nil {
			return 0, nil, err
		}
		if len(elements) == 1 {
			// Parens group without leaving a mark on the tree.
			return c.pos, exprResult(tokens[0], elements[0]), nil
		}
		loc := cmn.At(open.Position, close_.EndPosition(),
			cmn.Expr(cmn.Data{Name: tupleName(len(elements)), Args: elements}))
		return c.pos, exprResult(tokens[0], loc), nil
	}
}

func tupleName(n int) string {
	return "_Tuple" + strconv.Itoa(n)
}

// operatorSection turns (+) into \x y -> x + y.
func operatorSection(op string) cmn.Expr {
	x := cmn.None(cmn.Expr(cmn.Var{Name: "x"}))
	y := cmn.None(cmn.Expr(cmn.Var{Name: "y"}))
	body := cmn.None(cmn.Expr(cmn.Binop{Op: op, Left: x, Right: y}))
	inner := cmn.None(cmn.Expr(cmn.Lambda{Pattern: cmn.PVar{Name: "y"}, Body: body}))
	return cmn.Lambda{Pattern: cmn.PVar{Name: "x"}, Body: inner}
}

// tupleSection turns (,) into \v0 v1 -> (v0, v1).
func tupleSection(arity int) cmn.Expr {
	names := make([]string, arity)
	args := make([]*cmn.LocatedExpr, arity)
	for i := range names {
		names[i] = "v" + strconv.Itoa(i)
		args[i] = cmn.None(cmn.Expr(cmn.Var{Name: names[i]}))
	}
	body := cmn.None(cmn.Expr(cmn.Data{Name: tupleName(arity), Args: args}))
	for i := arity - 1; i >= 1; i-- {
		body = cmn.None(cmn.Expr(cmn.Lambda{Pattern: cmn.PVar{Name: names[i]}, Body: body}))
	}
	return cmn.Lambda{Pattern: cmn.PVar{Name: names[0]}, Body: body}
}

// recordTerm parses the braced forms: {}, field removal {r - x}, removal
// with replacement {r - x | y = e}, insertion {r | x = e}, update
// {r | x <- e}, and record literals {a = 1, go x = x}.
func (p *parser) recordTerm() pc.Parser[entity] {
	return func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
		c := p.cursorAt(pctx, tokens)
		open, err := c.take("a record", tok.LBRACE)
		if err != nil {
			return 0, nil, err
		}
		if c.at(tok.RBRACE) {
			close_, _ := c.take("'}'", tok.RBRACE)
			loc := cmn.At(open.Position, close_.EndPosition(), cmn.Expr(cmn.Record{}))
			return c.pos, exprResult(tokens[0], loc), nil
		}

		head, ok := c.peek()
		if !ok || head.Type != tok.LOWER_IDENT {
			pos := open.Position
			if ok {
				pos = head.Position
			}
			return 0, nil, p.critical(pos, cmn.ErrMalformedRecordField)
		}
		c.pos++
		record := cmn.At(head.Position, head.EndPosition(), cmn.Expr(cmn.Var{Name: head.Value}))

		switch {
		case c.at(tok.RBRACE):
			// {r} is just the variable, braces and all.
			close_, _ := c.take("'}'", tok.RBRACE)
			loc := cmn.At(open.Position, close_.EndPosition(), cmn.Expr(cmn.Var{Name: head.Value}))
			return c.pos, exprResult(tokens[0], loc), nil
		case c.atValue(tok.OPERATOR, "-"):
			return p.recordRemove(c, tokens, open, record)
		case c.at(tok.PIPE):
			return p.recordUpdate(c, tokens, open, record)
		default:
			return p.recordLiteral(c, tokens, open, head)
		}
	}
}

func (p *parser) recordRemove(c *cursor, tokens []pc.Token[entity], open tok.Token, record *cmn.LocatedExpr) (int, []pc.Token[entity], error) {
	c.takeValue("'-'", tok.OPERATOR, "-")
	field, err := c.take("a field name", tok.LOWER_IDENT)
	if err != nil {
		return 0, nil, err
	}
	if c.at(tok.PIPE) {
		c.take("'|'", tok.PIPE)
		newField, err := c.take("a field name", tok.LOWER_IDENT)
		if err != nil {
			return 0, nil, err
		}
		if _, err := c.take("'='", tok.EQUALS); err != nil {
			return 0, nil, err
		}
		value, err := c.parse(p.expr)
		if err != nil {
			return 0, nil, err
		}
		close_, err := c.take("'}'", tok.RBRACE)
		if err != nil {
			return 0, nil, err
		}
		removed := cmn.None(cmn.Expr(cmn.Remove{Record: record, Field: field.Value}))
		loc := cmn.At(open.Position, close_.EndPosition(),
			cmn.Expr(cmn.Insert{Record: removed, Field: newField.Value, Value: value.Val.Expr}))
		return c.pos, exprResult(tokens[0], loc), nil
	}
	close_, err := c.take("'}' or '|'", tok.RBRACE)
	if err != nil {
		return 0, nil, err
	}
	loc := cmn.At(open.Position, close_.EndPosition(),
		cmn.Expr(cmn.Remove{Record: record, Field: field.Value}))
	return c.pos, exprResult(tokens[0], loc), nil
}

func (p *parser) recordUpdate(c *cursor, tokens []pc.Token[entity], open tok.Token, record *cmn.LocatedExpr) (int, []pc.Token[entity], error) {
	c.take("'|'", tok.PIPE)
	field, err := c.take("a field name", tok.LOWER_IDENT)
	if err != nil {
		return 0, nil, err
	}

	if c.at(tok.EQUALS) {
		// Insertions: {r | x = 1, y = 2} adds fields one at a time.
		result := record
		for {
			if _, err := c.take("'='", tok.EQUALS); err != nil {
				return 0, nil, err
			}
			value, err := c.parse(p.expr)
			if err != nil {
				return 0, nil, err
			}
			result = cmn.None(cmn.Expr(cmn.Insert{Record: result, Field: field.Value, Value: value.Val.Expr}))
			if !c.at(tok.COMMA) {
				break
			}
			c.take("','", tok.COMMA)
			field, err = c.take("a field name", tok.LOWER_IDENT)
			if err != nil {
				return 0, nil, err
			}
		}
		close_, err := c.take("'}'", tok.RBRACE)
		if err != nil {
			return 0, nil, err
		}
		loc := cmn.At(open.Position, close_.EndPosition(), result.Value)
		return c.pos, exprResult(tokens[0], loc), nil
	}

	// Updates: {r | x <- 1, y <- 2} replaces existing fields together.
	var changes []cmn.FieldChange
	for {
		if _, err := c.take("'<-' or '='", tok.LARROW); err != nil {
			return 0, nil, err
		}
		value, err := c.parse(p.expr)
		if err != nil {
			return 0, nil, err
		}
		changes = append(changes, cmn.FieldChange{Field: field.Value, Value: value.Val.Expr})
		if !c.at(tok.COMMA) {
			break
		}
		c.take("','", tok.COMMA)
		field, err = c.take("a field name", tok.LOWER_IDENT)
		if err != nil {
			return 0, nil, err
		}
	}
	close_, err := c.take("'}'", tok.RBRACE)
	if err != nil {
		return 0, nil, err
	}
	loc := cmn.At(open.Position, close_.EndPosition(),
		cmn.Expr(cmn.Modify{Record: record, Changes: changes}))
	return c.pos, exprResult(tokens[0], loc), nil
}

func (p *parser) recordLiteral(c *cursor, tokens []pc.Token[entity], open tok.Token, head tok.Token) (int, []pc.Token[entity], error) {
	first, err := p.recordField(c, head)
	if err != nil {
		return 0, nil, err
	}
	fields := []*cmn.Def{first}
	for c.at(tok.COMMA) {
		c.take("','", tok.COMMA)
		name, ok := c.peek()
		if !ok || name.Type != tok.LOWER_IDENT {
			pos := open.Position
			if ok {
				pos = name.Position
			}
			return 0, nil, p.critical(pos, cmn.ErrMalformedRecordField)
		}
		c.pos++
		field, err := p.recordField(c, name)
		if err != nil {
			return 0, nil, err
		}
		fields = append(fields, field)
	}
	close_, err := c.take("'}' or ','", tok.RBRACE)
	if err != nil {
		return 0, nil, err
	}
	loc := cmn.At(open.Position, close_.EndPosition(), cmn.Expr(cmn.Record{Fields: fields}))
	return c.pos, exprResult(tokens[0], loc), nil
}

// recordField parses the remainder of one field binding after its name:
// optional argument patterns, '=', and the body.
func (p *parser) recordField(c *cursor, name tok.Token) (*cmn.Def, error) {
	var patterns []cmn.Pattern
	for {
		o, ok := c.peek()
		if !ok || o.Type == tok.EQUALS {
			break
		}
		pat, err := c.parse(p.patternTerm)
		if err != nil {
			return nil, p.critical(o.Position, cmn.ErrMalformedRecordField)
		}
		patterns = append(patterns, pat.Val.Pattern)
	}
	eq, err := c.take("'='", tok.EQUALS)
	if err != nil {
		return nil, err
	}
	body, err := c.parse(p.expr)
	if err != nil {
		return nil, err
	}
	return &cmn.Def{
		Name:     name.Value,
		Patterns: patterns,
		Body:     body.Val.Expr,
		SortKey:  cmn.SortKey{Line: eq.Position.Line},
	}, nil
}
