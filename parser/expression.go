package parser

import (
	pc "github.com/shibukawa/parsercombinator"

	cmn "github.com/mira-lang/mira/parser/parsercommon"
	tok "github.com/mira-lang/mira/tokenizer"
)

// exprParser ties the expression grammar together. Control constructs
// are tried before operator expressions because their leading keywords
// can never start a term.
func (p *parser) exprParser() pc.Parser[entity] {
	p.control = pc.Or(
		p.ifParser(),
		p.letParser(),
		p.caseParser(),
		p.lambdaParser(),
	)
	return p.expecting("an expression", pc.Or(
		p.control,
		p.binaryParser(),
	))
}

// appParser parses one or more terms and folds them into left-nested
// application, spanning from the function to the last argument.
func (p *parser) appParser() pc.Parser[entity] {
	return func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
		c := p.cursorAt(pctx, tokens)
		result, err := c.parse(p.term)
		if err != nil {
			return 0, nil, err
		}
		for {
			arg, err := c.parse(p.term)
			if err != nil {
				break
			}
			app := cmn.Merge(result.Val.Expr, arg.Val.Expr,
				cmn.Expr(cmn.App{Func: result.Val.Expr, Arg: arg.Val.Expr}))
			result = exprResult(result, app)[0]
		}
		return c.pos, []pc.Token[entity]{result}, nil
	}
}

// operatorParser accepts a symbolic operator, a lone dot (composition),
// or a backticked function name.
func (p *parser) operatorParser() pc.Parser[entity] {
	return func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
		if len(tokens) == 0 {
			return 0, nil, p.fail(tokens, "an operator")
		}
		o := tokens[0].Val.Original
		if !p.inScope(o.Position) {
			return 0, nil, pc.ErrNotMatch
		}
		switch o.Type {
		case tok.OPERATOR, tok.DOT:
			out := tokens[0]
			out.Type = "op"
			out.Val.Text = o.Value
			return 1, []pc.Token[entity]{out}, nil
		case tok.BACKTICK:
			if len(tokens) >= 3 &&
				tokens[1].Val.Original.Type == tok.LOWER_IDENT &&
				tokens[2].Val.Original.Type == tok.BACKTICK {
				out := tokens[0]
				out.Type = "op"
				out.Val.Text = tokens[1].Val.Original.Value
				return 3, []pc.Token[entity]{out}, nil
			}
		}
		return 0, nil, p.fail(tokens, "an operator")
	}
}

// binaryParser parses an operator expression as a flat list of operands
// and operators, then shapes it by precedence.
func (p *parser) binaryParser() pc.Parser[entity] {
	app := p.appParser()
	op := p.operatorParser()
	return func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
		c := p.cursorAt(pctx, tokens)
		first, err := c.parse(app)
		if err != nil {
			return 0, nil, err
		}
		var uses []opUse
		for {
			opTok, err := c.parse(op)
			if err != nil {
				break
			}
			use := opUse{name: opTok.Val.Text, pos: opTok.Val.Original.Position}
			operand, err := c.parse(app)
			if err == nil {
				use.arg = operand.Val.Expr
				uses = append(uses, use)
				continue
			}
			// The final operand may be a control construct, as in
			// `n * if c then a else b`; it swallows the rest.
			operand, err = c.parse(p.control)
			if err != nil {
				return 0, nil, err
			}
			use.arg = operand.Val.Expr
			uses = append(uses, use)
			break
		}
		if len(uses) == 0 {
			return c.pos, []pc.Token[entity]{first}, nil
		}
		resolved, err := resolveOps(first.Val.Expr, uses)
		if err != nil {
			return 0, nil, p.critical(uses[0].pos, err)
		}
		return c.pos, exprResult(tokens[0], resolved), nil
	}
}

// ifParser handles both conditional forms: if/then/else and the guarded
// multi-way form. A plain if/then/else becomes a two-branch multi-way
// conditional whose fallback guard is a synthesized `otherwise`.
func (p *parser) ifParser() pc.Parser[entity] {
	return func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
		c := p.cursorAt(pctx, tokens)
		ifTok, err := c.takeValue("'if'", tok.RESERVED, "if")
		if err != nil {
			return 0, nil, err
		}

		if c.at(tok.PIPE) {
			var branches []cmn.IfBranch
			for c.at(tok.PIPE) {
				c.take("'|'", tok.PIPE)
				cond, err := c.parse(p.expr)
				if err != nil {
					return 0, nil, err
				}
				if _, err := c.take("'->'", tok.ARROW); err != nil {
					return 0, nil, err
				}
				body, err := c.parse(p.expr)
				if err != nil {
					return 0, nil, err
				}
				branches = append(branches, cmn.IfBranch{Cond: cond.Val.Expr, Body: body.Val.Expr})
			}
			last := branches[len(branches)-1].Body
			loc := cmn.At(ifTok.Position, regionEnd(last, ifTok), cmn.Expr(cmn.MultiIf{Branches: branches}))
			return c.pos, exprResult(tokens[0], loc), nil
		}

		cond, err := c.parse(p.expr)
		if err != nil {
			return 0, nil, err
		}
		if _, err := c.takeValue("'then'", tok.RESERVED, "then"); err != nil {
			return 0, nil, err
		}
		thenBody, err := c.parse(p.expr)
		if err != nil {
			return 0, nil, err
		}
		if _, err := c.takeValue("an 'else' branch", tok.RESERVED, "else"); err != nil {
			return 0, nil, err
		}
		elseBody, err := c.parse(p.expr)
		if err != nil {
			return 0, nil, err
		}
		otherwise := cmn.None(cmn.Expr(cmn.Var{Name: "otherwise"}))
		branches := []cmn.IfBranch{
			{Cond: cond.Val.Expr, Body: thenBody.Val.Expr},
			{Cond: otherwise, Body: elseBody.Val.Expr},
		}
		loc := cmn.At(ifTok.Position, regionEnd(elseBody.Val.Expr, ifTok), cmn.Expr(cmn.MultiIf{Branches: branches}))
		return c.pos, exprResult(tokens[0], loc), nil
	}
}

func regionEnd(e *cmn.LocatedExpr, fallback tok.Token) tok.Position {
	if e != nil && e.Region != nil {
		return e.Region.End
	}
	return fallback.EndPosition()
}

// lambdaParser parses \p1 p2 -> body into nested single-argument lambdas.
func (p *parser) lambdaParser() pc.Parser[entity] {
	return func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
		c := p.cursorAt(pctx, tokens)
		lamTok, err := c.take("a lambda", tok.LAMBDA)
		if err != nil {
			return 0, nil, err
		}
		var patterns []cmn.Pattern
		for !c.at(tok.ARROW) {
			pat, err := c.parse(p.patternTerm)
			if err != nil {
				return 0, nil, err
			}
			patterns = append(patterns, pat.Val.Pattern)
		}
		if len(patterns) == 0 {
			return 0, nil, p.fail(c.rest(), "a pattern")
		}
		c.take("'->'", tok.ARROW)
		body, err := c.parse(p.expr)
		if err != nil {
			return 0, nil, err
		}
		lam := p.makeFunction(patterns, body.Val.Expr)
		loc := cmn.At(lamTok.Position, regionEnd(body.Val.Expr, lamTok), lam.Value)
		return c.pos, exprResult(tokens[0], loc), nil
	}
}

// letParser parses a let block followed by its body. The definitions form
// a column-aligned block; annotations attach to the definition of the
// same name.
func (p *parser) letParser() pc.Parser[entity] {
	return func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
		c := p.cursorAt(pctx, tokens)
		letTok, err := c.takeValue("'let'", tok.RESERVED, "let")
		if err != nil {
			return 0, nil, err
		}
		block := p.alignedBlock("the definition of a variable (x = ...)", p.definition)
		n, items, err := block(pctx, c.rest())
		if err != nil {
			return 0, nil, err
		}
		c.pos += n
		defs := attachAnnotations(items)
		if _, err := c.takeValue("'in'", tok.RESERVED, "in"); err != nil {
			return 0, nil, err
		}
		body, err := c.parse(p.expr)
		if err != nil {
			return 0, nil, err
		}
		loc := cmn.At(letTok.Position, regionEnd(body.Val.Expr, letTok),
			cmn.Expr(cmn.Let{Defs: defs, Body: body.Val.Expr}))
		return c.pos, exprResult(tokens[0], loc), nil
	}
}

// attachAnnotations pairs standalone type annotations with the definition
// of the same name and returns the definitions in source order.
func attachAnnotations(items []pc.Token[entity]) []*cmn.Def {
	pending := make(map[string]cmn.Type)
	var defs []*cmn.Def
	for _, item := range items {
		if item.Val.Type != nil {
			pending[item.Val.Text] = item.Val.Type
			continue
		}
		for _, def := range item.Val.Defs {
			if ann, ok := pending[def.Name]; ok {
				def.Annotation = ann
				delete(pending, def.Name)
			}
			defs = append(defs, def)
		}
	}
	return defs
}

// caseParser parses case/of with column-aligned clauses.
func (p *parser) caseParser() pc.Parser[entity] {
	clause := func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
		c := p.cursorAt(pctx, tokens)
		pat, err := c.parse(p.pattern)
		if err != nil {
			return 0, nil, err
		}
		if _, err := c.take("'->'", tok.ARROW); err != nil {
			return 0, nil, err
		}
		body, err := c.parse(p.expr)
		if err != nil {
			return 0, nil, err
		}
		out := tokens[0]
		out.Type = "clause"
		out.Val = entity{
			Original: tokens[0].Val.Original,
			Pattern:  pat.Val.Pattern,
			Expr:     body.Val.Expr,
		}
		return c.pos, []pc.Token[entity]{out}, nil
	}

	return func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
		c := p.cursorAt(pctx, tokens)
		caseTok, err := c.takeValue("'case'", tok.RESERVED, "case")
		if err != nil {
			return 0, nil, err
		}
		subject, err := c.parse(p.expr)
		if err != nil {
			return 0, nil, err
		}
		if _, err := c.takeValue("'of'", tok.RESERVED, "of"); err != nil {
			return 0, nil, err
		}
		// Explicit form: case x of { p -> e ; p -> e }. A brace here can
		// also open a record pattern of an aligned clause, so failure
		// backtracks into the layout form.
		if c.at(tok.LBRACE) {
			save := c.pos
			c.take("'{'", tok.LBRACE)
			var clauses []cmn.CaseClause
			for {
				item, err := c.parse(clause)
				if err != nil {
					clauses = nil
					break
				}
				clauses = append(clauses, cmn.CaseClause{Pattern: item.Val.Pattern, Body: item.Val.Expr})
				if !c.at(tok.SEMICOLON) {
					break
				}
				c.take("';'", tok.SEMICOLON)
			}
			if clauses != nil {
				if close_, err := c.take("'}'", tok.RBRACE); err == nil {
					loc := cmn.At(caseTok.Position, close_.EndPosition(),
						cmn.Expr(cmn.Case{Subject: subject.Val.Expr, Clauses: clauses}))
					return c.pos, exprResult(tokens[0], loc), nil
				}
			}
			c.pos = save
		}
		block := p.expecting("cases { x -> ... }",
			p.alignedBlock("a case clause", clause))
		n, items, err := block(pctx, c.rest())
		if err != nil {
			return 0, nil, err
		}
		c.pos += n
		clauses := make([]cmn.CaseClause, len(items))
		for i, item := range items {
			clauses[i] = cmn.CaseClause{Pattern: item.Val.Pattern, Body: item.Val.Expr}
		}
		end := regionEnd(clauses[len(clauses)-1].Body, caseTok)
		loc := cmn.At(caseTok.Position, end,
			cmn.Expr(cmn.Case{Subject: subject.Val.Expr, Clauses: clauses}))
		return c.pos, exprResult(tokens[0], loc), nil
	}
}

// makeFunction folds argument patterns into nested lambdas, splitting a
// destructuring pattern into a case on a fresh parameter.
func (p *parser) makeFunction(patterns []cmn.Pattern, body *cmn.LocatedExpr) *cmn.LocatedExpr {
	result := body
	for i := len(patterns) - 1; i >= 0; i-- {
		pat := patterns[i]
		switch pat.(type) {
		case cmn.PVar, cmn.PAnything:
			result = cmn.None(cmn.Expr(cmn.Lambda{Pattern: pat, Body: result}))
		default:
			name := p.freshVar()
			scrutinee := cmn.None(cmn.Expr(cmn.Var{Name: name}))
			caseExpr := cmn.None(cmn.Expr(cmn.Case{
				Subject: scrutinee,
				Clauses: []cmn.CaseClause{{Pattern: pat, Body: result}},
			}))
			result = cmn.None(cmn.Expr(cmn.Lambda{Pattern: cmn.PVar{Name: name}, Body: caseExpr}))
		}
	}
	return result
}
