package parser

import (
	pc "github.com/shibukawa/parsercombinator"

	cmn "github.com/mira-lang/mira/parser/parsercommon"
	tok "github.com/mira-lang/mira/tokenizer"
)

func patternResult(first pc.Token[entity], n int, pat cmn.Pattern) (int, []pc.Token[entity], error) {
	first.Type = "pattern"
	first.Val = entity{Original: first.Val.Original, Pattern: pat}
	return n, []pc.Token[entity]{first}, nil
}

// patternTermParser parses a closed pattern: wildcards, variables,
// literals, bare constructors, and the bracketed forms. Constructor
// arguments and cons chains live in patternParser.
func (p *parser) patternTermParser() pc.Parser[entity] {
	return func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
		c := p.cursorAt(pctx, tokens)
		o, ok := c.peek()
		if !ok {
			return 0, nil, p.fail(c.rest(), "a pattern")
		}
		switch o.Type {
		case tok.UNDERSCORE:
			c.pos++
			return patternResult(tokens[0], c.pos, cmn.PAnything{})
		case tok.LOWER_IDENT:
			c.pos++
			return patternResult(tokens[0], c.pos, cmn.PVar{Name: o.Value})
		case tok.UPPER_IDENT:
			c.pos++
			switch o.Value {
			case "True":
				return patternResult(tokens[0], c.pos, cmn.PLiteral{Value: cmn.BoolValue{Value: true}})
			case "False":
				return patternResult(tokens[0], c.pos, cmn.PLiteral{Value: cmn.BoolValue{Value: false}})
			}
			return patternResult(tokens[0], c.pos, cmn.PData{Name: o.Value})
		case tok.NUMBER, tok.STRING, tok.CHAR:
			value, err := literalValue(o)
			if err != nil {
				return 0, nil, p.fail(c.rest(), "a pattern")
			}
			c.pos++
			return patternResult(tokens[0], c.pos, cmn.PLiteral{Value: value})
		case tok.LPAREN:
			return p.parenPattern(c, tokens)
		case tok.LBRACKET:
			return p.listPattern(c, tokens)
		case tok.LBRACE:
			return p.recordPattern(c, tokens)
		default:
			return 0, nil, p.fail(c.rest(), "a pattern")
		}
	}
}

func (p *parser) parenPattern(c *cursor, tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
	c.take("'('", tok.LPAREN)
	if c.at(tok.RPAREN) {
		c.take("')'", tok.RPAREN)
		return patternResult(tokens[0], c.pos, cmn.PData{Name: tupleName(0)})
	}
	first, err := c.parse(p.pattern)
	if err != nil {
		return 0, nil, err
	}
	patterns := []cmn.Pattern{first.Val.Pattern}
	for c.at(tok.COMMA) {
		c.take("','", tok.COMMA)
		next, err := c.parse(p.pattern)
		if err != nil {
			return 0, nil, err
		}
		patterns = append(patterns, next.Val.Pattern)
	}
	if _, err := c.take("')' or ','", tok.RPAREN); err != nil {
		return 0, nil, err
	}
	if len(patterns) == 1 {
		return patternResult(tokens[0], c.pos, patterns[0])
	}
	return patternResult(tokens[0], c.pos, cmn.PData{Name: tupleName(len(patterns)), Args: patterns})
}

// listPattern desugars [a, b] into a :: b :: [].
func (p *parser) listPattern(c *cursor, tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
	c.take("'['", tok.LBRACKET)
	if c.at(tok.RBRACKET) {
		c.take("']'", tok.RBRACKET)
		return patternResult(tokens[0], c.pos, cmn.PData{Name: "[]"})
	}
	var elements []cmn.Pattern
	for {
		el, err := c.parse(p.pattern)
		if err != nil {
			return 0, nil, err
		}
		elements = append(elements, el.Val.Pattern)
		if !c.at(tok.COMMA) {
			break
		}
		c.take("','", tok.COMMA)
	}
	if _, err := c.take("']' or ','", tok.RBRACKET); err != nil {
		return 0, nil, err
	}
	result := cmn.Pattern(cmn.PData{Name: "[]"})
	for i := len(elements) - 1; i >= 0; i-- {
		result = cmn.PData{Name: "::", Args: []cmn.Pattern{elements[i], result}}
	}
	return patternResult(tokens[0], c.pos, result)
}

func (p *parser) recordPattern(c *cursor, tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
	c.take("'{'", tok.LBRACE)
	var fields []string
	for {
		name, err := c.take("a field name", tok.LOWER_IDENT)
		if err != nil {
			return 0, nil, err
		}
		fields = append(fields, name.Value)
		if !c.at(tok.COMMA) {
			break
		}
		c.take("','", tok.COMMA)
	}
	if _, err := c.take("'}' or ','", tok.RBRACE); err != nil {
		return 0, nil, err
	}
	return patternResult(tokens[0], c.pos, cmn.PRecord{Fields: fields})
}

// patternParser parses constructor applications and right-associative
// cons chains on top of pattern terms.
func (p *parser) patternParser() pc.Parser[entity] {
	app := func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
		c := p.cursorAt(pctx, tokens)
		if o, ok := c.peek(); ok && o.Type == tok.UPPER_IDENT && o.Value != "True" && o.Value != "False" {
			c.pos++
			var args []cmn.Pattern
			for {
				arg, err := c.parse(p.patternTerm)
				if err != nil {
					break
				}
				args = append(args, arg.Val.Pattern)
			}
			return patternResult(tokens[0], c.pos, cmn.PData{Name: o.Value, Args: args})
		}
		return p.patternTerm(pctx, tokens)
	}

	return func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
		c := p.cursorAt(pctx, tokens)
		head, err := c.parse(app)
		if err != nil {
			return 0, nil, err
		}
		if !c.atValue(tok.OPERATOR, "::") {
			return c.pos, []pc.Token[entity]{head}, nil
		}
		c.takeValue("'::'", tok.OPERATOR, "::")
		rest, err := c.parse(p.pattern)
		if err != nil {
			return 0, nil, err
		}
		cons := cmn.PData{Name: "::", Args: []cmn.Pattern{head.Val.Pattern, rest.Val.Pattern}}
		return patternResult(tokens[0], c.pos, cons)
	}
}

// flattenPattern expands a destructuring binding `pattern = body` into a
// hidden matcher definition plus one definition per bound variable, each
// projecting its variable out of the matcher with a case.
func (p *parser) flattenPattern(pat cmn.Pattern, body *cmn.LocatedExpr, line int) []*cmn.Def {
	matcher := p.freshVar()
	defs := []*cmn.Def{{
		Name:    matcher,
		Body:    body,
		SortKey: cmn.SortKey{Line: line, Index: 0},
	}}
	for i, name := range cmn.BoundVars(pat) {
		scrutinee := cmn.None(cmn.Expr(cmn.Var{Name: matcher}))
		project := cmn.None(cmn.Expr(cmn.Case{
			Subject: scrutinee,
			Clauses: []cmn.CaseClause{{
				Pattern: pat,
				Body:    cmn.None(cmn.Expr(cmn.Var{Name: name})),
			}},
		}))
		defs = append(defs, &cmn.Def{
			Name:    name,
			Body:    project,
			SortKey: cmn.SortKey{Line: line, Index: i + 1},
		})
	}
	return defs
}
