package parser

import (
	pc "github.com/shibukawa/parsercombinator"

	cmn "github.com/mira-lang/mira/parser/parsercommon"
	tok "github.com/mira-lang/mira/tokenizer"
)

func typeResult(first pc.Token[entity], n int, t cmn.Type) (int, []pc.Token[entity], error) {
	first.Type = "type"
	first.Val = entity{Original: first.Val.Original, Type: t}
	return n, []pc.Token[entity]{first}, nil
}

// typeExprParser parses type annotations: constructor applications,
// right-associative arrows, list and tuple sugar, and record types.
func (p *parser) typeExprParser() pc.Parser[entity] {
	var atom, application pc.Parser[entity]

	atom = func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
		c := p.cursorAt(pctx, tokens)
		o, ok := c.peek()
		if !ok {
			return 0, nil, p.fail(c.rest(), "a type")
		}
		switch o.Type {
		case tok.UPPER_IDENT:
			c.pos++
			return typeResult(tokens[0], c.pos, cmn.TCon{Name: o.Value})
		case tok.LOWER_IDENT:
			c.pos++
			return typeResult(tokens[0], c.pos, cmn.TVar{Name: o.Value})
		case tok.LPAREN:
			return p.parenType(c, tokens)
		case tok.LBRACKET:
			c.pos++
			inner, err := c.parse(p.typeExpr)
			if err != nil {
				return 0, nil, err
			}
			if _, err := c.take("']'", tok.RBRACKET); err != nil {
				return 0, nil, err
			}
			return typeResult(tokens[0], c.pos, cmn.TCon{Name: "List", Args: []cmn.Type{inner.Val.Type}})
		case tok.LBRACE:
			return p.recordType(c, tokens)
		default:
			return 0, nil, p.fail(c.rest(), "a type")
		}
	}

	application = func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
		c := p.cursorAt(pctx, tokens)
		first, err := c.parse(atom)
		if err != nil {
			return 0, nil, err
		}
		con, applicable := first.Val.Type.(cmn.TCon)
		if !applicable {
			return c.pos, []pc.Token[entity]{first}, nil
		}
		for {
			arg, err := c.parse(atom)
			if err != nil {
				break
			}
			con.Args = append(con.Args, arg.Val.Type)
		}
		return typeResult(tokens[0], c.pos, con)
	}

	return func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
		c := p.cursorAt(pctx, tokens)
		from, err := c.parse(application)
		if err != nil {
			return 0, nil, err
		}
		if !c.at(tok.ARROW) {
			return c.pos, []pc.Token[entity]{from}, nil
		}
		c.take("'->'", tok.ARROW)
		to, err := c.parse(p.typeExpr)
		if err != nil {
			return 0, nil, err
		}
		return typeResult(tokens[0], c.pos, cmn.TLambda{From: from.Val.Type, To: to.Val.Type})
	}
}

func (p *parser) parenType(c *cursor, tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
	c.take("'('", tok.LPAREN)
	if c.at(tok.RPAREN) {
		c.take("')'", tok.RPAREN)
		return typeResult(tokens[0], c.pos, cmn.TCon{Name: tupleName(0)})
	}
	first, err := c.parse(p.typeExpr)
	if err != nil {
		return 0, nil, err
	}
	types := []cmn.Type{first.Val.Type}
	for c.at(tok.COMMA) {
		c.take("','", tok.COMMA)
		next, err := c.parse(p.typeExpr)
		if err != nil {
			return 0, nil, err
		}
		types = append(types, next.Val.Type)
	}
	if _, err := c.take("')' or ','", tok.RPAREN); err != nil {
		return 0, nil, err
	}
	if len(types) == 1 {
		return typeResult(tokens[0], c.pos, types[0])
	}
	return typeResult(tokens[0], c.pos, cmn.TCon{Name: tupleName(len(types)), Args: types})
}

// recordType parses { a : Int, b : c } and the extension form
// { r | a : Int }.
func (p *parser) recordType(c *cursor, tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
	c.take("'{'", tok.LBRACE)
	record := cmn.TRecord{}
	if c.at(tok.RBRACE) {
		c.take("'}'", tok.RBRACE)
		return typeResult(tokens[0], c.pos, record)
	}
	if o, ok := c.peek(); ok && o.Type == tok.LOWER_IDENT {
		if pipe, ok := c.peekAt(1); ok && pipe.Type == tok.PIPE {
			c.pos += 2
			record.Extends = o.Value
		}
	}
	for {
		name, err := c.take("a field name", tok.LOWER_IDENT)
		if err != nil {
			return 0, nil, err
		}
		if _, err := c.take("':'", tok.COLON); err != nil {
			return 0, nil, err
		}
		fieldType, err := c.parse(p.typeExpr)
		if err != nil {
			return 0, nil, err
		}
		record.Fields = append(record.Fields, cmn.TypeField{Name: name.Value, Type: fieldType.Val.Type})
		if !c.at(tok.COMMA) {
			break
		}
		c.take("','", tok.COMMA)
	}
	if _, err := c.take("'}' or ','", tok.RBRACE); err != nil {
		return 0, nil, err
	}
	return typeResult(tokens[0], c.pos, record)
}
