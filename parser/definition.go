package parser

import (
	pc "github.com/shibukawa/parsercombinator"

	cmn "github.com/mira-lang/mira/parser/parsercommon"
	tok "github.com/mira-lang/mira/tokenizer"
)

// definitionParser parses one item of a definition block: a standalone
// type annotation, an operator definition in prefix or infix form, a
// named function or value definition, or a destructuring binding. The
// destructuring case expands into several definitions.
func (p *parser) definitionParser() pc.Parser[entity] {
	return func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
		c := p.cursorAt(pctx, tokens)

		// name : type
		if o, ok := c.peek(); ok && o.Type == tok.LOWER_IDENT {
			if colon, ok := c.peekAt(1); ok && colon.Type == tok.COLON {
				c.pos += 2
				t, err := c.parse(p.typeExpr)
				if err != nil {
					return 0, nil, err
				}
				out := tokens[0]
				out.Type = "annotation"
				out.Val = entity{Original: tokens[0].Val.Original, Text: o.Value, Type: t.Val.Type}
				return c.pos, []pc.Token[entity]{out}, nil
			}
		}

		// (op) : type, and (op) a b = body
		if o, ok := c.peek(); ok && o.Type == tok.LPAREN {
			if op, ok := c.peekAt(1); ok && (op.Type == tok.OPERATOR || op.Type == tok.DOT) {
				if rp, ok := c.peekAt(2); ok && rp.Type == tok.RPAREN {
					if colon, ok := c.peekAt(3); ok && colon.Type == tok.COLON {
						c.pos += 4
						t, err := c.parse(p.typeExpr)
						if err != nil {
							return 0, nil, err
						}
						out := tokens[0]
						out.Type = "annotation"
						out.Val = entity{Original: tokens[0].Val.Original, Text: op.Value, Type: t.Val.Type}
						return c.pos, []pc.Token[entity]{out}, nil
					}
					c.pos += 3
					return p.namedDefTail(c, tokens, op.Value)
				}
			}
		}

		// a op b = body and a `op` b = body, with the '=' deciding between
		// an operator definition and an ordinary expression. Cons stays a
		// pattern.
		save := c.pos
		if left, err := c.parse(p.patternTerm); err == nil {
			name, width := "", 0
			if o, ok := c.peek(); ok && o.Type == tok.OPERATOR && o.Value != "::" {
				name, width = o.Value, 1
			} else if bt, ok := c.peek(); ok && bt.Type == tok.BACKTICK {
				if word, ok := c.peekAt(1); ok && word.Type == tok.LOWER_IDENT {
					if end, ok := c.peekAt(2); ok && end.Type == tok.BACKTICK {
						name, width = word.Value, 3
					}
				}
			}
			if width > 0 {
				c.pos += width
				if right, err := c.parse(p.patternTerm); err == nil && c.at(tok.EQUALS) {
					return p.defTail(c, tokens, name,
						[]cmn.Pattern{left.Val.Pattern, right.Val.Pattern})
				}
			}
		}
		c.pos = save

		// name a b = body
		if o, ok := c.peek(); ok && o.Type == tok.LOWER_IDENT {
			c.pos++
			if n, out, err := p.namedDefTail(c, tokens, o.Value); err == nil {
				return n, out, nil
			}
			c.pos = save
		}

		// pattern = body
		pat, err := c.parse(p.pattern)
		if err != nil {
			return 0, nil, err
		}
		eq, err := c.take("'='", tok.EQUALS)
		if err != nil {
			return 0, nil, err
		}
		body, err := c.parse(p.expr)
		if err != nil {
			return 0, nil, err
		}
		defs := p.flattenPattern(pat.Val.Pattern, body.Val.Expr, eq.Position.Line)
		out := tokens[0]
		out.Type = "defs"
		out.Val = entity{Original: tokens[0].Val.Original, Defs: defs}
		return c.pos, []pc.Token[entity]{out}, nil
	}
}

// namedDefTail parses the argument patterns and body of a definition
// whose name is already consumed.
func (p *parser) namedDefTail(c *cursor, tokens []pc.Token[entity], name string) (int, []pc.Token[entity], error) {
	var patterns []cmn.Pattern
	for !c.at(tok.EQUALS) {
		pat, err := c.parse(p.patternTerm)
		if err != nil {
			return 0, nil, err
		}
		patterns = append(patterns, pat.Val.Pattern)
	}
	return p.defTail(c, tokens, name, patterns)
}

// defTail parses `= body` and builds the definition. The line of the '='
// is the definition's sort line.
func (p *parser) defTail(c *cursor, tokens []pc.Token[entity], name string, patterns []cmn.Pattern) (int, []pc.Token[entity], error) {
	eq, err := c.take("'='", tok.EQUALS)
	if err != nil {
		return 0, nil, err
	}
	body, err := c.parse(p.expr)
	if err != nil {
		return 0, nil, err
	}
	def := &cmn.Def{
		Name:     name,
		Patterns: patterns,
		Body:     body.Val.Expr,
		SortKey:  cmn.SortKey{Line: eq.Position.Line, Index: 0},
	}
	out := tokens[0]
	out.Type = "defs"
	out.Val = entity{Original: tokens[0].Val.Original, Defs: []*cmn.Def{def}}
	return c.pos, []pc.Token[entity]{out}, nil
}
