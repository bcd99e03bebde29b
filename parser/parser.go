package parser

import (
	"fmt"

	pc "github.com/shibukawa/parsercombinator"

	cmn "github.com/mira-lang/mira/parser/parsercommon"
	tok "github.com/mira-lang/mira/tokenizer"
)

// entity is the value carried through the combinators. Original is the
// source token a node started at; at most one payload field is set,
// depending on what the producing parser recognized.
type entity struct {
	Original tok.Token

	Expr    *cmn.LocatedExpr
	Pattern cmn.Pattern
	Defs    []*cmn.Def
	Type    cmn.Type
	Text    string // operator and annotation names
}

// parser holds one parse's state: the indentation reference stack and the
// furthest-failure record used to build the final error message. Parsers
// are built once per parse because the primitives close over this state.
type parser struct {
	pctx *pc.ParseContext[entity]

	// Indentation references. A source token is acceptable when it sits on
	// the reference line or strictly right of the reference column.
	refs []tok.Position

	// Furthest failure seen so far.
	bestOffset int
	bestPos    tok.Position
	expected   []string
	found      string

	// A committed failure that must not be masked by backtracking.
	fatal *cmn.ParseError

	eofPos tok.Position
	fresh  int

	expr        pc.Parser[entity]
	control     pc.Parser[entity]
	term        pc.Parser[entity]
	pattern     pc.Parser[entity]
	patternTerm pc.Parser[entity]
	typeExpr    pc.Parser[entity]
	definition  pc.Parser[entity]
}

func newParser(tokens []tok.Token) *parser {
	p := &parser{
		pctx:       pc.NewParseContext[entity](),
		bestOffset: -1,
		eofPos:     tok.Position{Line: 1, Column: 1},
	}
	if len(tokens) > 0 {
		p.eofPos = tokens[len(tokens)-1].EndPosition()
	}
	p.bestPos = p.eofPos

	p.patternTerm = p.patternTermParser()
	p.pattern = p.patternParser()
	p.typeExpr = p.typeExprParser()
	p.term = p.termParser()
	p.expr = p.exprParser()
	p.definition = p.definitionParser()
	return p
}

func toEntities(tokens []tok.Token) []pc.Token[entity] {
	out := make([]pc.Token[entity], len(tokens))
	for i, t := range tokens {
		out[i] = pc.Token[entity]{
			Type: "source",
			Pos:  &pc.Pos{Line: t.Position.Line, Col: t.Position.Column, Index: t.Position.Offset},
			Val:  entity{Original: t},
			Raw:  t.Value,
		}
	}
	return out
}

// startOf and endOf give the source span of a result token, whether it is
// still a raw source token or a synthesized expression.
func startOf(t pc.Token[entity]) tok.Position {
	if t.Val.Expr != nil && t.Val.Expr.Region != nil {
		return t.Val.Expr.Region.Start
	}
	return t.Val.Original.Position
}

func endOf(t pc.Token[entity]) tok.Position {
	if t.Val.Expr != nil && t.Val.Expr.Region != nil {
		return t.Val.Expr.Region.End
	}
	return t.Val.Original.EndPosition()
}

func exprResult(first pc.Token[entity], e *cmn.LocatedExpr) []pc.Token[entity] {
	first.Type = "expr"
	first.Val = entity{Original: first.Val.Original, Expr: e}
	return []pc.Token[entity]{first}
}

// --- indentation ---

func (p *parser) pushRef(pos tok.Position) {
	p.refs = append(p.refs, pos)
}

func (p *parser) popRef() {
	p.refs = p.refs[:len(p.refs)-1]
}

func (p *parser) inScope(pos tok.Position) bool {
	if len(p.refs) == 0 {
		return true
	}
	ref := p.refs[len(p.refs)-1]
	return pos.Line == ref.Line || pos.Column > ref.Column
}

// withRef parses inner with the indentation reference set to its first
// token, so continuation lines must be indented past it.
func (p *parser) withRef(inner pc.Parser[entity]) pc.Parser[entity] {
	return func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
		if len(tokens) == 0 {
			return 0, nil, p.fail(tokens, "")
		}
		p.pushRef(tokens[0].Val.Original.Position)
		defer p.popRef()
		return inner(pctx, tokens)
	}
}

// alignedBlock parses one or more items whose first tokens share the
// column of the first item. Parsing stops at the first token that leaves
// that column; a malformed aligned item is an error, not a block end.
func (p *parser) alignedBlock(desc string, item pc.Parser[entity]) pc.Parser[entity] {
	return func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
		if len(tokens) == 0 || !p.inScope(tokens[0].Val.Original.Position) {
			return 0, nil, p.fail(tokens, desc)
		}
		col := tokens[0].Val.Original.Position.Column
		var out []pc.Token[entity]
		total := 0
		rest := tokens
		for {
			p.pushRef(rest[0].Val.Original.Position)
			n, items, err := item(pctx, rest)
			p.popRef()
			if err != nil {
				return 0, nil, err
			}
			out = append(out, items...)
			total += n
			rest = rest[n:]
			if len(rest) == 0 || rest[0].Val.Original.Position.Column != col {
				break
			}
		}
		return total, out, nil
	}
}

// --- failure tracking ---

func (p *parser) offsetAt(tokens []pc.Token[entity]) int {
	if len(tokens) == 0 {
		return p.eofPos.Offset
	}
	return tokens[0].Val.Original.Position.Offset
}

// fail records a failed expectation at the head of tokens and returns the
// backtrackable sentinel. The furthest failure wins; ties accumulate.
func (p *parser) fail(tokens []pc.Token[entity], desc string) error {
	pos := p.eofPos
	found := "end of input"
	if len(tokens) > 0 {
		o := tokens[0].Val.Original
		pos = o.Position
		found = describeToken(o)
	}
	if pos.Offset > p.bestOffset {
		p.bestOffset = pos.Offset
		p.bestPos = pos
		p.found = found
		p.expected = p.expected[:0]
	}
	if pos.Offset == p.bestOffset && desc != "" {
		p.expected = append(p.expected, desc)
	}
	return pc.ErrNotMatch
}

// critical records a failure that survives backtracking, like a malformed
// record field, and aborts alternation.
func (p *parser) critical(pos tok.Position, err error) error {
	if p.fatal == nil {
		p.fatal = &cmn.ParseError{Position: pos, Message: err.Error()}
	}
	return pc.ErrCritical
}

// expecting relabels failures that happen right at the start of inner, so
// the message names the construct instead of its first token.
func (p *parser) expecting(desc string, inner pc.Parser[entity]) pc.Parser[entity] {
	return func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
		mark := len(p.expected)
		n, out, err := inner(pctx, tokens)
		if err == nil {
			return n, out, nil
		}
		if p.bestOffset == p.offsetAt(tokens) {
			if mark > len(p.expected) {
				mark = 0
			}
			p.expected = append(p.expected[:mark], desc)
		}
		return n, out, err
	}
}

func (p *parser) parseError() *cmn.ParseError {
	if p.fatal != nil {
		return p.fatal
	}
	return &cmn.ParseError{
		Position: p.bestPos,
		Expected: append([]string(nil), p.expected...),
		Found:    p.found,
	}
}

func describeToken(o tok.Token) string {
	switch o.Type {
	case tok.STRING:
		return "a string literal"
	case tok.CHAR:
		return "a character literal"
	case tok.MARKDOWN:
		return "a markdown literal"
	case tok.RESERVED:
		return fmt.Sprintf("keyword '%s'", o.Value)
	default:
		return "'" + o.Value + "'"
	}
}

// --- primitives ---

// tokenOf accepts one source token of the given types, honoring the
// indentation guard. Out-of-scope tokens end the enclosing construct
// silently instead of recording an expectation.
func (p *parser) tokenOf(desc string, types ...tok.TokenType) pc.Parser[entity] {
	return func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
		if len(tokens) == 0 {
			return 0, nil, p.fail(tokens, desc)
		}
		o := tokens[0].Val.Original
		if !p.inScope(o.Position) {
			return 0, nil, pc.ErrNotMatch
		}
		for _, tt := range types {
			if o.Type == tt {
				return 1, tokens[:1], nil
			}
		}
		return 0, nil, p.fail(tokens, desc)
	}
}

func (p *parser) freshVar() string {
	p.fresh++
	return fmt.Sprintf("_v%d", p.fresh-1)
}

// --- cursor ---

// cursor drives hand-written parsers over the same token slice the
// combinators use, sharing guard and failure bookkeeping.
type cursor struct {
	p      *parser
	pctx   *pc.ParseContext[entity]
	tokens []pc.Token[entity]
	pos    int
}

func (p *parser) cursorAt(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) *cursor {
	return &cursor{p: p, pctx: pctx, tokens: tokens}
}

func (c *cursor) rest() []pc.Token[entity] {
	return c.tokens[c.pos:]
}

// peek returns the next in-scope source token without consuming it.
func (c *cursor) peek() (tok.Token, bool) {
	if c.pos >= len(c.tokens) {
		return tok.Token{}, false
	}
	o := c.tokens[c.pos].Val.Original
	if !c.p.inScope(o.Position) {
		return tok.Token{}, false
	}
	return o, true
}

// peekAt looks k tokens past the cursor.
func (c *cursor) peekAt(k int) (tok.Token, bool) {
	if c.pos+k >= len(c.tokens) {
		return tok.Token{}, false
	}
	o := c.tokens[c.pos+k].Val.Original
	if !c.p.inScope(o.Position) {
		return tok.Token{}, false
	}
	return o, true
}

func (c *cursor) at(tt tok.TokenType) bool {
	o, ok := c.peek()
	return ok && o.Type == tt
}

func (c *cursor) atValue(tt tok.TokenType, value string) bool {
	o, ok := c.peek()
	return ok && o.Type == tt && o.Value == value
}

func (c *cursor) take(desc string, tt tok.TokenType) (tok.Token, error) {
	if !c.at(tt) {
		return tok.Token{}, c.p.fail(c.rest(), desc)
	}
	o := c.tokens[c.pos].Val.Original
	c.pos++
	return o, nil
}

func (c *cursor) takeValue(desc string, tt tok.TokenType, value string) (tok.Token, error) {
	if !c.atValue(tt, value) {
		return tok.Token{}, c.p.fail(c.rest(), desc)
	}
	o := c.tokens[c.pos].Val.Original
	c.pos++
	return o, nil
}

// parse runs a sub-parser at the cursor and consumes what it matched.
func (c *cursor) parse(sub pc.Parser[entity]) (pc.Token[entity], error) {
	n, out, err := sub(c.pctx, c.rest())
	if err != nil {
		return pc.Token[entity]{}, err
	}
	c.pos += n
	return out[0], nil
}
