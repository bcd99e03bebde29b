// Package parser turns source text into the located expression tree.
//
// Parsing is indentation sensitive: a construct owns every token on its
// first line plus any token indented past its first column, and the
// items of let, case, and top-level blocks align on a shared column.
package parser

import (
	"errors"

	cmn "github.com/mira-lang/mira/parser/parsercommon"
	tok "github.com/mira-lang/mira/tokenizer"
)

// lexError rewraps a tokenizer failure so it reports like any other parse
// failure, position first.
func lexError(err error) *cmn.ParseError {
	var lerr *tok.Error
	if errors.As(err, &lerr) {
		return &cmn.ParseError{Position: lerr.Position, Message: lerr.Err.Error()}
	}
	return &cmn.ParseError{Position: tok.Position{Line: 1, Column: 1}, Message: err.Error()}
}

// ParseExpression parses source as a single expression. The whole input
// must be consumed.
func ParseExpression(source string) (*cmn.LocatedExpr, error) {
	tokens, err := tok.Tokenize(source)
	if err != nil {
		return nil, lexError(err)
	}
	p := newParser(tokens)
	entities := toEntities(tokens)

	n, out, perr := p.withRef(p.expr)(p.pctx, entities)
	if perr != nil {
		return nil, p.parseError()
	}
	if n != len(entities) {
		p.fail(entities[n:], "end of input")
		return nil, p.parseError()
	}
	return out[0].Val.Expr, nil
}

// ParseDefinitions parses source as a column-aligned block of top-level
// definitions. Annotations attach to the definition of the same name;
// destructuring bindings arrive already expanded.
func ParseDefinitions(source string) ([]cmn.Declaration, error) {
	tokens, err := tok.Tokenize(source)
	if err != nil {
		return nil, lexError(err)
	}
	p := newParser(tokens)
	entities := toEntities(tokens)

	block := p.alignedBlock("the definition of a variable (x = ...)", p.definition)
	n, items, perr := block(p.pctx, entities)
	if perr != nil {
		return nil, p.parseError()
	}
	if n != len(entities) {
		p.fail(entities[n:], "end of input")
		return nil, p.parseError()
	}

	defs := attachAnnotations(items)
	decls := make([]cmn.Declaration, len(defs))
	for i, def := range defs {
		decls[i] = cmn.Declaration{Def: def}
	}
	return decls, nil
}
