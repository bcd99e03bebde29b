package parser

import (
	"errors"
	"fmt"

	cmn "github.com/mira-lang/mira/parser/parsercommon"
	tok "github.com/mira-lang/mira/tokenizer"
)

var errNonAssociative = errors.New("ambiguous use of non-associative operators")

// opUse is one "operator, right operand" pair collected by binaryParser.
type opUse struct {
	name string
	pos  tok.Position
	arg  *cmn.LocatedExpr
}

type assoc int

const (
	assocLeft assoc = iota
	assocRight
	assocNone
)

type opInfo struct {
	prec  int
	assoc assoc
}

var opTable = map[string]opInfo{
	"||": {2, assocRight},
	"&&": {3, assocRight},

	"==": {4, assocNone},
	"/=": {4, assocNone},
	"<":  {4, assocNone},
	">":  {4, assocNone},
	"<=": {4, assocNone},
	">=": {4, assocNone},

	"++": {5, assocRight},
	"::": {5, assocRight},

	"+": {6, assocLeft},
	"-": {6, assocLeft},

	"*":   {7, assocLeft},
	"/":   {7, assocLeft},
	"div": {7, assocLeft},
	"mod": {7, assocLeft},
	"rem": {7, assocLeft},

	"^": {8, assocRight},
	".": {9, assocRight},
}

// infoFor defaults unknown operators to the tightest level, left
// associative.
func infoFor(op string) opInfo {
	if info, ok := opTable[op]; ok {
		return info
	}
	return opInfo{9, assocLeft}
}

// resolveOps shapes a flat operand/operator list into a tree by
// precedence climbing. Spans grow outward as operands merge.
func resolveOps(first *cmn.LocatedExpr, uses []opUse) (*cmn.LocatedExpr, error) {
	r := &opResolver{uses: uses}
	out, err := r.climb(first, 0)
	if err != nil {
		return nil, err
	}
	if r.i != len(r.uses) {
		return nil, fmt.Errorf("%w: '%s'", errNonAssociative, r.uses[r.i].name)
	}
	return out, nil
}

type opResolver struct {
	uses []opUse
	i    int
}

func (r *opResolver) climb(lhs *cmn.LocatedExpr, min int) (*cmn.LocatedExpr, error) {
	for r.i < len(r.uses) {
		use := r.uses[r.i]
		info := infoFor(use.name)
		if info.prec < min {
			break
		}
		r.i++
		rhs := use.arg
		for r.i < len(r.uses) {
			next := infoFor(r.uses[r.i].name)
			sameRight := next.prec == info.prec && next.assoc == assocRight && info.assoc == assocRight
			if next.prec <= info.prec && !sameRight {
				break
			}
			nextMin := info.prec + 1
			if sameRight {
				nextMin = info.prec
			}
			var err error
			rhs, err = r.climb(rhs, nextMin)
			if err != nil {
				return nil, err
			}
		}
		if r.i < len(r.uses) {
			next := infoFor(r.uses[r.i].name)
			if next.prec == info.prec && (info.assoc == assocNone || next.assoc == assocNone) {
				return nil, fmt.Errorf("%w: '%s' and '%s'", errNonAssociative, use.name, r.uses[r.i].name)
			}
		}
		lhs = cmn.Merge(lhs, rhs, cmn.Expr(cmn.Binop{Op: use.name, Left: lhs, Right: rhs}))
	}
	return lhs, nil
}
