package asm

import (
	"fmt"

	"github.com/Urethramancer/m68kasm/expr"
)

// exprParser wraps a lexer with one token of lookahead and builds an
// expr.Expr using a precedence-climbing parse. Binding strength, lowest to
// highest: +/- then */÷/% then | then ^ then & then <</>>, with unary -/~
// binding tighter than everything else. This matches original_source's Pest
// grammar verbatim (its expression rule lists add, mul, ior, xor, and, shift
// in that order under a "precedence climbing, lowest to highest" comment).
type exprParser struct {
	lex  *lexer
	cur  token
	peek error
}

func newExprParser(s string) (*exprParser, error) {
	p := &exprParser{lex: newLexer(s)}
	t, err := p.lex.next()
	if err != nil {
		return nil, err
	}
	p.cur = t
	return p, nil
}

func (p *exprParser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.cur = t
	return nil
}

// parseExpr parses a complete expression and requires the lexer to be
// exhausted afterward (operand parsers split off the expression text
// before calling ParseExpression on it).
func (p *exprParser) parseExpr() (*expr.Expr, error) {
	e, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokEOF {
		return nil, fmt.Errorf("unexpected trailing token %q", p.cur.text)
	}
	return e, nil
}

func (p *exprParser) parseAdditive() (*expr.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokOp && (p.cur.text == "+" || p.cur.text == "-") {
		op := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		if op == "+" {
			left = expr.NewAdd(left, right)
		} else {
			left = expr.NewSub(left, right)
		}
	}
	return left, nil
}

func (p *exprParser) parseMultiplicative() (*expr.Expr, error) {
	left, err := p.parseIor()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokOp && (p.cur.text == "*" || p.cur.text == "/" || p.cur.text == "%") {
		op := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseIor()
		if err != nil {
			return nil, err
		}
		switch op {
		case "*":
			left = expr.NewMul(left, right)
		case "/":
			left = expr.NewDiv(left, right)
		case "%":
			left = expr.NewMod(left, right)
		}
	}
	return left, nil
}

func (p *exprParser) parseIor() (*expr.Expr, error) {
	left, err := p.parseXor()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokOp && p.cur.text == "|" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseXor()
		if err != nil {
			return nil, err
		}
		left = expr.NewIor(left, right)
	}
	return left, nil
}

func (p *exprParser) parseXor() (*expr.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokOp && p.cur.text == "^" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = expr.NewXor(left, right)
	}
	return left, nil
}

func (p *exprParser) parseAnd() (*expr.Expr, error) {
	left, err := p.parseShift()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokOp && p.cur.text == "&" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseShift()
		if err != nil {
			return nil, err
		}
		left = expr.NewAnd(left, right)
	}
	return left, nil
}

func (p *exprParser) parseShift() (*expr.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokOp && (p.cur.text == "<<" || p.cur.text == ">>") {
		op := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if op == "<<" {
			left = expr.NewShl(left, right)
		} else {
			left = expr.NewShr(left, right)
		}
	}
	return left, nil
}

func (p *exprParser) parseUnary() (*expr.Expr, error) {
	if p.cur.kind == tokOp && p.cur.text == "-" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		e, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return expr.NewNeg(e), nil
	}
	if p.cur.kind == tokOp && p.cur.text == "~" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		e, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return expr.NewCpl(e), nil
	}
	return p.parsePrimary()
}

func (p *exprParser) parsePrimary() (*expr.Expr, error) {
	switch p.cur.kind {
	case tokNumber:
		n := p.cur.num
		if err := p.advance(); err != nil {
			return nil, err
		}
		return expr.NewNum(n), nil
	case tokString:
		s := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return expr.NewStr(s), nil
	case tokIdent:
		name := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return expr.NewSym(name), nil
	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		e, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		if p.cur.kind != tokRParen {
			return nil, fmt.Errorf("expected ')', got %q", p.cur.text)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, fmt.Errorf("expected an expression, got %q", p.cur.text)
	}
}

// ParseExpression parses a standalone expression string (used by EQU and by
// any caller that needs bare expression syntax without the surrounding
// operand grammar).
func ParseExpression(s string) (*expr.Expr, error) {
	p, err := newExprParser(s)
	if err != nil {
		return nil, err
	}
	return p.parseExpr()
}
