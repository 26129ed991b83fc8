package expr

import (
	"errors"
	"fmt"
)

// Grammar:
//
//	or      := and { "||" and }
//	and     := unary { "&&" unary }
//	unary   := "!" unary | primary
//	primary := "(" or ")" | ident [ cmpop literal ]
type parser struct {
	tokens []token
	pos    int
}

func parse(tokens []token) (node, error) {
	p := &parser{tokens: tokens}
	n, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, fmt.Errorf("predicate/expr: unexpected token %q", p.tokens[p.pos].text)
	}
	return n, nil
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) accept(kinds ...tokenKind) (token, bool) {
	tok, ok := p.peek()
	if !ok {
		return token{}, false
	}
	for _, kind := range kinds {
		if tok.kind == kind {
			p.pos++
			return tok, true
		}
	}
	return token{}, false
}

func (p *parser) or() (node, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.accept(tokOr); !ok {
			return left, nil
		}
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		left = orNode{left, right}
	}
}

func (p *parser) and() (node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.accept(tokAnd); !ok {
			return left, nil
		}
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = andNode{left, right}
	}
}

func (p *parser) unary() (node, error) {
	if _, ok := p.accept(tokNot); ok {
		inner, err := p.unary()
		if err != nil {
			return nil, err
		}
		return notNode{inner}, nil
	}
	return p.primary()
}

func (p *parser) primary() (node, error) {
	if _, ok := p.accept(tokLParen); ok {
		inner, err := p.or()
		if err != nil {
			return nil, err
		}
		if _, ok := p.accept(tokRParen); !ok {
			return nil, errors.New("predicate/expr: missing closing ')'")
		}
		return inner, nil
	}

	ident, ok := p.accept(tokIdent)
	if !ok {
		if tok, more := p.peek(); more {
			return nil, fmt.Errorf("predicate/expr: expected identifier, got %q", tok.text)
		}
		return nil, errors.New("predicate/expr: unexpected end of expression")
	}

	op, ok := p.accept(tokEq, tokNeq, tokLt, tokLte, tokGt, tokGte)
	if !ok {
		return truthyNode{name: ident.text}, nil
	}
	lit, ok := p.accept(tokString, tokNumber, tokBool, tokNull, tokIdent)
	if !ok {
		return nil, fmt.Errorf("predicate/expr: missing literal after %q", op.text)
	}
	if lit.kind == tokIdent {
		// Bare words on the right-hand side read as strings.
		lit.kind = tokString
	}
	if (lit.kind == tokNull || lit.kind == tokBool) && op.kind != tokEq && op.kind != tokNeq {
		return nil, fmt.Errorf("predicate/expr: operator %q not supported for %s", op.text, kindText(lit.kind))
	}
	return compareNode{name: ident.text, op: op.kind, lit: literal{kind: lit.kind, text: lit.text}}, nil
}
