package expr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/predicate"
)

type node interface {
	eval(scope predicate.Scope) (bool, error)
}

type orNode struct{ left, right node }

func (n orNode) eval(scope predicate.Scope) (bool, error) {
	ok, err := n.left.eval(scope)
	if err != nil || ok {
		return ok, err
	}
	return n.right.eval(scope)
}

type andNode struct{ left, right node }

func (n andNode) eval(scope predicate.Scope) (bool, error) {
	ok, err := n.left.eval(scope)
	if err != nil || !ok {
		return false, err
	}
	return n.right.eval(scope)
}

type notNode struct{ inner node }

func (n notNode) eval(scope predicate.Scope) (bool, error) {
	ok, err := n.inner.eval(scope)
	return !ok, err
}

type truthyNode struct{ name string }

func (n truthyNode) eval(scope predicate.Scope) (bool, error) {
	value, ok := resolve(scope, n.name)
	return ok && truthy(value), nil
}

type literal struct {
	kind tokenKind
	text string
}

type compareNode struct {
	name string
	op   tokenKind
	lit  literal
}

func (n compareNode) eval(scope predicate.Scope) (bool, error) {
	value, _ := resolve(scope, n.name)

	switch n.lit.kind {
	case tokNull:
		switch n.op {
		case tokEq:
			return value == nil, nil
		case tokNeq:
			return value != nil, nil
		}
	case tokBool:
		want := n.lit.text == "true"
		got := truthy(value)
		if b, ok := value.(bool); ok {
			got = b
		} else if s, ok := value.(string); ok {
			if parsed, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
				got = parsed
			}
		}
		switch n.op {
		case tokEq:
			return got == want, nil
		case tokNeq:
			return got != want, nil
		}
	case tokNumber:
		want, err := strconv.ParseFloat(n.lit.text, 64)
		if err != nil {
			return false, fmt.Errorf("predicate/expr: invalid number %q", n.lit.text)
		}
		got, ok := number(value)
		if !ok {
			// Missing or non numeric values only satisfy inequality.
			return n.op == tokNeq, nil
		}
		return compareOrdered(got, want, n.op), nil
	case tokString:
		got := text(value)
		return compareOrdered(strings.Compare(got, n.lit.text), 0, n.op), nil
	}
	return false, fmt.Errorf("predicate/expr: operator %s not supported for %s", opText(n.op), kindText(n.lit.kind))
}

func compareOrdered[T int | float64](got, want T, op tokenKind) bool {
	switch op {
	case tokEq:
		return got == want
	case tokNeq:
		return got != want
	case tokLt:
		return got < want
	case tokLte:
		return got <= want
	case tokGt:
		return got > want
	case tokGte:
		return got >= want
	default:
		return false
	}
}

func opText(op tokenKind) string {
	switch op {
	case tokEq:
		return "=="
	case tokNeq:
		return "!="
	case tokLt:
		return "<"
	case tokLte:
		return "<="
	case tokGt:
		return ">"
	case tokGte:
		return ">="
	default:
		return "?"
	}
}

func kindText(kind tokenKind) string {
	switch kind {
	case tokNull:
		return "null"
	case tokBool:
		return "bool"
	case tokNumber:
		return "number"
	default:
		return "string"
	}
}
