package sparql

import (
	"fmt"
	"strconv"

	"github.com/kgflow/kgflow/kg"
)

// Expr is a FILTER expression. The supported forms are comparisons
// between pattern terms combined with &&, || and !.
type Expr interface {
	eval(b binding) (bool, error)
}

type andExpr struct{ left, right Expr }

func (e andExpr) eval(b binding) (bool, error) {
	l, err := e.left.eval(b)
	if err != nil {
		return false, err
	}
	if !l {
		return false, nil
	}
	return e.right.eval(b)
}

type orExpr struct{ left, right Expr }

func (e orExpr) eval(b binding) (bool, error) {
	l, err := e.left.eval(b)
	if err != nil {
		return false, err
	}
	if l {
		return true, nil
	}
	return e.right.eval(b)
}

type notExpr struct{ inner Expr }

func (e notExpr) eval(b binding) (bool, error) {
	v, err := e.inner.eval(b)
	if err != nil {
		return false, err
	}
	return !v, nil
}

type cmpExpr struct {
	op  string // = != < > <= >=
	lhs PatternTerm
	rhs PatternTerm
}

func (e cmpExpr) eval(b binding) (bool, error) {
	l, ok := resolveOperand(e.lhs, b)
	if !ok {
		return false, nil // unbound operand: filter rejects the row
	}
	r, ok := resolveOperand(e.rhs, b)
	if !ok {
		return false, nil
	}
	cmp, comparable, err := compareTerms(l, r)
	if err != nil {
		return false, err
	}
	switch e.op {
	case "=":
		return comparable && cmp == 0, nil
	case "!=":
		return !comparable || cmp != 0, nil
	case "<":
		return comparable && cmp < 0, nil
	case ">":
		return comparable && cmp > 0, nil
	case "<=":
		return comparable && cmp <= 0, nil
	case ">=":
		return comparable && cmp >= 0, nil
	default:
		return false, fmt.Errorf("unknown comparison operator %q", e.op)
	}
}

func resolveOperand(p PatternTerm, b binding) (kg.Term, bool) {
	if !p.IsVar() {
		return p.Term, true
	}
	t, ok := b[p.Var]
	return t, ok
}

// compareTerms orders two terms. Numeric literals compare by value,
// other terms by kind and canonical string. The second return is false
// when the terms are of incomparable kinds.
func compareTerms(l, r kg.Term) (int, bool, error) {
	ln, lok := numericValue(l)
	rn, rok := numericValue(r)
	if lok && rok {
		switch {
		case ln < rn:
			return -1, true, nil
		case ln > rn:
			return 1, true, nil
		default:
			return 0, true, nil
		}
	}
	if l.Kind() != r.Kind() {
		return 0, false, nil
	}
	ls, rs := canonicalString(l), canonicalString(r)
	switch {
	case ls < rs:
		return -1, true, nil
	case ls > rs:
		return 1, true, nil
	default:
		return 0, true, nil
	}
}

func numericValue(t kg.Term) (float64, bool) {
	lit, ok := t.(kg.Literal)
	if !ok {
		return 0, false
	}
	switch lit.Datatype {
	case kg.XSDInteger, kg.XSDInt, kg.XSDLong, kg.XSDShort, kg.XSDByte,
		kg.XSDNonNegativeInteger, kg.XSDPositiveInteger,
		kg.XSDDecimal, kg.XSDFloat, kg.XSDDouble:
		v, err := strconv.ParseFloat(lit.Lexical, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	case "":
		// Plain numeric lexical forms still compare numerically.
		v, err := strconv.ParseFloat(lit.Lexical, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}

func canonicalString(t kg.Term) string {
	if lit, ok := t.(kg.Literal); ok {
		return lit.Lexical
	}
	return t.String()
}
