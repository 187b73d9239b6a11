package sparql

import "github.com/kgflow/kgflow/kg"

// Form distinguishes the supported query forms.
type Form int

const (
	FormAsk Form = iota
	FormSelect
)

// PatternTerm is one position of a triple pattern: either a variable
// (Var non-empty) or a concrete term.
type PatternTerm struct {
	Var  string
	Term kg.Term
}

// IsVar reports whether the position is a variable.
func (p PatternTerm) IsVar() bool { return p.Var != "" }

// Pattern is a triple pattern in a basic graph pattern.
type Pattern struct {
	S PatternTerm
	P PatternTerm
	O PatternTerm
}

// OrderKey is one ORDER BY sort key.
type OrderKey struct {
	Var  string
	Desc bool
}

// Query is a parsed SPARQL query.
type Query struct {
	Form     Form
	Text     string
	Prefixes []kg.Namespace

	// Projection, in declared order. Star means SELECT *.
	Vars     []string
	Star     bool
	Distinct bool

	Where   []Pattern
	Filters []Expr
	OrderBy []OrderKey
	Limit   int // -1 when absent
	Offset  int // 0 when absent
}

// Variables returns the effective projection: the declared variables,
// or for SELECT * every variable of the pattern in first-appearance
// order.
func (q *Query) Variables() []string {
	if !q.Star {
		return q.Vars
	}
	seen := make(map[string]bool)
	var vars []string
	add := func(p PatternTerm) {
		if p.IsVar() && !isBlankVar(p.Var) && !seen[p.Var] {
			seen[p.Var] = true
			vars = append(vars, p.Var)
		}
	}
	for _, pat := range q.Where {
		add(pat.S)
		add(pat.P)
		add(pat.O)
	}
	return vars
}

// Blank nodes in a pattern behave as variables that cannot be
// projected. They are tracked internally under a reserved name.
const blankVarPrefix = "_:"

func isBlankVar(name string) bool {
	return len(name) >= 2 && name[:2] == blankVarPrefix
}
