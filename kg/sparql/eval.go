package sparql

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/kgflow/kgflow/kg"
)

// binding maps variable names to the terms they are bound to in one
// solution.
type binding map[string]kg.Term

func (b binding) clone() binding {
	c := make(binding, len(b)+1)
	for k, v := range b {
		c[k] = v
	}
	return c
}

// Engine evaluates ASK and SELECT queries against in-memory graphs.
// Both operations are read-only with respect to the graph.
type Engine struct {
	logger *slog.Logger
}

// NewEngine returns an engine logging through the given logger. A nil
// logger falls back to slog.Default().
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// Ask evaluates a boolean ASK query. On an empty graph any query
// requiring at least one matching triple yields false.
func (e *Engine) Ask(g *kg.Graph, query string) (bool, error) {
	q, err := Parse(query)
	if err != nil {
		return false, err
	}
	if q.Form != FormAsk {
		return false, &kg.QueryError{Query: query, Msg: "expected an ASK query"}
	}
	found := false
	err = matchPatterns(g, q.Where, q.Filters, binding{}, func(binding) bool {
		found = true
		return false // one solution is enough
	})
	if err != nil {
		return false, &kg.QueryError{Query: query, Msg: err.Error()}
	}
	e.logger.Debug("ask evaluated", "result", found)
	return found, nil
}

// Select evaluates a SELECT query. Rows are materialized lazily on
// first access; their order is the engine's natural iteration order and
// is only stable when the query specifies ORDER BY.
func (e *Engine) Select(g *kg.Graph, query string) (*Result, error) {
	q, err := Parse(query)
	if err != nil {
		return nil, err
	}
	if q.Form != FormSelect {
		return nil, &kg.QueryError{Query: query, Msg: "expected a SELECT query"}
	}
	return &Result{engine: e, graph: g, query: q, vars: q.Variables()}, nil
}

// Result is the outcome of a SELECT query: the declared variable order
// plus a lazily materialized sequence of binding rows. Iterate with
// Next/Row, or collect everything with Rows.
type Result struct {
	engine *Engine
	graph  *kg.Graph
	query  *Query

	vars     []string
	rows     []binding
	computed bool
	err      error
	pos      int
}

// Vars returns the variable names in the query's declared order.
func (r *Result) Vars() []string {
	out := make([]string, len(r.vars))
	copy(out, r.vars)
	return out
}

// Next advances to the next row. The first call triggers evaluation.
func (r *Result) Next() bool {
	if err := r.materialize(); err != nil {
		return false
	}
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

// Err returns the evaluation error, if any.
func (r *Result) Err() error { return r.err }

// Row returns the current row as a variable-to-term mapping. Variables
// without a binding are absent from the map.
func (r *Result) Row() map[string]kg.Term {
	row := r.rows[r.pos-1]
	out := make(map[string]kg.Term, len(r.vars))
	for _, v := range r.vars {
		if t, ok := row[v]; ok {
			out[v] = t
		}
	}
	return out
}

// Rows materializes and returns all rows.
func (r *Result) Rows() ([]map[string]kg.Term, error) {
	if err := r.materialize(); err != nil {
		return nil, err
	}
	out := make([]map[string]kg.Term, 0, len(r.rows))
	saved := r.pos
	r.pos = 0
	for r.Next() {
		out = append(out, r.Row())
	}
	r.pos = saved
	return out, nil
}

func (r *Result) materialize() error {
	if r.computed {
		return r.err
	}
	r.computed = true

	var solutions []binding
	err := matchPatterns(r.graph, r.query.Where, r.query.Filters, binding{}, func(b binding) bool {
		solutions = append(solutions, b.clone())
		return true
	})
	if err != nil {
		r.err = &kg.QueryError{Query: r.query.Text, Msg: err.Error()}
		return r.err
	}

	if r.query.Distinct {
		solutions = distinct(solutions, r.vars)
	}
	if len(r.query.OrderBy) > 0 {
		orderSolutions(solutions, r.query.OrderBy)
	}
	solutions = slice(solutions, r.query.Offset, r.query.Limit)

	r.rows = solutions
	r.engine.logger.Debug("select evaluated", "rows", len(solutions), "columns", len(r.vars))
	return nil
}

// matchPatterns extends the binding pattern by pattern over the graph,
// invoking emit for every solution that passes all filters. emit
// returning false stops the search.
func matchPatterns(g *kg.Graph, patterns []Pattern, filters []Expr, b binding, emit func(binding) bool) error {
	stopped := false
	var recurse func(i int, b binding) error
	recurse = func(i int, b binding) error {
		if stopped {
			return nil
		}
		if i == len(patterns) {
			for _, f := range filters {
				ok, err := f.eval(b)
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}
			if !emit(b) {
				stopped = true
			}
			return nil
		}
		pat := patterns[i]
		for _, t := range g.Triples() {
			extended, ok := matchTriple(pat, t, b)
			if !ok {
				continue
			}
			if err := recurse(i+1, extended); err != nil {
				return err
			}
			if stopped {
				return nil
			}
		}
		return nil
	}
	return recurse(0, b)
}

// matchTriple matches one triple against a pattern under an existing
// binding, returning the extended binding on success.
func matchTriple(pat Pattern, t kg.Triple, b binding) (binding, bool) {
	ext := b
	grown := false
	bind := func(p PatternTerm, actual kg.Term) bool {
		if !p.IsVar() {
			return p.Term == actual
		}
		if bound, ok := ext[p.Var]; ok {
			return bound == actual
		}
		if !grown {
			ext = ext.clone()
			grown = true
		}
		ext[p.Var] = actual
		return true
	}
	if !bind(pat.S, t.S) {
		return nil, false
	}
	if !bind(pat.P, t.P) {
		return nil, false
	}
	if !bind(pat.O, t.O) {
		return nil, false
	}
	return ext, true
}

// distinct removes rows whose projected values repeat.
func distinct(solutions []binding, vars []string) []binding {
	seen := make(map[string]bool, len(solutions))
	out := solutions[:0]
	for _, b := range solutions {
		var sb strings.Builder
		for _, v := range vars {
			if t, ok := b[v]; ok {
				sb.WriteString(t.String())
			}
			sb.WriteByte('\x00')
		}
		key := sb.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, b)
	}
	return out
}

func orderSolutions(solutions []binding, keys []OrderKey) {
	sort.SliceStable(solutions, func(i, j int) bool {
		for _, k := range keys {
			li, iok := solutions[i][k.Var]
			lj, jok := solutions[j][k.Var]
			if !iok || !jok {
				if iok == jok {
					continue
				}
				// Unbound sorts first.
				if k.Desc {
					return iok
				}
				return !iok
			}
			cmp, comparable, err := compareTerms(li, lj)
			if err != nil || !comparable {
				cmp = strings.Compare(li.String(), lj.String())
			}
			if cmp == 0 {
				continue
			}
			if k.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

func slice(solutions []binding, offset, limit int) []binding {
	if offset > 0 {
		if offset >= len(solutions) {
			return nil
		}
		solutions = solutions[offset:]
	}
	if limit >= 0 && limit < len(solutions) {
		solutions = solutions[:limit]
	}
	return solutions
}
