// Package results converts raw query bindings into a normalized
// tabular form: prefixed IRIs, native-typed literal values, stable
// blank node labels, and nil for unbound variables.
package results

import (
	"fmt"
	"strconv"
	"time"

	"github.com/kgflow/kgflow/kg"
	"github.com/kgflow/kgflow/kg/sparql"
)

// Table is a normalized query result. Columns follow the query's
// declared variable order; each cell is a string, int64, float64, bool,
// time.Time, or nil for an unbound variable.
type Table struct {
	Columns []string
	Rows    [][]any
}

// Normalize drains a SELECT result into a table, shortening IRIs
// against the given namespace table.
func Normalize(res *sparql.Result, ns []kg.Namespace) (*Table, error) {
	table := &Table{Columns: res.Vars()}
	blanks := make(map[string]string)

	for res.Next() {
		row := res.Row()
		cells := make([]any, len(table.Columns))
		for i, col := range table.Columns {
			term, ok := row[col]
			if !ok {
				continue // unbound stays nil
			}
			cells[i] = normalizeTerm(term, ns, blanks)
		}
		table.Rows = append(table.Rows, cells)
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	return table, nil
}

func normalizeTerm(term kg.Term, ns []kg.Namespace, blanks map[string]string) any {
	switch t := term.(type) {
	case kg.IRI:
		if qn, ok := kg.QName(ns, t.Value); ok {
			return qn
		}
		return t.Value
	case kg.BlankNode:
		// Blank node identifiers are graph-scoped; present a label
		// that is stable and unique within this result set only.
		label, ok := blanks[t.ID]
		if !ok {
			label = fmt.Sprintf("_:b%d", len(blanks))
			blanks[t.ID] = label
		}
		return label
	case kg.Literal:
		return nativeValue(t)
	default:
		return term.String()
	}
}

// nativeValue maps a literal to a Go scalar per its datatype. A value
// whose lexical form does not match its datatype falls back to the
// lexical string rather than failing the whole table.
func nativeValue(lit kg.Literal) any {
	switch lit.Datatype {
	case kg.XSDInteger, kg.XSDInt, kg.XSDLong, kg.XSDShort, kg.XSDByte,
		kg.XSDNonNegativeInteger, kg.XSDPositiveInteger:
		if v, err := strconv.ParseInt(lit.Lexical, 10, 64); err == nil {
			return v
		}
	case kg.XSDDecimal, kg.XSDFloat, kg.XSDDouble:
		if v, err := strconv.ParseFloat(lit.Lexical, 64); err == nil {
			return v
		}
	case kg.XSDBoolean:
		if v, err := strconv.ParseBool(lit.Lexical); err == nil {
			return v
		}
	case kg.XSDDate:
		if v, err := time.Parse("2006-01-02", lit.Lexical); err == nil {
			return v
		}
	case kg.XSDDateTime:
		if v, err := time.Parse(time.RFC3339, lit.Lexical); err == nil {
			return v
		}
	}
	return lit.Lexical
}

// FormatCell renders one cell for textual output. Unbound cells render
// empty.
func FormatCell(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		if v.Equal(v.Truncate(24 * time.Hour)) {
			return v.Format("2006-01-02")
		}
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}
