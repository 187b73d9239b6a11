package sparql

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kgflow/kgflow/kg"
)

func TestParseSelectProjection(t *testing.T) {
	q, err := Parse(`
		PREFIX ex: <http://example.org/>
		SELECT ?s ?color WHERE {
			?s ex:color ?color .
		}`)
	require.NoError(t, err)

	assert.Equal(t, FormSelect, q.Form)
	assert.Equal(t, []string{"s", "color"}, q.Vars)
	require.Len(t, q.Where, 1)
	assert.Equal(t, "s", q.Where[0].S.Var)
	assert.Equal(t, kg.IRI{Value: "http://example.org/color"}, q.Where[0].P.Term)
}

func TestParseSelectStar(t *testing.T) {
	q, err := Parse(`SELECT * WHERE { ?a <http://p> ?b . ?b <http://p> ?c }`)
	require.NoError(t, err)
	assert.True(t, q.Star)
	assert.Equal(t, []string{"a", "b", "c"}, q.Variables())
}

func TestParsePredicateObjectLists(t *testing.T) {
	q, err := Parse(`
		PREFIX ex: <http://ex/>
		SELECT ?h WHERE {
			?h a ex:House ;
			   ex:color "red" ;
			   ex:pet ex:zebra, ex:cat .
		}`)
	require.NoError(t, err)
	require.Len(t, q.Where, 4)
	assert.Equal(t, kg.IRI{Value: kg.RDFType}, q.Where[0].P.Term)
	// Shared subject across the ';' list.
	for _, pat := range q.Where {
		assert.Equal(t, "h", pat.S.Var)
	}
	assert.Equal(t, kg.Literal{Lexical: "red"}, q.Where[1].O.Term)
	assert.Equal(t, kg.IRI{Value: "http://ex/zebra"}, q.Where[2].O.Term)
	assert.Equal(t, kg.IRI{Value: "http://ex/cat"}, q.Where[3].O.Term)
}

func TestParseTypedAndTaggedLiterals(t *testing.T) {
	q, err := Parse(`
		PREFIX xsd: <http://www.w3.org/2001/XMLSchema#>
		SELECT ?s WHERE {
			?s <http://p1> "5"^^xsd:integer .
			?s <http://p2> "hello"@en .
			?s <http://p3> 42 .
			?s <http://p4> true .
		}`)
	require.NoError(t, err)
	require.Len(t, q.Where, 4)
	assert.Equal(t, kg.Literal{Lexical: "5", Datatype: kg.XSDInteger}, q.Where[0].O.Term)
	assert.Equal(t, kg.Literal{Lexical: "hello", Lang: "en"}, q.Where[1].O.Term)
	assert.Equal(t, kg.Literal{Lexical: "42", Datatype: kg.XSDInteger}, q.Where[2].O.Term)
	assert.Equal(t, kg.Literal{Lexical: "true", Datatype: kg.XSDBoolean}, q.Where[3].O.Term)
}

func TestParseAsk(t *testing.T) {
	q, err := Parse(`ASK { <http://s> <http://p> <http://o> }`)
	require.NoError(t, err)
	assert.Equal(t, FormAsk, q.Form)
	require.Len(t, q.Where, 1)
	assert.False(t, q.Where[0].S.IsVar())
}

func TestParseModifiers(t *testing.T) {
	q, err := Parse(`
		SELECT DISTINCT ?v WHERE { ?s <http://p> ?v }
		ORDER BY DESC(?v) LIMIT 10 OFFSET 5`)
	require.NoError(t, err)
	assert.True(t, q.Distinct)
	require.Len(t, q.OrderBy, 1)
	assert.Equal(t, OrderKey{Var: "v", Desc: true}, q.OrderBy[0])
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, 5, q.Offset)
}

func TestParseFilter(t *testing.T) {
	q, err := Parse(`
		SELECT ?v WHERE {
			?s <http://p> ?v .
			FILTER(?v > 3 && ?v != 7)
		}`)
	require.NoError(t, err)
	require.Len(t, q.Filters, 1)
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"unbound prefix":    `SELECT ?s WHERE { ?s ex:p ?o }`,
		"unterminated":      `SELECT ?s WHERE { ?s <http://p> ?o`,
		"no variables":      `SELECT WHERE { ?s <http://p> ?o }`,
		"empty pattern":     `SELECT ?s WHERE { }`,
		"trailing garbage":  `ASK { ?s <http://p> ?o } nonsense`,
		"unsupported form":  `CONSTRUCT { ?s <http://p> ?o } WHERE { ?s <http://p> ?o }`,
		"optional":          `SELECT ?s WHERE { ?s <http://p> ?o . OPTIONAL { ?s <http://q> ?z } }`,
		"literal predicate": `SELECT ?s WHERE { ?s "pred" ?o }`,
	}
	for name, query := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(query)
			var qe *kg.QueryError
			require.ErrorAs(t, err, &qe, "query: %s", query)
			// The error carries the offending query text.
			assert.Equal(t, query, qe.Query)
		})
	}
}

func TestParseComments(t *testing.T) {
	q, err := Parse(strings.Join([]string{
		"# find everything",
		"SELECT ?s ?o WHERE {",
		"  ?s <http://p> ?o . # each statement",
		"}",
	}, "\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"s", "o"}, q.Vars)
}
