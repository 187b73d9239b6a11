package kg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func tr(s, p, o string) Triple {
	return Triple{S: IRI{s}, P: IRI{Value: p}, O: IRI{o}}
}

func TestGraphDeduplicates(t *testing.T) {
	g := NewGraph()
	assert.True(t, g.Add(tr("http://ex/a", "http://ex/p", "http://ex/b")))
	assert.False(t, g.Add(tr("http://ex/a", "http://ex/p", "http://ex/b")))
	assert.Equal(t, 1, g.Len())

	// Literals with different datatypes are distinct triples.
	lit1 := Triple{S: IRI{"http://ex/a"}, P: IRI{Value: "http://ex/p"}, O: Literal{Lexical: "1"}}
	lit2 := Triple{S: IRI{"http://ex/a"}, P: IRI{Value: "http://ex/p"}, O: Literal{Lexical: "1", Datatype: XSDInteger}}
	assert.True(t, g.Add(lit1))
	assert.True(t, g.Add(lit2))
	assert.Equal(t, 3, g.Len())
}

func TestGraphQNameLongestMatch(t *testing.T) {
	g := NewGraph()
	g.Bind("ex", "http://example.org/")
	g.Bind("voc", "http://example.org/vocab/")

	qn, ok := g.QName("http://example.org/vocab/color")
	assert.True(t, ok)
	assert.Equal(t, "voc:color", qn)

	qn, ok = g.QName("http://example.org/house1")
	assert.True(t, ok)
	assert.Equal(t, "ex:house1", qn)

	_, ok = g.QName("http://other.org/x")
	assert.False(t, ok)
}

func TestGraphBindReplacesInPlace(t *testing.T) {
	g := NewGraph()
	g.Bind("a", "http://a/")
	g.Bind("b", "http://b/")
	g.Bind("a", "http://a2/")

	ns := g.Namespaces()
	assert.Equal(t, []Namespace{{"a", "http://a2/"}, {"b", "http://b/"}}, ns)
}

func TestGraphCloneIsIndependent(t *testing.T) {
	g := NewGraph()
	g.Add(tr("http://ex/a", "http://ex/p", "http://ex/b"))
	g.Bind("ex", "http://ex/")

	c := g.Clone()
	c.Add(tr("http://ex/c", "http://ex/p", "http://ex/d"))
	c.Bind("x", "http://x/")

	assert.Equal(t, 1, g.Len())
	assert.Equal(t, 2, c.Len())
	assert.Len(t, g.Namespaces(), 1)
}

func TestGraphUnionIsSuperset(t *testing.T) {
	a := NewGraph()
	a.Add(tr("http://ex/a", "http://ex/p", "http://ex/b"))
	b := NewGraph()
	b.Add(tr("http://ex/a", "http://ex/p", "http://ex/b"))
	b.Add(tr("http://ex/c", "http://ex/p", "http://ex/d"))

	u := a.Union(b)
	assert.Equal(t, 2, u.Len())
	assert.True(t, u.ContainsAll(a))
	assert.True(t, u.ContainsAll(b))
	// Inputs untouched.
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 2, b.Len())
}

func TestExpandQName(t *testing.T) {
	g := NewGraph()
	g.Bind("", "http://default/")
	g.Bind("ex", "http://ex/")

	iri, ok := g.ExpandQName("ex", "thing")
	assert.True(t, ok)
	assert.Equal(t, "http://ex/thing", iri)

	iri, ok = g.ExpandQName("", "thing")
	assert.True(t, ok)
	assert.Equal(t, "http://default/thing", iri)

	_, ok = g.ExpandQName("nope", "thing")
	assert.False(t, ok)
}
