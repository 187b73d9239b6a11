package turtle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kgflow/kgflow/kg"
)

const sampleDoc = `@prefix ex: <http://example.org/> .
@prefix voc: <http://example.org/vocab/> .

ex:house1 voc:color "red" .
ex:house1 voc:position "1"^^<http://www.w3.org/2001/XMLSchema#integer> .
ex:house2 voc:color "blue" .
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadParsesTriplesAndPrefixes(t *testing.T) {
	store := NewStore(nil)
	g, err := store.Read(writeFile(t, "sample.ttl", sampleDoc))
	require.NoError(t, err)

	assert.Equal(t, 3, g.Len())
	assert.True(t, g.Has(kg.Triple{
		S: kg.IRI{Value: "http://example.org/house1"},
		P: kg.IRI{Value: "http://example.org/vocab/color"},
		O: kg.Literal{Lexical: "red"},
	}))
	assert.True(t, g.Has(kg.Triple{
		S: kg.IRI{Value: "http://example.org/house1"},
		P: kg.IRI{Value: "http://example.org/vocab/position"},
		O: kg.Literal{Lexical: "1", Datatype: kg.XSDInteger},
	}))

	qn, ok := g.QName("http://example.org/vocab/color")
	assert.True(t, ok)
	assert.Equal(t, "voc:color", qn)
}

func TestReadMissingFile(t *testing.T) {
	store := NewStore(nil)
	_, err := store.Read(filepath.Join(t.TempDir(), "nope.ttl"))
	var nf *kg.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestReadMalformedTurtle(t *testing.T) {
	store := NewStore(nil)
	_, err := store.Read(writeFile(t, "bad.ttl", "this is not turtle <<<"))
	var pe *kg.ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestReadEmptyFile(t *testing.T) {
	store := NewStore(nil)
	g, err := store.Read(writeFile(t, "empty.ttl", ""))
	require.NoError(t, err)
	assert.Equal(t, 0, g.Len())
}

func TestRoundTripPreservesTripleSet(t *testing.T) {
	store := NewStore(nil)
	g, err := store.Read(writeFile(t, "sample.ttl", sampleDoc))
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "out.ttl")
	require.NoError(t, store.Write(g, out, WriteOptions{}))

	g2, err := store.Read(out)
	require.NoError(t, err)
	assert.Equal(t, g.Len(), g2.Len())
	assert.True(t, g2.ContainsAll(g))
	assert.True(t, g.ContainsAll(g2))
}

func TestWriteDefaultNamespaceDoesNotMutateGraph(t *testing.T) {
	store := NewStore(nil)
	g, err := store.Read(writeFile(t, "sample.ttl", sampleDoc))
	require.NoError(t, err)
	before := len(g.Namespaces())

	out := filepath.Join(t.TempDir(), "out.ttl")
	require.NoError(t, store.Write(g, out, WriteOptions{DefaultNamespace: "http://example.org/"}))

	assert.Len(t, g.Namespaces(), before)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "@prefix : <http://example.org/>")
}

func TestWriteToUnwritablePathFails(t *testing.T) {
	store := NewStore(nil)
	g := kg.NewGraph()
	err := store.Write(g, filepath.Join(t.TempDir(), "missing-dir", "out.ttl"), WriteOptions{})
	var we *kg.WriteError
	assert.ErrorAs(t, err, &we)
}

func TestScanPrefixes(t *testing.T) {
	doc := "@prefix ex: <http://ex/> .\nPREFIX voc: <http://voc/>\n@prefix : <http://default/> .\n"
	ns := scanPrefixes([]byte(doc))
	assert.Equal(t, []kg.Namespace{
		{Prefix: "ex", IRI: "http://ex/"},
		{Prefix: "voc", IRI: "http://voc/"},
		{Prefix: "", IRI: "http://default/"},
	}, ns)
}
