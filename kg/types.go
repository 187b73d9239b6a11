package kg

import "fmt"

// TermKind identifies the three RDF term variants.
type TermKind uint8

const (
	// TermIRI is an absolute IRI reference.
	TermIRI TermKind = iota
	// TermBlankNode is an anonymous, graph-scoped node.
	TermBlankNode
	// TermLiteral is a typed or plain text value.
	TermLiteral
)

// Term is a value that can appear in a triple. Exactly three types
// implement it: IRI, BlankNode and Literal. All are comparable value
// types, so terms and triples can be used directly as map keys.
type Term interface {
	Kind() TermKind
	String() string
}

// IRI names a resource or predicate.
type IRI struct {
	Value string
}

// Kind returns TermIRI.
func (i IRI) Kind() TermKind { return TermIRI }

// String returns the IRI in angle brackets.
func (i IRI) String() string { return "<" + i.Value + ">" }

// BlankNode is an anonymous node. The ID is only meaningful within the
// graph that produced it and must not be compared across graphs.
type BlankNode struct {
	ID string
}

// Kind returns TermBlankNode.
func (b BlankNode) Kind() TermKind { return TermBlankNode }

// String returns the node in _:id form.
func (b BlankNode) String() string { return "_:" + b.ID }

// Literal is a lexical value with an optional datatype IRI and an
// optional language tag.
type Literal struct {
	Lexical  string
	Datatype string
	Lang     string
}

// Kind returns TermLiteral.
func (l Literal) Kind() TermKind { return TermLiteral }

// String returns the literal in Turtle-like form.
func (l Literal) String() string {
	if l.Lang != "" {
		return fmt.Sprintf("%q@%s", l.Lexical, l.Lang)
	}
	if l.Datatype != "" {
		return fmt.Sprintf("%q^^<%s>", l.Lexical, l.Datatype)
	}
	return fmt.Sprintf("%q", l.Lexical)
}

// Triple is a subject-predicate-object statement. The predicate
// position is always an IRI.
type Triple struct {
	S Term
	P IRI
	O Term
}

// String returns the triple in N-Triples-like form.
func (t Triple) String() string {
	return t.S.String() + " " + t.P.String() + " " + t.O.String() + " ."
}

// Common XSD datatype IRIs.
const (
	XSDString             = "http://www.w3.org/2001/XMLSchema#string"
	XSDBoolean            = "http://www.w3.org/2001/XMLSchema#boolean"
	XSDInteger            = "http://www.w3.org/2001/XMLSchema#integer"
	XSDInt                = "http://www.w3.org/2001/XMLSchema#int"
	XSDLong               = "http://www.w3.org/2001/XMLSchema#long"
	XSDShort              = "http://www.w3.org/2001/XMLSchema#short"
	XSDByte               = "http://www.w3.org/2001/XMLSchema#byte"
	XSDNonNegativeInteger = "http://www.w3.org/2001/XMLSchema#nonNegativeInteger"
	XSDPositiveInteger    = "http://www.w3.org/2001/XMLSchema#positiveInteger"
	XSDDecimal            = "http://www.w3.org/2001/XMLSchema#decimal"
	XSDFloat              = "http://www.w3.org/2001/XMLSchema#float"
	XSDDouble             = "http://www.w3.org/2001/XMLSchema#double"
	XSDDate               = "http://www.w3.org/2001/XMLSchema#date"
	XSDDateTime           = "http://www.w3.org/2001/XMLSchema#dateTime"
)

// RDFType is the rdf:type predicate, the expansion of the Turtle and
// SPARQL keyword "a".
const RDFType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
