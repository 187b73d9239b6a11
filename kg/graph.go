package kg

import (
	"sort"
	"strings"
)

// Namespace binds a prefix to an IRI stem. The empty prefix is the
// default (":") namespace.
type Namespace struct {
	Prefix string
	IRI    string
}

// Graph is a duplicate-free set of triples plus an ordered namespace
// table. The namespace table is used only for display and
// serialization; it never affects triple equality or query results.
//
// Graph is not safe for concurrent mutation. Callers that share a
// graph across goroutines must synchronize externally.
type Graph struct {
	triples map[Triple]struct{}
	order   []Triple
	ns      []Namespace
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{triples: make(map[Triple]struct{})}
}

// Add inserts a triple. It returns true if the triple was not already
// present.
func (g *Graph) Add(t Triple) bool {
	if _, ok := g.triples[t]; ok {
		return false
	}
	g.triples[t] = struct{}{}
	g.order = append(g.order, t)
	return true
}

// Has reports whether the triple is in the graph.
func (g *Graph) Has(t Triple) bool {
	_, ok := g.triples[t]
	return ok
}

// Len returns the number of distinct triples.
func (g *Graph) Len() int { return len(g.triples) }

// Triples returns the triples in insertion order. The slice is a copy;
// mutating it does not affect the graph.
func (g *Graph) Triples() []Triple {
	out := make([]Triple, len(g.order))
	copy(out, g.order)
	return out
}

// Bind associates a prefix with an IRI stem. Rebinding an existing
// prefix replaces its stem in place, preserving table order.
func (g *Graph) Bind(prefix, iri string) {
	for i := range g.ns {
		if g.ns[i].Prefix == prefix {
			g.ns[i].IRI = iri
			return
		}
	}
	g.ns = append(g.ns, Namespace{Prefix: prefix, IRI: iri})
}

// Namespaces returns the namespace table in binding order.
func (g *Graph) Namespaces() []Namespace {
	out := make([]Namespace, len(g.ns))
	copy(out, g.ns)
	return out
}

// PrefixMap returns the namespace table as a prefix-to-stem map.
func (g *Graph) PrefixMap() map[string]string {
	m := make(map[string]string, len(g.ns))
	for _, n := range g.ns {
		m[n.Prefix] = n.IRI
	}
	return m
}

// QName shortens an IRI to prefix:local form using the
// longest-matching bound stem. The second return is false when no stem
// matches; callers should then fall back to the absolute IRI.
func (g *Graph) QName(iri string) (string, bool) {
	return QName(g.ns, iri)
}

// QName shortens an IRI against an explicit namespace table using the
// longest-matching stem.
func QName(ns []Namespace, iri string) (string, bool) {
	best := -1
	bestLen := 0
	for i, n := range ns {
		if strings.HasPrefix(iri, n.IRI) && len(n.IRI) > bestLen {
			best = i
			bestLen = len(n.IRI)
		}
	}
	if best < 0 {
		return "", false
	}
	return ns[best].Prefix + ":" + iri[bestLen:], true
}

// ExpandQName resolves prefix:local against the namespace table. The
// second return is false when the prefix is unbound.
func (g *Graph) ExpandQName(prefix, local string) (string, bool) {
	for _, n := range g.ns {
		if n.Prefix == prefix {
			return n.IRI + local, true
		}
	}
	return "", false
}

// Clone returns an independent copy of the graph, namespace table
// included.
func (g *Graph) Clone() *Graph {
	c := NewGraph()
	for _, t := range g.order {
		c.Add(t)
	}
	c.ns = append(c.ns, g.ns...)
	return c
}

// Union returns a new graph containing the triples of both graphs.
// Namespace bindings come from g first, then from other for prefixes g
// does not bind. Neither input is modified.
func (g *Graph) Union(other *Graph) *Graph {
	u := g.Clone()
	for _, t := range other.order {
		u.Add(t)
	}
	for _, n := range other.ns {
		if _, bound := u.ExpandQName(n.Prefix, ""); !bound {
			u.Bind(n.Prefix, n.IRI)
		}
	}
	return u
}

// ContainsAll reports whether every triple of other is also in g.
func (g *Graph) ContainsAll(other *Graph) bool {
	for _, t := range other.order {
		if !g.Has(t) {
			return false
		}
	}
	return true
}

// SortedTriples returns the triples ordered by their string form.
// Useful for deterministic serialization and content hashing.
func (g *Graph) SortedTriples() []Triple {
	out := g.Triples()
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}
