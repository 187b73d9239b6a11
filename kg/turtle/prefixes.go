package turtle

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/kgflow/kgflow/kg"
)

// scanPrefixes extracts @prefix and SPARQL-style PREFIX directives from
// a Turtle document. It is a line-level scan: directives inside long
// literals are not expected in practice, and a stray match only adds a
// display binding, never a triple.
func scanPrefixes(data []byte) []kg.Namespace {
	var out []kg.Namespace
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		var rest string
		switch {
		case strings.HasPrefix(line, "@prefix"):
			rest = strings.TrimSpace(line[len("@prefix"):])
		case strings.HasPrefix(strings.ToUpper(line), "PREFIX"):
			rest = strings.TrimSpace(line[len("PREFIX"):])
		default:
			continue
		}
		ns, ok := parsePrefixBinding(rest)
		if !ok {
			continue
		}
		out = append(out, ns)
	}
	return out
}

// parsePrefixBinding parses `name: <iri>` with an optional trailing dot.
func parsePrefixBinding(rest string) (kg.Namespace, bool) {
	colon := strings.Index(rest, ":")
	if colon < 0 {
		return kg.Namespace{}, false
	}
	prefix := strings.TrimSpace(rest[:colon])
	rest = strings.TrimSpace(rest[colon+1:])

	open := strings.Index(rest, "<")
	close_ := strings.Index(rest, ">")
	if open != 0 || close_ < 0 {
		return kg.Namespace{}, false
	}
	iri := rest[open+1 : close_]
	if iri == "" {
		return kg.Namespace{}, false
	}
	return kg.Namespace{Prefix: prefix, IRI: iri}, true
}
