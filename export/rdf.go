// Package export provides the RDF building blocks used to serialize the board
// game graph: namespace prefixes, object terms, per-subject records and the
// Turtle / N-Triples writers that emit them.
package export

import (
	"fmt"
)

// Standard namespace IRIs shared by every document the tool writes.
const (
	NamespaceRDF  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NamespaceRDFS = "http://www.w3.org/2000/01/rdf-schema#"
	NamespaceXSD  = "http://www.w3.org/2001/XMLSchema#"
	NamespaceOWL  = "http://www.w3.org/2002/07/owl#"
)

// Prefix binds a short name to a namespace IRI.
type Prefix struct {
	Name string
	IRI  string
}

// Declaration returns the Turtle @prefix line for p, without a newline.
func (p Prefix) Declaration() string {
	return fmt.Sprintf("@prefix %s: <%s> .", p.Name, p.IRI)
}

// PrefixGroup is a run of prefix declarations written without blank lines
// between them. Consecutive groups are separated by one blank line.
type PrefixGroup []Prefix

// PrologueLines renders the groups as document lines. Groups are separated by
// an empty line and the prologue always ends with one, so the result can be
// written line by line with a trailing newline each.
func PrologueLines(groups ...PrefixGroup) []string {
	var lines []string
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		for _, p := range g {
			lines = append(lines, p.Declaration())
		}
		lines = append(lines, "")
	}
	return lines
}

// prefixIndex resolves prefix names to namespace IRIs.
type prefixIndex map[string]string

func newPrefixIndex(groups []PrefixGroup) prefixIndex {
	idx := prefixIndex{
		"rdf":  NamespaceRDF,
		"rdfs": NamespaceRDFS,
		"xsd":  NamespaceXSD,
		"owl":  NamespaceOWL,
	}
	for _, g := range groups {
		for _, p := range g {
			idx[p.Name] = p.IRI
		}
	}
	return idx
}

// Term is an already-serialized Turtle object: a prefixed name
// ("agent:Klaus_Teuber"), an IRI reference ("<https://...>") or a literal
// ("\"4\"^^xsd:integer").
type Term string

// Ref builds a prefixed-name term.
func Ref(prefix, local string) Term {
	return Term(prefix + ":" + local)
}

// IRIRef builds a full IRI reference term.
func IRIRef(iri string) Term {
	return Term("<" + iri + ">")
}

// Record collects the predicate/object pairs for one subject. Predicates keep
// their first-insertion order and objects keep their append order; the
// writers decide the emission order.
//
// A Record is built for one entity and discarded after it is written.
type Record struct {
	keys   []string
	values map[string][]Term
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string][]Term)}
}

// Add appends obj to the object list of predicate. Adding to an existing
// predicate extends its list.
func (r *Record) Add(predicate string, obj Term) {
	if _, ok := r.values[predicate]; !ok {
		r.keys = append(r.keys, predicate)
	}
	r.values[predicate] = append(r.values[predicate], obj)
}

// Values returns the objects stored for predicate in insertion order.
func (r *Record) Values(predicate string) []Term {
	return r.values[predicate]
}

// Predicates returns the predicates in first-insertion order.
func (r *Record) Predicates() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of distinct predicates.
func (r *Record) Len() int {
	return len(r.keys)
}

// Ordered returns the predicates of r that appear in order, following order.
// Predicates missing from order are left out.
func (r *Record) Ordered(order []string) []string {
	out := make([]string, 0, len(r.keys))
	for _, p := range order {
		if len(r.values[p]) > 0 {
			out = append(out, p)
		}
	}
	return out
}
