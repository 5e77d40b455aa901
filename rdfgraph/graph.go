package rdfgraph

import (
	"sort"

	"github.com/c360studio/fdpharvest/vocabulary/fdp"
)

// Graph is an in-memory set of triples. Iteration follows insertion order,
// so output built from a graph is deterministic. Patterns with a bound
// subject only visit that subject's triples. A Graph is not safe for
// concurrent mutation.
type Graph struct {
	triples  map[Triple]uint64
	subjects map[Term]map[Triple]uint64
	seq      uint64
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		triples:  make(map[Triple]uint64),
		subjects: make(map[Term]map[Triple]uint64),
	}
}

// Len returns the number of triples. A nil graph has none.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.triples)
}

// Add inserts a triple. Adding an existing triple is a no-op.
func (g *Graph) Add(s, p, o Term) {
	t := Triple{S: s, P: p, O: o}
	if _, ok := g.triples[t]; ok {
		return
	}
	g.seq++
	g.triples[t] = g.seq
	bucket, ok := g.subjects[s]
	if !ok {
		bucket = make(map[Triple]uint64)
		g.subjects[s] = bucket
	}
	bucket[t] = g.seq
}

// candidates returns the triples a pattern with subject s can match.
func (g *Graph) candidates(s Term) map[Triple]uint64 {
	if s.IsZero() {
		return g.triples
	}
	return g.subjects[s]
}

// AddTriple inserts t.
func (g *Graph) AddTriple(t Triple) {
	g.Add(t.S, t.P, t.O)
}

// Has reports whether the graph contains a triple matching the pattern.
func (g *Graph) Has(s, p, o Term) bool {
	if g == nil {
		return false
	}
	if !s.IsZero() && !p.IsZero() && !o.IsZero() {
		_, ok := g.triples[Triple{S: s, P: p, O: o}]
		return ok
	}
	for t := range g.candidates(s) {
		if t.P.matches(p) && t.O.matches(o) {
			return true
		}
	}
	return false
}

// Triples returns the triples matching the pattern in insertion order. The
// zero Term matches anything.
func (g *Graph) Triples(s, p, o Term) []Triple {
	if g == nil {
		return nil
	}
	type entry struct {
		t   Triple
		seq uint64
	}
	var found []entry
	for t, seq := range g.candidates(s) {
		if t.P.matches(p) && t.O.matches(o) {
			found = append(found, entry{t, seq})
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].seq < found[j].seq })

	out := make([]Triple, len(found))
	for i, e := range found {
		out[i] = e.t
	}
	return out
}

// All returns every triple in insertion order.
func (g *Graph) All() []Triple {
	return g.Triples(Term{}, Term{}, Term{})
}

// Remove deletes every triple matching the pattern and returns how many
// were removed.
func (g *Graph) Remove(s, p, o Term) int {
	if g == nil {
		return 0
	}
	var doomed []Triple
	for t := range g.candidates(s) {
		if t.P.matches(p) && t.O.matches(o) {
			doomed = append(doomed, t)
		}
	}
	for _, t := range doomed {
		delete(g.triples, t)
		bucket := g.subjects[t.S]
		delete(bucket, t)
		if len(bucket) == 0 {
			delete(g.subjects, t.S)
		}
	}
	return len(doomed)
}

// Objects returns the objects of (s, p, *) in insertion order.
func (g *Graph) Objects(s, p Term) []Term {
	ts := g.Triples(s, p, Term{})
	out := make([]Term, len(ts))
	for i, t := range ts {
		out[i] = t.O
	}
	return out
}

// Object returns the first object of (s, p, *).
func (g *Graph) Object(s, p Term) (Term, bool) {
	objs := g.Objects(s, p)
	if len(objs) == 0 {
		return Term{}, false
	}
	return objs[0], true
}

// Subjects returns the distinct subjects of (*, p, o) in insertion order.
func (g *Graph) Subjects(p, o Term) []Term {
	return distinct(g.Triples(Term{}, p, o), func(t Triple) Term { return t.S })
}

// SubjectsOfType returns the distinct subjects typed with class.
func (g *Graph) SubjectsOfType(class string) []Term {
	return g.Subjects(IRI(fdp.RDFType), IRI(class))
}

// Predicates returns the distinct predicates used on s.
func (g *Graph) Predicates(s Term) []Term {
	return distinct(g.Triples(s, Term{}, Term{}), func(t Triple) Term { return t.P })
}

// Merge adds every triple of other to g.
func (g *Graph) Merge(other *Graph) {
	for _, t := range other.All() {
		g.AddTriple(t)
	}
}

// Clone returns a copy of g that preserves its ordering.
func (g *Graph) Clone() *Graph {
	c := New()
	c.Merge(g)
	return c
}

func distinct(ts []Triple, pick func(Triple) Term) []Term {
	seen := make(map[Term]struct{}, len(ts))
	var out []Term
	for _, t := range ts {
		term := pick(t)
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}
	return out
}
