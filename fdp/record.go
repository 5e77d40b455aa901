package fdp

import (
	"errors"

	"github.com/c360studio/fdpharvest/rdfgraph"
	"github.com/c360studio/fdpharvest/vocabulary/fdp"
)

// ErrNilGraph is returned when a node is mapped without a graph.
var ErrNilGraph = errors.New("rdf graph cannot be nil")

// Record is a node discovered during a crawl. Its classification is derived
// from Graph on every call.
type Record struct {
	URL      string
	Graph    *rdfgraph.Graph
	children []string
	seen     map[string]struct{}
}

// Children returns the containment targets of the node in discovery order.
func (r *Record) Children() []string {
	return r.children
}

// AddChild records a containment target. Duplicates are ignored.
func (r *Record) AddChild(url string) {
	if r.seen == nil {
		r.seen = make(map[string]struct{})
	}
	if _, ok := r.seen[url]; ok {
		return
	}
	r.seen[url] = struct{}{}
	r.children = append(r.children, url)
}

// IsCatalog reports whether the node is typed dcat:Catalog.
func (r *Record) IsCatalog() bool { return r.isA(fdp.ClassCatalog) }

// IsDataset reports whether the node is typed dcat:Dataset.
func (r *Record) IsDataset() bool { return r.isA(fdp.ClassDataset) }

// IsDataSeries reports whether the node is typed dcat:DatasetSeries.
func (r *Record) IsDataSeries() bool { return r.isA(fdp.ClassDatasetSeries) }

func (r *Record) isA(class string) bool {
	return r.Graph.Has(rdfgraph.IRI(r.URL), rdfgraph.IRI(fdp.RDFType), rdfgraph.IRI(class))
}

// MapGraph wraps the graph fetched for url in a Record, collecting every
// ldp:contains IRI as a child.
func MapGraph(url string, g *rdfgraph.Graph) (*Record, error) {
	if g == nil {
		return nil, ErrNilGraph
	}

	rec := &Record{URL: url, Graph: g}
	for _, t := range g.Triples(rdfgraph.Term{}, rdfgraph.IRI(fdp.LDPContains), rdfgraph.Term{}) {
		if t.O.IsIRI() {
			rec.AddChild(t.O.Value)
		}
	}
	return rec, nil
}
