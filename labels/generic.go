package labels

import (
	"context"
	"errors"
	"fmt"

	"github.com/c360studio/semstreams/pkg/retry"

	"github.com/c360studio/fdpharvest/rdfgraph"
)

// GenericSource dereferences the URI itself with content negotiation.
type GenericSource struct {
	fetcher Fetcher
}

// NewGenericSource creates a generic source.
func NewGenericSource(fetcher Fetcher) *GenericSource {
	return &GenericSource{fetcher: fetcher}
}

// Load implements Source. The body is parsed with the detected format, then
// as RDF/XML, then as Turtle; the first parse that succeeds wins.
func (s *GenericSource) Load(ctx context.Context, uri string) (*rdfgraph.Graph, rdfgraph.Term, error) {
	res, err := s.fetcher.Fetch(ctx, uri, rdfgraph.AcceptAny, nil)
	if err != nil {
		return nil, rdfgraph.Term{}, permanent(err)
	}

	g, err := parseAny(res.Body, res.ContentType, uri, parseOptions(s.fetcher)...)
	if err != nil {
		return nil, rdfgraph.Term{}, retry.NonRetryable(err)
	}
	return g, rdfgraph.IRI(uri), nil
}

func parseAny(body []byte, contentType, base string, opts ...rdfgraph.ParseOption) (*rdfgraph.Graph, error) {
	g, autoErr := rdfgraph.ParseAuto(body, contentType, base, opts...)
	if autoErr == nil {
		return g, nil
	}
	g, xmlErr := rdfgraph.Parse(body, rdfgraph.FormatRDFXML, base)
	if xmlErr == nil {
		return g, nil
	}
	g, ttlErr := rdfgraph.Parse(body, rdfgraph.FormatTurtle, base)
	if ttlErr == nil {
		return g, nil
	}
	return nil, fmt.Errorf("parse %s: %w", base, errors.Join(autoErr, xmlErr, ttlErr))
}
