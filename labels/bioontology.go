package labels

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/c360studio/semstreams/pkg/retry"

	"github.com/c360studio/fdpharvest/rdfgraph"
	"github.com/c360studio/fdpharvest/vocabulary/fdp"
)

// BioOntologySource loads class labels from the BioPortal REST API.
type BioOntologySource struct {
	fetcher Fetcher
	baseURL string
	apiKey  string
}

// NewBioOntologySource creates a source against baseURL, or the public API
// when empty. Without an API key every lookup is skipped.
func NewBioOntologySource(fetcher Fetcher, baseURL, apiKey string) *BioOntologySource {
	if baseURL == "" {
		baseURL = fdp.BioOntologyAPI
	}
	return &BioOntologySource{fetcher: fetcher, baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey}
}

// Ontology returns the ontology acronym of a purl.bioontology.org class URI,
// the path segment following /ontology/.
func Ontology(uri string) (string, bool) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", false
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i < len(parts)-1; i++ {
		if parts[i] == "ontology" && parts[i+1] != "" {
			return parts[i+1], true
		}
	}
	return "", false
}

// Load implements Source.
func (s *BioOntologySource) Load(ctx context.Context, uri string) (*rdfgraph.Graph, rdfgraph.Term, error) {
	if s.apiKey == "" {
		return nil, rdfgraph.Term{}, retry.NonRetryable(ErrNoAPIKey)
	}
	ontology, ok := Ontology(uri)
	if !ok {
		return nil, rdfgraph.Term{}, retry.NonRetryable(fmt.Errorf("%w: %s", ErrUnsupportedID, uri))
	}

	endpoint := s.baseURL + "/ontologies/" + url.PathEscape(ontology) + "/classes/" + url.QueryEscape(uri)
	header := http.Header{}
	header.Set("Authorization", "apikey token="+s.apiKey)

	res, err := s.fetcher.Fetch(ctx, endpoint, "application/ld+json, application/json;q=0.9", header)
	if err != nil {
		return nil, rdfgraph.Term{}, permanent(err)
	}
	g, err := rdfgraph.Parse(res.Body, rdfgraph.FormatJSONLD, endpoint, parseOptions(s.fetcher)...)
	if err != nil {
		return nil, rdfgraph.Term{}, retry.NonRetryable(err)
	}
	return g, rdfgraph.IRI(uri), nil
}
