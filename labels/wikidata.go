package labels

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/c360studio/semstreams/pkg/retry"

	"github.com/c360studio/fdpharvest/rdfgraph"
	"github.com/c360studio/fdpharvest/vocabulary/fdp"
)

// DefaultWikidataBaseURL hosts the entity data export.
const DefaultWikidataBaseURL = "https://www.wikidata.org"

var wikidataID = regexp.MustCompile(`^[A-Z][0-9]+$`)

// WikidataID extracts the entity id from /entity/{id} and /wiki/{id} URIs.
func WikidataID(uri string) (string, bool) {
	for _, marker := range []string{"/entity/", "/wiki/"} {
		if i := strings.Index(uri, marker); i >= 0 {
			id := strings.Trim(uri[i+len(marker):], "/")
			if wikidataID.MatchString(id) {
				return id, true
			}
		}
	}
	return "", false
}

// WikidataSource loads labels from the Special:EntityData Turtle export.
type WikidataSource struct {
	fetcher Fetcher
	baseURL string
}

// NewWikidataSource creates a source against baseURL, or the public
// Wikidata when empty.
func NewWikidataSource(fetcher Fetcher, baseURL string) *WikidataSource {
	if baseURL == "" {
		baseURL = DefaultWikidataBaseURL
	}
	return &WikidataSource{fetcher: fetcher, baseURL: strings.TrimRight(baseURL, "/")}
}

// Load implements Source. Labels are attached to the canonical entity IRI.
func (s *WikidataSource) Load(ctx context.Context, uri string) (*rdfgraph.Graph, rdfgraph.Term, error) {
	id, ok := WikidataID(uri)
	if !ok {
		return nil, rdfgraph.Term{}, retry.NonRetryable(fmt.Errorf("%w: %s", ErrUnsupportedID, uri))
	}

	res, err := s.fetcher.Fetch(ctx, s.baseURL+"/wiki/Special:EntityData/"+id+".ttl", rdfgraph.AcceptTurtle, nil)
	if err != nil {
		return nil, rdfgraph.Term{}, permanent(err)
	}
	g, err := rdfgraph.Parse(res.Body, rdfgraph.FormatTurtle, "")
	if err != nil {
		return nil, rdfgraph.Term{}, retry.NonRetryable(err)
	}
	return g, rdfgraph.IRI(fdp.WikidataEntityPrefix + id), nil
}
