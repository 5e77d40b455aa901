// Package labels resolves human-readable labels for controlled-vocabulary
// URIs found in harvested packages and writes them to the translation store.
package labels

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/c360studio/semstreams/pkg/retry"

	"github.com/c360studio/fdpharvest/fdp"
	"github.com/c360studio/fdpharvest/rdfgraph"
)

// SourceKind identifies where the labels of a URI are fetched from.
type SourceKind int

const (
	SourceGeneric SourceKind = iota
	SourceWikidata
	SourceBioOntology
)

func (k SourceKind) String() string {
	switch k {
	case SourceWikidata:
		return "wikidata"
	case SourceBioOntology:
		return "bioontology"
	default:
		return "generic"
	}
}

// Classify picks the label source for uri from its host.
func Classify(uri string) SourceKind {
	u, err := url.Parse(uri)
	if err != nil {
		return SourceGeneric
	}
	host := strings.ToLower(u.Hostname())
	switch {
	case host == "wikidata.org" || strings.HasSuffix(host, ".wikidata.org"):
		return SourceWikidata
	case host == "bioontology.org" || strings.HasSuffix(host, ".bioontology.org"):
		return SourceBioOntology
	default:
		return SourceGeneric
	}
}

// Errors that skip a URI without retrying.
var (
	ErrNoAPIKey      = errors.New("no BioOntology API key configured")
	ErrUnsupportedID = errors.New("cannot derive an entity id from uri")
	ErrNoLabels      = errors.New("no labels found")
)

// Fetcher retrieves remote documents. *fdp.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, url, accept string, header http.Header) (*fdp.FetchResult, error)
}

// Source loads the graph holding the labels of a URI. It returns the
// subject the labels are attached to, which need not equal uri.
type Source interface {
	Load(ctx context.Context, uri string) (*rdfgraph.Graph, rdfgraph.Term, error)
}

// permanent marks err as not worth retrying unless it is a transient
// HTTP status or a transport failure.
func permanent(err error) error {
	var se *fdp.StatusError
	if errors.As(err, &se) && !se.Temporary() {
		return retry.NonRetryable(err)
	}
	return err
}

// contextLoaderProvider is implemented by fetchers that can also load
// remote JSON-LD contexts with their own timeouts.
type contextLoaderProvider interface {
	ContextLoader() *rdfgraph.ContextLoader
}

func parseOptions(fetcher Fetcher) []rdfgraph.ParseOption {
	if p, ok := fetcher.(contextLoaderProvider); ok {
		return []rdfgraph.ParseOption{rdfgraph.WithDocumentLoader(p.ContextLoader())}
	}
	return nil
}
