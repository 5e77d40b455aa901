package rdfgraph

import (
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/piprate/json-gold/ld"
)

// DefaultContextTimeout bounds a remote JSON-LD context fetch when the
// loader's HTTP client sets no timeout of its own.
const DefaultContextTimeout = 30 * time.Second

// ContextLoader resolves remote JSON-LD contexts over HTTP(S) and caches
// them for its lifetime. Other schemes are refused, so a document cannot
// make the parser read local files.
type ContextLoader struct {
	mu   sync.Mutex
	next *ld.CachingDocumentLoader
}

// NewContextLoader creates a loader fetching with hc. A nil client, or one
// without a timeout, is bounded by DefaultContextTimeout.
func NewContextLoader(hc *http.Client) *ContextLoader {
	switch {
	case hc == nil:
		hc = &http.Client{Timeout: DefaultContextTimeout}
	case hc.Timeout <= 0:
		bounded := *hc
		bounded.Timeout = DefaultContextTimeout
		hc = &bounded
	}
	return &ContextLoader{
		next: ld.NewCachingDocumentLoader(ld.NewDefaultDocumentLoader(hc)),
	}
}

// LoadDocument implements ld.DocumentLoader.
func (l *ContextLoader) LoadDocument(u string) (*ld.RemoteDocument, error) {
	parsed, err := url.Parse(u)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, ld.NewJsonLdError(ld.LoadingDocumentFailed, fmt.Sprintf("context %q is not an http(s) URL", u))
	}

	// The caching loader is not safe for concurrent use.
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.next.LoadDocument(u)
}

var (
	defaultLoaderOnce sync.Once
	defaultLoader     *ContextLoader
)

func sharedContextLoader() *ContextLoader {
	defaultLoaderOnce.Do(func() {
		defaultLoader = NewContextLoader(nil)
	})
	return defaultLoader
}

// ParseOption configures Parse and ParseAuto.
type ParseOption func(*parseOptions)

type parseOptions struct {
	loader ld.DocumentLoader
}

// WithDocumentLoader sets the loader used for remote JSON-LD contexts.
// Without it a shared ContextLoader bounded by DefaultContextTimeout is used.
func WithDocumentLoader(loader ld.DocumentLoader) ParseOption {
	return func(o *parseOptions) { o.loader = loader }
}

func buildParseOptions(opts []ParseOption) parseOptions {
	var o parseOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.loader == nil {
		o.loader = sharedContextLoader()
	}
	return o
}
