package labels

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/c360studio/semstreams/pkg/retry"

	"github.com/c360studio/fdpharvest/rdfgraph"
	"github.com/c360studio/fdpharvest/translation"
)

// DefaultLanguages is the allow-list of label languages.
var DefaultLanguages = []string{"en", "nl"}

// ResolverConfig configures a Resolver.
type ResolverConfig struct {
	// Languages is the allow-list of label languages.
	Languages []string

	// DefaultLanguage is assigned to untagged labels.
	DefaultLanguage string

	// BioOntologyAPIKey authenticates BioPortal lookups. Empty skips them.
	BioOntologyAPIKey string

	// WikidataBaseURL and BioOntologyBaseURL override the public endpoints.
	WikidataBaseURL    string
	BioOntologyBaseURL string

	// Retry applies to transient fetch failures.
	Retry retry.Config
}

// DefaultResolverConfig returns the defaults.
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		Languages:       DefaultLanguages,
		DefaultLanguage: DefaultLanguage,
		Retry: retry.Config{
			MaxAttempts:  3,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     5 * time.Second,
			Multiplier:   2.0,
			AddJitter:    true,
		},
	}
}

// Resolver fetches the labels of a URI from the source its host calls for.
// A URI that fails, or that has no label at all, is skip-listed and never
// fetched again through the same store. Labels outside the language
// allow-list are dropped; a URI left without labels is cached as such.
type Resolver struct {
	store   Store
	sources map[SourceKind]Source
	config  ResolverConfig
	logger  *slog.Logger
}

// NewResolver creates a resolver. A nil store gets a default LRUStore.
func NewResolver(fetcher Fetcher, store Store, config ResolverConfig, logger *slog.Logger) *Resolver {
	if store == nil {
		store = NewLRUStore(DefaultMaxLabels, DefaultMaxSkipped)
	}
	if config.DefaultLanguage == "" {
		config.DefaultLanguage = DefaultLanguage
	}
	if len(config.Languages) == 0 {
		config.Languages = DefaultLanguages
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		store: store,
		sources: map[SourceKind]Source{
			SourceGeneric:     NewGenericSource(fetcher),
			SourceWikidata:    NewWikidataSource(fetcher, config.WikidataBaseURL),
			SourceBioOntology: NewBioOntologySource(fetcher, config.BioOntologyBaseURL, config.BioOntologyAPIKey),
		},
		config: config,
		logger: logger,
	}
}

// SetSource replaces the source used for kind.
func (r *Resolver) SetSource(kind SourceKind, src Source) {
	r.sources[kind] = src
}

// Languages returns the language allow-list.
func (r *Resolver) Languages() []string {
	return r.config.Languages
}

// Store returns the label store.
func (r *Resolver) Store() Store {
	return r.store
}

// Resolve returns the translations of uri in the allowed languages. It never
// fails; failures are logged and skip-list the URI.
func (r *Resolver) Resolve(ctx context.Context, uri string) []translation.Translation {
	if r.store.Skipped(uri) {
		return nil
	}
	if labels, ok := r.store.Labels(uri); ok {
		return toTranslations(uri, labels)
	}

	kind := Classify(uri)
	labels, err := r.load(ctx, kind, uri)
	if err != nil {
		if ctx.Err() != nil {
			// Cancellation says nothing about the URI.
			return nil
		}
		r.logger.Info("Could not resolve labels", "uri", uri, "source", kind.String(), "error", err)
		r.store.Skip(uri)
		return nil
	}

	r.store.Put(uri, labels)
	return toTranslations(uri, labels)
}

func (r *Resolver) load(ctx context.Context, kind SourceKind, uri string) (map[string]string, error) {
	src, ok := r.sources[kind]
	if !ok {
		return nil, fmt.Errorf("no source for %s", kind)
	}

	var (
		g       *rdfgraph.Graph
		subject rdfgraph.Term
	)
	err := retry.Do(ctx, r.config.Retry, func() error {
		var err error
		g, subject, err = src.Load(ctx, uri)
		return err
	})
	if err != nil {
		return nil, err
	}

	labels := ExtractLabels(g, subject, r.config.DefaultLanguage, r.config.Languages)
	if len(labels) == 0 && len(ExtractLabels(g, subject, r.config.DefaultLanguage, nil)) == 0 {
		return nil, ErrNoLabels
	}
	return labels, nil
}
