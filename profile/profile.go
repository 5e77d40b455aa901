package profile

import (
	"errors"
	"log/slog"

	"github.com/c360studio/fdpharvest/rdfgraph"
	"github.com/c360studio/fdpharvest/vocabulary/fdp"
)

// DefaultLanguage is used for untagged literals and preferred when a
// property carries several languages.
const DefaultLanguage = "en"

// ErrNoSubject is returned when asked to map a zero or literal subject.
var ErrNoSubject = errors.New("subject must be an IRI or blank node")

// Package is a catalog package dictionary. Scalar and list fields sit at the
// top level; "resources" holds []map[string]any, and each resource may hold
// "access_services" as []map[string]any.
type Package map[string]any

// SeriesMapping maps dataset series URIs to the package ids they were
// stored under. It fills in_series.
type SeriesMapping map[string]string

// Profile maps graph subjects to packages.
type Profile struct {
	config      Config
	defaultLang string
	markdown    *Markdown
	logger      *slog.Logger
}

// Option configures a Profile.
type Option func(*Profile)

// WithDefaultLanguage sets the language assumed for untagged literals.
func WithDefaultLanguage(lang string) Option {
	return func(p *Profile) {
		if lang != "" {
			p.defaultLang = lang
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Profile) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New returns the profile registered under name.
func New(name string, opts ...Option) (*Profile, error) {
	cfg, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	p := &Profile{
		config:      cfg,
		defaultLang: DefaultLanguage,
		markdown:    NewMarkdown(),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Config returns the profile configuration.
func (p *Profile) Config() Config {
	return p.config
}

// ParseDataset maps a dcat:Dataset or dcat:DatasetSeries subject.
func (p *Profile) ParseDataset(g *rdfgraph.Graph, subject rdfgraph.Term, series SeriesMapping) (Package, error) {
	if g == nil || !(subject.IsIRI() || subject.IsBlank()) {
		return nil, ErrNoSubject
	}
	r := reader{g: g, lang: p.defaultLang}
	pkg, order := p.parseCommon(r, subject)
	p.parseDatasetFields(r, subject, pkg)
	if p.config.IncludeDCATAP3 {
		p.parseDCATAP3(r, subject, pkg, series)
	}
	if p.config.IncludeHealth {
		p.parseHealth(r, subject, pkg)
	}
	pkg["resources"] = p.parseResources(r, subject)
	p.postProcess(pkg, order)
	return pkg, nil
}

// ParseCatalog maps a dcat:Catalog subject. Catalogs carry the descriptive
// fields of a dataset but no distributions.
func (p *Profile) ParseCatalog(g *rdfgraph.Graph, subject rdfgraph.Term) (Package, error) {
	if g == nil || !(subject.IsIRI() || subject.IsBlank()) {
		return nil, ErrNoSubject
	}
	r := reader{g: g, lang: p.defaultLang}
	pkg, order := p.parseCommon(r, subject)
	if homepage := r.value(subject, fdp.FOAFHomepage); homepage != "" {
		pkg["url"] = homepage
	}
	if p.config.IncludeDCATAP3 {
		p.parseDCATAP3(r, subject, pkg, nil)
	}
	pkg["resources"] = []map[string]any{}
	p.postProcess(pkg, order)
	return pkg, nil
}
