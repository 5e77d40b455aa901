package fdp

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/c360studio/fdpharvest/identifier"
	"github.com/c360studio/fdpharvest/rdfgraph"
	"github.com/c360studio/fdpharvest/vocabulary/fdp"
)

const tracerName = "github.com/c360studio/fdpharvest/fdp"

// Source is what the provider needs from a remote FDP. *Client implements it.
type Source interface {
	GetGraph(ctx context.Context, url string) *rdfgraph.Graph
	GetJSON(ctx context.Context, url string, v any) error
}

// ProviderConfig controls the crawl.
type ProviderConfig struct {
	// HarvestCatalogs emits identifiers for catalog nodes too.
	HarvestCatalogs bool

	// ExcludePaths are doublestar patterns matched against URL paths.
	// Matching nodes are neither emitted nor expanded.
	ExcludePaths []string

	// MaxRecords caps the number of nodes fetched during a crawl. Zero
	// means unlimited.
	MaxRecords int
}

// RecordProvider discovers records below an FDP root and assembles the
// merged graph of a single record.
type RecordProvider struct {
	root   string
	source Source
	config ProviderConfig
	logger *slog.Logger
	tracer trace.Tracer
}

// NewRecordProvider creates a provider for the FDP at root.
func NewRecordProvider(root string, source Source, config ProviderConfig, logger *slog.Logger) (*RecordProvider, error) {
	for _, pattern := range config.ExcludePaths {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordProvider{
		root:   root,
		source: source,
		config: config,
		logger: logger,
		tracer: otel.Tracer(tracerName),
	}, nil
}

// Root returns the FDP endpoint the provider crawls.
func (p *RecordProvider) Root() string {
	return p.root
}

// RecordIDs walks the containment hierarchy breadth first and returns one
// identifier per harvestable node, in discovery order. Every URL is fetched
// at most once, so cycles terminate.
func (p *RecordProvider) RecordIDs(ctx context.Context) ([]identifier.Identifier, error) {
	ctx, span := p.tracer.Start(ctx, "fdp.crawl")
	defer span.End()
	span.SetAttributes(attribute.String("fdp.root", p.root))

	p.logger.Debug("FAIR Data Point crawl", "url", p.root)

	var ids []identifier.Identifier
	visited := map[string]struct{}{visitKey(p.root): {}}
	queue := []string{p.root}
	fetched := 0

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "crawl cancelled")
			return ids, err
		}
		if p.config.MaxRecords > 0 && fetched >= p.config.MaxRecords {
			p.logger.Warn("Crawl budget exhausted", "url", p.root, "max_records", p.config.MaxRecords, "pending", len(queue))
			break
		}

		nodeURL := queue[0]
		queue = queue[1:]

		g := p.source.GetGraph(ctx, nodeURL)
		fetched++
		rec, err := MapGraph(nodeURL, g)
		if err != nil {
			err = fmt.Errorf("map %s: %w", nodeURL, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "crawl failed")
			return nil, err
		}

		if id, ok := p.classify(rec); ok {
			ids = append(ids, id)
		}

		for _, child := range rec.Children() {
			key := visitKey(child)
			if _, seen := visited[key]; seen {
				continue
			}
			visited[key] = struct{}{}
			if p.excluded(child) {
				p.logger.Debug("Skipping excluded node", "url", child)
				continue
			}
			queue = append(queue, child)
		}
	}

	span.SetAttributes(
		attribute.Int("fdp.nodes", fetched),
		attribute.Int("fdp.records", len(ids)),
	)
	return ids, nil
}

// visitKey identifies the node behind rawURL: scheme and host are
// case-insensitive, and trailing slashes and fragments are ignored.
func visitKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return strings.TrimRight(rawURL, "/")
	}
	key := strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host) + strings.TrimRight(u.EscapedPath(), "/")
	if u.RawQuery != "" {
		key += "?" + u.RawQuery
	}
	return key
}

func (p *RecordProvider) classify(rec *Record) (identifier.Identifier, bool) {
	switch {
	case rec.IsCatalog():
		if p.config.HarvestCatalogs {
			return identifier.Of(identifier.TypeCatalog, rec.URL), true
		}
	case rec.IsDataSeries():
		return identifier.Of(identifier.TypeDataSeries, rec.URL), true
	case rec.IsDataset():
		return identifier.Of(identifier.TypeDataset, rec.URL), true
	}
	return identifier.Identifier{}, false
}

func (p *RecordProvider) excluded(rawURL string) bool {
	if len(p.config.ExcludePaths) == 0 {
		return false
	}
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		path = u.Path
	}
	for _, pattern := range p.config.ExcludePaths {
		// Patterns were validated in NewRecordProvider.
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

// RecordByID assembles the record identified by id into a single Turtle
// document: FDP defaults are stripped, distributions and their access
// services are folded in, and ORCID contact points become vCards.
func (p *RecordProvider) RecordByID(ctx context.Context, id identifier.Identifier) (string, error) {
	subjectURL, err := id.Value()
	if err != nil {
		return "", err
	}

	ctx, span := p.tracer.Start(ctx, "fdp.assemble")
	defer span.End()
	span.SetAttributes(attribute.String("fdp.guid", id.String()))

	p.logger.Debug("FAIR Data Point record", "url", p.root, "guid", id.String())

	subject := rdfgraph.IRI(subjectURL)
	g := p.source.GetGraph(ctx, subjectURL)
	StripDefaults(g, subject)

	for _, dist := range g.Objects(subject, rdfgraph.IRI(fdp.DCATDistribution)) {
		if !dist.IsIRI() {
			continue
		}
		dg := p.source.GetGraph(ctx, dist.Value)
		StripDefaults(dg, dist)
		mergeDistribution(g, dg, dist)
	}

	for _, cp := range g.Objects(subject, rdfgraph.IRI(fdp.DCATContactPoint)) {
		if cp.IsIRI() && strings.Contains(cp.Value, "orcid") {
			p.contactPointToVCard(ctx, g, subject, cp)
		}
	}

	span.SetAttributes(attribute.Int("fdp.triples", g.Len()))
	return rdfgraph.Turtle(g), nil
}

// mergeDistribution copies every statement about dist from src into dst,
// pulling in the full node of each access service.
func mergeDistribution(dst, src *rdfgraph.Graph, dist rdfgraph.Term) {
	accessService := rdfgraph.IRI(fdp.DCATAccessService)
	for _, t := range src.Triples(dist, rdfgraph.Term{}, rdfgraph.Term{}) {
		dst.AddTriple(t)
		if t.P == accessService {
			CopyNode(dst, src, t.O)
		}
	}
}

// CopyNode copies all triples of node from src into dst, following nested
// blank nodes. Each blank node is expanded once, so self-referencing
// structures terminate.
func CopyNode(dst, src *rdfgraph.Graph, node rdfgraph.Term) {
	visited := map[rdfgraph.Term]struct{}{node: {}}
	work := []rdfgraph.Term{node}
	for len(work) > 0 {
		n := work[len(work)-1]
		work = work[:len(work)-1]
		for _, t := range src.Triples(n, rdfgraph.Term{}, rdfgraph.Term{}) {
			dst.AddTriple(t)
			if !t.O.IsBlank() {
				continue
			}
			if _, ok := visited[t.O]; ok {
				continue
			}
			visited[t.O] = struct{}{}
			work = append(work, t.O)
		}
	}
}

// StripDefaults removes statements the FDP injects into every record: the
// generated <subject#accessRights> node and conformsTo links to FDP
// profiles.
func StripDefaults(g *rdfgraph.Graph, subject rdfgraph.Term) {
	accessRights := rdfgraph.IRI(fdp.DCTAccessRights)
	generated := rdfgraph.IRI(subject.Value + "#accessRights")
	if g.Has(subject, accessRights, generated) {
		g.Remove(subject, accessRights, generated)
		g.Remove(generated, rdfgraph.Term{}, rdfgraph.Term{})
	}

	conformsTo := rdfgraph.IRI(fdp.DCTConformsTo)
	for _, t := range g.Triples(rdfgraph.Term{}, conformsTo, rdfgraph.Term{}) {
		if t.O.IsIRI() && IsProfileURI(t.O.Value) {
			g.Remove(t.S, t.P, t.O)
		}
	}
}

// IsProfileURI reports whether the path of u contains "/profile/",
// ignoring case.
func IsProfileURI(u string) bool {
	path := u
	if parsed, err := url.Parse(u); err == nil {
		path = parsed.Path
	}
	return strings.Contains(strings.ToLower(path), "/profile/")
}
