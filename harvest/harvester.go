// Package harvest runs FAIR Data Point harvests: it resolves the harvester
// settings, crawls the endpoint, converts every record into a package,
// resolves vocabulary labels and hands the package to a sink.
package harvest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/c360studio/fdpharvest/converter"
	"github.com/c360studio/fdpharvest/fdp"
	"github.com/c360studio/fdpharvest/identifier"
	"github.com/c360studio/fdpharvest/labels"
	"github.com/c360studio/fdpharvest/profile"
	"github.com/c360studio/fdpharvest/publish"
)

const tracerName = "github.com/c360studio/fdpharvest/harvest"

// ErrInvalidURL is returned for an FDP endpoint that is not absolute http(s).
var ErrInvalidURL = errors.New("invalid FDP url")

// options collects the functional options of New.
type options struct {
	source      fdp.Source
	userAgent   string
	labeler     *labels.Labeler
	sink        publish.Sink
	observers   Observers
	registerer  prometheus.Registerer
	logger      *slog.Logger
	profileOpts []profile.Option
}

// Option configures a Harvester.
type Option func(*options)

// WithSource replaces the FDP client built from the request timeout.
func WithSource(src fdp.Source) Option {
	return func(o *options) { o.source = src }
}

// WithUserAgent sets the User-Agent of the default FDP client.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// WithLabeler enables label resolution for every converted package.
func WithLabeler(l *labels.Labeler) Option {
	return func(o *options) { o.labeler = l }
}

// WithSink sets where packages are published. Without a sink, packages
// are converted and reported to observers only.
func WithSink(s publish.Sink) Option {
	return func(o *options) { o.sink = s }
}

// WithObserver adds an observer.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observers = append(o.observers, obs) }
}

// WithRegisterer enables Prometheus metrics on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithProfileOptions passes options to the profile.
func WithProfileOptions(opts ...profile.Option) Option {
	return func(o *options) { o.profileOpts = append(o.profileOpts, opts...) }
}

// Harvester harvests one FDP endpoint.
type Harvester struct {
	url       string
	settings  Settings
	provider  *fdp.RecordProvider
	converter *converter.Converter
	labeler   *labels.Labeler
	sink      publish.Sink
	observer  Observer
	metrics   *runMetrics
	logger    *slog.Logger
	tracer    trace.Tracer
}

// New sets up a harvester for the FDP at fdpURL. local is the harvester's
// own configuration and global holds the site-wide defaults. Configuration
// errors, a missing profile included, are returned here rather than during
// the run.
func New(fdpURL string, local, global map[string]any, opts ...Option) (*Harvester, error) {
	u, err := url.Parse(fdpURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, fdpURL)
	}

	settings, err := ResolveSettings(local, global)
	if err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	logger := o.logger.With("fdp", fdpURL)

	if o.source == nil {
		clientOpts := []fdp.ClientOption{fdp.WithLogger(logger)}
		if o.userAgent != "" {
			clientOpts = append(clientOpts, fdp.WithUserAgent(o.userAgent))
		}
		o.source = fdp.NewClient(settings.RequestTimeout, clientOpts...)
	}

	provider, err := fdp.NewRecordProvider(fdpURL, o.source, fdp.ProviderConfig{
		HarvestCatalogs: settings.HarvestCatalogs,
		ExcludePaths:    settings.ExcludePaths,
		MaxRecords:      settings.MaxRecords,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSetting, err)
	}

	conv, err := converter.New(settings.Profile, logger, o.profileOpts...)
	if err != nil {
		return nil, err
	}

	m, err := newRunMetrics(o.registerer)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	return &Harvester{
		url:       fdpURL,
		settings:  settings,
		provider:  provider,
		converter: conv,
		labeler:   o.labeler,
		sink:      o.sink,
		observer:  o.observers,
		metrics:   m,
		logger:    logger,
		tracer:    otel.Tracer(tracerName),
	}, nil
}

// Settings returns the resolved settings.
func (h *Harvester) Settings() Settings {
	return h.settings
}

// Provider returns the record provider of the endpoint.
func (h *Harvester) Provider() *fdp.RecordProvider {
	return h.provider
}

// Converter returns the record converter.
func (h *Harvester) Converter() *converter.Converter {
	return h.converter
}

// Run crawls the endpoint and processes every record. Catalogs and series
// go before datasets so datasets can refer to the packages of their series.
// A failing record is reported to the observers and the run continues; Run
// itself fails only when the crawl fails or ctx is done.
func (h *Harvester) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	summary := Summary{RunID: uuid.NewString()}

	ctx, span := h.tracer.Start(ctx, "harvest.run", trace.WithAttributes(
		attribute.String("harvest.run_id", summary.RunID),
		attribute.String("fdp.root", h.url),
		attribute.String("harvest.profile", h.settings.Profile),
	))
	defer span.End()

	h.logger.Info("Harvest started", "run_id", summary.RunID, "profile", h.settings.Profile)

	finish := func(err error) (Summary, error) {
		summary.Duration = time.Since(start)
		h.metrics.recordRun(h.settings.Profile, summary.Duration)
		span.SetAttributes(
			attribute.Int("harvest.discovered", summary.Discovered),
			attribute.Int("harvest.published", summary.Published),
			attribute.Int("harvest.failed", summary.Failed),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "harvest failed")
			h.logger.Error("Harvest failed", "run_id", summary.RunID, "error", err)
		} else {
			h.logger.Info("Harvest finished",
				"run_id", summary.RunID,
				"discovered", summary.Discovered,
				"published", summary.Published,
				"skipped", summary.Skipped,
				"failed", summary.Failed,
				"duration", summary.Duration)
		}
		h.observer.OnCompleted(summary)
		return summary, err
	}

	ids, err := h.provider.RecordIDs(ctx)
	if err != nil {
		return finish(fmt.Errorf("crawl %s: %w", h.url, err))
	}
	ids = OrderRecords(ids)
	summary.Discovered = len(ids)
	for _, id := range ids {
		t, _ := id.Type()
		h.metrics.recordDiscovered(h.settings.Profile, string(t))
	}

	series := profile.SeriesMapping{}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return finish(err)
		}

		res, err := h.harvestRecord(ctx, id, series)
		switch {
		case err != nil:
			summary.Failed++
			h.metrics.recordStatus(h.settings.Profile, statusFailed)
			h.logger.Warn("Record failed", "guid", id.String(), "error", err)
			h.observer.OnError(id.String(), err)
		case res == nil:
			summary.Skipped++
			h.metrics.recordStatus(h.settings.Profile, statusSkipped)
		default:
			summary.Published++
			h.metrics.recordStatus(h.settings.Profile, statusPublished)
			h.observer.OnRecord(*res)
		}
	}

	return finish(nil)
}

// harvestRecord assembles, converts, labels and publishes one record. A nil
// result without error means the record held nothing to convert.
func (h *Harvester) harvestRecord(ctx context.Context, id identifier.Identifier, series profile.SeriesMapping) (res *Result, err error) {
	guid := id.String()
	ctx, span := h.tracer.Start(ctx, "harvest.record", trace.WithAttributes(attribute.String("fdp.guid", guid)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "record failed")
		}
		span.End()
	}()

	leafType, err := id.Type()
	if err != nil {
		return nil, err
	}
	leafValue, err := id.Value()
	if err != nil {
		return nil, err
	}

	record, err := h.provider.RecordByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("assemble record: %w", err)
	}

	pkg, err := h.converter.Convert(guid, record, series)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		h.logger.Info("Record has nothing to convert", "guid", guid)
		return nil, nil
	}

	result := &Result{GUID: guid, Package: pkg}
	if h.labeler != nil {
		outcome, err := h.labeler.ResolveLabels(ctx, pkg)
		if err != nil {
			h.logger.Warn("Label resolution failed", "guid", guid, "error", err)
		} else {
			result.Labels = outcome
			h.metrics.recordLabels(h.settings.Profile, outcome)
			h.logger.Debug("Labels resolved", "guid", guid, "outcome", outcome.String())
		}
	}

	if h.sink == nil {
		result.ID = publish.PackageName(guid)
	} else {
		result.ID, err = h.sink.Publish(ctx, guid, pkg)
		if err != nil {
			return nil, fmt.Errorf("publish: %w", err)
		}
	}

	if leafType == identifier.TypeDataSeries {
		series[leafValue] = result.ID
	}
	span.SetAttributes(attribute.String("harvest.package_id", result.ID))
	return result, nil
}

// OrderRecords returns ids with catalogs first, then dataset series, then
// everything else. The order within each group is kept.
func OrderRecords(ids []identifier.Identifier) []identifier.Identifier {
	rank := func(id identifier.Identifier) int {
		t, err := id.Type()
		if err != nil {
			return 3
		}
		switch t {
		case identifier.TypeCatalog:
			return 0
		case identifier.TypeDataSeries:
			return 1
		default:
			return 2
		}
	}
	out := slices.Clone(ids)
	slices.SortStableFunc(out, func(a, b identifier.Identifier) int {
		return rank(a) - rank(b)
	})
	return out
}
