package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"strings"
	"time"

	"github.com/c360studio/semstreams/natsclient"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/c360studio/fdpharvest/ckan"
	"github.com/c360studio/fdpharvest/config"
	"github.com/c360studio/fdpharvest/fdp"
	"github.com/c360studio/fdpharvest/harvest"
	"github.com/c360studio/fdpharvest/labels"
	"github.com/c360studio/fdpharvest/profile"
	"github.com/c360studio/fdpharvest/publish"
	"github.com/c360studio/fdpharvest/storage"
	"github.com/c360studio/fdpharvest/translation"
)

// Sink and store choices of the harvest command.
const (
	sinkDir  = "dir"
	sinkNATS = "nats"
	sinkCKAN = "ckan"

	storeMemory = "memory"
	storeRedis  = "redis"
	storeCKAN   = "ckan"
	storeKV     = "kv"
)

// packageStream is the JetStream stream the nats sink publishes into.
const packageStream = "FDP_PACKAGES"

// runOptions are the flags of the harvest command.
type runOptions struct {
	sink        string
	store       string
	labels      bool
	recordRuns  bool
	metricsAddr string
}

// App wires configuration into harvesters, sinks and stores.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	local  harvest.SourceConfig
	global map[string]any
}

// newApp loads the configuration and the harvester JSON config.
func newApp(flags *globalFlags, logOut io.Writer) (*App, error) {
	logger := newLogger(logOut, flags.logLevel)
	slog.SetDefault(logger)

	cfg, err := config.NewLoader(logger).Load(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	local, err := readSourceConfig(flags.sourceConfig)
	if err != nil {
		return nil, err
	}
	return &App{cfg: cfg, logger: logger, local: local, global: cfg.HarvestSettings()}, nil
}

// harvester builds a harvester for fdpURL. Commands that never convert
// fall back to the FDP profile when none is configured.
func (a *App) harvester(fdpURL string, needProfile bool, opts ...harvest.Option) (*harvest.Harvester, error) {
	local := a.local
	if !needProfile {
		if name, err := harvest.SettingString(local, a.global, harvest.KeyProfile, ""); err == nil && name == "" {
			local = maps.Clone(local)
			if local == nil {
				local = harvest.SourceConfig{}
			}
			local[harvest.KeyProfile] = string(profile.ProfileFDPDCATAP)
		}
	}

	base := []harvest.Option{
		harvest.WithLogger(a.logger),
		harvest.WithUserAgent(a.cfg.Harvest.UserAgent),
		harvest.WithProfileOptions(profile.WithDefaultLanguage(a.cfg.Labels.DefaultLanguage)),
	}
	return harvest.New(fdpURL, local, a.global, append(base, opts...)...)
}

// run performs a full harvest of fdpURL.
func (a *App) run(ctx context.Context, fdpURL string, opts runOptions) (harvest.Summary, error) {
	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	reg := prometheus.NewRegistry()
	if opts.metricsAddr != "" {
		stop := a.serveMetrics(reg, opts.metricsAddr)
		closers = append(closers, stop)
	}

	sink, closeSink, err := a.buildSink(ctx, opts.sink, fdpURL)
	if err != nil {
		return harvest.Summary{}, err
	}
	closers = append(closers, closeSink)

	hopts := []harvest.Option{
		harvest.WithSink(sink),
		harvest.WithRegisterer(reg),
	}

	if opts.labels {
		store, closeStore, err := a.buildStore(ctx, opts.store)
		if err != nil {
			return harvest.Summary{}, err
		}
		closers = append(closers, closeStore)
		hopts = append(hopts, harvest.WithLabeler(a.labeler(store)))
	}

	if opts.recordRuns {
		runs, closeRuns, err := a.runStore(ctx)
		if err != nil {
			return harvest.Summary{}, err
		}
		closers = append(closers, closeRuns)
		profileName, _ := harvest.SettingString(a.local, a.global, harvest.KeyProfile, "")
		hopts = append(hopts, harvest.WithObserver(storage.NewRunRecorder(runs, fdpURL, profileName, a.logger)))
	}

	h, err := a.harvester(fdpURL, true, hopts...)
	if err != nil {
		return harvest.Summary{}, err
	}
	return h.Run(ctx)
}

// labeler resolves labels into store with a label cache owned by this run.
func (a *App) labeler(store translation.Store) *labels.Labeler {
	fetcher := fdp.NewClient(a.cfg.Harvest.RequestTimeout,
		fdp.WithUserAgent(a.cfg.Harvest.UserAgent),
		fdp.WithLogger(a.logger),
	)
	rcfg := labels.DefaultResolverConfig()
	rcfg.Languages = a.cfg.Labels.Languages
	rcfg.DefaultLanguage = a.cfg.Labels.DefaultLanguage
	rcfg.BioOntologyAPIKey = a.cfg.Labels.BioOntologyAPIKey

	cache := labels.NewLRUStore(a.cfg.Labels.CacheSize, labels.DefaultMaxSkipped)
	resolver := labels.NewResolver(fetcher, cache, rcfg, a.logger)
	return labels.NewLabeler(store, resolver, a.logger)
}

func (a *App) buildSink(ctx context.Context, kind, fdpURL string) (publish.Sink, func(), error) {
	switch kind {
	case sinkDir:
		sink, err := publish.NewDirSink(a.cfg.Output.Dir)
		if err != nil {
			return nil, nil, err
		}
		a.logger.Info("Writing packages", "dir", a.cfg.Output.Dir)
		return sink, func() {}, nil

	case sinkNATS:
		client, err := a.connectNATS(ctx)
		if err != nil {
			return nil, nil, err
		}
		js, err := client.JetStream()
		if err != nil {
			a.closeNATS(client)
			return nil, nil, fmt.Errorf("JetStream context: %w", err)
		}
		prefix := a.cfg.NATS.SubjectPrefix
		if prefix == "" {
			prefix = publish.DefaultSubjectPrefix
		}
		if _, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
			Name:       packageStream,
			Subjects:   []string{prefix + ".>"},
			Duplicates: 10 * time.Minute,
		}); err != nil {
			a.closeNATS(client)
			return nil, nil, fmt.Errorf("ensure stream %s: %w", packageStream, err)
		}
		return publish.NewJetStreamSink(js, prefix), func() { a.closeNATS(client) }, nil

	case sinkCKAN:
		client, err := a.ckanClient()
		if err != nil {
			return nil, nil, err
		}
		return ckan.NewPackageSink(client, ckan.SinkConfig{
			OwnerOrg:      a.cfg.CKAN.OwnerOrg,
			HarvestSource: fdpURL,
		}), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown sink %q (want %s, %s or %s)", kind, sinkDir, sinkNATS, sinkCKAN)
}

func (a *App) buildStore(ctx context.Context, kind string) (translation.Store, func(), error) {
	switch kind {
	case storeMemory:
		return translation.NewMemoryStore(), func() {}, nil

	case storeRedis:
		store, err := translation.NewRedisStore(translation.RedisOptions{
			URL:       a.cfg.Redis.URL,
			KeyPrefix: a.cfg.Redis.KeyPrefix,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		return store, func() { _ = store.Close() }, nil

	case storeCKAN:
		client, err := a.ckanClient()
		if err != nil {
			return nil, nil, err
		}
		return ckan.NewTranslationStore(client), func() {}, nil

	case storeKV:
		client, err := a.connectNATS(ctx)
		if err != nil {
			return nil, nil, err
		}
		kv, err := storage.OpenBucket(ctx, client, storage.BucketTranslations, 1)
		if err != nil {
			a.closeNATS(client)
			return nil, nil, err
		}
		return storage.NewTranslationStore(kv), func() { a.closeNATS(client) }, nil
	}
	return nil, nil, fmt.Errorf("unknown store %q (want %s, %s, %s or %s)", kind, storeMemory, storeRedis, storeCKAN, storeKV)
}

// runStore opens the harvest run bucket.
func (a *App) runStore(ctx context.Context) (*storage.RunStore, func(), error) {
	client, err := a.connectNATS(ctx)
	if err != nil {
		return nil, nil, err
	}
	kv, err := storage.OpenBucket(ctx, client, storage.BucketRuns, 5)
	if err != nil {
		a.closeNATS(client)
		return nil, nil, err
	}
	return storage.NewRunStore(kv), func() { a.closeNATS(client) }, nil
}

func (a *App) ckanClient() (*ckan.Client, error) {
	if a.cfg.CKAN.URL == "" {
		return nil, errors.New("ckan.url is not configured")
	}
	return ckan.NewClient(a.cfg.CKAN.URL,
		ckan.WithAPIKey(a.cfg.CKAN.APIKey),
		ckan.WithLogger(a.logger),
	), nil
}

func (a *App) connectNATS(ctx context.Context) (*natsclient.Client, error) {
	url := a.cfg.NATS.URL
	if url == "" {
		url = nats.DefaultURL
	}

	a.logger.Info("Connecting to NATS", "url", url)
	client, err := natsclient.NewClient(url,
		natsclient.WithName(appName),
		natsclient.WithLogger(a.logger),
		natsclient.WithMaxReconnects(-1),
		natsclient.WithReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create NATS client: %w", err)
	}
	if err := client.Connect(ctx); err != nil {
		return nil, wrapNATSError(err, url)
	}

	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.WaitForConnection(connCtx); err != nil {
		a.closeNATS(client)
		return nil, wrapNATSError(err, url)
	}
	return client, nil
}

func (a *App) closeNATS(client *natsclient.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Close(ctx); err != nil {
		a.logger.Warn("Closing NATS connection failed", "error", err)
	}
}

// wrapNATSError provides helpful guidance when NATS connection fails.
func wrapNATSError(err error, url string) error {
	errStr := err.Error()

	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no servers available") ||
		strings.Contains(errStr, "timeout") {
		return fmt.Errorf(`NATS connection failed: %w

NATS is not running at %s.

Start a NATS server with JetStream enabled, or set nats.url
(FDPHARVEST_NATS_URL) to point to your NATS server.`, err, url)
	}

	return fmt.Errorf("NATS connection failed: %w", err)
}

// serveMetrics exposes reg on addr until the returned func is called.
func (a *App) serveMetrics(reg *prometheus.Registry, addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Metrics server failed", "addr", addr, "error", err)
		}
	}()
	a.logger.Info("Serving metrics", "addr", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
