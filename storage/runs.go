package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/c360studio/fdpharvest/harvest"
)

// Run is the stored record of one harvest run.
type Run struct {
	ID         string            `json:"id"`
	FDP        string            `json:"fdp"`
	Profile    string            `json:"profile"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Discovered int               `json:"discovered"`
	Published  int               `json:"published"`
	Skipped    int               `json:"skipped"`
	Failed     int               `json:"failed"`
	Failures   map[string]string `json:"failures,omitempty"`
}

// RunStore keeps runs in a KV bucket, keyed by run id.
type RunStore struct {
	kv KeyValue
}

// NewRunStore wraps kv, usually the BucketRuns bucket.
func NewRunStore(kv KeyValue) *RunStore {
	return &RunStore{kv: kv}
}

// Save stores r, replacing an earlier version.
func (s *RunStore) Save(ctx context.Context, r *Run) error {
	if r.ID == "" {
		return errors.New("run id is required")
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}
	if _, err := s.kv.Put(ctx, r.ID, data); err != nil {
		return fmt.Errorf("store run: %w", err)
	}
	return nil
}

// Get retrieves a run by id.
func (s *RunStore) Get(ctx context.Context, id string) (*Run, error) {
	entry, err := s.kv.Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get run: %w", err)
	}

	var r Run
	if err := json.Unmarshal(entry.Value(), &r); err != nil {
		return nil, fmt.Errorf("unmarshal run: %w", err)
	}
	return &r, nil
}

// List returns all runs, most recent first.
func (s *RunStore) List(ctx context.Context) ([]*Run, error) {
	keys, err := s.kv.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("list run keys: %w", err)
	}

	runs := make([]*Run, 0, len(keys))
	for _, key := range keys {
		r, err := s.Get(ctx, key)
		if err != nil {
			continue // Skip entries that fail to load
		}
		runs = append(runs, r)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	return runs, nil
}

// RunRecorder is a harvest.Observer that saves the run when it completes.
type RunRecorder struct {
	store   *RunStore
	fdp     string
	profile string
	timeout time.Duration
	logger  *slog.Logger

	mu       sync.Mutex
	failures map[string]string
}

// NewRunRecorder records runs of the harvester for fdpURL into store.
func NewRunRecorder(store *RunStore, fdpURL, profileName string, logger *slog.Logger) *RunRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &RunRecorder{
		store:   store,
		fdp:     fdpURL,
		profile: profileName,
		timeout: 10 * time.Second,
		logger:  logger,
	}
}

func (rr *RunRecorder) OnRecord(harvest.Result) {}

func (rr *RunRecorder) OnError(guid string, err error) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	if rr.failures == nil {
		rr.failures = make(map[string]string)
	}
	rr.failures[guid] = err.Error()
}

func (rr *RunRecorder) OnCompleted(summary harvest.Summary) {
	rr.mu.Lock()
	failures := rr.failures
	rr.failures = nil
	rr.mu.Unlock()

	finished := time.Now().UTC()
	run := &Run{
		ID:         summary.RunID,
		FDP:        rr.fdp,
		Profile:    rr.profile,
		StartedAt:  finished.Add(-summary.Duration),
		FinishedAt: finished,
		Discovered: summary.Discovered,
		Published:  summary.Published,
		Skipped:    summary.Skipped,
		Failed:     summary.Failed,
		Failures:   failures,
	}

	ctx, cancel := context.WithTimeout(context.Background(), rr.timeout)
	defer cancel()
	if err := rr.store.Save(ctx, run); err != nil {
		rr.logger.Error("Failed to record harvest run", "run_id", run.ID, "error", err)
	}
}
