package harvest

import (
	"sync"
	"time"

	"github.com/c360studio/fdpharvest/labels"
	"github.com/c360studio/fdpharvest/profile"
)

// Result describes one published record.
type Result struct {
	GUID    string
	ID      string
	Package profile.Package
	Labels  labels.Outcome
}

// Summary is reported once a run finishes.
type Summary struct {
	RunID      string
	Discovered int
	Published  int
	Skipped    int
	Failed     int
	Duration   time.Duration
}

// Observer receives the events of a harvest run.
type Observer interface {
	// OnRecord is called after a record has been published.
	OnRecord(result Result)

	// OnError is called when a record fails. The run continues.
	OnError(guid string, err error)

	// OnCompleted is called once at the end of the run.
	OnCompleted(summary Summary)
}

// Observers forwards every event to each of its members.
type Observers []Observer

func (os Observers) OnRecord(result Result) {
	for _, o := range os {
		o.OnRecord(result)
	}
}

func (os Observers) OnError(guid string, err error) {
	for _, o := range os {
		o.OnError(guid, err)
	}
}

func (os Observers) OnCompleted(summary Summary) {
	for _, o := range os {
		o.OnCompleted(summary)
	}
}

// CountingObserver counts records and keeps the failed guids.
type CountingObserver struct {
	mu       sync.Mutex
	records  int
	failures map[string]error
	summary  *Summary
}

func (co *CountingObserver) OnRecord(Result) {
	co.mu.Lock()
	defer co.mu.Unlock()
	co.records++
}

func (co *CountingObserver) OnError(guid string, err error) {
	co.mu.Lock()
	defer co.mu.Unlock()
	if co.failures == nil {
		co.failures = make(map[string]error)
	}
	co.failures[guid] = err
}

func (co *CountingObserver) OnCompleted(summary Summary) {
	co.mu.Lock()
	defer co.mu.Unlock()
	co.summary = &summary
}

// Records returns the number of published records.
func (co *CountingObserver) Records() int {
	co.mu.Lock()
	defer co.mu.Unlock()
	return co.records
}

// Failures returns a copy of the failed guids and their errors.
func (co *CountingObserver) Failures() map[string]error {
	co.mu.Lock()
	defer co.mu.Unlock()
	out := make(map[string]error, len(co.failures))
	for k, v := range co.failures {
		out[k] = v
	}
	return out
}

// Completed returns the final summary, or false while the run is going.
func (co *CountingObserver) Completed() (Summary, bool) {
	co.mu.Lock()
	defer co.mu.Unlock()
	if co.summary == nil {
		return Summary{}, false
	}
	return *co.summary, true
}
