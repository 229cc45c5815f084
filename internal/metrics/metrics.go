package metrics

import (
	"sync"
	"time"
)

type resourceStats struct {
	fetches           int
	errors            int
	exhausted         int
	persistenceErrors int
	lastFetchLatency  time.Duration
}

// Recorder captures lightweight, in-memory metrics about fetch operations and
// forwards them to otel instruments when configured. It is intentionally
// simple so tests can assert on it directly.
type Recorder struct {
	mu    sync.Mutex
	stats map[string]*resourceStats
	otel  *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats: make(map[string]*resourceStats),
		otel:  otel,
	}
}

// RecordFetchAttempt counts one upstream fetch for a resource and stores the
// observed latency.
func (r *Recorder) RecordFetchAttempt(resource string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStatsLocked(resource)
	stats.fetches++
	stats.lastFetchLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordFetchAttempt(resource, duration, err)
	}
}

// RecordRetryExhausted counts a fetch that ran out of retry attempts.
func (r *Recorder) RecordRetryExhausted(resource string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.ensureStatsLocked(resource).exhausted++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordRetryExhausted(resource)
	}
}

// RecordPersistenceError counts a snapshot write failure for a resource.
func (r *Recorder) RecordPersistenceError(resource string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.ensureStatsLocked(resource).persistenceErrors++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordPersistenceError(resource)
	}
}

// RecordPollerCycle tracks one scheduled run of a named job.
func (r *Recorder) RecordPollerCycle(job string, duration time.Duration, err error) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordPollerCycle(job, duration, err)
}

// RecordHTTPRequest tracks basic read-API metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// Snapshot is a copy of the per-resource stats for assertions.
type Snapshot struct {
	Fetches           int
	Errors            int
	Exhausted         int
	PersistenceErrors int
	LastFetchLatency  time.Duration
}

func (r *Recorder) Snapshot(resource string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[resource]
	if !ok || stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Fetches:           stats.fetches,
		Errors:            stats.errors,
		Exhausted:         stats.exhausted,
		PersistenceErrors: stats.persistenceErrors,
		LastFetchLatency:  stats.lastFetchLatency,
	}
}

// FetchCalls returns the total fetch attempts recorded for a resource.
func (r *Recorder) FetchCalls(resource string) int {
	return r.Snapshot(resource).Fetches
}

// FetchErrors returns the total failed fetch attempts for a resource.
func (r *Recorder) FetchErrors(resource string) int {
	return r.Snapshot(resource).Errors
}

// RetryExhaustions returns how often a resource fetch gave up after retries.
func (r *Recorder) RetryExhaustions(resource string) int {
	return r.Snapshot(resource).Exhausted
}

// PersistenceErrors returns the count of disk mirror failures for a resource.
func (r *Recorder) PersistenceErrors(resource string) int {
	return r.Snapshot(resource).PersistenceErrors
}

// ensureStatsLocked requires r.mu to be held.
func (r *Recorder) ensureStatsLocked(resource string) *resourceStats {
	stats, ok := r.stats[resource]
	if !ok {
		stats = &resourceStats{}
		r.stats[resource] = stats
	}
	return stats
}
