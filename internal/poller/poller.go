package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"league-mirror/internal/logging"
	"league-mirror/internal/metrics"
)

const defaultInterval = 20 * time.Minute

// Job is one scheduled unit of work: a named fetch operation and its cadence.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Status describes the recent health of one job's loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// IsReady reports whether the job has had a recent success and is not failing
// repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// Scheduler runs each job on its own fixed interval, concurrently with the
// other jobs and with the read path. Runs of a single job are serialized:
// each loop executes its job inline, so a slow run delays the next tick
// rather than overlapping it.
type Scheduler struct {
	jobs    []Job
	logger  *slog.Logger
	metrics *metrics.Recorder

	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool
	wg       sync.WaitGroup

	statusMu sync.RWMutex
	status   map[string]Status
}

// New constructs a Scheduler. Jobs without an interval get a default.
func New(jobs []Job, logger *slog.Logger, recorder *metrics.Recorder) *Scheduler {
	normalized := make([]Job, 0, len(jobs))
	// Every job starts with a zero status so readiness reports unready until
	// its first success.
	status := make(map[string]Status, len(jobs))
	for _, job := range jobs {
		if job.Interval <= 0 {
			job.Interval = defaultInterval
		}
		normalized = append(normalized, job)
		status[job.Name] = Status{}
	}
	return &Scheduler{
		jobs:    normalized,
		logger:  logger,
		metrics: recorder,
		done:    make(chan struct{}),
		status:  status,
	}
}

// Start launches one loop per job until the context is cancelled or Stop is
// called. Jobs do not run immediately on start; bootstrap warms the caches
// before the scheduler takes over.
func (s *Scheduler) Start(ctx context.Context) {
	s.startMu.Lock()
	if s.started {
		s.startMu.Unlock()
		return
	}
	s.started = true
	s.startMu.Unlock()

	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, job)
	}
}

// Stop halts every job loop and waits for in-flight runs to return.
func (s *Scheduler) Stop(ctx context.Context) error {
	_ = ctx
	s.stopOnce.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
	return nil
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	logging.Info(s.logger, "job scheduled",
		slog.String(logging.FieldJob, job.Name),
		slog.Int64(logging.FieldDurationMS, job.Interval.Milliseconds()))

	for {
		select {
		case <-ctx.Done():
			logging.Info(s.logger, "job stopped", slog.String(logging.FieldJob, job.Name))
			return
		case <-s.done:
			logging.Info(s.logger, "job stopped", slog.String(logging.FieldJob, job.Name))
			return
		case <-ticker.C:
			s.runOnce(ctx, job)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, job Job) {
	start := time.Now()
	s.recordAttempt(job.Name, start)

	err := job.Run(ctx)
	s.metrics.RecordPollerCycle(job.Name, time.Since(start), err)
	if err != nil {
		logging.Error(s.logger, "scheduled fetch failed", err,
			slog.String(logging.FieldJob, job.Name),
			slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()))
		s.recordFailure(job.Name, err, start)
		return
	}

	s.recordSuccess(job.Name, start)
	logging.Info(s.logger, "scheduled fetch complete",
		slog.String(logging.FieldJob, job.Name),
		slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()))
}

// Status returns a snapshot of one job's recent health.
func (s *Scheduler) Status(name string) Status {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.status[name]
}

// Statuses returns the health of every job.
func (s *Scheduler) Statuses() map[string]Status {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()

	out := make(map[string]Status, len(s.status))
	for name, st := range s.status {
		out[name] = st
	}
	return out
}

// MarkSuccess seeds a job's status, used when bootstrap already warmed its
// resource before the scheduler started.
func (s *Scheduler) MarkSuccess(name string, at time.Time) {
	s.recordSuccess(name, at)
}

func (s *Scheduler) recordAttempt(name string, at time.Time) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	st := s.status[name]
	st.LastAttempt = at
	s.status[name] = st
}

func (s *Scheduler) recordSuccess(name string, at time.Time) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	st := s.status[name]
	st.ConsecutiveFailures = 0
	st.LastError = ""
	st.LastSuccess = at
	s.status[name] = st
}

func (s *Scheduler) recordFailure(name string, err error, at time.Time) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	st := s.status[name]
	st.ConsecutiveFailures++
	if err != nil {
		st.LastError = err.Error()
	}
	st.LastAttempt = at
	s.status[name] = st
}
