package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"league-mirror/internal/logging"
	"league-mirror/internal/metrics"
	"league-mirror/internal/upstream"
)

const (
	defaultRetryAttempts = 3
	defaultRetryDelay    = 5 * time.Second
)

// Retrier applies the shared retry policy to upstream calls: a fixed delay
// between attempts, a bounded attempt count, and retries only for the
// transient server-error status. Malformed payloads, other statuses, and
// transport failures surface on the first attempt.
type Retrier struct {
	maxAttempts int
	delay       time.Duration
	logger      *slog.Logger
	metrics     *metrics.Recorder
}

// NewRetrier constructs a Retrier. Non-positive attempts/delay fall back to
// defaults.
func NewRetrier(maxAttempts int, delay time.Duration, logger *slog.Logger, recorder *metrics.Recorder) *Retrier {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if delay <= 0 {
		delay = defaultRetryDelay
	}
	return &Retrier{
		maxAttempts: maxAttempts,
		delay:       delay,
		logger:      logger,
		metrics:     recorder,
	}
}

// Do runs op under the retry policy, recording each attempt against resource.
// On exhaustion the returned error wraps ErrExhausted.
func (r *Retrier) Do(ctx context.Context, resource string, op func(context.Context) (json.RawMessage, error)) (json.RawMessage, error) {
	attempt := 0
	operation := func() (json.RawMessage, error) {
		attempt++
		start := time.Now()
		raw, err := op(ctx)
		r.metrics.RecordFetchAttempt(resource, time.Since(start), err)
		if err == nil {
			return raw, nil
		}

		if se, ok := upstream.AsStatusError(err); ok && se.Transient() {
			logging.Warn(r.logger, "transient upstream failure, will retry",
				slog.String(logging.FieldResource, resource),
				slog.Int("attempt", attempt),
				slog.Int("max_attempts", r.maxAttempts),
				"error", err,
			)
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(r.delay), uint64(r.maxAttempts-1)),
		ctx,
	)

	raw, err := backoff.RetryWithData(operation, policy)
	if err == nil {
		return raw, nil
	}

	if se, ok := upstream.AsStatusError(err); ok && se.Transient() {
		r.metrics.RecordRetryExhausted(resource)
		logging.Warn(r.logger, "retry budget exhausted",
			slog.String(logging.FieldResource, resource),
			slog.Int("attempts", attempt),
			"error", err,
		)
		return nil, fmt.Errorf("%w: %s after %d attempts: %v", ErrExhausted, resource, attempt, err)
	}
	return nil, err
}
