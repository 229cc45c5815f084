package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"league-mirror/internal/metrics"
	"league-mirror/internal/upstream"
)

func testRetrier(attempts int) (*Retrier, *metrics.Recorder) {
	rec := metrics.NewRecorder()
	return NewRetrier(attempts, time.Millisecond, nil, rec), rec
}

func TestRetrierRetriesServerErrors(t *testing.T) {
	r, rec := testRetrier(3)

	calls := 0
	raw, err := r.Do(context.Background(), "sim", func(context.Context) (json.RawMessage, error) {
		calls++
		if calls < 3 {
			return nil, &upstream.StatusError{Code: http.StatusInternalServerError}
		}
		return json.RawMessage(`{"ok":true}`), nil
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if string(raw) != `{"ok":true}` {
		t.Fatalf("unexpected payload: %s", raw)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
	if rec.FetchCalls("sim") != 3 || rec.FetchErrors("sim") != 2 {
		t.Fatalf("unexpected metrics: calls=%d errors=%d", rec.FetchCalls("sim"), rec.FetchErrors("sim"))
	}
}

func TestRetrierExhaustsAfterMaxAttempts(t *testing.T) {
	r, rec := testRetrier(3)

	calls := 0
	_, err := r.Do(context.Background(), "sim", func(context.Context) (json.RawMessage, error) {
		calls++
		return nil, &upstream.StatusError{Code: http.StatusInternalServerError}
	})
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
	if rec.RetryExhaustions("sim") != 1 {
		t.Fatalf("expected 1 exhaustion recorded, got %d", rec.RetryExhaustions("sim"))
	}
}

func TestRetrierDoesNotRetryOtherStatuses(t *testing.T) {
	r, _ := testRetrier(3)

	calls := 0
	_, err := r.Do(context.Background(), "sim", func(context.Context) (json.RawMessage, error) {
		calls++
		return nil, &upstream.StatusError{Code: http.StatusNotFound}
	})
	if err == nil || errors.Is(err, ErrExhausted) {
		t.Fatalf("expected immediate non-exhausted failure, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt for 404, got %d", calls)
	}
}

func TestRetrierDoesNotRetryTransportErrors(t *testing.T) {
	r, _ := testRetrier(3)

	calls := 0
	transportErr := errors.New("connection reset")
	_, err := r.Do(context.Background(), "sim", func(context.Context) (json.RawMessage, error) {
		calls++
		return nil, transportErr
	})
	if !errors.Is(err, transportErr) {
		t.Fatalf("expected transport error passthrough, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestRetrierRespectsContextCancel(t *testing.T) {
	r, _ := testRetrier(3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Do(ctx, "sim", func(context.Context) (json.RawMessage, error) {
		return nil, &upstream.StatusError{Code: http.StatusInternalServerError}
	})
	if err == nil {
		t.Fatal("expected error under cancelled context")
	}
}

func TestNewRetrierDefaults(t *testing.T) {
	r := NewRetrier(0, 0, nil, nil)
	if r.maxAttempts != defaultRetryAttempts || r.delay != defaultRetryDelay {
		t.Fatalf("unexpected defaults: %+v", r)
	}
}
