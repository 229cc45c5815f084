package handlers

import (
	"encoding/json"
	"log/slog"
	nethttp "net/http"
	"time"

	"league-mirror/internal/domain"
	"league-mirror/internal/logging"
	"league-mirror/internal/poller"
)

// SnapshotReader is the read side of the resource store.
type SnapshotReader interface {
	Load(resource domain.Resource) (json.RawMessage, time.Time, bool)
}

// Handler wires the read endpoints to the resource store. The read path never
// blocks on a fetch: it serves whatever snapshot is committed, or null before
// the first commit.
type Handler struct {
	store    SnapshotReader
	logger   *slog.Logger
	statusFn func() map[string]poller.Status
}

// NewHandler constructs a Handler.
func NewHandler(store SnapshotReader, logger *slog.Logger, statusFn func() map[string]poller.Status) *Handler {
	return &Handler{
		store:    store,
		logger:   logger,
		statusFn: statusFn,
	}
}

// Health reports the service is up.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodGet {
		writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic: every scheduled job must be healthy.
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodGet {
		writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	if h.statusFn == nil {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}

	for name, st := range h.statusFn() {
		if !st.IsReady() {
			msg := st.LastError
			if msg == "" {
				msg = name + " not ready"
			}
			writeError(w, r, nethttp.StatusServiceUnavailable, msg, h.logger)
			return
		}
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
}

// Snapshot returns the handler for one resource's read endpoint.
func (h *Handler) Snapshot(resource domain.Resource) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodGet {
			writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
			return
		}

		raw, updatedAt, ok := h.store.Load(resource)
		logger := logging.FromContext(r.Context(), h.logger)

		if !ok {
			// Nothing fetched yet; the contract is an explicit null body.
			writeRaw(w, nethttp.StatusOK, json.RawMessage("null"), h.logger)
			logging.Info(logger, "served empty snapshot", slog.String(logging.FieldResource, resource.String()))
			return
		}

		if !updatedAt.IsZero() {
			w.Header().Set("Last-Modified", updatedAt.UTC().Format(nethttp.TimeFormat))
		}
		writeRaw(w, nethttp.StatusOK, raw, h.logger)
		logging.Info(logger, "served snapshot",
			slog.String(logging.FieldResource, resource.String()),
			slog.Int("bytes", len(raw)))
	}
}
