package server

import (
	"context"

	"league-mirror/internal/poller"
)

// Scheduler defines the minimal scheduler behavior needed by the server.
type Scheduler interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Statuses() map[string]poller.Status
}
