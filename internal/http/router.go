package http

import (
	nethttp "net/http"

	"league-mirror/internal/domain"
	"league-mirror/internal/http/handlers"
)

// NewRouter registers the read endpoints on a ServeMux.
func NewRouter(handler *handlers.Handler) nethttp.Handler {
	mux := nethttp.NewServeMux()
	mux.HandleFunc("/health", handler.Health)
	mux.HandleFunc("/ready", handler.Ready)
	mux.HandleFunc("/sim", handler.Snapshot(domain.ResourceSim))
	mux.HandleFunc("/teams", handler.Snapshot(domain.ResourceTeams))
	mux.HandleFunc("/players", handler.Snapshot(domain.ResourcePlayers))
	mux.HandleFunc("/games", handler.Snapshot(domain.ResourceGames))
	return mux
}
