package config

import "time"

const (
	envPort            = "PORT"
	envDataDir         = "DATA_DIR"
	envSimInterval     = "SIM_POLL_INTERVAL"
	envTeamsInterval   = "TEAMS_POLL_INTERVAL"
	envPlayersInterval = "PLAYERS_POLL_INTERVAL"
	envGamesInterval   = "GAMES_POLL_INTERVAL"
	envRetryAttempts   = "FETCH_RETRY_ATTEMPTS"
	envRetryDelay      = "FETCH_RETRY_DELAY"
	envPlayerDelay     = "PLAYER_FETCH_DELAY"
	envMetricsPort     = "METRICS_PORT"
	envMetricsOn       = "METRICS_ENABLED"
	envOtelEndpoint    = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService     = "OTEL_SERVICE_NAME"
	envOtelInsecure    = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort        = "5000"
	defaultDataDir     = "data"
	defaultMetricsPort = "9090"

	// Poll cadences mirror the upstream's update rhythm; players move rarely,
	// so that schedule is the slow one.
	defaultSimInterval     = 20 * Duration(time.Minute)
	defaultTeamsInterval   = 20 * Duration(time.Minute)
	defaultPlayersInterval = 60 * Duration(time.Minute)
	defaultGamesInterval   = 20 * Duration(time.Minute)

	defaultRetryAttempts = 3
	defaultRetryDelay    = 5 * Duration(time.Second)
	// Spacing between per-player requests to stay under upstream quotas.
	defaultPlayerDelay = 100 * Duration(time.Millisecond)
)
