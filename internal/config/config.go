package config

// PollConfig carries the fixed interval for each scheduled fetch.
type PollConfig struct {
	SimInterval     Duration
	TeamsInterval   Duration
	PlayersInterval Duration
	GamesInterval   Duration
}

// RetryConfig carries the shared retry policy knobs.
type RetryConfig struct {
	Attempts    int
	Delay       Duration
	PlayerDelay Duration
}

// Config holds runtime configuration for the server.
type Config struct {
	Port     string
	DataDir  string
	Upstream UpstreamConfig
	Auth     AuthConfig
	Poll     PollConfig
	Retry    RetryConfig
	Metrics  MetricsConfig
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:     envOrDefault(envPort, defaultPort),
		DataDir:  envOrDefault(envDataDir, defaultDataDir),
		Upstream: loadUpstream(),
		Auth:     loadAuth(),
		Poll: PollConfig{
			SimInterval:     durationEnvOrDefault(envSimInterval, defaultSimInterval),
			TeamsInterval:   durationEnvOrDefault(envTeamsInterval, defaultTeamsInterval),
			PlayersInterval: durationEnvOrDefault(envPlayersInterval, defaultPlayersInterval),
			GamesInterval:   durationEnvOrDefault(envGamesInterval, defaultGamesInterval),
		},
		Retry: RetryConfig{
			Attempts:    intEnvOrDefault(envRetryAttempts, defaultRetryAttempts),
			Delay:       durationEnvOrDefault(envRetryDelay, defaultRetryDelay),
			PlayerDelay: durationEnvOrDefault(envPlayerDelay, defaultPlayerDelay),
		},
		Metrics: loadMetrics(),
	}
}
