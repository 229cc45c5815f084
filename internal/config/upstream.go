package config

const (
	envUpstreamBaseURL = "UPSTREAM_BASE_URL"
	envGamesSeasonID   = "GAMES_SEASON_ID"
	envCookies         = "MIRROR_COOKIES"
	envCookieFile      = "MIRROR_COOKIE_FILE"
	envEmail           = "MIRROR_EMAIL"
	envPassword        = "MIRROR_PASSWORD"

	defaultUpstreamBaseURL = "https://api2.blaseball.com"
	// The games feed is pinned to one season upstream; this is its id.
	defaultGamesSeasonID = "cd1b6714-f4de-4dfc-a030-851b3459d8d1"
	defaultCookieFile    = "mirror_cookies.json"
)

// UpstreamConfig controls how we talk to the simulation API.
type UpstreamConfig struct {
	BaseURL       string
	GamesSeasonID string
}

// AuthConfig carries credential bootstrap material for the sign-in collaborator.
type AuthConfig struct {
	CookiesEnv string // raw cookie JSON injected via environment
	CookieFile string
	Email      string
	Password   string
}

func loadUpstream() UpstreamConfig {
	return UpstreamConfig{
		BaseURL:       envOrDefault(envUpstreamBaseURL, defaultUpstreamBaseURL),
		GamesSeasonID: envOrDefault(envGamesSeasonID, defaultGamesSeasonID),
	}
}

func loadAuth() AuthConfig {
	return AuthConfig{
		CookiesEnv: envOrDefault(envCookies, ""),
		CookieFile: envOrDefault(envCookieFile, defaultCookieFile),
		Email:      envOrDefault(envEmail, ""),
		Password:   envOrDefault(envPassword, ""),
	}
}
