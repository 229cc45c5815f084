package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"league-mirror/internal/auth"
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config controls how the client reaches the simulation API.
type Config struct {
	BaseURL    string
	Credential auth.Provider
	HTTPClient *http.Client
}

// Client performs authenticated GETs against the simulation API and returns
// raw JSON payloads. It is stateless apart from the injected credential
// provider.
type Client struct {
	baseURL    string
	credential auth.Provider
	httpClient httpDoer
}

// NewClient constructs a client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		credential: cfg.Credential,
		httpClient: resolveHTTPClient(cfg.HTTPClient),
	}
}

// Get fetches path and returns the response body for any 2xx status. Non-2xx
// responses yield a *StatusError carrying the code and a truncated body;
// transport errors are returned unchanged.
func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}

	if c.credential != nil {
		cred, credErr := c.credential.Credential(ctx)
		if credErr != nil {
			return nil, fmt.Errorf("resolve credential: %w", credErr)
		}
		for name, value := range cred {
			req.AddCookie(&http.Cookie{Name: name, Value: value})
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// SimPath is the simulation-state endpoint.
func SimPath() string {
	return "/sim/"
}

// TeamsPath builds the season/day teams endpoint.
func TeamsPath(seasonID string, day int) string {
	return fmt.Sprintf("/seasons/%s/days/%d/teams", url.PathEscape(seasonID), day)
}

// PlayerPath builds the per-player endpoint.
func PlayerPath(seasonID string, day int, playerID string) string {
	return fmt.Sprintf("/seasons/%s/days/%d/players/%s", url.PathEscape(seasonID), day, url.PathEscape(playerID))
}

// GamesPath builds the fixed-season games endpoint.
func GamesPath(seasonID string) string {
	return fmt.Sprintf("/seasons/%s/games", url.PathEscape(seasonID))
}

// SignInPath is the auth collaborator's endpoint, exposed for wiring.
func SignInPath(baseURL string) string {
	return normalizeBaseURL(baseURL) + "/auth/sign-in"
}

func resolveHTTPClient(client *http.Client) httpDoer {
	if client != nil {
		return client
	}
	return &http.Client{Timeout: defaultHTTPTimeout}
}

func normalizeBaseURL(raw string) string {
	if raw == "" {
		raw = defaultBaseURL
	}
	return strings.TrimSuffix(raw, "/")
}
