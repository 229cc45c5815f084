package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"league-mirror/internal/logging"
)

// Credential is the opaque session material attached to every upstream
// request: cookie name to value.
type Credential map[string]string

// Provider yields a credential valid for one upstream request.
type Provider interface {
	Credential(ctx context.Context) (Credential, error)
}

// Static wraps a fixed credential, primarily for tests.
type Static Credential

func (s Static) Credential(context.Context) (Credential, error) {
	return Credential(s), nil
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config controls credential resolution order: environment variable, cookie
// file, then a sign-in request.
type Config struct {
	CookiesEnv string // raw cookie JSON already present in the environment
	CookieFile string
	Email      string
	Password   string
	SignInURL  string
	HTTPClient *http.Client
}

// ChainProvider resolves a credential once and caches it for the process
// lifetime. Resolution order follows the original bootstrap: env var beats
// cookie file beats live sign-in; a freshly acquired credential is persisted
// back to the cookie file.
type ChainProvider struct {
	cfg    Config
	client httpDoer
	logger *slog.Logger

	mu     sync.Mutex
	cached Credential
}

// NewChainProvider constructs the default credential chain.
func NewChainProvider(cfg Config, logger *slog.Logger) *ChainProvider {
	var client httpDoer = cfg.HTTPClient
	if cfg.HTTPClient == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &ChainProvider{cfg: cfg, client: client, logger: logger}
}

// Credential returns the cached credential, resolving it on first use.
func (p *ChainProvider) Credential(ctx context.Context) (Credential, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != nil {
		return p.cached, nil
	}

	cred, err := p.resolve(ctx)
	if err != nil {
		return nil, err
	}
	p.cached = cred
	return cred, nil
}

func (p *ChainProvider) resolve(ctx context.Context) (Credential, error) {
	if raw := strings.TrimSpace(p.cfg.CookiesEnv); raw != "" {
		cred, err := parseCookieJSON([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("cookie env var: %w", err)
		}
		logging.Info(p.logger, "credential loaded from environment")
		return cred, nil
	}

	if p.cfg.CookieFile != "" {
		data, err := os.ReadFile(p.cfg.CookieFile)
		if err == nil {
			cred, parseErr := parseCookieJSON(data)
			if parseErr != nil {
				return nil, fmt.Errorf("cookie file %s: %w", p.cfg.CookieFile, parseErr)
			}
			logging.Info(p.logger, "credential loaded from file", slog.String("path", p.cfg.CookieFile))
			return cred, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("cookie file %s: %w", p.cfg.CookieFile, err)
		}
	}

	return p.signIn(ctx)
}

func (p *ChainProvider) signIn(ctx context.Context) (Credential, error) {
	if p.cfg.Email == "" || p.cfg.Password == "" {
		return nil, errors.New("no cookie material and no sign-in credentials configured")
	}
	if p.cfg.SignInURL == "" {
		return nil, errors.New("sign-in url not configured")
	}

	body, err := json.Marshal(map[string]string{
		"email":    p.cfg.Email,
		"password": p.cfg.Password,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.SignInURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	logging.Info(p.logger, "requesting credential via sign-in")
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sign-in request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("sign-in failed with status %d", resp.StatusCode)
	}

	cred := make(Credential)
	for _, c := range resp.Cookies() {
		cred[c.Name] = c.Value
	}
	if len(cred) == 0 {
		return nil, errors.New("sign-in response carried no cookies")
	}

	p.persist(cred)
	return cred, nil
}

// persist mirrors the credential to the cookie file so restarts skip sign-in.
// Failures are logged only; the in-memory credential is still usable.
func (p *ChainProvider) persist(cred Credential) {
	if p.cfg.CookieFile == "" {
		return
	}
	data, err := json.Marshal(cred)
	if err != nil {
		logging.Error(p.logger, "failed to encode credential", err)
		return
	}
	if err := os.WriteFile(p.cfg.CookieFile, data, 0o600); err != nil {
		logging.Error(p.logger, "failed to persist credential", err, slog.String("path", p.cfg.CookieFile))
	}
}

func parseCookieJSON(data []byte) (Credential, error) {
	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, err
	}
	if len(cred) == 0 {
		return nil, errors.New("empty cookie set")
	}
	return cred, nil
}
