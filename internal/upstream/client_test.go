package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"league-mirror/internal/auth"
)

func TestClientGetAttachesCookies(t *testing.T) {
	var gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("connect.sid"); err == nil {
			gotCookie = c.Value
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient(Config{
		BaseURL:    srv.URL,
		Credential: auth.Static{"connect.sid": "s3cret"},
	})

	raw, err := c.Get(context.Background(), "/sim/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != `{"ok":true}` {
		t.Fatalf("unexpected body: %s", raw)
	}
	if gotCookie != "s3cret" {
		t.Fatalf("expected session cookie on request, got %q", gotCookie)
	}
}

func TestClientGetStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.Get(context.Background(), "/sim/")
	se, ok := AsStatusError(err)
	if !ok {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Code != http.StatusInternalServerError || !se.Transient() {
		t.Fatalf("unexpected status error: %+v", se)
	}
	if !strings.Contains(se.Body, "upstream down") {
		t.Fatalf("expected body capture, got %q", se.Body)
	}
}

func TestClientGetNonTransientStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.Get(context.Background(), "/nope")
	se, ok := AsStatusError(err)
	if !ok || se.Transient() {
		t.Fatalf("expected non-transient StatusError, got %v", err)
	}
}

func TestClientGetTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // force connection failures

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.Get(context.Background(), "/sim/")
	if err == nil {
		t.Fatal("expected transport error")
	}
	if _, ok := AsStatusError(err); ok {
		t.Fatalf("transport failure must not be a StatusError: %v", err)
	}
}

func TestPathBuilders(t *testing.T) {
	if got := TeamsPath("s1", 7); got != "/seasons/s1/days/7/teams" {
		t.Fatalf("unexpected teams path: %s", got)
	}
	if got := PlayerPath("s1", 7, "p 1"); got != "/seasons/s1/days/7/players/p%201" {
		t.Fatalf("unexpected player path: %s", got)
	}
	if got := GamesPath("season"); got != "/seasons/season/games" {
		t.Fatalf("unexpected games path: %s", got)
	}
	if got := SignInPath("https://api.example.com/"); got != "https://api.example.com/auth/sign-in" {
		t.Fatalf("unexpected sign-in path: %s", got)
	}
}
