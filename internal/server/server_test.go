package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"symptomdx/internal/config"
	"symptomdx/internal/models"
	"symptomdx/internal/session"
	"symptomdx/internal/testutil"
)

type stubVerifier struct{}

func (stubVerifier) Verify(ctx context.Context, raw string) (*models.Caller, error) {
	if raw == "valid" {
		return &models.Caller{Sub: "sub-" + raw}, nil
	}
	return nil, errors.New("rejected")
}

func newTestServer(t *testing.T, rateLimit int, auth bool) *Server {
	t.Helper()
	cfg := &config.Config{ServerAddr: ":0", RateLimit: rateLimit, CORSOrigins: "https://example.com"}
	srv := New(cfg)

	var verifier stubVerifier
	store := session.New(session.NewMemory(), time.Minute)
	if auth {
		srv.RegisterRoutes(testutil.Engine(t), store, verifier)
	} else {
		srv.RegisterRoutes(testutil.Engine(t), store, nil)
	}
	return srv
}

func request(t *testing.T, srv *Server, method, path, token string) (*http.Response, string) {
	t.Helper()
	req, _ := http.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.App.Test(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	return resp, string(body)
}

func TestRoutes_PublicEndpoints(t *testing.T) {
	srv := newTestServer(t, 0, false)

	resp, body := request(t, srv, "GET", "/healthz", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `"status":"ok"`) {
		t.Errorf("/healthz = %d %s", resp.StatusCode, body)
	}

	resp, body = request(t, srv, "GET", "/metrics", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "go_goroutines") {
		t.Errorf("/metrics = %d", resp.StatusCode)
	}

	resp, _ = request(t, srv, "GET", "/api/symptoms", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("/api/symptoms without auth = %d, want 200", resp.StatusCode)
	}
}

func TestRoutes_NotFoundUsesJSONEnvelope(t *testing.T) {
	srv := newTestServer(t, 0, false)

	resp, body := request(t, srv, "GET", "/nope", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	var env struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		t.Fatalf("body is not JSON: %q", body)
	}
	if env.Status != "error" || env.Error == "" {
		t.Errorf("envelope = %+v", env)
	}
}

func TestRoutes_AuthRequired(t *testing.T) {
	srv := newTestServer(t, 0, true)

	tests := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"no token", "/api/symptoms", "", http.StatusUnauthorized},
		{"bad token", "/api/symptoms", "forged", http.StatusUnauthorized},
		{"good token", "/api/symptoms", "valid", http.StatusOK},
		{"health stays public", "/healthz", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := request(t, srv, "GET", tt.path, tt.token)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d: %s", resp.StatusCode, tt.status, body)
			}
		})
	}
}

func TestRoutes_SessionOwnedByCaller(t *testing.T) {
	srv := newTestServer(t, 0, true)

	resp, body := request(t, srv, "POST", "/api/sessions", "valid")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create = %d %s", resp.StatusCode, body)
	}
	var env struct {
		Data models.SessionResponse `json:"data"`
	}
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		t.Fatal(err)
	}

	resp, _ = request(t, srv, "GET", "/api/sessions/"+env.Data.ID.String(), "valid")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("owner get = %d, want 200", resp.StatusCode)
	}
}

func TestRoutes_RateLimit(t *testing.T) {
	srv := newTestServer(t, 2, false)

	for i := 0; i < 2; i++ {
		resp, _ := request(t, srv, "GET", "/api/symptoms", "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d = %d", i+1, resp.StatusCode)
		}
	}
	resp, body := request(t, srv, "GET", "/api/symptoms", "")
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", resp.StatusCode)
	}
	if !strings.Contains(body, "Rate limit exceeded") {
		t.Errorf("body = %s", body)
	}

	resp, _ = request(t, srv, "GET", "/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("/healthz should not be rate limited, got %d", resp.StatusCode)
	}
}
