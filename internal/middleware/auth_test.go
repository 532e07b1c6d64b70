package middleware

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"

	"symptomdx/internal/models"
)

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{"standard", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"lowercase scheme", "bearer abc", "abc"},
		{"extra spaces", "  Bearer   abc  ", "abc"},
		{"basic auth", "Basic dXNlcjpwYXNz", ""},
		{"scheme only", "Bearer", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractBearerToken(tt.header); got != tt.expected {
				t.Errorf("extractBearerToken(%q) = %q, want %q", tt.header, got, tt.expected)
			}
		})
	}
}

type stubVerifier map[string]*models.Caller

func (s stubVerifier) Verify(ctx context.Context, raw string) (*models.Caller, error) {
	if c, ok := s[raw]; ok {
		return c, nil
	}
	return nil, errors.New("token rejected")
}

func newAuthApp() *fiber.App {
	m := NewAuthMiddleware(stubVerifier{"good": {Sub: "sub-1", Name: "Ada"}})
	app := fiber.New()
	app.Get("/me", m.RequireAuth, func(c fiber.Ctx) error {
		return c.SendString(CallerFrom(c).DisplayName())
	})
	app.Get("/open", func(c fiber.Ctx) error {
		if CallerFrom(c) != nil {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func TestRequireAuth(t *testing.T) {
	app := newAuthApp()

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid token", "Bearer good", fiber.StatusOK, "Ada"},
		{"invalid token", "Bearer bad", fiber.StatusUnauthorized, ""},
		{"missing header", "", fiber.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if tt.wantBody != "" {
				body, _ := io.ReadAll(resp.Body)
				if string(body) != tt.wantBody {
					t.Errorf("body = %q, want %q", body, tt.wantBody)
				}
			}
		})
	}
}

func TestCallerFrom_NoAuth(t *testing.T) {
	resp, err := newAuthApp().Test(httptest.NewRequest("GET", "/open", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != fiber.StatusNoContent {
		t.Errorf("status = %d, want 204", resp.StatusCode)
	}
}
