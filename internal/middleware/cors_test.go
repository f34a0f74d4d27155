package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/guideworks/guide-lab/internal/config"
	"github.com/guideworks/guide-lab/internal/middleware"
)

func corsRequest(t *testing.T, cfg *config.CORSConfig, method, origin string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	})

	wrapped := middleware.CORS(cfg)(handler)

	req := httptest.NewRequest(method, "/test", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	return rec, handlerCalled
}

func TestCORS_Disabled(t *testing.T) {
	cfg := &config.CORSConfig{
		Enabled: false,
		Origins: []string{"http://example.com"},
	}

	rec, _ := corsRequest(t, cfg, "GET", "http://example.com")

	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("expected no CORS headers while disabled")
	}
}

func TestCORS_AllowedOrigin(t *testing.T) {
	cfg := &config.CORSConfig{
		Enabled:        true,
		Origins:        []string{"http://example.com"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type"},
	}

	rec, _ := corsRequest(t, cfg, "GET", "http://example.com")

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Errorf("expected allowed origin to echo back, got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST" {
		t.Errorf("unexpected Access-Control-Allow-Methods %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type" {
		t.Errorf("unexpected Access-Control-Allow-Headers %q", got)
	}
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	cfg := &config.CORSConfig{
		Enabled: true,
		Origins: []string{"http://example.com"},
	}

	rec, _ := corsRequest(t, cfg, "GET", "http://malicious.com")

	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("expected no CORS headers for a foreign origin")
	}
}

func TestCORS_CredentialsAndMaxAge(t *testing.T) {
	cfg := &config.CORSConfig{
		Enabled:          true,
		Origins:          []string{"http://example.com"},
		AllowedMethods:   []string{"GET"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           3600,
	}

	rec, _ := corsRequest(t, cfg, "GET", "http://example.com")

	if rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("expected Access-Control-Allow-Credentials to be true")
	}
	if rec.Header().Get("Access-Control-Max-Age") != "3600" {
		t.Errorf("unexpected Access-Control-Max-Age %q", rec.Header().Get("Access-Control-Max-Age"))
	}
}

func TestCORS_Preflight(t *testing.T) {
	cfg := &config.CORSConfig{
		Enabled:        true,
		Origins:        []string{"http://example.com"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type"},
	}

	rec, handlerCalled := corsRequest(t, cfg, "OPTIONS", "http://example.com")

	if handlerCalled {
		t.Error("expected the preflight to be answered before the handler")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://example.com" {
		t.Error("expected CORS headers on the preflight response")
	}
}

func TestCORS_MultipleOrigins(t *testing.T) {
	cfg := &config.CORSConfig{
		Enabled:        true,
		Origins:        []string{"http://example.com", "http://localhost:5173"},
		AllowedMethods: []string{"GET"},
		AllowedHeaders: []string{"Content-Type"},
	}

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"http://example.com", true},
		{"http://localhost:5173", true},
		{"http://malicious.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			rec, _ := corsRequest(t, cfg, "GET", tt.origin)

			got := rec.Header().Get("Access-Control-Allow-Origin")
			if tt.allowed && got != tt.origin {
				t.Errorf("expected %q, got %q", tt.origin, got)
			}
			if !tt.allowed && got != "" {
				t.Errorf("expected no CORS headers, got %q", got)
			}
		})
	}
}
