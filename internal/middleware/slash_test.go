package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/guideworks/guide-lab/internal/middleware"
)

func TestTrimSlash(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	wrapped := middleware.TrimSlash()(handler)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantTarget string
	}{
		{"trailing slash redirects", "/api/guides/", http.StatusMovedPermanently, "/api/guides"},
		{"query survives redirect", "/api/guides/?session=abc", http.StatusMovedPermanently, "/api/guides?session=abc"},
		{"canonical path passes through", "/api/guides", http.StatusOK, ""},
		{"root is preserved", "/", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			rec := httptest.NewRecorder()
			wrapped.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantTarget != "" && rec.Header().Get("Location") != tt.wantTarget {
				t.Errorf("expected redirect to %q, got %q", tt.wantTarget, rec.Header().Get("Location"))
			}
		})
	}
}
