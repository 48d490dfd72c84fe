package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAPIKeyAuthAccepts(t *testing.T) {
	handler := APIKeyAuth("secret")(okHandler())

	req := httptest.NewRequest("GET", "/v1/projects", nil)
	req.Header.Set("X-API-Key", "secret")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("valid key rejected with status %d", rec.Code)
	}
}

func TestAPIKeyAuthRejects(t *testing.T) {
	handler := APIKeyAuth("secret")(okHandler())

	tests := []struct {
		name string
		key  string
	}{
		{"wrong key", "wrong"},
		{"missing key", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/projects", nil)
			if tt.key != "" {
				req.Header.Set("X-API-Key", tt.key)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestAPIKeyAuthDisabledWhenEmpty(t *testing.T) {
	handler := APIKeyAuth("")(okHandler())

	req := httptest.NewRequest("GET", "/v1/projects", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("empty configured key should disable auth, got %d", rec.Code)
	}
}
