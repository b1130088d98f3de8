package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fdg312/fitbot/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestCORSMiddleware(t *testing.T) {
	const app = "https://app.example.com"

	tests := []struct {
		name        string
		method      string
		origin      string
		preflight   string // Access-Control-Request-Method
		credentials bool

		wantStatus      int
		wantInner       bool
		wantAllowOrigin string
		wantMaxAge      string
		wantCredentials string
	}{
		{
			name: "preflight from app", method: http.MethodOptions, origin: app, preflight: http.MethodPost,
			wantStatus: http.StatusNoContent, wantAllowOrigin: app, wantMaxAge: "600",
		},
		{
			name: "preflight from unknown origin", method: http.MethodOptions, origin: "https://evil.com", preflight: http.MethodDelete,
			wantStatus: http.StatusNoContent,
		},
		{
			name: "get from app with credentials", method: http.MethodGet, origin: app, credentials: true,
			wantStatus: http.StatusOK, wantInner: true, wantAllowOrigin: app, wantCredentials: "true",
		},
		{
			name: "get from unknown origin", method: http.MethodGet, origin: "https://evil.com",
			wantStatus: http.StatusOK, wantInner: true,
		},
		{
			name: "get without origin", method: http.MethodGet,
			wantStatus: http.StatusOK, wantInner: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				CORSAllowedOrigins:   []string{" " + app + " ", ""},
				CORSAllowCredentials: tt.credentials,
			}
			inner := false
			handler := CORSMiddleware(cfg, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				inner = true
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(tt.method, "/v1/meals", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.preflight != "" {
				req.Header.Set("Access-Control-Request-Method", tt.preflight)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantInner, inner)
			assert.Equal(t, tt.wantAllowOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantMaxAge, rr.Header().Get("Access-Control-Max-Age"))
			assert.Equal(t, tt.wantCredentials, rr.Header().Get("Access-Control-Allow-Credentials"))
			if tt.wantAllowOrigin != "" && tt.preflight != "" {
				assert.NotEmpty(t, rr.Header().Get("Access-Control-Allow-Methods"))
			}
		})
	}
}

func TestCORSMiddleware_NoOriginsDeniesAll(t *testing.T) {
	handler := CORSMiddleware(&config.Config{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/meals", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}
