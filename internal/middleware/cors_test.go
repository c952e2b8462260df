package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"cards-marketplace/internal/testutil"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORS_AllowedOrigin(t *testing.T) {
	tests := []struct {
		name           string
		allowedOrigins []string
		requestOrigin  string
		shouldAllow    bool
	}{
		{
			name:           "allowed origin",
			allowedOrigins: []string{"http://localhost:5173", "http://example.com"},
			requestOrigin:  "http://localhost:5173",
			shouldAllow:    true,
		},
		{
			name:           "allowed second origin",
			allowedOrigins: []string{"http://localhost:5173", "http://example.com"},
			requestOrigin:  "http://example.com",
			shouldAllow:    true,
		},
		{
			name:           "disallowed origin",
			allowedOrigins: []string{"http://localhost:5173"},
			requestOrigin:  "http://malicious.com",
			shouldAllow:    false,
		},
		{
			name:           "empty origin",
			allowedOrigins: []string{"*"},
			requestOrigin:  "",
			shouldAllow:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := CORS(tt.allowedOrigins)(okHandler())

			req := httptest.NewRequest(http.MethodGet, "/cards", nil)
			if tt.requestOrigin != "" {
				req.Header.Set("Origin", tt.requestOrigin)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			accessControlHeader := w.Header().Get("Access-Control-Allow-Origin")
			if tt.shouldAllow {
				testutil.AssertEqual(t, accessControlHeader, tt.requestOrigin)
			} else {
				testutil.AssertEqual(t, accessControlHeader, "")
			}
		})
	}
}

func TestCORS_WildcardOrigin(t *testing.T) {
	handler := CORS([]string{"*"})(okHandler())

	for _, origin := range []string{"http://localhost:3000", "https://secure.site.com"} {
		t.Run(origin, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/cards", nil)
			req.Header.Set("Origin", origin)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			testutil.AssertEqual(t, w.Header().Get("Access-Control-Allow-Origin"), origin)
			testutil.AssertEqual(t, w.Header().Get("Vary"), "Origin")
		})
	}
}

func TestCORS_PreflightRequest(t *testing.T) {
	nextHandlerCalled := false
	handler := CORS([]string{"http://localhost:5173"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextHandlerCalled = true
	}))

	req := httptest.NewRequest(http.MethodOptions, "/trades", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	testutil.AssertStatusCode(t, w, http.StatusNoContent)
	testutil.AssertFalse(t, nextHandlerCalled, "preflight should not call next handler")
	testutil.AssertEqual(t, w.Header().Get("Access-Control-Allow-Origin"), "http://localhost:5173")
}

func TestCORS_AllowedHeadersAndMethods(t *testing.T) {
	handler := CORS([]string{"http://localhost:5173"})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/cards", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	methods := w.Header().Get("Access-Control-Allow-Methods")
	testutil.AssertContains(t, methods, "GET")
	testutil.AssertContains(t, methods, "POST")
	testutil.AssertContains(t, methods, "DELETE")

	headers := w.Header().Get("Access-Control-Allow-Headers")
	testutil.AssertContains(t, headers, "Authorization")
	testutil.AssertContains(t, headers, "Content-Type")
	testutil.AssertContains(t, headers, "X-Request-ID")
	testutil.AssertHeader(t, w, "Access-Control-Expose-Headers", "X-Request-ID")
}

func TestCORS_RegularRequestPassesThrough(t *testing.T) {
	handler := CORS([]string{"http://localhost:5173"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("response body"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/cards", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	testutil.AssertStatusCode(t, w, http.StatusOK)
	testutil.AssertEqual(t, w.Body.String(), "response body")
}
