package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"cards-marketplace/internal/observability"
	"cards-marketplace/internal/testutil"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func TestRequestContext_PropagatesIncomingID(t *testing.T) {
	var logged string
	handler := chimiddleware.RequestID(RequestContext()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logged = observability.RequestID(r.Context())
	})))

	req := httptest.NewRequest(http.MethodGet, "/cards", nil)
	req.Header.Set("X-Request-ID", "client-abc")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	testutil.AssertEqual(t, logged, "client-abc")
	testutil.AssertHeader(t, w, "X-Request-ID", "client-abc")
}

func TestRequestContext_GeneratesID(t *testing.T) {
	var logged string
	handler := chimiddleware.RequestID(RequestContext()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logged = observability.RequestID(r.Context())
	})))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cards", nil))

	testutil.AssertNotEqual(t, logged, "")
	testutil.AssertEqual(t, w.Header().Get("X-Request-ID"), logged)
}

func TestRequestContext_WithoutChiRequestID(t *testing.T) {
	called := false
	handler := RequestContext()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cards", nil))

	testutil.AssertTrue(t, called, "next handler should run")
	testutil.AssertEqual(t, w.Header().Get("X-Request-ID"), "")
}
