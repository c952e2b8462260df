package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cards-marketplace/internal/testutil"
)

func TestHealth_ReturnsOK(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	Health(w, req)

	testutil.AssertStatusCode(t, w, http.StatusOK)
	testutil.AssertHeader(t, w, "Content-Type", "application/json")

	var response map[string]string
	err := json.NewDecoder(w.Body).Decode(&response)
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, response["status"], "ok")
}

func TestHealthCheckResult_OmitsEmptyFields(t *testing.T) {
	data, err := json.Marshal(HealthCheckResult{Status: "up"})
	testutil.AssertNoError(t, err)

	jsonStr := string(data)
	testutil.AssertNotContains(t, jsonStr, "latency_ms")
	testutil.AssertNotContains(t, jsonStr, "error")
}

type readyResponse struct {
	Status string                       `json:"status"`
	Checks map[string]HealthCheckResult `json:"checks"`
}

func TestReady(t *testing.T) {
	up := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("catalog is empty") }

	tests := []struct {
		name       string
		checks     map[string]Checker
		wantStatus int
		wantState  string
	}{
		{"all up", map[string]Checker{"catalog": up, "tokens": up}, http.StatusOK, "ready"},
		{"one down", map[string]Checker{"catalog": down, "tokens": up}, http.StatusServiceUnavailable, "not_ready"},
		{"no checks", map[string]Checker{}, http.StatusOK, "ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			Ready(tt.checks)(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			testutil.AssertStatusCode(t, w, tt.wantStatus)
			resp := testutil.DecodeJSON[readyResponse](t, w)
			testutil.AssertEqual(t, resp.Status, tt.wantState)
			testutil.AssertEqual(t, len(resp.Checks), len(tt.checks))
		})
	}
}

func TestReady_ReportsFailingCheck(t *testing.T) {
	w := httptest.NewRecorder()
	Ready(map[string]Checker{
		"catalog": func(context.Context) error { return errors.New("catalog is empty") },
	})(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	resp := testutil.DecodeJSON[readyResponse](t, w)
	testutil.AssertEqual(t, resp.Checks["catalog"].Status, "down")
	testutil.AssertEqual(t, resp.Checks["catalog"].Error, "catalog is empty")
}

func TestRouter_OperationalEndpoints(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/health", http.StatusOK},
		{"/health/ready", http.StatusOK},
		{"/metrics", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := api.do(httptest.NewRequest(http.MethodGet, tt.path, nil))
			testutil.AssertStatusCode(t, w, tt.wantStatus)
			testutil.AssertNotEqual(t, w.Header().Get("X-Request-Id"), "")
		})
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(httptest.NewRequest(http.MethodGet, "/tournaments", nil))

	testutil.AssertJSONError(t, w, http.StatusNotFound, "Cannot GET /tournaments")
}
