package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"cards-marketplace/internal/domain"
)

// AssertNoError stops the test on err
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertNotNil stops the test when v is nil or a typed nil pointer, map or slice
func AssertNotNil(t *testing.T, v any) {
	t.Helper()
	if v == nil {
		t.Fatal("expected a value, got nil")
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			t.Fatalf("expected a value, got nil %T", v)
		}
	}
}

func AssertEqual[T comparable](t *testing.T, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func AssertNotEqual[T comparable](t *testing.T, got, unwanted T) {
	t.Helper()
	if got == unwanted {
		t.Errorf("got %v, want anything else", got)
	}
}

func AssertTrue(t *testing.T, cond bool, msg string) {
	t.Helper()
	if !cond {
		t.Errorf("want true: %s", msg)
	}
}

func AssertFalse(t *testing.T, cond bool, msg string) {
	t.Helper()
	if cond {
		t.Errorf("want false: %s", msg)
	}
}

func AssertContains(t *testing.T, s, sub string) {
	t.Helper()
	if !strings.Contains(s, sub) {
		t.Errorf("%q does not contain %q", s, sub)
	}
}

func AssertNotContains(t *testing.T, s, sub string) {
	t.Helper()
	if strings.Contains(s, sub) {
		t.Errorf("%q unexpectedly contains %q", s, sub)
	}
}

// AssertLen checks the number of elements in a decoded list
func AssertLen[T any](t *testing.T, items []T, n int) {
	t.Helper()
	if len(items) != n {
		t.Errorf("got %d items, want %d", len(items), n)
	}
}

// Responses

func AssertStatusCode(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Errorf("status %d, want %d; body: %s", w.Code, want, w.Body.String())
	}
}

func AssertHeader(t *testing.T, w *httptest.ResponseRecorder, key, want string) {
	t.Helper()
	if got := w.Header().Get(key); got != want {
		t.Errorf("header %s = %q, want %q", key, got, want)
	}
}

// AssertJSONContains checks one top-level field of a JSON object body.
// Numbers decode as float64.
func AssertJSONContains(t *testing.T, w *httptest.ResponseRecorder, key string, want any) {
	t.Helper()

	var fields map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &fields); err != nil {
		t.Fatalf("body is not a JSON object: %v; body: %s", err, w.Body.String())
	}
	got, ok := fields[key]
	if !ok {
		t.Errorf("body has no %q field: %s", key, w.Body.String())
		return
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("%s = %v (%T), want %v (%T)", key, got, got, want, want)
	}
}

// AssertJSONError checks the status and decodes the API error body, whose
// message must contain msg and whose statusCode must match the response.
func AssertJSONError(t *testing.T, w *httptest.ResponseRecorder, status int, msg string) {
	t.Helper()
	AssertStatusCode(t, w, status)

	var body domain.ErrorBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not an error payload: %v; body: %s", err, w.Body.String())
	}
	if !strings.Contains(body.Message, msg) {
		t.Errorf("error message %q does not contain %q", body.Message, msg)
	}
	if body.StatusCode != status {
		t.Errorf("error statusCode %d, want %d", body.StatusCode, status)
	}
	if body.Error != http.StatusText(status) {
		t.Errorf("error %q, want %q", body.Error, http.StatusText(status))
	}
}

// Requests

// NewJSONRequest builds a request with body encoded as JSON. A nil body sends
// no payload.
func NewJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode request body: %v", err)
		}
		payload = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, payload)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewAuthRequest is NewJSONRequest with a bearer token
func NewAuthRequest(t *testing.T, method, target, token string, body any) *http.Request {
	t.Helper()
	req := NewJSONRequest(t, method, target, body)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func DecodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %T: %v; body: %s", v, err, w.Body.String())
	}
	return v
}
