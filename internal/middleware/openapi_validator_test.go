package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cards-marketplace/internal/sandbox"
	"cards-marketplace/internal/testutil"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAPISpecIsValid(t *testing.T) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromData(sandbox.OpenAPISpec)
	require.NoError(t, err, "Failed to load OpenAPI spec")
	require.NoError(t, doc.Validate(loader.Context), "OpenAPI spec validation failed")

	assert.Equal(t, "Cards Marketplace API", doc.Info.Title)
	assert.NotEmpty(t, doc.Servers)
}

func TestAllRoutesAreDocumentedInOpenAPI(t *testing.T) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(sandbox.OpenAPISpec)
	require.NoError(t, err)

	implementedRoutes := []struct {
		method string
		path   string
	}{
		{"POST", "/login"},
		{"POST", "/register"},
		{"GET", "/me"},
		{"GET", "/me/cards"},
		{"POST", "/me/cards"},
		{"GET", "/cards"},
		{"GET", "/trades"},
		{"POST", "/trades"},
		{"DELETE", "/trades/{id}"},
	}

	for _, route := range implementedRoutes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			pathItem := doc.Paths.Find(route.path)
			require.NotNil(t, pathItem, "Path %s not found in OpenAPI spec", route.path)
			assert.NotNil(t, pathItem.GetOperation(route.method), "Method %s not documented for %s", route.method, route.path)
		})
	}
}

func TestLoadOpenAPIRouter_InvalidSpec(t *testing.T) {
	_, err := LoadOpenAPIRouter([]byte("openapi: 3.0.3\ninfo: ["))
	assert.Error(t, err)
}

func validatorHandler(t *testing.T) (http.Handler, *bool) {
	t.Helper()
	called := new(bool)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
	return OpenAPIValidator(DefaultOpenAPIValidatorConfig(sandbox.OpenAPISpec))(next), called
}

func TestOpenAPIValidator_Requests(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
		wantNext   bool
	}{
		{"valid login", http.MethodPost, "/login", `{"email":"a@b.co","password":"secret123"}`, http.StatusOK, true},
		{"login missing password", http.MethodPost, "/login", `{"email":"a@b.co"}`, http.StatusBadRequest, false},
		{"valid paging", http.MethodGet, "/cards?page=2&rpp=50", "", http.StatusOK, true},
		{"rpp over max", http.MethodGet, "/cards?rpp=500", "", http.StatusBadRequest, false},
		{"page not a number", http.MethodGet, "/trades?page=abc", "", http.StatusBadRequest, false},
		{"empty card list", http.MethodPost, "/me/cards", `{"cardIds":[]}`, http.StatusBadRequest, false},
		{"bad trade card type", http.MethodPost, "/trades", `{"cards":[{"cardId":"a","type":"SWAP"},{"cardId":"b","type":"RECEIVING"}]}`, http.StatusBadRequest, false},
		{"delete trade", http.MethodDelete, "/trades/abc", "", http.StatusOK, true},
		{"unknown path", http.MethodGet, "/tournaments", "", http.StatusNotFound, false},
		{"health skipped", http.MethodGet, "/health", "", http.StatusOK, true},
		{"metrics skipped", http.MethodGet, "/metrics", "", http.StatusOK, true},
		{"preflight skipped", http.MethodOptions, "/trades", "", http.StatusOK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, called := validatorHandler(t)

			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.target, nil)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			testutil.AssertStatusCode(t, w, tt.wantStatus)
			assert.Equal(t, tt.wantNext, *called)
			if tt.wantStatus >= 400 {
				testutil.AssertJSONContains(t, w, "statusCode", float64(tt.wantStatus))
			}
		})
	}
}

func TestOpenAPIValidator_BodyStillReadable(t *testing.T) {
	var got string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := new(strings.Builder)
		_, _ = io.Copy(buf, r.Body)
		got = buf.String()
	})
	handler := OpenAPIValidator(DefaultOpenAPIValidatorConfig(sandbox.OpenAPISpec))(next)

	body := `{"name":"Yugi","email":"yugi@example.com","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.JSONEq(t, body, got)
}

func TestOpenAPIValidator_Disabled(t *testing.T) {
	cfg := DefaultOpenAPIValidatorConfig(sandbox.OpenAPISpec)
	cfg.Enabled = false

	called := false
	handler := OpenAPIValidator(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/anything", nil))
	assert.True(t, called)
}

func TestOpenAPIValidator_BrokenSpecPassesThrough(t *testing.T) {
	called := false
	handler := OpenAPIValidator(DefaultOpenAPIValidatorConfig([]byte("not yaml: [")))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cards", nil))
	assert.True(t, called)
}
