package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cards-marketplace/internal/domain"
	"cards-marketplace/internal/middleware"
	"cards-marketplace/internal/sandbox"
	"cards-marketplace/internal/testutil"

	"golang.org/x/crypto/bcrypt"
)

type testAPI struct {
	router http.Handler
	svc    *sandbox.Service
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	store := sandbox.NewStore()
	sandbox.SeedCatalog(store)
	tokens, err := sandbox.NewTokenIssuer("handler-test-secret", time.Hour)
	testutil.AssertNoError(t, err)
	svc := sandbox.NewService(store, tokens, sandbox.WithBcryptCost(bcrypt.MinCost))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	router := NewRouter(ctx, RouterConfig{
		Service:        svc,
		AllowedOrigins: []string{"http://localhost:5173"},
		OpenAPI:        middleware.DefaultOpenAPIValidatorConfig(sandbox.OpenAPISpec),
		AuthRPS:        1000,
		AuthBurst:      1000,
		APIRPS:         1000,
		APIBurst:       1000,
	})
	return &testAPI{router: router, svc: svc}
}

func (a *testAPI) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// signUp registers and logs in a user, returning its id and bearer token
func (a *testAPI) signUp(t *testing.T, email string) (string, string) {
	t.Helper()

	w := a.do(testutil.NewJSONRequest(t, http.MethodPost, "/register", domain.RegisterRequest{
		Name:     "Duelist",
		Email:    email,
		Password: "password123",
	}))
	testutil.AssertStatusCode(t, w, http.StatusCreated)
	reg := testutil.DecodeJSON[domain.RegisterResponse](t, w)

	w = a.do(testutil.NewJSONRequest(t, http.MethodPost, "/login", domain.LoginRequest{
		Email:    email,
		Password: "password123",
	}))
	testutil.AssertStatusCode(t, w, http.StatusOK)
	auth := testutil.DecodeJSON[domain.AuthResponse](t, w)
	return reg.UserID, auth.Token
}
