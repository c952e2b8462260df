package handler

import (
	"context"
	"net/http"

	"cards-marketplace/internal/middleware"
	"cards-marketplace/internal/sandbox"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig carries what NewRouter needs to mount the sandbox API
type RouterConfig struct {
	Service        *sandbox.Service
	AllowedOrigins []string
	OpenAPI        *middleware.OpenAPIValidatorConfig
	// Per-IP limits for /login and /register, and for authenticated routes
	AuthRPS, AuthBurst float64
	APIRPS, APIBurst   float64
}

// NewRouter mounts the marketplace API. Rate limiter cleanup stops when ctx ends.
func NewRouter(ctx context.Context, cfg RouterConfig) chi.Router {
	authHandler := NewAuthHandler(cfg.Service)
	cardHandler := NewCardHandler(cfg.Service)
	tradeHandler := NewTradeHandler(cfg.Service)

	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestContext())
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.Metrics())
	r.Use(middleware.OpenAPIValidator(cfg.OpenAPI))

	r.Get("/health", Health)
	r.Get("/health/ready", Ready(map[string]Checker{
		"catalog": cfg.Service.CheckCatalog,
		"tokens":  cfg.Service.CheckTokens,
	}))
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Cannot "+r.Method+" "+r.URL.Path)
	})

	authLimiter := middleware.NewRateLimiter(ctx, orDefault(cfg.AuthRPS, 5), int(orDefault(cfg.AuthBurst, 10)))
	apiLimiter := middleware.NewRateLimiter(ctx, orDefault(cfg.APIRPS, 20), int(orDefault(cfg.APIBurst, 50)))

	r.Group(func(r chi.Router) {
		r.Use(authLimiter.Middleware())
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(apiLimiter.Middleware())
		r.Get("/cards", cardHandler.List)
		r.Get("/trades", tradeHandler.List)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.Service))

			r.Get("/me", authHandler.Me)
			r.Get("/me/cards", cardHandler.Mine)
			r.Post("/me/cards", cardHandler.Add)
			r.Post("/trades", tradeHandler.Create)
			r.Delete("/trades/{id}", tradeHandler.Delete)
		})
	})

	return r
}

func orDefault(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}
