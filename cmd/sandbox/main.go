// Command sandbox serves an in-memory copy of the cards-marketplace API for
// local development of the marketplace client.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cards-marketplace/internal/config"
	"cards-marketplace/internal/domain"
	"cards-marketplace/internal/handler"
	"cards-marketplace/internal/middleware"
	"cards-marketplace/internal/observability"
	"cards-marketplace/internal/sandbox"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := cfg.ValidateSandbox(); err != nil {
		slog.Error("invalid sandbox configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	observability.InitLogger(cfg.LogLevel, "json")

	slog.Info("starting sandbox server", slog.String("environment", cfg.Environment))

	tokens, err := sandbox.NewTokenIssuer(cfg.SessionSecret, cfg.TokenTTL)
	if err != nil {
		slog.Error("failed to create token issuer", slog.String("error", err.Error()))
		os.Exit(1)
	}

	store := sandbox.NewStore()
	svc := sandbox.NewService(store, tokens)

	seeded := sandbox.SeedCatalog(store)
	slog.Info("catalog seeded", slog.Int("cards", seeded))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.DemoEmail != "" {
		ensureDemoUser(ctx, svc, cfg.DemoEmail, cfg.DemoPassword)
	}

	openAPI := middleware.DefaultOpenAPIValidatorConfig(sandbox.OpenAPISpec)
	openAPI.Enabled = cfg.OpenAPIEnabled
	openAPI.ValidateResponses = cfg.IsDevelopment()

	r := handler.NewRouter(ctx, handler.RouterConfig{
		Service:        svc,
		AllowedOrigins: cfg.Origins(),
		OpenAPI:        openAPI,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("sandbox listening", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", slog.String("error", err.Error()))
	}

	cancel()

	slog.Info("server stopped gracefully")
}

// ensureDemoUser creates the demo account with a few cards and an open trade
func ensureDemoUser(ctx context.Context, svc *sandbox.Service, email, password string) {
	user, err := sandbox.SeedDemo(ctx, svc, email, password)

	switch {
	case err == nil:
		slog.Info("created demo user",
			slog.String("email", email),
			slog.String("id", user.ID))

	case errors.Is(err, domain.ErrEmailExists):
		slog.Info("demo user already exists", slog.String("email", email))

	default:
		slog.Error("failed to create demo user", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
