// Package gateway is the single choke point for calls to the marketplace API.
// It attaches the bearer token, classifies responses and tears the session
// down when the server answers 401.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cards-marketplace/internal/observability"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const maxErrorBody = 1 << 20

// Session is what the gateway needs from the session store
type Session interface {
	Token() string
	Logout(ctx context.Context) error
}

// Gateway sends JSON requests to a fixed base URL
type Gateway struct {
	baseURL          string
	httpClient       *http.Client
	session          Session
	limiter          *rate.Limiter
	onSessionExpired func(ctx context.Context)
}

type Option func(*Gateway)

// WithHTTPClient replaces the default client (15s timeout)
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) { g.httpClient = c }
}

// WithTimeout sets the per-request timeout of the default client
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.httpClient.Timeout = d
		}
	}
}

// WithRateLimit throttles outgoing requests. A non-positive rps disables it.
func WithRateLimit(rps float64, burst int) Option {
	return func(g *Gateway) {
		if rps <= 0 {
			g.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithSessionExpiredHook is called after the session has been torn down by a
// 401 and before the error is returned. The CLI uses it to send the user back
// to the login flow.
func WithSessionExpiredHook(fn func(ctx context.Context)) Option {
	return func(g *Gateway) { g.onSessionExpired = fn }
}

// New creates a new Gateway for baseURL
func New(baseURL string, sess Session, opts ...Option) (*Gateway, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}
	if sess == nil {
		return nil, errors.New("session is required")
	}

	g := &Gateway{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		session:    sess,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *Gateway) Get(ctx context.Context, path string, out any) error {
	return g.do(ctx, http.MethodGet, path, nil, out)
}

func (g *Gateway) Post(ctx context.Context, path string, body, out any) error {
	return g.do(ctx, http.MethodPost, path, body, out)
}

func (g *Gateway) Delete(ctx context.Context, path string, out any) error {
	return g.do(ctx, http.MethodDelete, path, nil, out)
}

func (g *Gateway) do(ctx context.Context, method, path string, body, out any) error {
	requestID := uuid.NewString()
	ctx = observability.WithRequestID(ctx, requestID)
	logger := observability.FromContext(ctx)
	endpoint := endpointLabel(path)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	token := g.session.Token()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			g.record(method, endpoint, "transport_error", 0)
			return &TransportError{Method: method, Path: path, Err: err}
		}
	}

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		g.record(method, endpoint, "transport_error", elapsed)
		logger.Debug("API request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	logger.Debug("API request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", elapsed),
	)

	if resp.StatusCode == http.StatusUnauthorized {
		return g.handleUnauthorized(ctx, resp, method, endpoint, token != "", elapsed)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		g.record(method, endpoint, "api_error", elapsed)
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{Status: resp.StatusCode, Message: parseErrorMessage(raw)}
	}

	if resp.StatusCode == http.StatusNoContent || resp.ContentLength == 0 || out == nil {
		g.record(method, endpoint, "ok", elapsed)
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		g.record(method, endpoint, "decode_error", elapsed)
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}

	g.record(method, endpoint, "ok", elapsed)
	return nil
}

// handleUnauthorized always clears the local session. Only a request that
// carried a token is reported as an expired session; a 401 without one (a
// failed login) is an ordinary APIError.
func (g *Gateway) handleUnauthorized(ctx context.Context, resp *http.Response, method, endpoint string, hadToken bool, elapsed time.Duration) error {
	logger := observability.FromContext(ctx)

	if err := g.session.Logout(ctx); err != nil {
		logger.Warn("Failed to clear session after 401", slog.String("error", err.Error()))
	}

	if !hadToken {
		g.record(method, endpoint, "api_error", elapsed)
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{Status: resp.StatusCode, Message: parseErrorMessage(raw)}
	}

	g.record(method, endpoint, "session_expired", elapsed)
	observability.SessionExpirations.Inc()
	logger.Info("Session expired, local session cleared")

	if g.onSessionExpired != nil {
		g.onSessionExpired(ctx)
	}
	return ErrSessionExpired
}

func (g *Gateway) record(method, endpoint, outcome string, elapsed time.Duration) {
	observability.ClientRequestsTotal.WithLabelValues(method, endpoint, outcome).Inc()
	if elapsed > 0 {
		observability.ClientRequestDuration.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())
	}
}

// endpointLabel strips the query and replaces id segments so metric labels
// stay bounded: /trades/<uuid> becomes /trades/:id.
func endpointLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		if _, err := uuid.Parse(seg); err == nil {
			segments[i] = ":id"
			continue
		}
		if _, err := strconv.ParseUint(seg, 10, 64); err == nil {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}
