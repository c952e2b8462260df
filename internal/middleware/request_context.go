package middleware

import (
	"net/http"

	"cards-marketplace/internal/observability"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// RequestContext copies chi's request id into the logging context and echoes
// it back in the X-Request-ID response header. It must run after
// chimiddleware.RequestID.
func RequestContext() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := chimiddleware.GetReqID(r.Context())
			if reqID == "" {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set(chimiddleware.RequestIDHeader, reqID)
			ctx := observability.WithRequestID(r.Context(), reqID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
