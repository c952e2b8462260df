package middleware

import (
	"encoding/json"
	"net/http"

	"cards-marketplace/internal/domain"
)

// writeError writes the API's JSON error body
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.ErrorBody{
		Message:    message,
		Error:      http.StatusText(status),
		StatusCode: status,
	})
}
