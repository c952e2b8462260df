package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cards-marketplace/internal/domain"
)

// DefaultErrorMessage is used when a failed response carries no usable message
const DefaultErrorMessage = "request failed"

// ErrSessionExpired is returned for a 401 on an authenticated request
var ErrSessionExpired = domain.ErrSessionExpired

// TransportError means no HTTP response was obtained
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError is a non-2xx response other than a session expiry
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsStatus reports whether err is an APIError with the given status code
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// parseErrorMessage pulls "message" out of a JSON error body. Validation
// errors may carry a list of messages, which are joined.
func parseErrorMessage(body []byte) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Message) == 0 {
		return DefaultErrorMessage
	}

	var single string
	if err := json.Unmarshal(payload.Message, &single); err == nil {
		if strings.TrimSpace(single) == "" {
			return DefaultErrorMessage
		}
		return single
	}

	var many []string
	if err := json.Unmarshal(payload.Message, &many); err == nil && len(many) > 0 {
		return strings.Join(many, "; ")
	}

	return DefaultErrorMessage
}
