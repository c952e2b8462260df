package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"cards-marketplace/internal/domain"
	"cards-marketplace/internal/middleware"
	"cards-marketplace/internal/observability"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, domain.ErrorBody{
		Message:    message,
		Error:      http.StatusText(status),
		StatusCode: status,
	})
}

// writeDomainError maps service errors onto HTTP statuses. Unknown errors are
// logged and reported as a bare 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrNotAuthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotTradeOwner):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrCardNotFound), errors.Is(err, domain.ErrTradeNotFound), errors.Is(err, domain.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrEmailExists):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		observability.FromContext(r.Context()).Error("request failed", "error", err)
		writeError(w, status, "Internal server error")
		return
	}
	writeError(w, status, err.Error())
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// requireUser returns the authenticated user id set by middleware.Auth
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok || userID == "" {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return "", false
	}
	return userID, true
}

// pageParams reads page and rpp, falling back to 1 and the default page size
func pageParams(r *http.Request) (int, int) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	rpp, err := strconv.Atoi(r.URL.Query().Get("rpp"))
	if err != nil || rpp < 1 {
		rpp = domain.DefaultRPP
	}
	return page, rpp
}
