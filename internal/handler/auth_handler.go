package handler

import (
	"net/http"

	"cards-marketplace/internal/domain"
	"cards-marketplace/internal/sandbox"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	svc *sandbox.Service
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(svc *sandbox.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register handles POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.svc.Register(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, domain.RegisterResponse{UserID: user.ID})
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.svc.Login(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Me handles GET /me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	profile, err := h.svc.Profile(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
