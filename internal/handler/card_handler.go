package handler

import (
	"net/http"

	"cards-marketplace/internal/domain"
	"cards-marketplace/internal/sandbox"
)

// CardHandler serves the catalog and the caller's collection
type CardHandler struct {
	svc *sandbox.Service
}

func NewCardHandler(svc *sandbox.Service) *CardHandler {
	return &CardHandler{svc: svc}
}

// List handles GET /cards
func (h *CardHandler) List(w http.ResponseWriter, r *http.Request) {
	page, rpp := pageParams(r)
	writeJSON(w, http.StatusOK, h.svc.Cards(r.Context(), page, rpp))
}

// Mine handles GET /me/cards
func (h *CardHandler) Mine(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	cards, err := h.svc.UserCards(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if cards == nil {
		cards = []domain.UserCard{}
	}

	writeJSON(w, http.StatusOK, cards)
}

// Add handles POST /me/cards
func (h *CardHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req domain.AddCardsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.svc.AddCards(r.Context(), userID, req.CardIDs); err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}
