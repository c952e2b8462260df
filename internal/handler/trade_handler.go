package handler

import (
	"net/http"

	"cards-marketplace/internal/domain"
	"cards-marketplace/internal/sandbox"

	"github.com/go-chi/chi/v5"
)

// TradeHandler serves trade proposals
type TradeHandler struct {
	svc *sandbox.Service
}

func NewTradeHandler(svc *sandbox.Service) *TradeHandler {
	return &TradeHandler{svc: svc}
}

// List handles GET /trades
func (h *TradeHandler) List(w http.ResponseWriter, r *http.Request) {
	page, rpp := pageParams(r)
	writeJSON(w, http.StatusOK, h.svc.Trades(r.Context(), page, rpp))
}

// Create handles POST /trades
func (h *TradeHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req domain.CreateTradeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	tradeID, err := h.svc.CreateTrade(r.Context(), userID, req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, domain.CreateTradeResponse{TradeID: tradeID})
}

// Delete handles DELETE /trades/{id}
func (h *TradeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteTrade(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
