package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"cards-marketplace/internal/domain"
	"cards-marketplace/internal/observability"
)

// TradeBuilder collects the cards of a new trade proposal
type TradeBuilder struct {
	api      API
	notifier Notifier

	mu        sync.Mutex
	offering  []string
	receiving []string
}

func NewTradeBuilder(api API, notifier Notifier) *TradeBuilder {
	return &TradeBuilder{api: api, notifier: notifier}
}

// ToggleOffering adds cardID to the offered cards, or removes it if present
func (b *TradeBuilder) ToggleOffering(cardID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.offering = toggle(b.offering, cardID)
}

// ToggleReceiving adds cardID to the requested cards, or removes it if present
func (b *TradeBuilder) ToggleReceiving(cardID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.receiving = toggle(b.receiving, cardID)
}

func toggle(ids []string, id string) []string {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(ids, i, i+1)
	}
	return append(ids, id)
}

// Selection returns copies of the offered and requested card ids
func (b *TradeBuilder) Selection() (offering, receiving []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.offering), slices.Clone(b.receiving)
}

// Submit posts the proposal, offered cards first. At least one card on each
// side is required. The selection is cleared on success.
func (b *TradeBuilder) Submit(ctx context.Context) (*domain.CreateTradeResponse, error) {
	offering, receiving := b.Selection()
	if len(offering) == 0 || len(receiving) == 0 {
		notify(b.notifier, domain.SeverityWarn, "Attention", "Select at least 1 card to offer and 1 to receive")
		return nil, fmt.Errorf("%w: a trade needs at least one offered and one requested card", domain.ErrInvalidInput)
	}

	cards := make([]domain.TradeCardInput, 0, len(offering)+len(receiving))
	for _, id := range offering {
		cards = append(cards, domain.TradeCardInput{CardID: id, Type: domain.Offering})
	}
	for _, id := range receiving {
		cards = append(cards, domain.TradeCardInput{CardID: id, Type: domain.Receiving})
	}

	resp, err := b.api.CreateTrade(ctx, domain.CreateTradeRequest{Cards: cards})
	if err != nil {
		observability.FromContext(ctx).Warn("Trade creation failed", slog.String("error", err.Error()))
		notify(b.notifier, domain.SeverityError, "Error", "Failed to create trade. Try again.")
		return nil, err
	}

	b.Reset()
	notify(b.notifier, domain.SeveritySuccess, "Success", "Trade created!")
	return resp, nil
}

// Reset clears the selection
func (b *TradeBuilder) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.offering = nil
	b.receiving = nil
}
