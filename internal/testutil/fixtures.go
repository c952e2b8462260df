// Package testutil provides shared test utilities, mocks, and fixtures
// for testing the cards-marketplace client and sandbox.
package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"cards-marketplace/internal/domain"
)

// Counter for generating unique IDs
var idCounter atomic.Int64

// nextID generates a unique ID for test fixtures
func nextID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, idCounter.Add(1))
}

// UserOptions allows customizing user fixture creation
type UserOptions struct {
	ID    string
	Name  string
	Email string
}

// NewTestUser creates a test user with sensible defaults
// Pass options to override specific fields
func NewTestUser(opts ...func(*UserOptions)) *domain.User {
	o := &UserOptions{
		ID:   nextID("user"),
		Name: fmt.Sprintf("Duelist %d", idCounter.Load()),
	}

	for _, opt := range opts {
		opt(o)
	}

	// Set email based on id if not provided
	if o.Email == "" {
		o.Email = o.ID + "@example.com"
	}

	return &domain.User{ID: o.ID, Name: o.Name, Email: o.Email}
}

// WithUserID sets the user ID
func WithUserID(id string) func(*UserOptions) {
	return func(o *UserOptions) {
		o.ID = id
	}
}

// WithUserName sets the display name
func WithUserName(name string) func(*UserOptions) {
	return func(o *UserOptions) {
		o.Name = name
	}
}

// NewTestCard creates a catalog card
func NewTestCard(name string) domain.Card {
	created := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	return domain.Card{
		ID:          nextID("card"),
		Name:        name,
		Description: name + " test card",
		ImageURL:    "https://example.com/" + name + ".png",
		CreatedAt:   &created,
	}
}

// NewTestCards creates catalog cards with the given names
func NewTestCards(names ...string) []domain.Card {
	cards := make([]domain.Card, 0, len(names))
	for _, name := range names {
		cards = append(cards, NewTestCard(name))
	}
	return cards
}

// Owned wraps catalog cards as collection entries
func Owned(cards ...domain.Card) []domain.UserCard {
	owned := make([]domain.UserCard, 0, len(cards))
	for _, c := range cards {
		owned = append(owned, domain.UserCard{Card: c})
	}
	return owned
}

// TradeOptions allows customizing trade fixture creation
type TradeOptions struct {
	ID        string
	Owner     *domain.User
	Offering  []domain.Card
	Receiving []domain.Card
	CreatedAt time.Time
}

// NewTestTrade creates a pending trade with one card on each side by default
func NewTestTrade(opts ...func(*TradeOptions)) domain.Trade {
	o := &TradeOptions{ID: nextID("trade")}
	for _, opt := range opts {
		opt(o)
	}
	if o.Owner == nil {
		o.Owner = NewTestUser()
	}
	if o.Offering == nil {
		o.Offering = []domain.Card{NewTestCard("Offered")}
	}
	if o.Receiving == nil {
		o.Receiving = []domain.Card{NewTestCard("Wanted")}
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}

	trade := domain.Trade{
		ID:        o.ID,
		UserID:    o.Owner.ID,
		User:      &domain.TradeUser{ID: o.Owner.ID, Name: o.Owner.Name},
		Status:    domain.TradePending,
		CreatedAt: o.CreatedAt,
	}
	add := func(cards []domain.Card, kind domain.TradeCardType) {
		for _, c := range cards {
			trade.TradeCards = append(trade.TradeCards, domain.TradeCard{
				ID:      nextID("tradecard"),
				CardID:  c.ID,
				TradeID: trade.ID,
				Type:    kind,
				Card:    c,
			})
		}
	}
	add(o.Offering, domain.Offering)
	add(o.Receiving, domain.Receiving)
	return trade
}

// WithOwner sets the trade owner
func WithOwner(u *domain.User) func(*TradeOptions) {
	return func(o *TradeOptions) {
		o.Owner = u
	}
}

// WithCards sets both sides of the trade
func WithCards(offering, receiving []domain.Card) func(*TradeOptions) {
	return func(o *TradeOptions) {
		o.Offering = offering
		o.Receiving = receiving
	}
}

// NewTestTrades creates count trades owned by random users
func NewTestTrades(count int) []domain.Trade {
	trades := make([]domain.Trade, count)
	for i := range trades {
		trades[i] = NewTestTrade()
	}
	return trades
}

