package domain

import (
	"errors"
	"time"
)

var (
	ErrTradeNotFound = errors.New("trade not found")
	ErrNotTradeOwner = errors.New("trade belongs to another user")
)

// TradeCardType tells whether a card in a trade is offered or requested
type TradeCardType string

const (
	Offering  TradeCardType = "OFFERING"
	Receiving TradeCardType = "RECEIVING"
)

// Valid reports whether t is a known trade card type
func (t TradeCardType) Valid() bool {
	return t == Offering || t == Receiving
}

// TradeStatus is the lifecycle state of a trade proposal
type TradeStatus string

const (
	TradePending   TradeStatus = "PENDING"
	TradeAccepted  TradeStatus = "ACCEPTED"
	TradeRejected  TradeStatus = "REJECTED"
	TradeCompleted TradeStatus = "COMPLETED"
)

// TradeUser is the owner summary embedded in a trade
type TradeUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TradeCard is one side of a trade proposal
type TradeCard struct {
	ID      string        `json:"id"`
	CardID  string        `json:"cardId"`
	TradeID string        `json:"tradeId"`
	Type    TradeCardType `json:"type"`
	Card    Card          `json:"card"`
}

// Trade is a proposal pairing offered and requested cards
type Trade struct {
	ID         string      `json:"id"`
	UserID     string      `json:"userId"`
	User       *TradeUser  `json:"user,omitempty"`
	TradeCards []TradeCard `json:"tradeCards"`
	Status     TradeStatus `json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// FirstCard returns the first card of the given type, or nil
func (t *Trade) FirstCard(kind TradeCardType) *Card {
	for i := range t.TradeCards {
		if t.TradeCards[i].Type == kind {
			return &t.TradeCards[i].Card
		}
	}
	return nil
}

// TradeCardInput is one entry of a create-trade request
type TradeCardInput struct {
	CardID string        `json:"cardId"`
	Type   TradeCardType `json:"type"`
}

// CreateTradeRequest is the body of POST /trades
type CreateTradeRequest struct {
	Cards []TradeCardInput `json:"cards"`
}

// CreateTradeResponse carries the id of the created trade
type CreateTradeResponse struct {
	TradeID string `json:"tradeId"`
}
