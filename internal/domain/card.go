package domain

import "time"

// Card is a catalog card
type Card struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ImageURL    string     `json:"imageUrl"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// UserCard is a card owned by the authenticated user (GET /me/cards)
type UserCard struct {
	Card
	AddedAt *time.Time `json:"addedAt,omitempty"`
}

// AddCardsRequest is the body of POST /me/cards
type AddCardsRequest struct {
	CardIDs []string `json:"cardIds"`
}
