// Package service holds the user workflows that sit between the command line
// and the marketplace API: login, card collection, trade feed and trade
// creation.
package service

import (
	"context"
	"errors"

	"cards-marketplace/internal/domain"
)

var ErrInvalidResponse = errors.New("invalid response from marketplace API")

// API is the subset of marketplace.Client the workflows call
type API interface {
	Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error)
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.RegisterResponse, error)
	Me(ctx context.Context) (*domain.Profile, error)
	MyCards(ctx context.Context) ([]domain.UserCard, error)
	AddCards(ctx context.Context, cardIDs []string) error
	Cards(ctx context.Context, page, rpp int) (*domain.List[domain.Card], error)
	Trades(ctx context.Context, page, rpp int) (*domain.List[domain.Trade], error)
	CreateTrade(ctx context.Context, req domain.CreateTradeRequest) (*domain.CreateTradeResponse, error)
	DeleteTrade(ctx context.Context, tradeID string) error
}

// Session is the subset of session.Store the workflows use
type Session interface {
	SetAuth(ctx context.Context, token string, user *domain.User) error
	UpdateUser(ctx context.Context, user *domain.User) error
	Logout(ctx context.Context) error
	IsAuthenticated() bool
	User() *domain.User
}

// Cache is the subset of cache.Cache the workflows use
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, data any) error
	Remove(ctx context.Context, key string) error
}

// Notifier shows transient notices to the user
type Notifier interface {
	Notify(n domain.Notice)
}

// Confirmer asks the user a yes/no question
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

func notify(n Notifier, severity domain.Severity, summary, detail string) {
	if n == nil {
		return
	}
	n.Notify(domain.Notice{Severity: severity, Summary: summary, Detail: detail, Life: domain.NoticeLife})
}
