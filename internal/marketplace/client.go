// Package marketplace wraps each cards-marketplace endpoint in a typed call
package marketplace

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"cards-marketplace/internal/domain"
)

// Requester is satisfied by *gateway.Gateway
type Requester interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}

type Client struct {
	api Requester
}

// NewClient creates a new marketplace API client
func NewClient(api Requester) *Client {
	return &Client{api: api}
}

func (c *Client) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := c.api.Post(ctx, "/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) (*domain.RegisterResponse, error) {
	var resp domain.RegisterResponse
	if err := c.api.Post(ctx, "/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me returns the authenticated user's profile, cards included
func (c *Client) Me(ctx context.Context) (*domain.Profile, error) {
	var profile domain.Profile
	if err := c.api.Get(ctx, "/me", &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) MyCards(ctx context.Context) ([]domain.UserCard, error) {
	cards := []domain.UserCard{}
	if err := c.api.Get(ctx, "/me/cards", &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (c *Client) AddCards(ctx context.Context, cardIDs []string) error {
	return c.api.Post(ctx, "/me/cards", domain.AddCardsRequest{CardIDs: cardIDs}, nil)
}

// Cards lists the public catalog
func (c *Client) Cards(ctx context.Context, page, rpp int) (*domain.List[domain.Card], error) {
	var list domain.List[domain.Card]
	if err := c.api.Get(ctx, pagedPath("/cards", page, rpp), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Trades lists open trade proposals from every user
func (c *Client) Trades(ctx context.Context, page, rpp int) (*domain.List[domain.Trade], error) {
	var list domain.List[domain.Trade]
	if err := c.api.Get(ctx, pagedPath("/trades", page, rpp), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) CreateTrade(ctx context.Context, req domain.CreateTradeRequest) (*domain.CreateTradeResponse, error) {
	var resp domain.CreateTradeResponse
	if err := c.api.Post(ctx, "/trades", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteTrade(ctx context.Context, tradeID string) error {
	if tradeID == "" {
		return fmt.Errorf("%w: trade id is required", domain.ErrInvalidInput)
	}
	return c.api.Delete(ctx, "/trades/"+url.PathEscape(tradeID), nil)
}

func pagedPath(base string, page, rpp int) string {
	if page < 1 {
		page = 1
	}
	if rpp < 1 {
		rpp = domain.DefaultRPP
	}
	if rpp > domain.MaxRPP {
		rpp = domain.MaxRPP
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("rpp", strconv.Itoa(rpp))
	return base + "?" + q.Encode()
}
