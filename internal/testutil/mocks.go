package testutil

import (
	"context"
	"errors"
	"sync"

	"cards-marketplace/internal/domain"
)

// Common test errors
var (
	ErrMockNotImplemented = errors.New("mock function not implemented")
	ErrMockNotFound       = errors.New("mock: not found")
)

// MockAPI implements the marketplace endpoints for workflow tests.
// Unset functions fall back to the in-memory data.
type MockAPI struct {
	mu sync.Mutex

	// Function overrides - set these to customize behavior
	LoginFunc       func(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error)
	RegisterFunc    func(ctx context.Context, req domain.RegisterRequest) (*domain.RegisterResponse, error)
	MeFunc          func(ctx context.Context) (*domain.Profile, error)
	MyCardsFunc     func(ctx context.Context) ([]domain.UserCard, error)
	AddCardsFunc    func(ctx context.Context, cardIDs []string) error
	CardsFunc       func(ctx context.Context, page, rpp int) (*domain.List[domain.Card], error)
	TradesFunc      func(ctx context.Context, page, rpp int) (*domain.List[domain.Trade], error)
	CreateTradeFunc func(ctx context.Context, req domain.CreateTradeRequest) (*domain.CreateTradeResponse, error)
	DeleteTradeFunc func(ctx context.Context, tradeID string) error

	// In-memory data for simple tests
	Catalog []domain.Card
	Owned   []domain.UserCard

	// Recorded calls
	Calls         map[string]int
	CreatedTrades []domain.CreateTradeRequest
	DeletedTrades []string
}

// NewMockAPI creates a new MockAPI with initialized maps
func NewMockAPI() *MockAPI {
	return &MockAPI{Calls: make(map[string]int)}
}

func (m *MockAPI) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Calls == nil {
		m.Calls = make(map[string]int)
	}
	m.Calls[name]++
}

// CallCount returns how many times the named endpoint was called
func (m *MockAPI) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[name]
}

func (m *MockAPI) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	m.record("Login")
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, req)
	}
	return nil, ErrMockNotImplemented
}

func (m *MockAPI) Register(ctx context.Context, req domain.RegisterRequest) (*domain.RegisterResponse, error) {
	m.record("Register")
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	return &domain.RegisterResponse{UserID: nextID("user")}, nil
}

func (m *MockAPI) Me(ctx context.Context) (*domain.Profile, error) {
	m.record("Me")
	if m.MeFunc != nil {
		return m.MeFunc(ctx)
	}
	return nil, ErrMockNotImplemented
}

func (m *MockAPI) MyCards(ctx context.Context) ([]domain.UserCard, error) {
	m.record("MyCards")
	if m.MyCardsFunc != nil {
		return m.MyCardsFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.UserCard{}, m.Owned...), nil
}

func (m *MockAPI) AddCards(ctx context.Context, cardIDs []string) error {
	m.record("AddCards")
	if m.AddCardsFunc != nil {
		return m.AddCardsFunc(ctx, cardIDs)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range cardIDs {
		found := false
		for _, c := range m.Catalog {
			if c.ID == id {
				m.Owned = append(m.Owned, domain.UserCard{Card: c})
				found = true
				break
			}
		}
		if !found {
			return ErrMockNotFound
		}
	}
	return nil
}

func (m *MockAPI) Cards(ctx context.Context, page, rpp int) (*domain.List[domain.Card], error) {
	m.record("Cards")
	if m.CardsFunc != nil {
		return m.CardsFunc(ctx, page, rpp)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return Paginate(m.Catalog, page, rpp), nil
}

func (m *MockAPI) Trades(ctx context.Context, page, rpp int) (*domain.List[domain.Trade], error) {
	m.record("Trades")
	if m.TradesFunc != nil {
		return m.TradesFunc(ctx, page, rpp)
	}
	return &domain.List[domain.Trade]{List: []domain.Trade{}, Page: page, RPP: rpp}, nil
}

func (m *MockAPI) CreateTrade(ctx context.Context, req domain.CreateTradeRequest) (*domain.CreateTradeResponse, error) {
	m.record("CreateTrade")
	m.mu.Lock()
	m.CreatedTrades = append(m.CreatedTrades, req)
	m.mu.Unlock()
	if m.CreateTradeFunc != nil {
		return m.CreateTradeFunc(ctx, req)
	}
	return &domain.CreateTradeResponse{TradeID: nextID("trade")}, nil
}

func (m *MockAPI) DeleteTrade(ctx context.Context, tradeID string) error {
	m.record("DeleteTrade")
	m.mu.Lock()
	m.DeletedTrades = append(m.DeletedTrades, tradeID)
	m.mu.Unlock()
	if m.DeleteTradeFunc != nil {
		return m.DeleteTradeFunc(ctx, tradeID)
	}
	return nil
}

// Paginate slices items into the list envelope the API returns
func Paginate[T any](items []T, page, rpp int) *domain.List[T] {
	if page < 1 {
		page = 1
	}
	if rpp < 1 {
		rpp = domain.DefaultRPP
	}
	start := (page - 1) * rpp
	if start > len(items) {
		start = len(items)
	}
	end := start + rpp
	if end > len(items) {
		end = len(items)
	}
	return &domain.List[T]{
		List: append([]T{}, items[start:end]...),
		Page: page,
		RPP:  rpp,
		More: end < len(items),
	}
}

// NotifierRecorder collects notices instead of showing them
type NotifierRecorder struct {
	mu      sync.Mutex
	Notices []domain.Notice
}

func (r *NotifierRecorder) Notify(n domain.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Notices = append(r.Notices, n)
}

// Last returns the most recent notice, or a zero Notice
func (r *NotifierRecorder) Last() domain.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Notices) == 0 {
		return domain.Notice{}
	}
	return r.Notices[len(r.Notices)-1]
}

// Count returns the number of notices with the given severity
func (r *NotifierRecorder) Count(severity domain.Severity) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, notice := range r.Notices {
		if notice.Severity == severity {
			n++
		}
	}
	return n
}

// StaticConfirmer always gives the same answer and records the prompts
type StaticConfirmer struct {
	Answer  bool
	Prompts []string
}

func (c *StaticConfirmer) Confirm(_ context.Context, prompt string) bool {
	c.Prompts = append(c.Prompts, prompt)
	return c.Answer
}

// MockSession is an in-memory session for workflow tests
type MockSession struct {
	mu          sync.Mutex
	Token       string
	CurrentUser *domain.User
	LogoutCalls int
	LogoutErr   error
}

func (m *MockSession) SetAuth(_ context.Context, token string, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Token = token
	m.CurrentUser = user
	return nil
}

func (m *MockSession) UpdateUser(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Token == "" {
		return domain.ErrNotAuthenticated
	}
	m.CurrentUser = user
	return nil
}

func (m *MockSession) Logout(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LogoutCalls++
	m.Token = ""
	m.CurrentUser = nil
	return m.LogoutErr
}

func (m *MockSession) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Token != ""
}

func (m *MockSession) User() *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CurrentUser
}
