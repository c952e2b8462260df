package sandbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"cards-marketplace/internal/domain"
	"cards-marketplace/internal/observability"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

const defaultBcryptCost = 12

// Service implements the marketplace API rules on top of Store
type Service struct {
	store      *Store
	tokens     *TokenIssuer
	bcryptCost int
	now        func() time.Time
}

type Option func(*Service)

// WithBcryptCost lowers the hashing cost, for tests
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.bcryptCost = cost }
}

// WithClock injects the time source used for timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store *Store, tokens *TokenIssuer, opts ...Option) *Service {
	s := &Service{
		store:      store,
		tokens:     tokens,
		bcryptCost: defaultBcryptCost,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// VerifyToken resolves a bearer token to a known user id
func (s *Service) VerifyToken(token string) (string, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return "", err
	}
	if _, ok := s.store.userByID(userID); !ok {
		return "", fmt.Errorf("%w: unknown user", domain.ErrNotAuthenticated)
	}
	return userID, nil
}

func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)

	if n := utf8.RuneCountInString(name); n < 1 || n > 100 {
		return nil, fmt.Errorf("%w: name must be between 1 and 100 characters", domain.ErrInvalidInput)
	}
	if !emailRegex.MatchString(email) || len(email) > 255 {
		return nil, fmt.Errorf("%w: email must be a valid address", domain.ErrInvalidInput)
	}
	if len(req.Password) < 8 || len(req.Password) > 72 {
		return nil, fmt.Errorf("%w: password must be between 8 and 72 characters", domain.ErrInvalidInput)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	acc := &account{
		user:         domain.User{ID: uuid.NewString(), Name: name, Email: email},
		passwordHash: hashedPassword,
		createdAt:    s.now(),
	}
	if err := s.store.createAccount(acc); err != nil {
		return nil, err
	}

	observability.FromContext(ctx).Info("Account registered", slog.String("user_id", acc.user.ID))
	user := acc.user
	return &user, nil
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	acc, ok := s.store.accountByEmail(strings.TrimSpace(req.Email))
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(req.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(acc.user.ID)
	if err != nil {
		return nil, err
	}

	user := acc.user
	return &domain.AuthResponse{Token: token, User: &user}, nil
}

func (s *Service) Profile(ctx context.Context, userID string) (*domain.Profile, error) {
	user, ok := s.store.userByID(userID)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &domain.Profile{User: user, Cards: s.store.ownedCards(userID)}, nil
}

func (s *Service) UserCards(ctx context.Context, userID string) ([]domain.UserCard, error) {
	if _, ok := s.store.userByID(userID); !ok {
		return nil, domain.ErrUserNotFound
	}
	return s.store.ownedCards(userID), nil
}

// AddCards adds catalog cards to the user's collection. Cards already owned
// are skipped; an unknown id rejects the whole request.
func (s *Service) AddCards(ctx context.Context, userID string, cardIDs []string) error {
	if len(cardIDs) == 0 {
		return fmt.Errorf("%w: cardIds must not be empty", domain.ErrInvalidInput)
	}

	cards := make([]domain.Card, 0, len(cardIDs))
	for _, id := range cardIDs {
		c, ok := s.store.card(id)
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrCardNotFound, id)
		}
		cards = append(cards, c)
	}

	added := s.store.addOwned(userID, cards, s.now())
	observability.FromContext(ctx).Debug("Cards added",
		slog.String("user_id", userID),
		slog.Int("requested", len(cardIDs)),
		slog.Int("added", added),
	)
	return nil
}

func (s *Service) Cards(ctx context.Context, page, rpp int) domain.List[domain.Card] {
	return s.store.catalogPage(page, rpp)
}

func (s *Service) Trades(ctx context.Context, page, rpp int) domain.List[domain.Trade] {
	return s.store.tradesPage(page, rpp)
}

// CreateTrade stores a pending proposal. Offered cards must be owned by the
// user and both sides need at least one card.
func (s *Service) CreateTrade(ctx context.Context, userID string, req domain.CreateTradeRequest) (string, error) {
	user, ok := s.store.userByID(userID)
	if !ok {
		return "", domain.ErrUserNotFound
	}

	trade := domain.Trade{
		ID:        uuid.NewString(),
		UserID:    userID,
		User:      &domain.TradeUser{ID: user.ID, Name: user.Name},
		Status:    domain.TradePending,
		CreatedAt: s.now(),
	}

	var offering, receiving int
	for _, in := range req.Cards {
		if !in.Type.Valid() {
			return "", fmt.Errorf("%w: unknown card type %q", domain.ErrInvalidInput, in.Type)
		}
		c, ok := s.store.card(in.CardID)
		if !ok {
			return "", fmt.Errorf("%w: %s", domain.ErrCardNotFound, in.CardID)
		}
		if in.Type == domain.Offering {
			if !s.store.owns(userID, in.CardID) {
				return "", fmt.Errorf("%w: you do not own card %s", domain.ErrInvalidInput, in.CardID)
			}
			offering++
		} else {
			receiving++
		}
		trade.TradeCards = append(trade.TradeCards, domain.TradeCard{
			ID:      uuid.NewString(),
			CardID:  c.ID,
			TradeID: trade.ID,
			Type:    in.Type,
			Card:    c,
		})
	}
	if offering == 0 || receiving == 0 {
		return "", fmt.Errorf("%w: a trade needs at least one OFFERING and one RECEIVING card", domain.ErrInvalidInput)
	}

	open := s.store.insertTrade(trade)
	observability.SandboxTradesOpen.Set(float64(open))
	observability.FromContext(ctx).Info("Trade created",
		slog.String("trade_id", trade.ID),
		slog.String("user_id", userID),
	)
	return trade.ID, nil
}

func (s *Service) DeleteTrade(ctx context.Context, userID, tradeID string) error {
	open, err := s.store.removeTrade(userID, tradeID)
	if err != nil {
		if !errors.Is(err, domain.ErrTradeNotFound) {
			observability.FromContext(ctx).Warn("Trade delete refused",
				slog.String("trade_id", tradeID),
				slog.String("user_id", userID),
			)
		}
		return err
	}
	observability.SandboxTradesOpen.Set(float64(open))
	return nil
}

// CheckCatalog fails until the catalog has been seeded
func (s *Service) CheckCatalog(ctx context.Context) error {
	if len(s.store.catalogPage(1, 1).List) == 0 {
		return errors.New("catalog is empty")
	}
	return nil
}

// CheckTokens signs and verifies a throwaway token
func (s *Service) CheckTokens(ctx context.Context) error {
	token, err := s.tokens.Issue("readiness-probe")
	if err != nil {
		return err
	}
	_, err = s.tokens.Verify(token)
	return err
}
