// Package sandbox is a self-contained, in-memory implementation of the
// cards-marketplace API used for local development and end-to-end tests of
// the client.
package sandbox

import (
	"sort"
	"strings"
	"sync"
	"time"

	"cards-marketplace/internal/domain"
)

type account struct {
	user         domain.User
	passwordHash []byte
	createdAt    time.Time
}

// Store holds all sandbox state in memory
type Store struct {
	mu       sync.RWMutex
	accounts map[string]*account // by user id
	emails   map[string]string   // lower-cased email to user id
	catalog  []domain.Card
	cards    map[string]domain.Card
	owned    map[string][]domain.UserCard
	trades   []domain.Trade // newest first
}

func NewStore() *Store {
	return &Store{
		accounts: make(map[string]*account),
		emails:   make(map[string]string),
		cards:    make(map[string]domain.Card),
		owned:    make(map[string][]domain.UserCard),
	}
}

func (s *Store) createAccount(a *account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(a.user.Email)
	if _, exists := s.emails[key]; exists {
		return domain.ErrEmailExists
	}
	s.accounts[a.user.ID] = a
	s.emails[key] = a.user.ID
	return nil
}

func (s *Store) accountByEmail(email string) (*account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[strings.ToLower(email)]
	if !ok {
		return nil, false
	}
	return s.accounts[id], true
}

func (s *Store) userByID(id string) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	if !ok {
		return domain.User{}, false
	}
	return a.user, true
}

func (s *Store) addCatalogCard(c domain.Card) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.cards[c.ID]; exists {
		return
	}
	s.catalog = append(s.catalog, c)
	s.cards[c.ID] = c
}

func (s *Store) catalogPage(page, rpp int) domain.List[domain.Card] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return paginate(s.catalog, page, rpp)
}

func (s *Store) card(id string) (domain.Card, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cards[id]
	return c, ok
}

func (s *Store) ownedCards(userID string) []domain.UserCard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.UserCard{}, s.owned[userID]...)
}

// addOwned appends cards the user does not own yet and returns how many were added
func (s *Store) addOwned(userID string, cards []domain.Card, at time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	have := make(map[string]bool, len(s.owned[userID]))
	for _, c := range s.owned[userID] {
		have[c.ID] = true
	}

	added := 0
	for _, c := range cards {
		if have[c.ID] {
			continue
		}
		addedAt := at
		s.owned[userID] = append(s.owned[userID], domain.UserCard{Card: c, AddedAt: &addedAt})
		have[c.ID] = true
		added++
	}
	return added
}

func (s *Store) owns(userID, cardID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.owned[userID] {
		if c.ID == cardID {
			return true
		}
	}
	return false
}

func (s *Store) insertTrade(t domain.Trade) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.trades = append([]domain.Trade{t}, s.trades...)
	sort.SliceStable(s.trades, func(i, j int) bool {
		return s.trades[i].CreatedAt.After(s.trades[j].CreatedAt)
	})
	return len(s.trades)
}

func (s *Store) tradesPage(page, rpp int) domain.List[domain.Trade] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return paginate(s.trades, page, rpp)
}

// removeTrade deletes the trade if userID owns it
func (s *Store) removeTrade(userID, tradeID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.trades {
		if t.ID != tradeID {
			continue
		}
		if t.UserID != userID {
			return len(s.trades), domain.ErrNotTradeOwner
		}
		s.trades = append(s.trades[:i], s.trades[i+1:]...)
		return len(s.trades), nil
	}
	return len(s.trades), domain.ErrTradeNotFound
}

func paginate[T any](items []T, page, rpp int) domain.List[T] {
	if page < 1 {
		page = 1
	}
	if rpp < 1 {
		rpp = domain.DefaultRPP
	}
	if rpp > domain.MaxRPP {
		rpp = domain.MaxRPP
	}

	start := (page - 1) * rpp
	if start > len(items) {
		start = len(items)
	}
	end := start + rpp
	if end > len(items) {
		end = len(items)
	}

	return domain.List[T]{
		List: append([]T{}, items[start:end]...),
		Page: page,
		RPP:  rpp,
		More: end < len(items),
	}
}
