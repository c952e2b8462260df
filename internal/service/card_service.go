package service

import (
	"context"
	"log/slog"
	"strings"

	"cards-marketplace/internal/debounce"
	"cards-marketplace/internal/domain"
	"cards-marketplace/internal/observability"
)

// MyCardsKey is the cache key of the user's collection
const MyCardsKey = "my-cards"

type CardService struct {
	api      API
	cache    Cache
	notifier Notifier
}

func NewCardService(api API, cache Cache, notifier Notifier) *CardService {
	return &CardService{api: api, cache: cache, notifier: notifier}
}

// MyCards returns the user's collection, served from cache when fresh.
// refresh skips the cache read.
func (s *CardService) MyCards(ctx context.Context, refresh bool) ([]domain.UserCard, error) {
	logger := observability.FromContext(ctx)

	if !refresh {
		var cached []domain.UserCard
		hit, err := s.cache.Get(ctx, MyCardsKey, &cached)
		if err != nil {
			logger.Warn("Cache read failed", slog.String("error", err.Error()))
		}
		if hit {
			return cached, nil
		}
	}

	cards, err := s.api.MyCards(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, MyCardsKey, cards); err != nil {
		logger.Warn("Cache write failed", slog.String("error", err.Error()))
	}
	return cards, nil
}

// AddCards adds catalog cards to the collection and returns the refreshed
// collection. An empty selection does nothing.
func (s *CardService) AddCards(ctx context.Context, cardIDs []string) ([]domain.UserCard, error) {
	if len(cardIDs) == 0 {
		return nil, nil
	}

	if err := s.api.AddCards(ctx, cardIDs); err != nil {
		notify(s.notifier, domain.SeverityError, "Error", "Failed to add card(s)")
		return nil, err
	}

	if err := s.cache.Remove(ctx, MyCardsKey); err != nil {
		observability.FromContext(ctx).Warn("Cache invalidation failed", slog.String("error", err.Error()))
	}

	cards, err := s.MyCards(ctx, true)
	if err != nil {
		notify(s.notifier, domain.SeverityError, "Error", "Failed to add card(s)")
		return nil, err
	}

	notify(s.notifier, domain.SeveritySuccess, "Success", "Card(s) added!")
	return cards, nil
}

// SearchCatalog fetches the first search page and keeps the cards whose name
// contains query, ignoring case. A blank query returns nothing.
func (s *CardService) SearchCatalog(ctx context.Context, query string) ([]domain.Card, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Card{}, nil
	}

	list, err := s.api.Cards(ctx, 1, domain.SearchRPP)
	if err != nil {
		return nil, err
	}
	return filterByName(list.List, query, func(c domain.Card) string { return c.Name }), nil
}

// Catalog returns one page of the catalog
func (s *CardService) Catalog(ctx context.Context, page, rpp int) (*domain.List[domain.Card], error) {
	return s.api.Cards(ctx, page, rpp)
}

// AvailableCards returns the first page of the catalog at the maximum page size
func (s *CardService) AvailableCards(ctx context.Context) ([]domain.Card, error) {
	list, err := s.api.Cards(ctx, 1, domain.MaxRPP)
	if err != nil {
		return nil, err
	}
	return list.List, nil
}

// FilterOwned narrows the collection by name. A blank query keeps everything.
func FilterOwned(cards []domain.UserCard, query string) []domain.UserCard {
	query = strings.TrimSpace(query)
	if query == "" {
		return cards
	}
	return filterByName(cards, query, func(c domain.UserCard) string { return c.Name })
}

func filterByName[T any](items []T, query string, name func(T) string) []T {
	needle := strings.ToLower(query)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(name(item)), needle) {
			out = append(out, item)
		}
	}
	return out
}

// CatalogSearch runs catalog searches as the user types: calls are debounced
// and a result is delivered only if no newer search started meanwhile.
type CatalogSearch struct {
	cards     *CardService
	debouncer *debounce.Debouncer
	seq       *debounce.Sequencer
}

const searchChannel = "catalog-search"

func NewCatalogSearch(cards *CardService, debouncer *debounce.Debouncer) *CatalogSearch {
	return &CatalogSearch{cards: cards, debouncer: debouncer, seq: debounce.NewSequencer()}
}

// Type schedules a search for query. deliver runs on the debounce goroutine.
func (c *CatalogSearch) Type(ctx context.Context, query string, deliver func(query string, cards []domain.Card, err error)) {
	c.debouncer.Trigger(searchChannel, func() {
		ticket := c.seq.Next(searchChannel)
		cards, err := c.cards.SearchCatalog(ctx, query)
		if !c.seq.Latest(searchChannel, ticket) {
			observability.FromContext(ctx).Debug("Dropping stale search result", slog.String("query", query))
			return
		}
		deliver(query, cards, err)
	})
}

// Stop cancels any pending search
func (c *CatalogSearch) Stop() {
	c.debouncer.Cancel(searchChannel)
}
