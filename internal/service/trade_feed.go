package service

import (
	"context"
	"log/slog"
	"sync"

	"cards-marketplace/internal/domain"
	"cards-marketplace/internal/observability"
)

// TradeFeed is the paginated marketplace listing
type TradeFeed struct {
	api       API
	session   Session
	notifier  Notifier
	confirmer Confirmer

	mu      sync.Mutex
	trades  []domain.Trade
	page    int
	more    bool
	loading bool
}

func NewTradeFeed(api API, session Session, notifier Notifier, confirmer Confirmer) *TradeFeed {
	return &TradeFeed{api: api, session: session, notifier: notifier, confirmer: confirmer, page: 1}
}

// Fetch loads the current page. reset starts over from page one and replaces
// the list; otherwise the page is appended.
func (f *TradeFeed) Fetch(ctx context.Context, reset bool) error {
	f.mu.Lock()
	if reset {
		f.page = 1
	}
	page := f.page
	f.loading = true
	f.mu.Unlock()

	list, err := f.api.Trades(ctx, page, domain.DefaultRPP)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false

	if err != nil {
		observability.FromContext(ctx).Warn("Failed to load trades",
			slog.Int("page", page),
			slog.String("error", err.Error()),
		)
		return err
	}

	if reset {
		f.trades = append([]domain.Trade(nil), list.List...)
	} else {
		f.trades = append(f.trades, list.List...)
	}
	f.more = list.More
	return nil
}

// LoadMore fetches the next page. It does nothing while a fetch is running or
// when the server reported no more pages.
func (f *TradeFeed) LoadMore(ctx context.Context) (bool, error) {
	f.mu.Lock()
	if f.loading || !f.more {
		f.mu.Unlock()
		return false, nil
	}
	f.page++
	f.mu.Unlock()

	if err := f.Fetch(ctx, false); err != nil {
		f.mu.Lock()
		f.page--
		f.mu.Unlock()
		return false, err
	}
	return true, nil
}

// Delete removes one of the user's own trades after confirmation. It reports
// whether the trade was deleted.
func (f *TradeFeed) Delete(ctx context.Context, tradeID string) (bool, error) {
	if f.confirmer != nil && !f.confirmer.Confirm(ctx, "Delete this trade request?") {
		return false, nil
	}

	if err := f.api.DeleteTrade(ctx, tradeID); err != nil {
		notify(f.notifier, domain.SeverityError, "Error", "Failed to delete trade request")
		return false, err
	}

	f.mu.Lock()
	kept := f.trades[:0]
	for _, t := range f.trades {
		if t.ID != tradeID {
			kept = append(kept, t)
		}
	}
	f.trades = kept
	f.mu.Unlock()

	notify(f.notifier, domain.SeveritySuccess, "Success", "Trade request deleted!")
	return true, nil
}

// Trades returns a copy of the loaded trades
func (f *TradeFeed) Trades() []domain.Trade {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Trade(nil), f.trades...)
}

func (f *TradeFeed) Page() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.page
}

func (f *TradeFeed) More() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.more
}

// IsOwner reports whether the logged-in user created trade
func (f *TradeFeed) IsOwner(trade domain.Trade) bool {
	if !f.session.IsAuthenticated() {
		return false
	}
	user := f.session.User()
	if user == nil || trade.User == nil {
		return false
	}
	return trade.User.ID == user.ID
}

func OfferedCard(trade domain.Trade) *domain.Card {
	return trade.FirstCard(domain.Offering)
}

func RequestedCard(trade domain.Trade) *domain.Card {
	return trade.FirstCard(domain.Receiving)
}
