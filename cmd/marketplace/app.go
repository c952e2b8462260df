package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"cards-marketplace/internal/cache"
	"cards-marketplace/internal/config"
	"cards-marketplace/internal/debounce"
	"cards-marketplace/internal/gateway"
	"cards-marketplace/internal/marketplace"
	"cards-marketplace/internal/observability"
	"cards-marketplace/internal/service"
	"cards-marketplace/internal/session"
	"cards-marketplace/internal/storage"
)

// gatewayBurst lets a command fire a few calls back to back before the
// configured request rate applies.
const gatewayBurst = 5

// app is the wired client for one command invocation
type app struct {
	cfg      *config.Config
	store    storage.Store
	session  *session.Store
	auth     *service.AuthService
	cards    *service.CardService
	feed     *service.TradeFeed
	builder  *service.TradeBuilder
	search   *service.CatalogSearch
	notifier *consoleNotifier
	confirm  *promptConfirmer
	in       *bufio.Reader
	out      io.Writer
}

func newApp(ctx context.Context, cfg *config.Config, in io.Reader, out, errOut io.Writer) (*app, error) {
	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open client state: %w", err)
	}

	c := cache.New(store,
		cache.WithNamespace(cfg.CachePrefix),
		cache.WithTTL(cfg.CacheTTL),
	)

	sess := session.New(store, c)
	if err := sess.Restore(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	notifier := newConsoleNotifier(out, errOut)
	lines := bufio.NewReader(in)
	confirm := newPromptConfirmer(lines, out)

	gwOpts := []gateway.Option{
		gateway.WithTimeout(cfg.HTTPTimeout),
		gateway.WithSessionExpiredHook(func(ctx context.Context) {
			notifier.Notify(sessionExpiredNotice())
		}),
	}
	if cfg.RequestsPerSec > 0 {
		gwOpts = append(gwOpts, gateway.WithRateLimit(cfg.RequestsPerSec, gatewayBurst))
	}

	gw, err := gateway.New(cfg.APIBaseURL, sess, gwOpts...)
	if err != nil {
		store.Close()
		return nil, err
	}

	client := marketplace.NewClient(gw)
	cards := service.NewCardService(client, c, notifier)

	a := &app{
		cfg:      cfg,
		store:    store,
		session:  sess,
		auth:     service.NewAuthService(client, sess, notifier),
		cards:    cards,
		feed:     service.NewTradeFeed(client, sess, notifier, confirm),
		builder:  service.NewTradeBuilder(client, notifier),
		search:   service.NewCatalogSearch(cards, debounce.New(cfg.DebounceDelay)),
		notifier: notifier,
		confirm:  confirm,
		in:       lines,
		out:      out,
	}

	observability.FromContext(ctx).Debug("client ready",
		slog.String("api", cfg.APIBaseURL),
		slog.String("storage", cfg.Storage.Type),
		slog.Bool("authenticated", sess.IsAuthenticated()),
	)
	return a, nil
}

func (a *app) Close() error {
	a.search.Stop()
	return a.store.Close()
}

// requireLogin fails fast for commands that need a session
func (a *app) requireLogin() error {
	if !a.session.IsAuthenticated() {
		return errNotLoggedIn
	}
	return nil
}

// readLine reads one line of user input without the trailing newline
func (a *app) readLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(a.out, prompt)
	}
	line, err := a.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

var errNotLoggedIn = errors.New("not logged in, run `marketplace login` first")
