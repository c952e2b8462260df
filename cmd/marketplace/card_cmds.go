package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"cards-marketplace/internal/domain"
	"cards-marketplace/internal/service"

	"github.com/spf13/cobra"
)

func newCardsCmd(withApp appRunner) *cobra.Command {
	var (
		page, rpp   int
		search      string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Browse or search the card catalog",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().IntVar(&page, "page", 1, "catalog page")
	cmd.Flags().IntVar(&rpp, "rpp", domain.DefaultRPP, "cards per page")
	cmd.Flags().StringVarP(&search, "search", "s", "", "show catalog cards whose name contains this text")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "search as you type, one query per line on stdin")

	cmd.RunE = withApp(func(ctx context.Context, a *app, args []string) error {
		switch {
		case interactive:
			return interactiveSearch(ctx, a)
		case search != "":
			cards, err := a.cards.SearchCatalog(ctx, search)
			if err != nil {
				return err
			}
			printCards(a.out, cards)
			return nil
		}

		list, err := a.cards.Catalog(ctx, page, rpp)
		if err != nil {
			return err
		}
		printCards(a.out, list.List)
		if list.More {
			fmt.Fprintf(a.out, "more: run with --page %d\n", list.Page+1)
		}
		return nil
	})
	return cmd
}

// interactiveSearch feeds each stdin line to the debounced catalog search and
// prints the result of the last query once input ends.
func interactiveSearch(ctx context.Context, a *app) error {
	var (
		mu       sync.Mutex
		last     string
		done     = make(chan struct{}, 1)
		finalErr error
	)

	deliver := func(query string, cards []domain.Card, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			fmt.Fprintf(a.out, "search %q failed: %v\n", query, err)
			finalErr = err
		} else {
			fmt.Fprintf(a.out, "results for %q:\n", query)
			printCards(a.out, cards)
			finalErr = nil
		}
		if query == last {
			select {
			case done <- struct{}{}:
			default:
			}
		}
	}

	typed := false
	for {
		line, err := a.readLine("")
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		mu.Lock()
		last = line
		mu.Unlock()
		typed = true
		a.search.Type(ctx, line, deliver)
	}

	if !typed {
		return nil
	}

	wait := a.cfg.DebounceDelay + a.cfg.HTTPTimeout
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return fmt.Errorf("search did not finish within %s", wait)
	}

	mu.Lock()
	defer mu.Unlock()
	return finalErr
}

func newMyCardsCmd(withApp appRunner) *cobra.Command {
	var (
		refresh bool
		filter  string
	)

	cmd := &cobra.Command{
		Use:   "my-cards",
		Short: "List the cards you own",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "skip the local cache")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "only cards whose name contains this text")

	cmd.RunE = withApp(func(ctx context.Context, a *app, args []string) error {
		if err := a.requireLogin(); err != nil {
			return err
		}

		cards, err := a.cards.MyCards(ctx, refresh)
		if err != nil {
			return err
		}
		printOwned(a.out, service.FilterOwned(cards, filter))
		return nil
	})
	return cmd
}

func newAddCardsCmd(withApp appRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-cards CARD...",
		Short: "Add catalog cards to your collection, by id or exact name",
		Args:  cobra.MinimumNArgs(1),
	}

	cmd.RunE = withApp(func(ctx context.Context, a *app, args []string) error {
		if err := a.requireLogin(); err != nil {
			return err
		}

		ids, err := resolveCardIDs(ctx, a, args)
		if err != nil {
			return err
		}

		cards, err := a.cards.AddCards(ctx, ids)
		if err != nil {
			return err
		}
		printOwned(a.out, cards)
		return nil
	})
	return cmd
}

// resolveCardIDs maps card names to catalog ids. Arguments that match no name
// are passed through as ids.
func resolveCardIDs(ctx context.Context, a *app, refs []string) ([]string, error) {
	catalog, err := a.cards.AvailableCards(ctx)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]string, len(catalog))
	for _, c := range catalog {
		byName[strings.ToLower(c.Name)] = c.ID
	}

	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		if id, ok := byName[strings.ToLower(strings.TrimSpace(ref))]; ok {
			ids = append(ids, id)
			continue
		}
		ids = append(ids, ref)
	}
	return ids, nil
}

func printCards(w io.Writer, cards []domain.Card) {
	if len(cards) == 0 {
		fmt.Fprintln(w, "no cards")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION")
	for _, c := range cards {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, c.Name, truncate(c.Description, 60))
	}
	tw.Flush()
}

func printOwned(w io.Writer, cards []domain.UserCard) {
	plain := make([]domain.Card, len(cards))
	for i, c := range cards {
		plain[i] = c.Card
	}
	printCards(w, plain)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
