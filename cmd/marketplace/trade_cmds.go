package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"cards-marketplace/internal/domain"
	"cards-marketplace/internal/service"

	"github.com/spf13/cobra"
)

func newTradesCmd(withApp appRunner) *cobra.Command {
	var (
		pages int
		mine  bool
	)

	cmd := &cobra.Command{
		Use:   "trades",
		Short: "List open trade requests, newest first",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to load")
	cmd.Flags().BoolVar(&mine, "mine", false, "only trades you created")

	cmd.RunE = withApp(func(ctx context.Context, a *app, args []string) error {
		if err := a.feed.Fetch(ctx, true); err != nil {
			return err
		}
		for a.feed.Page() < pages {
			loaded, err := a.feed.LoadMore(ctx)
			if err != nil {
				return err
			}
			if !loaded {
				break
			}
		}

		trades := a.feed.Trades()
		if mine {
			own := trades[:0]
			for _, t := range trades {
				if a.feed.IsOwner(t) {
					own = append(own, t)
				}
			}
			trades = own
		}

		printTrades(a.out, trades, a.feed.IsOwner)
		if a.feed.More() {
			fmt.Fprintf(a.out, "more: run with --pages %d\n", a.feed.Page()+1)
		}
		return nil
	})
	return cmd
}

func newTradeCmd(withApp appRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Create or cancel a trade request",
	}
	cmd.AddCommand(newTradeCreateCmd(withApp), newTradeCancelCmd(withApp))
	return cmd
}

func newTradeCreateCmd(withApp appRunner) *cobra.Command {
	var offer, receive []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Propose a trade: cards you offer for cards you want",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringSliceVarP(&offer, "offer", "o", nil, "card you offer, by id or name (repeatable)")
	cmd.Flags().StringSliceVarP(&receive, "receive", "r", nil, "card you want, by id or name (repeatable)")

	cmd.RunE = withApp(func(ctx context.Context, a *app, args []string) error {
		if err := a.requireLogin(); err != nil {
			return err
		}

		offerIDs, err := resolveCardIDs(ctx, a, offer)
		if err != nil {
			return err
		}
		receiveIDs, err := resolveCardIDs(ctx, a, receive)
		if err != nil {
			return err
		}

		for _, id := range offerIDs {
			a.builder.ToggleOffering(id)
		}
		for _, id := range receiveIDs {
			a.builder.ToggleReceiving(id)
		}

		resp, err := a.builder.Submit(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "trade %s created\n", resp.TradeID)
		return nil
	})
	return cmd
}

func newTradeCancelCmd(withApp appRunner) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "cancel TRADE_ID",
		Short: "Delete one of your trade requests",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	cmd.RunE = withApp(func(ctx context.Context, a *app, args []string) error {
		if err := a.requireLogin(); err != nil {
			return err
		}

		a.confirm.assumeYes = yes
		deleted, err := a.feed.Delete(ctx, args[0])
		if err != nil {
			return err
		}
		if !deleted {
			fmt.Fprintln(a.out, "cancelled")
		}
		return nil
	})
	return cmd
}

func printTrades(w io.Writer, trades []domain.Trade, isOwner func(domain.Trade) bool) {
	if len(trades) == 0 {
		fmt.Fprintln(w, "no trades")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tOWNER\tOFFERS\tWANTS\tCREATED")
	for _, t := range trades {
		owner := "-"
		if t.User != nil {
			owner = t.User.Name
		}
		if isOwner(t) {
			owner += " (you)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			t.ID,
			owner,
			cardName(service.OfferedCard(t)),
			cardName(service.RequestedCard(t)),
			t.CreatedAt.Local().Format("2006-01-02 15:04"),
		)
	}
	tw.Flush()
}

func cardName(c *domain.Card) string {
	if c == nil {
		return "-"
	}
	return c.Name
}
