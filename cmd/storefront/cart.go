package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/spf13/cobra"
)

func cartCmd(load loader) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Inspect or clear the persisted cart of a session",
	}
	cmd.PersistentFlags().StringVar(&sessionID, "session", "", "Session id (value of the session cookie)")
	_ = cmd.MarkPersistentFlagRequired("session")

	// withStore opens the configured backend and the session's cart in it.
	withStore := func(cmd *cobra.Command, fn func(*cart.Store) error) error {
		cfg, log, err := load()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		storage, closeStorage, err := openStorage(cmd.Context(), cfg.Storage, log)
		if err != nil {
			return fmt.Errorf("openStorage[%s]: %w", cfg.Storage.Backend, err)
		}
		defer closeStorage()

		run := func(slots port.SlotStorage) error {
			store := cart.NewStore(repository.Scoped(slots, sessionID), cart.WithSlot(cfg.Storage.Slot), cart.WithLogger(log))
			store.Initialize(cmd.Context())
			return fn(store)
		}

		// postgres reads and rewrites the cart in one transaction
		if tr, ok := storage.(repository.Transactional); ok {
			return tr.InTx(cmd.Context(), run)
		}
		return run(storage)
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the cart lines and totals",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withStore(cmd, func(store *cart.Store) error {
					return printCart(cmd.OutOrStdout(), store.Cart())
				})
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every line from the cart",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withStore(cmd, func(store *cart.Store) error {
					if err := store.Clear(cmd.Context()); err != nil {
						return fmt.Errorf("store.Clear: %w", err)
					}
					_, err := fmt.Fprintln(cmd.OutOrStdout(), "cart cleared")
					return err
				})
			},
		},
	)

	return cmd
}

func printCart(out io.Writer, c domain.Cart) error {
	if c.IsEmpty() {
		_, err := fmt.Fprintln(out, "Your cart is empty")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tPRICE\tQTY\tSUBTOTAL")
	for _, item := range c.Items {
		fmt.Fprintf(w, "%d\t%s\t$%s\t%d\t$%s\n", item.ProductID, item.Title, item.Price.Fixed(), item.Quantity, item.Subtotal().Fixed())
	}

	t := c.Totals()
	shipping := "$" + t.Shipping.StringFixed(2)
	if t.FreeShipping() {
		shipping = "Free"
	}
	fmt.Fprintf(w, "\t\t\t\t\n")
	fmt.Fprintf(w, "\tSub-total\t\t\t$%s\n", t.Subtotal.StringFixed(2))
	fmt.Fprintf(w, "\tShipping\t\t\t%s\n", shipping)
	fmt.Fprintf(w, "\tDiscount\t\t\t$%s\n", t.Discount.StringFixed(2))
	fmt.Fprintf(w, "\tTax\t\t\t$%s\n", t.Tax.StringFixed(2))
	fmt.Fprintf(w, "\tTotal\t\t\t$%s %s\n", t.Total.StringFixed(2), t.Currency)

	return w.Flush()
}
