package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"

	"github.com/nikolayk812/storefront/internal/catalog"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/spf13/cobra"
)

func searchCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search the catalog by title, description or category",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Catalog.Timeout)
			defer cancel()

			cache := catalog.NewCache(
				catalog.NewClient(cfg.Catalog.BaseURL, &http.Client{Timeout: cfg.Catalog.Timeout}),
				catalog.WithLimit(cfg.Catalog.Limit),
				catalog.WithLogger(log))
			if err := cache.Load(ctx); err != nil {
				return fmt.Errorf("cache.Load: %w", err)
			}

			results := cache.Search(strings.Join(args, " "))
			if len(results) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No products found.")
				return err
			}

			return printProducts(cmd.OutOrStdout(), results)
		},
	}
}

func printProducts(out io.Writer, products []domain.Product) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tPRICE\tRATING\tSTOCK")
	for _, p := range products {
		fmt.Fprintf(w, "%d\t%s\t%s\t$%s\t%s\t%d\n", p.ID, p.Title, p.Category, p.Price.StringFixed(2), p.Rating.StringFixed(2), p.Stock)
	}
	return w.Flush()
}
