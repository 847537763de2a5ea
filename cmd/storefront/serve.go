package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/nikolayk812/storefront/internal/catalog"
	"github.com/nikolayk812/storefront/internal/config"
	"github.com/nikolayk812/storefront/internal/handler"
	"github.com/nikolayk812/storefront/internal/metrics"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/render"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/nikolayk812/storefront/internal/storefront"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func serveCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the storefront over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	storage, closeStorage, err := openStorage(ctx, cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("openStorage[%s]: %w", cfg.Storage.Backend, err)
	}
	defer closeStorage()

	views, err := render.New()
	if err != nil {
		return fmt.Errorf("render.New: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	source := catalog.NewClient(cfg.Catalog.BaseURL, &http.Client{Timeout: cfg.Catalog.Timeout})

	h := handler.New(handler.Config{
		NewApp: func(sessionID string, surface port.Surface, history port.History) (*storefront.App, error) {
			return storefront.New(storefront.Config{
				Storage:           repository.Scoped(storage, sessionID),
				Source:            source,
				Surface:           surface,
				History:           history,
				Views:             views,
				Logger:            log.With(zap.String("session", sessionID)),
				Metrics:           m,
				Slot:              cfg.Storage.Slot,
				CatalogLimit:      cfg.Catalog.Limit,
				CategoryCount:     cfg.Catalog.Categories,
				LookupConcurrency: cfg.Catalog.LookupConcurrency,
				Featured:          cfg.Catalog.Featured,
				PerClassification: cfg.Catalog.PerClassification,
			})
		},
		Views:         views,
		Logger:        log,
		Metrics:       m,
		Gatherer:      reg,
		SecureCookies: cfg.Server.SecureCookies,
	})
	defer h.Close()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http server listening", zap.String("addr", cfg.Server.Addr), zap.String("storage", cfg.Storage.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("srv.ListenAndServe: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(max(cfg.Server.SessionIdle/2, time.Second))
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				h.Sweep(cfg.Server.SessionIdle)
			}
		}
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("srv.Shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
