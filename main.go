/*
Package main
File: main.go
Description: Server entry point. Loads the configuration, starts the session
store and the real-time WebSocket hub, fetches the item catalog in the
background and serves the shop API until interrupted.
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/everforgeworks/rift-armory/internal/api"
	"github.com/everforgeworks/rift-armory/internal/catalog"
	"github.com/everforgeworks/rift-armory/internal/config"
	"github.com/everforgeworks/rift-armory/internal/game"
	"github.com/everforgeworks/rift-armory/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "armory: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load the configuration from YAML
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	// 2. Build the session store and the catalog source
	store := game.NewStore(cfg.Shop.StartingGold, cfg.Shop.HistoryLimit)
	source := &catalog.HTTPSource{
		URL:        cfg.Catalog.URL,
		Client:     &http.Client{Timeout: cfg.Catalog.Timeout},
		Attempts:   cfg.Catalog.Attempts,
		RetryDelay: cfg.Catalog.RetryDelay,
		Filter: catalog.FilterOptions{
			ExcludedIDs: cfg.Catalog.ExcludedIDs,
			MapID:       cfg.Catalog.MapID,
		},
		Logger: logger.Named("catalog"),
	}

	// 3. Initialize the Real-Time WebSocket Hub and the API
	hub := api.NewHub(logger)
	srv := api.NewServer(store, source, hub, logger, cfg.Server.AllowedOrigin)

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		hub.Run(ctx)
		return nil
	})

	// 4. Initial catalog load. A failure leaves the catalog empty; the server keeps running.
	eg.Go(func() error {
		srv.LoadCatalog(ctx)
		return nil
	})

	// 5. Hot-reload: SIGHUP fetches the catalog again without a restart
	eg.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGHUP)
		defer signal.Stop(sigChan)
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-sigChan:
				logger.Info("SIGHUP: reloading catalog")
				srv.LoadCatalog(ctx)
			}
		}
	})

	// 6. Start the Server
	eg.Go(func() error {
		logger.Info("shop server live",
			zap.String("addr", cfg.Server.Addr),
			zap.String("session_id", store.SessionID()),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := eg.Wait(); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}
