package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/nemflow/nemflow/internal/alert"
	"github.com/nemflow/nemflow/internal/cache"
	"github.com/nemflow/nemflow/internal/config"
	"github.com/nemflow/nemflow/internal/ingest"
	"github.com/nemflow/nemflow/internal/parser"
	"github.com/nemflow/nemflow/internal/scrape"
	"github.com/nemflow/nemflow/internal/store"
	"github.com/nemflow/nemflow/internal/validate"
)

func connectPostgres(ctx context.Context, cfg *config.Config) (*sqlx.DB, *store.Postgres, error) {
	db, err := store.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, nil, err
	}
	pg := store.NewPostgres(db)
	if err := pg.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, pg, nil
}

func connectRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func buildOrchestrator(ctx context.Context, cfg *config.Config, withValidator bool) (*ingest.Orchestrator, *sqlx.DB, error) {
	db, pg, err := connectPostgres(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	rdb := connectRedis(cfg)
	hot := store.NewHotCache(rdb)

	archive, err := store.NewArchive(cfg.Archive.Dir)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	deps := ingest.Deps{
		BaseURL:      cfg.Upstream.BaseURL,
		BroadcastURL: cfg.Hub.BroadcastURL,
		Scanner:      scrape.NewScanner(nil),
		Fetcher:      scrape.NewFetcher(nil),
		Registry:     parser.NewRegistry(),
		Store:        pg,
		Archive:      archive,
		Hot:          hot,
		Tiered:       cache.New(rdb),
	}
	if withValidator {
		sink := alert.NewWebhook(cfg.Alert.WebhookURL)
		deps.Validator = validate.New(pg, hot, sink, cfg.Alert.Links)
	}
	return ingest.New(deps), db, nil
}

func runScraper(parent context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	orch, db, err := buildOrchestrator(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer db.Close()

	log.Info().
		Str("base_url", cfg.Upstream.BaseURL).
		Str("admin_addr", cfg.HTTP.AdminAddr).
		Msg("starting scraper")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := orch.Run(gctx); err != nil && gctx.Err() == nil {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return serveHTTP(gctx, "admin", cfg.HTTP.AdminAddr, orch.AdminRouter())
	})
	return g.Wait()
}

// serveHTTP runs one HTTP server until ctx is cancelled, then drains it.
func serveHTTP(ctx context.Context, name, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("server", name).Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down %s server: %w", name, err)
		}
		log.Info().Str("server", name).Msg("stopped")
		return nil
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("%s server failed: %w", name, err)
		}
		return nil
	}
}
