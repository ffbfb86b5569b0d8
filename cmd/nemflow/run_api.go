package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/nemflow/nemflow/internal/api"
	"github.com/nemflow/nemflow/internal/authz"
	"github.com/nemflow/nemflow/internal/cache"
	"github.com/nemflow/nemflow/internal/config"
	"github.com/nemflow/nemflow/internal/ledger"
	"github.com/nemflow/nemflow/internal/livehub"
)

func runAPI(parent context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, pg, err := connectPostgres(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	rdb := connectRedis(cfg)

	snapshots, err := livehub.OpenSnapshotStore(cfg.Hub.DBPath)
	if err != nil {
		return err
	}
	defer snapshots.Close()
	hub := livehub.NewHub(snapshots)

	server := api.NewServer(api.Config{
		Reader:     pg,
		Positions:  ledger.New(db),
		Tiered:     cache.New(rdb),
		Verifier:   authz.NewClient(cfg.Auth.BaseURL),
		WSHandler:  hub.HandleWS,
		CORSOrigin: cfg.HTTP.CORSOrigin,
	})

	// The hub listener is internal: the scraper posts fresh prices to
	// /broadcast and trusted consumers may attach to /ws directly.
	hubRouter := mux.NewRouter()
	hubRouter.HandleFunc("/broadcast", hub.HandleBroadcast).Methods(http.MethodPost)
	hubRouter.HandleFunc("/ws", hub.HandleWS).Methods(http.MethodGet)
	hubRouter.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	log.Info().
		Str("api_addr", cfg.HTTP.APIAddr).
		Str("hub_addr", cfg.HTTP.HubAddr).
		Msg("starting read API")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return serveHTTP(gctx, "api", cfg.HTTP.APIAddr, server.Router()) })
	g.Go(func() error { return serveHTTP(gctx, "hub", cfg.HTTP.HubAddr, hubRouter) })
	return g.Wait()
}
