package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/nemflow/nemflow/internal/alert"
	"github.com/nemflow/nemflow/internal/config"
	"github.com/nemflow/nemflow/internal/store"
	"github.com/nemflow/nemflow/internal/validate"
)

func runValidate(ctx context.Context, cfg *config.Config) error {
	db, pg, err := connectPostgres(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	hot := store.NewHotCache(connectRedis(cfg))
	sink := alert.NewWebhook(cfg.Alert.WebhookURL)

	report, err := validate.New(pg, hot, sink, cfg.Alert.Links).Run(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	if !report.Passed {
		return fmt.Errorf("validation failed with %d issue(s)", len(report.Issues))
	}
	return nil
}

func runTrigger(ctx context.Context, cfg *config.Config) error {
	orch, db, err := buildOrchestrator(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer db.Close()

	report := orch.Tick(ctx)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
