package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/nemflow/nemflow/internal/config"
)

const (
	appName = "nemflow"
	version = "v1.4.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	var cfgPath string

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "NEM market data ingestion and fan-out pipeline",
		Version: version,
		Long: `nemflow ingests the public 5-minute NEM reports (dispatch, SCADA,
P5MIN, trading, predispatch, ST PASA), persists them to postgres with redis
hot snapshots and a raw archive, and serves a read API plus a live
websocket feed.`,
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to YAML config (env NEMFLOW_CONFIG)")

	loadConfig := func() (*config.Config, error) {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		applyLogLevel(cfg.LogLevel)
		return cfg, nil
	}

	scraperCmd := &cobra.Command{
		Use:   "scraper",
		Short: "Run the 5-minute ingestion loop and its admin surface",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runScraper(cmd.Context(), cfg)
		},
	}

	apiCmd := &cobra.Command{
		Use:   "api",
		Short: "Run the read API and the websocket hub",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runAPI(cmd.Context(), cfg)
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Run one validation pass and print the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runValidate(cmd.Context(), cfg)
		},
	}

	triggerCmd := &cobra.Command{
		Use:   "trigger",
		Short: "Run a single ingestion tick and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runTrigger(cmd.Context(), cfg)
		},
	}

	rootCmd.AddCommand(scraperCmd, apiCmd, validateCmd, triggerCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func applyLogLevel(level string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}
