// Package validate runs the data quality checks over the relational store
// and the hot cache, logs the outcome and raises webhook alerts on failure.
package validate

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nemflow/nemflow/internal/metrics"
	"github.com/nemflow/nemflow/internal/model"
)

// Staleness and completeness thresholds.
const (
	dispatchMaxAge = 10 * time.Minute
	tradingMaxAge  = 35 * time.Minute

	minScadaUnits   = 400
	minFCASServices = 9
	minBatteryUnits = 30

	genDemandTolerance = 0.05

	minP5Horizon     = 12  // one hour of 5-minute intervals
	minPDHorizon     = 96  // two days of 30-minute intervals
	minStPasaHorizon = 336 // seven days of 30-minute intervals
)

// Store is the slice of the relational store the validator reads.
type Store interface {
	MaxTimestamp(ctx context.Context, table, column string) (time.Time, error)
	CountAtLatest(ctx context.Context, table, timeCol, keyCol string) (int, error)
	GenDemandGap(ctx context.Context) (gen, demand float64, err error)
	PriceRangeViolations(ctx context.Context) (int, error)
	SoCViolations(ctx context.Context) (int, error)
	ForecastHorizon(ctx context.Context, table string) (int, error)
	SaveValidationReport(ctx context.Context, report model.ValidationReport) error
	PruneValidationLog(ctx context.Context) (int64, error)
}

// Cache probes snapshot keys for the cache health check.
type Cache interface {
	ProbeKeys(ctx context.Context) (hits, total int)
}

// AlertSink delivers failed reports.
type AlertSink interface {
	SendValidationFailure(ctx context.Context, report model.ValidationReport, links []string) error
}

// Validator runs the five check families.
type Validator struct {
	store Store
	cache Cache
	sink  AlertSink
	links []string

	now func() time.Time
}

// New wires a validator. sink may be nil when no webhook is configured.
func New(store Store, cache Cache, sink AlertSink, links []string) *Validator {
	return &Validator{
		store: store,
		cache: cache,
		sink:  sink,
		links: links,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Run executes every check, appends the report to the validation log, prunes
// entries older than seven days, and alerts on failure. The report is
// returned even when persistence of it fails.
func (v *Validator) Run(ctx context.Context) (model.ValidationReport, error) {
	report := model.ValidationReport{
		Issues:    []string{},
		Warnings:  []string{},
		Metrics:   make(map[string]float64),
		CheckedAt: v.now(),
	}

	v.checkFreshness(ctx, &report)
	v.checkCompleteness(ctx, &report)
	v.checkConsistency(ctx, &report)
	v.checkForecastHorizons(ctx, &report)
	v.checkCacheHealth(ctx, &report)

	report.Passed = len(report.Issues) == 0
	if !report.Passed {
		metrics.ValidationFailures.Inc()
	}

	if err := v.store.SaveValidationReport(ctx, report); err != nil {
		log.Error().Err(err).Msg("failed to persist validation report")
	}
	if pruned, err := v.store.PruneValidationLog(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to prune validation log")
	} else if pruned > 0 {
		log.Debug().Int64("rows", pruned).Msg("pruned validation log")
	}

	if !report.Passed && v.sink != nil {
		if err := v.sink.SendValidationFailure(ctx, report, v.links); err != nil {
			log.Error().Err(err).Msg("failed to deliver validation alert")
		}
	}

	log.Info().Bool("passed", report.Passed).
		Int("issues", len(report.Issues)).Int("warnings", len(report.Warnings)).
		Msg("validation run complete")
	return report, nil
}

func (v *Validator) checkFreshness(ctx context.Context, report *model.ValidationReport) {
	now := v.now()
	checks := []struct {
		table  string
		column string
		maxAge time.Duration
	}{
		{"dispatch_prices", "settlement_date", dispatchMaxAge},
		{"generator_scada", "settlement_date", dispatchMaxAge},
		{"trading_prices", "settlement_date", tradingMaxAge},
	}
	for _, c := range checks {
		ts, err := v.store.MaxTimestamp(ctx, c.table, c.column)
		if err != nil {
			report.Issues = append(report.Issues, fmt.Sprintf("freshness probe failed for %s: %v", c.table, err))
			continue
		}
		if ts.IsZero() {
			report.Issues = append(report.Issues, fmt.Sprintf("%s has no data", c.table))
			continue
		}
		age := now.Sub(ts)
		report.Metrics[c.table+"_age_minutes"] = age.Minutes()
		if age > c.maxAge {
			report.Issues = append(report.Issues,
				fmt.Sprintf("%s is %.0fm stale (limit %.0fm)", c.table, age.Minutes(), c.maxAge.Minutes()))
		}
	}
}

func (v *Validator) checkCompleteness(ctx context.Context, report *model.ValidationReport) {
	if n, err := v.store.CountAtLatest(ctx, "dispatch_prices", "settlement_date", "region"); err == nil {
		report.Metrics["region_count"] = float64(n)
		if n != len(model.Regions) {
			report.Issues = append(report.Issues,
				fmt.Sprintf("expected %d regions at latest interval, found %d", len(model.Regions), n))
		}
	} else {
		report.Issues = append(report.Issues, fmt.Sprintf("region count probe failed: %v", err))
	}

	if n, err := v.store.CountAtLatest(ctx, "generator_scada", "settlement_date", "duid"); err == nil {
		report.Metrics["scada_unit_count"] = float64(n)
		if n < minScadaUnits {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("scada unit count %d below %d", n, minScadaUnits))
		}
	}

	if n, err := v.store.CountAtLatest(ctx, "fcas_prices", "settlement_date", "service"); err == nil {
		report.Metrics["fcas_service_count"] = float64(n)
		// Zero-priced services are suppressed at ingest, so a healthy
		// interval still carries at least nine of the ten markets.
		if n < minFCASServices {
			report.Issues = append(report.Issues,
				fmt.Sprintf("fcas service count %d below %d", n, minFCASServices))
		}
	}

	if n, err := v.store.CountAtLatest(ctx, "battery_dispatch", "settlement_date", "duid"); err == nil {
		report.Metrics["battery_unit_count"] = float64(n)
		if n < minBatteryUnits {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("battery unit count %d below %d", n, minBatteryUnits))
		}
	}
}

func (v *Validator) checkConsistency(ctx context.Context, report *model.ValidationReport) {
	if gen, demand, err := v.store.GenDemandGap(ctx); err == nil && demand > 0 {
		gap := math.Abs(gen-demand) / demand
		report.Metrics["gen_demand_gap"] = gap
		if gap > genDemandTolerance {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("generation/demand gap %.1f%% exceeds %.0f%%", gap*100, genDemandTolerance*100))
		}
	}

	if n, err := v.store.PriceRangeViolations(ctx); err == nil && n > 0 {
		report.Issues = append(report.Issues,
			fmt.Sprintf("%d dispatch prices outside market bounds in last hour", n))
	}

	if n, err := v.store.SoCViolations(ctx); err == nil && n > 0 {
		report.Issues = append(report.Issues,
			fmt.Sprintf("%d battery rows with state of charge outside [0, 100]", n))
	}
}

func (v *Validator) checkForecastHorizons(ctx context.Context, report *model.ValidationReport) {
	checks := []struct {
		table string
		min   int
	}{
		{"p5min_forecasts", minP5Horizon},
		{"predispatch_forecasts", minPDHorizon},
		{"stpasa_forecasts", minStPasaHorizon},
	}
	for _, c := range checks {
		n, err := v.store.ForecastHorizon(ctx, c.table)
		if err != nil {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("forecast horizon probe failed for %s: %v", c.table, err))
			continue
		}
		report.Metrics[c.table+"_horizon"] = float64(n)
		if n < c.min {
			report.Issues = append(report.Issues,
				fmt.Sprintf("%s horizon %d intervals below %d", c.table, n, c.min))
		}
	}
}

func (v *Validator) checkCacheHealth(ctx context.Context, report *model.ValidationReport) {
	if v.cache == nil {
		return
	}
	hits, total := v.cache.ProbeKeys(ctx)
	if total == 0 {
		return
	}
	rate := float64(hits) / float64(total)
	report.Metrics["cache_hit_rate"] = rate
	if hits == 0 {
		report.Warnings = append(report.Warnings, "all cache snapshot probes missed")
	}
}
