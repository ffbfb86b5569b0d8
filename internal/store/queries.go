package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nemflow/nemflow/internal/model"
)

// LatestPrices returns the most recent dispatch price row per region.
func (p *Postgres) LatestPrices(ctx context.Context) ([]model.DispatchPrice, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	query := `
		SELECT DISTINCT ON (region)
			settlement_date, region, rrp, eep, rop, apc_flag, total_demand,
			available_generation, net_interchange, price_status, last_changed
		FROM dispatch_prices
		ORDER BY region, settlement_date DESC`
	var out []model.DispatchPrice
	if err := p.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("failed to query latest prices: %w", err)
	}
	return out, nil
}

// PriceHistory returns dispatch prices for a region over the last N hours,
// newest first.
func (p *Postgres) PriceHistory(ctx context.Context, region string, hours int) ([]model.DispatchPrice, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	query := `
		SELECT settlement_date, region, rrp, eep, rop, apc_flag, total_demand,
			available_generation, net_interchange, price_status, last_changed
		FROM dispatch_prices
		WHERE region = $1 AND settlement_date >= $2
		ORDER BY settlement_date DESC`
	since := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)
	var out []model.DispatchPrice
	if err := p.db.SelectContext(ctx, &out, query, region, since); err != nil {
		return nil, fmt.Errorf("failed to query price history: %w", err)
	}
	return out, nil
}

// ForwardCurve returns the most recent predispatch run's forecast rows for a
// region, bounded to the given UTC day when day is non-zero.
func (p *Postgres) ForwardCurve(ctx context.Context, region string, day time.Time) ([]model.PredispatchRegion, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	query := `
		SELECT predispatch_run_id, interval_datetime, region, rrp, total_demand,
			available_generation, net_interchange
		FROM predispatch_forecasts
		WHERE region = $1
		  AND predispatch_run_id = (
			SELECT predispatch_run_id FROM predispatch_forecasts
			WHERE region = $1 ORDER BY predispatch_run_id DESC LIMIT 1)
		ORDER BY interval_datetime ASC`
	var out []model.PredispatchRegion
	if err := p.db.SelectContext(ctx, &out, query, region); err != nil {
		return nil, fmt.Errorf("failed to query forward curve: %w", err)
	}
	if day.IsZero() {
		return out, nil
	}

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)
	filtered := out[:0]
	for _, r := range out {
		if !r.IntervalDateTime.Before(dayStart) && r.IntervalDateTime.Before(dayEnd) {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

// DemandForecast returns the most recent P5MIN run's forecast for a region.
func (p *Postgres) DemandForecast(ctx context.Context, region string) ([]model.P5Forecast, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	query := `
		SELECT run_datetime, interval_datetime, region, rrp, total_demand,
			available_generation, net_interchange
		FROM p5min_forecasts
		WHERE region = $1
		  AND run_datetime = (
			SELECT MAX(run_datetime) FROM p5min_forecasts WHERE region = $1)
		ORDER BY interval_datetime ASC`
	var out []model.P5Forecast
	if err := p.db.SelectContext(ctx, &out, query, region); err != nil {
		return nil, fmt.Errorf("failed to query demand forecast: %w", err)
	}
	return out, nil
}

// LatestFCAS returns the FCAS prices at the most recent interval.
func (p *Postgres) LatestFCAS(ctx context.Context) ([]model.FCASPrice, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	query := `
		SELECT settlement_date, region, service, price, enablement_min, enablement_max, required_mw
		FROM fcas_prices
		WHERE settlement_date = (SELECT MAX(settlement_date) FROM fcas_prices)
		ORDER BY region, service`
	var out []model.FCASPrice
	if err := p.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("failed to query latest fcas prices: %w", err)
	}
	return out, nil
}

// MaxTimestamp returns the newest time value in a table's time column. A
// table with no rows returns the zero time and no error.
func (p *Postgres) MaxTimestamp(ctx context.Context, table, column string) (time.Time, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	query := fmt.Sprintf(`SELECT COALESCE(MAX(%s), 'epoch'::timestamptz) FROM %s`, column, table)
	var ts time.Time
	if err := p.db.GetContext(ctx, &ts, query); err != nil {
		return time.Time{}, fmt.Errorf("failed to query max timestamp for %s: %w", table, err)
	}
	if ts.Unix() <= 0 {
		return time.Time{}, nil
	}
	return ts, nil
}

// CountAtLatest counts distinct key values at a table's newest interval.
func (p *Postgres) CountAtLatest(ctx context.Context, table, timeCol, keyCol string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT COUNT(DISTINCT %s) FROM %s
		WHERE %s = (SELECT MAX(%s) FROM %s)`, keyCol, table, timeCol, timeCol, table)
	var n int
	if err := p.db.GetContext(ctx, &n, query); err != nil {
		return 0, fmt.Errorf("failed to count %s at latest interval: %w", table, err)
	}
	return n, nil
}

// PriceRangeViolations counts dispatch prices outside the market bounds over
// the trailing hour.
func (p *Postgres) PriceRangeViolations(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	query := `
		SELECT COUNT(*) FROM dispatch_prices
		WHERE settlement_date >= $1 AND (rrp > $2 OR rrp < $3)`
	var n int
	since := time.Now().UTC().Add(-time.Hour)
	if err := p.db.GetContext(ctx, &n, query, since, model.PriceCap, model.PriceFloor); err != nil {
		return 0, fmt.Errorf("failed to count price range violations: %w", err)
	}
	return n, nil
}

// SoCViolations counts battery rows with a state of charge outside [0, 100].
func (p *Postgres) SoCViolations(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	query := `
		SELECT COUNT(*) FROM battery_dispatch
		WHERE settlement_date = (SELECT MAX(settlement_date) FROM battery_dispatch)
		  AND (soc_percent < 0 OR soc_percent > 100)`
	var n int
	if err := p.db.GetContext(ctx, &n, query); err != nil {
		return 0, fmt.Errorf("failed to count soc violations: %w", err)
	}
	return n, nil
}

// GenDemandGap returns the latest interval's summed generation and demand
// across regions so the validator can compare them.
func (p *Postgres) GenDemandGap(ctx context.Context) (gen, demand float64, err error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	query := `
		SELECT COALESCE(SUM(available_generation), 0), COALESCE(SUM(total_demand), 0)
		FROM dispatch_prices
		WHERE settlement_date = (SELECT MAX(settlement_date) FROM dispatch_prices)`
	row := p.db.QueryRowxContext(ctx, query)
	if err := row.Scan(&gen, &demand); err != nil {
		return 0, 0, fmt.Errorf("failed to query generation/demand totals: %w", err)
	}
	return gen, demand, nil
}

// ForecastHorizon counts forward intervals beyond now for a forecast table.
func (p *Postgres) ForecastHorizon(ctx context.Context, table string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT COUNT(DISTINCT interval_datetime) FROM %s
		WHERE interval_datetime > $1`, table)
	var n int
	if err := p.db.GetContext(ctx, &n, query, time.Now().UTC()); err != nil {
		return 0, fmt.Errorf("failed to count forecast horizon for %s: %w", table, err)
	}
	return n, nil
}

// SaveValidationReport appends one row to the rolling validation log.
func (p *Postgres) SaveValidationReport(ctx context.Context, report model.ValidationReport) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	query := `
		INSERT INTO validation_log (passed, issues, warnings, checked_at)
		VALUES ($1, $2, $3, $4)`
	_, err := p.db.ExecContext(ctx, query,
		report.Passed, strings.Join(report.Issues, "; "),
		strings.Join(report.Warnings, "; "), report.CheckedAt)
	if err != nil {
		return fmt.Errorf("failed to insert validation report: %w", err)
	}
	return nil
}

// PruneValidationLog deletes validation rows older than seven days.
func (p *Postgres) PruneValidationLog(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	res, err := p.db.ExecContext(ctx,
		`DELETE FROM validation_log WHERE checked_at < $1`,
		time.Now().UTC().Add(-7*24*time.Hour))
	if err != nil {
		return 0, fmt.Errorf("failed to prune validation log: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
