// Package store persists ingested records: batched upserts to PostgreSQL,
// raw payloads to the filesystem archive, and JSON snapshots to the hot
// cache. The ingestion runtime is the only writer to the time-series tables.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/nemflow/nemflow/internal/model"
)

// maxBatchRows bounds how many rows go into one transaction.
const maxBatchRows = 500

// Postgres is the relational store. All writes are upserts on the natural
// key so re-ingesting the same file converges to the same state.
type Postgres struct {
	db      *sqlx.DB
	timeout time.Duration

	mu      sync.Mutex
	created map[string]bool
}

// NewPostgres wraps an open connection pool.
func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{
		db:      db,
		timeout: 30 * time.Second,
		created: make(map[string]bool),
	}
}

// Connect opens a pool against dsn and verifies it with a ping.
func Connect(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Migrate creates the core time-series tables. The rollup tables
// (constraints, generation_by_fuel) are created lazily on first write
// instead.
func (p *Postgres) Migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	for _, ddl := range coreSchema {
		if _, err := p.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}

var coreSchema = []string{
	`CREATE TABLE IF NOT EXISTS dispatch_prices (
		settlement_date TIMESTAMPTZ NOT NULL,
		region TEXT NOT NULL,
		rrp DOUBLE PRECISION NOT NULL,
		eep DOUBLE PRECISION NOT NULL DEFAULT 0,
		rop DOUBLE PRECISION NOT NULL DEFAULT 0,
		apc_flag INTEGER NOT NULL DEFAULT 0,
		total_demand DOUBLE PRECISION NOT NULL DEFAULT 0,
		available_generation DOUBLE PRECISION NOT NULL DEFAULT 0,
		net_interchange DOUBLE PRECISION NOT NULL DEFAULT 0,
		price_status TEXT NOT NULL DEFAULT '',
		last_changed TIMESTAMPTZ,
		PRIMARY KEY (region, settlement_date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_dispatch_prices_ts ON dispatch_prices (settlement_date DESC)`,
	`CREATE TABLE IF NOT EXISTS fcas_prices (
		settlement_date TIMESTAMPTZ NOT NULL,
		region TEXT NOT NULL,
		service TEXT NOT NULL,
		price DOUBLE PRECISION NOT NULL,
		enablement_min DOUBLE PRECISION NOT NULL DEFAULT 0,
		enablement_max DOUBLE PRECISION NOT NULL DEFAULT 0,
		-- required MW per REGIONSUM; 1-second services use the
		-- local-dispatch positions
		required_mw DOUBLE PRECISION NOT NULL DEFAULT 0,
		PRIMARY KEY (region, service, settlement_date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_fcas_prices_ts ON fcas_prices (settlement_date DESC)`,
	`CREATE TABLE IF NOT EXISTS generator_scada (
		settlement_date TIMESTAMPTZ NOT NULL,
		duid TEXT NOT NULL,
		scada_value DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (duid, settlement_date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_generator_scada_ts ON generator_scada (settlement_date DESC)`,
	`CREATE TABLE IF NOT EXISTS generator_dispatch (
		settlement_date TIMESTAMPTZ NOT NULL,
		duid TEXT NOT NULL,
		intervention INTEGER NOT NULL DEFAULT 0,
		initial_mw DOUBLE PRECISION NOT NULL DEFAULT 0,
		total_cleared DOUBLE PRECISION NOT NULL DEFAULT 0,
		ramp_up_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
		ramp_down_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
		availability DOUBLE PRECISION NOT NULL DEFAULT 0,
		semi_dispatch_cap DOUBLE PRECISION NOT NULL DEFAULT 0,
		PRIMARY KEY (duid, settlement_date, intervention)
	)`,
	`CREATE TABLE IF NOT EXISTS battery_dispatch (
		settlement_date TIMESTAMPTZ NOT NULL,
		duid TEXT NOT NULL,
		initial_mw DOUBLE PRECISION NOT NULL DEFAULT 0,
		total_cleared DOUBLE PRECISION NOT NULL DEFAULT 0,
		availability DOUBLE PRECISION NOT NULL DEFAULT 0,
		charge_mw DOUBLE PRECISION NOT NULL DEFAULT 0,
		discharge_mw DOUBLE PRECISION NOT NULL DEFAULT 0,
		mode TEXT NOT NULL,
		soc_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
		energy_mwh DOUBLE PRECISION NOT NULL DEFAULT 0,
		capacity_mwh DOUBLE PRECISION NOT NULL DEFAULT 0,
		max_charge_mw DOUBLE PRECISION NOT NULL DEFAULT 0,
		max_discharge_mw DOUBLE PRECISION NOT NULL DEFAULT 0,
		station_name TEXT NOT NULL DEFAULT '',
		region TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (duid, settlement_date)
	)`,
	`CREATE TABLE IF NOT EXISTS interconnector_flows (
		settlement_date TIMESTAMPTZ NOT NULL,
		interconnector_id TEXT NOT NULL,
		from_region TEXT NOT NULL,
		to_region TEXT NOT NULL,
		metered_mw_flow DOUBLE PRECISION NOT NULL DEFAULT 0,
		mw_flow DOUBLE PRECISION NOT NULL DEFAULT 0,
		mw_losses DOUBLE PRECISION NOT NULL DEFAULT 0,
		marginal_value DOUBLE PRECISION NOT NULL DEFAULT 0,
		violation_degree DOUBLE PRECISION NOT NULL DEFAULT 0,
		export_limit DOUBLE PRECISION NOT NULL DEFAULT 0,
		import_limit DOUBLE PRECISION NOT NULL DEFAULT 0,
		PRIMARY KEY (interconnector_id, settlement_date)
	)`,
	`CREATE TABLE IF NOT EXISTS trading_prices (
		settlement_date TIMESTAMPTZ NOT NULL,
		region TEXT NOT NULL,
		rrp DOUBLE PRECISION NOT NULL,
		period_id INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (region, settlement_date)
	)`,
	`CREATE TABLE IF NOT EXISTS p5min_forecasts (
		run_datetime TIMESTAMPTZ NOT NULL,
		interval_datetime TIMESTAMPTZ NOT NULL,
		region TEXT NOT NULL,
		rrp DOUBLE PRECISION NOT NULL DEFAULT 0,
		total_demand DOUBLE PRECISION NOT NULL DEFAULT 0,
		available_generation DOUBLE PRECISION NOT NULL DEFAULT 0,
		net_interchange DOUBLE PRECISION NOT NULL DEFAULT 0,
		PRIMARY KEY (run_datetime, interval_datetime, region)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_p5min_interval ON p5min_forecasts (interval_datetime DESC)`,
	`CREATE TABLE IF NOT EXISTS p5min_unit_forecasts (
		predispatch_run_id TEXT NOT NULL,
		interval_datetime TIMESTAMPTZ NOT NULL,
		duid TEXT NOT NULL,
		total_cleared DOUBLE PRECISION NOT NULL DEFAULT 0,
		availability DOUBLE PRECISION NOT NULL DEFAULT 0,
		PRIMARY KEY (predispatch_run_id, interval_datetime, duid)
	)`,
	`CREATE TABLE IF NOT EXISTS predispatch_forecasts (
		predispatch_run_id TEXT NOT NULL,
		interval_datetime TIMESTAMPTZ NOT NULL,
		region TEXT NOT NULL,
		rrp DOUBLE PRECISION NOT NULL DEFAULT 0,
		total_demand DOUBLE PRECISION NOT NULL DEFAULT 0,
		available_generation DOUBLE PRECISION NOT NULL DEFAULT 0,
		net_interchange DOUBLE PRECISION NOT NULL DEFAULT 0,
		PRIMARY KEY (predispatch_run_id, interval_datetime, region)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_predispatch_interval ON predispatch_forecasts (interval_datetime DESC)`,
	`CREATE TABLE IF NOT EXISTS predispatch_unit_solutions (
		predispatch_run_id TEXT NOT NULL,
		interval_datetime TIMESTAMPTZ NOT NULL,
		duid TEXT NOT NULL,
		total_cleared DOUBLE PRECISION NOT NULL DEFAULT 0,
		availability DOUBLE PRECISION NOT NULL DEFAULT 0,
		PRIMARY KEY (predispatch_run_id, interval_datetime, duid)
	)`,
	`CREATE TABLE IF NOT EXISTS stpasa_forecasts (
		run_datetime TIMESTAMPTZ NOT NULL,
		interval_datetime TIMESTAMPTZ NOT NULL,
		region TEXT NOT NULL,
		demand10 DOUBLE PRECISION NOT NULL DEFAULT 0,
		demand50 DOUBLE PRECISION NOT NULL DEFAULT 0,
		demand90 DOUBLE PRECISION NOT NULL DEFAULT 0,
		aggregate_capacity DOUBLE PRECISION NOT NULL DEFAULT 0,
		surplus_reserve DOUBLE PRECISION NOT NULL DEFAULT 0,
		reserve_condition TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (run_datetime, interval_datetime, region)
	)`,
	`CREATE TABLE IF NOT EXISTS validation_log (
		id SERIAL PRIMARY KEY,
		passed BOOLEAN NOT NULL,
		issues TEXT NOT NULL DEFAULT '',
		warnings TEXT NOT NULL DEFAULT '',
		checked_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS trading_positions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		region TEXT NOT NULL,
		side TEXT NOT NULL,
		quantity DOUBLE PRECISION NOT NULL,
		entry_price DOUBLE PRECISION NOT NULL,
		entry_time TIMESTAMPTZ NOT NULL,
		exit_price DOUBLE PRECISION,
		exit_time TIMESTAMPTZ,
		pnl DOUBLE PRECISION,
		status TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_positions_user ON trading_positions (user_id, entry_time DESC)`,
}

// Rollup tables created lazily on first write.
var lazySchema = map[string]string{
	"constraints": `CREATE TABLE IF NOT EXISTS constraints (
		settlement_date TIMESTAMPTZ NOT NULL,
		constraint_id TEXT NOT NULL,
		rhs DOUBLE PRECISION NOT NULL DEFAULT 0,
		marginal_value DOUBLE PRECISION NOT NULL,
		violation_degree DOUBLE PRECISION NOT NULL DEFAULT 0,
		PRIMARY KEY (constraint_id, settlement_date)
	)`,
	"generation_by_fuel": `CREATE TABLE IF NOT EXISTS generation_by_fuel (
		settlement_date TIMESTAMPTZ NOT NULL,
		fuel_type TEXT NOT NULL,
		region TEXT NOT NULL DEFAULT '',
		total_mw DOUBLE PRECISION NOT NULL,
		unit_count INTEGER NOT NULL,
		PRIMARY KEY (fuel_type, region, settlement_date)
	)`,
	"stpasa_unit_availability": `CREATE TABLE IF NOT EXISTS stpasa_unit_availability (
		run_datetime TIMESTAMPTZ NOT NULL,
		interval_datetime TIMESTAMPTZ NOT NULL,
		duid TEXT NOT NULL,
		pasa_availability DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (duid, interval_datetime, run_datetime)
	)`,
	"predispatch_interconnectors": `CREATE TABLE IF NOT EXISTS predispatch_interconnectors (
		predispatch_run_id TEXT NOT NULL,
		interval_datetime TIMESTAMPTZ NOT NULL,
		interconnector_id TEXT NOT NULL,
		mw_flow DOUBLE PRECISION NOT NULL,
		mw_losses DOUBLE PRECISION NOT NULL DEFAULT 0,
		PRIMARY KEY (predispatch_run_id, interval_datetime, interconnector_id)
	)`,
	"predispatch_constraints": `CREATE TABLE IF NOT EXISTS predispatch_constraints (
		predispatch_run_id TEXT NOT NULL,
		interval_datetime TIMESTAMPTZ NOT NULL,
		constraint_id TEXT NOT NULL,
		rhs DOUBLE PRECISION NOT NULL DEFAULT 0,
		marginal_value DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (predispatch_run_id, interval_datetime, constraint_id)
	)`,
	"trading_regionsums": `CREATE TABLE IF NOT EXISTS trading_regionsums (
		settlement_date TIMESTAMPTZ NOT NULL,
		region TEXT NOT NULL,
		total_demand DOUBLE PRECISION NOT NULL,
		available_generation DOUBLE PRECISION NOT NULL,
		net_interchange DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (region, settlement_date)
	)`,
}

func (p *Postgres) ensureTable(ctx context.Context, table string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.created[table] {
		return nil
	}
	ddl, ok := lazySchema[table]
	if !ok {
		return nil
	}
	if _, err := p.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}
	p.created[table] = true
	return nil
}

// execBatch writes rows in chunks of at most maxBatchRows, one transaction
// per chunk. A rejected chunk is retried once as two half-chunks; a half that
// fails again is logged and dropped, since the natural-key upsert lets the
// next tick repair the gap.
func (p *Postgres) execBatch(ctx context.Context, table, query string, rows [][]interface{}) error {
	for start := 0; start < len(rows); start += maxBatchRows {
		end := start + maxBatchRows
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[start:end]
		if err := p.execChunk(ctx, query, chunk); err == nil {
			continue
		}

		for _, half := range splitChunk(chunk) {
			if err := p.execChunk(ctx, query, half); err != nil {
				log.Error().Err(err).Str("table", table).Int("rows", len(half)).
					Msg("dropping batch after half-batch retry failed")
			}
		}
	}
	return nil
}

func splitChunk(chunk [][]interface{}) [][][]interface{} {
	if len(chunk) <= 1 {
		return [][][]interface{}{chunk}
	}
	mid := len(chunk) / 2
	return [][][]interface{}{chunk[:mid], chunk[mid:]}
}

func (p *Postgres) execChunk(ctx context.Context, query string, chunk [][]interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, args := range chunk {
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to execute batch row: %w", err)
		}
	}
	return tx.Commit()
}

func (p *Postgres) SaveDispatchPrices(ctx context.Context, prices []model.DispatchPrice) error {
	if len(prices) == 0 {
		return nil
	}
	query := `
		INSERT INTO dispatch_prices
			(settlement_date, region, rrp, eep, rop, apc_flag, total_demand,
			 available_generation, net_interchange, price_status, last_changed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (region, settlement_date) DO UPDATE SET
			rrp = EXCLUDED.rrp, eep = EXCLUDED.eep, rop = EXCLUDED.rop,
			apc_flag = EXCLUDED.apc_flag, total_demand = EXCLUDED.total_demand,
			available_generation = EXCLUDED.available_generation,
			net_interchange = EXCLUDED.net_interchange,
			price_status = EXCLUDED.price_status, last_changed = EXCLUDED.last_changed`
	rows := make([][]interface{}, 0, len(prices))
	for _, dp := range prices {
		rows = append(rows, []interface{}{
			dp.SettlementDate, dp.Region, dp.RRP, dp.EEP, dp.ROP, dp.APCFlag,
			dp.TotalDemand, dp.AvailableGen, dp.NetInterchange, dp.PriceStatus, dp.LastChanged,
		})
	}
	return p.execBatch(ctx, "dispatch_prices", query, rows)
}

func (p *Postgres) SaveFCASPrices(ctx context.Context, fcas []model.FCASPrice) error {
	if len(fcas) == 0 {
		return nil
	}
	query := `
		INSERT INTO fcas_prices
			(settlement_date, region, service, price, enablement_min, enablement_max, required_mw)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (region, service, settlement_date) DO UPDATE SET
			price = EXCLUDED.price, enablement_min = EXCLUDED.enablement_min,
			enablement_max = EXCLUDED.enablement_max, required_mw = EXCLUDED.required_mw`
	rows := make([][]interface{}, 0, len(fcas))
	for _, f := range fcas {
		rows = append(rows, []interface{}{
			f.SettlementDate, f.Region, f.Service, f.Price, f.EnablementMin,
			f.EnablementMax, f.RequiredMW,
		})
	}
	return p.execBatch(ctx, "fcas_prices", query, rows)
}

func (p *Postgres) SaveScada(ctx context.Context, readings []model.ScadaReading) error {
	if len(readings) == 0 {
		return nil
	}
	query := `
		INSERT INTO generator_scada (settlement_date, duid, scada_value)
		VALUES ($1, $2, $3)
		ON CONFLICT (duid, settlement_date) DO UPDATE SET scada_value = EXCLUDED.scada_value`
	rows := make([][]interface{}, 0, len(readings))
	for _, r := range readings {
		rows = append(rows, []interface{}{r.SettlementDate, r.DUID, r.ScadaValue})
	}
	return p.execBatch(ctx, "generator_scada", query, rows)
}

func (p *Postgres) SaveGeneratorDispatch(ctx context.Context, units []model.GeneratorDispatch) error {
	if len(units) == 0 {
		return nil
	}
	query := `
		INSERT INTO generator_dispatch
			(settlement_date, duid, intervention, initial_mw, total_cleared,
			 ramp_up_rate, ramp_down_rate, availability, semi_dispatch_cap)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (duid, settlement_date, intervention) DO UPDATE SET
			initial_mw = EXCLUDED.initial_mw, total_cleared = EXCLUDED.total_cleared,
			ramp_up_rate = EXCLUDED.ramp_up_rate, ramp_down_rate = EXCLUDED.ramp_down_rate,
			availability = EXCLUDED.availability, semi_dispatch_cap = EXCLUDED.semi_dispatch_cap`
	rows := make([][]interface{}, 0, len(units))
	for _, u := range units {
		rows = append(rows, []interface{}{
			u.SettlementDate, u.DUID, u.Intervention, u.InitialMW, u.TotalCleared,
			u.RampUpRate, u.RampDownRate, u.AvailableMW, u.SemiDispatchCap,
		})
	}
	return p.execBatch(ctx, "generator_dispatch", query, rows)
}

func (p *Postgres) SaveBatteryDispatch(ctx context.Context, batteries []model.BatteryDispatch) error {
	if len(batteries) == 0 {
		return nil
	}
	query := `
		INSERT INTO battery_dispatch
			(settlement_date, duid, initial_mw, total_cleared, availability,
			 charge_mw, discharge_mw, mode, soc_percent, energy_mwh,
			 capacity_mwh, max_charge_mw, max_discharge_mw, station_name, region)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (duid, settlement_date) DO UPDATE SET
			initial_mw = EXCLUDED.initial_mw, total_cleared = EXCLUDED.total_cleared,
			availability = EXCLUDED.availability, charge_mw = EXCLUDED.charge_mw,
			discharge_mw = EXCLUDED.discharge_mw, mode = EXCLUDED.mode,
			soc_percent = EXCLUDED.soc_percent, energy_mwh = EXCLUDED.energy_mwh`
	rows := make([][]interface{}, 0, len(batteries))
	for _, b := range batteries {
		rows = append(rows, []interface{}{
			b.SettlementDate, b.DUID, b.InitialMW, b.TotalCleared, b.AvailableMW,
			b.ChargeMW, b.DischargeMW, b.Mode, b.SoCPercent, b.EnergyMWh,
			b.CapacityMWh, b.MaxChargeMW, b.MaxDischargeMW, b.StationName, b.Region,
		})
	}
	return p.execBatch(ctx, "battery_dispatch", query, rows)
}

func (p *Postgres) SaveInterconnectors(ctx context.Context, flows []model.InterconnectorFlow) error {
	if len(flows) == 0 {
		return nil
	}
	query := `
		INSERT INTO interconnector_flows
			(settlement_date, interconnector_id, from_region, to_region,
			 metered_mw_flow, mw_flow, mw_losses, marginal_value,
			 violation_degree, export_limit, import_limit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (interconnector_id, settlement_date) DO UPDATE SET
			metered_mw_flow = EXCLUDED.metered_mw_flow, mw_flow = EXCLUDED.mw_flow,
			mw_losses = EXCLUDED.mw_losses, marginal_value = EXCLUDED.marginal_value,
			violation_degree = EXCLUDED.violation_degree,
			export_limit = EXCLUDED.export_limit, import_limit = EXCLUDED.import_limit`
	rows := make([][]interface{}, 0, len(flows))
	for _, f := range flows {
		rows = append(rows, []interface{}{
			f.SettlementDate, f.InterconnectorID, f.FromRegion, f.ToRegion,
			f.MeteredMWFlow, f.MWFlow, f.MWLosses, f.MarginalValue,
			f.ViolationDegree, f.ExportLimit, f.ImportLimit,
		})
	}
	return p.execBatch(ctx, "interconnector_flows", query, rows)
}

func (p *Postgres) SaveConstraints(ctx context.Context, constraints []model.Constraint) error {
	if len(constraints) == 0 {
		return nil
	}
	if err := p.ensureTable(ctx, "constraints"); err != nil {
		return err
	}
	query := `
		INSERT INTO constraints
			(settlement_date, constraint_id, rhs, marginal_value, violation_degree)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (constraint_id, settlement_date) DO UPDATE SET
			rhs = EXCLUDED.rhs, marginal_value = EXCLUDED.marginal_value,
			violation_degree = EXCLUDED.violation_degree`
	rows := make([][]interface{}, 0, len(constraints))
	for _, c := range constraints {
		rows = append(rows, []interface{}{
			c.SettlementDate, c.ConstraintID, c.RHS, c.MarginalValue, c.ViolationDegree,
		})
	}
	return p.execBatch(ctx, "constraints", query, rows)
}

func (p *Postgres) SaveFuelMix(ctx context.Context, mix []model.FuelMix) error {
	if len(mix) == 0 {
		return nil
	}
	if err := p.ensureTable(ctx, "generation_by_fuel"); err != nil {
		return err
	}
	query := `
		INSERT INTO generation_by_fuel
			(settlement_date, fuel_type, region, total_mw, unit_count)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (fuel_type, region, settlement_date) DO UPDATE SET
			total_mw = EXCLUDED.total_mw, unit_count = EXCLUDED.unit_count`
	rows := make([][]interface{}, 0, len(mix))
	for _, m := range mix {
		rows = append(rows, []interface{}{
			m.SettlementDate, m.FuelType, m.Region, m.TotalMW, m.UnitCount,
		})
	}
	return p.execBatch(ctx, "generation_by_fuel", query, rows)
}

func (p *Postgres) SaveTradingRegionSums(ctx context.Context, sums []model.TradingRegionSum) error {
	if len(sums) == 0 {
		return nil
	}
	if err := p.ensureTable(ctx, "trading_regionsums"); err != nil {
		return err
	}
	query := `
		INSERT INTO trading_regionsums
			(settlement_date, region, total_demand, available_generation, net_interchange)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (region, settlement_date) DO UPDATE SET
			total_demand = EXCLUDED.total_demand,
			available_generation = EXCLUDED.available_generation,
			net_interchange = EXCLUDED.net_interchange`
	rows := make([][]interface{}, 0, len(sums))
	for _, ts := range sums {
		rows = append(rows, []interface{}{
			ts.SettlementDate, ts.Region, ts.TotalDemand, ts.AvailableGen, ts.NetInterchange,
		})
	}
	return p.execBatch(ctx, "trading_regionsums", query, rows)
}

func (p *Postgres) SaveTradingPrices(ctx context.Context, prices []model.TradingPrice) error {
	if len(prices) == 0 {
		return nil
	}
	query := `
		INSERT INTO trading_prices (settlement_date, region, rrp, period_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (region, settlement_date) DO UPDATE SET
			rrp = EXCLUDED.rrp, period_id = EXCLUDED.period_id`
	rows := make([][]interface{}, 0, len(prices))
	for _, tp := range prices {
		rows = append(rows, []interface{}{tp.SettlementDate, tp.Region, tp.RRP, tp.PeriodID})
	}
	return p.execBatch(ctx, "trading_prices", query, rows)
}

func (p *Postgres) SaveP5Forecasts(ctx context.Context, forecasts []model.P5Forecast) error {
	if len(forecasts) == 0 {
		return nil
	}
	query := `
		INSERT INTO p5min_forecasts
			(run_datetime, interval_datetime, region, rrp, total_demand,
			 available_generation, net_interchange)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (run_datetime, interval_datetime, region) DO UPDATE SET
			rrp = EXCLUDED.rrp, total_demand = EXCLUDED.total_demand,
			available_generation = EXCLUDED.available_generation,
			net_interchange = EXCLUDED.net_interchange`
	rows := make([][]interface{}, 0, len(forecasts))
	for _, f := range forecasts {
		rows = append(rows, []interface{}{
			f.RunDateTime, f.IntervalDateTime, f.Region, f.RRP,
			f.TotalDemand, f.AvailableGen, f.NetInterchange,
		})
	}
	return p.execBatch(ctx, "p5min_forecasts", query, rows)
}

func (p *Postgres) SaveP5UnitForecasts(ctx context.Context, units []model.PredispatchUnit) error {
	if len(units) == 0 {
		return nil
	}
	query := `
		INSERT INTO p5min_unit_forecasts
			(predispatch_run_id, interval_datetime, duid, total_cleared, availability)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (predispatch_run_id, interval_datetime, duid) DO UPDATE SET
			total_cleared = EXCLUDED.total_cleared, availability = EXCLUDED.availability`
	rows := make([][]interface{}, 0, len(units))
	for _, u := range units {
		rows = append(rows, []interface{}{
			u.PredispatchRunID, u.IntervalDateTime, u.DUID, u.TotalCleared, u.AvailableMW,
		})
	}
	return p.execBatch(ctx, "p5min_unit_forecasts", query, rows)
}

func (p *Postgres) SavePredispatchRegions(ctx context.Context, regions []model.PredispatchRegion) error {
	if len(regions) == 0 {
		return nil
	}
	query := `
		INSERT INTO predispatch_forecasts
			(predispatch_run_id, interval_datetime, region, rrp, total_demand,
			 available_generation, net_interchange)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (predispatch_run_id, interval_datetime, region) DO UPDATE SET
			rrp = EXCLUDED.rrp, total_demand = EXCLUDED.total_demand,
			available_generation = EXCLUDED.available_generation,
			net_interchange = EXCLUDED.net_interchange`
	rows := make([][]interface{}, 0, len(regions))
	for _, r := range regions {
		rows = append(rows, []interface{}{
			r.PredispatchRunID, r.IntervalDateTime, r.Region, r.RRP,
			r.TotalDemand, r.AvailableGen, r.NetInterchange,
		})
	}
	return p.execBatch(ctx, "predispatch_forecasts", query, rows)
}

func (p *Postgres) SavePredispatchUnits(ctx context.Context, units []model.PredispatchUnit) error {
	if len(units) == 0 {
		return nil
	}
	query := `
		INSERT INTO predispatch_unit_solutions
			(predispatch_run_id, interval_datetime, duid, total_cleared, availability)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (predispatch_run_id, interval_datetime, duid) DO UPDATE SET
			total_cleared = EXCLUDED.total_cleared, availability = EXCLUDED.availability`
	rows := make([][]interface{}, 0, len(units))
	for _, u := range units {
		rows = append(rows, []interface{}{
			u.PredispatchRunID, u.IntervalDateTime, u.DUID, u.TotalCleared, u.AvailableMW,
		})
	}
	return p.execBatch(ctx, "predispatch_unit_solutions", query, rows)
}

func (p *Postgres) SavePredispatchInterconnectors(ctx context.Context, flows []model.PredispatchInterconnector) error {
	if len(flows) == 0 {
		return nil
	}
	if err := p.ensureTable(ctx, "predispatch_interconnectors"); err != nil {
		return err
	}
	query := `
		INSERT INTO predispatch_interconnectors
			(predispatch_run_id, interval_datetime, interconnector_id, mw_flow, mw_losses)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (predispatch_run_id, interval_datetime, interconnector_id) DO UPDATE SET
			mw_flow = EXCLUDED.mw_flow, mw_losses = EXCLUDED.mw_losses`
	rows := make([][]interface{}, 0, len(flows))
	for _, f := range flows {
		rows = append(rows, []interface{}{
			f.PredispatchRunID, f.IntervalDateTime, f.InterconnectorID, f.MWFlow, f.MWLosses,
		})
	}
	return p.execBatch(ctx, "predispatch_interconnectors", query, rows)
}

func (p *Postgres) SavePredispatchConstraints(ctx context.Context, constraints []model.PredispatchConstraint) error {
	if len(constraints) == 0 {
		return nil
	}
	if err := p.ensureTable(ctx, "predispatch_constraints"); err != nil {
		return err
	}
	query := `
		INSERT INTO predispatch_constraints
			(predispatch_run_id, interval_datetime, constraint_id, rhs, marginal_value)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (predispatch_run_id, interval_datetime, constraint_id) DO UPDATE SET
			rhs = EXCLUDED.rhs, marginal_value = EXCLUDED.marginal_value`
	rows := make([][]interface{}, 0, len(constraints))
	for _, c := range constraints {
		rows = append(rows, []interface{}{
			c.PredispatchRunID, c.IntervalDateTime, c.ConstraintID, c.RHS, c.MarginalValue,
		})
	}
	return p.execBatch(ctx, "predispatch_constraints", query, rows)
}

func (p *Postgres) SaveStPasaRegions(ctx context.Context, regions []model.StPasaRegion) error {
	if len(regions) == 0 {
		return nil
	}
	query := `
		INSERT INTO stpasa_forecasts
			(run_datetime, interval_datetime, region, demand10, demand50, demand90,
			 aggregate_capacity, surplus_reserve, reserve_condition)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (run_datetime, interval_datetime, region) DO UPDATE SET
			demand10 = EXCLUDED.demand10, demand50 = EXCLUDED.demand50,
			demand90 = EXCLUDED.demand90, aggregate_capacity = EXCLUDED.aggregate_capacity,
			surplus_reserve = EXCLUDED.surplus_reserve,
			reserve_condition = EXCLUDED.reserve_condition`
	rows := make([][]interface{}, 0, len(regions))
	for _, r := range regions {
		rows = append(rows, []interface{}{
			r.RunDateTime, r.IntervalDateTime, r.Region, r.Demand10, r.Demand50,
			r.Demand90, r.AggregateCapacity, r.SurplusReserve, r.ReserveCondition,
		})
	}
	return p.execBatch(ctx, "stpasa_forecasts", query, rows)
}

func (p *Postgres) SaveStPasaUnits(ctx context.Context, units []model.StPasaUnitAvailability) error {
	if len(units) == 0 {
		return nil
	}
	if err := p.ensureTable(ctx, "stpasa_unit_availability"); err != nil {
		return err
	}
	query := `
		INSERT INTO stpasa_unit_availability
			(run_datetime, interval_datetime, duid, pasa_availability)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (duid, interval_datetime, run_datetime) DO UPDATE SET
			pasa_availability = EXCLUDED.pasa_availability`
	rows := make([][]interface{}, 0, len(units))
	for _, u := range units {
		rows = append(rows, []interface{}{
			u.RunDateTime, u.IntervalDateTime, u.DUID, u.PASAAvailability,
		})
	}
	return p.execBatch(ctx, "stpasa_unit_availability", query, rows)
}
