// Package ingest runs the 5-minute ingestion loop: scan the upstream report
// directories, fetch the newest bundle per source, parse, persist, snapshot,
// and fan the fresh dispatch slice out to the live hub.
package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/nemflow/nemflow/internal/cache"
	"github.com/nemflow/nemflow/internal/metrics"
	"github.com/nemflow/nemflow/internal/model"
	"github.com/nemflow/nemflow/internal/nemtime"
	"github.com/nemflow/nemflow/internal/parser"
	"github.com/nemflow/nemflow/internal/scrape"
	"github.com/nemflow/nemflow/internal/store"
)

const (
	tickInterval   = 5 * time.Minute
	sourceTimeout  = 60 * time.Second
	sequentialPace = 500 * time.Millisecond
)

// Lister scans one upstream directory listing.
type Lister interface {
	List(ctx context.Context, baseURL, family string) ([]string, error)
}

// Getter downloads one bundle.
type Getter interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Checker runs a validation pass.
type Checker interface {
	Run(ctx context.Context) (model.ValidationReport, error)
}

// Store is the slice of the relational layer the orchestrator writes to.
type Store interface {
	SaveDispatchPrices(ctx context.Context, prices []model.DispatchPrice) error
	SaveFCASPrices(ctx context.Context, fcas []model.FCASPrice) error
	SaveScada(ctx context.Context, readings []model.ScadaReading) error
	SaveGeneratorDispatch(ctx context.Context, units []model.GeneratorDispatch) error
	SaveBatteryDispatch(ctx context.Context, batteries []model.BatteryDispatch) error
	SaveInterconnectors(ctx context.Context, flows []model.InterconnectorFlow) error
	SaveConstraints(ctx context.Context, constraints []model.Constraint) error
	SaveFuelMix(ctx context.Context, mix []model.FuelMix) error
	SaveTradingPrices(ctx context.Context, prices []model.TradingPrice) error
	SaveTradingRegionSums(ctx context.Context, sums []model.TradingRegionSum) error
	SaveP5Forecasts(ctx context.Context, forecasts []model.P5Forecast) error
	SaveP5UnitForecasts(ctx context.Context, units []model.PredispatchUnit) error
	SavePredispatchRegions(ctx context.Context, regions []model.PredispatchRegion) error
	SavePredispatchUnits(ctx context.Context, units []model.PredispatchUnit) error
	SavePredispatchInterconnectors(ctx context.Context, flows []model.PredispatchInterconnector) error
	SavePredispatchConstraints(ctx context.Context, constraints []model.PredispatchConstraint) error
	SaveStPasaRegions(ctx context.Context, regions []model.StPasaRegion) error
	SaveStPasaUnits(ctx context.Context, units []model.StPasaUnitAvailability) error
}

// Deps carries the orchestrator's collaborators.
type Deps struct {
	BaseURL      string
	BroadcastURL string

	Scanner   Lister
	Fetcher   Getter
	Registry  *parser.Registry
	Store     Store
	Archive   *store.Archive
	Hot       *store.HotCache
	Tiered    *cache.Tiered
	Validator Checker
}

// Orchestrator drives the per-tick pipeline.
type Orchestrator struct {
	deps    Deps
	soc     *parser.SoCTracker
	limiter *rate.Limiter
	client  *http.Client

	now func() time.Time

	mu       sync.Mutex
	lastFile map[string]string
	lastTick TickReport
}

// SourceReport is the terminal state one source reached in a tick.
type SourceReport struct {
	State string `json:"state"`
	File  string `json:"file,omitempty"`
	Rows  int    `json:"rows,omitempty"`
	Error string `json:"error,omitempty"`
}

// TickReport summarises one orchestrator tick for the admin surface.
type TickReport struct {
	StartedAt time.Time               `json:"started_at"`
	Duration  time.Duration           `json:"duration_ns"`
	Sources   map[string]SourceReport `json:"sources"`
}

func (r TickReport) failed() int {
	n := 0
	for _, s := range r.Sources {
		if s.Error != "" {
			n++
		}
	}
	return n
}

// New builds an orchestrator. The SoC tracker is shared across ticks so
// battery state of charge integrates over the process lifetime.
func New(deps Deps) *Orchestrator {
	return &Orchestrator{
		deps:     deps,
		soc:      parser.NewSoCTracker(),
		limiter:  rate.NewLimiter(rate.Every(sequentialPace), 1),
		client:   &http.Client{Timeout: 10 * time.Second},
		now:      func() time.Time { return time.Now().UTC() },
		lastFile: make(map[string]string),
	}
}

// Run ticks immediately, then every five minutes until ctx is cancelled.
func (o *Orchestrator) Run(ctx context.Context) error {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	o.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			o.Tick(ctx)
		}
	}
}

// LastTick returns the most recent tick report.
func (o *Orchestrator) LastTick() TickReport {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastTick
}

// Tick runs one full pipeline pass: the parallel group, the paced sequential
// group, the time-gated sources, and (on the quarter hour) validation. A
// failing source never aborts the others.
func (o *Orchestrator) Tick(ctx context.Context) TickReport {
	started := o.now()
	report := TickReport{StartedAt: started, Sources: make(map[string]SourceReport)}
	state := &tickState{}

	var mu sync.Mutex
	record := func(name string, sr SourceReport) {
		mu.Lock()
		report.Sources[name] = sr
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { record(srcDispatch.Name, o.runDispatch(gctx, state)); return nil })
	g.Go(func() error { record(srcScada.Name, o.runScada(gctx, state)); return nil })
	g.Go(func() error { record(srcP5Min.Name, o.runP5Min(gctx, state)); return nil })
	g.Wait()

	// Fresh dispatch slice fans out as soon as the parallel group lands.
	if len(state.prices) > 0 {
		o.deps.Hot.SnapshotPrices(ctx, state.prices)
		o.invalidate(ctx, "prices")
		o.broadcast(ctx, state.prices)
	}

	seq := []struct {
		name string
		run  func(context.Context, *tickState) SourceReport
	}{
		{srcNextDay.Name, o.runNextDay},
		{srcTrading.Name, o.runTrading},
		{"battery", o.runBattery},
		{"fcas", o.runFCAS},
		{"fuel_mix", o.runFuelMix},
	}
	for _, step := range seq {
		if err := o.limiter.Wait(ctx); err != nil {
			break
		}
		record(step.name, step.run(ctx, state))
	}

	local := started.In(nemtime.Market)
	if m := local.Minute(); m == 0 || m == 5 || m == 30 || m == 35 {
		record(srcPredispatch.Name, o.runPredispatch(ctx, state))
	}
	if local.Hour() == 1 && local.Minute() < 5 {
		record(srcStPasa.Name, o.runStPasa(ctx))
	}

	o.snapshotComprehensive(ctx, state)

	if m := started.Minute(); o.deps.Validator != nil && (m == 0 || m == 15 || m == 30 || m == 45) {
		if _, err := o.deps.Validator.Run(ctx); err != nil {
			log.Error().Err(err).Msg("validation run failed")
		}
	}

	report.Duration = o.now().Sub(started)
	outcome := "ok"
	if report.failed() > 0 {
		outcome = "partial"
	}
	metrics.IngestTicks.WithLabelValues(outcome).Inc()
	log.Info().
		Str("outcome", outcome).
		Int("sources", len(report.Sources)).
		Int("failed", report.failed()).
		Dur("duration", report.Duration).
		Msg("ingestion tick complete")

	o.mu.Lock()
	o.lastTick = report
	o.mu.Unlock()
	return report
}

// tickState carries intra-tick derivations between groups: the sequential
// battery/FCAS/fuel steps reuse what the parallel group parsed.
type tickState struct {
	mu       sync.Mutex
	prices   []model.DispatchPrice
	fcas     []model.FCASPrice
	dispatch *parser.Result
	scada    []model.ScadaReading
	fuelMix  []model.FuelMix
	battery  []model.BatteryDispatch
}

// fetchLatest walks one source through FetchingIndex/Fetching and archives
// the raw bytes before any parse attempt. A nil result with empty state
// means the source has nothing new this tick.
func (o *Orchestrator) fetchLatest(ctx context.Context, src source, baseURL string, forecast bool) (*parser.Result, SourceReport) {
	ctx, cancel := context.WithTimeout(ctx, sourceTimeout)
	defer cancel()

	timer := time.Now()
	defer func() {
		metrics.SourceDuration.WithLabelValues(src.Name).Observe(time.Since(timer).Seconds())
	}()

	o.logState(src.Name, stateFetchingIndex)
	files, err := o.deps.Scanner.List(ctx, baseURL+"/"+src.Path, src.Family)
	if err != nil {
		metrics.SourceErrors.WithLabelValues(src.Name, "index").Inc()
		return nil, o.fail(src.Name, stateFetchFail, "", err)
	}
	filename := scrape.Latest(files)
	if filename == "" {
		o.logState(src.Name, stateNoFile)
		return nil, SourceReport{State: stateNoFile}
	}

	o.mu.Lock()
	seen := o.lastFile[src.Name] == filename
	o.mu.Unlock()
	if seen {
		return nil, SourceReport{State: stateNoFile, File: filename}
	}

	o.logState(src.Name, stateFetching)
	data, err := o.deps.Fetcher.Fetch(ctx, baseURL+"/"+src.Path+"/"+filename)
	if err != nil {
		metrics.SourceErrors.WithLabelValues(src.Name, "fetch").Inc()
		return nil, o.fail(src.Name, stateFetchFail, filename, err)
	}

	if o.deps.Archive != nil {
		meta := store.ObjectMeta{
			Source:    src.Name,
			Type:      src.Family,
			Timestamp: o.now(),
			Bytes:     len(data),
		}
		var archErr error
		if forecast {
			_, archErr = o.deps.Archive.SaveForecast(src.Family, filename, data, meta)
		} else {
			_, archErr = o.deps.Archive.SaveRaw(src.Family, filename, data, meta)
		}
		if archErr != nil {
			log.Warn().Err(archErr).Str("source", src.Name).Msg("failed to archive raw bundle")
		}
	}

	o.logState(src.Name, stateParsing)
	body, err := scrape.ExtractTabular(data, src.Family)
	if err != nil {
		metrics.SourceErrors.WithLabelValues(src.Name, "parse").Inc()
		return nil, o.fail(src.Name, stateParseFail, filename, err)
	}
	res := o.deps.Registry.Parse(body)
	if res.RowsSeen == 0 {
		metrics.SourceErrors.WithLabelValues(src.Name, "parse").Inc()
		return nil, o.fail(src.Name, stateParseFail, filename, fmt.Errorf("bundle %s contained no data rows", filename))
	}

	o.mu.Lock()
	o.lastFile[src.Name] = filename
	o.mu.Unlock()

	return res, SourceReport{State: statePersisting, File: filename}
}

func (o *Orchestrator) runDispatch(ctx context.Context, state *tickState) SourceReport {
	res, sr := o.fetchLatest(ctx, srcDispatch, o.deps.BaseURL, false)
	if res == nil {
		return sr
	}

	prices := parser.MergeDispatch(res)
	if err := o.deps.Store.SaveDispatchPrices(ctx, prices); err != nil {
		metrics.SourceErrors.WithLabelValues(srcDispatch.Name, "persist").Inc()
		return o.fail(srcDispatch.Name, statePersistFail, sr.File, err)
	}
	if err := o.deps.Store.SaveInterconnectors(ctx, res.Interconnectors); err != nil {
		metrics.SourceErrors.WithLabelValues(srcDispatch.Name, "persist").Inc()
		return o.fail(srcDispatch.Name, statePersistFail, sr.File, err)
	}
	if err := o.deps.Store.SaveConstraints(ctx, res.Constraints); err != nil {
		metrics.SourceErrors.WithLabelValues(srcDispatch.Name, "persist").Inc()
		return o.fail(srcDispatch.Name, statePersistFail, sr.File, err)
	}
	metrics.RowsPersisted.WithLabelValues("dispatch").Add(float64(len(prices)))

	state.mu.Lock()
	state.prices = prices
	state.dispatch = res
	state.mu.Unlock()

	return o.done(srcDispatch.Name, sr.File, len(prices)+len(res.Interconnectors)+len(res.Constraints))
}

func (o *Orchestrator) runScada(ctx context.Context, state *tickState) SourceReport {
	res, sr := o.fetchLatest(ctx, srcScada, o.deps.BaseURL, false)
	if res == nil {
		return sr
	}
	if err := o.deps.Store.SaveScada(ctx, res.Scada); err != nil {
		metrics.SourceErrors.WithLabelValues(srcScada.Name, "persist").Inc()
		return o.fail(srcScada.Name, statePersistFail, sr.File, err)
	}
	metrics.RowsPersisted.WithLabelValues("scada").Add(float64(len(res.Scada)))

	state.mu.Lock()
	state.scada = res.Scada
	state.mu.Unlock()

	return o.done(srcScada.Name, sr.File, len(res.Scada))
}

func (o *Orchestrator) runP5Min(ctx context.Context, state *tickState) SourceReport {
	res, sr := o.fetchLatest(ctx, srcP5Min, o.deps.BaseURL, false)
	if res == nil {
		return sr
	}
	if err := o.deps.Store.SaveP5Forecasts(ctx, res.P5Regions); err != nil {
		metrics.SourceErrors.WithLabelValues(srcP5Min.Name, "persist").Inc()
		return o.fail(srcP5Min.Name, statePersistFail, sr.File, err)
	}
	if err := o.deps.Store.SaveP5UnitForecasts(ctx, res.P5Units); err != nil {
		metrics.SourceErrors.WithLabelValues(srcP5Min.Name, "persist").Inc()
		return o.fail(srcP5Min.Name, statePersistFail, sr.File, err)
	}
	metrics.RowsPersisted.WithLabelValues("p5min").Add(float64(len(res.P5Regions)))

	for region, rows := range groupP5ByRegion(res.P5Regions) {
		o.deps.Hot.SnapshotDemandForecast(ctx, region, rows)
	}
	o.invalidate(ctx, "demand")

	return o.done(srcP5Min.Name, sr.File, len(res.P5Regions)+len(res.P5Units))
}

func (o *Orchestrator) runNextDay(ctx context.Context, _ *tickState) SourceReport {
	res, sr := o.fetchLatest(ctx, srcNextDay, o.deps.BaseURL, false)
	if res == nil {
		return sr
	}
	units := parser.GeneratorRows(res)
	if err := o.deps.Store.SaveGeneratorDispatch(ctx, units); err != nil {
		metrics.SourceErrors.WithLabelValues(srcNextDay.Name, "persist").Inc()
		return o.fail(srcNextDay.Name, statePersistFail, sr.File, err)
	}
	metrics.RowsPersisted.WithLabelValues("generator_dispatch").Add(float64(len(units)))

	// Intraday DISPATCHIS bundles usually carry no UNIT_SOLUTION rows; the
	// end-of-day file is where battery unit solutions actually arrive, so it
	// feeds the SoC integral too. The tracker's per-DUID timestamp guard
	// keeps the later in-tick derivation from double counting.
	if batteries := o.soc.BatteryRows(res); len(batteries) > 0 {
		if err := o.deps.Store.SaveBatteryDispatch(ctx, batteries); err != nil {
			metrics.SourceErrors.WithLabelValues(srcNextDay.Name, "persist").Inc()
			return o.fail(srcNextDay.Name, statePersistFail, sr.File, err)
		}
		metrics.RowsPersisted.WithLabelValues("battery").Add(float64(len(batteries)))
	}
	return o.done(srcNextDay.Name, sr.File, len(units))
}

// runTrading prefers the current reporting window; when it is empty the
// archive window is used instead, with a warning since the promotion rule is
// current-wins.
func (o *Orchestrator) runTrading(ctx context.Context, _ *tickState) SourceReport {
	res, sr := o.fetchLatest(ctx, srcTrading, o.deps.BaseURL, false)
	if res == nil && sr.State == stateNoFile && sr.File == "" {
		log.Warn().Str("source", srcTrading.Name).
			Msg("current trading window empty, falling back to archive")
		res, sr = o.fetchLatest(ctx, srcTrading, archiveBase(o.deps.BaseURL), false)
	}
	if res == nil {
		return sr
	}
	if err := o.deps.Store.SaveTradingPrices(ctx, res.TradingPrices); err != nil {
		metrics.SourceErrors.WithLabelValues(srcTrading.Name, "persist").Inc()
		return o.fail(srcTrading.Name, statePersistFail, sr.File, err)
	}
	if err := o.deps.Store.SaveTradingRegionSums(ctx, res.TradingSums); err != nil {
		metrics.SourceErrors.WithLabelValues(srcTrading.Name, "persist").Inc()
		return o.fail(srcTrading.Name, statePersistFail, sr.File, err)
	}
	metrics.RowsPersisted.WithLabelValues("trading").Add(float64(len(res.TradingPrices)))
	return o.done(srcTrading.Name, sr.File, len(res.TradingPrices)+len(res.TradingSums))
}

func (o *Orchestrator) runBattery(ctx context.Context, state *tickState) SourceReport {
	state.mu.Lock()
	res := state.dispatch
	state.mu.Unlock()
	if res == nil {
		return SourceReport{State: stateNoFile}
	}
	batteries := o.soc.BatteryRows(res)
	if err := o.deps.Store.SaveBatteryDispatch(ctx, batteries); err != nil {
		metrics.SourceErrors.WithLabelValues("battery", "persist").Inc()
		return o.fail("battery", statePersistFail, "", err)
	}
	metrics.RowsPersisted.WithLabelValues("battery").Add(float64(len(batteries)))

	state.mu.Lock()
	state.battery = batteries
	state.mu.Unlock()
	return o.done("battery", "", len(batteries))
}

func (o *Orchestrator) runFCAS(ctx context.Context, state *tickState) SourceReport {
	state.mu.Lock()
	prices := state.prices
	state.mu.Unlock()
	if len(prices) == 0 {
		return SourceReport{State: stateNoFile}
	}
	fcas := parser.EmitFCAS(prices)
	if err := o.deps.Store.SaveFCASPrices(ctx, fcas); err != nil {
		metrics.SourceErrors.WithLabelValues("fcas", "persist").Inc()
		return o.fail("fcas", statePersistFail, "", err)
	}
	metrics.RowsPersisted.WithLabelValues("fcas").Add(float64(len(fcas)))

	o.deps.Hot.SnapshotFCAS(ctx, fcas)
	o.invalidate(ctx, "fcas")

	state.mu.Lock()
	state.fcas = fcas
	state.mu.Unlock()
	return o.done("fcas", "", len(fcas))
}

func (o *Orchestrator) runFuelMix(ctx context.Context, state *tickState) SourceReport {
	state.mu.Lock()
	scada := state.scada
	state.mu.Unlock()
	if len(scada) == 0 {
		return SourceReport{State: stateNoFile}
	}
	mix := parser.FuelRollup(scada)
	if err := o.deps.Store.SaveFuelMix(ctx, mix); err != nil {
		metrics.SourceErrors.WithLabelValues("fuel_mix", "persist").Inc()
		return o.fail("fuel_mix", statePersistFail, "", err)
	}
	metrics.RowsPersisted.WithLabelValues("fuel_mix").Add(float64(len(mix)))

	state.mu.Lock()
	state.fuelMix = mix
	state.mu.Unlock()
	return o.done("fuel_mix", "", len(mix))
}

func (o *Orchestrator) runPredispatch(ctx context.Context, _ *tickState) SourceReport {
	res, sr := o.fetchLatest(ctx, srcPredispatch, o.deps.BaseURL, true)
	if res == nil {
		return sr
	}
	regions := parser.MergePredispatch(res)
	if err := o.deps.Store.SavePredispatchRegions(ctx, regions); err != nil {
		metrics.SourceErrors.WithLabelValues(srcPredispatch.Name, "persist").Inc()
		return o.fail(srcPredispatch.Name, statePersistFail, sr.File, err)
	}
	if err := o.deps.Store.SavePredispatchUnits(ctx, res.PDUnits); err != nil {
		metrics.SourceErrors.WithLabelValues(srcPredispatch.Name, "persist").Inc()
		return o.fail(srcPredispatch.Name, statePersistFail, sr.File, err)
	}
	if err := o.deps.Store.SavePredispatchInterconnectors(ctx, res.PDInterconnectors); err != nil {
		metrics.SourceErrors.WithLabelValues(srcPredispatch.Name, "persist").Inc()
		return o.fail(srcPredispatch.Name, statePersistFail, sr.File, err)
	}
	if err := o.deps.Store.SavePredispatchConstraints(ctx, res.PDConstraints); err != nil {
		metrics.SourceErrors.WithLabelValues(srcPredispatch.Name, "persist").Inc()
		return o.fail(srcPredispatch.Name, statePersistFail, sr.File, err)
	}
	metrics.RowsPersisted.WithLabelValues("predispatch").Add(float64(len(regions)))

	day := o.now().In(nemtime.Market)
	for region, rows := range groupPDByRegion(regions) {
		o.deps.Hot.SnapshotForward(ctx, region, day, rows)
	}
	o.invalidate(ctx, "forward")

	rows := len(regions) + len(res.PDUnits) + len(res.PDInterconnectors) + len(res.PDConstraints)
	return o.done(srcPredispatch.Name, sr.File, rows)
}

func (o *Orchestrator) runStPasa(ctx context.Context) SourceReport {
	res, sr := o.fetchLatest(ctx, srcStPasa, o.deps.BaseURL, true)
	if res == nil {
		return sr
	}
	if err := o.deps.Store.SaveStPasaRegions(ctx, res.StPasaRegions); err != nil {
		metrics.SourceErrors.WithLabelValues(srcStPasa.Name, "persist").Inc()
		return o.fail(srcStPasa.Name, statePersistFail, sr.File, err)
	}
	if err := o.deps.Store.SaveStPasaUnits(ctx, res.StPasaUnits); err != nil {
		metrics.SourceErrors.WithLabelValues(srcStPasa.Name, "persist").Inc()
		return o.fail(srcStPasa.Name, statePersistFail, sr.File, err)
	}
	metrics.RowsPersisted.WithLabelValues("stpasa").Add(float64(len(res.StPasaRegions)))
	return o.done(srcStPasa.Name, sr.File, len(res.StPasaRegions)+len(res.StPasaUnits))
}

func (o *Orchestrator) snapshotComprehensive(ctx context.Context, state *tickState) {
	state.mu.Lock()
	defer state.mu.Unlock()
	if len(state.prices) == 0 {
		return
	}
	o.deps.Hot.SnapshotComprehensive(ctx, store.ComprehensiveSnapshot{
		Prices:      state.prices,
		FCAS:        state.fcas,
		Batteries:   state.battery,
		FuelMix:     state.fuelMix,
		GeneratedAt: o.now(),
	})
}

// broadcast posts the fresh price slice to the live hub. Best effort; the
// hub being down must not fail ingestion.
func (o *Orchestrator) broadcast(ctx context.Context, prices []model.DispatchPrice) {
	if o.deps.BroadcastURL == "" {
		return
	}
	body, err := json.Marshal(prices)
	if err != nil {
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.deps.BroadcastURL, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("failed to broadcast prices to hub")
		return
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Msg("hub broadcast rejected")
	}
}

func (o *Orchestrator) invalidate(ctx context.Context, pattern string) {
	if o.deps.Tiered != nil {
		o.deps.Tiered.Invalidate(ctx, pattern)
	}
}

func (o *Orchestrator) logState(source, state string) {
	log.Debug().Str("source", source).Str("state", state).Msg("source state")
}

func (o *Orchestrator) fail(source, state, file string, err error) SourceReport {
	log.Warn().Err(err).Str("source", source).Str("state", state).Str("file", file).
		Msg("source failed")
	return SourceReport{State: state, File: file, Error: err.Error()}
}

func (o *Orchestrator) done(source, file string, rows int) SourceReport {
	log.Info().Str("source", source).Str("file", file).Int("rows", rows).
		Msg("source ingested")
	return SourceReport{State: stateDone, File: file, Rows: rows}
}

func groupP5ByRegion(rows []model.P5Forecast) map[string][]model.P5Forecast {
	out := make(map[string][]model.P5Forecast)
	for _, r := range rows {
		out[r.Region] = append(out[r.Region], r)
	}
	return out
}

func groupPDByRegion(rows []model.PredispatchRegion) map[string][]model.PredispatchRegion {
	out := make(map[string][]model.PredispatchRegion)
	for _, r := range rows {
		out[r.Region] = append(out[r.Region], r)
	}
	return out
}

func archiveBase(baseURL string) string {
	return strings.Replace(baseURL, "/Current", "/Archive", 1)
}
