package ingest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/nemflow/nemflow/internal/model"
	"github.com/nemflow/nemflow/internal/parser"
)

const (
	testBase    = "https://nemweb.example/Reports/Current"
	testArchive = "https://nemweb.example/Reports/Archive"
)

type stubScanner struct {
	mu    sync.Mutex
	files map[string][]string // keyed by "<baseURL>|<family>"
	calls []string
}

func (s *stubScanner) List(_ context.Context, baseURL, family string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := baseURL + "|" + family
	s.calls = append(s.calls, key)
	return s.files[key], nil
}

type stubFetcher struct {
	mu   sync.Mutex
	data map[string][]byte // keyed by URL suffix
	errs map[string]error
}

func (f *stubFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for suffix, err := range f.errs {
		if strings.HasSuffix(url, suffix) {
			return nil, err
		}
	}
	for suffix, data := range f.data {
		if strings.HasSuffix(url, suffix) {
			return data, nil
		}
	}
	return nil, assert.AnError
}

type stubStore struct {
	mu    sync.Mutex
	saved map[string]int
	errs  map[string]error
}

func newStubStore() *stubStore {
	return &stubStore{saved: make(map[string]int), errs: make(map[string]error)}
}

func (s *stubStore) record(method string, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errs[method]; err != nil {
		return err
	}
	s.saved[method] += n
	return nil
}

func (s *stubStore) count(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved[method]
}

func (s *stubStore) SaveDispatchPrices(_ context.Context, v []model.DispatchPrice) error {
	return s.record("dispatch", len(v))
}
func (s *stubStore) SaveFCASPrices(_ context.Context, v []model.FCASPrice) error {
	return s.record("fcas", len(v))
}
func (s *stubStore) SaveScada(_ context.Context, v []model.ScadaReading) error {
	return s.record("scada", len(v))
}
func (s *stubStore) SaveGeneratorDispatch(_ context.Context, v []model.GeneratorDispatch) error {
	return s.record("generator", len(v))
}
func (s *stubStore) SaveBatteryDispatch(_ context.Context, v []model.BatteryDispatch) error {
	return s.record("battery", len(v))
}
func (s *stubStore) SaveInterconnectors(_ context.Context, v []model.InterconnectorFlow) error {
	return s.record("interconnector", len(v))
}
func (s *stubStore) SaveConstraints(_ context.Context, v []model.Constraint) error {
	return s.record("constraint", len(v))
}
func (s *stubStore) SaveFuelMix(_ context.Context, v []model.FuelMix) error {
	return s.record("fuel_mix", len(v))
}
func (s *stubStore) SaveTradingPrices(_ context.Context, v []model.TradingPrice) error {
	return s.record("trading", len(v))
}
func (s *stubStore) SaveTradingRegionSums(_ context.Context, v []model.TradingRegionSum) error {
	return s.record("trading_sums", len(v))
}
func (s *stubStore) SaveP5Forecasts(_ context.Context, v []model.P5Forecast) error {
	return s.record("p5", len(v))
}
func (s *stubStore) SaveP5UnitForecasts(_ context.Context, v []model.PredispatchUnit) error {
	return s.record("p5_units", len(v))
}
func (s *stubStore) SavePredispatchRegions(_ context.Context, v []model.PredispatchRegion) error {
	return s.record("predispatch", len(v))
}
func (s *stubStore) SavePredispatchUnits(_ context.Context, v []model.PredispatchUnit) error {
	return s.record("predispatch_units", len(v))
}
func (s *stubStore) SavePredispatchInterconnectors(_ context.Context, v []model.PredispatchInterconnector) error {
	return s.record("predispatch_interconnectors", len(v))
}
func (s *stubStore) SavePredispatchConstraints(_ context.Context, v []model.PredispatchConstraint) error {
	return s.record("predispatch_constraints", len(v))
}
func (s *stubStore) SaveStPasaRegions(_ context.Context, v []model.StPasaRegion) error {
	return s.record("stpasa", len(v))
}
func (s *stubStore) SaveStPasaUnits(_ context.Context, v []model.StPasaUnitAvailability) error {
	return s.record("stpasa_units", len(v))
}

type stubChecker struct {
	mu   sync.Mutex
	runs int
}

func (c *stubChecker) Run(context.Context) (model.ValidationReport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.runs++
	return model.ValidationReport{Passed: true}, nil
}

// Bundle builders. Fields follow the documented column positions for each
// record subtype; unset positions are zero.

func fields(n int, set map[int]string) string {
	out := make([]string, n)
	for i := range out {
		out[i] = "0"
	}
	for i, v := range set {
		out[i] = v
	}
	return strings.Join(out, ",")
}

func dispatchBundle(ts string) string {
	lines := []string{
		"C,NEMP.WORLD,DISPATCHIS,AEMO,PUBLIC," + ts,
	}
	for _, region := range model.Regions {
		lines = append(lines, fields(46, map[int]string{
			0: "D", 1: "DISPATCH", 2: "PRICE",
			4: ts, 6: region, 8: "0", 9: "101.5", 14: "1.25",
		}))
		lines = append(lines, fields(26, map[int]string{
			0: "D", 1: "DISPATCH", 2: "REGIONSUM",
			4: ts, 6: region, 8: "0", 9: "8000", 10: "9500", 15: "-50",
		}))
	}
	return strings.Join(lines, "\n")
}

func scadaBundle(ts string) string {
	return strings.Join([]string{
		fields(7, map[int]string{0: "D", 1: "DISPATCH", 2: "UNIT_SCADA", 4: ts, 5: "BW01", 6: "550.5"}),
		fields(7, map[int]string{0: "D", 1: "DISPATCH", 2: "UNIT_SCADA", 4: ts, 5: "ER01", 6: "410.0"}),
	}, "\n")
}

func p5Bundle(run, interval string) string {
	return fields(12, map[int]string{
		0: "D", 1: "P5MIN", 2: "REGIONSOLUTION",
		4: run, 5: interval, 6: "NSW1", 7: "99.5", 8: "8100", 9: "9400", 10: "-20",
	})
}

func tradingBundle(ts string) string {
	return strings.Join([]string{
		strings.Join([]string{
			"I", "TRADING", "PRICE", "2", "SETTLEMENTDATE", "RUNNO", "REGIONID",
			"PERIODID", "RRP",
		}, ","),
		strings.Join([]string{
			"D", "TRADING", "PRICE", "2", ts, "1", "NSW1", "38", "77.25",
		}, ","),
		strings.Join([]string{
			"I", "TRADING", "REGIONSUM", "2", "SETTLEMENTDATE", "RUNNO",
			"REGIONID", "PERIODID", "TOTALDEMAND", "AVAILABLEGENERATION",
			"NETINTERCHANGE",
		}, ","),
		strings.Join([]string{
			"D", "TRADING", "REGIONSUM", "2", ts, "1", "NSW1", "38",
			"9000.5", "11200", "-120",
		}, ","),
	}, "\n")
}

func nextDayBundle(ts string) string {
	return strings.Join([]string{
		fields(26, map[int]string{
			0: "D", 1: "DISPATCH", 2: "UNIT_SOLUTION",
			4: ts, 6: "HPRG1", 9: "0", 10: "50", 11: "60.0", 24: "150",
		}),
		fields(26, map[int]string{
			0: "D", 1: "DISPATCH", 2: "UNIT_SOLUTION",
			4: ts, 6: "BW01", 9: "0", 10: "600", 11: "620.5", 24: "660",
		}),
	}, "\n")
}

func predispatchBundle(run, ts string) string {
	return strings.Join([]string{
		fields(13, map[int]string{
			0: "D", 1: "PREDISPATCH", 2: "INTERCONNECTOR_SOLN",
			4: run, 6: "NSW1-QLD1", 9: "450.0", 10: "12.5", 11: ts,
		}),
		fields(13, map[int]string{
			0: "D", 1: "PREDISPATCH", 2: "CONSTRAINT_SOLUTION",
			4: run, 6: "N>>Q_ONE", 9: "100", 10: "35.7", 11: ts,
		}),
	}, "\n")
}

func newTestOrchestrator(t *testing.T, deps Deps) *Orchestrator {
	t.Helper()
	if deps.BaseURL == "" {
		deps.BaseURL = testBase
	}
	if deps.Registry == nil {
		deps.Registry = parser.NewRegistry()
	}
	o := New(deps)
	o.limiter = rate.NewLimiter(rate.Inf, 1)
	// Minute 10: outside every time gate.
	o.now = func() time.Time { return time.Date(2025, 8, 23, 9, 10, 0, 0, time.UTC) }
	return o
}

func TestTick_ParallelSourcesPersistAndBroadcast(t *testing.T) {
	ts := "2025/08/23 19:05:00"
	scanner := &stubScanner{files: map[string][]string{
		testBase + "|DISPATCHIS":    {"PUBLIC_DISPATCHIS_202508231905_0000000123.zip"},
		testBase + "|DISPATCHSCADA": {"PUBLIC_DISPATCHSCADA_202508231905_0000000124.zip"},
		testBase + "|P5MIN":         {"PUBLIC_P5MIN_202508231905_0000000125.zip"},
	}}
	fetcher := &stubFetcher{data: map[string][]byte{
		"PUBLIC_DISPATCHIS_202508231905_0000000123.zip":    []byte(dispatchBundle(ts)),
		"PUBLIC_DISPATCHSCADA_202508231905_0000000124.zip": []byte(scadaBundle(ts)),
		"PUBLIC_P5MIN_202508231905_0000000125.zip":         []byte(p5Bundle(ts, "2025/08/23 19:10:00")),
	}}
	db := newStubStore()

	var broadcastMu sync.Mutex
	var broadcast []model.DispatchPrice
	hub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		broadcastMu.Lock()
		defer broadcastMu.Unlock()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&broadcast))
		w.WriteHeader(http.StatusOK)
	}))
	defer hub.Close()

	o := newTestOrchestrator(t, Deps{
		BroadcastURL: hub.URL,
		Scanner:      scanner,
		Fetcher:      fetcher,
		Store:        db,
	})
	report := o.Tick(context.Background())

	assert.Equal(t, stateDone, report.Sources["dispatch"].State)
	assert.Equal(t, stateDone, report.Sources["scada"].State)
	assert.Equal(t, stateDone, report.Sources["p5min"].State)
	assert.Equal(t, 5, db.count("dispatch"))
	assert.Equal(t, 2, db.count("scada"))
	assert.Equal(t, 1, db.count("p5"))
	// Derived sequential steps ran off the parallel group's output.
	assert.Greater(t, db.count("fcas"), 0)
	assert.Greater(t, db.count("fuel_mix"), 0)

	broadcastMu.Lock()
	defer broadcastMu.Unlock()
	require.Len(t, broadcast, 5)
	assert.Equal(t, 101.5, broadcast[0].RRP)
}

func TestTick_OneSourceFailingDoesNotAbortOthers(t *testing.T) {
	ts := "2025/08/23 19:05:00"
	scanner := &stubScanner{files: map[string][]string{
		testBase + "|DISPATCHIS":    {"PUBLIC_DISPATCHIS_202508231905_0000000123.zip"},
		testBase + "|DISPATCHSCADA": {"PUBLIC_DISPATCHSCADA_202508231905_0000000124.zip"},
	}}
	fetcher := &stubFetcher{
		data: map[string][]byte{
			"PUBLIC_DISPATCHSCADA_202508231905_0000000124.zip": []byte(scadaBundle(ts)),
		},
		errs: map[string]error{
			"PUBLIC_DISPATCHIS_202508231905_0000000123.zip": assert.AnError,
		},
	}
	db := newStubStore()

	o := newTestOrchestrator(t, Deps{Scanner: scanner, Fetcher: fetcher, Store: db})
	report := o.Tick(context.Background())

	assert.Equal(t, stateFetchFail, report.Sources["dispatch"].State)
	assert.NotEmpty(t, report.Sources["dispatch"].Error)
	assert.Equal(t, stateDone, report.Sources["scada"].State)
	assert.Equal(t, 2, db.count("scada"))
	assert.Equal(t, 1, report.failed())
}

func TestTick_SameFileNotRefetched(t *testing.T) {
	ts := "2025/08/23 19:05:00"
	scanner := &stubScanner{files: map[string][]string{
		testBase + "|DISPATCHSCADA": {"PUBLIC_DISPATCHSCADA_202508231905_0000000124.zip"},
	}}
	fetcher := &stubFetcher{data: map[string][]byte{
		"PUBLIC_DISPATCHSCADA_202508231905_0000000124.zip": []byte(scadaBundle(ts)),
	}}
	db := newStubStore()

	o := newTestOrchestrator(t, Deps{Scanner: scanner, Fetcher: fetcher, Store: db})
	first := o.Tick(context.Background())
	second := o.Tick(context.Background())

	assert.Equal(t, stateDone, first.Sources["scada"].State)
	assert.Equal(t, stateNoFile, second.Sources["scada"].State)
	assert.Equal(t, 2, db.count("scada"), "second tick persisted nothing new")
}

func TestTick_TradingFallsBackToArchive(t *testing.T) {
	ts := "2025/08/23 19:00:00"
	scanner := &stubScanner{files: map[string][]string{
		testArchive + "|TRADINGIS": {"PUBLIC_TRADINGIS_202508231900_0000000200.zip"},
	}}
	fetcher := &stubFetcher{data: map[string][]byte{
		"PUBLIC_TRADINGIS_202508231900_0000000200.zip": []byte(tradingBundle(ts)),
	}}
	db := newStubStore()

	o := newTestOrchestrator(t, Deps{Scanner: scanner, Fetcher: fetcher, Store: db})
	report := o.Tick(context.Background())

	assert.Equal(t, stateDone, report.Sources["trading"].State)
	assert.Equal(t, 1, db.count("trading"))
	assert.Equal(t, 1, db.count("trading_sums"))
	assert.Contains(t, scanner.calls, testBase+"|TRADINGIS", "current window probed first")
	assert.Contains(t, scanner.calls, testArchive+"|TRADINGIS")
}

func TestTick_NextDayUnitsFeedBatteryDerivation(t *testing.T) {
	ts := "2025/08/23 19:05:00"
	scanner := &stubScanner{files: map[string][]string{
		testBase + "|NEXT_DAY_DISPATCH": {"PUBLIC_NEXT_DAY_DISPATCH_202508231905_0000000300.zip"},
	}}
	fetcher := &stubFetcher{data: map[string][]byte{
		"PUBLIC_NEXT_DAY_DISPATCH_202508231905_0000000300.zip": []byte(nextDayBundle(ts)),
	}}
	db := newStubStore()

	o := newTestOrchestrator(t, Deps{Scanner: scanner, Fetcher: fetcher, Store: db})
	report := o.Tick(context.Background())

	require.Equal(t, stateDone, report.Sources["next_day_dispatch"].State)
	assert.Equal(t, 2, db.count("generator"))
	// The intraday dispatch feed carried no unit solutions this tick, so the
	// battery rows can only have come from the end-of-day file.
	assert.Equal(t, 1, db.count("battery"))
}

func TestTick_PredispatchPersistsInterconnectorsAndConstraints(t *testing.T) {
	run := "2025082301"
	ts := "2025/08/23 20:00:00"
	scanner := &stubScanner{files: map[string][]string{
		testBase + "|PREDISPATCHIS": {"PUBLIC_PREDISPATCHIS_202508231930_0000000400.zip"},
	}}
	fetcher := &stubFetcher{data: map[string][]byte{
		"PUBLIC_PREDISPATCHIS_202508231930_0000000400.zip": []byte(predispatchBundle(run, ts)),
	}}
	db := newStubStore()

	o := newTestOrchestrator(t, Deps{Scanner: scanner, Fetcher: fetcher, Store: db})
	// 19:30 market time, inside the half-hourly predispatch gate.
	o.now = func() time.Time { return time.Date(2025, 8, 23, 9, 30, 0, 0, time.UTC) }
	report := o.Tick(context.Background())

	require.Equal(t, stateDone, report.Sources["predispatch"].State)
	assert.Equal(t, 1, db.count("predispatch_interconnectors"))
	assert.Equal(t, 1, db.count("predispatch_constraints"))
}

func TestTick_ValidationGateOnQuarterHour(t *testing.T) {
	checker := &stubChecker{}
	o := newTestOrchestrator(t, Deps{
		Scanner:   &stubScanner{files: map[string][]string{}},
		Fetcher:   &stubFetcher{},
		Store:     newStubStore(),
		Validator: checker,
	})

	o.now = func() time.Time { return time.Date(2025, 8, 23, 9, 10, 0, 0, time.UTC) }
	o.Tick(context.Background())
	assert.Equal(t, 0, checker.runs)

	o.now = func() time.Time { return time.Date(2025, 8, 23, 9, 15, 0, 0, time.UTC) }
	o.Tick(context.Background())
	assert.Equal(t, 1, checker.runs)
}

func TestTick_PredispatchGateRuns(t *testing.T) {
	scanner := &stubScanner{files: map[string][]string{}}
	o := newTestOrchestrator(t, Deps{
		Scanner: scanner,
		Fetcher: &stubFetcher{},
		Store:   newStubStore(),
	})

	o.now = func() time.Time { return time.Date(2025, 8, 23, 9, 10, 0, 0, time.UTC) }
	report := o.Tick(context.Background())
	_, ran := report.Sources["predispatch"]
	assert.False(t, ran, "minute 10 is outside the predispatch gate")

	// 19:30 market time.
	o.now = func() time.Time { return time.Date(2025, 8, 23, 9, 30, 0, 0, time.UTC) }
	report = o.Tick(context.Background())
	require.Contains(t, report.Sources, "predispatch")
	assert.Equal(t, stateNoFile, report.Sources["predispatch"].State)
}

func TestTick_StPasaGateIsLocalEarlyMorning(t *testing.T) {
	scanner := &stubScanner{files: map[string][]string{}}
	o := newTestOrchestrator(t, Deps{
		Scanner: scanner,
		Fetcher: &stubFetcher{},
		Store:   newStubStore(),
	})

	// 01:02 market-local is 15:02 UTC the previous day.
	o.now = func() time.Time { return time.Date(2025, 8, 22, 15, 2, 0, 0, time.UTC) }
	report := o.Tick(context.Background())
	require.Contains(t, report.Sources, "stpasa")

	o.now = func() time.Time { return time.Date(2025, 8, 22, 15, 7, 0, 0, time.UTC) }
	report = o.Tick(context.Background())
	_, ran := report.Sources["stpasa"]
	assert.False(t, ran)
}

func TestAdmin_HealthAndTrigger(t *testing.T) {
	o := newTestOrchestrator(t, Deps{
		Scanner: &stubScanner{files: map[string][]string{}},
		Fetcher: &stubFetcher{},
		Store:   newStubStore(),
	})
	router := o.AdminRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/trigger", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var report TickReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.NotNil(t, report.Sources)
}

func TestAdmin_ValidateRunsOnGet(t *testing.T) {
	checker := &stubChecker{}
	o := newTestOrchestrator(t, Deps{
		Scanner:   &stubScanner{files: map[string][]string{}},
		Fetcher:   &stubFetcher{},
		Store:     newStubStore(),
		Validator: checker,
	})

	rec := httptest.NewRecorder()
	o.AdminRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/validate", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, checker.runs)

	var report model.ValidationReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.True(t, report.Passed)
}

func TestAdmin_TestEndpointReportsDiagnostics(t *testing.T) {
	ts := "2025/08/23 19:05:00"
	scanner := &stubScanner{files: map[string][]string{
		testBase + "|DISPATCHIS": {"PUBLIC_DISPATCHIS_202508231905_0000000123.zip"},
	}}
	fetcher := &stubFetcher{data: map[string][]byte{
		"PUBLIC_DISPATCHIS_202508231905_0000000123.zip": []byte(dispatchBundle(ts)),
	}}

	o := newTestOrchestrator(t, Deps{Scanner: scanner, Fetcher: fetcher, Store: newStubStore()})
	rec := httptest.NewRecorder()
	o.AdminRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Sources []sourceDiagnostic `json:"sources"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Sources, 3)
	assert.Equal(t, "dispatch", resp.Sources[0].Source)
	assert.Equal(t, 5, resp.Sources[0].Records)
	assert.NotZero(t, resp.Sources[0].Bytes)
	assert.Empty(t, resp.Sources[1].Latest, "scada index is empty in this fixture")
}
