package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nemflow/nemflow/internal/authz"
	"github.com/nemflow/nemflow/internal/cache"
	"github.com/nemflow/nemflow/internal/ledger"
	"github.com/nemflow/nemflow/internal/model"
)

type stubReader struct {
	latest  []model.DispatchPrice
	history []model.DispatchPrice

	historyRegion string
	historyHours  int
	latestCalls   int
}

func (s *stubReader) LatestPrices(context.Context) ([]model.DispatchPrice, error) {
	s.latestCalls++
	return s.latest, nil
}

func (s *stubReader) PriceHistory(_ context.Context, region string, hours int) ([]model.DispatchPrice, error) {
	s.historyRegion = region
	s.historyHours = hours
	return s.history, nil
}

func (s *stubReader) ForwardCurve(context.Context, string, time.Time) ([]model.PredispatchRegion, error) {
	return nil, nil
}

func (s *stubReader) DemandForecast(context.Context, string) ([]model.P5Forecast, error) {
	return nil, nil
}

func (s *stubReader) LatestFCAS(context.Context) ([]model.FCASPrice, error) {
	return nil, nil
}

type stubPositions struct {
	opened   []model.Position
	closeErr error
	openErr  error
}

func (s *stubPositions) Open(_ context.Context, userID, region, side string, quantity, entryPrice float64) (model.Position, error) {
	if s.openErr != nil {
		return model.Position{}, s.openErr
	}
	pos := model.Position{
		ID: "pos-1", UserID: userID, Region: region, Side: side,
		Quantity: quantity, EntryPrice: entryPrice, Status: model.PositionOpen,
	}
	s.opened = append(s.opened, pos)
	return pos, nil
}

func (s *stubPositions) Close(_ context.Context, userID, id string, exitPrice float64) (model.Position, error) {
	if s.closeErr != nil {
		return model.Position{}, s.closeErr
	}
	pnl := 200.0
	return model.Position{ID: id, UserID: userID, PNL: &pnl, Status: model.PositionClosed}, nil
}

func (s *stubPositions) List(_ context.Context, userID string) ([]model.Position, error) {
	return []model.Position{{ID: "pos-1", UserID: userID}}, nil
}

type stubVerifier struct{}

func (stubVerifier) Verify(_ context.Context, token string) (authz.Identity, error) {
	switch token {
	case "good":
		return authz.Identity{UserID: "u-1", Email: "trader@example.com"}, nil
	case "boom":
		return authz.Identity{}, fmt.Errorf("verify service unreachable")
	default:
		return authz.Identity{}, fmt.Errorf("%w: expired", authz.ErrInvalidToken)
	}
}

func newTestServer(reader *stubReader, positions *stubPositions) *Server {
	return NewServer(Config{
		Reader:    reader,
		Positions: positions,
		Tiered:    cache.New(nil),
		Verifier:  stubVerifier{},
	})
}

func doRequest(s *Server, method, path, token string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth_NoAuthRequired(t *testing.T) {
	s := newTestServer(&stubReader{}, &stubPositions{})
	rec := doRequest(s, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestAuth_MissingTokenRejected(t *testing.T) {
	s := newTestServer(&stubReader{}, &stubPositions{})
	rec := doRequest(s, http.MethodGet, "/api/prices/latest", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "missing authorization header", body["error"])
}

func TestAuth_InvalidTokenCarriesReason(t *testing.T) {
	s := newTestServer(&stubReader{}, &stubPositions{})
	rec := doRequest(s, http.MethodGet, "/api/prices/latest", "stale", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "expired")
}

func TestAuth_VerifierErrorIs500(t *testing.T) {
	s := newTestServer(&stubReader{}, &stubPositions{})
	rec := doRequest(s, http.MethodGet, "/api/prices/latest", "boom", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["request_id"], "5xx responses carry the correlation id")
}

func TestLatestPrices_MissThenSecondTierHit(t *testing.T) {
	reader := &stubReader{latest: []model.DispatchPrice{{Region: "NSW1", RRP: 120.5}}}
	s := newTestServer(reader, &stubPositions{})

	first := doRequest(s, http.MethodGet, "/api/prices/latest", "good", "")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, cache.TierMiss, first.Header().Get("X-Cache"))

	var prices []model.DispatchPrice
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &prices))
	require.Len(t, prices, 1)
	assert.Equal(t, 120.5, prices[0].RRP)

	// Same URI again: with no redis the entry survives in the second tier.
	second := doRequest(s, http.MethodGet, "/api/prices/latest", "good", "")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, cache.TierHTTP, second.Header().Get("X-Cache"))
	assert.Equal(t, 1, reader.latestCalls, "second request served from cache")
}

func TestPriceHistory_ValidatesAndCaps(t *testing.T) {
	reader := &stubReader{}
	s := newTestServer(reader, &stubPositions{})

	rec := doRequest(s, http.MethodGet, "/api/prices/history/XXX1", "good", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(s, http.MethodGet, "/api/prices/history/NSW1?hours=500", "good", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "NSW1", reader.historyRegion)
	assert.Equal(t, maxHistoryHours, reader.historyHours)

	rec = doRequest(s, http.MethodGet, "/api/prices/history/NSW1?hours=-3", "good", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOpenAndClosePosition(t *testing.T) {
	positions := &stubPositions{}
	s := newTestServer(&stubReader{}, positions)

	rec := doRequest(s, http.MethodPost, "/api/trading/position", "good",
		`{"region":"NSW1","side":"LONG","entry_price":100,"quantity":10}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var opened struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opened))
	assert.Equal(t, "pos-1", opened.ID)
	require.Len(t, positions.opened, 1)
	assert.Equal(t, "u-1", positions.opened[0].UserID)

	rec = doRequest(s, http.MethodPost, "/api/trading/close/pos-1", "good", `{"exit_price":120}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var closed struct {
		Success bool     `json:"success"`
		PNL     *float64 `json:"pnl"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &closed))
	assert.True(t, closed.Success)
	require.NotNil(t, closed.PNL)
	assert.Equal(t, 200.0, *closed.PNL)
}

func TestClosePosition_SecondCloseIs404(t *testing.T) {
	positions := &stubPositions{closeErr: ledger.ErrPositionNotFound}
	s := newTestServer(&stubReader{}, positions)

	rec := doRequest(s, http.MethodPost, "/api/trading/close/pos-1", "good", `{"exit_price":120}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOpenPosition_InvalidIs400(t *testing.T) {
	positions := &stubPositions{openErr: fmt.Errorf("%w: quantity must be positive", ledger.ErrInvalidPosition)}
	s := newTestServer(&stubReader{}, positions)

	rec := doRequest(s, http.MethodPost, "/api/trading/position", "good",
		`{"region":"NSW1","side":"LONG","entry_price":100,"quantity":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOptimizeBESS_ChargesCheapDischargesDear(t *testing.T) {
	base := time.Date(2025, 8, 23, 0, 0, 0, 0, time.UTC)
	history := make([]model.DispatchPrice, 24)
	for i := range history {
		history[i] = model.DispatchPrice{
			SettlementDate: base.Add(time.Duration(i) * 5 * time.Minute),
			Region:         "NSW1",
			RRP:            float64(i * 10),
		}
	}
	reader := &stubReader{history: history}
	s := newTestServer(reader, &stubPositions{})

	rec := doRequest(s, http.MethodPost, "/api/bess/optimize", "good",
		`{"region":"NSW1","capacity_mwh":10,"power_mw":5,"efficiency":0.9}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result BESSResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 24, result.Intervals)
	require.Len(t, result.Operations, 24)
	assert.Greater(t, result.TotalRevenue, 0.0)
	assert.Equal(t, "charge", result.Operations[0].Action)
	assert.Equal(t, "discharge", result.Operations[len(result.Operations)-1].Action)
	for i := 1; i < len(result.Operations); i++ {
		assert.False(t, result.Operations[i].Time.Before(result.Operations[i-1].Time))
	}
}

func TestOptimizeBESS_Validation(t *testing.T) {
	s := newTestServer(&stubReader{}, &stubPositions{})

	rec := doRequest(s, http.MethodPost, "/api/bess/optimize", "good",
		`{"region":"NOPE1","capacity_mwh":10,"power_mw":5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(s, http.MethodPost, "/api/bess/optimize", "good",
		`{"region":"NSW1","capacity_mwh":0,"power_mw":5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORS_PreflightAllowsLocalhost(t *testing.T) {
	s := newTestServer(&stubReader{}, &stubPositions{})
	req := httptest.NewRequest(http.MethodOptions, "/api/prices/latest", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
