// Package api serves the read surface: price snapshots and history, forward
// curves, FCAS, demand forecasts, the paper trading ledger, the BESS
// optimiser and the websocket upgrade. All /api routes require a bearer
// token verified against the authentication collaborator.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/nemflow/nemflow/internal/authz"
	"github.com/nemflow/nemflow/internal/cache"
	"github.com/nemflow/nemflow/internal/metrics"
	"github.com/nemflow/nemflow/internal/model"
)

// Cache TTLs per data cadence.
const (
	ttl5Min    = 60 * time.Second
	ttl30Min   = 300 * time.Second
	ttlForward = 3600 * time.Second

	defaultHistoryHours = 24
	maxHistoryHours     = 168
)

// Reader is the slice of the relational store the API reads from.
type Reader interface {
	LatestPrices(ctx context.Context) ([]model.DispatchPrice, error)
	PriceHistory(ctx context.Context, region string, hours int) ([]model.DispatchPrice, error)
	ForwardCurve(ctx context.Context, region string, day time.Time) ([]model.PredispatchRegion, error)
	DemandForecast(ctx context.Context, region string) ([]model.P5Forecast, error)
	LatestFCAS(ctx context.Context) ([]model.FCASPrice, error)
}

// Positions is the paper trading ledger surface.
type Positions interface {
	Open(ctx context.Context, userID, region, side string, quantity, entryPrice float64) (model.Position, error)
	Close(ctx context.Context, userID, id string, exitPrice float64) (model.Position, error)
	List(ctx context.Context, userID string) ([]model.Position, error)
}

// Server wires the read API's collaborators.
type Server struct {
	db        Reader
	positions Positions
	tiered    *cache.Tiered
	coalescer *cache.Coalescer
	verifier  authz.Verifier
	ws        http.HandlerFunc

	corsOrigin string
}

// Config carries the server's dependencies.
type Config struct {
	Reader     Reader
	Positions  Positions
	Tiered     *cache.Tiered
	Verifier   authz.Verifier
	WSHandler  http.HandlerFunc
	CORSOrigin string
}

// NewServer builds the server and its request coalescer.
func NewServer(cfg Config) *Server {
	return &Server{
		db:         cfg.Reader,
		positions:  cfg.Positions,
		tiered:     cfg.Tiered,
		coalescer:  cache.NewCoalescer(),
		verifier:   cfg.Verifier,
		ws:         cfg.WSHandler,
		corsOrigin: cfg.CORSOrigin,
	}
}

// Router assembles the middleware chain and routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware, loggingMiddleware, corsMiddleware(s.corsOrigin))

	// Preflight requests need a matching route for the middleware chain to
	// run; the CORS middleware short-circuits them with 204.
	r.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(http.ResponseWriter, *http.Request) {})

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/", s.handleInfo).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.authMiddleware)
	api.HandleFunc("/prices/latest", s.handleLatestPrices).Methods(http.MethodGet)
	api.HandleFunc("/prices/history/{region}", s.handlePriceHistory).Methods(http.MethodGet)
	api.HandleFunc("/forward/{region}", s.handleForwardCurve).Methods(http.MethodGet)
	api.HandleFunc("/fcas/latest", s.handleLatestFCAS).Methods(http.MethodGet)
	api.HandleFunc("/demand/forecast", s.handleDemandForecast).Methods(http.MethodGet)
	api.HandleFunc("/trading/positions", s.handleListPositions).Methods(http.MethodGet)
	api.HandleFunc("/trading/position", s.handleOpenPosition).Methods(http.MethodPost)
	api.HandleFunc("/trading/close/{id}", s.handleClosePosition).Methods(http.MethodPost)
	api.HandleFunc("/bess/optimize", s.handleOptimizeBESS).Methods(http.MethodPost)
	if s.ws != nil {
		api.HandleFunc("/ws", s.ws).Methods(http.MethodGet)
	}
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"service": "nemflow",
		"routes": []string{
			"/api/prices/latest", "/api/prices/history/{region}",
			"/api/forward/{region}", "/api/fcas/latest", "/api/demand/forecast",
			"/api/trading/positions", "/api/bess/optimize", "/api/ws",
		},
	})
}

// cached serves key from the tiered cache, coalescing concurrent misses into
// a single producer call. requestKey doubles as the second-tier key and the
// X-Cache surface; pattern is the invalidation group the key is tracked in.
func (s *Server) cached(w http.ResponseWriter, r *http.Request, key, pattern string, ttl time.Duration, produce func(ctx context.Context) (interface{}, error)) {
	ctx := r.Context()
	requestKey := r.URL.RequestURI()

	if s.tiered != nil {
		if body, tier, ok := s.tiered.Get(ctx, key, requestKey); ok {
			metrics.CacheLookups.WithLabelValues(tier).Inc()
			w.Header().Set("X-Cache", tier)
			w.Header().Set("Content-Type", "application/json")
			if cc := s.tiered.ResponseHeader(requestKey).Get("Cache-Control"); cc != "" {
				w.Header().Set("Cache-Control", cc)
			}
			w.Write(body)
			return
		}
	}
	metrics.CacheLookups.WithLabelValues(cache.TierMiss).Inc()

	v, _, err := s.coalescer.Do(key, func() (interface{}, error) {
		data, err := produce(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(data)
	})
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, "failed to load data", err.Error())
		return
	}
	body := v.([]byte)

	if s.tiered != nil {
		s.tiered.Set(ctx, key, body, ttl, requestKey)
		s.tiered.TrackKey(ctx, pattern, key)
	}
	w.Header().Set("X-Cache", cache.TierMiss)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(ttl.Seconds())))
	w.Write(body)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}

// writeError renders the {error, details?} shape; 5xx responses carry the
// request correlation id so log lines can be matched to client reports.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg, details string) {
	body := map[string]string{"error": msg}
	if details != "" {
		body["details"] = details
	}
	if status >= 500 {
		body["request_id"] = RequestID(r.Context())
		log.Error().Str("request_id", RequestID(r.Context())).Str("error", msg).
			Str("details", details).Msg("request failed")
	}
	s.writeJSON(w, status, body)
}
