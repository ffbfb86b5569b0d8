package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/nemflow/nemflow/internal/ledger"
	"github.com/nemflow/nemflow/internal/model"
)

func (s *Server) handleLatestPrices(w http.ResponseWriter, r *http.Request) {
	s.cached(w, r, "api:prices:latest", "prices", ttl5Min, func(ctx context.Context) (interface{}, error) {
		return s.db.LatestPrices(ctx)
	})
}

func (s *Server) handlePriceHistory(w http.ResponseWriter, r *http.Request) {
	region := mux.Vars(r)["region"]
	if !model.IsRegion(region) {
		s.writeError(w, r, http.StatusBadRequest, "unknown region", region)
		return
	}
	hours := defaultHistoryHours
	if raw := r.URL.Query().Get("hours"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeError(w, r, http.StatusBadRequest, "hours must be a positive integer", raw)
			return
		}
		hours = n
	}
	if hours > maxHistoryHours {
		hours = maxHistoryHours
	}

	key := fmt.Sprintf("api:prices:history:%s:%d", region, hours)
	s.cached(w, r, key, "prices", ttl5Min, func(ctx context.Context) (interface{}, error) {
		return s.db.PriceHistory(ctx, region, hours)
	})
}

func (s *Server) handleForwardCurve(w http.ResponseWriter, r *http.Request) {
	region := mux.Vars(r)["region"]
	if !model.IsRegion(region) {
		s.writeError(w, r, http.StatusBadRequest, "unknown region", region)
		return
	}
	var day time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD", raw)
			return
		}
		day = parsed
	}

	key := fmt.Sprintf("api:forward:%s:%s", region, day.Format("2006-01-02"))
	s.cached(w, r, key, "forward", ttlForward, func(ctx context.Context) (interface{}, error) {
		return s.db.ForwardCurve(ctx, region, day)
	})
}

func (s *Server) handleLatestFCAS(w http.ResponseWriter, r *http.Request) {
	s.cached(w, r, "api:fcas:latest", "fcas", ttl5Min, func(ctx context.Context) (interface{}, error) {
		return s.db.LatestFCAS(ctx)
	})
}

func (s *Server) handleDemandForecast(w http.ResponseWriter, r *http.Request) {
	region := r.URL.Query().Get("region")
	if !model.IsRegion(region) {
		s.writeError(w, r, http.StatusBadRequest, "unknown region", region)
		return
	}
	key := "api:demand:" + region
	s.cached(w, r, key, "demand", ttl30Min, func(ctx context.Context) (interface{}, error) {
		return s.db.DemandForecast(ctx, region)
	})
}

func (s *Server) handleListPositions(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		s.writeError(w, r, http.StatusUnauthorized, "missing identity", "")
		return
	}
	positions, err := s.positions.List(r.Context(), identity.UserID)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, "failed to list positions", err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"positions": positions})
}

type openPositionRequest struct {
	Region     string  `json:"region"`
	Side       string  `json:"side"`
	EntryPrice float64 `json:"entry_price"`
	Quantity   float64 `json:"quantity"`
}

func (s *Server) handleOpenPosition(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		s.writeError(w, r, http.StatusUnauthorized, "missing identity", "")
		return
	}
	var req openPositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	pos, err := s.positions.Open(r.Context(), identity.UserID, req.Region, req.Side, req.Quantity, req.EntryPrice)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidPosition) {
			s.writeError(w, r, http.StatusBadRequest, "invalid position", err.Error())
			return
		}
		s.writeError(w, r, http.StatusInternalServerError, "failed to open position", err.Error())
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]interface{}{"id": pos.ID, "position": pos})
}

type closePositionRequest struct {
	ExitPrice float64 `json:"exit_price"`
}

func (s *Server) handleClosePosition(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		s.writeError(w, r, http.StatusUnauthorized, "missing identity", "")
		return
	}
	var req closePositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	pos, err := s.positions.Close(r.Context(), identity.UserID, mux.Vars(r)["id"], req.ExitPrice)
	if err != nil {
		if errors.Is(err, ledger.ErrPositionNotFound) {
			s.writeError(w, r, http.StatusNotFound, "position not found", "")
			return
		}
		s.writeError(w, r, http.StatusInternalServerError, "failed to close position", err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"pnl":      pos.PNL,
		"position": pos,
	})
}
