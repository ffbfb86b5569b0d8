package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/nemflow/nemflow/internal/model"
)

const (
	bessIntervalHours = 5.0 / 60.0
	bessMaxOperations = 100
	bessDefaultEff    = 0.9
)

type bessRequest struct {
	Region      string  `json:"region"`
	CapacityMWh float64 `json:"capacity_mwh"`
	PowerMW     float64 `json:"power_mw"`
	Efficiency  float64 `json:"efficiency"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
}

// BESSOperation is one charge or discharge decision in the optimised plan.
type BESSOperation struct {
	Time      time.Time `json:"time"`
	Action    string    `json:"action"`
	Price     float64   `json:"price"`
	MW        float64   `json:"mw"`
	EnergyMWh float64   `json:"energy_mwh"`
	Revenue   float64   `json:"revenue"`
}

// BESSResult is the optimiser output: total arbitrage revenue over the
// window plus the first operations of the plan.
type BESSResult struct {
	Region       string          `json:"region"`
	TotalRevenue float64         `json:"total_revenue"`
	Intervals    int             `json:"intervals"`
	Operations   []BESSOperation `json:"operations"`
}

func (s *Server) handleOptimizeBESS(w http.ResponseWriter, r *http.Request) {
	var req bessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if !model.IsRegion(req.Region) {
		s.writeError(w, r, http.StatusBadRequest, "unknown region", req.Region)
		return
	}
	if req.CapacityMWh <= 0 || req.PowerMW <= 0 {
		s.writeError(w, r, http.StatusBadRequest, "capacity_mwh and power_mw must be positive", "")
		return
	}
	if req.Efficiency <= 0 || req.Efficiency > 1 {
		req.Efficiency = bessDefaultEff
	}

	hours := defaultHistoryHours
	if req.StartDate != "" && req.EndDate != "" {
		start, err1 := time.Parse("2006-01-02", req.StartDate)
		end, err2 := time.Parse("2006-01-02", req.EndDate)
		if err1 != nil || err2 != nil || !end.After(start) {
			s.writeError(w, r, http.StatusBadRequest, "start_date and end_date must be YYYY-MM-DD with end after start", "")
			return
		}
		hours = int(end.Sub(start).Hours())
		if hours > maxHistoryHours {
			hours = maxHistoryHours
		}
	}

	prices, err := s.db.PriceHistory(r.Context(), req.Region, hours)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, "failed to load price history", err.Error())
		return
	}
	result := optimizeBESS(prices, req.CapacityMWh, req.PowerMW, req.Efficiency)
	result.Region = req.Region
	s.writeJSON(w, http.StatusOK, result)
}

// optimizeBESS runs a simple arbitrage sweep: charge at full power through
// the cheapest intervals that fill the battery once, discharge through the
// dearest. One full cycle over the window; no SoC path constraint.
func optimizeBESS(prices []model.DispatchPrice, capacityMWh, powerMW, efficiency float64) BESSResult {
	result := BESSResult{Intervals: len(prices), Operations: []BESSOperation{}}
	if len(prices) == 0 {
		return result
	}

	fill := int(capacityMWh / (powerMW * bessIntervalHours))
	if fill < 1 {
		fill = 1
	}
	if fill*2 > len(prices) {
		fill = len(prices) / 2
	}
	if fill == 0 {
		return result
	}

	byPrice := make([]model.DispatchPrice, len(prices))
	copy(byPrice, prices)
	sort.Slice(byPrice, func(i, j int) bool { return byPrice[i].RRP < byPrice[j].RRP })

	energy := powerMW * bessIntervalHours
	ops := make([]BESSOperation, 0, fill*2)
	for _, dp := range byPrice[:fill] {
		ops = append(ops, BESSOperation{
			Time:      dp.SettlementDate,
			Action:    "charge",
			Price:     dp.RRP,
			MW:        powerMW,
			EnergyMWh: energy,
			Revenue:   -dp.RRP * energy,
		})
	}
	for _, dp := range byPrice[len(byPrice)-fill:] {
		ops = append(ops, BESSOperation{
			Time:      dp.SettlementDate,
			Action:    "discharge",
			Price:     dp.RRP,
			MW:        powerMW,
			EnergyMWh: energy * efficiency,
			Revenue:   dp.RRP * energy * efficiency,
		})
	}

	for _, op := range ops {
		result.TotalRevenue += op.Revenue
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i].Time.Before(ops[j].Time) })
	if len(ops) > bessMaxOperations {
		ops = ops[:bessMaxOperations]
	}
	result.Operations = ops
	return result
}
