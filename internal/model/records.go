// Package model defines the typed record families produced by the parsers
// and persisted by the storage layer, plus the static unit registry.
package model

import "time"

// Regions is the fixed set of NEM pricing regions.
var Regions = []string{"NSW1", "VIC1", "QLD1", "SA1", "TAS1"}

// IsRegion reports whether r is a known NEM region.
func IsRegion(r string) bool {
	for _, known := range Regions {
		if r == known {
			return true
		}
	}
	return false
}

// FCAS market service identifiers. RAISE1SEC/LOWER1SEC are the one-second
// markets introduced in 2023.
const (
	Raise1Sec  = "RAISE1SEC"
	Lower1Sec  = "LOWER1SEC"
	Raise6Sec  = "RAISE6SEC"
	Lower6Sec  = "LOWER6SEC"
	Raise60Sec = "RAISE60SEC"
	Lower60Sec = "LOWER60SEC"
	Raise5Min  = "RAISE5MIN"
	Lower5Min  = "LOWER5MIN"
	RaiseReg   = "RAISEREG"
	LowerReg   = "LOWERREG"
)

// FCASServices lists the ten FCAS markets in canonical order.
var FCASServices = []string{
	Raise1Sec, Lower1Sec,
	Raise6Sec, Lower6Sec,
	Raise60Sec, Lower60Sec,
	Raise5Min, Lower5Min,
	RaiseReg, LowerReg,
}

// Price and MW sanity bounds. RRP is capped at the market price cap and
// floored at the market floor price; persisted values are clamped to these.
const (
	PriceFloor = -1000.0
	PriceCap   = 16600.0
	MWFloor    = -10000.0
	MWCap      = 50000.0
)

// DispatchPrice is the merged per-region 5-minute dispatch row: PRICE fields
// joined with the REGIONSUM demand/generation/interchange columns.
type DispatchPrice struct {
	SettlementDate time.Time `db:"settlement_date" json:"settlement_date"`
	Region         string    `db:"region" json:"region"`
	RRP            float64   `db:"rrp" json:"price"`
	EEP            float64   `db:"eep" json:"eep"`
	ROP            float64   `db:"rop" json:"rop"`
	APCFlag        int       `db:"apc_flag" json:"apc_flag"`
	TotalDemand    float64   `db:"total_demand" json:"demand"`
	AvailableGen   float64   `db:"available_generation" json:"generation"`
	NetInterchange float64   `db:"net_interchange" json:"net_interchange"`

	// Per-service FCAS regional reference prices.
	FCASPrices map[string]float64 `db:"-" json:"fcas_prices,omitempty"`
	// Per-service required MW from REGIONSUM. The 1-second values come from
	// the local-dispatch column positions; see parser notes.
	FCASRequired map[string]float64 `db:"-" json:"fcas_required,omitempty"`

	PriceStatus string     `db:"price_status" json:"price_status,omitempty"`
	LastChanged *time.Time `db:"last_changed" json:"last_changed,omitempty"`
}

// RegionSummary carries the REGIONSUM columns before the merge pass.
type RegionSummary struct {
	SettlementDate time.Time
	Region         string
	TotalDemand    float64
	AvailableGen   float64
	NetInterchange float64
	FCASRequired   map[string]float64
}

// FCASPrice is one non-zero FCAS service price observation.
type FCASPrice struct {
	SettlementDate time.Time `db:"settlement_date" json:"settlement_date"`
	Region         string    `db:"region" json:"region"`
	Service        string    `db:"service" json:"service"`
	Price          float64   `db:"price" json:"price"`
	EnablementMin  float64   `db:"enablement_min" json:"enablement_min"`
	EnablementMax  float64   `db:"enablement_max" json:"enablement_max"`
	// Required MW from REGIONSUM; the 1-second services source it from the
	// local-dispatch positions.
	RequiredMW float64 `db:"required_mw" json:"required_mw"`
}

// InterconnectorFlow is one 5-minute interconnector solution.
type InterconnectorFlow struct {
	SettlementDate time.Time `db:"settlement_date" json:"settlement_date"`
	InterconnectorID string  `db:"interconnector_id" json:"interconnector_id"`
	FromRegion     string    `db:"from_region" json:"from_region"`
	ToRegion       string    `db:"to_region" json:"to_region"`
	MeteredMWFlow  float64   `db:"metered_mw_flow" json:"metered_mw_flow"`
	MWFlow         float64   `db:"mw_flow" json:"mw_flow"`
	MWLosses       float64   `db:"mw_losses" json:"mw_losses"`
	MarginalValue  float64   `db:"marginal_value" json:"marginal_value"`
	ViolationDegree float64  `db:"violation_degree" json:"violation_degree"`
	ExportLimit    float64   `db:"export_limit" json:"export_limit"`
	ImportLimit    float64   `db:"import_limit" json:"import_limit"`
}

// Constraint is one binding constraint solution (marginal value > 0).
type Constraint struct {
	SettlementDate  time.Time `db:"settlement_date" json:"settlement_date"`
	ConstraintID    string    `db:"constraint_id" json:"constraint_id"`
	RHS             float64   `db:"rhs" json:"rhs"`
	MarginalValue   float64   `db:"marginal_value" json:"marginal_value"`
	ViolationDegree float64   `db:"violation_degree" json:"violation_degree"`
}

// GeneratorDispatch is one unit solution. Intervention is part of the key:
// an interval can carry both a normal and an intervention solution.
type GeneratorDispatch struct {
	SettlementDate time.Time `db:"settlement_date" json:"settlement_date"`
	DUID           string    `db:"duid" json:"duid"`
	Intervention   int       `db:"intervention" json:"intervention"`
	InitialMW      float64   `db:"initial_mw" json:"initial_mw"`
	TotalCleared   float64   `db:"total_cleared" json:"total_cleared"`
	RampUpRate     float64   `db:"ramp_up_rate" json:"ramp_up_rate"`
	RampDownRate   float64   `db:"ramp_down_rate" json:"ramp_down_rate"`
	AvailableMW    float64   `db:"availability" json:"availability"`
	SemiDispatchCap float64  `db:"semi_dispatch_cap" json:"semi_dispatch_cap"`
	FCASEnablement map[string]float64 `db:"-" json:"fcas_enablement,omitempty"`
}

// ScadaReading is one unit's telemetered output. Negative values are loads.
type ScadaReading struct {
	SettlementDate time.Time `db:"settlement_date" json:"settlement_date"`
	DUID           string    `db:"duid" json:"duid"`
	ScadaValue     float64   `db:"scada_value" json:"scada_value"`
}

// Battery operating modes derived from the sign of TotalCleared.
const (
	BatteryCharging    = "charging"
	BatteryDischarging = "discharging"
	BatteryStandby     = "standby"
)

// BatteryDispatch is one battery unit solution enriched from the registry.
type BatteryDispatch struct {
	SettlementDate time.Time `db:"settlement_date" json:"settlement_date"`
	DUID           string    `db:"duid" json:"duid"`
	InitialMW      float64   `db:"initial_mw" json:"initial_mw"`
	TotalCleared   float64   `db:"total_cleared" json:"total_cleared"`
	AvailableMW    float64   `db:"availability" json:"availability"`
	ChargeMW       float64   `db:"charge_mw" json:"charge_mw"`
	DischargeMW    float64   `db:"discharge_mw" json:"discharge_mw"`
	Mode           string    `db:"mode" json:"mode"`
	// SoC is integrated from cleared MW at declared efficiency, anchored at
	// 50% of registered capacity on first sight of a unit.
	SoCPercent float64 `db:"soc_percent" json:"soc_percent"`
	EnergyMWh  float64 `db:"energy_mwh" json:"energy_mwh"`

	CapacityMWh   float64 `db:"capacity_mwh" json:"capacity_mwh"`
	MaxChargeMW   float64 `db:"max_charge_mw" json:"max_charge_mw"`
	MaxDischargeMW float64 `db:"max_discharge_mw" json:"max_discharge_mw"`
	StationName   string  `db:"station_name" json:"station_name"`
	Region        string  `db:"region" json:"region"`

	FCASEnablement map[string]float64 `db:"-" json:"fcas_enablement,omitempty"`
}

// P5Forecast is one 5-minute predispatch (P5MIN) forecast row, keyed by the
// forecast run and the target interval.
type P5Forecast struct {
	RunDateTime    time.Time `db:"run_datetime" json:"run_datetime"`
	IntervalDateTime time.Time `db:"interval_datetime" json:"interval_datetime"`
	Region         string    `db:"region" json:"region"`
	RRP            float64   `db:"rrp" json:"rrp"`
	TotalDemand    float64   `db:"total_demand" json:"total_demand"`
	AvailableGen   float64   `db:"available_generation" json:"available_generation"`
	NetInterchange float64   `db:"net_interchange" json:"net_interchange"`
}

// PredispatchRegion is one 30-minute 2-day-horizon regional forecast row.
type PredispatchRegion struct {
	PredispatchRunID string    `db:"predispatch_run_id" json:"predispatch_run_id"`
	IntervalDateTime time.Time `db:"interval_datetime" json:"interval_datetime"`
	Region           string    `db:"region" json:"region"`
	RRP              float64   `db:"rrp" json:"rrp"`
	TotalDemand      float64   `db:"total_demand" json:"total_demand"`
	AvailableGen     float64   `db:"available_generation" json:"available_generation"`
	NetInterchange   float64   `db:"net_interchange" json:"net_interchange"`
}

// PredispatchUnit is one 30-minute unit-level predispatch solution.
type PredispatchUnit struct {
	PredispatchRunID string    `db:"predispatch_run_id" json:"predispatch_run_id"`
	IntervalDateTime time.Time `db:"interval_datetime" json:"interval_datetime"`
	DUID             string    `db:"duid" json:"duid"`
	TotalCleared     float64   `db:"total_cleared" json:"total_cleared"`
	AvailableMW      float64   `db:"availability" json:"availability"`
}

// PredispatchInterconnector is a 30-minute interconnector flow forecast.
type PredispatchInterconnector struct {
	PredispatchRunID string    `db:"predispatch_run_id" json:"predispatch_run_id"`
	IntervalDateTime time.Time `db:"interval_datetime" json:"interval_datetime"`
	InterconnectorID string    `db:"interconnector_id" json:"interconnector_id"`
	MWFlow           float64   `db:"mw_flow" json:"mw_flow"`
	MWLosses         float64   `db:"mw_losses" json:"mw_losses"`
}

// PredispatchConstraint is a 30-minute binding constraint forecast.
type PredispatchConstraint struct {
	PredispatchRunID string    `db:"predispatch_run_id" json:"predispatch_run_id"`
	IntervalDateTime time.Time `db:"interval_datetime" json:"interval_datetime"`
	ConstraintID     string    `db:"constraint_id" json:"constraint_id"`
	RHS              float64   `db:"rhs" json:"rhs"`
	MarginalValue    float64   `db:"marginal_value" json:"marginal_value"`
}

// StPasaRegion is one 7-day ST PASA adequacy row with percentile demands.
type StPasaRegion struct {
	RunDateTime      time.Time `db:"run_datetime" json:"run_datetime"`
	IntervalDateTime time.Time `db:"interval_datetime" json:"interval_datetime"`
	Region           string    `db:"region" json:"region"`
	Demand10         float64   `db:"demand10" json:"demand10"`
	Demand50         float64   `db:"demand50" json:"demand50"`
	Demand90         float64   `db:"demand90" json:"demand90"`
	AggregateCapacity float64  `db:"aggregate_capacity" json:"aggregate_capacity"`
	SurplusReserve   float64   `db:"surplus_reserve" json:"surplus_reserve"`
	ReserveCondition string    `db:"reserve_condition" json:"reserve_condition"`
}

// StPasaUnitAvailability is a 7-day unit availability declaration.
type StPasaUnitAvailability struct {
	RunDateTime      time.Time `db:"run_datetime" json:"run_datetime"`
	IntervalDateTime time.Time `db:"interval_datetime" json:"interval_datetime"`
	DUID             string    `db:"duid" json:"duid"`
	PASAAvailability float64   `db:"pasa_availability" json:"pasa_availability"`
}

// TradingPrice is one 30-minute settled trading interval price.
type TradingPrice struct {
	SettlementDate time.Time `db:"settlement_date" json:"settlement_date"`
	Region         string    `db:"region" json:"region"`
	RRP            float64   `db:"rrp" json:"rrp"`
	PeriodID       int       `db:"period_id" json:"period_id"`
}

// TradingRegionSum is the 30-minute regional demand summary.
type TradingRegionSum struct {
	SettlementDate time.Time `db:"settlement_date" json:"settlement_date"`
	Region         string    `db:"region" json:"region"`
	TotalDemand    float64   `db:"total_demand" json:"total_demand"`
	AvailableGen   float64   `db:"available_generation" json:"available_generation"`
	NetInterchange float64   `db:"net_interchange" json:"net_interchange"`
}

// FuelMix is one aggregated generation-by-fuel observation for an interval.
type FuelMix struct {
	SettlementDate time.Time `db:"settlement_date" json:"settlement_date"`
	FuelType       string    `db:"fuel_type" json:"fuel_type"`
	Region         string    `db:"region" json:"region"`
	TotalMW        float64   `db:"total_mw" json:"total_mw"`
	UnitCount      int       `db:"unit_count" json:"unit_count"`
}

// Position sides and statuses.
const (
	SideLong  = "LONG"
	SideShort = "SHORT"

	PositionOpen   = "OPEN"
	PositionClosed = "CLOSED"
)

// Position is one paper trading position. Closed positions are immutable.
type Position struct {
	ID         string     `db:"id" json:"id"`
	UserID     string     `db:"user_id" json:"user_id"`
	Region     string     `db:"region" json:"region"`
	Side       string     `db:"side" json:"side"`
	Quantity   float64    `db:"quantity" json:"quantity"`
	EntryPrice float64    `db:"entry_price" json:"entry_price"`
	EntryTime  time.Time  `db:"entry_time" json:"entry_time"`
	ExitPrice  *float64   `db:"exit_price" json:"exit_price,omitempty"`
	ExitTime   *time.Time `db:"exit_time" json:"exit_time,omitempty"`
	PNL        *float64   `db:"pnl" json:"pnl,omitempty"`
	Status     string     `db:"status" json:"status"`
}

// ValidationReport is the outcome of one validator run.
type ValidationReport struct {
	Passed    bool               `json:"passed"`
	Issues    []string           `json:"issues"`
	Warnings  []string           `json:"warnings"`
	Metrics   map[string]float64 `json:"metrics"`
	CheckedAt time.Time          `json:"checked_at"`
}
