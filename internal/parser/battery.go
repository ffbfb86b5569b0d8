package parser

import (
	"sync"
	"time"

	"github.com/nemflow/nemflow/internal/model"
)

// RoundTripEfficiency is the declared charge efficiency applied when
// integrating state of charge. Discharge draws stored energy 1:1; losses are
// booked on the way in.
const RoundTripEfficiency = 0.90

// SoCTracker integrates battery state of charge across intervals. The feed
// signs TotalCleared (generator convention: positive discharges, negative
// charges) but publishes no SoC, so the tracker anchors each unit at 50% of
// registered capacity on first sight and integrates from there.
type SoCTracker struct {
	mu     sync.Mutex
	energy map[string]float64 // DUID -> stored MWh
	seen   map[string]time.Time
}

// NewSoCTracker returns an empty tracker.
func NewSoCTracker() *SoCTracker {
	return &SoCTracker{
		energy: make(map[string]float64),
		seen:   make(map[string]time.Time),
	}
}

// BatteryRows derives battery dispatch records from the unit solutions in a
// bundle, enriching from the registry and advancing the SoC integral. Unit
// rows for non-battery DUIDs are ignored.
func (t *SoCTracker) BatteryRows(res *Result) []model.BatteryDispatch {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []model.BatteryDispatch
	for _, u := range res.Units {
		info := model.Lookup(u.DUID)
		if info == nil || info.FuelCategory != model.FuelBattery {
			continue
		}

		bd := model.BatteryDispatch{
			SettlementDate: u.SettlementDate,
			DUID:           u.DUID,
			InitialMW:      u.InitialMW,
			TotalCleared:   u.TotalCleared,
			AvailableMW:    u.AvailableMW,
			CapacityMWh:    info.CapacityMWh,
			MaxChargeMW:    info.MaxChargeMW,
			MaxDischargeMW: info.MaxDischargeMW,
			StationName:    info.StationName,
			Region:         info.Region,
			FCASEnablement: u.FCASEnablement,
		}

		switch {
		case u.TotalCleared < 0:
			bd.Mode = model.BatteryCharging
			bd.ChargeMW = -u.TotalCleared
		case u.TotalCleared > 0:
			bd.Mode = model.BatteryDischarging
			bd.DischargeMW = u.TotalCleared
		default:
			bd.Mode = model.BatteryStandby
		}

		bd.EnergyMWh, bd.SoCPercent = t.advance(u.DUID, info.CapacityMWh, u.SettlementDate, bd.ChargeMW, bd.DischargeMW)
		out = append(out, bd)
	}
	return out
}

// advance applies one interval of charge/discharge to the stored energy and
// returns the new (MWh, SoC%) pair, clamped to [0, capacity].
func (t *SoCTracker) advance(duid string, capacityMWh float64, ts time.Time, chargeMW, dischargeMW float64) (float64, float64) {
	if capacityMWh <= 0 {
		return 0, 0
	}

	stored, ok := t.energy[duid]
	if !ok {
		stored = capacityMWh / 2 // anchor: unknown start, assume half full
	}

	// Re-ingesting the same interval must not double-count.
	if last, ok := t.seen[duid]; !ok || ts.After(last) {
		hours := 5.0 / 60.0
		stored += chargeMW * hours * RoundTripEfficiency
		stored -= dischargeMW * hours
		if stored < 0 {
			stored = 0
		}
		if stored > capacityMWh {
			stored = capacityMWh
		}
		t.energy[duid] = stored
		t.seen[duid] = ts
	} else {
		stored = t.energy[duid]
	}

	return stored, stored / capacityMWh * 100
}
