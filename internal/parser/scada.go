package parser

import (
	"fmt"
	"time"

	"github.com/nemflow/nemflow/internal/model"
)

// DISPATCH,UNIT_SCADA column positions: 4 SETTLEMENTDATE, 5 DUID,
// 6 SCADAVALUE. Negative values are loads drawing from the grid.
const (
	scSettlementDate = 4
	scDUID           = 5
	scValue          = 6
)

type ScadaRow = model.ScadaReading

func parseUnitScada(row Row, res *Result) error {
	ts, err := row.Time(scSettlementDate)
	if err != nil {
		return err
	}
	duid := row.Str(scDUID)
	if duid == "" {
		return fmt.Errorf("missing duid")
	}
	v, err := row.Float(scValue)
	if err != nil {
		return err
	}

	res.Scada = append(res.Scada, ScadaRow{
		SettlementDate: ts,
		DUID:           duid,
		ScadaValue:     ClampMW(v),
	})
	return nil
}

// FuelRollup groups positive SCADA readings by registered fuel type and sums
// output per interval, with one additional row per fuel category. Units
// absent from the registry fall into the "other" bucket.
func FuelRollup(readings []ScadaRow) []model.FuelMix {
	type rollKey struct {
		ts       time.Time
		fuelType string
		region   string
	}
	type agg struct {
		mw    float64
		units int
	}
	byFuel := make(map[rollKey]*agg)
	byCategory := make(map[rollKey]*agg)

	add := func(m map[rollKey]*agg, k rollKey, mw float64) {
		a, ok := m[k]
		if !ok {
			a = &agg{}
			m[k] = a
		}
		a.mw += mw
		a.units++
	}

	for _, r := range readings {
		if r.ScadaValue <= 0 {
			continue
		}
		fuelType, category, region := "Other", model.FuelOther, ""
		if u := model.Lookup(r.DUID); u != nil {
			fuelType, category, region = u.FuelType, u.FuelCategory, u.Region
		}
		add(byFuel, rollKey{r.SettlementDate, fuelType, region}, r.ScadaValue)
		add(byCategory, rollKey{r.SettlementDate, "category:" + category, region}, r.ScadaValue)
	}

	out := make([]model.FuelMix, 0, len(byFuel)+len(byCategory))
	for k, a := range byFuel {
		out = append(out, model.FuelMix{
			SettlementDate: k.ts, FuelType: k.fuelType, Region: k.region,
			TotalMW: a.mw, UnitCount: a.units,
		})
	}
	for k, a := range byCategory {
		out = append(out, model.FuelMix{
			SettlementDate: k.ts, FuelType: k.fuelType, Region: k.region,
			TotalMW: a.mw, UnitCount: a.units,
		})
	}
	return out
}
