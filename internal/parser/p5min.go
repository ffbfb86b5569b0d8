package parser

import (
	"fmt"

	"github.com/nemflow/nemflow/internal/model"
)

// P5MIN,REGIONSOLUTION column positions: 4 RUN_DATETIME, 5 INTERVAL_DATETIME,
// 6 REGIONID, 7 RRP, 8 TOTALDEMAND, 9 AVAILABLEGENERATION, 10 NETINTERCHANGE.
const (
	p5RunDateTime      = 4
	p5IntervalDateTime = 5
	p5RegionID         = 6
	p5RRP              = 7
	p5TotalDemand      = 8
	p5AvailableGen     = 9
	p5NetInterchange   = 10
)

// P5MIN,UNITSOLUTION column positions: 4 RUN_DATETIME, 5 INTERVAL_DATETIME,
// 6 DUID, 7 TOTALCLEARED, 8 AVAILABILITY.
const (
	p5uDUID         = 6
	p5uTotalCleared = 7
	p5uAvailability = 8
)

type P5RegionRow = model.P5Forecast

// P5UnitRow reuses the predispatch unit shape with the P5 run datetime
// rendered as the run id.
type P5UnitRow = model.PredispatchUnit

func parseP5Region(row Row, res *Result) error {
	run, err := row.Time(p5RunDateTime)
	if err != nil {
		return err
	}
	interval, err := row.Time(p5IntervalDateTime)
	if err != nil {
		return err
	}
	region := row.Str(p5RegionID)
	if region == "" {
		return fmt.Errorf("missing region id")
	}

	rrp, err := row.Float(p5RRP)
	if err != nil {
		return err
	}
	demand, err := row.Float(p5TotalDemand)
	if err != nil {
		return err
	}
	gen, err := row.Float(p5AvailableGen)
	if err != nil {
		return err
	}
	interchange, err := row.Float(p5NetInterchange)
	if err != nil {
		return err
	}

	res.P5Regions = append(res.P5Regions, P5RegionRow{
		RunDateTime:      run,
		IntervalDateTime: interval,
		Region:           region,
		RRP:              ClampPrice(rrp, region, "P5MIN RRP"),
		TotalDemand:      ClampMW(demand),
		AvailableGen:     ClampMW(gen),
		NetInterchange:   ClampMW(interchange),
	})
	return nil
}

func parseP5Unit(row Row, res *Result) error {
	run, err := row.Time(p5RunDateTime)
	if err != nil {
		return err
	}
	interval, err := row.Time(p5IntervalDateTime)
	if err != nil {
		return err
	}
	duid := row.Str(p5uDUID)
	if duid == "" {
		return fmt.Errorf("missing duid")
	}
	cleared, err := row.Float(p5uTotalCleared)
	if err != nil {
		return err
	}
	avail, err := row.Float(p5uAvailability)
	if err != nil {
		return err
	}

	res.P5Units = append(res.P5Units, P5UnitRow{
		PredispatchRunID: run.Format("200601021504"),
		IntervalDateTime: interval,
		DUID:             duid,
		TotalCleared:     ClampMW(cleared),
		AvailableMW:      ClampMW(avail),
	})
	return nil
}
