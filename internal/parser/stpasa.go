package parser

import (
	"fmt"

	"github.com/nemflow/nemflow/internal/model"
)

// STPASA,REGIONSOLUTION column positions: 4 RUN_DATETIME,
// 5 INTERVAL_DATETIME, 6 REGIONID, 7 DEMAND10, 8 DEMAND50, 9 DEMAND90,
// 10 AGGREGATECAPACITYAVAILABLE, 11 SURPLUSRESERVE, 12 RESERVECONDITION.
const (
	spRunDateTime      = 4
	spIntervalDateTime = 5
	spRegionID         = 6
	spDemand10         = 7
	spDemand50         = 8
	spDemand90         = 9
	spAggCapacity      = 10
	spSurplusReserve   = 11
	spReserveCondition = 12
)

// STPASA,UNITAVAILABILITY column positions: 4 RUN_DATETIME,
// 5 INTERVAL_DATETIME, 6 DUID, 7 PASAAVAILABILITY.
const (
	suDUID             = 6
	suPASAAvailability = 7
)

type StPasaRegionRow = model.StPasaRegion
type StPasaUnitRow = model.StPasaUnitAvailability

func parseStPasaRegion(row Row, res *Result) error {
	run, err := row.Time(spRunDateTime)
	if err != nil {
		return err
	}
	interval, err := row.Time(spIntervalDateTime)
	if err != nil {
		return err
	}
	region := row.Str(spRegionID)
	if region == "" {
		return fmt.Errorf("missing region id")
	}

	d10, err := row.Float(spDemand10)
	if err != nil {
		return err
	}
	d50, err := row.Float(spDemand50)
	if err != nil {
		return err
	}
	d90, err := row.Float(spDemand90)
	if err != nil {
		return err
	}
	capacity, err := row.Float(spAggCapacity)
	if err != nil {
		return err
	}
	surplus, err := row.Float(spSurplusReserve)
	if err != nil {
		return err
	}

	res.StPasaRegions = append(res.StPasaRegions, StPasaRegionRow{
		RunDateTime:       run,
		IntervalDateTime:  interval,
		Region:            region,
		Demand10:          ClampMW(d10),
		Demand50:          ClampMW(d50),
		Demand90:          ClampMW(d90),
		AggregateCapacity: ClampMW(capacity),
		SurplusReserve:    surplus,
		ReserveCondition:  row.Str(spReserveCondition),
	})
	return nil
}

func parseStPasaUnit(row Row, res *Result) error {
	run, err := row.Time(spRunDateTime)
	if err != nil {
		return err
	}
	interval, err := row.Time(spIntervalDateTime)
	if err != nil {
		return err
	}
	duid := row.Str(suDUID)
	if duid == "" {
		return fmt.Errorf("missing duid")
	}
	avail, err := row.Float(suPASAAvailability)
	if err != nil {
		return err
	}

	res.StPasaUnits = append(res.StPasaUnits, StPasaUnitRow{
		RunDateTime:      run,
		IntervalDateTime: interval,
		DUID:             duid,
		PASAAvailability: ClampMW(avail),
	})
	return nil
}
