package parser

import (
	"fmt"
	"time"

	"github.com/nemflow/nemflow/internal/model"
)

// PREDISPATCH,REGION_PRICES column positions: 4 PREDISPATCHSEQNO, 5 RUNNO,
// 6 REGIONID, 7 PERIODID, 8 INTERVENTION, 9 RRP, 10 EEP, 11 DATETIME.
const (
	pdpSeqNo    = 4
	pdpRegionID = 6
	pdpRRP      = 9
	pdpDateTime = 11
)

// PREDISPATCH,REGION_SOLUTION column positions: 4 PREDISPATCHSEQNO, 5 RUNNO,
// 6 REGIONID, 7 PERIODID, 8 INTERVENTION, 9 TOTALDEMAND,
// 10 AVAILABLEGENERATION, 11 NETINTERCHANGE, 12 DATETIME.
const (
	pdrSeqNo          = 4
	pdrRegionID       = 6
	pdrTotalDemand    = 9
	pdrAvailableGen   = 10
	pdrNetInterchange = 11
	pdrDateTime       = 12
)

// PREDISPATCH,UNIT_SOLUTION column positions: 4 PREDISPATCHSEQNO, 5 RUNNO,
// 6 DUID, 7 PERIODID, 8 INTERVENTION, 9 TOTALCLEARED, 10 AVAILABILITY,
// 11 DATETIME.
const (
	pduSeqNo        = 4
	pduDUID         = 6
	pduTotalCleared = 9
	pduAvailability = 10
	pduDateTime     = 11
)

// PREDISPATCH,INTERCONNECTOR_SOLN column positions: 4 PREDISPATCHSEQNO,
// 6 INTERCONNECTORID, 9 MWFLOW, 10 MWLOSSES, 11 DATETIME.
const (
	pdiSeqNo    = 4
	pdiID       = 6
	pdiMWFlow   = 9
	pdiMWLosses = 10
	pdiDateTime = 11
)

// PREDISPATCH,CONSTRAINT_SOLUTION column positions: 4 PREDISPATCHSEQNO,
// 6 CONSTRAINTID, 9 RHS, 10 MARGINALVALUE, 11 DATETIME.
const (
	pdcSeqNo         = 4
	pdcID            = 6
	pdcRHS           = 9
	pdcMarginalValue = 10
	pdcDateTime      = 11
)

// Intermediate predispatch rows; prices and solutions merge on
// (run id, interval, region) the same way dispatch PRICE/REGIONSUM do.

type PDPriceRow struct {
	RunID    string
	Interval time.Time
	Region   string
	RRP      float64
}

type PDRegionRow = model.PredispatchRegion
type PDUnitRow = model.PredispatchUnit
type PDInterconnectorRow = model.PredispatchInterconnector
type PDConstraintRow = model.PredispatchConstraint

func parsePredispatchPrice(row Row, res *Result) error {
	runID := row.Str(pdpSeqNo)
	if runID == "" {
		return fmt.Errorf("missing predispatch run id")
	}
	region := row.Str(pdpRegionID)
	if region == "" {
		return fmt.Errorf("missing region id")
	}
	interval, err := row.Time(pdpDateTime)
	if err != nil {
		return err
	}
	rrp, err := row.Float(pdpRRP)
	if err != nil {
		return err
	}

	res.PDPrices = append(res.PDPrices, PDPriceRow{
		RunID:    runID,
		Interval: interval,
		Region:   region,
		RRP:      ClampPrice(rrp, region, "PREDISPATCH RRP"),
	})
	return nil
}

func parsePredispatchRegion(row Row, res *Result) error {
	runID := row.Str(pdrSeqNo)
	if runID == "" {
		return fmt.Errorf("missing predispatch run id")
	}
	region := row.Str(pdrRegionID)
	if region == "" {
		return fmt.Errorf("missing region id")
	}
	interval, err := row.Time(pdrDateTime)
	if err != nil {
		return err
	}
	demand, err := row.Float(pdrTotalDemand)
	if err != nil {
		return err
	}
	gen, err := row.Float(pdrAvailableGen)
	if err != nil {
		return err
	}
	interchange, err := row.Float(pdrNetInterchange)
	if err != nil {
		return err
	}

	res.PDRegions = append(res.PDRegions, PDRegionRow{
		PredispatchRunID: runID,
		IntervalDateTime: interval,
		Region:           region,
		TotalDemand:      ClampMW(demand),
		AvailableGen:     ClampMW(gen),
		NetInterchange:   ClampMW(interchange),
	})
	return nil
}

func parsePredispatchUnit(row Row, res *Result) error {
	runID := row.Str(pduSeqNo)
	if runID == "" {
		return fmt.Errorf("missing predispatch run id")
	}
	duid := row.Str(pduDUID)
	if duid == "" {
		return fmt.Errorf("missing duid")
	}
	interval, err := row.Time(pduDateTime)
	if err != nil {
		return err
	}
	cleared, err := row.Float(pduTotalCleared)
	if err != nil {
		return err
	}
	avail, err := row.Float(pduAvailability)
	if err != nil {
		return err
	}

	res.PDUnits = append(res.PDUnits, PDUnitRow{
		PredispatchRunID: runID,
		IntervalDateTime: interval,
		DUID:             duid,
		TotalCleared:     ClampMW(cleared),
		AvailableMW:      ClampMW(avail),
	})
	return nil
}

func parsePredispatchInterconnector(row Row, res *Result) error {
	runID := row.Str(pdiSeqNo)
	if runID == "" {
		return fmt.Errorf("missing predispatch run id")
	}
	id := row.Str(pdiID)
	if id == "" {
		return fmt.Errorf("missing interconnector id")
	}
	interval, err := row.Time(pdiDateTime)
	if err != nil {
		return err
	}
	flow, err := row.Float(pdiMWFlow)
	if err != nil {
		return err
	}
	losses, err := row.Float(pdiMWLosses)
	if err != nil {
		return err
	}

	res.PDInterconnectors = append(res.PDInterconnectors, PDInterconnectorRow{
		PredispatchRunID: runID,
		IntervalDateTime: interval,
		InterconnectorID: id,
		MWFlow:           flow,
		MWLosses:         losses,
	})
	return nil
}

func parsePredispatchConstraint(row Row, res *Result) error {
	runID := row.Str(pdcSeqNo)
	if runID == "" {
		return fmt.Errorf("missing predispatch run id")
	}
	id := row.Str(pdcID)
	if id == "" {
		return fmt.Errorf("missing constraint id")
	}
	interval, err := row.Time(pdcDateTime)
	if err != nil {
		return err
	}
	rhs, err := row.Float(pdcRHS)
	if err != nil {
		return err
	}
	marginal, err := row.Float(pdcMarginalValue)
	if err != nil {
		return err
	}
	if marginal <= 0 {
		return nil // binding constraints only, same filter as dispatch
	}

	res.PDConstraints = append(res.PDConstraints, PDConstraintRow{
		PredispatchRunID: runID,
		IntervalDateTime: interval,
		ConstraintID:     id,
		RHS:              rhs,
		MarginalValue:    marginal,
	})
	return nil
}

// MergePredispatch joins REGION_PRICES onto REGION_SOLUTION rows by
// (run id, interval, region), filling RRP on the solution rows. Price rows
// with no solution counterpart become demand-less forecast rows.
func MergePredispatch(res *Result) []model.PredispatchRegion {
	type mergeKey struct {
		runID  string
		ts     time.Time
		region string
	}
	merged := make(map[mergeKey]model.PredispatchRegion, len(res.PDRegions))
	var order []mergeKey
	for _, r := range res.PDRegions {
		k := mergeKey{r.PredispatchRunID, r.IntervalDateTime, r.Region}
		merged[k] = r
		order = append(order, k)
	}
	for _, p := range res.PDPrices {
		k := mergeKey{p.RunID, p.Interval, p.Region}
		if row, ok := merged[k]; ok {
			row.RRP = p.RRP
			merged[k] = row
			continue
		}
		merged[k] = model.PredispatchRegion{
			PredispatchRunID: p.RunID,
			IntervalDateTime: p.Interval,
			Region:           p.Region,
			RRP:              p.RRP,
		}
		order = append(order, k)
	}

	out := make([]model.PredispatchRegion, 0, len(order))
	for _, k := range order {
		out = append(out, merged[k])
	}
	return out
}
