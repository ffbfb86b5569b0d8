package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/nemflow/nemflow/internal/model"
)

// DISPATCH,PRICE column positions (report version 4).
//
//	4  SETTLEMENTDATE      9  RRP            14.. FCAS blocks of
//	5  RUNNO               10 EEP                 (RRP, ROP, APCFLAG)
//	6  REGIONID            11 ROP            44   PRICE_STATUS
//	7  DISPATCHINTERVAL    12 APCFLAG        45   LASTCHANGED
//	8  INTERVENTION        13 MARKETSUSPENDEDFLAG
const (
	dpSettlementDate = 4
	dpRegionID       = 6
	dpIntervention   = 8
	dpRRP            = 9
	dpEEP            = 10
	dpROP            = 11
	dpAPCFlag        = 12
	dpFCASBase       = 14 // first FCAS RRP; blocks of three per service
	dpPriceStatus    = 44
	dpLastChanged    = 45
)

// Order of the FCAS (RRP, ROP, APCFLAG) blocks from dpFCASBase.
var dispatchFCASOrder = []string{
	model.Raise6Sec, model.Raise60Sec, model.Raise5Min, model.RaiseReg,
	model.Lower6Sec, model.Lower60Sec, model.Lower5Min, model.LowerReg,
	model.Raise1Sec, model.Lower1Sec,
}

// DISPATCH,REGIONSUM column positions (report version 6).
//
//	4  SETTLEMENTDATE   9  TOTALDEMAND            15 NETINTERCHANGE
//	6  REGIONID         10 AVAILABLEGENERATION    16.. per-service required MW
//	8  INTERVENTION     11 AVAILABLELOAD          24/25 RAISE/LOWER1SEC local
//	                    13 DISPATCHABLEGENERATION       dispatch (see note)
const (
	rsSettlementDate = 4
	rsRegionID       = 6
	rsIntervention   = 8
	rsTotalDemand    = 9
	rsAvailableGen   = 10
	rsNetInterchange = 15
	rsFCASReqBase    = 16
	// The 1-second markets publish no "required" column; upstream stores the
	// figure in the local-dispatch positions. Persisted as required_mw with
	// that provenance.
	rsRaise1SecLocal = 24
	rsLower1SecLocal = 25
)

var regionSumFCASOrder = []string{
	model.Raise6Sec, model.Raise60Sec, model.Raise5Min, model.RaiseReg,
	model.Lower6Sec, model.Lower60Sec, model.Lower5Min, model.LowerReg,
}

// DISPATCH,INTERCONNECTORRES column positions.
const (
	icSettlementDate = 4
	icID             = 6
	icMeteredMWFlow  = 9
	icMWFlow         = 10
	icMWLosses       = 11
	icMarginalValue  = 12
	icViolation      = 13
	icExportLimit    = 14
	icImportLimit    = 15
)

// DISPATCH,CONSTRAINT column positions.
const (
	cnSettlementDate = 4
	cnID             = 6
	cnRHS            = 9
	cnMarginalValue  = 10
	cnViolation      = 11
)

// DISPATCH,UNIT_SOLUTION column positions.
//
//	4 SETTLEMENTDATE  9  INTERVENTION   14..23 FCAS enablement (10 services)
//	6 DUID            10 INITIALMW      24 AVAILABILITY
//	8 DISPATCHINTERVAL 11 TOTALCLEARED  25 SEMIDISPATCHCAP
//	                  12 RAMPDOWNRATE
//	                  13 RAMPUPRATE
const (
	usSettlementDate  = 4
	usDUID            = 6
	usIntervention    = 9
	usInitialMW       = 10
	usTotalCleared    = 11
	usRampDownRate    = 12
	usRampUpRate      = 13
	usFCASBase        = 14
	usAvailability    = 24
	usSemiDispatchCap = 25
)

var unitFCASOrder = []string{
	model.Raise6Sec, model.Raise60Sec, model.Raise5Min, model.RaiseReg,
	model.Lower6Sec, model.Lower60Sec, model.Lower5Min, model.LowerReg,
	model.Raise1Sec, model.Lower1Sec,
}

// Intermediate rows collected before the merge pass.

type PriceRow struct {
	SettlementDate time.Time
	Region         string
	RRP, EEP, ROP  float64
	APCFlag        int
	FCASPrices     map[string]float64
	PriceStatus    string
	LastChanged    *time.Time
}

type RegionSumRow struct {
	SettlementDate time.Time
	Region         string
	TotalDemand    float64
	AvailableGen   float64
	NetInterchange float64
	FCASRequired   map[string]float64
}

type InterconnectorRow = model.InterconnectorFlow
type ConstraintRow = model.Constraint

type UnitRow struct {
	model.GeneratorDispatch
}

func parseDispatchPrice(row Row, res *Result) error {
	ts, err := row.Time(dpSettlementDate)
	if err != nil {
		return err
	}
	region := row.Str(dpRegionID)
	if region == "" {
		return fmt.Errorf("missing region id")
	}

	rrp, err := row.Float(dpRRP)
	if err != nil {
		return err
	}
	eep, err := row.Float(dpEEP)
	if err != nil {
		return err
	}
	rop, err := row.Float(dpROP)
	if err != nil {
		return err
	}
	apc, err := row.Int(dpAPCFlag)
	if err != nil {
		return err
	}

	fcas := make(map[string]float64, len(dispatchFCASOrder))
	for i, service := range dispatchFCASOrder {
		v, err := row.Float(dpFCASBase + i*3)
		if err != nil {
			return err
		}
		fcas[service] = ClampPrice(v, region, service+"RRP")
	}

	p := PriceRow{
		SettlementDate: ts,
		Region:         region,
		RRP:            ClampPrice(rrp, region, "RRP"),
		EEP:            eep,
		ROP:            rop,
		APCFlag:        apc,
		FCASPrices:     fcas,
		PriceStatus:    row.Str(dpPriceStatus),
	}
	if lc, err := row.Time(dpLastChanged); err == nil {
		p.LastChanged = &lc
	}
	res.Prices = append(res.Prices, p)
	return nil
}

func parseDispatchRegionSum(row Row, res *Result) error {
	ts, err := row.Time(rsSettlementDate)
	if err != nil {
		return err
	}
	region := row.Str(rsRegionID)
	if region == "" {
		return fmt.Errorf("missing region id")
	}

	demand, err := row.Float(rsTotalDemand)
	if err != nil {
		return err
	}
	gen, err := row.Float(rsAvailableGen)
	if err != nil {
		return err
	}
	interchange, err := row.Float(rsNetInterchange)
	if err != nil {
		return err
	}

	required := make(map[string]float64, 10)
	for i, service := range regionSumFCASOrder {
		v, err := row.Float(rsFCASReqBase + i)
		if err != nil {
			return err
		}
		required[service] = v
	}
	if v, err := row.Float(rsRaise1SecLocal); err == nil {
		required[model.Raise1Sec] = v
	}
	if v, err := row.Float(rsLower1SecLocal); err == nil {
		required[model.Lower1Sec] = v
	}

	res.RegionSums = append(res.RegionSums, RegionSumRow{
		SettlementDate: ts,
		Region:         region,
		TotalDemand:    ClampMW(demand),
		AvailableGen:   ClampMW(gen),
		NetInterchange: ClampMW(interchange),
		FCASRequired:   required,
	})
	return nil
}

func parseInterconnector(row Row, res *Result) error {
	ts, err := row.Time(icSettlementDate)
	if err != nil {
		return err
	}
	id := row.Str(icID)
	if id == "" {
		return fmt.Errorf("missing interconnector id")
	}

	metered, err := row.Float(icMeteredMWFlow)
	if err != nil {
		return err
	}
	flow, err := row.Float(icMWFlow)
	if err != nil {
		return err
	}
	losses, err := row.Float(icMWLosses)
	if err != nil {
		return err
	}
	marginal, err := row.Float(icMarginalValue)
	if err != nil {
		return err
	}
	violation, err := row.Float(icViolation)
	if err != nil {
		return err
	}
	exportLim, err := row.Float(icExportLimit)
	if err != nil {
		return err
	}
	importLim, err := row.Float(icImportLimit)
	if err != nil {
		return err
	}

	from, to := InterconnectorRegions(id)
	res.Interconnectors = append(res.Interconnectors, InterconnectorRow{
		SettlementDate:   ts,
		InterconnectorID: id,
		FromRegion:       from,
		ToRegion:         to,
		MeteredMWFlow:    metered,
		MWFlow:           flow,
		MWLosses:         losses,
		MarginalValue:    marginal,
		ViolationDegree:  violation,
		ExportLimit:      exportLim,
		ImportLimit:      importLim,
	})
	return nil
}

func parseConstraint(row Row, res *Result) error {
	ts, err := row.Time(cnSettlementDate)
	if err != nil {
		return err
	}
	id := row.Str(cnID)
	if id == "" {
		return fmt.Errorf("missing constraint id")
	}

	rhs, err := row.Float(cnRHS)
	if err != nil {
		return err
	}
	marginal, err := row.Float(cnMarginalValue)
	if err != nil {
		return err
	}
	violation, err := row.Float(cnViolation)
	if err != nil {
		return err
	}

	// Only binding constraints are kept.
	if marginal <= 0 {
		return nil
	}
	res.Constraints = append(res.Constraints, ConstraintRow{
		SettlementDate:  ts,
		ConstraintID:    id,
		RHS:             rhs,
		MarginalValue:   marginal,
		ViolationDegree: violation,
	})
	return nil
}

func parseUnitSolution(row Row, res *Result) error {
	ts, err := row.Time(usSettlementDate)
	if err != nil {
		return err
	}
	duid := row.Str(usDUID)
	if duid == "" {
		return fmt.Errorf("missing duid")
	}

	intervention, err := row.Int(usIntervention)
	if err != nil {
		return err
	}
	initial, err := row.Float(usInitialMW)
	if err != nil {
		return err
	}
	cleared, err := row.Float(usTotalCleared)
	if err != nil {
		return err
	}
	rampDown, err := row.Float(usRampDownRate)
	if err != nil {
		return err
	}
	rampUp, err := row.Float(usRampUpRate)
	if err != nil {
		return err
	}
	avail, err := row.Float(usAvailability)
	if err != nil {
		return err
	}
	semiCap, err := row.Float(usSemiDispatchCap)
	if err != nil {
		return err
	}

	enablement := make(map[string]float64, len(unitFCASOrder))
	for i, service := range unitFCASOrder {
		v, err := row.Float(usFCASBase + i)
		if err != nil {
			return err
		}
		enablement[service] = v
	}

	res.Units = append(res.Units, UnitRow{GeneratorDispatch: model.GeneratorDispatch{
		SettlementDate:  ts,
		DUID:            duid,
		Intervention:    intervention,
		InitialMW:       ClampMW(initial),
		TotalCleared:    ClampMW(cleared),
		RampDownRate:    rampDown,
		RampUpRate:      rampUp,
		AvailableMW:     ClampMW(avail),
		SemiDispatchCap: semiCap,
		FCASEnablement:  enablement,
	}})
	return nil
}

// interconnectorLinks maps the well-known link ids to their ordered
// (from, to) region pair.
var interconnectorLinks = map[string][2]string{
	"NSW1-QLD1": {"NSW1", "QLD1"},
	"VIC1-NSW1": {"VIC1", "NSW1"},
	"V-SA":      {"VIC1", "SA1"},
	"V-S-MNSP1": {"VIC1", "SA1"},
	"T-V-MNSP1": {"TAS1", "VIC1"},
	"N-Q-MNSP1": {"NSW1", "QLD1"},
}

// InterconnectorRegions resolves a link id to its (from, to) pair. Unknown
// ids with a simple A-B shape fall back to the split; anything else maps to
// UNKNOWN so the row is still persisted.
func InterconnectorRegions(id string) (string, string) {
	if pair, ok := interconnectorLinks[id]; ok {
		return pair[0], pair[1]
	}
	parts := strings.Split(id, "-")
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return "UNKNOWN", "UNKNOWN"
}

// MergeDispatch joins PRICE and REGIONSUM rows on (region, interval) and
// returns one DispatchPrice per pair, in region order per interval. A PRICE
// row without a matching REGIONSUM still merges with zero demand fields.
func MergeDispatch(res *Result) []model.DispatchPrice {
	type mergeKey struct {
		region string
		ts     time.Time
	}
	sums := make(map[mergeKey]RegionSumRow, len(res.RegionSums))
	for _, rs := range res.RegionSums {
		sums[mergeKey{rs.Region, rs.SettlementDate}] = rs
	}

	out := make([]model.DispatchPrice, 0, len(res.Prices))
	for _, p := range res.Prices {
		dp := model.DispatchPrice{
			SettlementDate: p.SettlementDate,
			Region:         p.Region,
			RRP:            p.RRP,
			EEP:            p.EEP,
			ROP:            p.ROP,
			APCFlag:        p.APCFlag,
			FCASPrices:     p.FCASPrices,
			PriceStatus:    p.PriceStatus,
			LastChanged:    p.LastChanged,
		}
		if rs, ok := sums[mergeKey{p.Region, p.SettlementDate}]; ok {
			dp.TotalDemand = rs.TotalDemand
			dp.AvailableGen = rs.AvailableGen
			dp.NetInterchange = rs.NetInterchange
			dp.FCASRequired = rs.FCASRequired
		}
		out = append(out, dp)
	}
	return out
}

// EmitFCAS expands merged dispatch rows into one FCASPrice per service with
// a non-zero price. Zero-priced services are suppressed.
func EmitFCAS(prices []model.DispatchPrice) []model.FCASPrice {
	var out []model.FCASPrice
	for _, dp := range prices {
		for _, service := range model.FCASServices {
			price, ok := dp.FCASPrices[service]
			if !ok || price == 0 {
				continue
			}
			out = append(out, model.FCASPrice{
				SettlementDate: dp.SettlementDate,
				Region:         dp.Region,
				Service:        service,
				Price:          price,
				RequiredMW:     dp.FCASRequired[service],
			})
		}
	}
	return out
}

// GeneratorRows converts collected unit solutions to model records.
func GeneratorRows(res *Result) []model.GeneratorDispatch {
	out := make([]model.GeneratorDispatch, 0, len(res.Units))
	for _, u := range res.Units {
		out = append(out, u.GeneratorDispatch)
	}
	return out
}
