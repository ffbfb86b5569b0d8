package parser

import (
	"fmt"

	"github.com/nemflow/nemflow/internal/model"
)

// TRADING rows are header-mapped: the most recent I row for a subtype
// defines the name->index mapping, and D rows resolve fields by name with a
// positional fallback matching the historical layout. This keeps the parser
// working when the upstream adds trailing columns.

// Historical TRADING,PRICE positions used as the fallback:
// 4 SETTLEMENTDATE, 5 RUNNO, 6 REGIONID, 7 PERIODID, 8 RRP.
const (
	tpSettlementDate = 4
	tpRegionID       = 6
	tpPeriodID       = 7
	tpRRP            = 8
)

// Historical TRADING,REGIONSUM positions used as the fallback:
// 4 SETTLEMENTDATE, 6 REGIONID, 8 TOTALDEMAND, 9 AVAILABLEGENERATION,
// 10 NETINTERCHANGE.
const (
	trSettlementDate = 4
	trRegionID       = 6
	trTotalDemand    = 8
	trAvailableGen   = 9
	trNetInterchange = 10
)

type TradingPriceRow = model.TradingPrice
type TradingSumRow = model.TradingRegionSum

func (reg *Registry) parseTradingPrice(row Row, res *Result) error {
	hdr := reg.headers[key("TRADING", "PRICE")]

	ts, err := row.Time(hdr.index("SETTLEMENTDATE", tpSettlementDate))
	if err != nil {
		return err
	}
	region := row.Str(hdr.index("REGIONID", tpRegionID))
	if region == "" {
		return fmt.Errorf("missing region id")
	}
	period, err := row.Int(hdr.index("PERIODID", tpPeriodID))
	if err != nil {
		return err
	}
	rrp, err := row.Float(hdr.index("RRP", tpRRP))
	if err != nil {
		return err
	}

	res.TradingPrices = append(res.TradingPrices, TradingPriceRow{
		SettlementDate: ts,
		Region:         region,
		RRP:            ClampPrice(rrp, region, "TRADING RRP"),
		PeriodID:       period,
	})
	return nil
}

func (reg *Registry) parseTradingRegionSum(row Row, res *Result) error {
	hdr := reg.headers[key("TRADING", "REGIONSUM")]

	ts, err := row.Time(hdr.index("SETTLEMENTDATE", trSettlementDate))
	if err != nil {
		return err
	}
	region := row.Str(hdr.index("REGIONID", trRegionID))
	if region == "" {
		return fmt.Errorf("missing region id")
	}
	demand, err := row.Float(hdr.index("TOTALDEMAND", trTotalDemand))
	if err != nil {
		return err
	}
	gen, err := row.Float(hdr.index("AVAILABLEGENERATION", trAvailableGen))
	if err != nil {
		return err
	}
	interchange, err := row.Float(hdr.index("NETINTERCHANGE", trNetInterchange))
	if err != nil {
		return err
	}

	res.TradingSums = append(res.TradingSums, TradingSumRow{
		SettlementDate: ts,
		Region:         region,
		TotalDemand:    ClampMW(demand),
		AvailableGen:   ClampMW(gen),
		NetInterchange: ClampMW(interchange),
	})
	return nil
}
