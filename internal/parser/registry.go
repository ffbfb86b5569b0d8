package parser

import (
	"bufio"
	"strings"

	"github.com/rs/zerolog/log"
)

// Result accumulates the typed records decoded from one bundle. Families that
// require a post-pass (PRICE+REGIONSUM merge, FCAS emission, battery
// derivation) fill intermediate slices that Finish resolves.
type Result struct {
	Prices           []PriceRow
	RegionSums       []RegionSumRow
	Interconnectors  []InterconnectorRow
	Constraints      []ConstraintRow
	Units            []UnitRow
	Scada            []ScadaRow
	P5Regions        []P5RegionRow
	P5Units          []P5UnitRow
	PDPrices         []PDPriceRow
	PDRegions        []PDRegionRow
	PDUnits          []PDUnitRow
	PDInterconnectors []PDInterconnectorRow
	PDConstraints    []PDConstraintRow
	StPasaRegions    []StPasaRegionRow
	StPasaUnits      []StPasaUnitRow
	TradingPrices    []TradingPriceRow
	TradingSums      []TradingSumRow

	RowsSeen    int
	RowsSkipped int
}

// ParseFunc decodes one data row into the result. A nil return with no error
// means the row was filtered (e.g. a non-binding constraint).
type ParseFunc func(row Row, res *Result) error

// Registry maps (family, subtype) to its parser. Built once at startup; rows
// whose tag has no entry are ignored, which is how unrelated record types
// interleaved in the same bundle are handled.
type Registry struct {
	parsers map[string]ParseFunc
	headers map[string]headerMap
}

func key(family, subtype string) string { return family + "." + subtype }

// NewRegistry returns a registry with every known record family wired.
func NewRegistry() *Registry {
	r := &Registry{
		parsers: make(map[string]ParseFunc),
		headers: make(map[string]headerMap),
	}

	// Fixed-position families.
	r.register("DISPATCH", "PRICE", parseDispatchPrice)
	r.register("DISPATCH", "REGIONSUM", parseDispatchRegionSum)
	r.register("DISPATCH", "INTERCONNECTORRES", parseInterconnector)
	r.register("DISPATCH", "CONSTRAINT", parseConstraint)
	r.register("DISPATCH", "UNIT_SOLUTION", parseUnitSolution)
	r.register("DISPATCH", "UNIT_SCADA", parseUnitScada)
	r.register("P5MIN", "REGIONSOLUTION", parseP5Region)
	r.register("P5MIN", "UNITSOLUTION", parseP5Unit)
	r.register("PREDISPATCH", "REGION_PRICES", parsePredispatchPrice)
	r.register("PREDISPATCH", "REGION_SOLUTION", parsePredispatchRegion)
	r.register("PREDISPATCH", "UNIT_SOLUTION", parsePredispatchUnit)
	r.register("PREDISPATCH", "INTERCONNECTOR_SOLN", parsePredispatchInterconnector)
	r.register("PREDISPATCH", "CONSTRAINT_SOLUTION", parsePredispatchConstraint)
	r.register("STPASA", "REGIONSOLUTION", parseStPasaRegion)
	r.register("STPASA", "UNITAVAILABILITY", parseStPasaUnit)

	// Header-mapped families: the parser closes over the registry so it can
	// consult the name->index map captured from the most recent I row.
	r.register("TRADING", "PRICE", r.parseTradingPrice)
	r.register("TRADING", "REGIONSUM", r.parseTradingRegionSum)

	return r
}

func (r *Registry) register(family, subtype string, fn ParseFunc) {
	r.parsers[key(family, subtype)] = fn
}

// Parse walks a whole bundle body and returns the accumulated result.
// Individual bad rows are skipped with a warning; only a structurally empty
// payload is reported via Result.RowsSeen == 0.
func (r *Registry) Parse(body string) *Result {
	res := &Result{}
	scanner := bufio.NewScanner(strings.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		row := SplitLine(line)

		switch row.Kind() {
		case rowComment:
			continue
		case rowHeader:
			r.captureHeader(row)
			continue
		case rowData:
		default:
			continue
		}

		res.RowsSeen++
		fn, ok := r.parsers[key(row.Family(), row.Subtype())]
		if !ok {
			continue
		}
		if err := fn(row, res); err != nil {
			res.RowsSkipped++
			log.Warn().Err(err).Str("family", row.Family()).Str("subtype", row.Subtype()).
				Msg("skipping unparseable row")
		}
	}
	return res
}

// captureHeader records the name->index map for header-mapped subtypes.
func (r *Registry) captureHeader(row Row) {
	if row.Family() != "TRADING" {
		return
	}
	m := make(headerMap, len(row.Fields))
	for i, name := range row.Fields {
		if i < 4 {
			continue // C/I marker, family, subtype, version
		}
		m[strings.ToUpper(name)] = i
	}
	r.headers[key(row.Family(), row.Subtype())] = m
}

// headerMap resolves an upstream column name to its index for the current
// bundle, falling back to a fixed position when the header was absent.
type headerMap map[string]int

func (m headerMap) index(name string, fallback int) int {
	if m == nil {
		return fallback
	}
	if idx, ok := m[name]; ok {
		return idx
	}
	return fallback
}
