// Package parser decodes AEMO CSV report bundles into typed records.
//
// Every bundle is one delimited text file whose rows are comments ("C,..."),
// headers ("I,<family>,<subtype>,<version>,...") or data
// ("D,<family>,<subtype>,<version>,...."). Most record families are parsed in
// fixed-position mode with hard-coded column indices; the trading family is
// header-mapped because its upstream schema gains columns over time.
package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nemflow/nemflow/internal/model"
	"github.com/nemflow/nemflow/internal/nemtime"
)

// Row kinds as they appear in column zero.
const (
	rowComment = "C"
	rowHeader  = "I"
	rowData    = "D"
)

// Row is one split data row with positional access helpers. Extraction never
// panics on short rows; out-of-range reads return the zero value so a single
// truncated row degrades to a skipped record, not an aborted bundle.
type Row struct {
	Fields []string
}

// SplitLine splits a raw CSV line into fields, stripping the double quotes
// AEMO wraps string columns in. The payload never embeds commas inside
// quoted fields, which is why a plain split is sufficient here.
func SplitLine(line string) Row {
	parts := strings.Split(strings.TrimRight(line, "\r"), ",")
	for i, p := range parts {
		parts[i] = strings.Trim(p, `"`)
	}
	return Row{Fields: parts}
}

// Kind returns the row type marker (C, I or D), or "" for a blank row.
func (r Row) Kind() string {
	if len(r.Fields) == 0 {
		return ""
	}
	return r.Fields[0]
}

// Family and Subtype identify the record tag of a header or data row.
func (r Row) Family() string  { return r.Str(1) }
func (r Row) Subtype() string { return r.Str(2) }

// Str returns the field at idx, or "" when the row is too short.
func (r Row) Str(idx int) string {
	if idx < 0 || idx >= len(r.Fields) {
		return ""
	}
	return r.Fields[idx]
}

// Float parses the field at idx as a decimal. Empty strings map to 0 per the
// upstream convention for numeric columns. A malformed value is an error so
// the caller can skip the row with a warning.
func (r Row) Float(idx int) (float64, error) {
	s := r.Str(idx)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse field %d %q as float: %w", idx, s, err)
	}
	return v, nil
}

// Int parses the field at idx as an integer, empty mapping to 0.
func (r Row) Int(idx int) (int, error) {
	s := r.Str(idx)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("failed to parse field %d %q as int: %w", idx, s, err)
	}
	return v, nil
}

// Time parses the field at idx as a market-local timestamp.
func (r Row) Time(idx int) (time.Time, error) {
	s := r.Str(idx)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp at field %d", idx)
	}
	return nemtime.ParseMarket(s)
}

// ClampPrice bounds a price to the market floor/cap. Clamping is logged
// because an out-of-band price means the upstream file is suspect.
func ClampPrice(v float64, region, field string) float64 {
	if v > model.PriceCap {
		log.Warn().Str("region", region).Str("field", field).Float64("value", v).
			Float64("cap", model.PriceCap).Msg("price above market cap, clamping")
		return model.PriceCap
	}
	if v < model.PriceFloor {
		log.Warn().Str("region", region).Str("field", field).Float64("value", v).
			Float64("floor", model.PriceFloor).Msg("price below market floor, clamping")
		return model.PriceFloor
	}
	return v
}

// ClampMW bounds a megawatt quantity to the plausible range.
func ClampMW(v float64) float64 {
	if v > model.MWCap {
		return model.MWCap
	}
	if v < model.MWFloor {
		return model.MWFloor
	}
	return v
}
