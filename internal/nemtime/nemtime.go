// Package nemtime converts AEMO market timestamps between market time and UTC.
//
// The market operates on a fixed UTC+10 offset year round; it never observes
// daylight saving. Using a civil zone such as Australia/Sydney here would
// silently shift every summer interval by an hour, so all conversions go
// through a fixed-offset zone.
package nemtime

import (
	"fmt"
	"time"
)

// MarketLayout is the timestamp format used in AEMO CSV payloads.
const MarketLayout = "2006/01/02 15:04:05"

// Market is the fixed UTC+10 market zone (no DST).
var Market = time.FixedZone("AEST", 10*3600)

// TradingDayStartHour is the local hour at which a trading day begins.
const TradingDayStartHour = 4

// ParseMarket parses a "YYYY/MM/DD HH:MM:SS" market-local timestamp and
// returns the UTC instant. A parse failure indicates a malformed upstream
// file and is returned as an error, never coerced.
func ParseMarket(s string) (time.Time, error) {
	t, err := time.ParseInLocation(MarketLayout, s, Market)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse market timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

// FormatMarket renders a UTC instant in market-local time using MarketLayout.
// It is the inverse of ParseMarket.
func FormatMarket(t time.Time) string {
	return t.In(Market).Format(MarketLayout)
}

// Align5Min floors t to the most recent 5-minute boundary.
func Align5Min(t time.Time) time.Time {
	return t.Truncate(5 * time.Minute)
}

// Align30Min floors t to the most recent 30-minute boundary.
func Align30Min(t time.Time) time.Time {
	return t.Truncate(30 * time.Minute)
}

// TradingDayStart returns the most recent 04:00 market-local boundary at or
// before t, as a UTC instant. Intervals before 04:00 local belong to the
// previous trading day.
func TradingDayStart(t time.Time) time.Time {
	local := t.In(Market)
	start := time.Date(local.Year(), local.Month(), local.Day(), TradingDayStartHour, 0, 0, 0, Market)
	if local.Before(start) {
		start = start.AddDate(0, 0, -1)
	}
	return start.UTC()
}
