package model

import "time"

// Intervals is the fixed set of candle timeframes the venue supports.
var Intervals = []string{
	"1m", "3m", "5m", "15m", "30m",
	"1h", "2h", "4h", "8h", "12h",
	"1d", "3d", "1w", "1M",
}

var intervalDurations = map[string]time.Duration{
	"1m":  time.Minute,
	"3m":  3 * time.Minute,
	"5m":  5 * time.Minute,
	"15m": 15 * time.Minute,
	"30m": 30 * time.Minute,
	"1h":  time.Hour,
	"2h":  2 * time.Hour,
	"4h":  4 * time.Hour,
	"8h":  8 * time.Hour,
	"12h": 12 * time.Hour,
	"1d":  24 * time.Hour,
	"3d":  72 * time.Hour,
	"1w":  7 * 24 * time.Hour,
	"1M":  30 * 24 * time.Hour,
}

// IsValidInterval reports whether s is a supported candle timeframe.
func IsValidInterval(s string) bool {
	_, ok := intervalDurations[s]
	return ok
}

// IntervalDuration returns the wall-clock length of a candle timeframe.
// The "1M" interval is approximated as 30 days.
func IntervalDuration(s string) (time.Duration, bool) {
	d, ok := intervalDurations[s]
	return d, ok
}
