package shared

import "time"

// The Satwa clients exchange all dates as epoch milliseconds. These helpers
// are the single conversion point so the rest of the core can work in UTC
// time.Time values.

// TimeFromMillis converts an epoch-millisecond timestamp to UTC time.
func TimeFromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// MillisFromTime converts a time to epoch milliseconds. Zero times map to 0.
func MillisFromTime(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// DaysBetween returns the number of whole calendar days elapsed from `from`
// to `to`, truncating partial days. Negative when `to` precedes `from`.
func DaysBetween(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}
