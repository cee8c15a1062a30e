package util

import "time"

// DateLayout is the calendar date format used by the forecast provider.
const DateLayout = "2006-01-02"

// NowUTC returns the current wall clock in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// LocalDate formats ts as a calendar date in loc. A nil loc means UTC.
func LocalDate(ts time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return ts.In(loc).Format(DateLayout)
}

// ResolveZone prefers a named IANA zone and falls back to a fixed offset,
// then to fallback.
func ResolveZone(name string, offsetSeconds int, fallback *time.Location) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if offsetSeconds != 0 {
		return time.FixedZone(name, offsetSeconds)
	}
	if fallback != nil {
		return fallback
	}
	return time.UTC
}
