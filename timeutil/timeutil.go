// Package timeutil provides the Gregorian-calendar date arithmetic the
// translate package needs to compute statistical-process end times from a
// GRIB1 reference time, forecast unit, and P2 value.
package timeutil

import (
	"fmt"
	"time"
)

// Forecast time units, matching GRIB1 Table 4's low end (the only units the
// translator is asked to round-trip; anything else is rejected rather than
// silently misinterpreted).
const (
	UnitMinute = 0
	UnitHour   = 1
	UnitDay    = 2
)

// AddDuration adds amount units (interpreted per unit) to ref and returns the
// result. Month/day rollover follows the proleptic Gregorian calendar via
// time.Time.Add / AddDate, so e.g. 2023-01-31T18:00Z plus 6 hours lands on
// 2023-02-01T00:00Z rather than overflowing within January.
func AddDuration(ref time.Time, amount int, unit int) (time.Time, error) {
	switch unit {
	case UnitMinute:
		return ref.Add(time.Duration(amount) * time.Minute), nil
	case UnitHour:
		return ref.Add(time.Duration(amount) * time.Hour), nil
	case UnitDay:
		return ref.AddDate(0, 0, amount), nil
	default:
		return time.Time{}, fmt.Errorf("timeutil: unsupported forecast time unit %d", unit)
	}
}
