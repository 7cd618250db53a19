package pricing

import "time"

// hoursPerYear converts a duration to fractional years on the venue's
// day-count convention: calendar days divided by 365.
const hoursPerYear = 24 * 365

// YearsBetween returns the time from reference until expiry in
// fractional years. The result is negative when reference is after
// expiry; callers must treat any non-positive result as an expired
// instrument and exclude it from pricing rather than feeding it into
// the Black-Scholes formulas.
func YearsBetween(expiry, reference time.Time) float64 {
	return expiry.Sub(reference).Hours() / hoursPerYear
}

// YearsUntil returns the time from now until expiry in fractional years.
func YearsUntil(expiry time.Time) float64 {
	return YearsBetween(expiry, time.Now().UTC())
}
