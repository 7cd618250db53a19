package pricing

import (
	"errors"
	"fmt"
	"math"

	"github.com/rickgao/options-quoter/internal/model"
)

// ErrUnknownOptionKind is returned when an option kind is neither call
// nor put. Callers must not substitute a default kind.
var ErrUnknownOptionKind = errors.New("unknown option kind")

// d1 and d2 are the standard Black-Scholes auxiliary terms.
func d1(s, k, t, r, sigma float64) float64 {
	return (math.Log(s/k) + (r+0.5*sigma*sigma)*t) / (sigma * math.Sqrt(t))
}

func d2(s, k, t, r, sigma float64) float64 {
	return d1(s, k, t, r, sigma) - sigma*math.Sqrt(t)
}

// normCDF is the standard normal cumulative distribution function.
func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

// normPDF is the standard normal probability density function.
func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}

// Value returns the Black-Scholes fair value of a call or put with
// strike k expiring in t years, for underlying value s, fixed interest
// rate r and volatility sigma.
func Value(kind model.OptionKind, s, k, t, r, sigma float64) (float64, error) {
	switch kind {
	case model.Call:
		return s*normCDF(d1(s, k, t, r, sigma)) - k*math.Exp(-r*t)*normCDF(d2(s, k, t, r, sigma)), nil
	case model.Put:
		return k*math.Exp(-r*t)*normCDF(-d2(s, k, t, r, sigma)) - s*normCDF(-d1(s, k, t, r, sigma)), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownOptionKind, kind)
	}
}

// Delta returns the first derivative of the option value with respect
// to the underlying: in (0,1) for calls, (-1,0) for puts.
func Delta(kind model.OptionKind, s, k, t, r, sigma float64) (float64, error) {
	switch kind {
	case model.Call:
		return normCDF(d1(s, k, t, r, sigma)), nil
	case model.Put:
		return normCDF(d1(s, k, t, r, sigma)) - 1, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownOptionKind, kind)
	}
}

// Gamma returns the second derivative of the option value with respect
// to the underlying. Identical for calls and puts, always non-negative.
func Gamma(s, k, t, r, sigma float64) float64 {
	return normPDF(d1(s, k, t, r, sigma)) / (s * sigma * math.Sqrt(t))
}

// Vega returns the derivative of the option value with respect to
// volatility. The call form is used for both kinds; call and put vega
// coincide under Black-Scholes.
func Vega(s, k, t, r, sigma float64) float64 {
	return s * normPDF(d1(s, k, t, r, sigma)) * math.Sqrt(t)
}
