// Package pricing implements Black-Scholes valuation and greeks for
// European-style stock options.
//
// All functions are pure and deterministic. Callers are responsible for
// excluding expired instruments: time-to-expiry must be strictly positive
// before any formula is evaluated, otherwise the log/sqrt terms are
// undefined.
package pricing
