// Package hedge flattens the portfolio's sensitivities to the
// underlying.
//
// The sequence per cycle is fixed: delta, then gamma (which re-runs the
// delta hedge before and after adjusting gamma), then vega. The vega
// stage is measurement-only: it computes and reports the exposure but
// never submits an order.
package hedge
