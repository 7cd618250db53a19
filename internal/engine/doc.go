// Package engine implements the trading control loop.
//
// Each cycle: refresh the underlying reference price, re-quote every
// option in chain order, run the hedging sequence, then pace to respect
// the venue request-rate ceiling. One instrument's failure never aborts
// the rest of the cycle, and shutdown pulls all resting orders before
// exit.
package engine
