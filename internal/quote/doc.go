// Package quote maintains two-sided limit quotes around a theoretical
// price.
//
// The policy is full pull-then-reinsert: every refresh cancels all
// resting orders on the instrument and submits at most one bid and one
// ask, tick-rounded outward and volume-clipped so a full fill can never
// breach the position limit.
package quote
