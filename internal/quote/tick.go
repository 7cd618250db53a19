package quote

import "math"

// tickEpsilon absorbs float division noise so that prices already on
// the grid do not round an extra tick.
const tickEpsilon = 1e-9

// FloorToTick rounds a price down to the nearest tick, e.g. with tick
// size 0.10 a price of 0.97 rounds to 0.90.
func FloorToTick(price, tickSize float64) float64 {
	q := price / tickSize
	if r := math.Round(q); math.Abs(q-r) < tickEpsilon*math.Max(1, math.Abs(q)) {
		q = r
	} else {
		q = math.Floor(q)
	}
	return q * tickSize
}

// CeilToTick rounds a price up to the nearest tick, e.g. with tick size
// 0.10 a price of 1.34 rounds to 1.40.
func CeilToTick(price, tickSize float64) float64 {
	q := price / tickSize
	if r := math.Round(q); math.Abs(q-r) < tickEpsilon*math.Max(1, math.Abs(q)) {
		q = r
	} else {
		q = math.Ceil(q)
	}
	return q * tickSize
}
