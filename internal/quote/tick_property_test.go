package quote

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

func TestTickRounding_Properties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		price := rapid.Float64Range(0, 10000).Draw(rt, "price")
		tick := rapid.SampledFrom([]float64{0.01, 0.05, 0.10, 0.25, 0.50, 1.0}).Draw(rt, "tick")

		eps := tick * 1e-6

		floor := FloorToTick(price, tick)
		if floor > price+eps {
			rt.Fatalf("FloorToTick(%v, %v) = %v > price", price, tick, floor)
		}
		if price >= floor+tick+eps {
			rt.Fatalf("FloorToTick(%v, %v) = %v, price not within one tick", price, tick, floor)
		}

		ceil := CeilToTick(price, tick)
		if ceil < price-eps {
			rt.Fatalf("CeilToTick(%v, %v) = %v < price", price, tick, ceil)
		}
		if price <= ceil-tick-eps {
			rt.Fatalf("CeilToTick(%v, %v) = %v, price not within one tick", price, tick, ceil)
		}

		// Both results are exact multiples of the tick size, up to
		// floating tolerance.
		for _, v := range []float64{floor, ceil} {
			q := v / tick
			if math.Abs(q-math.Round(q)) > 1e-6 {
				rt.Fatalf("%v is not a multiple of tick %v", v, tick)
			}
		}

		if floor > ceil+eps {
			rt.Fatalf("floor %v > ceil %v", floor, ceil)
		}
	})
}
