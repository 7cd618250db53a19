package pricing

import (
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/rickgao/options-quoter/internal/model"
)

func bsInputs(t *rapid.T) (s, k, tte, r, sigma float64) {
	s = rapid.Float64Range(0.5, 500).Draw(t, "s")
	k = rapid.Float64Range(0.5, 500).Draw(t, "k")
	tte = rapid.Float64Range(0.001, 3).Draw(t, "tte")
	r = rapid.Float64Range(0, 0.1).Draw(t, "r")
	sigma = rapid.Float64Range(0.05, 4).Draw(t, "sigma")
	return
}

func TestValue_PropertyBoundsAndParity(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s, k, tte, r, sigma := bsInputs(rt)

		call, err := Value(model.Call, s, k, tte, r, sigma)
		if err != nil {
			rt.Fatalf("Value(call) error: %v", err)
		}
		put, err := Value(model.Put, s, k, tte, r, sigma)
		if err != nil {
			rt.Fatalf("Value(put) error: %v", err)
		}

		eps := 1e-9 * math.Max(s, k)
		if call < -eps || call > s+eps {
			rt.Fatalf("call = %v outside [0, S=%v]", call, s)
		}
		discK := k * math.Exp(-r*tte)
		if put < -eps || put > discK+eps {
			rt.Fatalf("put = %v outside [0, K·e^-rT=%v]", put, discK)
		}
		if diff := math.Abs((call - put) - (s - discK)); diff > 1e-8*math.Max(s, k) {
			rt.Fatalf("parity off by %v (call=%v put=%v)", diff, call, put)
		}
	})
}

func TestDelta_PropertyBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s, k, tte, r, sigma := bsInputs(rt)

		cd, err := Delta(model.Call, s, k, tte, r, sigma)
		if err != nil {
			rt.Fatalf("Delta(call) error: %v", err)
		}
		pd, err := Delta(model.Put, s, k, tte, r, sigma)
		if err != nil {
			rt.Fatalf("Delta(put) error: %v", err)
		}

		if cd < 0 || cd > 1 {
			rt.Fatalf("call delta = %v outside [0,1]", cd)
		}
		if pd < -1 || pd > 0 {
			rt.Fatalf("put delta = %v outside [-1,0]", pd)
		}
		if diff := math.Abs((cd - pd) - 1); diff > 1e-9 {
			rt.Fatalf("call delta - put delta = %v, want 1", cd-pd)
		}
	})
}

func TestGammaVega_PropertyNonNegative(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s, k, tte, r, sigma := bsInputs(rt)

		if g := Gamma(s, k, tte, r, sigma); g < 0 || math.IsNaN(g) {
			rt.Fatalf("gamma = %v, want >= 0", g)
		}
		if v := Vega(s, k, tte, r, sigma); v < 0 || math.IsNaN(v) {
			rt.Fatalf("vega = %v, want >= 0", v)
		}
	})
}
