package quote

import (
	"math"
	"testing"
)

func TestFloorToTick(t *testing.T) {
	tests := []struct {
		price, tick, want float64
	}{
		{0.97, 0.10, 0.90},
		{51.17, 0.10, 51.10}, // theoretical 52.37 - credit 1.20
		{51.10, 0.10, 51.10}, // already on grid
		{0.05, 0.10, 0.00},
		{99.999, 0.25, 99.75},
	}

	for _, tt := range tests {
		got := FloorToTick(tt.price, tt.tick)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("FloorToTick(%v, %v) = %v, want %v", tt.price, tt.tick, got, tt.want)
		}
	}
}

func TestCeilToTick(t *testing.T) {
	tests := []struct {
		price, tick, want float64
	}{
		{1.34, 0.10, 1.40},
		{53.57, 0.10, 53.60}, // theoretical 52.37 + credit 1.20
		{53.60, 0.10, 53.60}, // already on grid
		{0.05, 0.10, 0.10},
		{99.751, 0.25, 100.00},
	}

	for _, tt := range tests {
		got := CeilToTick(tt.price, tt.tick)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("CeilToTick(%v, %v) = %v, want %v", tt.price, tt.tick, got, tt.want)
		}
	}
}
