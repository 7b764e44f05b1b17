package metrics

import (
	"testing"
)

func TestComputePercentile_Empty(t *testing.T) {
	if got := computePercentile(nil, 0.5); got != 0 {
		t.Errorf("expected 0 for empty input, got %f", got)
	}
}

func TestComputePercentile_SingleValue(t *testing.T) {
	// One sample: every percentile is that sample.
	sorted := []float64{42.5}

	if got := computePercentile(sorted, 0.025); got != 42.5 {
		t.Errorf("expected 42.5, got %f", got)
	}
	if got := computePercentile(sorted, 0.995); got != 42.5 {
		t.Errorf("expected 42.5, got %f", got)
	}
}

func TestComputePercentile_Interpolation(t *testing.T) {
	// idx = p*(n-1); fractional part interpolates linearly.
	sorted := []float64{1, 2, 3, 4, 5}

	tests := []struct {
		name string
		p    float64
		want float64
	}{
		{"median lands on order statistic", 0.50, 3},   // idx = 2.0
		{"quartile lands on order statistic", 0.25, 2}, // idx = 1.0
		{"interpolated upper tail", 0.90, 4.6},         // idx = 3.6 → 4 + 0.6*(5-4)
		{"zeroth percentile is min", 0, 1},
		{"hundredth percentile is max", 1.0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computePercentile(sorted, tt.p)
			if got != tt.want {
				t.Errorf("percentile(%f) = %f, want %f", tt.p, got, tt.want)
			}
		})
	}
}

func TestComputePercentile_Midpoint(t *testing.T) {
	// Two samples, median: idx = 0.5 → halfway between them.
	sorted := []float64{10, 20}

	if got := computePercentile(sorted, 0.5); got != 15 {
		t.Errorf("expected 15, got %f", got)
	}
}

func TestComputeMean_Empty(t *testing.T) {
	if got := computeMean(nil); got != 0 {
		t.Errorf("expected 0 for empty input, got %f", got)
	}
}

func TestComputeMean_Values(t *testing.T) {
	// (10 + 20 + 30) / 3 = 20
	if got := computeMean([]float64{10, 20, 30}); got != 20 {
		t.Errorf("expected 20, got %f", got)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{3.14159, 3.14},
		{1.005, 1.01},   // half rounds away from zero
		{-2.345, -2.35}, // negative half also away from zero
		{100, 100},
		{0, 0},
	}

	for _, tt := range tests {
		if got := round2(tt.in); got != tt.want {
			t.Errorf("round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
