package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/blobs/neural"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestMagnitudes(t *testing.T) {
	got := Magnitudes([]neural.Force{{3, 4, 0}, {0, 0, -1}, {}})
	want := []float64{5, 1, 0}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("Magnitudes[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestComputeForceStats(t *testing.T) {
	// Shuffled to check the input is sorted internally
	values := []float64{7, 1, 10, 4, 2, 9, 3, 6, 5, 8}
	mean, std, p10, p50, p90 := ComputeForceStats(values)

	if math.Abs(mean-5.5) > 0.001 {
		t.Errorf("mean = %v, want 5.5", mean)
	}
	// Sample standard deviation of 1..10
	if math.Abs(std-math.Sqrt(82.5/9)) > 0.001 {
		t.Errorf("std = %v, want %v", std, math.Sqrt(82.5/9))
	}
	if math.Abs(p10-1.9) > 0.01 {
		t.Errorf("p10 = %v, want ~1.9", p10)
	}
	if math.Abs(p50-5.5) > 0.01 {
		t.Errorf("p50 = %v, want ~5.5", p50)
	}
	if math.Abs(p90-9.1) > 0.01 {
		t.Errorf("p90 = %v, want ~9.1", p90)
	}
	if values[0] != 7 {
		t.Error("input slice was reordered")
	}
}

func TestComputeForceStatsSmall(t *testing.T) {
	mean, std, p10, p50, p90 := ComputeForceStats(nil)
	if mean != 0 || std != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty slice should return all zeros")
	}

	mean, std, _, p50, _ = ComputeForceStats([]float64{0.4})
	if mean != 0.4 || std != 0 || p50 != 0.4 {
		t.Errorf("single value: mean=%v std=%v p50=%v, want 0.4 0 0.4", mean, std, p50)
	}
}
