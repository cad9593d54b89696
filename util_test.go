package main

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 10); got != 5 {
		t.Errorf("Clamp(5,0,10) = %v", got)
	}
	if got := Clamp(-1, 0, 10); got != 0 {
		t.Errorf("Clamp(-1,0,10) = %v", got)
	}
	if got := Clamp(11, 0, 10); got != 10 {
		t.Errorf("Clamp(11,0,10) = %v", got)
	}
}

func TestClampInt(t *testing.T) {
	if got := ClampInt(0, ScoreLimitMin, ScoreLimitMax); got != ScoreLimitMin {
		t.Errorf("ClampInt low = %d", got)
	}
	if got := ClampInt(99, ScoreLimitMin, ScoreLimitMax); got != ScoreLimitMax {
		t.Errorf("ClampInt high = %d", got)
	}
}

func TestDistance(t *testing.T) {
	if got := Distance(0, 0, 3, 4); got != 5 {
		t.Errorf("Distance(0,0,3,4) = %v, want 5", got)
	}
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		input      float64
		wantApprox float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{3 * math.Pi, math.Pi},
		{-3 * math.Pi, -math.Pi},
		{2 * math.Pi, 0},
	}
	for _, tt := range tests {
		got := NormalizeAngle(tt.input)
		if math.Abs(got-tt.wantApprox) > 1e-9 {
			t.Errorf("NormalizeAngle(%f) = %f, want ~%f", tt.input, got, tt.wantApprox)
		}
	}
}
