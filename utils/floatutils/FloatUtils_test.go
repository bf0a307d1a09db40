package floatutils

import (
	"math"
	"testing"
)

const tolerance float64 = 1e-12

func TestClip(t *testing.T) {
	tests := []struct {
		value, min, max, expected float64
	}{
		{0.5, 0, 1, 0.5},
		{-2, 0, 1, 0},
		{2, 0, 1, 1},
		{1, 1, 1, 1},
	}

	for _, test := range tests {
		if got := Clip(test.value, test.min, test.max); got != test.expected {
			t.Errorf("Clip(%v, %v, %v) = %v, expected %v", test.value,
				test.min, test.max, got, test.expected)
		}
	}
}

func TestSign(t *testing.T) {
	if Sign(3.2) != 1.0 {
		t.Error("expected sign of positive value to be 1")
	}
	if Sign(-0.01) != -1.0 {
		t.Error("expected sign of negative value to be -1")
	}
	if Sign(0.0) != 0.0 {
		t.Error("expected sign of zero to be 0")
	}
}

func TestWrapAngle(t *testing.T) {
	tests := []struct {
		theta, expected float64
	}{
		{0, 0},
		{math.Pi / 2, math.Pi / 2},
		{3.0, 3.0},
		{-3.0, -3.0},
		{math.Pi + 0.5, -math.Pi + 0.5},
		{-math.Pi - 0.5, math.Pi - 0.5},
		{2 * math.Pi, 0},
		{5 * math.Pi / 2, math.Pi / 2},
	}

	for _, test := range tests {
		got := WrapAngle(test.theta)
		if math.Abs(got-test.expected) > tolerance {
			t.Errorf("WrapAngle(%v) = %v, expected %v", test.theta, got,
				test.expected)
		}
	}
}

func TestMinMax(t *testing.T) {
	values := []float64{3.0, -1.5, 2.2, -1.4}
	if got := Min(values...); got != -1.5 {
		t.Errorf("Min = %v, expected -1.5", got)
	}
	if got := Max(values...); got != 3.0 {
		t.Errorf("Max = %v, expected 3.0", got)
	}
}
