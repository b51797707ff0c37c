package core

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestBoundsClamp(t *testing.T) {
	b := NewBounds(400, 300)

	tests := []struct {
		name     string
		in       Vec
		expected Vec
	}{
		{"inside", Vec{100, 100}, Vec{100, 100}},
		{"left of stage", Vec{-5, 100}, Vec{0, 100}},
		{"right of stage", Vec{500, 100}, Vec{400, 100}},
		{"above stage", Vec{100, -1}, Vec{100, 0}},
		{"below stage", Vec{100, 301}, Vec{100, 300}},
		{"corner", Vec{-10, 900}, Vec{0, 300}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := b.Clamp(tc.in)
			if got != tc.expected {
				t.Errorf("Clamp(%v) = %v, expected %v", tc.in, got, tc.expected)
			}
			if !b.Contains(got) {
				t.Errorf("Clamp(%v) = %v is outside bounds", tc.in, got)
			}
		})
	}
}

func TestBoundsInset(t *testing.T) {
	b := NewBounds(400, 300).Inset(50)
	if b.MaxX != 350 || b.MaxY != 250 {
		t.Errorf("Inset(50) = %+v, expected max (350, 250)", b)
	}

	// Insetting past the near edge collapses instead of inverting
	tiny := NewBounds(10, 10).Inset(50)
	if tiny.MaxX != 0 || tiny.MaxY != 0 {
		t.Errorf("Inset past edge = %+v, expected max (0, 0)", tiny)
	}
}

func TestNormalizeDegrees(t *testing.T) {
	tests := []struct {
		in, expected float64
	}{
		{0, 0},
		{90, 90},
		{360, 0},
		{450, 90},
		{-90, 270},
		{-720, 0},
		{359.5, 359.5},
	}

	for _, tc := range tests {
		got := NormalizeDegrees(tc.in)
		if math.Abs(got-tc.expected) > eps {
			t.Errorf("NormalizeDegrees(%v) = %v, expected %v", tc.in, got, tc.expected)
		}
		if got < 0 || got >= 360 {
			t.Errorf("NormalizeDegrees(%v) = %v, outside [0, 360)", tc.in, got)
		}
	}
}

func TestHeading(t *testing.T) {
	east := Heading(0)
	if math.Abs(east.X-1) > eps || math.Abs(east.Y) > eps {
		t.Errorf("Heading(0) = %v, expected (1, 0)", east)
	}
	south := Heading(90)
	if math.Abs(south.X) > eps || math.Abs(south.Y-1) > eps {
		t.Errorf("Heading(90) = %v, expected (0, 1)", south)
	}
}

func TestEaseOutCubic(t *testing.T) {
	if EaseOutCubic(0) != 0 {
		t.Errorf("EaseOutCubic(0) = %v, expected 0", EaseOutCubic(0))
	}
	if EaseOutCubic(1) != 1 {
		t.Errorf("EaseOutCubic(1) = %v, expected 1", EaseOutCubic(1))
	}
	// Ease-out runs ahead of linear progress
	if EaseOutCubic(0.5) <= 0.5 {
		t.Errorf("EaseOutCubic(0.5) = %v, expected > 0.5", EaseOutCubic(0.5))
	}
	// Out-of-range progress is clamped
	if EaseOutCubic(2) != 1 || EaseOutCubic(-1) != 0 {
		t.Error("EaseOutCubic should clamp progress to [0, 1]")
	}
}

func TestDistance(t *testing.T) {
	if d := Distance(Vec{0, 0}, Vec{3, 4}); math.Abs(d-5) > eps {
		t.Errorf("Distance = %v, expected 5", d)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}
