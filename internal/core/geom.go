// Package core provides fundamental types and utilities shared by the block
// engine and its collaborators. It has no external dependencies (especially
// no Bubble Tea) so that engine logic stays pure and testable.
package core

import "math"

// Vec is a point or displacement on the stage, in stage pixels.
type Vec struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v multiplied by k.
func (v Vec) Scale(k float64) Vec {
	return Vec{X: v.X * k, Y: v.Y * k}
}

// Len returns the Euclidean length of v.
func (v Vec) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Vec) float64 {
	return a.Sub(b).Len()
}

// Heading returns the unit vector for a heading in degrees.
// Heading 0 points along +X, 90 along +Y (down on screen).
func Heading(deg float64) Vec {
	rad := deg * math.Pi / 180
	return Vec{X: math.Cos(rad), Y: math.Sin(rad)}
}

// Bounds is an axis-aligned rectangle used to keep actors on the stage.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// NewBounds creates bounds for a stage of the given size anchored at the origin.
func NewBounds(w, h float64) Bounds {
	return Bounds{MaxX: w, MaxY: h}
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 {
	return b.MaxX - b.MinX
}

// Height returns the vertical extent.
func (b Bounds) Height() float64 {
	return b.MaxY - b.MinY
}

// Inset shrinks the far edges by margin, never past the near edges.
// Used to keep an actor of a given size fully inside the stage.
func (b Bounds) Inset(margin float64) Bounds {
	out := b
	out.MaxX = math.Max(b.MinX, b.MaxX-margin)
	out.MaxY = math.Max(b.MinY, b.MaxY-margin)
	return out
}

// Clamp restricts p to lie within the bounds.
func (b Bounds) Clamp(p Vec) Vec {
	return Vec{
		X: ClampF(p.X, b.MinX, b.MaxX),
		Y: ClampF(p.Y, b.MinY, b.MaxY),
	}
}

// Contains returns true if p lies within the bounds (edges inclusive).
func (b Bounds) Contains(p Vec) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// NormalizeDegrees maps any angle onto [0, 360).
func NormalizeDegrees(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	// math.Mod(-0.0000001, 360) + 360 rounds to 360
	if d >= 360 {
		d = 0
	}
	return d
}

// Lerp interpolates linearly between a and b by t in [0, 1].
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpVec interpolates linearly between two points.
func LerpVec(a, b Vec, t float64) Vec {
	return Vec{X: Lerp(a.X, b.X, t), Y: Lerp(a.Y, b.Y, t)}
}

// EaseOutCubic provides smooth deceleration for positional animation.
func EaseOutCubic(t float64) float64 {
	u := 1 - ClampF(t, 0, 1)
	return 1 - u*u*u
}
