package bvh

import "math"

// Vec2 is a 2D vector, used both as a point and as a displacement.
//
// Adapted from CommonB2Math.go in the reference engine: only the
// operations the tree and its AABB kernel actually need survive here.
type Vec2 struct {
	X, Y float64
}

func (a Vec2) Add(b Vec2) Vec2 { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2 { return Vec2{a.X - b.X, a.Y - b.Y} }

func (a Vec2) MulScalar(s float64) Vec2 { return Vec2{s * a.X, s * a.Y} }

func (a Vec2) Min(b Vec2) Vec2 { return Vec2{math.Min(a.X, b.X), math.Min(a.Y, b.Y)} }
func (a Vec2) Max(b Vec2) Vec2 { return Vec2{math.Max(a.X, b.X), math.Max(a.Y, b.Y)} }

func (a Vec2) IsValid() bool {
	return !math.IsNaN(a.X) && !math.IsInf(a.X, 0) &&
		!math.IsNaN(a.Y) && !math.IsInf(a.Y, 0)
}
