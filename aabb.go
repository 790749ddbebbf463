package bvh

// AABB is an axis-aligned bounding box: a pair of corner points with
// LowerBound <= UpperBound componentwise.
//
// Adapted from the B2AABB section of CollisionB2Collision.go in the
// reference engine. The narrow-phase manifold/contact-id machinery
// that used to live in the same file does not belong to a broad-phase
// index and was left behind.
type AABB struct {
	LowerBound Vec2
	UpperBound Vec2
}

// Center returns the midpoint of the box.
func (bb AABB) Center() Vec2 {
	return bb.LowerBound.Add(bb.UpperBound).MulScalar(0.5)
}

// Extents returns the half-widths of the box.
func (bb AABB) Extents() Vec2 {
	return bb.UpperBound.Sub(bb.LowerBound).MulScalar(0.5)
}

// Perimeter returns the 2D surface area proxy used by the SAH cost
// function: 2*(width+height).
func (bb AABB) Perimeter() float64 {
	w := bb.UpperBound.X - bb.LowerBound.X
	h := bb.UpperBound.Y - bb.LowerBound.Y
	return 2.0 * (w + h)
}

// Combine returns the union of two AABBs.
func Combine(a, b AABB) AABB {
	return AABB{
		LowerBound: a.LowerBound.Min(b.LowerBound),
		UpperBound: a.UpperBound.Max(b.UpperBound),
	}
}

// Contains reports whether bb fully contains aabb.
func (bb AABB) Contains(aabb AABB) bool {
	return bb.LowerBound.X <= aabb.LowerBound.X &&
		bb.LowerBound.Y <= aabb.LowerBound.Y &&
		aabb.UpperBound.X <= bb.UpperBound.X &&
		aabb.UpperBound.Y <= bb.UpperBound.Y
}

// IsValid reports whether the box is well formed: non-negative extent
// and finite corners.
func (bb AABB) IsValid() bool {
	d := bb.UpperBound.Sub(bb.LowerBound)
	return d.X >= 0.0 && d.Y >= 0.0 && bb.LowerBound.IsValid() && bb.UpperBound.IsValid()
}

// Equals reports exact componentwise equality.
func (bb AABB) Equals(other AABB) bool {
	return bb.LowerBound == other.LowerBound && bb.UpperBound == other.UpperBound
}

// Overlaps reports whether a and b intersect (including touching).
func Overlaps(a, b AABB) bool {
	d1 := b.LowerBound.Sub(a.UpperBound)
	d2 := a.LowerBound.Sub(b.UpperBound)

	if d1.X > 0.0 || d1.Y > 0.0 {
		return false
	}
	if d2.X > 0.0 || d2.Y > 0.0 {
		return false
	}
	return true
}

// Fattened returns bb expanded uniformly by margin on every side.
func (bb AABB) Fattened(margin float64) AABB {
	r := Vec2{margin, margin}
	return AABB{
		LowerBound: bb.LowerBound.Sub(r),
		UpperBound: bb.UpperBound.Add(r),
	}
}
