package bvh

import "math"

// NullNode is the exported sentinel for "no node": an empty tree's
// Root, and the Child1/Child2 of every leaf.
const NullNode int32 = nullNode

// Root returns the index of the tree's root node, or NullNode if the
// tree is empty.
func (t *Tree) Root() int32 { return t.root }

// IsLeaf reports whether nodeID is a leaf (both children NullNode).
func (t *Tree) IsLeaf(nodeID int32) bool {
	assertf(0 <= nodeID && nodeID < t.nodeCapacity, "IsLeaf: id %d out of range [0, %d)", nodeID, t.nodeCapacity)
	return t.nodes[nodeID].isLeaf()
}

// Child1 returns nodeID's first child, or NullNode for a leaf.
func (t *Tree) Child1(nodeID int32) int32 {
	assertf(0 <= nodeID && nodeID < t.nodeCapacity, "Child1: id %d out of range [0, %d)", nodeID, t.nodeCapacity)
	return t.nodes[nodeID].child1
}

// Child2 returns nodeID's second child, or NullNode for a leaf.
func (t *Tree) Child2(nodeID int32) int32 {
	assertf(0 <= nodeID && nodeID < t.nodeCapacity, "Child2: id %d out of range [0, %d)", nodeID, t.nodeCapacity)
	return t.nodes[nodeID].child2
}

// AABB returns nodeID's stored AABB (fattened, for a leaf; the exact
// union of its children, for an internal node).
func (t *Tree) AABB(nodeID int32) AABB {
	assertf(0 <= nodeID && nodeID < t.nodeCapacity, "AABB: id %d out of range [0, %d)", nodeID, t.nodeCapacity)
	return t.nodes[nodeID].aabb
}

// QueryCallback is invoked once per leaf whose fat AABB overlaps the
// query box. Returning false stops the traversal early.
type QueryCallback func(proxyID int32) bool

// RayCastInput describes a segment from P1 to P2, clipped to
// MaxFraction of its length.
type RayCastInput struct {
	P1, P2      Vec2
	MaxFraction float64
}

// RayCastCallback is invoked once per leaf the segment's AABB
// overlaps closely enough to warrant a narrow-phase test; it returns
// the fraction along the segment at which the caller's own shape test
// hit (used to shrink the search segment), 0 to stop the cast
// entirely, or a negative value to skip this leaf without shrinking.
type RayCastCallback func(input RayCastInput, proxyID int32) float64

// RayCast walks the tree along the segment described by input,
// shrinking the search segment as callback reports closer hits.
//
// Adapted from B2DynamicTree.RayCast in the reference engine.
func (t *Tree) RayCast(callback RayCastCallback, input RayCastInput) {
	p1 := input.P1
	p2 := input.P2
	r := p2.Sub(p1)
	assertf(r.X != 0 || r.Y != 0, "RayCast: zero-length segment")

	length := math.Hypot(r.X, r.Y)
	r = r.MulScalar(1.0 / length)

	v := Vec2{-r.Y, r.X}
	absV := Vec2{math.Abs(v.X), math.Abs(v.Y)}

	maxFraction := input.MaxFraction

	segmentAABB := segmentBounds(p1, p2, maxFraction)

	stack := newNodeStack(256)
	stack.push(t.root)

	for !stack.empty() {
		nodeID := stack.pop()
		if nodeID == nullNode {
			continue
		}

		n := t.nodes[nodeID]
		if !Overlaps(n.aabb, segmentAABB) {
			continue
		}

		c := n.aabb.Center()
		h := n.aabb.Extents()
		separation := math.Abs(v.X*(p1.X-c.X)+v.Y*(p1.Y-c.Y)) - (absV.X*h.X + absV.Y*h.Y)
		if separation > 0.0 {
			continue
		}

		if n.isLeaf() {
			subInput := RayCastInput{P1: input.P1, P2: input.P2, MaxFraction: maxFraction}
			value := callback(subInput, nodeID)

			if value == 0.0 {
				return
			}
			if value > 0.0 {
				maxFraction = value
				segmentAABB = segmentBounds(p1, p2, maxFraction)
			}
		} else {
			stack.push(n.child1)
			stack.push(n.child2)
		}
	}
}

func segmentBounds(p1, p2 Vec2, maxFraction float64) AABB {
	t := p1.Add(p2.Sub(p1).MulScalar(maxFraction))
	return AABB{LowerBound: p1.Min(t), UpperBound: p1.Max(t)}
}
