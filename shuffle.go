package bvh

import "go.uber.org/zap"

// Shuffle re-pairs index's four grandchildren (the children of its
// two children) if doing so lowers total perimeter, without changing
// the tree's height. This is the Kensler (2008) grandchild-swap
// improvement the reference engine's Go port never carried over:
// Balance only fixes height imbalance, Shuffle independently chases
// lower surface area. index must be an internal node whose both
// children are themselves internal (height >= 2, both child heights
// >= 1); callers (Rebalance) are responsible for skipping leaves and
// free slots.
//
// The Go port (CollisionB2DynamicTree.go) dropped this method when it
// translated the C++ engine; it survives in the original C++ source
// (b2DynamicTree::Shuffle/Rebalance in b2DynamicTree.cpp), which still
// carries the same grandchild naming (node11/node12/node21/node22,
// metrics m1/m2/m3) and the same Kensler citation reused above. This
// is a port of that C++ method back into the tree's Go idiom, not a
// clean-room design.
func (t *Tree) Shuffle(index int32) {
	c1 := t.nodes[index].child1
	c2 := t.nodes[index].child2
	assertf(!t.nodes[c1].isLeaf(), "Shuffle: child1 %d of %d is a leaf", c1, index)
	assertf(!t.nodes[c2].isLeaf(), "Shuffle: child2 %d of %d is a leaf", c2, index)

	g11 := t.nodes[c1].child1
	g12 := t.nodes[c1].child2
	g21 := t.nodes[c2].child1
	g22 := t.nodes[c2].child2

	a11, a12, a21, a22 := t.nodes[g11].aabb, t.nodes[g12].aabb, t.nodes[g21].aabb, t.nodes[g22].aabb

	m1 := Combine(a11, a12).Perimeter() + Combine(a21, a22).Perimeter()
	m2 := Combine(a11, a22).Perimeter() + Combine(a12, a21).Perimeter()
	m3 := Combine(a11, a21).Perimeter() + Combine(a12, a22).Perimeter()

	if m1 <= m2 && m1 <= m3 {
		return
	}

	if m2 <= m3 {
		t.regroup(index, c1, c2, g11, g22, g12, g21)
	} else {
		t.regroup(index, c1, c2, g11, g21, g12, g22)
	}
}

// regroup installs newC1a/newC1b as child1's new children and
// newC2a/newC2b as child2's new children, then refreshes aabb/height
// from the grandchildren up through index and on to the root.
func (t *Tree) regroup(index, c1, c2, newC1a, newC1b, newC2a, newC2b int32) {
	t.nodes[c1].child1, t.nodes[c1].child2 = newC1a, newC1b
	t.nodes[c2].child1, t.nodes[c2].child2 = newC2a, newC2b

	t.nodes[newC1a].parent = c1
	t.nodes[newC1b].parent = c1
	t.nodes[newC2a].parent = c2
	t.nodes[newC2b].parent = c2

	t.refreshMetrics(c1)
	t.refreshMetrics(c2)
	t.refreshMetrics(index)

	t.debugLog("shuffle", zap.Int32("node", index))

	// Refresh ancestors above index; no further balancing, per
	// SPEC_FULL.md §4.3 ("no further balancing").
	parent := t.nodes[index].parent
	for parent != nullNode {
		t.refreshMetrics(parent)
		parent = t.nodes[parent].parent
	}
}

func (t *Tree) refreshMetrics(index int32) {
	c1 := t.nodes[index].child1
	c2 := t.nodes[index].child2
	t.nodes[index].aabb = Combine(t.nodes[c1].aabb, t.nodes[c2].aabb)
	t.nodes[index].height = 1 + maxInt32(t.nodes[c1].height, t.nodes[c2].height)
}

// Rebalance sweeps up to iterations nodes round-robin across the
// arena, calling Shuffle on each internal node whose children are
// both internal. The cursor persists across calls (the tree keeps a
// single path field), so repeated small calls eventually cover the
// whole arena. On an empty tree it returns immediately.
func (t *Tree) Rebalance(iterations int) {
	if t.root == nullNode {
		return
	}

	for i := 0; i < iterations; i++ {
		t.advancePastFree()

		node := t.nodes[t.path]
		if node.height >= 2 && !t.nodes[node.child1].isLeaf() && !t.nodes[node.child2].isLeaf() {
			t.Shuffle(t.path)
		}

		t.advance()
	}
}

func (t *Tree) advance() {
	t.path++
	if t.path == t.nodeCapacity {
		t.path = 0
	}
}

func (t *Tree) advancePastFree() {
	for t.nodes[t.path].height < 0 {
		t.advance()
	}
}
