package bvh

import "go.uber.org/zap"

// Balance performs a single left or right rotation if node iA is
// imbalanced (its two children's heights differ by more than one),
// and returns the index that now occupies iA's old position in the
// tree (iA itself if no rotation happened).
//
// Adapted from B2DynamicTree::Balance in the reference engine.
func (t *Tree) Balance(iA int32) int32 {
	assertf(iA != nullNode, "Balance: nullNode passed as iA")

	if t.nodes[iA].isLeaf() || t.nodes[iA].height < 2 {
		return iA
	}

	iB := t.nodes[iA].child1
	iC := t.nodes[iA].child2
	assertf(0 <= iB && iB < t.nodeCapacity, "Balance: child1 %d out of range", iB)
	assertf(0 <= iC && iC < t.nodeCapacity, "Balance: child2 %d out of range", iC)

	balance := t.nodes[iC].height - t.nodes[iB].height

	if balance > 1 {
		// Rotate C up. C was A.child2, so after the rotation the
		// grandchild handed down to A fills that same child2 slot and
		// iOther (B) keeps its original child1 slot.
		return t.rotateUp(iA, iC, iB, true)
	}
	if balance < -1 {
		// Rotate B up. B was A.child1, so the grandchild handed down
		// to A fills that same child1 slot and iOther (C) keeps its
		// original child2 slot.
		return t.rotateUp(iA, iB, iC, false)
	}
	return iA
}

// rotateUp rotates iChild (A's child1 or child2, whichever is taller)
// above A, choosing between iChild's own two children to keep as the
// new parent's "outer" child vs. the one handed down to A, according
// to which has the greater height. iOther is A's other, untouched
// child. childWasChild2 records which slot iChild occupied in A
// before the rotation, since the grandchild handed down to A takes
// over that same slot while iOther keeps its own original slot — the
// two branches of the reference engine's Balance are mirror images of
// each other in exactly this one respect, so the reimplementation
// keeps one routine instead of two near-duplicate ~40 line blocks.
func (t *Tree) rotateUp(iA, iChild, iOther int32, childWasChild2 bool) int32 {
	iGrand1 := t.nodes[iChild].child1
	iGrand2 := t.nodes[iChild].child2
	assertf(0 <= iGrand1 && iGrand1 < t.nodeCapacity, "rotateUp: grandchild1 %d out of range", iGrand1)
	assertf(0 <= iGrand2 && iGrand2 < t.nodeCapacity, "rotateUp: grandchild2 %d out of range", iGrand2)

	aParent := t.nodes[iA].parent

	t.nodes[iChild].parent = aParent
	t.nodes[iA].parent = iChild

	if aParent != nullNode {
		if t.nodes[aParent].child1 == iA {
			t.nodes[aParent].child1 = iChild
		} else {
			assertf(t.nodes[aParent].child2 == iA, "rotateUp: aParent %d does not reference iA %d", aParent, iA)
			t.nodes[aParent].child2 = iChild
		}
	} else {
		t.root = iChild
	}

	// Keep the taller grandchild as iChild's outer child (paired with
	// iA), and give A the shorter one in the slot iChild vacated. Both
	// of A's child slots are written explicitly below rather than
	// relying on one already holding the right value, resolving the
	// distilled spec's open question (SPEC_FULL.md §4.3, §9).
	var keepWithChild, giveToA int32
	if t.nodes[iGrand1].height > t.nodes[iGrand2].height {
		keepWithChild, giveToA = iGrand1, iGrand2
	} else {
		keepWithChild, giveToA = iGrand2, iGrand1
	}

	t.nodes[iChild].child1 = iA
	t.nodes[iChild].child2 = keepWithChild
	if childWasChild2 {
		t.nodes[iA].child1 = iOther
		t.nodes[iA].child2 = giveToA
	} else {
		t.nodes[iA].child1 = giveToA
		t.nodes[iA].child2 = iOther
	}
	t.nodes[giveToA].parent = iA

	t.nodes[iA].aabb = Combine(t.nodes[iOther].aabb, t.nodes[giveToA].aabb)
	t.nodes[iChild].aabb = Combine(t.nodes[iA].aabb, t.nodes[keepWithChild].aabb)

	t.nodes[iA].height = 1 + maxInt32(t.nodes[iOther].height, t.nodes[giveToA].height)
	t.nodes[iChild].height = 1 + maxInt32(t.nodes[iA].height, t.nodes[keepWithChild].height)

	t.debugLog("rotate",
		zap.Int32("pivot", iA),
		zap.Int32("newParent", iChild),
	)

	return iChild
}
