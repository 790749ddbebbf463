package bvh

// CreateProxy allocates a leaf for aabb fattened by
// Config.AABBExtension, attaches userData, inserts it into the tree,
// and returns its proxy id (the leaf's arena index, stable for the
// leaf's lifetime).
func (t *Tree) CreateProxy(aabb AABB, userData interface{}) int32 {
	t.enter("CreateProxy")
	defer t.leave()

	proxyID := t.allocateNode()

	t.nodes[proxyID].aabb = aabb.Fattened(t.config.AABBExtension)
	t.nodes[proxyID].userData = userData
	t.nodes[proxyID].height = 0

	t.insertLeaf(proxyID)

	return proxyID
}

// DestroyProxy removes proxyID's leaf from the tree and returns its
// node to the pool. proxyID must refer to a leaf that has not already
// been destroyed.
func (t *Tree) DestroyProxy(proxyID int32) {
	t.enter("DestroyProxy")
	defer t.leave()

	t.checkLeaf(proxyID)

	t.removeLeaf(proxyID)
	t.freeNode(proxyID)
}

// MoveProxy updates proxyID's AABB, returning false without touching
// the tree if the existing fat AABB already contains the new one.
// Otherwise it removes and reinserts the leaf with a new fat AABB
// that anticipates displacement, and returns true.
func (t *Tree) MoveProxy(proxyID int32, aabb AABB, displacement Vec2) bool {
	t.enter("MoveProxy")
	defer t.leave()

	t.checkLeaf(proxyID)

	if t.nodes[proxyID].aabb.Contains(aabb) {
		return false
	}

	t.removeLeaf(proxyID)

	b := aabb.Fattened(t.config.AABBExtension)

	d := displacement.MulScalar(t.config.AABBMultiplier)
	if d.X < 0.0 {
		b.LowerBound.X += d.X
	} else {
		b.UpperBound.X += d.X
	}
	if d.Y < 0.0 {
		b.LowerBound.Y += d.Y
	} else {
		b.UpperBound.Y += d.Y
	}

	t.nodes[proxyID].aabb = b

	t.insertLeaf(proxyID)

	return true
}

// GetUserData returns the opaque payload attached to proxyID.
func (t *Tree) GetUserData(proxyID int32) interface{} {
	assertf(0 <= proxyID && proxyID < t.nodeCapacity, "GetUserData: id %d out of range [0, %d)", proxyID, t.nodeCapacity)
	return t.nodes[proxyID].userData
}

// GetFatAABB returns the stored (fattened) AABB of proxyID.
func (t *Tree) GetFatAABB(proxyID int32) AABB {
	assertf(0 <= proxyID && proxyID < t.nodeCapacity, "GetFatAABB: id %d out of range [0, %d)", proxyID, t.nodeCapacity)
	return t.nodes[proxyID].aabb
}

func (t *Tree) checkLeaf(proxyID int32) {
	assertf(0 <= proxyID && proxyID < t.nodeCapacity, "proxy id %d out of range [0, %d)", proxyID, t.nodeCapacity)
	assertf(t.nodes[proxyID].isLeaf(), "proxy id %d is not a leaf", proxyID)
}

// insertLeaf implements SAH sibling selection (SPEC_FULL.md §4.2):
// descend from the root choosing, at each internal node, the cheapest
// of stopping here (new parent of node and leaf) or descending into
// child1/child2, then splice a new parent into the tree and fix up
// ancestor aabb/height while rebalancing on the way to the root.
func (t *Tree) insertLeaf(leaf int32) {
	t.insertionCount++

	if t.root == nullNode {
		t.root = leaf
		t.nodes[t.root].parent = nullNode
		return
	}

	leafAABB := t.nodes[leaf].aabb
	index := t.root
	for !t.nodes[index].isLeaf() {
		child1 := t.nodes[index].child1
		child2 := t.nodes[index].child2

		area := t.nodes[index].aabb.Perimeter()

		combinedAABB := Combine(t.nodes[index].aabb, leafAABB)
		combinedArea := combinedAABB.Perimeter()

		// Cost of creating a new parent for this node and the new leaf.
		cost := 2.0 * combinedArea

		// Minimum cost of pushing the leaf further down the tree.
		inheritanceCost := 2.0 * (combinedArea - area)

		cost1 := t.descendCost(child1, leafAABB, inheritanceCost)
		cost2 := t.descendCost(child2, leafAABB, inheritanceCost)

		if cost < cost1 && cost < cost2 {
			break
		}

		if cost1 <= cost2 {
			index = child1
		} else {
			index = child2
		}
	}

	sibling := index

	oldParent := t.nodes[sibling].parent
	newParent := t.allocateNode()
	t.nodes[newParent].parent = oldParent
	t.nodes[newParent].userData = nil
	t.nodes[newParent].aabb = Combine(leafAABB, t.nodes[sibling].aabb)
	t.nodes[newParent].height = t.nodes[sibling].height + 1

	if oldParent != nullNode {
		if t.nodes[oldParent].child1 == sibling {
			t.nodes[oldParent].child1 = newParent
		} else {
			t.nodes[oldParent].child2 = newParent
		}
	} else {
		t.root = newParent
	}

	t.nodes[newParent].child1 = sibling
	t.nodes[newParent].child2 = leaf
	t.nodes[sibling].parent = newParent
	t.nodes[leaf].parent = newParent

	t.fixupFrom(t.nodes[leaf].parent)
}

// descendCost computes the SAH cost of pushing leafAABB into child,
// given the inheritance cost already charged for extending ancestors.
func (t *Tree) descendCost(child int32, leafAABB AABB, inheritanceCost float64) float64 {
	combined := Combine(leafAABB, t.nodes[child].aabb)
	if t.nodes[child].isLeaf() {
		return combined.Perimeter() + inheritanceCost
	}
	oldArea := t.nodes[child].aabb.Perimeter()
	newArea := combined.Perimeter()
	return (newArea - oldArea) + inheritanceCost
}

// removeLeaf splices leaf's sibling into leaf's grandparent's slot
// (or makes it the root), frees leaf's former parent, and rebalances
// from the grandparent to the root.
func (t *Tree) removeLeaf(leaf int32) {
	if leaf == t.root {
		t.root = nullNode
		return
	}

	parent := t.nodes[leaf].parent
	grandParent := t.nodes[parent].parent

	var sibling int32
	if t.nodes[parent].child1 == leaf {
		sibling = t.nodes[parent].child2
	} else {
		sibling = t.nodes[parent].child1
	}

	if grandParent != nullNode {
		if t.nodes[grandParent].child1 == parent {
			t.nodes[grandParent].child1 = sibling
		} else {
			t.nodes[grandParent].child2 = sibling
		}
		t.nodes[sibling].parent = grandParent
		t.freeNode(parent)

		t.fixupFrom(grandParent)
	} else {
		t.root = sibling
		t.nodes[sibling].parent = nullNode
		t.freeNode(parent)
	}
}

// fixupFrom walks from index to the root, applying Balance at each
// step and refreshing aabb/height from the (possibly new) children.
// It is the one place InsertLeaf and RemoveLeaf share, since both
// need the identical ancestor walk described in SPEC_FULL.md §4.2.
func (t *Tree) fixupFrom(index int32) {
	for index != nullNode {
		index = t.Balance(index)

		child1 := t.nodes[index].child1
		child2 := t.nodes[index].child2

		assertf(child1 != nullNode, "fixupFrom: internal node %d has no child1", index)
		assertf(child2 != nullNode, "fixupFrom: internal node %d has no child2", index)

		t.nodes[index].height = 1 + maxInt32(t.nodes[child1].height, t.nodes[child2].height)
		t.nodes[index].aabb = Combine(t.nodes[child1].aabb, t.nodes[child2].aabb)

		index = t.nodes[index].parent
	}
}
