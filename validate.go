package bvh

// GetHeight returns the root's stored height, or 0 for an empty tree.
func (t *Tree) GetHeight() int32 {
	if t.root == nullNode {
		return 0
	}
	return t.nodes[t.root].height
}

// GetAreaRatio returns the sum of every allocated node's perimeter
// divided by the root's perimeter: a measure of how loose the
// hierarchy has become relative to a perfectly tight tree.
func (t *Tree) GetAreaRatio() float64 {
	if t.root == nullNode {
		return 0.0
	}

	rootArea := t.nodes[t.root].aabb.Perimeter()

	totalArea := 0.0
	for i := int32(0); i < t.nodeCapacity; i++ {
		if t.nodes[i].height < 0 {
			continue
		}
		totalArea += t.nodes[i].aabb.Perimeter()
	}

	return totalArea / rootArea
}

// GetMaxBalance returns the largest |child2.height - child1.height|
// over every internal node currently in the tree.
func (t *Tree) GetMaxBalance() int32 {
	var maxBalance int32
	for i := int32(0); i < t.nodeCapacity; i++ {
		n := t.nodes[i]
		if n.height <= 1 {
			continue
		}
		assertf(!n.isLeaf(), "GetMaxBalance: node %d has height %d but no children", i, n.height)
		balance := absInt32(t.nodes[n.child2].height - t.nodes[n.child1].height)
		maxBalance = maxInt32(maxBalance, balance)
	}
	return maxBalance
}

// ComputeHeight recomputes the tree's height from scratch via an
// iterative post-order walk (SPEC_FULL.md §4.4/§9 call for avoiding
// recursion here, since adversarial insertion orders can build chains
// deep enough to strain a goroutine's initial stack).
func (t *Tree) ComputeHeight() int32 {
	if t.root == nullNode {
		return 0
	}

	heights := make(map[int32]int32, t.nodeCount)
	stack := newNodeStack(8)
	stack.push(t.root)

	for !stack.empty() {
		id := stack.values[len(stack.values)-1]
		n := t.nodes[id]

		if n.isLeaf() {
			heights[id] = 0
			stack.pop()
			continue
		}

		h1, ok1 := heights[n.child1]
		h2, ok2 := heights[n.child2]
		if ok1 && ok2 {
			heights[id] = 1 + maxInt32(h1, h2)
			stack.pop()
			continue
		}
		if !ok1 {
			stack.push(n.child1)
		}
		if !ok2 {
			stack.push(n.child2)
		}
	}

	return heights[t.root]
}

// Validate asserts every structural and metric invariant from
// SPEC_FULL.md §3 (I1-I8, plus that free nodes carry height -1 and
// that stored heights/aabbs match freshly recomputed ones). It panics
// via assertf on the first violation, so it is meant for tests and
// debug builds, not production hot paths.
func (t *Tree) Validate() {
	t.validateStructure()
	t.validateMetrics()
	t.validateFreeList()
}

func (t *Tree) validateStructure() {
	if t.root == nullNode {
		return
	}
	assertf(t.nodes[t.root].parent == nullNode, "Validate: root %d has non-null parent", t.root)

	stack := newNodeStack(8)
	stack.push(t.root)
	for !stack.empty() {
		id := stack.pop()
		n := t.nodes[id]

		if n.isLeaf() {
			assertf(n.height == 0, "Validate: leaf %d has height %d, want 0", id, n.height)
			continue
		}

		assertf(0 <= n.child1 && n.child1 < t.nodeCapacity, "Validate: node %d child1 %d out of range", id, n.child1)
		assertf(0 <= n.child2 && n.child2 < t.nodeCapacity, "Validate: node %d child2 %d out of range", id, n.child2)
		assertf(t.nodes[n.child1].parent == id, "Validate: child1 %d of %d does not point back", n.child1, id)
		assertf(t.nodes[n.child2].parent == id, "Validate: child2 %d of %d does not point back", n.child2, id)

		stack.push(n.child1)
		stack.push(n.child2)
	}
}

func (t *Tree) validateMetrics() {
	if t.root == nullNode {
		return
	}

	// Post-order walk so every child's metrics are known before its
	// parent's are checked.
	order := make([]int32, 0, t.nodeCount)
	stack := newNodeStack(8)
	stack.push(t.root)
	visited := make(map[int32]bool, t.nodeCount)
	for !stack.empty() {
		id := stack.values[len(stack.values)-1]
		if visited[id] {
			stack.pop()
			order = append(order, id)
			continue
		}
		visited[id] = true
		n := t.nodes[id]
		if !n.isLeaf() {
			stack.push(n.child1)
			stack.push(n.child2)
		}
	}

	for _, id := range order {
		n := t.nodes[id]
		if n.isLeaf() {
			assertf(n.child1 == nullNode && n.child2 == nullNode, "Validate: leaf %d has a child", id)
			continue
		}

		h1, h2 := t.nodes[n.child1].height, t.nodes[n.child2].height
		wantHeight := 1 + maxInt32(h1, h2)
		assertf(n.height == wantHeight, "Validate: node %d height %d, want %d", id, n.height, wantHeight)
		assertf(absInt32(h2-h1) <= 1, "Validate: node %d children heights %d/%d differ by more than 1", id, h1, h2)

		want := Combine(t.nodes[n.child1].aabb, t.nodes[n.child2].aabb)
		assertf(n.aabb.Equals(want), "Validate: node %d aabb does not equal combine(children)", id)
	}
}

func (t *Tree) validateFreeList() {
	seen := make(map[int32]bool)
	count := 0
	for id := t.freeList; id != nullNode; id = t.nodes[id].next {
		assertf(0 <= id && id < t.nodeCapacity, "Validate: free-list id %d out of range", id)
		assertf(!seen[id], "Validate: free-list id %d visited twice", id)                    
		assertf(t.nodes[id].height == -1, "Validate: free node %d has height %d, want -1", id, t.nodes[id].height)
		seen[id] = true
		count++
	}
	assertf(int32(count)+t.nodeCount == t.nodeCapacity,
		"Validate: free-list length %d + nodeCount %d != nodeCapacity %d", count, t.nodeCount, t.nodeCapacity)
}
