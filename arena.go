package bvh

import "go.uber.org/zap"

// Tree is a dynamic AABB tree broad-phase index, inspired (like the
// reference engine it was ported from) by Nathanael Presson's btDbvt.
// It arranges leaf AABBs in a binary tree to accelerate overlap and
// raycast queries. Leaves carry a fattened copy of the caller's AABB
// so that small motions do not force a restructure.
//
// Nodes are pooled and addressed by index rather than by pointer, so
// the backing slice can grow without invalidating proxy ids.
//
// A Tree is not safe for concurrent use; see SPEC_FULL.md §5.
type Tree struct {
	config Config
	log    *zap.Logger

	root int32

	nodes        []node
	nodeCount    int32
	nodeCapacity int32

	freeList int32

	// path is the cursor Rebalance advances round-robin across the
	// arena between calls.
	path int32

	insertionCount int32

	busy bool // debug-only single-writer reentrancy check
}

// NewTree constructs an empty tree with the given configuration and
// no logger; Balance/Shuffle activity is never logged even if
// config.Debug is set. Use NewTreeWithLogger to observe it.
func NewTree(config Config) *Tree {
	return NewTreeWithLogger(config, nil)
}

// NewTreeWithLogger constructs an empty tree that reports
// Balance/Shuffle activity to log whenever config.Debug is true.
func NewTreeWithLogger(config Config, log *zap.Logger) *Tree {
	if config.InitialCapacity <= 0 {
		config.InitialCapacity = DefaultConfig().InitialCapacity
	}

	t := &Tree{
		config:       config,
		log:          log,
		root:         nullNode,
		nodeCapacity: int32(config.InitialCapacity),
		nodeCount:    0,
		path:         0,
	}

	t.nodes = make([]node, t.nodeCapacity)
	for i := int32(0); i < t.nodeCapacity-1; i++ {
		t.nodes[i].next = i + 1
		t.nodes[i].height = -1
	}
	t.nodes[t.nodeCapacity-1].next = nullNode
	t.nodes[t.nodeCapacity-1].height = -1
	t.freeList = 0

	return t
}

// enter and leave implement the debug-only reentrancy check described
// in SPEC_FULL.md §5: a non-atomic guard that turns concurrent misuse
// of a single Tree into an immediate panic rather than silent
// corruption. It is not a synchronization primitive.
func (t *Tree) enter(op string) {
	if !t.config.Debug {
		return
	}
	assertf(!t.busy, "concurrent mutation of bvh.Tree detected during %s", op)
	t.busy = true
}

func (t *Tree) leave() {
	if !t.config.Debug {
		return
	}
	t.busy = false
}

// allocateNode returns the index of a freshly reset node, growing the
// pool by doubling when the free list is exhausted.
func (t *Tree) allocateNode() int32 {
	if t.freeList == nullNode {
		assertf(t.nodeCount == t.nodeCapacity, "free list empty but nodeCount %d != nodeCapacity %d", t.nodeCount, t.nodeCapacity)

		oldCapacity := t.nodeCapacity
		newCapacity := oldCapacity * 2

		grown := make([]node, newCapacity)
		copy(grown, t.nodes)
		t.nodes = grown
		t.nodeCapacity = newCapacity

		for i := oldCapacity; i < newCapacity-1; i++ {
			t.nodes[i].next = i + 1
			t.nodes[i].height = -1
		}
		t.nodes[newCapacity-1].next = nullNode
		t.nodes[newCapacity-1].height = -1
		t.freeList = oldCapacity
	}

	id := t.freeList
	t.freeList = t.nodes[id].next
	t.nodes[id].parent = nullNode
	t.nodes[id].child1 = nullNode
	t.nodes[id].child2 = nullNode
	t.nodes[id].height = 0
	t.nodes[id].userData = nil
	t.nodeCount++

	return id
}

// freeNode returns id to the pool, marking it free (height -1) and
// pushing it onto the free-list head.
func (t *Tree) freeNode(id int32) {
	assertf(0 <= id && id < t.nodeCapacity, "freeNode: id %d out of range [0, %d)", id, t.nodeCapacity)
	assertf(t.nodeCount > 0, "freeNode: nodeCount already zero")

	t.nodes[id].next = t.freeList
	t.nodes[id].height = -1
	t.freeList = id
	t.nodeCount--
}

func maxInt32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func absInt32(a int32) int32 {
	if a < 0 {
		return -a
	}
	return a
}
