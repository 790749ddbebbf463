//go:build !bruteforce

package bvh

// Query walks the tree depth-first, calling callback for every leaf
// whose AABB overlaps aabb. It is a convenience built directly on the
// Root/Child1/Child2/AABB read contract in query.go — a caller could
// write the same loop itself, but every complete repository in this
// family ships a ready-made traversal rather than asking callers to
// reimplement stack-based tree walking (SPEC_FULL.md §6).
//
// This is the default build; see brute.go for the linear-scan oracle
// selected by the bruteforce build tag.
//
// Adapted from B2DynamicTree.Query in the reference engine.
func (t *Tree) Query(callback QueryCallback, aabb AABB) {
	stack := newNodeStack(256)
	stack.push(t.root)

	for !stack.empty() {
		nodeID := stack.pop()
		if nodeID == nullNode {
			continue
		}

		n := t.nodes[nodeID]
		if !Overlaps(n.aabb, aabb) {
			continue
		}

		if n.isLeaf() {
			if !callback(nodeID) {
				return
			}
		} else {
			stack.push(n.child1)
			stack.push(n.child2)
		}
	}
}
