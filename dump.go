package bvh

import "fmt"

// Dump renders the tree as a deterministic, human-readable preorder
// listing (root first, then each node's child2 subtree before its
// child1 subtree, matching the push/pop order Query and RayCast use)
// — one line per node: id, parent, children, height, aabb, userData.
// It exists for manual inspection and for golden-output compliance
// tests, in the spirit of the reference engine's own textual
// before/after dumps in cpp_compliance_test.go.
func (t *Tree) Dump() string {
	out := ""
	if t.root == nullNode {
		return out
	}

	stack := newNodeStack(8)
	stack.push(t.root)
	for !stack.empty() {
		id := stack.pop()
		n := t.nodes[id]
		out += fmt.Sprintf("id=%d parent=%d child1=%d child2=%d height=%d aabb=(%.3f,%.3f)-(%.3f,%.3f) userData=%v\n",
			id, n.parent, n.child1, n.child2, n.height,
			n.aabb.LowerBound.X, n.aabb.LowerBound.Y, n.aabb.UpperBound.X, n.aabb.UpperBound.Y,
			n.userData,
		)
		if !n.isLeaf() {
			stack.push(n.child1)
			stack.push(n.child2)
		}
	}
	return out
}
