//go:build bruteforce

package bvh

// Query replaces the tree-walk implementation in query_tree.go with an
// O(n) linear scan over every live leaf, selected at compile time via
// the bruteforce build tag. It exists as a correctness oracle: build
// and run the same test suite with and without the tag, and the
// reported overlap sets must match exactly, since Query's documented
// contract (every leaf whose AABB overlaps the argument, no more, no
// less) says nothing about how the search is performed.
//
// Not grounded in the reference engine, which has no linear-scan
// fallback; the technique itself (a build-tag-selected brute-force
// oracle alongside the real implementation, used to cross-check a
// spatial index) follows the reference-vs-optimized pairing pattern
// used throughout cockroachdb-cockroach's slow-path assertions.
func (t *Tree) Query(callback QueryCallback, aabb AABB) {
	for i := int32(0); i < t.nodeCapacity; i++ {
		n := t.nodes[i]
		if n.height != 0 {
			continue
		}
		if !Overlaps(n.aabb, aabb) {
			continue
		}
		if !callback(i) {
			return
		}
	}
}
