package bvh

import (
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

// TestComplianceFixedInsertionSequence runs a small, fully determined
// sequence of insertions (fixed coordinates, zero fattening, no moves
// or deletions) and diffs the resulting Dump() against a checked-in
// golden string. Any change to sibling selection, rotation, or height
// bookkeeping that alters this exact tree shape fails here even if
// every other property-based test still passes — the same role the
// reference engine's cpp_compliance_test.go plays for the physics
// pipeline.
func TestComplianceFixedInsertionSequence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AABBExtension = 0
	cfg.InitialCapacity = 8
	tree := NewTree(cfg)

	tree.CreateProxy(box(0, 0, 1, 1), "A")
	tree.CreateProxy(box(2, 0, 3, 1), "B")
	tree.CreateProxy(box(10, 10, 11, 11), "C")

	got := tree.Dump()

	const expected = `id=4 parent=-1 child1=2 child2=3 height=2 aabb=(0.000,0.000)-(11.000,11.000) userData=<nil>
id=3 parent=4 child1=-1 child2=-1 height=0 aabb=(10.000,10.000)-(11.000,11.000) userData=C
id=2 parent=4 child1=0 child2=1 height=1 aabb=(0.000,0.000)-(3.000,1.000) userData=<nil>
id=1 parent=2 child1=-1 child2=-1 height=0 aabb=(2.000,0.000)-(3.000,1.000) userData=B
id=0 parent=2 child1=-1 child2=-1 height=0 aabb=(0.000,0.000)-(1.000,1.000) userData=A
`

	if got != expected {
		diff := difflib.UnifiedDiff{
			A:        difflib.SplitLines(expected),
			B:        difflib.SplitLines(got),
			FromFile: "Expected",
			ToFile:   "Current",
			Context:  2,
		}
		text, _ := difflib.GetUnifiedDiffString(diff)
		t.Fatalf("tree shape does not match golden dump:\n%s", text)
	}

	tree.Validate()
}
