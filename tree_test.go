package bvh

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func box(x0, y0, x1, y1 float64) AABB {
	return AABB{LowerBound: Vec2{x0, y0}, UpperBound: Vec2{x1, y1}}
}

func TestCreateProxySingleton(t *testing.T) {
	tree := NewTree(DefaultConfig())
	id := tree.CreateProxy(box(0, 0, 1, 1), "only")

	require.Equal(t, id, tree.Root())
	require.True(t, tree.IsLeaf(tree.Root()))
	require.Equal(t, "only", tree.GetUserData(id))
	tree.Validate()
}

func TestCreateProxyFattensAABB(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AABBExtension = 0.5
	tree := NewTree(cfg)
	id := tree.CreateProxy(box(0, 0, 1, 1), nil)

	fat := tree.GetFatAABB(id)
	require.Equal(t, Vec2{-0.5, -0.5}, fat.LowerBound)
	require.Equal(t, Vec2{1.5, 1.5}, fat.UpperBound)
}

func TestInsertManyMaintainsInvariants(t *testing.T) {
	tree := NewTree(DefaultConfig())
	for i := 0; i < 200; i++ {
		x := float64(i % 17)
		y := float64(i % 23)
		tree.CreateProxy(box(x, y, x+1, y+1), i)
	}
	tree.Validate()
	require.LessOrEqual(t, tree.GetMaxBalance(), int32(1))
}

func TestDestroyProxyRemovesLeafAndKeepsInvariants(t *testing.T) {
	tree := NewTree(DefaultConfig())
	ids := make([]int32, 0, 50)
	for i := 0; i < 50; i++ {
		x := float64(i)
		ids = append(ids, tree.CreateProxy(box(x, 0, x+1, 1), i))
	}

	for i, id := range ids {
		if i%2 == 0 {
			tree.DestroyProxy(id)
		}
	}
	tree.Validate()

	for i, id := range ids {
		if i%2 != 0 {
			require.Equal(t, i, tree.GetUserData(id))
		}
	}
}

func TestDestroyLastProxyEmptiesTree(t *testing.T) {
	tree := NewTree(DefaultConfig())
	id := tree.CreateProxy(box(0, 0, 1, 1), nil)
	tree.DestroyProxy(id)
	require.Equal(t, NullNode, tree.Root())
}

func TestProxyIDsSurviveArenaGrowth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitialCapacity = 2
	tree := NewTree(cfg)

	ids := make([]int32, 0, 64)
	for i := 0; i < 64; i++ {
		x := float64(i)
		ids = append(ids, tree.CreateProxy(box(x, x, x+1, x+1), i))
	}

	for i, id := range ids {
		require.Equal(t, i, tree.GetUserData(id))
	}
	tree.Validate()
}

func TestMoveProxySmallMotionIsAbsorbedByFatAABB(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AABBExtension = 1.0
	tree := NewTree(cfg)
	id := tree.CreateProxy(box(0, 0, 1, 1), nil)

	before := tree.GetFatAABB(id)
	moved := tree.MoveProxy(id, box(0.01, 0.01, 1.01, 1.01), Vec2{0.01, 0.01})

	require.False(t, moved)
	require.Equal(t, before, tree.GetFatAABB(id))
}

func TestMoveProxyLargeMotionReinsertsAndContains(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AABBExtension = 0.1
	tree := NewTree(cfg)
	id := tree.CreateProxy(box(0, 0, 1, 1), nil)

	tight := box(10, 10, 11, 11)
	moved := tree.MoveProxy(id, tight, Vec2{5, 0})

	require.True(t, moved)
	require.True(t, tree.GetFatAABB(id).Contains(tight))
	tree.Validate()
}

func TestMoveProxyIsIdempotentOnRepeatedIdenticalCall(t *testing.T) {
	tree := NewTree(DefaultConfig())
	tree.CreateProxy(box(0, 0, 1, 1), "a")
	id := tree.CreateProxy(box(5, 5, 6, 6), "b")

	target := box(50, 50, 51, 51)
	displacement := Vec2{X: 3, Y: 0}

	moved := tree.MoveProxy(id, target, displacement)
	require.True(t, moved, "first call moves the proxy far enough to force reinsertion")
	dumpAfterFirst := tree.Dump()

	moved = tree.MoveProxy(id, target, displacement)
	require.False(t, moved, "second identical MoveProxy call must report no change")
	require.Equal(t, dumpAfterFirst, tree.Dump(), "tree must be unchanged by the idempotent second call")
}

func TestMoveProxyAnticipatesDisplacementDirection(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AABBExtension = 0.1
	cfg.AABBMultiplier = 4.0
	tree := NewTree(cfg)
	id := tree.CreateProxy(box(0, 0, 1, 1), nil)

	tree.MoveProxy(id, box(10, 0, 11, 1), Vec2{5, 0})
	fat := tree.GetFatAABB(id)

	// Moving in +X should extend the fat AABB further on the leading
	// (upper) edge than a plain fatten-by-extension would.
	require.Greater(t, fat.UpperBound.X, 11.1)
}

func TestQueryFindsOverlappingLeaves(t *testing.T) {
	tree := NewTree(DefaultConfig())
	a := tree.CreateProxy(box(0, 0, 1, 1), "a")
	b := tree.CreateProxy(box(5, 5, 6, 6), "b")
	_ = tree.CreateProxy(box(20, 20, 21, 21), "c")

	var hits []int32
	tree.Query(func(id int32) bool {
		hits = append(hits, id)
		return true
	}, box(-1, -1, 7, 7))

	require.ElementsMatch(t, []int32{a, b}, hits)
}

func TestQueryCanStopEarly(t *testing.T) {
	tree := NewTree(DefaultConfig())
	for i := 0; i < 10; i++ {
		x := float64(i)
		tree.CreateProxy(box(x, 0, x+1, 1), i)
	}

	count := 0
	tree.Query(func(id int32) bool {
		count++
		return false
	}, box(-1000, -1000, 1000, 1000))

	require.Equal(t, 1, count)
}

func TestRayCastHitsExpectedLeaf(t *testing.T) {
	tree := NewTree(DefaultConfig())
	target := tree.CreateProxy(box(5, -1, 6, 1), "wall")

	var hit int32 = -2
	tree.RayCast(func(input RayCastInput, proxyID int32) float64 {
		hit = proxyID
		return 0.5
	}, RayCastInput{P1: Vec2{0, 0}, P2: Vec2{10, 0}, MaxFraction: 1.0})

	require.Equal(t, target, hit)
}

func TestGetAreaRatioIsAtLeastOne(t *testing.T) {
	tree := NewTree(DefaultConfig())
	for i := 0; i < 40; i++ {
		x := float64(i % 7)
		y := float64(i % 5)
		tree.CreateProxy(box(x, y, x+1, y+1), nil)
	}
	require.GreaterOrEqual(t, tree.GetAreaRatio(), 1.0)
}

func TestComputeHeightMatchesStoredHeight(t *testing.T) {
	tree := NewTree(DefaultConfig())
	for i := 0; i < 100; i++ {
		x := float64(i)
		tree.CreateProxy(box(x, 0, x+1, 1), nil)
	}
	require.Equal(t, tree.GetHeight(), tree.ComputeHeight())
}

func TestShuffleLowersOrMaintainsAreaWithoutChangingHeight(t *testing.T) {
	tree := NewTree(DefaultConfig())
	// Two well-separated clusters of four leaves each; Rebalance must
	// neither raise the height nor the area ratio of the result.
	for i := 0; i < 4; i++ {
		x := float64(i)
		tree.CreateProxy(box(x, 0, x+1, 1), nil)
	}
	for i := 0; i < 4; i++ {
		x := float64(i) + 100
		tree.CreateProxy(box(x, 0, x+1, 1), nil)
	}

	heightBefore := tree.GetHeight()
	areaBefore := tree.GetAreaRatio()
	tree.Rebalance(int(tree.nodeCount))
	tree.Validate()
	require.Equal(t, heightBefore, tree.GetHeight())
	require.LessOrEqual(t, tree.GetAreaRatio(), areaBefore)
}

func TestValidateCatchesCorruptedHeight(t *testing.T) {
	tree := NewTree(DefaultConfig())
	for i := 0; i < 5; i++ {
		x := float64(i)
		tree.CreateProxy(box(x, 0, x+1, 1), nil)
	}

	root := tree.Root()
	require.NotPanics(t, func() { tree.Validate() })

	tree.nodes[root].height += 7
	require.Panics(t, func() { tree.Validate() })
}
