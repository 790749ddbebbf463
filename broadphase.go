package bvh

import "sort"

// Pair is an unordered pair of proxy ids whose fat AABBs overlap,
// with ProxyIDA < ProxyIDB.
type Pair struct {
	ProxyIDA int32
	ProxyIDB int32
}

func pairLess(a, b Pair) bool {
	if a.ProxyIDA != b.ProxyIDA {
		return a.ProxyIDA < b.ProxyIDA
	}
	return a.ProxyIDB < b.ProxyIDB
}

type pairSlice []Pair

func (p pairSlice) Len() int           { return len(p) }
func (p pairSlice) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }
func (p pairSlice) Less(i, j int) bool { return pairLess(p[i], p[j]) }

// AddPairCallback receives each distinct overlapping pair discovered
// by UpdatePairs, identified by the caller's own userData payloads
// rather than raw proxy ids.
type AddPairCallback func(userDataA, userDataB interface{})

// BroadPhase wraps a Tree with the move-buffer / pair-buffer protocol
// a physics or spatial-index engine actually drives a dynamic tree
// with: proxies are marked dirty as they move, and UpdatePairs later
// re-queries only the dirty ones, sorts, and dedups before handing
// pairs to the caller.
//
// Adapted from B2BroadPhase in the reference engine.
type BroadPhase struct {
	tree *Tree

	proxyCount int

	moveBuffer []int32
	moveCount  int

	pairBuffer []Pair
	pairCount  int

	queryProxyID int32
}

const nullProxy int32 = -1

// NewBroadPhase builds an empty broad phase over a freshly constructed
// Tree using config.
func NewBroadPhase(config Config) *BroadPhase {
	return &BroadPhase{
		tree:       NewTree(config),
		moveBuffer: make([]int32, 16),
		pairBuffer: make([]Pair, 16),
	}
}

// CreateProxy inserts aabb/userData into the tree and marks the new
// proxy as moved, so the next UpdatePairs call considers it.
func (bp *BroadPhase) CreateProxy(aabb AABB, userData interface{}) int32 {
	proxyID := bp.tree.CreateProxy(aabb, userData)
	bp.proxyCount++
	bp.bufferMove(proxyID)
	return proxyID
}

// DestroyProxy removes proxyID from the tree and from the move buffer.
func (bp *BroadPhase) DestroyProxy(proxyID int32) {
	bp.unbufferMove(proxyID)
	bp.proxyCount--
	bp.tree.DestroyProxy(proxyID)
}

// MoveProxy updates proxyID's AABB and, if the tree actually had to
// reinsert the leaf, marks it moved.
func (bp *BroadPhase) MoveProxy(proxyID int32, aabb AABB, displacement Vec2) {
	if bp.tree.MoveProxy(proxyID, aabb, displacement) {
		bp.bufferMove(proxyID)
	}
}

// TouchProxy forces proxyID to be reconsidered by the next
// UpdatePairs call even though its AABB has not changed.
func (bp *BroadPhase) TouchProxy(proxyID int32) {
	bp.bufferMove(proxyID)
}

// GetUserData returns proxyID's attached payload.
func (bp *BroadPhase) GetUserData(proxyID int32) interface{} {
	return bp.tree.GetUserData(proxyID)
}

// GetFatAABB returns proxyID's stored fat AABB.
func (bp *BroadPhase) GetFatAABB(proxyID int32) AABB {
	return bp.tree.GetFatAABB(proxyID)
}

// TestOverlap reports whether two proxies' fat AABBs overlap.
func (bp *BroadPhase) TestOverlap(proxyIDA, proxyIDB int32) bool {
	return Overlaps(bp.tree.GetFatAABB(proxyIDA), bp.tree.GetFatAABB(proxyIDB))
}

// GetProxyCount returns the number of proxies currently alive.
func (bp *BroadPhase) GetProxyCount() int { return bp.proxyCount }

// GetTreeHeight, GetTreeBalance and GetTreeQuality expose the
// underlying tree's health metrics without exposing the tree itself.
func (bp *BroadPhase) GetTreeHeight() int32  { return bp.tree.GetHeight() }
func (bp *BroadPhase) GetTreeBalance() int32 { return bp.tree.GetMaxBalance() }
func (bp *BroadPhase) GetTreeQuality() float64 { return bp.tree.GetAreaRatio() }

// Validate asserts every invariant of the underlying tree; see
// Tree.Validate.
func (bp *BroadPhase) Validate() {
	bp.tree.Validate()
}

// Rebalance sweeps iterations nodes of the underlying tree, applying
// Shuffle where it helps; see Tree.Rebalance.
func (bp *BroadPhase) Rebalance(iterations int) {
	bp.tree.Rebalance(iterations)
}

// Query and RayCast pass straight through to the underlying tree.
func (bp *BroadPhase) Query(callback QueryCallback, aabb AABB) {
	bp.tree.Query(callback, aabb)
}

func (bp *BroadPhase) RayCast(callback RayCastCallback, input RayCastInput) {
	bp.tree.RayCast(callback, input)
}

// UpdatePairs re-queries the tree for every proxy buffered as moved
// since the last call, collects every distinct overlapping pair, and
// reports each once via addPairCallback — identified by the proxies'
// userData rather than their internal ids, since a caller's own
// entities are what it wants to resolve collisions between.
func (bp *BroadPhase) UpdatePairs(addPairCallback AddPairCallback) {
	bp.pairCount = 0

	for i := 0; i < bp.moveCount; i++ {
		bp.queryProxyID = bp.moveBuffer[i]
		if bp.queryProxyID == nullProxy {
			continue
		}

		fatAABB := bp.tree.GetFatAABB(bp.queryProxyID)
		bp.tree.Query(bp.queryCallback, fatAABB)
	}

	bp.moveCount = 0

	sort.Sort(pairSlice(bp.pairBuffer[:bp.pairCount]))

	i := 0
	for i < bp.pairCount {
		primary := bp.pairBuffer[i]
		userDataA := bp.tree.GetUserData(primary.ProxyIDA)
		userDataB := bp.tree.GetUserData(primary.ProxyIDB)

		addPairCallback(userDataA, userDataB)
		i++

		for i < bp.pairCount {
			pair := bp.pairBuffer[i]
			if pair.ProxyIDA != primary.ProxyIDA || pair.ProxyIDB != primary.ProxyIDB {
				break
			}
			i++
		}
	}
}

func (bp *BroadPhase) bufferMove(proxyID int32) {
	if bp.moveCount == len(bp.moveBuffer) {
		bp.moveBuffer = append(bp.moveBuffer, make([]int32, len(bp.moveBuffer))...)
	}
	bp.moveBuffer[bp.moveCount] = proxyID
	bp.moveCount++
}

func (bp *BroadPhase) unbufferMove(proxyID int32) {
	for i := 0; i < bp.moveCount; i++ {
		if bp.moveBuffer[i] == proxyID {
			bp.moveBuffer[i] = nullProxy
		}
	}
}

// queryCallback is handed to Tree.Query while scanning for pairs
// involving queryProxyID.
func (bp *BroadPhase) queryCallback(proxyID int32) bool {
	if proxyID == bp.queryProxyID {
		return true
	}

	if bp.pairCount == len(bp.pairBuffer) {
		bp.pairBuffer = append(bp.pairBuffer, make([]Pair, len(bp.pairBuffer))...)
	}

	a, b := proxyID, bp.queryProxyID
	if a > b {
		a, b = b, a
	}
	bp.pairBuffer[bp.pairCount] = Pair{ProxyIDA: a, ProxyIDB: b}
	bp.pairCount++

	return true
}
