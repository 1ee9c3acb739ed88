package road

import (
	"container/heap"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arl/townforge/planctx"
)

// flatRiver is a flat y=64 plain, 64x64 blocks, with a north-south
// river band between x=28 and x=36 at y=62. The river band and
// everything outside the 64x64 square are blocked for Ground
// placement, so the search graph is finite.
type flatRiver struct{}

func (flatRiver) HeightAt(x, z int32) int32 {
	if x >= 28 && x <= 36 && z >= 0 && z < 64 {
		return 62
	}
	return 64
}

func (flatRiver) Blocked(x, z int32) bool {
	return (x >= 28 && x <= 36) || x < 0 || x >= 64 || z < 0 || z >= 64
}

// TestKeyOfDistinguishesKind checks that the node-pool key carries
// spec.md's full RoadNode identity (coordinates, kind): Neighbors'
// Ground case can emit a WoodenSupport and a StoneSupport node at the
// identical (x, y, z) whenever 0 < d <= 8, and those must not collide
// in the A* node pool.
func TestKeyOfDistinguishesKind(t *testing.T) {
	wood := Node{X: 10, Y: 64, Z: 10, Kind: WoodenSupport}
	stone := Node{X: 10, Y: 64, Z: 10, Kind: StoneSupport}
	if keyOf(wood) == keyOf(stone) {
		t.Fatalf("keyOf collapsed distinct kinds at the same position: %+v == %+v", wood, stone)
	}
}

// TestRoadAcrossRiver checks spec.md §8 end-to-end scenario 4: the
// returned path bridges the river with WoodenSupport nodes and never
// places a Ground node inside the water band.
func TestRoadAcrossRiver(t *testing.T) {
	g := &Graph{H: flatRiver{}}
	start := StartAt([3]int32{4, 64, 4})
	goal := Node{X: 60, Y: 64, Z: 60}

	path, ok := FindPath(planctx.New(false), g, start, goal, RouteConfig{})
	if !ok {
		t.Fatal("expected a path to be found")
	}

	sawWoodenInBand := false
	for _, n := range path {
		if n.X >= 28 && n.X <= 36 {
			if n.Kind == Ground {
				t.Fatalf("Ground node inside water band: %+v", n)
			}
			if n.Kind == WoodenSupport {
				sawWoodenInBand = true
			}
		}
	}
	if !sawWoodenInBand {
		t.Fatal("expected at least one WoodenSupport node crossing the river band")
	}

	last := path[len(path)-1]
	if last.X != goal.X || last.Y != goal.Y || last.Z != goal.Z || last.Kind != Ground {
		t.Fatalf("path does not end at Ground goal: %+v", last)
	}
}

// dijkstraItem and dijkstraQueue are a minimal, independent uniform-
// cost search used only to cross-check FindPath's optimality (spec.md
// §8): stretchedDistance is admissible, so A*'s returned cost must
// equal plain Dijkstra's.
type dijkstraItem struct {
	k    key
	cost float32
}
type dijkstraQueue []dijkstraItem

func (q dijkstraQueue) Len() int            { return len(q) }
func (q dijkstraQueue) Less(i, j int) bool  { return q[i].cost < q[j].cost }
func (q dijkstraQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *dijkstraQueue) Push(x interface{}) { *q = append(*q, x.(dijkstraItem)) }
func (q *dijkstraQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

func dijkstraCost(g *Graph, start, goal Node) (float32, bool) {
	best := map[key]float32{keyOf(start): 0}
	nodeOf := map[key]Node{keyOf(start): start}
	pq := &dijkstraQueue{{k: keyOf(start), cost: 0}}
	heap.Init(pq)

	requireGround := goal.Y == g.H.HeightAt(goal.X, goal.Z)

	for pq.Len() > 0 {
		it := heap.Pop(pq).(dijkstraItem)
		cur := nodeOf[it.k]
		if it.cost > best[it.k] {
			continue
		}
		if cur.X == goal.X && cur.Y == goal.Y && cur.Z == goal.Z && (!requireGround || cur.Kind == Ground) {
			return it.cost, true
		}
		for _, succ := range g.Neighbors(cur) {
			nc := it.cost + g.Cost(cur, succ)
			k := keyOf(succ)
			if old, ok := best[k]; !ok || nc < old {
				best[k] = nc
				nodeOf[k] = succ
				heap.Push(pq, dijkstraItem{k: k, cost: nc})
			}
		}
	}
	return 0, false
}

// TestAStarMatchesDijkstra checks spec.md §8's A* optimality property:
// since stretchedDistance never overestimates true cost, FindPath must
// return the same minimal cost a plain (heuristic-free) uniform-cost
// search finds.
func TestAStarMatchesDijkstra(t *testing.T) {
	g := &Graph{H: flatRiver{}}
	start := StartAt([3]int32{4, 64, 4})
	goal := Node{X: 40, Y: 64, Z: 40}

	path, ok := FindPath(planctx.New(false), g, start, goal, RouteConfig{})
	assert.True(t, ok, "expected FindPath to succeed")

	var astarCost float32
	for i := 0; i+1 < len(path); i++ {
		astarCost += g.Cost(path[i], path[i+1])
	}

	wantCost, ok := dijkstraCost(g, start, goal)
	assert.True(t, ok, "expected dijkstraCost to succeed")
	assert.InDelta(t, wantCost, astarCost, 1e-2, "A* cost should match Dijkstra's optimal cost")
}

func TestFindPathUnreachable(t *testing.T) {
	g := &Graph{H: flatRiver{}}
	start := StartAt([3]int32{0, 64, 0})
	// A goal requiring Ground but sitting in the always-blocked band at
	// its own terrain height is unreachable as a Ground node.
	goal := Node{X: 32, Y: 62, Z: 32}

	_, ok := FindPath(planctx.New(false), g, start, goal, RouteConfig{})
	if ok {
		t.Fatal("expected no path: Ground is blocked everywhere in the water band")
	}
}
