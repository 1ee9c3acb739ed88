package road

import "github.com/arl/townforge/planctx"

// key identifies a RoadNode by its full spec.md identity,
// (coordinates, kind): a WoodenSupport neighbor and a StoneSupport
// neighbor can share the same (x, y, z) whenever 0 < d <= 8
// (Neighbors' Ground case), and those are distinct graph
// states that must not collide in the node pool.
type key struct {
	x, y, z int32
	kind    Kind
}

func keyOf(n Node) key { return key{n.X, n.Y, n.Z, n.Kind} }

// pathNode tracks A* bookkeeping for one explored position. It is
// linked to its parent by a direct pointer rather than the teacher's
// pool-index scheme (detour.Node.PIdx into a NodePool) — ordinary Go
// pointers serve the same purpose without detour's C-derived memory
// layout constraints.
type pathNode struct {
	pos          Node
	g, h, total  float32
	parent       *pathNode
	open, closed bool
	heapIdx      int32
}

// openQueue is a binary min-heap over pathNode.total, structurally
// detour's nodeQueue (detour/nodequeue.go) with bubbleUp/trickleDown
// reused verbatim in shape, generalized to compare *pathNode.total
// instead of *detour.Node.Total and to store a heapIdx field so modify
// doesn't need a linear scan.
type openQueue struct {
	heap []*pathNode
}

func (q *openQueue) bubbleUp(i int, node *pathNode) {
	parent := (i - 1) / 2
	for i > 0 && q.heap[parent].total > node.total {
		q.heap[i] = q.heap[parent]
		q.heap[i].heapIdx = int32(i)
		i = parent
		parent = (i - 1) / 2
	}
	q.heap[i] = node
	node.heapIdx = int32(i)
}

func (q *openQueue) trickleDown(i int, node *pathNode) {
	n := len(q.heap)
	child := i*2 + 1
	for child < n {
		if child+1 < n && q.heap[child].total > q.heap[child+1].total {
			child++
		}
		q.heap[i] = q.heap[child]
		q.heap[i].heapIdx = int32(i)
		i = child
		child = i*2 + 1
	}
	q.bubbleUp(i, node)
}

func (q *openQueue) push(node *pathNode) {
	q.heap = append(q.heap, nil)
	q.bubbleUp(len(q.heap)-1, node)
}

func (q *openQueue) pop() *pathNode {
	top := q.heap[0]
	last := q.heap[len(q.heap)-1]
	q.heap = q.heap[:len(q.heap)-1]
	if len(q.heap) > 0 {
		q.trickleDown(0, last)
	}
	return top
}

func (q *openQueue) modify(node *pathNode) {
	q.bubbleUp(int(node.heapIdx), node)
}

func (q *openQueue) empty() bool {
	return len(q.heap) == 0
}

// RouteConfig is currently empty: every neighbor rosette and cost
// constant in spec.md §4.5 is fixed, not configurable.
type RouteConfig struct{}

// FindPath runs A* from start to goal over g, using stretchedDistance
// as the heuristic (admissible: support cost is non-negative and the
// stretched metric never overestimates true movement cost). Success
// requires node.coordinates == goal; if goal sits at terrain height,
// the arriving node's Kind must additionally be Ground.
func FindPath(ctx *planctx.Context, g *Graph, start, goal Node, _ RouteConfig) (Path, bool) {
	ctx.StartTimer(planctx.TimerRoadRoute)
	defer ctx.StopTimer(planctx.TimerRoadRoute)

	nodes := make(map[key]*pathNode)
	startNode := &pathNode{pos: start, g: 0, h: stretchedDistance(start, goal), open: true}
	startNode.total = startNode.h
	nodes[keyOf(start)] = startNode

	open := &openQueue{}
	open.push(startNode)

	requireGround := goal.Y == g.H.HeightAt(goal.X, goal.Z)

	for !open.empty() {
		cur := open.pop()
		cur.open = false
		cur.closed = true

		atGoal := cur.pos.X == goal.X && cur.pos.Y == goal.Y && cur.pos.Z == goal.Z
		if atGoal && (!requireGround || cur.pos.Kind == Ground) {
			return reconstruct(cur), true
		}

		for _, succ := range g.Neighbors(cur.pos) {
			k := keyOf(succ)
			edgeCost := g.Cost(cur.pos, succ)
			tentativeG := cur.g + edgeCost

			sn, seen := nodes[k]
			if !seen {
				sn = &pathNode{pos: succ, h: stretchedDistance(succ, goal)}
				nodes[k] = sn
			} else if sn.closed || tentativeG >= sn.g {
				continue
			}

			sn.pos = succ
			sn.g = tentativeG
			sn.total = sn.g + sn.h
			sn.parent = cur

			if sn.open {
				open.modify(sn)
			} else {
				sn.open = true
				open.push(sn)
			}
		}
	}
	return nil, false
}

func reconstruct(n *pathNode) Path {
	var rev Path
	for cur := n; cur != nil; cur = cur.parent {
		rev = append(rev, cur.pos)
	}
	path := make(Path, len(rev))
	for i, p := range rev {
		path[len(rev)-1-i] = p
	}
	return path
}
