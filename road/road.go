// Package road implements the RoadRouter: A* search over (x, y, z,
// kind) nodes, generalizing detour.NavMeshQuery.FindPath from polygon
// refs to a height-raster-backed graph with three movement kinds.
package road

import "github.com/arl/gogeo/f32/d3"

// Kind tags a Node with the support material (if any) beneath it.
type Kind uint8

const (
	Start Kind = iota
	Ground
	WoodenSupport
	StoneSupport
)

func (k Kind) String() string {
	switch k {
	case Start:
		return "Start"
	case Ground:
		return "Ground"
	case WoodenSupport:
		return "WoodenSupport"
	case StoneSupport:
		return "StoneSupport"
	default:
		return "Unknown"
	}
}

const (
	woodenMaxHeight = 8
	stoneMaxHeight  = 24
	woodenCost      = 200
	stoneCost       = 300
)

// Node is a single position in the routing graph.
type Node struct {
	X, Y, Z int32
	Kind    Kind
}

// StartAt builds a Start node at pos, accepting the caller's y
// verbatim — the source reads it from the caller but also accepts
// callers that pass the terrain height; both are valid (spec.md §9),
// and the distinction only matters to a caller that wants to force a
// bridged start.
func StartAt(pos [3]int32) Node {
	return Node{X: pos[0], Y: pos[1], Z: pos[2], Kind: Start}
}

// Path is a sequence of Nodes; the first node's Kind is always Start,
// and each subsequent node's Kind determines the support material to
// place beneath it.
type Path []Node

// HeightSource answers the terrain queries the graph needs: the
// ground height at (x, z), and whether that ground cell is blocked
// (preventing a Ground-kind successor there, though bridging above it
// is still allowed).
type HeightSource interface {
	HeightAt(x, z int32) int32
	Blocked(x, z int32) bool
}

// Graph wires a HeightSource into the neighbor/cost rules spec.md
// §4.5 describes.
type Graph struct {
	H HeightSource
}

// groundRosette approximates a radius-2 disk, excluding the center and
// the four (|dx|,|dz|)=(2,2) corners — a fixed 20-offset table, per
// spec.md §4.5, that allows both 1- and 2-block lateral moves.
var groundRosette = func() [][2]int32 {
	var out [][2]int32
	for dz := int32(-2); dz <= 2; dz++ {
		for dx := int32(-2); dx <= 2; dx++ {
			if dx == 0 && dz == 0 {
				continue
			}
			if abs32(dx) == 2 && abs32(dz) == 2 {
				continue
			}
			out = append(out, [2]int32{dx, dz})
		}
	}
	return out
}()

// woodRing and stoneRing approximate a thin ring at the given radius
// (bridge spans), built with a midpoint-circle rasterizer rather than
// a literal table, since spec.md
// leaves their exact offsets unspecified ("approximating").
var woodRing = circleOffsets(5)
var stoneRing = circleOffsets(7)

// circleOffsets returns the integer points of a midpoint (Bresenham)
// circle of the given radius, in all eight octants, each offset once.
func circleOffsets(radius int32) [][2]int32 {
	var out [][2]int32
	seen := make(map[[2]int32]bool)
	x, z := radius, int32(0)
	err := int32(1) - radius
	add := func(dx, dz int32) {
		o := [2]int32{dx, dz}
		if !seen[o] {
			seen[o] = true
			out = append(out, o)
		}
	}
	for x >= z {
		add(x, z)
		add(z, x)
		add(-z, x)
		add(-x, z)
		add(-x, -z)
		add(-z, -x)
		add(z, -x)
		add(x, -z)
		z++
		if err < 0 {
			err += 2*z + 1
		} else {
			x--
			err += 2*(z-x) + 1
		}
	}
	return out
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// effectiveKind reports how n should be treated for neighbor
// generation: a Start node is reclassified by its height above
// terrain (spec.md §4.5); every other node already carries the right
// Kind.
func effectiveKind(n Node, h HeightSource) Kind {
	if n.Kind != Start {
		return n.Kind
	}
	ground := h.HeightAt(n.X, n.Z)
	d := n.Y - ground
	switch {
	case d == 0:
		return Ground
	case d > 0 && d <= woodenMaxHeight:
		return WoodenSupport
	case d > 0 && d <= stoneMaxHeight:
		return StoneSupport
	default:
		return Ground
	}
}

// Neighbors generates every valid successor of n.
func (g *Graph) Neighbors(n Node) []Node {
	var out []Node
	switch effectiveKind(n, g.H) {
	case Ground:
		for _, o := range groundRosette {
			nx, nz := n.X+o[0], n.Z+o[1]
			hNew := g.H.HeightAt(nx, nz)
			if !g.H.Blocked(nx, nz) {
				out = append(out, Node{X: nx, Y: hNew, Z: nz, Kind: Ground})
			}
			if d := n.Y - hNew; d > 0 {
				if d <= woodenMaxHeight {
					out = append(out, Node{X: nx, Y: n.Y, Z: nz, Kind: WoodenSupport})
				}
				if d <= stoneMaxHeight {
					out = append(out, Node{X: nx, Y: n.Y, Z: nz, Kind: StoneSupport})
				}
			}
		}
	case WoodenSupport:
		out = append(out, g.descendToGround(n)...)
		for _, o := range woodRing {
			nx, nz := n.X+o[0], n.Z+o[1]
			hNew := g.H.HeightAt(nx, nz)
			if d := n.Y - hNew; d > 0 && d <= woodenMaxHeight {
				out = append(out, Node{X: nx, Y: n.Y, Z: nz, Kind: WoodenSupport})
			}
		}
	case StoneSupport:
		out = append(out, g.descendToGround(n)...)
		for _, o := range stoneRing {
			nx, nz := n.X+o[0], n.Z+o[1]
			hNew := g.H.HeightAt(nx, nz)
			if d := n.Y - hNew; d > 0 && d <= stoneMaxHeight {
				out = append(out, Node{X: nx, Y: n.Y, Z: nz, Kind: StoneSupport})
			}
		}
	}
	return out
}

// descendToGround is the ground-neighborhood step shared by both
// support kinds: step laterally and drop straight to Ground when the
// destination's terrain height equals the current elevation.
func (g *Graph) descendToGround(n Node) []Node {
	var out []Node
	for _, o := range groundRosette {
		nx, nz := n.X+o[0], n.Z+o[1]
		hNew := g.H.HeightAt(nx, nz)
		if n.Y == hNew && !g.H.Blocked(nx, nz) {
			out = append(out, Node{X: nx, Y: hNew, Z: nz, Kind: Ground})
		}
	}
	return out
}

// supportCost is the per-node material cost: zero for Start/Ground,
// and proportional to height above terrain for the two support kinds.
func (g *Graph) supportCost(n Node) float32 {
	switch n.Kind {
	case WoodenSupport:
		return float32(n.Y-g.H.HeightAt(n.X, n.Z)+1) * woodenCost
	case StoneSupport:
		return float32(n.Y-g.H.HeightAt(n.X, n.Z)+1) * stoneCost
	default:
		return 0
	}
}

// Cost is the stretched-Euclidean edge cost between a and b plus both
// endpoints' support costs.
func (g *Graph) Cost(a, b Node) float32 {
	return stretchedDistance(a, b) + g.supportCost(a) + g.supportCost(b)
}

// stretchedDistance scales all three axes by 100, with an additional
// 5x weight on y: vertical movement is five times as expensive as
// horizontal. Used both as edge cost and as the A* heuristic. The
// scaled endpoints are built as scratch d3.Vec3s, the same
// float-domain scratch-vector convention the ACM energy terms use,
// rather than hand-rolled sqrt(dx*dx+...) arithmetic.
func stretchedDistance(a, b Node) float32 {
	av := d3.NewVec3XYZ(float32(a.X)*100, float32(a.Y)*500, float32(a.Z)*100)
	bv := d3.NewVec3XYZ(float32(b.X)*100, float32(b.Y)*500, float32(b.Z)*100)
	return av.Dist(bv)
}
