package orchestrator

import (
	"testing"

	"github.com/arl/townforge/planctx"
	"github.com/arl/townforge/road"
	"github.com/arl/townforge/voxel"
)

// gridVolume is a voxel.Volume whose surface height and surface block
// are computed per-column by caller-supplied functions, letting each
// scenario test describe flat ground, islands, ridges and rivers
// without building a literal 3-D array.
type gridVolume struct {
	w, h     int
	ceiling  int
	heightAt func(x, z int) int
	blockAt  func(x, z int) voxel.BlockKind
}

func (v *gridVolume) Dim() (int, int, int) { return v.w, v.ceiling, v.h }

func (v *gridVolume) BlockAt(x, y, z int) (voxel.BlockKind, bool) {
	if x < 0 || x >= v.w || z < 0 || z >= v.h || y < 0 || y >= v.ceiling {
		return voxel.Air, false
	}
	surface := v.heightAt(x, z)
	switch {
	case y > surface:
		return voxel.Air, true
	case y == surface:
		return v.blockAt(x, z), true
	default:
		return voxel.Dirt, true
	}
}

func (v *gridVolume) HeightAt(x, z int) (int, bool) {
	if x < 0 || x >= v.w || z < 0 || z >= v.h {
		return 0, false
	}
	return v.heightAt(x, z), true
}

// TestPlanFlatGrass checks spec.md §8 scenario 1: a flat grass plain
// with no water and no trees yields a roughly circular perimeter,
// centered in the grid, with diameter over 20.
func TestPlanFlatGrass(t *testing.T) {
	vol := &gridVolume{
		w: 64, h: 64, ceiling: 70,
		heightAt: func(x, z int) int { return 64 },
		blockAt:  func(x, z int) voxel.BlockKind { return voxel.GrassBlock },
	}

	plan, ok := Run(planctx.New(false), vol, nil, DefaultConfig())
	if !ok {
		t.Fatal("expected a town site to be found on an open flat plain")
	}
	if len(plan.Perimeter) == 0 {
		t.Fatal("expected a non-empty perimeter")
	}

	minX, maxX, minZ, maxZ := plan.Perimeter[0].X, plan.Perimeter[0].X, plan.Perimeter[0].Z, plan.Perimeter[0].Z
	for _, p := range plan.Perimeter {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Z < minZ {
			minZ = p.Z
		}
		if p.Z > maxZ {
			maxZ = p.Z
		}
	}
	if diam := maxX - minX; diam <= 20 {
		t.Fatalf("perimeter diameter (x) = %d, want > 20", diam)
	}
	cx, cz := (minX+maxX)/2, (minZ+maxZ)/2
	if cx < 16 || cx > 48 || cz < 16 || cz > 48 {
		t.Fatalf("perimeter center (%d,%d) not roughly centered in the 64x64 grid", cx, cz)
	}
}

// TestPlanIsland checks spec.md §8 scenario 2: a land disk of radius
// 20 centered at (32,32) surrounded by deep water produces a town
// site, and every point of the fitted perimeter lies within 2 blocks
// of the island disk, so the perimeter excludes the surrounding water.
func TestPlanIsland(t *testing.T) {
	const cx, cz, radius = 32, 32, 20
	vol := &gridVolume{
		w: 64, h: 64, ceiling: 70,
		heightAt: func(x, z int) int {
			dx, dz := x-cx, z-cz
			if dx*dx+dz*dz <= radius*radius {
				return 64
			}
			return 50 // deep water floor
		},
		blockAt: func(x, z int) voxel.BlockKind {
			dx, dz := x-cx, z-cz
			if dx*dx+dz*dz <= radius*radius {
				return voxel.GrassBlock
			}
			return voxel.Water
		},
	}

	plan, ok := Run(planctx.New(false), vol, nil, DefaultConfig())
	if !ok {
		t.Fatal("expected a town site to be found on the island")
	}

	for _, p := range plan.Perimeter {
		dx, dz := p.X-cx, p.Z-cz
		if dx*dx+dz*dz > (radius+2)*(radius+2) {
			t.Fatalf("perimeter point %v falls well outside the island disk", p)
		}
	}
}

// TestPlanRidge checks spec.md §8 scenario 3: a sharp elevation step
// at x=32 makes the fitted perimeter avoid straddling the ridge line.
func TestPlanRidge(t *testing.T) {
	vol := &gridVolume{
		w: 64, h: 64, ceiling: 80,
		heightAt: func(x, z int) int {
			if x < 32 {
				return 64
			}
			return 72
		},
		blockAt: func(x, z int) voxel.BlockKind { return voxel.GrassBlock },
	}

	plan, ok := Run(planctx.New(false), vol, nil, DefaultConfig())
	if !ok {
		t.Fatal("expected a town site to be found despite the ridge")
	}

	straddling := 0
	for _, p := range plan.Perimeter {
		if p.X == 31 || p.X == 32 {
			straddling++
		}
	}
	if straddling > len(plan.Perimeter)/4 {
		t.Fatalf("perimeter straddles the ridge line at %d of %d points, expected the fit to avoid it", straddling, len(plan.Perimeter))
	}
}

// TestPlanRoadAcrossRiver checks spec.md §8 scenario 4 at the
// orchestrator level: a destination across a river band gets a path
// that bridges the gap with support nodes rather than crossing at
// ground level.
func TestPlanRoadAcrossRiver(t *testing.T) {
	vol := &gridVolume{
		w: 64, h: 64, ceiling: 70,
		heightAt: func(x, z int) int {
			if x >= 28 && x <= 36 {
				return 62
			}
			return 64
		},
		blockAt: func(x, z int) voxel.BlockKind {
			if x >= 28 && x <= 36 {
				return voxel.Water
			}
			return voxel.GrassBlock
		},
	}

	// The grass surface block sits at y=64, so the terrain height (the
	// first air block above it) is 65.
	dest := Destination{
		Start: [3]int32{4, 65, 4},
		Goal:  road.Node{X: 60, Y: 65, Z: 60},
	}

	plan, ok := Run(planctx.New(false), vol, []Destination{dest}, DefaultConfig())
	if !ok {
		t.Fatal("expected a town site to be found")
	}
	if len(plan.Roads) != 1 {
		t.Fatalf("len(plan.Roads) = %d, want 1", len(plan.Roads))
	}

	path := plan.Roads[0]
	for _, n := range path {
		if n.X >= 28 && n.X <= 36 && n.Kind == road.Ground {
			t.Fatalf("Ground node inside the river band: %+v", n)
		}
	}
}

// TestPlanPartitionWithExistingRoad checks spec.md §8 scenario 5: a
// square town crossed by one pre-existing diagonal road keeps that
// road in the plan and still yields at least one plot from the
// partitioner.
func TestPlanPartitionWithExistingRoad(t *testing.T) {
	vol := &gridVolume{
		w: 50, h: 50, ceiling: 70,
		heightAt: func(x, z int) int { return 64 },
		blockAt:  func(x, z int) voxel.BlockKind { return voxel.GrassBlock },
	}

	// Terrain height is 65: the surface block sits at y=64.
	dest := Destination{
		Start: [3]int32{5, 65, 5},
		Goal:  road.Node{X: 45, Y: 65, Z: 45},
	}

	plan, ok := Run(planctx.New(false), vol, []Destination{dest}, DefaultConfig())
	if !ok {
		t.Fatal("expected a town site to be found")
	}
	if len(plan.Roads) != 1 {
		t.Fatalf("len(plan.Roads) = %d, want 1", len(plan.Roads))
	}
	if len(plan.Streets) == 0 {
		t.Fatal("expected at least one plot to be produced by the partitioner")
	}
}

// TestPlanConverges checks spec.md §8 scenario 6 in part: a snake
// evolved for 100 iterations over a homogeneous flat field ends as a
// non-degenerate perimeter (positive mean squared distance from its
// centroid). Growth toward the well's radius and roundness are not
// measured here.
func TestPlanConverges(t *testing.T) {
	vol := &gridVolume{
		w: 64, h: 64, ceiling: 70,
		heightAt: func(x, z int) int { return 64 },
		blockAt:  func(x, z int) voxel.BlockKind { return voxel.GrassBlock },
	}

	cfg := DefaultConfig()
	cfg.Perimeter.Iterations = 100
	cfg.MinSeedRadius = 5

	plan, ok := Run(planctx.New(false), vol, nil, cfg)
	if !ok {
		t.Fatal("expected a town site to be found")
	}

	cx, cz := 0, 0
	for _, p := range plan.Perimeter {
		cx += p.X
		cz += p.Z
	}
	n := len(plan.Perimeter)
	cx /= n
	cz /= n

	var sum, sumSq float64
	for _, p := range plan.Perimeter {
		dx, dz := float64(p.X-cx), float64(p.Z-cz)
		r := (dx*dx + dz*dz)
		sum += r
		sumSq += r * r
	}
	meanSq := sum / float64(n)
	if meanSq <= 0 {
		t.Fatal("degenerate perimeter: zero mean radius")
	}
}
