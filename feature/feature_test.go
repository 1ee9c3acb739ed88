package feature

import (
	"testing"

	"github.com/arl/townforge/planctx"
	"github.com/arl/townforge/voxel"
)

// fakeVolume is a small in-memory voxel.Volume for testing, built from
// a single column template repeated over the whole footprint.
type fakeVolume struct {
	w, ylimit, h int
	column       []voxel.BlockKind // indexed by y, column[y] for all (x,z)
}

func (v *fakeVolume) Dim() (int, int, int) { return v.w, v.ylimit, v.h }

func (v *fakeVolume) BlockAt(x, y, z int) (voxel.BlockKind, bool) {
	if x < 0 || x >= v.w || z < 0 || z >= v.h || y < 0 || y >= len(v.column) {
		return voxel.Air, false
	}
	return v.column[y], true
}

func (v *fakeVolume) HeightAt(x, z int) (int, bool) {
	if x < 0 || x >= v.w || z < 0 || z >= v.h {
		return 0, false
	}
	for y := len(v.column) - 1; y >= 0; y-- {
		if v.column[y] != voxel.Air {
			return y, true
		}
	}
	return 0, false
}

// TestExtractAllWater checks spec.md §8: constructing a FeatureSet
// over an all-water world (no solid ground anywhere in the column)
// yields water=255 everywhere, terrain=0, and water_depth=raw_height.
func TestExtractAllWater(t *testing.T) {
	column := make([]voxel.BlockKind, 8)
	for y := range column {
		column[y] = voxel.Water
	}
	vol := &fakeVolume{w: 4, ylimit: 8, h: 4, column: column}

	fs := Extract(planctx.New(false), vol, DefaultConfig())

	for z := 0; z < fs.H; z++ {
		for x := 0; x < fs.W; x++ {
			if fs.Water.At(x, z) != 255 {
				t.Fatalf("Water.At(%d,%d) = %d, want 255", x, z, fs.Water.At(x, z))
			}
			if fs.Terrain.At(x, z) != 0 {
				t.Fatalf("Terrain.At(%d,%d) = %d, want 0", x, z, fs.Terrain.At(x, z))
			}
			wantDepth := fs.Heights.At(x, z)
			if int32(fs.WaterDepth.At(x, z)) != wantDepth {
				t.Fatalf("WaterDepth.At(%d,%d) = %d, want %d", x, z, fs.WaterDepth.At(x, z), wantDepth)
			}
		}
	}
}

// TestExtractFlatGrass checks spec.md §8: a perfectly flat grass field
// is fertile everywhere, and away from the border has zero gradient
// response and reports sobel_relief at its neutral midpoint.
// Convolutions zero-extend, so the outer pixels see a height step
// at the raster edge; the gradient and hilltop checks skip a 3-pixel
// border for that reason.
func TestExtractFlatGrass(t *testing.T) {
	column := make([]voxel.BlockKind, 5)
	column[0] = voxel.Dirt
	column[1] = voxel.GrassBlock
	vol := &fakeVolume{w: 16, ylimit: 5, h: 16, column: column}

	fs := Extract(planctx.New(false), vol, DefaultConfig())

	const border = 3
	for z := 0; z < fs.H; z++ {
		for x := 0; x < fs.W; x++ {
			if fs.Fertile.At(x, z) != 255 {
				t.Fatalf("Fertile.At(%d,%d) = %d, want 255 (grass is fertile)", x, z, fs.Fertile.At(x, z))
			}
			if x < border || x >= fs.W-border || z < border || z >= fs.H-border {
				continue
			}
			if fs.Scharr.At(x, z) != 0 {
				t.Fatalf("Scharr.At(%d,%d) = %d, want 0 on flat terrain", x, z, fs.Scharr.At(x, z))
			}
			if fs.SobelRelief.At(x, z) != 128 {
				t.Fatalf("SobelRelief.At(%d,%d) = %d, want 128 on flat terrain", x, z, fs.SobelRelief.At(x, z))
			}
			if fs.Hilltop.At(x, z) != 0 {
				t.Fatalf("Hilltop.At(%d,%d) = %d, want 0 on flat terrain", x, z, fs.Hilltop.At(x, z))
			}
		}
	}
}

// bumpVolume is a voxel.Volume whose surface height is a per-column
// function, letting TestExtractHilltopOnBump describe a raised square
// without a fakeVolume's single shared column.
type bumpVolume struct {
	w, h, ceiling int
	heightAt      func(x, z int) int
}

func (v *bumpVolume) Dim() (int, int, int) { return v.w, v.ceiling, v.h }

func (v *bumpVolume) BlockAt(x, y, z int) (voxel.BlockKind, bool) {
	if x < 0 || x >= v.w || z < 0 || z >= v.h || y < 0 || y >= v.ceiling {
		return voxel.Air, false
	}
	surface := v.heightAt(x, z)
	switch {
	case y > surface:
		return voxel.Air, true
	case y == surface:
		return voxel.GrassBlock, true
	default:
		return voxel.Dirt, true
	}
}

func (v *bumpVolume) HeightAt(x, z int) (int, bool) {
	if x < 0 || x >= v.w || z < 0 || z >= v.h {
		return 0, false
	}
	return v.heightAt(x, z), true
}

// TestExtractHilltopOnBump checks spec.md §4.2: a raised plateau
// surrounded by flat ground produces a nonzero Hilltop response at its
// rim (locally convex upward), unlike the flat case.
func TestExtractHilltopOnBump(t *testing.T) {
	vol := &bumpVolume{
		w: 16, h: 16, ceiling: 10,
		heightAt: func(x, z int) int {
			if x >= 6 && x <= 9 && z >= 6 && z <= 9 {
				return 6
			}
			return 4
		},
	}

	fs := Extract(planctx.New(false), vol, DefaultConfig())

	sawHilltop := false
	for z := 0; z < fs.H; z++ {
		for x := 0; x < fs.W; x++ {
			if fs.Hilltop.At(x, z) != 0 {
				sawHilltop = true
			}
		}
	}
	if !sawHilltop {
		t.Fatal("expected a nonzero Hilltop response around a raised plateau")
	}
}
