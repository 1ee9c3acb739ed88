// Package feature implements the FeatureExtractor of spec.md §4.2: it
// projects a voxel volume down to a 2.5-D FeatureSet of height maps
// and derived rasters. Failure is total: any position the voxel
// accessor can't answer for is treated as empty/zero, never an
// exceptional exit, per spec.md §4.2.
package feature

import (
	"github.com/arl/townforge/planctx"
	"github.com/arl/townforge/raster"
	"github.com/arl/townforge/voxel"
)

// Config carries the injectable block-category sets spec.md §6 asks
// for, so the extractor never hardcodes which blocks are foliage,
// water, fertile soil, and so on.
type Config struct {
	Foliage    map[voxel.BlockKind]bool
	Water      map[voxel.BlockKind]bool
	Fertile    map[voxel.BlockKind]bool
	SandLike   map[voxel.BlockKind]bool
	GravelLike map[voxel.BlockKind]bool
	OreLike    map[voxel.BlockKind]bool
}

// DefaultConfig returns the block categories named in spec.md §6.
func DefaultConfig() Config {
	return Config{
		Foliage: map[voxel.BlockKind]bool{voxel.Leaves: true},
		Water:   map[voxel.BlockKind]bool{voxel.Water: true, voxel.WaterSource: true},
		Fertile: map[voxel.BlockKind]bool{
			voxel.GrassBlock: true, voxel.Dirt: true, voxel.Farmland: true,
			voxel.Podzol: true, voxel.CoarseDirt: true,
		},
		SandLike:   map[voxel.BlockKind]bool{voxel.Sand: true, voxel.RedSand: true},
		GravelLike: map[voxel.BlockKind]bool{voxel.Gravel: true},
		OreLike: map[voxel.BlockKind]bool{
			voxel.CoalOre: true, voxel.DiamondOre: true, voxel.EmeraldOre: true,
			voxel.GoldOre: true, voxel.IronOre: true, voxel.LapisLazuliOre: true,
			voxel.RedstoneOre: true,
		},
	}
}

// HeightMap is a (x, z) -> non-negative world-y grid. Unlike Raster it
// is not clamped to 8 bits, since world height can exceed 255.
type HeightMap struct {
	W, H int
	Y    []int32
}

func newHeightMap(w, h int) *HeightMap {
	return &HeightMap{W: w, H: h, Y: make([]int32, w*h)}
}

// At returns the height at (x, z), or 0 if out of bounds.
func (hm *HeightMap) At(x, z int) int32 {
	if x < 0 || x >= hm.W || z < 0 || z >= hm.H {
		return 0
	}
	return hm.Y[z*hm.W+x]
}

func (hm *HeightMap) set(x, z int, y int32) {
	hm.Y[z*hm.W+x] = y
}

// toRaster clamps y to [0,255] for the 8-bit preview rasters named in
// FeatureSet.
func (hm *HeightMap) toRaster() *raster.Raster {
	r := raster.New(hm.W, hm.H, 0)
	for i, y := range hm.Y {
		switch {
		case y < 0:
			r.Pix[i] = 0
		case y > 255:
			r.Pix[i] = 255
		default:
			r.Pix[i] = uint8(y)
		}
	}
	return r
}

// Set bundles every raster and height map the extractor produces,
// published as a unit (spec.md §3). Once returned from Extract it must
// not be mutated.
type Set struct {
	W, H int

	Heights *HeightMap // raw height map (includes foliage)
	Terrain *HeightMap // terrain height map (foliage stripped)

	HeightsRaster *raster.Raster // heights, clamped to uint8
	TerrainRaster *raster.Raster // terrain, clamped to uint8

	WaterDepth    *raster.Raster
	SobelRelief   *raster.Raster
	Scharr        *raster.Raster
	ScharrCleaned *raster.Raster
	Hilltop       *raster.Raster

	Water      *raster.Raster
	Fertile    *raster.Raster
	Sand       *raster.Raster
	Gravel     *raster.Raster
	ExposedOre *raster.Raster
	Forest     *raster.Raster

	Preview *raster.RGB
}

// Extract runs the full FeatureExtractor procedure of spec.md §4.2
// over vol and returns the published FeatureSet.
func Extract(ctx *planctx.Context, vol voxel.Volume, cfg Config) *Set {
	ctx.StartTimer(planctx.TimerFeatureExtract)
	defer ctx.StopTimer(planctx.TimerFeatureExtract)

	w, ylimit, h := vol.Dim()
	fs := &Set{W: w, H: h}

	fs.Heights = rawHeightMap(vol, w, h, ylimit)
	fs.Terrain = terrainHeightMap(vol, fs.Heights, w, h, cfg)

	fs.HeightsRaster = fs.Heights.toRaster()
	fs.TerrainRaster = fs.Terrain.toRaster()

	fs.WaterDepth = waterDepthRaster(vol, fs.Heights, fs.Terrain, w, h, cfg)

	fs.SobelRelief = sobelRelief(fs.TerrainRaster)
	sh, sv, shp, svp := scharrDirectional(fs.TerrainRaster)
	fs.Scharr, fs.ScharrCleaned = scharrMagnitude(sh, sv, shp, svp)
	fs.Hilltop = hilltopStencil(ctx, sh, sv, shp, svp, fs.Scharr)

	fs.Water, fs.Fertile, fs.Sand, fs.Gravel, fs.ExposedOre = columnStencils(vol, fs.Terrain, w, h, cfg)
	fs.Forest = forestStencil(vol, fs.Heights, w, h, cfg)

	fs.Preview = preview(fs)

	ctx.Progressf("feature extraction done: %dx%d", w, h)
	return fs
}

// rawHeightMap records, for every (x,z), the highest non-empty y.
func rawHeightMap(vol voxel.Volume, w, h, ylimit int) *HeightMap {
	hm := newHeightMap(w, h)
	for z := 0; z < h; z++ {
		for x := 0; x < w; x++ {
			if y, ok := vol.HeightAt(x, z); ok {
				hm.set(x, z, int32(y))
				continue
			}
			// fall back to a manual top-down scan
			y := topDownScan(vol, x, ylimit, z)
			hm.set(x, z, int32(y))
		}
	}
	return hm
}

func topDownScan(vol voxel.Volume, x, ylimit, z int) int {
	for y := ylimit - 1; y >= 0; y-- {
		if k, ok := vol.BlockAt(x, y, z); ok && k != voxel.Air {
			return y
		}
	}
	return 0
}

// terrainHeightMap walks downward from the raw height, through both
// foliage and water, until solid ground is found, recording y+1. A
// column with no solid ground anywhere beneath it (e.g. open water
// all the way to bedrock) reports 0, the "no foundation" sentinel.
func terrainHeightMap(vol voxel.Volume, raw *HeightMap, w, h int, cfg Config) *HeightMap {
	passable := func(k voxel.BlockKind) bool { return cfg.Foliage[k] || cfg.Water[k] }

	hm := newHeightMap(w, h)
	for z := 0; z < h; z++ {
		for x := 0; x < w; x++ {
			y := int(raw.At(x, z))
			for y > 0 {
				k, ok := vol.BlockAt(x, y, z)
				if !ok || !passable(k) {
					break
				}
				y--
			}
			k0, ok0 := vol.BlockAt(x, 0, z)
			if y == 0 && (!ok0 || passable(k0)) {
				hm.set(x, z, 0)
			} else {
				hm.set(x, z, int32(y+1))
			}
		}
	}
	return hm
}

// waterDepthRaster walks upward from terrain height through contiguous
// water to raw height, recording the run length.
func waterDepthRaster(vol voxel.Volume, raw, terrain *HeightMap, w, h int, cfg Config) *raster.Raster {
	r := raster.New(w, h, 0)
	for z := 0; z < h; z++ {
		for x := 0; x < w; x++ {
			y := int(terrain.At(x, z))
			top := int(raw.At(x, z))
			depth := 0
			for y < top {
				k, ok := vol.BlockAt(x, y, z)
				if !ok || !cfg.Water[k] {
					break
				}
				depth++
				y++
			}
			if depth > 255 {
				depth = 255
			}
			r.Set(x, z, uint8(depth))
		}
	}
	return r
}

func columnStencils(vol voxel.Volume, terrain *HeightMap, w, h int, cfg Config) (water, fertile, sand, gravel, ore *raster.Raster) {
	water = raster.New(w, h, 0)
	fertile = raster.New(w, h, 0)
	sand = raster.New(w, h, 0)
	gravel = raster.New(w, h, 0)
	ore = raster.New(w, h, 0)

	for z := 0; z < h; z++ {
		for x := 0; x < w; x++ {
			y := int(terrain.At(x, z))
			top, ok := vol.BlockAt(x, y, z)
			if ok && cfg.Water[top] {
				water.Set(x, z, 255)
				continue
			}
			below, ok := vol.BlockAt(x, y-1, z)
			if !ok {
				continue
			}
			switch {
			case cfg.Fertile[below]:
				fertile.Set(x, z, 255)
			case cfg.SandLike[below]:
				sand.Set(x, z, 255)
			case cfg.GravelLike[below]:
				gravel.Set(x, z, 255)
			case cfg.OreLike[below]:
				ore.Set(x, z, 255)
			}
		}
	}
	return
}

func forestStencil(vol voxel.Volume, raw *HeightMap, w, h int, cfg Config) *raster.Raster {
	r := raster.New(w, h, 0)
	for z := 0; z < h; z++ {
		for x := 0; x < w; x++ {
			y := int(raw.At(x, z)) - 1
			k, ok := vol.BlockAt(x, y, z)
			if ok && (cfg.Foliage[k] || k == voxel.Log) {
				r.Set(x, z, 255)
			}
		}
	}
	return r
}

func preview(fs *Set) *raster.RGB {
	rgb := raster.NewRGB(fs.W, fs.H)
	for z := 0; z < fs.H; z++ {
		for x := 0; x < fs.W; x++ {
			switch {
			case fs.Water.At(x, z) == 255:
				rgb.Set(x, z, 40, 90, 200)
			case fs.Forest.At(x, z) == 255:
				rgb.Set(x, z, 30, 120, 40)
			case fs.Sand.At(x, z) == 255:
				rgb.Set(x, z, 220, 200, 140)
			default:
				g := fs.TerrainRaster.At(x, z)
				rgb.Set(x, z, g, g, g)
			}
		}
	}
	return rgb
}
