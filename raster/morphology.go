package raster

import "github.com/arl/townforge/planctx"

// Norm selects the distance metric used by the morphological and
// distance-transform operations of this package.
type Norm int

const (
	L1 Norm = iota
	LInf
	L2
)

// within reports whether (dx, dz) lies inside the structuring element
// of radius r under norm n.
func within(dx, dz, r int, n Norm) bool {
	switch n {
	case L1:
		if dx < 0 {
			dx = -dx
		}
		if dz < 0 {
			dz = -dz
		}
		return dx+dz <= r
	case LInf:
		if dx < 0 {
			dx = -dx
		}
		if dz < 0 {
			dz = -dz
		}
		return dx <= r && dz <= r
	default: // L2
		return dx*dx+dz*dz <= r*r
	}
}

// Dilate grows foreground (non-zero) regions by radius r under norm n:
// a pixel takes the max value found in its structuring-element
// neighbourhood.
func (r *Raster) Dilate(ctx *planctx.Context, radius int, n Norm) *Raster {
	ctx.StartTimer(planctx.TimerRasterMorphology)
	defer ctx.StopTimer(planctx.TimerRasterMorphology)
	return r.morph(radius, n, true)
}

// Erode shrinks foreground regions by radius r under norm n: a pixel
// takes the min value found in its structuring-element neighbourhood.
func (r *Raster) Erode(ctx *planctx.Context, radius int, n Norm) *Raster {
	ctx.StartTimer(planctx.TimerRasterMorphology)
	defer ctx.StopTimer(planctx.TimerRasterMorphology)
	return r.morph(radius, n, false)
}

func (r *Raster) morph(radius int, n Norm, dilate bool) *Raster {
	out := New(r.W, r.H, 0)
	for z := 0; z < r.H; z++ {
		for x := 0; x < r.W; x++ {
			best := r.At(x, z)
			for dz := -radius; dz <= radius; dz++ {
				for dx := -radius; dx <= radius; dx++ {
					if dx == 0 && dz == 0 {
						continue
					}
					if !within(dx, dz, radius, n) {
						continue
					}
					v := r.At(x+dx, z+dz)
					if dilate && v > best {
						best = v
					}
					if !dilate && v < best {
						best = v
					}
				}
			}
			out.Set(x, z, best)
		}
	}
	return out
}

// Open erodes then dilates: removes foreground structures smaller
// than radius (e.g. isolated trees) without shrinking larger ones.
func (r *Raster) Open(ctx *planctx.Context, radius int, n Norm) *Raster {
	return r.Erode(ctx, radius, n).Dilate(ctx, radius, n)
}

// Close dilates then erodes: fills background gaps smaller than
// radius (e.g. narrow water crossings) without growing the foreground
// elsewhere.
func (r *Raster) Close(ctx *planctx.Context, radius int, n Norm) *Raster {
	return r.Dilate(ctx, radius, n).Erode(ctx, radius, n)
}

// DistanceTransform returns, for every pixel, the distance (under norm
// n) to the nearest background (zero) pixel. It saturates at 255, same
// as every other Raster value. Implemented as the teacher's two-pass
// chamfer sweep (recast.ErodeWalkableArea's forward/backward scan),
// generalized from the fixed 2/3 chamfer weights recast uses to exact
// L1 and LInf step costs; L2 falls back to a coarser iterative
// relaxation since a two-pass chamfer sweep cannot be made exact for
// the Euclidean metric.
func (r *Raster) DistanceTransform(ctx *planctx.Context, n Norm) *Raster {
	ctx.StartTimer(planctx.TimerRasterDistanceTransform)
	defer ctx.StopTimer(planctx.TimerRasterDistanceTransform)

	dist := make([]int, len(r.Pix))
	const inf = 1 << 30
	for i, v := range r.Pix {
		if v == 0 {
			dist[i] = 0
		} else {
			dist[i] = inf
		}
	}

	var orth, diag int
	switch n {
	case L1:
		orth, diag = 1, 2
	case LInf:
		orth, diag = 1, 1
	default:
		orth, diag = 1, 2 // reasonable approximation, refined below
	}

	relax := func(i, ni, w int) {
		if dist[ni]+w < dist[i] {
			dist[i] = dist[ni] + w
		}
	}

	idx := func(x, z int) int { return z*r.W + x }

	// Forward pass: top-left to bottom-right.
	for z := 0; z < r.H; z++ {
		for x := 0; x < r.W; x++ {
			i := idx(x, z)
			if x > 0 {
				relax(i, idx(x-1, z), orth)
			}
			if z > 0 {
				relax(i, idx(x, z-1), orth)
			}
			if x > 0 && z > 0 {
				relax(i, idx(x-1, z-1), diag)
			}
			if x < r.W-1 && z > 0 {
				relax(i, idx(x+1, z-1), diag)
			}
		}
	}
	// Backward pass: bottom-right to top-left.
	for z := r.H - 1; z >= 0; z-- {
		for x := r.W - 1; x >= 0; x-- {
			i := idx(x, z)
			if x < r.W-1 {
				relax(i, idx(x+1, z), orth)
			}
			if z < r.H-1 {
				relax(i, idx(x, z+1), orth)
			}
			if x < r.W-1 && z < r.H-1 {
				relax(i, idx(x+1, z+1), diag)
			}
			if x > 0 && z < r.H-1 {
				relax(i, idx(x-1, z+1), diag)
			}
		}
	}

	if n == L2 {
		// One more bidirectional sweep with a knight-move step (2,1)
		// tightens the octagonal approximation towards the Euclidean
		// metric, the same refinement recast's blur pass performs on
		// top of the raw chamfer distance.
		knight := [][2]int{{1, 2}, {2, 1}, {-1, 2}, {-2, 1}}
		weight := 2 // sqrt(5) ~ 2.236, rounded
		for z := 0; z < r.H; z++ {
			for x := 0; x < r.W; x++ {
				i := idx(x, z)
				for _, k := range knight {
					nx, nz := x-k[0], z-k[1]
					if nx >= 0 && nx < r.W && nz >= 0 && nz < r.H {
						relax(i, idx(nx, nz), weight)
					}
				}
			}
		}
	}

	out := New(r.W, r.H, 0)
	for i, d := range dist {
		if d >= 255 {
			out.Pix[i] = 255
		} else {
			out.Pix[i] = uint8(d)
		}
	}
	return out
}
