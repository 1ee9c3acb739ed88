package raster

import "github.com/arl/townforge/planctx"

// Connectivity selects the neighbourhood used by ConnectedComponents.
type Connectivity int

const (
	Conn4 Connectivity = iota
	Conn8
)

var dir4 = [4][2]int{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}
var dir8 = [8][2]int{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

// Histogram describes one connected-component label.
type Histogram struct {
	Label            uint16
	Count            int
	MinX, MinZ       int
	MaxX, MaxZ       int
}

// ConnectedComponents labels every maximal run of touching pixels
// equal to fg, under the given connectivity, stack-based flood fill in
// the style of recast.floodRegion. Label 0 means "not foreground";
// labels start at 1. Returns the label raster (widened to uint16, as
// recast widens CompactSpan.reg) and one Histogram entry per label, in
// label order.
func (r *Raster) ConnectedComponents(ctx *planctx.Context, fg uint8, conn Connectivity) ([]uint16, []Histogram) {
	ctx.StartTimer(planctx.TimerRasterConnectedComponents)
	defer ctx.StopTimer(planctx.TimerRasterConnectedComponents)

	labels := make([]uint16, len(r.Pix))
	var hist []Histogram

	neighbours := dir4[:]
	if conn == Conn8 {
		neighbours = dir8[:]
	}

	idx := func(x, z int) int { return z*r.W + x }

	var stack []int
	var nextLabel uint16 = 1
	for z0 := 0; z0 < r.H; z0++ {
		for x0 := 0; x0 < r.W; x0++ {
			i0 := idx(x0, z0)
			if r.Pix[i0] != fg || labels[i0] != 0 {
				continue
			}
			label := nextLabel
			nextLabel++
			h := Histogram{Label: label, MinX: x0, MaxX: x0, MinZ: z0, MaxZ: z0}

			stack = stack[:0]
			stack = append(stack, i0)
			labels[i0] = label
			for len(stack) > 0 {
				i := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				x, z := i%r.W, i/r.W

				h.Count++
				if x < h.MinX {
					h.MinX = x
				}
				if x > h.MaxX {
					h.MaxX = x
				}
				if z < h.MinZ {
					h.MinZ = z
				}
				if z > h.MaxZ {
					h.MaxZ = z
				}

				for _, d := range neighbours {
					nx, nz := x+d[0], z+d[1]
					if nx < 0 || nx >= r.W || nz < 0 || nz >= r.H {
						continue
					}
					ni := idx(nx, nz)
					if r.Pix[ni] == fg && labels[ni] == 0 {
						labels[ni] = label
						stack = append(stack, ni)
					}
				}
			}
			hist = append(hist, h)
		}
	}
	return labels, hist
}

// NonMaxSuppression retains only pixels that are the strict maximum
// within their (2*radius+1)^2 window, zeroing everything else.
// Ties are broken in favour of the earlier (row-major) pixel: a later
// candidate equal to the running max does not suppress it.
func (r *Raster) NonMaxSuppression(radius int) *Raster {
	out := New(r.W, r.H, 0)
	for z := 0; z < r.H; z++ {
		for x := 0; x < r.W; x++ {
			v := r.At(x, z)
			if v == 0 {
				continue
			}
			isMax := true
		scan:
			for dz := -radius; dz <= radius; dz++ {
				for dx := -radius; dx <= radius; dx++ {
					if dx == 0 && dz == 0 {
						continue
					}
					nv := r.At(x+dx, z+dz)
					if nv > v {
						isMax = false
						break scan
					}
					if nv == v {
						// earlier (row-major) pixel wins the tie
						if dz < 0 || (dz == 0 && dx < 0) {
							isMax = false
							break scan
						}
					}
				}
			}
			if isMax {
				out.Set(x, z, v)
			}
		}
	}
	return out
}
