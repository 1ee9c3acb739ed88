package feature

import (
	"github.com/arl/townforge/planctx"
	"github.com/arl/townforge/raster"
)

// The four directional kernels are the standard Sobel/Scharr Gx and
// Gy operators and their negations. Because Raster.Convolve3x3
// saturates into uint8, a kernel and its negation each capture one
// side of the gradient (values on the other side clip to 0) — this is
// what spec.md §4.2 means by "directional": not four distinct compass
// kernels, but the same two axes read as one-sided responses.
var (
	sobelGx = raster.Kernel3x3{-1, 0, 1, -2, 0, 2, -1, 0, 1}
	sobelGy = raster.Kernel3x3{-1, -2, -1, 0, 0, 0, 1, 2, 1}

	scharrGx = raster.Kernel3x3{-3, 0, 3, -10, 0, 10, -3, 0, 3}
	scharrGy = raster.Kernel3x3{-3, -10, -3, 0, 0, 0, 3, 10, 3}
)

func negate(k raster.Kernel3x3) raster.Kernel3x3 {
	var out raster.Kernel3x3
	for i, v := range k {
		out[i] = -v
	}
	return out
}

func half(k raster.Kernel3x3) raster.Kernel3x3 {
	var out raster.Kernel3x3
	for i, v := range k {
		out[i] = v * 0.5
	}
	return out
}

// scharrDirectional convolves terrain with each of the four halved
// Scharr kernels (Gx, Gy, -Gx, -Gy), the shared inputs scharrMagnitude
// sums into the overall gradient magnitude and hilltopStencil
// reconvolves to find local convexity.
func scharrDirectional(terrain *raster.Raster) (h, v, hp, vp *raster.Raster) {
	h = terrain.Convolve3x3(half(scharrGx))
	v = terrain.Convolve3x3(half(scharrGy))
	hp = terrain.Convolve3x3(half(negate(scharrGx)))
	vp = terrain.Convolve3x3(half(negate(scharrGy)))
	return h, v, hp, vp
}

// sobelRelief combines the four directional Sobel responses as
// 128 - (h+v)/3 + (h'+v')/3, per spec.md §4.2.
func sobelRelief(terrain *raster.Raster) *raster.Raster {
	h := terrain.Convolve3x3(sobelGx)
	v := terrain.Convolve3x3(sobelGy)
	hp := terrain.Convolve3x3(negate(sobelGx))
	vp := terrain.Convolve3x3(negate(sobelGy))

	out := raster.New(terrain.W, terrain.H, 0)
	for z := 0; z < terrain.H; z++ {
		for x := 0; x < terrain.W; x++ {
			val := 128 - (int(h.At(x, z))+int(v.At(x, z)))/3 + (int(hp.At(x, z))+int(vp.At(x, z)))/3
			out.Set(x, z, clamp8(val))
		}
	}
	return out
}

// scharrMagnitude saturating-sums the four halved directional Scharr
// responses into an overall gradient-magnitude raster, and derives
// scharr_cleaned by zeroing values below 32.
func scharrMagnitude(h, v, hp, vp *raster.Raster) (scharr, cleaned *raster.Raster) {
	scharr = h.AddSaturating(v).AddSaturating(hp).AddSaturating(vp)

	cleaned = raster.New(scharr.W, scharr.H, 0)
	for i, val := range scharr.Pix {
		if val >= 32 {
			cleaned.Pix[i] = val
		}
	}
	return scharr, cleaned
}

// hilltopStencil finds pixels that are locally convex upward: for
// each of the same four halved directional Scharr outputs
// scharrMagnitude built, threshold at 9 and reconvolve with the
// opposite direction's halved kernel, saturating-sum the four results,
// dilate by radius 1, then subtract the thresholded overall Scharr
// magnitude (clamped to 0 by SubSaturating).
func hilltopStencil(ctx *planctx.Context, h, v, hp, vp, scharr *raster.Raster) *raster.Raster {
	responses := []*raster.Raster{h, v, hp, vp}
	kernels := []raster.Kernel3x3{half(scharrGx), half(scharrGy), half(negate(scharrGx)), half(negate(scharrGy))}
	opposite := []int{2, 3, 0, 1}

	var acc *raster.Raster
	for i := range responses {
		thresholded := responses[i].Threshold(9)
		reconv := thresholded.Convolve3x3(kernels[opposite[i]])
		if acc == nil {
			acc = reconv
		} else {
			acc = acc.AddSaturating(reconv)
		}
	}

	dilated := acc.Dilate(ctx, 1, raster.LInf)
	return dilated.SubSaturating(scharr.Threshold(9))
}

func clamp8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
