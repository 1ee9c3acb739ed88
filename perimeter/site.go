package perimeter

import (
	"github.com/arl/townforge/geom"
	"github.com/arl/townforge/planctx"
	"github.com/arl/townforge/raster"
)

// EnergyBaseline is the neutral value added during energy field
// construction; site selection binarizes around it.
const EnergyBaseline = 127

// SelectTownSite binarizes the energy field at EnergyBaseline (pixels
// at or below the baseline are "good"), runs an LInf distance transform so
// each good pixel encodes its radius to the nearest bad region, then
// keeps only local maxima within nmsRadius. The surviving candidate
// with the largest radius wins; ties favor the smallest (x, z) in
// row-major order, which falls out naturally from scanning forward
// and only replacing the incumbent on a strictly larger value.
func SelectTownSite(ctx *planctx.Context, field *raster.Raster, nmsRadius int) (center geom.Point, radius int, ok bool) {
	good := raster.New(field.W, field.H, 0)
	for i, v := range field.Pix {
		if v <= EnergyBaseline {
			good.Pix[i] = 255
		}
	}

	dt := good.DistanceTransform(ctx, raster.LInf)
	peaks := dt.NonMaxSuppression(nmsRadius)

	var bestVal uint8
	for z := 0; z < peaks.H; z++ {
		for x := 0; x < peaks.W; x++ {
			v := peaks.At(x, z)
			if v == 0 {
				continue
			}
			if !ok || v > bestVal {
				ok = true
				bestVal = v
				center = geom.Point{X: x, Z: z}
			}
		}
	}
	radius = int(bestVal)
	return center, radius, ok
}
