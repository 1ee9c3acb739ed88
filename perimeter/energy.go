// Package perimeter implements the PerimeterFitter: it builds an
// EnergyField from a feature.Set and classify.Set, selects a town
// site, and evolves a closed snake (Active Contour Model) towards it.
package perimeter

import (
	"github.com/arl/townforge/classify"
	"github.com/arl/townforge/feature"
	"github.com/arl/townforge/planctx"
	"github.com/arl/townforge/raster"
)

// BuildEnergyField assembles the per-pixel wall-placement cost field:
// squared water depth, each water pixel's L1 distance to the nearest
// land scaled by 4 (zero on land), steep-terrain
// exclusion zones, the inverse town mask, a neutral 127 baseline, and
// a hilltop reward, each combined with a saturating add, in this
// exact order.
func BuildEnergyField(ctx *planctx.Context, fs *feature.Set, cs *classify.Set) *raster.Raster {
	ctx.StartTimer(planctx.TimerPerimeterEnergy)
	defer ctx.StopTimer(planctx.TimerPerimeterEnergy)

	wd2 := square(fs.WaterDepth)
	distWater := fs.Water.DistanceTransform(ctx, raster.L1).MulConstSaturating(4)
	steep := fs.Scharr.Threshold(16).Close(ctx, 3, raster.LInf)
	notTown := cs.Town.Invert()

	field := wd2.AddSaturating(distWater).AddSaturating(steep).AddSaturating(notTown)
	field = field.AddConstSaturating(127).SubSaturating(fs.Hilltop)
	return field
}

// square saturating-squares every pixel.
func square(r *raster.Raster) *raster.Raster {
	out := raster.New(r.W, r.H, 0)
	for i, v := range r.Pix {
		sq := int(v) * int(v)
		if sq > 255 {
			sq = 255
		}
		out.Pix[i] = uint8(sq)
	}
	return out
}
