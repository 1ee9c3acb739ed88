// Package classify implements the AreaClassifier: it turns a
// feature.Set into named suitability masks, each an independent pure
// function with no mutable state shared between them.
package classify

import (
	"github.com/arl/townforge/feature"
	"github.com/arl/townforge/planctx"
	"github.com/arl/townforge/raster"
)

// Config carries the tunables spec.md §4.3 leaves open: the forest
// exclusion for the town mask is optional and disabled by default, and
// snow is not produced by the FeatureExtractor, so it's accepted here
// as an optional override raster (nil means no snow anywhere).
type Config struct {
	ExcludeForest         bool
	ForestExclusionRadius int // dilation radius, only used when ExcludeForest is set
	Snow                  *raster.Raster
}

// DefaultConfig matches spec.md §4.3's defaults: forest exclusion off.
func DefaultConfig() Config {
	return Config{ExcludeForest: false, ForestExclusionRadius: 3}
}

// Set bundles the four named masks.
type Set struct {
	Town                    *raster.Raster
	Woodcutters             *raster.Raster
	Agriculture             *raster.Raster
	AgricultureWithoutTrees *raster.Raster
}

// Classify runs every mask function over fs and returns the bundle.
func Classify(ctx *planctx.Context, fs *feature.Set, cfg Config) *Set {
	ctx.StartTimer(planctx.TimerClassify)
	defer ctx.StopTimer(planctx.TimerClassify)

	agri := Agriculture(fs, cfg)
	return &Set{
		Town:                    Town(ctx, fs, cfg),
		Woodcutters:             Woodcutters(ctx, fs),
		Agriculture:             agri,
		AgricultureWithoutTrees: agricultureExcludingForest(agri, fs),
	}
}

// Town starts from the water raster, inverts to land, closes then
// opens (L1, radius 2) to extend land two blocks into water and drop
// peninsulas under two blocks wide, then intersects with the inverted
// threshold(scharr, 64) (flat ground). The forest exclusion is applied
// only when cfg.ExcludeForest is set.
func Town(ctx *planctx.Context, fs *feature.Set, cfg Config) *raster.Raster {
	land := fs.Water.Invert()
	closed := land.Close(ctx, 2, raster.L1)
	opened := closed.Open(ctx, 2, raster.L1)

	flat := fs.Scharr.Threshold(64).Invert()
	mask := opened.Min(flat)

	if cfg.ExcludeForest {
		notForest := fs.Forest.Dilate(ctx, cfg.ForestExclusionRadius, raster.L1).Invert()
		mask = mask.Min(notForest)
	}
	return mask
}

// Woodcutters clones the forest mask, closes (L1, radius 5) then opens
// (L1, radius 10): drops isolated trees and consolidates dense
// patches into harvestable stands.
func Woodcutters(ctx *planctx.Context, fs *feature.Set) *raster.Raster {
	closed := fs.Forest.Close(ctx, 5, raster.L1)
	return closed.Open(ctx, 10, raster.L1)
}

// Agriculture clones the fertile mask and zeroes any pixel where
// threshold(scharr, 32) or the snow override is set.
func Agriculture(fs *feature.Set, cfg Config) *raster.Raster {
	exclude := fs.Scharr.Threshold(32)
	if cfg.Snow != nil {
		exclude = exclude.Max(cfg.Snow)
	}
	return fs.Fertile.SubSaturating(exclude)
}

// agricultureExcludingForest additionally zeroes where forest is set.
func agricultureExcludingForest(agri *raster.Raster, fs *feature.Set) *raster.Raster {
	return agri.SubSaturating(fs.Forest)
}
