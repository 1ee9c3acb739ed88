package classify

import (
	"testing"

	"github.com/arl/townforge/feature"
	"github.com/arl/townforge/planctx"
	"github.com/arl/townforge/raster"
)

func flatFeatureSet(w, h int) *feature.Set {
	return &feature.Set{
		W: w, H: h,
		Water:   raster.New(w, h, 0),
		Scharr:  raster.New(w, h, 0),
		Fertile: raster.New(w, h, 255),
		Forest:  raster.New(w, h, 0),
	}
}

// TestTownMaskFlatGrass checks spec.md §8: over perfectly flat grass
// with no water and no trees, the town mask is 255 everywhere
// sufficiently inside the bounds (morphological closing/opening eats a
// border strip of radius 2).
func TestTownMaskFlatGrass(t *testing.T) {
	fs := flatFeatureSet(64, 64)
	ctx := planctx.New(false)

	town := Town(ctx, fs, DefaultConfig())

	for z := 4; z < 60; z++ {
		for x := 4; x < 60; x++ {
			if town.At(x, z) != 255 {
				t.Fatalf("Town.At(%d,%d) = %d, want 255 on flat grass interior", x, z, town.At(x, z))
			}
		}
	}
}

func TestAgricultureExcludesSteepAndForest(t *testing.T) {
	fs := flatFeatureSet(10, 10)
	fs.Scharr.Set(5, 5, 200)
	fs.Forest.Set(2, 2, 255)

	agri := Agriculture(fs, DefaultConfig())
	if agri.At(5, 5) != 0 {
		t.Fatalf("Agriculture.At(5,5) = %d, want 0 (steep)", agri.At(5, 5))
	}
	if agri.At(2, 2) != 255 {
		t.Fatalf("Agriculture.At(2,2) = %d, want 255 (forest allowed in agriculture)", agri.At(2, 2))
	}

	noTrees := agricultureExcludingForest(agri, fs)
	if noTrees.At(2, 2) != 0 {
		t.Fatalf("AgricultureWithoutTrees.At(2,2) = %d, want 0", noTrees.At(2, 2))
	}
	if noTrees.At(0, 0) != 255 {
		t.Fatalf("AgricultureWithoutTrees.At(0,0) = %d, want 255", noTrees.At(0, 0))
	}
}
