// Package orchestrator sequences the five planning phases
// (FeatureExtractor, AreaClassifier, PerimeterFitter, RoadRouter,
// AreaPartitioner) into one settlement Plan. It owns no algorithmic
// content of its own: every decision lives in the phase package it
// calls, the same role solomeshbuilder plays over recast's build
// stages.
package orchestrator

import (
	"github.com/arl/townforge/classify"
	"github.com/arl/townforge/feature"
	"github.com/arl/townforge/geom"
	"github.com/arl/townforge/partition"
	"github.com/arl/townforge/perimeter"
	"github.com/arl/townforge/planctx"
	"github.com/arl/townforge/raster"
	"github.com/arl/townforge/road"
	"github.com/arl/townforge/voxel"
)

// Config bundles every phase's tunables, plus the two values spec.md
// leaves as orchestration-level choices: the non-max-suppression
// radius used for town-site candidate selection, and the seed circle
// radius handed to the ACM (clamped to the selected site's own radius
// when that is larger, since seeding outside the candidate's support
// region only wastes early iterations).
type Config struct {
	Feature       feature.Config
	Classify      classify.Config
	Perimeter     perimeter.Config
	Partition     partition.Config
	NMSRadius     int
	MinSeedRadius int
	RoadRouteCfg  road.RouteConfig
}

// DefaultConfig wires every phase's own defaults together.
func DefaultConfig() Config {
	return Config{
		Feature:       feature.DefaultConfig(),
		Classify:      classify.DefaultConfig(),
		Perimeter:     perimeter.DefaultConfig(),
		Partition:     partition.DefaultConfig(),
		NMSRadius:     8,
		MinSeedRadius: 5,
	}
}

// Plan is the sole return value of Run (spec.md §6).
type Plan struct {
	Perimeter perimeter.Snake
	Roads     []road.Path
	Streets   []partition.Plot
}

// Destination is one requested road endpoint: a start/goal pair in
// world voxel coordinates. Start is classified by road.StartAt.
// Goal.Kind is not consulted: the route must arrive at Goal's
// (x, y, z), and when Goal.Y equals the terrain height there the
// arriving node must be Ground (road.FindPath).
type Destination struct {
	Start [3]int32
	Goal  road.Node
}

// heightSource adapts a feature.Set's terrain height map and the
// classifier's town mask into the road.HeightSource a Graph needs: Ground placement is
// blocked wherever the classifier's town mask is 0 (deep water, steep
// terrain, or forest-excluded ground, depending on cfg), matching
// spec.md §4.5's implicit assumption that roads route across the same
// suitability surface the rest of the pipeline respects.
type heightSource struct {
	terrain  *feature.HeightMap
	passable *raster.Raster
}

func (h heightSource) HeightAt(x, z int32) int32 {
	return h.terrain.At(int(x), int(z))
}

func (h heightSource) Blocked(x, z int32) bool {
	return h.passable.At(int(x), int(z)) == 0
}

// Run executes the full pipeline over vol and returns the resulting
// Plan. It returns ok=false only when no town site exists at all
// (spec.md §7's NoCandidateCenter); a destination that A* can't reach
// is simply omitted from Plan.Roads (NoRoadPath), never a hard
// failure for the whole run.
func Run(ctx *planctx.Context, vol voxel.Volume, destinations []Destination, cfg Config) (*Plan, bool) {
	fs := feature.Extract(ctx, vol, cfg.Feature)
	cs := classify.Classify(ctx, fs, cfg.Classify)

	field := perimeter.BuildEnergyField(ctx, fs, cs)
	center, radius, ok := perimeter.SelectTownSite(ctx, field, cfg.NMSRadius)
	if !ok {
		ctx.Warningf("orchestrator: no candidate town site found")
		return nil, false
	}
	if radius < cfg.MinSeedRadius {
		radius = cfg.MinSeedRadius
	}

	seed := perimeter.SeedCircle(center, radius)
	snake := perimeter.Evolve(ctx, seed, field, cfg.Perimeter)

	hs := heightSource{terrain: fs.Terrain, passable: cs.Town}
	graph := &road.Graph{H: hs}

	var roads []road.Path
	for _, d := range destinations {
		start := road.StartAt(d.Start)
		path, ok := road.FindPath(ctx, graph, start, d.Goal, cfg.RoadRouteCfg)
		if !ok {
			ctx.Warningf("orchestrator: no path found to destination %+v", d.Goal)
			continue
		}
		roads = append(roads, path)
	}

	perimeterPts := make([]geom.Point, len(snake))
	copy(perimeterPts, snake)

	res := partition.Partition(ctx, perimeterPts, center, roads, hs, cfg.Partition)

	ctx.Progressf("orchestrator: plan complete, %d roads, %d plots", len(roads), len(res.Plots))

	return &Plan{
		Perimeter: snake,
		Roads:     roads,
		Streets:   res.Plots,
	}, true
}
