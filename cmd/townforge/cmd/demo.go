package cmd

import (
	"fmt"

	"github.com/arl/townforge/orchestrator"
	"github.com/arl/townforge/voxel"
)

// PlanConfig is the YAML-serializable subset of settings this CLI
// exposes. It is deliberately flatter than orchestrator.Config: most
// tunables (block classifications, energy weights, support costs) are
// compiled-in defaults a command-line user has no reason to touch, in
// the same spirit as recast.yml only exposing the handful of knobs a
// navmesh build actually varies.
type PlanConfig struct {
	// Width and Height size the demo voxel volume used in lieu of a
	// real save-file load (voxel I/O is explicitly out of scope).
	Width, Height int

	// Preset selects the demo terrain shape: "flat", "island" or
	// "ridge", matching three of spec.md §8's end-to-end scenarios.
	Preset string

	NMSRadius       int
	SeedRadius      int
	Iterations      int
	CandidateRadius int
}

// DefaultPlanConfig matches orchestrator.DefaultConfig's numeric
// knobs over a 64x64 flat demo volume.
func DefaultPlanConfig() PlanConfig {
	oc := orchestrator.DefaultConfig()
	return PlanConfig{
		Width:           64,
		Height:          64,
		Preset:          "flat",
		NMSRadius:       oc.NMSRadius,
		SeedRadius:      oc.MinSeedRadius,
		Iterations:      oc.Perimeter.Iterations,
		CandidateRadius: oc.Perimeter.CandidateRadius,
	}
}

// toOrchestratorConfig overlays pc's exposed knobs onto an otherwise
// default orchestrator.Config.
func (pc PlanConfig) toOrchestratorConfig() orchestrator.Config {
	oc := orchestrator.DefaultConfig()
	oc.NMSRadius = pc.NMSRadius
	oc.MinSeedRadius = pc.SeedRadius
	oc.Perimeter.Iterations = pc.Iterations
	oc.Perimeter.CandidateRadius = pc.CandidateRadius
	return oc
}

// demoVolume is a synthetic voxel.Volume built straight from a
// PlanConfig, standing in for a real save-file load.
type demoVolume struct {
	w, h, ceiling int
	heightAt      func(x, z int) int
	blockAt       func(x, z int) voxel.BlockKind
}

func (v *demoVolume) Dim() (int, int, int) { return v.w, v.ceiling, v.h }

func (v *demoVolume) BlockAt(x, y, z int) (voxel.BlockKind, bool) {
	if x < 0 || x >= v.w || z < 0 || z >= v.h || y < 0 || y >= v.ceiling {
		return voxel.Air, false
	}
	surface := v.heightAt(x, z)
	switch {
	case y > surface:
		return voxel.Air, true
	case y == surface:
		return v.blockAt(x, z), true
	default:
		return voxel.Dirt, true
	}
}

func (v *demoVolume) HeightAt(x, z int) (int, bool) {
	if x < 0 || x >= v.w || z < 0 || z >= v.h {
		return 0, false
	}
	return v.heightAt(x, z), true
}

// buildDemoVolume turns pc.Preset into a voxel.Volume. An empty preset
// selects "flat"; an unrecognized preset is an error.
func buildDemoVolume(pc PlanConfig) (voxel.Volume, error) {
	w, h := pc.Width, pc.Height
	switch pc.Preset {
	case "", "flat":
		return &demoVolume{
			w: w, h: h, ceiling: 70,
			heightAt: func(x, z int) int { return 64 },
			blockAt:  func(x, z int) voxel.BlockKind { return voxel.GrassBlock },
		}, nil
	case "island":
		cx, cz, radius := w/2, h/2, w/4
		return &demoVolume{
			w: w, h: h, ceiling: 70,
			heightAt: func(x, z int) int {
				dx, dz := x-cx, z-cz
				if dx*dx+dz*dz <= radius*radius {
					return 64
				}
				return 50
			},
			blockAt: func(x, z int) voxel.BlockKind {
				dx, dz := x-cx, z-cz
				if dx*dx+dz*dz <= radius*radius {
					return voxel.GrassBlock
				}
				return voxel.Water
			},
		}, nil
	case "ridge":
		mid := w / 2
		return &demoVolume{
			w: w, h: h, ceiling: 80,
			heightAt: func(x, z int) int {
				if x < mid {
					return 64
				}
				return 72
			},
			blockAt: func(x, z int) voxel.BlockKind { return voxel.GrassBlock },
		}, nil
	default:
		return nil, fmt.Errorf("unknown preset %q (want flat, island or ridge)", pc.Preset)
	}
}
