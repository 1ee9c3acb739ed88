package perimeter

import (
	"github.com/arl/gogeo/f32/d3"
	"github.com/arl/math32"
	"github.com/arl/townforge/geom"
	"github.com/arl/townforge/planctx"
	"github.com/arl/townforge/raster"
)

// Snake is a closed polyline: point i's neighbors are i-1 and i+1 mod
// len(Snake), never linked by pointers.
type Snake []geom.Point

// Weights are the four energy-term coefficients spec.md §4.4 names.
type Weights struct {
	Alpha float32 // E_dist
	Beta  float32 // E_curv
	Gamma float32 // E_ext
	Delta float32 // E_inflate
}

// DefaultWeights matches spec.md §4.4's defaults.
func DefaultWeights() Weights {
	return Weights{Alpha: 0.60, Beta: 0.40, Gamma: 0.10, Delta: 5.0}
}

// Config bundles the ACM evolution's tunables.
type Config struct {
	Iterations      int // default 100
	CandidateRadius int // R in the (2R+1)^2 neighborhood, default 3
	Weights         Weights
}

// DefaultConfig matches spec.md §4.4's defaults.
func DefaultConfig() Config {
	return Config{Iterations: 100, CandidateRadius: 3, Weights: DefaultWeights()}
}

// SeedCircle builds the initial snake: N = 2*radius evenly spaced
// points on a circle centered at center with the given radius.
func SeedCircle(center geom.Point, radius int) Snake {
	n := 2 * radius
	if n < 3 {
		n = 3
	}
	snake := make(Snake, n)
	for i := 0; i < n; i++ {
		theta := 2 * math32.Pi * float32(i) / float32(n)
		x := float32(center.X) + float32(radius)*math32.Cos(theta)
		z := float32(center.Z) + float32(radius)*math32.Sin(theta)
		snake[i] = geom.Point{X: iround(x), Z: iround(z)}
	}
	return snake
}

func iround(v float32) int {
	if v >= 0 {
		return int(v + 0.5)
	}
	return int(v - 0.5)
}

// Evolve runs cfg.Iterations steps of the ACM evolution starting from
// seed against field, and returns the terminal snake.
func Evolve(ctx *planctx.Context, seed Snake, field *raster.Raster, cfg Config) Snake {
	ctx.StartTimer(planctx.TimerPerimeterEvolve)
	defer ctx.StopTimer(planctx.TimerPerimeterEvolve)

	snake := make(Snake, len(seed))
	copy(snake, seed)
	for step := 0; step < cfg.Iterations; step++ {
		snake = stepOnce(snake, field, cfg)
	}
	return snake
}

// stepOnce performs one Jacobi update: every point's replacement is
// computed against the snake as it stood at the start of the step, and
// all replacements are applied simultaneously at the end.
func stepOnce(snake Snake, field *raster.Raster, cfg Config) Snake {
	n := len(snake)
	meanLen := meanSegmentLength(snake)
	next := make(Snake, n)

	for i := 0; i < n; i++ {
		prev := snake[(i-1+n)%n]
		cur := snake[i]
		nxt := snake[(i+1)%n]

		best := geom.Point{X: clampInt(cur.X, 0, field.W-1), Z: clampInt(cur.Z, 0, field.H-1)}
		bestE := energy(best, cur, prev, nxt, meanLen, field, cfg.Weights)

		for _, cand := range candidates(cur, cfg.CandidateRadius, field.W, field.H) {
			e := energy(cand, cur, prev, nxt, meanLen, field, cfg.Weights)
			if e < bestE || (e == bestE && lessRowMajor(cand, best)) {
				bestE = e
				best = cand
			}
		}
		next[i] = best
	}
	return next
}

func lessRowMajor(a, b geom.Point) bool {
	if a.Z != b.Z {
		return a.Z < b.Z
	}
	return a.X < b.X
}

// candidates enumerates every point in the (2R+1)^2 neighborhood of
// center, center included, clamped to [0,w)x[0,h) so the snake can
// never step outside the field — matching walled_town.rs's
// neighbourhood(), which saturating-clamps the same way rather than
// letting an out-of-bounds candidate read as artificially cheap.
func candidates(center geom.Point, r, w, h int) []geom.Point {
	out := make([]geom.Point, 0, (2*r+1)*(2*r+1))
	for dz := -r; dz <= r; dz++ {
		z := clampInt(center.Z+dz, 0, h-1)
		for dx := -r; dx <= r; dx++ {
			x := clampInt(center.X+dx, 0, w-1)
			out = append(out, geom.Point{X: x, Z: z})
		}
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func meanSegmentLength(snake Snake) float32 {
	n := len(snake)
	var total float32
	for i := 0; i < n; i++ {
		a, b := snake[i], snake[(i+1)%n]
		total += dist(a, b)
	}
	return total / float32(n)
}

// toVec3 lifts an integer raster point into the continuous domain (z
// held at 0) so the ACM's distance and cross-product terms can reuse
// gogeo's Vec3 arithmetic instead of hand-rolled float math, the same
// scratch-vector convention recast/detour use for every float-domain
// computation over otherwise-integer data.
func toVec3(p geom.Point) d3.Vec3 {
	return d3.NewVec3XYZ(float32(p.X), 0, float32(p.Z))
}

func dist(a, b geom.Point) float32 {
	return toVec3(a).Dist2D(toVec3(b))
}

// cross2D is the 2-D cross product of (nxt-prev) and (prev-p), the
// term spec.md §4.4 uses to drive the snake outward along the local
// normal.
func cross2D(p, prev, nxt geom.Point) float32 {
	u := toVec3(nxt).Sub(toVec3(prev))
	v := toVec3(prev).Sub(toVec3(p))
	return v.Perp2D(u)
}

// energy computes the weighted 4-term ACM energy of placing point i at
// candidate p, given its original position orig and its snake
// neighbors prev/nxt (fixed for the whole step, per the Jacobi
// update).
func energy(p, orig, prev, nxt geom.Point, meanLen float32, field *raster.Raster, w Weights) float32 {
	eDist := (math32.Abs(dist(p, prev)-meanLen) + math32.Abs(dist(p, nxt)-meanLen)) / 2

	cx := float32(prev.X - 2*p.X + nxt.X)
	cz := float32(prev.Z - 2*p.Z + nxt.Z)
	eCurv := cx*cx + cz*cz

	eExt := float32(field.At(p.X, p.Z))

	denom := dist(nxt, prev)
	var eInflate float32
	if denom != 0 {
		crossOld := cross2D(orig, prev, nxt)
		crossNew := cross2D(p, prev, nxt)
		eInflate = math32.Abs((crossNew-crossOld)/denom - 1)
	}
	// denom == 0 means prev == nxt: the inflation term is undefined
	// (spec.md §9), clamped to zero rather than propagating NaN.

	return w.Alpha*eDist + w.Beta*eCurv + w.Gamma*eExt + w.Delta*eInflate
}
