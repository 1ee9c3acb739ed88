package geom

import "math"

// Line rasterizes the 3-D segment a-b with a DDA stepper: the point
// count equals max(|dx|, |dy|, |dz|) + 1, matching every other integer
// rasterization primitive in this package (no floating accumulation
// error from naive repeated addition — each sample is computed
// directly from the step index).
func Line(a, b Point3) []Point3 {
	dx, dy, dz := b.X-a.X, b.Y-a.Y, b.Z-a.Z
	steps := iabs(dx)
	if iabs(dy) > steps {
		steps = iabs(dy)
	}
	if iabs(dz) > steps {
		steps = iabs(dz)
	}
	if steps == 0 {
		return []Point3{a}
	}
	pts := make([]Point3, 0, steps+1)
	for i := 0; i <= steps; i++ {
		pts = append(pts, Point3{
			X: a.X + divRound(dx*i, steps),
			Y: a.Y + divRound(dy*i, steps),
			Z: a.Z + divRound(dz*i, steps),
		})
	}
	return pts
}

// Line2D rasterizes the 2-D segment a-b the same way, for callers
// (perimeter/partition drawing) that never carry a y-coordinate.
func Line2D(a, b Point) []Point {
	dx, dz := b.X-a.X, b.Z-a.Z
	steps := iabs(dx)
	if iabs(dz) > steps {
		steps = iabs(dz)
	}
	if steps == 0 {
		return []Point{a}
	}
	pts := make([]Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		pts = append(pts, Point{
			X: a.X + divRound(dx*i, steps),
			Z: a.Z + divRound(dz*i, steps),
		})
	}
	return pts
}

// ThickLine2D rasterizes a-b with width w (w==1 degenerates to Line2D)
// by replicating the segment along the perpendicular unit vector at
// sub-unit precision (fixed-point scale 100, as spec.md §4.7
// prescribes), sampling one half-unit offset k/2 per integer k in
// [1-w, w-1] and downscaling each probe back to integer coordinates.
// This produces a gap-free polyline of width w.
func ThickLine2D(a, b Point, w int) []Point {
	if w <= 1 {
		return Line2D(a, b)
	}
	dx, dz := float64(b.X-a.X), float64(b.Z-a.Z)
	length := hypot(dx, dz)
	if length == 0 {
		return Line2D(a, b)
	}
	// Perpendicular unit vector, scaled by the fixed-point factor.
	const fp = 100.0
	px := -dz / length * fp
	pz := dx / length * fp

	var out []Point
	for k := 1 - w; k <= w-1; k++ {
		offX := px * float64(k) / (2 * fp)
		offZ := pz * float64(k) / (2 * fp)
		oa := Point{X: a.X + iround(offX), Z: a.Z + iround(offZ)}
		ob := Point{X: b.X + iround(offX), Z: b.Z + iround(offZ)}
		out = append(out, Line2D(oa, ob)...)
	}
	return out
}

// DoubleLine2D rasterizes two parallel narrow lines offset by spacing
// on either side of a-b's perpendicular, e.g. the inner/outer faces of
// a town wall.
func DoubleLine2D(a, b Point, spacing int) []Point {
	dx, dz := float64(b.X-a.X), float64(b.Z-a.Z)
	length := hypot(dx, dz)
	if length == 0 {
		return append(Line2D(a, b), Line2D(a, b)...)
	}
	px := -dz / length * float64(spacing)
	pz := dx / length * float64(spacing)
	off := Point{X: iround(px), Z: iround(pz)}
	var out []Point
	out = append(out, Line2D(Point{a.X + off.X, a.Z + off.Z}, Point{b.X + off.X, b.Z + off.Z})...)
	out = append(out, Line2D(Point{a.X - off.X, a.Z - off.Z}, Point{b.X - off.X, b.Z - off.Z})...)
	return out
}

func iabs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func divRound(num, den int) int {
	if den == 0 {
		return 0
	}
	if (num < 0) != (den < 0) {
		return -divRoundPos(-num, den)
	}
	return divRoundPos(num, den)
}

func divRoundPos(num, den int) int {
	if den < 0 {
		num, den = -num, -den
	}
	return (num + den/2) / den
}

func iround(f float64) int {
	if f >= 0 {
		return int(f + 0.5)
	}
	return int(f - 0.5)
}

func hypot(x, z float64) float64 {
	return math.Sqrt(x*x + z*z)
}
