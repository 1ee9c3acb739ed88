package geom

import "testing"

func square() []Point {
	return []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
}

func reverse(p []Point) []Point {
	out := make([]Point, len(p))
	for i, v := range p {
		out[len(p)-1-i] = v
	}
	return out
}

// TestPointInPolygonOrientationInvariant checks spec.md §8: winding
// number containment agrees for a polygon and its reversal.
func TestPointInPolygonOrientationInvariant(t *testing.T) {
	poly := square()
	rev := reverse(poly)

	pts := []Point{{5, 5}, {0, 0}, {20, 20}, {-1, 5}}
	for _, p := range pts {
		a := PointInPolygon(p, poly)
		b := PointInPolygon(p, rev)
		if a != b {
			t.Fatalf("PointInPolygon(%v) differs by orientation: %v vs %v", p, a, b)
		}
	}
}

func TestPointInPolygonInside(t *testing.T) {
	poly := square()
	if !PointInPolygon(Point{5, 5}, poly) {
		t.Fatal("(5,5) should be inside the square")
	}
	if PointInPolygon(Point{20, 20}, poly) {
		t.Fatal("(20,20) should be outside the square")
	}
}

func TestPointInPolygonOnEdge(t *testing.T) {
	poly := square()
	if !PointInPolygon(Point{0, 0}, poly) {
		t.Fatal("vertex should be reported inside")
	}
	if !PointInPolygon(Point{5, 0}, poly) {
		t.Fatal("edge midpoint should be reported inside")
	}
}

func TestLineEndpoints(t *testing.T) {
	pts := Line2D(Point{0, 0}, Point{5, 3})
	if pts[0] != (Point{0, 0}) {
		t.Fatalf("first point = %v, want (0,0)", pts[0])
	}
	if pts[len(pts)-1] != (Point{5, 3}) {
		t.Fatalf("last point = %v, want (5,3)", pts[len(pts)-1])
	}
}

func TestLineNoGaps(t *testing.T) {
	pts := Line2D(Point{0, 0}, Point{0, 8})
	if len(pts) != 9 {
		t.Fatalf("vertical line of length 8 should have 9 points, got %d", len(pts))
	}
}

// TestThickLineContainment checks spec.md §8: every point on the thick
// line lies within ceil(w/2) LInf of the corresponding narrow line.
func TestThickLineContainment(t *testing.T) {
	a, b := Point{0, 0}, Point{20, 0}
	w := 5
	narrow := Line2D(a, b)
	thick := ThickLine2D(a, b, w)

	maxAllowed := (w + 1) / 2
	for _, tp := range thick {
		best := 1 << 30
		for _, np := range narrow {
			dx, dz := iabs(tp.X-np.X), iabs(tp.Z-np.Z)
			d := dx
			if dz > d {
				d = dz
			}
			if d < best {
				best = d
			}
		}
		if best > maxAllowed {
			t.Fatalf("thick point %v is %d from narrow line, want <= %d", tp, best, maxAllowed)
		}
	}
}
