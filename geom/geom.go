// Package geom implements the small set of geometry primitives shared
// by PerimeterFitter, RoadRouter and AreaPartitioner: winding-number
// point-in-polygon, segment intersection and line rasterization. The
// orientation and intersection tests are the teacher's contour-vertex
// predicates (recast.left / recast.leftOn / recast.intersectProp)
// lifted from contour-simplification to general polygon use.
package geom

// Point is an integer 2-D point, x = east, z = south.
type Point struct {
	X, Z int
}

// Point3 is an integer 3-D point, y = up.
type Point3 struct {
	X, Y, Z int
}

func area2(a, b, c Point) int {
	return (b.X-a.X)*(c.Z-a.Z) - (c.X-a.X)*(b.Z-a.Z)
}

// Left reports whether c is strictly to the left of the directed line
// through a and b.
func Left(a, b, c Point) bool {
	return area2(a, b, c) < 0
}

// LeftOn reports whether c is to the left of, or on, the directed line
// through a and b.
func LeftOn(a, b, c Point) bool {
	return area2(a, b, c) <= 0
}

// Collinear reports whether a, b, c lie on a common line.
func Collinear(a, b, c Point) bool {
	return area2(a, b, c) == 0
}

func xorb(x, y bool) bool { return x != y }

// IntersectProp reports whether segment ab properly intersects segment
// cd: they share a point interior to both segments.
func IntersectProp(a, b, c, d Point) bool {
	if Collinear(a, b, c) || Collinear(a, b, d) || Collinear(c, d, a) || Collinear(c, d, b) {
		return false
	}
	return xorb(Left(a, b, c), Left(a, b, d)) && xorb(Left(c, d, a), Left(c, d, b))
}

// Between reports whether a, b, c are collinear and c lies on the
// closed segment ab.
func Between(a, b, c Point) bool {
	if !Collinear(a, b, c) {
		return false
	}
	if a.X != b.X {
		return (a.X <= c.X && c.X <= b.X) || (a.X >= c.X && c.X >= b.X)
	}
	return (a.Z <= c.Z && c.Z <= b.Z) || (a.Z >= c.Z && c.Z >= b.Z)
}

// Intersect reports whether segments ab and cd intersect, properly or
// improperly (sharing an endpoint or overlapping collinearly).
func Intersect(a, b, c, d Point) bool {
	if IntersectProp(a, b, c, d) {
		return true
	}
	return Between(a, b, c) || Between(a, b, d) || Between(c, d, a) || Between(c, d, b)
}

// PointInPolygon implements winding-number containment for a simple,
// counter-clockwise polygon. On-edge points are reported as inside, by
// the strict less-than-or-equal convention used throughout this
// package (LeftOn, not Left).
func PointInPolygon(p Point, poly []Point) bool {
	n := len(poly)
	wn := 0
	for i := 0; i < n; i++ {
		a := poly[i]
		b := poly[(i+1)%n]
		if a == p || b == p || Between(a, b, p) {
			return true
		}
		if a.Z <= p.Z {
			if b.Z > p.Z && Left(a, b, p) {
				wn++
			}
		} else {
			if b.Z <= p.Z && !LeftOn(a, b, p) {
				wn--
			}
		}
	}
	return wn != 0
}
