package raster

import "github.com/arl/townforge/geom"

// DrawClosedPolyline rasterizes a closed polyline segment by segment
// with Bresenham-equivalent integer stepping (geom.Line2D), setting
// value at every touched pixel.
func (r *Raster) DrawClosedPolyline(pts []geom.Point, value uint8) {
	n := len(pts)
	for i := 0; i < n; i++ {
		a, b := pts[i], pts[(i+1)%n]
		for _, p := range geom.Line2D(a, b) {
			r.Set(p.X, p.Z, value)
		}
	}
}

// DrawOpenPolyline rasterizes an open polyline segment by segment.
func (r *Raster) DrawOpenPolyline(pts []geom.Point, value uint8) {
	for i := 0; i+1 < len(pts); i++ {
		for _, p := range geom.Line2D(pts[i], pts[i+1]) {
			r.Set(p.X, p.Z, value)
		}
	}
}

// DrawThickPolyline rasterizes an open polyline with width w, using
// geom.ThickLine2D per segment.
func (r *Raster) DrawThickPolyline(pts []geom.Point, w int, value uint8) {
	for i := 0; i+1 < len(pts); i++ {
		for _, p := range geom.ThickLine2D(pts[i], pts[i+1], w) {
			r.Set(p.X, p.Z, value)
		}
	}
}
