// Package geomutils provides small 2D geometry helpers for working
// with track segments and reference frames
package geomutils

import "math"

// PointSegmentDist returns the distance from the point (px, py) to the
// line segment from (ax, ay) to (bx, by). The projection of the point
// onto the segment's supporting line is clamped to the segment's
// endpoints, so the result is a true point-to-segment distance, not a
// point-to-line distance.
func PointSegmentDist(px, py, ax, ay, bx, by float64) float64 {
	nx, ny := bx-ax, by-ay
	lengthSq := nx*nx + ny*ny
	if lengthSq < 1e-20 {
		// Degenerate segment
		return math.Hypot(px-ax, py-ay)
	}

	t := ((px-ax)*nx + (py-ay)*ny) / lengthSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	return math.Hypot(px-(ax+t*nx), py-(ay+t*ny))
}

// IntoFrame re-expresses the world point (px, py) in the local frame
// whose origin is (ox, oy) and whose x-axis points along heading. The
// world offset is rotated by -heading.
func IntoFrame(heading, ox, oy, px, py float64) (float64, float64) {
	dx, dy := px-ox, py-oy
	sin, cos := math.Sin(heading), math.Cos(heading)

	return cos*dx + sin*dy, -sin*dx + cos*dy
}
