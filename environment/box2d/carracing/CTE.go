package carracing

import (
	"math"

	"github.com/samuelfneumann/gorace/utils/floatutils"
	"github.com/samuelfneumann/gorace/utils/geomutils"
)

// crossTrackError computes the vehicle's tracking error against the
// centerline. The nearest segment is found with an exact linear
// point-to-segment scan; the track is small enough (≈280 segments)
// that a spatial index would not pay for itself.
//
// The returned heading error is the wrapped angular difference in
// (-π, π] between the nearest waypoint's heading and the vehicle
// heading. The lateral error is the vehicle position re-expressed in
// that waypoint's track frame and negated on the lateral axis, so a
// vehicle left of the centerline (relative to the driving direction)
// has positive lateral error.
func crossTrackError(x, y, heading float64,
	wps []waypoint) (headingErr, lateralErr float64, nearest int) {
	minDist := math.MaxFloat64
	for i := 1; i < len(wps); i++ {
		d := geomutils.PointSegmentDist(x, y,
			wps[i-1].x, wps[i-1].y, wps[i].x, wps[i].y)
		if d < minDist {
			minDist = d
			nearest = i
		}
	}

	target := wps[nearest].beta
	headingErr = floatutils.WrapAngle(target - heading)

	lateral, _ := geomutils.IntoFrame(target, wps[nearest].x, wps[nearest].y,
		x, y)
	lateralErr = -lateral

	return headingErr, lateralErr, nearest
}
