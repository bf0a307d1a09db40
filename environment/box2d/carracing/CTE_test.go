package carracing

import (
	"math"
	"testing"
)

// straightTrack returns waypoints running along the +y axis with a
// heading of zero (the car frame's forward axis is +y at zero heading)
func straightTrack(n int) []waypoint {
	wps := make([]waypoint, n)
	for i := range wps {
		wps[i] = waypoint{beta: 0, x: 0, y: float64(i)}
	}
	return wps
}

func TestCrossTrackErrorOnCenterline(t *testing.T) {
	wps := straightTrack(6)

	headingErr, lateralErr, _ := crossTrackError(0, 2.5, 0, wps)
	if math.Abs(headingErr) > 1e-12 {
		t.Errorf("got heading error %v on centerline, expected 0",
			headingErr)
	}
	if math.Abs(lateralErr) > 1e-12 {
		t.Errorf("got lateral error %v on centerline, expected 0",
			lateralErr)
	}
}

func TestCrossTrackErrorLateralSign(t *testing.T) {
	wps := straightTrack(6)

	// Right of the direction of travel: negative lateral error
	_, lateralErr, _ := crossTrackError(1, 2.5, 0, wps)
	if math.Abs(lateralErr-(-1)) > 1e-12 {
		t.Errorf("got lateral error %v right of the centerline, "+
			"expected -1", lateralErr)
	}

	// Left of the direction of travel: positive lateral error
	_, lateralErr, _ = crossTrackError(-2, 2.5, 0, wps)
	if math.Abs(lateralErr-2) > 1e-12 {
		t.Errorf("got lateral error %v left of the centerline, "+
			"expected 2", lateralErr)
	}
}

func TestCrossTrackErrorHeading(t *testing.T) {
	wps := straightTrack(6)

	headingErr, _, _ := crossTrackError(0, 2.5, 0.3, wps)
	if math.Abs(headingErr-(-0.3)) > 1e-12 {
		t.Errorf("got heading error %v, expected -0.3", headingErr)
	}
}

func TestCrossTrackErrorHeadingWraps(t *testing.T) {
	// Headings straddling the ±π cut must give the short-way
	// difference, not a ~2π error
	wps := []waypoint{
		{beta: 3.0, x: 0, y: 0},
		{beta: 3.0, x: -1, y: 0.1},
	}

	headingErr, _, _ := crossTrackError(0, 0, -3.0, wps)
	expected := 6.0 - 2*math.Pi
	if math.Abs(headingErr-expected) > 1e-12 {
		t.Errorf("got heading error %v, expected %v", headingErr,
			expected)
	}
	if math.Abs(headingErr) > math.Pi {
		t.Errorf("heading error %v not wrapped into (-π, π]", headingErr)
	}
}

func TestCrossTrackErrorNearestSegment(t *testing.T) {
	wps := straightTrack(6)

	_, _, nearest := crossTrackError(1, 2.5, 0, wps)
	if nearest != 3 {
		t.Errorf("got nearest segment end %v, expected 3", nearest)
	}

	_, _, nearest = crossTrackError(0.5, 4.9, 0, wps)
	if nearest != 5 {
		t.Errorf("got nearest segment end %v, expected 5", nearest)
	}
}
