package carracing

import (
	"errors"
	"image/color"
	"math"

	"github.com/ByteArena/box2d"
	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/gorace/utils/floatutils"
)

// errTrackBuild signals that a randomly drawn set of checkpoints did
// not produce a valid closed loop. This is an expected outcome; the
// caller retries with a fresh draw.
var errTrackBuild = errors.New("track: checkpoint walk failed to close loop")

// waypoint is one sample of the track centerline. Alpha is the
// cumulative polar angle of the walk when the sample was recorded and
// beta is the centerline heading at the sample.
type waypoint struct {
	alpha float64
	beta  float64
	x     float64
	y     float64
}

// roadTile is one quadrilateral segment of the road surface, the unit
// of visited-tracking. Each tile owns a static sensor body in the
// physics world for the duration of one episode.
type roadTile struct {
	body     *box2d.B2Body
	idx      int
	visited  bool
	friction float64
	color    color.RGBA
}

// RoadPoly is a renderable road polygon. RoadPolys carry no simulation
// weight; they exist only for the drawing layer.
type RoadPoly struct {
	Vertices [4][2]float64
	Color    color.RGBA
}

// track is a finalized, validated waypoint loop plus its road tiles.
// A track is immutable once built and lives for exactly one episode.
type track struct {
	waypoints  []waypoint
	tiles      []*roadTile
	polys      []RoadPoly
	startAlpha float64
}

// newTrack builds a random closed track in world. The checkpoint draw
// is noisy, so the walk may fail to close; in that case newTrack
// returns errTrackBuild (having created no bodies) and the caller
// should retry with further draws from rng.
func newTrack(world *box2d.B2World, rng *rand.Rand,
	roadColor color.RGBA) (*track, error) {
	type checkpoint struct {
		alpha float64
		x     float64
		y     float64
	}

	// Checkpoints are angularly spaced around a circle and perturbed
	// in angle and radius. The first and last are pinned to a larger
	// fixed radius to anchor the start/finish line.
	checkpoints := make([]checkpoint, Checkpoints)
	startAlpha := 2 * math.Pi * (-0.5) / float64(Checkpoints)
	for c := 0; c < Checkpoints; c++ {
		noise := uniform(rng, 0, 2*math.Pi/float64(Checkpoints))
		alpha := 2*math.Pi*float64(c)/float64(Checkpoints) + noise
		rad := uniform(rng, TrackRad/3, TrackRad)

		if c == 0 {
			alpha = 0
			rad = 1.5 * TrackRad
		}
		if c == Checkpoints-1 {
			alpha = 2 * math.Pi * float64(c) / float64(Checkpoints)
			rad = 1.5 * TrackRad
		}
		checkpoints[c] = checkpoint{alpha, rad * math.Cos(alpha),
			rad * math.Sin(alpha)}
	}

	// Walk a pen from angle 0, steering with a bounded turn rate
	// toward the next checkpoint ahead of the pen, recording a
	// waypoint every TrackDetailStep of arc length.
	x, y, beta := 1.5*TrackRad, 0.0, 0.0
	destI := 0
	laps := 0
	var wps []waypoint
	noFreeze := MaxTrackIters
	visitedOtherSide := false

	for {
		alpha := math.Atan2(y, x)
		if visitedOtherSide && alpha > 0 {
			laps++
			visitedOtherSide = false
		}
		if alpha < 0 {
			visitedOtherSide = true
			alpha += 2 * math.Pi
		}

		// Find the destination checkpoint: the one whose anchor angle
		// is just ahead of the pen, consumed in increasing angular
		// order with wrapping.
		var destAlpha, destX, destY float64
		for {
			failed := true
			for {
				cp := checkpoints[destI%Checkpoints]
				destAlpha, destX, destY = cp.alpha, cp.x, cp.y
				if alpha <= destAlpha {
					failed = false
					break
				}
				destI++
				if destI%Checkpoints == 0 {
					break
				}
			}
			if !failed {
				break
			}
			alpha -= 2 * math.Pi
		}

		r1x, r1y := math.Cos(beta), math.Sin(beta)
		p1x, p1y := -r1y, r1x
		destDX, destDY := destX-x, destY-y

		// Destination vector projected on the pen's radial direction
		proj := r1x*destDX + r1y*destDY
		for beta-alpha > 1.5*math.Pi {
			beta -= 2 * math.Pi
		}
		for beta-alpha < -1.5*math.Pi {
			beta += 2 * math.Pi
		}
		prevBeta := beta
		proj *= Scale
		if proj > 0.3 {
			beta -= math.Min(TrackTurnRate, math.Abs(0.001*proj))
		}
		if proj < -0.3 {
			beta += math.Min(TrackTurnRate, math.Abs(0.001*proj))
		}
		x += p1x * TrackDetailStep
		y += p1y * TrackDetailStep
		wps = append(wps, waypoint{alpha, prevBeta*0.5 + beta*0.5, x, y})

		if laps > 4 {
			break
		}
		noFreeze--
		if noFreeze == 0 {
			break
		}
	}
	if laps <= 4 {
		// Hit the iteration cap before completing five revolutions
		return nil, errTrackBuild
	}

	// Locate the closed-loop range: the stretch between the two most
	// recent crossings of the start angle. The first loop of the walk
	// is a transient and is discarded.
	i1, i2 := -1, -1
	i := len(wps)
	for {
		i--
		if i == 0 {
			return nil, errTrackBuild
		}
		passThroughStart := wps[i].alpha > startAlpha &&
			wps[i-1].alpha <= startAlpha
		if passThroughStart && i2 == -1 {
			i2 = i
		} else if passThroughStart && i1 == -1 {
			i1 = i
			break
		}
	}
	if i2-1 <= i1 {
		return nil, errTrackBuild
	}
	wps = wps[i1 : i2-1]

	// Validate closure: the perpendicular gap between head and tail
	// must be below one arc-length step.
	firstBeta := wps[0].beta
	perpX, perpY := math.Cos(firstBeta), math.Sin(firstBeta)
	last := len(wps) - 1
	gapX := perpX * (wps[0].x - wps[last].x)
	gapY := perpY * (wps[0].y - wps[last].y)
	if math.Sqrt(gapX*gapX+gapY*gapY) > TrackDetailStep {
		return nil, errTrackBuild
	}

	t := &track{
		waypoints:  wps,
		startAlpha: startAlpha,
	}
	t.createTiles(world, borderFlags(wps), roadColor)
	return t, nil
}

// borderFlags computes the hard-turn border flag per waypoint: true
// when the heading change over the lookback window exceeds the turn
// rate threshold consistently in one rotational sense. Flags are then
// dilated backward over the same window.
func borderFlags(wps []waypoint) []bool {
	n := len(wps)
	border := make([]bool, n)
	for i := 0; i < n; i++ {
		good := true
		oneside := 0.0
		for neg := 0; neg < BorderMinCount; neg++ {
			beta1 := wps[mod(i-neg, n)].beta
			beta2 := wps[mod(i-neg-1, n)].beta
			good = good && math.Abs(beta1-beta2) > TrackTurnRate*0.2
			oneside += floatutils.Sign(beta1 - beta2)
		}
		good = good && math.Abs(oneside) == float64(BorderMinCount)
		border[i] = good
	}
	for i := 0; i < n; i++ {
		if border[i] {
			for neg := 0; neg < BorderMinCount; neg++ {
				border[mod(i-neg, n)] = true
			}
		}
	}
	return border
}

// createTiles emits one static sensor body per consecutive waypoint
// pair, offset left/right by the track half-width, plus renderable
// border strips on flagged waypoints.
func (t *track) createTiles(world *box2d.B2World, border []bool,
	roadColor color.RGBA) {
	n := len(t.waypoints)
	t.tiles = make([]*roadTile, 0, n)
	t.polys = make([]RoadPoly, 0, n)

	for i := 0; i < n; i++ {
		wp1 := t.waypoints[i]
		wp2 := t.waypoints[mod(i-1, n)]

		road1L := [2]float64{wp1.x - TrackWidth*math.Cos(wp1.beta),
			wp1.y - TrackWidth*math.Sin(wp1.beta)}
		road1R := [2]float64{wp1.x + TrackWidth*math.Cos(wp1.beta),
			wp1.y + TrackWidth*math.Sin(wp1.beta)}
		road2L := [2]float64{wp2.x - TrackWidth*math.Cos(wp2.beta),
			wp2.y - TrackWidth*math.Sin(wp2.beta)}
		road2R := [2]float64{wp2.x + TrackWidth*math.Cos(wp2.beta),
			wp2.y + TrackWidth*math.Sin(wp2.beta)}
		vertices := [4][2]float64{road1L, road1R, road2R, road2L}

		bodyDef := box2d.NewB2BodyDef() // static body
		body := world.CreateBody(bodyDef)

		shape := box2d.NewB2PolygonShape()
		shapeVerts := make([]box2d.B2Vec2, 4)
		for j, v := range vertices {
			shapeVerts[j] = box2d.MakeB2Vec2(v[0], v[1])
		}
		shape.Set(shapeVerts, 4)

		fixture := box2d.MakeB2FixtureDef()
		fixture.Shape = shape
		fixture.IsSensor = true
		body.CreateFixtureFromDef(&fixture)

		tile := &roadTile{
			body:     body,
			idx:      i,
			friction: 1.0,
			color:    shadeColor(roadColor, uint8(i%3)*2),
		}
		body.SetUserData(&bodyUserData{kind: bodyKindTile, tile: tile})

		t.tiles = append(t.tiles, tile)
		t.polys = append(t.polys, RoadPoly{vertices, tile.color})

		if border[i] {
			side := floatutils.Sign(wp2.beta - wp1.beta)
			b1L := [2]float64{
				wp1.x + side*TrackWidth*math.Cos(wp1.beta),
				wp1.y + side*TrackWidth*math.Sin(wp1.beta)}
			b1R := [2]float64{
				wp1.x + side*(TrackWidth+Border)*math.Cos(wp1.beta),
				wp1.y + side*(TrackWidth+Border)*math.Sin(wp1.beta)}
			b2L := [2]float64{
				wp2.x + side*TrackWidth*math.Cos(wp2.beta),
				wp2.y + side*TrackWidth*math.Sin(wp2.beta)}
			b2R := [2]float64{
				wp2.x + side*(TrackWidth+Border)*math.Cos(wp2.beta),
				wp2.y + side*(TrackWidth+Border)*math.Sin(wp2.beta)}

			stripColor := color.RGBA{R: 255, G: 255, B: 255, A: 255}
			if i%2 != 0 {
				stripColor = color.RGBA{R: 255, A: 255}
			}
			t.polys = append(t.polys,
				RoadPoly{[4][2]float64{b1L, b1R, b2R, b2L}, stripColor})
		}
	}
}

// destroy releases every tile body from the physics world. Failing to
// call destroy before rebuilding a track leaks bodies in the world.
func (t *track) destroy(world *box2d.B2World) {
	for _, tile := range t.tiles {
		world.DestroyBody(tile.body)
		tile.body = nil
	}
	t.tiles = nil
}

// uniform draws from U[min, max) using rng
func uniform(rng *rand.Rand, min, max float64) float64 {
	return min + (max-min)*rng.Float64()
}

// mod wraps i into [0, n), matching negative-index wraparound
func mod(i, n int) int {
	return ((i % n) + n) % n
}

// shadeColor lightens c by adding delta to each channel, saturating
func shadeColor(c color.RGBA, delta uint8) color.RGBA {
	add := func(a, b uint8) uint8 {
		if int(a)+int(b) > 255 {
			return 255
		}
		return a + b
	}
	return color.RGBA{add(c.R, delta), add(c.G, delta), add(c.B, delta), c.A}
}
