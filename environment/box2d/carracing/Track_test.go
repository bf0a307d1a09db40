package carracing

import (
	"image/color"
	"math"
	"testing"

	"github.com/ByteArena/box2d"
	"golang.org/x/exp/rand"
)

// buildTrack retries the random draw until a valid track is produced,
// the way the environment's reset does
func buildTrack(t *testing.T, seed uint64) (*box2d.B2World, *track) {
	t.Helper()

	world := box2d.MakeB2World(box2d.MakeB2Vec2(0, 0))
	rng := rand.New(rand.NewSource(seed))
	roadColor := color.RGBA{R: 57, G: 64, B: 83, A: 255}

	for i := 0; i < 1000; i++ {
		tr, err := newTrack(&world, rng, roadColor)
		if err == nil {
			return &world, tr
		}
	}
	t.Fatal("could not build a track in 1000 draws")
	return nil, nil
}

func TestNewTrackProducesClosedLoop(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		_, tr := buildTrack(t, seed)

		n := len(tr.waypoints)
		if n < 50 {
			t.Fatalf("seed %v: got %v waypoints, expected a full loop",
				seed, n)
		}

		// Consecutive waypoints are exactly one arc step apart
		for i := 1; i < n; i++ {
			d := math.Hypot(tr.waypoints[i].x-tr.waypoints[i-1].x,
				tr.waypoints[i].y-tr.waypoints[i-1].y)
			if math.Abs(d-TrackDetailStep) > 1e-9 {
				t.Fatalf("seed %v: waypoints %v and %v are %v apart, "+
					"expected %v", seed, i-1, i, d, TrackDetailStep)
			}
		}

		// The loop closes: head and tail nearly coincide
		gap := math.Hypot(tr.waypoints[0].x-tr.waypoints[n-1].x,
			tr.waypoints[0].y-tr.waypoints[n-1].y)
		if gap > 3*TrackDetailStep {
			t.Errorf("seed %v: closure gap %v exceeds %v", seed, gap,
				3*TrackDetailStep)
		}
	}
}

func TestNewTrackTiles(t *testing.T) {
	_, tr := buildTrack(t, 7)

	if len(tr.tiles) != len(tr.waypoints) {
		t.Fatalf("got %v tiles for %v waypoints", len(tr.tiles),
			len(tr.waypoints))
	}

	for i, tile := range tr.tiles {
		if tile.visited {
			t.Errorf("tile %v starts visited", i)
		}
		if tile.friction != 1.0 {
			t.Errorf("tile %v friction = %v, expected 1.0", i,
				tile.friction)
		}
		if tile.idx != i {
			t.Errorf("tile at position %v has index %v", i, tile.idx)
		}
		if tile.body == nil {
			t.Errorf("tile %v has no body", i)
		}
	}

	// Road polys cover at least the tiles; borders add more
	if len(tr.polys) < len(tr.tiles) {
		t.Errorf("got %v polys for %v tiles", len(tr.polys),
			len(tr.tiles))
	}
}

func TestTrackDestroyReleasesBodies(t *testing.T) {
	world, tr := buildTrack(t, 3)

	before := world.M_bodyCount
	tr.destroy(world)

	if tr.tiles != nil {
		t.Error("tiles were not cleared by destroy")
	}
	if after := world.M_bodyCount; after != 0 {
		t.Errorf("world still holds %v of %v bodies after destroy",
			after, before)
	}
}

func TestMod(t *testing.T) {
	tests := []struct {
		i, n, expected int
	}{
		{0, 5, 0},
		{4, 5, 4},
		{5, 5, 0},
		{-1, 5, 4},
		{-6, 5, 4},
	}

	for _, test := range tests {
		if got := mod(test.i, test.n); got != test.expected {
			t.Errorf("mod(%v, %v) = %v, expected %v", test.i, test.n,
				got, test.expected)
		}
	}
}

func TestUniformInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 100; i++ {
		v := uniform(rng, -2, 3)
		if v < -2 || v >= 3 {
			t.Fatalf("draw %v outside [-2, 3)", v)
		}
	}
}
