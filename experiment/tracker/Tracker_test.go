package tracker

import (
	"math"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/gorace/timestep"
)

func step(stepType timestep.StepType, reward float64,
	number int) timestep.TimeStep {
	obs := mat.NewVecDense(1, []float64{0})
	return timestep.New(stepType, reward, 1, obs, number)
}

// feedEpisode pushes a First step, n-1 Mid steps, and a Last step with
// the given per-step reward through the trackers
func feedEpisode(trackers []Tracker, n int, reward float64) {
	push := func(t timestep.TimeStep) {
		for _, tr := range trackers {
			tr.Track(t)
		}
	}

	push(step(timestep.First, 0, 0))
	for i := 1; i < n; i++ {
		push(step(timestep.Mid, reward, i))
	}
	push(step(timestep.Last, reward, n))
}

func TestReturnTracksEpisodeReturns(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "returns.bin")
	tracker := NewReturn(filename)

	feedEpisode([]Tracker{tracker}, 4, 2.5)
	feedEpisode([]Tracker{tracker}, 2, -1)

	if err := tracker.Save(); err != nil {
		t.Fatal(err)
	}
	returns, err := LoadData(filename)
	if err != nil {
		t.Fatal(err)
	}

	expected := []float64{10, -2}
	if len(returns) != len(expected) {
		t.Fatalf("got %v returns, expected %v", len(returns),
			len(expected))
	}
	for i := range expected {
		if math.Abs(returns[i]-expected[i]) > 1e-12 {
			t.Errorf("episode %v: got return %v, expected %v", i,
				returns[i], expected[i])
		}
	}
}

func TestEpisodeLengthTracksLengths(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "lengths.bin")
	tracker := NewEpisodeLength(filename)

	feedEpisode([]Tracker{tracker}, 7, 0)
	feedEpisode([]Tracker{tracker}, 3, 0)

	if err := tracker.Save(); err != nil {
		t.Fatal(err)
	}
	lengths, err := LoadData(filename)
	if err != nil {
		t.Fatal(err)
	}

	expected := []float64{7, 3}
	if len(lengths) != len(expected) {
		t.Fatalf("got %v lengths, expected %v", len(lengths),
			len(expected))
	}
	for i := range expected {
		if lengths[i] != expected[i] {
			t.Errorf("episode %v: got length %v, expected %v", i,
				lengths[i], expected[i])
		}
	}
}

type stubRewarder struct{ value float64 }

func (s *stubRewarder) RewardPerTile() float64 { return s.value }

func TestRewardPerTileSamplesAtEpisodeEnd(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "rewardPerTile.bin")
	env := &stubRewarder{value: 1.5}
	tracker := NewRewardPerTile(filename, env)

	feedEpisode([]Tracker{tracker}, 4, 0)
	env.value = -0.5
	feedEpisode([]Tracker{tracker}, 4, 0)

	if err := tracker.Save(); err != nil {
		t.Fatal(err)
	}
	values, err := LoadData(filename)
	if err != nil {
		t.Fatal(err)
	}

	expected := []float64{1.5, -0.5}
	if len(values) != len(expected) {
		t.Fatalf("got %v values, expected %v", len(values),
			len(expected))
	}
	for i := range expected {
		if values[i] != expected[i] {
			t.Errorf("episode %v: got %v, expected %v", i, values[i],
				expected[i])
		}
	}
}

func TestLoadDataMissingFile(t *testing.T) {
	if _, err := LoadData(filepath.Join(t.TempDir(), "missing.bin")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
