package experiment

import (
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/gorace/environment"
	"github.com/samuelfneumann/gorace/experiment/tracker"
	"github.com/samuelfneumann/gorace/timestep"
)

// fixedLengthEnv is a stub environment whose episodes end after a
// fixed number of steps with reward 1 per step
type fixedLengthEnv struct {
	environment.Task

	episodeLen int
	steps      int
	last       timestep.TimeStep
}

func (f *fixedLengthEnv) Reset() timestep.TimeStep {
	f.steps = 0
	obs := mat.NewVecDense(1, []float64{0})
	f.last = timestep.New(timestep.First, 0, 1, obs, 0)
	return f.last
}

func (f *fixedLengthEnv) Step(_ *mat.VecDense) (timestep.TimeStep, bool) {
	f.steps++
	obs := mat.NewVecDense(1, []float64{float64(f.steps)})
	t := timestep.New(timestep.Mid, 1, 1, obs, f.last.Number+1)
	if f.steps >= f.episodeLen {
		t.StepType = timestep.Last
		t.SetEnd(timestep.Timeout)
	}
	f.last = t
	return t, t.Last()
}

func (f *fixedLengthEnv) LastTimeStep() timestep.TimeStep { return f.last }

func (f *fixedLengthEnv) DiscountSpec() environment.Spec    { return stubSpec() }
func (f *fixedLengthEnv) ObservationSpec() environment.Spec { return stubSpec() }
func (f *fixedLengthEnv) ActionSpec() environment.Spec      { return stubSpec() }

func stubSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	bound := mat.NewVecDense(1, []float64{0})
	return environment.NewSpec(shape, environment.Observation, bound,
		bound, environment.Continuous)
}

type noopPolicy struct{}

func (noopPolicy) SelectAction(_ timestep.TimeStep) *mat.VecDense {
	return mat.NewVecDense(1, []float64{0})
}

func TestOnlineRunsFullStepBudget(t *testing.T) {
	dir := t.TempDir()
	returnsFile := filepath.Join(dir, "returns.bin")
	lengthsFile := filepath.Join(dir, "lengths.bin")

	env := &fixedLengthEnv{episodeLen: 4}
	trackers := []tracker.Tracker{
		tracker.NewReturn(returnsFile),
		tracker.NewEpisodeLength(lengthsFile),
	}

	// 10 steps over 4-step episodes: two full episodes plus a partial
	exp := NewOnline(env, noopPolicy{}, 10, trackers, nil)
	if err := exp.Run(); err != nil {
		t.Fatal(err)
	}

	returns, err := tracker.LoadData(returnsFile)
	if err != nil {
		t.Fatal(err)
	}
	if len(returns) != 2 {
		t.Fatalf("got %v completed episodes, expected 2", len(returns))
	}
	for i, r := range returns {
		if r != 4 {
			t.Errorf("episode %v: got return %v, expected 4", i, r)
		}
	}

	lengths, err := tracker.LoadData(lengthsFile)
	if err != nil {
		t.Fatal(err)
	}
	for i, l := range lengths {
		if l != 4 {
			t.Errorf("episode %v: got length %v, expected 4", i, l)
		}
	}
}

func TestRunEpisodeReportsBudgetExhaustion(t *testing.T) {
	env := &fixedLengthEnv{episodeLen: 5}
	exp := NewOnline(env, noopPolicy{}, 3, nil, nil)

	if exp.RunEpisode() {
		t.Error("expected RunEpisode to report an exhausted budget")
	}
	if env.steps != 3 {
		t.Errorf("env took %v steps, expected 3", env.steps)
	}
}
