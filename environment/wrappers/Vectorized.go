// Package wrappers provides environment wrappers that adapt or
// aggregate environments without changing their semantics.
package wrappers

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/gorace/environment"
	"github.com/samuelfneumann/gorace/timestep"
)

// Vectorized steps a batch of independent environments in lockstep.
// When a sub-environment's episode ends, it is reset automatically and
// the returned TimeStep for that slot is the new episode's first step.
// The ended episode's true final TimeStep stays retrievable through
// FinalSteps until the next call to Step.
type Vectorized struct {
	envs       []environment.Environment
	finalSteps []*timestep.TimeStep
}

// NewVectorized creates n environments with makeEnv and returns the
// wrapper along with each sub-environment's first TimeStep
func NewVectorized(makeEnv func(i int) (environment.Environment,
	timestep.TimeStep, error), n int) (*Vectorized, []timestep.TimeStep,
	error) {
	if n <= 0 {
		return nil, nil, fmt.Errorf("newVectorized: need at least one "+
			"environment, got %d", n)
	}

	envs := make([]environment.Environment, n)
	firstSteps := make([]timestep.TimeStep, n)
	for i := range envs {
		env, first, err := makeEnv(i)
		if err != nil {
			return nil, nil, fmt.Errorf("newVectorized: could not "+
				"create environment %d: %v", i, err)
		}
		envs[i] = env
		firstSteps[i] = first
	}

	return &Vectorized{
		envs:       envs,
		finalSteps: make([]*timestep.TimeStep, n),
	}, firstSteps, nil
}

// Len returns the number of wrapped environments
func (v *Vectorized) Len() int {
	return len(v.envs)
}

// Reset resets every sub-environment and returns the first TimeSteps
func (v *Vectorized) Reset() []timestep.TimeStep {
	steps := make([]timestep.TimeStep, len(v.envs))
	for i, env := range v.envs {
		steps[i] = env.Reset()
		v.finalSteps[i] = nil
	}
	return steps
}

// Step takes one step in every sub-environment. The returned booleans
// report which slots ended an episode on this call; those slots have
// already been reset and carry the new episode's first step.
func (v *Vectorized) Step(actions []*mat.VecDense) ([]timestep.TimeStep,
	[]bool) {
	if len(actions) != len(v.envs) {
		panic(fmt.Sprintf("step: got %d actions for %d environments",
			len(actions), len(v.envs)))
	}

	steps := make([]timestep.TimeStep, len(v.envs))
	ended := make([]bool, len(v.envs))
	for i, env := range v.envs {
		step, last := env.Step(actions[i])
		v.finalSteps[i] = nil
		if last {
			final := step
			v.finalSteps[i] = &final
			step = env.Reset()
		}
		steps[i] = step
		ended[i] = last
	}
	return steps, ended
}

// FinalSteps returns, per slot, the final TimeStep of the episode that
// ended on the most recent Step call, or nil for slots whose episode
// continued
func (v *Vectorized) FinalSteps() []*timestep.TimeStep {
	return v.finalSteps
}

// ObservationSpec returns the observation specification shared by the
// sub-environments
func (v *Vectorized) ObservationSpec() environment.Spec {
	return v.envs[0].ObservationSpec()
}

// ActionSpec returns the action specification shared by the
// sub-environments
func (v *Vectorized) ActionSpec() environment.Spec {
	return v.envs[0].ActionSpec()
}
