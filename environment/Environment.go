// Package environment outlines the interfaces and structs needed to implement
// concrete environments
package environment

import (
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/gorace/timestep"
)

// Starter implements a distribution of starting values and samples
// starting values for environments
type Starter interface {
	Start() *mat.VecDense
}

// Ender determines when environmental episodes end. If the argument
// TimeStep ends the episode, End modifies it in-place so that its
// StepType is timestep.Last and its EndType records how the episode
// ended.
type Ender interface {
	End(*timestep.TimeStep) bool
}

// Task implements the reward scheme for taking actions in some environment
type Task interface {
	Starter
	Ender

	// GetReward returns the reward for taking action a in state,
	// transitioning to nextState
	GetReward(state, a, nextState mat.Vector) float64

	// AtGoal returns whether state is the Task's goal state
	AtGoal(state mat.Matrix) bool

	// Min and Max return the minimum and maximum attainable rewards
	// on a single timestep
	Min() float64
	Max() float64

	RewardSpec() Spec
}

// Environment implements a simulated environment, which includes a Task to
// complete
type Environment interface {
	Task

	// Reset resets the environment between episodes
	Reset() timestep.TimeStep

	// Step takes one environmental step given an action, returning the
	// next timestep and whether it is the last in the episode
	Step(action *mat.VecDense) (timestep.TimeStep, bool)

	// LastTimeStep returns the most recent TimeStep of the environment
	LastTimeStep() timestep.TimeStep

	DiscountSpec() Spec
	ObservationSpec() Spec
	ActionSpec() Spec
}
