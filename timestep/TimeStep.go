// Package timestep implements timesteps of the agent-environment interaction
package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// StepType denotes the type of step that a TimeStep can be, either a first
// environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// EndType describes how an episode ended. An episode can end because
// the environment reached a terminal state (e.g. the vehicle left the
// road) or because some limit cut the episode off (a step limit was
// reached or a goal such as a completed lap was attained). A TimeStep
// that is not the last in its episode has EndType Nil.
type EndType int

const (
	// Nil indicates that the episode has not ended
	Nil EndType = iota

	// TerminalStateReached indicates that the episode ended because a
	// terminal (failure) state was entered
	TerminalStateReached

	// Timeout indicates that the episode was cut off by a time or goal
	// limit rather than by entering a terminal state
	Timeout
)

func (e EndType) String() string {
	switch e {
	case TerminalStateReached:
		return "TerminalStateReached"
	case Timeout:
		return "Timeout"
	default:
		return "Nil"
	}
}

// TimeStep packages together a single timestep in an environment
type TimeStep struct {
	StepType    StepType
	Reward      float64
	Discount    float64
	Observation mat.Vector
	Number      int
	End         EndType
}

// New constructs a new TimeStep. The returned TimeStep has EndType Nil;
// Enders adjust the EndType when the step ends an episode.
func New(t StepType, r, d float64, o mat.Vector, n int) TimeStep {
	return TimeStep{t, r, d, o, n, Nil}
}

// SetEnd sets the way in which the TimeStep ended its episode
func (t *TimeStep) SetEnd(e EndType) {
	t.End = e
}

// First returns whether a TimeStep is the first in an environment
func (t *TimeStep) First() bool {
	return t.StepType == First
}

// Mid returns whether a TimeStep is a middle step in an environment
func (t *TimeStep) Mid() bool {
	return t.StepType == Mid
}

// Last returns whether a TimeStep is the last step in an environment
func (t *TimeStep) Last() bool {
	return t.StepType == Last
}

// Terminal returns whether the TimeStep ended its episode by reaching
// a terminal state
func (t *TimeStep) Terminal() bool {
	return t.End == TerminalStateReached
}

// Cutoff returns whether the TimeStep ended its episode due to a time
// or goal limit
func (t *TimeStep) Cutoff() bool {
	return t.End == Timeout
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  Reward:  %.2f  |  Discount: %.2f  |  " +
		"Step Number:  %v  |  End: %v"

	return fmt.Sprintf(str, t.StepType, t.Reward, t.Discount, t.Number, t.End)
}
