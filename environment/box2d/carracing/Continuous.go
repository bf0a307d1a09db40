package carracing

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/gorace/environment"
	"github.com/samuelfneumann/gorace/timestep"
	"github.com/samuelfneumann/gorace/utils/floatutils"
)

// Continuous is the track-following environment with continuous
// actions. In ConstantSpeed and RandomizedSpeed modes actions are a
// single steering command in [-1, 1]; in AccelBrake mode actions are
// [steering, gas, brake] with gas and brake in [0, 1]. Actions
// outside these ranges are clipped.
type Continuous struct {
	*carRacing
}

// NewContinuous creates a continuous-action track-following
// environment and returns it along with its first TimeStep
func NewContinuous(task environment.Task, discount float64, seed uint64,
	opts ...Option) (environment.Environment, timestep.TimeStep) {
	base, firstStep := newCarRacing(task, discount, seed, opts...)
	return &Continuous{base}, firstStep
}

func (c *Continuous) actionDims() int {
	if c.speedMode == AccelBrake {
		return 3
	}
	return 1
}

// ActionSpec returns the action specification of the environment
func (c *Continuous) ActionSpec() environment.Spec {
	dims := c.actionDims()
	shape := mat.NewVecDense(dims, nil)

	lower := []float64{-1, 0, 0}
	upper := []float64{1, 1, 1}
	lowerBound := mat.NewVecDense(dims, lower[:dims])
	upperBound := mat.NewVecDense(dims, upper[:dims])

	return environment.NewSpec(shape, environment.Action, lowerBound,
		upperBound, environment.Continuous)
}

// Step takes one environmental step given the action and returns the
// next TimeStep and whether it is the episode's last
func (c *Continuous) Step(action *mat.VecDense) (timestep.TimeStep, bool) {
	dims := c.actionDims()
	if action.Len() != dims {
		panic(fmt.Sprintf("step: actions should have %d dimensions, "+
			"got %d", dims, action.Len()))
	}

	clipped := mat.NewVecDense(dims, nil)
	clipped.SetVec(0, floatutils.Clip(action.AtVec(0), -1, 1))
	if dims == 3 {
		clipped.SetVec(1, floatutils.Clip(action.AtVec(1), 0, 1))
		clipped.SetVec(2, floatutils.Clip(action.AtVec(2), 0, 1))
	}

	return c.carRacing.Step(clipped)
}
