package carracing

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/gorace/environment"
	"github.com/samuelfneumann/gorace/timestep"
)

// Discrete is the track-following environment with a discrete action
// set:
//
//	0: do nothing
//	1: steer right
//	2: steer left
//	3: gas
//	4: brake
//
// Gas and brake only take effect in AccelBrake mode.
type Discrete struct {
	*carRacing
}

// NewDiscrete creates a discrete-action track-following environment
// and returns it along with its first TimeStep
func NewDiscrete(task environment.Task, discount float64, seed uint64,
	opts ...Option) (environment.Environment, timestep.TimeStep) {
	base, firstStep := newCarRacing(task, discount, seed, opts...)
	return &Discrete{base}, firstStep
}

// ActionSpec returns the action specification of the environment
func (d *Discrete) ActionSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{0})
	upperBound := mat.NewVecDense(1, []float64{4})

	return environment.NewSpec(shape, environment.Action, lowerBound,
		upperBound, environment.Discrete)
}

// Step takes one environmental step given the action and returns the
// next TimeStep and whether it is the episode's last. Actions outside
// {0, 1, 2, 3, 4} are programmer errors and panic.
func (d *Discrete) Step(action *mat.VecDense) (timestep.TimeStep, bool) {
	var continuous *mat.VecDense
	switch int(action.AtVec(0)) {
	case 0:
		continuous = mat.NewVecDense(3, []float64{0, 0, 0})
	case 1:
		continuous = mat.NewVecDense(3, []float64{0.6, 0, 0})
	case 2:
		continuous = mat.NewVecDense(3, []float64{-0.6, 0, 0})
	case 3:
		continuous = mat.NewVecDense(3, []float64{0, 0.2, 0})
	case 4:
		continuous = mat.NewVecDense(3, []float64{0, 0, 0.8})
	default:
		panic(fmt.Sprintf("step: illegal action %v, expected action in "+
			"{0, 1, 2, 3, 4}", action.AtVec(0)))
	}

	return d.carRacing.Step(continuous)
}
