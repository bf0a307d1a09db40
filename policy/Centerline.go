package policy

import (
	"github.com/samuelfneumann/gorace/environment"
	"github.com/samuelfneumann/gorace/timestep"
	"github.com/samuelfneumann/gorace/utils/floatutils"

	"gonum.org/v1/gonum/mat"
)

// Centerline is a proportional controller that steers toward the
// track centerline. It reads the normalized heading and cross-track
// errors from the observation and combines them into a steering
// command; positive cross-track error means the car sits left of the
// centerline and is answered with a rightward command.
type Centerline struct {
	// gains on the cross-track and heading error terms
	crossGain   float64
	headingGain float64

	actionDims int
	gas        float64
}

// NewCenterline returns a Centerline controller producing actions for
// the given action specification. For three-dimensional actions a
// fixed gas command is emitted alongside the steering command.
func NewCenterline(spec environment.Spec) *Centerline {
	return &Centerline{
		crossGain:   0.5,
		headingGain: 1.0,
		actionDims:  spec.Shape.Len(),
		gas:         0.3,
	}
}

// SelectAction returns the steering command for the observation in t
func (c *Centerline) SelectAction(t timestep.TimeStep) *mat.VecDense {
	obs := t.Observation
	steer := floatutils.Clip(
		c.crossGain*obs.AtVec(1)-c.headingGain*obs.AtVec(0), -1, 1)

	action := mat.NewVecDense(c.actionDims, nil)
	action.SetVec(0, steer)
	if c.actionDims == 3 {
		action.SetVec(1, c.gas)
	}
	return action
}
