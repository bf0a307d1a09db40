package carracing

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat"

	"github.com/samuelfneumann/gorace/environment"
	"github.com/samuelfneumann/gorace/timestep"
)

// carRacingTask is a Task that must have access to the environment it
// is run in before the environment is used.
type carRacingTask interface {
	environment.Task
	registerEnv(*carRacing)
	reset()
}

// CenterTrack rewards staying near the track centerline. Reward is
// accumulated each step as a shaped score and the per-step reward is
// the change in that score. Episodes end in failure when the car
// strays more than the road half-width from the centerline, and end
// in truncation on lap completion or on the step limit.
type CenterTrack struct {
	environment.Starter

	offRoad   environment.Ender
	stepLimit environment.Ender

	env *carRacing
}

// NewCenterTrack creates a centerline-following task. The starter
// draws the per-episode target speed; pass a degenerate interval for
// a constant speed.
func NewCenterTrack(starter environment.Starter,
	maxEpisodeSteps int) environment.Task {
	offRoad := environment.NewIntervalLimit(
		[]r1.Interval{{Min: -1.0, Max: 1.0}},
		[]int{1},
		timestep.TerminalStateReached,
	)

	return &CenterTrack{
		Starter:   starter,
		offRoad:   offRoad,
		stepLimit: environment.NewStepLimit(maxEpisodeSteps),
	}
}

func (ct *CenterTrack) registerEnv(env *carRacing) {
	ct.env = env
}

func (ct *CenterTrack) reset() {}

// GetReward computes the per-step reward as the delta of the shaped
// cumulative score. Going off-road overrides the delta with a flat
// penalty.
func (ct *CenterTrack) GetReward(_, action, nextState mat.Vector) float64 {
	env := ct.env

	if env.speedMode == AccelBrake && action != nil && action.Len() == 3 {
		env.cumulativeReward -= action.AtVec(2) * 20
		env.cumulativeReward += action.AtVec(1)

		speed := nextState.AtVec(2)
		env.cumulativeReward += (1 - math.Abs(speed-0.5)) * 10
		if speed < 0.1 {
			env.cumulativeReward -= 25
		}
		if speed < 0.05 {
			env.cumulativeReward -= 1000
		}
	}

	if env.penalizeOscillations && env.episodeSteps >= env.errorWindow {
		variance := stat.PopVariance(env.prevErrors.Values(), nil)
		env.cumulativeReward -= variance * VarianceRescale
	}

	cte := nextState.AtVec(1)
	if math.Abs(cte) <= RoadHalfWidth {
		env.cumulativeReward += RewardVShift - cte*cte
	}

	stepReward := env.cumulativeReward - env.prevReward
	env.prevReward = env.cumulativeReward

	if math.Abs(env.lateralError) > RoadHalfWidth {
		stepReward = -OffRoadPenalty
		env.cumulativeReward -= OffRoadPenalty
	}

	return stepReward
}

// AtGoal returns whether a lap has been completed
func (ct *CenterTrack) AtGoal(_ mat.Matrix) bool {
	return ct.env.newLap ||
		ct.env.tileVisitedCount == len(ct.env.track.tiles)
}

// End checks the episode-ending conditions in priority order and
// modifies t accordingly: off-road failure first, then lap
// completion, then the step limit.
func (ct *CenterTrack) End(t *timestep.TimeStep) bool {
	if ct.offRoad.End(t) {
		return true
	}

	if ct.env.newLap ||
		ct.env.tileVisitedCount == len(ct.env.track.tiles) {
		t.StepType = timestep.Last
		t.SetEnd(timestep.Timeout)
		return true
	}

	return ct.stepLimit.End(t)
}

// Min returns the minimum attainable per-step reward
func (ct *CenterTrack) Min() float64 {
	return -OffRoadPenalty
}

// Max returns the maximum attainable per-step reward
func (ct *CenterTrack) Max() float64 {
	if ct.env != nil && ct.env.speedMode == AccelBrake {
		return RewardVShift + 11
	}
	return RewardVShift
}

// RewardSpec returns the reward specification of the task
func (ct *CenterTrack) RewardSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{ct.Min()})
	upperBound := mat.NewVecDense(1, []float64{ct.Max()})

	return environment.NewSpec(shape, environment.Reward, lowerBound,
		upperBound, environment.Continuous)
}
