// Package carracing provides a closed-loop driving environment. A
// random looped track is generated on every reset and a simulated car
// must be steered to stay near the track centerline. Observations are
// normalized control errors (heading error and signed cross-track
// error, optionally a speed term) rather than pixels.
package carracing

import (
	"image/color"
	"math"

	"github.com/ByteArena/box2d"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/gorace/environment"
	"github.com/samuelfneumann/gorace/timestep"
	"github.com/samuelfneumann/gorace/utils/ringbuffer"
)

const (
	FPS float64 = 50

	// Track scale
	Scale float64 = 6.0

	TrackRad  float64 = 900 / Scale
	Playfield float64 = 2000 / Scale

	TrackDetailStep float64 = 21 / Scale
	TrackTurnRate   float64 = 0.31
	TrackWidth      float64 = 40 / Scale
	Border          float64 = 8 / Scale
	BorderMinCount  int     = 4

	Checkpoints   int = 12
	MaxTrackIters int = 2500

	// RoadHalfWidth bounds the tolerated cross-track error; beyond it
	// the episode terminates
	RoadHalfWidth float64 = 7.0

	// NumPrevErrors is the default length of the rolling lateral-error
	// window used for the oscillation penalty
	NumPrevErrors int = 20

	VarianceRescale float64 = 200
	RewardVShift    float64 = 10
	OffRoadPenalty  float64 = 1000

	MaxSpeed float64 = 150

	DefaultTargetSpeed        float64 = 50
	MinRandomSpeed            float64 = 10
	MaxRandomSpeed            float64 = 80
	DefaultLapCompletePercent float64 = 1.0
	DefaultMaxEpisodeSteps    int     = 2000

	velocityIterations int = 180
	positionIterations int = 60
)

// SpeedMode selects how the vehicle's speed is controlled
type SpeedMode int

const (
	// ConstantSpeed forces the wheel speed to the Starter-provided
	// target on every step. Observations are 2-dimensional.
	ConstantSpeed SpeedMode = iota

	// RandomizedSpeed forces the wheel speed to a target redrawn from
	// the Starter on every reset. Observations carry a speed term.
	RandomizedSpeed

	// AccelBrake gives the agent gas and brake actions. Observations
	// carry the measured wheel speed.
	AccelBrake
)

func (s SpeedMode) String() string {
	switch s {
	case RandomizedSpeed:
		return "RandomizedSpeed"
	case AccelBrake:
		return "AccelBrake"
	default:
		return "ConstantSpeed"
	}
}

// lifecycle tags where an environment is in its episode lifecycle so
// that misuse fails loudly instead of silently producing garbage.
type lifecycle int

const (
	uninitialized lifecycle = iota
	ready
	terminal
)

// Indicators packages the values the drawing layer displays alongside
// a frame. They feed nothing back into the simulation.
type Indicators struct {
	TrueSpeed       float64
	WheelOmega      [4]float64
	SteerAngle      float64
	AngularVelocity float64
}

// Option configures a carRacing environment at construction
type Option func(*carRacing)

// WithSpeedMode selects the environment's speed-control mode
func WithSpeedMode(m SpeedMode) Option {
	return func(c *carRacing) { c.speedMode = m }
}

// WithLapCompletePercent sets the fraction of tiles that must be
// visited before a lap is considered complete
func WithLapCompletePercent(p float64) Option {
	return func(c *carRacing) { c.lapCompletePercent = p }
}

// WithDomainRandomize randomizes the road/background/grass colors on
// every reset. Colors are rendering-only and never affect simulation.
func WithDomainRandomize() Option {
	return func(c *carRacing) { c.domainRandomize = true }
}

// WithoutOscillationPenalty disables the rolling-variance penalty
func WithoutOscillationPenalty() Option {
	return func(c *carRacing) { c.penalizeOscillations = false }
}

// WithErrorWindow sets the length of the rolling lateral-error window
func WithErrorWindow(n int) Option {
	return func(c *carRacing) { c.errorWindow = n }
}

// carRacing implements the track-following environment. The struct is
// shared by the Continuous and Discrete front-ends, which differ only
// in their action specifications.
type carRacing struct {
	environment.Task

	world box2d.B2World
	track *track
	car   *car

	rng *rand.Rand

	speedMode            SpeedMode
	targetSpeed          float64
	lapCompletePercent   float64
	penalizeOscillations bool
	domainRandomize      bool
	errorWindow          int

	roadColor  color.RGBA
	bgColor    color.RGBA
	grassColor color.RGBA

	tileVisitedCount int
	newLap           bool
	cumulativeReward float64
	prevReward       float64
	episodeSteps     int
	elapsed          float64
	prevErrors       *ringbuffer.Float

	// tracking errors of the most recent physics tick, unnormalized
	headingError float64
	lateralError float64

	discount float64
	prevStep timestep.TimeStep
	phase    lifecycle
}

// newCarRacing creates the base environment and runs its first reset,
// so the environment starts ready to use.
func newCarRacing(task environment.Task, discount float64, seed uint64,
	opts ...Option) (*carRacing, timestep.TimeStep) {
	c := &carRacing{
		world:                box2d.MakeB2World(box2d.MakeB2Vec2(0, 0)),
		rng:                  rand.New(rand.NewSource(seed)),
		speedMode:            ConstantSpeed,
		lapCompletePercent:   DefaultLapCompletePercent,
		penalizeOscillations: true,
		errorWindow:          NumPrevErrors,
		discount:             discount,
		phase:                uninitialized,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.errorWindow <= 0 {
		panic("newCarRacing: error window must be positive")
	}
	c.prevErrors = ringbuffer.NewFloat(c.errorWindow)

	c.roadColor = color.RGBA{R: 57, G: 64, B: 83, A: 255}
	c.bgColor = color.RGBA{R: 110, G: 99, B: 98, A: 255}
	c.grassColor = color.RGBA{R: 131, G: 144, B: 115, A: 255}

	if t, ok := task.(carRacingTask); ok {
		t.registerEnv(c)
		c.Task = t
	} else {
		c.Task = task
	}

	step := c.Reset()
	return c, step
}

// Reset tears down the previous episode's bodies and builds a fresh
// random track. Track generation is retried transparently on build
// failure; failures are expected and never surface to the caller.
func (c *carRacing) Reset() timestep.TimeStep {
	c.destroy()
	c.world.SetContactListener(newTileDetector(c))

	c.cumulativeReward = 0
	c.prevReward = 0
	c.tileVisitedCount = 0
	c.newLap = false
	c.episodeSteps = 0
	c.elapsed = 0
	c.prevErrors.Reset()

	if t, ok := c.Task.(carRacingTask); ok {
		t.reset()
	}

	if c.speedMode == AccelBrake {
		c.targetSpeed = 0
	} else {
		c.targetSpeed = c.Start().AtVec(0)
	}

	if c.domainRandomize {
		c.randomizeColors()
	}

	for {
		tr, err := newTrack(&c.world, c.rng, c.roadColor)
		if err == nil {
			c.track = tr
			break
		}
	}

	start := c.track.waypoints[0]
	c.car = newCar(&c.world, start.beta, start.x, start.y)

	c.phase = ready

	// One action-less physics tick so the first observation reflects a
	// settled pose. No reward shaping or end checks are performed.
	obs := c.advance(nil)
	first := timestep.New(timestep.First, 0, c.discount, obs, 0)
	c.prevStep = first
	return first
}

// ResetSeed reseeds the environment's random stream and resets. The
// seed is owned by the caller; the generator is never process-global.
func (c *carRacing) ResetSeed(seed uint64) timestep.TimeStep {
	c.rng = rand.New(rand.NewSource(seed))
	return c.Reset()
}

// Step takes one environmental step. Stepping before a reset or after
// the episode has ended is a programmer error and panics.
func (c *carRacing) Step(action *mat.VecDense) (timestep.TimeStep, bool) {
	switch c.phase {
	case uninitialized:
		panic("step: Reset must be called before stepping")
	case terminal:
		panic("step: episode has ended; Reset the environment")
	}

	obs := c.advance(action)
	c.episodeSteps++

	reward := c.GetReward(c.prevStep.Observation, action, obs)
	c.car.fuelSpent = 0

	t := timestep.New(timestep.Mid, reward, c.discount, obs,
		c.prevStep.Number+1)
	c.End(&t)
	if t.Last() {
		c.phase = terminal
	}

	c.prevStep = t
	return t, t.Last()
}

// advance applies the action, ticks the physics world once, and
// rebuilds the observation and lateral-error history.
func (c *carRacing) advance(action *mat.VecDense) *mat.VecDense {
	if c.speedMode != AccelBrake && c.targetSpeed != 0 {
		for _, w := range c.car.wheels {
			w.omega = c.targetSpeed
		}
	}

	if action != nil {
		c.car.steerCmd(-action.AtVec(0))
		if c.speedMode == AccelBrake && action.Len() == 3 {
			c.car.gasCmd(action.AtVec(1))
			c.car.brakeCmd(action.AtVec(2))
		}
	}

	c.car.step(1.0 / FPS)
	c.world.Step(1.0/FPS, velocityIterations, positionIterations)
	c.elapsed += 1.0 / FPS

	pos := c.car.hull.GetPosition()
	headingErr, lateralErr, _ := crossTrackError(pos.X, pos.Y,
		c.car.hull.GetAngle(), c.track.waypoints)
	c.headingError = headingErr
	c.lateralError = lateralErr

	obs := c.observation()
	c.prevErrors.Push(obs.AtVec(1))
	return obs
}

// observation builds the normalized observation vector: heading error
// in units of π/2, cross-track error in units of the road half-width,
// and, outside constant-speed mode, a speed term in [0.01, 1].
func (c *carRacing) observation() *mat.VecDense {
	normHeading := 2 * c.headingError / math.Pi
	normCTE := c.lateralError / RoadHalfWidth

	if c.observationDims() == 2 {
		return mat.NewVecDense(2, []float64{normHeading, normCTE})
	}

	var normSpeed float64
	if c.speedMode == AccelBrake {
		normSpeed = c.car.wheels[3].omega/MaxSpeed*0.99 + 0.01
	} else {
		normSpeed = (c.targetSpeed-MinRandomSpeed)/
			(MaxRandomSpeed-MinRandomSpeed)*0.99 + 0.01
	}
	return mat.NewVecDense(3, []float64{normHeading, normCTE, normSpeed})
}

func (c *carRacing) observationDims() int {
	if c.speedMode == ConstantSpeed {
		return 2
	}
	return 3
}

// visitTile transitions a tile to visited exactly once, updating the
// visit counter and the lap-completion flag. Called from the contact
// listener on begin events.
func (c *carRacing) visitTile(t *roadTile) {
	if t.visited {
		return
	}
	t.visited = true
	c.tileVisitedCount++

	if float64(c.tileVisitedCount)/float64(len(c.track.tiles)) >
		c.lapCompletePercent {
		c.newLap = true
	}
}

// destroy releases the previous episode's bodies from the physics
// world. Safe to call when no episode has been built yet.
func (c *carRacing) destroy() {
	if c.track == nil {
		return
	}
	c.track.destroy(&c.world)
	c.track = nil
	c.car.destroy()
	c.car = nil
}

func (c *carRacing) randomizeColors() {
	c.roadColor = c.randomColor()
	c.bgColor = c.randomColor()
	c.grassColor = c.bgColor
	switch c.rng.Intn(3) {
	case 0:
		c.grassColor.R = saturate(c.grassColor.R, 20)
	case 1:
		c.grassColor.G = saturate(c.grassColor.G, 20)
	case 2:
		c.grassColor.B = saturate(c.grassColor.B, 20)
	}
}

// RandomizeColors redraws the domain-randomized color palette on
// demand. Calling it on an environment constructed without domain
// randomization is a programmer error.
func (c *carRacing) RandomizeColors() {
	if !c.domainRandomize {
		panic("randomizeColors: environment was not constructed with " +
			"domain randomization")
	}
	c.randomizeColors()
}

func (c *carRacing) randomColor() color.RGBA {
	return color.RGBA{
		R: uint8(uniform(c.rng, 0, 210)),
		G: uint8(uniform(c.rng, 0, 210)),
		B: uint8(uniform(c.rng, 0, 210)),
		A: 255,
	}
}

func saturate(v uint8, delta int) uint8 {
	if int(v)+delta > 255 {
		return 255
	}
	return v + uint8(delta)
}

// LastTimeStep returns the most recent TimeStep of the environment
func (c *carRacing) LastTimeStep() timestep.TimeStep {
	return c.prevStep
}

// TilesVisited returns the number of unique tiles visited this episode
func (c *carRacing) TilesVisited() int {
	return c.tileVisitedCount
}

// NumTiles returns the number of tiles in the current track
func (c *carRacing) NumTiles() int {
	return len(c.track.tiles)
}

// RewardPerTile returns the cumulative episode reward normalized by
// the track length, a progress metric for outer training loops.
func (c *carRacing) RewardPerTile() float64 {
	return c.cumulativeReward / float64(len(c.track.tiles))
}

// CTE returns the unnormalized heading and lateral tracking errors of
// the most recent step
func (c *carRacing) CTE() (headingErr, lateralErr float64) {
	return c.headingError, c.lateralError
}

// RoadPolys returns the renderable road and border polygons of the
// current track
func (c *carRacing) RoadPolys() []RoadPoly {
	return c.track.polys
}

// Indicators returns the display-only gauge values for the current
// vehicle state
func (c *carRacing) Indicators() Indicators {
	ind := Indicators{
		TrueSpeed:       c.car.speed(),
		SteerAngle:      c.car.wheels[0].joint.GetJointAngle(),
		AngularVelocity: c.car.hull.GetAngularVelocity(),
	}
	for i, w := range c.car.wheels {
		ind.WheelOmega[i] = w.omega
	}
	return ind
}

// DiscountSpec returns the discount specification of the environment
func (c *carRacing) DiscountSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	bound := mat.NewVecDense(1, []float64{c.discount})

	return environment.NewSpec(shape, environment.Discount, bound, bound,
		environment.Continuous)
}

// ObservationSpec returns the observation specification of the
// environment
func (c *carRacing) ObservationSpec() environment.Spec {
	dims := c.observationDims()
	shape := mat.NewVecDense(dims, nil)

	lower := []float64{-1, -1, 0.01}
	upper := []float64{1, 1, 1}
	lowerBound := mat.NewVecDense(dims, lower[:dims])
	upperBound := mat.NewVecDense(dims, upper[:dims])

	return environment.NewSpec(shape, environment.Observation, lowerBound,
		upperBound, environment.Continuous)
}
