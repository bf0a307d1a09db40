// Package envconfig provides JSON-configurable construction of
// environments, so experiments can be specified in configuration files
// rather than code.
package envconfig

import (
	"encoding/json"
	"fmt"

	"gonum.org/v1/gonum/spatial/r1"

	"github.com/samuelfneumann/gorace/environment"
	"github.com/samuelfneumann/gorace/environment/box2d/carracing"
	"github.com/samuelfneumann/gorace/timestep"
)

// EnvName identifies an environment constructable from a Config
type EnvName string

const (
	CarRacing EnvName = "CarRacing"
)

// SpeedModeName is the JSON spelling of a carracing.SpeedMode
type SpeedModeName string

const (
	Constant   SpeedModeName = "constant"
	Randomized SpeedModeName = "randomized"
	AccelBrake SpeedModeName = "accel-brake"
)

// Config describes an environment to construct. Zero values fall back
// to the defaults documented on each field.
type Config struct {
	Environment EnvName `json:"environment"`

	// ContinuousActions selects the continuous-action front-end;
	// otherwise actions are discrete
	ContinuousActions bool `json:"continuousActions"`

	// SpeedMode defaults to constant
	SpeedMode SpeedModeName `json:"speedMode"`

	// TargetSpeed is the forced wheel speed for Constant mode;
	// defaults to carracing.DefaultTargetSpeed. Ignored otherwise.
	TargetSpeed float64 `json:"targetSpeed"`

	// MinSpeed and MaxSpeed bound the per-episode target draw for
	// Randomized mode; default to carracing.MinRandomSpeed and
	// carracing.MaxRandomSpeed. Ignored otherwise.
	MinSpeed float64 `json:"minSpeed"`
	MaxSpeed float64 `json:"maxSpeed"`

	// LapCompletePercent defaults to
	// carracing.DefaultLapCompletePercent
	LapCompletePercent float64 `json:"lapCompletePercent"`

	// MaxEpisodeSteps defaults to carracing.DefaultMaxEpisodeSteps
	MaxEpisodeSteps int `json:"maxEpisodeSteps"`

	PenalizeOscillations bool `json:"penalizeOscillations"`
	DomainRandomize      bool `json:"domainRandomize"`

	Discount float64 `json:"discount"`
}

// NewConfig returns a Config with the defaults filled in
func NewConfig() Config {
	return Config{
		Environment:          CarRacing,
		SpeedMode:            Constant,
		TargetSpeed:          carracing.DefaultTargetSpeed,
		MinSpeed:             carracing.MinRandomSpeed,
		MaxSpeed:             carracing.MaxRandomSpeed,
		LapCompletePercent:   carracing.DefaultLapCompletePercent,
		MaxEpisodeSteps:      carracing.DefaultMaxEpisodeSteps,
		PenalizeOscillations: true,
		Discount:             1.0,
	}
}

// FromJSON fills a Config from JSON, layering the file's fields over
// the defaults
func FromJSON(data []byte) (Config, error) {
	config := NewConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("fromJSON: could not unmarshal "+
			"config: %v", err)
	}
	return config, nil
}

// MarshalJSONIndent serializes the Config for writing back to disk
func (c Config) MarshalJSONIndent() ([]byte, error) {
	return json.MarshalIndent(c, "", "\t")
}

func (c Config) speedMode() (carracing.SpeedMode, error) {
	switch c.SpeedMode {
	case Constant, "":
		return carracing.ConstantSpeed, nil
	case Randomized:
		return carracing.RandomizedSpeed, nil
	case AccelBrake:
		return carracing.AccelBrake, nil
	default:
		return 0, fmt.Errorf("unknown speed mode %q", c.SpeedMode)
	}
}

// CreateEnv constructs the configured environment with the given seed
// and returns it along with its first TimeStep
func (c Config) CreateEnv(seed uint64) (environment.Environment,
	timestep.TimeStep, error) {
	if c.Environment != CarRacing {
		return nil, timestep.TimeStep{}, fmt.Errorf("createEnv: "+
			"unknown environment %q", c.Environment)
	}

	mode, err := c.speedMode()
	if err != nil {
		return nil, timestep.TimeStep{}, fmt.Errorf("createEnv: %v", err)
	}

	speedBounds := r1.Interval{Min: c.TargetSpeed, Max: c.TargetSpeed}
	if mode == carracing.RandomizedSpeed {
		speedBounds = r1.Interval{Min: c.MinSpeed, Max: c.MaxSpeed}
	}
	starter := environment.NewUniformStarter(
		[]r1.Interval{speedBounds}, seed)

	maxSteps := c.MaxEpisodeSteps
	if maxSteps <= 0 {
		maxSteps = carracing.DefaultMaxEpisodeSteps
	}
	task := carracing.NewCenterTrack(starter, maxSteps)

	opts := []carracing.Option{carracing.WithSpeedMode(mode)}
	if c.LapCompletePercent > 0 {
		opts = append(opts,
			carracing.WithLapCompletePercent(c.LapCompletePercent))
	}
	if !c.PenalizeOscillations {
		opts = append(opts, carracing.WithoutOscillationPenalty())
	}
	if c.DomainRandomize {
		opts = append(opts, carracing.WithDomainRandomize())
	}

	if c.ContinuousActions {
		env, first := carracing.NewContinuous(task, c.Discount, seed,
			opts...)
		return env, first, nil
	}
	env, first := carracing.NewDiscrete(task, c.Discount, seed, opts...)
	return env, first, nil
}
