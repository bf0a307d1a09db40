package envconfig

import (
	"testing"

	"github.com/samuelfneumann/gorace/environment/box2d/carracing"
)

func TestFromJSONLayersOverDefaults(t *testing.T) {
	data := []byte(`{"speedMode": "randomized", "maxEpisodeSteps": 500}`)

	config, err := FromJSON(data)
	if err != nil {
		t.Fatal(err)
	}

	if config.SpeedMode != Randomized {
		t.Errorf("got speed mode %q, expected %q", config.SpeedMode,
			Randomized)
	}
	if config.MaxEpisodeSteps != 500 {
		t.Errorf("got max episode steps %v, expected 500",
			config.MaxEpisodeSteps)
	}

	// Untouched fields keep their defaults
	if config.TargetSpeed != carracing.DefaultTargetSpeed {
		t.Errorf("got target speed %v, expected the default %v",
			config.TargetSpeed, carracing.DefaultTargetSpeed)
	}
	if config.LapCompletePercent != carracing.DefaultLapCompletePercent {
		t.Errorf("got lap complete percent %v, expected the default %v",
			config.LapCompletePercent,
			carracing.DefaultLapCompletePercent)
	}
}

func TestFromJSONRejectsMalformedInput(t *testing.T) {
	if _, err := FromJSON([]byte(`{"speedMode": `)); err == nil {
		t.Error("expected an error for malformed JSON")
	}
}

func TestCreateEnvRejectsUnknownSpeedMode(t *testing.T) {
	config := NewConfig()
	config.SpeedMode = "warp"

	if _, _, err := config.CreateEnv(1); err == nil {
		t.Error("expected an error for an unknown speed mode")
	}
}

func TestCreateEnvRejectsUnknownEnvironment(t *testing.T) {
	config := NewConfig()
	config.Environment = "MountainCar"

	if _, _, err := config.CreateEnv(1); err == nil {
		t.Error("expected an error for an unknown environment")
	}
}

func TestCreateEnvDefaults(t *testing.T) {
	config := NewConfig()

	env, first, err := config.CreateEnv(1)
	if err != nil {
		t.Fatal(err)
	}

	if !first.First() {
		t.Error("expected a First TimeStep from a fresh environment")
	}

	spec := env.ActionSpec()
	if spec.Cardinality != "Discrete" {
		t.Errorf("got %v actions by default, expected Discrete",
			spec.Cardinality)
	}
	if env.ObservationSpec().Shape.Len() != 2 {
		t.Errorf("got %v observation dimensions in the default "+
			"constant-speed mode, expected 2",
			env.ObservationSpec().Shape.Len())
	}
}
