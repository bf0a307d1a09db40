// Package experiment provides runners that evaluate a policy in an
// environment and record data through trackers.
package experiment

import (
	"io"

	"github.com/samuelfneumann/gorace/environment"
	"github.com/samuelfneumann/gorace/experiment/tracker"
	"github.com/samuelfneumann/gorace/policy"
	"github.com/samuelfneumann/gorace/timestep"
	"github.com/samuelfneumann/gorace/utils/progressbar"
)

// Online runs a policy in an environment for a fixed total number of
// environmental steps, episode after episode, feeding every TimeStep
// to its trackers.
type Online struct {
	env    environment.Environment
	policy policy.Policy

	maxSteps     int
	currentSteps int

	trackers []tracker.Tracker
	bar      *progressbar.ProgressBar
}

// NewOnline creates a new online experiment. If progress is non-nil, a
// progress bar is drawn to it as steps complete.
func NewOnline(env environment.Environment, p policy.Policy,
	maxSteps int, trackers []tracker.Tracker, progress io.Writer) *Online {
	e := &Online{
		env:      env,
		policy:   p,
		maxSteps: maxSteps,
		trackers: trackers,
	}
	if progress != nil {
		e.bar = progressbar.New(progress, 40, maxSteps)
	}
	return e
}

// Environment returns the experiment's environment
func (o *Online) Environment() environment.Environment {
	return o.env
}

func (o *Online) track(t timestep.TimeStep) {
	for _, tr := range o.trackers {
		tr.Track(t)
	}
}

// RunEpisode runs a single episode, returning false when the
// experiment's step budget was exhausted before the episode ended
func (o *Online) RunEpisode() bool {
	step := o.env.Reset()
	o.track(step)

	for o.currentSteps < o.maxSteps {
		action := o.policy.SelectAction(step)

		var last bool
		step, last = o.env.Step(action)
		o.currentSteps++
		if o.bar != nil {
			o.bar.Increment(1)
		}

		o.track(step)
		if last {
			return true
		}
	}
	return false
}

// Run runs episodes until the step budget is exhausted, then saves all
// trackers. The error of the first tracker that fails to save is
// returned.
func (o *Online) Run() error {
	for o.RunEpisode() {
	}
	if o.bar != nil {
		o.bar.Close()
	}
	return o.Save()
}

// Save saves all trackers' data to disk
func (o *Online) Save() error {
	for _, tr := range o.trackers {
		if err := tr.Save(); err != nil {
			return err
		}
	}
	return nil
}
