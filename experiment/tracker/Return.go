package tracker

import "github.com/samuelfneumann/gorace/timestep"

type onlineReturn struct {
	filename string

	currentReturn float64
	returns       []float64
}

// NewReturn returns a Tracker that records the undiscounted return of
// every completed episode and saves the series to filename
func NewReturn(filename string) Tracker {
	return &onlineReturn{filename: filename}
}

// Track accumulates the episode's return, flushing it to the series
// when the episode ends
func (o *onlineReturn) Track(t timestep.TimeStep) {
	if t.First() {
		o.currentReturn = 0
		return
	}

	o.currentReturn += t.Reward
	if t.Last() {
		o.returns = append(o.returns, o.currentReturn)
		o.currentReturn = 0
	}
}

// Save writes the per-episode returns to disk
func (o *onlineReturn) Save() error {
	return saveData(o.filename, o.returns)
}
