package tracker

import "github.com/samuelfneumann/gorace/timestep"

type episodeLength struct {
	filename string

	currentLength int
	lengths       []float64
}

// NewEpisodeLength returns a Tracker that records the length of every
// completed episode and saves the series to filename
func NewEpisodeLength(filename string) Tracker {
	return &episodeLength{filename: filename}
}

// Track counts the episode's steps, flushing the count to the series
// when the episode ends
func (e *episodeLength) Track(t timestep.TimeStep) {
	if t.First() {
		e.currentLength = 0
		return
	}

	e.currentLength++
	if t.Last() {
		e.lengths = append(e.lengths, float64(e.currentLength))
		e.currentLength = 0
	}
}

// Save writes the per-episode lengths to disk
func (e *episodeLength) Save() error {
	return saveData(e.filename, e.lengths)
}
