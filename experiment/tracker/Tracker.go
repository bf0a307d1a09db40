// Package tracker provides savers for experimental data. Trackers
// observe every TimeStep of an experiment and serialize their data
// with gob when saved.
package tracker

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/samuelfneumann/gorace/timestep"
)

// Tracker tracks experimental data and saves it to disk
type Tracker interface {
	// Track records any needed data from the TimeStep
	Track(t timestep.TimeStep)

	// Save writes the tracked data to disk
	Save() error
}

// LoadData reads back a gob-encoded []float64 written by a Tracker
func LoadData(filename string) ([]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loadData: could not open %v: %v",
			filename, err)
	}
	defer file.Close()

	var data []float64
	if err := gob.NewDecoder(file).Decode(&data); err != nil {
		return nil, fmt.Errorf("loadData: could not decode %v: %v",
			filename, err)
	}
	return data, nil
}

func saveData(filename string, data []float64) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("save: could not create %v: %v", filename, err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(data); err != nil {
		return fmt.Errorf("save: could not encode %v: %v", filename, err)
	}
	return nil
}
