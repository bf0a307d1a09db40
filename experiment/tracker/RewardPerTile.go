package tracker

import "github.com/samuelfneumann/gorace/timestep"

// TileRewarder reports cumulative episode reward normalized by track
// length. The driving environments implement it.
type TileRewarder interface {
	RewardPerTile() float64
}

type rewardPerTile struct {
	filename string
	env      TileRewarder

	values []float64
}

// NewRewardPerTile returns a Tracker that records env's reward per
// track tile at the end of every episode and saves the series to
// filename
func NewRewardPerTile(filename string, env TileRewarder) Tracker {
	return &rewardPerTile{filename: filename, env: env}
}

// Track records the reward-per-tile metric when the episode ends
func (r *rewardPerTile) Track(t timestep.TimeStep) {
	if t.Last() {
		r.values = append(r.values, r.env.RewardPerTile())
	}
}

// Save writes the per-episode values to disk
func (r *rewardPerTile) Save() error {
	return saveData(r.filename, r.values)
}
