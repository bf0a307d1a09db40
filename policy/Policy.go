// Package policy provides action-selection strategies for driving
// environments
package policy

import (
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/gorace/timestep"
)

// Policy selects actions from observations
type Policy interface {
	SelectAction(t timestep.TimeStep) *mat.VecDense
}
