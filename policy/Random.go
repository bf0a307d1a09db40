package policy

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/gorace/environment"
	"github.com/samuelfneumann/gorace/timestep"
)

// Random selects actions uniformly at random from an action
// specification. Continuous specifications are sampled per dimension
// between their bounds; discrete specifications draw an integer action.
type Random struct {
	spec environment.Spec
	rng  *rand.Rand
}

// NewRandom returns a Random policy acting legally under spec
func NewRandom(spec environment.Spec, seed uint64) *Random {
	return &Random{
		spec: spec,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// SelectAction returns a random legal action
func (r *Random) SelectAction(_ timestep.TimeStep) *mat.VecDense {
	dims := r.spec.Shape.Len()
	action := mat.NewVecDense(dims, nil)

	if r.spec.Cardinality == environment.Discrete {
		lower := int(r.spec.LowerBound.AtVec(0))
		upper := int(r.spec.UpperBound.AtVec(0))
		action.SetVec(0, float64(lower+r.rng.Intn(upper-lower+1)))
		return action
	}

	for i := 0; i < dims; i++ {
		lower := r.spec.LowerBound.AtVec(i)
		upper := r.spec.UpperBound.AtVec(i)
		action.SetVec(i, lower+r.rng.Float64()*(upper-lower))
	}
	return action
}
