package ga

import (
	"math/rand"
)

// MaybeMutate flips one bit of the knapsack with probability rate and
// re-evaluates it. Reports whether a mutation happened.
func MaybeMutate(k *Knapsack, rate float64, rng *rand.Rand) bool {
	if rng.Float64() >= rate {
		return false
	}
	k.Mutate(rng)
	k.Evaluate()
	return true
}
