package ga

import (
	"math/rand"
)

// Roulette picks one knapsack with probability proportional to its fitness
// and returns it together with the pool it was removed from. Removal swaps
// the last element into the freed slot, so the pool order changes.
//
// When the total fitness is zero every knapsack has the same chance.
func Roulette(pool []*Knapsack, rng *rand.Rand) (*Knapsack, []*Knapsack) {
	if len(pool) == 0 {
		return nil, pool
	}

	var idx int
	if total := totalFitness(pool); total == 0 {
		idx = rng.Intn(len(pool))
	} else {
		idx = spin(pool, total, rng.Float64())
	}

	selected := pool[idx]
	return selected, swapRemove(pool, idx)
}

// spin walks the pool accumulating fitness shares and returns the index of
// the first knapsack whose running share exceeds target
func spin(pool []*Knapsack, total int, target float64) int {
	var cumulative float64
	for i, k := range pool {
		cumulative += float64(k.Fitness()) / float64(total)
		if cumulative > target {
			return i
		}
	}
	// rounding left the sum just below target
	return len(pool) - 1
}

func totalFitness(pool []*Knapsack) int {
	total := 0
	for _, k := range pool {
		total += k.Fitness()
	}
	return total
}

func swapRemove(pool []*Knapsack, i int) []*Knapsack {
	last := len(pool) - 1
	pool[i] = pool[last]
	pool[last] = nil
	return pool[:last]
}

// SelectParents draws two distinct parents from the pool by roulette
func SelectParents(pool []*Knapsack, rng *rand.Rand) (*Knapsack, *Knapsack, []*Knapsack) {
	p1, pool := Roulette(pool, rng)
	p2, pool := Roulette(pool, rng)
	return p1, p2, pool
}
