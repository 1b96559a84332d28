package ga

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/ceslop84/ia-ag/internal/inventory"
)

// Params holds the evolution constants of a run
type Params struct {
	MutationProb   float64 // PM
	CrossoverProb  float64 // PC
	PopulationSize int     // NP
	Capacity       int
}

// Validate checks parameter ranges
func (p Params) Validate() error {
	if p.MutationProb < 0 || p.MutationProb > 1 {
		return fmt.Errorf("mutation probability %v out of [0, 1]", p.MutationProb)
	}
	if p.CrossoverProb < 0 || p.CrossoverProb > 1 {
		return fmt.Errorf("crossover probability %v out of [0, 1]", p.CrossoverProb)
	}
	if p.PopulationSize <= 0 {
		return errors.New("population size must be positive")
	}
	if p.Capacity < 0 {
		return errors.New("capacity must not be negative")
	}
	return nil
}

// Generation is one population snapshot, kept sorted by fitness, highest
// first.
type Generation struct {
	ID         int
	population []*Knapsack

	inv    *inventory.Inventory
	params Params
}

// NewGeneration copies a population and sorts it by fitness descending
func NewGeneration(inv *inventory.Inventory, params Params, id int, population []*Knapsack) *Generation {
	g := &Generation{
		ID:         id,
		population: append([]*Knapsack(nil), population...),
		inv:        inv,
		params:     params,
	}
	g.SortByFitness()
	return g
}

// RandomGeneration creates generation 0 with PopulationSize random knapsacks
func RandomGeneration(inv *inventory.Inventory, params Params, rng *rand.Rand) *Generation {
	population := make([]*Knapsack, params.PopulationSize)
	for i := range population {
		population[i] = RandomKnapsack(inv, 0, rng)
	}
	return NewGeneration(inv, params, 0, population)
}

// Population returns a copy of the sorted population
func (g *Generation) Population() []*Knapsack {
	return append([]*Knapsack(nil), g.population...)
}

// At returns the knapsack at position i of the sorted population
func (g *Generation) At(i int) *Knapsack {
	return g.population[i]
}

// Size returns the population size
func (g *Generation) Size() int {
	return len(g.population)
}

// Params returns the parameters the generation evolves with
func (g *Generation) Params() Params {
	return g.params
}

// SortByFitness sorts knapsacks by fitness (descending). Ties keep their order.
func (g *Generation) SortByFitness() {
	sortByFitness(g.population)
}

func sortByFitness(pop []*Knapsack) {
	sort.SliceStable(pop, func(i, j int) bool {
		return pop[i].Fitness() > pop[j].Fitness()
	})
}

// Best returns the knapsack with highest fitness, feasible or not
func (g *Generation) Best() *Knapsack {
	if len(g.population) == 0 {
		return nil
	}
	return g.population[0]
}

// SelectBest returns the fittest knapsack within capacity and its position.
// Returns -1 and nil when no knapsack fits.
func (g *Generation) SelectBest() (int, *Knapsack) {
	for i, k := range g.population {
		if k.Feasible(g.params.Capacity) {
			return i, k
		}
	}
	return -1, nil
}

// CrossoverSize is floor(PC * size) rounded up to an even number
func CrossoverSize(pc float64, size int) int {
	n := int(pc * float64(size))
	if n%2 != 0 {
		n++
	}
	return n
}

// Evolve produces the next generation: roulette parents, midpoint crossover,
// mutation, constraint handling over children and parents, then truncation
// to the best PopulationSize.
func (g *Generation) Evolve(method Method, rng *rand.Rand) (*Generation, error) {
	if !method.valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, string(method))
	}

	nextID := g.ID + 1
	children := g.reproduce(nextID, rng)

	pool := make([]*Knapsack, 0, len(children)+len(g.population))
	pool = append(pool, children...)
	pool = append(pool, g.clonePopulation()...)

	switch method {
	case Repair:
		for _, k := range pool {
			k.Repair(g.params.Capacity, rng)
		}
	case Penalize:
		for _, k := range pool {
			k.Penalize(g.params.Capacity)
		}
	}

	sortByFitness(pool)
	if len(pool) > g.params.PopulationSize {
		for i := g.params.PopulationSize; i < len(pool); i++ {
			pool[i] = nil
		}
		pool = pool[:g.params.PopulationSize]
	}

	return NewGeneration(g.inv, g.params, nextID, pool), nil
}

// reproduce draws parent pairs from a working copy of the population until
// twice the number of children reaches the crossover size
func (g *Generation) reproduce(birth int, rng *rand.Rand) []*Knapsack {
	if len(g.population) < 2 {
		return nil
	}

	target := CrossoverSize(g.params.CrossoverProb, len(g.population))
	children := make([]*Knapsack, 0, (target+1)/2)

	// selection only reorders the working slice, knapsacks are not touched
	working := append([]*Knapsack(nil), g.population...)
	for len(children)*2 < target {
		if len(working) < 2 {
			working = append(working[:0], g.population...)
		}

		var p1, p2 *Knapsack
		p1, p2, working = SelectParents(working, rng)

		child := CreateChild(p1, p2, birth)
		MaybeMutate(child, g.params.MutationProb, rng)
		children = append(children, child)
	}
	return children
}

func (g *Generation) clonePopulation() []*Knapsack {
	out := make([]*Knapsack, len(g.population))
	for i, k := range g.population {
		out[i] = k.Clone()
	}
	return out
}
