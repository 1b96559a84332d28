package ga

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceslop84/ia-ag/internal/inventory"
)

func testParams() Params {
	return Params{
		MutationProb:   0.05,
		CrossoverProb:  0.5,
		PopulationSize: 20,
		Capacity:       120,
	}
}

func snapshot(g *Generation) []string {
	out := make([]string, g.Size())
	for i, k := range g.Population() {
		out[i] = k.String()
	}
	return out
}

func assertSorted(t *testing.T, g *Generation) {
	t.Helper()
	for i := 1; i < g.Size(); i++ {
		assert.GreaterOrEqual(t, g.At(i-1).Fitness(), g.At(i).Fitness())
	}
}

func TestParamsValidate(t *testing.T) {
	assert.NoError(t, testParams().Validate())

	bad := []func(p *Params){
		func(p *Params) { p.MutationProb = -0.1 },
		func(p *Params) { p.MutationProb = 1.1 },
		func(p *Params) { p.CrossoverProb = 2 },
		func(p *Params) { p.PopulationSize = 0 },
		func(p *Params) { p.Capacity = -1 },
	}
	for i, mod := range bad {
		p := testParams()
		mod(&p)
		assert.Error(t, p.Validate(), "case %d", i)
	}
}

func TestCrossoverSize(t *testing.T) {
	tests := []struct {
		pc   float64
		size int
		want int
	}{
		{0.5, 50, 26},
		{0.5, 20, 10},
		{0.5, 10, 6},
		{1, 5, 6},
		{0.4, 10, 4},
		{0, 10, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CrossoverSize(tt.pc, tt.size), "pc=%v size=%d", tt.pc, tt.size)
	}
}

func TestRandomGeneration(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	inv := randomInventory(t, 20, rng)

	g := RandomGeneration(inv, testParams(), rng)
	assert.Equal(t, 0, g.ID)
	assert.Equal(t, 20, g.Size())
	assertSorted(t, g)
	for _, k := range g.Population() {
		assert.Equal(t, 0, k.Birth())
	}
	assert.Same(t, g.At(0), g.Best())
}

func TestPopulationIsACopy(t *testing.T) {
	inv := classicInventory(t)
	pop := []*Knapsack{
		mustKnapsack(t, inv, 1, 0, 0),
		mustKnapsack(t, inv, 1, 1, 1),
	}
	g := NewGeneration(inv, testParams(), 0, pop)

	pop[0], pop[1] = nil, nil
	got := g.Population()
	got[0], got[1] = got[1], got[0]

	assert.Equal(t, 280, g.At(0).Fitness())
	assert.Equal(t, 60, g.At(1).Fitness())
	assert.Same(t, g.At(0), g.Best())
	assertSorted(t, g)
}

func TestNewGenerationSorts(t *testing.T) {
	inv := classicInventory(t)
	pop := []*Knapsack{
		mustKnapsack(t, inv, 1, 0, 0),
		mustKnapsack(t, inv, 1, 1, 1),
		mustKnapsack(t, inv, 0, 1, 0),
	}

	g := NewGeneration(inv, testParams(), 3, pop)
	assert.Equal(t, []int{280, 100, 60}, []int{
		g.At(0).Fitness(), g.At(1).Fitness(), g.At(2).Fitness(),
	})
}

func TestSelectBest(t *testing.T) {
	inv := classicInventory(t)
	params := testParams()
	params.Capacity = 50

	g := NewGeneration(inv, params, 0, []*Knapsack{
		mustKnapsack(t, inv, 1, 1, 1), // 280, w60
		mustKnapsack(t, inv, 1, 1, 0), // 160, w30
		mustKnapsack(t, inv, 0, 1, 1), // 220, w50
	})

	pos, best := g.SelectBest()
	require.NotNil(t, best)
	assert.Equal(t, 1, pos)
	assert.Equal(t, 220, best.Fitness())

	params.Capacity = 5
	g = NewGeneration(inv, params, 0, []*Knapsack{mustKnapsack(t, inv, 1, 1, 0)})
	pos, best = g.SelectBest()
	assert.Equal(t, -1, pos)
	assert.Nil(t, best)
}

func TestEvolveUnknownMethod(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	inv := randomInventory(t, 10, rng)
	g := RandomGeneration(inv, testParams(), rng)
	before := snapshot(g)

	next, err := g.Evolve(Method("shrink"), rng)
	assert.Nil(t, next)
	assert.True(t, errors.Is(err, ErrUnknownMethod))
	assert.Equal(t, before, snapshot(g))
}

func TestEvolve(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	inv := randomInventory(t, 24, rng)
	params := testParams()
	params.Capacity = inv.TotalWeight() / 3

	for _, method := range []Method{Repair, Penalize} {
		t.Run(string(method), func(t *testing.T) {
			g := RandomGeneration(inv, params, rng)
			for i := 0; i < 30; i++ {
				before := snapshot(g)

				next, err := g.Evolve(method, rng)
				require.NoError(t, err)

				assert.Equal(t, g.ID+1, next.ID)
				assert.Equal(t, params.PopulationSize, next.Size())
				assertSorted(t, next)
				assert.Equal(t, before, snapshot(g), "parent generation changed")

				for _, k := range next.Population() {
					assert.LessOrEqual(t, k.Birth(), next.ID)
					assert.False(t, k.Dirty())
					if method == Repair {
						assert.True(t, k.Feasible(params.Capacity))
					}
				}
				g = next
			}
		})
	}
}

func TestEvolveKnapsacksAreNotShared(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	inv := randomInventory(t, 12, rng)
	g := RandomGeneration(inv, testParams(), rng)

	next, err := g.Evolve(Repair, rng)
	require.NoError(t, err)

	for _, a := range g.Population() {
		for _, b := range next.Population() {
			assert.NotSame(t, a, b)
		}
	}
}

func TestEvolveSmallPopulation(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	inv := classicInventory(t)
	params := Params{MutationProb: 0, CrossoverProb: 1, PopulationSize: 10, Capacity: 1000}

	// 3 parents: crossover size 4, 2 children, pool of 5
	g := NewGeneration(inv, params, 0, []*Knapsack{
		mustKnapsack(t, inv, 1, 0, 0),
		mustKnapsack(t, inv, 0, 1, 0),
		mustKnapsack(t, inv, 0, 0, 1),
	})
	next, err := g.Evolve(Penalize, rng)
	require.NoError(t, err)
	assert.Equal(t, 5, next.Size())

	born := 0
	for _, k := range next.Population() {
		if k.Birth() == 1 {
			born++
		}
	}
	assert.Equal(t, 2, born)

	// a single knapsack cannot reproduce
	single := NewGeneration(inv, params, 4, []*Knapsack{mustKnapsack(t, inv, 1, 1, 0)})
	next, err = single.Evolve(Repair, rng)
	require.NoError(t, err)
	assert.Equal(t, 5, next.ID)
	assert.Equal(t, 1, next.Size())
}

func TestEvolveRefillsWorkingPool(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	inv := classicInventory(t)
	params := Params{MutationProb: 0, CrossoverProb: 1, PopulationSize: 10, Capacity: 1000}

	// 5 parents: crossover size 6 needs 3 pairs, only 2 fit in the pool
	pop := make([]*Knapsack, 5)
	for i := range pop {
		pop[i] = RandomKnapsack(inv, 0, rng)
	}
	g := NewGeneration(inv, params, 0, pop)

	next, err := g.Evolve(Repair, rng)
	require.NoError(t, err)
	assert.Equal(t, 8, next.Size())
}

func TestEvolvePenalizeKeepsInfeasible(t *testing.T) {
	inv := classicInventory(t)
	params := Params{MutationProb: 0, CrossoverProb: 0, PopulationSize: 2, Capacity: 50}

	g := NewGeneration(inv, params, 0, []*Knapsack{
		mustKnapsack(t, inv, 1, 1, 1),
		mustKnapsack(t, inv, 1, 0, 0),
	})
	next, err := g.Evolve(Penalize, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	require.Equal(t, 2, next.Size())
	assert.Equal(t, 233, next.At(0).Fitness())
	assert.Equal(t, 60, next.At(0).Weight())
	assert.Equal(t, 60, next.At(1).Fitness())

	pos, best := next.SelectBest()
	assert.Equal(t, 1, pos)
	assert.Equal(t, 60, best.Fitness())
}

func TestEvolveIsReproducible(t *testing.T) {
	run := func(inv *inventory.Inventory) []string {
		rng := rand.New(rand.NewSource(99))
		g := RandomGeneration(inv, testParams(), rng)
		for i := 0; i < 10; i++ {
			var err error
			g, err = g.Evolve(Repair, rng)
			require.NoError(t, err)
		}
		return snapshot(g)
	}

	inv := randomInventory(t, 15, rand.New(rand.NewSource(1)))
	assert.Equal(t, run(inv), run(inv))
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in   string
		want Method
	}{
		{"repair", Repair},
		{"reparacao", Repair},
		{" Penalize ", Penalize},
		{"penalizacao", Penalize},
	}
	for _, tt := range tests {
		m, err := ParseMethod(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, m)
	}

	_, err := ParseMethod("shrink")
	assert.ErrorIs(t, err, ErrUnknownMethod)
}
