package runner

import (
	"context"
	"errors"
	"math/rand"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceslop84/ia-ag/internal/config"
	"github.com/ceslop84/ia-ag/internal/ga"
	"github.com/ceslop84/ia-ag/internal/inventory"
)

func testInventory(t *testing.T) *inventory.Inventory {
	t.Helper()
	rng := rand.New(rand.NewSource(1))
	items := make([]inventory.Item, 20)
	for i := range items {
		items[i] = inventory.Item{Index: i, Weight: 1 + rng.Intn(30), Value: rng.Intn(100)}
	}
	inv, err := inventory.New(items)
	require.NoError(t, err)
	return inv
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.GA.Population = 10
	cfg.GA.Capacity = 100
	cfg.GA.MaxGenerations = 15
	cfg.Run.Trials = 3
	cfg.Run.Workers = 2
	return cfg
}

func TestEvolution(t *testing.T) {
	inv := testInventory(t)
	params := testConfig().Params()

	lineage, err := Evolution(context.Background(), inv, params, 12, ga.Repair, rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	require.Len(t, lineage.Generations, 12)
	for i, g := range lineage.Generations {
		assert.Equal(t, i, g.ID)
		assert.Equal(t, params.PopulationSize, g.Size())
	}
	assert.Same(t, lineage.Generations[11], lineage.Final())

	pos, best := lineage.Final().SelectBest()
	assert.Equal(t, 0, pos)
	require.NotNil(t, best)
	assert.LessOrEqual(t, best.Weight(), params.Capacity)
}

func TestEvolutionSingleGeneration(t *testing.T) {
	lineage, err := Evolution(context.Background(), testInventory(t), testConfig().Params(), 1, ga.Penalize, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Len(t, lineage.Generations, 1)
	assert.Equal(t, 0, lineage.Final().ID)
}

func TestEvolutionErrors(t *testing.T) {
	inv := testInventory(t)
	params := testConfig().Params()
	rng := rand.New(rand.NewSource(1))

	_, err := Evolution(context.Background(), inv, params, 0, ga.Repair, rng)
	assert.Error(t, err)

	_, err = Evolution(context.Background(), inv, params, 5, ga.Method("shrink"), rng)
	assert.ErrorIs(t, err, ga.ErrUnknownMethod)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Evolution(ctx, inv, params, 5, ga.Repair, rng)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEmptyLineage(t *testing.T) {
	assert.Nil(t, (&Lineage{}).Final())
}

func TestRunAll(t *testing.T) {
	r, err := New(testConfig(), testInventory(t))
	require.NoError(t, err)

	var calls atomic.Int32
	results, err := r.RunAll(context.Background(), func(*TrialResult) error {
		calls.Add(1)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, results, 6)
	assert.Equal(t, int32(6), calls.Load())

	seeds := make(map[int64]bool)
	for i, res := range results {
		assert.Equal(t, r.Methods()[i/3], res.Method)
		assert.Equal(t, i%3, res.Trial)
		assert.Len(t, res.Lineage.Generations, 15)
		seeds[res.Seed] = true

		if res.Method == ga.Repair {
			require.True(t, res.Feasible())
			assert.Equal(t, 0, res.Position)
		}
		if res.Feasible() {
			assert.Same(t, res.Lineage.Final().At(res.Position), res.Best)
		} else {
			assert.Equal(t, -1, res.Position)
		}
	}
	assert.Len(t, seeds, 6)
}

func TestRunAllIsReproducible(t *testing.T) {
	inv := testInventory(t)
	run := func() []string {
		cfg := testConfig()
		cfg.Run.Workers = 3
		r, err := New(cfg, inv)
		require.NoError(t, err)

		results, err := r.RunAll(context.Background(), nil)
		require.NoError(t, err)

		out := make([]string, len(results))
		for i, res := range results {
			out[i] = res.Lineage.Final().Best().String()
		}
		return out
	}

	assert.Equal(t, run(), run())
}

func TestRunAllSinkError(t *testing.T) {
	r, err := New(testConfig(), testInventory(t))
	require.NoError(t, err)

	boom := errors.New("disk full")
	_, err = r.RunAll(context.Background(), func(*TrialResult) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Run.Methods = []string{"shrink"}
	_, err := New(cfg, testInventory(t))
	assert.Error(t, err)
}
