package runner

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"

	"github.com/sourcegraph/conc/pool"

	"github.com/ceslop84/ia-ag/internal/config"
	"github.com/ceslop84/ia-ag/internal/ga"
	"github.com/ceslop84/ia-ag/internal/inventory"
)

// Lineage is every generation of one run, generation 0 first
type Lineage struct {
	Generations []*ga.Generation
}

// Final returns the last generation
func (l *Lineage) Final() *ga.Generation {
	if len(l.Generations) == 0 {
		return nil
	}
	return l.Generations[len(l.Generations)-1]
}

// Evolution creates a random generation 0 and evolves it until
// maxGenerations generations exist
func Evolution(ctx context.Context, inv *inventory.Inventory, params ga.Params, maxGenerations int, method ga.Method, rng *rand.Rand) (*Lineage, error) {
	if maxGenerations <= 0 {
		return nil, fmt.Errorf("max generations must be positive, got %d", maxGenerations)
	}

	lineage := &Lineage{Generations: make([]*ga.Generation, 0, maxGenerations)}
	gen := ga.RandomGeneration(inv, params, rng)
	lineage.Generations = append(lineage.Generations, gen)

	for gen.ID < maxGenerations-1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := gen.Evolve(method, rng)
		if err != nil {
			return nil, fmt.Errorf("generation %d: %w", gen.ID, err)
		}
		lineage.Generations = append(lineage.Generations, next)
		gen = next
	}
	return lineage, nil
}

// TrialResult is the outcome of one run
type TrialResult struct {
	Method  ga.Method
	Trial   int
	Seed    int64
	Lineage *Lineage

	// Position is -1 and Best nil when the final generation has no feasible knapsack
	Position int
	Best     *ga.Knapsack
}

// Feasible reports whether the run found a knapsack within capacity
func (r *TrialResult) Feasible() bool {
	return r.Best != nil
}

// Sink receives each finished trial. It is called from worker goroutines.
type Sink func(*TrialResult) error

// Runner executes every configured method and trial
type Runner struct {
	cfg     *config.Config
	inv     *inventory.Inventory
	params  ga.Params
	methods []ga.Method
	workers int
}

// New creates a runner over a shared inventory
func New(cfg *config.Config, inv *inventory.Inventory) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	methods, err := cfg.Methods()
	if err != nil {
		return nil, err
	}

	workers := cfg.Run.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &Runner{
		cfg:     cfg,
		inv:     inv,
		params:  cfg.Params(),
		methods: methods,
		workers: workers,
	}, nil
}

// Methods returns the methods in run order
func (r *Runner) Methods() []ga.Method {
	return r.methods
}

// Seed derives the seed of a run from the base seed, so each method and
// trial gets its own random sequence
func (r *Runner) Seed(methodIdx, trial int) int64 {
	return r.cfg.Seed + int64(methodIdx*r.cfg.Run.Trials+trial)
}

// RunTrial executes one full run with its own random generator
func (r *Runner) RunTrial(ctx context.Context, method ga.Method, seed int64, trial int) (*TrialResult, error) {
	rng := rand.New(rand.NewSource(seed))

	lineage, err := Evolution(ctx, r.inv, r.params, r.cfg.GA.MaxGenerations, method, rng)
	if err != nil {
		return nil, fmt.Errorf("%s trial %d: %w", method, trial, err)
	}

	pos, best := lineage.Final().SelectBest()
	return &TrialResult{
		Method:   method,
		Trial:    trial,
		Seed:     seed,
		Lineage:  lineage,
		Position: pos,
		Best:     best,
	}, nil
}

// RunAll runs every method for the configured number of trials on a bounded
// worker pool. The first error cancels the remaining runs. Results are
// ordered by method, then trial.
func (r *Runner) RunAll(ctx context.Context, sink Sink) ([]*TrialResult, error) {
	trials := r.cfg.Run.Trials
	results := make([]*TrialResult, len(r.methods)*trials)

	p := pool.New().WithMaxGoroutines(r.workers).WithContext(ctx).WithCancelOnError()
	for mi, method := range r.methods {
		for trial := 0; trial < trials; trial++ {
			mi, method, trial := mi, method, trial
			p.Go(func(ctx context.Context) error {
				res, err := r.RunTrial(ctx, method, r.Seed(mi, trial), trial)
				if err != nil {
					return err
				}
				results[mi*trials+trial] = res
				if sink != nil {
					return sink(res)
				}
				return nil
			})
		}
	}

	if err := p.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
