package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ceslop84/ia-ag/internal/config"
	"github.com/ceslop84/ia-ag/internal/inventory"
	"github.com/ceslop84/ia-ag/internal/logging"
	"github.com/ceslop84/ia-ag/internal/runner"
)

// overrides holds command line values that replace config keys
type overrides struct {
	generations int
	trials      int
	seed        int64
	outDir      string
}

// apply replaces config keys with the flags named in set. Generations and
// trials only override when positive, the seed whenever it is given.
func (o overrides) apply(cfg *config.Config, set map[string]bool) {
	if o.generations > 0 {
		cfg.GA.MaxGenerations = o.generations
	}
	if o.trials > 0 {
		cfg.Run.Trials = o.trials
	}
	if set["seed"] {
		cfg.Seed = o.seed
	}
	if o.outDir != "" {
		cfg.Logging.OutputDir = o.outDir
	}
	if cfg.Logging.OutputDir == "" {
		cfg.Logging.OutputDir = filepath.Join("runs", time.Now().Format("20060102_150405"))
	}
}

func main() {
	// Parse command line flags
	configPath := flag.String("config", "configs/default.yaml", "path to config file")
	generations := flag.Int("generations", 0, "number of generations per run (overrides config)")
	trials := flag.Int("trials", 0, "number of runs per method (overrides config)")
	seed := flag.Int64("seed", 0, "base random seed (overrides config)")
	outDir := flag.String("out", "", "output directory (default runs/<timestamp>)")
	flag.Parse()

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	overrides{
		generations: *generations,
		trials:      *trials,
		seed:        *seed,
		outDir:      *outDir,
	}.apply(cfg, set)

	inv, err := inventory.Load(cfg.Inventory.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading inventory: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Knapsack GA - %d items, capacity %d (inventory weight %d)\n", inv.Count(), cfg.GA.Capacity, inv.TotalWeight())
	fmt.Printf("Config: %s, Seed: %d\n", *configPath, cfg.Seed)
	fmt.Printf("Population: %d, Generations: %d, PC: %.2f, PM: %.2f\n",
		cfg.GA.Population, cfg.GA.MaxGenerations, cfg.GA.CrossoverProb, cfg.GA.MutationProb)
	fmt.Printf("Methods: %v, Trials: %d, Output: %s\n", cfg.Run.Methods, cfg.Run.Trials, cfg.Logging.OutputDir)
	fmt.Println("---")

	r, err := runner.New(cfg, inv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating runner: %v\n", err)
		os.Exit(1)
	}

	rec, err := logging.NewRecorder(cfg.Logging.OutputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating recorder: %v\n", err)
		os.Exit(1)
	}

	startTime := time.Now()

	results, err := r.RunAll(context.Background(), func(res *runner.TrialResult) error {
		if err := rec.WriteRun(res); err != nil {
			return err
		}
		if cfg.Logging.SaveChampions && res.Feasible() {
			if err := logging.SaveChampion(rec.ChampionPath(res.Method, res.Trial), res); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save champion: %v\n", err)
			}
		}
		if cfg.Logging.EveryTrialSummary {
			logging.LogTrial(res)
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running trials: %v\n", err)
		os.Exit(1)
	}

	if err := rec.WriteSummary(results); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing summary: %v\n", err)
		os.Exit(1)
	}

	elapsed := time.Since(startTime)
	fmt.Println("---")
	fmt.Printf("Done! %d runs in %v\n", len(results), elapsed)
	logging.LogSummary(runner.Aggregate(results))
	fmt.Printf("Summary: %s\n", rec.SummaryPath())
}
