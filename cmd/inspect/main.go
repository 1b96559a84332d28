package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ceslop84/ia-ag/internal/config"
	"github.com/ceslop84/ia-ag/internal/ga"
	"github.com/ceslop84/ia-ag/internal/inventory"
	"github.com/ceslop84/ia-ag/internal/logging"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "configs/default.yaml", "path to config file")
	championPath := flag.String("champion", "", "path to champion JSON")
	flag.Parse()

	if *championPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -champion is required")
		os.Exit(1)
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	inv, err := inventory.Load(cfg.Inventory.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading inventory: %v\n", err)
		os.Exit(1)
	}

	// Load champion
	champion, err := logging.LoadChampion(*championPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading champion: %v\n", err)
		os.Exit(1)
	}

	k, err := ga.NewKnapsack(inv, champion.Genes(), champion.Birth)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rebuilding champion: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Loaded champion: %s trial %d, seed %d, gen %d, position %d\n",
		champion.Method, champion.Trial, champion.Seed, champion.Generation, champion.Position)
	fmt.Println()
	fmt.Printf("  %5s %8s %8s\n", "index", "weight", "value")
	for i := 0; i < k.Len(); i++ {
		if k.Gene(i) == 1 {
			it := inv.Get(i)
			fmt.Printf("  %5d %8d %8d\n", it.Index, it.Weight, it.Value)
		}
	}
	fmt.Println()

	fmt.Printf("  Items: %d | Fitness: %d (saved %d) | Weight: %d (saved %d) | Capacity: %d\n",
		k.ItemCount(), k.Fitness(), champion.Fitness, k.Weight(), champion.Weight, cfg.GA.Capacity)

	ok := true
	if k.Fitness() != champion.Fitness || k.Weight() != champion.Weight {
		fmt.Println("  Mismatch: saved values differ from the inventory")
		ok = false
	}
	if !k.Feasible(cfg.GA.Capacity) {
		fmt.Println("  Over capacity")
		ok = false
	}
	if !ok {
		os.Exit(1)
	}
	fmt.Println("  OK")
}
