package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ceslop84/ia-ag/internal/ga"
)

// Config is the root configuration structure
type Config struct {
	Seed      int64           `yaml:"seed"`
	Inventory InventoryConfig `yaml:"inventory"`
	GA        GAConfig        `yaml:"ga"`
	Run       RunConfig       `yaml:"run"`
	Logging   LogConfig       `yaml:"logging"`
}

// InventoryConfig locates the item list
type InventoryConfig struct {
	Path string `yaml:"path"` // relative to the config file when set in it
}

// GAConfig defines genetic algorithm parameters
type GAConfig struct {
	MutationProb   float64 `yaml:"mutation_prob"`
	CrossoverProb  float64 `yaml:"crossover_prob"`
	Population     int     `yaml:"population"`
	Capacity       int     `yaml:"capacity"`
	MaxGenerations int     `yaml:"max_generations"`
}

// RunConfig defines which runs are executed
type RunConfig struct {
	Methods []string `yaml:"methods"` // repair|penalize
	Trials  int      `yaml:"trials"`
	Workers int      `yaml:"workers"` // 0 means one per CPU
}

// LogConfig defines output parameters
type LogConfig struct {
	OutputDir         string `yaml:"output_dir"` // empty means runs/<timestamp>
	EveryTrialSummary bool   `yaml:"every_trial_summary"`
	SaveChampions     bool   `yaml:"save_champions"`
}

// DefaultInventoryPath is used when the file has no inventory path. It is
// relative to the working directory, not to the config file.
const DefaultInventoryPath = "data/inventario.csv"

// Default returns the configuration used for keys missing from the file
func Default() *Config {
	return &Config{
		Seed:      1337,
		Inventory: InventoryConfig{Path: DefaultInventoryPath},
		GA: GAConfig{
			MutationProb:   0.05,
			CrossoverProb:  0.5,
			Population:     50,
			Capacity:       120,
			MaxGenerations: 500,
		},
		Run: RunConfig{
			Methods: []string{string(ga.Penalize), string(ga.Repair)},
			Trials:  10,
		},
		Logging: LogConfig{
			EveryTrialSummary: true,
			SaveChampions:     true,
		},
	}
}

// Load reads a YAML config file on top of the defaults and validates it
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	// only a path written in the file is relative to the file
	if cfg.Inventory.Path != "" && !filepath.IsAbs(cfg.Inventory.Path) {
		cfg.Inventory.Path = filepath.Join(filepath.Dir(path), cfg.Inventory.Path)
	}
	if err := finish(cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of the defaults and validates the result
func Parse(data []byte) (*Config, error) {
	cfg, err := decode(data)
	if err != nil {
		return nil, err
	}
	if err := finish(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode unmarshals over the defaults, leaving the inventory path empty
// unless the file sets it
func decode(data []byte) (*Config, error) {
	cfg := Default()
	cfg.Inventory.Path = ""
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func finish(cfg *Config) error {
	applyDefaults(cfg)
	return cfg.Validate()
}

// applyDefaults fills values an explicit empty key would otherwise clear
func applyDefaults(cfg *Config) {
	if len(cfg.Run.Methods) == 0 {
		cfg.Run.Methods = []string{string(ga.Penalize), string(ga.Repair)}
	}
	if cfg.Inventory.Path == "" {
		cfg.Inventory.Path = DefaultInventoryPath
	}
}

// Validate checks every value is within range
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if c.GA.MaxGenerations <= 0 {
		return errors.New("max_generations must be positive")
	}
	if c.Run.Trials <= 0 {
		return errors.New("trials must be positive")
	}
	if c.Run.Workers < 0 {
		return errors.New("workers must not be negative")
	}
	if _, err := c.Methods(); err != nil {
		return err
	}
	return nil
}

// Params returns the evolution constants
func (c *Config) Params() ga.Params {
	return ga.Params{
		MutationProb:   c.GA.MutationProb,
		CrossoverProb:  c.GA.CrossoverProb,
		PopulationSize: c.GA.Population,
		Capacity:       c.GA.Capacity,
	}
}

// Methods returns the parsed constraint handling methods, in file order
func (c *Config) Methods() ([]ga.Method, error) {
	methods := make([]ga.Method, 0, len(c.Run.Methods))
	seen := make(map[ga.Method]bool)
	for _, s := range c.Run.Methods {
		m, err := ga.ParseMethod(s)
		if err != nil {
			return nil, err
		}
		if seen[m] {
			return nil, fmt.Errorf("method %q listed twice", s)
		}
		seen[m] = true
		methods = append(methods, m)
	}
	return methods, nil
}
