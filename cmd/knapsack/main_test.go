package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ceslop84/ia-ag/internal/config"
)

func TestOverridesSeed(t *testing.T) {
	tests := map[string]struct {
		seed int64
		set  bool
		want int64
	}{
		"unset":    {seed: 0, set: false, want: 1337},
		"zero":     {seed: 0, set: true, want: 0},
		"negative": {seed: -4, set: true, want: -4},
		"positive": {seed: 9, set: true, want: 9},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			overrides{seed: tt.seed}.apply(cfg, map[string]bool{"seed": tt.set})
			assert.Equal(t, tt.want, cfg.Seed)
		})
	}
}

func TestOverridesRunShape(t *testing.T) {
	cfg := config.Default()
	overrides{}.apply(cfg, map[string]bool{})
	assert.Equal(t, 500, cfg.GA.MaxGenerations)
	assert.Equal(t, 10, cfg.Run.Trials)
	assert.Equal(t, "runs", filepath.Dir(cfg.Logging.OutputDir))

	overrides{generations: 20, trials: 2, outDir: "out"}.apply(cfg, map[string]bool{"generations": true, "trials": true, "out": true})
	assert.Equal(t, 20, cfg.GA.MaxGenerations)
	assert.Equal(t, 2, cfg.Run.Trials)
	assert.Equal(t, "out", cfg.Logging.OutputDir)
}
