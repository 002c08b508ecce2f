package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if cfg.Spawn.MaxPerLocation <= 0 {
		t.Errorf("expected positive max_per_location, got %d", cfg.Spawn.MaxPerLocation)
	}
	if cfg.Spawn.EligibilityChance != 0.375 {
		t.Errorf("eligibility_chance = %v, want 0.375", cfg.Spawn.EligibilityChance)
	}
	if cfg.Spawn.TerritorialEligibilityChance != 0.75 {
		t.Errorf("territorial_eligibility_chance = %v, want 0.75", cfg.Spawn.TerritorialEligibilityChance)
	}
	if len(cfg.Performance.Levels) != NumLevels {
		t.Fatalf("expected %d levels, got %d", NumLevels, len(cfg.Performance.Levels))
	}
	if cfg.Derived.DT32 <= 0 {
		t.Error("expected positive derived dt")
	}
}

func TestParse_OverridesOnlyPresentFields(t *testing.T) {
	cfg, err := Parse([]byte("spawn:\n  max_per_location: 1\n  base_interval: 0\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if cfg.Spawn.MaxPerLocation != 1 {
		t.Errorf("max_per_location = %d, want 1", cfg.Spawn.MaxPerLocation)
	}
	if cfg.Spawn.BaseInterval != 0 {
		t.Errorf("base_interval = %v, want 0", cfg.Spawn.BaseInterval)
	}
	// Untouched fields keep their defaults
	if cfg.Spawn.SpawnRadius != Default().Spawn.SpawnRadius {
		t.Errorf("spawn_radius changed to %v", cfg.Spawn.SpawnRadius)
	}
}

func TestParse_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"negative interval", "spawn:\n  base_interval: -1\n"},
		{"chance above one", "spawn:\n  eligibility_chance: 1.5\n"},
		{"zero dt", "world:\n  dt: 0\n"},
		{"zero stride", "performance:\n  levels:\n    - update_stride: 0\n      spawn_interval_multiplier: 1\n"},
		{"too many levels", "performance:\n  levels: [" + strings.Repeat("{update_stride: 1, spawn_interval_multiplier: 1},", 4) + "{update_stride: 1, spawn_interval_multiplier: 1}]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Errorf("expected validation error for %q", tt.yaml)
			}
		})
	}
}

func TestDerived_NormalizesTargets(t *testing.T) {
	cfg, err := Parse([]byte("distribution:\n  target:\n    energy: 3\n    combat: 1\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if math.Abs(cfg.Derived.Targets[0]-0.75) > 1e-9 || math.Abs(cfg.Derived.Targets[1]-0.25) > 1e-9 {
		t.Errorf("targets = %v, want [0.75 0.25]", cfg.Derived.Targets)
	}
}

func TestDerived_PadsLevelsAndCaps(t *testing.T) {
	cfg, err := Parse([]byte("spawn:\n  max_active: 50\nperformance:\n  levels:\n    - update_stride: 1\n      spawn_interval_multiplier: 1\n    - update_stride: 2\n      entity_cap: 20\n      spawn_interval_multiplier: 2\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if len(cfg.Performance.Levels) != NumLevels {
		t.Fatalf("expected %d levels after padding, got %d", NumLevels, len(cfg.Performance.Levels))
	}
	want := []int{50, 20, 20, 20}
	for i, c := range cfg.Derived.LevelCaps {
		if c != want[i] {
			t.Errorf("level %d cap = %d, want %d", i, c, want[i])
		}
	}
}

func TestDerived_TicksPerStatRounds(t *testing.T) {
	tests := []struct {
		yaml string
		want int32
	}{
		{"", 600},
		{"world:\n  dt: 0.1\ntelemetry:\n  stats_window: 1.0\n", 10},
		{"world:\n  dt: 0.1\ntelemetry:\n  stats_window: 0.01\n", 1},
	}
	for _, tt := range tests {
		cfg, err := Parse([]byte(tt.yaml))
		if err != nil {
			t.Fatalf("parse %q: %v", tt.yaml, err)
		}
		if cfg.Derived.TicksPerStat != tt.want {
			t.Errorf("ticks per stat for %q = %d, want %d", tt.yaml, cfg.Derived.TicksPerStat, tt.want)
		}
	}
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Respawn.Delay = 3.5

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Respawn.Delay != 3.5 {
		t.Errorf("respawn delay = %v, want 3.5", loaded.Respawn.Delay)
	}
}

func TestCfg_PanicsBeforeInit(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("expected panic from Cfg() before Init()")
		}
	}()
	Cfg()
}

func TestClone_RecomputesDerived(t *testing.T) {
	cfg := Default()
	cfg.Spawn.MaxActive = 100
	cfg.Performance.Levels[3].EntityCap = 0

	clone, err := cfg.Clone()
	if err != nil {
		t.Fatalf("clone: %v", err)
	}
	if got := clone.Derived.LevelCaps[3]; got != 100 {
		t.Errorf("level 3 cap = %d, want 100", got)
	}

	clone.Spawn.BaseInterval = 99
	if cfg.Spawn.BaseInterval == 99 {
		t.Error("clone shares state with the original")
	}
}

func TestClone_RejectsInvalid(t *testing.T) {
	cfg := Default()
	cfg.Spawn.MaxActive = -5
	if _, err := cfg.Clone(); err == nil {
		t.Error("expected validation error")
	}
}
