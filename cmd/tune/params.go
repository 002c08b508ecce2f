package main

import (
	"github.com/pthm-cable/hive/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Scheduler
			{Name: "base_interval", Path: "spawn.base_interval", Min: 1.0, Max: 12.0, Default: 4.0},
			{Name: "eligibility_chance", Path: "spawn.eligibility_chance", Min: 0.1, Max: 0.9, Default: 0.375},
			{Name: "territorial_eligibility", Path: "spawn.territorial_eligibility_chance", Min: 0.3, Max: 1.0, Default: 0.75},
			{Name: "mining_multiplier", Path: "spawn.active_mining_multiplier", Min: 1.0, Max: 4.0, Default: 2.0},
			{Name: "max_per_location", Path: "spawn.max_per_location", Min: 2, Max: 12, Default: 6},
			{Name: "max_active", Path: "spawn.max_active", Min: 60, Max: 400, Default: 240},
			// Energy
			{Name: "regen_rate", Path: "energy.regen_rate", Min: 2.0, Max: 30.0, Default: 10.0},
			// Respawn
			{Name: "respawn_delay", Path: "respawn.delay", Min: 2.0, Max: 20.0, Default: 8.0},
			// Governor levels 1 and 2 (level 0 is fixed at 1x, level 3 scales from level 2)
			{Name: "l1_interval_mult", Path: "performance.levels[1].spawn_interval_multiplier", Min: 1.0, Max: 3.0, Default: 1.5},
			{Name: "l2_interval_mult", Path: "performance.levels[2].spawn_interval_multiplier", Min: 1.5, Max: 5.0, Default: 2.5},
			{Name: "l2_entity_cap", Path: "performance.levels[2].entity_cap", Min: 40, Max: 300, Default: 140},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// Apply returns a copy of base with the parameter values applied. Derived
// values are recomputed on the copy.
func (pv *ParamVector) Apply(base *config.Config, values []float64) (*config.Config, error) {
	cfg, err := base.Clone()
	if err != nil {
		return nil, err
	}
	pv.applyTo(cfg, values)
	return cfg.Clone()
}

// applyTo writes clamped values into cfg. Order must match Specs order.
func (pv *ParamVector) applyTo(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	i := 0
	next := func() float64 {
		v := clamped[i]
		i++
		return v
	}

	// Scheduler
	cfg.Spawn.BaseInterval = next()
	cfg.Spawn.EligibilityChance = next()
	cfg.Spawn.TerritorialEligibilityChance = next()
	cfg.Spawn.ActiveMiningMultiplier = next()
	cfg.Spawn.MaxPerLocation = int(next())
	cfg.Spawn.MaxActive = int(next())

	// Energy
	cfg.Energy.RegenRate = next()

	// Respawn
	cfg.Respawn.Delay = next()

	// Governor levels; level 3 keeps its ratio to level 2
	levels := cfg.Performance.Levels
	l2Mult := levels[2].SpawnIntervalMultiplier
	l3Mult := levels[3].SpawnIntervalMultiplier
	l2Cap := levels[2].EntityCap
	l3Cap := levels[3].EntityCap

	levels[1].SpawnIntervalMultiplier = next()
	levels[2].SpawnIntervalMultiplier = next()
	levels[2].EntityCap = int(next())

	if l2Mult > 0 {
		levels[3].SpawnIntervalMultiplier = levels[2].SpawnIntervalMultiplier * l3Mult / l2Mult
	}
	if l2Cap > 0 && l3Cap > 0 {
		levels[3].EntityCap = max(1, levels[2].EntityCap*l3Cap/l2Cap)
	}
}

// Extract reads the current parameter values from a config.
func (pv *ParamVector) Extract(cfg *config.Config) []float64 {
	levels := cfg.Performance.Levels
	return []float64{
		cfg.Spawn.BaseInterval,
		cfg.Spawn.EligibilityChance,
		cfg.Spawn.TerritorialEligibilityChance,
		cfg.Spawn.ActiveMiningMultiplier,
		float64(cfg.Spawn.MaxPerLocation),
		float64(cfg.Spawn.MaxActive),
		cfg.Energy.RegenRate,
		cfg.Respawn.Delay,
		levels[1].SpawnIntervalMultiplier,
		levels[2].SpawnIntervalMultiplier,
		float64(levels[2].EntityCap),
	}
}
