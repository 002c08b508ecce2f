// Package config provides configuration loading and access for the swarm core.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

//go:embed schema.json
var schemaJSON []byte

// NumLevels is the number of degradation levels (0..NumLevels-1).
const NumLevels = 4

// Config holds all swarm configuration parameters.
type Config struct {
	Spawn        SpawnConfig        `yaml:"spawn"`
	Respawn      RespawnConfig      `yaml:"respawn"`
	Energy       EnergyConfig       `yaml:"energy"`
	Distribution DistributionConfig `yaml:"distribution"`
	Performance  PerformanceConfig  `yaml:"performance"`
	Territory    TerritoryConfig    `yaml:"territory"`
	Kinds        KindsConfig        `yaml:"kinds"`
	Behavior     BehaviorConfig     `yaml:"behavior"`
	World        WorldConfig        `yaml:"world"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// SpawnConfig holds spawn scheduler parameters.
type SpawnConfig struct {
	BaseInterval                 float64 `yaml:"base_interval"`                   // Seconds between attempts per location
	MaxPerLocation               int     `yaml:"max_per_location"`                // Live parasites allowed per location
	SpawnRadius                  float64 `yaml:"spawn_radius"`                    // Outer annulus bound
	MinOffset                    float64 `yaml:"min_offset"`                      // Inner annulus bound
	ActiveMiningMultiplier       float64 `yaml:"active_mining_multiplier"`        // Rate multiplier while a miner is present
	TerritorialRateMultiplier    float64 `yaml:"territorial_rate_multiplier"`     // Rate multiplier inside owned territory
	EligibilityChance            float64 `yaml:"eligibility_chance"`              // First-sight coin flip outside territory
	TerritorialEligibilityChance float64 `yaml:"territorial_eligibility_chance"`  // First-sight coin flip inside territory
	MaxLocationsPerTick          int     `yaml:"max_locations_per_tick"`          // Locations evaluated per tick
	MaxActive                    int     `yaml:"max_active"`                      // Global cap at degradation level 0
}

// RespawnConfig holds respawn queue parameters.
type RespawnConfig struct {
	Delay    float64 `yaml:"delay"`    // Seconds between death and respawn
	Distance float64 `yaml:"distance"` // Offset from death position
}

// EnergyConfig holds the spawn energy budget.
type EnergyConfig struct {
	Max           float64    `yaml:"max"`
	RegenRate     float64    `yaml:"regen_rate"`     // Energy per second
	Initial       float64    `yaml:"initial"`        // Starting energy (clamped to max)
	MaxAffordable float64    `yaml:"max_affordable"` // Normalizer for the capacity signal
	Costs         KindValues `yaml:"costs"`
}

// KindValues holds one float per parasite kind.
type KindValues struct {
	Energy float64 `yaml:"energy"`
	Combat float64 `yaml:"combat"`
}

// Slice returns the values in kind order (energy, combat).
func (kv KindValues) Slice() []float64 {
	return []float64{kv.Energy, kv.Combat}
}

// DistributionConfig holds the target type ratio.
type DistributionConfig struct {
	Target    KindValues `yaml:"target"`
	Tolerance float64    `yaml:"tolerance"`
}

// PerformanceConfig holds governor thresholds and per-level actions.
type PerformanceConfig struct {
	TargetFPS         float64       `yaml:"target_fps"`
	WarningFPS        float64       `yaml:"warning_fps"`
	CriticalFPS       float64       `yaml:"critical_fps"`
	ExcellentFraction float64       `yaml:"excellent_fraction"` // fps >= target * this grades excellent
	MaxMemoryDeltaMB  float64       `yaml:"max_memory_delta_mb"`
	MaxCPUOverheadPct float64       `yaml:"max_cpu_overhead_pct"`
	SampleInterval    float64       `yaml:"sample_interval"` // Seconds between samples
	HistorySize       int           `yaml:"history_size"`
	Levels            []LevelConfig `yaml:"levels"`
}

// LevelConfig holds the action set broadcast at one degradation level.
type LevelConfig struct {
	UpdateStride            int     `yaml:"update_stride"`             // Behavior runs every N ticks
	Cosmetic                bool    `yaml:"cosmetic"`                  // Cosmetic detail enabled
	EntityCap               int     `yaml:"entity_cap"`                // Active parasite cap (0 = spawn.max_active)
	SpawnIntervalMultiplier float64 `yaml:"spawn_interval_multiplier"` // Scales spawn intervals
	NonEssential            bool    `yaml:"non_essential"`             // Non-essential systems enabled
}

// TerritoryConfig holds territory ledger parameters.
type TerritoryConfig struct {
	ReconcileInterval float64 `yaml:"reconcile_interval"` // Seconds between consistency sweeps (0 = off)
}

// KindsConfig holds per-kind behavior profiles.
type KindsConfig struct {
	Energy KindConfig `yaml:"energy"`
	Combat KindConfig `yaml:"combat"`
}

// KindConfig holds behavior parameters for one kind.
type KindConfig struct {
	MaxHealth    float64 `yaml:"max_health"`
	Speed        float64 `yaml:"speed"`
	DrainRate    float64 `yaml:"drain_rate"`
	AggroRadius  float64 `yaml:"aggro_radius"`
	PatrolRadius float64 `yaml:"patrol_radius"`
}

// BehaviorConfig holds live-entity update parameters.
type BehaviorConfig struct {
	SpawnInDuration float64 `yaml:"spawn_in_duration"` // Seconds spent in the spawning state
	WanderJitter    float64 `yaml:"wander_jitter"`     // Heading noise in radians per second
}

// WorldConfig holds headless-run world parameters.
type WorldConfig struct {
	DT            float64 `yaml:"dt"`             // Seconds per tick
	GridCellSize  float64 `yaml:"grid_cell_size"` // Spatial grid cell size
	Locations     int     `yaml:"locations"`      // Deposits placed for headless runs
	Extent        float64 `yaml:"extent"`         // Half-size of the square world
	AttritionRate float64 `yaml:"attrition_rate"` // Fraction of live parasites killed per second
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
	Compress            bool    `yaml:"compress"` // zstd-compress CSV output
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32         float32
	Costs        []float64 // energy cost per kind, kind order
	Targets      []float64 // normalized target ratio per kind, kind order
	LevelCaps    []int     // effective entity cap per level
	SpawnRadius  float32
	MinOffset    float32
	TicksPerStat int32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return Parse(data)
}

// Parse merges a YAML document over the embedded defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if len(data) > 0 {
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// Validate checks the configuration against the embedded JSON schema.
func (c *Config) Validate() error {
	schema, err := compileSchema()
	if err != nil {
		return err
	}

	// Round-trip through YAML and JSON so the validator sees plain JSON values.
	raw, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("re-reading config: %w", err)
	}
	js, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("converting config to json: %w", err)
	}
	var v any
	if err := json.Unmarshal(js, &v); err != nil {
		return fmt.Errorf("converting config to json: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func compileSchema() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("config.schema.json", bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("loading config schema: %w", err)
	}
	s, err := c.Compile("config.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compiling config schema: %w", err)
	}
	return s, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.World.DT)
	c.Derived.Costs = c.Energy.Costs.Slice()

	// Normalize the target ratio so it sums to one
	targets := c.Distribution.Target.Slice()
	var sum float64
	for _, t := range targets {
		sum += t
	}
	if sum > 0 {
		for i := range targets {
			targets[i] /= sum
		}
	}
	c.Derived.Targets = targets

	// Pad missing levels by repeating the last configured one
	for len(c.Performance.Levels) < NumLevels {
		last := LevelConfig{UpdateStride: 1, Cosmetic: true, SpawnIntervalMultiplier: 1, NonEssential: true}
		if n := len(c.Performance.Levels); n > 0 {
			last = c.Performance.Levels[n-1]
		}
		c.Performance.Levels = append(c.Performance.Levels, last)
	}
	c.Performance.Levels = c.Performance.Levels[:NumLevels]

	c.Derived.LevelCaps = make([]int, NumLevels)
	for i, lvl := range c.Performance.Levels {
		capacity := lvl.EntityCap
		if capacity <= 0 || capacity > c.Spawn.MaxActive {
			capacity = c.Spawn.MaxActive
		}
		c.Derived.LevelCaps[i] = capacity
	}

	c.Derived.SpawnRadius = float32(c.Spawn.SpawnRadius)
	c.Derived.MinOffset = float32(c.Spawn.MinOffset)
	if c.Derived.MinOffset > c.Derived.SpawnRadius {
		c.Derived.MinOffset = c.Derived.SpawnRadius
	}

	ticks := int32(math.Round(c.Telemetry.StatsWindow / c.World.DT))
	if ticks < 1 {
		ticks = 1
	}
	c.Derived.TicksPerStat = ticks
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Clone returns an independent copy of the configuration. The copy is
// re-validated and its derived values recomputed, so callers may edit
// fields on one config and clone it to apply them.
func (c *Config) Clone() (*Config, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return Parse(data)
}
