package telemetry

import (
	"math"

	"github.com/pthm-cable/hive/components"
)

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	spawns       [components.NumKinds]int
	deaths       [components.NumKinds]int
	respawns     int
	evictions    int
	denials      int
	levelChanges int
	drained      float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(math.Round(windowDurationSec / float64(dt)))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// Record counts one event.
func (c *Collector) Record(ev Event) {
	switch ev.Type {
	case EventSpawn:
		if ev.Kind.Valid() {
			c.spawns[ev.Kind]++
		}
	case EventDeath:
		if ev.Kind.Valid() {
			c.deaths[ev.Kind]++
		}
	case EventRespawn:
		c.respawns++
	case EventEvict:
		c.evictions++
	case EventDenied:
		c.denials++
	case EventLevelChange:
		c.levelChanges++
	}
}

// RecordDrain adds energy drained from miners.
func (c *Collector) RecordDrain(amount float64) {
	c.drained += amount
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// SwarmState is the point-in-time state sampled at window end.
type SwarmState struct {
	Live            [components.NumKinds]int
	Pending         int
	Energy          float64
	Level           int
	ActiveCap       int
	Ratios          [components.NumKinds]float64
	Accurate        bool
	Territories     int // territories still holding parasites
	Healths         []float64
	MeanRespawns    float64
	Inconsistencies int
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, state SwarmState) WindowStats {
	healthMean, healthP10, healthP50, healthP90 := ComputeSpreadStats(state.Healths)

	var spawned int
	for _, n := range c.spawns {
		spawned += n
	}
	var denialRate float64
	if attempts := spawned + c.denials; attempts > 0 {
		denialRate = float64(c.denials) / float64(attempts)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		EnergyCount: state.Live[components.KindEnergy],
		CombatCount: state.Live[components.KindCombat],
		Pending:     state.Pending,

		EnergySpawns: c.spawns[components.KindEnergy],
		CombatSpawns: c.spawns[components.KindCombat],
		EnergyDeaths: c.deaths[components.KindEnergy],
		CombatDeaths: c.deaths[components.KindCombat],
		Respawns:     c.respawns,
		Evictions:    c.evictions,

		Denials:    c.denials,
		DenialRate: denialRate,
		Budget:     state.Energy,
		Drained:    c.drained,

		EnergyRatio:   state.Ratios[components.KindEnergy],
		CombatRatio:   state.Ratios[components.KindCombat],
		RatioAccurate: state.Accurate,
		Level:         state.Level,
		LevelChanges:  c.levelChanges,
		ActiveCap:     state.ActiveCap,
		Territories:   state.Territories,
		Inconsistent:  state.Inconsistencies,
		MeanRespawns:  state.MeanRespawns,
		HealthMean:    healthMean,
		HealthP10:     healthP10,
		HealthP50:     healthP50,
		HealthP90:     healthP90,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.spawns = [components.NumKinds]int{}
	c.deaths = [components.NumKinds]int{}
	c.respawns = 0
	c.evictions = 0
	c.denials = 0
	c.levelChanges = 0
	c.drained = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
