package game

import (
	"log/slog"

	"github.com/pthm-cable/hive/telemetry"
)

// minerToggleRate is the per-second chance that a location's miner arrives or leaves.
const minerToggleRate = 0.02

// cameraOrbitPeriod is the seconds per camera revolution in headless runs.
const cameraOrbitPeriod = 120.0

// simulationStep runs a single tick in the fixed system order. Each system
// is timed as its own perf phase; non-essential systems are skipped while
// the governor has them disabled.
func (g *Game) simulationStep() {
	dt := g.cfg.World.DT
	g.perfCollector.StartTick()

	// Host-side world changes happen before the systems see the tick
	g.updateLocations(dt)
	g.applyAttrition(dt)

	for _, id := range g.registry.IDs() {
		if !g.registry.Enabled(id, g.nonEssential) {
			continue
		}
		g.perfCollector.StartPhase(id)
		g.runSystem(id, dt)
	}

	g.perfCollector.EndTick()
	g.tick++
	g.now = float64(g.tick) * dt
}

// runSystem dispatches one registered system.
func (g *Game) runSystem(id string, dt float64) {
	switch id {
	case telemetry.PhaseBehavior:
		rep := g.behavior.Update(float32(dt), g.locations)
		if rep.Drained > 0 {
			g.collector.RecordDrain(rep.Drained)
		}
	case telemetry.PhaseEnergy:
		g.energy.Update(dt)
	case telemetry.PhaseSpawn:
		g.lastReport = g.scheduler.Update(g.now, g.locations)
		g.totals.Add(g.lastReport)
	case telemetry.PhaseRespawn:
		g.respawns.Update(g.now)
	case telemetry.PhaseGovernor:
		level := g.governor.Level()
		g.governor.Update(g.now)
		if g.governor.Level() != level {
			g.collector.Record(telemetry.NewLevelChangeEvent(g.tick, g.governor.Level()))
		}
		g.recordGovernorSample()
	case telemetry.PhaseTerritory:
		g.ledger.Update(g.now)
	case telemetry.PhaseTelemetry:
		g.flushTelemetry()
	default:
		slog.Warn("unknown_system", "id", id)
	}
}

// updateLocations moves the camera, refreshes visibility, and lets miners
// come and go.
func (g *Game) updateLocations(dt float64) {
	if g.cameraOrbit {
		g.camera.Orbit(g.now, g.cfg.World.Extent*0.5, cameraOrbitPeriod)
	}

	p := minerToggleRate * dt
	for i := range g.locations {
		loc := &g.locations[i]
		loc.Visible = g.allVisible || g.camera.IsVisible(loc.Position.X, loc.Position.Z, float32(g.cfg.Spawn.SpawnRadius))
		if g.rng.Float64() < p {
			loc.MinerPresent = !loc.MinerPresent
		}
	}
}
