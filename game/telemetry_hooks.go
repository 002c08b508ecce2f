package game

import (
	"log/slog"

	"github.com/pthm-cable/hive/components"
	"github.com/pthm-cable/hive/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	g.pruneLifetimes()
	stats := g.collector.Flush(g.tick, g.sampleSwarmState())
	stats.Session = g.session
	perfStats := g.perfCollector.Stats()

	// Call stats callback if provided
	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
		g.logWorldState()
	}

	// Write to CSV if output manager is enabled
	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	// Check for bookmarks
	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
	}
}

// sampleSwarmState collects the point-in-time state for a stats window.
func (g *Game) sampleSwarmState() telemetry.SwarmState {
	dist := g.dist.Stats()
	state := telemetry.SwarmState{
		Pending:      g.respawns.Len(),
		Energy:       g.energy.Current(),
		Level:        g.governor.Level(),
		ActiveCap:    g.scheduler.ActiveCap(),
		Ratios:       dist.Ratios,
		Accurate:     dist.Accurate,
		MeanRespawns: g.lifetimeTracker.MeanRespawns(),
	}
	for k := components.Kind(0); k < components.NumKinds; k++ {
		state.Live[k] = g.pop.Kind(k)
	}
	for _, t := range g.ledger.Territories() {
		if g.ledger.EntityCount(t.ID) > 0 {
			state.Territories++
		}
	}
	if g.nonEssential {
		report := g.ledger.ValidateConsistency()
		state.Inconsistencies = len(report.Orphaned) + len(report.WrongController) + len(report.DuplicateControl)
	}

	g.store.Each(func(_ *components.Position, par *components.Parasite) {
		if par.Live() {
			state.Healths = append(state.Healths, float64(par.Health))
		}
	})
	return state
}

// recordGovernorSample writes the governor's newest sample to governor.csv
// once per evaluation.
func (g *Game) recordGovernorSample() {
	s, ok := g.governor.Last()
	if !ok || (s.Time == g.lastGovSample && g.tick > 0) {
		return
	}
	g.lastGovSample = s.Time
	if g.outputManager == nil {
		return
	}
	row := telemetry.GovernorRow{
		Tick:           g.tick,
		FPS:            s.FPS,
		FrameTimeMS:    s.FrameTimeMS,
		MemoryDeltaMB:  s.MemoryDeltaMB,
		CPUOverheadPct: s.CPUOverheadPct,
		Grade:          s.Grade.String(),
		Level:          s.Level,
	}
	if err := g.outputManager.WriteGovernor(row); err != nil {
		slog.Error("failed to write governor sample", "error", err)
	}
}
