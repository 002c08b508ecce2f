package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/hive/components"
	"github.com/pthm-cable/hive/systems"
	"github.com/pthm-cable/hive/telemetry"
)

// swarmHooks is the lifecycle installed on every kind. It feeds the
// collector and the lifetime tracker.
type swarmHooks struct {
	g *Game
}

func (h *swarmHooks) OnSpawn(p *components.Parasite, _ components.Position) {
	h.g.collector.Record(telemetry.NewSpawnEvent(h.g.tick, p.ID, p.Kind, p.LocationID))
	h.g.lifetimeTracker.Register(p.ID, h.g.tick, p.Kind, p.LocationID)
}

func (h *swarmHooks) OnDeath(p *components.Parasite, _ components.Position) {
	h.g.collector.Record(telemetry.NewDeathEvent(h.g.tick, p.ID, p.Kind))
	h.g.lifetimeTracker.RecordDeath(p.ID)
}

func (h *swarmHooks) OnRespawn(p *components.Parasite, _ components.Position) {
	h.g.collector.Record(telemetry.NewRespawnEvent(h.g.tick, p.ID, p.Kind))
	h.g.lifetimeTracker.RecordRespawn(p.ID)
}

func (h *swarmHooks) OnEvict(p *components.Parasite, _ components.Position) {
	h.g.collector.Record(telemetry.NewEvictEvent(h.g.tick, p.ID, p.Kind))
	h.g.lifetimeTracker.UpdateSurvivalTime(p.ID, h.g.tick, h.g.cfg.Derived.DT32)
	h.g.lifetimeTracker.RecordEviction(p.ID)
}

// Kill reports an external death. The parasite is hidden and queued for
// respawn near where it fell.
func (g *Game) Kill(id components.ParasiteID) error {
	pos, par, ok := g.store.Get(id)
	if !ok {
		return fmt.Errorf("kill %d: %w", id, systems.ErrUnknownParasite)
	}
	if !par.Live() {
		return nil
	}
	g.lifetimeTracker.UpdateSurvivalTime(id, g.tick, g.cfg.Derived.DT32)
	g.respawns.Enqueue(id, *pos, g.now)
	return nil
}

// Liberate frees a territory: its queen is deactivated and every parasite
// inside is evicted for good.
func (g *Game) Liberate(id components.TerritoryID) int {
	evicted := g.ledger.Liberate(id)
	g.pruneLifetimes()
	return evicted
}

// applyAttrition kills a random share of live parasites, standing in for the
// host's combat. The expected kill count per tick is rate * live * dt.
func (g *Game) applyAttrition(dt float64) int {
	if g.attritionRate <= 0 {
		return 0
	}
	p := g.attritionRate * dt

	// Collect first: Kill mutates the store
	var victims []components.ParasiteID
	for _, id := range g.store.LiveIDs() {
		if g.rng.Float64() < p {
			victims = append(victims, id)
		}
	}

	for _, id := range victims {
		if err := g.Kill(id); err != nil {
			slog.Warn("attrition_kill_failed", "id", id, "error", err)
		}
	}
	return len(victims)
}

// pruneLifetimes drops tracker entries for parasites that no longer exist,
// such as pending respawns discarded by a liberation.
func (g *Game) pruneLifetimes() {
	g.lifetimeTracker.Prune(g.store.Has)
}
