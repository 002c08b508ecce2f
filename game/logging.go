package game

import (
	"log/slog"

	"github.com/pthm-cable/hive/components"
	"github.com/pthm-cable/hive/systems"
)

// logWorldState logs the current swarm state.
func (g *Game) logWorldState() {
	var byState [components.StateReturning + 1]int
	hidden := 0
	g.store.Each(func(_ *components.Position, par *components.Parasite) {
		if !par.Live() {
			hidden++
			return
		}
		byState[par.State]++
	})

	attrs := []any{
		"tick", g.tick,
		"live", g.pop.Total(),
		"hidden", hidden,
		"pending", g.respawns.Len(),
		"energy", g.energy.Current(),
		"level", g.governor.Level(),
		"active_cap", g.scheduler.ActiveCap(),
		"distribution", g.dist.Stats(),
		"spawns", g.totals,
	}
	for s, n := range byState {
		attrs = append(attrs, components.State(s).String(), n)
	}
	slog.Info("world_state", attrs...)

	g.logTerritories()
	g.logGovernor()
}

// logTerritories logs ownership per territory.
func (g *Game) logTerritories() {
	for _, t := range g.ledger.Territories() {
		controlled := 0
		if c, ok := g.ledger.Controller(t.ControllerID); ok {
			controlled = len(c.ControlledEntities())
		}
		slog.Info("territory_state",
			"territory", t.ID,
			"status", t.Status.String(),
			"entities", g.ledger.EntityCount(t.ID),
			"controlled", controlled,
		)
	}
}

// logGovernor logs the governor history summary and any tuning suggestions.
func (g *Game) logGovernor() {
	slog.Info("governor_state",
		"level", g.governor.Level(),
		"history", g.governor.HistoryStats(),
	)
	for _, s := range g.governor.Suggestions() {
		slog.Info("governor_suggestion", "suggestion", s)
	}
}

// logSystems logs the registered systems in tick order.
func logSystems(reg *systems.SystemRegistry) {
	for _, info := range reg.All() {
		slog.Debug("system",
			"id", info.ID,
			"name", info.Name,
			"category", info.Category,
			"essential", info.Essential,
		)
	}
}
