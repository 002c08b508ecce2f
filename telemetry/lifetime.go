package telemetry

import "github.com/pthm-cable/hive/components"

// LifetimeStats tracks per-parasite statistics over its lifetime.
type LifetimeStats struct {
	SpawnTick       int32
	SurvivalTimeSec float32

	Kind       components.Kind
	LocationID components.LocationID

	Deaths   int
	Respawns int
	Evicted  bool

	// Energy drained from miners (energy kind only)
	TotalDrained float32
}

// LifetimeTracker manages per-parasite lifetime statistics.
type LifetimeTracker struct {
	stats map[components.ParasiteID]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[components.ParasiteID]*LifetimeStats),
	}
}

// Register creates lifetime stats for a freshly spawned parasite.
func (lt *LifetimeTracker) Register(id components.ParasiteID, spawnTick int32, kind components.Kind, loc components.LocationID) {
	lt.stats[id] = &LifetimeStats{
		SpawnTick:  spawnTick,
		Kind:       kind,
		LocationID: loc,
	}
}

// Get returns the lifetime stats for a parasite, or nil if not found.
func (lt *LifetimeTracker) Get(id components.ParasiteID) *LifetimeStats {
	return lt.stats[id]
}

// Remove removes a parasite's stats and returns them.
func (lt *LifetimeTracker) Remove(id components.ParasiteID) *LifetimeStats {
	stats := lt.stats[id]
	delete(lt.stats, id)
	return stats
}

// RecordDeath increments the death count.
func (lt *LifetimeTracker) RecordDeath(id components.ParasiteID) {
	if s := lt.stats[id]; s != nil {
		s.Deaths++
	}
}

// RecordRespawn increments the respawn count.
func (lt *LifetimeTracker) RecordRespawn(id components.ParasiteID) {
	if s := lt.stats[id]; s != nil {
		s.Respawns++
	}
}

// RecordEviction marks the parasite as removed by a territory explosion
// and returns its stats.
func (lt *LifetimeTracker) RecordEviction(id components.ParasiteID) *LifetimeStats {
	s := lt.Remove(id)
	if s != nil {
		s.Evicted = true
	}
	return s
}

// RecordDrain adds drained energy to the cumulative total.
func (lt *LifetimeTracker) RecordDrain(id components.ParasiteID, amount float32) {
	if s := lt.stats[id]; s != nil {
		s.TotalDrained += amount
	}
}

// UpdateSurvivalTime updates the survival time based on current tick.
func (lt *LifetimeTracker) UpdateSurvivalTime(id components.ParasiteID, currentTick int32, dt float32) {
	if s := lt.stats[id]; s != nil {
		s.SurvivalTimeSec = float32(currentTick-s.SpawnTick) * dt
	}
}

// Prune removes every entry whose id fails keep and returns how many were dropped.
func (lt *LifetimeTracker) Prune(keep func(components.ParasiteID) bool) int {
	dropped := 0
	for id := range lt.stats {
		if !keep(id) {
			delete(lt.stats, id)
			dropped++
		}
	}
	return dropped
}

// Count returns the number of tracked parasites.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}

// MeanRespawns returns the average respawn count across tracked parasites.
func (lt *LifetimeTracker) MeanRespawns() float64 {
	if len(lt.stats) == 0 {
		return 0
	}
	var total int
	for _, s := range lt.stats {
		total += s.Respawns
	}
	return float64(total) / float64(len(lt.stats))
}
