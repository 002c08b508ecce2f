package systems

import (
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/hive/components"
	"github.com/pthm-cable/hive/config"
)

// PendingRespawn is a dead parasite waiting to come back.
type PendingRespawn struct {
	ID        components.ParasiteID
	DeathTime float64
	Position  components.Position // fixed at enqueue time
	Location  components.LocationID
}

// RespawnQueue resurrects dead parasites in place after a fixed delay. The
// parasite keeps its identity; it is hidden while queued, never destroyed.
type RespawnQueue struct {
	store    *Store
	pop      *Population
	ledger   *TerritoryLedger // optional
	profiles *components.Profiles
	spatial  SpatialIndex
	renderer Renderer
	terrain  Terrain
	rng      *rand.Rand

	delay    float64
	distance float32

	entries []PendingRespawn // enqueue order
	queued  map[components.ParasiteID]struct{}
	byLoc   map[components.LocationID]int
}

// NewRespawnQueue creates a queue. ledger and profiles may be nil.
func NewRespawnQueue(store *Store, pop *Population, ledger *TerritoryLedger, profiles *components.Profiles,
	collab Collaborators, rng *rand.Rand, delay float64, distance float32) *RespawnQueue {
	q := &RespawnQueue{
		store:    store,
		pop:      pop,
		ledger:   ledger,
		profiles: profiles,
		spatial:  collab.Spatial,
		renderer: collab.renderer(),
		terrain:  collab.Terrain,
		rng:      rng,
		delay:    delay,
		distance: distance,
		queued:   make(map[components.ParasiteID]struct{}),
		byLoc:    make(map[components.LocationID]int),
	}
	if ledger != nil {
		ledger.SetRespawnQueue(q)
	}
	return q
}

// NewRespawnQueueFromConfig creates a queue from the respawn config.
func NewRespawnQueueFromConfig(cfg *config.Config, store *Store, pop *Population, ledger *TerritoryLedger,
	profiles *components.Profiles, collab Collaborators, rng *rand.Rand) *RespawnQueue {
	return NewRespawnQueue(store, pop, ledger, profiles, collab, rng,
		cfg.Respawn.Delay, float32(cfg.Respawn.Distance))
}

// Enqueue kills a live parasite and schedules its return. The respawn point
// is drawn once, distance away from deathPos at a uniform angle. Returns
// false if the parasite is unknown, not live, or already queued.
func (q *RespawnQueue) Enqueue(id components.ParasiteID, deathPos components.Position, now float64) bool {
	if _, ok := q.queued[id]; ok {
		return false
	}
	pos, par, ok := q.store.Get(id)
	if !ok || !par.Live() {
		return false
	}

	target := deathPos.OffsetXZ(randomAngle(q.rng), q.distance)
	if q.terrain != nil {
		target.Y = q.terrain.HeightAt(target.X, target.Z)
	}

	q.hooks(par.Kind).OnDeath(par, deathPos)

	*pos = deathPos
	par.Alive = false
	par.Hidden = true
	par.Health = 0

	if q.spatial != nil {
		q.spatial.Remove(id)
	}
	if q.ledger != nil {
		q.ledger.Release(id)
	}
	q.pop.Remove(par)
	q.renderer.SetVisible(id, false)

	q.entries = append(q.entries, PendingRespawn{
		ID:        id,
		DeathTime: now,
		Position:  target,
		Location:  par.LocationID,
	})
	q.queued[id] = struct{}{}
	q.byLoc[par.LocationID]++
	return true
}

// Update resurrects every entry whose delay has elapsed, in enqueue order,
// and returns how many came back. Immature entries are left untouched.
func (q *RespawnQueue) Update(now float64) int {
	if len(q.entries) == 0 {
		return 0
	}

	revived := 0
	kept := q.entries[:0]
	for _, e := range q.entries {
		if now-e.DeathTime < q.delay {
			kept = append(kept, e)
			continue
		}
		q.forget(e)
		if q.revive(e) {
			revived++
		}
	}
	clear(q.entries[len(kept):])
	q.entries = kept
	return revived
}

// revive brings one matured entry back. Returns false if the parasite is
// gone or its respawn point now lies in a liberated territory.
func (q *RespawnQueue) revive(e PendingRespawn) bool {
	pos, par, ok := q.store.Get(e.ID)
	if !ok {
		return false
	}
	if q.ledger != nil && !q.ledger.Admits(e.Position) {
		slog.Debug("respawn_discarded", "id", e.ID, "reason", "liberated")
		q.ledger.discard(e.ID)
		return false
	}

	*pos = e.Position
	par.Alive = true
	par.Hidden = false
	par.Health = par.MaxHealth
	par.SetState(components.StateSpawning)

	if q.ledger != nil {
		q.ledger.bindTerritory(par, q.ledger.creditID(e.Position))
	}
	q.pop.Add(par)

	if q.spatial != nil {
		q.spatial.Add(e.ID, e.Position, TagFor(par.Kind))
	}
	q.renderer.SetPosition(e.ID, e.Position)
	q.renderer.SetVisible(e.ID, true)
	if q.ledger != nil {
		q.ledger.Attach(e.ID, e.Position)
	}

	q.hooks(par.Kind).OnRespawn(par, e.Position)
	return true
}

// Pending returns the queued entry for id.
func (q *RespawnQueue) Pending(id components.ParasiteID) (PendingRespawn, bool) {
	if _, ok := q.queued[id]; !ok {
		return PendingRespawn{}, false
	}
	for _, e := range q.entries {
		if e.ID == id {
			return e, true
		}
	}
	return PendingRespawn{}, false
}

// Len returns the number of queued entries.
func (q *RespawnQueue) Len() int {
	return len(q.entries)
}

// PendingAt returns the queued entries anchored at a location.
func (q *RespawnQueue) PendingAt(loc components.LocationID) int {
	return q.byLoc[loc]
}

// PurgeWithin drops every entry whose respawn point lies within radius of
// center and returns their ids. The parasites stay hidden; the caller
// decides their fate.
func (q *RespawnQueue) PurgeWithin(center components.Position, radius float32) []components.ParasiteID {
	var purged []components.ParasiteID
	kept := q.entries[:0]
	for _, e := range q.entries {
		if center.DistSqXZ(e.Position) > radius*radius {
			kept = append(kept, e)
			continue
		}
		q.forget(e)
		purged = append(purged, e.ID)
	}
	clear(q.entries[len(kept):])
	q.entries = kept
	return purged
}

func (q *RespawnQueue) forget(e PendingRespawn) {
	delete(q.queued, e.ID)
	if n := q.byLoc[e.Location]; n > 1 {
		q.byLoc[e.Location] = n - 1
	} else {
		delete(q.byLoc, e.Location)
	}
}

func (q *RespawnQueue) hooks(kind components.Kind) components.Lifecycle {
	if q.profiles == nil {
		return components.NopLifecycle{}
	}
	return q.profiles.Hooks(kind)
}
