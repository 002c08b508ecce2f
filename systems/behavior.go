package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/hive/components"
	"github.com/pthm-cable/hive/config"
)

// feedRange is how close a parasite must be to a miner to start draining.
const feedRange = 2.0

// BehaviorReport summarizes one behavior pass.
type BehaviorReport struct {
	Ran     bool // false when skipped by the update stride
	Updated int
	Drained float64 // energy drained from miners this pass
	ByState [5]int  // live parasites per state, state order
}

// BehaviorSystem moves live parasites through the Spawning, Patrolling,
// Hunting, Feeding and Returning states. Per-kind differences come from the
// profile table only.
type BehaviorSystem struct {
	store    *Store
	profiles *components.Profiles
	spatial  SpatialIndex
	renderer Renderer
	terrain  Terrain
	rng      *rand.Rand

	spawnIn float32
	jitter  float32

	stride int
	tick   int
}

// NewBehaviorSystem creates a behavior system that runs every tick.
func NewBehaviorSystem(cfg *config.Config, store *Store, profiles *components.Profiles, collab Collaborators, rng *rand.Rand) *BehaviorSystem {
	return &BehaviorSystem{
		store:    store,
		profiles: profiles,
		spatial:  collab.Spatial,
		renderer: collab.renderer(),
		terrain:  collab.Terrain,
		rng:      rng,
		spawnIn:  float32(cfg.Behavior.SpawnInDuration),
		jitter:   float32(cfg.Behavior.WanderJitter),
		stride:   1,
	}
}

// ApplyDegradation implements Degradable.
func (s *BehaviorSystem) ApplyDegradation(_ int, actions LevelActions) {
	s.stride = max(1, actions.UpdateStride)
}

// Stride returns the current update stride.
func (s *BehaviorSystem) Stride() int { return s.stride }

// Update advances every live parasite. With a stride above one the system
// runs every stride ticks with a proportionally larger dt.
func (s *BehaviorSystem) Update(dt float32, locations []components.Location) BehaviorReport {
	s.tick++
	if s.tick%s.stride != 0 {
		return BehaviorReport{}
	}
	step := dt * float32(s.stride)

	anchors := make(map[components.LocationID]components.Position, len(locations))
	var miners []components.Position
	for _, loc := range locations {
		anchors[loc.ID] = loc.Position
		if loc.MinerPresent && !loc.Depleted {
			miners = append(miners, loc.Position)
		}
	}

	rep := BehaviorReport{Ran: true}
	s.store.Each(func(pos *components.Position, par *components.Parasite) {
		if !par.Live() {
			return
		}
		profile := &s.profiles[par.Kind]
		anchor, leash := s.anchor(par, profile, anchors)
		target, hasTarget := nearest(*pos, miners, profile.AggroRadius)

		par.StateTime += step
		switch par.State {
		case components.StateSpawning:
			if par.StateTime >= s.spawnIn {
				par.SetState(components.StatePatrolling)
			}
		case components.StatePatrolling:
			switch {
			case hasTarget:
				par.SetState(components.StateHunting)
			case pos.DistXZ(anchor) > leash:
				par.SetState(components.StateReturning)
			default:
				par.Heading = normalizeAngle(par.Heading + (s.rng.Float32()*2-1)*s.jitter*step)
				s.move(pos, par.Heading, profile.Speed*0.5*step)
			}
		case components.StateHunting:
			switch {
			case !hasTarget:
				par.SetState(components.StateReturning)
			case pos.DistXZ(target) <= feedRange && profile.DrainRate > 0:
				par.SetState(components.StateFeeding)
			default:
				s.steer(pos, par, target, profile.Speed*step)
			}
		case components.StateFeeding:
			if !hasTarget || pos.DistXZ(target) > feedRange {
				par.SetState(components.StateReturning)
				break
			}
			rep.Drained += float64(profile.DrainRate * step)
		case components.StateReturning:
			if hasTarget {
				par.SetState(components.StateHunting)
				break
			}
			if pos.DistXZ(anchor) <= leash*0.5 {
				par.SetState(components.StatePatrolling)
				break
			}
			s.steer(pos, par, anchor, profile.Speed*step)
		}

		if s.terrain != nil {
			pos.Y = s.terrain.HeightAt(pos.X, pos.Z)
		}
		if s.spatial != nil {
			s.spatial.UpdatePosition(par.ID, *pos)
		}
		s.renderer.SetPosition(par.ID, *pos)

		rep.Updated++
		if int(par.State) < len(rep.ByState) {
			rep.ByState[par.State]++
		}
	})
	return rep
}

// anchor returns the point a parasite patrols around and its leash radius.
// Territorial parasites are leashed to their territory.
func (s *BehaviorSystem) anchor(par *components.Parasite, profile *components.KindProfile,
	anchors map[components.LocationID]components.Position) (components.Position, float32) {
	if par.TerritoryID != 0 && par.TerritoryRadius > 0 {
		return par.TerritoryCenter, par.TerritoryRadius
	}
	return anchors[par.LocationID], profile.PatrolRadius
}

func (s *BehaviorSystem) steer(pos *components.Position, par *components.Parasite, target components.Position, dist float32) {
	dx, dz := target.X-pos.X, target.Z-pos.Z
	par.Heading = float32(math.Atan2(float64(dz), float64(dx)))
	remaining := pos.DistXZ(target)
	s.move(pos, par.Heading, min(dist, remaining))
}

func (s *BehaviorSystem) move(pos *components.Position, heading, dist float32) {
	*pos = pos.OffsetXZ(heading, dist)
}

// nearest returns the closest candidate within radius of pos.
func nearest(pos components.Position, candidates []components.Position, radius float32) (components.Position, bool) {
	var best components.Position
	bestDist := radius * radius
	found := false
	for _, c := range candidates {
		if d := pos.DistSqXZ(c); d <= bestDist {
			best = c
			bestDist = d
			found = true
		}
	}
	return best, found
}
