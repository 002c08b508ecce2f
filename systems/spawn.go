package systems

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/hive/components"
	"github.com/pthm-cable/hive/config"
)

// LocationStatus is the spawn eligibility of a location. It is decided once,
// on first sight, and never changes afterwards.
type LocationStatus uint8

const (
	LocationUnvisited LocationStatus = iota
	LocationEligible
	LocationIneligible
)

// String returns the display name for a LocationStatus.
func (s LocationStatus) String() string {
	switch s {
	case LocationUnvisited:
		return "unvisited"
	case LocationEligible:
		return "eligible"
	case LocationIneligible:
		return "ineligible"
	}
	return "unknown"
}

type locationState struct {
	status      LocationStatus
	lastAttempt float64 // only meaningful when eligible
}

// SpawnParams are the scheduler tuning values.
type SpawnParams struct {
	BaseInterval                 float64
	ActiveMiningMultiplier       float64
	TerritorialRateMultiplier    float64
	EligibilityChance            float64
	TerritorialEligibilityChance float64
	MaxPerLocation               int
	MaxLocationsPerTick          int // 0 = unbounded
	MaxActive                    int
	SpawnRadius                  float32
	MinOffset                    float32
}

// SpawnParamsFromConfig reads the scheduler tuning from the spawn config.
func SpawnParamsFromConfig(cfg *config.Config) SpawnParams {
	s := cfg.Spawn
	return SpawnParams{
		BaseInterval:                 s.BaseInterval,
		ActiveMiningMultiplier:       s.ActiveMiningMultiplier,
		TerritorialRateMultiplier:    s.TerritorialRateMultiplier,
		EligibilityChance:            s.EligibilityChance,
		TerritorialEligibilityChance: s.TerritorialEligibilityChance,
		MaxPerLocation:               s.MaxPerLocation,
		MaxLocationsPerTick:          s.MaxLocationsPerTick,
		MaxActive:                    s.MaxActive,
		SpawnRadius:                  cfg.Derived.SpawnRadius,
		MinOffset:                    cfg.Derived.MinOffset,
	}
}

// TickReport counts what happened during one scheduler update.
type TickReport struct {
	Evaluated          int
	Spawned            int
	FirstSight         int
	SkippedIneligible  int
	SkippedLiberated   int
	SkippedInterval    int
	SkippedLocationCap int
	SkippedGlobalCap   int
	Denied             int // energy
	Failed             int // factory
}

// LogValue implements slog.LogValuer for structured logging.
func (r TickReport) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("evaluated", r.Evaluated),
		slog.Int("spawned", r.Spawned),
		slog.Int("first_sight", r.FirstSight),
		slog.Int("skip_ineligible", r.SkippedIneligible),
		slog.Int("skip_liberated", r.SkippedLiberated),
		slog.Int("skip_interval", r.SkippedInterval),
		slog.Int("skip_location_cap", r.SkippedLocationCap),
		slog.Int("skip_global_cap", r.SkippedGlobalCap),
		slog.Int("denied", r.Denied),
		slog.Int("failed", r.Failed),
	)
}

// Add accumulates another report.
func (r *TickReport) Add(o TickReport) {
	r.Evaluated += o.Evaluated
	r.Spawned += o.Spawned
	r.FirstSight += o.FirstSight
	r.SkippedIneligible += o.SkippedIneligible
	r.SkippedLiberated += o.SkippedLiberated
	r.SkippedInterval += o.SkippedInterval
	r.SkippedLocationCap += o.SkippedLocationCap
	r.SkippedGlobalCap += o.SkippedGlobalCap
	r.Denied += o.Denied
	r.Failed += o.Failed
}

// reject counts a refused attempt under the counter for its cause.
func (r *TickReport) reject(err error) {
	switch {
	case errors.Is(err, ErrLocationFull):
		r.SkippedLocationCap++
	case errors.Is(err, ErrPopulationCap):
		r.SkippedGlobalCap++
	case errors.Is(err, ErrNoEnergy):
		r.Denied++
	default:
		r.Failed++
	}
}

// Factory creates parasite entities from the kind profile table.
type Factory struct {
	store    *Store
	profiles *components.Profiles
}

// NewFactory creates a factory.
func NewFactory(store *Store, profiles *components.Profiles) *Factory {
	return &Factory{store: store, profiles: profiles}
}

// Create adds a live parasite of kind at pos. Unknown kinds fail with
// ErrUnknownKind and leave the store untouched.
func (f *Factory) Create(kind components.Kind, pos components.Position, loc components.LocationID, heading float32) (components.ParasiteID, error) {
	if !kind.Valid() {
		return 0, fmt.Errorf("create parasite of kind %d: %w", kind, ErrUnknownKind)
	}
	profile := f.profiles[kind]
	par := components.Parasite{
		Kind:       kind,
		Health:     profile.MaxHealth,
		MaxHealth:  profile.MaxHealth,
		Alive:      true,
		LocationID: loc,
		State:      components.StateSpawning,
		Heading:    heading,
	}
	return f.store.Create(pos, par), nil
}

// SpawnDeps are the systems the scheduler drives. Ledger and Respawns may be nil.
type SpawnDeps struct {
	Store        *Store
	Population   *Population
	Distribution *DistributionTracker
	Energy       *EnergyBudget
	Ledger       *TerritoryLedger
	Respawns     *RespawnQueue
	Profiles     *components.Profiles
}

// SpawnScheduler decides when, where and what to spawn around locations.
type SpawnScheduler struct {
	params   SpawnParams
	deps     SpawnDeps
	factory  *Factory
	spatial  SpatialIndex
	renderer Renderer
	terrain  Terrain
	view     Viewpoint
	rng      *rand.Rand

	states       map[components.LocationID]*locationState
	activeCap    int
	intervalMult float64
}

// NewSpawnScheduler creates a scheduler at full capacity.
func NewSpawnScheduler(params SpawnParams, deps SpawnDeps, collab Collaborators, rng *rand.Rand) *SpawnScheduler {
	return &SpawnScheduler{
		params:       params,
		deps:         deps,
		factory:      NewFactory(deps.Store, deps.Profiles),
		spatial:      collab.Spatial,
		renderer:     collab.renderer(),
		terrain:      collab.Terrain,
		view:         collab.Viewpoint,
		rng:          rng,
		states:       make(map[components.LocationID]*locationState),
		activeCap:    params.MaxActive,
		intervalMult: 1,
	}
}

// ApplyDegradation implements Degradable. The cap only gates new spawns;
// existing parasites are never culled.
func (s *SpawnScheduler) ApplyDegradation(_ int, actions LevelActions) {
	s.activeCap = actions.EntityCap
	if s.activeCap <= 0 {
		s.activeCap = s.params.MaxActive
	}
	s.intervalMult = actions.SpawnIntervalMultiplier
	if s.intervalMult <= 0 {
		s.intervalMult = 1
	}
}

// ActiveCap returns the global cap currently in effect.
func (s *SpawnScheduler) ActiveCap() int { return s.activeCap }

// CountAt returns the parasites anchored at a location, including those
// waiting to respawn there.
func (s *SpawnScheduler) CountAt(loc components.LocationID) int {
	n := s.deps.Population.AtLocation(loc)
	if s.deps.Respawns != nil {
		n += s.deps.Respawns.PendingAt(loc)
	}
	return n
}

// State returns the eligibility status of a location and its last attempt time.
func (s *SpawnScheduler) State(loc components.LocationID) (LocationStatus, float64) {
	st, ok := s.states[loc]
	if !ok {
		return LocationUnvisited, 0
	}
	return st.status, st.lastAttempt
}

// Update evaluates the tick's locations and spawns where every precondition
// holds. Nothing is buffered: a spawn rejected this tick is simply dropped.
func (s *SpawnScheduler) Update(now float64, locations []components.Location) TickReport {
	var rep TickReport
	for _, loc := range s.prioritize(locations) {
		rep.Evaluated++
		s.evaluate(now, loc, &rep)
	}
	return rep
}

// prioritize keeps visible, undepleted locations, nearest to the viewpoint
// first, capped to MaxLocationsPerTick.
func (s *SpawnScheduler) prioritize(locations []components.Location) []components.Location {
	out := make([]components.Location, 0, len(locations))
	for _, loc := range locations {
		if loc.Visible && !loc.Depleted {
			out = append(out, loc)
		}
	}
	if s.view != nil {
		focus := s.view.LookAt()
		sort.SliceStable(out, func(i, j int) bool {
			di, dj := focus.DistSqXZ(out[i].Position), focus.DistSqXZ(out[j].Position)
			if di != dj {
				return di < dj
			}
			return out[i].ID < out[j].ID
		})
	}
	if n := s.params.MaxLocationsPerTick; n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func (s *SpawnScheduler) evaluate(now float64, loc components.Location, rep *TickReport) {
	var owner Controller
	if l := s.deps.Ledger; l != nil {
		if !l.Admits(loc.Position) {
			rep.SkippedLiberated++
			return
		}
		if t := l.creditAt(loc.Position); t != nil {
			owner = l.ownerOf(t)
		}
	}

	st, ok := s.states[loc.ID]
	if !ok {
		st = &locationState{}
		s.states[loc.ID] = st
	}
	switch st.status {
	case LocationUnvisited:
		chance := s.params.EligibilityChance
		if owner != nil {
			chance = s.params.TerritorialEligibilityChance
		}
		st.status = LocationIneligible
		if s.rng.Float64() < chance {
			st.status = LocationEligible
			st.lastAttempt = now
		}
		rep.FirstSight++
		slog.Debug("location_first_sight", "location", loc.ID, "status", st.status.String())
		return
	case LocationIneligible:
		rep.SkippedIneligible++
		return
	}

	if now-st.lastAttempt < s.interval(loc, owner != nil) {
		rep.SkippedInterval++
		return
	}
	st.lastAttempt = now

	if err := s.admissionError(loc.ID); err != nil {
		rep.reject(err)
		slog.Debug("spawn_skipped", "location", loc.ID, "reason", err)
		return
	}

	pos := randomInAnnulus(s.rng, loc.Position, s.params.MinOffset, s.params.SpawnRadius)
	if s.terrain != nil {
		pos.Y = s.terrain.HeightAt(pos.X, pos.Z)
	}

	// Kind and payment follow the territory the parasite will be credited
	// to, which is decided by where it lands, not by its location.
	var terr *Territory
	var payer Controller
	if l := s.deps.Ledger; l != nil {
		if !l.Admits(pos) {
			rep.SkippedLiberated++
			return
		}
		if terr = l.creditAt(pos); terr != nil {
			payer = l.ownerOf(terr)
		}
	}

	var kind components.Kind
	if payer != nil {
		kind = s.strategyKind(terr)
		if err := s.pay(kind); err != nil {
			rep.reject(err)
			return
		}
	} else {
		kind = s.deps.Distribution.NextKind()
	}

	id, err := s.factory.Create(kind, pos, loc.ID, randomAngle(s.rng))
	if err != nil {
		rep.reject(err)
		slog.Warn("spawn_failed", "location", loc.ID, "error", err)
		return
	}
	s.admit(id, loc.ID)
	rep.Spawned++
}

// admissionError reports why location loc cannot take another parasite
// right now, or nil if it can.
func (s *SpawnScheduler) admissionError(loc components.LocationID) error {
	if n := s.CountAt(loc); n >= s.params.MaxPerLocation {
		return fmt.Errorf("%w: location %d holds %d", ErrLocationFull, loc, n)
	}
	active := s.deps.Population.Total()
	if s.deps.Respawns != nil {
		active += s.deps.Respawns.Len()
	}
	if active >= s.activeCap {
		return fmt.Errorf("%w: %d active of %d", ErrPopulationCap, active, s.activeCap)
	}
	return nil
}

// pay charges the energy budget for one controller-driven spawn of kind.
func (s *SpawnScheduler) pay(kind components.Kind) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}
	if s.deps.Energy != nil && !s.deps.Energy.ConsumeForSpawn(kind) {
		return fmt.Errorf("%w: %s", ErrNoEnergy, kind)
	}
	return nil
}

// admit registers a freshly created parasite with every bookkeeping system.
func (s *SpawnScheduler) admit(id components.ParasiteID, loc components.LocationID) {
	pos, par, _ := s.deps.Store.Get(id)

	if l := s.deps.Ledger; l != nil {
		l.bindTerritory(par, l.creditID(*pos))
	}

	if s.spatial != nil {
		s.spatial.Add(id, *pos, TagFor(par.Kind))
	}
	s.renderer.Create(id, par.Kind, *pos)
	if s.deps.Ledger != nil {
		s.deps.Ledger.Attach(id, *pos)
	}
	s.deps.Distribution.RecordSpawn(par.Kind, loc)
	s.deps.Population.Add(par)

	if s.deps.Profiles != nil {
		s.deps.Profiles.Hooks(par.Kind).OnSpawn(par, *pos)
	}
	slog.Debug("parasite_spawned",
		"id", id,
		"kind", par.Kind.String(),
		"location", loc,
		"territory", par.TerritoryID,
	)
}

// interval returns the seconds required between attempts at a location.
func (s *SpawnScheduler) interval(loc components.Location, territorial bool) float64 {
	iv := s.params.BaseInterval
	if loc.MinerPresent && s.params.ActiveMiningMultiplier > 0 {
		iv /= s.params.ActiveMiningMultiplier
	}
	if territorial && s.params.TerritorialRateMultiplier > 0 {
		iv /= s.params.TerritorialRateMultiplier
	}
	return iv * s.intervalMult
}

// strategyKind draws a kind from the territory's strategy weights, falling
// back to the distribution tracker when no weights are set.
func (s *SpawnScheduler) strategyKind(t *Territory) components.Kind {
	total := floats.Sum(t.Strategy[:])
	if total <= 0 {
		return s.deps.Distribution.NextKind()
	}
	r := s.rng.Float64() * total
	for k, w := range t.Strategy {
		if r < w {
			return components.Kind(k)
		}
		r -= w
	}
	return components.NumKinds - 1
}
