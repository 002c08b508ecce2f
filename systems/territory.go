package systems

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/pthm-cable/hive/components"
)

// TerritoryStatus is the control status of a territory.
type TerritoryStatus uint8

const (
	TerritoryContested TerritoryStatus = iota
	TerritoryOwned
	TerritoryLiberated
)

// String returns the display name for a TerritoryStatus.
func (s TerritoryStatus) String() string {
	switch s {
	case TerritoryContested:
		return "contested"
	case TerritoryOwned:
		return "owned"
	case TerritoryLiberated:
		return "liberated"
	}
	return "unknown"
}

// Territory is a circular region on the X/Z plane.
type Territory struct {
	ID           components.TerritoryID
	Center       components.Position
	Radius       float32
	Status       TerritoryStatus
	ControllerID components.ControllerID

	// Strategy weights the kinds a controller spawns here, kind order.
	// All-zero means "defer to the distribution tracker".
	Strategy [components.NumKinds]float64
}

// Contains reports whether pos lies inside the territory.
func (t *Territory) Contains(pos components.Position) bool {
	return t.Center.DistSqXZ(pos) <= t.Radius*t.Radius
}

// Queen is the standard Controller implementation.
type Queen struct {
	id          components.ControllerID
	territoryID components.TerritoryID
	active      bool
	vulnerable  bool
	controlled  map[components.ParasiteID]struct{}
}

// NewQueen creates an active, invulnerable queen.
func NewQueen(id components.ControllerID, territory components.TerritoryID) *Queen {
	return &Queen{
		id:          id,
		territoryID: territory,
		active:      true,
		controlled:  make(map[components.ParasiteID]struct{}),
	}
}

func (q *Queen) ID() components.ControllerID { return q.id }

// TerritoryID returns the territory this queen rules.
func (q *Queen) TerritoryID() components.TerritoryID { return q.territoryID }

func (q *Queen) AddControlledEntity(id components.ParasiteID) {
	q.controlled[id] = struct{}{}
}

func (q *Queen) RemoveControlledEntity(id components.ParasiteID) {
	delete(q.controlled, id)
}

func (q *Queen) Controls(id components.ParasiteID) bool {
	_, ok := q.controlled[id]
	return ok
}

// ControlledEntities returns the controlled ids in ascending order.
func (q *Queen) ControlledEntities() []components.ParasiteID {
	ids := make([]components.ParasiteID, 0, len(q.controlled))
	for id := range q.controlled {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (q *Queen) IsActive() bool     { return q.active }
func (q *Queen) IsVulnerable() bool { return q.vulnerable }

func (q *Queen) SetActive(active bool) { q.active = active }

// SetVulnerable toggles whether the queen can be attacked.
func (q *Queen) SetVulnerable(v bool) { q.vulnerable = v }

// ConsistencyReport classifies mismatches between where parasites are and
// which controllers claim them.
type ConsistencyReport struct {
	Orphaned         []components.ParasiteID // should be owned, nobody claims it
	WrongController  []components.ParasiteID // claimed by a controller that should not own it
	DuplicateControl []components.ParasiteID // claimed by more than one controller
}

// Clean reports whether no mismatches were found.
func (r ConsistencyReport) Clean() bool {
	return len(r.Orphaned) == 0 && len(r.WrongController) == 0 && len(r.DuplicateControl) == 0
}

// LogValue implements slog.LogValuer for structured logging.
func (r ConsistencyReport) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("orphaned", len(r.Orphaned)),
		slog.Int("wrong_controller", len(r.WrongController)),
		slog.Int("duplicate_control", len(r.DuplicateControl)),
	)
}

// TerritoryLedger tracks which controller owns which parasite, keeps the
// bookkeeping consistent with positions, and evicts liberated territories.
type TerritoryLedger struct {
	store    *Store
	pop      *Population
	spatial  SpatialIndex // nil falls back to linear scans
	renderer Renderer
	profiles *components.Profiles
	respawns *RespawnQueue

	territories map[components.TerritoryID]*Territory
	torder      []components.TerritoryID
	controllers map[components.ControllerID]Controller
	corder      []components.ControllerID

	reconcileInterval float64
	lastReconcile     float64
	nonEssential      bool
}

// NewTerritoryLedger creates an empty ledger. Only Spatial and Renderer are used.
func NewTerritoryLedger(store *Store, pop *Population, collab Collaborators) *TerritoryLedger {
	return &TerritoryLedger{
		store:        store,
		pop:          pop,
		spatial:      collab.Spatial,
		renderer:     collab.renderer(),
		territories:  make(map[components.TerritoryID]*Territory),
		controllers:  make(map[components.ControllerID]Controller),
		nonEssential: true,
	}
}

// SetProfiles installs the per-kind lifecycle hooks used on eviction.
func (l *TerritoryLedger) SetProfiles(p *components.Profiles) {
	l.profiles = p
}

// SetRespawnQueue links the queue so evictions can purge pending respawns.
func (l *TerritoryLedger) SetRespawnQueue(q *RespawnQueue) {
	l.respawns = q
}

// SetReconcileInterval sets how often Update sweeps for inconsistencies (0 = never).
func (l *TerritoryLedger) SetReconcileInterval(seconds float64) {
	l.reconcileInterval = seconds
}

// AddTerritory registers or replaces a territory.
func (l *TerritoryLedger) AddTerritory(t *Territory) {
	if _, ok := l.territories[t.ID]; !ok {
		l.torder = append(l.torder, t.ID)
		sort.Slice(l.torder, func(i, j int) bool { return l.torder[i] < l.torder[j] })
	}
	l.territories[t.ID] = t
}

// AddController registers a controller.
func (l *TerritoryLedger) AddController(c Controller) {
	if _, ok := l.controllers[c.ID()]; !ok {
		l.corder = append(l.corder, c.ID())
		sort.Slice(l.corder, func(i, j int) bool { return l.corder[i] < l.corder[j] })
	}
	l.controllers[c.ID()] = c
}

// Territory returns a territory by id.
func (l *TerritoryLedger) Territory(id components.TerritoryID) (*Territory, bool) {
	t, ok := l.territories[id]
	return t, ok
}

// Territories returns all territories in id order.
func (l *TerritoryLedger) Territories() []*Territory {
	out := make([]*Territory, 0, len(l.torder))
	for _, id := range l.torder {
		out = append(out, l.territories[id])
	}
	return out
}

// Controller returns a controller by id.
func (l *TerritoryLedger) Controller(id components.ControllerID) (Controller, bool) {
	c, ok := l.controllers[id]
	return c, ok
}

// TerritoryAt returns the territory containing (x, z). Overlaps resolve to
// the nearest center, then the lowest id. Returns nil outside every territory.
func (l *TerritoryLedger) TerritoryAt(x, z float32) *Territory {
	return l.nearest(components.Position{X: x, Z: z}, false)
}

// creditAt is TerritoryAt over territories that can still hold parasites.
// Parasites are credited to it, never to a liberated territory.
func (l *TerritoryLedger) creditAt(pos components.Position) *Territory {
	return l.nearest(pos, true)
}

func (l *TerritoryLedger) creditID(pos components.Position) components.TerritoryID {
	if t := l.creditAt(pos); t != nil {
		return t.ID
	}
	return 0
}

func (l *TerritoryLedger) nearest(pos components.Position, skipLiberated bool) *Territory {
	var best *Territory
	var bestDist float32
	for _, id := range l.torder {
		t := l.territories[id]
		if skipLiberated && t.Status == TerritoryLiberated {
			continue
		}
		if !t.Contains(pos) {
			continue
		}
		d := t.Center.DistSqXZ(pos)
		if best == nil || d < bestDist {
			best = t
			bestDist = d
		}
	}
	return best
}

// IsPositionInTerritory reports whether pos lies inside territory id.
func (l *TerritoryLedger) IsPositionInTerritory(pos components.Position, id components.TerritoryID) bool {
	t, ok := l.territories[id]
	return ok && t.Contains(pos)
}

// ControllerAt returns the active controller owning the territory that
// contains pos, or nil.
func (l *TerritoryLedger) ControllerAt(pos components.Position) Controller {
	t := l.creditAt(pos)
	if t == nil {
		return nil
	}
	return l.ownerOf(t)
}

// ownerOf returns the active controller of an owned territory, or nil.
func (l *TerritoryLedger) ownerOf(t *Territory) Controller {
	if t.Status != TerritoryOwned || t.ControllerID == 0 {
		return nil
	}
	c, ok := l.controllers[t.ControllerID]
	if !ok || !c.IsActive() {
		return nil
	}
	return c
}

// EntityCount returns the live parasites credited to a territory.
func (l *TerritoryLedger) EntityCount(id components.TerritoryID) int {
	return l.pop.InTerritory(id)
}

// Attach hands id to the controller owning pos, if any, and returns it.
func (l *TerritoryLedger) Attach(id components.ParasiteID, pos components.Position) Controller {
	c := l.ControllerAt(pos)
	if c != nil {
		c.AddControlledEntity(id)
	}
	return c
}

// Release removes id from every controller claiming it.
func (l *TerritoryLedger) Release(id components.ParasiteID) {
	for _, cid := range l.corder {
		if c := l.controllers[cid]; c.Controls(id) {
			c.RemoveControlledEntity(id)
		}
	}
}

// TransferControl moves a single parasite to the given controller.
func (l *TerritoryLedger) TransferControl(id components.ParasiteID, to components.ControllerID) error {
	c, ok := l.controllers[to]
	if !ok {
		return fmt.Errorf("transfer %d to %d: %w", id, to, ErrUnknownController)
	}
	if !l.store.Has(id) {
		return fmt.Errorf("transfer %d to %d: %w", id, to, ErrUnknownParasite)
	}
	l.Release(id)
	c.AddControlledEntity(id)
	return nil
}

// ValidateConsistency compares the controller every live parasite should
// have against what controllers report. It does not mutate anything.
func (l *TerritoryLedger) ValidateConsistency() ConsistencyReport {
	claims := make(map[components.ParasiteID][]components.ControllerID)
	for _, cid := range l.corder {
		for _, id := range l.controllers[cid].ControlledEntities() {
			claims[id] = append(claims[id], cid)
		}
	}

	var report ConsistencyReport
	for _, id := range l.store.LiveIDs() {
		pos, _, _ := l.store.Get(id)
		expected := l.ControllerAt(*pos)
		owners := claims[id]

		switch {
		case len(owners) > 1:
			report.DuplicateControl = append(report.DuplicateControl, id)
		case len(owners) == 1 && (expected == nil || owners[0] != expected.ID()):
			report.WrongController = append(report.WrongController, id)
		case len(owners) == 0 && expected != nil:
			report.Orphaned = append(report.Orphaned, id)
		}
	}
	return report
}

// Recalculate clears every control set and reassigns each live parasite to
// the controller of the territory containing it. Territory credits follow.
func (l *TerritoryLedger) Recalculate() {
	for _, cid := range l.corder {
		c := l.controllers[cid]
		for _, id := range c.ControlledEntities() {
			c.RemoveControlledEntity(id)
		}
	}

	for _, id := range l.store.LiveIDs() {
		pos, par, _ := l.store.Get(id)

		if tid := l.creditID(*pos); tid != par.TerritoryID {
			l.pop.Remove(par)
			l.bindTerritory(par, tid)
			l.pop.Add(par)
		}

		l.Attach(id, *pos)
	}
}

// Reconcile validates and, if anything is off, logs the report and recalculates.
func (l *TerritoryLedger) Reconcile() ConsistencyReport {
	report := l.ValidateConsistency()
	if report.Clean() {
		return report
	}
	slog.Warn("ledger_inconsistent", "report", report)
	l.Recalculate()
	return report
}

// Update runs Reconcile every reconcile interval while non-essential systems are enabled.
func (l *TerritoryLedger) Update(now float64) {
	if !l.nonEssential || l.reconcileInterval <= 0 {
		return
	}
	if now-l.lastReconcile < l.reconcileInterval {
		return
	}
	l.lastReconcile = now
	l.Reconcile()
}

// ApplyDegradation implements Degradable. Periodic reconciliation is non-essential.
func (l *TerritoryLedger) ApplyDegradation(_ int, actions LevelActions) {
	l.nonEssential = actions.NonEssential
}

// ExplodeTerritory permanently disposes every live parasite inside the
// territory, releases their ownership, drops their index entries and zeroes
// the territory counter. Pending respawns aimed inside are purged as well.
// The respawn queue is bypassed. Returns the number of live parasites removed.
func (l *TerritoryLedger) ExplodeTerritory(id components.TerritoryID) int {
	t, ok := l.territories[id]
	if !ok {
		return 0
	}

	var victims []components.ParasiteID
	if l.spatial != nil {
		victims = l.spatial.EntitiesInRange(t.Center, t.Radius, TagAny)
	} else {
		for _, pid := range l.store.LiveIDs() {
			pos, _, _ := l.store.Get(pid)
			if t.Contains(*pos) {
				victims = append(victims, pid)
			}
		}
	}

	evicted := 0
	for _, pid := range victims {
		pos, par, ok := l.store.Get(pid)
		if !ok || !par.Live() {
			continue
		}
		if l.profiles != nil {
			l.profiles.Hooks(par.Kind).OnEvict(par, *pos)
		}
		l.Release(pid)
		if l.spatial != nil {
			l.spatial.Remove(pid)
		}
		l.renderer.Destroy(pid)
		l.pop.Remove(par)
		l.store.Dispose(pid)
		evicted++
	}

	purged := 0
	if l.respawns != nil {
		for _, pid := range l.respawns.PurgeWithin(t.Center, t.Radius) {
			l.discard(pid)
			purged++
		}
	}

	l.pop.ResetTerritory(id)

	slog.Info("territory_exploded",
		"territory", id,
		"evicted", evicted,
		"purged_pending", purged,
	)
	return evicted
}

// Liberate marks the territory liberated, deactivates its controller and
// explodes it. Liberated territories never receive new parasites.
func (l *TerritoryLedger) Liberate(id components.TerritoryID) int {
	t, ok := l.territories[id]
	if !ok {
		return 0
	}
	t.Status = TerritoryLiberated
	if c, ok := l.controllers[t.ControllerID]; ok {
		c.SetActive(false)
	}
	return l.ExplodeTerritory(id)
}

// Admits reports whether a parasite may appear at pos. A position inside any
// liberated territory is refused, even where an owned territory overlaps it.
func (l *TerritoryLedger) Admits(pos components.Position) bool {
	for _, id := range l.torder {
		t := l.territories[id]
		if t.Status == TerritoryLiberated && t.Contains(pos) {
			return false
		}
	}
	return true
}

// discard permanently disposes a hidden parasite that holds no counters.
func (l *TerritoryLedger) discard(id components.ParasiteID) {
	l.Release(id)
	l.renderer.Destroy(id)
	l.store.Dispose(id)
}

// bindTerritory credits par to territory tid (0 = none) and records its bounds.
func (l *TerritoryLedger) bindTerritory(par *components.Parasite, tid components.TerritoryID) {
	par.TerritoryID = tid
	if t, ok := l.territories[tid]; ok {
		par.TerritoryCenter = t.Center
		par.TerritoryRadius = t.Radius
		return
	}
	par.TerritoryCenter = components.Position{}
	par.TerritoryRadius = 0
}
