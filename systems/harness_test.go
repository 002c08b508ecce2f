package systems

import (
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/hive/components"
	"github.com/pthm-cable/hive/config"
)

// harness wires every system the way the game does, without a renderer.
type harness struct {
	cfg      *config.Config
	world    *ecs.World
	store    *Store
	pop      *Population
	grid     *SpatialGrid
	profiles components.Profiles
	ledger   *TerritoryLedger
	respawns *RespawnQueue
	dist     *DistributionTracker
	energy   *EnergyBudget
	sched    *SpawnScheduler
}

type harnessOption func(*harnessOpts)

type harnessOpts struct {
	noSpatial bool
	params    func(*SpawnParams)
	seed      int64
}

func withoutSpatial() harnessOption {
	return func(o *harnessOpts) { o.noSpatial = true }
}

func withParams(fn func(*SpawnParams)) harnessOption {
	return func(o *harnessOpts) { o.params = fn }
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()
	o := harnessOpts{seed: 7}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := config.Default()
	w := ecs.NewWorld()
	h := &harness{
		cfg:      cfg,
		world:    w,
		store:    NewStore(w),
		pop:      NewPopulation(),
		profiles: components.ProfilesFromConfig(cfg),
	}

	var collab Collaborators
	if !o.noSpatial {
		h.grid = NewSpatialGrid(float32(cfg.World.GridCellSize))
		collab.Spatial = h.grid
	}

	rng := rand.New(rand.NewSource(o.seed))
	h.ledger = NewTerritoryLedger(h.store, h.pop, collab)
	h.ledger.SetProfiles(&h.profiles)
	h.respawns = NewRespawnQueueFromConfig(cfg, h.store, h.pop, h.ledger, &h.profiles, collab, rng)
	h.dist = NewDistributionTrackerFromConfig(cfg)
	h.energy = NewEnergyBudgetFromConfig(cfg)

	params := SpawnParamsFromConfig(cfg)
	if o.params != nil {
		o.params(&params)
	}
	h.sched = NewSpawnScheduler(params, SpawnDeps{
		Store:        h.store,
		Population:   h.pop,
		Distribution: h.dist,
		Energy:       h.energy,
		Ledger:       h.ledger,
		Respawns:     h.respawns,
		Profiles:     &h.profiles,
	}, collab, rng)
	return h
}

// place creates a live parasite through the same path a scheduled spawn takes.
func (h *harness) place(t *testing.T, kind components.Kind, pos components.Position, loc components.LocationID) components.ParasiteID {
	t.Helper()
	id, err := h.sched.factory.Create(kind, pos, loc, 0)
	require.NoError(t, err)
	h.sched.admit(id, loc)
	return id
}

// ownedTerritory registers a territory owned by a fresh queen.
func (h *harness) ownedTerritory(id components.TerritoryID, center components.Position, radius float32) (*Territory, *Queen) {
	q := NewQueen(components.ControllerID(id), id)
	terr := &Territory{
		ID:           id,
		Center:       center,
		Radius:       radius,
		Status:       TerritoryOwned,
		ControllerID: q.ID(),
	}
	h.ledger.AddController(q)
	h.ledger.AddTerritory(terr)
	return terr, q
}

func (h *harness) isLive(id components.ParasiteID) bool {
	_, par, ok := h.store.Get(id)
	return ok && par.Live()
}

func at(x, z float32) components.Position {
	return components.Position{X: x, Z: z}
}
