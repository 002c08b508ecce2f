// Package game wires the swarm systems into a single-threaded tick loop.
package game

import (
	"log/slog"
	"math/rand"

	"github.com/google/uuid"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/hive/camera"
	"github.com/pthm-cable/hive/components"
	"github.com/pthm-cable/hive/config"
	"github.com/pthm-cable/hive/systems"
	"github.com/pthm-cable/hive/telemetry"
)

// Game holds the complete swarm state.
type Game struct {
	cfg     *config.Config
	rng     *rand.Rand
	rngSeed int64
	session string

	// Entity storage
	world    *ecs.World
	store    *systems.Store
	pop      *systems.Population
	grid     *systems.SpatialGrid
	profiles components.Profiles
	renderer systems.Renderer

	// Spawn anchors and viewpoint
	camera      *camera.Camera
	cameraOrbit bool
	allVisible  bool
	locations   []components.Location

	// Systems, in tick order
	registry  *systems.SystemRegistry
	behavior  *systems.BehaviorSystem
	energy    *systems.EnergyBudget
	scheduler *systems.SpawnScheduler
	respawns  *systems.RespawnQueue
	governor  *systems.Governor
	ledger    *systems.TerritoryLedger
	dist      *systems.DistributionTracker

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	lifetimeTracker  *telemetry.LifetimeTracker
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	statsCallback    func(telemetry.WindowStats)
	logStats         bool

	// State
	tick          int32
	now           float64 // simulation seconds
	attritionRate float64
	nonEssential  bool
	lastGovSample float64
	lastReport    systems.TickReport
	totals        systems.TickReport
}

// NewGame creates a game with default options.
func NewGame() *Game {
	return NewGameWithOptions(DefaultOptions())
}

// NewGameWithOptions creates a new game instance.
func NewGameWithOptions(opts Options) *Game {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	world := ecs.NewWorld()
	g := &Game{
		cfg:           cfg,
		rng:           rand.New(rand.NewSource(opts.Seed)),
		rngSeed:       opts.Seed,
		session:       uuid.NewString(),
		world:         world,
		store:         systems.NewStore(world),
		pop:           systems.NewPopulation(),
		grid:          systems.NewSpatialGrid(float32(cfg.World.GridCellSize)),
		profiles:      components.ProfilesFromConfig(cfg),
		renderer:      opts.Renderer,
		camera:        camera.New(ViewportWidth, ViewportHeight, float32(cfg.World.Extent)),
		cameraOrbit:   opts.CameraOrbit,
		allVisible:    opts.AllVisible,
		registry:      systems.NewSystemRegistry(),
		statsCallback: opts.StatsCallback,
		logStats:      opts.LogStats,
		nonEssential:  true,
	}
	if g.renderer == nil {
		g.renderer = systems.NopRenderer{}
	}

	g.attritionRate = opts.AttritionRate
	if g.attritionRate < 0 {
		g.attritionRate = cfg.World.AttritionRate
	}

	// Lifecycle hooks feed telemetry for every kind
	hooks := &swarmHooks{g: g}
	for k := range g.profiles {
		g.profiles[k].Lifecycle = hooks
	}

	collab := systems.Collaborators{
		Spatial:   g.grid,
		Renderer:  g.renderer,
		Terrain:   opts.Terrain,
		Viewpoint: g.camera,
	}

	g.ledger = systems.NewTerritoryLedger(g.store, g.pop, collab)
	g.ledger.SetProfiles(&g.profiles)
	g.ledger.SetReconcileInterval(cfg.Territory.ReconcileInterval)
	g.respawns = systems.NewRespawnQueueFromConfig(cfg, g.store, g.pop, g.ledger, &g.profiles, collab, g.rng)
	g.ledger.SetRespawnQueue(g.respawns)
	g.dist = systems.NewDistributionTrackerFromConfig(cfg)
	g.energy = systems.NewEnergyBudgetFromConfig(cfg)
	g.energy.SetListener(systems.EnergyListener{
		Denied: func(kind components.Kind, required, _ float64) {
			g.collector.Record(telemetry.NewDeniedEvent(g.tick, kind, float32(required)))
		},
	})
	g.scheduler = systems.NewSpawnScheduler(systems.SpawnParamsFromConfig(cfg), systems.SpawnDeps{
		Store:        g.store,
		Population:   g.pop,
		Distribution: g.dist,
		Energy:       g.energy,
		Ledger:       g.ledger,
		Respawns:     g.respawns,
		Profiles:     &g.profiles,
	}, collab, g.rng)
	g.behavior = systems.NewBehaviorSystem(cfg, g.store, &g.profiles, collab, g.rng)

	// Telemetry
	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}
	g.collector = telemetry.NewCollector(statsWindow, cfg.Derived.DT32)
	g.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)
	g.lifetimeTracker = telemetry.NewLifetimeTracker()
	g.bookmarkDetector = telemetry.NewBookmarkDetector(10)

	sampler := opts.Sampler
	if sampler == nil {
		sampler = NewRuntimeSampler(g.perfCollector, cfg.Performance.TargetFPS)
	}
	if a, ok := sampler.(GameAware); ok {
		a.Attach(g)
	}
	g.governor = systems.NewGovernorFromConfig(cfg, sampler)
	g.governor.Subscribe(g.scheduler)
	g.governor.Subscribe(g.behavior)
	g.governor.Subscribe(g.ledger)
	g.governor.Subscribe(&detailAdapter{renderer: g.renderer})
	g.governor.Subscribe(g)

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir, g.session, cfg.Telemetry.Compress)
		if err != nil {
			slog.Error("failed to create output manager", "error", err)
		} else {
			g.outputManager = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to write config", "error", err)
			}
		}
	}

	logSystems(g.registry)
	g.createLocations(cfg.World.Locations)
	g.createTerritories(opts.Territories)

	slog.Info("game_created",
		"session", g.session,
		"seed", opts.Seed,
		"locations", len(g.locations),
		"territories", len(g.ledger.Territories()),
	)
	return g
}

// ApplyDegradation gates the game's own non-essential work (telemetry).
func (g *Game) ApplyDegradation(_ int, actions systems.LevelActions) {
	g.nonEssential = actions.NonEssential
}

// Update runs a single simulation tick.
func (g *Game) Update() {
	g.simulationStep()
}

// UpdateHeadless runs one tick and records frame timing, standing in for a render loop.
func (g *Game) UpdateHeadless() {
	g.simulationStep()
	g.perfCollector.RecordFrame()
}

// Unload flushes and closes output files.
func (g *Game) Unload() {
	if g.outputManager != nil {
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 { return g.tick }

// Now returns the current simulation time in seconds.
func (g *Game) Now() float64 { return g.now }

// Session returns the run identifier attached to logs and CSV rows.
func (g *Game) Session() string { return g.session }

// Seed returns the RNG seed.
func (g *Game) Seed() int64 { return g.rngSeed }

// Store returns the parasite store.
func (g *Game) Store() *systems.Store { return g.store }

// Population returns the live counters.
func (g *Game) Population() *systems.Population { return g.pop }

// Governor returns the performance governor.
func (g *Game) Governor() *systems.Governor { return g.governor }

// Ledger returns the territory ledger.
func (g *Game) Ledger() *systems.TerritoryLedger { return g.ledger }

// Energy returns the spawn energy budget.
func (g *Game) Energy() *systems.EnergyBudget { return g.energy }

// Distribution returns the kind distribution tracker.
func (g *Game) Distribution() *systems.DistributionTracker { return g.dist }

// Scheduler returns the spawn scheduler.
func (g *Game) Scheduler() *systems.SpawnScheduler { return g.scheduler }

// Respawns returns the respawn queue.
func (g *Game) Respawns() *systems.RespawnQueue { return g.respawns }

// Camera returns the viewpoint.
func (g *Game) Camera() *camera.Camera { return g.camera }

// Locations returns the spawn locations. The slice is owned by the game.
func (g *Game) Locations() []components.Location { return g.locations }

// Totals returns the scheduler report accumulated over the run.
func (g *Game) Totals() systems.TickReport { return g.totals }

// LastReport returns the scheduler report of the latest tick.
func (g *Game) LastReport() systems.TickReport { return g.lastReport }
