package game

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/pthm-cable/hive/components"
	"github.com/pthm-cable/hive/config"
	"github.com/pthm-cable/hive/systems"
	systemsmock "github.com/pthm-cable/hive/systems/mock"
	"github.com/pthm-cable/hive/telemetry"
)

// testOptions returns deterministic options: every location visible, a
// static camera and a sampler that always grades excellent.
func testOptions(t *testing.T) Options {
	t.Helper()
	opts := DefaultOptions()
	opts.Seed = 42
	opts.Config = config.Default()
	opts.AllVisible = true
	opts.CameraOrbit = false
	opts.AttritionRate = 0
	opts.Sampler = NewSyntheticSampler(2, 0, 0, opts.Config.Performance.TargetFPS)
	return opts
}

// runFor advances the game by the given simulation seconds.
func runFor(g *Game, seconds float64) {
	ticks := int(math.Round(seconds / g.cfg.World.DT))
	for i := 0; i < ticks; i++ {
		g.UpdateHeadless()
	}
}

// runUntil advances one tick at a time until cond holds or the time limit passes.
func runUntil(t *testing.T, g *Game, limitSec float64, cond func() bool) {
	t.Helper()
	ticks := int(math.Round(limitSec / g.cfg.World.DT))
	for i := 0; i < ticks; i++ {
		if cond() {
			return
		}
		g.UpdateHeadless()
	}
	require.True(t, cond(), "condition not met after %.0fs", limitSec)
}

func TestGame_HeadlessRunHoldsCaps(t *testing.T) {
	opts := testOptions(t)
	opts.AttritionRate = 0.05
	opts.StatsWindowSec = 5

	var windows []telemetry.WindowStats
	opts.StatsCallback = func(s telemetry.WindowStats) {
		windows = append(windows, s)
	}

	g := NewGameWithOptions(opts)
	defer g.Unload()

	cfg := opts.Config
	for sec := 0; sec < 60; sec++ {
		runFor(g, 1)

		require.NoError(t, g.Population().Check())
		assert.LessOrEqual(t, g.Population().Total()+g.Respawns().Len(), cfg.Spawn.MaxActive)
		for _, loc := range g.Locations() {
			assert.LessOrEqual(t, g.Scheduler().CountAt(loc.ID), cfg.Spawn.MaxPerLocation,
				"location %d over cap", loc.ID)
		}
		assert.GreaterOrEqual(t, g.Energy().Current(), 0.0)
		assert.LessOrEqual(t, g.Energy().Current(), cfg.Energy.Max)
	}

	assert.Positive(t, g.Totals().Spawned)
	assert.Positive(t, g.Population().Total())
	assert.True(t, g.Ledger().ValidateConsistency().Clean())
	assert.Equal(t, 0, g.Governor().Level())

	require.GreaterOrEqual(t, len(windows), 10)
	spawns := 0
	for _, w := range windows {
		spawns += w.EnergySpawns + w.CombatSpawns
		assert.Equal(t, g.Session(), w.Session)
	}
	assert.Positive(t, spawns)
}

func TestGame_Deterministic(t *testing.T) {
	run := func() (int, systems.TickReport) {
		g := NewGameWithOptions(testOptions(t))
		runFor(g, 30)
		return g.Population().Total(), g.Totals()
	}
	liveA, totalsA := run()
	liveB, totalsB := run()
	assert.Equal(t, liveA, liveB)
	assert.Equal(t, totalsA, totalsB)
}

func TestGame_KillQueuesRespawn(t *testing.T) {
	g := NewGameWithOptions(testOptions(t))
	runUntil(t, g, 60, func() bool { return g.Population().Total() > 0 })

	id := g.Store().LiveIDs()[0]
	live := g.Population().Total()
	require.NoError(t, g.Kill(id))

	_, par, ok := g.Store().Get(id)
	require.True(t, ok)
	assert.False(t, par.Live())
	assert.Equal(t, live-1, g.Population().Total())
	_, pending := g.Respawns().Pending(id)
	assert.True(t, pending)

	// Killing a hidden parasite again is a no-op
	require.NoError(t, g.Kill(id))
	assert.Equal(t, 1, g.Respawns().Len())

	runFor(g, g.cfg.Respawn.Delay+1)

	_, par, ok = g.Store().Get(id)
	require.True(t, ok)
	assert.True(t, par.Live())
	assert.Equal(t, par.MaxHealth, par.Health)

	lt := g.lifetimeTracker.Get(id)
	require.NotNil(t, lt)
	assert.Equal(t, 1, lt.Deaths)
	assert.Equal(t, 1, lt.Respawns)
}

func TestGame_KillUnknownParasite(t *testing.T) {
	g := NewGameWithOptions(testOptions(t))
	err := g.Kill(components.ParasiteID(9999))
	require.Error(t, err)
	assert.True(t, errors.Is(err, systems.ErrUnknownParasite))
}

func TestGame_LiberateEvictsTerritory(t *testing.T) {
	o := testOptions(t)
	o.Config.World.Locations = 0
	o.Config.Spawn.TerritorialEligibilityChance = 1
	o.Territories = 0
	g := NewGameWithOptions(o)

	origin := components.Position{}
	terr := g.AddTerritory(origin, 40, [components.NumKinds]float64{0.5, 0.5})
	loc := g.AddLocation(origin)

	runUntil(t, g, 120, func() bool { return g.Ledger().EntityCount(terr.ID) >= 2 })

	live := g.Population().Total()
	evicted := g.Liberate(terr.ID)
	assert.Positive(t, evicted)
	assert.Equal(t, live-evicted, g.Population().Total())
	assert.Equal(t, 0, g.Ledger().EntityCount(terr.ID))
	assert.Equal(t, 0, g.Population().InTerritory(terr.ID))
	assert.Equal(t, systems.TerritoryLiberated, terr.Status)

	// Nothing appears inside a liberated territory afterwards
	runFor(g, 30)
	for _, id := range g.Store().LiveIDs() {
		pos, _, _ := g.Store().Get(id)
		assert.False(t, terr.Contains(*pos), "parasite %d inside liberated territory", id)
	}
	assert.Equal(t, 0, g.Population().AtLocation(loc))
	assert.Equal(t, g.Store().Len(), g.lifetimeTracker.Count())
}

func TestGame_AttritionFeedsRespawns(t *testing.T) {
	o := testOptions(t)
	o.AttritionRate = 0.5
	o.StatsWindowSec = 10

	var deaths, respawns int
	o.StatsCallback = func(s telemetry.WindowStats) {
		deaths += s.EnergyDeaths + s.CombatDeaths
		respawns += s.Respawns
	}
	g := NewGameWithOptions(o)
	runFor(g, 60)

	assert.Positive(t, deaths)
	assert.Positive(t, respawns)
	assert.LessOrEqual(t, respawns, deaths)
}

func TestGame_CriticalFramesDegradeAndSkipTelemetry(t *testing.T) {
	ctrl := gomock.NewController(t)

	renderer := systemsmock.NewMockRenderer(ctrl)
	renderer.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	renderer.EXPECT().Destroy(gomock.Any()).AnyTimes()
	renderer.EXPECT().SetVisible(gomock.Any(), gomock.Any()).AnyTimes()
	renderer.EXPECT().SetPosition(gomock.Any(), gomock.Any()).AnyTimes()
	gomock.InOrder(
		renderer.EXPECT().SetDetail(0, true),
		renderer.EXPECT().SetDetail(config.NumLevels-1, false),
	)

	sampler := systemsmock.NewMockFrameSampler(ctrl)
	sampler.EXPECT().Sample().Return(systems.PerformanceSample{
		FPS:         20,
		FrameTimeMS: 50,
	}).MinTimes(1)

	o := testOptions(t)
	o.Renderer = renderer
	o.Sampler = sampler
	o.StatsWindowSec = 1

	flushes := 0
	o.StatsCallback = func(telemetry.WindowStats) { flushes++ }

	g := NewGameWithOptions(o)
	runFor(g, 5)

	assert.Equal(t, config.NumLevels-1, g.Governor().Level())
	assert.False(t, g.nonEssential)
	assert.Equal(t, 0, flushes, "telemetry runs only while non-essential work is enabled")
	assert.LessOrEqual(t, g.Scheduler().ActiveCap(), o.Config.Performance.Levels[config.NumLevels-1].EntityCap)
}

func TestGame_OutputFiles(t *testing.T) {
	dir := t.TempDir()
	o := testOptions(t)
	o.OutputDir = dir
	o.StatsWindowSec = 1

	g := NewGameWithOptions(o)
	runFor(g, 5)
	g.Unload()

	for _, name := range []string{"config.yaml", "telemetry.csv", "perf.csv", "governor.csv", "bookmarks.csv"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), g.Session())

	gov, err := os.ReadFile(filepath.Join(dir, "governor.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(gov), "excellent")
}

func TestDetailAdapter_ForwardsChangesOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := systemsmock.NewMockRenderer(ctrl)
	gomock.InOrder(
		renderer.EXPECT().SetDetail(0, true),
		renderer.EXPECT().SetDetail(1, false),
		renderer.EXPECT().SetDetail(0, true),
	)

	d := &detailAdapter{renderer: renderer}
	d.ApplyDegradation(0, systems.LevelActions{Cosmetic: true})
	d.ApplyDegradation(0, systems.LevelActions{Cosmetic: true})
	d.ApplyDegradation(1, systems.LevelActions{})
	d.ApplyDegradation(1, systems.LevelActions{})
	d.ApplyDegradation(0, systems.LevelActions{Cosmetic: true})
}

func TestRuntimeSampler_MemoryAndBudget(t *testing.T) {
	perf := telemetry.NewPerfCollector(10)
	s := NewRuntimeSampler(perf, 60)
	s.baseline = 100 * bytesPerMB
	s.readMem = func() uint64 { return 103 * bytesPerMB }

	perf.StartTick()
	perf.StartPhase(telemetry.PhaseSpawn)
	perf.EndTick()

	sample := s.Sample()
	assert.InDelta(t, 3.0, sample.MemoryDeltaMB, 1e-9)
	assert.LessOrEqual(t, sample.FPS, 60.0+1e-9)
	assert.GreaterOrEqual(t, sample.FrameTimeMS, 1000.0/60-1e-9)
	assert.GreaterOrEqual(t, sample.CPUOverheadPct, 0.0)

	// Heap below the baseline never reports negative growth
	s.readMem = func() uint64 { return 50 * bytesPerMB }
	assert.Equal(t, 0.0, s.Sample().MemoryDeltaMB)
}

func TestRuntimeSampler_NeverReportsAboveTarget(t *testing.T) {
	for _, target := range []float64{60, 7, 144} {
		perf := telemetry.NewPerfCollector(4)
		perf.StartTick()
		perf.EndTick()

		sample := NewRuntimeSampler(perf, target).Sample()
		assert.LessOrEqual(t, sample.FPS, target, "target %v", target)
		assert.GreaterOrEqual(t, sample.FrameTimeMS, 1000/target, "target %v", target)
	}
}

func TestSyntheticSampler_ScalesWithPopulation(t *testing.T) {
	o := testOptions(t)
	sampler := NewSyntheticSampler(4, 0.5, 0.25, 60)
	o.Sampler = sampler
	g := NewGameWithOptions(o)

	empty := sampler.Sample()
	assert.InDelta(t, 4.0, empty.FrameTimeMS, 1e-9)
	assert.InDelta(t, 250.0, empty.FPS, 1e-9)

	runUntil(t, g, 60, func() bool { return g.Population().Total() > 0 })
	busy := sampler.Sample()
	assert.Greater(t, busy.FrameTimeMS, empty.FrameTimeMS)
	assert.Positive(t, busy.MemoryDeltaMB)
}
