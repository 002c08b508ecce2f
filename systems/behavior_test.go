package systems

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/hive/components"
)

func newTestBehavior(h *harness) *BehaviorSystem {
	return NewBehaviorSystem(h.cfg, h.store, &h.profiles, Collaborators{Spatial: h.grid}, rand.New(rand.NewSource(1)))
}

func TestBehavior_SpawningThenPatrolling(t *testing.T) {
	h := newHarness(t)
	b := newTestBehavior(h)
	id := h.place(t, components.KindEnergy, at(0, 0), 1)
	locs := []components.Location{{ID: 1, Position: at(0, 0), Visible: true}}

	dt := h.cfg.Derived.DT32
	ticks := int(h.cfg.Behavior.SpawnInDuration/h.cfg.World.DT) + 2
	var rep BehaviorReport
	for i := 0; i < ticks; i++ {
		rep = b.Update(dt, locs)
	}

	_, par, _ := h.store.Get(id)
	assert.Equal(t, components.StatePatrolling, par.State)
	assert.Equal(t, 1, rep.Updated)
	assert.Equal(t, 1, rep.ByState[components.StatePatrolling])
}

func TestBehavior_HuntsAndFeedsOnMiners(t *testing.T) {
	h := newHarness(t)
	b := newTestBehavior(h)
	energy := h.place(t, components.KindEnergy, at(5, 0), 1)
	combat := h.place(t, components.KindCombat, at(-5, 0), 1)
	for _, id := range []components.ParasiteID{energy, combat} {
		_, par, _ := h.store.Get(id)
		par.SetState(components.StatePatrolling)
	}
	locs := []components.Location{{ID: 1, Position: at(0, 0), Visible: true, MinerPresent: true}}

	var drained float64
	for i := 0; i < 200; i++ {
		drained += b.Update(h.cfg.Derived.DT32, locs).Drained
	}

	p, par, _ := h.store.Get(energy)
	assert.Equal(t, components.StateFeeding, par.State)
	assert.LessOrEqual(t, p.DistXZ(at(0, 0)), float32(feedRange))
	assert.Greater(t, drained, 0.0)

	// Combat parasites have no drain and keep engaging
	_, par, _ = h.store.Get(combat)
	assert.Equal(t, components.StateHunting, par.State)

	got := h.grid.EntitiesInRange(at(0, 0), feedRange, TagEnergy)
	assert.Equal(t, []components.ParasiteID{energy}, got, "spatial index follows movement")
}

func TestBehavior_ReturnsWhenMinerLeaves(t *testing.T) {
	h := newHarness(t)
	b := newTestBehavior(h)
	id := h.place(t, components.KindEnergy, at(1, 0), 1)
	_, par, _ := h.store.Get(id)
	par.SetState(components.StateFeeding)

	b.Update(h.cfg.Derived.DT32, []components.Location{{ID: 1, Position: at(0, 0), Visible: true}})
	_, par, _ = h.store.Get(id)
	assert.Equal(t, components.StateReturning, par.State)
}

func TestBehavior_StrideFromDegradation(t *testing.T) {
	h := newHarness(t)
	b := newTestBehavior(h)
	h.place(t, components.KindEnergy, at(0, 0), 1)

	b.ApplyDegradation(2, LevelActions{UpdateStride: 3})
	require.Equal(t, 3, b.Stride())

	ran := 0
	for i := 0; i < 9; i++ {
		if b.Update(h.cfg.Derived.DT32, nil).Ran {
			ran++
		}
	}
	assert.Equal(t, 3, ran)

	b.ApplyDegradation(0, LevelActions{UpdateStride: 0})
	assert.Equal(t, 1, b.Stride())
}

func TestBehavior_SkipsHiddenParasites(t *testing.T) {
	h := newHarness(t)
	b := newTestBehavior(h)
	id := h.place(t, components.KindEnergy, at(0, 0), 1)
	h.respawns.Enqueue(id, at(0, 0), 0)

	rep := b.Update(h.cfg.Derived.DT32, nil)
	assert.Equal(t, 0, rep.Updated)
}
