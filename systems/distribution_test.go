package systems

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/hive/components"
)

func TestDistribution_Converges(t *testing.T) {
	for _, n := range []int{200, 333, 1000} {
		d := NewDistributionTracker([]float64{0.75, 0.25}, 0.1)
		for i := 0; i < n; i++ {
			d.RecordSpawn(d.NextKind(), 0)
		}

		stats := d.Stats()
		require.Equal(t, n, stats.Total)
		assert.True(t, stats.Accurate, "n=%d stats=%+v", n, stats)
		assert.LessOrEqual(t, math.Abs(stats.Ratios[components.KindEnergy]-0.75), 0.1)
		assert.LessOrEqual(t, math.Abs(stats.Ratios[components.KindCombat]-0.25), 0.1)
	}
}

func TestDistribution_ShortSequenceIsDeterministic(t *testing.T) {
	d := NewDistributionTracker([]float64{3, 1}, 0.1) // normalized to 0.75/0.25

	want := []components.Kind{
		components.KindEnergy,
		components.KindEnergy, // tie broken toward energy
		components.KindCombat,
		components.KindEnergy,
	}
	for i, k := range want {
		got := d.NextKind()
		require.Equal(t, k, got, "spawn %d", i)
		d.RecordSpawn(got, 0)
	}

	stats := d.Stats()
	assert.Equal(t, [components.NumKinds]int{3, 1}, stats.Counts)
	assert.InDelta(t, 0.75, stats.Targets[components.KindEnergy], 1e-9)
	assert.True(t, stats.Accurate)
}

func TestDistribution_EmptyIsNotAccurate(t *testing.T) {
	d := NewDistributionTracker([]float64{0.5, 0.5}, 0.1)
	assert.False(t, d.Stats().Accurate)
	assert.Equal(t, components.KindEnergy, d.NextKind())
}

func TestDistribution_ScopesAndReset(t *testing.T) {
	d := NewDistributionTracker([]float64{0.75, 0.25}, 0.1)
	d.RecordSpawn(components.KindEnergy, 4)
	d.RecordSpawn(components.KindCombat, 4)
	d.RecordSpawn(components.KindCombat, 0)
	d.RecordSpawn(components.NumKinds, 4) // ignored

	assert.Equal(t, [components.NumKinds]int{1, 1}, d.ScopeCounts(4))
	assert.Equal(t, [components.NumKinds]int{}, d.ScopeCounts(9))
	assert.Equal(t, 3, d.Stats().Total)

	d.Reset()
	assert.Equal(t, 0, d.Stats().Total)
	assert.Equal(t, [components.NumKinds]int{}, d.ScopeCounts(4))
}
