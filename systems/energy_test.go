package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/hive/components"
)

func TestEnergy_ConsumeAndDeny(t *testing.T) {
	b := NewEnergyBudget(100, 10, 50, 10, []float64{8, 15})

	var denied []float64
	b.SetListener(EnergyListener{
		Denied: func(kind components.Kind, required, available float64) {
			require.Equal(t, components.KindCombat, kind)
			denied = append(denied, required, available)
		},
	})

	require.True(t, b.ConsumeForSpawn(components.KindEnergy))
	assert.Equal(t, 42.0, b.Current())

	b.SetCurrent(5)
	require.False(t, b.ConsumeForSpawn(components.KindCombat))
	assert.Equal(t, 5.0, b.Current())
	assert.Equal(t, 1, b.Denials())
	assert.Equal(t, []float64{15, 5}, denied)
}

func TestEnergy_CanAffordIsPure(t *testing.T) {
	b := NewEnergyBudget(100, 10, 10, 10, []float64{8, 15})
	for i := 0; i < 3; i++ {
		assert.True(t, b.CanAfford(components.KindEnergy))
		assert.False(t, b.CanAfford(components.KindCombat))
	}
	assert.Equal(t, 10.0, b.Current())
	assert.Equal(t, 0, b.Denials())
	assert.False(t, b.CanAfford(components.NumKinds))
}

func TestEnergy_StaysInBounds(t *testing.T) {
	b := NewEnergyBudget(100, 10, 500, 10, []float64{8, 15})
	assert.Equal(t, 100.0, b.Current(), "initial clamps to max")

	for i := 0; i < 50; i++ {
		b.ConsumeForSpawn(components.KindCombat)
		assert.GreaterOrEqual(t, b.Current(), 0.0)
		b.Update(0.7)
		assert.LessOrEqual(t, b.Current(), b.Max())
	}

	b.SetCurrent(-3)
	assert.Equal(t, 0.0, b.Current())
	b.SetCurrent(1e6)
	assert.Equal(t, 100.0, b.Current())
}

func TestEnergy_ChangedOnlyOnIntegerStep(t *testing.T) {
	b := NewEnergyBudget(100, 10, 42.2, 10, []float64{8, 15})

	var calls int
	b.SetListener(EnergyListener{Changed: func(float64) { calls++ }})

	b.Update(0.05) // 42.7
	assert.Equal(t, 0, calls)
	b.Update(0.05) // 43.2
	assert.Equal(t, 1, calls)
	b.Update(0.01) // 43.3
	assert.Equal(t, 1, calls)
}

func TestEnergy_SpawnCapacity(t *testing.T) {
	b := NewEnergyBudget(200, 0, 42, 10, []float64{8, 15})
	assert.InDelta(t, 0.5, b.SpawnCapacity(components.KindEnergy), 1e-9)
	assert.InDelta(t, 0.2, b.SpawnCapacity(components.KindCombat), 1e-9)

	b.SetCurrent(200)
	assert.Equal(t, 1.0, b.SpawnCapacity(components.KindEnergy), "clamped")

	// The signal is informational; only ConsumeForSpawn mutates.
	assert.Equal(t, 200.0, b.Current())
}
