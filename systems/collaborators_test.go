package systems_test

import (
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/pthm-cable/hive/components"
	"github.com/pthm-cable/hive/config"
	"github.com/pthm-cable/hive/systems"
	systemsmock "github.com/pthm-cable/hive/systems/mock"
)

func TestGovernor_SamplesOncePerInterval(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := config.Default()
	sampler := systemsmock.NewMockFrameSampler(ctrl)
	sub := systemsmock.NewMockDegradable(ctrl)
	actions := systems.LevelActionsFromConfig(cfg)

	g := systems.NewGovernorFromConfig(cfg, sampler)

	gomock.InOrder(
		sub.EXPECT().ApplyDegradation(0, actions[0]),
		sub.EXPECT().ApplyDegradation(2, actions[2]),
	)
	g.Subscribe(sub)

	sampler.EXPECT().Sample().Return(systems.PerformanceSample{FPS: 60})
	sampler.EXPECT().Sample().Return(systems.PerformanceSample{FPS: 40})

	assert.False(t, g.Update(0))
	assert.False(t, g.Update(0.5), "within the sample interval")
	assert.True(t, g.Update(1.0))
	assert.Equal(t, 2, g.Level())

	last, ok := g.Last()
	require.True(t, ok)
	assert.Equal(t, 1.0, last.Time)
}

func TestRespawn_RendererCalls(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := config.Default()
	renderer := systemsmock.NewMockRenderer(ctrl)
	collab := systems.Collaborators{
		Spatial:  systems.NewSpatialGrid(16),
		Renderer: renderer,
	}

	store := systems.NewStore(ecs.NewWorld())
	pop := systems.NewPopulation()
	profiles := components.ProfilesFromConfig(cfg)
	rng := rand.New(rand.NewSource(3))
	queue := systems.NewRespawnQueueFromConfig(cfg, store, pop, nil, &profiles, collab, rng)
	factory := systems.NewFactory(store, &profiles)

	id, err := factory.Create(components.KindEnergy, components.Position{}, 1, 0)
	require.NoError(t, err)
	_, par, _ := store.Get(id)
	pop.Add(par)

	gomock.InOrder(
		renderer.EXPECT().SetVisible(id, false),
		renderer.EXPECT().SetPosition(id, gomock.Any()),
		renderer.EXPECT().SetVisible(id, true),
	)

	require.True(t, queue.Enqueue(id, components.Position{}, 0))
	assert.Equal(t, 1, queue.Update(cfg.Respawn.Delay))
}

func TestFactory_UnknownKind(t *testing.T) {
	store := systems.NewStore(ecs.NewWorld())
	profiles := components.ProfilesFromConfig(config.Default())
	factory := systems.NewFactory(store, &profiles)

	_, err := factory.Create(components.NumKinds, components.Position{}, 1, 0)
	require.ErrorIs(t, err, systems.ErrUnknownKind)
	assert.Equal(t, 0, store.Len())
}
