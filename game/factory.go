package game

import (
	"math"

	"github.com/pthm-cable/hive/components"
	"github.com/pthm-cable/hive/systems"
)

// territoryRadiusFraction sizes territories relative to the world extent.
const territoryRadiusFraction = 0.25

// createLocations scatters n spawn locations over the world. Locations start
// without miners and are marked visible by the camera each tick.
func (g *Game) createLocations(n int) {
	extent := float32(g.cfg.World.Extent)
	for i := 0; i < n; i++ {
		x := (g.rng.Float32()*2 - 1) * extent * 0.9
		z := (g.rng.Float32()*2 - 1) * extent * 0.9
		g.AddLocation(components.Position{X: x, Z: z})
	}
}

// AddLocation registers a spawn location and returns its id.
func (g *Game) AddLocation(pos components.Position) components.LocationID {
	id := components.LocationID(len(g.locations) + 1)
	g.locations = append(g.locations, components.Location{
		ID:       id,
		Position: pos,
		Visible:  g.allVisible,
	})
	return id
}

// createTerritories places n owned territories evenly on a ring around the
// origin, each with its own active queen. Strategy weights alternate between
// energy-heavy and combat-heavy.
func (g *Game) createTerritories(n int) {
	if n <= 0 {
		return
	}
	extent := float64(g.cfg.World.Extent)
	ring := extent * 0.5
	radius := float32(extent * territoryRadiusFraction)

	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		center := components.Position{
			X: float32(ring * math.Cos(a)),
			Z: float32(ring * math.Sin(a)),
		}
		strategy := [components.NumKinds]float64{0.8, 0.2}
		if i%2 == 1 {
			strategy = [components.NumKinds]float64{0.3, 0.7}
		}
		g.AddTerritory(center, radius, strategy)
	}
}

// AddTerritory registers an owned territory with a fresh active queen and
// returns the territory.
func (g *Game) AddTerritory(center components.Position, radius float32, strategy [components.NumKinds]float64) *systems.Territory {
	id := components.TerritoryID(len(g.ledger.Territories()) + 1)
	queen := systems.NewQueen(components.ControllerID(id), id)
	t := &systems.Territory{
		ID:           id,
		Center:       center,
		Radius:       radius,
		Status:       systems.TerritoryOwned,
		ControllerID: queen.ID(),
		Strategy:     strategy,
	}
	g.ledger.AddController(queen)
	g.ledger.AddTerritory(t)
	return t
}
