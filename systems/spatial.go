// Package systems provides the spawn, budget, respawn, territory and governor
// systems of the parasite swarm.
package systems

import (
	"math"
	"sort"

	"github.com/pthm-cable/hive/components"
)

type cellKey struct {
	col, row int32
}

type gridEntry struct {
	id  components.ParasiteID
	pos components.Position
	tag Tag
}

// SpatialGrid provides neighbor lookups using a hashed cell grid on the X/Z
// plane. The world is unbounded; only occupied cells are stored.
type SpatialGrid struct {
	cellSize float32
	cells    map[cellKey][]gridEntry
	where    map[components.ParasiteID]cellKey
}

// NewSpatialGrid creates a spatial grid with the given cell size.
func NewSpatialGrid(cellSize float32) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = 16
	}
	return &SpatialGrid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]gridEntry),
		where:    make(map[components.ParasiteID]cellKey),
	}
}

// Clear removes all entries from the grid.
func (g *SpatialGrid) Clear() {
	clear(g.cells)
	clear(g.where)
}

// Len returns the number of indexed entries.
func (g *SpatialGrid) Len() int {
	return len(g.where)
}

// Has reports whether id is indexed.
func (g *SpatialGrid) Has(id components.ParasiteID) bool {
	_, ok := g.where[id]
	return ok
}

// Add inserts id at pos. Re-adding an indexed id moves it.
func (g *SpatialGrid) Add(id components.ParasiteID, pos components.Position, tag Tag) {
	if _, ok := g.where[id]; ok {
		g.Remove(id)
	}
	key := g.keyFor(pos)
	g.cells[key] = append(g.cells[key], gridEntry{id: id, pos: pos, tag: tag})
	g.where[id] = key
}

// Remove deletes id from the grid. Unknown ids are ignored.
func (g *SpatialGrid) Remove(id components.ParasiteID) {
	key, ok := g.where[id]
	if !ok {
		return
	}
	delete(g.where, id)

	entries := g.cells[key]
	for i := range entries {
		if entries[i].id == id {
			// Swap-remove
			last := len(entries) - 1
			entries[i] = entries[last]
			entries = entries[:last]
			break
		}
	}
	if len(entries) == 0 {
		delete(g.cells, key)
	} else {
		g.cells[key] = entries
	}
}

// UpdatePosition moves an indexed id. Unknown ids are ignored.
func (g *SpatialGrid) UpdatePosition(id components.ParasiteID, pos components.Position) {
	key, ok := g.where[id]
	if !ok {
		return
	}
	newKey := g.keyFor(pos)
	entries := g.cells[key]
	for i := range entries {
		if entries[i].id != id {
			continue
		}
		if newKey == key {
			entries[i].pos = pos
			return
		}
		tag := entries[i].tag
		g.Remove(id)
		g.cells[newKey] = append(g.cells[newKey], gridEntry{id: id, pos: pos, tag: tag})
		g.where[id] = newKey
		return
	}
}

// EntitiesInRange returns the ids within radius of pos on the X/Z plane,
// filtered by tag (TagAny matches all), sorted by id.
func (g *SpatialGrid) EntitiesInRange(pos components.Position, radius float32, tag Tag) []components.ParasiteID {
	if radius < 0 {
		return nil
	}
	cellRadius := int32(radius/g.cellSize) + 1
	center := g.keyFor(pos)
	radiusSq := radius * radius

	var result []components.ParasiteID
	for dc := -cellRadius; dc <= cellRadius; dc++ {
		for dr := -cellRadius; dr <= cellRadius; dr++ {
			key := cellKey{col: center.col + dc, row: center.row + dr}
			for _, e := range g.cells[key] {
				if tag != TagAny && e.tag != tag {
					continue
				}
				if pos.DistSqXZ(e.pos) <= radiusSq {
					result = append(result, e.id)
				}
			}
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// keyFor returns the cell containing a world position.
func (g *SpatialGrid) keyFor(pos components.Position) cellKey {
	return cellKey{
		col: int32(math.Floor(float64(pos.X / g.cellSize))),
		row: int32(math.Floor(float64(pos.Z / g.cellSize))),
	}
}
