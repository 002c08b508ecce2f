package systems

import (
	"testing"

	"github.com/pthm-cable/hive/components"
)

func TestSpatialGrid_EntitiesInRange(t *testing.T) {
	g := NewSpatialGrid(10)
	g.Add(1, at(0, 0), TagEnergy)
	g.Add(2, at(5, 5), TagCombat)
	g.Add(3, at(25, 0), TagEnergy)
	g.Add(4, at(-9, -9), TagEnergy)

	tests := []struct {
		name   string
		center components.Position
		radius float32
		tag    Tag
		want   []components.ParasiteID
	}{
		{"all near origin", at(0, 0), 15, TagAny, []components.ParasiteID{1, 2, 4}},
		{"energy only", at(0, 0), 15, TagEnergy, []components.ParasiteID{1, 4}},
		{"combat only", at(0, 0), 15, TagCombat, []components.ParasiteID{2}},
		{"crosses cells", at(20, 0), 6, TagAny, []components.ParasiteID{3}},
		{"boundary inclusive", at(0, 0), 25, TagEnergy, []components.ParasiteID{1, 3, 4}},
		{"nothing", at(100, 100), 5, TagAny, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.EntitiesInRange(tt.center, tt.radius, tt.tag)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestSpatialGrid_UpdateAndRemove(t *testing.T) {
	g := NewSpatialGrid(10)
	g.Add(1, at(0, 0), TagEnergy)
	g.Add(2, at(1, 1), TagEnergy)

	g.UpdatePosition(1, at(95, 95))
	if got := g.EntitiesInRange(at(0, 0), 5, TagAny); len(got) != 1 || got[0] != 2 {
		t.Fatalf("after move near origin: %v", got)
	}
	if got := g.EntitiesInRange(at(95, 95), 1, TagEnergy); len(got) != 1 || got[0] != 1 {
		t.Fatalf("after move at target: %v, tag must survive the move", got)
	}

	g.Remove(1)
	g.Remove(1) // no-op
	g.UpdatePosition(1, at(0, 0))
	if g.Has(1) || g.Len() != 1 {
		t.Fatalf("remove: has=%v len=%d", g.Has(1), g.Len())
	}

	// Re-adding moves rather than duplicates
	g.Add(2, at(50, 50), TagCombat)
	if g.Len() != 1 {
		t.Fatalf("re-add duplicated: len=%d", g.Len())
	}

	g.Clear()
	if g.Len() != 0 {
		t.Fatalf("clear: len=%d", g.Len())
	}
}
