package systems

//go:generate mockgen -destination=mock/mock_collaborators.go -package=systemsmock github.com/pthm-cable/hive/systems Renderer,Degradable,FrameSampler

import "github.com/pthm-cable/hive/components"

// Tag partitions the spatial index. Parasites are indexed under their kind.
type Tag uint8

const (
	TagEnergy Tag = Tag(components.KindEnergy)
	TagCombat Tag = Tag(components.KindCombat)
	TagAny    Tag = 255 // query-only: match every tag
)

// TagFor returns the spatial tag for a parasite kind.
func TagFor(kind components.Kind) Tag {
	return Tag(kind)
}

// SpatialIndex is the neighbor lookup the swarm keeps in sync with live parasites.
type SpatialIndex interface {
	Add(id components.ParasiteID, pos components.Position, tag Tag)
	Remove(id components.ParasiteID)
	UpdatePosition(id components.ParasiteID, pos components.Position)
	EntitiesInRange(pos components.Position, radius float32, tag Tag) []components.ParasiteID
}

// Renderer owns the visual representation of parasites. The core never
// builds geometry; it only asks the renderer to create, move, and toggle.
type Renderer interface {
	Create(id components.ParasiteID, kind components.Kind, pos components.Position)
	Destroy(id components.ParasiteID)
	SetVisible(id components.ParasiteID, visible bool)
	SetPosition(id components.ParasiteID, pos components.Position)
	SetDetail(level int, cosmetic bool)
}

// NopRenderer is used when no renderer is wired (headless runs).
type NopRenderer struct{}

func (NopRenderer) Create(components.ParasiteID, components.Kind, components.Position) {}
func (NopRenderer) Destroy(components.ParasiteID)                                   {}
func (NopRenderer) SetVisible(components.ParasiteID, bool)                          {}
func (NopRenderer) SetPosition(components.ParasiteID, components.Position)          {}
func (NopRenderer) SetDetail(int, bool)                                             {}

// Terrain supplies ground height. Optional.
type Terrain interface {
	HeightAt(x, z float32) float32
}

// Viewpoint supplies the current look-at point, used only to prioritize
// spawn locations. Optional.
type Viewpoint interface {
	LookAt() components.Position
}

// Controller owns the parasites inside its territory.
type Controller interface {
	ID() components.ControllerID
	AddControlledEntity(id components.ParasiteID)
	RemoveControlledEntity(id components.ParasiteID)
	Controls(id components.ParasiteID) bool
	ControlledEntities() []components.ParasiteID
	IsActive() bool
	IsVulnerable() bool
	SetActive(active bool)
}

// Degradable is implemented by every component the governor throttles.
// The governor calls it synchronously on each level change.
type Degradable interface {
	ApplyDegradation(level int, actions LevelActions)
}

// Collaborators bundles the external services a system is constructed with.
// Every field is optional; nil degrades to a slower or no-op path.
type Collaborators struct {
	Spatial   SpatialIndex
	Renderer  Renderer
	Terrain   Terrain
	Viewpoint Viewpoint
}

// renderer returns the configured renderer or a no-op.
func (c Collaborators) renderer() Renderer {
	if c.Renderer == nil {
		return NopRenderer{}
	}
	return c.Renderer
}
