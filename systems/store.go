package systems

import (
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/hive/components"
)

// Store is the parasite entity registry, backed by an ark ECS world.
// It maps stable ParasiteIDs to ECS entities.
type Store struct {
	world  *ecs.World
	mapper *ecs.Map2[components.Position, components.Parasite]
	filter *ecs.Filter2[components.Position, components.Parasite]
	posMap *ecs.Map[components.Position]
	parMap *ecs.Map[components.Parasite]

	byID   map[components.ParasiteID]ecs.Entity
	nextID components.ParasiteID
}

// NewStore creates a store on the given world.
func NewStore(w *ecs.World) *Store {
	return &Store{
		world:  w,
		mapper: ecs.NewMap2[components.Position, components.Parasite](w),
		filter: ecs.NewFilter2[components.Position, components.Parasite](w),
		posMap: ecs.NewMap[components.Position](w),
		parMap: ecs.NewMap[components.Parasite](w),
		byID:   make(map[components.ParasiteID]ecs.Entity),
		nextID: 1,
	}
}

// Create adds a parasite and returns its newly assigned ID.
// Any ID already set on par is overwritten.
func (s *Store) Create(pos components.Position, par components.Parasite) components.ParasiteID {
	id := s.nextID
	s.nextID++
	par.ID = id

	e := s.mapper.NewEntity(&pos, &par)
	s.byID[id] = e
	return id
}

// Get returns the components of a parasite. The pointers are valid until
// the next structural change to the world.
func (s *Store) Get(id components.ParasiteID) (*components.Position, *components.Parasite, bool) {
	e, ok := s.byID[id]
	if !ok || !s.world.Alive(e) {
		return nil, nil, false
	}
	return s.posMap.Get(e), s.parMap.Get(e), true
}

// Has reports whether the ID is present (alive, dead or hidden).
func (s *Store) Has(id components.ParasiteID) bool {
	_, ok := s.byID[id]
	return ok
}

// Dispose permanently removes a parasite. Must not be called while iterating.
func (s *Store) Dispose(id components.ParasiteID) bool {
	e, ok := s.byID[id]
	if !ok {
		return false
	}
	delete(s.byID, id)
	if s.world.Alive(e) {
		s.world.RemoveEntity(e)
	}
	return true
}

// Len returns the number of parasites held, including hidden ones.
func (s *Store) Len() int {
	return len(s.byID)
}

// Each calls fn for every parasite. fn must not create or dispose parasites.
func (s *Store) Each(fn func(pos *components.Position, par *components.Parasite)) {
	query := s.filter.Query()
	for query.Next() {
		pos, par := query.Get()
		fn(pos, par)
	}
}

// LiveIDs returns the IDs of all live (alive and visible) parasites in ID order.
func (s *Store) LiveIDs() []components.ParasiteID {
	ids := make([]components.ParasiteID, 0, len(s.byID))
	s.Each(func(_ *components.Position, par *components.Parasite) {
		if par.Live() {
			ids = append(ids, par.ID)
		}
	})
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
