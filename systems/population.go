package systems

import (
	"fmt"

	"github.com/pthm-cable/hive/components"
)

// Population holds the live-parasite counters. Every live parasite is
// counted exactly once in total, per kind, per location and per territory.
type Population struct {
	total       int
	byKind      [components.NumKinds]int
	byLocation  map[components.LocationID]int
	byTerritory map[components.TerritoryID]int
}

// NewPopulation creates empty counters.
func NewPopulation() *Population {
	return &Population{
		byLocation:  make(map[components.LocationID]int),
		byTerritory: make(map[components.TerritoryID]int),
	}
}

// Add counts a parasite that just became live.
func (p *Population) Add(par *components.Parasite) {
	p.total++
	if par.Kind.Valid() {
		p.byKind[par.Kind]++
	}
	p.byLocation[par.LocationID]++
	if par.TerritoryID != 0 {
		p.byTerritory[par.TerritoryID]++
	}
}

// Remove uncounts a parasite that just stopped being live.
func (p *Population) Remove(par *components.Parasite) {
	if p.total > 0 {
		p.total--
	}
	if par.Kind.Valid() && p.byKind[par.Kind] > 0 {
		p.byKind[par.Kind]--
	}
	if n := p.byLocation[par.LocationID]; n > 1 {
		p.byLocation[par.LocationID] = n - 1
	} else {
		delete(p.byLocation, par.LocationID)
	}
	if par.TerritoryID != 0 {
		// Territory counters may already have been reset by an eviction
		if n := p.byTerritory[par.TerritoryID]; n > 1 {
			p.byTerritory[par.TerritoryID] = n - 1
		} else {
			delete(p.byTerritory, par.TerritoryID)
		}
	}
}

// Total returns the number of live parasites.
func (p *Population) Total() int {
	return p.total
}

// Kind returns the number of live parasites of kind.
func (p *Population) Kind(k components.Kind) int {
	if !k.Valid() {
		return 0
	}
	return p.byKind[k]
}

// AtLocation returns the live count anchored at a location.
func (p *Population) AtLocation(id components.LocationID) int {
	return p.byLocation[id]
}

// InTerritory returns the live count credited to a territory.
func (p *Population) InTerritory(id components.TerritoryID) int {
	return p.byTerritory[id]
}

// ResetTerritory zeroes a territory counter.
func (p *Population) ResetTerritory(id components.TerritoryID) {
	delete(p.byTerritory, id)
}

// Check verifies that the per-kind counts sum to the total.
func (p *Population) Check() error {
	sum := 0
	for _, n := range p.byKind {
		sum += n
	}
	if sum != p.total {
		return fmt.Errorf("population: kind counts sum to %d, total is %d", sum, p.total)
	}
	return nil
}
