// Package components defines ECS components for the parasite swarm.
package components

// ParasiteID is the stable identity of a parasite. It survives death and
// respawn; only territory eviction retires it.
type ParasiteID uint32

// LocationID identifies a spawn location (deposit).
type LocationID uint32

// TerritoryID identifies a territory. Zero means "no territory".
type TerritoryID uint32

// ControllerID identifies a territory controller (queen). Zero means "none".
type ControllerID uint32

// Kind is the parasite type tag.
type Kind uint8

const (
	KindEnergy Kind = iota // Drains deposits and miners
	KindCombat             // Engages hostiles
	NumKinds
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k < NumKinds
}

// State is the abstract behavior state of a parasite.
type State uint8

const (
	StateSpawning State = iota
	StatePatrolling
	StateHunting
	StateFeeding
	StateReturning
)

// Parasite holds per-entity swarm data. Position lives in its own component.
type Parasite struct {
	ID   ParasiteID
	Kind Kind

	Health    float32
	MaxHealth float32
	Alive     bool
	Hidden    bool // true while waiting in the respawn queue

	LocationID      LocationID
	TerritoryID     TerritoryID
	TerritoryCenter Position
	TerritoryRadius float32 // 0 = not bound to a territory

	State     State
	StateTime float32 // seconds spent in the current state
	Heading   float32 // radians on the X/Z plane
}

// Live reports whether the parasite is alive and present in the world.
func (p *Parasite) Live() bool {
	return p.Alive && !p.Hidden
}

// SetState switches state and resets the state timer.
func (p *Parasite) SetState(s State) {
	if p.State == s {
		return
	}
	p.State = s
	p.StateTime = 0
}
