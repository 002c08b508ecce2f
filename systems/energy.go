package systems

import (
	"log/slog"
	"math"

	"github.com/pthm-cable/hive/components"
	"github.com/pthm-cable/hive/config"
)

// EnergyListener receives budget notifications. Either field may be nil.
type EnergyListener struct {
	// Changed fires when the integer part of the budget changes.
	Changed func(current float64)
	// Denied fires when a spawn cannot be paid for.
	Denied func(kind components.Kind, required, available float64)
}

// EnergyBudget is a regenerating, capped pool that pays for controller-driven
// spawns. The value always stays within [0, max].
type EnergyBudget struct {
	current       float64
	max           float64
	regenRate     float64
	maxAffordable float64
	costs         [components.NumKinds]float64

	denials   int
	lastFloor float64
	listener  EnergyListener
}

// NewEnergyBudget creates a budget. initial is clamped to [0, max].
func NewEnergyBudget(max, regenRate, initial, maxAffordable float64, costs []float64) *EnergyBudget {
	if max < 0 {
		max = 0
	}
	if maxAffordable <= 0 {
		maxAffordable = 1
	}
	b := &EnergyBudget{
		max:           max,
		regenRate:     regenRate,
		maxAffordable: maxAffordable,
	}
	for k := 0; k < int(components.NumKinds) && k < len(costs); k++ {
		b.costs[k] = costs[k]
	}
	b.SetCurrent(initial)
	return b
}

// NewEnergyBudgetFromConfig creates a budget from the energy config.
func NewEnergyBudgetFromConfig(cfg *config.Config) *EnergyBudget {
	e := cfg.Energy
	return NewEnergyBudget(e.Max, e.RegenRate, e.Initial, e.MaxAffordable, cfg.Derived.Costs)
}

// SetListener installs notification callbacks.
func (b *EnergyBudget) SetListener(l EnergyListener) {
	b.listener = l
}

// Update regenerates the pool by regenRate*dt, capped at max.
func (b *EnergyBudget) Update(dt float64) {
	if dt <= 0 || b.regenRate == 0 {
		return
	}
	b.set(math.Min(b.max, b.current+b.regenRate*dt))
}

// CanAfford reports whether kind could be paid for right now.
func (b *EnergyBudget) CanAfford(kind components.Kind) bool {
	if !kind.Valid() {
		return false
	}
	return b.current >= b.costs[kind]
}

// ConsumeForSpawn pays for one spawn of kind. On insufficient funds nothing
// is deducted, the denial counter is incremented and Denied fires.
func (b *EnergyBudget) ConsumeForSpawn(kind components.Kind) bool {
	if !kind.Valid() {
		return false
	}
	cost := b.costs[kind]
	if b.current < cost {
		b.denials++
		slog.Debug("spawn_denied",
			"kind", kind.String(),
			"required", cost,
			"available", b.current,
		)
		if b.listener.Denied != nil {
			b.listener.Denied(kind, cost, b.current)
		}
		return false
	}
	b.set(b.current - cost)
	return true
}

// SpawnCapacity returns floor(current/cost)/maxAffordable clamped to [0, 1].
// It is an observation signal only; ConsumeForSpawn is the gate.
func (b *EnergyBudget) SpawnCapacity(kind components.Kind) float64 {
	if !kind.Valid() {
		return 0
	}
	cost := b.costs[kind]
	if cost <= 0 {
		return 1
	}
	return clamp01(math.Floor(b.current/cost) / b.maxAffordable)
}

// SetCurrent sets the pool value, clamped to [0, max].
func (b *EnergyBudget) SetCurrent(v float64) {
	b.set(math.Max(0, math.Min(b.max, v)))
}

// Current returns the pool value.
func (b *EnergyBudget) Current() float64 { return b.current }

// Max returns the pool capacity.
func (b *EnergyBudget) Max() float64 { return b.max }

// Cost returns the spawn cost of kind.
func (b *EnergyBudget) Cost(kind components.Kind) float64 {
	if !kind.Valid() {
		return 0
	}
	return b.costs[kind]
}

// Denials returns how many spawns were refused for lack of energy.
func (b *EnergyBudget) Denials() int { return b.denials }

// set stores v and fires Changed when the integer part moves.
func (b *EnergyBudget) set(v float64) {
	b.current = v
	floor := math.Floor(v)
	if floor == b.lastFloor {
		return
	}
	b.lastFloor = floor
	if b.listener.Changed != nil {
		b.listener.Changed(v)
	}
}
