package components

import "github.com/pthm-cable/hive/config"

// KindProfile holds the data-driven behavior parameters for one kind.
// Per-kind differences live here rather than in separate entity types.
type KindProfile struct {
	MaxHealth    float32
	Speed        float32 // world units per second
	DrainRate    float32 // energy drained per second while feeding
	AggroRadius  float32 // distance at which a miner is noticed
	PatrolRadius float32 // leash radius around the anchor when not territorial
	Lifecycle    Lifecycle
}

// ProfileFromConfig returns the profile for kind from the loaded config.
func ProfileFromConfig(cfg *config.Config, kind Kind) KindProfile {
	var kc config.KindConfig
	switch kind {
	case KindEnergy:
		kc = cfg.Kinds.Energy
	case KindCombat:
		kc = cfg.Kinds.Combat
	}
	return KindProfile{
		MaxHealth:    float32(kc.MaxHealth),
		Speed:        float32(kc.Speed),
		DrainRate:    float32(kc.DrainRate),
		AggroRadius:  float32(kc.AggroRadius),
		PatrolRadius: float32(kc.PatrolRadius),
		Lifecycle:    NopLifecycle{},
	}
}

// Profiles is the per-kind profile table, indexed by Kind.
type Profiles [NumKinds]KindProfile

// ProfilesFromConfig builds the full profile table.
func ProfilesFromConfig(cfg *config.Config) Profiles {
	var p Profiles
	for k := Kind(0); k < NumKinds; k++ {
		p[k] = ProfileFromConfig(cfg, k)
	}
	return p
}

// Hooks returns the lifecycle hooks for kind, never nil.
func (p *Profiles) Hooks(kind Kind) Lifecycle {
	if !kind.Valid() || p[kind].Lifecycle == nil {
		return NopLifecycle{}
	}
	return p[kind].Lifecycle
}

// Lifecycle is the optional per-kind capability set invoked at lifecycle
// edges. Every kind carries one; NopLifecycle is the default.
type Lifecycle interface {
	OnSpawn(p *Parasite, pos Position)
	OnDeath(p *Parasite, pos Position)
	OnRespawn(p *Parasite, pos Position)
	OnEvict(p *Parasite, pos Position)
}

// NopLifecycle implements Lifecycle with no-ops.
type NopLifecycle struct{}

func (NopLifecycle) OnSpawn(*Parasite, Position)   {}
func (NopLifecycle) OnDeath(*Parasite, Position)   {}
func (NopLifecycle) OnRespawn(*Parasite, Position) {}
func (NopLifecycle) OnEvict(*Parasite, Position)   {}
