// Package telemetry provides swarm health tracking, bookmarking, and CSV output.
package telemetry

import "github.com/pthm-cable/hive/components"

// EventType identifies telemetry events.
type EventType uint8

const (
	EventSpawn EventType = iota
	EventDeath
	EventRespawn
	EventEvict
	EventDenied
	EventLevelChange
)

// String returns the snake_case name used in logs.
func (t EventType) String() string {
	switch t {
	case EventSpawn:
		return "spawn"
	case EventDeath:
		return "death"
	case EventRespawn:
		return "respawn"
	case EventEvict:
		return "evict"
	case EventDenied:
		return "denied"
	case EventLevelChange:
		return "level_change"
	}
	return "unknown"
}

// Event represents a single telemetry event.
type Event struct {
	Type     EventType
	Tick     int32
	EntityID components.ParasiteID
	Kind     components.Kind

	// Optional fields depending on event type
	Location components.LocationID // spawn location
	Amount   float32               // energy required (denied) or new level (level change)
}

// NewSpawnEvent creates a spawn event.
func NewSpawnEvent(tick int32, id components.ParasiteID, kind components.Kind, loc components.LocationID) Event {
	return Event{
		Type:     EventSpawn,
		Tick:     tick,
		EntityID: id,
		Kind:     kind,
		Location: loc,
	}
}

// NewDeathEvent creates a death event.
func NewDeathEvent(tick int32, id components.ParasiteID, kind components.Kind) Event {
	return Event{
		Type:     EventDeath,
		Tick:     tick,
		EntityID: id,
		Kind:     kind,
	}
}

// NewRespawnEvent creates a respawn event.
func NewRespawnEvent(tick int32, id components.ParasiteID, kind components.Kind) Event {
	return Event{
		Type:     EventRespawn,
		Tick:     tick,
		EntityID: id,
		Kind:     kind,
	}
}

// NewEvictEvent creates an eviction event (territory explosion).
func NewEvictEvent(tick int32, id components.ParasiteID, kind components.Kind) Event {
	return Event{
		Type:     EventEvict,
		Tick:     tick,
		EntityID: id,
		Kind:     kind,
	}
}

// NewDeniedEvent creates an energy denial event.
func NewDeniedEvent(tick int32, kind components.Kind, required float32) Event {
	return Event{
		Type:   EventDenied,
		Tick:   tick,
		Kind:   kind,
		Amount: required,
	}
}

// NewLevelChangeEvent creates a degradation level change event.
func NewLevelChangeEvent(tick int32, level int) Event {
	return Event{
		Type:   EventLevelChange,
		Tick:   tick,
		Amount: float32(level),
	}
}
