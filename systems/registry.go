package systems

// SystemInfo describes a swarm system for logs and perf output.
type SystemInfo struct {
	ID          string // Internal identifier (used for perf tracking)
	Name        string // Display name
	Description string // What this system does
	Category    string // Grouping (e.g., "core", "control", "internal")
	Essential   bool   // Keeps running at the highest degradation level
}

// SystemRegistry holds metadata about all systems.
// This centralizes system naming so the perf tracker and logs stay in sync.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with all known systems.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds all known systems in tick order.
// Update this when adding new systems.
func (r *SystemRegistry) registerDefaults() {
	r.Register(SystemInfo{ID: "behavior", Name: "Behavior", Description: "Moves live parasites through their states", Category: "core", Essential: true})
	r.Register(SystemInfo{ID: "energy", Name: "Energy", Description: "Regenerates the spawn budget", Category: "core", Essential: true})
	r.Register(SystemInfo{ID: "spawn", Name: "Spawn", Description: "Evaluates locations and spawns parasites", Category: "core", Essential: true})
	r.Register(SystemInfo{ID: "respawn", Name: "Respawn", Description: "Resurrects queued parasites", Category: "core", Essential: true})
	r.Register(SystemInfo{ID: "governor", Name: "Governor", Description: "Samples frame cost and sets the degradation level", Category: "control", Essential: true})
	r.Register(SystemInfo{ID: "territory", Name: "Territory", Description: "Reconciles controller ownership", Category: "control"})
	r.Register(SystemInfo{ID: "telemetry", Name: "Telemetry", Description: "Collects window stats", Category: "internal"})
}

// Register adds a system to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	if _, ok := r.byID[info.ID]; ok {
		for i := range r.systems {
			if r.systems[i].ID == info.ID {
				r.systems[i] = info
			}
		}
	} else {
		r.systems = append(r.systems, info)
	}
	r.byID[info.ID] = info
}

// Get returns system info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a system ID.
// Falls back to the ID itself if not found.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all registered systems.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}

// ByCategory returns systems filtered by category.
func (r *SystemRegistry) ByCategory(category string) []SystemInfo {
	var result []SystemInfo
	for _, info := range r.systems {
		if info.Category == category {
			result = append(result, info)
		}
	}
	return result
}

// Enabled reports whether a system runs when non-essential systems are off.
func (r *SystemRegistry) Enabled(id string, nonEssential bool) bool {
	info, ok := r.byID[id]
	return !ok || info.Essential || nonEssential
}

// IDs returns all system IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
