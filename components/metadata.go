package components

// String returns the display name for a Kind.
func (k Kind) String() string {
	names := KindNames()
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// KindNames returns the names of all kinds in Kind order.
func KindNames() []string {
	return []string{"energy", "combat"}
}

// ParseKind returns the kind with the given name.
func ParseKind(name string) (Kind, bool) {
	for i, n := range KindNames() {
		if n == name {
			return Kind(i), true
		}
	}
	return 0, false
}

// String returns the display name for a State.
func (s State) String() string {
	names := StateNames()
	if int(s) < len(names) {
		return names[s]
	}
	return "unknown"
}

// StateNames returns the names of all behavior states in State order.
func StateNames() []string {
	return []string{"spawning", "patrolling", "hunting", "feeding", "returning"}
}
