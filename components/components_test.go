package components

import (
	"math"
	"testing"
)

func TestParseKind(t *testing.T) {
	for i, name := range KindNames() {
		k, ok := ParseKind(name)
		if !ok || k != Kind(i) {
			t.Errorf("ParseKind(%q) = %v, %v", name, k, ok)
		}
		if k.String() != name {
			t.Errorf("Kind(%d).String() = %q, want %q", i, k.String(), name)
		}
	}
	if _, ok := ParseKind("queen"); ok {
		t.Error("ParseKind accepted an unknown kind")
	}
	if NumKinds.Valid() || NumKinds.String() != "unknown" {
		t.Error("NumKinds must not be a valid kind")
	}
}

func TestStateNames(t *testing.T) {
	if got := StateReturning.String(); got != "returning" {
		t.Errorf("StateReturning.String() = %q", got)
	}
	if len(StateNames()) != int(StateReturning)+1 {
		t.Errorf("StateNames has %d entries", len(StateNames()))
	}
}

func TestOffsetXZ(t *testing.T) {
	p := Position{X: 1, Y: 7, Z: 1}
	q := p.OffsetXZ(math.Pi/2, 10)
	if math.Abs(float64(q.X-1)) > 1e-4 || math.Abs(float64(q.Z-11)) > 1e-4 || q.Y != 7 {
		t.Errorf("OffsetXZ = %+v", q)
	}
	if d := p.DistXZ(q); math.Abs(float64(d-10)) > 1e-4 {
		t.Errorf("DistXZ = %v, want 10", d)
	}
}

func TestParasiteStateTimer(t *testing.T) {
	p := Parasite{Alive: true, State: StateHunting, StateTime: 3}
	p.SetState(StateHunting)
	if p.StateTime != 3 {
		t.Error("re-entering the same state reset the timer")
	}
	p.SetState(StateFeeding)
	if p.StateTime != 0 {
		t.Error("state change did not reset the timer")
	}
	p.Hidden = true
	if p.Live() {
		t.Error("hidden parasite reported live")
	}
}
