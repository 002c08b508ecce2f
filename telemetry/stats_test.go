package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/hive/components"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeSpreadStats(t *testing.T) {
	values := []float64{1.0, 0.9, 0.8, 0.7, 0.6, 0.5, 0.4, 0.3, 0.2, 0.1}
	mean, p10, p50, p90 := ComputeSpreadStats(values)

	if math.Abs(mean-0.55) > 0.001 {
		t.Errorf("mean = %v, want 0.55", mean)
	}
	if math.Abs(p10-0.19) > 0.01 {
		t.Errorf("p10 = %v, want ~0.19", p10)
	}
	if math.Abs(p50-0.55) > 0.01 {
		t.Errorf("p50 = %v, want ~0.55", p50)
	}
	if math.Abs(p90-0.91) > 0.01 {
		t.Errorf("p90 = %v, want ~0.91", p90)
	}
	if values[0] != 1.0 {
		t.Error("input slice must not be reordered")
	}
}

func TestComputeSpreadStatsEmpty(t *testing.T) {
	mean, p10, p50, p90 := ComputeSpreadStats([]float64{})

	if mean != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty slice should return all zeros")
	}
}

func TestCollector_WindowTicksRound(t *testing.T) {
	tests := []struct {
		window float64
		dt     float32
		want   int32
	}{
		{10, 1.0 / 60, 600},
		{10, 0.016666667, 600},
		{1.0, 0.1, 10},
		{0.01, 0.1, 1},
	}
	for _, tt := range tests {
		if got := NewCollector(tt.window, tt.dt).WindowDurationTicks(); got != tt.want {
			t.Errorf("NewCollector(%v, %v) ticks = %d, want %d", tt.window, tt.dt, got, tt.want)
		}
	}
}

func TestCollector_FlushResetsWindow(t *testing.T) {
	c := NewCollector(1.0, 0.1)
	if c.WindowDurationTicks() != 10 {
		t.Fatalf("ticks per window = %d, want 10", c.WindowDurationTicks())
	}

	c.Record(NewSpawnEvent(1, 1, components.KindEnergy, 3))
	c.Record(NewSpawnEvent(2, 2, components.KindEnergy, 3))
	c.Record(NewSpawnEvent(2, 3, components.KindCombat, 4))
	c.Record(NewDeathEvent(4, 1, components.KindEnergy))
	c.Record(NewRespawnEvent(8, 1, components.KindEnergy))
	c.Record(NewDeniedEvent(5, components.KindCombat, 15))
	c.Record(NewLevelChangeEvent(6, 1))
	c.RecordDrain(2.5)

	if c.ShouldFlush(9) || !c.ShouldFlush(10) {
		t.Fatal("flush boundary wrong")
	}

	state := SwarmState{Live: [components.NumKinds]int{2, 1}, Pending: 0, ActiveCap: 240, Healths: []float64{40, 40, 80}}
	s := c.Flush(10, state)

	if s.EnergySpawns != 2 || s.CombatSpawns != 1 || s.EnergyDeaths != 1 || s.Respawns != 1 {
		t.Errorf("event counts wrong: %+v", s)
	}
	if s.Denials != 1 || math.Abs(s.DenialRate-0.25) > 1e-9 {
		t.Errorf("denials = %d rate = %v, want 1 and 0.25", s.Denials, s.DenialRate)
	}
	if s.LevelChanges != 1 || s.Drained != 2.5 || s.Live() != 3 {
		t.Errorf("level changes=%d drained=%v live=%d", s.LevelChanges, s.Drained, s.Live())
	}
	if math.Abs(s.SimTimeSec-1.0) > 1e-6 {
		t.Errorf("sim time = %v", s.SimTimeSec)
	}

	next := c.Flush(20, SwarmState{})
	if next.WindowStartTick != 10 || next.EnergySpawns != 0 || next.Drained != 0 {
		t.Errorf("window not reset: %+v", next)
	}
}

func TestLifetimeTracker(t *testing.T) {
	lt := NewLifetimeTracker()
	lt.Register(1, 0, components.KindEnergy, 2)
	lt.Register(2, 0, components.KindCombat, 2)

	lt.RecordDeath(1)
	lt.RecordRespawn(1)
	lt.RecordRespawn(1)
	lt.RecordDrain(1, 3)
	lt.RecordRespawn(99) // unknown ids are ignored

	if got := lt.MeanRespawns(); got != 1 {
		t.Errorf("mean respawns = %v, want 1", got)
	}

	lt.UpdateSurvivalTime(1, 60, 0.5)
	if s := lt.Get(1); s.SurvivalTimeSec != 30 || s.Deaths != 1 || s.TotalDrained != 3 {
		t.Errorf("stats = %+v", s)
	}

	s := lt.RecordEviction(2)
	if s == nil || !s.Evicted || lt.Count() != 1 {
		t.Errorf("eviction: %+v count=%d", s, lt.Count())
	}
}
