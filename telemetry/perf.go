package telemetry

import (
	"log/slog"
	"time"
)

// Tick phases, in the order the game runs them.
const (
	PhaseBehavior  = "behavior"
	PhaseEnergy    = "energy"
	PhaseSpawn     = "spawn"
	PhaseRespawn   = "respawn"
	PhaseGovernor  = "governor"
	PhaseTerritory = "territory"
	PhaseTelemetry = "telemetry"
)

// Phases lists the tick phases in execution order.
var Phases = []string{
	PhaseBehavior, PhaseEnergy, PhaseSpawn, PhaseRespawn,
	PhaseGovernor, PhaseTerritory, PhaseTelemetry,
}

type tickTiming struct {
	total  time.Duration
	phases map[string]time.Duration
}

// PerfCollector keeps the wall-clock cost of the last few ticks and the
// interval between rendered frames. It feeds the runtime frame sampler and
// the perf CSV.
type PerfCollector struct {
	ring []tickTiming
	next int
	n    int

	cur        tickTiming
	tickStart  time.Time
	phase      string
	phaseStart time.Time

	lastFrame time.Time
	frame     time.Duration

	now func() time.Time
}

// NewPerfCollector creates a collector averaging over window ticks.
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{ring: make([]tickTiming, window), now: time.Now}
}

// StartTick opens a new tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.now()
	p.cur = tickTiming{phases: make(map[string]time.Duration, len(Phases))}
	p.phase = ""
}

// StartPhase closes the running phase, if any, and opens the named one.
func (p *PerfCollector) StartPhase(phase string) {
	t := p.closePhase()
	p.phase, p.phaseStart = phase, t
}

// EndTick closes the tick and stores it in the window.
func (p *PerfCollector) EndTick() {
	t := p.closePhase()
	p.phase = ""
	p.cur.total = t.Sub(p.tickStart)
	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	p.n = min(p.n+1, len(p.ring))
}

func (p *PerfCollector) closePhase() time.Time {
	t := p.now()
	if p.phase != "" {
		p.cur.phases[p.phase] += t.Sub(p.phaseStart)
	}
	return t
}

// RecordFrame marks a rendered frame; the gap to the previous one is the frame time.
func (p *PerfCollector) RecordFrame() {
	t := p.now()
	if !p.lastFrame.IsZero() {
		p.frame = t.Sub(p.lastFrame)
	}
	p.lastFrame = t
}

// LastTick returns the duration of the most recent tick, or 0 before the first.
func (p *PerfCollector) LastTick() time.Duration {
	if p.n == 0 {
		return 0
	}
	return p.ring[(p.next+len(p.ring)-1)%len(p.ring)].total
}

// FrameDuration returns the last measured frame interval.
func (p *PerfCollector) FrameDuration() time.Duration {
	return p.frame
}

// PerfStats summarises the collector window.
type PerfStats struct {
	AvgTick, MinTick, MaxTick time.Duration
	TicksPerSecond            float64

	// PhasePct is each phase's share of the average tick, in percent.
	PhasePct map[string]float64

	Frame time.Duration
	FPS   float64
}

// Stats aggregates the current window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{PhasePct: make(map[string]float64), Frame: p.frame}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.n == 0 {
		return s
	}

	var sum time.Duration
	phases := make(map[string]time.Duration)
	for i, tt := range p.ring[:p.n] {
		sum += tt.total
		if i == 0 || tt.total < s.MinTick {
			s.MinTick = tt.total
		}
		s.MaxTick = max(s.MaxTick, tt.total)
		for name, d := range tt.phases {
			phases[name] += d
		}
	}

	s.AvgTick = sum / time.Duration(p.n)
	if sum > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTick)
		for name, d := range phases {
			s.PhasePct[name] = float64(d) / float64(sum) * 100
		}
	}
	return s
}

// LogStats logs the window at info level. Phases under 0.1% are left out.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTick.Microseconds(),
		"max_tick_us", s.MaxTick.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, name := range Phases {
		if pct := s.PhasePct[name]; pct >= 0.1 {
			attrs = append(attrs, name+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	Session      string  `csv:"session"`
	WindowEnd    int32   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FPS          float64 `csv:"fps"`
	BehaviorPct  float64 `csv:"behavior_pct"`
	EnergyPct    float64 `csv:"energy_pct"`
	SpawnPct     float64 `csv:"spawn_pct"`
	RespawnPct   float64 `csv:"respawn_pct"`
	GovernorPct  float64 `csv:"governor_pct"`
	TerritoryPct float64 `csv:"territory_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	pct := s.PhasePct
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTick.Microseconds(),
		MinTickUS:    s.MinTick.Microseconds(),
		MaxTickUS:    s.MaxTick.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FPS:          s.FPS,
		BehaviorPct:  pct[PhaseBehavior],
		EnergyPct:    pct[PhaseEnergy],
		SpawnPct:     pct[PhaseSpawn],
		RespawnPct:   pct[PhaseRespawn],
		GovernorPct:  pct[PhaseGovernor],
		TerritoryPct: pct[PhaseTerritory],
		TelemetryPct: pct[PhaseTelemetry],
	}
}
