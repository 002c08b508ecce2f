package systems

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/hive/config"
)

// Grade classifies a performance sample. Each grade maps to the minimum
// degradation level it requires.
type Grade uint8

const (
	GradeExcellent Grade = iota
	GradeGood
	GradeWarning
	GradeCritical
)

// String returns the display name for a Grade.
func (g Grade) String() string {
	switch g {
	case GradeExcellent:
		return "excellent"
	case GradeGood:
		return "good"
	case GradeWarning:
		return "warning"
	case GradeCritical:
		return "critical"
	}
	return "unknown"
}

// RequiredLevel returns the degradation level this grade demands.
func (g Grade) RequiredLevel() int {
	return int(g)
}

// PerformanceSample is one governor observation.
type PerformanceSample struct {
	Time           float64 // simulation seconds
	FPS            float64
	FrameTimeMS    float64
	MemoryDeltaMB  float64 // heap growth since the baseline
	CPUOverheadPct float64 // share of the frame budget spent in the tick
	Grade          Grade
	Level          int
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerformanceSample) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("fps", s.FPS),
		slog.Float64("frame_ms", s.FrameTimeMS),
		slog.Float64("mem_delta_mb", s.MemoryDeltaMB),
		slog.Float64("cpu_pct", s.CPUOverheadPct),
		slog.String("grade", s.Grade.String()),
		slog.Int("level", s.Level),
	)
}

// FrameSampler supplies the raw measurements. Grade and Level are filled in
// by the governor.
type FrameSampler interface {
	Sample() PerformanceSample
}

// LevelActions is the fixed action set broadcast for one degradation level.
type LevelActions struct {
	UpdateStride            int
	Cosmetic                bool
	EntityCap               int
	SpawnIntervalMultiplier float64
	NonEssential            bool
}

// LevelActionsFromConfig builds the per-level action table.
func LevelActionsFromConfig(cfg *config.Config) [config.NumLevels]LevelActions {
	var out [config.NumLevels]LevelActions
	for i, lvl := range cfg.Performance.Levels {
		if i >= config.NumLevels {
			break
		}
		out[i] = LevelActions{
			UpdateStride:            max(1, lvl.UpdateStride),
			Cosmetic:                lvl.Cosmetic,
			EntityCap:               cfg.Derived.LevelCaps[i],
			SpawnIntervalMultiplier: lvl.SpawnIntervalMultiplier,
			NonEssential:            lvl.NonEssential,
		}
	}
	return out
}

// Thresholds are the grading boundaries.
type Thresholds struct {
	TargetFPS         float64
	WarningFPS        float64
	CriticalFPS       float64
	ExcellentFraction float64
	MaxMemoryDeltaMB  float64
	MaxCPUOverheadPct float64
}

// ThresholdsFromConfig reads the grading boundaries from the performance config.
func ThresholdsFromConfig(cfg *config.Config) Thresholds {
	p := cfg.Performance
	return Thresholds{
		TargetFPS:         p.TargetFPS,
		WarningFPS:        p.WarningFPS,
		CriticalFPS:       p.CriticalFPS,
		ExcellentFraction: p.ExcellentFraction,
		MaxMemoryDeltaMB:  p.MaxMemoryDeltaMB,
		MaxCPUOverheadPct: p.MaxCPUOverheadPct,
	}
}

// Grade returns the worse of the fps grade and the overhead grade.
func (t Thresholds) Grade(s PerformanceSample) Grade {
	return max(t.fpsGrade(s.FPS), t.overheadGrade(s))
}

func (t Thresholds) fpsGrade(fps float64) Grade {
	switch {
	case fps >= t.TargetFPS*t.ExcellentFraction:
		return GradeExcellent
	case fps >= t.WarningFPS:
		return GradeGood
	case fps >= t.CriticalFPS:
		return GradeWarning
	}
	return GradeCritical
}

// overheadGrade grades the larger of the memory and CPU budget fractions.
func (t Thresholds) overheadGrade(s PerformanceSample) Grade {
	var frac float64
	if t.MaxMemoryDeltaMB > 0 {
		frac = math.Max(frac, s.MemoryDeltaMB/t.MaxMemoryDeltaMB)
	}
	if t.MaxCPUOverheadPct > 0 {
		frac = math.Max(frac, s.CPUOverheadPct/t.MaxCPUOverheadPct)
	}
	switch {
	case frac <= 0.5:
		return GradeExcellent
	case frac <= 0.75:
		return GradeGood
	case frac <= 1:
		return GradeWarning
	}
	return GradeCritical
}

// Transition describes the outcome of one evaluation.
type Transition struct {
	From    int
	To      int
	Grade   Grade
	Changed bool
}

// HistoryStats summarizes the sample history.
type HistoryStats struct {
	Samples      int
	MeanFPS      float64
	P10FPS       float64
	MinFPS       float64
	MeanMemoryMB float64
	MaxLevel     int
}

// LogValue implements slog.LogValuer for structured logging.
func (h HistoryStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("samples", h.Samples),
		slog.Float64("mean_fps", h.MeanFPS),
		slog.Float64("p10_fps", h.P10FPS),
		slog.Float64("min_fps", h.MinFPS),
		slog.Float64("mean_mem_mb", h.MeanMemoryMB),
		slog.Int("max_level", h.MaxLevel),
	)
}

// Governor is the degradation state machine. Escalation jumps straight to
// the level a grade requires; de-escalation steps down one level per
// excellent sample.
type Governor struct {
	thresholds Thresholds
	actions    [config.NumLevels]LevelActions
	sampler    FrameSampler
	interval   float64

	level       int
	lastSample  float64
	sampled     bool
	subscribers []Degradable

	// Ring buffer of recent samples
	history    []PerformanceSample
	writeIndex int
	count      int
}

// NewGovernor creates a governor at level 0. sampler may be nil, in which
// case only Evaluate drives it.
func NewGovernor(th Thresholds, actions [config.NumLevels]LevelActions, sampler FrameSampler, interval float64, historySize int) *Governor {
	if historySize < 1 {
		historySize = 60
	}
	return &Governor{
		thresholds: th,
		actions:    actions,
		sampler:    sampler,
		interval:   interval,
		history:    make([]PerformanceSample, historySize),
	}
}

// NewGovernorFromConfig creates a governor from the performance config.
func NewGovernorFromConfig(cfg *config.Config, sampler FrameSampler) *Governor {
	return NewGovernor(ThresholdsFromConfig(cfg), LevelActionsFromConfig(cfg), sampler,
		cfg.Performance.SampleInterval, cfg.Performance.HistorySize)
}

// Subscribe registers d and immediately pushes the current level's actions.
func (g *Governor) Subscribe(d Degradable) {
	g.subscribers = append(g.subscribers, d)
	d.ApplyDegradation(g.level, g.actions[g.level])
}

// Level returns the current degradation level.
func (g *Governor) Level() int { return g.level }

// Actions returns the action set of the current level.
func (g *Governor) Actions() LevelActions { return g.actions[g.level] }

// Update samples and evaluates once every interval. Returns true if the
// level changed.
func (g *Governor) Update(now float64) bool {
	if g.sampler == nil {
		return false
	}
	if g.sampled && now-g.lastSample < g.interval {
		return false
	}
	g.lastSample = now
	g.sampled = true

	s := g.sampler.Sample()
	s.Time = now
	return g.Evaluate(s).Changed
}

// Evaluate grades a sample, applies the transition and records it.
func (g *Governor) Evaluate(s PerformanceSample) Transition {
	grade := g.thresholds.Grade(s)
	from := g.level

	if req := grade.RequiredLevel(); req > g.level {
		g.level = req
	} else if grade == GradeExcellent && g.level > 0 {
		g.level--
	}

	s.Grade = grade
	s.Level = g.level
	g.record(s)

	t := Transition{From: from, To: g.level, Grade: grade, Changed: from != g.level}
	if t.Changed {
		slog.Info("degradation_changed",
			"from", from,
			"to", g.level,
			"sample", s,
		)
		g.broadcast()
	}
	return t
}

// broadcast pushes the current level's actions to every subscriber in order.
func (g *Governor) broadcast() {
	actions := g.actions[g.level]
	for _, d := range g.subscribers {
		d.ApplyDegradation(g.level, actions)
	}
}

func (g *Governor) record(s PerformanceSample) {
	g.history[g.writeIndex] = s
	g.writeIndex = (g.writeIndex + 1) % len(g.history)
	if g.count < len(g.history) {
		g.count++
	}
}

// History returns the recorded samples, oldest first.
func (g *Governor) History() []PerformanceSample {
	out := make([]PerformanceSample, 0, g.count)
	start := (g.writeIndex - g.count + len(g.history)) % len(g.history)
	for i := 0; i < g.count; i++ {
		out = append(out, g.history[(start+i)%len(g.history)])
	}
	return out
}

// Last returns the most recent sample.
func (g *Governor) Last() (PerformanceSample, bool) {
	if g.count == 0 {
		return PerformanceSample{}, false
	}
	i := (g.writeIndex - 1 + len(g.history)) % len(g.history)
	return g.history[i], true
}

// Suggestions returns remediation hints derived only from the last sample's
// threshold comparisons. The same sample always yields the same strings.
func (g *Governor) Suggestions() []string {
	s, ok := g.Last()
	if !ok {
		return nil
	}
	th := g.thresholds

	var out []string
	switch {
	case s.FPS < th.CriticalFPS:
		out = append(out, fmt.Sprintf("fps %.1f below critical %.1f: reduce the active parasite cap", s.FPS, th.CriticalFPS))
	case s.FPS < th.WarningFPS:
		out = append(out, fmt.Sprintf("fps %.1f below warning %.1f: lengthen spawn intervals", s.FPS, th.WarningFPS))
	case s.FPS < th.TargetFPS*th.ExcellentFraction:
		out = append(out, fmt.Sprintf("fps %.1f below target %.1f: trim cosmetic detail", s.FPS, th.TargetFPS))
	}
	if th.MaxMemoryDeltaMB > 0 && s.MemoryDeltaMB > th.MaxMemoryDeltaMB {
		out = append(out, fmt.Sprintf("memory delta %.1fMB exceeds %.1fMB: lower the respawn delay or cap", s.MemoryDeltaMB, th.MaxMemoryDeltaMB))
	}
	if th.MaxCPUOverheadPct > 0 && s.CPUOverheadPct > th.MaxCPUOverheadPct {
		out = append(out, fmt.Sprintf("cpu overhead %.1f%% exceeds %.1f%%: raise the behavior update stride", s.CPUOverheadPct, th.MaxCPUOverheadPct))
	}
	return out
}

// HistoryStats summarizes the recorded samples.
func (g *Governor) HistoryStats() HistoryStats {
	samples := g.History()
	if len(samples) == 0 {
		return HistoryStats{}
	}

	fps := make([]float64, len(samples))
	mem := make([]float64, len(samples))
	maxLevel := 0
	for i, s := range samples {
		fps[i] = s.FPS
		mem[i] = s.MemoryDeltaMB
		maxLevel = max(maxLevel, s.Level)
	}
	sorted := append([]float64(nil), fps...)
	sort.Float64s(sorted)

	return HistoryStats{
		Samples:      len(samples),
		MeanFPS:      stat.Mean(fps, nil),
		P10FPS:       stat.Quantile(0.1, stat.Empirical, sorted, nil),
		MinFPS:       floats.Min(fps),
		MeanMemoryMB: stat.Mean(mem, nil),
		MaxLevel:     maxLevel,
	}
}
