package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated swarm statistics for a time window.
type WindowStats struct {
	Session         string  `csv:"session"`
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population counts at window end
	EnergyCount int `csv:"energy"`
	CombatCount int `csv:"combat"`
	Pending     int `csv:"pending"`

	// Events during window
	EnergySpawns int `csv:"energy_spawns"`
	CombatSpawns int `csv:"combat_spawns"`
	EnergyDeaths int `csv:"energy_deaths"`
	CombatDeaths int `csv:"combat_deaths"`
	Respawns     int `csv:"respawns"`
	Evictions    int `csv:"evictions"`

	// Energy gating
	Denials    int     `csv:"denials"`
	DenialRate float64 `csv:"denial_rate"`
	Budget     float64 `csv:"budget"`
	Drained    float64 `csv:"drained"`

	// Distribution
	EnergyRatio   float64 `csv:"energy_ratio"`
	CombatRatio   float64 `csv:"combat_ratio"`
	RatioAccurate bool    `csv:"ratio_accurate"`

	// Degradation
	Level        int `csv:"level"`
	LevelChanges int `csv:"level_changes"`
	ActiveCap    int `csv:"active_cap"`

	// Territory ledger
	Territories  int     `csv:"territories"`
	Inconsistent int     `csv:"inconsistent"`
	MeanRespawns float64 `csv:"mean_respawns"`

	// Health distribution (sampled at window end)
	HealthMean float64 `csv:"health_mean"`
	HealthP10  float64 `csv:"health_p10"`
	HealthP50  float64 `csv:"health_p50"`
	HealthP90  float64 `csv:"health_p90"`
}

// Live returns the total live parasite count.
func (s WindowStats) Live() int {
	return s.EnergyCount + s.CombatCount
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeSpreadStats calculates mean and percentiles from a set of values.
func ComputeSpreadStats(values []float64) (mean, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)

	// Sort for percentiles
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("session", s.Session),
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("energy", s.EnergyCount),
		slog.Int("combat", s.CombatCount),
		slog.Int("pending", s.Pending),
		slog.Int("energy_spawns", s.EnergySpawns),
		slog.Int("combat_spawns", s.CombatSpawns),
		slog.Int("energy_deaths", s.EnergyDeaths),
		slog.Int("combat_deaths", s.CombatDeaths),
		slog.Int("respawns", s.Respawns),
		slog.Int("evictions", s.Evictions),
		slog.Int("denials", s.Denials),
		slog.Float64("denial_rate", s.DenialRate),
		slog.Float64("budget", s.Budget),
		slog.Float64("drained", s.Drained),
		slog.Float64("energy_ratio", s.EnergyRatio),
		slog.Float64("combat_ratio", s.CombatRatio),
		slog.Bool("ratio_accurate", s.RatioAccurate),
		slog.Int("level", s.Level),
		slog.Int("level_changes", s.LevelChanges),
		slog.Int("active_cap", s.ActiveCap),
		slog.Int("territories", s.Territories),
		slog.Int("inconsistent", s.Inconsistent),
		slog.Float64("mean_respawns", s.MeanRespawns),
		slog.Float64("health_mean", s.HealthMean),
		slog.Float64("health_p10", s.HealthP10),
		slog.Float64("health_p50", s.HealthP50),
		slog.Float64("health_p90", s.HealthP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"energy", s.EnergyCount,
		"combat", s.CombatCount,
		"pending", s.Pending,
		"spawns", s.EnergySpawns+s.CombatSpawns,
		"deaths", s.EnergyDeaths+s.CombatDeaths,
		"respawns", s.Respawns,
		"evictions", s.Evictions,
		"denials", s.Denials,
		"budget", s.Budget,
		"energy_ratio", s.EnergyRatio,
		"ratio_accurate", s.RatioAccurate,
		"level", s.Level,
		"active_cap", s.ActiveCap,
		"health_mean", s.HealthMean,
	)
}
