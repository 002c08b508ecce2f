package systems

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/hive/components"
	"github.com/pthm-cable/hive/config"
)

// DistributionStats is a snapshot of spawn counts against the target ratio.
type DistributionStats struct {
	Counts   [components.NumKinds]int
	Ratios   [components.NumKinds]float64
	Targets  [components.NumKinds]float64
	Total    int
	Accurate bool // every ratio within tolerance of its target
}

// LogValue implements slog.LogValuer for structured logging.
func (s DistributionStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("total", s.Total),
		slog.Bool("accurate", s.Accurate),
	}
	for k := components.Kind(0); k < components.NumKinds; k++ {
		attrs = append(attrs,
			slog.Int(k.String()+"_count", s.Counts[k]),
			slog.Float64(k.String()+"_ratio", s.Ratios[k]),
		)
	}
	return slog.GroupValue(attrs...)
}

// DistributionTracker steers spawn kinds toward a target ratio. It is pure
// bookkeeping: counts only go up until Reset.
type DistributionTracker struct {
	targets   [components.NumKinds]float64
	tolerance float64
	counts    [components.NumKinds]int
	total     int
	scopes    map[components.LocationID]*[components.NumKinds]int
}

// NewDistributionTracker creates a tracker. targets are normalized to sum to one.
func NewDistributionTracker(targets []float64, tolerance float64) *DistributionTracker {
	d := &DistributionTracker{
		tolerance: tolerance,
		scopes:    make(map[components.LocationID]*[components.NumKinds]int),
	}
	sum := floats.Sum(targets)
	for k := 0; k < int(components.NumKinds) && k < len(targets); k++ {
		if sum > 0 {
			d.targets[k] = targets[k] / sum
		}
	}
	return d
}

// NewDistributionTrackerFromConfig creates a tracker from the distribution config.
func NewDistributionTrackerFromConfig(cfg *config.Config) *DistributionTracker {
	return NewDistributionTracker(cfg.Derived.Targets, cfg.Distribution.Tolerance)
}

// NextKind returns the kind whose spawn would leave the distribution closest
// to the target. Ties go to the lowest kind, so the choice is deterministic.
func (d *DistributionTracker) NextKind() components.Kind {
	best := components.KindEnergy
	bestDev := math.Inf(1)
	n := float64(d.total + 1)

	var after [components.NumKinds]float64
	for cand := components.Kind(0); cand < components.NumKinds; cand++ {
		for k := range after {
			c := float64(d.counts[k])
			if components.Kind(k) == cand {
				c++
			}
			after[k] = math.Abs(c/n - d.targets[k])
		}
		dev := floats.Sum(after[:])
		if dev < bestDev-1e-12 {
			best = cand
			bestDev = dev
		}
	}
	return best
}

// RecordSpawn counts a spawn globally and, when scope is non-zero, per scope.
func (d *DistributionTracker) RecordSpawn(kind components.Kind, scope components.LocationID) {
	if !kind.Valid() {
		return
	}
	d.counts[kind]++
	d.total++
	if scope == 0 {
		return
	}
	sc, ok := d.scopes[scope]
	if !ok {
		sc = new([components.NumKinds]int)
		d.scopes[scope] = sc
	}
	sc[kind]++
}

// ScopeCounts returns the per-kind counts recorded for a scope.
func (d *DistributionTracker) ScopeCounts(scope components.LocationID) [components.NumKinds]int {
	if sc, ok := d.scopes[scope]; ok {
		return *sc
	}
	return [components.NumKinds]int{}
}

// Stats returns the current counts and ratios.
func (d *DistributionTracker) Stats() DistributionStats {
	s := DistributionStats{
		Counts:  d.counts,
		Targets: d.targets,
		Total:   d.total,
	}
	if d.total == 0 {
		return s
	}
	s.Accurate = true
	for k := range s.Ratios {
		s.Ratios[k] = float64(d.counts[k]) / float64(d.total)
		if math.Abs(s.Ratios[k]-d.targets[k]) > d.tolerance {
			s.Accurate = false
		}
	}
	return s
}

// Reset zeroes all counters.
func (d *DistributionTracker) Reset() {
	d.counts = [components.NumKinds]int{}
	d.total = 0
	clear(d.scopes)
}
