package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/hive/config"
	"github.com/pthm-cable/hive/game"
	"github.com/pthm-cable/hive/telemetry"
)

// FrameModel is the synthetic frame cost used for every run, in milliseconds.
type FrameModel struct {
	BaseMS       float64
	PerEntityMS  float64
	MemPerEntity float64
}

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	frame       FrameModel
	targetLive  float64
	statsWindow float64

	mu          sync.Mutex
	lastQuality quality // from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config, frame FrameModel, targetLive float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		frame:       frame,
		targetLive:  targetLive,
		statsWindow: 10.0,
	}
}

// LastQuality returns the quality breakdown from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() quality {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// Quality component weights.
const (
	weightPresence  = 0.35
	weightLevel     = 0.20
	weightRatio     = 0.20
	weightStability = 0.15
	weightEnergy    = 0.10

	warmupWindows = 2 // skip first N windows while the swarm builds up
)

// quality scores a run in [0, 1] per component.
type quality struct {
	Presence  float64 // live count near the target
	Level     float64 // 1 at level 0, 0 pinned at the top level
	Ratio     float64 // share of windows with an accurate kind ratio
	Stability float64 // low variation of the live count
	Energy    float64 // low denial rate
	Total     float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is the negative mean quality over all seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg, err := fe.params.Apply(fe.baseConfig, x)
	if err != nil {
		// Out-of-schema vectors are the worst possible outcome
		return 0
	}

	// Run all seeds in parallel; each goroutine owns its game
	results := make([]quality, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = computeQuality(fe.runSimulation(cfg, s), fe.targetLive)
		}(i, seed)
	}
	wg.Wait()

	var mean quality
	for _, r := range results {
		mean.Presence += r.Presence
		mean.Level += r.Level
		mean.Ratio += r.Ratio
		mean.Stability += r.Stability
		mean.Energy += r.Energy
		mean.Total += r.Total
	}
	n := float64(len(results))
	mean.Presence /= n
	mean.Level /= n
	mean.Ratio /= n
	mean.Stability /= n
	mean.Energy /= n
	mean.Total /= n

	fe.mu.Lock()
	fe.lastQuality = mean
	fe.mu.Unlock()

	return -mean.Total
}

// runSimulation executes a single headless run and returns its window stats.
// The config is shared read-only between seeds.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) []telemetry.WindowStats {
	var windows []telemetry.WindowStats

	opts := game.DefaultOptions()
	opts.Seed = seed
	opts.Config = cfg
	opts.StatsWindowSec = fe.statsWindow
	opts.Sampler = game.NewSyntheticSampler(fe.frame.BaseMS, fe.frame.PerEntityMS, fe.frame.MemPerEntity, cfg.Performance.TargetFPS)
	opts.StatsCallback = func(stats telemetry.WindowStats) {
		windows = append(windows, stats)
	}

	g := game.NewGameWithOptions(opts)
	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()
	}
	g.Unload()
	return windows
}

// computeQuality scores the windows of one run.
func computeQuality(windows []telemetry.WindowStats, targetLive float64) quality {
	if len(windows) <= warmupWindows {
		return quality{}
	}
	valid := windows[warmupWindows:]

	live := make([]float64, len(valid))
	var presenceSum, levelSum, denialSum float64
	accurate := 0
	for i, w := range valid {
		n := float64(w.Live())
		live[i] = n

		if n > 0 && targetLive > 0 {
			logErr := math.Log(n / targetLive)
			presenceSum += math.Exp(-logErr * logErr)
		}
		levelSum += float64(w.Level) / float64(config.NumLevels-1)
		denialSum += w.DenialRate
		if w.RatioAccurate {
			accurate++
		}
	}

	count := float64(len(valid))
	q := quality{
		Presence: presenceSum / count,
		Level:    1 - levelSum/count,
		Ratio:    float64(accurate) / count,
		Energy:   1 - denialSum/count,
	}
	if len(live) >= 2 {
		if mean := stat.Mean(live, nil); mean > 0 {
			cv := stat.StdDev(live, nil) / mean
			q.Stability = math.Exp(-cv * cv)
		}
	}

	q.Total = clamp01(weightPresence*q.Presence +
		weightLevel*q.Level +
		weightRatio*q.Ratio +
		weightStability*q.Stability +
		weightEnergy*q.Energy)
	return q
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}
