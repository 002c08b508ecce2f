package game

import (
	"runtime"
	"time"

	"github.com/pthm-cable/hive/systems"
	"github.com/pthm-cable/hive/telemetry"
)

const bytesPerMB = 1024 * 1024

// GameAware is implemented by samplers that measure the game they are
// passed to. NewGameWithOptions attaches them before the first tick.
type GameAware interface {
	Attach(g *Game)
}

// RuntimeSampler measures the real cost of the swarm: frame rate from the
// perf collector, heap growth from the Go runtime, and the share of the
// frame budget spent inside the tick.
type RuntimeSampler struct {
	perf      *telemetry.PerfCollector
	targetFPS float64
	budgetMS  float64
	baseline  uint64
	readMem   func() uint64
}

// NewRuntimeSampler creates a sampler whose memory baseline is the heap at creation.
func NewRuntimeSampler(perf *telemetry.PerfCollector, targetFPS float64) *RuntimeSampler {
	if targetFPS <= 0 {
		targetFPS = 60
	}
	s := &RuntimeSampler{
		perf:      perf,
		targetFPS: targetFPS,
		budgetMS:  1000 / targetFPS,
		readMem:   heapAlloc,
	}
	s.baseline = s.readMem()
	return s
}

func heapAlloc() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.HeapAlloc
}

// Sample implements systems.FrameSampler.
func (s *RuntimeSampler) Sample() systems.PerformanceSample {
	tick := s.perf.LastTick()

	// Without a render loop the frame is the tick itself
	frame := s.perf.FrameDuration()
	if frame <= 0 {
		frame = tick
	}
	frameMS := max(durationMS(frame), s.budgetMS)

	var memDelta float64
	if heap := s.readMem(); heap > s.baseline {
		memDelta = float64(heap-s.baseline) / bytesPerMB
	}

	return systems.PerformanceSample{
		FPS:            min(s.targetFPS, 1000/frameMS),
		FrameTimeMS:    frameMS,
		MemoryDeltaMB:  memDelta,
		CPUOverheadPct: durationMS(tick) / s.budgetMS * 100,
	}
}

func durationMS(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// SyntheticSampler models frame cost from the live population so headless
// and tuning runs exercise the governor deterministically.
type SyntheticSampler struct {
	BaseMS      float64 // frame time with no parasites
	PerEntityMS float64 // added frame time per live parasite at stride 1
	MemPerMB    float64 // MB attributed to each live or pending parasite
	Budget      float64 // frame budget in ms (1000 / target fps)

	g *Game
}

// NewSyntheticSampler creates a sampler. Passed as Options.Sampler, it is
// attached to the new game automatically.
func NewSyntheticSampler(baseMS, perEntityMS, memPerEntityMB, targetFPS float64) *SyntheticSampler {
	if targetFPS <= 0 {
		targetFPS = 60
	}
	return &SyntheticSampler{
		BaseMS:      baseMS,
		PerEntityMS: perEntityMS,
		MemPerMB:    memPerEntityMB,
		Budget:      1000 / targetFPS,
	}
}

// Attach binds the sampler to the game it measures.
func (s *SyntheticSampler) Attach(g *Game) {
	s.g = g
}

// Sample implements systems.FrameSampler.
func (s *SyntheticSampler) Sample() systems.PerformanceSample {
	var live, pending, stride int
	stride = 1
	if s.g != nil {
		live = s.g.pop.Total()
		pending = s.g.respawns.Len()
		stride = max(1, s.g.behavior.Stride())
	}

	frameMS := s.BaseMS + s.PerEntityMS*float64(live)/float64(stride)
	if frameMS <= 0 {
		frameMS = s.Budget
	}
	return systems.PerformanceSample{
		FPS:            1000 / frameMS,
		FrameTimeMS:    frameMS,
		MemoryDeltaMB:  s.MemPerMB * float64(live+pending),
		CPUOverheadPct: (frameMS - s.BaseMS) / s.Budget * 100,
	}
}
