package game

import (
	"github.com/pthm-cable/hive/config"
	"github.com/pthm-cable/hive/systems"
	"github.com/pthm-cable/hive/telemetry"
)

// Default viewport used for camera-based visibility in headless runs.
const (
	ViewportWidth  = 160
	ViewportHeight = 90
)

// Options configures a game instance.
type Options struct {
	Seed           int64
	Config         *config.Config // nil = config.Cfg()
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	OutputDir      string  // empty = no CSV output
	StatsCallback  func(telemetry.WindowStats)

	// Collaborators; all optional
	Renderer systems.Renderer
	Terrain  systems.Terrain
	Sampler  systems.FrameSampler // nil = runtime sampler over the perf collector

	// Headless world setup
	Territories   int     // owned territories placed at startup
	AttritionRate float64 // fraction of live parasites killed per second; <0 = use config
	CameraOrbit   bool    // sweep the camera so location visibility changes over time
	AllVisible    bool    // every location is visible regardless of the camera
}

// DefaultOptions returns the options used by the CLI.
func DefaultOptions() Options {
	return Options{
		Territories:   2,
		AttritionRate: -1,
		CameraOrbit:   true,
	}
}
