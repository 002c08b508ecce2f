package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/hive/config"
	"github.com/pthm-cable/hive/game"
)

var (
	configPath    string
	seed          int64
	maxTicks      int
	outputDir     string
	logStats      bool
	statsWindow   float64
	territories   int
	attrition     float64
	realtime      bool
	synthetic     bool
	allVisible    bool
	logJSON       bool
	logLevelDebug bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the swarm simulation",
	Long:  `Run the swarm headless until max-ticks is reached or the process is interrupted.`,
	RunE:  runSimulation,
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&configPath, "config", "", "Path to config.yaml (empty = use defaults)")
	f.Int64Var(&seed, "seed", 0, "RNG seed (0 = time-based)")
	f.IntVar(&maxTicks, "max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	f.StringVar(&outputDir, "output-dir", "", "Output directory for CSV logs and config snapshot")
	f.BoolVar(&logStats, "log-stats", false, "Output window stats via slog")
	f.Float64Var(&statsWindow, "stats-window", 0, "Stats window size in seconds (0 = use config)")
	f.IntVar(&territories, "territories", 2, "Owned territories placed at startup")
	f.Float64Var(&attrition, "attrition", -1, "Fraction of live parasites killed per second (<0 = use config)")
	f.BoolVar(&realtime, "realtime", false, "Pace ticks at the configured dt")
	f.BoolVar(&synthetic, "synthetic", false, "Grade frames with a synthetic cost model instead of runtime measurements")
	f.BoolVar(&allVisible, "all-visible", false, "Treat every location as visible")
	f.BoolVar(&logJSON, "log-json", true, "Log JSON to stdout (false = text)")
	f.BoolVar(&logLevelDebug, "debug", false, "Enable debug logging")
}

func setupLogger() {
	opts := &slog.HandlerOptions{}
	if logLevelDebug {
		opts.Level = slog.LevelDebug
	}
	var h slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if !logJSON {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}

func runSimulation(cmd *cobra.Command, args []string) error {
	setupLogger()

	if err := config.Init(configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := config.Cfg()

	rngSeed := seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.DefaultOptions()
	opts.Seed = rngSeed
	opts.Config = cfg
	opts.LogStats = logStats
	opts.StatsWindowSec = statsWindow
	opts.OutputDir = outputDir
	opts.Territories = territories
	opts.AttritionRate = attrition
	opts.AllVisible = allVisible
	if synthetic {
		opts.Sampler = game.NewSyntheticSampler(4, 0.08, 0.5, cfg.Performance.TargetFPS)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g := game.NewGameWithOptions(opts)
	defer g.Unload()

	slog.Info("starting simulation",
		"session", g.Session(),
		"seed", rngSeed,
		"max_ticks", maxTicks,
		"realtime", realtime,
		"synthetic", synthetic,
	)

	var pace <-chan time.Time
	if realtime {
		ticker := time.NewTicker(time.Duration(cfg.World.DT * float64(time.Second)))
		defer ticker.Stop()
		pace = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("interrupted", "tick", g.Tick())
			return nil
		default:
		}

		if pace != nil {
			select {
			case <-ctx.Done():
				slog.Info("interrupted", "tick", g.Tick())
				return nil
			case <-pace:
			}
		}

		g.UpdateHeadless()

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			slog.Info("max ticks reached",
				"tick", g.Tick(),
				"live", g.Population().Total(),
				"pending", g.Respawns().Len(),
				"level", g.Governor().Level(),
				"spawns", g.Totals(),
			)
			return nil
		}
	}
}
