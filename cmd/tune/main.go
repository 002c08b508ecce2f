// Package main tunes spawn and governor parameters with CMA-ES over
// headless swarm runs.
package main

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/hive/config"
)

var (
	configPath  string
	maxTicks    int
	seedCount   int
	maxEvals    int
	population  int
	outputDir   string
	targetLive  float64
	frameBaseMS float64
	framePerMS  float64
	memPerMB    float64
)

var rootCmd = &cobra.Command{
	Use:   "tune",
	Short: "Tune swarm parameters",
	Long:  `Runs CMA-ES over headless swarm simulations with a synthetic frame cost and writes the best config.`,
	RunE:  runTune,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&configPath, "config", "", "Base config YAML file (empty = use defaults)")
	f.IntVar(&maxTicks, "max-ticks", 36000, "Simulation length per run in ticks")
	f.IntVar(&seedCount, "seeds", 3, "Number of seeds per evaluation")
	f.IntVar(&maxEvals, "max-evals", 200, "Maximum number of evaluations")
	f.IntVar(&population, "population", 0, "CMA-ES population size (0 = auto)")
	f.StringVar(&outputDir, "output", "", "Output directory for results")
	f.Float64Var(&targetLive, "target-live", 150, "Desired live parasite count")
	f.Float64Var(&frameBaseMS, "frame-base-ms", 4, "Synthetic frame time with no parasites")
	f.Float64Var(&framePerMS, "frame-per-entity-ms", 0.08, "Synthetic frame time per live parasite")
	f.Float64Var(&memPerMB, "mem-per-entity-mb", 0.5, "Synthetic heap growth per parasite")
	_ = rootCmd.MarkFlagRequired("output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// formatDuration formats a duration as HhMMmSSs or MmSSs for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func runTune(cmd *cobra.Command, args []string) error {
	// Per-run game logs would drown the progress output
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	baseCfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	params := NewParamVector()

	evalSeeds := make([]int64, seedCount)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	frame := FrameModel{BaseMS: frameBaseMS, PerEntityMS: framePerMS, MemPerEntity: memPerMB}
	evaluator := NewFitnessEvaluator(params, int32(maxTicks), evalSeeds, baseCfg, frame, targetLive)

	dim := params.Dim()
	initX := params.Normalize(params.Extract(baseCfg))

	popSize := population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}
	settings := &optimize.Settings{
		FuncEvaluations: maxEvals,
		Concurrent:      0, // seeds already run in parallel
	}

	logFile, err := os.Create(filepath.Join(outputDir, "tune_log.csv"))
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	defer logFile.Close()

	logWriter := csv.NewWriter(logFile)
	defer logWriter.Flush()

	header := []string{"eval", "fitness", "presence", "level", "ratio", "stability", "energy"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	if err := logWriter.Write(header); err != nil {
		return fmt.Errorf("writing log header: %w", err)
	}

	evalCount := 0
	bestFitness := 1e9
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(raw)
			q := evaluator.LastQuality()
			evalCount++

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = raw
			}

			row := []string{
				strconv.Itoa(evalCount),
				strconv.FormatFloat(fitness, 'f', 6, 64),
				strconv.FormatFloat(q.Presence, 'f', 4, 64),
				strconv.FormatFloat(q.Level, 'f', 4, 64),
				strconv.FormatFloat(q.Ratio, 'f', 4, 64),
				strconv.FormatFloat(q.Stability, 'f', 4, 64),
				strconv.FormatFloat(q.Energy, 'f', 4, 64),
			}
			for _, v := range raw {
				row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
			}
			if err := logWriter.Write(row); err != nil {
				slog.Error("failed to write log row", "error", err)
			}
			logWriter.Flush()

			elapsed := time.Since(startTime)
			avgPerEval := elapsed / time.Duration(evalCount)
			remaining := time.Duration(maxEvals-evalCount) * avgPerEval
			fmt.Printf("Eval %d/%d: quality=%.3f presence=%.2f level=%.2f ratio=%.2f (best=%.3f) | elapsed: %s, ETA: %s\n",
				evalCount, maxEvals, q.Total, q.Presence, q.Level, q.Ratio, -bestFitness,
				formatDuration(elapsed), formatDuration(remaining))

			return fitness
		},
	}

	fmt.Printf("Starting CMA-ES tuning with %d parameters, population=%d, max_evals=%d\n",
		dim, popSize, maxEvals)
	fmt.Printf("Seeds per evaluation: %d, ticks per run: %d\n", seedCount, maxTicks)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		slog.Warn("tuning ended", "error", err)
	}
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		return fmt.Errorf("no evaluations completed")
	}

	fmt.Printf("\nTuning complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best quality: %.3f\n", -bestFitness)
	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Path, bestParams[i])
	}

	bestCfg, err := params.Apply(baseCfg, bestParams)
	if err != nil {
		return fmt.Errorf("applying best parameters: %w", err)
	}
	configOutPath := filepath.Join(outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		return err
	}
	fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	return nil
}
