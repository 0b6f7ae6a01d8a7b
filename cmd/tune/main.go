// Package main searches vehicle tuning constants with CMA-ES so the car hits
// target launch, braking and coasting figures.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/kart/config"
)

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
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

// options holds the command line.
type options struct {
	configPath string
	targets    Targets
	maxTime    float64
	maxEvals   int
	population int
	outputDir  string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	flag.Float64Var(&opts.targets.CruiseSpeed, "cruise-speed", 30, "Speed reached by the launch trial")
	flag.Float64Var(&opts.targets.LaunchTime, "launch-time", 2.5, "Target seconds from rest to cruise speed")
	flag.Float64Var(&opts.targets.BrakeDistance, "brake-distance", 18, "Target braking distance from cruise speed")
	flag.Float64Var(&opts.targets.CoastDistance, "coast-distance", 80, "Target roll-out distance from cruise speed")
	flag.Float64Var(&opts.maxTime, "max-time", 120, "Simulated seconds allowed per trial")
	flag.IntVar(&opts.maxEvals, "max-evals", 400, "Maximum number of evaluations")
	flag.IntVar(&opts.population, "population", 0, "CMA-ES population size (0 = auto)")
	flag.StringVar(&opts.outputDir, "output", "", "Output directory for results")
	flag.Parse()

	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

func run(opts options) error {
	if opts.outputDir == "" {
		return fmt.Errorf("--output is required")
	}
	if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if err := config.Init(opts.configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	baseCfg := config.Cfg()
	if maxV := baseCfg.Vehicle.MaxVelocity; opts.targets.CruiseSpeed <= 0 || opts.targets.CruiseSpeed > maxV {
		return fmt.Errorf("cruise speed must be in (0, %g], got %g", maxV, opts.targets.CruiseSpeed)
	}

	params := NewParamVector(baseCfg)
	evaluator := NewFitnessEvaluator(params, opts.targets, opts.maxTime, baseCfg)

	elog, err := newEvalLog(filepath.Join(opts.outputDir, "tune_log.csv"), params, opts.maxEvals)
	if err != nil {
		return err
	}
	defer elog.Close()

	// The search runs in normalized [0,1] space
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(raw)
			elog.Record(fitness, evaluator.Last(), raw)
			return fitness
		},
	}

	popSize := opts.population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(params.Dim())/2.0)
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}
	settings := &optimize.Settings{
		FuncEvaluations: opts.maxEvals,
		Concurrent:      0, // Sequential, the trials of one evaluation run in parallel
	}

	t := opts.targets
	fmt.Printf("Starting CMA-ES tuning with %d parameters, population=%d, max_evals=%d\n",
		params.Dim(), popSize, opts.maxEvals)
	fmt.Printf("Targets: cruise=%.1f launch=%.2fs brake=%.1f coast=%.1f\n",
		t.CruiseSpeed, t.LaunchTime, t.BrakeDistance, t.CoastDistance)

	if _, err := optimize.Minimize(problem, params.Normalize(params.DefaultVector()), settings, method); err != nil {
		log.Printf("optimization ended: %v", err)
	}

	bestParams := elog.BestParams()
	if bestParams == nil {
		return fmt.Errorf("no evaluations completed")
	}

	best := evaluator.Best()
	fmt.Printf("\nTuning complete after %d evaluations in %s\n", elog.Count(), formatDuration(elog.Elapsed()))
	fmt.Printf("Best fitness: %.6f (launch=%.2fs brake=%.1f coast=%.1f)\n",
		elog.BestFitness(), best.LaunchTime, best.BrakeDistance, best.CoastDistance)

	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Path, bestParams[i])
	}

	bestCfg := baseCfg.Clone()
	params.ApplyToConfig(bestCfg, bestParams)

	configOutPath := filepath.Join(opts.outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		return err
	}
	fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	return nil
}
