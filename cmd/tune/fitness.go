package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/kart/config"
	"github.com/pthm-cable/kart/vehicle"
)

// Targets are the handling figures the search aims for.
type Targets struct {
	CruiseSpeed   float64 // Speed the launch trial accelerates to
	LaunchTime    float64 // Seconds from rest to cruise speed
	BrakeDistance float64 // Distance from cruise speed to a standstill under braking
	CoastDistance float64 // Distance from cruise speed to a standstill without input
}

// Measurements are the handling figures produced by one parameter vector.
type Measurements struct {
	LaunchTime    float64
	BrakeDistance float64
	CoastDistance float64
}

// trial drives a fresh vehicle through one manoeuvre and returns its figure.
type trial func(v *vehicle.Vehicle, dt float64) float64

// FitnessEvaluator runs the handling trials and scores them against targets.
type FitnessEvaluator struct {
	params     *ParamVector
	targets    Targets
	baseConfig *config.Config
	maxTime    float64

	// Best run tracking
	mu          sync.Mutex
	bestFitness float64
	best        Measurements
	last        Measurements
}

// NewFitnessEvaluator creates a new evaluator.
// maxTime bounds every trial in simulated seconds.
func NewFitnessEvaluator(params *ParamVector, targets Targets, maxTime float64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		targets:     targets,
		baseConfig:  baseCfg,
		maxTime:     maxTime,
		bestFitness: math.Inf(1),
	}
}

// Best returns the measurements of the best evaluation so far.
func (fe *FitnessEvaluator) Best() Measurements {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.best
}

// Last returns the measurements from the most recent evaluation.
func (fe *FitnessEvaluator) Last() Measurements {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.last
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	m := fe.Measure(x)
	fitness := fe.computeFitness(m)

	fe.mu.Lock()
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
		fe.best = m
	}
	fe.last = m
	fe.mu.Unlock()

	return fitness
}

// Measure runs every trial in parallel with the parameters applied.
func (fe *FitnessEvaluator) Measure(x []float64) Measurements {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	trials := []trial{fe.launchTrial, fe.brakeTrial, fe.coastTrial}
	results := make([]float64, len(trials))
	var wg sync.WaitGroup

	for i, run := range trials {
		wg.Add(1)
		go func(idx int, run trial) {
			defer wg.Done()
			v := vehicle.New(cfg.Vehicle, cfg.Camera)
			results[idx] = run(v, cfg.Physics.DT)
		}(i, run)
	}
	wg.Wait()

	return Measurements{
		LaunchTime:    results[0],
		BrakeDistance: results[1],
		CoastDistance: results[2],
	}
}

// launchTrial returns the seconds needed to reach cruise speed from rest,
// or maxTime if it is never reached.
func (fe *FitnessEvaluator) launchTrial(v *vehicle.Vehicle, dt float64) float64 {
	v.SetAccelerate(true)
	var elapsed float64
	for elapsed < fe.maxTime {
		v.Update(dt)
		elapsed += dt
		if v.Speed() >= fe.targets.CruiseSpeed {
			return elapsed
		}
	}
	return fe.maxTime
}

// brakeTrial returns the distance covered while braking from cruise speed.
func (fe *FitnessEvaluator) brakeTrial(v *vehicle.Vehicle, dt float64) float64 {
	if !fe.reachCruise(v, dt) {
		return 0
	}
	v.SetAccelerate(false)
	v.SetBrake(true)
	return fe.stoppingDistance(v, dt)
}

// coastTrial returns the distance covered rolling out from cruise speed.
func (fe *FitnessEvaluator) coastTrial(v *vehicle.Vehicle, dt float64) float64 {
	if !fe.reachCruise(v, dt) {
		return 0
	}
	v.SetAccelerate(false)
	return fe.stoppingDistance(v, dt)
}

func (fe *FitnessEvaluator) reachCruise(v *vehicle.Vehicle, dt float64) bool {
	return fe.launchTrial(v, dt) < fe.maxTime
}

// stoppingDistance runs until the vehicle stops and returns the path length.
// A vehicle still rolling after maxTime scores the distance so far.
func (fe *FitnessEvaluator) stoppingDistance(v *vehicle.Vehicle, dt float64) float64 {
	var dist, elapsed float64
	last := v.Position()
	for elapsed < fe.maxTime && v.Speed() > 0 {
		v.Update(dt)
		elapsed += dt
		pos := v.Position()
		dist += pos.Sub(last).Len()
		last = pos
	}
	return dist
}

// computeFitness sums the squared relative errors of every figure.
func (fe *FitnessEvaluator) computeFitness(m Measurements) float64 {
	return relErr2(m.LaunchTime, fe.targets.LaunchTime) +
		relErr2(m.BrakeDistance, fe.targets.BrakeDistance) +
		relErr2(m.CoastDistance, fe.targets.CoastDistance)
}

func relErr2(got, want float64) float64 {
	if want == 0 {
		return got * got
	}
	e := (got - want) / want
	return e * e
}

// copyConfig creates a copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	return fe.baseConfig.Clone()
}
