package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"
)

// evalLog appends one CSV row per evaluation, prints progress and keeps the
// best parameter vector seen.
type evalLog struct {
	file     *os.File
	w        *csv.Writer
	maxEvals int
	start    time.Time

	count       int
	bestFitness float64
	bestParams  []float64
}

func newEvalLog(path string, params *ParamVector, maxEvals int) (*evalLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating log file: %w", err)
	}

	header := []string{"eval", "fitness", "launch_time", "brake_distance", "coast_distance"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing log header: %w", err)
	}

	return &evalLog{
		file:        f,
		w:           w,
		maxEvals:    maxEvals,
		start:       time.Now(),
		bestFitness: math.Inf(1),
	}, nil
}

// Record logs one evaluation with the clamped values it used.
func (l *evalLog) Record(fitness float64, m Measurements, values []float64) {
	l.count++
	if fitness < l.bestFitness {
		l.bestFitness = fitness
		l.bestParams = append(l.bestParams[:0], values...)
	}

	row := []string{
		strconv.Itoa(l.count),
		strconv.FormatFloat(fitness, 'f', 6, 64),
		strconv.FormatFloat(m.LaunchTime, 'f', 4, 64),
		strconv.FormatFloat(m.BrakeDistance, 'f', 4, 64),
		strconv.FormatFloat(m.CoastDistance, 'f', 4, 64),
	}
	for _, v := range values {
		row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
	}
	l.w.Write(row)
	l.w.Flush()

	elapsed := time.Since(l.start)
	remaining := time.Duration(l.maxEvals-l.count) * (elapsed / time.Duration(l.count))
	fmt.Printf("Eval %d/%d: launch=%.2fs brake=%.1f coast=%.1f fitness=%.5f (best=%.5f) | elapsed: %s, ETA: %s\n",
		l.count, l.maxEvals, m.LaunchTime, m.BrakeDistance, m.CoastDistance, fitness, l.bestFitness,
		formatDuration(elapsed), formatDuration(remaining))
}

// Count returns the number of recorded evaluations.
func (l *evalLog) Count() int { return l.count }

// Elapsed returns the time since the log was opened.
func (l *evalLog) Elapsed() time.Duration { return time.Since(l.start) }

// BestFitness returns the lowest fitness recorded.
func (l *evalLog) BestFitness() float64 { return l.bestFitness }

// BestParams returns the values of the best evaluation, or nil before the first.
func (l *evalLog) BestParams() []float64 { return l.bestParams }

// Close flushes and closes the CSV file.
func (l *evalLog) Close() error {
	l.w.Flush()
	if err := l.w.Error(); err != nil {
		l.file.Close()
		return err
	}
	return l.file.Close()
}
