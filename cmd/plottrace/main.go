// Package main renders a recorded vehicle trace as PNG plots: the ground
// track of every vehicle with sliding stretches marked, and speed over time.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/pthm-cable/kart/telemetry"
)

// Track is the trace of one vehicle in sample order.
type Track struct {
	ID      uint32
	Name    string
	Samples []telemetry.Sample
}

// groupTracks splits samples by vehicle, keeping first-seen vehicle order.
func groupTracks(samples []telemetry.Sample) []Track {
	index := make(map[uint32]int)
	var tracks []Track
	for _, s := range samples {
		i, ok := index[s.VehicleID]
		if !ok {
			i = len(tracks)
			index[s.VehicleID] = i
			tracks = append(tracks, Track{ID: s.VehicleID, Name: s.Name})
		}
		tracks[i].Samples = append(tracks[i].Samples, s)
	}
	return tracks
}

// groundPoints returns the X/Z path of a track and the subset recorded while sliding.
func groundPoints(tr Track) (path, sliding plotter.XYs) {
	path = make(plotter.XYs, len(tr.Samples))
	for i, s := range tr.Samples {
		path[i].X = s.X
		path[i].Y = s.Z
		if s.Sliding {
			sliding = append(sliding, path[i])
		}
	}
	return path, sliding
}

// speedPoints returns speed against simulated time.
func speedPoints(tr Track) plotter.XYs {
	pts := make(plotter.XYs, len(tr.Samples))
	for i, s := range tr.Samples {
		pts[i].X = s.SimTime
		pts[i].Y = s.Speed
	}
	return pts
}

func label(tr Track) string {
	if tr.Name != "" {
		return tr.Name
	}
	return fmt.Sprintf("vehicle %d", tr.ID)
}

// pathPlot draws every ground track on a shared X/Z plane.
func pathPlot(tracks []Track) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Ground track"
	p.X.Label.Text = "x"
	p.Y.Label.Text = "z"
	p.Add(plotter.NewGrid())

	slideColor := color.RGBA{R: 220, G: 60, B: 40, A: 255}
	hasSlides := false

	for i, tr := range tracks {
		path, sliding := groundPoints(tr)
		line, err := plotter.NewLine(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", label(tr), err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(label(tr), line)

		if len(sliding) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(sliding)
		if err != nil {
			return nil, fmt.Errorf("%s sliding: %w", label(tr), err)
		}
		sc.GlyphStyle.Color = slideColor
		sc.GlyphStyle.Radius = vg.Points(1.5)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)
		if !hasSlides {
			p.Legend.Add("sliding", sc)
			hasSlides = true
		}
	}
	return p, nil
}

// speedPlot draws speed over time for every track.
func speedPlot(tracks []Track) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Speed"
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = "speed"
	p.Add(plotter.NewGrid())

	for i, tr := range tracks {
		line, err := plotter.NewLine(speedPoints(tr))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", label(tr), err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(label(tr), line)
	}
	return p, nil
}

// render writes both plots into dir and returns their paths.
func render(samples []telemetry.Sample, dir string, width, height vg.Length) ([]string, error) {
	tracks := groupTracks(samples)
	if len(tracks) == 0 {
		return nil, fmt.Errorf("trace has no samples")
	}

	builders := []struct {
		file  string
		build func([]Track) (*plot.Plot, error)
	}{
		{"path.png", pathPlot},
		{"speed.png", speedPlot},
	}

	var written []string
	for _, b := range builders {
		p, err := b.build(tracks)
		if err != nil {
			return written, err
		}
		out := filepath.Join(dir, b.file)
		if err := p.Save(width, height, out); err != nil {
			return written, fmt.Errorf("saving %s: %w", out, err)
		}
		written = append(written, out)
	}
	return written, nil
}

func main() {
	tracePath := flag.String("trace", "", "Path to a trace.csv written by a session")
	outputDir := flag.String("output", "", "Output directory for PNG plots (default: next to the trace)")
	width := flag.Float64("width", 8, "Plot width in inches")
	height := flag.Float64("height", 6, "Plot height in inches")
	flag.Parse()

	if *tracePath == "" {
		log.Fatal("--trace is required")
	}
	dir := *outputDir
	if dir == "" {
		dir = filepath.Dir(*tracePath)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	samples, err := telemetry.ReadTrace(*tracePath)
	if err != nil {
		log.Fatalf("failed to read trace: %v", err)
	}

	written, err := render(samples, dir, vg.Length(*width)*vg.Inch, vg.Length(*height)*vg.Inch)
	if err != nil {
		log.Fatalf("failed to render plots: %v", err)
	}
	for _, p := range written {
		fmt.Printf("Wrote %s\n", p)
	}
}
