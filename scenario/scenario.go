// Package scenario loads driving scripts: timed sequences of control inputs
// used for headless runs, tuning and regression checks.
package scenario

import (
	"embed"
	"fmt"
	"math"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed scripts/*.yaml
var builtinFS embed.FS

// Steering values accepted in scripts.
const (
	SteerLeft  = "left"
	SteerRight = "right"
)

// Segment holds one set of inputs for a fixed duration.
type Segment struct {
	Duration   float64 `yaml:"duration"`
	Accelerate bool    `yaml:"accelerate,omitempty"`
	Brake      bool    `yaml:"brake,omitempty"`
	Reverse    bool    `yaml:"reverse,omitempty"`
	Steer      string  `yaml:"steer,omitempty"`
}

// SteerSign returns +1 for left, -1 for right and 0 otherwise.
func (s Segment) SteerSign() int {
	switch s.Steer {
	case SteerLeft:
		return 1
	case SteerRight:
		return -1
	default:
		return 0
	}
}

// Script is an ordered list of segments.
type Script struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description,omitempty"`
	Segments    []Segment `yaml:"segments"`
}

// Parse decodes and validates a script.
func Parse(data []byte) (*Script, error) {
	s := &Script{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads a script from a YAML file.
// A script without a name is named after the file.
func Load(p string) (*Script, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(path.Base(p), path.Ext(p))
	}
	return s, nil
}

// Builtin returns one of the embedded scripts by name.
func Builtin(name string) (*Script, error) {
	data, err := builtinFS.ReadFile("scripts/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown builtin script %q (have %s)", name, strings.Join(Builtins(), ", "))
	}
	return Parse(data)
}

// Builtins lists the embedded script names.
func Builtins() []string {
	entries, err := builtinFS.ReadDir("scripts")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// Resolve returns the builtin with the given name, or loads it as a file path.
func Resolve(nameOrPath string) (*Script, error) {
	if s, err := Builtin(nameOrPath); err == nil {
		return s, nil
	}
	return Load(nameOrPath)
}

// Validate checks durations and steering values.
func (s *Script) Validate() error {
	if len(s.Segments) == 0 {
		return fmt.Errorf("script %q: no segments", s.Name)
	}
	for i, seg := range s.Segments {
		if !(seg.Duration > 0) || math.IsInf(seg.Duration, 0) {
			return fmt.Errorf("script %q: segment %d: duration must be positive and finite, got %v", s.Name, i, seg.Duration)
		}
		switch seg.Steer {
		case "", SteerLeft, SteerRight:
		default:
			return fmt.Errorf("script %q: segment %d: unknown steer %q", s.Name, i, seg.Steer)
		}
	}
	return nil
}

// Duration returns the total scripted time in seconds.
func (s *Script) Duration() float64 {
	var total float64
	for _, seg := range s.Segments {
		total += seg.Duration
	}
	return total
}

// ControlsAt returns the segment active at time t.
// Negative times clamp to the start. ok is false once the script has run out.
func (s *Script) ControlsAt(t float64) (seg Segment, ok bool) {
	if t < 0 {
		t = 0
	}
	var start float64
	for _, seg := range s.Segments {
		if t < start+seg.Duration {
			return seg, true
		}
		start += seg.Duration
	}
	return Segment{}, false
}
