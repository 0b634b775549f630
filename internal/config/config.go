package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"bd1-manipulator/internal/manipulator"
	"bd1-manipulator/internal/mathutil"
)

// ErrUnknownOp is returned for a step whose op is not recognised.
var ErrUnknownOp = errors.New("unknown transform op")

// Config holds a transform recipe and the files it applies to.
type Config struct {
	// Paths
	Input     string `json:"input" yaml:"input"`
	Output    string `json:"output" yaml:"output"`
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Transform settings
	Degrees bool   `json:"degrees" yaml:"degrees"` // step angles are in degrees
	Steps   []Step `json:"steps" yaml:"steps"`
	Workers int    `json:"workers" yaml:"workers"`
}

// Step is one transform in a recipe. Which fields matter depends on Op.
type Step struct {
	Op     string    `json:"op" yaml:"op"`
	X      float32   `json:"x" yaml:"x"`
	Y      float32   `json:"y" yaml:"y"`
	Z      float32   `json:"z" yaml:"z"`
	Angle  float32   `json:"angle" yaml:"angle"`
	Axis   []float32 `json:"axis,omitempty" yaml:"axis,omitempty"`
	Matrix []float32 `json:"matrix,omitempty" yaml:"matrix,omitempty"` // 16 values, row-major
}

// Load reads a recipe file. ".yaml" and ".yml" are parsed as YAML,
// anything else as JSON.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Input     string
	Output    string
	OutputDir string
	Degrees   bool
	Steps     []Step // appended after the recipe's steps
	Workers   int
}

// Resolve applies CLI overrides and fills defaults.
func (c *Config) Resolve(flags Flags) {
	if flags.Input != "" {
		c.Input = flags.Input
	}
	if flags.Output != "" {
		c.Output = flags.Output
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Degrees {
		c.Degrees = true
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	c.Steps = append(c.Steps, flags.Steps...)

	if c.Output == "" && c.Input != "" {
		c.Output = DefaultOutput(c.Input)
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// DefaultOutput derives "<name>_out<ext>" from an input path, keeping a
// trailing ".zst".
func DefaultOutput(input string) string {
	zst := ""
	if strings.HasSuffix(input, ".zst") {
		zst = ".zst"
		input = strings.TrimSuffix(input, zst)
	}
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_out" + ext + zst
}

// Validate checks every step op.
func (c *Config) Validate() error {
	for i, s := range c.Steps {
		if err := s.validate(); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}

func (s Step) validate() error {
	switch s.Op {
	case "translate", "scale", "rotate_x", "rotate_y", "rotate_z", "reset":
		return nil
	case "rotate":
		if len(s.Axis) != 3 {
			return fmt.Errorf("rotate step needs a 3-component axis, got %d", len(s.Axis))
		}
		return nil
	case "matrix":
		if len(s.Matrix) != 16 {
			return fmt.Errorf("matrix step needs 16 values, got %d", len(s.Matrix))
		}
		return nil
	}
	return fmt.Errorf("%w %q", ErrUnknownOp, s.Op)
}

// Apply composes every step onto m in order. It does not bake vertices;
// call m.Apply afterwards.
func (c *Config) Apply(m *manipulator.Manipulator) error {
	angle := func(a float32) float32 {
		if c.Degrees {
			return mathutil.Deg2Rad(a)
		}
		return a
	}

	if err := c.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	for _, s := range c.Steps {
		switch s.Op {
		case "translate":
			m.Translate(s.X, s.Y, s.Z)
		case "scale":
			m.Scale(s.X, s.Y, s.Z)
		case "rotate_x":
			m.RotateX(angle(s.Angle))
		case "rotate_y":
			m.RotateY(angle(s.Angle))
		case "rotate_z":
			m.RotateZ(angle(s.Angle))
		case "rotate":
			m.Rotate(angle(s.Angle), s.Axis[0], s.Axis[1], s.Axis[2])
		case "matrix":
			var rows [16]float32
			copy(rows[:], s.Matrix)
			m.Compose(mathutil.FromRows(rows))
		case "reset":
			m.ResetTransform()
		}
	}
	return nil
}

// ParseSteps parses a ";"-separated list of steps. Empty input yields none.
func ParseSteps(s string) ([]Step, error) {
	var steps []Step
	for _, part := range strings.Split(s, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		step, err := ParseStep(part)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// ParseStep parses a command-line step of the form "op:a,b,c".
//
//	translate:1,2,3  scale:2,2,2  rotate_z:90  rotate:45,0,0,1  reset
func ParseStep(s string) (Step, error) {
	op, args, _ := strings.Cut(s, ":")
	step := Step{Op: strings.TrimSpace(op)}

	var vals []float32
	if args != "" {
		for _, f := range strings.Split(args, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 32)
			if err != nil {
				return Step{}, fmt.Errorf("config: step %q: %w", s, err)
			}
			vals = append(vals, float32(v))
		}
	}

	want := 0
	switch step.Op {
	case "translate", "scale":
		want = 3
	case "rotate_x", "rotate_y", "rotate_z":
		want = 1
	case "rotate":
		want = 4
	case "matrix":
		want = 16
	case "reset":
	default:
		return Step{}, fmt.Errorf("config: step %q: %w", s, ErrUnknownOp)
	}
	if len(vals) != want {
		return Step{}, fmt.Errorf("config: step %q: want %d values, got %d", s, want, len(vals))
	}

	switch step.Op {
	case "translate", "scale":
		step.X, step.Y, step.Z = vals[0], vals[1], vals[2]
	case "rotate_x", "rotate_y", "rotate_z":
		step.Angle = vals[0]
	case "rotate":
		step.Angle = vals[0]
		step.Axis = vals[1:]
	case "matrix":
		step.Matrix = vals
	}
	return step, nil
}
