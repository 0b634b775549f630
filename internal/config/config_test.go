package config

import (
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bd1-manipulator/internal/manipulator"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "recipe.yaml", `
input: level.bd1
degrees: true
workers: 3
steps:
  - op: rotate_z
    angle: 90
  - op: scale
    x: 2
    y: 2
    z: 2
  - op: rotate
    angle: 45
    axis: [0, 0, 1]
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "level.bd1", cfg.Input)
	assert.True(t, cfg.Degrees)
	assert.Equal(t, 3, cfg.Workers)
	require.Len(t, cfg.Steps, 3)
	assert.Equal(t, Step{Op: "rotate_z", Angle: 90}, cfg.Steps[0])
	assert.Equal(t, []float32{0, 0, 1}, cfg.Steps[2].Axis)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "recipe.json", `{
  "output": "out.bd1",
  "steps": [
    {"op": "translate", "x": 1, "y": 2, "z": 3},
    {"op": "matrix", "matrix": [1,0,0,0, 0,1,0,0, 0,0,1,0, 0,0,0,1]}
  ]
}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "out.bd1", cfg.Output)
	require.Len(t, cfg.Steps, 2)
	assert.Len(t, cfg.Steps[1].Matrix, 16)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.json", `{"steps": [`))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.yaml", "steps:\n  - op: shear\n"))
	assert.ErrorIs(t, err, ErrUnknownOp)

	_, err = Load(writeFile(t, "short.yaml", "steps:\n  - op: matrix\n    matrix: [1, 2, 3]\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "axis.yaml", "steps:\n  - op: rotate\n    angle: 1\n"))
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	cfg := Config{Input: "a.bd1", Steps: []Step{{Op: "reset"}}}
	cfg.Resolve(Flags{Steps: []Step{{Op: "scale", X: 1, Y: 1, Z: 1}}})

	assert.Equal(t, "a_out.bd1", cfg.Output)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	require.Len(t, cfg.Steps, 2)
	assert.Equal(t, "scale", cfg.Steps[1].Op)

	cfg = Config{Input: "a.bd1", Output: "b.bd1", Workers: 2}
	cfg.Resolve(Flags{Input: "c.bd1", Output: "d.bd1", OutputDir: "out", Degrees: true, Workers: 5})
	assert.Equal(t, "c.bd1", cfg.Input)
	assert.Equal(t, "d.bd1", cfg.Output)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.True(t, cfg.Degrees)
	assert.Equal(t, 5, cfg.Workers)
}

func TestDefaultOutput(t *testing.T) {
	assert.Equal(t, "dir/map_out.bd1", DefaultOutput("dir/map.bd1"))
	assert.Equal(t, "map_out.bd1.zst", DefaultOutput("map.bd1.zst"))
	assert.Equal(t, "map_out", DefaultOutput("map"))
}

func TestParseStep(t *testing.T) {
	cases := []struct {
		in   string
		want Step
	}{
		{"translate:1,2,3", Step{Op: "translate", X: 1, Y: 2, Z: 3}},
		{"scale: 2, 2, 0.5", Step{Op: "scale", X: 2, Y: 2, Z: 0.5}},
		{"rotate_y:90", Step{Op: "rotate_y", Angle: 90}},
		{"rotate:45,0,0,1", Step{Op: "rotate", Angle: 45, Axis: []float32{0, 0, 1}}},
		{"reset", Step{Op: "reset"}},
	}
	for _, tc := range cases {
		got, err := ParseStep(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	m, err := ParseStep("matrix:1,0,0,0,0,1,0,0,0,0,1,0,0,0,0,1")
	require.NoError(t, err)
	assert.Len(t, m.Matrix, 16)

	for _, bad := range []string{"shear:1", "translate:1,2", "rotate_x", "scale:a,b,c", "reset:1"} {
		_, err := ParseStep(bad)
		assert.Error(t, err, bad)
	}
	_, err = ParseStep("shear:1")
	assert.ErrorIs(t, err, ErrUnknownOp)
}

func TestApply(t *testing.T) {
	cfg := Config{
		Degrees: true,
		Steps: []Step{
			{Op: "translate", X: 9, Y: 9, Z: 9},
			{Op: "rotate_z", Angle: 90},
			{Op: "scale", X: 2, Y: 1, Z: 1},
		},
	}
	m := manipulator.New()
	require.NoError(t, cfg.Apply(m))

	want := mgl32.Translate3D(9, 9, 9).
		Mul4(mgl32.HomogRotate3DZ(math.Pi / 2)).
		Mul4(mgl32.Scale3D(2, 1, 1))
	got := m.Transform()
	assert.InDeltaSlice(t, want[:], got[:], 1e-5)
}

func TestApplyReset(t *testing.T) {
	cfg := Config{Steps: []Step{{Op: "scale", X: 2, Y: 2, Z: 2}, {Op: "reset"}, {Op: "rotate_x", Angle: math.Pi}}}
	m := manipulator.New()
	require.NoError(t, cfg.Apply(m))
	want := mgl32.HomogRotate3DX(math.Pi)
	got := m.Transform()
	assert.InDeltaSlice(t, want[:], got[:], 1e-5)
}

func TestApplyUnknownOp(t *testing.T) {
	cfg := Config{Steps: []Step{{Op: "translate"}, {Op: "warp"}}}
	m := manipulator.New()
	err := cfg.Apply(m)
	assert.ErrorIs(t, err, ErrUnknownOp)
	assert.Equal(t, mgl32.Ident4(), m.Transform())
}

func TestParseSteps(t *testing.T) {
	steps, err := ParseSteps("rotate:45,0,0,1; scale:2,2,2;")
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "rotate", steps[0].Op)
	assert.Equal(t, float32(2), steps[1].Z)

	steps, err = ParseSteps("")
	require.NoError(t, err)
	assert.Empty(t, steps)

	_, err = ParseSteps("reset;shear:1")
	assert.ErrorIs(t, err, ErrUnknownOp)
}
