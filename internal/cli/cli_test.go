package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/philipparndt/printbase/internal/config"
	"github.com/philipparndt/printbase/pkg/external"
	"github.com/philipparndt/printbase/pkg/foundation"
	"github.com/philipparndt/printbase/pkg/geometry"
	"github.com/philipparndt/printbase/pkg/meshio"
	"github.com/philipparndt/printbase/pkg/pipeline"
	"github.com/philipparndt/printbase/pkg/scene"
	"github.com/philipparndt/printbase/pkg/stl"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeBox saves a 2 x 2 footprint box as GLB and returns its path
func writeBox(t *testing.T, dir string) string {
	t.Helper()
	box := scene.NewObject("box")
	for _, c := range (geometry.BoundingBox{
		Min: geometry.NewVector3(-1, 0, -1),
		Max: geometry.NewVector3(1, 2, 1),
	}).Corners() {
		box.AddVertex(c)
	}
	box.AddFace(0, 1, 2)
	box.AddFace(4, 5, 6)
	path := filepath.Join(dir, "box.glb")
	require.NoError(t, meshio.Save(path, scene.New(box)))
	return path
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestFoundationCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeBox(t, dir)
	output := filepath.Join(dir, "out.stl")

	out, err := execute(t, NewFoundationCommand(&Options{}), input, output, "0.2", "0.1", "--segments", "16")
	require.NoError(t, err)

	assert.Contains(t, out, "Foundation: radius=1.2, thickness=0.2")
	assert.Contains(t, out, "Successfully created "+output)
	assert.Contains(t, out, "Output: 66 triangles")

	model, err := stl.Parse(output)
	require.NoError(t, err)
	assert.Equal(t, 2+4*16, model.TriangleCount())
}

func TestFoundationCommandMissingInput(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.stl")

	_, err := execute(t, NewFoundationCommand(&Options{}), filepath.Join(dir, "missing.glb"), output)
	assert.ErrorIs(t, err, pipeline.ErrInputMissing)

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFoundationCommandRejectsBadArguments(t *testing.T) {
	dir := t.TempDir()
	input := writeBox(t, dir)

	_, err := execute(t, NewFoundationCommand(&Options{}), input, filepath.Join(dir, "out.stl"), "wide")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "margin_ratio")

	_, err = execute(t, NewFoundationCommand(&Options{}), input, filepath.Join(dir, "out.stl"), "0.1", "--", "-0.5")
	assert.ErrorIs(t, err, foundation.ErrInvalidParams)

	_, err = execute(t, NewFoundationCommand(&Options{}), input, filepath.Join(dir, "out.obj"))
	assert.ErrorIs(t, err, meshio.ErrUnsupportedFormat)
}

func TestPipelineCommandWithConfig(t *testing.T) {
	dir := t.TempDir()
	tempDir := filepath.Join(dir, "tmp")
	require.NoError(t, os.Mkdir(tempDir, 0o755))
	input := writeBox(t, dir)
	output := filepath.Join(dir, "printed.stl")

	cfgPath := filepath.Join(dir, "printbase.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"temp_dir: "+tempDir+"\n"+
			"repair:\n  backend: native\n"+
			"tools:\n  converter: native\n"), 0o644))

	runner := &external.FakeRunner{}
	out, err := execute(t, NewPipelineCommand(&Options{Runner: runner}), input, output, "--config", cfgPath)
	require.NoError(t, err)

	assert.Empty(t, runner.Calls)
	assert.Contains(t, out, "Step 3/3: Adding foundation")
	assert.Contains(t, out, "Successfully created "+output)

	entries, err := os.ReadDir(tempDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPipelineCommandMissingInputMakesNoCalls(t *testing.T) {
	dir := t.TempDir()
	runner := &external.FakeRunner{}

	_, err := execute(t, NewPipelineCommand(&Options{Runner: runner}), filepath.Join(dir, "missing.glb"), filepath.Join(dir, "out.stl"))
	assert.ErrorIs(t, err, pipeline.ErrInputMissing)
	assert.Empty(t, runner.Calls)
}

func TestRepairCommandUsesConfiguredTools(t *testing.T) {
	dir := t.TempDir()
	input := writeBox(t, dir)
	output := filepath.Join(dir, "repaired.stl")

	runner := &external.FakeRunner{
		Handler: func(name string, args []string) (*external.Result, error) {
			return &external.Result{}, nil
		},
	}
	_, err := execute(t, NewRepairCommand(&Options{Runner: runner}), input, output,
		"--assimp", "/opt/assimp", "--python", "/usr/bin/python3.12")

	// the fake tools write nothing, so there is no output to summarize
	require.NoError(t, err)
	require.Len(t, runner.Calls, 2)
	assert.Equal(t, "/opt/assimp", runner.Calls[0].Name)
	assert.Equal(t, "/usr/bin/python3.12", runner.Calls[1].Name)
}

func TestResolveFlagPrecedence(t *testing.T) {
	opts := &Options{}
	cmd := NewFoundationCommand(opts)
	require.NoError(t, cmd.ParseFlags([]string{"--min-thickness", "0.5"}))

	cfg, err := opts.Resolve(cmd.Flags())
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.Foundation.MinThickness)
	assert.Equal(t, config.Default().Foundation.Segments, cfg.Foundation.Segments, "unset flags leave config alone")

	require.NoError(t, applyRatios(cfg, []string{"0.3"}))
	assert.Equal(t, 0.3, cfg.Foundation.MarginRatio)
	assert.Equal(t, foundation.DefaultThicknessRatio, cfg.Foundation.ThicknessRatio)
}

func TestVersionFlag(t *testing.T) {
	out, err := execute(t, NewPipelineCommand(&Options{}), "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "dev")
}

func TestWatchLoopRunsOncePerChange(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan string)
	runs := 0
	run := func() error {
		runs++
		if runs == 2 {
			cancel()
		}
		return nil
	}

	done := make(chan struct{})
	go func() {
		watchLoop(ctx, changes, run, zerolog.Nop())
		close(done)
	}()

	changes <- "/models/box.glb"
	changes <- "/models/box.glb"

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watch loop did not stop after cancel")
	}
	assert.Equal(t, 2, runs)
}
