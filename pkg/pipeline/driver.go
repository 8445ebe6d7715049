// Package pipeline sequences repair, format bridging and foundation building
// into a single file-to-file run.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/philipparndt/printbase/pkg/convert"
	"github.com/philipparndt/printbase/pkg/foundation"
	"github.com/philipparndt/printbase/pkg/meshio"
	"github.com/philipparndt/printbase/pkg/repair"
	"github.com/rs/zerolog"
)

// ErrInputMissing is returned when the input file does not exist.
// Nothing external has been invoked when it is returned.
var ErrInputMissing = errors.New("input file not found")

// Driver owns the collaborators of one pipeline
type Driver struct {
	Converter  convert.Converter
	Repairer   repair.Repairer
	Foundation *foundation.Stage
	Out        io.Writer
	Log        zerolog.Logger
	// TempDir is the parent of per-run temp directories; empty means os.TempDir()
	TempDir string
}

// Result describes a finished or failed run
type Result struct {
	State      State
	Input      string
	Output     string
	Repair     *repair.Report
	Foundation *foundation.Result
	// CleanedUp lists the temp files removed after the run
	CleanedUp []string
}

type step struct {
	state State
	title string
	run   func() error
}

// Run repairs input, bridges it back to GLB and adds the foundation,
// writing output. Stages run strictly one after the other; the first
// failure stops the run. Temp files are removed whatever the outcome.
func (d *Driver) Run(input, output string) (*Result, error) {
	res := &Result{Input: input, Output: output}
	if err := d.precheck(input, output); err != nil {
		res.State = StateFailed
		return res, err
	}

	ws, err := newWorkspace(d.TempDir, d.Out, d.Log)
	if err != nil {
		res.State = StateFailed
		return res, err
	}
	defer func() { res.CleanedUp = ws.cleanup() }()

	converted := ws.file("converted.stl")
	smoothed := ws.file("smoothed.stl")
	bridged := ws.file("smoothed.glb")

	err = d.execute(res, []step{
		{StateRepairing, "Repairing and smoothing mesh", func() error {
			report, err := d.repairMesh(input, converted, smoothed)
			res.Repair = report
			return err
		}},
		{StateConverting, "Converting smoothed STL to GLB", func() error {
			return d.Converter.Convert(smoothed, bridged)
		}},
		{StateBuildingFoundation, "Adding foundation", func() error {
			result, err := d.Foundation.Run(bridged, output)
			res.Foundation = result
			return err
		}},
	})
	return res, err
}

// Repair converts input to STL with the bridge and repairs it into output,
// the first stage of Run on its own.
func (d *Driver) Repair(input, output string) (*Result, error) {
	res := &Result{Input: input, Output: output}
	if err := d.precheck(input, output); err != nil {
		res.State = StateFailed
		return res, err
	}

	ws, err := newWorkspace(d.TempDir, d.Out, d.Log)
	if err != nil {
		res.State = StateFailed
		return res, err
	}
	defer func() { res.CleanedUp = ws.cleanup() }()

	converted := ws.file("converted.stl")

	err = d.execute(res, []step{
		{StateRepairing, "Repairing and smoothing mesh", func() error {
			report, err := d.repairMesh(input, converted, output)
			res.Repair = report
			return err
		}},
	})
	return res, err
}

// precheck fails before any external call when the input is missing or the
// output extension cannot be written.
func (d *Driver) precheck(input, output string) error {
	info, err := os.Stat(input)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrInputMissing, input)
	}
	if err != nil {
		return fmt.Errorf("cannot read input %s: %w", input, err)
	}
	if info.IsDir() {
		return fmt.Errorf("input %s is a directory", input)
	}
	if _, err := meshio.Detect(output); err != nil {
		return err
	}
	return nil
}

func (d *Driver) repairMesh(input, converted, output string) (*repair.Report, error) {
	fmt.Fprintf(d.Out, "Converting %s to STL...\n", input)
	if err := d.Converter.Convert(input, converted); err != nil {
		return nil, err
	}

	fmt.Fprintln(d.Out, "Loading and repairing mesh...")
	report, err := d.Repairer.Repair(converted, output)
	if err != nil {
		return nil, err
	}
	report.Log(d.Log)
	if skipped := report.Skipped(); len(skipped) > 0 {
		fmt.Fprintf(d.Out, "Repair finished with %d of %d steps skipped\n", len(skipped), len(report.Steps))
	}
	fmt.Fprintf(d.Out, "Repaired and smoothed STL saved as %s\n", output)
	return report, nil
}

func (d *Driver) execute(res *Result, steps []step) error {
	for i, s := range steps {
		res.State = s.state
		fmt.Fprintf(d.Out, "Step %d/%d: %s...\n", i+1, len(steps), s.title)
		d.Log.Debug().Str("state", s.state.String()).Msg("entering state")

		if err := s.run(); err != nil {
			res.State = StateFailed
			return &StageError{State: s.state, Err: err}
		}
	}
	res.State = StateDone
	return nil
}
