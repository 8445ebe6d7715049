// Package cli builds the cobra commands of the printbase tools.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/philipparndt/printbase/internal/config"
	"github.com/philipparndt/printbase/internal/logging"
	"github.com/philipparndt/printbase/pkg/analysis"
	"github.com/philipparndt/printbase/pkg/convert"
	"github.com/philipparndt/printbase/pkg/external"
	"github.com/philipparndt/printbase/pkg/foundation"
	"github.com/philipparndt/printbase/pkg/meshio"
	"github.com/philipparndt/printbase/pkg/pipeline"
	"github.com/philipparndt/printbase/pkg/repair"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Options are the flags shared by every tool
type Options struct {
	ConfigPath   string
	Verbose      bool
	MinThickness float64
	Segments     int
	Converter    string
	Repairer     string
	Assimp       string
	Python       string

	// Runner executes external tools; nil means real processes
	Runner external.Runner
}

// AddFlags registers the shared flags on fs
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	defaults := config.Default()
	fs.StringVar(&o.ConfigPath, "config", "", "YAML configuration file")
	fs.BoolVarP(&o.Verbose, "verbose", "v", false, "print debug diagnostics and a detailed model summary")
	fs.Float64Var(&o.MinThickness, "min-thickness", defaults.Foundation.MinThickness, "minimum foundation thickness")
	fs.IntVar(&o.Segments, "segments", defaults.Foundation.Segments, "number of sides of the foundation cylinder")
	fs.StringVar(&o.Converter, "converter", defaults.Tools.Converter, "format converter: assimp or native")
	fs.StringVar(&o.Repairer, "repairer", defaults.Repair.Backend, "mesh repair backend: trimesh or native")
	fs.StringVar(&o.Assimp, "assimp", defaults.Tools.Assimp, "path to the assimp executable")
	fs.StringVar(&o.Python, "python", defaults.Tools.Python, "python interpreter with trimesh installed")
}

// Resolve loads the config file, if any, and lays explicitly set flags over it
func (o *Options) Resolve(fs *pflag.FlagSet) (*config.Config, error) {
	cfg := config.Default()
	if o.ConfigPath != "" {
		loaded, err := config.Load(o.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if fs.Changed("min-thickness") {
		cfg.Foundation.MinThickness = o.MinThickness
	}
	if fs.Changed("segments") {
		cfg.Foundation.Segments = o.Segments
	}
	if fs.Changed("converter") {
		cfg.Tools.Converter = o.Converter
	}
	if fs.Changed("repairer") {
		cfg.Repair.Backend = o.Repairer
	}
	if fs.Changed("assimp") {
		cfg.Tools.Assimp = o.Assimp
	}
	if fs.Changed("python") {
		cfg.Tools.Python = o.Python
	}
	return cfg, nil
}

// applyRatios overrides the foundation ratios with the optional positional
// arguments margin_ratio and thickness_ratio.
func applyRatios(cfg *config.Config, args []string) error {
	names := []string{"margin_ratio", "thickness_ratio"}
	targets := []*float64{&cfg.Foundation.MarginRatio, &cfg.Foundation.ThicknessRatio}
	if len(args) > len(targets) {
		return fmt.Errorf("too many arguments: %v", args)
	}
	for i, arg := range args {
		value, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", names[i], arg, err)
		}
		*targets[i] = value
	}
	return nil
}

// checkInput fails early when the input file does not exist
func checkInput(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", pipeline.ErrInputMissing, path)
	}
	return nil
}

// env is everything a command needs once flags and config are resolved
type env struct {
	out     io.Writer
	log     zerolog.Logger
	cfg     *config.Config
	runner  external.Runner
	verbose bool
}

func (o *Options) setup(cmd *cobra.Command, ratios []string) (*env, error) {
	cfg, err := o.Resolve(cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := applyRatios(cfg, ratios); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logging.New(cmd.ErrOrStderr(), o.Verbose)
	runner := o.Runner
	if runner == nil {
		runner = external.NewExecRunner(log)
	}
	return &env{out: cmd.OutOrStdout(), log: log, cfg: cfg, runner: runner, verbose: o.Verbose}, nil
}

func (e *env) foundationStage() *foundation.Stage {
	return foundation.NewStage(e.cfg.FoundationParams(), e.out, e.log)
}

func (e *env) driver() (*pipeline.Driver, error) {
	conv, err := convert.New(e.cfg.Tools.Converter, e.runner, e.cfg.Tools.Assimp)
	if err != nil {
		return nil, err
	}
	rep, err := repair.New(e.cfg.Repair.Backend, repair.NewTrimesh(e.runner, e.cfg.Tools.Python, e.cfg.RepairOptions()))
	if err != nil {
		return nil, err
	}
	return &pipeline.Driver{
		Converter:  conv,
		Repairer:   rep,
		Foundation: e.foundationStage(),
		Out:        e.out,
		Log:        e.log,
		TempDir:    e.cfg.TempDir,
	}, nil
}

// success confirms the output and summarizes it. A summary that cannot be
// produced is only a warning; the file has been written.
func (e *env) success(output string) {
	fmt.Fprintf(e.out, "Successfully created %s\n", output)

	s, err := meshio.Load(output)
	if err != nil {
		e.log.Warn().Err(err).Msg("could not read back output for summary")
		return
	}
	summary, err := analysis.Summarize(s)
	if err != nil {
		e.log.Warn().Err(err).Msg("could not summarize output")
		return
	}
	if e.verbose {
		summary.Print(e.out)
		return
	}
	size := summary.Dimensions
	fmt.Fprintf(e.out, "Output: %d triangles, %.1f x %.1f x %.1f\n", summary.TriangleCount, size.X, size.Y, size.Z)
}
