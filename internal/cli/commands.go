package cli

import (
	"github.com/philipparndt/printbase/version"
	"github.com/spf13/cobra"
)

func newRoot(use, short, long string, args cobra.PositionalArgs) *cobra.Command {
	return &cobra.Command{
		Use:           use,
		Short:         short,
		Long:          long,
		Args:          args,
		Version:       version.GetFullVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// NewFoundationCommand returns the foundation-tool command
func NewFoundationCommand(opts *Options) *cobra.Command {
	cmd := newRoot(
		"foundation-tool <input> <output.(stl|glb|gltf)> [margin_ratio] [thickness_ratio]",
		"Add a circular foundation under a 3D model",
		`Sizes a flat cylinder from the model's footprint, places it directly under
the model and exports model and foundation as one object.`,
		cobra.RangeArgs(2, 4),
	)
	opts.AddFlags(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		input, output := args[0], args[1]
		e, err := opts.setup(cmd, args[2:])
		if err != nil {
			return err
		}
		if err := checkInput(input); err != nil {
			return err
		}

		if _, err := e.foundationStage().Run(input, output); err != nil {
			return err
		}
		e.success(output)
		return nil
	}
	return cmd
}

// NewRepairCommand returns the mesh-repair-tool command
func NewRepairCommand(opts *Options) *cobra.Command {
	cmd := newRoot(
		"mesh-repair-tool <input> <output.stl>",
		"Repair and smooth a mesh into an STL file",
		`Converts the input to STL, fills holes, removes duplicate faces and
unreferenced vertices and applies light Laplacian smoothing.`,
		cobra.ExactArgs(2),
	)
	opts.AddFlags(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		input, output := args[0], args[1]
		e, err := opts.setup(cmd, nil)
		if err != nil {
			return err
		}
		if err := checkInput(input); err != nil {
			return err
		}

		d, err := e.driver()
		if err != nil {
			return err
		}
		if _, err := d.Repair(input, output); err != nil {
			return err
		}
		e.success(output)
		return nil
	}
	return cmd
}

// NewPipelineCommand returns the pipeline-tool command
func NewPipelineCommand(opts *Options) *cobra.Command {
	var watch bool

	cmd := newRoot(
		"pipeline-tool <input> <output> [margin_ratio] [thickness_ratio]",
		"Repair a model and add a foundation in one go",
		`Runs mesh repair, converts the repaired STL back to GLB and adds the
foundation. Intermediate files are removed when the run ends.`,
		cobra.RangeArgs(2, 4),
	)
	opts.AddFlags(cmd.Flags())
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-run whenever the input file changes")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		input, output := args[0], args[1]
		e, err := opts.setup(cmd, args[2:])
		if err != nil {
			return err
		}
		if err := checkInput(input); err != nil {
			return err
		}

		d, err := e.driver()
		if err != nil {
			return err
		}
		run := func() error {
			if _, err := d.Run(input, output); err != nil {
				return err
			}
			e.success(output)
			return nil
		}

		if !watch {
			return run()
		}
		if err := run(); err != nil {
			e.log.Error().Err(err).Msg("pipeline run failed")
		}
		return watchInput(cmd.Context(), e, input, run)
	}
	return cmd
}
