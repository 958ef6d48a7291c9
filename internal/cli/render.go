package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/drainplan/pkg/errors"
	"github.com/matzehuels/drainplan/pkg/estimate"
	"github.com/matzehuels/drainplan/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	build buildFlags
	run   runFlags

	format         string // drawing format: svg, pdf, png
	estimate       bool   // also write the estimate
	topology       bool   // also render the topology diagram
	topologyFormat string
	detailed       bool // pipe and slope on topology edges
	pngScale       float64
}

// renderCommand creates the render command, which draws each network.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file.ge...]",
		Short: "Draw drainage networks to SVG, PDF or PNG",
		Long: `Draw each network as a scaled plan: pipes with their lengths and slopes,
junction boxes with their depth labels, fixtures and fittings.

Output goes to {name}.{format} next to the input, or into --output-dir.
An existing output newer than its input is kept and the new drawing is
written to {name}.{format}~ instead.`,
		Example: `  drainplan render house.ge
  drainplan render -f pdf --scale 50 site/*.ge
  drainplan render --estimate --topology house.ge`,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := inputFiles(cmd.Context(), args)
			if err != nil {
				return err
			}
			popts, err := c.renderOptions(cmd, &opts)
			if err != nil {
				return err
			}
			return c.process(cmd.Context(), files, popts, opts.run, false)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "drawing format: svg, pdf, png (default from config)")
	cmd.Flags().BoolVarP(&opts.estimate, "estimate", "e", false, "also write the cost estimate")
	cmd.Flags().BoolVarP(&opts.topology, "topology", "t", false, "also render the pipe topology through Graphviz")
	cmd.Flags().StringVar(&opts.topologyFormat, "topology-format", "", "topology format: svg, pdf, png, dot (default: the drawing format)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show pipe and slope on topology edges")
	cmd.Flags().Float64Var(&opts.pngScale, "png-scale", pipeline.DefaultPNGScale, "zoom factor of PNG output")
	opts.build.register(cmd)
	opts.run.register(cmd)
	cmd.ValidArgsFunction = completeInputs
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats(pipeline.DrawingFormats...))
	_ = cmd.RegisterFlagCompletionFunc("topology-format", completeFormats(pipeline.TopologyFormats...))

	return cmd
}

func (c *CLI) renderOptions(cmd *cobra.Command, opts *renderOpts) (pipeline.Options, error) {
	popts := pipeline.FromConfig(c.cfg)
	opts.build.apply(cmd, &popts)
	popts.Drawing = true
	popts.Estimate = opts.estimate
	popts.Topology = opts.topology
	popts.TopologyFormat = opts.topologyFormat
	popts.Detailed = opts.detailed
	popts.PNGScale = opts.pngScale
	if opts.format != "" {
		popts.DrawingFormat = opts.format
	}
	if popts.Estimate && popts.EstimateFormat == estimate.FormatTable {
		return popts, errors.New(errors.ErrCodeInvalidFormat, "the table estimate format prints to the terminal; use drainplan estimate")
	}
	return popts, popts.ValidateAndSetDefaults()
}
