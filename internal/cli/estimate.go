package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/drainplan/pkg/estimate"
	"github.com/matzehuels/drainplan/pkg/pipeline"
)

// estimateOpts holds the command-line flags for the estimate command.
type estimateOpts struct {
	build buildFlags
	run   runFlags

	format   string
	customer string
	stdout   bool
}

func (c *CLI) estimateCommand() *cobra.Command {
	var opts estimateOpts

	formats := make([]string, len(estimate.Formats))
	for i, f := range estimate.Formats {
		formats[i] = string(f)
	}

	cmd := &cobra.Command{
		Use:   "estimate [file.ge...]",
		Short: "Take off quantities and write a cost estimate",
		Long: `Count the junction boxes, fittings and treatment units of each network,
sum its new pipe by size, material and 0.2 m depth band, and price both from
the [[prices]] table of the configuration.

Formats: ` + strings.Join(formats, ", ") + `. The table format prints to the
terminal unless --output-dir is given.`,
		Example: `  drainplan estimate house.ge
  drainplan estimate -f table house.ge
  drainplan estimate -f csv --customer "Tanaka" house.ge`,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := inputFiles(cmd.Context(), args)
			if err != nil {
				return err
			}
			popts := pipeline.FromConfig(c.cfg)
			opts.build.apply(cmd, &popts)
			popts.Estimate = true
			popts.Customer = opts.customer
			if opts.format != "" {
				popts.EstimateFormat = estimate.Format(opts.format)
			}
			if err := popts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			stdout := estimateToStdout(popts.EstimateFormat, opts.stdout, opts.run.outputDir)
			return c.process(cmd.Context(), files, popts, opts.run, stdout)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "estimate format (default from config)")
	cmd.Flags().StringVar(&opts.customer, "customer", "", "name heading the estimate (default: the input file name)")
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "print the estimate instead of writing a file")
	opts.build.register(cmd)
	opts.run.register(cmd)
	cmd.ValidArgsFunction = completeInputs
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats(formats...))

	return cmd
}
