package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/matzehuels/drainplan/pkg/cache"
	"github.com/matzehuels/drainplan/pkg/errors"
	"github.com/matzehuels/drainplan/pkg/estimate"
	"github.com/matzehuels/drainplan/pkg/pipeline"
)

// buildFlags are the network build flags shared by render, estimate and
// inspect. Each overrides its configuration value only when given.
type buildFlags struct {
	scale     float64
	material  string
	noDepth   bool
	adjustBox bool
}

func (f *buildFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.scale, "scale", 0, "drawing scale denominator, overriding the input (100 for 1/100)")
	cmd.Flags().StringVar(&f.material, "material", "", "material of the pipe leaving the public junction")
	cmd.Flags().BoolVar(&f.noDepth, "no-depth", false, "leave depths out of junction labels")
	cmd.Flags().BoolVar(&f.adjustBox, "adjust-box", false, "extend every placement by half a junction box")
}

func (f *buildFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	flags := cmd.Flags()
	if flags.Changed("scale") {
		opts.Network.Scale = f.scale
	}
	if flags.Changed("material") {
		opts.Network.DefaultMaterial = f.material
	}
	if flags.Changed("no-depth") {
		opts.Network.NoDepthLabels = f.noDepth
	}
	if flags.Changed("adjust-box") {
		opts.Network.AdjustBoxLength = f.adjustBox
	}
}

// runFlags control caching and output placement.
type runFlags struct {
	outputDir string
	noCache   bool
	refresh   bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.outputDir, "output-dir", "o", "", "output directory (default: next to each input, or output_dir from the config)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "rebuild even when cached")
}

// inputFiles returns the files named on the command line. With none, an
// interactive terminal gets a picker over the .ge files of the working
// directory.
func inputFiles(ctx context.Context, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if !term.IsTerminal(os.Stdin.Fd()) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no input file given")
	}
	files, err := findInputs(".")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New(errors.ErrCodeFileNotFound, "no %s files in the working directory", pipeline.Extension)
	}
	path, err := pickFile(ctx, files)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, context.Canceled
	}
	return []string{path}, nil
}

// findInputs lists the network descriptions in dir.
func findInputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), pipeline.Extension) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

// process runs the pipeline over every file and writes the artifacts.
// A file that fails to build is reported and the rest still run; the
// returned error counts the failures.
func (c *CLI) process(ctx context.Context, files []string, opts pipeline.Options, rf runFlags, stdout bool) error {
	runner, err := c.newRunner(rf.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	outDir := rf.outputDir
	if outDir == "" {
		outDir = c.cfg.OutputDir
	}
	opts.Refresh = rf.refresh
	opts.Logger = loggerFromContext(ctx)

	prog := newProgress(opts.Logger)
	failed := 0
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.processFile(ctx, runner, file, opts, outDir, stdout); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			printError("%s: %s", file, errors.UserMessage(err))
			opts.Logger.Debug("failed", "file", file, "err", err)
			failed++
		}
	}
	prog.done(fmt.Sprintf("Processed %d file(s)", len(files)))
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(files))
	}
	return nil
}

func (c *CLI) processFile(ctx context.Context, runner *pipeline.Runner, file string, opts pipeline.Options, outDir string, stdout bool) error {
	in, err := pipeline.ReadInput(file)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Processing "+in.Name()+"...")
	spinner.Start()
	result, err := runner.Execute(ctx, in, opts)
	spinner.Stop()
	if err != nil {
		return err
	}

	printSuccess("%s", in.Name())
	printStats(result.Stats.NodeCount, result.Stats.PipeLength, result.Stats.PartCount, result.Stats.CacheHits == len(result.Artifacts))
	printWarnings(result.Warnings)

	for _, a := range result.Artifacts {
		if stdout && a.Kind == cache.KindEstimate {
			fmt.Print(string(a.Data))
			continue
		}
		path, err := pipeline.WriteArtifact(outDir, in, a)
		if err != nil {
			return err
		}
		if strings.HasSuffix(path, "~") {
			printWarning("%s is newer than %s, kept it", strings.TrimSuffix(path, "~"), in.Name())
		}
		printFile(path)
	}
	return nil
}

// estimateToStdout reports whether an estimate should be printed rather than
// written: when asked to, or when it is a terminal table and no output
// directory was given.
func estimateToStdout(f estimate.Format, toStdout bool, outputDir string) bool {
	return toStdout || (f == estimate.FormatTable && outputDir == "")
}
