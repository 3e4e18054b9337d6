package cli

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lenslayout/pkg/graph"
	"github.com/matzehuels/lenslayout/pkg/layout/algorithms"
	"github.com/matzehuels/lenslayout/pkg/pipeline"
)

// layoutFlags holds the layout command's flags.
type layoutFlags struct {
	output    string
	formats   string
	noCache   bool
	refresh   bool
	algorithm string
	width     float64
	height    float64
	seed      uint64
	maxSteps  int
	detailed  bool
	view      viewFlags
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var f layoutFlags

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute node positions for a graph",
		Long: `Compute node positions for a graph.

The layout command reads a graph.json file (as written by 'generate'), runs
the selected algorithm until it converges, reaches --max-steps or times out,
and writes the result. With view flags (--zoom, --lens, ...) the positions
are also mapped through the view and stored under "view".

Formats: json (layout file), dot (Graphviz source with pinned positions),
svg (rendered with Graphviz neato).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd, args[0], &f)
		},
	}

	def := c.cfg
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output base path (default: <input>.layout.<format>)")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): json (default), dot, svg (comma-separated)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().StringVarP(&f.algorithm, "algorithm", "a", def.Layout.Algorithm, "algorithm: "+strings.Join(algorithms.Names, ", "))
	cmd.Flags().Float64Var(&f.width, "width", def.Surface.Width, "surface width")
	cmd.Flags().Float64Var(&f.height, "height", def.Surface.Height, "surface height")
	cmd.Flags().Uint64Var(&f.seed, "seed", def.Layout.Seed, "random seed (random, fr)")
	cmd.Flags().IntVar(&f.maxSteps, "max-steps", def.Layout.MaxSteps, "cap on relaxation steps (0: algorithm limit)")
	cmd.Flags().BoolVar(&f.detailed, "detailed", false, "include node metadata in DOT labels")
	f.view.register(cmd)

	return cmd
}

// runLayout loads the graph, runs the pipeline and writes the artifacts.
func (c *CLI) runLayout(cmd *cobra.Command, input string, f *layoutFlags) error {
	ctx := cmd.Context()
	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	cfg := c.cfg
	settings := cfg.Algorithms()
	opts := pipeline.Options{
		Algorithm: flagOr(cmd, "algorithm", f.algorithm, cfg.Layout.Algorithm),
		Width:     flagOr(cmd, "width", f.width, cfg.Surface.Width),
		Height:    flagOr(cmd, "height", f.height, cfg.Surface.Height),
		Seed:      flagOr(cmd, "seed", f.seed, cfg.Layout.Seed),
		MaxSteps:  flagOr(cmd, "max-steps", f.maxSteps, cfg.Layout.MaxSteps),
		Settings:  &settings,
		Timeout:   cfg.Server.SolveTimeout,
		Formats:   parseFormats(f.formats),
		Refresh:   f.refresh,
		Detailed:  f.detailed,
		Logger:    c.Logger,
	}
	opts.View = f.view.options(cmd, cfg, opts.Width, opts.Height)

	spinner := newSpinner(ctx, os.Stderr, fmt.Sprintf("Computing %s layout...", opts.Algorithm))
	spinner.Start()
	prog := newProgress(c.Logger)

	res, err := runner.Execute(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed", err)
		return err
	}
	spinner.StopWithSuccess("Layout complete")
	prog.done("layout " + opts.Algorithm)

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := f.output
	if base == "" {
		base = outputBase(input) + ".layout"
	} else {
		base = strings.TrimSuffix(base, "."+opts.Formats[0])
	}

	for _, format := range opts.Formats {
		path := base + "." + format
		if err := os.WriteFile(path, res.Artifacts[format], 0644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(res.Stats, res.Layout.Converged, res.CacheInfo.LayoutHit)
	printNewline()
	if opts.View == nil && slices.Contains(opts.Formats, pipeline.FormatJSON) {
		printNextStep("Apply a lens", appName+" transform "+base+".json --lens magnify")
	}
	return nil
}
