package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lenslayout/pkg/errors"
	"github.com/matzehuels/lenslayout/pkg/graph"
	"github.com/matzehuels/lenslayout/pkg/pipeline"
)

type transformFlags struct {
	output  string
	inverse bool
	view    viewFlags
}

// transformCommand creates the transform command.
func (c *CLI) transformCommand() *cobra.Command {
	var f transformFlags

	cmd := &cobra.Command{
		Use:   "transform [layout.json]",
		Short: "Map a saved layout through a view",
		Long: `Map a saved layout through pan, zoom, rotation and a lens.

Forward (default): "view" is recomputed from "positions".
Inverse (--inverse): "positions" is recomputed from "view", which is how a
point picked on screen is located in layout space.

The layout's own width and height define the surface the view is built for.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTransform(cmd, args[0], &f)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default: overwrite input)")
	cmd.Flags().BoolVar(&f.inverse, "inverse", false, "map view positions back to layout positions")
	f.view.register(cmd)

	return cmd
}

func (c *CLI) runTransform(cmd *cobra.Command, input string, f *transformFlags) error {
	l, err := graph.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	opts := f.view.options(cmd, c.cfg, l.Width, l.Height)
	if opts == nil {
		printWarning("No view flags given, using the identity view")
	}
	view, err := pipeline.BuildView(opts, l.Width, l.Height)
	if err != nil {
		return err
	}

	if f.inverse {
		if len(l.View) == 0 {
			return errors.New(errors.ErrCodeInvalidInput, "%s has no view positions to invert", input)
		}
		src := graph.Layout{Positions: l.View}.Points()
		if l.Positions == nil {
			l.Positions = make(map[string]graph.Position, len(src))
		}
		for id, p := range src {
			l.Positions[id] = graph.PositionOf(view.Transformer.InverseTransform(p))
		}
	} else {
		view.Apply(&l)
	}

	out := f.output
	if out == "" {
		out = input
	}
	if err := graph.WriteLayoutFile(l, out); err != nil {
		return fmt.Errorf("write output %s: %w", out, err)
	}

	printSuccess("Transformed %d positions", len(l.Positions))
	printFile(out)
	if focused := view.Focused(l); len(focused) > 0 {
		printDetail("%d nodes inside the lens", len(focused))
	}
	return nil
}
