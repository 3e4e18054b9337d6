package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/lenslayout/pkg/errors"
	"github.com/matzehuels/lenslayout/pkg/graph"
	"github.com/matzehuels/lenslayout/pkg/network"
	"github.com/matzehuels/lenslayout/pkg/render/dot"
)

// RenderOptions configures [Render].
type RenderOptions struct {
	Formats []string

	// Detailed adds node metadata to DOT labels.
	Detailed bool

	// Highlight lists node IDs drawn with an accent fill.
	Highlight []string
}

// Render generates output artifacts in the requested formats. DOT and SVG
// draw the view positions when the layout carries them and the layout
// positions otherwise.
func Render(ctx context.Context, g *network.Graph, l graph.Layout, opts RenderOptions) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var source string
	dotSource := func() string {
		if source == "" {
			pos := l.Points()
			if len(l.View) > 0 {
				pos = graph.Layout{Positions: l.View}.Points()
			}
			source = dot.ToDOT(g, pos, dot.Options{
				Detailed:  opts.Detailed,
				Height:    l.Height,
				Highlight: opts.Highlight,
			})
		}
		return source
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = graph.MarshalLayout(l)
		case FormatDOT:
			data = []byte(dotSource())
		case FormatSVG:
			data, err = dot.RenderSVG(ctx, dotSource())
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
