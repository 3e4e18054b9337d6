// Package dot exports positioned graphs to Graphviz.
//
// [ToDOT] writes DOT source in which every placed node carries a pinned
// pos attribute, so the drawing reproduces the computed layout (or its
// lens-distorted view) instead of a Graphviz layout:
//
//	src := dot.ToDOT(g, model.Snapshot(), dot.Options{Height: 600})
//	svg, err := dot.RenderSVG(ctx, src)
//
// Edges flagged long_range in their metadata (Kleinberg connections) are
// drawn dashed.
//
// Rendering uses [github.com/goccy/go-graphviz], which runs Graphviz
// in-process.
package dot
