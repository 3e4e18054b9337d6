// Package pkg provides the libraries behind lenslayout.
//
// # Overview
//
// lenslayout places the nodes of a graph on a rectangular surface and maps
// the result through pan, zoom and lens transforms for display. The pkg
// directory is organized into four areas:
//
//  1. Domain: [network], [geom], [layout], [transform]
//  2. Orchestration: [pipeline] (layout → view → render)
//  3. Infrastructure: [cache], [config], [metrics], [observability]
//  4. Outer surfaces: [api], [graph] (file formats), [render/dot]
//
// # Architecture
//
// The typical data flow:
//
//	graph.json (or [network/generate])
//	         ↓
//	    [layout] Model + Driver running one of [layout/algorithms]
//	         ↓
//	    [layout/transition] (jump or animated switch between algorithms)
//	         ↓
//	    [transform] MultiLayer (LAYOUT and VIEW chains, lenses)
//	         ↓
//	    layout.json / DOT / SVG
//
// # Quick Start
//
// Lay out a Kleinberg small-world lattice and look at it through a lens:
//
//	l, _ := generate.Lattice2D(4, 4, true, network.Directed)
//	k := generate.KleinbergSmallWorld{ConnectionCount: 2, ClusteringExponent: 2}
//	_ = k.AddConnections(l.Graph, l.Distance)
//
//	m := layout.NewModel(l.Graph, 600, 600)
//	d := layout.NewDriver(m, layout.DriverOptions{})
//	fr, _ := algorithms.NewFR(algorithms.DefaultFRConfig())
//	run, _ := d.Activate(ctx, fr)
//	_ = run.Wait(ctx)
//
//	ml := transform.NewMultiLayer()
//	lens, _ := transform.NewLens(transform.DefaultLensOptions())
//	_ = lens.Resize(600, 600)
//	ls, _ := transform.NewLensSupport(ml, transform.LayerView, lens, transform.KindHyperbolic)
//	_ = ls.Activate()
//	view := ml.TransformAll(m.Snapshot())
//
// # Testing
//
//	go test ./...                 # All tests
//	go test ./pkg/transform/...   # Specific package
//	go test -run Example ./...    # Examples only
//
// [network]: https://pkg.go.dev/github.com/matzehuels/lenslayout/pkg/network
// [network/generate]: https://pkg.go.dev/github.com/matzehuels/lenslayout/pkg/network/generate
// [geom]: https://pkg.go.dev/github.com/matzehuels/lenslayout/pkg/geom
// [layout]: https://pkg.go.dev/github.com/matzehuels/lenslayout/pkg/layout
// [layout/algorithms]: https://pkg.go.dev/github.com/matzehuels/lenslayout/pkg/layout/algorithms
// [layout/transition]: https://pkg.go.dev/github.com/matzehuels/lenslayout/pkg/layout/transition
// [transform]: https://pkg.go.dev/github.com/matzehuels/lenslayout/pkg/transform
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/lenslayout/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/lenslayout/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/lenslayout/pkg/config
// [metrics]: https://pkg.go.dev/github.com/matzehuels/lenslayout/pkg/metrics
// [observability]: https://pkg.go.dev/github.com/matzehuels/lenslayout/pkg/observability
// [api]: https://pkg.go.dev/github.com/matzehuels/lenslayout/pkg/api
// [graph]: https://pkg.go.dev/github.com/matzehuels/lenslayout/pkg/graph
// [render/dot]: https://pkg.go.dev/github.com/matzehuels/lenslayout/pkg/render/dot
package pkg
