// Package layout holds node positions and coordinates the algorithms that
// write them.
//
// # Model
//
// A [Model] maps the node IDs of a [network.Graph] to points inside a
// width×height area. Reads are safe from any goroutine; every Get sees a
// whole point, never half of an update. Nodes can be locked, after which no
// algorithm moves them.
//
// # Single writer
//
// Algorithms never hold a reference to the model. Instead, [Model.Bind]
// issues a [Handle], and the algorithm receives that handle on every call.
// Binding again invalidates all earlier handles: writes through a stale
// handle are silently dropped. This is what keeps a canceled relaxation loop
// from racing a freshly activated algorithm.
//
// The [Driver] enforces the rest of the discipline. Activating an algorithm
// cancels the current writer, waits for its in-flight step to finish, binds a
// new handle and only then lets the next writer start.
//
//	m := layout.NewModel(g, 800, 600)
//	d := layout.NewDriver(m, layout.DriverOptions{Interval: 16 * time.Millisecond})
//	run, err := d.Activate(ctx, fr)
//	if err != nil {
//	    return err
//	}
//	<-run.Done()
//
// # Algorithms
//
// [Algorithm] places nodes once in Visit. [Iterative] algorithms additionally
// refine positions in Step until Done reports true. Concrete algorithms live
// in pkg/layout/algorithms.
package layout
