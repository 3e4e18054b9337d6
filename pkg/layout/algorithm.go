package layout

// Algorithm places the nodes of a model in one pass.
type Algorithm interface {
	// Name identifies the algorithm in logs, metrics and the wire format.
	Name() string

	// Visit initializes positions through h. It must place every unlocked
	// node of the graph and must not retain h beyond the call.
	Visit(h *Handle)
}

// Iterative algorithms refine positions over many steps after Visit.
type Iterative interface {
	Algorithm

	// Step performs one relaxation step. It is a no-op once Done is true.
	Step(h *Handle)

	// Done reports whether the algorithm considers itself converged.
	Done() bool
}

// Describe returns "name" or "name (iterative)".
func Describe(a Algorithm) string {
	if a == nil {
		return "none"
	}
	if _, ok := a.(Iterative); ok {
		return a.Name() + " (iterative)"
	}
	return a.Name()
}
