package transform

import (
	"fmt"
	"slices"
	"sync"

	"github.com/matzehuels/lenslayout/pkg/errors"
	"github.com/matzehuels/lenslayout/pkg/geom"
)

// Layer selects one of the two chains of a [MultiLayer].
type Layer int

const (
	LayerLayout Layer = iota
	LayerView
)

func (l Layer) String() string {
	switch l {
	case LayerLayout:
		return "layout"
	case LayerView:
		return "view"
	default:
		return fmt.Sprintf("Layer(%d)", int(l))
	}
}

// ParseLayer maps "layout" or "view" to a Layer.
func ParseLayer(s string) (Layer, error) {
	switch s {
	case "layout":
		return LayerLayout, nil
	case "view":
		return LayerView, nil
	}
	return 0, errors.InvalidConfig("unknown layer %q (want layout or view)", s)
}

func (l Layer) valid() bool { return l == LayerLayout || l == LayerView }

// MultiLayer composes a LAYOUT chain and a VIEW chain. Each chain starts
// with an affine base node that the pan and zoom helpers mutate; lens nodes
// sit above it. It is safe for concurrent use.
type MultiLayer struct {
	mu     sync.RWMutex
	chains [2]Chain
}

// NewMultiLayer returns a transformer whose layers are both the identity.
func NewMultiLayer() *MultiLayer {
	ml := &MultiLayer{}
	ml.chains[LayerLayout] = Chain{AffineNode(Identity)}
	ml.chains[LayerView] = Chain{AffineNode(Identity)}
	return ml
}

func (ml *MultiLayer) snapshot(l Layer) Chain {
	ml.mu.RLock()
	defer ml.mu.RUnlock()
	if !l.valid() {
		return nil
	}
	return ml.chains[l]
}

// Transform maps a layout point to view space.
func (ml *MultiLayer) Transform(p geom.Point) geom.Point {
	ml.mu.RLock()
	layout, view := ml.chains[LayerLayout], ml.chains[LayerView]
	ml.mu.RUnlock()
	return view.Forward(layout.Forward(p))
}

// InverseTransform maps a view point back to layout space.
func (ml *MultiLayer) InverseTransform(p geom.Point) geom.Point {
	ml.mu.RLock()
	layout, view := ml.chains[LayerLayout], ml.chains[LayerView]
	ml.mu.RUnlock()
	return layout.Inverse(view.Inverse(p))
}

// TransformLayer maps p through a single layer.
func (ml *MultiLayer) TransformLayer(l Layer, p geom.Point) geom.Point {
	return ml.snapshot(l).Forward(p)
}

// InverseTransformLayer undoes a single layer.
func (ml *MultiLayer) InverseTransformLayer(l Layer, p geom.Point) geom.Point {
	return ml.snapshot(l).Inverse(p)
}

// TransformAll maps every position to view space.
func (ml *MultiLayer) TransformAll(pos map[string]geom.Point) map[string]geom.Point {
	out := make(map[string]geom.Point, len(pos))
	for id, p := range pos {
		out[id] = ml.Transform(p)
	}
	return out
}

// Affine returns the base matrix of a layer.
func (ml *MultiLayer) Affine(l Layer) Affine {
	c := ml.snapshot(l)
	if len(c) == 0 || c[0].Kind != KindAffine {
		return Identity
	}
	return c[0].Affine
}

// SetAffine replaces the base matrix of a layer.
func (ml *MultiLayer) SetAffine(l Layer, a Affine) error {
	if !a.Invertible() {
		return errors.New(errors.ErrCodeDegenerateGeometry, "%s transform would be singular", l)
	}
	return ml.update(l, func(Affine) Affine { return a })
}

// SetToIdentity resets the base matrix of a layer.
func (ml *MultiLayer) SetToIdentity(l Layer) error {
	return ml.SetAffine(l, Identity)
}

// Translate pans a layer.
func (ml *MultiLayer) Translate(l Layer, dx, dy float64) error {
	return ml.concat(l, Translation(dx, dy))
}

// Scale zooms a layer about a point.
func (ml *MultiLayer) Scale(l Layer, sx, sy float64, about geom.Point) error {
	return ml.concat(l, Scaling(sx, sy).About(about))
}

// Rotate rotates a layer about a point.
func (ml *MultiLayer) Rotate(l Layer, theta float64, about geom.Point) error {
	return ml.concat(l, Rotation(theta).About(about))
}

// Shear shears a layer about a point.
func (ml *MultiLayer) Shear(l Layer, shx, shy float64, about geom.Point) error {
	return ml.concat(l, Shearing(shx, shy).About(about))
}

// concat applies t after the current base matrix.
func (ml *MultiLayer) concat(l Layer, t Affine) error {
	if !t.Invertible() {
		return errors.New(errors.ErrCodeDegenerateGeometry, "%s transform would be singular", l)
	}
	return ml.update(l, t.Mul)
}

func (ml *MultiLayer) update(l Layer, f func(Affine) Affine) error {
	if !l.valid() {
		return errors.New(errors.ErrCodeInvalidInput, "unknown layer %s", l)
	}
	ml.mu.Lock()
	defer ml.mu.Unlock()
	c := slices.Clone(ml.chains[l])
	if len(c) == 0 || c[0].Kind != KindAffine {
		c = slices.Insert(c, 0, AffineNode(Identity))
	}
	c[0] = AffineNode(f(c[0].Affine))
	ml.chains[l] = c
	return nil
}

// Push appends a node to a layer.
func (ml *MultiLayer) Push(l Layer, n Node) error {
	if !l.valid() {
		return errors.New(errors.ErrCodeInvalidInput, "unknown layer %s", l)
	}
	if err := n.Validate(); err != nil {
		return err
	}
	ml.mu.Lock()
	defer ml.mu.Unlock()
	ml.chains[l] = append(slices.Clone(ml.chains[l]), n)
	return nil
}

// Pop removes the top node of a layer. The affine base is never popped.
func (ml *MultiLayer) Pop(l Layer) (Node, bool) {
	if !l.valid() {
		return Node{}, false
	}
	ml.mu.Lock()
	defer ml.mu.Unlock()
	c := ml.chains[l]
	if len(c) <= 1 {
		return Node{}, false
	}
	top, _ := c.Top()
	ml.chains[l] = c.Delegate()
	return top, true
}

// remove drops the topmost node of a layer matching the given lens and kind.
func (ml *MultiLayer) remove(l Layer, n Node) bool {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	c := ml.chains[l]
	for i := len(c) - 1; i >= 1; i-- {
		if c[i].Kind == n.Kind && c[i].Lens == n.Lens {
			ml.chains[l] = slices.Delete(slices.Clone(c), i, i+1)
			return true
		}
	}
	return false
}

// Chain returns a copy of a layer's chain.
func (ml *MultiLayer) Chain(l Layer) Chain {
	return slices.Clone(ml.snapshot(l))
}

// SetChain replaces a layer's chain. A chain that does not start with an
// affine node gets an identity base prepended.
func (ml *MultiLayer) SetChain(l Layer, c Chain) error {
	if !l.valid() {
		return errors.New(errors.ErrCodeInvalidInput, "unknown layer %s", l)
	}
	if err := c.Validate(); err != nil {
		return err
	}
	c = slices.Clone(c)
	if len(c) == 0 || c[0].Kind != KindAffine {
		c = slices.Insert(c, 0, AffineNode(Identity))
	}
	ml.mu.Lock()
	defer ml.mu.Unlock()
	ml.chains[l] = c
	return nil
}
