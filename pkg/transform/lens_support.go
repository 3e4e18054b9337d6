package transform

import (
	"sync"

	"github.com/matzehuels/lenslayout/pkg/errors"
)

// LensSupport toggles a lens on one layer of a [MultiLayer]. Activating
// pushes the lens node; deactivating removes it again, leaving any pan or
// zoom applied in the meantime in place.
type LensSupport struct {
	ml    *MultiLayer
	layer Layer
	node  Node

	mu     sync.Mutex
	active bool
}

// NewLensSupport binds a lens of the given kind to a layer.
func NewLensSupport(ml *MultiLayer, layer Layer, lens *Lens, kind Kind) (*LensSupport, error) {
	if ml == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "lens support needs a transformer")
	}
	if !layer.valid() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown layer %s", layer)
	}
	n := Node{Kind: kind, Lens: lens}
	if kind == KindAffine {
		return nil, errors.InvalidConfig("lens kind must be magnify or hyperbolic")
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return &LensSupport{ml: ml, layer: layer, node: n}, nil
}

// Activate installs the lens. It is a no-op when already active.
func (s *LensSupport) Activate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return nil
	}
	if err := s.ml.Push(s.layer, s.node); err != nil {
		return err
	}
	s.active = true
	return nil
}

// Deactivate removes the lens. It is a no-op when inactive.
func (s *LensSupport) Deactivate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.ml.remove(s.layer, s.node)
	s.active = false
}

// Active reports whether the lens is installed.
func (s *LensSupport) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Lens returns the lens being toggled.
func (s *LensSupport) Lens() *Lens { return s.node.Lens }

// Layer returns the layer the lens is installed on.
func (s *LensSupport) Layer() Layer { return s.layer }

// Kind returns the fisheye kind.
func (s *LensSupport) Kind() Kind { return s.node.Kind }
