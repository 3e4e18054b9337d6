package algorithms

import (
	"github.com/matzehuels/lenslayout/pkg/errors"
	"github.com/matzehuels/lenslayout/pkg/geom"
	"github.com/matzehuels/lenslayout/pkg/layout"
)

// Default tree spacing.
const (
	DefaultHorizontalSpacing = 50.0
	DefaultVerticalSpacing   = 50.0
)

// TreeConfig configures [Tree].
type TreeConfig struct {
	HorizontalSpacing float64 `json:"horizontal_spacing" validate:"gt=0"`
	VerticalSpacing   float64 `json:"vertical_spacing" validate:"gt=0"`

	// Fit shrinks the drawing along an axis when it would exceed the model
	// bounds at the configured spacing.
	Fit bool `json:"fit"`
}

// DefaultTreeConfig returns the documented defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		HorizontalSpacing: DefaultHorizontalSpacing,
		VerticalSpacing:   DefaultVerticalSpacing,
		Fit:               true,
	}
}

// Tree is a layered top-down tree layout.
type Tree struct {
	cfg TreeConfig
}

// NewTree validates cfg and returns a tree layout.
func NewTree(cfg TreeConfig) (*Tree, error) {
	if err := errors.ValidateStruct(cfg); err != nil {
		return nil, err
	}
	return &Tree{cfg: cfg}, nil
}

func (t *Tree) Name() string { return "tree" }

func (t *Tree) Visit(h *layout.Handle) {
	f := spanningForest(h.Graph())
	slots := f.slots()
	w, hgt := h.Size()

	sx, sy := t.cfg.HorizontalSpacing, t.cfg.VerticalSpacing
	if t.cfg.Fit {
		if need := float64(f.totalLeaves()) * sx; need > w {
			sx = w / float64(f.totalLeaves())
		}
		if need := float64(f.maxDepth+1) * sy; need > hgt {
			sy = hgt / float64(f.maxDepth+1)
		}
	}

	pos := make(map[string]geom.Point, len(slots))
	for id, slot := range slots {
		pos[id] = geom.Pt(slot*sx, (float64(f.depth[id])+0.5)*sy)
	}
	h.SetAll(pos)
}

var _ layout.Algorithm = (*Tree)(nil)
