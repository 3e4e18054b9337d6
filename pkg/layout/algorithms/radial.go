package algorithms

import (
	"maps"
	"math"
	"slices"
	"sync"

	"github.com/matzehuels/lenslayout/pkg/geom"
	"github.com/matzehuels/lenslayout/pkg/layout"
)

// DefaultFill is the fraction of the half-extent that circular layouts use.
const DefaultFill = 0.9

// Radial lays a tree out on concentric rings. Depth selects the ring and the
// leaf order selects the angle. A single root sits at the center; the roots
// of a forest share the first ring.
type Radial struct {
	mu     sync.RWMutex
	polar  map[string]geom.Polar
	center geom.Point
}

// NewRadial returns a radial tree layout.
func NewRadial() *Radial { return &Radial{} }

func (r *Radial) Name() string { return "radial" }

func (r *Radial) Visit(h *layout.Handle) {
	f := spanningForest(h.Graph())
	slots := f.slots()
	w, hgt := h.Size()
	center := geom.Pt(w/2, hgt/2)

	offset := 0
	if len(f.roots) > 1 {
		offset = 1
	}
	rings := max(f.maxDepth+offset, 1)
	ring := math.Min(w, hgt) / 2 * DefaultFill / float64(rings)
	total := float64(max(f.totalLeaves(), 1))

	polar := make(map[string]geom.Polar, len(slots))
	pos := make(map[string]geom.Point, len(slots))
	for id, slot := range slots {
		p := geom.Polar{
			Theta: 2 * math.Pi * slot / total,
			Rho:   float64(f.depth[id]+offset) * ring,
		}
		polar[id] = p
		pos[id] = p.CartesianAround(center)
	}

	r.mu.Lock()
	r.polar, r.center = polar, center
	r.mu.Unlock()
	h.SetAll(pos)
}

// PolarLocations returns the polar coordinates of the last visit, relative
// to [Radial.Center].
func (r *Radial) PolarLocations() map[string]geom.Polar {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.polar)
}

// Center returns the center of the rings used by the last visit.
func (r *Radial) Center() geom.Point {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.center
}

// Rings returns the distinct ring radii in increasing order.
func (r *Radial) Rings() []float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[float64]bool)
	var out []float64
	for _, p := range r.polar {
		if p.Rho > 0 && !seen[p.Rho] {
			seen[p.Rho] = true
			out = append(out, p.Rho)
		}
	}
	slices.Sort(out)
	return out
}

var _ layout.Algorithm = (*Radial)(nil)
