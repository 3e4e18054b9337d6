package algorithms

import (
	"maps"
	"math"
	"sync"

	"github.com/matzehuels/lenslayout/pkg/geom"
	"github.com/matzehuels/lenslayout/pkg/layout"
)

// Balloon places each node's children evenly on a circle around it. The
// radius of a child's own circle is proportional to its share of descendants
// among its siblings, so larger subtrees get larger balloons.
type Balloon struct {
	mu    sync.RWMutex
	radii map[string]float64
}

// NewBalloon returns a balloon tree layout.
func NewBalloon() *Balloon { return &Balloon{} }

func (b *Balloon) Name() string { return "balloon" }

func (b *Balloon) Visit(h *layout.Handle) {
	f := spanningForest(h.Graph())
	w, hgt := h.Size()
	center := geom.Pt(w/2, hgt/2)
	outer := math.Min(w, hgt) / 2 * DefaultFill

	pos := make(map[string]geom.Point, len(f.depth))
	radii := make(map[string]float64)

	desc := make(map[string]int, len(f.depth))
	var count func(id string) int
	count = func(id string) int {
		n := 0
		for _, c := range f.children[id] {
			n += 1 + count(c)
		}
		desc[id] = n
		return n
	}
	for _, r := range f.roots {
		count(r)
	}

	var place func(id string, at geom.Point, radius float64)
	place = func(id string, at geom.Point, radius float64) {
		pos[id] = at
		kids := f.children[id]
		if len(kids) == 0 {
			return
		}
		radii[id] = radius
		step := 2 * math.Pi / float64(len(kids))
		childRadius := subRadius(radius, len(kids))
		biggest := 0
		for _, c := range kids {
			biggest = max(biggest, desc[c])
		}
		for i, c := range kids {
			p := geom.Polar{Theta: float64(i) * step, Rho: radius}.CartesianAround(at)
			share := float64(desc[c]+1) / float64(biggest+1)
			place(c, p, childRadius*share)
		}
	}

	switch len(f.roots) {
	case 0:
	case 1:
		place(f.roots[0], center, outer/2)
	default:
		// Roots of a forest form the first balloon around the center.
		step := 2 * math.Pi / float64(len(f.roots))
		sub := subRadius(outer/2, len(f.roots))
		for i, r := range f.roots {
			p := geom.Polar{Theta: float64(i) * step, Rho: outer / 2}.CartesianAround(center)
			place(r, p, sub)
		}
	}

	b.mu.Lock()
	b.radii = radii
	b.mu.Unlock()
	h.SetAll(pos)
}

// subRadius is the largest balloon radius for n children spaced evenly on a
// circle of the given radius that keeps neighbouring balloons apart. A single
// child has no neighbour and gets the full share.
func subRadius(radius float64, n int) float64 {
	if n <= 1 {
		return radius * maxShare
	}
	return radius * math.Min(maxShare, math.Sin(math.Pi/float64(n))*0.9)
}

const maxShare = 0.45

// Radii returns the radius of the circle each non-leaf node's children were
// placed on during the last visit.
func (b *Balloon) Radii() map[string]float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return maps.Clone(b.radii)
}

var _ layout.Algorithm = (*Balloon)(nil)
