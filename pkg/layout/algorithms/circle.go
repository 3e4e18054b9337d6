package algorithms

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/lenslayout/pkg/geom"
	"github.com/matzehuels/lenslayout/pkg/layout"
)

// Circle places all nodes on one circle in graph order.
type Circle struct{}

func (Circle) Name() string { return "circle" }

func (Circle) Visit(h *layout.Handle) {
	nodes := h.Graph().Nodes()
	if len(nodes) == 0 {
		return
	}
	w, hgt := h.Size()
	center := geom.Pt(w/2, hgt/2)
	if len(nodes) == 1 {
		h.Set(nodes[0], center)
		return
	}
	radius := math.Min(w, hgt) / 2 * DefaultFill
	step := 2 * math.Pi / float64(len(nodes))
	pos := make(map[string]geom.Point, len(nodes))
	for i, id := range nodes {
		pos[id] = geom.Polar{Theta: float64(i) * step, Rho: radius}.CartesianAround(center)
	}
	h.SetAll(pos)
}

// Random scatters nodes uniformly inside the model bounds. The same seed
// always produces the same placement.
type Random struct {
	Seed uint64
}

func (Random) Name() string { return "random" }

func (r Random) Visit(h *layout.Handle) {
	rng := newRand(r.Seed)
	w, hgt := h.Size()
	pos := make(map[string]geom.Point)
	for _, id := range h.Graph().Nodes() {
		pos[id] = geom.Pt(rng.Float64()*w, rng.Float64()*hgt)
	}
	h.SetAll(pos)
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

var (
	_ layout.Algorithm = Circle{}
	_ layout.Algorithm = Random{}
)
