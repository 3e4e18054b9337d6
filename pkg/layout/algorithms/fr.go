package algorithms

import (
	"math"
	"sync"

	"github.com/matzehuels/lenslayout/pkg/errors"
	"github.com/matzehuels/lenslayout/pkg/geom"
	"github.com/matzehuels/lenslayout/pkg/layout"
)

// Default force-directed parameters.
const (
	DefaultIdealEdgeLength = 80.0
	DefaultAttraction      = 0.1
	DefaultRepulsion       = 20000.0
	DefaultCooling         = 0.95
	DefaultMinTemperature  = 0.5
	DefaultMinDistance     = 0.01
	DefaultMaxIterations   = 700

	// initialTemperatureDivisor derives the starting temperature from the
	// model width when FRConfig.InitialTemperature is zero.
	initialTemperatureDivisor = 10.0
)

// FRConfig configures [FR].
type FRConfig struct {
	IdealEdgeLength float64 `json:"ideal_edge_length" validate:"gt=0"`
	Attraction      float64 `json:"attraction" validate:"gt=0"`
	Repulsion       float64 `json:"repulsion" validate:"gt=0"`
	Cooling         float64 `json:"cooling" validate:"gt=0,lt=1"`
	MinTemperature  float64 `json:"min_temperature" validate:"gt=0"`
	MinDistance     float64 `json:"min_distance" validate:"gt=0"`
	MaxIterations   int     `json:"max_iterations" validate:"gte=1"`

	// InitialTemperature is the largest displacement of the first step.
	// Zero derives it from the model width.
	InitialTemperature float64 `json:"initial_temperature" validate:"gte=0"`

	// Seed drives the placement of nodes that have no position yet.
	Seed uint64 `json:"seed"`
}

// DefaultFRConfig returns the documented defaults.
func DefaultFRConfig() FRConfig {
	return FRConfig{
		IdealEdgeLength: DefaultIdealEdgeLength,
		Attraction:      DefaultAttraction,
		Repulsion:       DefaultRepulsion,
		Cooling:         DefaultCooling,
		MinTemperature:  DefaultMinTemperature,
		MinDistance:     DefaultMinDistance,
		MaxIterations:   DefaultMaxIterations,
	}
}

// FR is an iterative force-directed layout.
type FR struct {
	cfg FRConfig

	mu          sync.Mutex
	temperature float64
	initial     float64
	iteration   int
	generation  uint64
}

// NewFR validates cfg and returns a force-directed layout.
func NewFR(cfg FRConfig) (*FR, error) {
	if err := errors.ValidateStruct(cfg); err != nil {
		return nil, err
	}
	return &FR{cfg: cfg}, nil
}

func (f *FR) Name() string { return "fr" }

// Visit places unplaced nodes randomly and restarts the cooling schedule.
// Nodes that already have a position keep it, so activating FR after
// another algorithm refines that algorithm's result.
func (f *FR) Visit(h *layout.Handle) {
	w, hgt := h.Size()
	rng := newRand(f.cfg.Seed)
	pos := make(map[string]geom.Point)
	for _, id := range h.Graph().Nodes() {
		if _, ok := h.Get(id); !ok {
			pos[id] = geom.Pt(rng.Float64()*w, rng.Float64()*hgt)
		}
	}
	h.SetAll(pos)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetLocked(w, h.Generation())
}

func (f *FR) resetLocked(width float64, gen uint64) {
	f.initial = f.cfg.InitialTemperature
	if f.initial == 0 {
		f.initial = width / initialTemperatureDivisor
	}
	f.temperature = f.initial
	f.iteration = 0
	f.generation = gen
}

// Step moves every unlocked node along the net force acting on it.
func (f *FR) Step(h *layout.Handle) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if gen := h.Generation(); gen != f.generation || f.initial == 0 {
		w, _ := h.Size()
		f.resetLocked(w, gen)
	}
	if f.doneLocked() {
		return
	}

	g := h.Graph()
	nodes := g.Nodes()
	cur := h.Snapshot()
	disp := make(map[string]geom.Point, len(nodes))

	for i, a := range nodes {
		pa, ok := cur[a]
		if !ok {
			continue
		}
		for j := i + 1; j < len(nodes); j++ {
			b := nodes[j]
			pb, ok := cur[b]
			if !ok {
				continue
			}
			delta, d := f.separation(pa, pb, i, j)
			force := f.cfg.Repulsion / (d * d)
			push := delta.Scale(force / d)
			disp[a] = disp[a].Add(push)
			disp[b] = disp[b].Sub(push)
		}
	}

	for _, e := range g.Edges() {
		if e.From == e.To {
			continue
		}
		pa, okA := cur[e.From]
		pb, okB := cur[e.To]
		if !okA || !okB {
			continue
		}
		delta := pb.Sub(pa)
		d := math.Max(delta.Len(), f.cfg.MinDistance)
		force := f.cfg.Attraction * (d - f.cfg.IdealEdgeLength)
		pull := delta.Scale(force / d)
		disp[e.From] = disp[e.From].Add(pull)
		disp[e.To] = disp[e.To].Sub(pull)
	}

	bounds := h.Model().Bounds()
	scale := f.temperature / f.initial
	next := make(map[string]geom.Point, len(disp))
	for id, dv := range disp {
		if h.Locked(id) {
			continue
		}
		dv = dv.Scale(scale)
		if l := dv.Len(); l > f.temperature {
			dv = dv.Scale(f.temperature / l)
		}
		next[id] = bounds.Clamp(cur[id].Add(dv))
	}
	h.SetAll(next)

	f.temperature *= f.cfg.Cooling
	f.iteration++
}

// separation returns the vector from b to a and its length. Coincident
// nodes are pushed apart along a direction derived from their indices so
// that the result stays deterministic.
func (f *FR) separation(a, b geom.Point, i, j int) (geom.Point, float64) {
	delta := a.Sub(b)
	d := delta.Len()
	if d < f.cfg.MinDistance {
		theta := float64(i*31+j*17) * 0.618
		delta = geom.Polar{Theta: theta, Rho: f.cfg.MinDistance}.Cartesian()
		d = f.cfg.MinDistance
	}
	return delta, d
}

// Done reports whether the temperature dropped below MinTemperature or the
// iteration cap was reached.
func (f *FR) Done() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.doneLocked()
}

func (f *FR) doneLocked() bool {
	if f.initial == 0 {
		return false
	}
	return f.temperature < f.cfg.MinTemperature || f.iteration >= f.cfg.MaxIterations
}

// Progress reports the current iteration and temperature.
func (f *FR) Progress() (iteration int, temperature float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.iteration, f.temperature
}

// Config returns the configuration the algorithm was built with.
func (f *FR) Config() FRConfig { return f.cfg }

var _ layout.Iterative = (*FR)(nil)
