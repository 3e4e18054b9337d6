package layout

import (
	"maps"
	"sync"

	"github.com/matzehuels/lenslayout/pkg/errors"
	"github.com/matzehuels/lenslayout/pkg/geom"
	"github.com/matzehuels/lenslayout/pkg/network"
)

// EventKind identifies what changed in a model.
type EventKind int

const (
	// PositionsChanged asks renderers to repaint.
	PositionsChanged EventKind = iota
	// Resized reports a new width or height.
	Resized
)

func (k EventKind) String() string {
	if k == Resized {
		return "resized"
	}
	return "positions_changed"
}

// Event is delivered to model listeners.
type Event struct {
	Kind       EventKind
	Generation uint64
}

// Model stores node positions for one graph.
//
// The zero value is not usable; create models with [NewModel].
type Model struct {
	graph *network.Graph

	mu        sync.RWMutex
	width     float64
	height    float64
	pos       map[string]geom.Point
	locked    map[string]bool
	converged bool
	gen       uint64
	token     uint64

	lmu       sync.Mutex
	listeners map[int]func(Event)
	nextL     int
}

// NewModel creates an empty model. Non-positive sizes are replaced by 1 so
// that the model is always usable; callers validating user input should use
// [Model.SetSize] instead.
func NewModel(g *network.Graph, width, height float64) *Model {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	return &Model{
		graph:     g,
		width:     width,
		height:    height,
		pos:       make(map[string]geom.Point, g.NodeCount()),
		locked:    make(map[string]bool),
		listeners: make(map[int]func(Event)),
	}
}

// Graph returns the graph whose nodes the model positions.
func (m *Model) Graph() *network.Graph { return m.graph }

// Get returns the position of id. The second result is false when the node
// is unknown or has not been placed yet.
func (m *Model) Get(id string) (geom.Point, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.pos[id]
	return p, ok
}

// Set moves id to p on behalf of the user (for example a drag). Locked
// nodes, unknown nodes and non-finite points are ignored.
func (m *Model) Set(id string, p geom.Point) bool {
	m.mu.Lock()
	ok := m.setLocked(id, p)
	m.mu.Unlock()
	if ok {
		m.Changed()
	}
	return ok
}

func (m *Model) setLocked(id string, p geom.Point) bool {
	if m.locked[id] || !m.graph.HasNode(id) || !p.IsFinite() {
		return false
	}
	m.pos[id] = p
	return true
}

// Lock pins or releases a node.
func (m *Model) Lock(id string, locked bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if locked {
		m.locked[id] = true
	} else {
		delete(m.locked, id)
	}
}

// Locked reports whether id is pinned.
func (m *Model) Locked(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.locked[id]
}

// Size returns the current width and height.
func (m *Model) Size() (width, height float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.width, m.height
}

// Bounds returns the layout area as a rectangle at the origin.
func (m *Model) Bounds() geom.Rect {
	w, h := m.Size()
	return geom.Rect{W: w, H: h}
}

// SetSize changes the layout area. Non-positive or non-finite sizes are
// rejected with INVALID_CONFIGURATION and the previous size is kept.
// A successful resize clears the convergence flag, bumps the generation and
// notifies listeners with a Resized event.
func (m *Model) SetSize(width, height float64) error {
	if err := errors.ValidatePositive("width", width); err != nil {
		return err
	}
	if err := errors.ValidatePositive("height", height); err != nil {
		return err
	}
	m.mu.Lock()
	m.width, m.height = width, height
	m.converged = false
	m.gen++
	gen := m.gen
	m.mu.Unlock()

	m.emit(Event{Kind: Resized, Generation: gen})
	return nil
}

// Generation counts successful resizes.
func (m *Model) Generation() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gen
}

// Converged reports whether the last writer finished its work.
func (m *Model) Converged() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.converged
}

// Snapshot copies all placed positions under a single read lock.
func (m *Model) Snapshot() map[string]geom.Point {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.pos)
}

// Placed returns the number of nodes that have a position.
func (m *Model) Placed() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.pos)
}

// Scratch returns a detached model over the same graph with the same size,
// the same locks and the positions of locked nodes. Listeners are not copied.
func (m *Model) Scratch() *Model {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := NewModel(m.graph, m.width, m.height)
	s.gen = m.gen
	for id := range m.locked {
		s.locked[id] = true
		if p, ok := m.pos[id]; ok {
			s.pos[id] = p
		}
	}
	return s
}

// Bind issues a new write handle and invalidates all earlier ones.
func (m *Model) Bind() *Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token++
	m.converged = false
	return &Handle{m: m, token: m.token}
}

// OnChange registers a listener and returns a function that removes it.
// Listeners run synchronously on the goroutine that caused the event and
// must not call Bind or SetSize.
func (m *Model) OnChange(fn func(Event)) (unsubscribe func()) {
	m.lmu.Lock()
	defer m.lmu.Unlock()
	id := m.nextL
	m.nextL++
	m.listeners[id] = fn
	return func() {
		m.lmu.Lock()
		defer m.lmu.Unlock()
		delete(m.listeners, id)
	}
}

// Changed notifies listeners that positions moved.
func (m *Model) Changed() {
	m.emit(Event{Kind: PositionsChanged, Generation: m.Generation()})
}

func (m *Model) emit(ev Event) {
	m.lmu.Lock()
	fns := make([]func(Event), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.lmu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}
