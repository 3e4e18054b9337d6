package layout

import (
	"github.com/matzehuels/lenslayout/pkg/geom"
	"github.com/matzehuels/lenslayout/pkg/network"
)

// Handle is the write token an algorithm receives from [Model.Bind].
// Reads through a handle always work; writes only while it is current.
type Handle struct {
	m     *Model
	token uint64
}

// Model returns the model the handle was issued by.
func (h *Handle) Model() *Model { return h.m }

// Graph is shorthand for h.Model().Graph().
func (h *Handle) Graph() *network.Graph { return h.m.graph }

// Valid reports whether no newer handle has been issued.
func (h *Handle) Valid() bool {
	h.m.mu.RLock()
	defer h.m.mu.RUnlock()
	return h.token == h.m.token
}

// Get returns the current position of id.
func (h *Handle) Get(id string) (geom.Point, bool) { return h.m.Get(id) }

// Size returns the model's width and height.
func (h *Handle) Size() (float64, float64) { return h.m.Size() }

// Locked reports whether id is pinned.
func (h *Handle) Locked(id string) bool { return h.m.Locked(id) }

// Generation returns the model's resize generation.
func (h *Handle) Generation() uint64 { return h.m.Generation() }

// Snapshot copies all placed positions.
func (h *Handle) Snapshot() map[string]geom.Point { return h.m.Snapshot() }

// Set writes one position. It reports false when the handle is stale, the
// node is locked or unknown, or p is not finite.
func (h *Handle) Set(id string, p geom.Point) bool {
	h.m.mu.Lock()
	defer h.m.mu.Unlock()
	if h.token != h.m.token {
		return false
	}
	return h.m.setLocked(id, p)
}

// SetAll writes many positions under one lock and returns how many were
// applied. Each node is still updated atomically on its own.
func (h *Handle) SetAll(pos map[string]geom.Point) int {
	h.m.mu.Lock()
	defer h.m.mu.Unlock()
	if h.token != h.m.token {
		return 0
	}
	n := 0
	for id, p := range pos {
		if h.m.setLocked(id, p) {
			n++
		}
	}
	return n
}

// MarkConverged records that the writer behind h finished its work.
func (h *Handle) MarkConverged() {
	h.m.mu.Lock()
	defer h.m.mu.Unlock()
	if h.token == h.m.token {
		h.m.converged = true
	}
}
