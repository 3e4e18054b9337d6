package layout

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/lenslayout/pkg/errors"
	"github.com/matzehuels/lenslayout/pkg/geom"
	"github.com/matzehuels/lenslayout/pkg/network"
)

func testGraph(t *testing.T, ids ...string) *network.Graph {
	t.Helper()
	g := network.New(network.Directed)
	for _, id := range ids {
		require.NoError(t, g.AddNode(network.Node{ID: id}))
	}
	return g
}

// fixed places every node at the same point.
type fixed struct {
	p      geom.Point
	visits atomic.Int32
}

func (f *fixed) Name() string { return "fixed" }
func (f *fixed) Visit(h *Handle) {
	f.visits.Add(1)
	for _, id := range h.Graph().Nodes() {
		h.Set(id, f.p)
	}
}

// counter moves every node one unit right per step and finishes after limit
// steps. A negative limit never finishes.
type counter struct {
	limit  int
	steps  atomic.Int32
	active atomic.Int32
	maxPar atomic.Int32
}

func (c *counter) Name() string { return "counter" }
func (c *counter) Visit(h *Handle) {
	for _, id := range h.Graph().Nodes() {
		if _, ok := h.Get(id); !ok {
			h.Set(id, geom.Pt(0, 0))
		}
	}
}
func (c *counter) Step(h *Handle) {
	n := c.active.Add(1)
	if n > c.maxPar.Load() {
		c.maxPar.Store(n)
	}
	defer c.active.Add(-1)
	if c.Done() {
		return
	}
	for _, id := range h.Graph().Nodes() {
		p, _ := h.Get(id)
		h.Set(id, geom.Pt(p.X+1, p.Y))
	}
	time.Sleep(time.Millisecond)
	c.steps.Add(1)
}
func (c *counter) Done() bool { return c.limit >= 0 && int(c.steps.Load()) >= c.limit }

func TestModelGetSet(t *testing.T) {
	m := NewModel(testGraph(t, "a", "b"), 100, 100)

	_, ok := m.Get("a")
	assert.False(t, ok, "unplaced node has no position")

	assert.True(t, m.Set("a", geom.Pt(1, 2)))
	p, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, geom.Pt(1, 2), p)

	assert.False(t, m.Set("zzz", geom.Pt(1, 1)), "unknown node")
	assert.False(t, m.Set("b", geom.Pt(math.NaN(), 0)), "non-finite point")

	m.Lock("a", true)
	assert.True(t, m.Locked("a"))
	assert.False(t, m.Set("a", geom.Pt(9, 9)))
	p, _ = m.Get("a")
	assert.Equal(t, geom.Pt(1, 2), p)

	m.Lock("a", false)
	assert.True(t, m.Set("a", geom.Pt(9, 9)))
}

func TestModelSetSize(t *testing.T) {
	m := NewModel(testGraph(t, "a"), 100, 50)

	var events []Event
	m.OnChange(func(ev Event) { events = append(events, ev) })

	tests := []struct {
		w, h    float64
		wantErr bool
	}{
		{0, 10, true},
		{10, -1, true},
		{math.Inf(1), 10, true},
		{200, 300, false},
	}
	for _, tt := range tests {
		err := m.SetSize(tt.w, tt.h)
		if tt.wantErr {
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfiguration), "SetSize(%v,%v) = %v", tt.w, tt.h, err)
			w, h := m.Size()
			assert.Equal(t, 100.0, w)
			assert.Equal(t, 50.0, h)
		} else {
			assert.NoError(t, err)
		}
	}
	w, h := m.Size()
	assert.Equal(t, 200.0, w)
	assert.Equal(t, 300.0, h)
	assert.Equal(t, uint64(1), m.Generation())
	require.Len(t, events, 1)
	assert.Equal(t, Resized, events[0].Kind)
	assert.Equal(t, uint64(1), events[0].Generation)
}

func TestStaleHandleWritesAreDropped(t *testing.T) {
	m := NewModel(testGraph(t, "a"), 100, 100)
	h1 := m.Bind()
	assert.True(t, h1.Set("a", geom.Pt(1, 1)))

	h2 := m.Bind()
	assert.False(t, h1.Valid())
	assert.True(t, h2.Valid())
	assert.False(t, h1.Set("a", geom.Pt(5, 5)))
	assert.Equal(t, 0, h1.SetAll(map[string]geom.Point{"a": geom.Pt(5, 5)}))

	h1.MarkConverged()
	assert.False(t, m.Converged(), "stale handle cannot mark convergence")
	h2.MarkConverged()
	assert.True(t, m.Converged())

	p, _ := m.Get("a")
	assert.Equal(t, geom.Pt(1, 1), p)
}

func TestScratchCopiesLocks(t *testing.T) {
	m := NewModel(testGraph(t, "a", "b"), 300, 200)
	m.Set("a", geom.Pt(1, 1))
	m.Set("b", geom.Pt(2, 2))
	m.Lock("a", true)

	s := m.Scratch()
	w, h := s.Size()
	assert.Equal(t, 300.0, w)
	assert.Equal(t, 200.0, h)
	assert.True(t, s.Locked("a"))
	p, ok := s.Get("a")
	assert.True(t, ok)
	assert.Equal(t, geom.Pt(1, 1), p)
	_, ok = s.Get("b")
	assert.False(t, ok, "unlocked positions are not copied")

	s.Bind().Set("b", geom.Pt(7, 7))
	p, _ = m.Get("b")
	assert.Equal(t, geom.Pt(2, 2), p, "scratch is detached")
}

func TestDriverActivateDeterministic(t *testing.T) {
	m := NewModel(testGraph(t, "a", "b"), 100, 100)
	d := NewDriver(m, DriverOptions{})
	defer d.Close()

	alg := &fixed{p: geom.Pt(3, 4)}
	run, err := d.Activate(context.Background(), alg)
	require.NoError(t, err)

	// Visit has happened by the time Activate returns.
	p, ok := m.Get("b")
	assert.True(t, ok)
	assert.Equal(t, geom.Pt(3, 4), p)

	require.NoError(t, run.Wait(context.Background()))
	assert.True(t, run.Converged())
	assert.True(t, m.Converged())
	assert.Equal(t, alg, d.Current())
}

func TestDriverActivateNil(t *testing.T) {
	d := NewDriver(NewModel(testGraph(t, "a"), 1, 1), DriverOptions{})
	defer d.Close()
	_, err := d.Activate(context.Background(), nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidAlgorithm))
}

func TestDriverRelaxesUntilDone(t *testing.T) {
	m := NewModel(testGraph(t, "a"), 100, 100)
	d := NewDriver(m, DriverOptions{})
	defer d.Close()

	run, err := d.Activate(context.Background(), &counter{limit: 5})
	require.NoError(t, err)
	require.NoError(t, run.Wait(context.Background()))

	assert.Equal(t, 5, run.Steps())
	assert.True(t, m.Converged())
	p, _ := m.Get("a")
	assert.Equal(t, geom.Pt(5, 0), p)
}

func TestDriverMaxSteps(t *testing.T) {
	m := NewModel(testGraph(t, "a"), 100, 100)
	d := NewDriver(m, DriverOptions{MaxSteps: 3})
	defer d.Close()

	run, err := d.Activate(context.Background(), &counter{limit: -1})
	require.NoError(t, err)
	require.NoError(t, run.Wait(context.Background()))
	assert.Equal(t, 3, run.Steps())
	assert.False(t, run.Converged())
}

func TestDriverActivationNeverOverlaps(t *testing.T) {
	m := NewModel(testGraph(t, "a", "b", "c"), 100, 100)
	d := NewDriver(m, DriverOptions{Interval: time.Millisecond})
	defer d.Close()

	shared := &counter{limit: -1}
	first, err := d.Activate(context.Background(), shared)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	second, err := d.Activate(context.Background(), shared)
	require.NoError(t, err)

	select {
	case <-first.Done():
	default:
		t.Fatal("previous run must be finished when Activate returns")
	}
	assert.True(t, errors.Is(first.Err(), errors.ErrCodeCanceled))

	time.Sleep(10 * time.Millisecond)
	d.Stop()
	<-second.Done()
	assert.Equal(t, int32(1), shared.maxPar.Load(), "steps of two runs overlapped")
}

func TestDriverRestartsOnResize(t *testing.T) {
	m := NewModel(testGraph(t, "a"), 100, 100)
	d := NewDriver(m, DriverOptions{})
	defer d.Close()

	alg := &fixed{p: geom.Pt(1, 1)}
	run, err := d.Activate(context.Background(), alg)
	require.NoError(t, err)
	require.NoError(t, run.Wait(context.Background()))
	require.True(t, m.Converged())

	require.NoError(t, m.SetSize(400, 400))
	assert.Equal(t, int32(2), alg.visits.Load())
	require.NoError(t, d.Run().Wait(context.Background()))
	assert.True(t, m.Converged())
}

func TestDriverLaunchTask(t *testing.T) {
	m := NewModel(testGraph(t, "a"), 100, 100)
	d := NewDriver(m, DriverOptions{})
	defer d.Close()

	var mu sync.Mutex
	var seen []float64
	run := d.Launch(context.Background(), "frames", nil, func(ctx context.Context, h *Handle) (int, error) {
		for i := 0; i < 4; i++ {
			h.Set("a", geom.Pt(float64(i), 0))
			mu.Lock()
			p, _ := h.Get("a")
			seen = append(seen, p.X)
			mu.Unlock()
		}
		return 4, nil
	})
	require.NoError(t, run.Wait(context.Background()))
	assert.Equal(t, []float64{0, 1, 2, 3}, seen)
	assert.Equal(t, 4, run.Steps())
	assert.Nil(t, d.Current())
}

func TestRunWaitRespectsContext(t *testing.T) {
	m := NewModel(testGraph(t, "a"), 100, 100)
	d := NewDriver(m, DriverOptions{Interval: time.Hour})
	defer d.Close()

	run, err := d.Activate(context.Background(), &counter{limit: -1})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, run.Wait(ctx), context.DeadlineExceeded)
}
