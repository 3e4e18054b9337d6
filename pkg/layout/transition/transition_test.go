package transition

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/lenslayout/pkg/errors"
	"github.com/matzehuels/lenslayout/pkg/geom"
	"github.com/matzehuels/lenslayout/pkg/layout"
	"github.com/matzehuels/lenslayout/pkg/layout/algorithms"
	"github.com/matzehuels/lenslayout/pkg/network"
)

func chain(t *testing.T, ids ...string) *network.Graph {
	t.Helper()
	g := network.New(network.Directed)
	for i, id := range ids {
		require.NoError(t, g.AddNode(network.Node{ID: id}))
		if i > 0 {
			require.NoError(t, g.AddEdge(network.Edge{From: ids[i-1], To: id}))
		}
	}
	return g
}

func expected(t *testing.T, g *network.Graph, alg layout.Algorithm, w, h float64) map[string]geom.Point {
	t.Helper()
	m := layout.NewModel(g, w, h)
	alg.Visit(m.Bind())
	return m.Snapshot()
}

func fastOptions() Options {
	o := DefaultOptions()
	o.Interval = 0
	return o
}

func TestApply(t *testing.T) {
	g := chain(t, "a", "b", "c")
	m := layout.NewModel(g, 500, 500)
	d := layout.NewDriver(m, layout.DriverOptions{})
	defer d.Close()

	_, err := Apply(context.Background(), d, algorithms.Circle{})
	require.NoError(t, err)
	assert.Equal(t, expected(t, g, algorithms.Circle{}, 500, 500), m.Snapshot())
}

func TestAnimateEndsOnTarget(t *testing.T) {
	g := chain(t, "a", "b", "c", "d")
	m := layout.NewModel(g, 400, 400)
	d := layout.NewDriver(m, layout.DriverOptions{})
	defer d.Close()

	_, err := Apply(context.Background(), d, algorithms.Circle{})
	require.NoError(t, err)

	run, err := Animate(context.Background(), d, algorithms.NewRadial(), fastOptions())
	require.NoError(t, err)
	require.NoError(t, run.Wait(context.Background()))

	assert.Equal(t, expected(t, g, algorithms.NewRadial(), 400, 400), m.Snapshot())
	assert.Equal(t, DefaultFrames, run.Steps())
	assert.True(t, m.Converged())
	assert.Equal(t, "radial", d.Current().Name())
}

func TestAnimateFramesAreOrdered(t *testing.T) {
	g := chain(t, "a", "b")
	m := layout.NewModel(g, 1000, 1000)
	m.Set("a", geom.Pt(0, 0))
	m.Set("b", geom.Pt(0, 0))
	d := layout.NewDriver(m, layout.DriverOptions{})
	defer d.Close()

	var mu sync.Mutex
	var xs []float64
	m.OnChange(func(ev layout.Event) {
		if ev.Kind != layout.PositionsChanged {
			return
		}
		p, _ := m.Get("b")
		mu.Lock()
		xs = append(xs, p.X)
		mu.Unlock()
	})

	tree, err := algorithms.NewTree(algorithms.DefaultTreeConfig())
	require.NoError(t, err)
	want := expected(t, g, tree, 1000, 1000)

	opts := fastOptions()
	opts.Frames = 10
	run, err := Animate(context.Background(), d, tree, opts)
	require.NoError(t, err)
	require.NoError(t, run.Wait(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, xs, 10)
	for i := 1; i < len(xs); i++ {
		assert.GreaterOrEqual(t, xs[i], xs[i-1], "frame %d went backwards", i)
	}
	assert.Equal(t, want["b"].X, xs[len(xs)-1])
	assert.InDelta(t, want["b"].X/2, xs[4], 1e-3, "linear easing is halfway at frame 5 of 10")
}

func TestAnimateIsCanceledByActivation(t *testing.T) {
	g := chain(t, "a", "b", "c")
	m := layout.NewModel(g, 300, 300)
	d := layout.NewDriver(m, layout.DriverOptions{})
	defer d.Close()

	opts := DefaultOptions()
	opts.Interval = time.Hour
	run, err := Animate(context.Background(), d, algorithms.NewBalloon(), opts)
	require.NoError(t, err)

	_, err = Apply(context.Background(), d, algorithms.Circle{})
	require.NoError(t, err)

	select {
	case <-run.Done():
	default:
		t.Fatal("transition still running after activation")
	}
	assert.True(t, errors.Is(run.Err(), errors.ErrCodeCanceled))
	assert.Equal(t, expected(t, g, algorithms.Circle{}, 300, 300), m.Snapshot())
}

func TestAnimateNewTransitionCancelsOld(t *testing.T) {
	g := chain(t, "a", "b")
	m := layout.NewModel(g, 300, 300)
	d := layout.NewDriver(m, layout.DriverOptions{})
	defer d.Close()

	slow := DefaultOptions()
	slow.Interval = time.Hour
	first, err := Animate(context.Background(), d, algorithms.NewRadial(), slow)
	require.NoError(t, err)

	second, err := Animate(context.Background(), d, algorithms.Circle{}, fastOptions())
	require.NoError(t, err)
	require.NoError(t, second.Wait(context.Background()))

	assert.True(t, errors.Is(first.Err(), errors.ErrCodeCanceled))
	assert.Equal(t, expected(t, g, algorithms.Circle{}, 300, 300), m.Snapshot())
}

func TestAnimateIntoIterativeKeepsRelaxing(t *testing.T) {
	g := chain(t, "a", "b", "c")
	m := layout.NewModel(g, 400, 400)
	d := layout.NewDriver(m, layout.DriverOptions{})
	defer d.Close()

	_, err := Apply(context.Background(), d, algorithms.Circle{})
	require.NoError(t, err)

	fr, err := algorithms.NewFR(algorithms.DefaultFRConfig())
	require.NoError(t, err)
	run, err := Animate(context.Background(), d, fr, fastOptions())
	require.NoError(t, err)
	require.NoError(t, run.Wait(context.Background()))

	assert.True(t, fr.Done())
	assert.True(t, run.Converged())
	assert.Greater(t, run.Steps(), DefaultFrames)
}

func TestAnimateUnplacedNodeWaitsForFinalFrame(t *testing.T) {
	g := chain(t, "a", "b")
	m := layout.NewModel(g, 200, 200)
	m.Set("a", geom.Pt(1, 1))
	d := layout.NewDriver(m, layout.DriverOptions{})
	defer d.Close()

	var mu sync.Mutex
	placedAt := -1
	frame := 0
	m.OnChange(func(ev layout.Event) {
		if ev.Kind != layout.PositionsChanged {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		frame++
		if _, ok := m.Get("b"); ok && placedAt < 0 {
			placedAt = frame
		}
	})

	opts := fastOptions()
	opts.Frames = 5
	run, err := Animate(context.Background(), d, algorithms.Circle{}, opts)
	require.NoError(t, err)
	require.NoError(t, run.Wait(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 5, placedAt)
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", DefaultOptions(), false},
		{"empty easing", Options{Frames: 3}, false},
		{"zero frames", Options{Frames: 0}, true},
		{"negative interval", Options{Frames: 2, Interval: -time.Second}, true},
		{"unknown easing", Options{Frames: 2, Easing: "wobble"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfiguration))
			}
		})
	}
}

func TestAnimateRejectsNilTarget(t *testing.T) {
	d := layout.NewDriver(layout.NewModel(chain(t, "a"), 10, 10), layout.DriverOptions{})
	defer d.Close()
	_, err := Animate(context.Background(), d, nil, DefaultOptions())
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidAlgorithm))
}
