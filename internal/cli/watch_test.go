package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/lenslayout/pkg/config"
	"github.com/matzehuels/lenslayout/pkg/geom"
	"github.com/matzehuels/lenslayout/pkg/graph"
	"github.com/matzehuels/lenslayout/pkg/network"
)

func pathGraph(t *testing.T) *network.Graph {
	t.Helper()
	g := network.New(network.Directed)
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, g.AddNode(network.Node{ID: id}))
	}
	require.NoError(t, g.AddEdge(network.Edge{From: "a", To: "b"}))
	require.NoError(t, g.AddEdge(network.Edge{From: "b", To: "c"}))
	return g
}

func TestRasterize(t *testing.T) {
	g := pathGraph(t)
	pos := map[string]geom.Point{
		"a": geom.Pt(5, 5),
		"b": geom.Pt(95, 5),
		"c": geom.Pt(500, 500), // off surface
	}

	grid := rasterize(g, pos, 100, 100, 10, 10, nil)
	require.Len(t, grid, 10)
	assert.Equal(t, glyphNode, grid[0][0])
	assert.Equal(t, glyphNode, grid[0][9])
	for c := 1; c < 9; c++ {
		assert.Equal(t, glyphEdge, grid[0][c], "column %d", c)
	}
	for r := 1; r < 10; r++ {
		assert.Equal(t, ' ', grid[r][0])
	}
}

func TestRasterizeFocused(t *testing.T) {
	pos := map[string]geom.Point{"a": geom.Pt(50, 50), "b": geom.Pt(10, 10)}
	inside := func(p geom.Point) bool { return p.Dist(geom.Pt(50, 50)) < 5 }

	grid := rasterize(nil, pos, 100, 100, 10, 10, inside)
	assert.Equal(t, glyphFocused, grid[5][5])
	assert.Equal(t, glyphNode, grid[1][1])
}

func TestRasterizeDegenerateSurface(t *testing.T) {
	grid := rasterize(nil, map[string]geom.Point{"a": geom.Pt(0, 0)}, 0, 100, 4, 2, nil)
	require.Len(t, grid, 2)
	assert.Equal(t, []rune("    "), grid[0])
}

func TestLineEndpoints(t *testing.T) {
	var cells [][2]int
	line(0, 0, 3, 1, func(c, r int) { cells = append(cells, [2]int{c, r}) })
	require.NotEmpty(t, cells)
	assert.Equal(t, [2]int{0, 0}, cells[0])
	assert.Equal(t, [2]int{3, 1}, cells[len(cells)-1])
	assert.Len(t, cells, 4)
}

func TestWatchModelKeys(t *testing.T) {
	cfg := config.Default()
	cfg.Transition.Frames = 2
	cfg.Transition.Interval = 0

	m, err := newWatchModel(t.Context(), pathGraph(t), cfg, "circle", true, nil)
	require.NoError(t, err)
	defer m.driver.Close()

	assert.Equal(t, "circle", m.driver.Current().Name())

	m.handleKey("l")
	require.NoError(t, m.err)
	assert.True(t, m.lens.Active())

	before := m.lens.Lens().Magnification()
	m.handleKey("+")
	require.NoError(t, m.err)
	assert.InDelta(t, before*magnifyFactor, m.lens.Lens().Magnification(), 1e-9)

	m.handleKey("l")
	assert.False(t, m.lens.Active())

	m.handleKey("right")
	require.NoError(t, m.err)
	p := m.view.Transform(geom.Pt(0, 0))
	assert.InDelta(t, panStep, p.X, 1e-9)

	m.handleKey("0")
	require.NoError(t, m.err)
	assert.InDelta(t, 0, m.view.Transform(geom.Pt(0, 0)).X, 1e-9)

	m.handleKey("1")
	require.NoError(t, m.err)
	assert.Equal(t, "tree", m.driver.Current().Name())

	assert.Contains(t, m.View(), "tree")
}

func TestWatchModelResize(t *testing.T) {
	m, err := newWatchModel(t.Context(), pathGraph(t), config.Default(), "circle", false, nil)
	require.NoError(t, err)
	defer m.driver.Close()

	model := m.driver.Model()
	gen := model.Generation()

	m.Update(tea.WindowSizeMsg{Width: 104, Height: 52})
	require.NoError(t, m.err)
	assert.Equal(t, 100, m.cols)
	assert.Equal(t, 40, m.rows)

	w, h := model.Size()
	assert.Equal(t, 1000.0, w)
	assert.Equal(t, 800.0, h)
	assert.Equal(t, gen+1, model.Generation())
	assert.True(t, m.lens.Lens().ViewCenter().Eq(geom.Pt(500, 400), 1e-9))

	// The circle was laid out again around the new center.
	var sum geom.Point
	for _, p := range model.Snapshot() {
		sum = sum.Add(p)
	}
	assert.True(t, sum.Scale(1.0/3).Eq(geom.Pt(500, 400), 1e-6), "centroid %v", sum)

	m.Update(tea.WindowSizeMsg{Width: 104, Height: 52})
	assert.Equal(t, gen+1, model.Generation(), "same size does not restart")
}

func TestWatchModelRejectsUnknownAlgorithm(t *testing.T) {
	_, err := newWatchModel(t.Context(), pathGraph(t), config.Default(), "spring", false, nil)
	assert.Error(t, err)
}

func TestWatchModelStartsFromSavedLayout(t *testing.T) {
	cfg := config.Default()
	cfg.FR.MaxIterations = 1

	saved := &graph.Layout{Positions: map[string]graph.Position{
		"a": {X: 10, Y: 10}, "b": {X: 20, Y: 10}, "c": {X: 30, Y: 10},
	}}
	m, err := newWatchModel(t.Context(), pathGraph(t), cfg, "fr", false, saved)
	require.NoError(t, err)
	defer m.driver.Close()

	assert.Equal(t, "fr (iterative)", m.status)
	p, ok := m.driver.Model().Get("a")
	require.True(t, ok)
	assert.Less(t, p.Dist(geom.Pt(10, 10)), 200.0, "fr keeps restored positions as its seed")
}
