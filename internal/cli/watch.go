package cli

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lenslayout/pkg/config"
	"github.com/matzehuels/lenslayout/pkg/geom"
	"github.com/matzehuels/lenslayout/pkg/graph"
	"github.com/matzehuels/lenslayout/pkg/layout"
	"github.com/matzehuels/lenslayout/pkg/layout/algorithms"
	"github.com/matzehuels/lenslayout/pkg/layout/transition"
	"github.com/matzehuels/lenslayout/pkg/network"
	"github.com/matzehuels/lenslayout/pkg/transform"
)

// Grid glyphs.
const (
	glyphEdge    = '·'
	glyphNode    = 'o'
	glyphFocused = '@'
)

const (
	panStep       = 20.0
	magnifyFactor = 1.25
)

// Surface units per terminal cell. Cells are about twice as tall as wide.
const (
	cellWidth  = 10.0
	cellHeight = 20.0
)

var (
	watchHelpStyle  = lipgloss.NewStyle().Foreground(colorDim)
	watchFrameStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	watchNodeStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	watchFocusStyle = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
)

type tickMsg time.Time

// watchModel is the bubbletea model behind the watch command. It owns a
// driver and repaints the model's positions through the view transformer.
type watchModel struct {
	ctx     context.Context
	driver  *layout.Driver
	view    *transform.MultiLayer
	lens    *transform.LensSupport
	algs    algorithms.Config
	trans   transition.Options
	animate bool
	refresh time.Duration

	cols, rows int
	status     string
	err        error
}

func newWatchModel(ctx context.Context, g *network.Graph, cfg config.File, algorithm string, animate bool, from *graph.Layout) (*watchModel, error) {
	m := layout.NewModel(g, cfg.Surface.Width, cfg.Surface.Height)
	if from != nil {
		from.Restore(m)
	}
	view := transform.NewMultiLayer()
	lens, err := transform.NewLens(cfg.LensOptions())
	if err != nil {
		return nil, err
	}
	if err := lens.Resize(cfg.Surface.Width, cfg.Surface.Height); err != nil {
		return nil, err
	}
	kind, err := cfg.LensKind()
	if err != nil {
		return nil, err
	}
	layer, err := cfg.LensLayer()
	if err != nil {
		return nil, err
	}
	support, err := transform.NewLensSupport(view, layer, lens, kind)
	if err != nil {
		return nil, err
	}

	opts := cfg.DriverOptions()
	if opts.Interval == 0 {
		opts.Interval = layout.DefaultInterval
	}
	d := layout.NewDriver(m, opts)

	w := &watchModel{
		ctx:     ctx,
		driver:  d,
		view:    view,
		lens:    support,
		algs:    cfg.Algorithms(),
		trans:   cfg.TransitionOptions(),
		animate: animate,
		refresh: opts.Interval,
		cols:    80,
		rows:    24,
	}
	if err := w.switchTo(algorithm); err != nil {
		d.Close()
		return nil, err
	}
	return w, nil
}

// switchTo hands the model to the named algorithm. The first activation and
// non-animated switches jump; later ones are animated.
func (m *watchModel) switchTo(name string) error {
	alg, err := algorithms.New(name, m.algs)
	if err != nil {
		return err
	}
	if m.animate && m.driver.Current() != nil {
		_, err = transition.Animate(m.ctx, m.driver, alg, m.trans)
	} else {
		_, err = transition.Apply(m.ctx, m.driver, alg)
	}
	if err != nil {
		return err
	}
	m.status = layout.Describe(alg)
	return nil
}

func (m *watchModel) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *watchModel) Init() tea.Cmd { return m.tick() }

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, m.tick()
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		return m, m.handleKey(msg.String())
	}
	return m, nil
}

func (m *watchModel) handleKey(key string) tea.Cmd {
	m.err = nil
	switch key {
	case "q", "ctrl+c", "esc":
		m.driver.Close()
		return tea.Quit
	case "1", "2", "3", "4", "5", "6":
		i := int(key[0] - '1')
		if i < len(algorithms.Names) {
			m.err = m.switchTo(algorithms.Names[i])
		}
	case "l":
		if m.lens.Active() {
			m.lens.Deactivate()
			m.status = "lens off"
		} else {
			m.err = m.lens.Activate()
			m.status = "lens on"
		}
	case "+", "=":
		m.magnify(magnifyFactor)
	case "-":
		m.magnify(1 / magnifyFactor)
	case "left":
		m.err = m.view.Translate(transform.LayerView, -panStep, 0)
	case "right":
		m.err = m.view.Translate(transform.LayerView, panStep, 0)
	case "up":
		m.err = m.view.Translate(transform.LayerView, 0, -panStep)
	case "down":
		m.err = m.view.Translate(transform.LayerView, 0, panStep)
	case "0":
		m.err = m.view.SetToIdentity(transform.LayerView)
		m.status = "view reset"
	}
	return nil
}

// resize fits the grid to the terminal and resizes the surface to match.
// The model restarts its algorithm and the lens recenters.
func (m *watchModel) resize(width, height int) {
	m.cols = max(width-4, 10)
	m.rows = max(height-12, 5)
	w, h := float64(m.cols)*cellWidth, float64(m.rows)*cellHeight

	model := m.driver.Model()
	if cw, ch := model.Size(); cw == w && ch == h {
		return
	}
	if err := m.lens.Lens().Resize(w, h); err != nil {
		m.err = err
		return
	}
	if err := model.SetSize(w, h); err != nil {
		m.err = err
		return
	}
	m.status = fmt.Sprintf("surface %.0f×%.0f", w, h)
}

func (m *watchModel) magnify(f float64) {
	l := m.lens.Lens()
	next := l.Magnification() * f
	if err := l.SetMagnification(next); err != nil {
		m.err = err
		return
	}
	m.status = fmt.Sprintf("magnification %.2f", next)
}

func (m *watchModel) View() string {
	model := m.driver.Model()
	w, h := model.Size()
	pos := m.view.TransformAll(model.Snapshot())

	var focused func(geom.Point) bool
	if m.lens.Active() {
		focused = m.lens.Lens().Contains
	}
	grid := rasterize(model.Graph(), pos, w, h, m.cols, m.rows, focused)

	var b strings.Builder
	b.WriteString(StyleTitle.Render("lenslayout watch"))
	b.WriteString("\n")
	b.WriteString(watchFrameStyle.Render(colorize(grid)))
	b.WriteString("\n")
	b.WriteString(m.statsTable())
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(styleIconError.Render(iconError + " " + m.err.Error()))
	} else {
		b.WriteString(StyleDim.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(watchHelpStyle.Render(watchHelp()))
	return b.String()
}

func (m *watchModel) statsTable() string {
	model := m.driver.Model()
	name := "-"
	if cur := m.driver.Current(); cur != nil {
		name = cur.Name()
	}
	steps := 0
	if run := m.driver.Run(); run != nil {
		steps = run.Steps()
	}
	lens := "off"
	if m.lens.Active() {
		lens = fmt.Sprintf("%s ×%.2f", m.lens.Kind(), m.lens.Lens().Magnification())
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Algorithm", "Nodes", "Edges", "Steps", "Converged", "Lens").
		Row(name,
			fmt.Sprint(model.Graph().NodeCount()),
			fmt.Sprint(model.Graph().EdgeCount()),
			fmt.Sprint(steps),
			fmt.Sprint(model.Converged()),
			lens).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
	return t.Render()
}

func watchHelp() string {
	keys := make([]string, len(algorithms.Names))
	for i, n := range algorithms.Names {
		keys[i] = fmt.Sprintf("%d %s", i+1, n)
	}
	return strings.Join(keys, "  ") + "\nl lens  +/- magnify  arrows pan  0 reset  q quit"
}

// rasterize maps positions on a width×height surface onto a cols×rows
// character grid. Edges are drawn first so nodes stay visible; nodes for
// which focused returns true get a distinct glyph. Points outside the
// surface are clipped.
func rasterize(g *network.Graph, pos map[string]geom.Point, width, height float64, cols, rows int, focused func(geom.Point) bool) [][]rune {
	grid := make([][]rune, rows)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", cols))
	}
	if width <= 0 || height <= 0 || cols <= 0 || rows <= 0 {
		return grid
	}

	cell := func(p geom.Point) (int, int) {
		c := int(math.Floor(p.X / width * float64(cols)))
		r := int(math.Floor(p.Y / height * float64(rows)))
		return c, r
	}
	set := func(c, r int, ch rune) {
		if c >= 0 && c < cols && r >= 0 && r < rows {
			grid[r][c] = ch
		}
	}

	if g != nil {
		for _, e := range g.Edges() {
			a, okA := pos[e.From]
			b, okB := pos[e.To]
			if !okA || !okB {
				continue
			}
			c0, r0 := cell(a)
			c1, r1 := cell(b)
			line(c0, r0, c1, r1, func(c, r int) { set(c, r, glyphEdge) })
		}
	}
	for _, p := range pos {
		c, r := cell(p)
		ch := glyphNode
		if focused != nil && focused(p) {
			ch = glyphFocused
		}
		set(c, r, ch)
	}
	return grid
}

// line visits the cells of the segment from (c0,r0) to (c1,r1) using
// Bresenham's algorithm.
func line(c0, r0, c1, r1 int, visit func(c, r int)) {
	dc, dr := abs(c1-c0), -abs(r1-r0)
	sc, sr := 1, 1
	if c0 > c1 {
		sc = -1
	}
	if r0 > r1 {
		sr = -1
	}
	errv := dc + dr
	for {
		visit(c0, r0)
		if c0 == c1 && r0 == r1 {
			return
		}
		e2 := 2 * errv
		if e2 >= dr {
			errv += dr
			c0 += sc
		}
		if e2 <= dc {
			errv += dc
			r0 += sr
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func colorize(grid [][]rune) string {
	lines := make([]string, len(grid))
	for i, row := range grid {
		var b strings.Builder
		for _, ch := range row {
			switch ch {
			case glyphNode:
				b.WriteString(watchNodeStyle.Render(string(ch)))
			case glyphFocused:
				b.WriteString(watchFocusStyle.Render(string(ch)))
			case glyphEdge:
				b.WriteString(StyleDim.Render(string(ch)))
			default:
				b.WriteRune(ch)
			}
		}
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}

// watchCommand creates the interactive watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		algorithm string
		noAnimate bool
		from      string
	)

	cmd := &cobra.Command{
		Use:   "watch [graph.json]",
		Short: "Watch a layout converge in the terminal",
		Long: `Watch a layout converge in the terminal.

Keys 1-6 switch algorithm with an animated transition, l toggles the lens,
+ and - change its magnification, the arrow keys pan the view and q quits.
The surface follows the terminal size; resizing the window restarts the
algorithm and recenters the lens. Lens kind, layer and transition easing
come from the config file. With
--from the model starts at the positions of a saved layout, so fr continues
relaxing where an earlier run stopped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graph.ReadGraphFile(args[0])
			if err != nil {
				return fmt.Errorf("load graph %s: %w", args[0], err)
			}
			var saved *graph.Layout
			if from != "" {
				l, err := graph.ReadLayoutFile(from)
				if err != nil {
					return fmt.Errorf("load layout %s: %w", from, err)
				}
				saved = &l
			}
			name := flagOr(cmd, "algorithm", algorithm, c.cfg.Layout.Algorithm)
			m, err := newWatchModel(cmd.Context(), g, c.cfg, name, !noAnimate, saved)
			if err != nil {
				return err
			}
			defer m.driver.Close()

			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			if err != nil && cmd.Context().Err() != nil {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", c.cfg.Layout.Algorithm, "initial algorithm: "+strings.Join(algorithms.Names, ", "))
	cmd.Flags().BoolVar(&noAnimate, "no-animate", false, "switch algorithms without transition frames")
	cmd.Flags().StringVar(&from, "from", "", "start from the positions in a saved layout.json")

	return cmd
}
