package generate

import (
	"fmt"

	"github.com/matzehuels/lenslayout/pkg/errors"
	"github.com/matzehuels/lenslayout/pkg/network"
)

const latticeIDFmt = "%d,%d"

// LatticeID returns the node ID of the cell at row r, column c.
func LatticeID(r, c int) string { return fmt.Sprintf(latticeIDFmt, r, c) }

// Lattice is a generated grid graph together with its coordinate metric.
type Lattice struct {
	Graph    *network.Graph
	Rows     int
	Cols     int
	Toroidal bool

	coords map[string][2]int
}

// Lattice2D builds a rows×cols grid. When toroidal is set, the last row and
// column wrap around to the first. The mode decides whether each adjacency is
// one undirected edge or two opposing arcs.
func Lattice2D(rows, cols int, toroidal bool, mode network.Mode) (*Lattice, error) {
	if rows < 2 || cols < 2 {
		return nil, errors.InvalidConfig("lattice needs at least 2 rows and 2 columns, got %dx%d", rows, cols)
	}
	if toroidal && (rows < 3 || cols < 3) {
		// A 2-wide torus would double every wrapped edge onto an existing one.
		return nil, errors.InvalidConfig("toroidal lattice needs at least 3 rows and 3 columns, got %dx%d", rows, cols)
	}

	l := &Lattice{
		Graph:    network.New(mode),
		Rows:     rows,
		Cols:     cols,
		Toroidal: toroidal,
		coords:   make(map[string][2]int, rows*cols),
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			id := LatticeID(r, c)
			if err := l.Graph.AddNode(network.Node{ID: id, Meta: network.Metadata{"row": r, "col": c}}); err != nil {
				return nil, err
			}
			l.coords[id] = [2]int{r, c}
		}
	}

	connect := func(a, b string) error {
		if err := l.Graph.AddEdge(network.Edge{From: a, To: b}); err != nil {
			return err
		}
		if mode == network.Directed {
			return l.Graph.AddEdge(network.Edge{From: b, To: a})
		}
		return nil
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			u := LatticeID(r, c)
			if c+1 < cols || toroidal {
				if err := connect(u, LatticeID(r, (c+1)%cols)); err != nil {
					return nil, err
				}
			}
			if r+1 < rows || toroidal {
				if err := connect(u, LatticeID((r+1)%rows, c)); err != nil {
					return nil, err
				}
			}
		}
	}
	return l, nil
}

// Coord returns the row and column of a lattice node.
func (l *Lattice) Coord(id string) (row, col int, ok bool) {
	rc, ok := l.coords[id]
	return rc[0], rc[1], ok
}

// Distance returns the Manhattan distance between two lattice nodes, taking
// the shorter way around when the lattice is toroidal. Unknown IDs yield -1.
func (l *Lattice) Distance(a, b string) int {
	ra, ca, okA := l.Coord(a)
	rb, cb, okB := l.Coord(b)
	if !okA || !okB {
		return -1
	}
	return axisDistance(ra, rb, l.Rows, l.Toroidal) + axisDistance(ca, cb, l.Cols, l.Toroidal)
}

func axisDistance(a, b, size int, wrap bool) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	if wrap && size-d < d {
		return size - d
	}
	return d
}
