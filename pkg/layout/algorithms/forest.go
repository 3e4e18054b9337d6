package algorithms

import "github.com/matzehuels/lenslayout/pkg/network"

// forest is a spanning forest of a graph discovered depth-first.
type forest struct {
	roots    []string
	children map[string][]string
	depth    map[string]int
	leaves   map[string]int // number of leaves below (1 for a leaf)
	maxDepth int
}

func spanningForest(g *network.Graph) *forest {
	f := &forest{
		roots:    g.Roots(),
		children: make(map[string][]string),
		depth:    make(map[string]int),
		leaves:   make(map[string]int),
	}
	seen := make(map[string]bool, g.NodeCount())
	var visit func(id string, d int)
	visit = func(id string, d int) {
		seen[id] = true
		f.depth[id] = d
		f.maxDepth = max(f.maxDepth, d)
		for _, c := range g.Successors(id) {
			if seen[c] {
				continue
			}
			f.children[id] = append(f.children[id], c)
			visit(c, d+1)
		}
		n := 0
		for _, c := range f.children[id] {
			n += f.leaves[c]
		}
		f.leaves[id] = max(n, 1)
	}
	for _, r := range f.roots {
		if !seen[r] {
			visit(r, 0)
		}
	}
	return f
}

// totalLeaves is the number of leaf slots across all roots.
func (f *forest) totalLeaves() int {
	n := 0
	for _, r := range f.roots {
		n += f.leaves[r]
	}
	return n
}

// slots assigns each node the center of its leaf interval, measured in leaf
// units from the left edge of the forest.
func (f *forest) slots() map[string]float64 {
	out := make(map[string]float64, len(f.depth))
	offset := 0.0
	var place func(id string, left float64)
	place = func(id string, left float64) {
		out[id] = left + float64(f.leaves[id])/2
		for _, c := range f.children[id] {
			place(c, left)
			left += float64(f.leaves[c])
		}
	}
	for _, r := range f.roots {
		place(r, offset)
		offset += float64(f.leaves[r])
	}
	return out
}
