package network

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrDuplicateEdgeID is returned by [Graph.AddEdge] when an explicit edge
	// ID is already taken.
	ErrDuplicateEdgeID = errors.New("duplicate edge ID")
)

// Metadata stores arbitrary key-value pairs attached to nodes or edges.
type Metadata map[string]any

// Mode selects edge semantics.
type Mode int

const (
	Directed Mode = iota
	Undirected
)

func (m Mode) String() string {
	if m == Undirected {
		return "undirected"
	}
	return "directed"
}

// Node is a vertex. Only ID is interpreted by the layout engine.
type Node struct {
	ID   string
	Meta Metadata
}

// Edge connects From to To. An empty ID is assigned "e<index>" on insertion.
type Edge struct {
	ID   string
	From string
	To   string
	Meta Metadata
}

// Graph is an insertion-ordered multigraph.
//
// The zero value is not usable; create graphs with [New].
type Graph struct {
	mode     Mode
	order    []string
	nodes    map[string]*Node
	edges    []Edge
	edgeIDs  map[string]struct{}
	outgoing map[string][]string
	incoming map[string][]string
}

// New creates an empty graph.
func New(mode Mode) *Graph {
	return &Graph{
		mode:     mode,
		nodes:    make(map[string]*Node),
		edgeIDs:  make(map[string]struct{}),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// Mode returns whether the graph is directed or undirected.
func (g *Graph) Mode() Mode { return g.mode }

// Directed reports whether edges have a direction.
func (g *Graph) Directed() bool { return g.mode == Directed }

// AddNode adds a node. Meta is initialized to an empty map if nil.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID)
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	g.nodes[n.ID] = &n
	g.order = append(g.order, n.ID)
	return nil
}

// EnsureNode adds a node with the given id unless it already exists.
func (g *Graph) EnsureNode(id string) error {
	if _, ok := g.nodes[id]; ok {
		return nil
	}
	return g.AddNode(Node{ID: id})
}

// AddEdge connects two existing nodes. Parallel edges and self loops are
// kept as distinct edges.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSourceNode, e.From)
	}
	if _, ok := g.nodes[e.To]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTargetNode, e.To)
	}
	if e.ID == "" {
		e.ID = fmt.Sprintf("e%d", len(g.edges))
		for {
			if _, taken := g.edgeIDs[e.ID]; !taken {
				break
			}
			e.ID += "'"
		}
	} else if _, taken := g.edgeIDs[e.ID]; taken {
		return fmt.Errorf("%w: %s", ErrDuplicateEdgeID, e.ID)
	}
	if e.Meta == nil {
		e.Meta = Metadata{}
	}
	g.edges = append(g.edges, e)
	g.edgeIDs[e.ID] = struct{}{}
	g.outgoing[e.From] = append(g.outgoing[e.From], e.To)
	g.incoming[e.To] = append(g.incoming[e.To], e.From)
	if g.mode == Undirected && e.From != e.To {
		g.outgoing[e.To] = append(g.outgoing[e.To], e.From)
		g.incoming[e.From] = append(g.incoming[e.From], e.To)
	}
	return nil
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// HasNode reports whether id is a node of the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns node ids in insertion order.
func (g *Graph) Nodes() []string { return slices.Clone(g.order) }

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Successors returns the targets of edges leaving id, one entry per edge.
func (g *Graph) Successors(id string) []string { return slices.Clone(g.outgoing[id]) }

// Predecessors returns the sources of edges entering id, one entry per edge.
func (g *Graph) Predecessors(id string) []string { return slices.Clone(g.incoming[id]) }

// Neighbors returns the distinct nodes adjacent to id in either direction,
// in first-seen order.
func (g *Graph) Neighbors(id string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range [][]string{g.outgoing[id], g.incoming[id]} {
		for _, n := range list {
			if _, ok := seen[n]; ok || n == id {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	return out
}

// OutDegree returns the number of edges leaving id.
func (g *Graph) OutDegree(id string) int { return len(g.outgoing[id]) }

// InDegree returns the number of edges entering id.
func (g *Graph) InDegree(id string) int { return len(g.incoming[id]) }

// Roots returns nodes without predecessors. For undirected graphs, and for
// parts of a directed graph only reachable through a cycle, the first node
// of each unreached component is used instead. The result is in insertion
// order.
func (g *Graph) Roots() []string {
	isRoot := make(map[string]bool)
	reached := make(map[string]bool)
	if g.mode == Directed {
		for _, id := range g.order {
			if len(g.incoming[id]) == 0 {
				isRoot[id] = true
				g.walk(id, reached)
			}
		}
	}
	for _, id := range g.order {
		if !reached[id] {
			isRoot[id] = true
			g.walk(id, reached)
		}
	}
	roots := make([]string, 0, len(isRoot))
	for _, id := range g.order {
		if isRoot[id] {
			roots = append(roots, id)
		}
	}
	return roots
}

func (g *Graph) walk(start string, seen map[string]bool) {
	stack := []string{start}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[id] {
			continue
		}
		seen[id] = true
		stack = append(stack, g.outgoing[id]...)
	}
}
