package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/lenslayout/pkg/errors"
	"github.com/matzehuels/lenslayout/pkg/network"
)

// Graph is the canonical serialization format for network graphs.
type Graph struct {
	Directed bool   `json:"directed"`
	Nodes    []Node `json:"nodes"`
	Edges    []Edge `json:"edges"`
}

// Node is a serialized vertex.
type Node struct {
	ID   string         `json:"id"`
	Meta map[string]any `json:"meta,omitempty"`
}

// Edge is a serialized edge. An empty ID is assigned on import.
type Edge struct {
	ID   string         `json:"id,omitempty"`
	From string         `json:"from"`
	To   string         `json:"to"`
	Meta map[string]any `json:"meta,omitempty"`
}

// FromNetwork converts a graph to its serialization format, keeping
// insertion order.
func FromNetwork(g *network.Graph) Graph {
	ids := g.Nodes()
	edges := g.Edges()
	out := Graph{
		Directed: g.Directed(),
		Nodes:    make([]Node, len(ids)),
		Edges:    make([]Edge, len(edges)),
	}
	for i, id := range ids {
		n, _ := g.Node(id)
		out.Nodes[i] = Node{ID: id, Meta: copyMeta(n.Meta)}
	}
	for i, e := range edges {
		out.Edges[i] = Edge{ID: e.ID, From: e.From, To: e.To, Meta: copyMeta(e.Meta)}
	}
	return out
}

// ToNetwork builds a graph from its serialization format. Structural
// problems (duplicate IDs, dangling edges) come back as INVALID_INPUT
// wrapping the network sentinel error.
func ToNetwork(gj Graph) (*network.Graph, error) {
	mode := network.Undirected
	if gj.Directed {
		mode = network.Directed
	}
	g := network.New(mode)
	for _, nj := range gj.Nodes {
		if err := g.AddNode(network.Node{ID: nj.ID, Meta: copyMeta(nj.Meta)}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "add node %q", nj.ID)
		}
	}
	for _, ej := range gj.Edges {
		e := network.Edge{ID: ej.ID, From: ej.From, To: ej.To, Meta: copyMeta(ej.Meta)}
		if err := g.AddEdge(e); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "add edge %s→%s", ej.From, ej.To)
		}
	}
	return g, nil
}

func copyMeta(m map[string]any) network.Metadata {
	if m == nil {
		return nil
	}
	out := make(network.Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// UnmarshalGraph decodes JSON bytes into a Graph.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode graph")
	}
	return g, nil
}

// MarshalGraph encodes a graph as indented JSON.
func MarshalGraph(g *network.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraph writes a graph as JSON to w.
func WriteGraph(g *network.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromNetwork(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteGraphFile writes a graph to a JSON file.
func WriteGraphFile(g *network.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraph(g, f)
}

// ReadGraph decodes a JSON graph from r.
func ReadGraph(r io.Reader) (*network.Graph, error) {
	var gj Graph
	if err := json.NewDecoder(r).Decode(&gj); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode graph")
	}
	return ToNetwork(gj)
}

// ReadGraphFile reads a JSON graph file.
func ReadGraphFile(path string) (*network.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}
