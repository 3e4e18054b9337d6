// Package network provides the graph collaborator consumed by the layout
// engine.
//
// # Overview
//
// Layout algorithms never modify a graph; they only ask for its nodes, its
// edges and the neighborhood of a node. [Graph] keeps nodes in insertion
// order so that every algorithm sees the same deterministic iteration order,
// which in turn makes seeded layouts reproducible.
//
// # Basic Usage
//
//	g := network.New(network.Directed)
//	g.AddNode(network.Node{ID: "a"})
//	g.AddNode(network.Node{ID: "b"})
//	g.AddEdge(network.Edge{From: "a", To: "b"})
//
// Directed graphs report successors and predecessors separately. Undirected
// graphs report every incident edge from both sides, so Successors,
// Predecessors and Neighbors return the same set.
//
// Parallel edges and self loops are allowed. Generators such as the Kleinberg
// small-world model rely on parallel edges when a long-range contact is
// already a lattice neighbor.
//
// # Concurrency
//
// A Graph is not safe for concurrent mutation. Once built it may be read from
// any number of goroutines, which is how the layout engine uses it.
package network
