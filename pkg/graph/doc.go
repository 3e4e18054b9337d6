// Package graph provides the JSON wire format for graphs and computed layouts.
//
// This package sits at the serialization boundary between the layout engine
// and everything outside it: files read by the CLI, API request and response
// bodies, and cache entries.
//
//   - [Graph], [Node], [Edge]: node-link format for network.Graph
//   - [Layout], [Position]: positions computed by a layout algorithm
//
// Use [FromNetwork]/[ToNetwork] and [FromModel] to convert between the wire
// types and the in-memory ones.
//
// # Graph Serialization
//
// Graphs use a node-link format. Node order is significant: tree, radial
// and circle layouts follow it, so it is preserved in both directions.
//
//	{
//	  "directed": true,
//	  "nodes": [{"id": "a"}, {"id": "b"}],
//	  "edges": [{"id": "e0", "from": "a", "to": "b"}]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("net.json")      // File → network.Graph
//	graph.WriteGraphFile(g, "out.json")          // network.Graph → File
//	data, _ := graph.MarshalGraph(g)             // network.Graph → []byte
//	wire, _ := graph.UnmarshalGraph(data)        // []byte → Graph
//
// # Layout Serialization
//
//	{
//	  "algorithm": "fr",
//	  "width": 600,
//	  "height": 600,
//	  "positions": {"a": {"x": 10, "y": 20}},
//	  "converged": true,
//	  "iterations": 212
//	}
//
// Positions are keyed by node ID; encoding/json sorts the keys, so the same
// layout always serializes to the same bytes. View holds the same positions
// mapped through a view transform when one was requested.
package graph
