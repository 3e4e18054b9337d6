// Package algorithms provides the concrete layout strategies.
//
// Deterministic algorithms place every node in Visit:
//
//   - [Tree] stacks depth levels top to bottom and centers parents over
//     their children.
//   - [Radial] maps the same tree onto concentric rings around the model
//     center and exposes the polar coordinates it used.
//   - [Balloon] places children on a circle around their parent, with a
//     radius that grows with the size of the child subtrees.
//   - [Circle] places all nodes on a single circle.
//   - [Random] scatters nodes uniformly inside the bounds from a seed.
//
// [FR] is a Fruchterman-Reingold style force-directed algorithm. It
// implements [layout.Iterative]: Visit only seeds unplaced nodes, and each
// Step applies repulsion between all pairs and spring attraction along edges
// while a temperature cools towards convergence.
//
// The tree-based algorithms accept any graph. A spanning forest is derived
// by depth-first discovery from [network.Graph.Roots], so cycles are broken
// at the first edge that revisits a node.
package algorithms
