// Package generate builds synthetic graphs for exercising layouts.
//
// [Lattice2D] produces a rows×cols grid whose node IDs follow the fixed
// "r,c" coordinate scheme, optionally wrapped into a torus. In a directed
// lattice every adjacency is emitted as a pair of opposing arcs, so each
// interior (or toroidal) node has out-degree 4.
//
// [KleinbergSmallWorld] adds long-range contacts to a lattice. Each node
// gains ConnectionCount new out-edges whose targets are drawn with
// probability proportional to d^-α, where d is the lattice distance and α
// the clustering exponent.
package generate
