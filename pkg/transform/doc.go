// Package transform maps points between layout space and a render
// surface's view space.
//
// # Layers
//
// A [MultiLayer] holds two independent chains, [LayerLayout] and
// [LayerView]. Transform applies the LAYOUT chain and then the VIEW chain;
// InverseTransform undoes VIEW first and LAYOUT second, so picking a point on
// the surface lands exactly on the layout coordinate that was drawn there.
//
// # Chains
//
// A [Chain] is a list of tagged [Node] values. The first node of every layer
// is an affine base that pan, zoom and rotate gestures mutate. Lens nodes
// are pushed on top of it:
//
//	forward:  p -> base -> lens1 -> lens2
//	inverse:  p -> lens2⁻¹ -> lens1⁻¹ -> base⁻¹
//
// Removing the top node returns the chain to exactly what it was before the
// node was pushed ([Chain.Delegate]).
//
// # Lenses
//
// A [Lens] is an elliptical focus region. Two fisheye kinds distort points
// inside it and leave points outside untouched:
//
//   - Magnify scales distances from the center linearly on an inner core
//     and ramps back to the identity at the rim. A point at distance r < R/2m
//     from the center of a lens with radius R and magnification m lands at
//     m·r.
//   - Hyperbolic uses tanh(k·u)/tanh(k) on the normalized radius u = r/R
//     with k = 2|ln m|, which expands the center and compresses the rim
//     when m > 1, and the inverse curve when m < 1.
//
// Both kinds are exactly invertible, continuous at the rim, and reduce to
// the identity when m is 1.
package transform
