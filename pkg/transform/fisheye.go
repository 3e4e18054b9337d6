package transform

import (
	"math"

	"github.com/matzehuels/lenslayout/pkg/geom"
)

// response is a radial map from [0, R] onto [0, R] with its inverse.
type response struct {
	forward func(r float64) float64
	inverse func(r float64) float64
}

// magnifyResponse is linear with slope m on the core r ≤ R/(2·max(m,1)) and
// linear from the core edge back to (R, R). At m = 1 both pieces collapse
// to the identity.
func magnifyResponse(radius, m float64) response {
	core := radius / (2 * math.Max(m, 1))
	edge := m * core
	outer := (radius - edge) / (radius - core)
	return response{
		forward: func(r float64) float64 {
			if r <= core {
				return m * r
			}
			return edge + (r-core)*outer
		},
		inverse: func(r float64) float64 {
			if r <= edge {
				return r / m
			}
			return core + (r-edge)/outer
		},
	}
}

// hyperbolicResponse uses tanh(k·u)/tanh(k) on u = r/R, k = 2|ln m|.
// Magnifications below 1 swap the curve and its inverse.
func hyperbolicResponse(radius, m float64) response {
	k := 2 * math.Abs(math.Log(m))
	if k < geom.Epsilon {
		return response{forward: identityRadius, inverse: identityRadius}
	}
	tk := math.Tanh(k)
	expand := func(r float64) float64 {
		return radius * math.Tanh(k*r/radius) / tk
	}
	compress := func(r float64) float64 {
		u := math.Min(r/radius*tk, 1-geom.Epsilon)
		return radius * math.Atanh(u) / k
	}
	if m > 1 {
		return response{forward: expand, inverse: compress}
	}
	return response{forward: compress, inverse: expand}
}

func identityRadius(r float64) float64 { return r }

func (s lensState) response(kind Kind) response {
	switch kind {
	case KindMagnify:
		return magnifyResponse(s.radius, s.magnification)
	case KindHyperbolic:
		return hyperbolicResponse(s.radius, s.magnification)
	default:
		return response{forward: identityRadius, inverse: identityRadius}
	}
}

// distort applies a lens kind to p. Points strictly outside the lens pass
// through unchanged.
func (s lensState) distort(kind Kind, p geom.Point, inverse bool) geom.Point {
	if s.distance(p) > s.radius {
		return p
	}
	resp := s.response(kind)
	if inverse {
		return s.remap(p, resp.inverse)
	}
	return s.remap(p, resp.forward)
}
