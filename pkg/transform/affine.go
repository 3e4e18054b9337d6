package transform

import (
	"math"

	"github.com/matzehuels/lenslayout/pkg/errors"
	"github.com/matzehuels/lenslayout/pkg/geom"
)

// singularEpsilon is the smallest determinant treated as invertible.
const singularEpsilon = 1e-12

// Affine is a 2D affine matrix stored as [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type Affine [6]float64

// Identity leaves every point unchanged.
var Identity = Affine{1, 0, 0, 1, 0, 0}

// Translation moves points by (dx, dy).
func Translation(dx, dy float64) Affine { return Affine{1, 0, 0, 1, dx, dy} }

// Scaling scales points about the origin.
func Scaling(sx, sy float64) Affine { return Affine{sx, 0, 0, sy, 0, 0} }

// Rotation rotates points about the origin by theta radians.
func Rotation(theta float64) Affine {
	sin, cos := math.Sincos(theta)
	return Affine{cos, sin, -sin, cos, 0, 0}
}

// Shearing shears points about the origin.
func Shearing(shx, shy float64) Affine { return Affine{1, shy, shx, 1, 0, 0} }

// About conjugates m so that it acts around p instead of the origin.
func (m Affine) About(p geom.Point) Affine {
	return Translation(p.X, p.Y).Mul(m).Mul(Translation(-p.X, -p.Y))
}

// Mul returns m·n, the transform that applies n first and then m.
func (m Affine) Mul(n Affine) Affine {
	return Affine{
		m[0]*n[0] + m[2]*n[1],
		m[1]*n[0] + m[3]*n[1],
		m[0]*n[2] + m[2]*n[3],
		m[1]*n[2] + m[3]*n[3],
		m[0]*n[4] + m[2]*n[5] + m[4],
		m[1]*n[4] + m[3]*n[5] + m[5],
	}
}

// Apply transforms p.
func (m Affine) Apply(p geom.Point) geom.Point {
	return geom.Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// Det returns the determinant of the linear part.
func (m Affine) Det() float64 { return m[0]*m[3] - m[2]*m[1] }

// Invertible reports whether m has a finite inverse.
func (m Affine) Invertible() bool {
	det := m.Det()
	return !math.IsNaN(det) && math.Abs(det) > singularEpsilon
}

// Inverse returns m⁻¹, or DEGENERATE_GEOMETRY when m is singular.
func (m Affine) Inverse() (Affine, error) {
	if !m.Invertible() {
		return Identity, errors.New(errors.ErrCodeDegenerateGeometry, "affine transform is singular (det=%g)", m.Det())
	}
	inv := 1 / m.Det()
	a := m[3] * inv
	b := -m[1] * inv
	c := -m[2] * inv
	d := m[0] * inv
	return Affine{a, b, c, d, -(a*m[4] + c*m[5]), -(b*m[4] + d*m[5])}, nil
}

// ScaleFactors returns the length each unit axis is scaled to.
func (m Affine) ScaleFactors() (sx, sy float64) {
	return math.Hypot(m[0], m[1]), math.Hypot(m[2], m[3])
}

// Translation returns the translation part.
func (m Affine) Translation() geom.Point { return geom.Pt(m[4], m[5]) }
