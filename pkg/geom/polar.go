package geom

import "math"

// Polar is a point expressed as angle Theta (radians) and radius Rho.
type Polar struct {
	Theta, Rho float64
}

// ToPolar converts p to polar coordinates relative to the origin.
// The zero point maps to Polar{0, 0}.
func ToPolar(p Point) Polar {
	if p.X == 0 && p.Y == 0 {
		return Polar{}
	}
	return Polar{Theta: math.Atan2(p.Y, p.X), Rho: math.Hypot(p.X, p.Y)}
}

// Cartesian converts polar coordinates back to a point relative to the origin.
func (p Polar) Cartesian() Point {
	return Point{X: p.Rho * math.Cos(p.Theta), Y: p.Rho * math.Sin(p.Theta)}
}

// PolarAround converts p to polar coordinates relative to center.
func PolarAround(center, p Point) Polar {
	return ToPolar(p.Sub(center))
}

// CartesianAround converts polar coordinates relative to center back to a point.
func (p Polar) CartesianAround(center Point) Point {
	return p.Cartesian().Add(center)
}

// NormalizeAngle maps theta into [0, 2π).
func NormalizeAngle(theta float64) float64 {
	theta = math.Mod(theta, 2*math.Pi)
	if theta < 0 {
		theta += 2 * math.Pi
	}
	return theta
}
