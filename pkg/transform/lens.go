package transform

import (
	"math"
	"sync"

	"github.com/matzehuels/lenslayout/pkg/errors"
	"github.com/matzehuels/lenslayout/pkg/geom"
)

// Default lens settings.
const (
	DefaultMagnification = 0.7
	DefaultFraction      = 0.75
)

// Magnification bounds. Past them tanh saturates in float64 and the
// hyperbolic lens no longer meets the identity at its rim.
const (
	MinMagnification = 0.02
	MaxMagnification = 50
)

// LensOptions configures a [Lens].
type LensOptions struct {
	// Magnification is the fisheye strength. 1 is the identity.
	Magnification float64 `validate:"gte=0.02,lte=50"`

	// Fraction of the shorter surface dimension the lens diameter spans
	// after Resize.
	Fraction float64 `validate:"gt=0,lte=1"`

	// Elliptical makes Resize follow the surface aspect ratio instead of
	// producing a circle.
	Elliptical bool
}

// DefaultLensOptions returns the documented defaults.
func DefaultLensOptions() LensOptions {
	return LensOptions{Magnification: DefaultMagnification, Fraction: DefaultFraction}
}

// Lens is an elliptical focus region with a magnification factor.
// It is safe for concurrent use.
type Lens struct {
	mu            sync.RWMutex
	center        geom.Point
	rx, ry        float64
	magnification float64
	fraction      float64
	elliptical    bool
}

// lensState is an immutable copy of a lens used on the per-point path.
type lensState struct {
	center        geom.Point
	radius        float64
	ratio         float64
	magnification float64
}

// NewLens creates a unit circle lens at the origin. Call [Lens.Resize] or
// the setters to position it.
func NewLens(opts LensOptions) (*Lens, error) {
	if err := errors.ValidateStruct(opts); err != nil {
		return nil, err
	}
	return &Lens{
		rx:            1,
		ry:            1,
		magnification: opts.Magnification,
		fraction:      opts.Fraction,
		elliptical:    opts.Elliptical,
	}, nil
}

// Resize recenters the lens on a w×h surface. The diameter spans Fraction
// of the shorter dimension; an elliptical lens spans Fraction of each
// dimension.
func (l *Lens) Resize(w, h float64) error {
	if err := errors.ValidatePositive("surface width", w); err != nil {
		return err
	}
	if err := errors.ValidatePositive("surface height", h); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.center = geom.Pt(w/2, h/2)
	if l.elliptical {
		l.rx, l.ry = l.fraction*w/2, l.fraction*h/2
	} else {
		r := l.fraction * math.Min(w, h) / 2
		l.rx, l.ry = r, r
	}
	return nil
}

// ViewCenter returns the lens center.
func (l *Lens) ViewCenter() geom.Point {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.center
}

// SetViewCenter moves the lens.
func (l *Lens) SetViewCenter(p geom.Point) error {
	if !p.IsFinite() {
		return errors.InvalidConfig("lens center must be finite, got %v", p)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.center = p
	return nil
}

// ViewRadius returns the vertical radius, which is the radius every
// aspect-compensated distance is compared against.
func (l *Lens) ViewRadius() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.ry
}

// SetViewRadius rescales both radii, keeping the aspect ratio. Values that
// are not positive are rejected and the previous radius is kept.
func (l *Lens) SetViewRadius(r float64) error {
	if err := errors.ValidatePositive("lens radius", r); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	ratio := l.ry / l.rx
	l.ry = r
	l.rx = r / ratio
	return nil
}

// SetRadii sets the horizontal and vertical radii independently.
func (l *Lens) SetRadii(rx, ry float64) error {
	if err := errors.ValidatePositive("lens x radius", rx); err != nil {
		return err
	}
	if err := errors.ValidatePositive("lens y radius", ry); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rx, l.ry = rx, ry
	return nil
}

// Ratio returns height/width of the lens frame.
func (l *Lens) Ratio() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.ry / l.rx
}

// Magnification returns the fisheye strength.
func (l *Lens) Magnification() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.magnification
}

// SetMagnification changes the fisheye strength. Values outside
// [MinMagnification, MaxMagnification] are rejected and the previous value
// is kept.
func (l *Lens) SetMagnification(m float64) error {
	if err := ValidateMagnification(m); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.magnification = m
	return nil
}

// ValidateMagnification rejects magnifications outside
// [MinMagnification, MaxMagnification].
func ValidateMagnification(m float64) error {
	if err := errors.ValidatePositive("magnification", m); err != nil {
		return err
	}
	if m < MinMagnification || m > MaxMagnification {
		return errors.InvalidConfig("magnification must be in [%v, %v], got %v", MinMagnification, MaxMagnification, m)
	}
	return nil
}

// Frame returns the lens ellipse.
func (l *Lens) Frame() geom.Ellipse {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return geom.Ellipse{Center: l.center, RX: l.rx, RY: l.ry}
}

// DistanceFromCenter is the distance from the center after scaling the
// horizontal offset by the ratio, which turns the ellipse into a circle of
// radius ViewRadius.
func (l *Lens) DistanceFromCenter(p geom.Point) float64 {
	return l.state().distance(p)
}

// Contains reports whether p lies inside the lens, rim included.
func (l *Lens) Contains(p geom.Point) bool {
	s := l.state()
	return s.distance(p) <= s.radius
}

// Magnify scales the aspect-compensated offset of p from the center by the
// magnification, without regard for the lens boundary.
func (l *Lens) Magnify(p geom.Point) geom.Point {
	s := l.state()
	return s.remap(p, func(r float64) float64 { return r * s.magnification })
}

func (l *Lens) state() lensState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return lensState{
		center:        l.center,
		radius:        l.ry,
		ratio:         l.ry / l.rx,
		magnification: l.magnification,
	}
}

func (s lensState) distance(p geom.Point) float64 {
	return math.Hypot((p.X-s.center.X)*s.ratio, p.Y-s.center.Y)
}

// remap applies a radial response to p in aspect-compensated polar space.
// A point on the center maps to itself.
func (s lensState) remap(p geom.Point, f func(r float64) float64) geom.Point {
	dx := (p.X - s.center.X) * s.ratio
	dy := p.Y - s.center.Y
	r := math.Hypot(dx, dy)
	if r < geom.Epsilon {
		return p
	}
	k := f(r) / r
	return geom.Pt(s.center.X+dx*k/s.ratio, s.center.Y+dy*k)
}
