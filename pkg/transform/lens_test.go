package transform

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/lenslayout/pkg/errors"
	"github.com/matzehuels/lenslayout/pkg/geom"
)

// circleLens returns a circular lens of radius r at c.
func circleLens(t *testing.T, c geom.Point, r, m float64) *Lens {
	t.Helper()
	l, err := NewLens(LensOptions{Magnification: m, Fraction: DefaultFraction})
	require.NoError(t, err)
	require.NoError(t, l.SetRadii(r, r))
	require.NoError(t, l.SetViewCenter(c))
	return l
}

func TestNewLensDefaults(t *testing.T) {
	l, err := NewLens(DefaultLensOptions())
	require.NoError(t, err)
	assert.Equal(t, 0.7, l.Magnification())

	_, err = NewLens(LensOptions{Magnification: 0, Fraction: 0.5})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfiguration))
	_, err = NewLens(LensOptions{Magnification: 1, Fraction: 1.5})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfiguration))
}

func TestLensResize(t *testing.T) {
	l, err := NewLens(DefaultLensOptions())
	require.NoError(t, err)
	require.NoError(t, l.Resize(400, 200))

	assert.Equal(t, geom.Pt(200, 100), l.ViewCenter())
	assert.InDelta(t, 75, l.ViewRadius(), 1e-9)
	assert.InDelta(t, 1, l.Ratio(), 1e-9)

	assert.Error(t, l.Resize(0, 200))
	assert.Equal(t, geom.Pt(200, 100), l.ViewCenter())
}

func TestEllipticalLens(t *testing.T) {
	l, err := NewLens(LensOptions{Magnification: 2, Fraction: 1, Elliptical: true})
	require.NoError(t, err)
	require.NoError(t, l.Resize(400, 200))

	assert.InDelta(t, 100, l.ViewRadius(), 1e-9)
	assert.InDelta(t, 0.5, l.Ratio(), 1e-9)

	// 150 to the right is 75 after aspect compensation.
	assert.InDelta(t, 75, l.DistanceFromCenter(geom.Pt(350, 100)), 1e-9)
	assert.True(t, l.Contains(geom.Pt(350, 100)))
	assert.False(t, l.Contains(geom.Pt(200, 250)))

	frame := l.Frame()
	assert.Equal(t, 200.0, frame.RX)
	assert.Equal(t, 100.0, frame.RY)
}

func TestLensSettersRejectOutOfRange(t *testing.T) {
	l := circleLens(t, geom.Point{}, 100, 2)

	for _, m := range []float64{0, -1, MinMagnification / 2, MaxMagnification + 1, math.Inf(1)} {
		assert.Error(t, l.SetMagnification(m), "magnification %v", m)
	}
	assert.Equal(t, 2.0, l.Magnification())

	assert.Error(t, l.SetViewRadius(0))
	assert.Equal(t, 100.0, l.ViewRadius())

	require.NoError(t, l.SetViewRadius(50))
	assert.Equal(t, 50.0, l.ViewRadius())
	assert.InDelta(t, 1, l.Ratio(), 1e-9)

	assert.Error(t, l.SetViewCenter(geom.Pt(math.NaN(), 0)))
}

func TestMagnifyScenario(t *testing.T) {
	l := circleLens(t, geom.Point{}, 100, 2)
	n := MagnifyNode(l)

	near := n.Forward(geom.Pt(10, 0))
	assertPoint(t, geom.Pt(20, 0), near, 1e-9)

	far := geom.Pt(150, 0)
	assert.Equal(t, far, n.Forward(far))

	// The rim is fixed, so the map is continuous at the boundary.
	assertPoint(t, geom.Pt(0, 100), n.Forward(geom.Pt(0, 100)), 1e-9)
	assertPoint(t, geom.Pt(0, 99.999), n.Forward(geom.Pt(0, 99.999)), 1e-2)

	assertPoint(t, geom.Pt(10, 0), n.Inverse(near), 1e-9)
}

func TestLensMagnifyUnbounded(t *testing.T) {
	l := circleLens(t, geom.Pt(10, 10), 5, 3)
	assertPoint(t, geom.Pt(40, 10), l.Magnify(geom.Pt(20, 10)), 1e-9)
}

func TestHyperbolicShape(t *testing.T) {
	l := circleLens(t, geom.Point{}, 100, 2)
	n := HyperbolicNode(l)

	got := n.Forward(geom.Pt(10, 0))
	assert.Greater(t, got.X, 10.0)
	assert.Less(t, got.X, 100.0)
	assert.InDelta(t, 0, got.Y, 1e-12)

	assertPoint(t, geom.Pt(100, 0), n.Forward(geom.Pt(100, 0)), 1e-9)
	assert.Equal(t, geom.Pt(150, 0), n.Forward(geom.Pt(150, 0)))

	require.NoError(t, l.SetMagnification(0.5))
	shrunk := n.Forward(geom.Pt(10, 0))
	assert.Less(t, shrunk.X, 10.0)
	assert.Greater(t, shrunk.X, 0.0)
}

func TestHyperbolicRimAtMagnificationBounds(t *testing.T) {
	_, err := NewLens(LensOptions{Magnification: MaxMagnification * 2, Fraction: 0.5})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfiguration))

	for _, m := range []float64{MinMagnification, MaxMagnification} {
		l := circleLens(t, geom.Point{}, 100, m)
		n := HyperbolicNode(l)
		for _, r := range []float64{0.5, 50, 99, 99.999, 100} {
			p := geom.Pt(r, 0)
			assertPoint(t, p, n.Inverse(n.Forward(p)), 1e-6)
		}
		assertPoint(t, geom.Pt(100, 0), n.Forward(geom.Pt(100, 0)), 1e-6)
		assertPoint(t, geom.Pt(100, 0), n.Inverse(geom.Pt(100, 0)), 1e-6)
	}
}

func TestUnitMagnificationIsIdentity(t *testing.T) {
	l := circleLens(t, geom.Pt(5, 5), 100, 1)
	pts := []geom.Point{{X: 5, Y: 5}, {X: 20, Y: -30}, {X: 80, Y: 60}, {X: 400, Y: 0}}
	for _, kind := range []Kind{KindMagnify, KindHyperbolic} {
		n := Node{Kind: kind, Lens: l}
		for _, p := range pts {
			assertPoint(t, p, n.Forward(p), 1e-9)
			assertPoint(t, p, n.Inverse(p), 1e-9)
		}
	}
}

func TestLensCenterIsFixed(t *testing.T) {
	l := circleLens(t, geom.Pt(3, 4), 50, 4)
	for _, kind := range []Kind{KindMagnify, KindHyperbolic} {
		assert.Equal(t, geom.Pt(3, 4), Node{Kind: kind, Lens: l}.Forward(geom.Pt(3, 4)))
	}
}

func TestLensRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	roundTrip := func(kind Kind) func(m, rx, ry, x, y float64) bool {
		return func(m, rx, ry, x, y float64) bool {
			l, err := NewLens(LensOptions{Magnification: m, Fraction: 1})
			if err != nil {
				return false
			}
			if err := l.SetRadii(rx, ry); err != nil {
				return false
			}
			n := Node{Kind: kind, Lens: l}
			p := geom.Pt(x, y)
			return n.Inverse(n.Forward(p)).Eq(p, 1e-6) && n.Forward(n.Inverse(p)).Eq(p, 1e-6)
		}
	}
	gens := []gopter.Gen{
		gen.Float64Range(0.2, 5),
		gen.Float64Range(10, 200),
		gen.Float64Range(10, 200),
		gen.Float64Range(-300, 300),
		gen.Float64Range(-300, 300),
	}

	properties.Property("magnify inverse undoes forward", prop.ForAll(roundTrip(KindMagnify), gens...))
	properties.Property("hyperbolic inverse undoes forward", prop.ForAll(roundTrip(KindHyperbolic), gens...))
	properties.Property("outside points pass through", prop.ForAll(
		func(m, angle float64) bool {
			l, _ := NewLens(LensOptions{Magnification: m, Fraction: 1})
			_ = l.SetRadii(100, 100)
			p := geom.Pt(101*math.Cos(angle), 101*math.Sin(angle))
			return MagnifyNode(l).Forward(p) == p && HyperbolicNode(l).Forward(p) == p
		},
		gen.Float64Range(0.2, 5),
		gen.Float64Range(0, 2*math.Pi),
	))

	properties.TestingRun(t)
}
