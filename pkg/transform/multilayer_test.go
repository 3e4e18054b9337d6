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

func TestMultiLayerIdentity(t *testing.T) {
	ml := NewMultiLayer()
	p := geom.Pt(12, -3)
	assert.Equal(t, p, ml.Transform(p))
	assert.Equal(t, p, ml.InverseTransform(p))
	assert.Equal(t, Identity, ml.Affine(LayerLayout))
	assert.Len(t, ml.Chain(LayerView), 1)
}

func TestMultiLayerOrder(t *testing.T) {
	ml := NewMultiLayer()
	require.NoError(t, ml.Translate(LayerLayout, 10, 0))
	require.NoError(t, ml.Scale(LayerView, 2, 2, geom.Point{}))

	// LAYOUT first, then VIEW.
	assertPoint(t, geom.Pt(22, 2), ml.Transform(geom.Pt(1, 1)), 1e-9)
	assertPoint(t, geom.Pt(1, 1), ml.InverseTransform(geom.Pt(22, 2)), 1e-9)

	assertPoint(t, geom.Pt(11, 1), ml.TransformLayer(LayerLayout, geom.Pt(1, 1)), 1e-9)
	assertPoint(t, geom.Pt(1, 1), ml.InverseTransformLayer(LayerView, geom.Pt(2, 2)), 1e-9)
}

func TestMultiLayerRejectsSingular(t *testing.T) {
	ml := NewMultiLayer()
	require.NoError(t, ml.Translate(LayerView, 5, 5))

	err := ml.Scale(LayerView, 0, 1, geom.Point{})
	assert.True(t, errors.Is(err, errors.ErrCodeDegenerateGeometry))
	assert.Equal(t, Translation(5, 5), ml.Affine(LayerView))

	err = ml.SetAffine(LayerLayout, Affine{1, 2, 2, 4, 0, 0})
	assert.True(t, errors.Is(err, errors.ErrCodeDegenerateGeometry))

	err = ml.Shear(LayerView, 1, 1, geom.Pt(3, 4))
	assert.True(t, errors.Is(err, errors.ErrCodeDegenerateGeometry))

	require.NoError(t, ml.SetToIdentity(LayerView))
	assert.Equal(t, Identity, ml.Affine(LayerView))
}

func TestMultiLayerShear(t *testing.T) {
	ml := NewMultiLayer()
	require.NoError(t, ml.Shear(LayerView, 0.5, 0, geom.Point{}))
	assertPoint(t, geom.Pt(3, 2), ml.Transform(geom.Pt(2, 2)), 1e-9)

	// About a point, that point stays fixed.
	require.NoError(t, ml.SetToIdentity(LayerView))
	require.NoError(t, ml.Shear(LayerView, 0.3, 0.2, geom.Pt(50, 50)))
	assertPoint(t, geom.Pt(50, 50), ml.Transform(geom.Pt(50, 50)), 1e-9)
	assertPoint(t, geom.Pt(7, -3), ml.InverseTransform(ml.Transform(geom.Pt(7, -3))), 1e-9)
}

func TestMultiLayerPushPop(t *testing.T) {
	ml := NewMultiLayer()
	l := circleLens(t, geom.Point{}, 100, 2)

	require.NoError(t, ml.Push(LayerView, MagnifyNode(l)))
	assertPoint(t, geom.Pt(20, 0), ml.Transform(geom.Pt(10, 0)), 1e-9)
	assertPoint(t, geom.Pt(10, 0), ml.InverseTransform(geom.Pt(20, 0)), 1e-9)

	top, ok := ml.Pop(LayerView)
	require.True(t, ok)
	assert.Equal(t, KindMagnify, top.Kind)
	assert.Equal(t, geom.Pt(10, 0), ml.Transform(geom.Pt(10, 0)))

	_, ok = ml.Pop(LayerView)
	assert.False(t, ok, "the affine base is never popped")

	assert.Error(t, ml.Push(LayerView, Node{Kind: KindMagnify}))
	assert.Error(t, ml.Push(Layer(7), AffineNode(Identity)))
}

func TestMultiLayerSetChain(t *testing.T) {
	ml := NewMultiLayer()
	l := circleLens(t, geom.Point{}, 100, 2)

	require.NoError(t, ml.SetChain(LayerLayout, Chain{HyperbolicNode(l)}))
	c := ml.Chain(LayerLayout)
	require.Len(t, c, 2)
	assert.Equal(t, KindAffine, c[0].Kind)
	assert.Equal(t, KindHyperbolic, c[1].Kind)

	assert.Error(t, ml.SetChain(LayerLayout, Chain{AffineNode(Scaling(0, 0))}))
}

func TestChainDelegate(t *testing.T) {
	l := circleLens(t, geom.Point{}, 50, 3)
	c := Chain{AffineNode(Translation(1, 2)), MagnifyNode(l)}
	d := c.Delegate()
	require.Len(t, d, 1)
	assert.Equal(t, c[0], d[0])

	top, ok := c.Top()
	require.True(t, ok)
	assert.Equal(t, KindMagnify, top.Kind)

	assert.Nil(t, Chain(nil).Delegate())
	p := geom.Pt(4, 4)
	assert.Equal(t, p, Chain(nil).Forward(p))
}

func TestLensSupportToggle(t *testing.T) {
	ml := NewMultiLayer()
	l := circleLens(t, geom.Point{}, 100, 2)
	s, err := NewLensSupport(ml, LayerView, l, KindMagnify)
	require.NoError(t, err)

	before := ml.Chain(LayerView)
	require.NoError(t, s.Activate())
	require.NoError(t, s.Activate())
	assert.True(t, s.Active())
	assert.Len(t, ml.Chain(LayerView), 2)

	s.Deactivate()
	assert.False(t, s.Active())
	assert.Equal(t, before, ml.Chain(LayerView))
	s.Deactivate()
}

func TestLensSupportKeepsPan(t *testing.T) {
	ml := NewMultiLayer()
	l := circleLens(t, geom.Point{}, 100, 2)
	s, err := NewLensSupport(ml, LayerView, l, KindHyperbolic)
	require.NoError(t, err)

	require.NoError(t, s.Activate())
	require.NoError(t, ml.Translate(LayerView, 30, 0))
	s.Deactivate()

	assert.Equal(t, Translation(30, 0), ml.Affine(LayerView))
	assert.Len(t, ml.Chain(LayerView), 1)
}

func TestNewLensSupportErrors(t *testing.T) {
	l := circleLens(t, geom.Point{}, 100, 2)
	_, err := NewLensSupport(nil, LayerView, l, KindMagnify)
	assert.Error(t, err)
	_, err = NewLensSupport(NewMultiLayer(), LayerView, nil, KindMagnify)
	assert.Error(t, err)
	_, err = NewLensSupport(NewMultiLayer(), LayerView, l, KindAffine)
	assert.Error(t, err)
}

func TestParseNames(t *testing.T) {
	k, err := ParseKind("hyperbolic")
	require.NoError(t, err)
	assert.Equal(t, KindHyperbolic, k)
	_, err = ParseKind("fisheye")
	assert.Error(t, err)

	layer, err := ParseLayer("view")
	require.NoError(t, err)
	assert.Equal(t, LayerView, layer)
	assert.Equal(t, "layout", LayerLayout.String())
}

func TestMultiLayerRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("inverse transform undoes transform", prop.ForAll(
		func(theta, zoom, shear, m, x, y float64) bool {
			ml := NewMultiLayer()
			if ml.Translate(LayerLayout, 40, -20) != nil ||
				ml.Rotate(LayerLayout, theta, geom.Pt(10, 10)) != nil ||
				ml.Shear(LayerLayout, shear, -shear/2, geom.Pt(100, 100)) != nil ||
				ml.Scale(LayerView, zoom, zoom, geom.Pt(200, 150)) != nil {
				return false
			}
			l, err := NewLens(LensOptions{Magnification: m, Fraction: 0.75})
			if err != nil || l.Resize(400, 300) != nil {
				return false
			}
			if ml.Push(LayerView, HyperbolicNode(l)) != nil || ml.Push(LayerLayout, MagnifyNode(l)) != nil {
				return false
			}
			p := geom.Pt(x, y)
			return ml.InverseTransform(ml.Transform(p)).Eq(p, 1e-6)
		},
		gen.Float64Range(-math.Pi, math.Pi),
		gen.Float64Range(0.25, 4),
		gen.Float64Range(-0.8, 0.8),
		gen.Float64Range(0.3, 4),
		gen.Float64Range(-500, 500),
		gen.Float64Range(-500, 500),
	))

	properties.TestingRun(t)
}
