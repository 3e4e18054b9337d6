package pipeline

import (
	"slices"

	"github.com/matzehuels/lenslayout/pkg/geom"
	"github.com/matzehuels/lenslayout/pkg/graph"
	"github.com/matzehuels/lenslayout/pkg/transform"
)

// View is a configured transformer and its optional lens.
type View struct {
	Transformer *transform.MultiLayer
	Lens        *transform.Lens
	Support     *transform.LensSupport
}

// BuildView sets up pan, zoom, rotation and lens for a w×h surface. Zoom
// and rotation pivot on the surface center; the translation is applied
// last. A nil v yields the identity.
func BuildView(v *ViewOptions, w, h float64) (*View, error) {
	ml := transform.NewMultiLayer()
	out := &View{Transformer: ml}
	if v == nil {
		return out, nil
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}

	center := geom.Pt(w/2, h/2)
	if v.Zoom != 0 && v.Zoom != 1 {
		if err := ml.Scale(transform.LayerView, v.Zoom, v.Zoom, center); err != nil {
			return nil, err
		}
	}
	if v.Rotate != 0 {
		if err := ml.Rotate(transform.LayerView, v.Rotate, center); err != nil {
			return nil, err
		}
	}
	if v.Translate != (geom.Point{}) {
		if err := ml.Translate(transform.LayerView, v.Translate.X, v.Translate.Y); err != nil {
			return nil, err
		}
	}

	if v.Lens == nil {
		return out, nil
	}
	spec := v.Lens
	lensOpts := transform.DefaultLensOptions()
	if spec.Magnification != 0 {
		lensOpts.Magnification = spec.Magnification
	}
	if spec.Fraction != 0 {
		lensOpts.Fraction = spec.Fraction
	}
	lensOpts.Elliptical = spec.Elliptical
	lens, err := transform.NewLens(lensOpts)
	if err != nil {
		return nil, err
	}
	if err := lens.Resize(w, h); err != nil {
		return nil, err
	}
	if spec.Radius > 0 {
		if err := lens.SetViewRadius(spec.Radius); err != nil {
			return nil, err
		}
	}
	if spec.Center != nil {
		if err := lens.SetViewCenter(*spec.Center); err != nil {
			return nil, err
		}
	}

	kind, err := transform.ParseKind(spec.Kind)
	if err != nil {
		return nil, err
	}
	layer := transform.LayerView
	if spec.Layer != "" {
		if layer, err = transform.ParseLayer(spec.Layer); err != nil {
			return nil, err
		}
	}
	support, err := transform.NewLensSupport(ml, layer, lens, kind)
	if err != nil {
		return nil, err
	}
	if err := support.Activate(); err != nil {
		return nil, err
	}
	out.Lens, out.Support = lens, support
	return out, nil
}

// Apply fills l.View with the transformed positions.
func (v *View) Apply(l *graph.Layout) {
	l.View = graph.Positions(v.Transformer.TransformAll(l.Points()))
}

// Focused returns the IDs whose view position lies inside the lens, in
// sorted order. It is empty without a lens.
func (v *View) Focused(l graph.Layout) []string {
	if v.Lens == nil {
		return nil
	}
	var ids []string
	for id, p := range l.View {
		if v.Lens.Contains(p.Point()) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}
