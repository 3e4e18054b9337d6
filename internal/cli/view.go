package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/lenslayout/pkg/config"
	"github.com/matzehuels/lenslayout/pkg/geom"
	"github.com/matzehuels/lenslayout/pkg/pipeline"
)

// viewFlags are the pan/zoom/lens flags shared by layout and transform.
type viewFlags struct {
	panX, panY    float64
	zoom          float64
	rotate        float64
	lens          string
	layer         string
	magnification float64
	fraction      float64
	radius        float64
	centerX       float64
	centerY       float64
	elliptical    bool
}

func (v *viewFlags) register(cmd *cobra.Command) {
	defaults := config.Default().Lens
	f := cmd.Flags()
	f.Float64Var(&v.panX, "pan-x", 0, "translate the view horizontally")
	f.Float64Var(&v.panY, "pan-y", 0, "translate the view vertically")
	f.Float64Var(&v.zoom, "zoom", 1, "zoom about the surface center")
	f.Float64Var(&v.rotate, "rotate", 0, "rotate about the surface center (radians)")
	f.StringVar(&v.lens, "lens", "", "install a lens: magnify, hyperbolic")
	f.StringVar(&v.layer, "lens-layer", defaults.Layer, "layer the lens is pushed on: layout, view")
	f.Float64Var(&v.magnification, "magnification", defaults.Magnification, "lens magnification")
	f.Float64Var(&v.fraction, "lens-fraction", defaults.Fraction, "lens radius as a fraction of the shorter surface side")
	f.Float64Var(&v.radius, "lens-radius", 0, "lens radius (overrides --lens-fraction)")
	f.Float64Var(&v.centerX, "lens-x", 0, "lens center x (default: surface center)")
	f.Float64Var(&v.centerY, "lens-y", 0, "lens center y (default: surface center)")
	f.BoolVar(&v.elliptical, "elliptical", defaults.Elliptical, "stretch the lens to the surface aspect ratio")
}

// options builds the view for the pipeline. It returns nil when no pan,
// zoom, rotate or lens flag was given.
func (v *viewFlags) options(cmd *cobra.Command, cfg config.File, width, height float64) *pipeline.ViewOptions {
	changed := func(names ...string) bool {
		for _, n := range names {
			if cmd.Flags().Changed(n) {
				return true
			}
		}
		return false
	}
	if !changed("pan-x", "pan-y", "zoom", "rotate", "lens") {
		return nil
	}

	out := &pipeline.ViewOptions{
		Translate: geom.Pt(v.panX, v.panY),
		Zoom:      v.zoom,
		Rotate:    v.rotate,
	}
	if v.lens == "" {
		return out
	}

	spec := &pipeline.LensSpec{
		Kind:          v.lens,
		Layer:         flagOr(cmd, "lens-layer", v.layer, cfg.Lens.Layer),
		Magnification: flagOr(cmd, "magnification", v.magnification, cfg.Lens.Magnification),
		Fraction:      flagOr(cmd, "lens-fraction", v.fraction, cfg.Lens.Fraction),
		Radius:        v.radius,
		Elliptical:    flagOr(cmd, "elliptical", v.elliptical, cfg.Lens.Elliptical),
	}
	if changed("lens-x", "lens-y") {
		cx := flagOr(cmd, "lens-x", v.centerX, width/2)
		cy := flagOr(cmd, "lens-y", v.centerY, height/2)
		center := geom.Pt(cx, cy)
		spec.Center = &center
	}
	out.Lens = spec
	return out
}
