// Package pipeline runs the layout → view → render pipeline shared by the
// CLI and the HTTP API.
//
// # Stages
//
//  1. Layout: run a layout algorithm on a graph until it converges, hits its
//     step cap, or times out (results are cached)
//  2. View: optionally map the positions through pan/zoom and a lens
//  3. Render: produce output formats (JSON, DOT, SVG)
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, 0, logger)
//	result, err := runner.Execute(ctx, g, pipeline.Options{
//	    Algorithm: "fr",
//	    Width:     800,
//	    Height:    600,
//	    Formats:   []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lenslayout/pkg/errors"
	"github.com/matzehuels/lenslayout/pkg/geom"
	"github.com/matzehuels/lenslayout/pkg/graph"
	"github.com/matzehuels/lenslayout/pkg/layout/algorithms"
	"github.com/matzehuels/lenslayout/pkg/transform"
)

// Defaults shared by the CLI and the API.
const (
	DefaultWidth     = 600.0
	DefaultHeight    = 600.0
	DefaultAlgorithm = algorithms.NameFR
	DefaultTimeout   = 30 * time.Second
)

// Output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// Formats lists the supported output formats.
var Formats = []string{FormatJSON, FormatDOT, FormatSVG}

// ValidateFormat rejects unknown formats. Matching is case-sensitive.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return errors.InvalidConfig("unknown format %q (want one of %v)", format, Formats)
	}
	return nil
}

// Options configures one pipeline run.
type Options struct {
	Algorithm string
	Width     float64
	Height    float64
	Seed      uint64

	// Settings holds the per-algorithm configuration. The zero value means
	// algorithms.DefaultConfig.
	Settings *algorithms.Config

	// MaxSteps caps relaxation steps; zero uses the algorithm's own limit.
	MaxSteps int

	// Timeout bounds the layout stage. A layout that runs out of time is
	// returned unconverged rather than failing.
	Timeout time.Duration

	View    *ViewOptions
	Formats []string

	// Detailed adds node metadata to DOT and SVG labels.
	Detailed bool

	// Refresh skips the cache lookup (the result is still stored).
	Refresh bool

	Logger *log.Logger
}

// ViewOptions describes the view transform applied after layout.
type ViewOptions struct {
	Translate geom.Point `json:"translate"`
	// Zoom scales about the surface center. Zero means 1.
	Zoom float64 `json:"zoom"`
	// Rotate rotates about the surface center, in radians.
	Rotate float64   `json:"rotate"`
	Lens   *LensSpec `json:"lens,omitempty"`
}

// LensSpec describes a lens to install on one layer.
type LensSpec struct {
	Kind  string `json:"kind"`
	Layer string `json:"layer"`
	// Center defaults to the surface center.
	Center *geom.Point `json:"center,omitempty"`
	// Radius defaults to the lens fraction of the shorter surface side.
	Radius        float64 `json:"radius,omitempty"`
	Magnification float64 `json:"magnification"`
	// Fraction sizes the default radius relative to the surface.
	Fraction   float64 `json:"fraction,omitempty"`
	Elliptical bool    `json:"elliptical,omitempty"`
}

// ValidateAndSetDefaults fills zero values and checks the rest.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Algorithm == "" {
		o.Algorithm = DefaultAlgorithm
	}
	if !algorithms.Valid(o.Algorithm) {
		return errors.New(errors.ErrCodeInvalidAlgorithm, "unknown algorithm %q (want one of %v)", o.Algorithm, algorithms.Names)
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if err := errors.ValidatePositive("width", o.Width); err != nil {
		return err
	}
	if err := errors.ValidatePositive("height", o.Height); err != nil {
		return err
	}
	if o.MaxSteps < 0 {
		return errors.InvalidConfig("max steps must not be negative, got %d", o.MaxSteps)
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	cfg := algorithms.DefaultConfig()
	if o.Settings != nil {
		cfg = *o.Settings
	}
	cfg.Seed = o.Seed
	o.Settings = &cfg
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	for _, f := range o.Formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	if o.View != nil {
		if err := o.View.Validate(); err != nil {
			return err
		}
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return nil
}

// Validate checks the view settings without building anything.
func (v *ViewOptions) Validate() error {
	if err := errors.ValidateFinite("zoom", v.Zoom); err != nil {
		return err
	}
	if v.Zoom < 0 {
		return errors.InvalidConfig("zoom must not be negative, got %v", v.Zoom)
	}
	if !v.Translate.IsFinite() {
		return errors.InvalidConfig("translate must be finite")
	}
	if v.Lens == nil {
		return nil
	}
	if _, err := transform.ParseKind(v.Lens.Kind); err != nil {
		return err
	}
	if v.Lens.Layer != "" {
		if _, err := transform.ParseLayer(v.Lens.Layer); err != nil {
			return err
		}
	}
	if v.Lens.Radius < 0 {
		return errors.InvalidConfig("lens radius must not be negative, got %v", v.Lens.Radius)
	}
	if v.Lens.Fraction < 0 || v.Lens.Fraction > 1 {
		return errors.InvalidConfig("lens fraction must be in (0, 1], got %v", v.Lens.Fraction)
	}
	if v.Lens.Magnification != 0 {
		return transform.ValidateMagnification(v.Lens.Magnification)
	}
	return nil
}

// Result is the output of [Runner.Execute].
type Result struct {
	Layout    graph.Layout
	Artifacts map[string][]byte
	GraphHash string
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats reports sizes and stage timings.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Iterations int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo reports which stages were served from the cache.
type CacheInfo struct {
	LayoutHit bool
}
