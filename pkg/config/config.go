// Package config loads lenslayout settings from a TOML file.
//
// Every field has a documented default taken from the package that owns the
// setting, so an empty file (or no file at all) yields a working
// configuration. Values are validated after decoding; unknown keys are
// rejected so that typos do not silently fall back to defaults.
//
//	[surface]
//	width = 800
//	height = 600
//
//	[layout]
//	algorithm = "fr"
//
//	[fr]
//	cooling = 0.9
//
//	[lens]
//	kind = "hyperbolic"
//	magnification = 2.0
package config

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/lenslayout/pkg/cache"
	"github.com/matzehuels/lenslayout/pkg/errors"
	"github.com/matzehuels/lenslayout/pkg/layout"
	"github.com/matzehuels/lenslayout/pkg/layout/algorithms"
	"github.com/matzehuels/lenslayout/pkg/layout/transition"
	"github.com/matzehuels/lenslayout/pkg/transform"
)

// Defaults not owned by another package.
const (
	DefaultWidth  = 600
	DefaultHeight = 600
	DefaultAddr   = ":8080"
)

// File is the decoded configuration file.
type File struct {
	Surface    Surface    `toml:"surface"`
	Layout     Layout     `toml:"layout"`
	Tree       Tree       `toml:"tree"`
	FR         FR         `toml:"fr"`
	Transition Transition `toml:"transition"`
	Lens       Lens       `toml:"lens"`
	Cache      Cache      `toml:"cache"`
	Server     Server     `toml:"server"`
}

// Surface is the size of the drawing area.
type Surface struct {
	Width  float64 `toml:"width" validate:"gt=0"`
	Height float64 `toml:"height" validate:"gt=0"`
}

// Layout selects and paces the algorithm.
type Layout struct {
	Algorithm string        `toml:"algorithm" validate:"oneof=tree radial balloon circle random fr"`
	Seed      uint64        `toml:"seed"`
	MaxSteps  int           `toml:"max_steps" validate:"gte=0"`
	Interval  time.Duration `toml:"interval" validate:"gte=0"`
}

type Tree struct {
	HorizontalSpacing float64 `toml:"horizontal_spacing" validate:"gt=0"`
	VerticalSpacing   float64 `toml:"vertical_spacing" validate:"gt=0"`
	Fit               bool    `toml:"fit"`
}

type FR struct {
	IdealEdgeLength    float64 `toml:"ideal_edge_length" validate:"gt=0"`
	Attraction         float64 `toml:"attraction" validate:"gt=0"`
	Repulsion          float64 `toml:"repulsion" validate:"gt=0"`
	Cooling            float64 `toml:"cooling" validate:"gt=0,lt=1"`
	MinTemperature     float64 `toml:"min_temperature" validate:"gt=0"`
	MinDistance        float64 `toml:"min_distance" validate:"gt=0"`
	MaxIterations      int     `toml:"max_iterations" validate:"gte=1"`
	InitialTemperature float64 `toml:"initial_temperature" validate:"gte=0"`
}

type Transition struct {
	Frames   int           `toml:"frames" validate:"gte=1"`
	Interval time.Duration `toml:"interval" validate:"gte=0"`
	Easing   string        `toml:"easing"`
}

type Lens struct {
	Kind          string  `toml:"kind" validate:"oneof=magnify hyperbolic"`
	Layer         string  `toml:"layer" validate:"oneof=layout view"`
	Magnification float64 `toml:"magnification" validate:"gte=0.02,lte=50"`
	Fraction      float64 `toml:"fraction" validate:"gt=0,lte=1"`
	Elliptical    bool    `toml:"elliptical"`
}

type Cache struct {
	Backend string        `toml:"backend" validate:"oneof=none file redis"`
	Dir     string        `toml:"dir"`
	TTL     time.Duration `toml:"ttl" validate:"gte=0"`
	// Namespace is prepended to every layout key, so deployments sharing a
	// backend do not read each other's entries.
	Namespace string            `toml:"namespace"`
	Redis     cache.RedisConfig `toml:"redis"`
}

type Server struct {
	Addr         string        `toml:"addr" validate:"required"`
	ReadTimeout  time.Duration `toml:"read_timeout" validate:"gte=0"`
	WriteTimeout time.Duration `toml:"write_timeout" validate:"gte=0"`
	// SolveTimeout bounds a single layout request.
	SolveTimeout time.Duration `toml:"solve_timeout" validate:"gte=0"`
}

// Default returns the configuration used when no file is given.
func Default() File {
	tree := algorithms.DefaultTreeConfig()
	fr := algorithms.DefaultFRConfig()
	tr := transition.DefaultOptions()
	lens := transform.DefaultLensOptions()
	return File{
		Surface: Surface{Width: DefaultWidth, Height: DefaultHeight},
		Layout:  Layout{Algorithm: algorithms.NameFR},
		Tree: Tree{
			HorizontalSpacing: tree.HorizontalSpacing,
			VerticalSpacing:   tree.VerticalSpacing,
			Fit:               tree.Fit,
		},
		FR: FR{
			IdealEdgeLength:    fr.IdealEdgeLength,
			Attraction:         fr.Attraction,
			Repulsion:          fr.Repulsion,
			Cooling:            fr.Cooling,
			MinTemperature:     fr.MinTemperature,
			MinDistance:        fr.MinDistance,
			MaxIterations:      fr.MaxIterations,
			InitialTemperature: fr.InitialTemperature,
		},
		Transition: Transition{Frames: tr.Frames, Interval: tr.Interval, Easing: tr.Easing},
		Lens: Lens{
			Kind:          transform.KindMagnify.String(),
			Layer:         transform.LayerView.String(),
			Magnification: lens.Magnification,
			Fraction:      lens.Fraction,
			Elliptical:    lens.Elliptical,
		},
		Cache: Cache{Backend: "none", TTL: cache.DefaultTTL},
		Server: Server{
			Addr:         DefaultAddr,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
			SolveTimeout: 30 * time.Second,
		},
	}
}

// Load reads path on top of the defaults. An empty path returns the
// defaults.
func Load(path string) (File, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, errors.Wrap(errors.ErrCodeNotFound, err, "read config %s", path)
	}
	return Parse(string(data))
}

// Parse decodes TOML on top of the defaults and validates the result.
func Parse(data string) (File, error) {
	f := Default()
	md, err := toml.Decode(data, &f)
	if err != nil {
		return File{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return File{}, errors.InvalidConfig("unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

// Write encodes f as TOML.
func (f File) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(f)
}

// Validate checks every section.
func (f File) Validate() error {
	if err := errors.ValidateStruct(f); err != nil {
		return err
	}
	if err := f.TransitionOptions().Validate(); err != nil {
		return err
	}
	if f.Cache.Backend == "redis" && f.Cache.Redis.Addr == "" {
		return errors.InvalidConfig("cache.redis.addr is required for the redis backend")
	}
	return nil
}

// Algorithms returns the settings for algorithms.New.
func (f File) Algorithms() algorithms.Config {
	return algorithms.Config{
		Tree: algorithms.TreeConfig{
			HorizontalSpacing: f.Tree.HorizontalSpacing,
			VerticalSpacing:   f.Tree.VerticalSpacing,
			Fit:               f.Tree.Fit,
		},
		FR: algorithms.FRConfig{
			IdealEdgeLength:    f.FR.IdealEdgeLength,
			Attraction:         f.FR.Attraction,
			Repulsion:          f.FR.Repulsion,
			Cooling:            f.FR.Cooling,
			MinTemperature:     f.FR.MinTemperature,
			MinDistance:        f.FR.MinDistance,
			MaxIterations:      f.FR.MaxIterations,
			InitialTemperature: f.FR.InitialTemperature,
		},
		Seed: f.Layout.Seed,
	}
}

// DriverOptions returns the settings for layout.NewDriver.
func (f File) DriverOptions() layout.DriverOptions {
	return layout.DriverOptions{Interval: f.Layout.Interval, MaxSteps: f.Layout.MaxSteps}
}

// TransitionOptions returns the settings for transition.Animate.
func (f File) TransitionOptions() transition.Options {
	return transition.Options{Frames: f.Transition.Frames, Interval: f.Transition.Interval, Easing: f.Transition.Easing}
}

// LensOptions returns the settings for transform.NewLens.
func (f File) LensOptions() transform.LensOptions {
	return transform.LensOptions{
		Magnification: f.Lens.Magnification,
		Fraction:      f.Lens.Fraction,
		Elliptical:    f.Lens.Elliptical,
	}
}

// LensKind parses the configured lens kind.
func (f File) LensKind() (transform.Kind, error) { return transform.ParseKind(f.Lens.Kind) }

// LensLayer parses the configured lens layer.
func (f File) LensLayer() (transform.Layer, error) { return transform.ParseLayer(f.Lens.Layer) }
