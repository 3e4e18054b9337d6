package algorithms

import (
	"slices"

	"github.com/matzehuels/lenslayout/pkg/errors"
	"github.com/matzehuels/lenslayout/pkg/layout"
)

// Algorithm names accepted by [New].
const (
	NameTree    = "tree"
	NameRadial  = "radial"
	NameBalloon = "balloon"
	NameCircle  = "circle"
	NameRandom  = "random"
	NameFR      = "fr"
)

// Names lists the algorithms accepted by [New] in display order.
var Names = []string{NameTree, NameRadial, NameBalloon, NameCircle, NameRandom, NameFR}

// Config bundles the settings of every algorithm so that callers holding a
// name (CLI flags, API requests, config files) can build any of them.
type Config struct {
	Tree TreeConfig `json:"tree"`
	FR   FRConfig   `json:"fr"`
	Seed uint64     `json:"seed"`
}

// DefaultConfig returns the documented defaults for all algorithms.
func DefaultConfig() Config {
	return Config{Tree: DefaultTreeConfig(), FR: DefaultFRConfig()}
}

// New builds the algorithm called name. Unknown names are rejected with
// INVALID_ALGORITHM; invalid settings with INVALID_CONFIGURATION.
func New(name string, cfg Config) (layout.Algorithm, error) {
	switch name {
	case NameTree:
		t, err := NewTree(cfg.Tree)
		if err != nil {
			return nil, err
		}
		return t, nil
	case NameRadial:
		return NewRadial(), nil
	case NameBalloon:
		return NewBalloon(), nil
	case NameCircle:
		return Circle{}, nil
	case NameRandom:
		return Random{Seed: cfg.Seed}, nil
	case NameFR:
		fr := cfg.FR
		if fr.Seed == 0 {
			fr.Seed = cfg.Seed
		}
		f, err := NewFR(fr)
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidAlgorithm, "unknown algorithm %q (want one of %v)", name, Names)
	}
}

// Valid reports whether name is a known algorithm.
func Valid(name string) bool { return slices.Contains(Names, name) }
