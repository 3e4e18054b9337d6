package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/lenslayout/pkg/errors"
	"github.com/matzehuels/lenslayout/pkg/geom"
	"github.com/matzehuels/lenslayout/pkg/layout"
)

// Position is a serialized point.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Point converts p to a geom.Point.
func (p Position) Point() geom.Point { return geom.Pt(p.X, p.Y) }

// PositionOf converts a geom.Point.
func PositionOf(p geom.Point) Position { return Position{X: p.X, Y: p.Y} }

// Layout is the serialization format for computed positions.
type Layout struct {
	Algorithm  string              `json:"algorithm"`
	Width      float64             `json:"width"`
	Height     float64             `json:"height"`
	Positions  map[string]Position `json:"positions"`
	View       map[string]Position `json:"view,omitempty"`
	Converged  bool                `json:"converged"`
	Iterations int                 `json:"iterations"`
}

// FromModel captures the current state of a model.
func FromModel(algorithm string, m *layout.Model, iterations int) Layout {
	w, h := m.Size()
	return Layout{
		Algorithm:  algorithm,
		Width:      w,
		Height:     h,
		Positions:  Positions(m.Snapshot()),
		Converged:  m.Converged(),
		Iterations: iterations,
	}
}

// Positions converts a point map to its wire form.
func Positions(pts map[string]geom.Point) map[string]Position {
	out := make(map[string]Position, len(pts))
	for id, p := range pts {
		out[id] = PositionOf(p)
	}
	return out
}

// Points returns the layout positions as geom points.
func (l Layout) Points() map[string]geom.Point {
	out := make(map[string]geom.Point, len(l.Positions))
	for id, p := range l.Positions {
		out[id] = p.Point()
	}
	return out
}

// Restore writes the layout positions into m through a user write. Nodes
// the model's graph does not contain are skipped and counted.
func (l Layout) Restore(m *layout.Model) (skipped int) {
	for id, p := range l.Positions {
		if !m.Set(id, p.Point()) {
			skipped++
		}
	}
	return skipped
}

// Validate checks dimensions and coordinates.
func (l Layout) Validate() error {
	if err := errors.ValidatePositive("width", l.Width); err != nil {
		return err
	}
	if err := errors.ValidatePositive("height", l.Height); err != nil {
		return err
	}
	for id, p := range l.Positions {
		if !p.Point().IsFinite() {
			return errors.New(errors.ErrCodeInvalidInput, "position of %q is not finite", id)
		}
	}
	return nil
}

// MarshalLayout serializes a Layout to indented JSON.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout decodes and validates a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal layout")
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
