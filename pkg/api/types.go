package api

import (
	"github.com/matzehuels/lenslayout/pkg/buildinfo"
	"github.com/matzehuels/lenslayout/pkg/graph"
	"github.com/matzehuels/lenslayout/pkg/layout/algorithms"
	"github.com/matzehuels/lenslayout/pkg/pipeline"
)

// LayoutRequest is the body of POST /v1/layout. Zero fields take the
// server defaults.
type LayoutRequest struct {
	Graph     graph.Graph            `json:"graph"`
	Algorithm string                 `json:"algorithm,omitempty"`
	Width     float64                `json:"width,omitempty"`
	Height    float64                `json:"height,omitempty"`
	Seed      uint64                 `json:"seed,omitempty"`
	MaxSteps  int                    `json:"max_steps,omitempty"`
	Tree      *algorithms.TreeConfig `json:"tree,omitempty"`
	FR        *algorithms.FRConfig   `json:"fr,omitempty"`
	View      *pipeline.ViewOptions  `json:"view,omitempty"`
	Formats   []string               `json:"formats,omitempty"`
	Refresh   bool                   `json:"refresh,omitempty"`
}

// LayoutResponse is the answer to POST /v1/layout. Artifacts holds the
// rendered DOT and SVG text keyed by format; the JSON form is Layout itself.
type LayoutResponse struct {
	Layout    graph.Layout      `json:"layout"`
	GraphHash string            `json:"graph_hash"`
	Cached    bool              `json:"cached"`
	Artifacts map[string]string `json:"artifacts,omitempty"`
	Stats     LayoutStats       `json:"stats"`
}

// LayoutStats mirrors pipeline.Stats with durations in milliseconds.
type LayoutStats struct {
	Nodes      int     `json:"nodes"`
	Edges      int     `json:"edges"`
	Iterations int     `json:"iterations"`
	LayoutMS   float64 `json:"layout_ms"`
	RenderMS   float64 `json:"render_ms"`
}

// TransformRequest is the body of POST /v1/transform.
type TransformRequest struct {
	Width   float64                   `json:"width,omitempty"`
	Height  float64                   `json:"height,omitempty"`
	View    pipeline.ViewOptions      `json:"view"`
	Points  map[string]graph.Position `json:"points"`
	Inverse bool                      `json:"inverse,omitempty"`
}

// TransformResponse carries the mapped points under their request keys.
type TransformResponse struct {
	Points map[string]graph.Position `json:"points"`
	// Focused lists the keys whose view position lies inside the lens.
	Focused []string `json:"focused,omitempty"`
}

// AlgorithmsResponse is the answer to GET /v1/algorithms.
type AlgorithmsResponse struct {
	Algorithms []string          `json:"algorithms"`
	Default    string            `json:"default"`
	Settings   algorithms.Config `json:"settings"`
}

// HealthResponse is the answer to GET /healthz.
type HealthResponse struct {
	Status string         `json:"status"`
	Uptime string         `json:"uptime"`
	Build  buildinfo.Info `json:"build"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}
