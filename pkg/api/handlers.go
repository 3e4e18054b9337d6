package api

import (
	"cmp"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/lenslayout/pkg/buildinfo"
	"github.com/matzehuels/lenslayout/pkg/errors"
	"github.com/matzehuels/lenslayout/pkg/geom"
	"github.com/matzehuels/lenslayout/pkg/graph"
	"github.com/matzehuels/lenslayout/pkg/layout/algorithms"
	"github.com/matzehuels/lenslayout/pkg/pipeline"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Uptime: time.Since(s.started).Round(time.Second).String(),
		Build:  buildinfo.Get(),
	})
}

func (s *Server) handleAlgorithms(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, AlgorithmsResponse{
		Algorithms: algorithms.Names,
		Default:    s.cfg.Algorithm,
		Settings:   s.cfg.Settings,
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	tree, fr := s.cfg.Settings.Tree, s.cfg.Settings.FR
	req := LayoutRequest{Tree: &tree, FR: &fr}
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	g, err := graph.ToNetwork(req.Graph)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	opts := pipeline.Options{
		Algorithm: cmp.Or(req.Algorithm, s.cfg.Algorithm),
		Width:     cmp.Or(req.Width, s.cfg.Width),
		Height:    cmp.Or(req.Height, s.cfg.Height),
		Seed:      req.Seed,
		Settings:  &algorithms.Config{Tree: *req.Tree, FR: *req.FR},
		MaxSteps:  req.MaxSteps,
		Timeout:   s.cfg.SolveTimeout,
		View:      req.View,
		Formats:   req.Formats,
		Refresh:   req.Refresh,
		Logger:    s.log.With("request_id", RequestID(r.Context())),
	}

	res, err := s.runner.Execute(r.Context(), g, opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	resp := LayoutResponse{
		Layout:    res.Layout,
		GraphHash: res.GraphHash,
		Cached:    res.CacheInfo.LayoutHit,
		Stats: LayoutStats{
			Nodes:      res.Stats.NodeCount,
			Edges:      res.Stats.EdgeCount,
			Iterations: res.Stats.Iterations,
			LayoutMS:   milliseconds(res.Stats.LayoutTime),
			RenderMS:   milliseconds(res.Stats.RenderTime),
		},
	}
	for format, data := range res.Artifacts {
		if format == pipeline.FormatJSON {
			continue
		}
		if resp.Artifacts == nil {
			resp.Artifacts = make(map[string]string)
		}
		resp.Artifacts[format] = string(data)
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	var req TransformRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	width, height := cmp.Or(req.Width, s.cfg.Width), cmp.Or(req.Height, s.cfg.Height)
	if err := errors.ValidatePositive("width", width); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := errors.ValidatePositive("height", height); err != nil {
		s.respondError(w, r, err)
		return
	}

	view, err := pipeline.BuildView(&req.View, width, height)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	pts := make(map[string]geom.Point, len(req.Points))
	for id, p := range req.Points {
		pt := p.Point()
		if !pt.IsFinite() {
			s.respondError(w, r, errors.New(errors.ErrCodeInvalidInput, "point %q is not finite", id))
			return
		}
		pts[id] = pt
	}

	resp := TransformResponse{Points: make(map[string]graph.Position, len(pts))}
	for id, p := range pts {
		if req.Inverse {
			resp.Points[id] = graph.PositionOf(view.Transformer.InverseTransform(p))
		} else {
			resp.Points[id] = graph.PositionOf(view.Transformer.Transform(p))
		}
	}

	// Focus is judged in view space, which is the input when inverting.
	viewSpace := graph.Layout{View: resp.Points}
	if req.Inverse {
		viewSpace.View = req.Points
	}
	resp.Focused = view.Focused(viewSpace)
	s.respondJSON(w, http.StatusOK, resp)
}

// decodeJSON reads a single JSON document, rejecting unknown fields and
// trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "request body exceeds %d bytes", MaxBodyBytes)
		}
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid JSON body")
	}
	if err := dec.Decode(&struct{}{}); !stderrors.Is(err, io.EOF) {
		return errors.New(errors.ErrCodeInvalidFormat, "request body must contain a single JSON document")
	}
	return nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Warn("encode response", "err", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := describe(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "err", err, "request_id", RequestID(r.Context()))
		if code == errors.ErrCodeInternal {
			msg = http.StatusText(http.StatusInternalServerError)
		}
	}
	s.respondJSON(w, status, ErrorResponse{
		Code:      string(code),
		Message:   msg,
		RequestID: RequestID(r.Context()),
	})
}

// describe renders err without its code prefix.
func describe(err error) string {
	var e *errors.Error
	if !stderrors.As(err, &e) {
		return err.Error()
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func notFound(r *http.Request) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path)
}

func methodNotAllowed(r *http.Request) error {
	return errors.New(errors.ErrCodeUnsupported, "method %s not allowed on %s", r.Method, r.URL.Path)
}

func milliseconds(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

