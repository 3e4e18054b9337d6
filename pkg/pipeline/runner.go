package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lenslayout/pkg/cache"
	"github.com/matzehuels/lenslayout/pkg/errors"
	"github.com/matzehuels/lenslayout/pkg/graph"
	"github.com/matzehuels/lenslayout/pkg/network"
)

// Runner executes the pipeline with layout caching.
//
// The Runner holds no per-run state, so multiple goroutines can share one
// Runner with different options.
type Runner struct {
	Layouts *cache.Layouts
	Logger  *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses the default keyer and a zero ttl uses cache.DefaultTTL.
func NewRunner(c cache.Cache, keyer cache.Keyer, ttl time.Duration, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Layouts: cache.NewLayouts(c, keyer, ttl),
		Logger:  logger,
	}
}

// Execute runs layout → view → render on g.
func (r *Runner) Execute(ctx context.Context, g *network.Graph, opts Options) (*Result, error) {
	if g == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "graph is required")
	}
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		GraphHash: cache.GraphHash(graph.FromNetwork(g)),
		Stats: Stats{
			NodeCount: g.NodeCount(),
			EdgeCount: g.EdgeCount(),
		},
	}

	// Stage 1: Layout
	layoutStart := time.Now()
	out, hit, err := r.ComputeLayout(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Iterations = out.Iterations
	result.CacheInfo.LayoutHit = hit

	r.Logger.Info("computed layout",
		"algorithm", opts.Algorithm,
		"nodes", result.Stats.NodeCount,
		"iterations", out.Iterations,
		"converged", out.Converged,
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	// Stage 2: View
	view, err := BuildView(opts.View, opts.Width, opts.Height)
	if err != nil {
		return nil, fmt.Errorf("view: %w", err)
	}
	if opts.View != nil {
		view.Apply(&out)
	}
	result.Layout = out

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, err := Render(ctx, g, out, RenderOptions{
		Formats:   opts.Formats,
		Detailed:  opts.Detailed,
		Highlight: view.Focused(out),
	})
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// keyOpts selects the options that influence the computed positions.
func (r *Runner) keyOpts(opts Options) cache.LayoutKeyOpts {
	type settings struct {
		Tree     any
		FR       any
		MaxSteps int
	}
	return cache.LayoutKeyOpts{
		Algorithm: opts.Algorithm,
		Width:     opts.Width,
		Height:    opts.Height,
		Seed:      opts.Seed,
		Settings:  settings{Tree: opts.Settings.Tree, FR: opts.Settings.FR, MaxSteps: opts.MaxSteps},
	}
}

// Close releases the cache.
func (r *Runner) Close() error {
	return r.Layouts.Cache.Close()
}
