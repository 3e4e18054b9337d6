package pipeline

import (
	"context"
	stderrors "errors"

	"github.com/matzehuels/lenslayout/pkg/errors"
	"github.com/matzehuels/lenslayout/pkg/graph"
	"github.com/matzehuels/lenslayout/pkg/layout"
	"github.com/matzehuels/lenslayout/pkg/layout/algorithms"
	"github.com/matzehuels/lenslayout/pkg/network"
)

// Solve runs the configured algorithm on g and returns the converged (or
// timed out) model together with its run. opts must already have passed
// ValidateAndSetDefaults.
func Solve(ctx context.Context, g *network.Graph, opts Options) (*layout.Model, *layout.Run, error) {
	alg, err := algorithms.New(opts.Algorithm, *opts.Settings)
	if err != nil {
		return nil, nil, err
	}

	m := layout.NewModel(g, opts.Width, opts.Height)
	d := layout.NewDriver(m, layout.DriverOptions{MaxSteps: opts.MaxSteps, Logger: opts.Logger})
	defer d.Close()

	solveCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	run, err := d.Activate(solveCtx, alg)
	if err != nil {
		return nil, nil, err
	}
	<-run.Done()

	if err := run.Err(); err != nil {
		if ctx.Err() != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeCanceled, ctx.Err(), "layout %s", opts.Algorithm)
		}
		if !stderrors.Is(err, context.DeadlineExceeded) {
			return nil, nil, err
		}
		opts.Logger.Warn("layout timed out before converging", "algorithm", opts.Algorithm, "steps", run.Steps(), "timeout", opts.Timeout)
	}
	return m, run, nil
}

// ComputeLayout returns the layout of g, from the cache when possible.
func (r *Runner) ComputeLayout(ctx context.Context, g *network.Graph, opts Options) (graph.Layout, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return graph.Layout{}, false, err
	}
	key := r.Layouts.Key(graph.FromNetwork(g), r.keyOpts(opts))

	if !opts.Refresh {
		cached, hit, err := r.Layouts.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		} else if hit {
			return cached, true, nil
		}
	}

	m, run, err := Solve(ctx, g, opts)
	if err != nil {
		return graph.Layout{}, false, err
	}
	out := graph.FromModel(opts.Algorithm, m, run.Steps())

	if run.Err() == nil {
		if err := r.Layouts.Set(ctx, key, out); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		}
	}
	return out, false, nil
}
