package layout

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/lenslayout/pkg/errors"
	"github.com/matzehuels/lenslayout/pkg/observability"
)

// Default driver settings.
const (
	// DefaultInterval paces relaxation steps at roughly 60 per second.
	DefaultInterval = 16 * time.Millisecond
)

// DriverOptions configures a [Driver].
type DriverOptions struct {
	// Interval is the minimum time between two steps. Zero steps as fast as
	// possible, which is what batch callers (CLI, API) want.
	Interval time.Duration

	// MaxSteps caps the number of steps per run regardless of Done.
	// Zero means no cap.
	MaxSteps int

	// Logger receives debug output about runs. Defaults to log.Default().
	Logger *log.Logger
}

// Task is an exclusive writer launched by the driver. It returns the number
// of steps or frames it performed.
type Task func(ctx context.Context, h *Handle) (steps int, err error)

// Driver runs at most one writer against a model at a time.
type Driver struct {
	model *Model
	opts  DriverOptions
	log   *log.Logger

	mu      sync.Mutex
	current Algorithm
	run     *Run
	ctx     context.Context
	unsub   func()
}

// NewDriver creates a driver for m. The driver restarts the current
// algorithm whenever the model is resized.
func NewDriver(m *Model, opts DriverOptions) *Driver {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	d := &Driver{model: m, opts: opts, log: opts.Logger}
	d.unsub = m.OnChange(func(ev Event) {
		if ev.Kind == Resized {
			d.restart()
		}
	})
	return d
}

// Model returns the driven model.
func (d *Driver) Model() *Model { return d.model }

// Current returns the algorithm that owns the model, or nil.
func (d *Driver) Current() Algorithm {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// Run returns the most recent run, or nil.
func (d *Driver) Run() *Run {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.run
}

// Activate hands the model to alg. The previous writer is canceled and
// awaited first, then alg is bound to a fresh handle and visited before
// Activate returns. Iterative algorithms continue relaxing in the
// background on the returned run.
func (d *Driver) Activate(ctx context.Context, alg Algorithm) (*Run, error) {
	if alg == nil {
		return nil, errors.New(errors.ErrCodeInvalidAlgorithm, "cannot activate a nil algorithm")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.activateLocked(ctx, alg), nil
}

func (d *Driver) activateLocked(ctx context.Context, alg Algorithm) *Run {
	d.stopLocked()
	h := d.model.Bind()
	alg.Visit(h)
	d.model.Changed()
	d.current = alg
	d.ctx = ctx

	it, iterative := alg.(Iterative)
	return d.startLocked(ctx, alg.Name(), h, func(ctx context.Context, h *Handle) (int, error) {
		if !iterative {
			h.MarkConverged()
			return 0, nil
		}
		return d.Relax(ctx, h, it)
	})
}

// Launch runs task as the exclusive writer. When next is non-nil it becomes
// the current algorithm, which is what a resize will restart.
func (d *Driver) Launch(ctx context.Context, name string, next Algorithm, task Task) *Run {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	h := d.model.Bind()
	if next != nil {
		d.current = next
	}
	d.ctx = ctx
	return d.startLocked(ctx, name, h, task)
}

// Stop cancels the current writer and waits for it. Positions stay as they
// are.
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

// Close stops the driver and detaches it from the model.
func (d *Driver) Close() {
	d.Stop()
	if d.unsub != nil {
		d.unsub()
	}
}

func (d *Driver) stopLocked() {
	if d.run == nil {
		return
	}
	d.run.cancel()
	<-d.run.done
}

func (d *Driver) restart() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.current == nil || d.ctx == nil || d.ctx.Err() != nil {
		return
	}
	d.log.Debug("restarting after resize", "algorithm", d.current.Name(), "generation", d.model.Generation())
	d.activateLocked(d.ctx, d.current)
}

func (d *Driver) startLocked(ctx context.Context, name string, h *Handle, task Task) *Run {
	rctx, cancel := context.WithCancel(ctx)
	run := &Run{
		ID:      uuid.NewString(),
		Name:    name,
		cancel:  cancel,
		done:    make(chan struct{}),
		started: time.Now(),
	}
	d.run = run

	logger := d.log.With("run", run.ID[:8], "algorithm", name)
	logger.Debug("run started", "nodes", d.model.graph.NodeCount())
	observability.Layout().OnSolveStart(rctx, name, d.model.graph.NodeCount())

	go func() {
		defer close(run.done)
		defer cancel()

		steps, err := task(rctx, h)
		if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
			err = errors.Wrap(errors.ErrCodeCanceled, err, "%s canceled after %d steps", name, steps)
		}
		converged := h.Valid() && d.model.Converged()
		run.finish(steps, converged, err)

		elapsed := time.Since(run.started)
		observability.Layout().OnSolveComplete(rctx, name, steps, elapsed, converged, err)
		if err != nil {
			logger.Debug("run stopped", "steps", steps, "err", err)
			return
		}
		logger.Debug("run finished", "steps", steps, "converged", converged, "duration", elapsed.Round(time.Millisecond))
	}()
	return run
}

// Relax steps it through h until it is done, the step cap is reached or ctx
// is canceled. Cancellation is only observed between steps, so a step is
// never interrupted halfway. On completion the model is marked converged.
func (d *Driver) Relax(ctx context.Context, h *Handle, it Iterative) (int, error) {
	var tick <-chan time.Time
	if d.opts.Interval > 0 {
		t := time.NewTicker(d.opts.Interval)
		defer t.Stop()
		tick = t.C
	}

	steps := 0
	for !it.Done() {
		if d.opts.MaxSteps > 0 && steps >= d.opts.MaxSteps {
			return steps, nil
		}
		if tick != nil {
			select {
			case <-ctx.Done():
				return steps, ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return steps, err
		}
		if !h.Valid() {
			return steps, nil
		}
		it.Step(h)
		steps++
		d.model.Changed()
		observability.Layout().OnSolveStep(ctx, it.Name(), steps)
	}
	h.MarkConverged()
	return steps, nil
}

// Run tracks one writer launched by a [Driver].
type Run struct {
	ID   string
	Name string

	cancel  context.CancelFunc
	done    chan struct{}
	started time.Time

	mu        sync.Mutex
	steps     int
	converged bool
	err       error
}

// Done is closed when the run ends.
func (r *Run) Done() <-chan struct{} { return r.done }

// Cancel asks the run to stop after its current step.
func (r *Run) Cancel() { r.cancel() }

// Wait blocks until the run ends or ctx is done and returns the run's error.
func (r *Run) Wait(ctx context.Context) error {
	select {
	case <-r.done:
		return r.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the error the run ended with, which is a CANCELED error when
// another writer took over.
func (r *Run) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Steps returns the number of steps or frames performed.
func (r *Run) Steps() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.steps
}

// Converged reports whether the run ended with the model converged.
func (r *Run) Converged() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.converged
}

func (r *Run) finish(steps int, converged bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps, r.converged, r.err = steps, converged, err
}
