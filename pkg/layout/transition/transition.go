// Package transition switches a model from one layout algorithm to another,
// either at once or by interpolating node positions over a number of frames.
//
// Both forms run through the model's [layout.Driver], so a transition is just
// another exclusive writer: starting a transition cancels whatever algorithm
// or transition currently owns the model, and activating an algorithm
// cancels a transition in progress.
package transition

import (
	"context"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/matzehuels/lenslayout/pkg/errors"
	"github.com/matzehuels/lenslayout/pkg/geom"
	"github.com/matzehuels/lenslayout/pkg/layout"
	"github.com/matzehuels/lenslayout/pkg/observability"
)

// Default animation settings.
const (
	DefaultFrames   = 20
	DefaultInterval = 16 * time.Millisecond
	DefaultEasing   = "linear"
)

var easings = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"in-out-quad":  ease.InOutQuad,
	"out-cubic":    ease.OutCubic,
	"in-out-cubic": ease.InOutCubic,
	"in-out-sine":  ease.InOutSine,
	"out-back":     ease.OutBack,
}

// Options configures [Animate].
type Options struct {
	// Frames is the number of interpolation steps, the last of which writes
	// the exact target positions.
	Frames int `validate:"gte=1"`

	// Interval is the time between frames. Zero applies frames back to back.
	Interval time.Duration `validate:"gte=0"`

	// Easing names the progress curve; see [Easings].
	Easing string
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{Frames: DefaultFrames, Interval: DefaultInterval, Easing: DefaultEasing}
}

// Validate checks the options.
func (o Options) Validate() error {
	if err := errors.ValidateStruct(o); err != nil {
		return err
	}
	if _, ok := easings[o.easing()]; !ok {
		return errors.InvalidConfig("unknown easing %q (want one of %v)", o.Easing, Easings())
	}
	return nil
}

func (o Options) easing() string {
	if o.Easing == "" {
		return DefaultEasing
	}
	return o.Easing
}

// Easings lists the accepted easing names.
func Easings() []string {
	return []string{"linear", "in-out-quad", "out-cubic", "in-out-cubic", "in-out-sine", "out-back"}
}

// Apply switches to target immediately. It is [layout.Driver.Activate]
// under another name, kept so that callers can treat both transition kinds
// alike.
func Apply(ctx context.Context, d *layout.Driver, target layout.Algorithm) (*layout.Run, error) {
	return d.Activate(ctx, target)
}

// Animate interpolates from the current positions to target's positions.
//
// The target is visited on a scratch copy of the model that starts from the
// current positions, so iterative targets begin where the previous layout
// left off. Nodes present in both snapshots move along the easing curve; the
// final frame writes every target position exactly. Nodes without a source
// position hold still until that final frame. An iterative target keeps
// relaxing on the returned run once the frames are done.
func Animate(ctx context.Context, d *layout.Driver, target layout.Algorithm, opts Options) (*layout.Run, error) {
	if target == nil {
		return nil, errors.New(errors.ErrCodeInvalidAlgorithm, "cannot animate to a nil algorithm")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	from := "none"
	if cur := d.Current(); cur != nil {
		from = cur.Name()
	}
	model := d.Model()
	easing := easings[opts.easing()]

	task := func(ctx context.Context, h *layout.Handle) (int, error) {
		started := time.Now()
		source := h.Snapshot()
		dest := visitScratch(model, source, target)

		observability.Transition().OnTransitionStart(ctx, from, target.Name(), opts.Frames)
		frames, err := play(ctx, h, source, dest, opts, easing)
		observability.Transition().OnTransitionComplete(ctx, from, target.Name(), frames, time.Since(started), err)
		if err != nil {
			return frames, err
		}

		if it, ok := target.(layout.Iterative); ok {
			steps, err := d.Relax(ctx, h, it)
			return frames + steps, err
		}
		h.MarkConverged()
		return frames, nil
	}
	return d.Launch(ctx, "transition:"+target.Name(), target, task), nil
}

func visitScratch(model *layout.Model, source map[string]geom.Point, target layout.Algorithm) map[string]geom.Point {
	scratch := model.Scratch()
	sh := scratch.Bind()
	sh.SetAll(source)
	target.Visit(sh)
	return scratch.Snapshot()
}

// play applies the frames in order. A slow consumer delays frames; it never
// causes one to be skipped.
func play(ctx context.Context, h *layout.Handle, source, dest map[string]geom.Point, opts Options, easing ease.TweenFunc) (int, error) {
	var tick <-chan time.Time
	if opts.Interval > 0 {
		t := time.NewTicker(opts.Interval)
		defer t.Stop()
		tick = t.C
	}

	tween := gween.New(0, 1, float32(opts.Frames), easing)
	next := make(map[string]geom.Point, len(dest))
	for frame := 1; frame <= opts.Frames; frame++ {
		if tick != nil {
			select {
			case <-ctx.Done():
				return frame - 1, ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return frame - 1, err
		}

		progress, _ := tween.Update(1)
		if frame == opts.Frames {
			h.SetAll(dest)
		} else {
			clear(next)
			for id, to := range dest {
				if from, ok := source[id]; ok {
					next[id] = from.Add(to.Sub(from).Scale(float64(progress)))
				}
			}
			h.SetAll(next)
		}
		h.Model().Changed()
	}
	return opts.Frames, nil
}
