package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/matzehuels/lenslayout/pkg/errors"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerTick = 80 * time.Millisecond

// Spinner animates a status line with the elapsed time while a solve blocks.
// It stops by itself when its context is canceled.
type Spinner struct {
	w       io.Writer
	label   string
	ctx     context.Context
	started time.Time
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
	aborted atomic.Bool

	mu    sync.Mutex
	width int // visible length of the last frame
}

// newSpinner creates a spinner that writes label to w until Stop is called
// or ctx is canceled.
func newSpinner(ctx context.Context, w io.Writer, label string) *Spinner {
	return &Spinner{
		w:       w,
		label:   label,
		ctx:     ctx,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	s.started = time.Now()
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(spinnerTick)
		defer ticker.Stop()
		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.aborted.Store(true)
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
				s.frame(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

func (s *Spinner) frame(glyph string) {
	text := fmt.Sprintf("%s %s", s.label, time.Since(s.started).Truncate(100*time.Millisecond))
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(glyph), StyleDim.Render(text))
	s.width = len([]rune(text)) + 2
}

// Stop ends the animation, clears the line and returns the time since Start.
// Calling Stop more than once is safe.
func (s *Spinner) Stop() time.Duration {
	s.once.Do(func() {
		close(s.done)
		<-s.stopped
		s.clearLine()
	})
	return time.Since(s.started)
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width == 0 {
		return
	}
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	s.width = 0
}

// StopWithSuccess stops the spinner and prints message with the elapsed time.
func (s *Spinner) StopWithSuccess(message string) {
	elapsed := s.Stop().Round(time.Millisecond)
	printSuccess("%s %s", message, StyleDim.Render("("+elapsed.String()+")"))
}

// StopWithError stops the spinner and prints err without its code prefix.
func (s *Spinner) StopWithError(message string, err error) {
	s.Stop()
	printError("%s: %s", message, errors.UserMessage(err))
}

// Canceled reports whether the spinner's context ended before Stop.
func (s *Spinner) Canceled() bool { return s.aborted.Load() }
