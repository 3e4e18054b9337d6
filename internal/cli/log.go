// Package cli implements the lenslayout command-line interface.
//
// # Commands
//
//   - generate: build lattice and Kleinberg small-world graphs
//   - layout: run a layout algorithm and write JSON, DOT or SVG
//   - transform: map a saved layout through pan/zoom and a lens
//   - watch: follow an iterative solve live in the terminal
//   - serve: run the HTTP API
//   - cache, config, completion: housekeeping
//
// # Configuration
//
// Settings come from a TOML file (--config, or config.toml in the user
// config directory when present). Flags override file values only when
// they are given explicitly.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging through
// charmbracelet/log on stderr. Results and status lines go to stdout.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger that writes timestamps as "HH:MM:SS.ms".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs the elapsed time of one operation. It is not safe for
// concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "solved fr (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
