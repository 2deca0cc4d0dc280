// Package cli implements the codematrix command-line interface.
//
// The CLI is built on cobra and loads a catalog document (nodes and edges
// extracted from a code base), classifies it onto the architecture matrix,
// and writes layouts and renderings. Status lines go to stdout through
// lipgloss styles; logs go to stderr through charmbracelet/log.
//
// # Commands
//
//   - classify: Print how many nodes fall into each matrix segment
//   - layout: Compute the matrix layout and write it as JSON
//   - render: Render a catalog or a layout to SVG, JSON, PNG or PDF
//   - inspect: Browse segments and their nodes interactively
//   - pack: Debug tool that packs rectangles with a chosen strategy
//   - serve: Run the HTTP API
//   - cache: Manage the local result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// attached to the command context in PersistentPreRun.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger writing to w at level, with timestamps
// formatted as "HH:MM:SS.ms".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs completion of an operation with its elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Rendered 3 files (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the attached logger, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
