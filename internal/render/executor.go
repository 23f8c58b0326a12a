// Package render executes compiled template units into HTML fragments.
package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/templates"
)

// DefaultTimeout bounds a single render.
const DefaultTimeout = 10 * time.Second

// Unit is the part of a compiled template the executor needs.
type Unit interface {
	Name() string
	Execute(w io.Writer, p templates.Params) error
}

// Executor runs units with a per-render deadline.
type Executor struct {
	timeout time.Duration
}

// NewExecutor returns an executor; a non-positive timeout selects DefaultTimeout.
func NewExecutor(timeout time.Duration) *Executor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Executor{timeout: timeout}
}

// Timeout returns the configured per-render deadline.
func (e *Executor) Timeout() time.Duration { return e.timeout }

type outcome struct {
	html string
	err  error
}

// Render executes the unit's entry point and returns the produced HTML.
// It returns when the unit finishes, ctx is cancelled or the timeout
// elapses. A unit that outlives its deadline keeps running in the
// background; its output is discarded.
func (e *Executor) Render(ctx context.Context, unit Unit, p templates.Params) (string, error) {
	renderCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	done := make(chan outcome, 1)
	go func() {
		var buf bytes.Buffer
		err := unit.Execute(&buf, p)
		done <- outcome{html: buf.String(), err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			return "", errors.RenderError(fmt.Sprintf("failed to render %s", unit.Name())).
				WithCause(out.err).
				WithContext("template", unit.Name()).
				Build()
		}
		slog.Debug("Rendered unit", slog.String("template", unit.Name()), logfields.Duration(time.Since(start)))
		return out.html, nil
	case <-renderCtx.Done():
		msg := fmt.Sprintf("render of %s timed out after %s", unit.Name(), e.timeout)
		if ctx.Err() != nil {
			msg = fmt.Sprintf("render of %s cancelled", unit.Name())
		}
		return "", errors.RenderError(msg).
			WithCause(renderCtx.Err()).
			WithContext("template", unit.Name()).
			Build()
	}
}
