// Package history keeps a durable record of builds and the per-document
// outcomes they produced.
package history

import (
	"context"
	"time"
)

// Build summarizes one run of the batch builder.
type Build struct {
	ID        string
	Started   time.Time
	Finished  time.Time
	Outcome   string
	Documents int
	Failures  int
}

// Duration returns the wall time of the build.
func (b Build) Duration() time.Duration { return b.Finished.Sub(b.Started) }

// Document is the outcome of a single source document within a build.
type Document struct {
	BuildID     string
	Path        string
	Kind        string
	Outcome     string
	Fingerprint string
	Error       string
}

// Store persists build history.
type Store interface {
	RecordBuild(ctx context.Context, b Build, docs []Document) error
	Recent(ctx context.Context, limit int) ([]Build, error)
	Documents(ctx context.Context, buildID string) ([]Document, error)
	Close() error
}
