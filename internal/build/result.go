package build

import (
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/linkverify"
	"git.home.luguber.info/inful/pagesmith/internal/metrics"
)

// Failure is a document that could not be built.
type Failure struct {
	Path     string
	Kind     string
	Category string
	Message  string
}

// Result summarizes a build run.
type Result struct {
	BuildID  string
	Started  time.Time
	Finished time.Time
	Outcome  metrics.BuildOutcomeLabel

	Posts   int
	Pages   int
	Written int
	Skipped int
	Stamped int
	Assets  int
	// Refreshed counts documents rewritten only because the navigation or
	// the recent-post list changed. They are included in Written.
	Refreshed int
	// Removed counts outputs deleted because their source disappeared.
	Removed int

	Failures    []Failure
	BrokenLinks []linkverify.BrokenLink
}

// Duration returns the wall time of the run.
func (r *Result) Duration() time.Duration { return r.Finished.Sub(r.Started) }

// OK reports whether every document built.
func (r *Result) OK() bool { return len(r.Failures) == 0 }
