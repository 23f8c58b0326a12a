package metrics

import "time"

// DocumentOutcome enumerates per-document results.
type DocumentOutcome string

const (
	DocumentWritten DocumentOutcome = "written"
	DocumentSkipped DocumentOutcome = "skipped"
	DocumentFailed  DocumentOutcome = "failed"
	// DocumentRemoved marks an output deleted because its source is gone.
	DocumentRemoved DocumentOutcome = "removed"
)

// BuildOutcomeLabel enumerates final build states.
type BuildOutcomeLabel string

const (
	BuildSuccess  BuildOutcomeLabel = "success"
	BuildPartial  BuildOutcomeLabel = "partial"
	BuildFailed   BuildOutcomeLabel = "failed"
	BuildCanceled BuildOutcomeLabel = "canceled"
)

// Recorder defines observability hooks for builds. Implementations must be
// safe for concurrent use; documents are processed in parallel.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveRenderDuration(kind string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncDocument(kind string, outcome DocumentOutcome)
	IncBuildOutcome(outcome BuildOutcomeLabel)
	IncStamp()
	AddBrokenLinks(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration)  {}
func (NoopRecorder) ObserveRenderDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)          {}
func (NoopRecorder) IncDocument(string, DocumentOutcome)         {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)           {}
func (NoopRecorder) IncStamp()                                   {}
func (NoopRecorder) AddBrokenLinks(int)                          {}
