package metrics

import (
	"sync"
	"time"
)

// testRecorder counts calls; used to check the Recorder contract is easy to fake.
type testRecorder struct {
	mu        sync.Mutex
	stages    map[string]int
	documents map[string]map[DocumentOutcome]int
	outcomes  map[BuildOutcomeLabel]int
	stamps    int
	broken    int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{
		stages:    map[string]int{},
		documents: map[string]map[DocumentOutcome]int{},
		outcomes:  map[BuildOutcomeLabel]int{},
	}
}

func (t *testRecorder) ObserveStageDuration(stage string, _ time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stages[stage]++
}
func (t *testRecorder) ObserveRenderDuration(string, time.Duration) {}
func (t *testRecorder) ObserveBuildDuration(time.Duration)          {}
func (t *testRecorder) IncDocument(kind string, outcome DocumentOutcome) {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.documents[kind]
	if !ok {
		m = map[DocumentOutcome]int{}
		t.documents[kind] = m
	}
	m[outcome]++
}
func (t *testRecorder) IncBuildOutcome(o BuildOutcomeLabel) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.outcomes[o]++
}
func (t *testRecorder) IncStamp() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stamps++
}
func (t *testRecorder) AddBrokenLinks(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.broken += n
}

var (
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
	_ Recorder = (*testRecorder)(nil)
)
