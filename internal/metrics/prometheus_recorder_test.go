package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("posts", 150*time.Millisecond)
	pr.ObserveRenderDuration("post", 2*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncDocument("post", DocumentWritten)
	pr.IncDocument("post", DocumentWritten)
	pr.IncDocument("page", DocumentFailed)
	pr.IncBuildOutcome(BuildPartial)
	pr.IncStamp()
	pr.AddBrokenLinks(3)
	pr.AddBrokenLinks(-1)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, mfs)

	require.InDelta(t, 2, counterValue(t, mfs, "pagesmith_documents_total", "post", "written"), 0)
	require.InDelta(t, 1, counterValue(t, mfs, "pagesmith_documents_total", "page", "failed"), 0)
	require.InDelta(t, 1, counterValue(t, mfs, "pagesmith_build_outcomes_total", "partial"), 0)
	require.InDelta(t, 1, counterValue(t, mfs, "pagesmith_stamps_total"), 0)
	require.InDelta(t, 3, counterValue(t, mfs, "pagesmith_broken_links_total"), 0)
	require.Same(t, reg, pr.Registry())
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	require.NotPanics(t, func() {
		pr.IncStamp()
		pr.IncDocument("post", DocumentSkipped)
		pr.ObserveBuildDuration(time.Second)
	})
}

func TestWriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncDocument("page", DocumentWritten)
	pr.IncBuildOutcome(BuildSuccess)

	path := filepath.Join(t.TempDir(), "pagesmith.prom")
	require.NoError(t, WriteTextfile(path, pr.Registry()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `pagesmith_documents_total{kind="page",outcome="written"} 1`)
	require.Contains(t, string(data), `pagesmith_build_outcomes_total{outcome="success"} 1`)
}

func TestWriteTextfileNilRegistry(t *testing.T) {
	require.Error(t, WriteTextfile(filepath.Join(t.TempDir(), "x.prom"), nil))
}

func TestFakeRecorderCounts(t *testing.T) {
	r := newTestRecorder()
	r.IncDocument("post", DocumentWritten)
	r.IncStamp()
	r.AddBrokenLinks(2)
	require.Equal(t, 1, r.documents["post"][DocumentWritten])
	require.Equal(t, 1, r.stamps)
	require.Equal(t, 2, r.broken)
}

// counterValue finds the counter in name whose label values equal labels, in order.
func counterValue(t *testing.T, mfs []*dto.MetricFamily, name string, labels ...string) float64 {
	t.Helper()
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			pairs := m.GetLabel()
			if len(pairs) != len(labels) {
				continue
			}
			for i, lp := range pairs {
				if lp.GetValue() != labels[i] {
					continue metrics
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s%v not found", name, labels)
	return 0
}
