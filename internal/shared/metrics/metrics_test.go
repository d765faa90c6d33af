package metrics

import (
	"strings"
	"testing"
)

func TestRenderExposesPipelineSeries(t *testing.T) {
	IncPipelineStarted()
	IncPipelineCompleted()
	IncRetrievalDegraded()
	ObservePipelineDurationMs(250)

	out := Render()
	for _, want := range []string{
		"pipeline_started_total",
		"pipeline_completed_total",
		"pipeline_failed_total",
		"retrieval_degraded_total",
		"pipeline_duration_ms_bucket",
		"pipeline_duration_ms_sum",
		"pipeline_duration_ms_count",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("render missing %s:\n%s", want, out)
		}
	}
	if !strings.Contains(out, `le="+Inf"`) {
		t.Fatalf("histogram missing +Inf bucket:\n%s", out)
	}
}

func TestHistogramObservations(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	snap := h.Snapshot()
	if snap.count != 3 {
		t.Fatalf("count = %d", snap.count)
	}
	// Counts are stored per bucket; rendering accumulates them.
	if snap.counts[0] != 1 || snap.counts[1] != 1 {
		t.Fatalf("bucket counts = %v", snap.counts)
	}
	if snap.sum != 555 {
		t.Fatalf("sum = %v", snap.sum)
	}
}
