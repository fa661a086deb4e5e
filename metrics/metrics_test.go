package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func TestCollectorsRecordObservations(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollectors(reg)

	c.SampleAttempted()
	c.SampleAttempted()
	c.SampleAccepted()
	c.PropagationFailed()
	c.IJGPPass(3, 0.01)

	metricFamilies, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	found := map[string]float64{}
	for _, mf := range metricFamilies {
		for _, m := range mf.GetMetric() {
			if m.GetCounter() != nil {
				found[mf.GetName()] = m.GetCounter().GetValue()
			}
		}
	}
	if found["ijgpsampler_samples_attempted_total"] != 2 {
		t.Errorf("samples_attempted_total = %v, want 2", found["ijgpsampler_samples_attempted_total"])
	}
	if found["ijgpsampler_samples_accepted_total"] != 1 {
		t.Errorf("samples_accepted_total = %v, want 1", found["ijgpsampler_samples_accepted_total"])
	}
	if found["ijgpsampler_propagation_failures_total"] != 1 {
		t.Errorf("propagation_failures_total = %v, want 1", found["ijgpsampler_propagation_failures_total"])
	}
}

func TestNoopSatisfiesRecorder(t *testing.T) {
	var r Recorder = Noop{}
	r.SampleAttempted()
	r.SampleAccepted()
	r.PropagationFailed()
	r.IJGPPass(1, 0.5)
}

func TestHandlerServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollectors(reg).SampleAttempted()

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	promhttp.HandlerFor(reg, promhttp.HandlerOpts{}).ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ijgpsampler_samples_attempted_total") {
		t.Errorf("expected the registered metric in the response body, got %q", rec.Body.String())
	}
}

func TestHandlerReturnsNonNil(t *testing.T) {
	if Handler() == nil {
		t.Error("Handler() returned nil")
	}
}
