package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func findFamily(t *testing.T, reg *Registry, name string) *dto.MetricFamily {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()
	if reg == nil {
		t.Fatal("expected non-nil registry")
	}
}

func TestRegistry_HTTPMetrics(t *testing.T) {
	reg := NewRegistry()

	// Verify HTTP metrics are registered
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	// Should have go runtime metrics at minimum
	if len(mfs) == 0 {
		t.Error("expected some metrics to be registered")
	}
}

func TestRegistry_RecordRequest(t *testing.T) {
	reg := NewRegistry()

	reg.RecordRequest("GET", "/api/v1/rating/{symbol}", 200, 0.05)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	found := false
	for _, mf := range mfs {
		if mf.GetName() == "http_requests_total" {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected http_requests_total metric")
	}
}

func TestRegistry_RecordRequest_StatusCodes(t *testing.T) {
	tests := []struct {
		status   int
		expected string
	}{
		{100, "1xx"},
		{200, "2xx"},
		{201, "2xx"},
		{301, "3xx"},
		{400, "4xx"},
		{404, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			reg := NewRegistry()
			reg.RecordRequest("GET", "/test", tt.status, 0.01)

			mfs, err := reg.Gather()
			if err != nil {
				t.Fatalf("gather failed: %v", err)
			}

			found := false
			for _, mf := range mfs {
				if mf.GetName() == "http_requests_total" {
					for _, m := range mf.GetMetric() {
						for _, label := range m.GetLabel() {
							if label.GetName() == "status" && label.GetValue() == tt.expected {
								found = true
							}
						}
					}
				}
			}
			if !found {
				t.Errorf("expected status label %s for status code %d", tt.expected, tt.status)
			}
		})
	}
}

func TestRegistry_InFlight(t *testing.T) {
	reg := NewRegistry()

	reg.InFlightInc()
	reg.InFlightInc()
	reg.InFlightDec()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	found := false
	for _, mf := range mfs {
		if mf.GetName() == "http_requests_in_flight" {
			found = true
			for _, m := range mf.GetMetric() {
				if m.GetGauge().GetValue() != 1 {
					t.Errorf("expected in-flight gauge to be 1, got %v", m.GetGauge().GetValue())
				}
			}
		}
	}
	if !found {
		t.Error("expected http_requests_in_flight metric")
	}
}

func TestRegistry_DurationHistogram(t *testing.T) {
	reg := NewRegistry()

	reg.RecordRequest("POST", "/api/v1/insight", 200, 0.123)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	found := false
	for _, mf := range mfs {
		if mf.GetName() == "http_request_duration_seconds" {
			found = true
			for _, m := range mf.GetMetric() {
				hist := m.GetHistogram()
				if hist.GetSampleCount() != 1 {
					t.Errorf("expected sample count 1, got %d", hist.GetSampleCount())
				}
				if hist.GetSampleSum() < 0.12 || hist.GetSampleSum() > 0.13 {
					t.Errorf("expected sample sum ~0.123, got %v", hist.GetSampleSum())
				}
			}
		}
	}
	if !found {
		t.Error("expected http_request_duration_seconds metric")
	}
}

// Ensure the registry implements prometheus.Gatherer interface
func TestRegistry_ImplementsGatherer(t *testing.T) {
	reg := NewRegistry()
	var _ prometheus.Gatherer = reg
}

func TestRegistry_RecordRating(t *testing.T) {
	reg := NewRegistry()

	reg.RecordRating(OutcomeRated, 7.0)
	reg.RecordRating(OutcomeNoData, 0)

	total := findFamily(t, reg, "stockcopilot_ratings_total")
	if total == nil || len(total.GetMetric()) != 2 {
		t.Fatalf("expected two outcome series, got %v", total)
	}

	score := findFamily(t, reg, "stockcopilot_rating_score")
	if score == nil {
		t.Fatal("expected stockcopilot_rating_score metric")
	}
	if n := score.GetMetric()[0].GetHistogram().GetSampleCount(); n != 1 {
		t.Errorf("expected only rated lookups observed, got %d", n)
	}
}

func TestRegistry_RecordFetch(t *testing.T) {
	reg := NewRegistry()

	reg.RecordFetch("yahoo", "bars", 0.2, nil)
	reg.RecordFetch("yahoo", "bars", 0.1, errors.New("timeout"))

	errs := findFamily(t, reg, "stockcopilot_fetch_errors_total")
	if errs == nil {
		t.Fatal("expected stockcopilot_fetch_errors_total metric")
	}
	if v := errs.GetMetric()[0].GetCounter().GetValue(); v != 1 {
		t.Errorf("expected 1 fetch error, got %v", v)
	}

	dur := findFamily(t, reg, "stockcopilot_fetch_duration_seconds")
	if dur == nil || dur.GetMetric()[0].GetHistogram().GetSampleCount() != 2 {
		t.Error("expected both fetches observed")
	}
}

func TestRegistry_StatusCounters(t *testing.T) {
	reg := NewRegistry()

	reg.RecordChart(true)
	reg.RecordInsight(false)
	reg.RecordAIRating(true)
	reg.RecordArchiveWrite(false)

	for _, name := range []string{
		"stockcopilot_charts_rendered_total",
		"stockcopilot_insights_total",
		"stockcopilot_ai_ratings_total",
		"stockcopilot_archive_writes_total",
	} {
		if findFamily(t, reg, name) == nil {
			t.Errorf("expected %s metric", name)
		}
	}
}
