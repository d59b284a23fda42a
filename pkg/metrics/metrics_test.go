package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestBackendClientMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBackendClientMetrics(reg)

	m.ObserveRequest("GET", "/api/listings", 200, 120*time.Millisecond)
	m.IncFailure("POST", "/api/orders")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	sum, err := fetchHistogramSum(mfs, "backend_request_duration_seconds")
	if err != nil {
		t.Fatal(err)
	}
	if sum <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", sum)
	}
	count, err := fetchCounterValue(mfs, "backend_request_failures")
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("expected failures=1, got %f", count)
	}
}

func TestCronJobMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCronJobMetrics(reg)

	m.ObserveDuration("reconcile", 250*time.Millisecond)
	m.IncSuccess("reconcile")
	m.IncFailure("")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "job_success"); err != nil {
		t.Fatal(err)
	} else if got != 1 {
		t.Fatalf("expected success=1, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "job_failure"); err != nil {
		t.Fatal(err)
	} else if got != 1 {
		t.Fatalf("expected failure=1, got %f", got)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	NewBackendClientMetrics(nil).ObserveRequest("GET", "/x", 200, time.Second)
	NewCronJobMetrics(nil).IncSuccess("job")
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	total := 0.0
	for _, metric := range mf.GetMetric() {
		total += metric.GetCounter().GetValue()
	}
	return total, nil
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	total := 0.0
	for _, metric := range mf.GetMetric() {
		total += metric.GetHistogram().GetSampleSum()
	}
	return total, nil
}
