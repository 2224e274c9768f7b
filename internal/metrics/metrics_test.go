package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, collector prometheus.Collector) float64 {
	t.Helper()

	ch := make(chan prometheus.Metric, 1)
	collector.Collect(ch)
	metric := &dto.Metric{}
	if err := (<-ch).Write(metric); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return metric.GetCounter().GetValue()
}

func histogramCount(t *testing.T, observer prometheus.Observer) uint64 {
	t.Helper()

	metric := &dto.Metric{}
	if err := observer.(prometheus.Metric).Write(metric); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return metric.GetHistogram().GetSampleCount()
}

func TestOrderMetrics_Counters(t *testing.T) {
	m := NewOrderMetricsWithRegisterer(prometheus.NewRegistry())

	m.RecordOrderCreated()
	m.RecordOrderCreated()
	m.RecordOrderDeleted()
	m.RecordTimelineEvent()
	m.RecordOutboxEvent()

	if got := counterValue(t, m.ordersCreated); got != 2 {
		t.Fatalf("expected 2 created orders, got %v", got)
	}
	if got := counterValue(t, m.ordersDeleted); got != 1 {
		t.Fatalf("expected 1 deleted order, got %v", got)
	}
	if got := counterValue(t, m.timelineEvents); got != 1 {
		t.Fatalf("expected 1 timeline event, got %v", got)
	}
	if got := counterValue(t, m.outboxEvents); got != 1 {
		t.Fatalf("expected 1 outbox event, got %v", got)
	}
}

func TestOrderMetrics_LabelledCounters(t *testing.T) {
	m := NewOrderMetricsWithRegisterer(prometheus.NewRegistry())

	m.RecordCreateRejected("unknown_item")
	m.RecordStatusChange("new", "processing")
	m.RecordAccessDenied("get_order")
	m.RecordAccessDenied("get_order")

	if got := counterValue(t, m.createRejected.WithLabelValues("unknown_item")); got != 1 {
		t.Fatalf("expected 1 rejection, got %v", got)
	}
	if got := counterValue(t, m.statusChanges.WithLabelValues("new", "processing")); got != 1 {
		t.Fatalf("expected 1 status change, got %v", got)
	}
	if got := counterValue(t, m.accessDenied.WithLabelValues("get_order")); got != 2 {
		t.Fatalf("expected 2 denials, got %v", got)
	}
}

func TestOrderMetrics_RecordOperation(t *testing.T) {
	m := NewOrderMetricsWithRegisterer(prometheus.NewRegistry())

	m.RecordOperation("create", 10*time.Millisecond, nil)
	m.RecordOperation("create", 20*time.Millisecond, errors.New("boom"))
	m.RecordOperation("create", 5*time.Millisecond, nil)

	if got := histogramCount(t, m.operationTiming.WithLabelValues("create", "ok")); got != 2 {
		t.Fatalf("expected 2 ok samples, got %d", got)
	}
	if got := histogramCount(t, m.operationTiming.WithLabelValues("create", "error")); got != 1 {
		t.Fatalf("expected 1 error sample, got %d", got)
	}
}

func TestRegister_ReusesExistingCollector(t *testing.T) {
	reg := prometheus.NewRegistry()

	first := NewOrderMetricsWithRegisterer(reg)
	second := NewOrderMetricsWithRegisterer(reg)

	first.RecordOrderCreated()
	if got := counterValue(t, second.ordersCreated); got != 1 {
		t.Fatalf("expected shared counter, got %v", got)
	}
}

func TestHTTPMetrics_Observe(t *testing.T) {
	m := NewHTTPMetricsWithRegisterer(prometheus.NewRegistry())

	m.Observe("GET", "/orders/:id", 200, 3*time.Millisecond)
	m.Observe("GET", "/orders/:id", 404, 3*time.Millisecond)
	m.Observe("GET", "/orders/:id", 403, 3*time.Millisecond)
	m.Observe("POST", "", 500, time.Millisecond)

	if got := counterValue(t, m.requests.WithLabelValues("GET", "/orders/:id", "4xx")); got != 2 {
		t.Fatalf("expected 2 client errors, got %v", got)
	}
	if got := counterValue(t, m.requests.WithLabelValues("POST", "unmatched", "5xx")); got != 1 {
		t.Fatalf("expected unmatched route, got %v", got)
	}
	if got := histogramCount(t, m.latency.WithLabelValues("GET", "/orders/:id")); got != 3 {
		t.Fatalf("expected 3 latency samples, got %d", got)
	}
}

func TestStatusClass(t *testing.T) {
	cases := map[int]string{200: "2xx", 201: "2xx", 302: "3xx", 422: "4xx", 503: "5xx"}
	for status, want := range cases {
		if got := statusClass(status); got != want {
			t.Fatalf("statusClass(%d) = %s, want %s", status, got, want)
		}
	}
}
