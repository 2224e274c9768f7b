package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics содержит метрики жизненного цикла заказов.
type OrderMetrics struct {
	ordersCreated   prometheus.Counter
	ordersDeleted   prometheus.Counter
	createRejected  *prometheus.CounterVec
	statusChanges   *prometheus.CounterVec
	accessDenied    *prometheus.CounterVec
	operationTiming *prometheus.HistogramVec

	timelineEvents prometheus.Counter
	outboxEvents   prometheus.Counter
}

// NewOrderMetrics создаёт метрики в DefaultRegisterer.
func NewOrderMetrics() *OrderMetrics {
	return NewOrderMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewOrderMetricsWithRegisterer создаёт метрики в переданном реестре.
func NewOrderMetricsWithRegisterer(registerer prometheus.Registerer) *OrderMetrics {
	return &OrderMetrics{
		ordersCreated: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foodorder_orders_created_total",
			Help: "Total number of orders created",
		}), "foodorder_orders_created_total"),
		ordersDeleted: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foodorder_orders_deleted_total",
			Help: "Total number of orders deleted",
		}), "foodorder_orders_deleted_total"),
		createRejected: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foodorder_order_create_rejected_total",
			Help: "Total number of rejected order creations by reason",
		}, []string{"reason"}), "foodorder_order_create_rejected_total"),
		statusChanges: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foodorder_order_status_changes_total",
			Help: "Total number of order status changes",
		}, []string{"from", "to"}), "foodorder_order_status_changes_total"),
		accessDenied: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foodorder_access_denied_total",
			Help: "Total number of denied operations by operation kind",
		}, []string{"operation"}), "foodorder_access_denied_total"),
		operationTiming: register(registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "foodorder_order_operation_duration_seconds",
			Help:    "Duration of order lifecycle operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"operation", "outcome"}), "foodorder_order_operation_duration_seconds"),
		timelineEvents: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foodorder_timeline_events_total",
			Help: "Total number of timeline events recorded",
		}), "foodorder_timeline_events_total"),
		outboxEvents: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foodorder_outbox_events_total",
			Help: "Total number of events enqueued to outbox",
		}), "foodorder_outbox_events_total"),
	}
}

// RecordOrderCreated увеличивает счётчик созданных заказов.
func (m *OrderMetrics) RecordOrderCreated() {
	m.ordersCreated.Inc()
}

// RecordOrderDeleted увеличивает счётчик удалённых заказов.
func (m *OrderMetrics) RecordOrderDeleted() {
	m.ordersDeleted.Inc()
}

// RecordCreateRejected учитывает отказ в создании заказа.
func (m *OrderMetrics) RecordCreateRejected(reason string) {
	m.createRejected.WithLabelValues(reason).Inc()
}

// RecordStatusChange учитывает переход статуса.
func (m *OrderMetrics) RecordStatusChange(from, to string) {
	m.statusChanges.WithLabelValues(from, to).Inc()
}

// RecordAccessDenied учитывает отказ AuthorizationGuard.
func (m *OrderMetrics) RecordAccessDenied(operation string) {
	m.accessDenied.WithLabelValues(operation).Inc()
}

// RecordOperation записывает длительность операции и её исход (ok/error).
func (m *OrderMetrics) RecordOperation(operation string, duration time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.operationTiming.WithLabelValues(operation, outcome).Observe(duration.Seconds())
}

// RecordTimelineEvent увеличивает счётчик событий timeline.
func (m *OrderMetrics) RecordTimelineEvent() {
	m.timelineEvents.Inc()
}

// RecordOutboxEvent увеличивает счётчик событий outbox.
func (m *OrderMetrics) RecordOutboxEvent() {
	m.outboxEvents.Inc()
}
