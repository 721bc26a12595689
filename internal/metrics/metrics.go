package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// Business holds storefront level Prometheus metrics. A nil *Business is
// valid and records nothing, so services can be built without metrics.
type Business struct {
	CartMutations      *prometheus.CounterVec
	OrdersCreated      *prometheus.CounterVec
	OrderValue         *prometheus.HistogramVec
	OrderItemCount     prometheus.Histogram
	OrderStatusChanges *prometheus.CounterVec
	CheckoutCompleted  prometheus.Counter
	CheckoutFailed     *prometheus.CounterVec
	OperationDuration  *prometheus.HistogramVec
}

// NewBusiness creates the metrics and registers them with reg.
func NewBusiness(namespace string, reg prometheus.Registerer) *Business {
	if namespace == "" {
		namespace = "storefront"
	}
	const subsystem = "business"

	m := &Business{
		CartMutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_mutations_total",
				Help:      "Cart mutations by operation",
			},
			[]string{"operation"},
		),
		OrdersCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_created_total",
				Help:      "Orders created by payment method and source",
			},
			[]string{"payment_method", "source"},
		),
		OrderValue: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_value",
				Help:      "Order total amount",
				Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
			},
			[]string{"payment_method"},
		),
		OrderItemCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_item_count",
				Help:      "Number of line items per order",
				Buckets:   []float64{1, 2, 3, 5, 10, 20},
			},
		),
		OrderStatusChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_status_changes_total",
				Help:      "Order status transitions",
			},
			[]string{"from", "to"},
		),
		CheckoutCompleted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_completed_total",
				Help:      "Server side checkouts committed",
			},
		),
		CheckoutFailed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_failed_total",
				Help:      "Server side checkouts rejected or failed, by error code",
			},
			[]string{"code"},
		),
		OperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "operation_duration_seconds",
				Help:      "Duration of service operations",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.CartMutations,
			m.OrdersCreated,
			m.OrderValue,
			m.OrderItemCount,
			m.OrderStatusChanges,
			m.CheckoutCompleted,
			m.CheckoutFailed,
			m.OperationDuration,
		)
	}

	return m
}

func (m *Business) CartMutation(operation string) {
	if m == nil {
		return
	}
	m.CartMutations.WithLabelValues(operation).Inc()
}

func (m *Business) OrderCreated(paymentMethod, source string, total decimal.Decimal, items int) {
	if m == nil {
		return
	}
	m.OrdersCreated.WithLabelValues(paymentMethod, source).Inc()
	m.OrderValue.WithLabelValues(paymentMethod).Observe(total.InexactFloat64())
	m.OrderItemCount.Observe(float64(items))
}

func (m *Business) StatusChanged(from, to string) {
	if m == nil {
		return
	}
	m.OrderStatusChanges.WithLabelValues(from, to).Inc()
}

func (m *Business) Checkout(code string) {
	if m == nil {
		return
	}
	if code == "" {
		m.CheckoutCompleted.Inc()
		return
	}
	m.CheckoutFailed.WithLabelValues(code).Inc()
}

// Observe records how long operation took since t was started.
func (m *Business) Observe(operation string, t *Timer) {
	if m == nil || t == nil {
		return
	}
	m.OperationDuration.WithLabelValues(operation).Observe(t.Duration().Seconds())
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
