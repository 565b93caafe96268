// Package telemetry holds business-level Prometheus metrics, separate
// from the HTTP request metrics in middleware.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/snuggle-shop/snuggle/internal/currency"
)

// BusinessMetrics holds Prometheus metrics for store-level observability.
type BusinessMetrics struct {
	// Orders
	OrdersPlaced   *prometheus.CounterVec
	OrderValue     prometheus.Histogram
	OrderItemCount prometheus.Histogram

	// Payments
	PaymentsSucceeded prometheus.Counter
	PaymentsFailed    prometheus.Counter

	// Coupons
	CouponsApplied  *prometheus.CounterVec
	CouponsRejected prometheus.Counter

	// Reviews
	ReviewsCreated prometheus.Counter
}

// NewBusinessMetrics creates and registers all business metrics on the
// default registry, alongside the HTTP metrics served at /metrics.
func NewBusinessMetrics(namespace string) *BusinessMetrics {
	if namespace == "" {
		namespace = "snuggle"
	}

	subsystem := "business"

	return &BusinessMetrics{
		OrdersPlaced: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_placed_total",
				Help:      "Total orders placed at checkout",
			},
			[]string{"payment_method"},
		),
		OrderValue: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_value_rupees",
				Help:      "Order totals in rupees",
				Buckets:   []float64{100, 250, 500, 1000, 2500, 5000, 10000, 25000},
			},
		),
		OrderItemCount: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_item_count",
				Help:      "Number of line items per order",
				Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
			},
		),
		PaymentsSucceeded: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "payments_succeeded_total",
				Help:      "Total payments confirmed via provider webhook",
			},
		),
		PaymentsFailed: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "payments_failed_total",
				Help:      "Total failed payment attempts reported by the provider",
			},
		),
		CouponsApplied: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "coupons_applied_total",
				Help:      "Total successful coupon validations",
			},
			[]string{"coupon_type"},
		),
		CouponsRejected: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "coupons_rejected_total",
				Help:      "Total coupon validations that failed",
			},
		),
		ReviewsCreated: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "reviews_created_total",
				Help:      "Total product reviews submitted",
			},
		),
	}
}

// RecordOrder tracks a placed order's headline numbers.
func (m *BusinessMetrics) RecordOrder(paymentMethod string, total currency.Paise, itemCount int) {
	if m == nil {
		return
	}
	m.OrdersPlaced.WithLabelValues(paymentMethod).Inc()
	m.OrderValue.Observe(float64(total) / 100)
	m.OrderItemCount.Observe(float64(itemCount))
}

// RecordCouponApplied tracks a successful coupon validation.
func (m *BusinessMetrics) RecordCouponApplied(couponType string) {
	if m == nil {
		return
	}
	m.CouponsApplied.WithLabelValues(couponType).Inc()
}

// RecordCouponRejected tracks a failed coupon validation.
func (m *BusinessMetrics) RecordCouponRejected() {
	if m == nil {
		return
	}
	m.CouponsRejected.Inc()
}

// RecordPayment tracks a payment outcome reported by the provider.
func (m *BusinessMetrics) RecordPayment(succeeded bool) {
	if m == nil {
		return
	}
	if succeeded {
		m.PaymentsSucceeded.Inc()
	} else {
		m.PaymentsFailed.Inc()
	}
}

// RecordReview tracks a submitted product review.
func (m *BusinessMetrics) RecordReview() {
	if m == nil {
		return
	}
	m.ReviewsCreated.Inc()
}
